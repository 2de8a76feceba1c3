package service

import (
	"context"
	"errors"

	"github.com/suleigolden/sulber-core/internal/cache"
	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
)

// JobActionService drives the legal status transitions. Every mutation
// follows the same protocol: validate the transition table first, patch the
// affected cached lists optimistically (keeping exact byte snapshots),
// issue the remote update, then either invalidate the lists (success) or
// restore the snapshots (failure). The backend stays the source of truth;
// a rejected accept race shows up here as jobapi.ErrConflict and rolls the
// cache back.
//
// Callers issue one action at a time per actor; the service does not
// pipeline requests.
type JobActionService struct {
	api            jobapi.Service
	cache          cache.Store
	onUnauthorized func()
}

func NewJobActionService(api jobapi.Service, store cache.Store, onUnauthorized func()) *JobActionService {
	return &JobActionService{api: api, cache: store, onUnauthorized: onUnauthorized}
}

type snapshot struct {
	key     string
	data    []byte
	present bool
}

func (s *JobActionService) snapshotKey(ctx context.Context, key string) snapshot {
	entry, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return snapshot{key: key}
	}
	return snapshot{key: key, data: entry.Data, present: true}
}

// restore puts a key back to its exact pre-optimistic state. Keys that had
// no cached value are invalidated so the speculative write disappears.
func (s *JobActionService) restore(ctx context.Context, snaps ...snapshot) {
	for _, sn := range snaps {
		if sn.present {
			_ = s.cache.Set(ctx, sn.key, sn.data)
		} else {
			_ = s.cache.Invalidate(ctx, sn.key)
		}
	}
}

func (s *JobActionService) notifyUnauthorized(err error) {
	if errors.Is(err, jobapi.ErrUnauthorized) && s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

// patchRoleList rewrites the actor's cached job list through fn and stores
// the result. No-op when the list was never cached.
func (s *JobActionService) patchRoleList(ctx context.Context, key string, fn func([]entity.Job) []entity.Job) {
	entry, ok, err := s.cache.Get(ctx, key)
	if err != nil || !ok {
		return
	}
	jobs, err := decodeJobs(entry.Data)
	if err != nil {
		return
	}
	data, err := encodeJobs(fn(jobs))
	if err != nil {
		return
	}
	_ = s.cache.Set(ctx, key, data)
}

// Accept claims a pending job for the provider: PENDING -> ACCEPTED plus
// the provider assignment, optimistically moving the job from the
// available list into the provider's own list.
func (s *JobActionService) Accept(ctx context.Context, p entity.Provider, job *entity.Job) (*entity.Job, error) {
	if err := p.CanAccept(job); err != nil {
		return nil, err
	}

	availKey := cache.AvailableJobsKey(p.ID, &p.Address)
	roleKey := cache.RoleJobsKey(p.ID)
	snaps := []snapshot{
		s.snapshotKey(ctx, availKey),
		s.snapshotKey(ctx, roleKey),
	}

	patched := *job
	patched.Status = entity.StatusAccepted
	providerID := p.ID
	patched.ProviderID = &providerID

	s.patchRoleList(ctx, roleKey, func(jobs []entity.Job) []entity.Job {
		return append(jobs, patched)
	})
	s.patchRoleList(ctx, availKey, func(jobs []entity.Job) []entity.Job {
		out := jobs[:0]
		for _, j := range jobs {
			if j.ID != job.ID {
				out = append(out, j)
			}
		}
		return out
	})

	accepted := entity.StatusAccepted
	updated, err := s.api.Update(ctx, job.ID, jobapi.JobUpdate{Status: &accepted, ProviderID: &providerID})
	if err != nil {
		s.restore(ctx, snaps...)
		s.notifyUnauthorized(err)
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, availKey, roleKey)
	return updated, nil
}

// Start moves an accepted job to IN_PROGRESS.
func (s *JobActionService) Start(ctx context.Context, p entity.Provider, job *entity.Job) (*entity.Job, error) {
	return s.advance(ctx, p.ID, job, entity.StatusInProgress, p.CanStart(job))
}

// Complete moves an in-progress job to COMPLETED.
func (s *JobActionService) Complete(ctx context.Context, p entity.Provider, job *entity.Job) (*entity.Job, error) {
	return s.advance(ctx, p.ID, job, entity.StatusCompleted, p.CanComplete(job))
}

// Cancel terminalizes the customer's own pending or accepted job.
func (s *JobActionService) Cancel(ctx context.Context, c entity.Customer, job *entity.Job) (*entity.Job, error) {
	return s.advance(ctx, c.ID, job, entity.StatusCancelled, c.CanCancel(job))
}

// advance is the shared in-place status transition: patch the job inside
// the actor's cached list, persist, invalidate or roll back.
func (s *JobActionService) advance(ctx context.Context, actorID string, job *entity.Job, target entity.JobStatus, validation error) (*entity.Job, error) {
	if validation != nil {
		return nil, validation
	}

	roleKey := cache.RoleJobsKey(actorID)
	snap := s.snapshotKey(ctx, roleKey)

	s.patchRoleList(ctx, roleKey, func(jobs []entity.Job) []entity.Job {
		for i := range jobs {
			if jobs[i].ID == job.ID {
				jobs[i].Status = target
			}
		}
		return jobs
	})

	updated, err := s.api.Update(ctx, job.ID, jobapi.JobUpdate{Status: &target})
	if err != nil {
		s.restore(ctx, snap)
		s.notifyUnauthorized(err)
		return nil, err
	}

	_ = s.cache.Invalidate(ctx, roleKey)
	return updated, nil
}

// Create files a new service request for the customer. There is no
// optimistic patch for creation; the customer's list is invalidated so the
// next read picks the job up from the backend.
func (s *JobActionService) Create(ctx context.Context, c entity.Customer, p jobapi.CreateJobParams) (*entity.Job, error) {
	p.CustomerID = c.ID
	job, err := s.api.Create(ctx, p)
	if err != nil {
		s.notifyUnauthorized(err)
		return nil, err
	}
	_ = s.cache.Invalidate(ctx, cache.RoleJobsKey(c.ID))
	return job, nil
}
