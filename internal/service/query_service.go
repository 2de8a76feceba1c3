package service

import (
	"context"
	"encoding/json"
	"errors"
	"sort"
	"time"

	"github.com/suleigolden/sulber-core/internal/cache"
	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
	"github.com/suleigolden/sulber-core/internal/match"
)

const defaultStaleTTL = 30 * time.Second

// JobQueryService is the role-aware job read path. Results are cached per
// key for a bounded staleness window; a fetch that loses a generation race
// (the key was patched or invalidated while it was in flight) discards its
// cache write instead of clobbering fresher data.
type JobQueryService struct {
	api      jobapi.Service
	cache    cache.Store
	staleTTL time.Duration

	// called once per 401-class failure; wired to session teardown
	onUnauthorized func()

	now func() time.Time
}

func NewJobQueryService(api jobapi.Service, store cache.Store, staleTTL time.Duration, onUnauthorized func()) *JobQueryService {
	if staleTTL <= 0 {
		staleTTL = defaultStaleTTL
	}
	return &JobQueryService{
		api:            api,
		cache:          store,
		staleTTL:       staleTTL,
		onUnauthorized: onUnauthorized,
		now:            time.Now,
	}
}

func encodeJobs(jobs []entity.Job) ([]byte, error) {
	return json.Marshal(jobs)
}

func decodeJobs(data []byte) ([]entity.Job, error) {
	var jobs []entity.Job
	if err := json.Unmarshal(data, &jobs); err != nil {
		return nil, err
	}
	return jobs, nil
}

func (s *JobQueryService) notifyUnauthorized(err error) {
	if errors.Is(err, jobapi.ErrUnauthorized) && s.onUnauthorized != nil {
		s.onUnauthorized()
	}
}

// cachedFetch serves from cache while fresh, otherwise fetches and writes
// back generation-checked. On fetch failure the last-known-good (possibly
// stale) list is returned alongside the error.
func (s *JobQueryService) cachedFetch(ctx context.Context, key string, fetch func() ([]entity.Job, error)) ([]entity.Job, error) {
	entry, ok, cacheErr := s.cache.Get(ctx, key)
	if cacheErr == nil && ok && s.now().Sub(entry.StoredAt) < s.staleTTL {
		if jobs, err := decodeJobs(entry.Data); err == nil {
			return jobs, nil
		}
	}

	gen, genErr := s.cache.Generation(ctx, key)

	jobs, err := fetch()
	if err != nil {
		s.notifyUnauthorized(err)
		if cacheErr == nil && ok {
			if stale, decErr := decodeJobs(entry.Data); decErr == nil {
				return stale, err
			}
		}
		return []entity.Job{}, err
	}

	if genErr == nil {
		if data, encErr := encodeJobs(jobs); encErr == nil {
			// superseded writes are dropped on purpose
			_, _ = s.cache.CompareAndSet(ctx, key, gen, data)
		}
	}
	return jobs, nil
}

// AvailableJobs lists PENDING, unassigned jobs inside the provider's
// service area. Without a provider id or declared address there is nothing
// to match, so the result is empty and no fetch happens.
func (s *JobQueryService) AvailableJobs(ctx context.Context, providerID string, addr *entity.Address) ([]entity.Job, error) {
	if providerID == "" || addr == nil {
		return []entity.Job{}, nil
	}

	key := cache.AvailableJobsKey(providerID, addr)
	return s.cachedFetch(ctx, key, func() ([]entity.Job, error) {
		pending, err := s.api.List(ctx, entity.StatusPending)
		if err != nil {
			return nil, err
		}
		matched := []entity.Job{}
		for i := range pending {
			if match.Available(&pending[i], addr) {
				matched = append(matched, pending[i])
			}
		}
		return matched, nil
	})
}

// JobsForRole fetches the actor's own jobs: by customer id for customers,
// by provider id for providers. Unknown roles get an empty list.
func (s *JobQueryService) JobsForRole(ctx context.Context, userID string, role entity.Role) ([]entity.Job, error) {
	if userID == "" {
		return []entity.Job{}, nil
	}

	var fetch func() ([]entity.Job, error)
	switch role {
	case entity.RoleCustomer:
		fetch = func() ([]entity.Job, error) { return s.api.FindByCustomerID(ctx, userID) }
	case entity.RoleProvider:
		fetch = func() ([]entity.Job, error) { return s.api.FindByProviderID(ctx, userID) }
	default:
		return []entity.Job{}, nil
	}

	return s.cachedFetch(ctx, cache.RoleJobsKey(userID), fetch)
}

// ActiveJobs partitions out jobs a provider is currently responsible for.
func ActiveJobs(jobs []entity.Job) []entity.Job {
	out := []entity.Job{}
	for _, j := range jobs {
		if j.Status == entity.StatusAccepted || j.Status == entity.StatusInProgress {
			out = append(out, j)
		}
	}
	return out
}

// CompletedJobs partitions out finished jobs.
func CompletedJobs(jobs []entity.Job) []entity.Job {
	out := []entity.Job{}
	for _, j := range jobs {
		if j.Status == entity.StatusCompleted {
			out = append(out, j)
		}
	}
	return out
}

// SortedByNewest returns a copy ordered by creation time, newest first.
func SortedByNewest(jobs []entity.Job) []entity.Job {
	out := make([]entity.Job, len(jobs))
	copy(out, jobs)
	sort.Slice(out, func(i, k int) bool {
		return out[i].CreatedAt.After(out[k].CreatedAt)
	})
	return out
}
