// Package jobapi defines the job and profile collaborator contracts the
// core consumes, plus an HTTP client for deployments where they are remote.
package jobapi

import (
	"context"
	"errors"
	"time"

	"github.com/suleigolden/sulber-core/internal/entity"
)

var (
	// ErrUnauthorized maps 401-class failures. The query/action services
	// react by tearing down the session; nothing is recoverable locally.
	ErrUnauthorized = errors.New("unauthorized")

	ErrNotFound = errors.New("job not found")

	// ErrConflict means the backend rejected the transition at commit time,
	// typically because another provider accepted the job first.
	ErrConflict = errors.New("conflicting job update")
)

// JobUpdate is a partial update. ProviderID may only be set together with
// Status=ACCEPTED; the backend enforces the assignment race atomically.
type JobUpdate struct {
	Status     *entity.JobStatus `json:"status,omitempty"`
	ProviderID *string           `json:"providerId,omitempty"`
}

type CreateJobParams struct {
	CustomerID      string             `json:"customerId"`
	ServiceType     entity.ServiceType `json:"serviceType"`
	Address         entity.Address     `json:"address"`
	ScheduledStart  time.Time          `json:"scheduledStart"`
	ScheduledEnd    time.Time          `json:"scheduledEnd"`
	TotalPriceCents int64              `json:"totalPriceCents"`
	Currency        string             `json:"currency"`
	Notes           string             `json:"notes,omitempty"`
}

// Service is the job collaborator port. Implementations: postgres.JobRepository
// (local store) and Client (remote REST backend).
type Service interface {
	List(ctx context.Context, status entity.JobStatus) ([]entity.Job, error)
	Get(ctx context.Context, id string) (*entity.Job, error)
	Create(ctx context.Context, p CreateJobParams) (*entity.Job, error)
	Update(ctx context.Context, id string, upd JobUpdate) (*entity.Job, error)
	FindByCustomerID(ctx context.Context, customerID string) ([]entity.Job, error)
	FindByProviderID(ctx context.Context, providerID string) ([]entity.Job, error)
}

// ProfileService is the user/provider profile collaborator port.
type ProfileService interface {
	Profile(ctx context.Context, userID string) (*entity.UserProfile, error)
}
