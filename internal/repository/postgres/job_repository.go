package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
)

const jobColumns = `
id, service_type, status, street, city, state, country, postal_code,
customer_id, provider_id, scheduled_start, scheduled_end,
total_price_cents, currency, notes, created_at, updated_at`

// JobRepository implements jobapi.Service on Postgres. It is the
// authoritative side of the workflow: status transitions and the
// provider-assignment race are enforced in SQL, in single statements.
type JobRepository struct {
	pool *pgxpool.Pool
}

func NewJobRepository(pool *pgxpool.Pool) *JobRepository {
	return &JobRepository{pool: pool}
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanJob(row rowScanner) (*entity.Job, error) {
	var j entity.Job
	err := row.Scan(
		&j.ID,
		&j.ServiceType,
		&j.Status,
		&j.Address.Street,
		&j.Address.City,
		&j.Address.State,
		&j.Address.Country,
		&j.Address.PostalCode,
		&j.CustomerID,
		&j.ProviderID,
		&j.ScheduledStart,
		&j.ScheduledEnd,
		&j.TotalPriceCents,
		&j.Currency,
		&j.Notes,
		&j.CreatedAt,
		&j.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &j, nil
}

func (r *JobRepository) collect(ctx context.Context, q string, args ...any) ([]entity.Job, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	jobs := []entity.Job{}
	for rows.Next() {
		j, err := scanJob(rows)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, *j)
	}
	return jobs, rows.Err()
}

func (r *JobRepository) List(ctx context.Context, status entity.JobStatus) ([]entity.Job, error) {
	if status == "" {
		return r.collect(ctx, `SELECT `+jobColumns+` FROM jobs ORDER BY created_at DESC;`)
	}
	return r.collect(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE status=$1 ORDER BY created_at DESC;`, status)
}

func (r *JobRepository) Get(ctx context.Context, id string) (*entity.Job, error) {
	j, err := scanJob(r.pool.QueryRow(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE id=$1;`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, jobapi.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepository) Create(ctx context.Context, p jobapi.CreateJobParams) (*entity.Job, error) {
	const q = `
INSERT INTO jobs (
	id, service_type, status, street, city, state, country, postal_code,
	customer_id, scheduled_start, scheduled_end, total_price_cents, currency, notes
) VALUES ($1, $2, 'PENDING', $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
RETURNING ` + jobColumns + `;`

	j, err := scanJob(r.pool.QueryRow(ctx, q,
		uuid.NewString(),
		p.ServiceType,
		p.Address.Street,
		p.Address.City,
		p.Address.State,
		p.Address.Country,
		p.Address.PostalCode,
		p.CustomerID,
		p.ScheduledStart,
		p.ScheduledEnd,
		p.TotalPriceCents,
		p.Currency,
		p.Notes,
	))
	if err != nil {
		return nil, fmt.Errorf("insert job: %w", err)
	}
	return j, nil
}

// statusPreconditions lists the statuses a job may be in for each target
// status. Acceptance is handled separately because it also claims the job.
var statusPreconditions = map[entity.JobStatus][]string{
	entity.StatusInProgress: {string(entity.StatusAccepted)},
	entity.StatusCompleted:  {string(entity.StatusInProgress)},
	entity.StatusCancelled:  {string(entity.StatusPending), string(entity.StatusAccepted)},
}

// Update applies a partial update with the transition preconditions baked
// into the statement, so concurrent actors cannot interleave between check
// and write. A vanished precondition surfaces as ErrConflict.
func (r *JobRepository) Update(ctx context.Context, id string, upd jobapi.JobUpdate) (*entity.Job, error) {
	if upd.ProviderID != nil {
		return r.accept(ctx, id, *upd.ProviderID)
	}
	if upd.Status == nil {
		return r.Get(ctx, id)
	}

	allowed, ok := statusPreconditions[*upd.Status]
	if !ok {
		return nil, jobapi.ErrConflict
	}

	const q = `
UPDATE jobs SET status=$2, updated_at=now()
WHERE id=$1 AND status = ANY($3)
RETURNING ` + jobColumns + `;`

	j, err := scanJob(r.pool.QueryRow(ctx, q, id, *upd.Status, allowed))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflictOrNotFound(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

// accept claims a pending, unassigned job for a provider. The WHERE clause
// is the race rule: two providers racing on the same job means exactly one
// row update, the loser gets ErrConflict.
func (r *JobRepository) accept(ctx context.Context, id, providerID string) (*entity.Job, error) {
	const q = `
UPDATE jobs SET status='ACCEPTED', provider_id=$2, updated_at=now()
WHERE id=$1 AND status='PENDING' AND provider_id IS NULL
RETURNING ` + jobColumns + `;`

	j, err := scanJob(r.pool.QueryRow(ctx, q, id, providerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, r.conflictOrNotFound(ctx, id)
	}
	if err != nil {
		return nil, err
	}
	return j, nil
}

func (r *JobRepository) conflictOrNotFound(ctx context.Context, id string) error {
	if _, err := r.Get(ctx, id); errors.Is(err, jobapi.ErrNotFound) {
		return jobapi.ErrNotFound
	}
	return jobapi.ErrConflict
}

func (r *JobRepository) FindByCustomerID(ctx context.Context, customerID string) ([]entity.Job, error) {
	return r.collect(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE customer_id=$1 ORDER BY created_at DESC;`, customerID)
}

func (r *JobRepository) FindByProviderID(ctx context.Context, providerID string) ([]entity.Job, error) {
	return r.collect(ctx,
		`SELECT `+jobColumns+` FROM jobs WHERE provider_id=$1 ORDER BY created_at DESC;`, providerID)
}
