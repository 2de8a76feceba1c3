package postgres

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/suleigolden/sulber-core/internal/entity"
	"github.com/suleigolden/sulber-core/internal/jobapi"
)

// ProfileRepository implements jobapi.ProfileService on Postgres. Address
// columns are nullable as a group: a profile without a declared location
// yields a nil Address, which matches no jobs.
type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Profile(ctx context.Context, userID string) (*entity.UserProfile, error) {
	const q = `
SELECT user_id, role, street, city, state, country, postal_code
FROM profiles
WHERE user_id=$1;`

	var (
		profile entity.UserProfile
		street  *string
		city    *string
		state   *string
		country *string
		postal  *string
	)
	err := r.pool.QueryRow(ctx, q, userID).Scan(
		&profile.UserID, &profile.Role, &street, &city, &state, &country, &postal,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, jobapi.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	if street != nil || city != nil || state != nil || country != nil || postal != nil {
		addr := entity.Address{}
		if street != nil {
			addr.Street = *street
		}
		if city != nil {
			addr.City = *city
		}
		if state != nil {
			addr.State = *state
		}
		if country != nil {
			addr.Country = *country
		}
		if postal != nil {
			addr.PostalCode = *postal
		}
		profile.Address = &addr
	}
	return &profile, nil
}
