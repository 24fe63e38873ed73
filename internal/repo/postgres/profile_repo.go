package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var ErrProfileNotFound = errors.New("profile not found")

type ProfileRepo struct {
	pool *pgxpool.Pool
}

type ProfileRecord struct {
	ID           int64
	Email        string
	FullName     string
	PasswordHash string
	CreatedAt    time.Time
}

func NewProfileRepo(pool *pgxpool.Pool) *ProfileRepo {
	return &ProfileRepo{pool: pool}
}

func (r *ProfileRepo) GetByEmail(ctx context.Context, email string) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if strings.TrimSpace(email) == "" {
		return ProfileRecord{}, fmt.Errorf("invalid email")
	}

	return r.queryOne(ctx, `
SELECT id, email, COALESCE(full_name, ''), password_hash, created_at
FROM profiles
WHERE LOWER(email) = LOWER($1)
LIMIT 1
`, strings.TrimSpace(email))
}

func (r *ProfileRepo) GetByID(ctx context.Context, id int64) (ProfileRecord, error) {
	if r.pool == nil {
		return ProfileRecord{}, fmt.Errorf("postgres pool is nil")
	}
	if id <= 0 {
		return ProfileRecord{}, fmt.Errorf("invalid profile id")
	}

	return r.queryOne(ctx, `
SELECT id, email, COALESCE(full_name, ''), password_hash, created_at
FROM profiles
WHERE id = $1
LIMIT 1
`, id)
}

// ListClients returns every non-admin profile for the assignment
// dropdown, ordered by email.
func (r *ProfileRepo) ListClients(ctx context.Context, adminEmail string) ([]ProfileRecord, error) {
	if r.pool == nil {
		return nil, fmt.Errorf("postgres pool is nil")
	}

	rows, err := r.pool.Query(ctx, `
SELECT id, email, COALESCE(full_name, ''), password_hash, created_at
FROM profiles
WHERE LOWER(email) <> LOWER($1)
ORDER BY email ASC
`, strings.TrimSpace(adminEmail))
	if err != nil {
		return nil, fmt.Errorf("list client profiles: %w", err)
	}
	defer rows.Close()

	var profiles []ProfileRecord
	for rows.Next() {
		var profile ProfileRecord
		if err := rows.Scan(&profile.ID, &profile.Email, &profile.FullName, &profile.PasswordHash, &profile.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan profile: %w", err)
		}
		profiles = append(profiles, profile)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate profiles: %w", err)
	}

	return profiles, nil
}

func (r *ProfileRepo) queryOne(ctx context.Context, query string, args ...interface{}) (ProfileRecord, error) {
	var profile ProfileRecord
	err := r.pool.QueryRow(ctx, query, args...).Scan(
		&profile.ID,
		&profile.Email,
		&profile.FullName,
		&profile.PasswordHash,
		&profile.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return ProfileRecord{}, ErrProfileNotFound
		}
		return ProfileRecord{}, fmt.Errorf("query profile: %w", err)
	}
	return profile, nil
}
