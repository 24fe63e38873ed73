package auth

import (
	"context"
	"errors"
	"time"

	"github.com/tiagocodinha/StagelinkApproval/internal/repo/postgres"
	redisrepo "github.com/tiagocodinha/StagelinkApproval/internal/repo/redis"
)

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
)

// AuthResult carries the freshly issued token pair plus the signed-in
// profile for the client shell.
type AuthResult struct {
	AccessToken  string
	RefreshToken string
	UserID       int64
	Email        string
	FullName     string
	Role         string
}

type ProfileRepo interface {
	GetByEmail(ctx context.Context, email string) (postgres.ProfileRecord, error)
}

type SessionRepo interface {
	Save(ctx context.Context, record redisrepo.SessionRecord, ttl time.Duration) error
	GetBySID(ctx context.Context, sid string) (redisrepo.SessionRecord, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (redisrepo.SessionRecord, error)
	Delete(ctx context.Context, record redisrepo.SessionRecord) error
	DeleteAllForUser(ctx context.Context, userID int64) error
}
