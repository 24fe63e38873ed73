package auth

import (
	"context"

	"github.com/tiagocodinha/StagelinkApproval/internal/domain/enums"
)

type contextKey struct{}

var identityContextKey = contextKey{}

// Identity is the authenticated caller attached to a request context.
type Identity struct {
	UserID int64
	SID    string
	Email  string
	Role   enums.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == enums.RoleAdmin
}

func WithIdentity(ctx context.Context, identity Identity) context.Context {
	return context.WithValue(ctx, identityContextKey, identity)
}

func IdentityFromContext(ctx context.Context) (Identity, bool) {
	identity, ok := ctx.Value(identityContextKey).(Identity)
	return identity, ok
}
