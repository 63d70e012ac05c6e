package auth

import (
	"context"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
)

type contextKey struct {
	name string
}

var identityCtxKey = &contextKey{"identity"}

// WithIdentity attaches the resolved user to ctx.
func WithIdentity(ctx context.Context, u *entity.User) context.Context {
	return context.WithValue(ctx, identityCtxKey, u)
}

// IdentityFromContext returns the user attached by the guard.
func IdentityFromContext(ctx context.Context) (*entity.User, bool) {
	u, ok := ctx.Value(identityCtxKey).(*entity.User)
	return u, ok && u != nil
}

// IdentityID returns just the id of the attached user.
func IdentityID(ctx context.Context) (int64, bool) {
	u, ok := IdentityFromContext(ctx)
	if !ok {
		return 0, false
	}
	return u.ID, true
}
