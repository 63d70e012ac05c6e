package auth

import (
	"context"
	"database/sql"
	"errors"
)

// Owned is implemented by records scoped to a single user.
type Owned interface {
	GetOwnerID() int64
}

// Authorize loads a record and hands it back only if identityID owns it.
// A missing record and someone else's record both return ErrNotFound so a
// caller cannot probe which ids exist.
func Authorize[T Owned](ctx context.Context, identityID int64, load func(context.Context) (T, error)) (T, error) {
	var zero T
	rec, err := load(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return zero, ErrNotFound
		}
		return zero, err
	}
	if rec.GetOwnerID() != identityID {
		return zero, ErrNotFound
	}
	return rec, nil
}
