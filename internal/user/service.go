package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/repo"
)

// Store is the persistence contract of the profile operations.
type Store interface {
	GetByID(ctx context.Context, id int64) (*entity.User, error)
	Update(ctx context.Context, u *entity.User) error
}

// UserService edits profiles on behalf of the authenticated user.
type UserService struct {
	repo Store
}

func NewUserService(r Store) *UserService {
	return &UserService{repo: r}
}

// EditInput carries the fields to change; nil means unchanged.
type EditInput struct {
	Email     *string
	FirstName *string
	LastName  *string
}

// Edit updates user targetID on behalf of identityID. Input is expected to be
// normalized by the caller. Editing anyone but yourself is reported as
// auth.ErrNotFound; a taken email as auth.ErrDuplicateEmail.
func (s *UserService) Edit(ctx context.Context, identityID, targetID int64, in EditInput) (*entity.User, error) {
	u, err := auth.Authorize(ctx, identityID, func(ctx context.Context) (*entity.User, error) {
		return s.repo.GetByID(ctx, targetID)
	})
	if err != nil {
		return nil, err
	}
	if in.Email != nil {
		u.Email = *in.Email
	}
	if in.FirstName != nil {
		u.FirstName = *in.FirstName
	}
	if in.LastName != nil {
		u.LastName = in.LastName
	}
	if err := s.repo.Update(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateKey) {
			return nil, auth.ErrDuplicateEmail
		}
		return nil, fmt.Errorf("update user %d: %w", u.ID, err)
	}
	return u, nil
}
