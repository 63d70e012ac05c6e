package bookmark

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/bookmark/entity"
)

// Store is the persistence contract for bookmarks.
type Store interface {
	Create(ctx context.Context, b *entity.Bookmark) error
	ListByOwner(ctx context.Context, ownerID int64) ([]*entity.Bookmark, error)
	GetByID(ctx context.Context, id int64) (*entity.Bookmark, error)
	Update(ctx context.Context, b *entity.Bookmark) error
	Delete(ctx context.Context, id, ownerID int64) error
}

// Service encapsulates business logic for bookmarks. Every operation is
// scoped to the owner passed in; anything else reads as auth.ErrNotFound.
type Service struct {
	repo Store
}

// NewService constructs a Service with the provided repository.
func NewService(r Store) *Service {
	return &Service{repo: r}
}

type CreateInput struct {
	Title       string
	Description *string
	Link        string
}

// EditInput carries the fields to change; nil means unchanged.
type EditInput struct {
	Title       *string
	Description *string
	Link        *string
}

// List returns the bookmarks of ownerID.
func (s *Service) List(ctx context.Context, ownerID int64) ([]*entity.Bookmark, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

// Get returns bookmark id if ownerID owns it.
func (s *Service) Get(ctx context.Context, ownerID, id int64) (*entity.Bookmark, error) {
	return auth.Authorize(ctx, ownerID, s.loader(id))
}

// Create stores a new bookmark owned by ownerID.
func (s *Service) Create(ctx context.Context, ownerID int64, in CreateInput) (*entity.Bookmark, error) {
	b := &entity.Bookmark{
		OwnerID:     ownerID,
		Title:       in.Title,
		Description: in.Description,
		Link:        in.Link,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, fmt.Errorf("create bookmark: %w", err)
	}
	return b, nil
}

// Update applies in to bookmark id if ownerID owns it.
func (s *Service) Update(ctx context.Context, ownerID, id int64, in EditInput) (*entity.Bookmark, error) {
	b, err := auth.Authorize(ctx, ownerID, s.loader(id))
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		b.Title = *in.Title
	}
	if in.Description != nil {
		b.Description = in.Description
	}
	if in.Link != nil {
		b.Link = *in.Link
	}
	if err := s.repo.Update(ctx, b); err != nil {
		// deleted between the ownership check and the write
		if errors.Is(err, sql.ErrNoRows) {
			return nil, auth.ErrNotFound
		}
		return nil, fmt.Errorf("update bookmark %d: %w", id, err)
	}
	return b, nil
}

// Delete removes bookmark id if ownerID owns it.
func (s *Service) Delete(ctx context.Context, ownerID, id int64) error {
	if _, err := auth.Authorize(ctx, ownerID, s.loader(id)); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id, ownerID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return auth.ErrNotFound
		}
		return fmt.Errorf("delete bookmark %d: %w", id, err)
	}
	return nil
}

func (s *Service) loader(id int64) func(context.Context) (*entity.Bookmark, error) {
	return func(ctx context.Context) (*entity.Bookmark, error) {
		return s.repo.GetByID(ctx, id)
	}
}
