package user

import (
	"context"
	"database/sql"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/repo"
)

type memStore struct {
	rows map[int64]*entity.User
}

func (m *memStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	u, ok := m.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

func (m *memStore) Update(_ context.Context, u *entity.User) error {
	for id, other := range m.rows {
		if id != u.ID && other.Email == u.Email {
			return userrepo.ErrDuplicateKey
		}
	}
	cp := *u
	m.rows[u.ID] = &cp
	return nil
}

func seeded() *memStore {
	return &memStore{rows: map[int64]*entity.User{
		1: {ID: 1, Email: "u1@example.com", FirstName: "Ada", PasswordHash: "h1"},
		2: {ID: 2, Email: "u2@example.com", FirstName: "Bob", PasswordHash: "h2"},
	}}
}

func strPtr(s string) *string { return &s }

func TestUserService_EditSelf(t *testing.T) {
	t.Parallel()
	store := seeded()
	svc := NewUserService(store)

	u, err := svc.Edit(context.Background(), 1, 1, EditInput{Email: strPtr("new@example.com"), LastName: strPtr("Lovelace")})
	require.NoError(t, err)
	assert.Equal(t, "new@example.com", u.Email)
	assert.Equal(t, "Ada", u.FirstName)
	assert.Equal(t, "Lovelace", *u.LastName)
	assert.Equal(t, "h1", store.rows[1].PasswordHash)
}

func TestUserService_EditOtherIsNotFound(t *testing.T) {
	t.Parallel()
	store := seeded()
	svc := NewUserService(store)

	_, err := svc.Edit(context.Background(), 1, 2, EditInput{FirstName: strPtr("Mallory")})
	assert.ErrorIs(t, err, auth.ErrNotFound)
	assert.Equal(t, "Bob", store.rows[2].FirstName)

	_, err = svc.Edit(context.Background(), 1, 99, EditInput{})
	assert.ErrorIs(t, err, auth.ErrNotFound)
}

func TestUserService_EditDuplicateEmail(t *testing.T) {
	t.Parallel()
	svc := NewUserService(seeded())

	_, err := svc.Edit(context.Background(), 1, 1, EditInput{Email: strPtr("u2@example.com")})
	assert.ErrorIs(t, err, auth.ErrDuplicateEmail)
}
