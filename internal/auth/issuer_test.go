package auth

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/repo"
)

// memStore is an in-memory UserStore that counts writes.
type memStore struct {
	mu      sync.Mutex
	byID    map[int64]*entity.User
	nextID  int64
	writes  int
	failGet error
}

func newMemStore() *memStore { return &memStore{byID: map[int64]*entity.User{}} }

func (m *memStore) Create(_ context.Context, u *entity.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, existing := range m.byID {
		if existing.Email == u.Email {
			return userrepo.ErrDuplicateKey
		}
	}
	m.nextID++
	m.writes++
	u.ID = m.nextID
	cp := *u
	m.byID[u.ID] = &cp
	return nil
}

func (m *memStore) GetByEmail(_ context.Context, email string) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	for _, u := range m.byID {
		if u.Email == email {
			cp := *u
			return &cp, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (m *memStore) GetByID(_ context.Context, id int64) (*entity.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGet != nil {
		return nil, m.failGet
	}
	u, ok := m.byID[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	cp := *u
	return &cp, nil
}

// countingHasher records Verify calls.
type countingHasher struct {
	BcryptHasher
	verifies int
}

func (c *countingHasher) Verify(hash, pw string) (bool, error) {
	c.verifies++
	return c.BcryptHasher.Verify(hash, pw)
}

func testConfig() Config {
	return Config{
		AccessSecret:  string(accessSecret),
		RefreshSecret: string(refreshSecret),
		AccessTTL:     30 * time.Minute,
		RefreshTTL:    7 * 24 * time.Hour,
		BcryptCost:    bcrypt.MinCost,
	}
}

func newTestIssuer(store UserStore) *Issuer {
	return NewIssuer(store, BcryptHasher{Cost: bcrypt.MinCost}, nil, testConfig(), nil)
}

func register(t *testing.T, iss *Issuer, email, pw string) TokenPair {
	t.Helper()
	pair, err := iss.Register(context.Background(), RegisterInput{
		Credential: Credential{Email: email, Password: pw},
		FirstName:  "Ada",
	})
	require.NoError(t, err)
	return pair
}

func TestIssuer_Register(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	iss := newTestIssuer(store)

	pair := register(t, iss, "u1@example.com", "P@ss1")
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEqual(t, pair.AccessToken, pair.RefreshToken)
	assert.Equal(t, 1, store.writes)

	stored, err := store.GetByEmail(context.Background(), "u1@example.com")
	require.NoError(t, err)
	assert.NotEqual(t, "P@ss1", stored.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(stored.PasswordHash), []byte("P@ss1")))

	codec := NewTokenCodec()
	p, err := codec.Verify(pair.AccessToken, accessSecret)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, p.SubjectID)
	assert.Equal(t, "u1@example.com", p.Email)

	p, err = codec.Verify(pair.RefreshToken, refreshSecret)
	require.NoError(t, err)
	assert.Equal(t, stored.ID, p.SubjectID)
	assert.WithinDuration(t, p.IssuedAt.Add(7*24*time.Hour), p.ExpiresAt, time.Second)
}

func TestIssuer_RegisterDuplicate(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	iss := newTestIssuer(store)
	register(t, iss, "u1@example.com", "P@ss1")

	pair, err := iss.Register(context.Background(), RegisterInput{
		Credential: Credential{Email: "u1@example.com", Password: "other"},
		FirstName:  "Bob",
	})
	assert.ErrorIs(t, err, ErrDuplicateEmail)
	assert.Empty(t, pair.AccessToken)
	assert.Equal(t, 1, store.writes)
}

func TestIssuer_Login(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	iss := newTestIssuer(store)
	register(t, iss, "u1@example.com", "P@ss1")

	pair, err := iss.Login(context.Background(), Credential{Email: "u1@example.com", Password: "P@ss1"})
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.Equal(t, 1, store.writes, "login must not write")
}

func TestIssuer_LoginRejectsUniformly(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	hasher := &countingHasher{BcryptHasher: BcryptHasher{Cost: bcrypt.MinCost}}
	iss := NewIssuer(store, hasher, nil, testConfig(), nil)
	register(t, iss, "u1@example.com", "P@ss1")

	_, wrongPw := iss.Login(context.Background(), Credential{Email: "u1@example.com", Password: "nope"})
	_, unknown := iss.Login(context.Background(), Credential{Email: "ghost@example.com", Password: "P@ss1"})

	assert.ErrorIs(t, wrongPw, ErrInvalidCredentials)
	assert.ErrorIs(t, unknown, ErrInvalidCredentials)
	assert.Equal(t, wrongPw, unknown)
	assert.Equal(t, 2, hasher.verifies, "unknown email still runs a comparison")
}

func TestIssuer_LoginStoreError(t *testing.T) {
	t.Parallel()
	store := newMemStore()
	store.failGet = errors.New("db down")
	iss := newTestIssuer(store)

	_, err := iss.Login(context.Background(), Credential{Email: "u1@example.com", Password: "P@ss1"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestIssuer_IssueTokenPairSignFailure(t *testing.T) {
	t.Parallel()
	cfg := testConfig()
	cfg.RefreshSecret = ""
	iss := NewIssuer(newMemStore(), BcryptHasher{Cost: bcrypt.MinCost}, nil, cfg, nil)

	pair, err := iss.IssueTokenPair(context.Background(), &entity.User{ID: 1, Email: "a@b.co"})
	assert.Error(t, err)
	assert.Equal(t, TokenPair{}, pair)
}
