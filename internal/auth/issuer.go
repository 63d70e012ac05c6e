package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/entity"
	userrepo "github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user/repo"
)

// UserStore is the slice of the user repository the auth core needs.
// Create returns userrepo.ErrDuplicateKey on a taken email; lookups return
// sql.ErrNoRows when nothing matches.
type UserStore interface {
	Create(ctx context.Context, u *entity.User) error
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	GetByID(ctx context.Context, id int64) (*entity.User, error)
}

// Credential is a login attempt. Password is plaintext and must not be
// stored or logged.
type Credential struct {
	Email    string
	Password string
}

// RegisterInput is a Credential plus the profile fields set at sign up.
type RegisterInput struct {
	Credential
	FirstName string
	LastName  *string
}

// TokenPair is returned to the client on register and login.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// Issuer orchestrates authentication and token issuance.
type Issuer struct {
	users  UserStore
	hasher PasswordHasher
	codec  *TokenCodec
	cfg    Config
	logger *zap.SugaredLogger

	dummyOnce sync.Once
	dummyHash string
}

func NewIssuer(users UserStore, hasher PasswordHasher, codec *TokenCodec, cfg Config, logger *zap.SugaredLogger) *Issuer {
	if hasher == nil {
		hasher = BcryptHasher{Cost: cfg.BcryptCost}
	}
	if codec == nil {
		codec = NewTokenCodec()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Issuer{users: users, hasher: hasher, codec: codec, cfg: cfg, logger: logger}
}

// Register creates the user and returns its first token pair. The insert is
// the only write.
func (s *Issuer) Register(ctx context.Context, in RegisterInput) (TokenPair, error) {
	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return TokenPair{}, fmt.Errorf("hash password: %w", err)
	}
	u := &entity.User{
		Email:        in.Email,
		PasswordHash: hash,
		FirstName:    in.FirstName,
		LastName:     in.LastName,
	}
	if err := s.users.Create(ctx, u); err != nil {
		if errors.Is(err, userrepo.ErrDuplicateKey) {
			return TokenPair{}, ErrDuplicateEmail
		}
		return TokenPair{}, fmt.Errorf("create user: %w", err)
	}
	s.logger.Infow("user registered", "user_id", u.ID)
	return s.IssueTokenPair(ctx, u)
}

// Login checks the credential and returns a fresh token pair. Unknown email
// and wrong password both yield ErrInvalidCredentials.
func (s *Issuer) Login(ctx context.Context, c Credential) (TokenPair, error) {
	u, err := s.users.GetByEmail(ctx, c.Email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// burn a comparison so a missing account costs as much as a bad password
			_, _ = s.hasher.Verify(s.dummy(), c.Password)
			return TokenPair{}, ErrInvalidCredentials
		}
		return TokenPair{}, fmt.Errorf("find user: %w", err)
	}
	ok, err := s.hasher.Verify(u.PasswordHash, c.Password)
	if err != nil {
		return TokenPair{}, fmt.Errorf("verify password for user %d: %w", u.ID, err)
	}
	if !ok {
		return TokenPair{}, ErrInvalidCredentials
	}
	return s.IssueTokenPair(ctx, u)
}

// IssueTokenPair signs the access and refresh tokens concurrently. Either
// both are returned or neither is.
func (s *Issuer) IssueTokenPair(ctx context.Context, u *entity.User) (TokenPair, error) {
	p := Payload{SubjectID: u.ID, Email: u.Email}
	var pair TokenPair
	g, _ := errgroup.WithContext(ctx)
	g.Go(func() error {
		tok, err := s.codec.Sign(p, []byte(s.cfg.AccessSecret), s.cfg.AccessTTL)
		pair.AccessToken = tok
		return err
	})
	g.Go(func() error {
		tok, err := s.codec.Sign(p, []byte(s.cfg.RefreshSecret), s.cfg.RefreshTTL)
		pair.RefreshToken = tok
		return err
	})
	if err := g.Wait(); err != nil {
		return TokenPair{}, fmt.Errorf("issue token pair: %w", err)
	}
	return pair, nil
}

func (s *Issuer) dummy() string {
	s.dummyOnce.Do(func() {
		s.dummyHash, _ = s.hasher.Hash("not-a-real-password")
	})
	return s.dummyHash
}
