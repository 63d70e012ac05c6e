package auth

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

// Payload is what a token says about its subject.
type Payload struct {
	SubjectID int64
	Email     string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

type claims struct {
	jwt.RegisteredClaims
	Email string `json:"email"`
}

// TokenCodec signs and verifies HS256 JWTs. It holds no key material; the
// caller chooses the secret, which is how access and refresh tokens stay in
// separate key domains.
type TokenCodec struct {
	now   func() time.Time
	newID func() string
}

func NewTokenCodec() *TokenCodec {
	return &TokenCodec{now: time.Now, newID: utilities.NewSnowflakeID}
}

// Sign issues a token for p that expires ttl from now.
func (c *TokenCodec) Sign(p Payload, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", errors.New("sign token: empty secret")
	}
	now := c.now()
	cl := claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   strconv.FormatInt(p.SubjectID, 10),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        c.newID(),
		},
		Email: p.Email,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, cl).SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks signature, algorithm and expiry (no leeway) and returns the
// payload. Every failure collapses to ErrInvalidToken.
func (c *TokenCodec) Verify(token string, secret []byte) (Payload, error) {
	var cl claims
	parsed, err := jwt.ParseWithClaims(token, &cl, func(*jwt.Token) (any, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(c.now),
	)
	if err != nil || !parsed.Valid {
		return Payload{}, ErrInvalidToken
	}
	id, err := strconv.ParseInt(cl.Subject, 10, 64)
	if err != nil {
		return Payload{}, ErrInvalidToken
	}
	p := Payload{SubjectID: id, Email: cl.Email, ExpiresAt: cl.ExpiresAt.Time}
	if cl.IssuedAt != nil {
		p.IssuedAt = cl.IssuedAt.Time
	}
	return p, nil
}
