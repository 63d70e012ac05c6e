package auth

import (
	"database/sql"
	"errors"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

const bearerPrefix = "bearer "

// Guard resolves the bearer access token of a request to a live user.
type Guard struct {
	codec  *TokenCodec
	secret []byte
	users  UserStore
	logger *zap.SugaredLogger
}

func NewGuard(codec *TokenCodec, cfg Config, users UserStore, logger *zap.SugaredLogger) *Guard {
	if codec == nil {
		codec = NewTokenCodec()
	}
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Guard{codec: codec, secret: []byte(cfg.AccessSecret), users: users, logger: logger}
}

// Middleware rejects the request with 401 unless it carries a valid access
// token whose subject still exists. On success the user is available to
// next through IdentityFromContext.
func (g *Guard) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			g.logger.Debugw("missing bearer token", "path", r.URL.Path)
			utilities.WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		p, err := g.codec.Verify(token, g.secret)
		if err != nil {
			g.logger.Debugw("rejected access token", "path", r.URL.Path)
			utilities.WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
			return
		}
		u, err := g.users.GetByID(r.Context(), p.SubjectID)
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				g.logger.Debugw("token subject no longer exists", "user_id", p.SubjectID)
				utilities.WriteError(w, http.StatusUnauthorized, ErrUnauthorized.Error())
				return
			}
			g.logger.Errorw("load token subject", "user_id", p.SubjectID, "err", err)
			utilities.WriteError(w, http.StatusInternalServerError, "internal error")
			return
		}
		next.ServeHTTP(w, r.WithContext(WithIdentity(r.Context(), u)))
	})
}

// MiddlewareFunc is Middleware for a single handler function.
func (g *Guard) MiddlewareFunc(next http.HandlerFunc) http.Handler {
	return g.Middleware(next)
}

func bearerToken(r *http.Request) (string, bool) {
	h := r.Header.Get("Authorization")
	if len(h) <= len(bearerPrefix) || !strings.EqualFold(h[:len(bearerPrefix)], bearerPrefix) {
		return "", false
	}
	token := strings.TrimSpace(h[len(bearerPrefix):])
	if token == "" || strings.ContainsAny(token, " \t") {
		return "", false
	}
	return token, true
}
