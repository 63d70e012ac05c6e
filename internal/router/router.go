package router

import (
	"context"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/auth"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/bookmark"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/internal/user"
	"github.com/ovaphlow/pitchfork/service-bookmark-go-stdlib/pkg/utilities"
)

const requestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// Handlers groups everything RegisterRoutes mounts.
type Handlers struct {
	Auth      *auth.Handler
	Users     *user.Handler
	Bookmarks *bookmark.Handler
	Guard     *auth.Guard
}

// loggingResponseWriter wraps http.ResponseWriter to capture status and size.
type loggingResponseWriter struct {
	http.ResponseWriter
	status int
	size   int
}

func (lrw *loggingResponseWriter) WriteHeader(code int) {
	lrw.status = code
	lrw.ResponseWriter.WriteHeader(code)
}

func (lrw *loggingResponseWriter) Write(b []byte) (int, error) {
	if lrw.status == 0 {
		lrw.status = http.StatusOK
	}
	n, err := lrw.ResponseWriter.Write(b)
	lrw.size += n
	return n, err
}

// LoggingMiddleware logs each request at debug level. Headers and bodies are
// never logged.
func LoggingMiddleware(logger *zap.SugaredLogger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			lrw := &loggingResponseWriter{ResponseWriter: w}
			next.ServeHTTP(lrw, r)
			status := lrw.status
			if status == 0 {
				status = http.StatusOK
			}
			logger.Debugw("http request",
				"request_id", RequestID(r.Context()),
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"duration_ms", float64(time.Since(start).Microseconds())/1000.0,
				"size", lrw.size,
			)
		})
	}
}

// RequestIDMiddleware reuses an inbound X-Request-ID or mints a KSUID, echoes
// it on the response and stores it in the request context.
func RequestIDMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := r.Header.Get(requestIDHeader)
			if id == "" || len(id) > 64 {
				id = utilities.NewKSUID()
			}
			w.Header().Set(requestIDHeader, id)
			next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id)))
		})
	}
}

// RequestID returns the id stamped by RequestIDMiddleware, or "".
func RequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

// SecurityHeadersMiddleware sets common HTTP security headers.
func SecurityHeadersMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("Referrer-Policy", "no-referrer")
			w.Header().Set("Cache-Control", "no-store")
			if w.Header().Get("Content-Security-Policy") == "" {
				w.Header().Set("Content-Security-Policy", "default-src 'none'; frame-ancestors 'none';")
			}
			// HSTS only over TLS
			if r.TLS != nil {
				w.Header().Set("Strict-Transport-Security", "max-age=2592000; includeSubDomains")
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RegisterRoutes mounts HTTP handlers on a standard library http.ServeMux.
// Everything outside /health and /auth sits behind the guard.
func RegisterRoutes(logger *zap.SugaredLogger, h Handlers) http.Handler {
	mux := http.NewServeMux()
	protect := h.Guard.MiddlewareFunc

	mux.HandleFunc("GET /health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	mux.HandleFunc("POST /auth/register", h.Auth.Register)
	mux.HandleFunc("POST /auth/login", h.Auth.Login)

	mux.Handle("GET /users", protect(h.Users.Me))
	mux.Handle("GET /users/me", protect(h.Users.Me))
	mux.Handle("PATCH /users", protect(h.Users.EditSelf))
	mux.Handle("PATCH /users/edit/{id}", protect(h.Users.EditByID))

	mux.Handle("GET /bookmarks", protect(h.Bookmarks.List))
	mux.Handle("POST /bookmarks", protect(h.Bookmarks.Create))
	mux.Handle("GET /bookmarks/{id}", protect(h.Bookmarks.Get))
	mux.Handle("PATCH /bookmarks/{id}", protect(h.Bookmarks.Update))
	mux.Handle("DELETE /bookmarks/{id}", protect(h.Bookmarks.Delete))

	// request id outermost so the access log can carry it
	return RequestIDMiddleware()(LoggingMiddleware(logger)(SecurityHeadersMiddleware()(mux)))
}
