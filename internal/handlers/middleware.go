package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"
	"time"

	"cardle/internal/security"
)

// ContextKey is a custom type for context keys to avoid collisions
type ContextKey string

const (
	PlayerContextKey ContextKey = "player"
	AdminContextKey  ContextKey = "admin"
)

// Middleware holds dependencies for middleware functions
type Middleware struct {
	jwtSecret string
	limiter   *security.RateLimiter
}

// NewMiddleware creates a new middleware instance
func NewMiddleware(jwtSecret string, limiter *security.RateLimiter) *Middleware {
	return &Middleware{
		jwtSecret: jwtSecret,
		limiter:   limiter,
	}
}

// WithPlayer resolves the anonymous player identity from the request
// cookie, issuing a fresh one on first contact, and puts it on the context
func (m *Middleware) WithPlayer(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		token := ""
		if cookie, err := r.Cookie(security.PlayerTokenCookie); err == nil {
			token = cookie.Value
		}
		if token == "" {
			token = security.GeneratePlayerToken()
			http.SetCookie(w, security.CreatePlayerCookie(r, token))
		}

		ctx := context.WithValue(r.Context(), PlayerContextKey, token)
		next(w, r.WithContext(ctx))
	}
}

// RequireAdmin is middleware that requires a valid admin bearer token
func (m *Middleware) RequireAdmin(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		header := r.Header.Get("Authorization")
		if !strings.HasPrefix(header, "Bearer ") {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "", nil)
			return
		}

		username, err := security.ValidateAdminToken(strings.TrimPrefix(header, "Bearer "), m.jwtSecret)
		if err != nil {
			respondWithError(w, http.StatusUnauthorized, ErrUnauthorized, "Admin token rejected", err)
			return
		}

		ctx := context.WithValue(r.Context(), AdminContextKey, username)
		next(w, r.WithContext(ctx))
	}
}

// RateLimit is middleware that applies the per-IP token bucket
func (m *Middleware) RateLimit(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ip := security.GetClientIP(r)
		if !m.limiter.Allow(ip) {
			respondWithError(w, http.StatusTooManyRequests, ErrTooManyRequests, "", nil)
			return
		}
		next(w, r)
	}
}

// Logging middleware logs HTTP requests
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Call next handler
		next.ServeHTTP(w, r)

		// Log request
		log.Printf("%s %s %s", r.Method, r.URL.Path, time.Since(start))
	})
}

// GetPlayerToken retrieves the player identity from the request context
func GetPlayerToken(ctx context.Context) string {
	token, ok := ctx.Value(PlayerContextKey).(string)
	if !ok {
		return ""
	}
	return token
}

// GetAdminUser retrieves the authenticated admin from the request context
func GetAdminUser(ctx context.Context) string {
	username, ok := ctx.Value(AdminContextKey).(string)
	if !ok {
		return ""
	}
	return username
}
