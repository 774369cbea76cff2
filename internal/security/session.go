package security

import (
	"net/http"
	"time"

	"github.com/google/uuid"
)

// PlayerTokenCookie is the cookie carrying the anonymous player identity
const PlayerTokenCookie = "cardle_player"

// PlayerTokenLifetime keeps the player identity stable across daily visits
const PlayerTokenLifetime = 365 * 24 * time.Hour

// GeneratePlayerToken creates a new UUID identifying an anonymous player
func GeneratePlayerToken() string {
	return uuid.New().String()
}

// IsSecureRequest determines if the request is over HTTPS
// Checks TLS connection, X-Forwarded-Proto header (for reverse proxies), and URL scheme
func IsSecureRequest(r *http.Request) bool {
	// Direct TLS connection
	if r.TLS != nil {
		return true
	}

	// Behind reverse proxy (nginx, Caddy, load balancer, etc.)
	if proto := r.Header.Get("X-Forwarded-Proto"); proto == "https" {
		return true
	}

	// Explicit HTTPS scheme
	if r.URL.Scheme == "https" {
		return true
	}

	return false
}

// CreatePlayerCookie creates the player identity cookie with proper
// security flags. The Secure flag follows the request scheme.
func CreatePlayerCookie(r *http.Request, token string) *http.Cookie {
	return &http.Cookie{
		Name:     PlayerTokenCookie,
		Value:    token,
		Path:     "/",
		Expires:  time.Now().Add(PlayerTokenLifetime),
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
		SameSite: http.SameSiteLaxMode,
	}
}

// CreateDeleteCookie creates a cookie for deletion with proper security flags
func CreateDeleteCookie(r *http.Request, name string) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   IsSecureRequest(r),
	}
}
