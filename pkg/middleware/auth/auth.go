// middleware/auth/auth.go
package auth

import (
	"net/http"
	"os"
	"strings"

	"github.com/golang-jwt/jwt/v5"
)

// Middleware is a bearer-token guard for routes whose manifest guard
// requires auth. The platform is expected to mint HS256 tokens with the
// shared secret; when no secret is configured the guard fails closed.
type Middleware struct {
	secret []byte
}

// NewFromEnv builds the guard from FUNCTION_AUTH_JWT_SECRET.
func NewFromEnv() *Middleware {
	s := strings.TrimSpace(os.Getenv("FUNCTION_AUTH_JWT_SECRET"))
	if s == "" {
		return &Middleware{}
	}
	return &Middleware{secret: []byte(s)}
}

// NewWithSecret is the test/CLI constructor.
func NewWithSecret(secret []byte) *Middleware { return &Middleware{secret: secret} }

func (m *Middleware) Enabled() bool { return len(m.secret) > 0 }

// Require wraps a handler so only requests carrying a valid bearer
// token pass. Guarded routes with no configured secret are rejected.
func (m *Middleware) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		raw := bearerToken(r)
		if raw == "" {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		tok, err := jwt.Parse(raw, func(*jwt.Token) (any, error) {
			return m.secret, nil
		}, jwt.WithValidMethods([]string{"HS256"}))
		if err != nil || !tok.Valid {
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next(w, r)
	}
}

func bearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}
