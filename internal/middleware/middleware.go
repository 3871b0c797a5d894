package middleware

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/InkwellLabs/Inkwell-Backend/internal/apierr"
	"github.com/InkwellLabs/Inkwell-Backend/internal/envelope"
	"github.com/InkwellLabs/Inkwell-Backend/internal/utils"
)

// StoreDeadline bounds each request's context. Handlers pass the request
// context into the store, so a stalled database fails the request with a 503
// at the deadline instead of hanging it until the client disconnects.
func StoreDeadline(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TokenValidator resolves a bearer token to an identity. Implemented by the
// auth service; tests substitute a double.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (utils.Identity, error)
}

// BearerAuth gates protected routes. It extracts the Authorization bearer
// token, validates it, and attaches the resolved identity to the request
// context. Every failure is a 401 with a machine-readable code; there is no
// pass-through branch.
func BearerAuth(validator TokenValidator) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, ok := bearerToken(r)
			if !ok {
				envelope.Error(w, apierr.ErrMissingAuthHeader)
				return
			}

			ident, err := validator.Validate(r.Context(), token)
			if err != nil {
				envelope.Error(w, err)
				return
			}

			next.ServeHTTP(w, r.WithContext(utils.WithIdentity(r.Context(), ident)))
		})
	}
}

// RequireAdmin runs after BearerAuth and rejects non-admin identities.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			envelope.Error(w, apierr.ErrMissingAuthHeader)
			return
		}
		if ident.Role != "admin" {
			envelope.Error(w, apierr.ErrForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return "", false
	}
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return "", false
	}
	return token, true
}
