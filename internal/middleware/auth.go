package middleware

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/musamusakannike/creator-ai-backend2/internal/token"
	"github.com/musamusakannike/creator-ai-backend2/internal/user"
)

// unexported, collision-proof context key
type userContextKeyType struct{}

var userKey = userContextKeyType{}

// UserFromContext extracts the authenticated user from the request
// context. Present only on requests that passed RequireAuth or an
// explicit Authenticate call.
func UserFromContext(ctx context.Context) (*user.User, bool) {
	u, ok := ctx.Value(userKey).(*user.User)
	return u, ok
}

// ErrUnauthenticated covers every gate rejection: missing or malformed
// header, failed verification, and identities that no longer exist.
// Callers must not leak the underlying cause to the client.
var ErrUnauthenticated = errors.New("unauthenticated")

type Authenticator struct {
	Tokens *token.Manager
	Users  user.Store
}

func NewAuthenticator(tokens *token.Manager, users user.Store) *Authenticator {
	return &Authenticator{Tokens: tokens, Users: users}
}

// Authenticate verifies the bearer token on r and re-resolves the
// claimed identity against the user store. The store lookup is
// deliberate: a token alone is not proof the identity still exists.
func (a *Authenticator) Authenticate(r *http.Request) (*user.User, error) {
	header := r.Header.Get("Authorization")
	if header == "" {
		return nil, fmt.Errorf("%w: no authorization header", ErrUnauthenticated)
	}

	raw, ok := strings.CutPrefix(header, "Bearer ")
	if !ok || raw == "" {
		return nil, fmt.Errorf("%w: malformed authorization header", ErrUnauthenticated)
	}

	claims, err := a.Tokens.Verify(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnauthenticated, err)
	}

	u, err := a.Users.FindByID(r.Context(), claims.UserID)
	if errors.Is(err, user.ErrNotFound) {
		return nil, fmt.Errorf("%w: identity no longer exists", ErrUnauthenticated)
	}
	if err != nil {
		return nil, fmt.Errorf("resolve identity: %w", err)
	}

	return u, nil
}

// RequireAuth is the strict bearer gate applied to every protected
// endpoint. Any failure collapses to a generic 401; the cause is kept
// for logs only.
func (a *Authenticator) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u, err := a.Authenticate(r)
		if err != nil {
			slog.Debug("request rejected",
				"path", r.URL.Path,
				"reason", err.Error(),
			)
			writeUnauthorized(w)
			return
		}

		ctx := context.WithValue(r.Context(), userKey, u)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	_, _ = w.Write([]byte(`{"message":"Unauthorized"}`))
}
