// Package middleware holds the request gates used by the router: identity
// resolution, login and admin checks.
package middleware

import (
	"context"
	"errors"
	"log"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/auth"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/session"
)

const SessionCookie = "session_token"

type contextKey string

const identityKey = contextKey("identity")

// Identity is the authenticated caller attached to the request context.
type Identity struct {
	UserID   int
	Username string
	Role     string
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}

// IdentityFrom returns the caller stored by Identify, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey).(Identity)
	return id, ok
}

// WithIdentity returns a copy of ctx carrying id.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey, id)
}

type Authenticator struct {
	Sessions session.Store
	Tokens   *auth.JWTManager
}

// Identify resolves the caller from the session cookie or a Bearer token and
// stores it in the request context. Anonymous requests pass through unchanged.
func (a *Authenticator) Identify(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if id, ok := a.resolve(r); ok {
			r = r.WithContext(WithIdentity(r.Context(), id))
		}
		next.ServeHTTP(w, r)
	})
}

func (a *Authenticator) resolve(r *http.Request) (Identity, bool) {
	if header := r.Header.Get("Authorization"); strings.HasPrefix(header, "Bearer ") && a.Tokens != nil {
		claims, err := a.Tokens.ParseToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			return Identity{}, false
		}
		userID, _ := strconv.Atoi(claims.Subject)
		return Identity{UserID: userID, Username: claims.Username, Role: claims.Role}, true
	}

	cookie, err := r.Cookie(SessionCookie)
	if err != nil || cookie.Value == "" || a.Sessions == nil {
		return Identity{}, false
	}
	s, err := a.Sessions.Get(r.Context(), cookie.Value)
	if err != nil {
		if !errors.Is(err, session.ErrNotFound) {
			log.Printf("session lookup failed: %v", err)
		}
		return Identity{}, false
	}
	return Identity{UserID: s.UserID, Username: s.Username, Role: s.Role}, true
}

// RequireLogin rejects requests without an identity with 401.
func RequireLogin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := IdentityFrom(r.Context()); !ok {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAdmin answers 401 for anonymous callers and 403 for non-admins.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id, ok := IdentityFrom(r.Context())
		if !ok {
			http.Error(w, "login required", http.StatusUnauthorized)
			return
		}
		if !id.IsAdmin() {
			http.Error(w, "admin access required", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}
