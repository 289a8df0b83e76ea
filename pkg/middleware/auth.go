package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/shashiranjanraj/schoolbar/pkg/auth"
	"github.com/shashiranjanraj/schoolbar/pkg/response"
	"github.com/shashiranjanraj/schoolbar/pkg/session"
)

type identityKey struct{}

type identity struct {
	userID uint
	role   string
}

// WithUser stores an authenticated identity on ctx.
func WithUser(ctx context.Context, userID uint, role string) context.Context {
	return context.WithValue(ctx, identityKey{}, identity{userID: userID, role: role})
}

func UserIDFromCtx(r *http.Request) (uint, bool) {
	id, ok := r.Context().Value(identityKey{}).(identity)
	return id.userID, ok && id.userID != 0
}

func RoleFromCtx(r *http.Request) (string, bool) {
	id, ok := r.Context().Value(identityKey{}).(identity)
	return id.role, ok && id.role != ""
}

// Authenticate resolves the caller from a Bearer token or, failing that,
// from the session's user_id/role keys. Anonymous requests pass through.
func Authenticate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if h := r.Header.Get("Authorization"); strings.HasPrefix(h, "Bearer ") {
			claims, err := auth.ValidateToken(strings.TrimPrefix(h, "Bearer "))
			if err != nil {
				response.Error(w, http.StatusUnauthorized, "Invalid token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithUser(r.Context(), claims.UserID, claims.Role)))
			return
		}

		sess := session.FromCtx(r)
		if uid, ok := sess.GetUint("user_id"); ok {
			role, _ := sess.GetString("role")
			r = r.WithContext(WithUser(r.Context(), uid, role))
		}
		next.ServeHTTP(w, r)
	})
}

// RequireAuth rejects anonymous callers: 401 for API clients, redirect to
// /login for browsers.
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := UserIDFromCtx(r); !ok {
			if wantsJSON(r) {
				response.Unauthorized(w)
				return
			}
			http.Redirect(w, r, "/login", http.StatusSeeOther)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") ||
		strings.HasPrefix(r.Header.Get("Authorization"), "Bearer ")
}
