// Package rbac gates routes by the caller's role.
package rbac

import (
	"net/http"

	"github.com/samber/lo"
	"github.com/shashiranjanraj/schoolbar/app/models"
	"github.com/shashiranjanraj/schoolbar/pkg/middleware"
	"github.com/shashiranjanraj/schoolbar/pkg/response"
)

// HasRole allows only callers whose role is one of roles. Mount after
// middleware.Authenticate.
func HasRole(roles ...models.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			role, ok := middleware.RoleFromCtx(r)
			if !ok || !lo.Contains(roles, models.Role(role)) {
				response.Error(w, http.StatusForbidden, "You do not have permission to access this page.")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Staff admits the bar staff and administrators.
func Staff(next http.Handler) http.Handler {
	return HasRole(models.RoleStaff, models.RoleAdmin)(next)
}

// Guest blocks authenticated callers (login, register).
func Guest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := middleware.UserIDFromCtx(r); ok {
			response.Error(w, http.StatusConflict, "Already authenticated")
			return
		}
		next.ServeHTTP(w, r)
	})
}
