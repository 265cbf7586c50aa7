package middleware

import (
	"net/http"

	"github.com/cmlabs-hris/presence-backend-go/internal/domain/user"
	"github.com/cmlabs-hris/presence-backend-go/internal/handler/http/response"
)

// RequireAdmin requires admin role
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if !principal.IsAdmin() {
			response.HandleError(w, user.ErrAdminPrivilegeRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireEmployee requires employee role
func RequireEmployee(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		principal, ok := PrincipalFromContext(r.Context())
		if !ok {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if principal.Role != user.RoleEmployee {
			response.HandleError(w, user.ErrEmployeeAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}
