package middleware

import (
	"fmt"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return RequireRole(jwt.RoleManager, jwt.RoleOwner)(next)
}

// RequireRole allows only the listed roles
func RequireRole(roles ...jwt.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.Forbidden(w, "Insufficient permissions")
				return
			}

			for _, role := range roles {
				if claims.Role == role {
					next.ServeHTTP(w, r)
					return
				}
			}

			response.Forbidden(w, fmt.Sprintf("Insufficient permissions: role '%s' is not allowed", claims.Role))
		})
	}
}
