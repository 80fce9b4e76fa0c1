package middleware

import (
	"context"
	"net/http"

	"github.com/cmlabs-hris/shiftpay-backend-go/internal/domain/compensation"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/handler/http/response"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/jwt"
	"github.com/cmlabs-hris/shiftpay-backend-go/internal/pkg/validator"
)

type claimsKey struct{}

// RequireClub rejects tokens without a valid club_id claim and stores the
// claims on the request context.
func RequireClub(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.Unauthorized(w, err.Error())
			return
		}

		if !validator.IsValidUUID(claims.ClubID) {
			response.HandleError(w, compensation.ErrClubIDRequired)
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey{}, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ClaimsFromRequest returns the claims stored by RequireClub.
func ClaimsFromRequest(r *http.Request) (jwt.Claims, bool) {
	claims, ok := r.Context().Value(claimsKey{}).(jwt.Claims)
	return claims, ok
}
