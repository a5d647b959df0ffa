package middleware

import (
	"net/http"

	"marketplace-booking/internal/data/entity"
	"marketplace-booking/pkg/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Auth middleware trusts the identity headers set by the edge gateway.
// X-User-ID must carry a valid UUID; X-User-Role defaults to client.
func Auth(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			rawID := r.Header.Get("X-User-ID")
			if rawID == "" {
				utils.ResponseUnauthorized(w, "Missing X-User-ID header")
				return
			}

			userID, err := uuid.Parse(rawID)
			if err != nil {
				logger.Warn("Rejected request with malformed user ID", zap.String("user_id", rawID))
				utils.ResponseUnauthorized(w, "Invalid X-User-ID header")
				return
			}

			role := r.Header.Get("X-User-Role")
			switch role {
			case entity.RoleClient, entity.RoleBusiness, entity.RoleAdmin:
			case "":
				role = entity.RoleClient
			default:
				utils.ResponseUnauthorized(w, "Unknown X-User-Role")
				return
			}

			ctx := utils.SetUserContext(r.Context(), userID, role, r.Header.Get("X-User-Email"))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireRole rejects requests whose context role does not match.
func RequireRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utils.GetRoleFromContext(r.Context()) != role {
				utils.ResponseForbidden(w, "Insufficient permissions")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// Admin requires the admin role.
func Admin() func(http.Handler) http.Handler {
	return RequireRole(entity.RoleAdmin)
}
