package middleware

import (
	"net/http"
	"strings"

	"marketplace-booking/internal/data/repository"
	"marketplace-booking/pkg/utils"

	"go.uber.org/zap"
)

// MatchPath reports whether path matches any allowed pattern. Patterns are
// compared segment by segment; a :param segment matches any single
// non-empty segment.
func MatchPath(path string, allowed []string) bool {
	pathSegs := strings.Split(strings.Trim(path, "/"), "/")

	for _, pattern := range allowed {
		patternSegs := strings.Split(strings.Trim(pattern, "/"), "/")
		if len(pathSegs) != len(patternSegs) {
			continue
		}

		matched := true
		for i, seg := range patternSegs {
			if strings.HasPrefix(seg, ":") {
				if pathSegs[i] == "" {
					matched = false
					break
				}
				continue
			}
			if seg != pathSegs[i] {
				matched = false
				break
			}
		}
		if matched {
			return true
		}
	}

	return false
}

// BusinessGate blocks business users who have not finished payout
// onboarding, except on the allow-listed paths they need to complete it.
func BusinessGate(providerRepo repository.ProviderRepository, allowPaths []string, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if utils.GetRoleFromContext(r.Context()) != "business" {
				next.ServeHTTP(w, r)
				return
			}

			if MatchPath(r.URL.Path, allowPaths) {
				next.ServeHTTP(w, r)
				return
			}

			userID, ok := utils.GetUserIDFromContext(r.Context())
			if !ok {
				utils.ResponseUnauthorized(w, "Authentication required")
				return
			}

			profile, err := providerRepo.FindByUserID(r.Context(), userID)
			if err != nil {
				logger.Error("Failed to load business profile",
					zap.Error(err),
					zap.String("user_id", userID.String()),
				)
				utils.ResponseInternalError(w, "Internal server error")
				return
			}

			if profile == nil || !profile.StripeOnboardingCompleted {
				utils.ResponseForbidden(w, "Complete payout onboarding to access this resource")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
