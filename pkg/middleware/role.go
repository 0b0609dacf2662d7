package middleware

import (
	"net/http"

	"github.com/insightbridge/campaign-dashboard-api/internal/domain"
	"github.com/insightbridge/campaign-dashboard-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// RoleMiddleware restricts a route to the given roles.
func RoleMiddleware(allowedRoles []string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userClaims, ok := r.Context().Value(ContextKeyUser).(*domain.Claims)

			if !ok {
				logrus.Warning("unauthenticated access attempt")
				apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Not authenticated", nil)
				return
			}

			isAllowed := false
			for _, role := range allowedRoles {
				if userClaims.Role == role {
					isAllowed = true
					break
				}
			}

			if !isAllowed {
				logrus.Warningf("access denied for user=%s role=%s", userClaims.Username, userClaims.Role)
				apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Super admin access required", nil)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// SuperOnly allows only super users (domain management, syncs, cleanup).
func SuperOnly() func(http.Handler) http.Handler {
	return RoleMiddleware([]string{domain.RoleSuper})
}

// AllRoles allows any authenticated user.
func AllRoles() func(http.Handler) http.Handler {
	return RoleMiddleware([]string{domain.RoleSuper, domain.RoleUser})
}
