package middleware

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/savannaherds/site-api/internal/core/domain"
)

// RequireRole enforces role-based access control. It must run after Authenticate.
func RequireRole(allowedRoles ...string) echo.MiddlewareFunc {
	allowed := make(map[string]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal := PrincipalFrom(c)
			if principal == nil {
				return echo.NewHTTPError(http.StatusUnauthorized, "no token provided")
			}
			if _, ok := allowed[principal.Role]; !ok {
				return fmt.Errorf("%w: requires role %v", domain.ErrForbidden, allowedRoles)
			}
			return next(c)
		}
	}
}
