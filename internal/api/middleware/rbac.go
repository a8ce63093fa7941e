package middleware

import (
	"github.com/labstack/echo/v4"

	"github.com/urbanthreads/storefront-api/internal/core/domain"
)

// RequireRole enforces role-based access on top of Authenticate. It must
// run after the gate; a missing principal means no gate ran and the
// request is treated as unauthenticated rather than forbidden.
func RequireRole(allowedRoles ...domain.Role) echo.MiddlewareFunc {
	allowed := make(map[domain.Role]struct{}, len(allowedRoles))
	for _, r := range allowedRoles {
		allowed[r] = struct{}{}
	}

	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			principal, ok := Principal(c)
			if !ok {
				return domain.ErrUnauthenticated
			}
			if _, ok := allowed[principal.Role]; !ok {
				return domain.ErrForbidden
			}
			return next(c)
		}
	}
}
