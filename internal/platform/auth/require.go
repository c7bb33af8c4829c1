package auth

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
)

// RequireRole returns middleware that checks if the user holds one of the
// specified roles. super_admin passes every role check.
func RequireRole(roles ...string) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if role == RoleSuperAdmin {
				return next(c)
			}
			for _, required := range roles {
				if role == required {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden,
				fmt.Sprintf("required role: %s", strings.Join(roles, " or ")))
		}
	}
}

// RequireCapability returns middleware gating a route on one of the fixed
// capability predicates (CanSubmitClaim, CanViewEstimator, ...). The name is
// only used in the 403 message.
func RequireCapability(name string, allowed func(role string) bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if !allowed(role) {
				return echo.NewHTTPError(http.StatusForbidden,
					fmt.Sprintf("role %q lacks capability: %s", role, name))
			}
			return next(c)
		}
	}
}

// RequireSection returns middleware that applies the section-access table to
// the request path. Denied requests receive a redirect target the role can
// actually reach, so UI callers can route the user somewhere useful.
func RequireSection() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := RoleFromContext(c.Request().Context())
			if !CanAccessSection(role, c.Request().URL.Path) {
				c.Response().Header().Set("X-Redirect-To", FirstAllowedPath(role))
				return echo.NewHTTPError(http.StatusForbidden, "section not accessible for role")
			}
			return next(c)
		}
	}
}
