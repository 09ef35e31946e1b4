package middleware

import (
	"net/http"

	"shepherd/internal/authz"

	"github.com/labstack/echo/v4"
)

// writeMethod reports whether a given HTTP method mutates state.
func writeMethod(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete:
		return true
	default:
		return false
	}
}

// RequireModule gates a route group on module access. Mutating methods
// additionally require write permission for the module. Unknown roles are
// denied.
func RequireModule(module authz.Module) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := GetUserRole(c)

			if !authz.CanAccessModule(role, module) {
				return echo.NewHTTPError(http.StatusForbidden, "module not permitted for role")
			}

			if writeMethod(c.Request().Method) && !authz.CanWrite(role, module) {
				return echo.NewHTTPError(http.StatusForbidden, "write not permitted for role")
			}

			return next(c)
		}
	}
}

// RequireWrite gates a route on write permission regardless of HTTP method.
// Used for action endpoints that mutate through POST on a read-looking path.
func RequireWrite(module authz.Module) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := GetUserRole(c)
			if !authz.CanWrite(role, module) {
				return echo.NewHTTPError(http.StatusForbidden, "write not permitted for role")
			}
			return next(c)
		}
	}
}

// RequireRole restricts a route to an explicit role set.
func RequireRole(roles ...authz.Role) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			role := GetUserRole(c)
			for _, r := range roles {
				if role == r {
					return next(c)
				}
			}
			return echo.NewHTTPError(http.StatusForbidden, "role not permitted")
		}
	}
}
