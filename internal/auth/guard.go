package auth

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
)

const roleContextKey = "auth.role"

var errInsufficientScope = errors.New("insufficient scope")

type Guard struct {
	tokens Tokens
}

func NewGuard(tokens Tokens) *Guard {
	return &Guard{tokens: tokens}
}

// Require admits requests carrying "Authorization: Bearer <token>" whose role
// allows required. A missing or unknown token is 401, a weaker role 403.
func (g *Guard) Require(required Role) echo.MiddlewareFunc {
	return middleware.KeyAuthWithConfig(middleware.KeyAuthConfig{
		KeyLookup:  "header:" + echo.HeaderAuthorization,
		AuthScheme: "Bearer",
		Validator: func(key string, c echo.Context) (bool, error) {
			role, ok := g.tokens.Lookup(key)
			if !ok {
				return false, nil
			}
			if !role.Allows(required) {
				return false, errInsufficientScope
			}
			c.Set(roleContextKey, role)
			return true, nil
		},
		ErrorHandler: func(err error, c echo.Context) error {
			if errors.Is(err, errInsufficientScope) {
				return echo.NewHTTPError(http.StatusForbidden, "token lacks the "+string(required)+" scope")
			}
			return echo.NewHTTPError(http.StatusUnauthorized, "missing or invalid API token")
		},
	})
}

// RoleFrom returns the role the guard attached to the request, if any.
func RoleFrom(c echo.Context) (Role, bool) {
	r, ok := c.Get(roleContextKey).(Role)
	return r, ok
}
