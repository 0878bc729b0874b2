package middleware

import (
	"errors"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/observability"
	"github.com/labstack/echo/v4"
)

const unmatchedRoute = "unmatched"

// Metrics records request count and latency labelled by the route template,
// never the raw path.
func Metrics(m *observability.Metrics) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()
			err := next(c)

			route := c.Path()
			if route == "" || errors.Is(err, echo.ErrNotFound) || errors.Is(err, echo.ErrMethodNotAllowed) {
				route = unmatchedRoute
			}
			m.ObserveRequest(c.Request().Method, route, status(c, err), time.Since(start))
			return err
		}
	}
}

// status predicts the code the error handler will write when the handler
// failed before committing a response.
func status(c echo.Context, err error) int {
	if err == nil || c.Response().Committed {
		return c.Response().Status
	}
	code, _ := apperr.Map(err)
	return code
}
