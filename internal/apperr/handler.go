package apperr

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
)

type Body struct {
	Status  int    `json:"status"`
	Name    string `json:"name"`
	Message string `json:"message"`
}

// Response is the error envelope; Data is always null.
type Response struct {
	Data  any  `json:"data" swaggertype:"object"`
	Error Body `json:"error"`
}

func NewResponse(status int, name, msg string) Response {
	return Response{Error: Body{Status: status, Name: name, Message: msg}}
}

func GlobalErrorHandler() echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		status, resp := Map(err)
		if status == http.StatusInternalServerError {
			slog.Error("Unhandled error",
				"error", err,
				"method", c.Request().Method,
				"uri", c.Request().RequestURI)
		}

		if c.Request().Method == http.MethodHead {
			_ = c.NoContent(status)
			return
		}
		_ = c.JSON(status, resp)
	}
}

// Map translates an error into its HTTP status and public body.
// Internal details of unknown errors never reach the body.
func Map(err error) (int, Response) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return http.StatusBadRequest, NewResponse(http.StatusBadRequest, "ValidationError", ve.Message)
	}

	var nf *NotFoundError
	if errors.As(err, &nf) {
		return http.StatusNotFound, NewResponse(http.StatusNotFound, "NotFoundError", nf.Message)
	}

	var ce *ConflictError
	if errors.As(err, &ce) {
		return http.StatusConflict, NewResponse(http.StatusConflict, "ConflictError", ce.Message)
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := fmt.Sprintf("%v", he.Message)
		return he.Code, NewResponse(he.Code, httpErrorName(he.Code), msg)
	}

	return http.StatusInternalServerError,
		NewResponse(http.StatusInternalServerError, "InternalServerError", "internal server error")
}

func httpErrorName(code int) string {
	switch code {
	case http.StatusUnauthorized:
		return "UnauthorizedError"
	case http.StatusForbidden:
		return "ForbiddenError"
	case http.StatusNotFound:
		return "NotFoundError"
	case http.StatusTooManyRequests:
		return "RateLimitError"
	case http.StatusBadRequest:
		return "BadRequestError"
	default:
		return http.StatusText(code)
	}
}
