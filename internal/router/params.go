// Package router binds the article and tag endpoints onto an echo group.
package router

import (
	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
)

func pathID(c echo.Context) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return uuid.Nil, apperr.NewValidationWrap("invalid id", err)
	}
	return id, nil
}

func bindWrite[T any](c echo.Context) (T, error) {
	var req struct {
		Data *T `json:"data"`
	}
	if err := c.Bind(&req); err != nil {
		var zero T
		return zero, apperr.NewValidationWrap("invalid request body", err)
	}
	if req.Data == nil {
		var zero T
		return zero, apperr.NewValidation(`request body must be {"data": {...}}`)
	}
	return *req.Data, nil
}
