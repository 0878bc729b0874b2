package apperr_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewValidation(t *testing.T) {
	err := apperr.NewValidation("page must be a positive integer")

	assert.Equal(t, "page must be a positive integer", err.Error())
	assert.Nil(t, err.Unwrap())
}

func TestNewValidationWrap(t *testing.T) {
	inner := fmt.Errorf("strconv.Atoi: parsing \"abc\": invalid syntax")
	err := apperr.NewValidationWrap("invalid page", inner)

	assert.Equal(t, "invalid page: strconv.Atoi: parsing \"abc\": invalid syntax", err.Error())
	assert.True(t, errors.Is(err, inner))
}

func TestValidationError_SurvivesFmtWrapping(t *testing.T) {
	original := apperr.NewValidation("unsupported locale")

	wrapped := fmt.Errorf("list articles: %w", original)
	doubleWrapped := fmt.Errorf("handler: %w", wrapped)

	var ve *apperr.ValidationError
	require.True(t, errors.As(doubleWrapped, &ve))
	assert.Equal(t, "unsupported locale", ve.Message)
}

func TestMap(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantName   string
		wantMsg    string
	}{
		{
			name:       "validation",
			err:        fmt.Errorf("wrap: %w", apperr.NewValidation("limit must be a positive integer")),
			wantStatus: http.StatusBadRequest,
			wantName:   "ValidationError",
			wantMsg:    "limit must be a positive integer",
		},
		{
			name:       "not found",
			err:        apperr.NewNotFound("Article not found"),
			wantStatus: http.StatusNotFound,
			wantName:   "NotFoundError",
			wantMsg:    "Article not found",
		},
		{
			name:       "conflict",
			err:        apperr.NewConflict("slug already exists in locale en", errors.New("duplicate key")),
			wantStatus: http.StatusConflict,
			wantName:   "ConflictError",
			wantMsg:    "slug already exists in locale en",
		},
		{
			name:       "echo http error",
			err:        echo.NewHTTPError(http.StatusForbidden, "insufficient scope"),
			wantStatus: http.StatusForbidden,
			wantName:   "ForbiddenError",
			wantMsg:    "insufficient scope",
		},
		{
			name:       "infrastructure error hides details",
			err:        fmt.Errorf("find articles: %w", errors.New("dial tcp 127.0.0.1:5432: connection refused")),
			wantStatus: http.StatusInternalServerError,
			wantName:   "InternalServerError",
			wantMsg:    "internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, resp := apperr.Map(tt.err)

			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantStatus, resp.Error.Status)
			assert.Equal(t, tt.wantName, resp.Error.Name)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
			assert.Nil(t, resp.Data)
		})
	}
}
