// Package service runs validated query descriptors and write requests
// against the content store and maps store outcomes onto apperr types.
package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/DjordjeVuckovic/wanda-blog/internal/apperr"
	"github.com/DjordjeVuckovic/wanda-blog/internal/content"
	"github.com/DjordjeVuckovic/wanda-blog/internal/observability"
	"github.com/DjordjeVuckovic/wanda-blog/internal/storage"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
)

// Page is one page of results plus the total of the unpaged filtered set.
type Page[T any] struct {
	Items    []T
	Page     int
	PageSize int
	Total    int64
}

func (p Page[T]) Meta() pagination.Meta {
	return pagination.NewMeta(p.Page, p.PageSize, p.Total)
}

type options struct {
	index     storage.SearchIndex
	metrics   *observability.Metrics
	validator *content.Validator
	now       func() time.Time
}

type Option func(*options)

// WithSearchIndex mirrors article writes into index. Pass only a non-nil index.
func WithSearchIndex(index storage.SearchIndex) Option {
	return func(o *options) {
		o.index = index
	}
}

func WithMetrics(m *observability.Metrics) Option {
	return func(o *options) {
		o.metrics = m
	}
}

func WithClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func newOptions(opts []Option) options {
	o := options{
		validator: content.NewValidator(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

func (o options) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

// storeErr translates storage sentinels; anything else is an infrastructure error.
func storeErr(err error, entity, action string) error {
	switch {
	case errors.Is(err, storage.ErrNotFound):
		return apperr.NewNotFound(entity + " not found")
	case errors.Is(err, storage.ErrSlugTaken):
		return apperr.NewConflict(entity+" slug already exists in this locale", nil)
	default:
		return fmt.Errorf("failed to %s %s: %w", action, strings.ToLower(entity), err)
	}
}
