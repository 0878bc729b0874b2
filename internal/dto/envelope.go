// Package dto shapes domain records into the public JSON envelopes.
package dto

import (
	"github.com/DjordjeVuckovic/wanda-blog/internal/service"
	"github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"
)

// Collection is the listing envelope. Data is never null.
type Collection[T any] struct {
	Data []T            `json:"data"`
	Meta CollectionMeta `json:"meta"`
}

type CollectionMeta struct {
	Pagination pagination.Meta `json:"pagination"`
}

type Single[T any] struct {
	Data T `json:"data"`
}

// WriteRequest is the body of every create and update call: {"data": {...}}.
type WriteRequest[T any] struct {
	Data T `json:"data"`
}

func NewSingle[T any](v T) Single[T] {
	return Single[T]{Data: v}
}

func newCollection[S, T any](p service.Page[S], shape func(S) T) Collection[T] {
	data := make([]T, 0, len(p.Items))
	for _, item := range p.Items {
		data = append(data, shape(item))
	}
	return Collection[T]{
		Data: data,
		Meta: CollectionMeta{Pagination: p.Meta()},
	}
}
