package query

import "github.com/DjordjeVuckovic/wanda-blog/pkg/pagination"

// Descriptor is the validated filter, sort and pagination intent of a single
// request. It is built once and never mutated.
type Descriptor struct {
	filter Filter
	sort   Sort
	page   int
	limit  int
}

func NewDescriptor(filter Filter, sort Sort, page, limit int) Descriptor {
	if page < 1 {
		page = 1
	}
	if limit < 0 {
		limit = 0
	}
	return Descriptor{filter: filter, sort: sort, page: page, limit: limit}
}

func (d Descriptor) Filter() Filter { return d.filter }
func (d Descriptor) Sort() Sort     { return d.sort }
func (d Descriptor) Page() int      { return d.page }

// Limit is the page size; 0 means unpaged.
func (d Descriptor) Limit() int { return d.limit }

func (d Descriptor) Offset() int {
	return pagination.Offset(d.page, d.limit)
}

func (d Descriptor) Paged() bool {
	return d.limit > 0
}

// Unpaged returns a copy that matches the whole filtered set.
func (d Descriptor) Unpaged() Descriptor {
	return Descriptor{filter: d.filter, sort: d.sort, page: 1, limit: 0}
}

func (d Descriptor) WithFilter(f Filter) Descriptor {
	return Descriptor{filter: f, sort: d.sort, page: d.page, limit: d.limit}
}
