package pagination

// Meta describes one page of an offset-paginated collection.
type Meta struct {
	Page      int   `json:"page"`
	PageSize  int   `json:"pageSize"`
	PageCount int   `json:"pageCount"`
	Total     int64 `json:"total"`
}

// NewMeta computes page metadata from the total computed before pagination.
// A total of zero yields a page count of zero.
func NewMeta(page, size int, total int64) Meta {
	return Meta{
		Page:      page,
		PageSize:  size,
		PageCount: PageCount(total, size),
		Total:     total,
	}
}

// PageCount is ceil(total / size).
func PageCount(total int64, size int) int {
	if total <= 0 || size <= 0 {
		return 0
	}
	return int((total + int64(size) - 1) / int64(size))
}

// Offset is the zero-based index of the first item of a page. It saturates
// at MaxOffset instead of overflowing.
func Offset(page, size int) int {
	if page < 1 || size < 1 {
		return 0
	}
	if !InRange(page, size) {
		return MaxOffset
	}
	return (page - 1) * size
}

// InRange reports whether the page starts at or below MaxOffset.
func InRange(page, size int) bool {
	if page < 1 || size < 1 {
		return true
	}
	return page-1 <= MaxOffset/size
}

// Window returns the [start, end) bounds of a page over n items.
func Window(n, page, size int) (int, int) {
	if size <= 0 {
		return 0, n
	}
	start := min(Offset(page, size), n)
	return start, start + min(size, n-start)
}
