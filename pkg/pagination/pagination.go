package pagination

import (
	"net/http"
	"strconv"
)

// MaxPerPage caps the per_page query parameter.
const MaxPerPage = 100

// PagingInfo describes one page of a result set.
type PagingInfo struct {
	CurrentPage  int `json:"current_page"`
	ItemsPerPage int `json:"items_per_page"`
	TotalItems   int `json:"total_items"`
	TotalPages   int `json:"total_pages"`
}

// NewPagingInfo computes TotalPages as the ceiling of total/size. It is 0 for
// an empty set. A size below 1 is treated as 1.
func NewPagingInfo(page, size, total int) PagingInfo {
	if size < 1 {
		size = 1
	}
	totalPages := total / size
	if total%size > 0 {
		totalPages++
	}
	return PagingInfo{
		CurrentPage:  page,
		ItemsPerPage: size,
		TotalItems:   total,
		TotalPages:   totalPages,
	}
}

// HasNext reports whether a page follows the current one.
func (p PagingInfo) HasNext() bool { return p.CurrentPage >= 1 && p.CurrentPage < p.TotalPages }

// HasPrev reports whether a page precedes the current one.
func (p PagingInfo) HasPrev() bool { return p.CurrentPage > 1 }

// Paginate returns the window [(page-1)*size, page*size) of items. A page
// outside 1..TotalPages yields an empty, non-nil slice. The returned slice is
// a copy; items is not modified.
func Paginate[T any](items []T, page, size int) ([]T, PagingInfo) {
	info := NewPagingInfo(page, size, len(items))

	if page < 1 || page > info.TotalPages {
		return []T{}, info
	}

	start := (page - 1) * info.ItemsPerPage
	end := min(start+info.ItemsPerPage, len(items))

	out := make([]T, end-start)
	copy(out, items[start:end])
	return out, info
}

// Params holds page and per_page taken from a query string.
type Params struct {
	Page    int `json:"page"`
	PerPage int `json:"per_page"`
}

// DefaultParams returns page 1 with 20 items per page.
func DefaultParams() Params {
	return Params{Page: 1, PerPage: 20}
}

// FromRequest reads page and per_page from r, keeping defaults for missing
// or out-of-range values.
func FromRequest(r *http.Request) Params {
	p := DefaultParams()
	q := r.URL.Query()

	if page := q.Get("page"); page != "" {
		if v, err := strconv.Atoi(page); err == nil && v > 0 {
			p.Page = v
		}
	}

	if perPage := q.Get("per_page"); perPage != "" {
		if v, err := strconv.Atoi(perPage); err == nil && v > 0 && v <= MaxPerPage {
			p.PerPage = v
		}
	}

	return p
}

// Result pairs a page of items with its paging information.
type Result[T any] struct {
	Items  []T        `json:"items"`
	Paging PagingInfo `json:"paging"`
}

// Apply paginates items according to p.
func Apply[T any](items []T, p Params) Result[T] {
	page, info := Paginate(items, p.Page, p.PerPage)
	return Result[T]{Items: page, Paging: info}
}
