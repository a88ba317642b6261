// Package paginate slices ordered result sets into numbered pages.
//
// The same arithmetic backs both in-memory pagination (Paginate) and
// database-level pagination (Window, used by pkg/orm), so a page computed by
// either path has identical bounds.
package paginate

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/shashiranjanraj/stockpile/pkg/apperr"
)

// ErrInvalidMessage is the client message for bad page or pagesize values.
const ErrInvalidMessage = "Invalid page or pagesize."

// Meta describes where a page sits in the full result set.
type Meta struct {
	Page       int `json:"page"`
	PageSize   int `json:"pagesize"`
	TotalPages int `json:"total_pages"`
	TotalCount int `json:"total_results"`
}

// Page is one slice of an ordered result set.
type Page[T any] struct {
	Meta
	Items []T
}

// Bounds is the offset/limit pair for a page, plus the page count.
type Bounds struct {
	Offset     int
	Limit      int
	TotalPages int
}

// Window computes the bounds of page for a result set of total rows.
// A page past the end yields Limit 0.
func Window(total, page, pageSize int) (Bounds, error) {
	if page <= 0 || pageSize <= 0 {
		return Bounds{}, apperr.Invalidf(ErrInvalidMessage)
	}

	pages := 0
	if total > 0 {
		pages = (total + pageSize - 1) / pageSize
	}

	// Compare page numbers before multiplying so huge pages cannot overflow.
	if page > pages {
		return Bounds{Offset: total, Limit: 0, TotalPages: pages}, nil
	}
	offset := (page - 1) * pageSize

	limit := pageSize
	if offset+limit > total {
		limit = total - offset
	}
	return Bounds{Offset: offset, Limit: limit, TotalPages: pages}, nil
}

// Paginate returns page number page of items. Items are never reordered.
func Paginate[T any](items []T, page, pageSize int) (Page[T], error) {
	b, err := Window(len(items), page, pageSize)
	if err != nil {
		return Page[T]{}, err
	}

	out := make([]T, b.Limit)
	copy(out, items[b.Offset:b.Offset+b.Limit])

	return Page[T]{
		Meta: Meta{
			Page:       page,
			PageSize:   pageSize,
			TotalPages: b.TotalPages,
			TotalCount: len(items),
		},
		Items: out,
	}, nil
}

// Request is a parsed page/pagesize pair.
type Request struct {
	Page     int
	PageSize int
}

// Params reads the required "page" and "pagesize" query parameters.
func Params(q url.Values) (Request, error) {
	page, err := strconv.Atoi(strings.TrimSpace(q.Get("page")))
	if err != nil {
		return Request{}, apperr.Invalidf(ErrInvalidMessage)
	}
	size, err := strconv.Atoi(strings.TrimSpace(q.Get("pagesize")))
	if err != nil {
		return Request{}, apperr.Invalidf(ErrInvalidMessage)
	}
	if page <= 0 || size <= 0 {
		return Request{}, apperr.Invalidf(ErrInvalidMessage)
	}
	return Request{Page: page, PageSize: size}, nil
}
