package validation

import (
	"net/url"
	"strconv"
	"strings"
)

const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Page is a validated page/limit pair.
type Page struct {
	Page  int
	Limit int
}

// Offset is the number of rows to skip.
func (p Page) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination reads page and limit from the query. Absent values take the defaults;
// malformed or out-of-range values are reported as query entries.
func ParsePagination(q url.Values) (Page, []ErrorEntry) {
	p := Page{Page: DefaultPage, Limit: DefaultLimit}
	var errs []ErrorEntry

	if raw := strings.TrimSpace(q.Get("page")); raw != "" {
		f := Field{Name: "page", In: InQuery}
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, f.entry(raw, "page must be an integer"))
		case n < 1:
			errs = append(errs, f.entry(raw, "page must be at least 1"))
		default:
			p.Page = n
		}
	}

	if raw := strings.TrimSpace(q.Get("limit")); raw != "" {
		f := Field{Name: "limit", In: InQuery}
		n, err := strconv.Atoi(raw)
		switch {
		case err != nil:
			errs = append(errs, f.entry(raw, "limit must be an integer"))
		case n < 1 || n > MaxLimit:
			errs = append(errs, f.entry(raw, "limit must be between 1 and %d", MaxLimit))
		default:
			p.Limit = n
		}
	}

	return p, errs
}
