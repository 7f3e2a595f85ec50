package utils

import (
	"fmt"
	"net/http"
	"strconv"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Page is the envelope every paginated list response is wrapped in.
type Page struct {
	Count    int         `json:"count"`
	Next     *string     `json:"next"`
	Previous *string     `json:"previous"`
	Results  interface{} `json:"results"`
}

// GetPaginationParams reads page and page_size from the query string,
// clamping page_size to MaxPageSize. Missing or malformed values fall back
// to the defaults.
func GetPaginationParams(r *http.Request) (page, pageSize int) {
	page = 1
	pageSize = DefaultPageSize

	if v := r.URL.Query().Get("page"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			page = n
		}
	}

	if v := r.URL.Query().Get("page_size"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			pageSize = n
		}
	}

	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}

	return page, pageSize
}

// NewPage wraps results in the pagination envelope, deriving next/previous
// links from the request URL. Results must never be nil so the JSON field
// renders as an empty array rather than null.
func NewPage(r *http.Request, count, page, pageSize int, results interface{}) Page {
	p := Page{
		Count:   count,
		Results: results,
	}

	if page*pageSize < count {
		next := pageURL(r, page+1)
		p.Next = &next
	}
	if page > 1 {
		prev := pageURL(r, page-1)
		p.Previous = &prev
	}

	return p
}

func pageURL(r *http.Request, page int) string {
	u := *r.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	u.RawQuery = q.Encode()

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}

	return fmt.Sprintf("%s://%s%s", scheme, r.Host, u.RequestURI())
}
