// Package request decodes and validates HTTP request input.
package request

import (
	"encoding/json"
	"net/http"
	"strconv"
)

// DecodeJSON decodes JSON from request body into the given value.
func DecodeJSON(r *http.Request, v interface{}) error {
	return json.NewDecoder(r.Body).Decode(v)
}

// Pagination contains pagination parameters.
type Pagination struct {
	Page    int
	PerPage int
}

// DefaultPage is the default page number.
const DefaultPage = 1

// DefaultPerPage is the default items per page.
const DefaultPerPage = 50

// MaxPerPage is the maximum items per page.
const MaxPerPage = 100

// ParsePagination extracts pagination from query parameters.
func ParsePagination(r *http.Request) Pagination {
	page := DefaultPage
	perPage := DefaultPerPage

	if p := r.URL.Query().Get("page"); p != "" {
		if v, err := strconv.Atoi(p); err == nil && v > 0 {
			page = v
		}
	}

	if pp := r.URL.Query().Get("per_page"); pp != "" {
		if v, err := strconv.Atoi(pp); err == nil && v > 0 {
			perPage = v
		}
	}

	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}

	return Pagination{Page: page, PerPage: perPage}
}

// fieldErrors collects validation messages keyed by JSON field name.
type fieldErrors map[string]string

func (f fieldErrors) add(field, msg string) {
	if _, exists := f[field]; !exists {
		f[field] = msg
	}
}
