package dto

import "encoding/json"

// Envelope is the response wrapper used by the school backend.
type Envelope struct {
	Status     string          `json:"status"`
	Data       json.RawMessage `json:"data"`
	Pagination *Pagination     `json:"pagination,omitempty"`
	Message    string          `json:"message,omitempty"`
	Error      string          `json:"error,omitempty"`
	TotalPages int             `json:"totalPages,omitempty"`
}

// Pagination captures the paging block of list responses.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages,omitempty"`
}

// PageCount returns the number of pages, deriving it from total and limit when
// the backend omits it. It is never below one.
func (p Pagination) PageCount() int {
	pages := p.TotalPages
	if pages <= 0 && p.Limit > 0 {
		pages = int((p.Total + int64(p.Limit) - 1) / int64(p.Limit))
	}
	if pages < 1 {
		return 1
	}
	return pages
}

// Page is one page of typed items plus its paging metadata.
type Page[T any] struct {
	Items      []T        `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// SinglePage wraps an unpaginated list as page one of one.
func SinglePage[T any](items []T) Page[T] {
	return Page[T]{
		Items: items,
		Pagination: Pagination{
			Page:       1,
			Limit:      len(items),
			Total:      int64(len(items)),
			TotalPages: 1,
		},
	}
}
