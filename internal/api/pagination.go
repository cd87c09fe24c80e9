package api

import (
	"net/http"

	"github.com/ignite/correspondence-monitor/internal/pkg/httputil"
)

// PaginationParams is a resolved page window.
type PaginationParams struct {
	Page   int
	Limit  int
	Offset int
}

// PaginatedResponse wraps a page of list data.
type PaginatedResponse struct {
	Data       interface{}    `json:"data"`
	Pagination PaginationMeta `json:"pagination"`
}

// PaginationMeta describes where a page sits in the full list.
type PaginationMeta struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Offset     int   `json:"offset"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasMore    bool  `json:"has_more"`
}

// ParsePagination reads "limit" plus either "offset" or a 1-based "page".
// An explicit offset wins over page. limit is clamped to [1, maxLimit].
func ParsePagination(r *http.Request, defaultLimit, maxLimit int) PaginationParams {
	limit := httputil.QueryInt(r, "limit", defaultLimit)
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}

	if r.URL.Query().Has("offset") {
		offset := httputil.QueryInt(r, "offset", 0)
		if offset < 0 {
			offset = 0
		}
		return PaginationParams{Page: offset/limit + 1, Limit: limit, Offset: offset}
	}

	page := httputil.QueryInt(r, "page", 1)
	if page < 1 {
		page = 1
	}
	return PaginationParams{Page: page, Limit: limit, Offset: (page - 1) * limit}
}

// NewPaginatedResponse wraps data with its pagination metadata.
func NewPaginatedResponse(data interface{}, p PaginationParams, total int64) PaginatedResponse {
	totalPages := int((total + int64(p.Limit) - 1) / int64(p.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return PaginatedResponse{
		Data: data,
		Pagination: PaginationMeta{
			Page:       p.Page,
			Limit:      p.Limit,
			Offset:     p.Offset,
			Total:      total,
			TotalPages: totalPages,
			HasMore:    int64(p.Offset+p.Limit) < total,
		},
	}
}
