package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PaginationMeta defines the structure for pagination metadata.
type PaginationMeta struct {
	TotalItems  int64 `json:"total_items"`
	TotalPages  int   `json:"total_pages"`
	CurrentPage int   `json:"current_page"`
	PageSize    int   `json:"page_size"`
}

// PaginatedResponse defines the structure for a paginated list of any type.
type PaginatedResponse[T any] struct {
	Data []T            `json:"data"`
	Meta PaginationMeta `json:"meta"`
}

// pageParams reads page and limit query parameters with sane defaults.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 20
	}
	return page, limit
}

// Paginate slices a full result set into one page. Lists here are small
// (a household's game history), so pagination happens after the store query.
func Paginate[T any](items []T, page, limit int) PaginatedResponse[T] {
	totalItems := len(items)
	start := (page - 1) * limit
	if start > totalItems {
		start = totalItems
	}
	end := start + limit
	if end > totalItems {
		end = totalItems
	}
	return PaginatedResponse[T]{
		Data: items[start:end],
		Meta: PaginationMeta{
			TotalItems:  int64(totalItems),
			TotalPages:  (totalItems + limit - 1) / limit,
			CurrentPage: page,
			PageSize:    limit,
		},
	}
}
