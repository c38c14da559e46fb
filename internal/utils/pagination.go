package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PaginationParams holds clamped pagination parameters.
type PaginationParams struct {
	Page     int
	PageSize int
}

// GetPaginationParams extracts page/pageSize from the query string and clamps
// them: page < 1 becomes 1, pageSize outside (0, 100] becomes 20.
func GetPaginationParams(c *gin.Context) PaginationParams {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("pageSize", strconv.Itoa(DefaultPageSize)))
	return ClampPagination(page, pageSize)
}

// ClampPagination applies the pagination bounds to raw values.
func ClampPagination(page, pageSize int) PaginationParams {
	if page < 1 {
		page = 1
	}
	if pageSize <= 0 || pageSize > MaxPageSize {
		pageSize = DefaultPageSize
	}
	return PaginationParams{Page: page, PageSize: pageSize}
}

// Offset returns the row offset for the current page.
func (p PaginationParams) Offset() int {
	return (p.Page - 1) * p.PageSize
}
