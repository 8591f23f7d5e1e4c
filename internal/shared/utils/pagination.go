package utils

import (
	"strconv"

	"buxta-backend/internal/shared/apperror"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

const DefaultPageSize = 20

// Pagination is the page/limit pair read from ?page= and ?limit=
type Pagination struct {
	Page  int
	Limit int
}

func (p Pagination) Offset() int {
	return (p.Page - 1) * p.Limit
}

// ParsePagination never fails: bad or missing values fall back to page 1 and DefaultPageSize.
func ParsePagination(c *gin.Context) Pagination {
	p := Pagination{Page: 1, Limit: DefaultPageSize}

	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		p.Page = v
	}
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 && v <= 100 {
		p.Limit = v
	}
	return p
}

// ParseUUIDParam reads a path parameter as a UUID
func ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, apperror.BadRequest("INVALID_ID", "Invalid "+name)
	}
	return id, nil
}
