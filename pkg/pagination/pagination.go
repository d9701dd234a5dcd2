// Package pagination parses the page/limit query parameters shared by the
// company, billable item, and invoice listing endpoints.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
	MinLimit     = 1
)

// Params holds a validated page window. Offset is precomputed for
// repositories that take offset/limit directly.
type Params struct {
	Page   int
	Limit  int
	Offset int
}

// Parse reads page and limit from the request query, clamping limit to
// [MinLimit, MaxLimit] and falling back to defaults on garbage input.
func Parse(c *gin.Context) Params {
	page, _ := strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(DefaultPage)))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(DefaultLimit)))

	if page < 1 {
		page = DefaultPage
	}
	if limit < MinLimit {
		limit = DefaultLimit
	}
	if limit > MaxLimit {
		limit = MaxLimit
	}

	return Params{
		Page:   page,
		Limit:  limit,
		Offset: (page - 1) * limit,
	}
}
