// Package pagination pages admin list queries. A list is returned whole
// unless the request names a page, in which case the body becomes a Page.
package pagination

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const (
	DefaultSize = 20
	MaxSize     = 100
)

type Query struct {
	Page int
	Size int
}

func (q Query) Offset() int { return (q.Page - 1) * q.Size }

// Parse returns nil when the request has no "page" parameter. Out-of-range
// values are clamped rather than rejected.
func Parse(c *gin.Context) *Query {
	raw, ok := c.GetQuery("page")
	if !ok {
		return nil
	}
	q := Query{Page: atoiOr(raw, 1), Size: atoiOr(c.Query("size"), DefaultSize)}
	if q.Page < 1 {
		q.Page = 1
	}
	if q.Size < 1 {
		q.Size = DefaultSize
	}
	if q.Size > MaxSize {
		q.Size = MaxSize
	}
	return &q
}

// Meta describes where a page sits in the full result.
type Meta struct {
	Total       int64 `json:"total"`
	CurrentPage int   `json:"current_page"`
	TotalPage   int   `json:"total_page"`
	Size        int   `json:"size"`
	HasNextPage bool  `json:"has_next_page"`
}

// Page is the {data, pagination} list body.
type Page[T any] struct {
	Data       []T  `json:"data"`
	Pagination Meta `json:"pagination"`
}

func newMeta(q Query, total int64) Meta {
	pages := int((total + int64(q.Size) - 1) / int64(q.Size))
	return Meta{
		Total:       total,
		CurrentPage: q.Page,
		TotalPage:   pages,
		Size:        q.Size,
		HasNextPage: q.Page < pages,
	}
}

// Load runs tx and returns the response body: every row as []T when q is
// nil, otherwise the requested Page[T]. tx itself is left unchanged.
func Load[T any](tx *gorm.DB, q *Query) (interface{}, error) {
	rows := []T{}
	if q == nil {
		if err := tx.Session(&gorm.Session{}).Find(&rows).Error; err != nil {
			return nil, err
		}
		return rows, nil
	}

	var total int64
	if err := tx.Session(&gorm.Session{}).Count(&total).Error; err != nil {
		return nil, err
	}
	if err := tx.Session(&gorm.Session{}).Offset(q.Offset()).Limit(q.Size).Find(&rows).Error; err != nil {
		return nil, err
	}
	return Page[T]{Data: rows, Pagination: newMeta(*q, total)}, nil
}

func atoiOr(s string, def int) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return v
}
