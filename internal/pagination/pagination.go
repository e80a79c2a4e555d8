package pagination

import (
	"gorm.io/gorm"
)

// DefaultPerPage is the page size used when per_page is omitted.
const DefaultPerPage = 25

// PageRequest holds pagination parameters parsed from query strings.
type PageRequest struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1,max=100"`
}

// Defaults fills in default values when page or per_page are not provided.
func (p *PageRequest) Defaults() {
	if p.Page == 0 {
		p.Page = 1
	}
	if p.PerPage == 0 {
		p.PerPage = DefaultPerPage
	}
}

// Offset returns the SQL OFFSET for the current page.
func (p *PageRequest) Offset() int {
	return (p.Page - 1) * p.PerPage
}

// Query is the pagination block of a list response.
type Query struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	TotalPages int   `json:"total_pages"`
	TotalItems int64 `json:"total_items"`
	NextPage   bool  `json:"next_page"`
}

// NewQuery computes page counts for a result of totalItems rows.
func NewQuery(page, perPage int, totalItems int64) Query {
	totalPages := 0
	if perPage > 0 {
		totalPages = int((totalItems + int64(perPage) - 1) / int64(perPage))
	}
	return Query{
		Page:       page,
		PerPage:    perPage,
		TotalPages: totalPages,
		TotalItems: totalItems,
		NextPage:   page < totalPages,
	}
}

// PageResponse is the list envelope {data:{<key>:[...]}, query:{...}}.
type PageResponse[T any] struct {
	Data  map[string][]T `json:"data"`
	Query Query          `json:"query"`
}

// NewPageResponse wraps items under key with pagination metadata.
func NewPageResponse[T any](key string, items []T, page, perPage int, totalItems int64) PageResponse[T] {
	if items == nil {
		items = []T{}
	}
	return PageResponse[T]{
		Data:  map[string][]T{key: items},
		Query: NewQuery(page, perPage, totalItems),
	}
}

// Items returns the wrapped slice.
func (r PageResponse[T]) Items(key string) []T {
	return r.Data[key]
}

// Paginate returns a GORM scope that applies OFFSET and LIMIT for the given page request.
func Paginate(req PageRequest) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		return db.Offset(req.Offset()).Limit(req.PerPage)
	}
}
