// Package listing implements offset pagination over in-memory result sets.
package listing

// Defaults and bounds for page requests.
const (
	DefaultPage  = 1
	DefaultLimit = 10
	MaxLimit     = 100
)

// Sort directions.
const (
	Asc  = "asc"
	Desc = "desc"
)

// Pagination describes where a page sits in the full result set.
type Pagination struct {
	Page       int  `json:"page"`
	Limit      int  `json:"limit"`
	Total      int  `json:"total"`
	TotalPages int  `json:"totalPages"`
	HasNext    bool `json:"hasNext"`
	HasPrev    bool `json:"hasPrev"`
}

// Page is one slice of results plus its pagination metadata.
type Page[T any] struct {
	Data       []T        `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Normalize fills zero page and limit with defaults.
func Normalize(page, limit int) (int, int) {
	if page == 0 {
		page = DefaultPage
	}
	if limit == 0 {
		limit = DefaultLimit
	}
	return page, limit
}

// Paginate returns the 1-based page of items. page and limit must be
// positive; callers validate them first.
func Paginate[T any](items []T, page, limit int) Page[T] {
	total := len(items)
	totalPages := total / limit
	if total%limit != 0 {
		totalPages++
	}

	// Compare before multiplying so huge page numbers cannot overflow.
	start, end := total, total
	if page-1 < totalPages {
		start = (page - 1) * limit
		if limit < total-start {
			end = start + limit
		}
	}

	data := make([]T, end-start)
	copy(data, items[start:end])

	return Page[T]{
		Data: data,
		Pagination: Pagination{
			Page:       page,
			Limit:      limit,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
			HasPrev:    page > 1,
		},
	}
}
