package pagination

// Package pagination implements the page/limit scheme used by every list
// endpoint. Pages are 1-based; limit is clamped per endpoint.

const (
	// DefaultLimit applies when the client omits or zeroes the limit.
	DefaultLimit = 12
	// MaxLimit caps any client-supplied limit.
	MaxLimit = 50
)

// Params carries normalized paging inputs.
type Params struct {
	Page  int
	Limit int
}

// Normalize clamps the params into valid ranges using the given defaults.
func Normalize(page, limit, defaultLimit, maxLimit int) Params {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return Params{Page: page, Limit: limit}
}

// Offset converts the page into a row offset.
func (p Params) Offset() int {
	return (p.Page - 1) * p.Limit
}

// Meta is the paging block returned alongside list payloads.
type Meta struct {
	CurrentPage int   `json:"currentPage"`
	TotalPages  int   `json:"totalPages"`
	TotalCount  int64 `json:"totalCount"`
	HasNext     bool  `json:"hasNext"`
	HasPrev     bool  `json:"hasPrev"`
	Limit       int   `json:"limit"`
}

// NewMeta derives paging metadata from the total row count.
func NewMeta(params Params, totalCount int64) Meta {
	totalPages := int((totalCount + int64(params.Limit) - 1) / int64(params.Limit))
	if totalPages < 1 {
		totalPages = 1
	}
	return Meta{
		CurrentPage: params.Page,
		TotalPages:  totalPages,
		TotalCount:  totalCount,
		HasNext:     params.Page < totalPages,
		HasPrev:     params.Page > 1,
		Limit:       params.Limit,
	}
}
