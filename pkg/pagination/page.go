// Package pagination computes offset/limit windows for listing endpoints.
package pagination

import "strconv"

// DefaultPageSize is the number of items per page when no size is given.
const DefaultPageSize = 10

// Page describes one window over a list of items.
// It is derived entirely from the item count, the requested index and the page size.
type Page struct {
	ItemCount   int  `json:"item_count"`
	PageSize    int  `json:"page_size"`
	PageCount   int  `json:"page_count"`
	PageIndex   int  `json:"page_index"`
	Offset      int  `json:"offset"`
	Limit       int  `json:"limit"`
	HasNext     bool `json:"has_next"`
	HasPrevious bool `json:"has_previous"`
}

// Option configures page construction.
type Option func(*Page)

// WithPageSize overrides DefaultPageSize. Values below 1 are ignored.
func WithPageSize(size int) Option {
	return func(p *Page) {
		if size >= 1 {
			p.PageSize = size
		}
	}
}

// New builds a Page for itemCount items at the 1-based pageIndex.
// An empty list or an index past the last page yields an empty window on page 1.
func New(itemCount, pageIndex int, opts ...Option) Page {
	p := Page{
		ItemCount: max(itemCount, 0),
		PageSize:  DefaultPageSize,
	}
	for _, opt := range opts {
		opt(&p)
	}

	p.PageCount = (p.ItemCount + p.PageSize - 1) / p.PageSize

	if p.ItemCount == 0 || pageIndex > p.PageCount {
		p.PageIndex = 1
		p.Offset = 0
		p.Limit = 0
	} else {
		p.PageIndex = max(pageIndex, 1)
		p.Offset = p.PageSize * (p.PageIndex - 1)
		p.Limit = p.PageSize
	}

	p.HasNext = p.PageIndex < p.PageCount
	p.HasPrevious = p.PageIndex > 1
	return p
}

// Empty reports whether the window selects no rows.
func (p Page) Empty() bool {
	return p.Limit == 0
}

// ParseIndex converts a raw page parameter into a 1-based index.
// Unparsable or non-positive input falls back to 1.
func ParseIndex(raw string) int {
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return 1
	}
	return n
}
