package httpx

import (
	"net/http"
	"strconv"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
	// maxPage keeps (page-1)*page_size far from int overflow.
	maxPage = 1_000_000
)

// Page is a parsed page/page_size pair.
type Page struct {
	Number int
	Size   int
}

func (p Page) Limit() int  { return p.Size }

// Offset is never negative, even for a Page built by hand.
func (p Page) Offset() int {
	n := min(max(p.Number, 1), maxPage)
	return (n - 1) * p.Size
}

// ParsePage reads page and page_size from the query string, clamping bad input to defaults.
func ParsePage(r *http.Request) Page {
	query := r.URL.Query()
	page, _ := strconv.Atoi(query.Get("page"))
	if page < 1 {
		page = 1
	}
	if page > maxPage {
		page = maxPage
	}
	pageSize, _ := strconv.Atoi(query.Get("page_size"))
	if pageSize <= 0 || pageSize > maxPageSize {
		pageSize = defaultPageSize
	}
	return Page{Number: page, Size: pageSize}
}

// Meta builds the pagination block for list responses.
func (p Page) Meta(total int) map[string]any {
	return map[string]any{
		"page":        p.Number,
		"page_size":   p.Size,
		"total":       total,
		"total_pages": (total + p.Size - 1) / p.Size,
	}
}
