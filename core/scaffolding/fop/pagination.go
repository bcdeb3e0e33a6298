package fop

import (
	"fmt"
	"strconv"
)

// MaxLimit caps the page size a caller may request.
const MaxLimit = 100

// PageOffset represents a limit/offset window. A zero Limit means every
// matching row.
type PageOffset struct {
	Limit  int
	Offset int
}

// Unbounded reports whether the page returns all rows.
func (p PageOffset) Unbounded() bool {
	return p.Limit == 0
}

// ParseLimit parses a page limit in [1, MaxLimit]. An empty string yields 0.
func ParseLimit(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	limit, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("limit must be an integer")
	}
	if limit < 1 || limit > MaxLimit {
		return 0, fmt.Errorf("limit must be between 1 and %d", MaxLimit)
	}
	return limit, nil
}

// ParseOffset parses a non-negative row offset. An empty string yields 0.
func ParseOffset(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	offset, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("offset must be an integer")
	}
	if offset < 0 {
		return 0, fmt.Errorf("offset must be 0 or greater")
	}
	return offset, nil
}

// PageInfoOffset returns pagination data for a limit/offset query.
type PageInfoOffset struct {
	Total       int  `json:"total"`
	Limit       int  `json:"limit"`
	Offset      int  `json:"offset"`
	HasMore     bool `json:"hasMore"`
	CurrentPage int  `json:"currentPage"`
	TotalPages  int  `json:"totalPages"`
}

// NewPageInfoOffset computes page metadata for a window over total rows.
// An unbounded page reports the total as its limit.
func NewPageInfoOffset(page PageOffset, total int) PageInfoOffset {
	limit := page.Limit
	if limit == 0 {
		limit = total
	}

	info := PageInfoOffset{
		Total:       total,
		Limit:       limit,
		Offset:      page.Offset,
		HasMore:     page.Offset+limit < total,
		CurrentPage: 1,
	}

	if limit > 0 {
		info.CurrentPage = page.Offset/limit + 1
		info.TotalPages = (total + limit - 1) / limit
	}

	return info
}
