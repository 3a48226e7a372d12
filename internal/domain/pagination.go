package domain

import "math"

// Page describes the slice of a result set that was returned.
type Page struct {
	Page  int
	Limit int
	Total int64
}

// Pages returns ceil(Total / Limit), or 0 when the limit is not positive.
func (p Page) Pages() int64 {
	if p.Limit <= 0 || p.Total <= 0 {
		return 0
	}
	limit := int64(p.Limit)
	return (p.Total + limit - 1) / limit
}

// Offset returns the zero-based row offset for the page, saturating at
// math.MaxInt instead of overflowing.
func (p Page) Offset() int {
	if p.Page <= 1 || p.Limit <= 0 {
		return 0
	}
	if p.Page-1 > math.MaxInt/p.Limit {
		return math.MaxInt
	}
	return (p.Page - 1) * p.Limit
}
