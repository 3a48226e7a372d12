package service

import (
	"math"

	"github.com/spec-kit/kitchen-service/internal/config"
	"github.com/spec-kit/kitchen-service/internal/domain"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// Paginator clamps client supplied paging parameters. The zero value uses 20/100.
type Paginator struct {
	defaultLimit int
	maxLimit     int
}

// NewPaginator builds a paginator, falling back to 20/100 for unset bounds.
func NewPaginator(cfg config.PaginationConfig) Paginator {
	return Paginator{defaultLimit: cfg.DefaultLimit, maxLimit: cfg.MaxLimit}.bounds()
}

func (p Paginator) bounds() Paginator {
	if p.defaultLimit <= 0 {
		p.defaultLimit = defaultPageLimit
	}
	if p.maxLimit <= 0 {
		p.maxLimit = maxPageLimit
	}
	if p.defaultLimit > p.maxLimit {
		p.defaultLimit = p.maxLimit
	}
	return p
}

// Normalize returns a page with page >= 1 and 1 <= limit <= max. Page is
// capped so that page*limit stays within int.
func (p Paginator) Normalize(page, limit int) domain.Page {
	p = p.bounds()
	if limit <= 0 {
		limit = p.defaultLimit
	}
	if limit > p.maxLimit {
		limit = p.maxLimit
	}
	if page < 1 {
		page = 1
	}
	if maxPage := math.MaxInt / limit; page > maxPage {
		page = maxPage
	}
	return domain.Page{Page: page, Limit: limit}
}
