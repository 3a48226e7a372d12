package dto

import "github.com/spec-kit/kitchen-service/internal/domain"

// Envelope wraps every successful response.
type Envelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data,omitempty"`
}

// ErrorEnvelope is the body of every failed response.
type ErrorEnvelope struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Code    string         `json:"code"`
	Details map[string]any `json:"details,omitempty"`
}

// Pagination describes a page of a listing.
type Pagination struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
	Pages int64 `json:"pages"`
}

// MessageResponse carries a human readable acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// NewPagination maps a domain page.
func NewPagination(page domain.Page) Pagination {
	return Pagination{Page: page.Page, Limit: page.Limit, Total: page.Total, Pages: page.Pages()}
}
