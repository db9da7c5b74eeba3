package service

import "quill/internal/domain"

// Pagination is the metadata block attached to every paged listing.
type Pagination struct {
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	Total   int  `json:"total"`
	HasNext bool `json:"has_next"`
}

// NewPagination builds the block for one page window over total items.
func NewPagination(page, limit, total int) Pagination {
	return Pagination{
		Page:    page,
		Limit:   limit,
		Total:   total,
		HasNext: page*limit < total,
	}
}

// PostPage is one page of posts plus its pagination metadata.
type PostPage struct {
	Data       []*domain.BlogPost `json:"data"`
	Pagination Pagination         `json:"pagination"`
}
