package usecase

// Pagination describes the window of a listing response.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	TotalCount int64 `json:"totalCount"`
	TotalPages int   `json:"totalPages"`
	HasNext    bool  `json:"hasNextPage"`
	HasPrev    bool  `json:"hasPrevPage"`
}

// NewPagination computes the pagination envelope for a listing.
// totalPages = ceil(totalCount / limit); an empty result set has zero pages
// and neither neighbor flag set.
func NewPagination(page, limit int, totalCount int64) Pagination {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 1
	}

	totalPages := int((totalCount + int64(limit) - 1) / int64(limit))

	return Pagination{
		Page:       page,
		Limit:      limit,
		TotalCount: totalCount,
		TotalPages: totalPages,
		HasNext:    page < totalPages,
		HasPrev:    page > 1,
	}
}
