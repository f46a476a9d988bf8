package repository

// Sort directions accepted by List operations.
const (
	SortAsc  = "asc"
	SortDesc = "desc"
)

// Page describes the window and ordering of a listing query.
// SortBy must already be resolved against the caller's allow-list;
// repositories trust it as a column name.
type Page struct {
	Page      int
	Limit     int
	SortBy    string
	SortOrder string
}

// Offset computes the number of records to skip for the current page.
func (p Page) Offset() int {
	if p.Page < 1 {
		return 0
	}

	return (p.Page - 1) * p.Limit
}
