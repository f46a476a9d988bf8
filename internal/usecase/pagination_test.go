package usecase

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name       string
		page       int
		limit      int
		totalCount int64
		wantPages  int
		wantNext   bool
		wantPrev   bool
	}{
		{name: "first of many", page: 1, limit: 20, totalCount: 95, wantPages: 5, wantNext: true, wantPrev: false},
		{name: "middle page", page: 3, limit: 20, totalCount: 95, wantPages: 5, wantNext: true, wantPrev: true},
		{name: "last page", page: 5, limit: 20, totalCount: 95, wantPages: 5, wantNext: false, wantPrev: true},
		{name: "exact fit", page: 2, limit: 10, totalCount: 20, wantPages: 2, wantNext: false, wantPrev: true},
		{name: "empty result", page: 1, limit: 20, totalCount: 0, wantPages: 0, wantNext: false, wantPrev: false},
		{name: "single item", page: 1, limit: 20, totalCount: 1, wantPages: 1, wantNext: false, wantPrev: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := NewPagination(tt.page, tt.limit, tt.totalCount)

			assert.Equal(t, tt.page, p.Page)
			assert.Equal(t, tt.limit, p.Limit)
			assert.Equal(t, tt.totalCount, p.TotalCount)
			assert.Equal(t, tt.wantPages, p.TotalPages)
			assert.Equal(t, tt.wantNext, p.HasNext)
			assert.Equal(t, tt.wantPrev, p.HasPrev)
		})
	}
}
