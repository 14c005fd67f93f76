package request

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func paginationFromQuery(query string) Pagination {
	gin.SetMode(gin.TestMode)
	ctx, _ := gin.CreateTestContext(httptest.NewRecorder())
	ctx.Request = httptest.NewRequest("GET", "/?"+query, nil)

	return NewPagination(ctx)
}

func TestNewPagination(t *testing.T) {
	tests := []struct {
		name        string
		query       string
		wantPage    int
		wantPerPage int
	}{
		{name: "defaults", query: "", wantPage: 1, wantPerPage: 20},
		{name: "explicit", query: "page=3&per_page=50", wantPage: 3, wantPerPage: 50},
		{name: "per_page capped", query: "per_page=1000", wantPage: 1, wantPerPage: 100},
		{name: "garbage falls back", query: "page=abc&per_page=xyz", wantPage: 1, wantPerPage: 20},
		{name: "zero and negative fall back", query: "page=0&per_page=-5", wantPage: 1, wantPerPage: 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := paginationFromQuery(tt.query)

			assert.Equal(t, tt.wantPage, p.Page)
			assert.Equal(t, tt.wantPerPage, p.PerPage)
		})
	}
}

func TestPagination_LimitOffset(t *testing.T) {
	p := Pagination{Page: 3, PerPage: 25}

	assert.Equal(t, 25, p.Limit())
	assert.Equal(t, 50, p.Offset())
}
