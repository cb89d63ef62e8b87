package helpers

import (
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewPaginationInfo(t *testing.T) {
	tests := []struct {
		name       string
		total      int64
		page, size int
		wantPages  int
		wantPage   int
	}{
		{"exact pages", 24, 2, 12, 2, 2},
		{"partial last page", 25, 3, 12, 3, 3},
		{"empty first page", 0, 1, 10, 1, 1},
		{"page past the end is clamped", 5, 9, 10, 1, 1},
		{"zero size falls back", 30, 1, 0, 3, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			info := NewPaginationInfo(tt.total, tt.page, tt.size)
			assert.Equal(t, tt.wantPages, info.TotalPages)
			assert.Equal(t, tt.wantPage, info.CurrentPage)
			assert.Equal(t, tt.total, info.TotalItems)
		})
	}
}

func TestParsePaginationParams(t *testing.T) {
	gin.SetMode(gin.TestMode)

	parse := func(query string, def int) (int, int) {
		c, _ := gin.CreateTestContext(httptest.NewRecorder())
		c.Request = httptest.NewRequest("GET", "/?"+query, nil)
		return ParsePaginationParams(c, def)
	}

	page, size := parse("", DirectoryPageSize)
	assert.Equal(t, 1, page)
	assert.Equal(t, 12, size)

	page, size = parse("page=3&size=20", DirectoryPageSize)
	assert.Equal(t, 3, page)
	assert.Equal(t, 20, size)

	page, size = parse("page=-1&size=1000", 0)
	assert.Equal(t, 1, page)
	assert.Equal(t, DefaultPageSize, size)
}
