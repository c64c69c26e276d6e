package view

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rtmd/pkg/schema"
)

func sequence(n int) []schema.Requirement {
	out := make([]schema.Requirement, n)
	for i := range out {
		out[i] = schema.Requirement{ReqID: schema.FormatReqID(i + 1)}
	}
	return out
}

func TestPaginate_WindowMath(t *testing.T) {
	pg := Paginate(sequence(12), 2, 10)

	assert.Equal(t, 12, pg.Total)
	assert.Equal(t, 2, pg.TotalPages)
	assert.Equal(t, 2, pg.Page)
	require.Len(t, pg.Items, 2)
	assert.Equal(t, "REQ-011", pg.Items[0].ReqID)
	assert.Equal(t, "REQ-012", pg.Items[1].ReqID)
}

func TestPaginate_ClampsAfterNarrowing(t *testing.T) {
	// Browsing page 2 of 12 items, then a filter narrows the set to 3.
	pg := Paginate(sequence(3), 2, 10)

	assert.Equal(t, 1, pg.TotalPages)
	assert.Equal(t, 1, pg.Page)
	assert.Len(t, pg.Items, 3)
}

func TestPaginate_EmptySequence(t *testing.T) {
	pg := Paginate(nil, 1, 10)

	assert.Equal(t, 0, pg.Total)
	assert.Equal(t, 0, pg.TotalPages, `empty renders as "no results", not "page 1 of 0"`)
	assert.Equal(t, 1, pg.Page)
	assert.Empty(t, pg.Items)
	assert.Empty(t, pg.Buttons)
}

func TestPaginate_SnapsUnknownPageSize(t *testing.T) {
	pg := Paginate(sequence(30), 1, 7)
	assert.Equal(t, DefaultPageSize, pg.PageSize)
	assert.Equal(t, 3, pg.TotalPages)
}

func TestClampPage(t *testing.T) {
	assert.Equal(t, 1, ClampPage(0, 5))
	assert.Equal(t, 1, ClampPage(-3, 5))
	assert.Equal(t, 5, ClampPage(9, 5))
	assert.Equal(t, 3, ClampPage(3, 5))
	assert.Equal(t, 1, ClampPage(4, 0))
}

func TestPageWindow_Centering(t *testing.T) {
	tests := []struct {
		p, totalPages int
		want          []int
	}{
		{1, 10, []int{1, 2, 3, 4, 5}},
		{3, 10, []int{1, 2, 3, 4, 5}},
		{5, 10, []int{3, 4, 5, 6, 7}},
		{8, 10, []int{6, 7, 8, 9, 10}},
		{10, 10, []int{6, 7, 8, 9, 10}},
		{2, 3, []int{1, 2, 3}},
		{1, 1, []int{1}},
		{1, 0, nil},
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("p=%d_total=%d", tt.p, tt.totalPages), func(t *testing.T) {
			assert.Equal(t, tt.want, PageWindow(tt.p, tt.totalPages))
		})
	}
}
