package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPaginatorNumPages(t *testing.T) {
	cases := []struct {
		count int64
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{18, 2},
		{20, 2},
		{21, 3},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, NewPaginator(tc.count).NumPages(), "count=%d", tc.count)
	}
}

func TestPaginatorClamp(t *testing.T) {
	p := NewPaginator(18)

	assert.Equal(t, 1, p.Clamp(1))
	assert.Equal(t, 2, p.Clamp(2))
	// past the end and below 1 both land on the last page
	assert.Equal(t, 2, p.Clamp(3))
	assert.Equal(t, 2, p.Clamp(1000))
	assert.Equal(t, 2, p.Clamp(0))
	assert.Equal(t, 2, p.Clamp(-5))

	empty := NewPaginator(0)
	assert.Equal(t, 1, empty.Clamp(7))
}

func TestPaginatorWindow(t *testing.T) {
	p := NewPaginator(18)

	limit, offset := p.Window(1)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 0, offset)

	limit, offset = p.Window(2)
	assert.Equal(t, 10, limit)
	assert.Equal(t, 10, offset)
}

func TestPageNumber(t *testing.T) {
	assert.Equal(t, 1, PageNumber(""))
	assert.Equal(t, 1, PageNumber("abc"))
	assert.Equal(t, 1, PageNumber("1.5"))
	assert.Equal(t, 3, PageNumber("3"))
	assert.Equal(t, -2, PageNumber("-2"))
}

func TestPageNavigation(t *testing.T) {
	page := &Page[int]{Number: 2, NumPages: 3}

	assert.True(t, page.HasNext())
	assert.True(t, page.HasPrevious())
	assert.Equal(t, 3, page.NextNumber())
	assert.Equal(t, 1, page.PreviousNumber())
	assert.Equal(t, []int{1, 2, 3}, page.PageRange())

	first := &Page[int]{Number: 1, NumPages: 1}
	assert.False(t, first.HasNext())
	assert.False(t, first.HasPrevious())
}
