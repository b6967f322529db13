package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTotalPages(t *testing.T) {
	require.Equal(t, 0, NewPaginator(10, 0).TotalPages())
	require.Equal(t, 1, NewPaginator(10, 1).TotalPages())
	require.Equal(t, 1, NewPaginator(10, 10).TotalPages())
	require.Equal(t, 3, NewPaginator(10, 23).TotalPages())
}

func TestChangePageBounds(t *testing.T) {
	p := NewPaginator(10, 23)

	_, ok := p.ChangePage(0)
	require.False(t, ok)
	_, ok = p.ChangePage(4)
	require.False(t, ok)
	_, ok = p.ChangePage(1)
	require.False(t, ok, "moving to the current page is not a change")

	p, ok = p.ChangePage(3)
	require.True(t, ok)
	require.Equal(t, 3, p.CurrentPage)
}

func TestItemRangeScenario(t *testing.T) {
	p := NewPaginator(10, 23)
	p, ok := p.ChangePage(3)
	require.True(t, ok)

	require.Equal(t, 3, p.TotalPages())
	require.Equal(t, 23, p.MaxDisplayed())
	require.Equal(t, 21, p.FirstItemIndex())
}

func TestFirstItemIndexEmpty(t *testing.T) {
	require.Equal(t, 0, NewPaginator(10, 0).FirstItemIndex())
}

func TestSetPageSizeClampsCurrentPage(t *testing.T) {
	p := NewPaginator(5, 23)
	p, _ = p.ChangePage(5)

	p = p.SetPageSize(10)
	require.Equal(t, 3, p.CurrentPage)

	p = p.SetPageSize(50)
	require.Equal(t, 1, p.CurrentPage)

	empty := NewPaginator(10, 0).SetPageSize(5)
	require.Equal(t, 1, empty.CurrentPage)
}

func TestPageNumbersWindow(t *testing.T) {
	p := Paginator{CurrentPage: 1, ItemsPerPage: 10, TotalItems: 200, MaxDisplayedPages: 5}
	require.Equal(t, []int{1, 2, 3, 4, 5}, p.PageNumbers())
	require.False(t, p.ShowLeadingGap())
	require.True(t, p.ShowTrailingGap())

	p.CurrentPage = 10
	require.Equal(t, []int{8, 9, 10, 11, 12}, p.PageNumbers())
	require.True(t, p.ShowLeadingGap())
	require.True(t, p.ShowTrailingGap())

	p.CurrentPage = 20
	require.Equal(t, []int{16, 17, 18, 19, 20}, p.PageNumbers())
	require.True(t, p.ShowLeadingGap())
	require.False(t, p.ShowTrailingGap())
}

func TestPageNumbersLengthMin(t *testing.T) {
	for total := 1; total <= 12; total++ {
		p := Paginator{CurrentPage: 1, ItemsPerPage: 1, TotalItems: total, MaxDisplayedPages: 5}
		want := min(5, total)
		require.Len(t, p.PageNumbers(), want, "total=%d", total)
	}
}

func TestPageSlice(t *testing.T) {
	records := make([]Record, 23)
	for i := range records {
		records[i] = Record{ID: string(rune('a' + i))}
	}

	p := NewPaginator(10, 23)
	require.Len(t, p.PageSlice(records), 10)

	p, _ = p.ChangePage(3)
	require.Len(t, p.PageSlice(records), 3)

	require.Nil(t, Paginator{CurrentPage: 5, ItemsPerPage: 10, TotalItems: 23}.PageSlice(records))
}

func TestNextPageSizeCycles(t *testing.T) {
	require.Equal(t, 10, NextPageSize(5))
	require.Equal(t, 5, NextPageSize(50))
	require.Equal(t, 5, NextPageSize(7))
}
