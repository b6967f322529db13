package tabular

// PageSizes are the selectable page sizes, cycled in order.
var PageSizes = []int{5, 10, 20, 50}

// DefaultMaxDisplayedPages bounds the page-number window.
const DefaultMaxDisplayedPages = 5

// Paginator computes page windows and visible-item ranges. It is a value
// type: mutating operations return the adjusted paginator.
type Paginator struct {
	CurrentPage       int
	ItemsPerPage      int
	TotalItems        int
	MaxDisplayedPages int
}

// NewPaginator builds a paginator on page 1.
func NewPaginator(itemsPerPage, totalItems int) Paginator {
	if itemsPerPage <= 0 {
		itemsPerPage = PageSizes[1]
	}
	return Paginator{
		CurrentPage:       1,
		ItemsPerPage:      itemsPerPage,
		TotalItems:        totalItems,
		MaxDisplayedPages: DefaultMaxDisplayedPages,
	}
}

// TotalPages is ceil(TotalItems / ItemsPerPage). Zero items yields zero
// pages.
func (p Paginator) TotalPages() int {
	if p.TotalItems <= 0 || p.ItemsPerPage <= 0 {
		return 0
	}
	return (p.TotalItems + p.ItemsPerPage - 1) / p.ItemsPerPage
}

// ChangePage moves to page n. The move is accepted only when n is within
// [1, TotalPages] and differs from the current page.
func (p Paginator) ChangePage(n int) (Paginator, bool) {
	if n < 1 || n > p.TotalPages() || n == p.CurrentPage {
		return p, false
	}
	p.CurrentPage = n
	return p, true
}

// SetPageSize changes the page size. When the current page falls beyond the
// recomputed total it is clamped to max(totalPages, 1).
func (p Paginator) SetPageSize(size int) Paginator {
	if size <= 0 {
		return p
	}
	p.ItemsPerPage = size
	if total := p.TotalPages(); p.CurrentPage > total {
		p.CurrentPage = max(total, 1)
	}
	return p
}

// SetTotalItems updates the item count, clamping the current page the same
// way a size change does.
func (p Paginator) SetTotalItems(total int) Paginator {
	if total < 0 {
		total = 0
	}
	p.TotalItems = total
	if tp := p.TotalPages(); p.CurrentPage > tp {
		p.CurrentPage = max(tp, 1)
	}
	return p
}

// Reset returns to page 1 with a new item count.
func (p Paginator) Reset(totalItems int) Paginator {
	p.CurrentPage = 1
	return p.SetTotalItems(totalItems)
}

// PageNumbers produces a window of up to MaxDisplayedPages page numbers
// centered on the current page, shifted so it never extends past the last
// page and never starts before page 1.
func (p Paginator) PageNumbers() []int {
	total := p.TotalPages()
	if total == 0 {
		return nil
	}

	maxShown := p.MaxDisplayedPages
	if maxShown <= 0 {
		maxShown = DefaultMaxDisplayedPages
	}
	if maxShown > total {
		maxShown = total
	}

	start := p.CurrentPage - maxShown/2
	if start < 1 {
		start = 1
	}
	if start+maxShown-1 > total {
		start = total - maxShown + 1
	}

	pages := make([]int, maxShown)
	for i := range pages {
		pages[i] = start + i
	}
	return pages
}

// ShowLeadingGap reports whether pages exist before the displayed window.
func (p Paginator) ShowLeadingGap() bool {
	pages := p.PageNumbers()
	return len(pages) > 0 && pages[0] > 1
}

// ShowTrailingGap reports whether pages exist after the displayed window.
func (p Paginator) ShowTrailingGap() bool {
	pages := p.PageNumbers()
	return len(pages) > 0 && pages[len(pages)-1] < p.TotalPages()
}

// FirstItemIndex is the 1-based index of the first item on the current page,
// or 0 when there are no items.
func (p Paginator) FirstItemIndex() int {
	if p.TotalItems == 0 {
		return 0
	}
	return (p.CurrentPage-1)*p.ItemsPerPage + 1
}

// MaxDisplayed is the 1-based index of the last item on the current page.
func (p Paginator) MaxDisplayed() int {
	return min(p.CurrentPage*p.ItemsPerPage, p.TotalItems)
}

// PageSlice returns the records belonging to the current page.
func (p Paginator) PageSlice(records []Record) []Record {
	if len(records) == 0 {
		return nil
	}
	start := (p.CurrentPage - 1) * p.ItemsPerPage
	if start < 0 || start >= len(records) {
		return nil
	}
	end := min(start+p.ItemsPerPage, len(records))
	return records[start:end]
}

// NextPageSize returns the next size in the cycle after the given one.
func NextPageSize(size int) int {
	for i, s := range PageSizes {
		if s == size {
			return PageSizes[(i+1)%len(PageSizes)]
		}
	}
	return PageSizes[0]
}
