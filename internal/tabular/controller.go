package tabular

import "strings"

// State is the list page lifecycle state.
type State int

const (
	StateIdle State = iota
	StateLoading
	StateLoaded
	StateConnectionError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateConnectionError:
		return "connection-error"
	default:
		return "unknown"
	}
}

// Controller is the list page state machine shared by every entity view. It
// owns the column, filter, sort, pin, and pagination state over an in-memory
// working set. Fetches are split into a Begin step that hands out a
// monotonic sequence number and a Complete step that discards stale
// responses, so an out-of-order response can never overwrite fresher state.
type Controller struct {
	columns        []Column
	defaultColumns []Column
	filters        FilterSet
	sort           SortConfig
	pinned         map[string]struct{}
	original       []Record
	working        []Record
	paginator      Paginator
	state          State
	err            error
	seq            uint64
	searchTerm     string
}

// NewController builds an idle controller for the given column definitions.
func NewController(cols []Column, pageSize int) *Controller {
	committed := CloneColumns(cols)
	return &Controller{
		columns:        committed,
		defaultColumns: CloneColumns(cols),
		filters:        FiltersForColumns(cols),
		pinned:         make(map[string]struct{}),
		paginator:      NewPaginator(pageSize, 0),
		state:          StateIdle,
	}
}

// State returns the current lifecycle state.
func (c *Controller) State() State { return c.state }

// Err returns the error of the last failed fetch, if any.
func (c *Controller) Err() error { return c.err }

// SearchTerm returns the term of the last committed search.
func (c *Controller) SearchTerm() string { return c.searchTerm }

// Columns returns a copy of the committed column list.
func (c *Controller) Columns() []Column { return CloneColumns(c.columns) }

// Filters returns a copy of the committed filter set.
func (c *Controller) Filters() FilterSet { return c.filters.Clone() }

// Sort returns the active sort config.
func (c *Controller) Sort() SortConfig { return c.sort }

// Paginator returns the current pagination state.
func (c *Controller) Paginator() Paginator { return c.paginator }

// Records returns the full working set in display order.
func (c *Controller) Records() []Record {
	out := make([]Record, len(c.working))
	copy(out, c.working)
	return out
}

// PageRecords returns the records of the current page.
func (c *Controller) PageRecords() []Record {
	return c.paginator.PageSlice(c.working)
}

// IsPinned reports whether the record id is pinned.
func (c *Controller) IsPinned(id string) bool {
	_, ok := c.pinned[id]
	return ok
}

// UniqueValues lists the distinct display values of a column over the
// original snapshot, for filter suggestions.
func (c *Controller) UniqueValues(key string) []string {
	return UniqueValues(c.original, key)
}

// BeginLoad enters the loading state and returns the sequence number the
// response must present to CompleteLoad.
func (c *Controller) BeginLoad() uint64 {
	c.seq++
	c.state = StateLoading
	return c.seq
}

// CompleteLoad installs a full fetch result. Responses carrying a stale
// sequence number are discarded. On failure the controller enters the
// connection error state and keeps its prior data. On success the result
// becomes the new original snapshot, filters are re-derived inert from the
// column definitions, sort resets, and pagination returns to page 1.
func (c *Controller) CompleteLoad(seq uint64, records []Record, err error) bool {
	if seq != c.seq {
		return false
	}
	if err != nil {
		c.state = StateConnectionError
		c.err = err
		return true
	}

	c.err = nil
	c.original = make([]Record, len(records))
	copy(c.original, records)
	c.filters = FiltersForColumns(c.columns)
	c.sort = SortConfig{}
	c.searchTerm = ""
	c.working = Partition(c.original, c.pinned)
	c.paginator = c.paginator.Reset(len(c.working))
	c.state = StateLoaded
	return true
}

// BeginSearch enters the loading state for a search and returns the
// sequence number for CompleteSearch. Blank terms must not reach here; the
// caller resets to the original snapshot instead.
func (c *Controller) BeginSearch(term string) uint64 {
	c.seq++
	c.state = StateLoading
	c.searchTerm = strings.TrimSpace(term)
	return c.seq
}

// CompleteSearch installs a search result as the working set, keeping the
// original snapshot intact. Pinned records from the snapshot are re-included
// on top even when the search result omits them.
func (c *Controller) CompleteSearch(seq uint64, records []Record, err error) bool {
	if seq != c.seq {
		return false
	}
	if err != nil {
		c.state = StateConnectionError
		c.err = err
		return true
	}

	c.err = nil
	merged := c.withPinnedFromOriginal(records)
	c.working = Partition(merged, c.pinned)
	c.paginator = c.paginator.Reset(len(c.working))
	c.state = StateLoaded
	return true
}

// ResetToOriginal restores the unsearched working set and reapplies the
// committed filters. Used when a search term is cleared.
func (c *Controller) ResetToOriginal() {
	c.searchTerm = ""
	c.rebuildWorking()
	c.state = StateLoaded
}

// ApplyFilters commits a new filter set and re-derives the working set from
// the original snapshot, applying every active filter in column order.
// Pinned records are exempt from filtering but stay in the pinned partition.
func (c *Controller) ApplyFilters(fs FilterSet) {
	c.filters = fs.Clone()
	c.rebuildWorking()
}

// ClearFilters empties every filter criteria and restores the unfiltered
// working set.
func (c *Controller) ClearFilters() {
	c.ApplyFilters(c.filters.Cleared())
}

// SortBy applies a header interaction on the given column and resorts the
// current working set. Unsortable columns are refused silently.
func (c *Controller) SortBy(col Column) bool {
	next, ok := c.sort.Toggle(col)
	if !ok {
		return false
	}
	c.sort = next
	c.working = SortPartitioned(c.working, c.pinned, c.sort)
	return true
}

// TogglePin flips pin membership for a record id and re-partitions the
// current working set without refetching or re-filtering.
func (c *Controller) TogglePin(id string) {
	if _, ok := c.pinned[id]; ok {
		delete(c.pinned, id)
	} else {
		c.pinned[id] = struct{}{}
	}
	c.working = Partition(c.working, c.pinned)
}

// CommitColumns installs an edited column list. The committed list also
// becomes the reset target for the column dialog. Filters for columns that
// no longer exist are dropped; new columns get inert filters.
func (c *Controller) CommitColumns(cols []Column) {
	c.columns = CloneColumns(cols)
	c.defaultColumns = CloneColumns(cols)

	derived := FiltersForColumns(cols)
	for k, f := range derived {
		if prev, ok := c.filters[k]; ok && prev.Type == f.Type {
			derived[k] = prev
		}
	}
	c.filters = derived
	c.rebuildWorking()
}

// ReorderColumns moves a column via drag semantics without opening the
// column dialog. Invalid moves are silent no-ops.
func (c *Controller) ReorderColumns(sourceKey, targetKey string) bool {
	moved, ok := MoveColumn(c.columns, sourceKey, targetKey)
	if !ok {
		return false
	}
	c.columns = moved
	return true
}

// ResetColumns restores the last committed column list, discarding staged
// edits.
func (c *Controller) ResetColumns() {
	c.columns = CloneColumns(c.defaultColumns)
}

// ChangePage moves to the given page if valid.
func (c *Controller) ChangePage(n int) bool {
	next, ok := c.paginator.ChangePage(n)
	if ok {
		c.paginator = next
	}
	return ok
}

// SetPageSize changes the page size, clamping the current page.
func (c *Controller) SetPageSize(size int) {
	c.paginator = c.paginator.SetPageSize(size)
}

// Retry clears the error state. The caller follows up with a fresh
// BeginLoad.
func (c *Controller) Retry() {
	c.err = nil
	c.state = StateIdle
}

// rebuildWorking derives the working set from the original snapshot:
// filters over the unpinned group, pinned group included unconditionally,
// current sort reapplied, pagination reset to page 1.
func (c *Controller) rebuildWorking() {
	var pin, rest []Record
	for _, r := range c.original {
		if _, ok := c.pinned[r.ID]; ok {
			pin = append(pin, r)
		} else {
			rest = append(rest, r)
		}
	}

	filtered := ApplyFilters(rest, c.columns, c.filters)
	merged := make([]Record, 0, len(pin)+len(filtered))
	merged = append(merged, pin...)
	merged = append(merged, filtered...)

	c.working = SortPartitioned(merged, c.pinned, c.sort)
	c.paginator = c.paginator.Reset(len(c.working))
}

// withPinnedFromOriginal prepends pinned snapshot records missing from a
// search result.
func (c *Controller) withPinnedFromOriginal(records []Record) []Record {
	if len(c.pinned) == 0 {
		return records
	}

	present := make(map[string]struct{}, len(records))
	for _, r := range records {
		present[r.ID] = struct{}{}
	}

	out := make([]Record, 0, len(records)+len(c.pinned))
	for _, r := range c.original {
		if _, pinnedOK := c.pinned[r.ID]; !pinnedOK {
			continue
		}
		if _, ok := present[r.ID]; ok {
			continue
		}
		out = append(out, r)
	}
	return append(out, records...)
}
