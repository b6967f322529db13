package tabular

import (
	"slices"
	"strings"

	"github.com/kinetta/takeoffctl/internal/tabular/esformat"
)

// Direction is the sort direction.
type Direction string

const (
	Ascending  Direction = "asc"
	Descending Direction = "desc"
)

// SortConfig is the single active sort. Column is empty when no sort is
// active. Direction defaults to ascending.
type SortConfig struct {
	Column    string
	Direction Direction
}

// Toggle computes the next sort config for a header interaction: clicking
// the active ascending column flips it to descending, anything else becomes
// the active column ascending. Unsortable columns are refused silently.
func (s SortConfig) Toggle(col Column) (SortConfig, bool) {
	if !col.Sortable {
		return s, false
	}
	if s.Column == col.Key && s.Direction == Ascending {
		return SortConfig{Column: col.Key, Direction: Descending}, true
	}
	return SortConfig{Column: col.Key, Direction: Ascending}, true
}

// CompareCells orders two display values. Values that both parse as numbers
// compare numerically, values that both parse as dates compare
// chronologically, everything else compares as case-folded strings. Missing
// values read as empty strings and sort first.
func CompareCells(a, b string) int {
	if an, aok := esformat.ParseNumber(a); aok {
		if bn, bok := esformat.ParseNumber(b); bok {
			switch {
			case an < bn:
				return -1
			case an > bn:
				return 1
			default:
				return 0
			}
		}
	}
	if at, aok := esformat.ParseDate(a); aok {
		if bt, bok := esformat.ParseDate(b); bok {
			return at.Compare(bt)
		}
	}
	return strings.Compare(strings.ToLower(a), strings.ToLower(b))
}

// SortRecords stably sorts a copy of records by the configured column.
// Descending negates the comparison. An empty column leaves the order
// untouched.
func SortRecords(records []Record, cfg SortConfig) []Record {
	out := make([]Record, len(records))
	copy(out, records)
	if cfg.Column == "" {
		return out
	}

	slices.SortStableFunc(out, func(a, b Record) int {
		c := CompareCells(a.Cell(cfg.Column), b.Cell(cfg.Column))
		if cfg.Direction == Descending {
			return -c
		}
		return c
	})
	return out
}

// SortPartitioned sorts the pinned and unpinned groups independently and
// concatenates them pinned-first, so pinned records participate in sorting
// only within their own partition.
func SortPartitioned(records []Record, pinned map[string]struct{}, cfg SortConfig) []Record {
	if len(pinned) == 0 {
		return SortRecords(records, cfg)
	}

	var pin, rest []Record
	for _, r := range records {
		if _, ok := pinned[r.ID]; ok {
			pin = append(pin, r)
		} else {
			rest = append(rest, r)
		}
	}

	out := make([]Record, 0, len(records))
	out = append(out, SortRecords(pin, cfg)...)
	out = append(out, SortRecords(rest, cfg)...)
	return out
}
