package tabular

import (
	"sort"
	"strings"

	"github.com/kinetta/takeoffctl/internal/tabular/esformat"
)

// FilterType classifies how a filter's criteria match cell values.
type FilterType string

const (
	FilterText    FilterType = "text"
	FilterDate    FilterType = "date"
	FilterNumber  FilterType = "number"
	FilterBoolean FilterType = "boolean"
	FilterEnum    FilterType = "enum"
)

// Filter is the criteria for one column. Text, boolean, and enum filters use
// Value; date and number filters use the inclusive [From, To] range with
// either bound optional. All criteria are display-value strings.
type Filter struct {
	Type  FilterType
	Label string
	Value string
	From  string
	To    string
}

// Active reports whether the filter can exclude rows. A filter with empty
// value and bounds is inert.
func (f Filter) Active() bool {
	switch f.Type {
	case FilterDate, FilterNumber:
		return strings.TrimSpace(f.From) != "" || strings.TrimSpace(f.To) != ""
	default:
		return strings.TrimSpace(f.Value) != ""
	}
}

// Matches reports whether a cell value satisfies the filter. Inert filters
// match everything.
func (f Filter) Matches(cell string) bool {
	if !f.Active() {
		return true
	}

	switch f.Type {
	case FilterText:
		return strings.Contains(strings.ToLower(cell), strings.ToLower(strings.TrimSpace(f.Value)))
	case FilterBoolean, FilterEnum:
		return strings.EqualFold(strings.TrimSpace(cell), strings.TrimSpace(f.Value))
	case FilterDate:
		v, ok := esformat.ParseDate(cell)
		if !ok {
			return false
		}
		if from, ok := esformat.ParseDate(f.From); ok && v.Before(from) {
			return false
		}
		if to, ok := esformat.ParseDate(f.To); ok && v.After(to) {
			return false
		}
		return true
	case FilterNumber:
		v, ok := esformat.ParseNumber(cell)
		if !ok {
			return false
		}
		if from, ok := esformat.ParseNumber(f.From); ok && v < from {
			return false
		}
		if to, ok := esformat.ParseNumber(f.To); ok && v > to {
			return false
		}
		return true
	default:
		return true
	}
}

// FilterSet holds filters keyed by column key.
type FilterSet map[string]Filter

// Active reports whether any filter in the set can exclude rows.
func (fs FilterSet) Active() bool {
	for _, f := range fs {
		if f.Active() {
			return true
		}
	}
	return false
}

// Clone returns an independent copy of the set.
func (fs FilterSet) Clone() FilterSet {
	out := make(FilterSet, len(fs))
	for k, f := range fs {
		out[k] = f
	}
	return out
}

// Cleared returns a copy of the set with every criteria emptied, keeping the
// filter types and labels.
func (fs FilterSet) Cleared() FilterSet {
	out := make(FilterSet, len(fs))
	for k, f := range fs {
		f.Value, f.From, f.To = "", "", ""
		out[k] = f
	}
	return out
}

// FiltersForColumns derives an inert filter set from column definitions.
// Action columns get no filter.
func FiltersForColumns(cols []Column) FilterSet {
	fs := make(FilterSet, len(cols))
	for _, c := range cols {
		var ft FilterType
		switch c.Type {
		case ColumnDate:
			ft = FilterDate
		case ColumnNumber:
			ft = FilterNumber
		case ColumnBoolean:
			ft = FilterBoolean
		case ColumnEnum:
			ft = FilterEnum
		case ColumnActions:
			continue
		default:
			ft = FilterText
		}
		fs[c.Key] = Filter{Type: ft, Label: c.Label}
	}
	return fs
}

// ApplyFilters evaluates every active filter against each record, in column
// order with AND semantics across columns. Records pass only when all active
// filters match. With no active filters the input is returned copied,
// order preserved.
func ApplyFilters(records []Record, cols []Column, fs FilterSet) []Record {
	if !fs.Active() {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if recordMatches(r, cols, fs) {
			out = append(out, r)
		}
	}
	return out
}

func recordMatches(r Record, cols []Column, fs FilterSet) bool {
	for _, c := range cols {
		f, ok := fs[c.Key]
		if !ok || !f.Active() {
			continue
		}
		if !f.Matches(r.Cell(c.Key)) {
			return false
		}
	}
	return true
}

// UniqueValues collects the distinct non-empty display values of one column,
// sorted, for filter suggestions.
func UniqueValues(records []Record, key string) []string {
	seen := make(map[string]struct{})
	for _, r := range records {
		v := strings.TrimSpace(r.Cell(key))
		if v == "" {
			continue
		}
		seen[v] = struct{}{}
	}

	out := make([]string, 0, len(seen))
	for v := range seen {
		out = append(out, v)
	}
	sort.Strings(out)
	return out
}
