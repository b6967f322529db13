package tabular

import "slices"

// ColumnType classifies how a column's values are compared and filtered.
type ColumnType string

const (
	ColumnText    ColumnType = "text"
	ColumnDate    ColumnType = "date"
	ColumnNumber  ColumnType = "number"
	ColumnBoolean ColumnType = "boolean"
	ColumnEnum    ColumnType = "enum"
	ColumnActions ColumnType = "actions"
)

// Column describes one table column. Key is unique within a table and is
// also the cell key on Record.
type Column struct {
	Key       string
	Label     string
	Type      ColumnType
	Sortable  bool
	Draggable bool
	Visible   bool
}

// Fixed columns are pinned to their position and always visible.
const (
	ColumnKeyID      = "id"
	ColumnKeyActions = "actions"
)

// IsFixedColumn reports whether the key names a column exempt from
// visibility toggling and drag reordering.
func IsFixedColumn(key string) bool {
	return key == ColumnKeyID || key == ColumnKeyActions
}

// CloneColumns returns an independent copy of the column list. Column values
// are treated as immutable so every mutation works on a fresh copy.
func CloneColumns(cols []Column) []Column {
	out := make([]Column, len(cols))
	copy(out, cols)
	return out
}

// VisibleColumns returns the subsequence of columns whose Visible flag is
// set, preserving input order. Order is the single source of truth for both
// display and drag target resolution.
func VisibleColumns(cols []Column) []Column {
	out := make([]Column, 0, len(cols))
	for _, c := range cols {
		if c.Visible {
			out = append(out, c)
		}
	}
	return out
}

// ColumnKeys returns the keys of the visible columns in display order.
func ColumnKeys(cols []Column) []string {
	visible := VisibleColumns(cols)
	keys := make([]string, len(visible))
	for i, c := range visible {
		keys[i] = c.Key
	}
	return keys
}

// MoveColumn moves the column sourceKey to the position of targetKey using
// list move semantics: the source is removed first and reinserted at the
// target's index after removal. The move is refused when either end is not
// draggable or a key is unknown; refusals are silent and return the input
// unchanged.
func MoveColumn(cols []Column, sourceKey, targetKey string) ([]Column, bool) {
	if sourceKey == targetKey {
		return cols, false
	}

	srcIdx := slices.IndexFunc(cols, func(c Column) bool { return c.Key == sourceKey })
	tgtIdx := slices.IndexFunc(cols, func(c Column) bool { return c.Key == targetKey })
	if srcIdx < 0 || tgtIdx < 0 {
		return cols, false
	}
	if !cols[srcIdx].Draggable || !cols[tgtIdx].Draggable {
		return cols, false
	}

	out := CloneColumns(cols)
	moved := out[srcIdx]
	out = slices.Delete(out, srcIdx, srcIdx+1)
	tgtIdx = slices.IndexFunc(out, func(c Column) bool { return c.Key == targetKey })
	out = slices.Insert(out, tgtIdx, moved)
	return out, true
}

// ToggleVisible flips the Visible flag of the named column in a fresh copy.
// Fixed columns are refused silently.
func ToggleVisible(cols []Column, key string) ([]Column, bool) {
	if IsFixedColumn(key) {
		return cols, false
	}
	idx := slices.IndexFunc(cols, func(c Column) bool { return c.Key == key })
	if idx < 0 {
		return cols, false
	}
	out := CloneColumns(cols)
	out[idx].Visible = !out[idx].Visible
	return out, true
}
