package tabular

// Record is one entity row as materialized for display. Cells maps column
// keys to already formatted display values (localized dates, currency, and
// related-entity names resolved by the entity adapter). Raw keeps the source
// entity so row actions can hand it back to edit forms.
type Record struct {
	ID    string
	Cells map[string]string
	Raw   any
}

// Cell returns the display value for a column key. Missing cells read as the
// empty string so comparisons and filters treat them uniformly.
func (r Record) Cell(key string) string {
	if r.Cells == nil {
		return ""
	}
	return r.Cells[key]
}

// Partition splits records into the pinned group followed by the unpinned
// group. Both groups keep their relative order from the input and the result
// has the same length as the input.
func Partition(records []Record, pinned map[string]struct{}) []Record {
	if len(pinned) == 0 {
		out := make([]Record, len(records))
		copy(out, records)
		return out
	}

	out := make([]Record, 0, len(records))
	for _, r := range records {
		if _, ok := pinned[r.ID]; ok {
			out = append(out, r)
		}
	}
	for _, r := range records {
		if _, ok := pinned[r.ID]; !ok {
			out = append(out, r)
		}
	}
	return out
}
