package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSortToggle(t *testing.T) {
	col := Column{Key: "name", Sortable: true}

	cfg := SortConfig{}
	cfg, ok := cfg.Toggle(col)
	require.True(t, ok)
	require.Equal(t, SortConfig{Column: "name", Direction: Ascending}, cfg)

	cfg, ok = cfg.Toggle(col)
	require.True(t, ok)
	require.Equal(t, SortConfig{Column: "name", Direction: Descending}, cfg)

	// a third interaction returns to ascending
	cfg, ok = cfg.Toggle(col)
	require.True(t, ok)
	require.Equal(t, SortConfig{Column: "name", Direction: Ascending}, cfg)
}

func TestSortToggleSwitchesColumnToAscending(t *testing.T) {
	cfg := SortConfig{Column: "name", Direction: Descending}
	cfg, ok := cfg.Toggle(Column{Key: "email", Sortable: true})
	require.True(t, ok)
	require.Equal(t, SortConfig{Column: "email", Direction: Ascending}, cfg)
}

func TestSortToggleRefusesUnsortable(t *testing.T) {
	cfg := SortConfig{Column: "name", Direction: Ascending}
	next, ok := cfg.Toggle(Column{Key: "actions"})
	require.False(t, ok)
	require.Equal(t, cfg, next)
}

func TestSortRecordsIdempotent(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"name": "C"}),
		rec("2", map[string]string{"name": "A"}),
		rec("3", map[string]string{"name": "B"}),
	}
	cfg := SortConfig{Column: "name", Direction: Ascending}

	once := SortRecords(records, cfg)
	twice := SortRecords(once, cfg)
	require.Equal(t, once, twice)
	require.Equal(t, []string{"2", "3", "1"}, recordIDs(once))
}

func TestSortRecordsDescendingNegates(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"name": "A"}),
		rec("2", map[string]string{"name": "B"}),
	}
	out := SortRecords(records, SortConfig{Column: "name", Direction: Descending})
	require.Equal(t, []string{"2", "1"}, recordIDs(out))
}

func TestSortRecordsMissingValuesSortFirst(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"name": "B"}),
		rec("2", nil),
		rec("3", map[string]string{"name": "A"}),
	}
	out := SortRecords(records, SortConfig{Column: "name", Direction: Ascending})
	require.Equal(t, []string{"2", "3", "1"}, recordIDs(out))
}

func TestCompareCellsNumericAware(t *testing.T) {
	require.Negative(t, CompareCells("$2.000", "$10.000"))
	require.Positive(t, CompareCells("10", "2"))
	require.Negative(t, CompareCells("02/01/2026", "15/01/2026"))
	require.Zero(t, CompareCells("abc", "ABC"))
}

func TestSortPartitionedPinnedFirst(t *testing.T) {
	records := []Record{
		rec("r1", map[string]string{"name": "C"}),
		rec("r2", map[string]string{"name": "A"}),
		rec("r3", map[string]string{"name": "B"}),
	}
	pinned := map[string]struct{}{"r2": {}}

	out := SortPartitioned(records, pinned, SortConfig{Column: "name", Direction: Ascending})
	require.Equal(t, []string{"r2", "r3", "r1"}, recordIDs(out))
}

func TestPartitionPreservesLengthAndOrder(t *testing.T) {
	records := []Record{rec("a", nil), rec("b", nil), rec("c", nil), rec("d", nil)}
	pinned := map[string]struct{}{"c": {}, "a": {}}

	out := Partition(records, pinned)
	require.Len(t, out, len(records))
	require.Equal(t, []string{"a", "c", "b", "d"}, recordIDs(out))
}
