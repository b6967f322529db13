package tabular

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func controllerColumns() []Column {
	return []Column{
		{Key: "id", Label: "ID", Type: ColumnText, Sortable: true, Visible: true},
		{Key: "name", Label: "Nombre", Type: ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "estado", Label: "Estado", Type: ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "actions", Label: "Acciones", Type: ColumnActions, Visible: true},
	}
}

func controllerRecords() []Record {
	return []Record{
		rec("r1", map[string]string{"id": "r1", "name": "C", "estado": "Activo"}),
		rec("r2", map[string]string{"id": "r2", "name": "A", "estado": "Inactivo"}),
		rec("r3", map[string]string{"id": "r3", "name": "B", "estado": "Activo"}),
	}
}

func loadedController(t *testing.T) *Controller {
	t.Helper()
	c := NewController(controllerColumns(), 10)
	seq := c.BeginLoad()
	require.Equal(t, StateLoading, c.State())
	require.True(t, c.CompleteLoad(seq, controllerRecords(), nil))
	require.Equal(t, StateLoaded, c.State())
	return c
}

func TestControllerLoad(t *testing.T) {
	c := loadedController(t)

	require.Equal(t, []string{"r1", "r2", "r3"}, recordIDs(c.Records()))
	require.Equal(t, SortConfig{}, c.Sort())
	require.Equal(t, 1, c.Paginator().CurrentPage)
	require.False(t, c.Filters().Active())
}

func TestControllerLoadFailureKeepsPriorData(t *testing.T) {
	c := loadedController(t)

	seq := c.BeginLoad()
	require.True(t, c.CompleteLoad(seq, nil, errors.New("dial tcp: refused")))
	require.Equal(t, StateConnectionError, c.State())
	require.Error(t, c.Err())
	require.Equal(t, []string{"r1", "r2", "r3"}, recordIDs(c.Records()))

	c.Retry()
	require.NoError(t, c.Err())
	require.Equal(t, StateIdle, c.State())
}

func TestControllerDiscardsStaleResponses(t *testing.T) {
	c := NewController(controllerColumns(), 10)

	first := c.BeginLoad()
	second := c.BeginLoad()

	require.False(t, c.CompleteLoad(first, controllerRecords()[:1], nil))
	require.Equal(t, StateLoading, c.State())

	require.True(t, c.CompleteLoad(second, controllerRecords(), nil))
	require.Len(t, c.Records(), 3)
}

func TestControllerSearchKeepsSnapshotAndPinned(t *testing.T) {
	c := loadedController(t)
	c.TogglePin("r2")

	seq := c.BeginSearch("acti")
	require.True(t, c.CompleteSearch(seq, controllerRecords()[:1], nil))

	// pinned r2 is re-included on top even though the result omits it
	require.Equal(t, []string{"r2", "r1"}, recordIDs(c.Records()))
	require.Equal(t, "acti", c.SearchTerm())
	require.Equal(t, 1, c.Paginator().CurrentPage)

	c.ResetToOriginal()
	require.Equal(t, []string{"r2", "r1", "r3"}, recordIDs(c.Records()))
	require.Empty(t, c.SearchTerm())
}

func TestControllerFiltersFromSnapshotAndClear(t *testing.T) {
	c := loadedController(t)

	fs := c.Filters()
	f := fs["estado"]
	f.Value = "activo"
	fs["estado"] = f
	c.ApplyFilters(fs)

	require.Equal(t, []string{"r1", "r3"}, recordIDs(c.Records()))
	require.Equal(t, 1, c.Paginator().CurrentPage)

	c.ClearFilters()
	require.Equal(t, []string{"r1", "r2", "r3"}, recordIDs(c.Records()))
}

func TestControllerPinnedExemptFromFilters(t *testing.T) {
	c := loadedController(t)
	c.TogglePin("r2")

	fs := c.Filters()
	f := fs["estado"]
	f.Value = "activo"
	fs["estado"] = f
	c.ApplyFilters(fs)

	// r2 is Inactivo but pinned, so it stays, on top
	require.Equal(t, []string{"r2", "r1", "r3"}, recordIDs(c.Records()))
}

func TestControllerSortPartitionsPinnedFirst(t *testing.T) {
	c := loadedController(t)
	c.TogglePin("r2")

	require.True(t, c.SortBy(Column{Key: "name", Sortable: true}))
	require.Equal(t, []string{"r2", "r3", "r1"}, recordIDs(c.Records()))

	require.False(t, c.SortBy(Column{Key: "actions"}))
}

func TestControllerTogglePinRepartitionsInPlace(t *testing.T) {
	c := loadedController(t)

	c.TogglePin("r3")
	require.Equal(t, []string{"r3", "r1", "r2"}, recordIDs(c.Records()))
	require.True(t, c.IsPinned("r3"))

	c.TogglePin("r3")
	require.False(t, c.IsPinned("r3"))
	require.Equal(t, []string{"r3", "r1", "r2"}, recordIDs(c.Records()),
		"unpinning keeps the current relative order")
}

func TestControllerColumnCommitAndReset(t *testing.T) {
	c := loadedController(t)

	staged := c.Columns()
	staged, ok := MoveColumn(staged, "estado", "name")
	require.True(t, ok)
	c.CommitColumns(staged)
	require.Equal(t, []string{"id", "estado", "name", "actions"}, columnKeysAll(c.Columns()))

	// reorder then discard via reset restores the committed list
	require.True(t, c.ReorderColumns("name", "estado"))
	c.ResetColumns()
	require.Equal(t, []string{"id", "estado", "name", "actions"}, columnKeysAll(c.Columns()))
}

func TestControllerUniqueValues(t *testing.T) {
	c := loadedController(t)
	require.Equal(t, []string{"Activo", "Inactivo"}, c.UniqueValues("estado"))
}

func TestControllerPagination(t *testing.T) {
	c := NewController(controllerColumns(), 2)
	seq := c.BeginLoad()
	require.True(t, c.CompleteLoad(seq, controllerRecords(), nil))

	require.Len(t, c.PageRecords(), 2)
	require.True(t, c.ChangePage(2))
	require.Len(t, c.PageRecords(), 1)
	require.False(t, c.ChangePage(3))

	c.SetPageSize(5)
	require.Equal(t, 1, c.Paginator().CurrentPage)
}
