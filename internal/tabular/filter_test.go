package tabular

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func rec(id string, cells map[string]string) Record {
	return Record{ID: id, Cells: cells}
}

func TestTextFilterCaseInsensitiveSubstring(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"estado": "Activo"}),
		rec("2", map[string]string{"estado": "Inactivo"}),
		rec("3", map[string]string{"estado": "activo"}),
	}
	cols := []Column{{Key: "estado", Type: ColumnText, Visible: true}}
	fs := FilterSet{"estado": {Type: FilterText, Value: "activo"}}

	// "Inactivo" contains "activo" as a substring, so all three match.
	out := ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"1", "2", "3"}, recordIDs(out))

	fs = FilterSet{"estado": {Type: FilterText, Value: "inactivo"}}
	out = ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"2"}, recordIDs(out))
}

func TestInertFiltersExcludeNothing(t *testing.T) {
	records := []Record{rec("1", nil), rec("2", nil)}
	cols := []Column{{Key: "name", Type: ColumnText, Visible: true}}
	fs := FilterSet{"name": {Type: FilterText, Value: "   "}}

	require.False(t, fs.Active())
	out := ApplyFilters(records, cols, fs)
	require.Equal(t, records, out)
}

func TestNumberFilterInclusiveRange(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"total": "$1.000"}),
		rec("2", map[string]string{"total": "$2.500"}),
		rec("3", map[string]string{"total": "$9.000"}),
		rec("4", map[string]string{"total": ""}),
	}
	cols := []Column{{Key: "total", Type: ColumnNumber, Visible: true}}

	fs := FilterSet{"total": {Type: FilterNumber, From: "1000", To: "2500"}}
	out := ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"1", "2"}, recordIDs(out))

	fs = FilterSet{"total": {Type: FilterNumber, From: "3000"}}
	out = ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"3"}, recordIDs(out))
}

func TestDateFilterInclusiveRange(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"fecha": "01/01/2026"}),
		rec("2", map[string]string{"fecha": "15/06/2026"}),
		rec("3", map[string]string{"fecha": "31/12/2026"}),
	}
	cols := []Column{{Key: "fecha", Type: ColumnDate, Visible: true}}
	fs := FilterSet{"fecha": {Type: FilterDate, From: "01/01/2026", To: "30/06/2026"}}

	out := ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"1", "2"}, recordIDs(out))
}

func TestFiltersAndAcrossColumns(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"name": "Acme", "estado": "Activo"}),
		rec("2", map[string]string{"name": "Acme Sur", "estado": "Inactivo"}),
		rec("3", map[string]string{"name": "Norte", "estado": "Activo"}),
	}
	cols := []Column{
		{Key: "name", Type: ColumnText, Visible: true},
		{Key: "estado", Type: ColumnText, Visible: true},
	}
	fs := FilterSet{
		"name":   {Type: FilterText, Value: "acme"},
		"estado": {Type: FilterText, Value: "activo"},
	}

	out := ApplyFilters(records, cols, fs)
	require.Equal(t, []string{"1", "2"}, recordIDs(out))
}

func TestFiltersForColumnsSkipsActions(t *testing.T) {
	fs := FiltersForColumns(sampleColumns())
	require.NotContains(t, fs, "actions")
	require.Contains(t, fs, "name")
	require.False(t, fs.Active())
}

func TestFilterSetCleared(t *testing.T) {
	fs := FilterSet{
		"name":  {Type: FilterText, Label: "Nombre", Value: "x"},
		"fecha": {Type: FilterDate, Label: "Fecha", From: "01/01/2026"},
	}
	cleared := fs.Cleared()
	require.True(t, fs.Active())
	require.False(t, cleared.Active())
	require.Equal(t, "Nombre", cleared["name"].Label)
}

func TestUniqueValues(t *testing.T) {
	records := []Record{
		rec("1", map[string]string{"estado": "Activo"}),
		rec("2", map[string]string{"estado": "Inactivo"}),
		rec("3", map[string]string{"estado": "Activo"}),
		rec("4", map[string]string{"estado": " "}),
	}
	require.Equal(t, []string{"Activo", "Inactivo"}, UniqueValues(records, "estado"))
}

func recordIDs(records []Record) []string {
	ids := make([]string, len(records))
	for i, r := range records {
		ids[i] = r.ID
	}
	return ids
}
