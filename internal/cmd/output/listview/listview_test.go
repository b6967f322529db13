package listview

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/kinetta/takeoffctl/internal/admin"
	"github.com/kinetta/takeoffctl/internal/iostreams"
	"github.com/kinetta/takeoffctl/internal/notify"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAdapter struct {
	records      []tabular.Record
	fetchCalls   int
	forcedCalls  int
	fetchErr     error
	searchResult []tabular.Record
	searchTerms  []string
	deleted      []string
	savedID      string
	savedValues  map[string]string
	saveErr      error
}

func (s *stubAdapter) Name() string  { return "clientes" }
func (s *stubAdapter) Title() string { return "Clientes" }

func (s *stubAdapter) Columns() []tabular.Column {
	return []tabular.Column{
		{Key: tabular.ColumnKeyID, Label: "Código", Type: tabular.ColumnText, Sortable: true, Visible: true},
		{Key: "nombre", Label: "Nombre", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: "estado", Label: "Estado", Type: tabular.ColumnText, Sortable: true, Draggable: true, Visible: true},
		{Key: tabular.ColumnKeyActions, Label: "Acciones", Type: tabular.ColumnActions, Visible: true},
	}
}

func (s *stubAdapter) Fetch(_ context.Context, force bool) ([]tabular.Record, error) {
	s.fetchCalls++
	if force {
		s.forcedCalls++
	}
	if s.fetchErr != nil {
		return nil, s.fetchErr
	}
	return s.records, nil
}

func (s *stubAdapter) Search(_ context.Context, term string) ([]tabular.Record, error) {
	s.searchTerms = append(s.searchTerms, term)
	return s.searchResult, nil
}

func (s *stubAdapter) Delete(_ context.Context, id string) error {
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubAdapter) DeleteConfirm(rec tabular.Record) admin.ConfirmSpec {
	return admin.ConfirmSpec{
		Title:   "Eliminar cliente",
		Message: "Se eliminará " + rec.Cell("nombre"),
	}
}

func (s *stubAdapter) FormFields(rec *tabular.Record) []admin.FormField {
	nombre := ""
	if rec != nil {
		nombre = rec.Cell("nombre")
	}
	return []admin.FormField{
		{Key: "nombre", Label: "Nombre", Value: nombre, Required: true},
		{Key: "estado", Label: "Estado"},
	}
}

func (s *stubAdapter) Save(_ context.Context, id string, values map[string]string) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.savedID = id
	s.savedValues = values
	return "Cliente guardado correctamente", nil
}

func stubRecords(n int) []tabular.Record {
	records := make([]tabular.Record, n)
	for i := range records {
		id := fmt.Sprintf("c%02d", i+1)
		estado := "activo"
		if i%3 == 0 {
			estado = "inactivo"
		}
		records[i] = tabular.Record{
			ID: id,
			Cells: map[string]string{
				tabular.ColumnKeyID: id,
				"nombre":            fmt.Sprintf("Empresa %02d", i+1),
				"estado":            estado,
			},
		}
	}
	return records
}

func newTestModel(t *testing.T, adapter *stubAdapter) *listModel {
	t.Helper()
	ctrl := tabular.NewController(adapter.Columns(), 10)
	model := newListModel(context.Background(), adapter, ctrl, config{title: adapter.Title()}, 120, 40)
	return executeCmd(t, model, model.Init())
}

// executeCmd drains a command tree synchronously, feeding every produced
// message back into the model. Spinner ticks are dropped so the drain
// terminates.
func executeCmd(t *testing.T, model *listModel, cmd tea.Cmd) *listModel {
	t.Helper()
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current == nil {
			continue
		}
		msg := current()
		switch m := msg.(type) {
		case tea.BatchMsg:
			queue = append(queue, []tea.Cmd(m)...)
			continue
		case spinner.TickMsg:
			continue
		case nil:
			continue
		}
		updated, next := model.Update(msg)
		lm, ok := updated.(*listModel)
		require.True(t, ok)
		model = lm
		if next != nil {
			queue = append(queue, next)
		}
	}
	return model
}

func pressKey(t *testing.T, model *listModel, key tea.KeyMsg) *listModel {
	t.Helper()
	updated, cmd := model.Update(key)
	lm, ok := updated.(*listModel)
	require.True(t, ok)
	return executeCmd(t, lm, cmd)
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestInitLoadsRecords(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	assert.Equal(t, 1, adapter.fetchCalls)
	assert.Equal(t, tabular.StateLoaded, model.ctrl.State())
	assert.Len(t, model.table.Rows(), 3)
	assert.Contains(t, model.View(), "Empresa 01")
}

func TestStaleLoadResponseIsDiscarded(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(2)}
	model := newTestModel(t, adapter)

	seq1 := model.ctrl.BeginLoad()
	seq2 := model.ctrl.BeginLoad()

	updated, _ := model.Update(recordsLoadedMsg{seq: seq1, records: stubRecords(9)})
	model = updated.(*listModel)
	assert.Equal(t, tabular.StateLoading, model.ctrl.State())

	updated, _ = model.Update(recordsLoadedMsg{seq: seq2, records: stubRecords(5)})
	model = updated.(*listModel)
	assert.Equal(t, tabular.StateLoaded, model.ctrl.State())
	assert.Len(t, model.ctrl.Records(), 5)
	require.NotEqual(t, seq1, seq2)
}

func TestFetchErrorKeepsPriorData(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(4)}
	model := newTestModel(t, adapter)

	adapter.fetchErr = errors.New("conexión rechazada")
	model = pressKey(t, model, runeKey('r'))

	assert.Equal(t, tabular.StateConnectionError, model.ctrl.State())
	assert.Len(t, model.ctrl.Records(), 4)
	assert.Contains(t, model.View(), "No se pudo conectar")

	adapter.fetchErr = nil
	model = pressKey(t, model, runeKey('r'))
	assert.Equal(t, tabular.StateLoaded, model.ctrl.State())
}

func TestEscapeDismissesDialogNotProgram(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('f'))
	assert.Equal(t, modeFilters, model.mode)

	updated, cmd := model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	model = updated.(*listModel)
	assert.Equal(t, modeList, model.mode)
	assert.Nil(t, cmd)

	// A second escape with nothing open quits the program.
	_, cmd = model.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestFilterDialogStagesUntilApplied(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(6)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('f'))
	d := model.filterDialog
	require.NotNil(t, d)

	// Stage an estado filter without applying.
	for i, col := range d.columns {
		if col.Key == "estado" {
			d.cursor = i
		}
	}
	d.field = 0
	d.input.SetValue("inactivo")
	d.editing = true
	d.commitEdit()

	assert.False(t, model.ctrl.Filters().Active(), "staged filter must not leak before apply")
	assert.Len(t, model.ctrl.Records(), 6)

	model = pressKey(t, model, runeKey('a'))
	assert.Equal(t, modeList, model.mode)
	assert.True(t, model.ctrl.Filters().Active())
	assert.Len(t, model.ctrl.Records(), 2)
}

func TestColumnDialogToggleAndCommit(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('v'))
	d := model.columnDialog
	require.NotNil(t, d)

	for i, col := range d.staged {
		if col.Key == "nombre" {
			d.cursor = i
		}
	}
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeySpace})
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyEnter})

	keys := tabular.ColumnKeys(model.ctrl.Columns())
	assert.NotContains(t, keys, "nombre")

	// Reset restores the committed layout's original definition.
	model = pressKey(t, model, runeKey('v'))
	model = pressKey(t, model, runeKey('r'))
	keys = tabular.ColumnKeys(model.ctrl.Columns())
	assert.NotContains(t, keys, "nombre")
}

func TestFixedColumnCannotBeHidden(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('v'))
	d := model.columnDialog
	require.NotNil(t, d)
	d.cursor = 0 // the id column

	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeySpace})
	require.NotNil(t, model.columnDialog)
	assert.NotEmpty(t, model.columnDialog.note)
	assert.True(t, model.columnDialog.staged[0].Visible)
}

func TestDeleteFlowConfirmsAndReloads(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('d'))
	require.Equal(t, modeConfirm, model.mode)
	assert.Contains(t, model.View(), "Eliminar cliente")

	model = pressKey(t, model, runeKey('y'))
	assert.Equal(t, modeList, model.mode)
	assert.Equal(t, []string{"c01"}, adapter.deleted)
	assert.Equal(t, 1, adapter.forcedCalls, "a delete must force a reload")
}

func TestConfirmCancelDoesNotDelete(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('d'))
	model = pressKey(t, model, runeKey('n'))

	assert.Equal(t, modeList, model.mode)
	assert.Empty(t, adapter.deleted)
}

func TestFormValidatesRequiredFields(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('n'))
	require.Equal(t, modeForm, model.mode)
	require.NotNil(t, model.form)

	model.form.inputs[0].SetValue("")
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, modeForm, model.mode)
	assert.NotEmpty(t, model.form.invalid)
	assert.Empty(t, adapter.savedValues)

	model.form.inputs[0].SetValue("Constructora Nueva")
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyCtrlS})
	assert.Equal(t, modeList, model.mode)
	assert.Equal(t, "", adapter.savedID)
	assert.Equal(t, "Constructora Nueva", adapter.savedValues["nombre"])
	assert.Equal(t, 1, adapter.forcedCalls, "a save must force a reload")
}

func TestEditFormCarriesRecordID(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('e'))
	require.Equal(t, modeForm, model.mode)
	assert.Equal(t, "c01", model.form.recordID)
	assert.Equal(t, "Empresa 01", model.form.inputs[0].Value())
}

func TestPaginationKeys(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(25)}
	model := newTestModel(t, adapter)

	assert.Len(t, model.table.Rows(), 10)

	model = pressKey(t, model, runeKey(']'))
	assert.Equal(t, 2, model.ctrl.Paginator().CurrentPage)

	model = pressKey(t, model, runeKey('['))
	assert.Equal(t, 1, model.ctrl.Paginator().CurrentPage)

	model = pressKey(t, model, runeKey('+'))
	assert.Equal(t, 20, model.ctrl.Paginator().ItemsPerPage)
	assert.Len(t, model.table.Rows(), 20)
}

func TestSearchRoundTrip(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(5)}
	adapter.searchResult = stubRecords(1)
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('/'))
	require.Equal(t, modeSearch, model.mode)
	model.searchInput.SetValue("empresa 01")

	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Equal(t, []string{"empresa 01"}, adapter.searchTerms)
	assert.Equal(t, "empresa 01", model.ctrl.SearchTerm())
	assert.Len(t, model.ctrl.Records(), 1)

	// A blank search restores the full snapshot without refetching.
	fetches := adapter.fetchCalls
	model = pressKey(t, model, runeKey('/'))
	model.searchInput.SetValue("")
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	assert.Len(t, model.ctrl.Records(), 5)
	assert.Equal(t, fetches, adapter.fetchCalls)
}

func TestSortKeyTogglesFocusedColumn(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(5)}
	model := newTestModel(t, adapter)

	// Focus the nombre column and sort it.
	model = pressKey(t, model, runeKey('l'))
	model = pressKey(t, model, runeKey('s'))
	assert.Equal(t, "nombre", model.ctrl.Sort().Column)
	assert.Equal(t, tabular.Ascending, model.ctrl.Sort().Direction)

	model = pressKey(t, model, runeKey('s'))
	assert.Equal(t, tabular.Descending, model.ctrl.Sort().Direction)
}

func TestPinKeyMarksRecord(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(5)}
	model := newTestModel(t, adapter)

	model.table.SetCursor(2)
	rec, ok := model.selectedRecord()
	require.True(t, ok)

	model = pressKey(t, model, runeKey('p'))
	assert.True(t, model.ctrl.IsPinned(rec.ID))
	assert.Equal(t, rec.ID, model.ctrl.Records()[0].ID)
}

// relatedStubAdapter drills down into a fixed child list, the way the
// take-off adapter opens its products.
type relatedStubAdapter struct {
	stubAdapter
	child *childStubAdapter
}

func (s *relatedStubAdapter) Related(rec tabular.Record) (admin.Adapter, bool) {
	if s.child == nil || rec.ID == "" {
		return nil, false
	}
	return s.child, true
}

type childStubAdapter struct{ stubAdapter }

func (s *childStubAdapter) Name() string  { return "productos" }
func (s *childStubAdapter) Title() string { return "Productos · c01" }

func TestDrillDownOpensChildAndRestoresParent(t *testing.T) {
	child := &childStubAdapter{stubAdapter{records: stubRecords(2)}}
	adapter := &relatedStubAdapter{
		stubAdapter: stubAdapter{records: stubRecords(5)},
		child:       child,
	}
	ctrl := tabular.NewController(adapter.Columns(), 10)
	model := newListModel(context.Background(), adapter, ctrl, config{title: adapter.Title()}, 120, 40)
	model = executeCmd(t, model, model.Init())

	parentCtrl := model.ctrl
	model = pressKey(t, model, runeKey('o'))
	assert.Equal(t, 1, child.fetchCalls)
	assert.Equal(t, "Productos · c01", model.title)
	assert.Len(t, model.table.Rows(), 2)
	require.Len(t, model.stack, 1)

	// Escape pops back instead of quitting; the parent reloads because
	// child mutations change its totals.
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Empty(t, model.stack)
	assert.Same(t, parentCtrl, model.ctrl)
	assert.Equal(t, "Clientes", model.title)
	assert.Equal(t, 1, adapter.forcedCalls)
}

func TestDrillDownIgnoredWithoutRelatedList(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(3)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('o'))
	assert.Empty(t, model.stack)
	assert.Equal(t, modeList, model.mode)
}

func TestFilterDialogSuggestsTextColumnValues(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(6)}
	model := newTestModel(t, adapter)

	model = pressKey(t, model, runeKey('f'))
	d := model.filterDialog
	require.NotNil(t, d)
	assert.Equal(t, []string{"activo", "inactivo"}, d.suggestions["estado"])

	for i, col := range d.columns {
		if col.Key == "estado" {
			d.cursor = i
		}
	}
	assert.Contains(t, model.View(), "valores: activo, inactivo")
}

// emptyFormStubAdapter declares no editable fields.
type emptyFormStubAdapter struct{ stubAdapter }

func (s *emptyFormStubAdapter) FormFields(_ *tabular.Record) []admin.FormField { return nil }

func TestFormWithoutFieldsStaysNavigable(t *testing.T) {
	adapter := &emptyFormStubAdapter{stubAdapter{records: stubRecords(2)}}
	ctrl := tabular.NewController(adapter.Columns(), 10)
	model := newListModel(context.Background(), adapter, ctrl, config{title: adapter.Title()}, 120, 40)
	model = executeCmd(t, model, model.Init())

	model = pressKey(t, model, runeKey('n'))
	require.Equal(t, modeForm, model.mode)

	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyTab})
	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyDown})
	model = pressKey(t, model, runeKey('x'))
	assert.Equal(t, modeForm, model.mode)

	model = pressKey(t, model, tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, modeList, model.mode)
}

func TestStaticRenderReportsErrorThroughNotifier(t *testing.T) {
	adapter := &stubAdapter{fetchErr: errors.New("conexión rechazada")}
	streams, _, _, _ := iostreams.NewTestIOStreams()

	var handled []string
	n := notify.FuncNotifier{OnError: func(err error, context string) {
		handled = append(handled, context+": "+err.Error())
	}}

	err := Render(context.Background(), streams, adapter, WithStatic(), WithNotifier(n))
	require.Error(t, err)
	assert.Equal(t, []string{"cargar clientes: conexión rechazada"}, handled)
}

func TestStaticRenderWritesPlainTable(t *testing.T) {
	adapter := &stubAdapter{records: stubRecords(12)}
	streams, _, outBuf, _ := iostreams.NewTestIOStreams()

	err := Render(context.Background(), streams, adapter)
	require.NoError(t, err)

	output := outBuf.String()
	assert.Contains(t, output, "Clientes")
	assert.Contains(t, output, "Empresa 01")
	assert.Contains(t, output, "Página 1 de 2")
	assert.NotContains(t, output, "Empresa 11", "static output shows the first page only")
}
