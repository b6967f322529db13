package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/theme"
)

// filterDialog stages filter edits against a working copy. Nothing reaches
// the controller until the user applies; escape discards the staged copy.
type filterDialog struct {
	columns []tabular.Column
	staged  tabular.FilterSet

	cursor  int
	editing bool
	// field selects the criteria slot under edit: 0 is value or the range
	// lower bound, 1 is the range upper bound.
	field int
	input textinput.Model

	suggestions map[string][]string
}

func newFilterDialog(ctrl *tabular.Controller, visible []tabular.Column) *filterDialog {
	var filterable []tabular.Column
	suggestions := make(map[string][]string)
	for _, col := range visible {
		if col.Type == tabular.ColumnActions {
			continue
		}
		filterable = append(filterable, col)
		switch col.Type {
		case tabular.ColumnText, tabular.ColumnEnum, tabular.ColumnBoolean:
			suggestions[col.Key] = ctrl.UniqueValues(col.Key)
		}
	}

	input := textinput.New()
	input.CharLimit = 80

	return &filterDialog{
		columns:     filterable,
		staged:      ctrl.Filters(),
		input:       input,
		suggestions: suggestions,
	}
}

func (d *filterDialog) current() (tabular.Column, tabular.Filter, bool) {
	if d.cursor < 0 || d.cursor >= len(d.columns) {
		return tabular.Column{}, tabular.Filter{}, false
	}
	col := d.columns[d.cursor]
	return col, d.staged[col.Key], true
}

func (d *filterDialog) isRange(col tabular.Column) bool {
	return col.Type == tabular.ColumnDate || col.Type == tabular.ColumnNumber
}

func (d *filterDialog) beginEdit() tea.Cmd {
	col, filter, ok := d.current()
	if !ok {
		return nil
	}
	seed := filter.Value
	if d.isRange(col) {
		if d.field == 1 {
			seed = filter.To
		} else {
			seed = filter.From
		}
	}
	d.editing = true
	d.input.SetValue(seed)
	d.input.CursorEnd()
	return d.input.Focus()
}

func (d *filterDialog) commitEdit() {
	col, filter, ok := d.current()
	if !ok {
		d.editing = false
		return
	}
	value := strings.TrimSpace(d.input.Value())
	if d.isRange(col) {
		if d.field == 1 {
			filter.To = value
		} else {
			filter.From = value
		}
	} else {
		filter.Value = value
	}
	d.staged[col.Key] = filter
	d.editing = false
	d.input.Blur()
}

func (d *filterDialog) clearCurrent() {
	col, filter, ok := d.current()
	if !ok {
		return
	}
	filter.Value = ""
	filter.From = ""
	filter.To = ""
	d.staged[col.Key] = filter
}

func (m *listModel) handleFilterKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.filterDialog
	if d == nil {
		m.mode = modeList
		return m, nil
	}

	if d.editing {
		switch key.String() {
		case "esc":
			// Leave edit mode only; the dialog stays open.
			d.editing = false
			d.input.Blur()
			return m, nil
		case "enter":
			d.commitEdit()
			return m, nil
		}
		var cmd tea.Cmd
		d.input, cmd = d.input.Update(key)
		return m, cmd
	}

	switch key.String() {
	case "esc", "q":
		m.filterDialog = nil
		m.mode = modeList
		return m, nil
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
			d.field = 0
		}
		return m, nil
	case "down", "j":
		if d.cursor < len(d.columns)-1 {
			d.cursor++
			d.field = 0
		}
		return m, nil
	case "tab":
		if col, _, ok := d.current(); ok && d.isRange(col) {
			d.field = (d.field + 1) % 2
		}
		return m, nil
	case "enter", "e":
		return m, d.beginEdit()
	case "c":
		d.clearCurrent()
		return m, nil
	case "C":
		d.staged = d.staged.Cleared()
		return m, nil
	case "a", "ctrl+s":
		m.ctrl.ApplyFilters(d.staged)
		m.filterDialog = nil
		m.mode = modeList
		m.syncTable()
		if m.ctrl.Filters().Active() {
			m.setStatus(fmt.Sprintf("Filtros aplicados: %d registros", len(m.ctrl.Records())))
		} else {
			m.setStatus("Filtros limpiados")
		}
		return m, nil
	}
	return m, nil
}

func (m *listModel) renderFilterDialog() string {
	d := m.filterDialog
	if d == nil {
		return ""
	}

	accent := m.palette.ForegroundStyle(theme.ColorAccent)
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)

	var lines []string
	lines = append(lines, accent.Render("Filtros"))
	for i, col := range d.columns {
		filter := d.staged[col.Key]
		marker := "  "
		if i == d.cursor {
			marker = "> "
		}
		criteria := d.describeCriteria(col, filter, i == d.cursor)
		lines = append(lines, fmt.Sprintf("%s%-14s %s", marker, col.Label, criteria))
		if i == d.cursor {
			if values, ok := d.suggestions[col.Key]; ok && len(values) > 0 {
				lines = append(lines, muted.Render("   valores: "+joinSuggestions(values)))
			}
		}
	}
	if d.editing {
		lines = append(lines, "", d.input.View())
	}
	lines = append(lines, "", muted.Render("enter editar · tab desde/hasta · c limpiar · C limpiar todo · a aplicar · esc cerrar"))

	return m.boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// maxSuggestions bounds the suggestion line; name columns can have one
// distinct value per record.
const maxSuggestions = 8

func joinSuggestions(values []string) string {
	if len(values) > maxSuggestions {
		return strings.Join(values[:maxSuggestions], ", ") + ", …"
	}
	return strings.Join(values, ", ")
}

func (d *filterDialog) describeCriteria(col tabular.Column, filter tabular.Filter, focused bool) string {
	if d.isRange(col) {
		from, to := filter.From, filter.To
		if from == "" {
			from = "·"
		}
		if to == "" {
			to = "·"
		}
		if focused {
			if d.field == 1 {
				to = "[" + to + "]"
			} else {
				from = "[" + from + "]"
			}
		}
		return fmt.Sprintf("desde %s hasta %s", from, to)
	}
	if filter.Value == "" {
		return "·"
	}
	return filter.Value
}

// columnDialog stages visibility and ordering edits on a copy of the column
// definitions. Applying commits the copy as the controller's new layout.
type columnDialog struct {
	staged []tabular.Column
	cursor int
	note   string
}

func newColumnDialog(cols []tabular.Column) *columnDialog {
	return &columnDialog{staged: tabular.CloneColumns(cols)}
}

func (m *listModel) handleColumnKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	d := m.columnDialog
	if d == nil {
		m.mode = modeList
		return m, nil
	}
	d.note = ""

	switch key.String() {
	case "esc", "q":
		m.columnDialog = nil
		m.mode = modeList
		return m, nil
	case "up", "k":
		if d.cursor > 0 {
			d.cursor--
		}
		return m, nil
	case "down", "j":
		if d.cursor < len(d.staged)-1 {
			d.cursor++
		}
		return m, nil
	case " ":
		if d.cursor < len(d.staged) {
			next, ok := tabular.ToggleVisible(d.staged, d.staged[d.cursor].Key)
			if !ok {
				d.note = "Esa columna no se puede ocultar"
				return m, nil
			}
			d.staged = next
		}
		return m, nil
	case "<", "K":
		m.moveStagedColumn(d, -1)
		return m, nil
	case ">", "J":
		m.moveStagedColumn(d, 1)
		return m, nil
	case "r":
		m.ctrl.ResetColumns()
		m.columnDialog = nil
		m.mode = modeList
		m.focusedCol = 0
		m.syncTable()
		m.setStatus("Columnas restauradas")
		return m, nil
	case "a", "enter", "ctrl+s":
		m.ctrl.CommitColumns(d.staged)
		m.columnDialog = nil
		m.mode = modeList
		m.focusedCol = 0
		m.syncTable()
		m.setStatus("Columnas actualizadas")
		return m, nil
	}
	return m, nil
}

func (m *listModel) moveStagedColumn(d *columnDialog, delta int) {
	target := d.cursor + delta
	if d.cursor < 0 || d.cursor >= len(d.staged) || target < 0 || target >= len(d.staged) {
		return
	}
	next, ok := tabular.MoveColumn(d.staged, d.staged[d.cursor].Key, d.staged[target].Key)
	if !ok {
		d.note = "Esa columna no se puede mover"
		return
	}
	d.staged = next
	d.cursor = target
}

func (m *listModel) renderColumnDialog() string {
	d := m.columnDialog
	if d == nil {
		return ""
	}

	accent := m.palette.ForegroundStyle(theme.ColorAccent)
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)

	var lines []string
	lines = append(lines, accent.Render("Columnas"))
	for i, col := range d.staged {
		marker := "  "
		if i == d.cursor {
			marker = "> "
		}
		check := "[ ]"
		if col.Visible {
			check = "[x]"
		}
		label := col.Label
		if tabular.IsFixedColumn(col.Key) {
			label += muted.Render(" (fija)")
		}
		lines = append(lines, fmt.Sprintf("%s%s %s", marker, check, label))
	}
	if d.note != "" {
		lines = append(lines, "", m.palette.ForegroundStyle(theme.ColorWarning).Render(d.note))
	}
	lines = append(lines, "", muted.Render("espacio mostrar/ocultar · </> mover · a aplicar · r restaurar · esc cerrar"))

	return m.boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
