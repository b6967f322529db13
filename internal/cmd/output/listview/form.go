package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kinetta/takeoffctl/internal/admin"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/theme"
)

// formModel is the create/edit surface. Field definitions come from the
// adapter; an empty record id means create.
type formModel struct {
	title       string
	recordID    string
	fields      []admin.FormField
	inputs      []textinput.Model
	focus       int
	submitError error
	invalid     string
}

func newFormModel(adapter admin.Adapter, rec *tabular.Record) *formModel {
	fields := adapter.FormFields(rec)

	title := "Nuevo registro"
	recordID := ""
	if rec != nil {
		title = "Editar registro"
		recordID = rec.ID
	}

	inputs := make([]textinput.Model, len(fields))
	for i, field := range fields {
		input := textinput.New()
		input.CharLimit = 200
		input.SetValue(field.Value)
		input.Placeholder = field.Label
		inputs[i] = input
	}

	return &formModel{
		title:    title,
		recordID: recordID,
		fields:   fields,
		inputs:   inputs,
	}
}

func (f *formModel) focusCmd() tea.Cmd {
	if len(f.inputs) == 0 {
		return nil
	}
	f.focus = 0
	return f.inputs[0].Focus()
}

// cycleFocus wraps around the input list. Adapters may declare no editable
// fields, so the empty form must stay navigable without panicking.
func (f *formModel) cycleFocus(delta int) tea.Cmd {
	n := len(f.inputs)
	if n == 0 {
		return nil
	}
	return f.setFocus(((f.focus+delta)%n + n) % n)
}

func (f *formModel) setFocus(index int) tea.Cmd {
	if index < 0 || index >= len(f.inputs) {
		return nil
	}
	f.inputs[f.focus].Blur()
	f.focus = index
	return f.inputs[index].Focus()
}

// validate checks required fields and returns the first offending label.
func (f *formModel) validate() string {
	for i, field := range f.fields {
		if field.Required && strings.TrimSpace(f.inputs[i].Value()) == "" {
			return field.Label
		}
	}
	return ""
}

func (f *formModel) values() map[string]string {
	values := make(map[string]string, len(f.fields))
	for i, field := range f.fields {
		values[field.Key] = strings.TrimSpace(f.inputs[i].Value())
	}
	return values
}

func (m *listModel) handleFormKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	f := m.form
	if f == nil {
		m.mode = modeList
		return m, nil
	}

	switch key.String() {
	case "esc":
		m.form = nil
		m.mode = modeList
		return m, nil
	case "tab", "down":
		return m, f.cycleFocus(1)
	case "shift+tab", "up":
		return m, f.cycleFocus(-1)
	case "enter":
		if f.focus < len(f.inputs)-1 {
			return m, f.setFocus(f.focus + 1)
		}
		return m, m.submitForm()
	case "ctrl+s":
		return m, m.submitForm()
	}

	if len(f.inputs) == 0 {
		return m, nil
	}
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(key)
	return m, cmd
}

func (m *listModel) submitForm() tea.Cmd {
	f := m.form
	if f == nil {
		return nil
	}
	if label := f.validate(); label != "" {
		f.invalid = fmt.Sprintf("El campo %s es obligatorio", label)
		return nil
	}
	f.invalid = ""
	f.submitError = nil

	m.beginRequest("guardando")
	ctx, adapter := m.ctx, m.adapter
	id, values := f.recordID, f.values()
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			message, err := adapter.Save(ctx, id, values)
			return saveDoneMsg{message: message, err: err}
		},
	)
}

func (m *listModel) renderForm() string {
	f := m.form
	if f == nil {
		return ""
	}

	accent := m.palette.ForegroundStyle(theme.ColorAccent)
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	danger := m.palette.ForegroundStyle(theme.ColorDanger)

	var lines []string
	lines = append(lines, accent.Render(f.title))
	for i, field := range f.fields {
		label := field.Label
		if field.Required {
			label += " *"
		}
		marker := "  "
		if i == f.focus {
			marker = "> "
		}
		lines = append(lines, marker+label)
		lines = append(lines, "  "+f.inputs[i].View())
	}
	if f.invalid != "" {
		lines = append(lines, "", danger.Render(f.invalid))
	}
	if f.submitError != nil {
		lines = append(lines, "", danger.Render(f.submitError.Error()))
	}
	lines = append(lines, "", muted.Render("tab siguiente campo · enter/ctrl+s guardar · esc cancelar"))

	return m.boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// confirmModel is the delete confirmation surface.
type confirmModel struct {
	spec   admin.ConfirmSpec
	record tabular.Record
}

func newConfirmModel(spec admin.ConfirmSpec, rec tabular.Record) *confirmModel {
	if spec.ConfirmText == "" {
		spec.ConfirmText = "Eliminar"
	}
	if spec.CancelText == "" {
		spec.CancelText = "Cancelar"
	}
	return &confirmModel{spec: spec, record: rec}
}

func (m *listModel) handleConfirmKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	c := m.confirm
	if c == nil {
		m.mode = modeList
		return m, nil
	}

	switch key.String() {
	case "esc", "n", "q":
		m.confirm = nil
		m.mode = modeList
		return m, nil
	case "y", "enter":
		m.beginRequest("eliminando")
		ctx, adapter := m.ctx, m.adapter
		id := c.record.ID
		return m, tea.Batch(
			m.spinner.Tick,
			func() tea.Msg {
				return deleteDoneMsg{err: adapter.Delete(ctx, id)}
			},
		)
	}
	return m, nil
}

func (m *listModel) renderConfirm() string {
	c := m.confirm
	if c == nil {
		return ""
	}

	warning := m.palette.ForegroundStyle(theme.ColorWarning)
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)

	lines := []string{
		warning.Render(c.spec.Title),
		"",
		c.spec.Message,
		"",
		muted.Render(fmt.Sprintf("y %s · n %s", strings.ToLower(c.spec.ConfirmText), strings.ToLower(c.spec.CancelText))),
	}
	return m.boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

// renderDetail lists every column of the selected record, hidden ones
// included, as label/value pairs.
func (m *listModel) renderDetail() string {
	if m.detail == nil {
		return ""
	}

	accent := m.palette.ForegroundStyle(theme.ColorAccent)
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)

	var lines []string
	lines = append(lines, accent.Render("Detalle"))
	for _, col := range m.ctrl.Columns() {
		if col.Type == tabular.ColumnActions {
			continue
		}
		value := m.detail.Cell(col.Key)
		if value == "" {
			value = "·"
		}
		lines = append(lines, fmt.Sprintf("%-16s %s", col.Label, value))
	}
	lines = append(lines, "", muted.Render("y copiar código · esc volver"))

	return m.boxStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}
