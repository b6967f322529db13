package listview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/theme"
)

func (m *listModel) View() string {
	var sections []string

	if m.title != "" {
		sections = append(sections, m.palette.ForegroundStyle(theme.ColorAccent).Render(m.title))
	}

	switch m.mode {
	case modeFilters:
		sections = append(sections, m.renderFilterDialog())
	case modeColumns:
		sections = append(sections, m.renderColumnDialog())
	case modeForm:
		sections = append(sections, m.renderForm())
	case modeConfirm:
		sections = append(sections, m.renderConfirm())
	case modeDetail:
		sections = append(sections, m.renderDetail())
	default:
		sections = append(sections, m.renderList())
	}

	if m.mode == modeSearch {
		sections = append(sections, m.searchInput.View())
	}

	widthHint := 0
	for _, section := range sections {
		if w := lipgloss.Width(section); w > widthHint {
			widthHint = w
		}
	}

	sections = append(sections, m.renderStatusArea(widthHint))

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *listModel) renderList() string {
	if m.ctrl.State() == tabular.StateConnectionError {
		danger := m.palette.ForegroundStyle(theme.ColorDanger)
		muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
		lines := []string{
			danger.Render("No se pudo conectar con el servidor"),
		}
		if err := m.ctrl.Err(); err != nil {
			lines = append(lines, err.Error())
		}
		if len(m.ctrl.Records()) > 0 {
			lines = append(lines, "", "Mostrando los últimos datos conocidos.")
			lines = append(lines, "", m.boxStyle.Render(m.table.View()))
		}
		lines = append(lines, "", muted.Render("r reintentar"))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	if len(m.ctrl.Records()) == 0 && m.ctrl.State() == tabular.StateLoaded {
		muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
		if m.ctrl.Filters().Active() || m.ctrl.SearchTerm() != "" {
			return muted.Render("Sin resultados para los criterios actuales.")
		}
		return muted.Render("Sin registros.")
	}

	return m.boxStyle.Render(m.table.View())
}

func (m *listModel) renderStatusArea(widthHint int) string {
	rows := []string{m.renderPaginationRow()}

	if line := m.renderContextRow(); line != "" {
		rows = append(rows, line)
	}

	if m.pending.active {
		rows = append(rows, fmt.Sprintf("%s %s...", m.spinner.View(), m.pending.label))
	} else if m.statusMessage != "" {
		msg := m.statusMessage
		if m.statusIsError {
			msg = m.palette.ForegroundStyle(theme.ColorDanger).Render(msg)
		}
		rows = append(rows, msg)
	}

	if m.showHelp {
		rows = append(rows, m.renderHelpContent())
	} else {
		rows = append(rows, m.renderHintRow())
	}

	content := lipgloss.JoinVertical(lipgloss.Left, rows...)
	style := m.statusStyle
	if widthHint > 0 {
		frameWidth, _ := style.GetFrameSize()
		if inner := widthHint - frameWidth; inner > 0 {
			style = style.Width(inner)
		}
	}
	return style.Render(content)
}

// renderPaginationRow shows the page window the way the footer of a paged
// table does: first, a gap, the window around the current page, a gap, last.
func (m *listModel) renderPaginationRow() string {
	p := m.ctrl.Paginator()
	if p.TotalItems == 0 {
		return "Sin registros"
	}

	var parts []string
	if p.ShowLeadingGap() {
		parts = append(parts, "1", "…")
	}
	for _, n := range p.PageNumbers() {
		if n == p.CurrentPage {
			parts = append(parts, m.palette.ForegroundStyle(theme.ColorAccent).Render(fmt.Sprintf("[%d]", n)))
			continue
		}
		parts = append(parts, fmt.Sprintf("%d", n))
	}
	if p.ShowTrailingGap() {
		parts = append(parts, "…", fmt.Sprintf("%d", p.TotalPages()))
	}

	return fmt.Sprintf("Página %s · mostrando %d-%d de %d · %d por página",
		strings.Join(parts, " "), p.FirstItemIndex(), p.MaxDisplayed(), p.TotalItems, p.ItemsPerPage)
}

// renderContextRow summarizes active search, filters, and sort so the user
// can tell why the list is reduced.
func (m *listModel) renderContextRow() string {
	var parts []string
	if term := m.ctrl.SearchTerm(); term != "" {
		parts = append(parts, fmt.Sprintf("búsqueda: %q", term))
	}
	if m.ctrl.Filters().Active() {
		active := 0
		for _, f := range m.ctrl.Filters() {
			if f.Active() {
				active++
			}
		}
		parts = append(parts, fmt.Sprintf("filtros activos: %d", active))
	}
	if sort := m.ctrl.Sort(); sort.Column != "" {
		dir := "asc"
		if sort.Direction == tabular.Descending {
			dir = "desc"
		}
		parts = append(parts, fmt.Sprintf("orden: %s %s", sort.Column, dir))
	}
	if m.profileName != "" {
		parts = append(parts, "perfil: "+m.profileName)
	}
	if len(parts) == 0 {
		return ""
	}
	return m.palette.ForegroundStyle(theme.ColorTextMuted).Render(strings.Join(parts, " · "))
}

func (m *listModel) renderHintRow() string {
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	if m.footer != "" {
		return muted.Render(m.footer)
	}
	return muted.Render("? ayuda · / buscar · f filtros · v columnas · q salir")
}

func (m *listModel) renderHelpContent() string {
	muted := m.palette.ForegroundStyle(theme.ColorTextMuted)
	lines := []string{
		"j/k o flechas    mover fila",
		"h/l o flechas    enfocar columna",
		"s                ordenar por la columna enfocada",
		"</>              mover la columna enfocada",
		"f                filtros",
		"v                columnas",
		"/                buscar (vacío restaura la lista)",
		"p                fijar/soltar registro",
		"[/]              página anterior/siguiente",
		"+                cambiar registros por página",
		"enter            ver detalle",
		"o                abrir los productos de la fila",
		"esc              volver a la lista anterior",
		"n/e/d            nuevo, editar, eliminar",
		"y                copiar código",
		"r                recargar",
		"t                cambiar tema",
		"q                salir",
	}
	return muted.Render(strings.Join(lines, "\n"))
}
