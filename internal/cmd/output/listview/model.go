package listview

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/kinetta/takeoffctl/internal/admin"
	"github.com/kinetta/takeoffctl/internal/notify"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/theme"
)

// mode identifies which surface currently owns the keyboard. Escape always
// dismisses the topmost surface only; the list underneath keeps its state.
type mode int

const (
	modeList mode = iota
	modeSearch
	modeFilters
	modeColumns
	modeForm
	modeConfirm
	modeDetail
)

type recordsLoadedMsg struct {
	seq     uint64
	records []tabular.Record
	err     error
}

type searchLoadedMsg struct {
	seq     uint64
	records []tabular.Record
	err     error
}

type saveDoneMsg struct {
	message string
	err     error
}

type deleteDoneMsg struct {
	err error
}

type refreshMsg struct{}

type pendingRequest struct {
	active  bool
	started time.Time
	label   string
}

func newSpinnerModel(p theme.Palette) spinner.Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = p.ForegroundStyle(theme.ColorAccent)
	return s
}

func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	seconds := int(d.Round(time.Second).Seconds())
	if seconds < 1 {
		fraction := d.Round(100 * time.Millisecond)
		realSeconds := float64(fraction) / float64(time.Second)
		return fmt.Sprintf("%.1fs", realSeconds)
	}
	if seconds < 60 {
		return fmt.Sprintf("%ds", seconds)
	}
	minutes := seconds / 60
	remainder := seconds % 60
	if remainder == 0 {
		return fmt.Sprintf("%dmin", minutes)
	}
	return fmt.Sprintf("%dmin %ds", minutes, remainder)
}

// listFrame snapshots the parent list while a drill-down child list is
// open, so escape can restore it in place.
type listFrame struct {
	adapter    admin.Adapter
	ctrl       *tabular.Controller
	title      string
	focusedCol int
}

type listModel struct {
	ctx     context.Context
	adapter admin.Adapter
	ctrl    *tabular.Controller

	// stack holds the parent lists of the current drill-down chain.
	stack []listFrame

	table       table.Model
	spinner     spinner.Model
	searchInput textinput.Model

	mode     mode
	showHelp bool

	// focusedCol indexes into the visible columns for sort and reorder keys.
	focusedCol int

	filterDialog *filterDialog
	columnDialog *columnDialog
	form         *formModel
	confirm      *confirmModel
	detail       *tabular.Record

	pending       pendingRequest
	statusMessage string
	statusIsError bool

	title       string
	footer      string
	profileName string

	palette     theme.Palette
	boxStyle    lipgloss.Style
	statusStyle lipgloss.Style

	windowWidth  int
	windowHeight int

	availableThemes []string
	themeIndex      int

	refreshCh     <-chan struct{}
	refreshCancel func()

	notifier notify.Notifier
}

func newListModel(
	ctx context.Context,
	adapter admin.Adapter,
	ctrl *tabular.Controller,
	cfg config,
	termWidth, termHeight int,
) *listModel {
	palette := theme.Current()

	search := textinput.New()
	search.Prompt = "/"
	search.Placeholder = "buscar..."
	search.CharLimit = 120

	m := &listModel{
		ctx:             ctx,
		adapter:         adapter,
		ctrl:            ctrl,
		spinner:         newSpinnerModel(palette),
		searchInput:     search,
		title:           cfg.title,
		footer:          cfg.footer,
		profileName:     strings.TrimSpace(cfg.profileName),
		palette:         palette,
		boxStyle:        newBoxStyle(palette),
		statusStyle:     newStatusBoxStyle(palette),
		windowWidth:     termWidth,
		windowHeight:    termHeight,
		availableThemes: theme.Available(),
		themeIndex:      themeIndexOf(theme.Available(), palette.Name),
		notifier:        cfg.notifier,
	}

	if m.notifier == nil {
		m.notifier = &notify.FuncNotifier{
			OnError: func(err error, context string) {
				m.setErrorStatus(fmt.Sprintf("Error al %s: %v", context, err))
			},
			OnSuccess: func(msg string) {
				m.setStatus(msg)
			},
		}
	}

	if refresher, ok := adapter.(admin.Refresher); ok {
		m.refreshCh, m.refreshCancel = refresher.Subscribe()
	}

	m.table = m.buildTable()
	return m
}

func themeIndexOf(names []string, name string) int {
	for i, n := range names {
		if n == name {
			return i
		}
	}
	return 0
}

func (m *listModel) Init() tea.Cmd {
	cmds := []tea.Cmd{m.startLoad(false)}
	if refresh := m.waitForRefresh(); refresh != nil {
		cmds = append(cmds, refresh)
	}
	return tea.Batch(cmds...)
}

func (m *listModel) startLoad(force bool) tea.Cmd {
	seq := m.ctrl.BeginLoad()
	m.beginRequest("cargando " + m.adapter.Name())
	ctx, adapter := m.ctx, m.adapter
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			records, err := adapter.Fetch(ctx, force)
			return recordsLoadedMsg{seq: seq, records: records, err: err}
		},
	)
}

func (m *listModel) startSearch(term string) tea.Cmd {
	term = strings.TrimSpace(term)
	if term == "" {
		m.ctrl.ResetToOriginal()
		m.syncTable()
		m.clearStatus()
		return nil
	}
	seq := m.ctrl.BeginSearch(term)
	m.beginRequest("buscando " + term)
	ctx, adapter := m.ctx, m.adapter
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			records, err := adapter.Search(ctx, term)
			return searchLoadedMsg{seq: seq, records: records, err: err}
		},
	)
}

func (m *listModel) waitForRefresh() tea.Cmd {
	ch := m.refreshCh
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return refreshMsg{}
	}
}

func (m *listModel) beginRequest(label string) {
	m.pending = pendingRequest{
		active:  true,
		started: time.Now(),
		label:   label,
	}
}

func (m *listModel) completeRequest() time.Duration {
	if !m.pending.active {
		return 0
	}
	elapsed := time.Since(m.pending.started)
	m.pending = pendingRequest{}
	return elapsed
}

func (m *listModel) setStatus(msg string) {
	m.statusMessage = msg
	m.statusIsError = false
}

func (m *listModel) setErrorStatus(msg string) {
	m.statusMessage = msg
	m.statusIsError = true
}

func (m *listModel) clearStatus() {
	m.statusMessage = ""
	m.statusIsError = false
}

// buildTable materializes the bubbles table from the controller's visible
// columns and current page.
func (m *listModel) buildTable() table.Model {
	cols := tabular.VisibleColumns(m.ctrl.Columns())
	records := m.ctrl.PageRecords()

	if m.focusedCol >= len(cols) {
		m.focusedCol = max(0, len(cols)-1)
	}

	widths := columnWidths(cols, records, m.tableContentWidth())
	sort := m.ctrl.Sort()

	columns := make([]table.Column, len(cols))
	for i, col := range cols {
		title := m.columnTitle(col, sort, i == m.focusedCol)
		columns[i] = table.Column{
			Title: title,
			Width: max(widths[i], len([]rune(title))),
		}
	}

	rows := make([]table.Row, len(records))
	for i, rec := range records {
		row := make(table.Row, len(cols))
		for j, col := range cols {
			cell := rec.Cell(col.Key)
			if col.Key == tabular.ColumnKeyID && m.ctrl.IsPinned(rec.ID) {
				cell = "* " + cell
			}
			row[j] = cell
		}
		rows[i] = row
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Foreground(m.palette.Adaptive(theme.ColorTextPrimary)).
		Background(m.palette.Adaptive(theme.ColorSurface))
	styles.Cell = styles.Cell.
		Foreground(m.palette.Adaptive(theme.ColorTextPrimary))
	styles.Selected = styles.Selected.
		Foreground(m.palette.Adaptive(theme.ColorAccentText)).
		Background(m.palette.Adaptive(theme.ColorAccent))

	tbl := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithStyles(styles),
	)
	tbl.SetHeight(clamp(len(rows)+1, 2, max(2, m.windowHeight-10)))
	return tbl
}

func (m *listModel) columnTitle(col tabular.Column, sort tabular.SortConfig, focused bool) string {
	title := col.Label
	if sort.Column == col.Key {
		if sort.Direction == tabular.Descending {
			title += " ▼"
		} else {
			title += " ▲"
		}
	}
	if focused {
		title = "[" + title + "]"
	}
	return title
}

func (m *listModel) tableContentWidth() int {
	frameWidth, _ := m.boxStyle.GetFrameSize()
	return max(20, m.windowWidth-frameWidth)
}

// syncTable rebuilds the table while keeping the cursor on the same row
// index when possible.
func (m *listModel) syncTable() {
	cursor := m.table.Cursor()
	m.table = m.buildTable()
	rowCount := len(m.table.Rows())
	if rowCount > 0 {
		m.table.SetCursor(clamp(cursor, 0, rowCount-1))
	}
}

func (m *listModel) selectedRecord() (tabular.Record, bool) {
	records := m.ctrl.PageRecords()
	cursor := m.table.Cursor()
	if cursor < 0 || cursor >= len(records) {
		return tabular.Record{}, false
	}
	return records[cursor], true
}

func (m *listModel) visibleColumns() []tabular.Column {
	return tabular.VisibleColumns(m.ctrl.Columns())
}

func (m *listModel) applyPalette(p theme.Palette) {
	m.palette = p
	m.boxStyle = newBoxStyle(p)
	m.statusStyle = newStatusBoxStyle(p)
	m.spinner = newSpinnerModel(p)
	m.syncTable()
}

func (m *listModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) { //nolint:ireturn
	switch msg := msg.(type) {
	case recordsLoadedMsg:
		return m.handleRecordsLoaded(msg)
	case searchLoadedMsg:
		return m.handleSearchLoaded(msg)
	case saveDoneMsg:
		return m.handleSaveDone(msg)
	case deleteDoneMsg:
		return m.handleDeleteDone(msg)
	case refreshMsg:
		cmds := []tea.Cmd{m.startLoad(true)}
		if refresh := m.waitForRefresh(); refresh != nil {
			cmds = append(cmds, refresh)
		}
		return m, tea.Batch(cmds...)
	case spinner.TickMsg:
		if m.pending.active {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.windowWidth = msg.Width
		m.windowHeight = msg.Height
		m.syncTable()
		return m, nil
	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m *listModel) handleRecordsLoaded(msg recordsLoadedMsg) (tea.Model, tea.Cmd) {
	elapsed := m.completeRequest()
	if !m.ctrl.CompleteLoad(msg.seq, msg.records, msg.err) {
		// A newer request superseded this response.
		return m, nil
	}
	if msg.err != nil {
		m.notifier.Handle(msg.err, "cargar "+m.adapter.Name())
		return m, nil
	}
	m.syncTable()
	m.setStatus(fmt.Sprintf("%d registros cargados en %s", len(msg.records), formatElapsed(elapsed)))
	return m, nil
}

func (m *listModel) handleSearchLoaded(msg searchLoadedMsg) (tea.Model, tea.Cmd) {
	elapsed := m.completeRequest()
	if !m.ctrl.CompleteSearch(msg.seq, msg.records, msg.err) {
		return m, nil
	}
	if msg.err != nil {
		m.notifier.Handle(msg.err, "buscar en "+m.adapter.Name())
		return m, nil
	}
	m.syncTable()
	m.setStatus(fmt.Sprintf("%d resultados en %s", len(m.ctrl.Records()), formatElapsed(elapsed)))
	return m, nil
}

func (m *listModel) handleSaveDone(msg saveDoneMsg) (tea.Model, tea.Cmd) {
	m.completeRequest()
	if msg.err != nil {
		// Keep the form open so the user can correct and resubmit.
		if m.form != nil {
			m.form.submitError = msg.err
		}
		m.notifier.Handle(msg.err, "guardar")
		return m, nil
	}
	m.form = nil
	m.mode = modeList
	m.notifier.ShowSuccess(msg.message)
	return m, m.startLoad(true)
}

func (m *listModel) handleDeleteDone(msg deleteDoneMsg) (tea.Model, tea.Cmd) {
	m.completeRequest()
	m.confirm = nil
	m.mode = modeList
	if msg.err != nil {
		m.notifier.Handle(msg.err, "eliminar")
		return m, nil
	}
	m.notifier.ShowSuccess("Registro eliminado correctamente")
	return m, m.startLoad(true)
}

func (m *listModel) handleKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.String() == "ctrl+c" {
		m.teardown()
		return m, tea.Quit
	}

	// Help renders above everything; any key closes it.
	if m.showHelp {
		m.showHelp = false
		return m, nil
	}

	switch m.mode {
	case modeSearch:
		return m.handleSearchKey(key)
	case modeFilters:
		return m.handleFilterKey(key)
	case modeColumns:
		return m.handleColumnKey(key)
	case modeForm:
		return m.handleFormKey(key)
	case modeConfirm:
		return m.handleConfirmKey(key)
	case modeDetail:
		return m.handleDetailKey(key)
	}
	return m.handleListKey(key)
}

func (m *listModel) handleListKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "q":
		m.teardown()
		return m, tea.Quit
	case "esc", "backspace":
		if len(m.stack) > 0 {
			return m, m.closeRelated()
		}
		m.teardown()
		return m, tea.Quit
	case "o":
		return m, m.openRelated()
	case "?":
		m.showHelp = true
		return m, nil
	case "t":
		if len(m.availableThemes) == 0 {
			return m, nil
		}
		m.themeIndex = (m.themeIndex + 1) % len(m.availableThemes)
		nextName := m.availableThemes[m.themeIndex]
		if p, ok := theme.Get(nextName); ok {
			m.applyPalette(p)
			m.setStatus(fmt.Sprintf("Tema: %s (fija color-theme: %s en la configuración para conservarlo)",
				p.DisplayName, nextName))
		}
		return m, nil
	case "/":
		m.mode = modeSearch
		m.searchInput.SetValue(m.ctrl.SearchTerm())
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()
	case "f":
		m.filterDialog = newFilterDialog(m.ctrl, m.visibleColumns())
		m.mode = modeFilters
		return m, nil
	case "v":
		m.columnDialog = newColumnDialog(m.ctrl.Columns())
		m.mode = modeColumns
		return m, nil
	case "left", "h":
		if m.focusedCol > 0 {
			m.focusedCol--
			m.syncTable()
		}
		return m, nil
	case "right", "l":
		if m.focusedCol < len(m.visibleColumns())-1 {
			m.focusedCol++
			m.syncTable()
		}
		return m, nil
	case "s":
		cols := m.visibleColumns()
		if m.focusedCol < len(cols) {
			if m.ctrl.SortBy(cols[m.focusedCol]) {
				m.syncTable()
			}
		}
		return m, nil
	case "<":
		return m, m.moveFocusedColumn(-1)
	case ">":
		return m, m.moveFocusedColumn(1)
	case "p":
		if rec, ok := m.selectedRecord(); ok {
			m.ctrl.TogglePin(rec.ID)
			m.syncTable()
		}
		return m, nil
	case "[":
		p := m.ctrl.Paginator()
		if m.ctrl.ChangePage(p.CurrentPage - 1) {
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil
	case "]":
		p := m.ctrl.Paginator()
		if m.ctrl.ChangePage(p.CurrentPage + 1) {
			m.table.SetCursor(0)
			m.syncTable()
		}
		return m, nil
	case "+":
		p := m.ctrl.Paginator()
		m.ctrl.SetPageSize(tabular.NextPageSize(p.ItemsPerPage))
		m.table.SetCursor(0)
		m.syncTable()
		m.setStatus(fmt.Sprintf("Registros por página: %d", m.ctrl.Paginator().ItemsPerPage))
		return m, nil
	case "r":
		if m.ctrl.State() == tabular.StateConnectionError {
			m.ctrl.Retry()
		}
		return m, m.startLoad(true)
	case "y":
		if rec, ok := m.selectedRecord(); ok {
			if err := clipboard.WriteAll(rec.Cell(tabular.ColumnKeyID)); err != nil {
				m.notifier.Handle(err, "copiar al portapapeles")
			} else {
				m.setStatus("Código copiado al portapapeles")
			}
		}
		return m, nil
	case "n":
		m.form = newFormModel(m.adapter, nil)
		m.mode = modeForm
		return m, m.form.focusCmd()
	case "e":
		if rec, ok := m.selectedRecord(); ok {
			recCopy := rec
			m.form = newFormModel(m.adapter, &recCopy)
			m.mode = modeForm
			return m, m.form.focusCmd()
		}
		return m, nil
	case "d":
		if rec, ok := m.selectedRecord(); ok {
			m.confirm = newConfirmModel(m.adapter.DeleteConfirm(rec), rec)
			m.mode = modeConfirm
		}
		return m, nil
	case "enter":
		if rec, ok := m.selectedRecord(); ok {
			recCopy := rec
			m.detail = &recCopy
			m.mode = modeDetail
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(key)
	return m, cmd
}

// moveFocusedColumn moves the focused column one slot left or right among
// the visible columns, keeping focus on it.
func (m *listModel) moveFocusedColumn(delta int) tea.Cmd {
	cols := m.visibleColumns()
	target := m.focusedCol + delta
	if m.focusedCol < 0 || m.focusedCol >= len(cols) || target < 0 || target >= len(cols) {
		return nil
	}
	if m.ctrl.ReorderColumns(cols[m.focusedCol].Key, cols[target].Key) {
		m.focusedCol = target
		m.syncTable()
	}
	return nil
}

// openRelated drills into the child list of the selected record, e.g. the
// products of a take-off. The parent list keeps its state on the stack.
func (m *listModel) openRelated() tea.Cmd {
	lister, ok := m.adapter.(admin.RelatedLister)
	if !ok {
		return nil
	}
	rec, ok := m.selectedRecord()
	if !ok {
		return nil
	}
	child, ok := lister.Related(rec)
	if !ok {
		return nil
	}

	pageSize := m.ctrl.Paginator().ItemsPerPage
	m.stack = append(m.stack, listFrame{
		adapter:    m.adapter,
		ctrl:       m.ctrl,
		title:      m.title,
		focusedCol: m.focusedCol,
	})
	m.adapter = child
	m.ctrl = tabular.NewController(child.Columns(), pageSize)
	m.title = child.Title()
	m.focusedCol = 0
	m.clearStatus()
	return m.startLoad(false)
}

// closeRelated pops back to the parent list. Child mutations change the
// parent's totals, so the parent reloads with the cache bypassed.
func (m *listModel) closeRelated() tea.Cmd {
	if len(m.stack) == 0 {
		return nil
	}
	frame := m.stack[len(m.stack)-1]
	m.stack = m.stack[:len(m.stack)-1]

	m.adapter = frame.adapter
	m.ctrl = frame.ctrl
	m.title = frame.title
	m.focusedCol = frame.focusedCol
	m.clearStatus()
	m.syncTable()
	return m.startLoad(true)
}

func (m *listModel) handleSearchKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.mode = modeList
		m.searchInput.Blur()
		return m, nil
	case "enter":
		term := m.searchInput.Value()
		m.mode = modeList
		m.searchInput.Blur()
		return m, m.startSearch(term)
	}
	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(key)
	return m, cmd
}

func (m *listModel) handleDetailKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc", "backspace", "q", "enter":
		m.detail = nil
		m.mode = modeList
	case "y":
		if m.detail != nil {
			if err := clipboard.WriteAll(m.detail.Cell(tabular.ColumnKeyID)); err != nil {
				m.notifier.Handle(err, "copiar al portapapeles")
			} else {
				m.setStatus("Código copiado al portapapeles")
			}
		}
	}
	return m, nil
}

func (m *listModel) teardown() {
	if m.refreshCancel != nil {
		m.refreshCancel()
		m.refreshCancel = nil
	}
}
