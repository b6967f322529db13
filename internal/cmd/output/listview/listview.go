// Package listview renders entity collections as an interactive table with
// filtering, sorting, column management and pagination. When the output is
// not a terminal it falls back to a static one-shot rendering.
package listview

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/kinetta/takeoffctl/internal/admin"
	"github.com/kinetta/takeoffctl/internal/iostreams"
	"github.com/kinetta/takeoffctl/internal/log"
	"github.com/kinetta/takeoffctl/internal/notify"
	"github.com/kinetta/takeoffctl/internal/tabular"
	"github.com/kinetta/takeoffctl/internal/theme"
	"github.com/mattn/go-isatty"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/reflow/truncate"
	"golang.org/x/term"
)

type fdProvider interface {
	Fd() uintptr
}

type config struct {
	title       string
	footer      string
	pageSize    int
	profileName string
	notifier    notify.Notifier
	interactive bool
	static      bool
	searchTerm  string
}

type Option func(*config)

func WithTitle(title string) Option {
	return func(c *config) {
		c.title = title
	}
}

func WithFooter(msg string) Option {
	return func(c *config) {
		c.footer = msg
	}
}

func WithPageSize(size int) Option {
	return func(c *config) {
		if size > 0 {
			c.pageSize = size
		}
	}
}

func WithProfileName(name string) Option {
	return func(c *config) {
		c.profileName = name
	}
}

func WithNotifier(n notify.Notifier) Option {
	return func(c *config) {
		c.notifier = n
	}
}

// WithInteractive forces the interactive program even when the output stream
// does not look like a terminal. Used by tests driving the model directly.
func WithInteractive() Option {
	return func(c *config) {
		c.interactive = true
	}
}

// WithStatic forces the one-shot rendering even on a terminal. Read-only
// commands use it so their output composes with shell pipelines.
func WithStatic() Option {
	return func(c *config) {
		c.static = true
	}
}

// WithInitialSearch narrows the one-shot rendering to a server side search
// instead of the full list.
func WithInitialSearch(term string) Option {
	return func(c *config) {
		c.searchTerm = strings.TrimSpace(term)
	}
}

// Render drives adapter through the interactive list program, or prints a
// single static page when stdout is not a TTY.
func Render(ctx context.Context, streams *iostreams.IOStreams, adapter admin.Adapter, opts ...Option) error {
	if streams == nil || streams.Out == nil {
		return errors.New("listview: output stream is not available")
	}
	if adapter == nil {
		return errors.New("listview: no adapter provided")
	}

	cfg := config{
		title:    adapter.Title(),
		pageSize: tabular.PageSizes[1],
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	termWidth, termHeight, isTTY := resolveTerminal(streams.Out)

	ctrl := tabular.NewController(adapter.Columns(), cfg.pageSize)

	if cfg.static || (!isTTY && !cfg.interactive) {
		return renderStatic(ctx, streams.Out, adapter, ctrl, cfg, termWidth)
	}

	model := newListModel(ctx, adapter, ctrl, cfg, termWidth, termHeight)

	// Mirroring errors to the console would corrupt the alternate screen.
	log.DisableErrorMirroring()
	defer log.EnableErrorMirroring()

	program := tea.NewProgram(model,
		tea.WithInput(streams.In),
		tea.WithOutput(streams.Out),
		tea.WithAltScreen(),
	)

	_, err := program.Run()
	return err
}

// renderStatic fetches once and prints the first page as plain text.
func renderStatic(
	ctx context.Context,
	out io.Writer,
	adapter admin.Adapter,
	ctrl *tabular.Controller,
	cfg config,
	termWidth int,
) error {
	seq := ctrl.BeginLoad()
	var records []tabular.Record
	var err error
	if cfg.searchTerm != "" {
		records, err = adapter.Search(ctx, cfg.searchTerm)
	} else {
		records, err = adapter.Fetch(ctx, false)
	}
	ctrl.CompleteLoad(seq, records, err)

	if ctrl.State() == tabular.StateConnectionError {
		if cfg.notifier != nil {
			cfg.notifier.Handle(ctrl.Err(), "cargar "+adapter.Name())
		}
		return fmt.Errorf("no se pudo cargar %s: %w", adapter.Name(), ctrl.Err())
	}

	var sections []string
	if cfg.title != "" {
		sections = append(sections, cfg.title)
	}
	sections = append(sections, staticTable(ctrl, termWidth))

	p := ctrl.Paginator()
	if p.TotalPages() > 1 {
		sections = append(sections, fmt.Sprintf("Página 1 de %d (%d registros)", p.TotalPages(), p.TotalItems))
	}
	if cfg.footer != "" {
		sections = append(sections, cfg.footer)
	}

	_, err = fmt.Fprintln(out, lipgloss.JoinVertical(lipgloss.Left, sections...))
	return err
}

// staticTable renders the current page without any bubbles machinery so the
// output stays clean when piped.
func staticTable(ctrl *tabular.Controller, termWidth int) string {
	cols := tabular.VisibleColumns(ctrl.Columns())
	records := ctrl.PageRecords()

	if len(cols) == 0 {
		return "Sin columnas visibles."
	}
	if len(records) == 0 {
		return "Sin registros."
	}

	widths := columnWidths(cols, records, termWidth)

	var b strings.Builder
	for i, col := range cols {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(padCell(col.Label, widths[i]))
	}
	b.WriteString("\n")
	for _, rec := range records {
		for i, col := range cols {
			if i > 0 {
				b.WriteString("  ")
			}
			b.WriteString(padCell(rec.Cell(col.Key), widths[i]))
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

const (
	minColumnWidth = 4
	maxColumnWidth = 32
)

func columnWidths(cols []tabular.Column, records []tabular.Record, termWidth int) []int {
	widths := make([]int, len(cols))
	for i, col := range cols {
		w := runewidth.StringWidth(col.Label)
		for _, rec := range records {
			if cw := runewidth.StringWidth(rec.Cell(col.Key)); cw > w {
				w = cw
			}
		}
		widths[i] = clamp(w, minColumnWidth, maxColumnWidth)
	}

	if termWidth <= 0 {
		return widths
	}

	// Shrink the widest columns until the row fits the terminal.
	gap := 2 * (len(cols) - 1)
	for sum(widths)+gap > termWidth {
		widest := 0
		for i := range widths {
			if widths[i] > widths[widest] {
				widest = i
			}
		}
		if widths[widest] <= minColumnWidth {
			break
		}
		widths[widest]--
	}
	return widths
}

func padCell(value string, width int) string {
	if width <= 0 {
		return value
	}
	value = ansi.Strip(value)
	if runewidth.StringWidth(value) > width {
		value = truncate.StringWithTail(value, uint(width), "…") //nolint:gosec
	}
	return value + strings.Repeat(" ", max(0, width-runewidth.StringWidth(value)))
}

func resolveTerminal(out io.Writer) (width int, height int, isTTY bool) {
	const defaultWidth = 120
	const defaultHeight = 24

	width, height = defaultWidth, defaultHeight

	fd, ok := getFD(out)
	if !ok {
		return width, height, false
	}

	isTTY = isTerminal(fd)

	if w, h, err := term.GetSize(int(fd)); err == nil {
		width, height = w, h
	}

	return width, height, isTTY
}

func getFD(w io.Writer) (uintptr, bool) {
	if fp, ok := w.(fdProvider); ok {
		fd := fp.Fd()
		if fd == ^uintptr(0) {
			return 0, false
		}
		return fd, true
	}
	return 0, false
}

func isTerminal(fd uintptr) bool {
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func clamp(val, minVal, maxVal int) int {
	if val < minVal {
		return minVal
	}
	if val > maxVal {
		return maxVal
	}
	return val
}

func sum(values []int) int {
	total := 0
	for _, v := range values {
		total += v
	}
	return total
}

func newBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}

func newStatusBoxStyle(p theme.Palette) lipgloss.Style {
	return lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(p.Adaptive(theme.ColorBorder)).
		Padding(0, 1)
}
