package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"

	"discset/internal/engine"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var statusStyles = map[statusKind]struct {
	label string
	color text.Colors
}{
	statusInfo:  {"INFO", text.Colors{text.FgBlue}},
	statusOK:    {"OK", text.Colors{text.FgGreen}},
	statusWarn:  {"WARN", text.Colors{text.FgYellow}},
	statusError: {"ERROR", text.Colors{text.FgRed}},
}

const statusLabelWidth = 22

// printer writes human output to one writer, colored only when that writer
// is a terminal.
type printer struct {
	w     io.Writer
	color bool
}

func newPrinter(w io.Writer) *printer {
	return &printer{w: w, color: shouldColorize(w)}
}

func (p *printer) section(title string) {
	heading := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(heading))
	fmt.Fprintln(p.w, p.paint(text.Colors{text.FgBlue}, heading))
	fmt.Fprintln(p.w, p.paint(text.Colors{text.FgBlue}, rule))
}

func (p *printer) status(label string, kind statusKind, message string) {
	style := statusStyles[kind]
	line := fmt.Sprintf("  %-*s [%s]", statusLabelWidth, label+":", style.label)
	if message != "" {
		line += " " + message
	}
	fmt.Fprintln(p.w, p.paint(style.color, line))
}

func (p *printer) table(t tableSpec) {
	fmt.Fprintln(p.w, t.render())
}

func (p *printer) blank() {
	fmt.Fprintln(p.w)
}

func (p *printer) paint(colors text.Colors, s string) string {
	if !p.color {
		return s
	}
	return colors.Sprint(s)
}

// tableSpec is a rounded go-pretty table. Rows shorter than the header are
// padded.
type tableSpec struct {
	headers []string
	rows    [][]string
	// right lists zero-based columns aligned right.
	right []int
}

func (t tableSpec) render() string {
	if len(t.headers) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)
	tw.AppendHeader(t.row(t.headers))
	for _, r := range t.rows {
		tw.AppendRow(t.row(r))
	}
	configs := make([]table.ColumnConfig, 0, len(t.right))
	for _, col := range t.right {
		configs = append(configs, table.ColumnConfig{
			Number:      col + 1,
			Align:       text.AlignRight,
			AlignHeader: text.AlignLeft,
		})
	}
	tw.SetColumnConfigs(configs)
	return tw.Render()
}

func (t tableSpec) row(cells []string) table.Row {
	row := make(table.Row, len(t.headers))
	for i := range row {
		if i < len(cells) {
			row[i] = cells[i]
		} else {
			row[i] = ""
		}
	}
	return row
}

// outcomeStatus maps an outcome kind onto a status color.
func outcomeStatus(kind engine.Kind) statusKind {
	switch kind {
	case engine.KindPlaylistCreated, engine.KindPlaylistOverwritten, engine.KindCatalogPatched:
		return statusOK
	case engine.KindFailed:
		return statusError
	case engine.KindIncomplete, engine.KindDuplicate, engine.KindUnnamed, engine.KindCatalogMissing:
		return statusWarn
	default:
		return statusInfo
	}
}

func shouldColorize(w io.Writer) bool {
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
