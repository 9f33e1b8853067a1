package tui

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	xansi "github.com/charmbracelet/x/ansi"
)

// treeRowItem adapts a treeRow for bubbles' list. active marks the shot that
// is the current selection in the state store (distinct from list focus).
type treeRowItem struct {
	row    treeRow
	active bool
}

func (it treeRowItem) Title() string       { return renderRowText(it.row, it.active) }
func (it treeRowItem) FilterValue() string { return it.row.label }

type treeDelegate struct {
	normal   lipgloss.Style
	selected lipgloss.Style
	sequence lipgloss.Style
	active   lipgloss.Style
}

func newTreeDelegate() treeDelegate {
	return treeDelegate{
		normal: lipgloss.NewStyle(),
		selected: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")).
			Background(lipgloss.Color("236")).
			Bold(true),
		sequence: lipgloss.NewStyle().Bold(true),
		active: lipgloss.NewStyle().
			Foreground(lipgloss.Color("215")),
	}
}

func (d treeDelegate) Height() int  { return 1 }
func (d treeDelegate) Spacing() int { return 0 }
func (d treeDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

func (d treeDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	contentW := m.Width()
	if contentW < 4 {
		fmt.Fprint(w, "")
		return
	}

	it, ok := item.(treeRowItem)
	if !ok {
		fmt.Fprint(w, d.renderRow(contentW, d.normal, fmt.Sprint(item)))
		return
	}

	line := it.Title()

	base := d.normal
	switch {
	case it.row.kind == rowSequence:
		base = d.sequence
	case it.active:
		base = d.active
	}

	// Keep the left edge stable (no selector bar); the focused row gets a
	// full-width background highlight instead.
	if index == m.Index() {
		style := base.
			Foreground(d.selected.GetForeground()).
			Background(d.selected.GetBackground()).
			Bold(true)
		fmt.Fprint(w, d.renderRow(contentW, style, line))
		return
	}
	fmt.Fprint(w, d.renderRow(contentW, base, line))
}

func (d treeDelegate) renderRow(width int, style lipgloss.Style, line string) string {
	plainW := xansi.StringWidth(line)
	if plainW < width {
		line += strings.Repeat(" ", width-plainW)
	} else if plainW > width {
		line = xansi.Cut(line, 0, width)
	}
	return style.Render(line)
}
