package tui

import (
	"strings"

	"storyboard-cli/internal/state"
	"storyboard-cli/internal/store"

	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type appModel struct {
	ws    store.Store
	state *state.Store
	tree  *TreeView

	rowsList list.Model
	search   textinput.Model

	searching bool
	query     string

	width  int
	height int

	status string
}

func newAppModel(ws store.Store, st *state.Store) appModel {
	cfgGlyphs := ""
	if cfg, err := store.LoadConfig(); err == nil && cfg.TUI != nil {
		cfgGlyphs = cfg.TUI.Glyphs
	}
	applyGlyphPreference(cfgGlyphs)

	m := appModel{
		ws:    ws,
		state: st,
		tree:  NewTreeView(st.CurrentData(), NewExpansionState()),
	}

	m.rowsList = list.New(nil, newTreeDelegate(), 0, 0)
	m.rowsList.Title = "Breakdown"
	m.rowsList.SetShowStatusBar(false)
	m.rowsList.SetFilteringEnabled(false)
	m.rowsList.SetShowHelp(false)

	m.search = textinput.New()
	m.search.Placeholder = "Search sequences, scenes, shots"
	m.search.Prompt = "/ "

	m.syncRows()
	return m
}

func (m appModel) Init() tea.Cmd { return nil }

// syncRows pushes the tree's current rows (or the search projection) into
// the list widget.
func (m *appModel) syncRows() {
	var rows []treeRow
	if strings.TrimSpace(m.query) != "" {
		rows = flattenFiltered(m.tree.Document(), m.query)
	} else {
		rows = m.tree.Rows()
	}
	selected, _ := m.state.Get(state.KeySelectedID).(string)
	items := make([]list.Item, 0, len(rows))
	for _, r := range rows {
		items = append(items, treeRowItem{
			row:    r,
			active: r.kind == rowShot && r.id == selected,
		})
	}
	m.rowsList.SetItems(items)
}

func (m appModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.rowsList.SetSize(m.treePaneWidth(), max(m.height-3, 1))
		return m, nil

	case tea.KeyMsg:
		if m.searching {
			return m.updateSearch(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "/":
			m.searching = true
			m.search.Focus()
			return m, nil
		case "E":
			m.tree.ExpandAll()
			m.syncRows()
			m.status = "Expanded all"
			return m, nil
		case "C":
			m.tree.CollapseAll()
			m.syncRows()
			m.status = "Collapsed all"
			return m, nil
		case "r":
			// Reload from disk so CLI loads in another terminal show up.
			if doc, err := m.ws.Load(); err == nil {
				m.state.Set(state.KeyCurrentData, doc)
				m.tree.SetDocument(doc)
				m.syncRows()
				m.status = "Reloaded"
			} else {
				m.status = "Reload failed: " + err.Error()
			}
			return m, nil
		case "enter", " ":
			return m.activateCurrent()
		}
	}

	var cmd tea.Cmd
	m.rowsList, cmd = m.rowsList.Update(msg)
	return m, cmd
}

func (m appModel) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.searching = false
		m.query = ""
		m.search.SetValue("")
		m.search.Blur()
		m.syncRows()
		return m, nil
	case "enter":
		// Keep the filter, hand focus back to the tree.
		m.searching = false
		m.search.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.search, cmd = m.search.Update(msg)
	m.query = m.search.Value()
	m.syncRows()
	return m, cmd
}

// activateCurrent toggles the focused header or selects the focused shot.
func (m appModel) activateCurrent() (tea.Model, tea.Cmd) {
	it, ok := m.rowsList.SelectedItem().(treeRowItem)
	if !ok {
		return m, nil
	}
	switch it.row.kind {
	case rowSequence:
		m.tree.ToggleSequence(it.row.id)
		m.syncRows()
	case rowScene:
		m.tree.ToggleScene(it.row.id)
		m.syncRows()
	case rowShot:
		m.state.Update([]state.Field{
			{Key: state.KeySelectedType, Value: "shot"},
			{Key: state.KeySelectedID, Value: it.row.id},
			{Key: state.KeySelectedSceneID, Value: it.row.sceneID},
		})
		m.syncRows()
	}
	return m, nil
}

func (m appModel) treePaneWidth() int {
	w := m.width / 2
	if w < 30 {
		w = max(m.width-2, 10)
	}
	return w
}

func (m appModel) View() string {
	if m.width == 0 {
		return "loading..."
	}

	left := m.rowsList.View()

	detailW := m.width - m.treePaneWidth() - 3
	detail := ""
	if detailW > 10 {
		selected, _ := m.state.Get(state.KeySelectedID).(string)
		detail = renderMarkdown(shotDetailMarkdown(m.state.CurrentData(), selected), detailW)
	}

	body := lipgloss.JoinHorizontal(lipgloss.Top,
		lipgloss.NewStyle().Width(m.treePaneWidth()).Render(left),
		" ",
		lipgloss.NewStyle().Width(max(detailW, 0)).Render(detail),
	)

	footer := m.footerLine()
	return lipgloss.JoinVertical(lipgloss.Left, body, footer)
}

func (m appModel) footerLine() string {
	if m.searching || strings.TrimSpace(m.query) != "" {
		return m.search.View()
	}
	help := "enter toggle/select · E expand all · C collapse all · / search · r reload · q quit"
	if m.status != "" {
		return m.status + " | " + help
	}
	return help
}
