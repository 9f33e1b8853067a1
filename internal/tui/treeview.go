package tui

import (
	"strings"

	"storyboard-cli/internal/model"
)

// TreeView owns the visible row slice for one document + expansion state.
// Toggling a node splices only that node's subtree in or out; the full
// flatten runs only on document replacement and bulk expand/collapse.
type TreeView struct {
	doc *model.ProjectDocument
	exp *ExpansionState

	rows []treeRow
}

func NewTreeView(doc *model.ProjectDocument, exp *ExpansionState) *TreeView {
	if exp == nil {
		exp = NewExpansionState()
	}
	t := &TreeView{doc: doc, exp: exp}
	t.rows = flattenBreakdown(doc, exp)
	return t
}

func (t *TreeView) Rows() []treeRow                 { return t.rows }
func (t *TreeView) Expansion() *ExpansionState      { return t.exp }
func (t *TreeView) Document() *model.ProjectDocument { return t.doc }

// SetDocument replaces the document and rebuilds the rows.
func (t *TreeView) SetDocument(doc *model.ProjectDocument) {
	t.doc = doc
	t.rows = flattenBreakdown(doc, t.exp)
}

// ExpandAll opens every node.
func (t *TreeView) ExpandAll() {
	t.exp.ExpandAll(t.doc)
	t.rows = flattenBreakdown(t.doc, t.exp)
}

// CollapseAll closes every node.
func (t *TreeView) CollapseAll() {
	t.exp.CollapseAll()
	t.rows = flattenBreakdown(t.doc, t.exp)
}

// ToggleSequence flips one sequence and patches the row slice in place.
func (t *TreeView) ToggleSequence(id string) {
	idx := t.findRow(rowSequence, id)
	if idx < 0 {
		t.exp.ToggleSequence(id)
		return
	}
	expanded := t.exp.ToggleSequence(id)
	t.rows[idx].expanded = expanded

	if !expanded {
		t.removeSubtree(idx)
		return
	}
	b := t.doc.Breakdown
	children := sequenceChildRows(b, id, scenesOf(b, id), t.exp)
	t.insertAfter(idx, children)
}

// ToggleScene flips one scene and patches the row slice in place.
func (t *TreeView) ToggleScene(id string) {
	idx := t.findRow(rowScene, id)
	if idx < 0 {
		t.exp.ToggleScene(id)
		return
	}
	expanded := t.exp.ToggleScene(id)
	t.rows[idx].expanded = expanded

	if !expanded {
		t.removeSubtree(idx)
		return
	}
	row := t.rows[idx]
	children := sceneChildRows(row.sequenceID, id, shotsOf(t.doc.Breakdown, id))
	t.insertAfter(idx, children)
}

func (t *TreeView) findRow(kind rowKind, id string) int {
	for i, r := range t.rows {
		if r.kind == kind && r.id == id {
			return i
		}
	}
	return -1
}

// removeSubtree drops every row after idx with a greater depth (the toggled
// node's descendants).
func (t *TreeView) removeSubtree(idx int) {
	end := idx + 1
	for end < len(t.rows) && t.rows[end].depth > t.rows[idx].depth {
		end++
	}
	t.rows = append(t.rows[:idx+1], t.rows[end:]...)
}

func (t *TreeView) insertAfter(idx int, children []treeRow) {
	out := make([]treeRow, 0, len(t.rows)+len(children))
	out = append(out, t.rows[:idx+1]...)
	out = append(out, children...)
	out = append(out, t.rows[idx+1:]...)
	t.rows = out
}

const emptyTreeNotice = "No project loaded"

// Render produces the plain-text tree markup for a document, expansion
// state and selection. Pure: used by the TUI for its tree pane content and
// by the `tree` CLI command directly.
func Render(doc *model.ProjectDocument, exp *ExpansionState, selectedShotID string) string {
	if exp == nil {
		exp = NewExpansionState()
	}
	rows := flattenBreakdown(doc, exp)
	if len(rows) == 0 {
		return emptyTreeNotice
	}
	var sb strings.Builder
	for i, r := range rows {
		if i > 0 {
			sb.WriteByte('\n')
		}
		sb.WriteString(renderRowText(r, r.kind == rowShot && r.id == selectedShotID))
	}
	return sb.String()
}

func renderRowText(r treeRow, selected bool) string {
	indent := strings.Repeat("  ", r.depth)
	twisty := " "
	if r.hasChildren {
		if r.expanded {
			twisty = glyphTwistyExpanded()
		} else {
			twisty = glyphTwistyCollapsed()
		}
	}
	marker := " "
	if selected {
		marker = glyphSelected()
	}
	return marker + indent + twisty + " " + r.label
}
