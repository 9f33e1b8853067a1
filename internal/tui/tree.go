package tui

import (
	"strings"

	"storyboard-cli/internal/model"
)

type rowKind int

const (
	rowSequence rowKind = iota
	rowScene
	rowShot
)

// treeRow is one visible line of the navigation tree. Rows are derived from
// the flat canonical arrays; the nested sequence -> scene -> shot view is a
// projection computed here, with scene.sequence_id (primary token) and
// shot.scene_id as ground truth.
type treeRow struct {
	kind  rowKind
	id    string
	label string
	depth int

	hasChildren bool
	expanded    bool

	// Ancestor ids, for selection bookkeeping.
	sequenceID string
	sceneID    string
}

// ExpansionState records which tree nodes are visually open. It is
// UI-scoped and never persisted: a fresh load starts collapsed.
type ExpansionState struct {
	Sequences map[string]bool
	Scenes    map[string]bool
}

func NewExpansionState() *ExpansionState {
	return &ExpansionState{}
}

func (e *ExpansionState) sequenceExpanded(id string) bool { return e.Sequences[id] }
func (e *ExpansionState) sceneExpanded(id string) bool    { return e.Scenes[id] }

// ToggleSequence flips a sequence open/closed and reports the new state.
// The set is created on first use.
func (e *ExpansionState) ToggleSequence(id string) bool {
	if e.Sequences == nil {
		e.Sequences = map[string]bool{}
	}
	if e.Sequences[id] {
		delete(e.Sequences, id)
		return false
	}
	e.Sequences[id] = true
	return true
}

// ToggleScene flips a scene open/closed and reports the new state.
func (e *ExpansionState) ToggleScene(id string) bool {
	if e.Scenes == nil {
		e.Scenes = map[string]bool{}
	}
	if e.Scenes[id] {
		delete(e.Scenes, id)
		return false
	}
	e.Scenes[id] = true
	return true
}

// ExpandAll opens every sequence and scene present in the document.
func (e *ExpansionState) ExpandAll(doc *model.ProjectDocument) {
	e.Sequences = map[string]bool{}
	e.Scenes = map[string]bool{}
	if doc == nil || doc.Breakdown == nil {
		return
	}
	for _, seq := range doc.Breakdown.Sequences {
		e.Sequences[seq.ID] = true
	}
	for _, sc := range doc.Breakdown.Scenes {
		e.Scenes[sc.ID] = true
	}
}

// CollapseAll closes everything.
func (e *ExpansionState) CollapseAll() {
	e.Sequences = map[string]bool{}
	e.Scenes = map[string]bool{}
}

func sequenceLabel(seq model.Sequence) string {
	if strings.TrimSpace(seq.Title) != "" {
		return seq.Title
	}
	return "Sequence " + seq.ID
}

func sceneLabel(sc model.Scene) string {
	if strings.TrimSpace(sc.Title) != "" {
		return sc.Title
	}
	return "Scene " + sc.ID
}

func shotLabel(sh model.Shot) string {
	if strings.TrimSpace(sh.Title) != "" {
		return sh.Title
	}
	return "Shot " + sh.ID
}

func scenesOf(b *model.BreakdownData, sequenceID string) []model.Scene {
	var out []model.Scene
	for _, sc := range b.Scenes {
		if model.PrimarySequenceID(sc.SequenceID) == sequenceID {
			out = append(out, sc)
		}
	}
	return out
}

func shotsOf(b *model.BreakdownData, sceneID string) []model.Shot {
	var out []model.Shot
	for _, sh := range b.Shots {
		if sh.SceneID == sceneID {
			out = append(out, sh)
		}
	}
	return out
}

// flattenBreakdown derives the visible rows for the whole tree. Collapsed
// subtrees contribute only their header row.
func flattenBreakdown(doc *model.ProjectDocument, exp *ExpansionState) []treeRow {
	if doc == nil || doc.Breakdown == nil {
		return nil
	}
	b := doc.Breakdown
	var out []treeRow
	for _, seq := range b.Sequences {
		scenes := scenesOf(b, seq.ID)
		expanded := exp.sequenceExpanded(seq.ID)
		out = append(out, treeRow{
			kind:        rowSequence,
			id:          seq.ID,
			label:       sequenceLabel(seq),
			hasChildren: len(scenes) > 0,
			expanded:    expanded,
			sequenceID:  seq.ID,
		})
		if !expanded {
			continue
		}
		out = append(out, sequenceChildRows(b, seq.ID, scenes, exp)...)
	}
	return out
}

func sequenceChildRows(b *model.BreakdownData, sequenceID string, scenes []model.Scene, exp *ExpansionState) []treeRow {
	var out []treeRow
	for _, sc := range scenes {
		shots := shotsOf(b, sc.ID)
		expanded := exp.sceneExpanded(sc.ID)
		out = append(out, treeRow{
			kind:        rowScene,
			id:          sc.ID,
			label:       sceneLabel(sc),
			depth:       1,
			hasChildren: len(shots) > 0,
			expanded:    expanded,
			sequenceID:  sequenceID,
			sceneID:     sc.ID,
		})
		if !expanded {
			continue
		}
		out = append(out, sceneChildRows(sequenceID, sc.ID, shots)...)
	}
	return out
}

func sceneChildRows(sequenceID, sceneID string, shots []model.Shot) []treeRow {
	var out []treeRow
	for _, sh := range shots {
		out = append(out, treeRow{
			kind:       rowShot,
			id:         sh.ID,
			label:      shotLabel(sh),
			depth:      2,
			sequenceID: sequenceID,
			sceneID:    sceneID,
		})
	}
	return out
}

// flattenFiltered derives the rows matching a search query: every row whose
// label contains the query (case-insensitive), plus its ancestor headers,
// which are forced visually open. The expansion sets themselves are not
// consulted or mutated; search is transient visual state.
func flattenFiltered(doc *model.ProjectDocument, query string) []treeRow {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return nil
	}
	if doc == nil || doc.Breakdown == nil {
		return nil
	}
	match := func(label string) bool {
		return strings.Contains(strings.ToLower(label), query)
	}

	b := doc.Breakdown
	var out []treeRow
	for _, seq := range b.Sequences {
		seqRow := treeRow{
			kind:       rowSequence,
			id:         seq.ID,
			label:      sequenceLabel(seq),
			sequenceID: seq.ID,
		}
		var children []treeRow
		for _, sc := range scenesOf(b, seq.ID) {
			scRow := treeRow{
				kind:       rowScene,
				id:         sc.ID,
				label:      sceneLabel(sc),
				depth:      1,
				sequenceID: seq.ID,
				sceneID:    sc.ID,
			}
			allShots := shotsOf(b, sc.ID)
			var shots []treeRow
			for _, sh := range allShots {
				if match(shotLabel(sh)) {
					shots = append(shots, treeRow{
						kind:       rowShot,
						id:         sh.ID,
						label:      shotLabel(sh),
						depth:      2,
						sequenceID: seq.ID,
						sceneID:    sc.ID,
					})
				}
			}
			if len(shots) > 0 {
				scRow.hasChildren = true
				scRow.expanded = true
				children = append(children, scRow)
				children = append(children, shots...)
			} else if match(scRow.label) {
				// Matched headers are forced visually open even when none of
				// their children matched.
				scRow.hasChildren = len(allShots) > 0
				scRow.expanded = true
				children = append(children, scRow)
			}
		}
		if len(children) > 0 {
			seqRow.hasChildren = true
			seqRow.expanded = true
			out = append(out, seqRow)
			out = append(out, children...)
		} else if match(seqRow.label) {
			seqRow.hasChildren = len(scenesOf(b, seq.ID)) > 0
			seqRow.expanded = true
			out = append(out, seqRow)
		}
	}
	return out
}
