package schema

import (
	"fmt"

	"storyboard-cli/internal/model"
)

// Synthesized-sequence defaults for Stage 5 exports that ship scenes without
// any sequence table.
const (
	defaultSequenceID     = "SEQ_DEFAULT"
	placeholderSequenceID = "SEQ_001"
	placeholderTitle      = "Main Sequence"
)

// Normalize rewrites a parsed project document into the canonical shape.
// It is total: no input makes it fail. Unrecognized shapes come back
// unchanged (Doc nil, Raw as given) with a diagnostic for the caller to log.
func Normalize(raw map[string]any) Outcome {
	kind := Classify(raw)

	switch kind {
	case KindCanonical:
		doc, err := decodeProject(raw)
		if err != nil {
			return unrecognized(raw, fmt.Sprintf("canonical document did not decode: %v", err))
		}
		changed := backfillSceneIDs(doc.Breakdown)
		if recomputeShotIDs(doc.Breakdown) {
			changed = true
		}
		return Outcome{Doc: doc, Raw: raw, Kind: kind, Changed: changed}

	case KindLegacyV3:
		// Structural passthrough: no backfill, no recompute. The 3.0.0 shape
		// is already hierarchical; it only lacks the newer prompt fields.
		doc, err := decodeProject(raw)
		if err != nil {
			return unrecognized(raw, fmt.Sprintf("3.0.0 document did not decode: %v", err))
		}
		return Outcome{Doc: doc, Raw: raw, Kind: kind, HasStage2Structure: true}

	case KindStage5:
		doc, err := decodeProject(raw)
		if err != nil {
			return unrecognized(raw, fmt.Sprintf("stage 5 document did not decode: %v", err))
		}
		changed := normalizeStage5(doc)
		return Outcome{Doc: doc, Raw: raw, Kind: kind, HasStage2Structure: true, Changed: changed}

	default:
		return unrecognized(raw, "no recognizable schema marker (schema_version/stage)")
	}
}

func unrecognized(raw map[string]any, diag string) Outcome {
	return Outcome{Raw: raw, Kind: KindUnrecognized, Diagnostic: diag}
}

func decodeProject(raw map[string]any) (*model.ProjectDocument, error) {
	var doc model.ProjectDocument
	if err := decodeInto(raw, &doc); err != nil {
		return nil, err
	}
	return &doc, nil
}

// backfillSceneIDs fills a shot's missing scene_id from its dotted id prefix
// ("S01.02" belongs to scene "S01"). Reports whether anything changed.
func backfillSceneIDs(b *model.BreakdownData) bool {
	if b == nil {
		return false
	}
	changed := false
	for i := range b.Shots {
		sh := &b.Shots[i]
		if sh.SceneID != "" {
			continue
		}
		if scene := model.SceneIDFromShotID(sh.ID); scene != "" {
			sh.SceneID = scene
			changed = true
		}
	}
	return changed
}

// recomputeShotIDs rebuilds every scene's shot_ids from the flat shot list.
// The incoming lists are never trusted; the scene_id relation is ground truth.
func recomputeShotIDs(b *model.BreakdownData) bool {
	if b == nil {
		return false
	}
	changed := false
	for i := range b.Scenes {
		sc := &b.Scenes[i]
		var ids []string
		for j := range b.Shots {
			if b.Shots[j].SceneID == sc.ID {
				ids = append(ids, b.Shots[j].ID)
			}
		}
		if !equalStrings(sc.ShotIDs, ids) {
			sc.ShotIDs = ids
			changed = true
		}
	}
	return changed
}

func normalizeStage5(doc *model.ProjectDocument) bool {
	b := doc.Breakdown
	if b == nil {
		return false
	}

	if len(b.Sequences) > 0 {
		// Sequences exist: migrate legacy field names in place, leave scenes
		// and shots untouched.
		changed := false
		for i := range b.Sequences {
			seq := &b.Sequences[i]
			if seq.ID == "" && seq.LegacySequenceID != "" {
				seq.ID = seq.LegacySequenceID
				seq.LegacySequenceID = ""
				changed = true
			}
			if seq.Title == "" && seq.LegacyName != "" {
				seq.Title = seq.LegacyName
				changed = true
			}
		}
		return changed
	}

	// No sequence table: synthesize one from the scenes. A scene with a
	// comma-separated sequence_id is assigned only to its primary (first)
	// sequence; multi-sequence membership is not modeled.
	if len(b.Scenes) > 0 {
		var order []string
		sceneIDs := map[string][]string{}
		seen := map[string]map[string]bool{}
		for i := range b.Scenes {
			sc := &b.Scenes[i]
			seqID := model.PrimarySequenceID(sc.SequenceID)
			if seqID == "" {
				seqID = defaultSequenceID
			}
			if _, ok := sceneIDs[seqID]; !ok {
				order = append(order, seqID)
				seen[seqID] = map[string]bool{}
			}
			if !seen[seqID][sc.ID] {
				seen[seqID][sc.ID] = true
				sceneIDs[seqID] = append(sceneIDs[seqID], sc.ID)
			}
		}
		seqs := make([]model.Sequence, 0, len(order))
		for _, id := range order {
			seqs = append(seqs, model.Sequence{
				ID:       id,
				Title:    "Sequence " + id,
				SceneIDs: sceneIDs[id],
			})
		}
		b.Sequences = seqs
		return true
	}

	b.Sequences = []model.Sequence{{
		ID:       placeholderSequenceID,
		Title:    placeholderTitle,
		SceneIDs: []string{},
	}}
	return true
}

func equalStrings(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
