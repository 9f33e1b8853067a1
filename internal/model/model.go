package model

import "strings"

// SchemaVersion is the canonical document shape all core components operate on.
// Loaded documents in older or exporter-specific shapes are rewritten to this
// version by internal/schema.
const SchemaVersion = "1.1.0"

// ProjectDocument is the canonical, post-normalization project file:
// a film-production breakdown of sequences -> scenes -> shots.
type ProjectDocument struct {
	SchemaVersion string         `json:"schema_version,omitempty"`
	ProjectInfo   map[string]any `json:"project_info,omitempty"`
	Breakdown     *BreakdownData `json:"breakdown_data,omitempty"`

	// Legacy wire fields (stage exports carry these instead of schema_version).
	// Kept so that re-normalizing an already-processed document is a no-op.
	Stage   any    `json:"stage,omitempty"`
	Version string `json:"version,omitempty"`
}

type BreakdownData struct {
	Sequences []Sequence `json:"sequences"`
	Scenes    []Scene    `json:"scenes"`
	Shots     []Shot     `json:"shots"`
}

type Sequence struct {
	ID       string   `json:"id,omitempty"`
	Title    string   `json:"title,omitempty"`
	SceneIDs []string `json:"scene_ids"`

	// Legacy fields (Stage 5 exports; migrated during normalization).
	LegacySequenceID string `json:"sequence_id,omitempty"`
	LegacyName       string `json:"name,omitempty"`
}

type Scene struct {
	ID    string `json:"id"`
	Title string `json:"title,omitempty"`
	// SequenceID may arrive as a comma-separated list of sequence ids; only
	// the first trimmed token (the primary sequence) is modeled.
	SequenceID string   `json:"sequence_id,omitempty"`
	ShotIDs    []string `json:"shot_ids"`
}

type Shot struct {
	ID      string `json:"id"`
	Title   string `json:"title,omitempty"`
	SceneID string `json:"scene_id,omitempty"`
	// VideoPrompt is an opaque AI-generation prompt record attached by the
	// Stage 7 merge; the core never interprets its contents.
	VideoPrompt map[string]any `json:"video_prompt,omitempty"`
}

// PrimarySequenceID returns the first comma-separated token of a scene's
// sequence_id. A scene listing several sequences belongs only to the first.
func PrimarySequenceID(sequenceID string) string {
	first, _, _ := strings.Cut(sequenceID, ",")
	return strings.TrimSpace(first)
}

// SceneIDFromShotID derives a shot's parent scene from a dotted shot id
// ("S01.02" -> "S01"). Returns "" when the id has no dot.
func SceneIDFromShotID(shotID string) string {
	prefix, _, found := strings.Cut(shotID, ".")
	if !found {
		return ""
	}
	return prefix
}

// FindShot returns the shot with the given id, or nil.
func (b *BreakdownData) FindShot(id string) *Shot {
	if b == nil {
		return nil
	}
	for i := range b.Shots {
		if b.Shots[i].ID == id {
			return &b.Shots[i]
		}
	}
	return nil
}

// FindScene returns the scene with the given id, or nil.
func (b *BreakdownData) FindScene(id string) *Scene {
	if b == nil {
		return nil
	}
	for i := range b.Scenes {
		if b.Scenes[i].ID == id {
			return &b.Scenes[i]
		}
	}
	return nil
}

// FindSequence returns the sequence with the given id, or nil.
func (b *BreakdownData) FindSequence(id string) *Sequence {
	if b == nil {
		return nil
	}
	for i := range b.Sequences {
		if b.Sequences[i].ID == id {
			return &b.Sequences[i]
		}
	}
	return nil
}
