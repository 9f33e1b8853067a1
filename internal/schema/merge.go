package schema

import "storyboard-cli/internal/model"

// MergeVideoPrompts attaches stage 7 prompt records to the shots of an
// existing canonical document. Each record carrying a shot_id that matches a
// shot becomes that shot's video_prompt (whole record, last write wins on
// duplicate shot_ids); records with no matching shot are dropped silently.
//
// A nil doc gets a freshly synthesized empty document so prompt-only loads
// still produce something the UI can hold. Never fails.
func MergeVideoPrompts(prompts []map[string]any, doc *model.ProjectDocument) *model.ProjectDocument {
	if doc == nil {
		doc = &model.ProjectDocument{
			SchemaVersion: model.SchemaVersion,
			ProjectInfo:   map[string]any{"name": "Untitled Project"},
			Breakdown: &model.BreakdownData{
				Sequences: []model.Sequence{},
				Scenes:    []model.Scene{},
				Shots:     []model.Shot{},
			},
		}
	}
	if doc.Breakdown == nil {
		return doc
	}
	for _, rec := range prompts {
		shotID, _ := rec["shot_id"].(string)
		if shotID == "" {
			continue
		}
		if shot := doc.Breakdown.FindShot(shotID); shot != nil {
			shot.VideoPrompt = rec
		}
	}
	return doc
}
