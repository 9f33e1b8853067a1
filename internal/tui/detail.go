package tui

import (
	"fmt"
	"sort"
	"strings"

	"storyboard-cli/internal/model"
)

// shotDetailMarkdown builds the markdown shown in the detail pane for the
// selected shot. The video_prompt record is opaque; scalar fields are listed
// and the conventional "text" field, when present, is promoted to a block.
func shotDetailMarkdown(doc *model.ProjectDocument, shotID string) string {
	if doc == nil || doc.Breakdown == nil || shotID == "" {
		return ""
	}
	sh := doc.Breakdown.FindShot(shotID)
	if sh == nil {
		return ""
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", shotLabel(*sh))
	if sh.SceneID != "" {
		if sc := doc.Breakdown.FindScene(sh.SceneID); sc != nil {
			fmt.Fprintf(&sb, "Scene: %s\n\n", sceneLabel(*sc))
		}
	}

	if sh.VideoPrompt == nil {
		sb.WriteString("_No video prompt attached._\n")
		return sb.String()
	}

	if text, ok := sh.VideoPrompt["text"].(string); ok && strings.TrimSpace(text) != "" {
		sb.WriteString("## Prompt\n\n")
		sb.WriteString(strings.TrimSpace(text))
		sb.WriteString("\n\n")
	}

	keys := make([]string, 0, len(sh.VideoPrompt))
	for k := range sh.VideoPrompt {
		if k == "text" || k == "shot_id" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	if len(keys) > 0 {
		sb.WriteString("## Fields\n\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "- **%s**: %v\n", k, sh.VideoPrompt[k])
		}
	}
	return sb.String()
}
