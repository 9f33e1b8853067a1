package schema

// DetectAndProcess routes an arbitrary loaded document: shapes with a schema
// marker go through Normalize, while shapes that are already compatible with
// the rest of the app pass through unchanged.
//
// Passthrough cases:
//   - stage 2 exports (already hierarchical),
//   - documents with top-level sequences and no breakdown_data,
//   - stage 7 exports carrying video_prompts (merged separately, see
//     MergeVideoPrompts).
func DetectAndProcess(raw map[string]any) Outcome {
	if numberEquals(raw["stage"], 5) {
		return Normalize(raw)
	}
	if _, ok := raw["schema_version"]; ok {
		return Normalize(raw)
	}

	if numberEquals(raw["stage"], 2) {
		return passthrough(raw, KindStage2)
	}
	if _, ok := raw["sequences"]; ok {
		if _, hasBD := raw["breakdown_data"]; !hasBD {
			return passthrough(raw, KindBareSequences)
		}
	}
	if numberEquals(raw["stage"], 7) {
		if _, ok := raw["video_prompts"]; ok {
			return Outcome{Raw: raw, Kind: KindStage7Prompts}
		}
	}

	return Normalize(raw)
}

// passthrough keeps the document structurally unchanged but still produces
// the typed view for the store when the document decodes cleanly.
func passthrough(raw map[string]any, kind Kind) Outcome {
	doc, err := decodeProject(raw)
	if err != nil {
		// Still a passthrough: the raw document is what the caller keeps.
		return Outcome{Raw: raw, Kind: kind}
	}
	return Outcome{Doc: doc, Raw: raw, Kind: kind}
}

// VideoPrompts extracts the prompt records from a stage 7 export. Records
// that are not objects are skipped.
func VideoPrompts(raw map[string]any) []map[string]any {
	list, ok := raw["video_prompts"].([]any)
	if !ok {
		return nil
	}
	var out []map[string]any
	for _, v := range list {
		if rec, ok := v.(map[string]any); ok {
			out = append(out, rec)
		}
	}
	return out
}
