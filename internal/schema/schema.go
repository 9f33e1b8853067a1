// Package schema classifies the versioned project-file shapes produced by the
// various export stages and rewrites them into the canonical document
// (model.SchemaVersion). Everything here is pure: no I/O, and no input is
// ever rejected. Unrecognized shapes are returned unchanged with a
// diagnostic instead of an error.
package schema

import (
	"encoding/json"
	"strconv"

	"storyboard-cli/internal/model"
)

// Kind discriminates the known wire shapes. Classification is explicit and
// exhaustive; anything that matches no known shape is KindUnrecognized
// rather than a best guess.
type Kind int

const (
	KindUnrecognized Kind = iota

	// Shapes handled by Normalize (first match wins, in this order).
	KindCanonical // schema_version "1.1.0" with a full breakdown
	KindLegacyV3  // schema_version "3.0.0" with a full breakdown
	KindStage5    // stage 5 / version "6.0" export

	// Shapes DetectAndProcess passes through as already compatible.
	KindStage2        // stage 2 export
	KindBareSequences // top-level sequences, no breakdown_data
	KindStage7Prompts // stage 7 export carrying video_prompts
)

func (k Kind) String() string {
	switch k {
	case KindCanonical:
		return "canonical"
	case KindLegacyV3:
		return "legacy-3.0.0"
	case KindStage5:
		return "stage5-v6"
	case KindStage2:
		return "stage2"
	case KindBareSequences:
		return "bare-sequences"
	case KindStage7Prompts:
		return "stage7-prompts"
	default:
		return "unrecognized"
	}
}

// Outcome is the result of a normalization or detection pass.
//
// Doc is the typed canonical view when one could be produced; Raw is always
// the original parsed input (returned unchanged for passthrough and
// unrecognized shapes). Outcome never carries an error: a shape problem is a
// Diagnostic, not a fault.
type Outcome struct {
	Doc *model.ProjectDocument
	Raw map[string]any

	Kind               Kind
	HasStage2Structure bool
	Changed            bool
	Diagnostic         string
}

// Classify reports which of the shapes Normalize understands the document
// uses. Detection order matters: an already-canonical document also carries
// schema_version, so the canonical check runs first.
func Classify(raw map[string]any) Kind {
	switch {
	case stringField(raw, "schema_version") == model.SchemaVersion && hasFullBreakdown(raw):
		return KindCanonical
	case stringField(raw, "schema_version") == "3.0.0" && hasFullBreakdown(raw):
		return KindLegacyV3
	case numberEquals(raw["stage"], 5) && stringField(raw, "version") == "6.0" && hasBreakdown(raw):
		return KindStage5
	default:
		return KindUnrecognized
	}
}

func hasBreakdown(raw map[string]any) bool {
	_, ok := raw["breakdown_data"].(map[string]any)
	return ok
}

func hasFullBreakdown(raw map[string]any) bool {
	bd, ok := raw["breakdown_data"].(map[string]any)
	if !ok {
		return false
	}
	for _, k := range []string{"sequences", "scenes", "shots"} {
		if _, ok := bd[k]; !ok {
			return false
		}
	}
	return true
}

func stringField(raw map[string]any, key string) string {
	s, _ := raw[key].(string)
	return s
}

// numberEquals matches a JSON value against an integer stage tag. The
// upstream exporters are not consistent about number representation, so
// float64, json.Number and numeric strings all count.
func numberEquals(v any, want float64) bool {
	switch n := v.(type) {
	case float64:
		return n == want
	case int:
		return float64(n) == want
	case int64:
		return float64(n) == want
	case json.Number:
		f, err := n.Float64()
		return err == nil && f == want
	case string:
		f, err := strconv.ParseFloat(n, 64)
		return err == nil && f == want
	}
	return false
}

// decodeInto re-marshals a raw map into a typed value. Used instead of field
// copying so the typed model's legacy-field tags do the migration work.
func decodeInto(raw any, v any) error {
	b, err := json.Marshal(raw)
	if err != nil {
		return err
	}
	return json.Unmarshal(b, v)
}
