package schema

import (
	"reflect"
	"testing"
)

func TestDetectAndProcess_RoutesStage5ToNormalize(t *testing.T) {
	out := DetectAndProcess(parseDoc(t, stage5WithScenes))
	if out.Kind != KindStage5 {
		t.Fatalf("expected stage5, got %v", out.Kind)
	}
	if len(out.Doc.Breakdown.Sequences) == 0 {
		t.Fatalf("stage 5 route must synthesize sequences")
	}
}

func TestDetectAndProcess_RoutesAnySchemaVersionToNormalize(t *testing.T) {
	// Even an unknown schema_version goes through Normalize, which flags it.
	out := DetectAndProcess(parseDoc(t, `{"schema_version":"9.9.9"}`))
	if out.Kind != KindUnrecognized {
		t.Fatalf("expected unrecognized, got %v", out.Kind)
	}
	if out.Diagnostic == "" {
		t.Fatalf("expected a diagnostic")
	}
}

func TestDetectAndProcess_Stage2PassesThrough(t *testing.T) {
	raw := parseDoc(t, `{
	  "stage": 2,
	  "breakdown_data": {"sequences": [], "scenes": [], "shots": [{"id": "S01.01"}]}
	}`)
	out := DetectAndProcess(raw)
	if out.Kind != KindStage2 {
		t.Fatalf("expected stage2 passthrough, got %v", out.Kind)
	}
	if !reflect.DeepEqual(out.Raw, raw) {
		t.Fatalf("passthrough must keep the raw document unchanged")
	}
	// Passthrough means no backfill either.
	if got := out.Doc.Breakdown.Shots[0].SceneID; got != "" {
		t.Fatalf("stage 2 passthrough must not backfill, got %q", got)
	}
}

func TestDetectAndProcess_BareSequencesPassesThrough(t *testing.T) {
	raw := parseDoc(t, `{"sequences": [{"id": "SEQ_A"}]}`)
	out := DetectAndProcess(raw)
	if out.Kind != KindBareSequences {
		t.Fatalf("expected bare-sequences passthrough, got %v", out.Kind)
	}
	if !reflect.DeepEqual(out.Raw, raw) {
		t.Fatalf("bare sequences must come back unchanged")
	}
	// Compatible documents get a typed view so ingestion treats them as
	// loaded, not unrecognized.
	if out.Doc == nil {
		t.Fatalf("bare sequences passthrough must produce a document")
	}
}

func TestDetectAndProcess_Stage7WithPromptsPassesThrough(t *testing.T) {
	raw := parseDoc(t, `{"stage": 7, "video_prompts": [{"shot_id": "S01.01", "text": "x"}]}`)
	out := DetectAndProcess(raw)
	if out.Kind != KindStage7Prompts {
		t.Fatalf("expected stage7 prompts, got %v", out.Kind)
	}
	prompts := VideoPrompts(raw)
	if len(prompts) != 1 || prompts[0]["text"] != "x" {
		t.Fatalf("prompt extraction: got %+v", prompts)
	}
}

func TestDetectAndProcess_StageAsStringStillMatches(t *testing.T) {
	out := DetectAndProcess(parseDoc(t, `{"stage": "5", "version": "6.0", "breakdown_data": {"scenes": [], "shots": []}}`))
	if out.Kind != KindStage5 {
		t.Fatalf("string stage tag should still route to stage 5, got %v", out.Kind)
	}
}
