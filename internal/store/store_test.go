package store

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyboard-cli/internal/model"
)

func testDoc() *model.ProjectDocument {
	return &model.ProjectDocument{
		SchemaVersion: model.SchemaVersion,
		ProjectInfo:   map[string]any{"name": "Demo"},
		Breakdown: &model.BreakdownData{
			Sequences: []model.Sequence{{ID: "SEQ_A", Title: "Sequence SEQ_A", SceneIDs: []string{"C01"}}},
			Scenes:    []model.Scene{{ID: "C01", SequenceID: "SEQ_A", ShotIDs: []string{"C01.01"}}},
			Shots:     []model.Shot{{ID: "C01.01", SceneID: "C01"}},
		},
	}
}

func TestStore_SaveLoadRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}

	if err := s.Save(testDoc()); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.Breakdown == nil {
		t.Fatalf("document lost in roundtrip")
	}
	if got.SchemaVersion != model.SchemaVersion {
		t.Fatalf("schema_version: %q", got.SchemaVersion)
	}
	if sh := got.Breakdown.FindShot("C01.01"); sh == nil || sh.SceneID != "C01" {
		t.Fatalf("shot lost: %+v", got.Breakdown.Shots)
	}
}

func TestStore_LoadEmptyWorkspaceReturnsNil(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got != nil {
		t.Fatalf("empty workspace must load nil, got %+v", got)
	}
}

func TestStore_LoadImportsProjectJSONOnce(t *testing.T) {
	dir := t.TempDir()
	s := Store{Dir: dir}

	// Hand-written workspace: project.json only, no sqlite yet.
	b := []byte(`{"schema_version":"1.1.0","project_info":{"name":"Manual"},"breakdown_data":{"sequences":[],"scenes":[],"shots":[]}}`)
	if err := os.WriteFile(filepath.Join(dir, "project.json"), b, 0o644); err != nil {
		t.Fatalf("seed: %v", err)
	}

	got, err := s.Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got == nil || got.ProjectInfo["name"] != "Manual" {
		t.Fatalf("project.json not imported: %+v", got)
	}

	// Second load must come from sqlite even if project.json disappears.
	if err := os.Remove(filepath.Join(dir, "project.json")); err != nil {
		t.Fatalf("remove: %v", err)
	}
	got, err = s.Load()
	if err != nil {
		t.Fatalf("reload: %v", err)
	}
	if got == nil || got.ProjectInfo["name"] != "Manual" {
		t.Fatalf("sqlite import did not stick: %+v", got)
	}
}

func TestStore_PromptsRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	if err := s.SavePrompt(ctx, "S01.01_midjourney_img1", "hello"); err != nil {
		t.Fatalf("save prompt: %v", err)
	}
	if err := s.SavePrompt(ctx, "S01.01_midjourney_img1", "hello again"); err != nil {
		t.Fatalf("upsert prompt: %v", err)
	}

	got, err := s.LoadPrompts(ctx)
	if err != nil {
		t.Fatalf("load prompts: %v", err)
	}
	if got["S01.01_midjourney_img1"] != "hello again" {
		t.Fatalf("prompt upsert lost: %v", got)
	}
}

func TestStore_ApprovalRoundtrip(t *testing.T) {
	s := Store{Dir: t.TempDir()}
	ctx := context.Background()

	_, ok, err := s.LoadApproval(ctx)
	if err != nil {
		t.Fatalf("load approval: %v", err)
	}
	if ok {
		t.Fatalf("fresh workspace must have no approval record")
	}

	tok, err := NewToken()
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	if !strings.HasPrefix(tok, "tok-") {
		t.Fatalf("token prefix: %q", tok)
	}

	a := Approval{Token: tok, UserInfo: UserInfo{Email: "ada@example.com", Status: StatusPending}}
	if err := s.SaveApproval(ctx, a); err != nil {
		t.Fatalf("save approval: %v", err)
	}
	a.UserInfo.Status = StatusApproved
	if err := s.SaveApproval(ctx, a); err != nil {
		t.Fatalf("update approval: %v", err)
	}

	got, ok, err := s.LoadApproval(ctx)
	if err != nil || !ok {
		t.Fatalf("reload approval: %v ok=%v", err, ok)
	}
	if !got.Approved() || got.UserInfo.Email != "ada@example.com" {
		t.Fatalf("approval record: %+v", got)
	}
}

func TestParseApprovalStatus(t *testing.T) {
	if st, err := ParseApprovalStatus(" Approved "); err != nil || st != StatusApproved {
		t.Fatalf("parse approved: %v %v", st, err)
	}
	if _, err := ParseApprovalStatus("banana"); err == nil {
		t.Fatalf("unknown status must fail")
	}
}
