package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"storyboard-cli/internal/model"
)

func runCLI(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	cmd := NewRootCmd()
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func writeFixture(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return path
}

const canonicalFixture = `{
  "schema_version": "1.1.0",
  "project_info": {"name": "Heist"},
  "breakdown_data": {
    "sequences": [{"id": "SEQ_A", "title": "Opening", "scene_ids": ["C01"]}],
    "scenes": [{"id": "C01", "title": "Rooftop", "sequence_id": "SEQ_A", "shot_ids": ["C01.01"]}],
    "shots": [{"id": "C01.01", "scene_id": "C01"}]
  }
}`

func TestLoadThenShow(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFixture(t, dir, "export.json", canonicalFixture)

	out, _, err := runCLI(t, "--dir", dir, "load", fixture)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !strings.Contains(out, "Loaded Heist") {
		t.Fatalf("load output = %q, want Loaded Heist", out)
	}

	out, _, err = runCLI(t, "--dir", dir, "show")
	if err != nil {
		t.Fatalf("show: %v", err)
	}
	var doc model.ProjectDocument
	if err := json.Unmarshal([]byte(out), &doc); err != nil {
		t.Fatalf("show output not JSON: %v\n%s", err, out)
	}
	if doc.SchemaVersion != "1.1.0" {
		t.Fatalf("schema_version = %q", doc.SchemaVersion)
	}
	if doc.Breakdown == nil || len(doc.Breakdown.Sequences) != 1 {
		t.Fatalf("unexpected breakdown: %+v", doc.Breakdown)
	}
}

func TestShowWithoutProject(t *testing.T) {
	dir := t.TempDir()
	_, errOut, err := runCLI(t, "--dir", dir, "show")
	if err == nil {
		t.Fatalf("expected error for empty workspace")
	}
	if !strings.Contains(errOut, "no project loaded") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestLoadUnrecognizedFails(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFixture(t, dir, "odd.json", `{"something": "else"}`)

	_, errOut, err := runCLI(t, "--dir", dir, "load", fixture)
	if err == nil {
		t.Fatalf("expected load to fail")
	}
	if !strings.Contains(errOut, "not recognized") {
		t.Fatalf("stderr = %q", errOut)
	}
}

func TestTreeExpandAll(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFixture(t, dir, "export.json", canonicalFixture)
	if _, _, err := runCLI(t, "--dir", dir, "load", fixture); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, _, err := runCLI(t, "--dir", dir, "tree", "--expand-all")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	for _, want := range []string{"Opening", "Rooftop", "C01.01"} {
		if !strings.Contains(out, want) {
			t.Fatalf("tree output missing %q:\n%s", want, out)
		}
	}

	// Collapsed by default: only sequence headers.
	out, _, err = runCLI(t, "--dir", dir, "tree")
	if err != nil {
		t.Fatalf("tree: %v", err)
	}
	if strings.Contains(out, "Rooftop") {
		t.Fatalf("collapsed tree should not show scenes:\n%s", out)
	}
}

func TestPromptsSetGet(t *testing.T) {
	dir := t.TempDir()

	if _, _, err := runCLI(t, "--dir", dir, "prompts", "set", "C01.01", "runway", "img1", "wide angle, dusk"); err != nil {
		t.Fatalf("prompts set: %v", err)
	}

	out, _, err := runCLI(t, "--dir", dir, "prompts", "get", "C01.01", "runway", "img1")
	if err != nil {
		t.Fatalf("prompts get: %v", err)
	}
	var got struct {
		Key  string `json:"key"`
		Text string `json:"text"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Key != "C01.01_runway_img1" || got.Text != "wide angle, dusk" {
		t.Fatalf("got %+v", got)
	}

	if _, _, err := runCLI(t, "--dir", dir, "prompts", "get", "C01.01", "runway", "missing"); err == nil {
		t.Fatalf("expected missing-prompt error")
	}
}

func TestAuthLifecycle(t *testing.T) {
	dir := t.TempDir()

	_, _, err := runCLI(t, "--dir", dir, "auth", "status")
	if err == nil {
		t.Fatalf("expected error before login")
	}

	out, _, err := runCLI(t, "--dir", dir, "auth", "login", "crew@example.com")
	if err != nil {
		t.Fatalf("auth login: %v", err)
	}
	var a struct {
		Token    string `json:"token"`
		UserInfo struct {
			Email  string `json:"email"`
			Status string `json:"status"`
		} `json:"user_info"`
	}
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.UserInfo.Status != "pending" || a.Token == "" {
		t.Fatalf("login record: %+v", a)
	}

	out, _, err = runCLI(t, "--dir", dir, "auth", "approve")
	if err != nil {
		t.Fatalf("auth approve: %v", err)
	}
	if err := json.Unmarshal([]byte(out), &a); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if a.UserInfo.Status != "approved" {
		t.Fatalf("status after approve = %q", a.UserInfo.Status)
	}

	if _, _, err := runCLI(t, "--dir", dir, "auth", "login", "not-an-email"); err == nil {
		t.Fatalf("expected invalid-email error")
	}
}

func TestWorkspaceNewUseList(t *testing.T) {
	t.Setenv("STORYBOARD_CONFIG_DIR", t.TempDir())

	if _, _, err := runCLI(t, "workspace", "new", "pilot"); err != nil {
		t.Fatalf("workspace new: %v", err)
	}
	if _, _, err := runCLI(t, "workspace", "use", "pilot"); err != nil {
		t.Fatalf("workspace use: %v", err)
	}

	out, _, err := runCLI(t, "workspace", "list")
	if err != nil {
		t.Fatalf("workspace list: %v", err)
	}
	var got struct {
		Workspaces []string `json:"workspaces"`
		Current    string   `json:"current"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got.Current != "pilot" {
		t.Fatalf("current = %q", got.Current)
	}
	found := false
	for _, w := range got.Workspaces {
		if w == "pilot" {
			found = true
		}
	}
	if !found {
		t.Fatalf("workspaces = %v", got.Workspaces)
	}
}

func TestEDNOutput(t *testing.T) {
	dir := t.TempDir()
	fixture := writeFixture(t, dir, "export.json", canonicalFixture)
	if _, _, err := runCLI(t, "--dir", dir, "load", fixture); err != nil {
		t.Fatalf("load: %v", err)
	}

	out, _, err := runCLI(t, "--dir", dir, "--format", "edn", "show")
	if err != nil {
		t.Fatalf("show --format edn: %v", err)
	}
	if !strings.Contains(out, ":schema_version \"1.1.0\"") {
		t.Fatalf("edn output missing keyword:\n%s", out)
	}
}
