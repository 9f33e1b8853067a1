package ingest

import (
	"errors"
	"io"
	"log"
	"strings"
	"testing"

	"storyboard-cli/internal/model"
	"storyboard-cli/internal/state"
)

type fakeSaver struct {
	saved []*model.ProjectDocument
	err   error
}

func (f *fakeSaver) Save(doc *model.ProjectDocument) error {
	if f.err != nil {
		return f.err
	}
	f.saved = append(f.saved, doc)
	return nil
}

type fakeRenderer struct {
	refreshed []*model.ProjectDocument
}

func (f *fakeRenderer) Refresh(doc *model.ProjectDocument) {
	f.refreshed = append(f.refreshed, doc)
}

type fakeNotifier struct {
	successes []string
	failures  []string
}

func (f *fakeNotifier) Success(msg string) { f.successes = append(f.successes, msg) }
func (f *fakeNotifier) Failure(msg string) { f.failures = append(f.failures, msg) }

func newPipeline() (*Pipeline, *fakeSaver, *fakeRenderer, *fakeNotifier) {
	st := state.New()
	st.SetLogger(log.New(io.Discard, "", 0))
	saver := &fakeSaver{}
	renderer := &fakeRenderer{}
	notifier := &fakeNotifier{}
	p := &Pipeline{
		Store:    st,
		Saver:    saver,
		Renderer: renderer,
		Notifier: notifier,
		Logger:   log.New(io.Discard, "", 0),
	}
	return p, saver, renderer, notifier
}

const stage5Project = `{
  "stage": 5, "version": "6.0",
  "project_info": {"name": "Demo"},
  "breakdown_data": {
    "scenes": [{"id": "C01", "sequence_id": "SEQ_A"}],
    "shots": [{"id": "C01.01", "scene_id": "C01"}, {"id": "C01.02", "scene_id": "C01"}]
  }
}`

func TestIngest_HappyPath(t *testing.T) {
	p, saver, renderer, notifier := newPipeline()

	if err := p.Ingest(strings.NewReader(stage5Project)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if !p.Store.HasProjectData() {
		t.Fatalf("store not updated")
	}
	if got, _ := p.Store.Get(state.KeyHasStage2Structure).(bool); !got {
		t.Fatalf("hasStage2Structure not propagated")
	}
	if len(saver.saved) != 1 {
		t.Fatalf("document not persisted")
	}
	if len(renderer.refreshed) != 1 {
		t.Fatalf("renderer not refreshed")
	}
	if len(notifier.successes) != 1 || len(notifier.failures) != 0 {
		t.Fatalf("notifications: %+v / %+v", notifier.successes, notifier.failures)
	}
	if !strings.Contains(notifier.successes[0], "Demo") {
		t.Fatalf("success message should name the project: %q", notifier.successes[0])
	}

	// First shot of the first scene of the first sequence gets selected.
	if !p.Store.HasSelection() {
		t.Fatalf("no selection after ingest")
	}
	if got := p.Store.Get(state.KeySelectedID); got != "C01.01" {
		t.Fatalf("selected shot: %v", got)
	}
	if got := p.Store.Get(state.KeySelectedSceneID); got != "C01" {
		t.Fatalf("selected scene: %v", got)
	}
}

func TestIngest_MalformedJSONIsAFailureNotAFault(t *testing.T) {
	p, saver, _, notifier := newPipeline()

	err := p.Ingest(strings.NewReader(`{"stage": 5,`))
	if err == nil {
		t.Fatalf("expected parse error")
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("failure not surfaced: %+v", notifier.failures)
	}
	if len(saver.saved) != 0 {
		t.Fatalf("nothing should be persisted")
	}
}

func TestIngest_PersistenceFailureKeepsStoreState(t *testing.T) {
	p, saver, renderer, notifier := newPipeline()
	saver.err = errors.New("disk full")

	err := p.Ingest(strings.NewReader(stage5Project))
	if err == nil {
		t.Fatalf("expected save error")
	}
	// No rollback: the store already reflects the new document.
	if !p.Store.HasProjectData() {
		t.Fatalf("store must keep the document after a save failure")
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("save failure must notify: %+v", notifier.failures)
	}
	if len(renderer.refreshed) != 0 {
		t.Fatalf("renderer must not refresh after a failed save")
	}
}

func TestIngest_UnrecognizedDocumentGivesEmptyState(t *testing.T) {
	p, saver, _, notifier := newPipeline()

	// First load something valid, then an unrecognized document.
	if err := p.Ingest(strings.NewReader(stage5Project)); err != nil {
		t.Fatalf("seed ingest: %v", err)
	}
	if err := p.Ingest(strings.NewReader(`{"foo": "bar"}`)); err != nil {
		t.Fatalf("unrecognized input must not error: %v", err)
	}

	if p.Store.HasProjectData() {
		t.Fatalf("store must be replaced wholesale (empty state)")
	}
	if p.Store.HasSelection() {
		t.Fatalf("selection must be cleared")
	}
	if len(notifier.failures) == 0 {
		t.Fatalf("unusable document should surface a notification")
	}
	if len(saver.saved) != 1 {
		t.Fatalf("unrecognized documents are not persisted")
	}
}

func TestIngest_BareSequencesDocumentPassesThrough(t *testing.T) {
	p, saver, renderer, notifier := newPipeline()

	if err := p.Ingest(strings.NewReader(`{"sequences": [{"id": "SEQ_A"}]}`)); err != nil {
		t.Fatalf("ingest: %v", err)
	}

	if len(notifier.failures) != 0 {
		t.Fatalf("compatible document must not fail: %v", notifier.failures)
	}
	if len(notifier.successes) != 1 {
		t.Fatalf("expected a success notification, got %v", notifier.successes)
	}
	if len(saver.saved) != 1 || len(renderer.refreshed) != 1 {
		t.Fatalf("document must be persisted and rendered (saved=%d refreshed=%d)",
			len(saver.saved), len(renderer.refreshed))
	}
	if p.Store.CurrentData() == nil {
		t.Fatalf("store must hold the loaded document")
	}
}

func TestIngest_Stage7PromptsMergeIntoCurrentDocument(t *testing.T) {
	p, _, _, _ := newPipeline()

	if err := p.Ingest(strings.NewReader(stage5Project)); err != nil {
		t.Fatalf("seed ingest: %v", err)
	}
	prompts := `{"stage": 7, "video_prompts": [
	  {"shot_id": "C01.01", "text": "hero close-up"},
	  {"shot_id": "ZZZ", "text": "dropped"}
	]}`
	if err := p.Ingest(strings.NewReader(prompts)); err != nil {
		t.Fatalf("prompts ingest: %v", err)
	}

	doc := p.Store.CurrentData()
	shot := doc.Breakdown.FindShot("C01.01")
	if shot == nil || shot.VideoPrompt == nil || shot.VideoPrompt["text"] != "hero close-up" {
		t.Fatalf("prompt not merged: %+v", shot)
	}
}

func TestIngest_FileNotFound(t *testing.T) {
	p, _, _, notifier := newPipeline()
	if err := p.IngestFile("/does/not/exist.json"); err == nil {
		t.Fatalf("expected open error")
	}
	if len(notifier.failures) != 1 {
		t.Fatalf("open failure must notify")
	}
}
