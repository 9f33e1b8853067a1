// Package ingest orchestrates a project load: read -> schema detection ->
// state store update -> persistence -> render refresh -> first-shot
// selection. The pipeline's collaborators are plain interfaces passed in at
// construction, so its dependencies are statically known.
package ingest

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"storyboard-cli/internal/model"
	"storyboard-cli/internal/schema"
	"storyboard-cli/internal/state"
)

// Saver persists the canonical document (store.Store implements this).
type Saver interface {
	Save(doc *model.ProjectDocument) error
}

// Renderer is told about each freshly ingested document.
type Renderer interface {
	Refresh(doc *model.ProjectDocument)
}

// Notifier surfaces the user-visible outcome of an ingestion.
type Notifier interface {
	Success(msg string)
	Failure(msg string)
}

type Pipeline struct {
	Store    *state.Store
	Saver    Saver
	Renderer Renderer
	Notifier Notifier
	Logger   *log.Logger
}

func (p *Pipeline) logf(format string, args ...any) {
	if p.Logger != nil {
		p.Logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// IngestFile loads one JSON project file.
func (p *Pipeline) IngestFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		p.logf("ingest: open %s: %v", path, err)
		p.Notifier.Failure(fmt.Sprintf("Could not open %s", path))
		return err
	}
	defer f.Close()
	return p.Ingest(f)
}

// Ingest runs the pipeline on one raw JSON document. Steps are not
// transactional: a late failure leaves earlier state changes in place.
func (p *Pipeline) Ingest(r io.Reader) error {
	b, err := io.ReadAll(r)
	if err != nil {
		p.logf("ingest: read: %v", err)
		p.Notifier.Failure("Could not read project file")
		return err
	}

	var raw map[string]any
	if err := json.Unmarshal(b, &raw); err != nil {
		p.logf("ingest: parse: %v", err)
		p.Notifier.Failure("Project file is not valid JSON")
		return err
	}

	out := schema.DetectAndProcess(raw)
	if out.Diagnostic != "" {
		p.logf("ingest: %s", out.Diagnostic)
	}

	doc := out.Doc
	if out.Kind == schema.KindStage7Prompts {
		// Prompt exports merge into whatever is already loaded.
		doc = schema.MergeVideoPrompts(schema.VideoPrompts(raw), p.Store.CurrentData())
	}

	// The store is replaced wholesale on every ingestion, even when the
	// document is unusable (nil): the UI then shows its empty state.
	p.Store.Update([]state.Field{
		{Key: state.KeyCurrentData, Value: doc},
		{Key: state.KeyHasStage2Structure, Value: out.HasStage2Structure},
		{Key: state.KeySelectedType, Value: ""},
		{Key: state.KeySelectedID, Value: ""},
		{Key: state.KeySelectedSceneID, Value: ""},
	})

	if doc == nil {
		p.Notifier.Failure("Project format was not recognized")
		return nil
	}

	if err := p.Saver.Save(doc); err != nil {
		// No rollback: the in-memory store already has the new document.
		p.logf("ingest: save: %v", err)
		p.Notifier.Failure("Project loaded but could not be saved")
		return err
	}

	p.Renderer.Refresh(doc)
	p.selectFirstShot(doc)
	p.Notifier.Success(fmt.Sprintf("Loaded %s", projectName(doc)))
	return nil
}

// selectFirstShot selects the first shot of the first scene of the first
// sequence, in document order. The flat arrays are ground truth for the
// scene/sequence relation.
func (p *Pipeline) selectFirstShot(doc *model.ProjectDocument) {
	b := doc.Breakdown
	if b == nil || len(b.Sequences) == 0 {
		return
	}
	seq := b.Sequences[0]
	for _, sc := range b.Scenes {
		if model.PrimarySequenceID(sc.SequenceID) != seq.ID {
			continue
		}
		// First scene of the first sequence; select its first shot, if any.
		for _, sh := range b.Shots {
			if sh.SceneID != sc.ID {
				continue
			}
			p.Store.Update([]state.Field{
				{Key: state.KeySelectedType, Value: "shot"},
				{Key: state.KeySelectedID, Value: sh.ID},
				{Key: state.KeySelectedSceneID, Value: sc.ID},
			})
			return
		}
		return
	}
}

func projectName(doc *model.ProjectDocument) string {
	if doc.ProjectInfo != nil {
		if name, ok := doc.ProjectInfo["name"].(string); ok && name != "" {
			return name
		}
	}
	return "project"
}
