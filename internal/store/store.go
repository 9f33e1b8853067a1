// Package store persists the canonical project document and the approval
// record for a workspace. The durable copy lives in a per-workspace sqlite
// db; project.json next to it is the human-readable interchange copy and is
// imported once when the sqlite state is empty.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"storyboard-cli/internal/model"
)

const projectFileName = "project.json"

type Store struct {
	Dir string
}

func (s Store) Ensure() error {
	return os.MkdirAll(s.Dir, 0o755)
}

func (s Store) projectPath() string {
	return filepath.Join(s.Dir, projectFileName)
}

// WorkspaceDir resolves a named workspace under the global config dir.
func WorkspaceDir(name string) (string, error) {
	name, err := NormalizeWorkspaceName(name)
	if err != nil {
		return "", err
	}
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "workspaces", name), nil
}

// Save writes the canonical document: sqlite snapshot first (durable copy),
// then project.json for interchange.
func (s Store) Save(doc *model.ProjectDocument) error {
	if doc == nil {
		return errors.New("save: nil document")
	}
	if err := s.Ensure(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("save: marshal document: %w", err)
	}

	ctx := context.Background()
	if err := s.saveSnapshot(ctx, b); err != nil {
		return fmt.Errorf("save: sqlite snapshot: %w", err)
	}
	if err := atomicWriteFile(s.Dir, projectFileName+".*.tmp", s.projectPath(), b, 0o644); err != nil {
		return fmt.Errorf("save: %s: %w", projectFileName, err)
	}
	return nil
}

// Load returns the workspace's document, or nil when none has been ingested
// yet. An existing project.json is imported into sqlite once, so workspaces
// created by hand (or by older builds) keep working.
func (s Store) Load() (*model.ProjectDocument, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}

	ctx := context.Background()
	b, ok, err := s.loadSnapshot(ctx)
	if err != nil {
		return nil, err
	}
	if !ok {
		b, err = os.ReadFile(s.projectPath())
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
		if len(b) == 0 {
			return nil, nil
		}
		// One-time import so later loads hit sqlite directly.
		if err := s.saveSnapshot(ctx, b); err != nil {
			return nil, fmt.Errorf("load: import %s: %w", projectFileName, err)
		}
	}

	var doc model.ProjectDocument
	if err := json.Unmarshal(b, &doc); err != nil {
		return nil, fmt.Errorf("load: parse document: %w", err)
	}
	return &doc, nil
}
