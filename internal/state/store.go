// Package state holds the in-process session record: the current canonical
// document, the selection, per-shot edited-prompt overrides and the image
// URL cache. One Store instance is constructed per session and passed to the
// TUI and the ingestion pipeline; there is no ambient global.
//
// The Store is owned by the UI event loop. All operations are synchronous
// and notifications run on the caller's goroutine, so a second Set cannot
// interleave with an in-flight notification pass.
package state

import (
	"fmt"
	"log"

	"storyboard-cli/internal/model"
)

// Field keys accepted by Get/Set/Update/Reset. The key strings double as the
// notification keys listeners receive.
const (
	KeyCurrentData        = "currentData"
	KeySelectedType       = "selectedType"
	KeySelectedID         = "selectedId"
	KeySelectedSceneID    = "selectedSceneId"
	KeyHasStage2Structure = "hasStage2Structure"
	KeyEditedPrompts      = "editedPrompts"
	KeyImageURLCache      = "imageUrlCache"
)

// Field is one entry of an Update batch. A slice (not a map) keeps the
// notification order under the caller's control.
type Field struct {
	Key   string
	Value any
}

// Listener observes field replacements. Listeners run synchronously; a
// panicking listener is recovered and logged and never blocks the rest of
// the pass.
type Listener func(key string, newValue, oldValue any)

// Snapshot is a shallow copy of the whole record. The maps it carries are
// the live ones, but every write path replaces them wholesale
// (copy-on-write), so a snapshot never changes under its holder.
type Snapshot struct {
	CurrentData        *model.ProjectDocument
	SelectedType       string
	SelectedID         string
	SelectedSceneID    string
	HasStage2Structure bool
	EditedPrompts      map[string]string
	ImageURLCache      map[string]string
}

type Store struct {
	currentData        *model.ProjectDocument
	selectedType       string
	selectedID         string
	selectedSceneID    string
	hasStage2Structure bool
	editedPrompts      map[string]string
	imageURLCache      map[string]string

	listeners      map[int]Listener
	listenerOrder  []int
	nextListenerID int

	logger *log.Logger
}

func New() *Store {
	return &Store{
		editedPrompts: map[string]string{},
		imageURLCache: map[string]string{},
		listeners:     map[int]Listener{},
	}
}

// SetLogger redirects listener-fault and bad-key diagnostics (default:
// stdlib log).
func (s *Store) SetLogger(l *log.Logger) { s.logger = l }

func (s *Store) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
		return
	}
	log.Printf(format, args...)
}

// Get returns a single field by key. Unknown keys return nil.
func (s *Store) Get(key string) any {
	switch key {
	case KeyCurrentData:
		return s.currentData
	case KeySelectedType:
		return s.selectedType
	case KeySelectedID:
		return s.selectedID
	case KeySelectedSceneID:
		return s.selectedSceneID
	case KeyHasStage2Structure:
		return s.hasStage2Structure
	case KeyEditedPrompts:
		return s.editedPrompts
	case KeyImageURLCache:
		return s.imageURLCache
	default:
		return nil
	}
}

// Snapshot returns a shallow copy of the whole record; mutating it does not
// touch the store.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{
		CurrentData:        s.currentData,
		SelectedType:       s.selectedType,
		SelectedID:         s.selectedID,
		SelectedSceneID:    s.selectedSceneID,
		HasStage2Structure: s.hasStage2Structure,
		EditedPrompts:      s.editedPrompts,
		ImageURLCache:      s.imageURLCache,
	}
}

// CurrentData is a typed convenience for the most common read.
func (s *Store) CurrentData() *model.ProjectDocument { return s.currentData }

// Set replaces one field and synchronously notifies every listener with
// (key, newValue, oldValue).
func (s *Store) Set(key string, value any) {
	old, ok := s.apply(key, value)
	if !ok {
		return
	}
	s.notify(key, s.Get(key), old)
}

// Update applies a batch of field replacements. All writes land before the
// first notification fires; notifications then run once per field in slice
// order, as if Set had been called repeatedly.
func (s *Store) Update(fields []Field) {
	type change struct {
		key string
		old any
	}
	var changes []change
	for _, f := range fields {
		old, ok := s.apply(f.Key, f.Value)
		if !ok {
			continue
		}
		changes = append(changes, change{key: f.Key, old: old})
	}
	for _, c := range changes {
		s.notify(c.key, s.Get(c.key), c.old)
	}
}

// Reset restores the named fields to their defaults, or the whole record
// when no keys are given. Each restored field notifies like a Set.
func (s *Store) Reset(keys ...string) {
	if len(keys) == 0 {
		keys = []string{
			KeyCurrentData, KeySelectedType, KeySelectedID, KeySelectedSceneID,
			KeyHasStage2Structure, KeyEditedPrompts, KeyImageURLCache,
		}
	}
	for _, key := range keys {
		s.Set(key, defaultValue(key))
	}
}

func defaultValue(key string) any {
	switch key {
	case KeyCurrentData:
		return (*model.ProjectDocument)(nil)
	case KeyHasStage2Structure:
		return false
	case KeyEditedPrompts, KeyImageURLCache:
		return map[string]string{}
	default:
		return ""
	}
}

// apply writes a field and returns its previous value. Unknown keys and
// wrongly typed values are logged and skipped, never fatal.
func (s *Store) apply(key string, value any) (old any, ok bool) {
	switch key {
	case KeyCurrentData:
		doc, valid := coerceDoc(value)
		if !valid {
			s.logf("state: ignoring %s of type %T", key, value)
			return nil, false
		}
		old = s.currentData
		s.currentData = doc
	case KeySelectedType, KeySelectedID, KeySelectedSceneID:
		str, valid := coerceString(value)
		if !valid {
			s.logf("state: ignoring %s of type %T", key, value)
			return nil, false
		}
		switch key {
		case KeySelectedType:
			old, s.selectedType = s.selectedType, str
		case KeySelectedID:
			old, s.selectedID = s.selectedID, str
		case KeySelectedSceneID:
			old, s.selectedSceneID = s.selectedSceneID, str
		}
	case KeyHasStage2Structure:
		b, valid := value.(bool)
		if !valid {
			s.logf("state: ignoring %s of type %T", key, value)
			return nil, false
		}
		old = s.hasStage2Structure
		s.hasStage2Structure = b
	case KeyEditedPrompts:
		m, valid := coerceStringMap(value)
		if !valid {
			s.logf("state: ignoring %s of type %T", key, value)
			return nil, false
		}
		old = s.editedPrompts
		s.editedPrompts = m
	case KeyImageURLCache:
		m, valid := coerceStringMap(value)
		if !valid {
			s.logf("state: ignoring %s of type %T", key, value)
			return nil, false
		}
		old = s.imageURLCache
		s.imageURLCache = m
	default:
		s.logf("state: unknown field %q", key)
		return nil, false
	}
	return old, true
}

func coerceDoc(v any) (*model.ProjectDocument, bool) {
	if v == nil {
		return nil, true
	}
	doc, ok := v.(*model.ProjectDocument)
	return doc, ok
}

func coerceString(v any) (string, bool) {
	if v == nil {
		return "", true
	}
	s, ok := v.(string)
	return s, ok
}

func coerceStringMap(v any) (map[string]string, bool) {
	if v == nil {
		return map[string]string{}, true
	}
	m, ok := v.(map[string]string)
	return m, ok
}

// Subscribe registers a listener and returns its remove closure. Adding or
// removing listeners during a notification pass is safe: the pass iterates a
// snapshot of the registration order and skips entries removed meanwhile.
func (s *Store) Subscribe(l Listener) func() {
	id := s.nextListenerID
	s.nextListenerID++
	s.listeners[id] = l
	s.listenerOrder = append(s.listenerOrder, id)
	return func() {
		delete(s.listeners, id)
		for i, v := range s.listenerOrder {
			if v == id {
				s.listenerOrder = append(s.listenerOrder[:i], s.listenerOrder[i+1:]...)
				break
			}
		}
	}
}

func (s *Store) notify(key string, newValue, oldValue any) {
	ids := append([]int(nil), s.listenerOrder...)
	for _, id := range ids {
		l, ok := s.listeners[id]
		if !ok {
			continue // unsubscribed during this pass
		}
		s.safeCall(l, key, newValue, oldValue)
	}
}

func (s *Store) safeCall(l Listener, key string, newValue, oldValue any) {
	defer func() {
		if r := recover(); r != nil {
			s.logf("state: listener panic on %q: %v", key, r)
		}
	}()
	l(key, newValue, oldValue)
}

// PromptKey builds the composite edited-prompt key.
func PromptKey(shotID, aiToolName, imageID string) string {
	return fmt.Sprintf("%s_%s_%s", shotID, aiToolName, imageID)
}

// GetEditedPrompt returns the user-edited override for a shot/tool/image
// triple, if any.
func (s *Store) GetEditedPrompt(shotID, aiToolName, imageID string) (string, bool) {
	v, ok := s.editedPrompts[PromptKey(shotID, aiToolName, imageID)]
	return v, ok
}

// SetEditedPrompt records an override. The prompt map is replaced, not
// mutated, so snapshots taken earlier keep their view.
func (s *Store) SetEditedPrompt(shotID, aiToolName, imageID, text string) {
	next := make(map[string]string, len(s.editedPrompts)+1)
	for k, v := range s.editedPrompts {
		next[k] = v
	}
	next[PromptKey(shotID, aiToolName, imageID)] = text
	s.Set(KeyEditedPrompts, next)
}

func (s *Store) GetCachedImageURL(key string) (string, bool) {
	v, ok := s.imageURLCache[key]
	return v, ok
}

// SetCachedImageURL stores a resolved image URL, copy-on-write like the
// prompt map.
func (s *Store) SetCachedImageURL(key, url string) {
	next := make(map[string]string, len(s.imageURLCache)+1)
	for k, v := range s.imageURLCache {
		next[k] = v
	}
	next[key] = url
	s.Set(KeyImageURLCache, next)
}

// HasProjectData reports whether a document with project_info is loaded.
func (s *Store) HasProjectData() bool {
	return s.currentData != nil && s.currentData.ProjectInfo != nil
}

// HasSelection reports whether both a selection type and id are set.
func (s *Store) HasSelection() bool {
	return s.selectedType != "" && s.selectedID != ""
}
