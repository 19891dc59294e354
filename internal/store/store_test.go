package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

type notePayload struct {
	Notes []string `json:"notes"`
}

func noteDefaults() notePayload {
	return notePayload{Notes: []string{"starter"}}
}

func newNoteStore(t *testing.T, opts ...Option[notePayload]) *Store[notePayload] {
	t.Helper()
	path := filepath.Join(t.TempDir(), "notes.json")
	return New[notePayload]("notes", path, noteDefaults, opts...)
}

func TestLoadMissingFileFallsBackToDefaults(t *testing.T) {
	s := newNoteStore(t)
	doc := s.Load()
	if doc.Exists {
		t.Fatalf("expected Exists=false for missing key")
	}
	if len(doc.Data.Notes) != 1 || doc.Data.Notes[0] != "starter" {
		t.Fatalf("expected defaults, got %+v", doc.Data)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	fixed := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	s := newNoteStore(t, WithClock[notePayload](func() time.Time { return fixed }))

	doc := s.Load()
	doc.Data.Notes = append(doc.Data.Notes, "second")
	if err := s.Save(&doc); err != nil {
		t.Fatalf("Save: %v", err)
	}

	loaded := s.Load()
	if !loaded.Exists {
		t.Fatalf("expected Exists=true after save")
	}
	if len(loaded.Data.Notes) != 2 || loaded.Data.Notes[1] != "second" {
		t.Fatalf("round trip mismatch: %+v", loaded.Data)
	}
	if loaded.Meta.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("schema version not stamped: %+v", loaded.Meta)
	}
	if loaded.Meta.Revision != 1 {
		t.Fatalf("expected revision 1, got %d", loaded.Meta.Revision)
	}
	if !loaded.Meta.LastUpdated.Equal(fixed) {
		t.Fatalf("lastUpdated mismatch: %v", loaded.Meta.LastUpdated)
	}
}

func TestSaveRejectsStaleRevision(t *testing.T) {
	s := newNoteStore(t)

	first := s.Load()
	second := s.Load()
	if err := s.Save(&first); err != nil {
		t.Fatalf("first save: %v", err)
	}
	err := s.Save(&second)
	if !errors.Is(err, ErrStaleRevision) {
		t.Fatalf("expected ErrStaleRevision, got %v", err)
	}
	// Reloading picks up the winning write and saves cleanly.
	fresh := s.Load()
	if err := s.Save(&fresh); err != nil {
		t.Fatalf("save after reload: %v", err)
	}
}

func TestLoadCorruptFileDegradesToDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	if err := os.WriteFile(path, []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	var logged []string
	logger := logFunc(func(format string, args ...any) {
		logged = append(logged, fmt.Sprintf(format, args...))
	})
	s := New[notePayload]("notes", path, noteDefaults, WithLogger[notePayload](logger))
	doc := s.Load()
	if doc.Exists {
		t.Fatalf("expected defaults for corrupt file")
	}
	if len(logged) != 1 {
		t.Fatalf("expected one logged degradation, got %d", len(logged))
	}
	// Saving over the corrupt file succeeds: unreadable documents count as
	// revision zero.
	if err := s.Save(&doc); err != nil {
		t.Fatalf("save over corrupt file: %v", err)
	}
}

type logFunc func(format string, args ...any)

func (f logFunc) Printf(format string, args ...any) { f(format, args...) }

func TestNextSeqSurvivesSaveAndReload(t *testing.T) {
	s := newNoteStore(t)
	doc := s.Load()
	if got := doc.NextSeq(); got != 1 {
		t.Fatalf("first seq = %d", got)
	}
	if got := doc.NextSeq(); got != 2 {
		t.Fatalf("second seq = %d", got)
	}
	if err := s.Save(&doc); err != nil {
		t.Fatalf("Save: %v", err)
	}
	reloaded := s.Load()
	if got := reloaded.NextSeq(); got != 3 {
		t.Fatalf("seq after reload = %d, want 3", got)
	}
}

func TestMigrationRunsForLegacyDocuments(t *testing.T) {
	path := filepath.Join(t.TempDir(), "notes.json")
	// Version 0: the shape before envelope fields existed, with the legacy
	// field name.
	legacy := map[string]any{"items": []string{"migrated"}}
	raw, err := json.Marshal(legacy)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		t.Fatal(err)
	}
	migration := func(version int, raw []byte) ([]byte, error) {
		if version != 0 {
			return raw, nil
		}
		var old struct {
			Items []string `json:"items"`
		}
		if err := json.Unmarshal(raw, &old); err != nil {
			return nil, err
		}
		return json.Marshal(notePayload{Notes: old.Items})
	}
	s := New[notePayload]("notes", path, noteDefaults, WithMigration[notePayload](migration))
	doc := s.Load()
	if !doc.Exists {
		t.Fatalf("expected migrated document to exist")
	}
	if len(doc.Data.Notes) != 1 || doc.Data.Notes[0] != "migrated" {
		t.Fatalf("migration not applied: %+v", doc.Data)
	}
	if err := s.Save(&doc); err != nil {
		t.Fatalf("save migrated doc: %v", err)
	}
	upgraded := s.Load()
	if upgraded.Meta.SchemaVersion != CurrentSchemaVersion {
		t.Fatalf("expected schema version %d after save, got %d", CurrentSchemaVersion, upgraded.Meta.SchemaVersion)
	}
}

func TestSaveReplacesFileAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "notes.json")
	s := New[notePayload]("notes", path, noteDefaults)

	for i := 0; i < 3; i++ {
		if err := s.Mutate(func(doc *Doc[notePayload]) error {
			doc.Data.Notes = append(doc.Data.Notes, fmt.Sprintf("note-%d", i))
			return nil
		}); err != nil {
			t.Fatalf("Mutate %d: %v", i, err)
		}
	}

	// No temp files may survive a completed save.
	entries, err := os.ReadDir(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 || entries[0].Name() != "notes.json" {
		names := make([]string, 0, len(entries))
		for _, e := range entries {
			names = append(names, e.Name())
		}
		t.Fatalf("state dir = %v, want only notes.json", names)
	}

	// The renamed-in file is a complete document, not a partial write.
	loaded := s.Load()
	if !loaded.Exists {
		t.Fatal("document should parse after repeated saves")
	}
	if len(loaded.Data.Notes) != 4 || loaded.Meta.Revision != 3 {
		t.Fatalf("loaded = %+v meta = %+v", loaded.Data, loaded.Meta)
	}
}

func TestSaveHookFires(t *testing.T) {
	var keys []string
	s := newNoteStore(t, WithSaveHook[notePayload](func(key string) { keys = append(keys, key) }))
	if err := s.Mutate(func(doc *Doc[notePayload]) error {
		doc.Data.Notes = append(doc.Data.Notes, "x")
		return nil
	}); err != nil {
		t.Fatalf("Mutate: %v", err)
	}
	if len(keys) != 1 || keys[0] != "notes" {
		t.Fatalf("save hook keys: %v", keys)
	}
}

func TestMutatePropagatesFnError(t *testing.T) {
	s := newNoteStore(t)
	sentinel := errors.New("nope")
	err := s.Mutate(func(*Doc[notePayload]) error { return sentinel })
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	if s.Load().Exists {
		t.Fatalf("failed mutate must not persist")
	}
}
