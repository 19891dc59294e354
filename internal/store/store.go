// Package store implements the shared persistence layer every compliance
// module mirrors its state through. Each module owns exactly one storage key
// holding a JSON document: the module's own payload fields plus an envelope
// of bookkeeping fields (schemaVersion, revision, lastUpdated, nextSeq)
// injected at the top level of the same object.
//
// Writes always re-serialize the whole document. A revision counter checked
// on save guards against the lost-update hazard when two processes edit the
// same key; reads that fail to parse degrade to the module's built-in
// defaults instead of surfacing an error.
package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"
)

// CurrentSchemaVersion is stamped on every saved document. Documents written
// before versioning existed carry no schemaVersion field and load as version 0.
const CurrentSchemaVersion = 1

// ErrStaleRevision indicates the document on disk advanced past the loaded
// revision, meaning another writer saved since this document was loaded.
var ErrStaleRevision = errors.New("store: stale revision")

// Envelope bookkeeping field names reserved at the top level of every
// persisted document. Module payloads must not reuse them.
const (
	fieldSchemaVersion = "schemaVersion"
	fieldRevision      = "revision"
	fieldLastUpdated   = "lastUpdated"
	fieldNextSeq       = "nextSeq"
)

// Meta carries the envelope bookkeeping for a loaded document.
type Meta struct {
	SchemaVersion int
	Revision      int64
	LastUpdated   time.Time
	NextSeq       int64
}

// Doc pairs a module payload with its envelope metadata.
type Doc[T any] struct {
	Data   T
	Meta   Meta
	Exists bool
}

// NextSeq returns the next value of the document's monotonic counter and
// advances it. The counter survives deletions, so identifiers derived from it
// never collide with identifiers handed out earlier.
func (d *Doc[T]) NextSeq() int64 {
	d.Meta.NextSeq++
	return d.Meta.NextSeq
}

// Logger is the minimal logging surface the store needs. It matches
// logging.Logger's signature.
type Logger interface {
	Printf(format string, args ...any)
}

// Migration upgrades a raw persisted payload from an older schema version to
// the current one. It receives the version found on disk and the raw document
// bytes, and returns replacement bytes to decode the payload from.
type Migration func(version int, raw []byte) ([]byte, error)

// SaveHook observes successful saves. Used to fan out data-updated signals.
type SaveHook func(key string)

// Store mirrors one module payload to a storage key.
type Store[T any] struct {
	key      string
	path     string
	defaults func() T
	migrate  Migration
	onSave   SaveHook
	logger   Logger
	now      func() time.Time
}

// Option customizes a Store during construction.
type Option[T any] func(*Store[T])

// WithClock overrides the clock used for lastUpdated stamps.
func WithClock[T any](clock func() time.Time) Option[T] {
	return func(s *Store[T]) {
		if clock != nil {
			s.now = clock
		}
	}
}

// WithLogger injects a logger for degraded-read diagnostics.
func WithLogger[T any](logger Logger) Option[T] {
	return func(s *Store[T]) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithMigration installs the schema upgrade applied to older documents.
func WithMigration[T any](m Migration) Option[T] {
	return func(s *Store[T]) {
		if m != nil {
			s.migrate = m
		}
	}
}

// WithSaveHook registers a callback fired after each successful save.
func WithSaveHook[T any](hook SaveHook) Option[T] {
	return func(s *Store[T]) {
		if hook != nil {
			s.onSave = hook
		}
	}
}

// New builds a store for one storage key. The defaults factory supplies the
// payload used when the key is absent or unreadable; it must never be nil.
func New[T any](key, path string, defaults func() T, opts ...Option[T]) *Store[T] {
	s := &Store[T]{
		key:      key,
		path:     path,
		defaults: defaults,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	return s
}

// Key returns the storage key this store persists under.
func (s *Store[T]) Key() string {
	return s.key
}

// Load reads the storage key. A missing file or an unparsable document yields
// the module defaults with Exists=false; parse failures are logged, never
// surfaced, because draft compliance data has no remote copy to reconcile
// against.
func (s *Store[T]) Load() Doc[T] {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			s.logf("store: read %s: %v (using defaults)", s.key, err)
		}
		return Doc[T]{Data: s.defaults()}
	}
	doc, err := s.decode(raw)
	if err != nil {
		s.logf("store: parse %s: %v (using defaults)", s.key, err)
		return Doc[T]{Data: s.defaults()}
	}
	return doc
}

func (s *Store[T]) decode(raw []byte) (Doc[T], error) {
	meta, err := decodeMeta(raw)
	if err != nil {
		return Doc[T]{}, err
	}
	payload := raw
	if meta.SchemaVersion < CurrentSchemaVersion && s.migrate != nil {
		upgraded, err := s.migrate(meta.SchemaVersion, raw)
		if err != nil {
			return Doc[T]{}, fmt.Errorf("store: migrate %s from v%d: %w", s.key, meta.SchemaVersion, err)
		}
		payload = upgraded
	}
	data := s.defaults()
	if err := json.Unmarshal(payload, &data); err != nil {
		return Doc[T]{}, err
	}
	meta.SchemaVersion = CurrentSchemaVersion
	return Doc[T]{Data: data, Meta: meta, Exists: true}, nil
}

// Save persists the whole document back to its storage key. The revision on
// disk must match the revision the document was loaded with; otherwise
// ErrStaleRevision is returned and nothing is written. The document is
// written to a temp file in the state directory and renamed into place, so a
// crash mid-write never leaves a torn file for the next load to degrade on.
// On success the document's metadata is updated in place (revision bumped,
// lastUpdated stamped) so the caller can keep mutating the same Doc.
func (s *Store[T]) Save(doc *Doc[T]) error {
	if doc == nil {
		return fmt.Errorf("store: nil document for %s", s.key)
	}
	if current, err := s.diskRevision(); err != nil {
		return err
	} else if current != doc.Meta.Revision {
		return fmt.Errorf("store: save %s: disk revision %d, loaded revision %d: %w",
			s.key, current, doc.Meta.Revision, ErrStaleRevision)
	}

	doc.Meta.SchemaVersion = CurrentSchemaVersion
	doc.Meta.Revision++
	doc.Meta.LastUpdated = s.now().UTC()

	encoded, err := s.encode(doc)
	if err != nil {
		doc.Meta.Revision--
		return err
	}
	if err := s.writeAtomic(encoded); err != nil {
		doc.Meta.Revision--
		return fmt.Errorf("store: write %s: %w", s.key, err)
	}
	doc.Exists = true
	if s.onSave != nil {
		s.onSave(s.key)
	}
	return nil
}

// writeAtomic replaces the state file via a same-directory temp file and
// rename. Readers always see either the previous document or the new one.
func (s *Store[T]) writeAtomic(encoded []byte) error {
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".tmp-*")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(encoded); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0o644); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Rename(tmpName, s.path); err != nil {
		os.Remove(tmpName)
		return err
	}
	return nil
}

// Mutate loads the document, applies fn, and saves the result. Errors from fn
// abort the save and are returned unchanged.
func (s *Store[T]) Mutate(fn func(doc *Doc[T]) error) error {
	doc := s.Load()
	if err := fn(&doc); err != nil {
		return err
	}
	return s.Save(&doc)
}

func (s *Store[T]) encode(doc *Doc[T]) ([]byte, error) {
	body, err := json.Marshal(doc.Data)
	if err != nil {
		return nil, fmt.Errorf("store: encode %s: %w", s.key, err)
	}
	var payload map[string]any
	if err := json.Unmarshal(body, &payload); err != nil {
		return nil, fmt.Errorf("store: payload for %s must be a JSON object: %w", s.key, err)
	}
	payload[fieldSchemaVersion] = doc.Meta.SchemaVersion
	payload[fieldRevision] = doc.Meta.Revision
	payload[fieldLastUpdated] = doc.Meta.LastUpdated.Format(time.RFC3339)
	if doc.Meta.NextSeq > 0 {
		payload[fieldNextSeq] = doc.Meta.NextSeq
	}
	encoded, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("store: encode %s: %w", s.key, err)
	}
	return append(encoded, '\n'), nil
}

func (s *Store[T]) diskRevision() (int64, error) {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("store: read %s: %w", s.key, err)
	}
	doc, err := s.decode(raw)
	if err != nil {
		// Unreadable documents were surfaced as defaults on load; treat them
		// as revision 0 so the next save can replace them.
		return 0, nil
	}
	return doc.Meta.Revision, nil
}

func decodeMeta(raw []byte) (Meta, error) {
	var envelope struct {
		SchemaVersion int    `json:"schemaVersion"`
		Revision      int64  `json:"revision"`
		LastUpdated   string `json:"lastUpdated"`
		NextSeq       int64  `json:"nextSeq"`
	}
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return Meta{}, err
	}
	meta := Meta{
		SchemaVersion: envelope.SchemaVersion,
		Revision:      envelope.Revision,
		NextSeq:       envelope.NextSeq,
	}
	if envelope.LastUpdated != "" {
		if t, err := time.Parse(time.RFC3339, envelope.LastUpdated); err == nil {
			meta.LastUpdated = t.UTC()
		}
	}
	return meta, nil
}

func (s *Store[T]) logf(format string, args ...any) {
	if s.logger != nil {
		s.logger.Printf(format, args...)
	}
}
