package store

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Change reports that a storage key was rewritten on disk, usually by another
// ismsforge process sharing the workspace. It is an advisory re-read trigger,
// not a transactional guarantee; the revision check on save is what actually
// protects against lost updates.
type Change struct {
	Key  string
	Path string
	At   time.Time
}

// Watcher surfaces state-directory changes as Change notifications.
type Watcher struct {
	fs      *fsnotify.Watcher
	changes chan Change
	done    chan struct{}
	now     func() time.Time
}

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WatcherWithClock overrides the timestamp source for change notifications.
func WatcherWithClock(clock func() time.Time) WatcherOption {
	return func(w *Watcher) {
		if clock != nil {
			w.now = clock
		}
	}
}

// Watch begins watching the workspace state directory. The directory must
// already exist.
func Watch(stateDir string, opts ...WatcherOption) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(stateDir); err != nil {
		fsw.Close()
		return nil, err
	}
	w := &Watcher{
		fs:      fsw,
		changes: make(chan Change, 16),
		done:    make(chan struct{}),
		now:     time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(w)
		}
	}
	go w.run()
	return w, nil
}

// Changes returns the notification channel. It closes when the watcher stops.
func (w *Watcher) Changes() <-chan Change {
	return w.changes
}

// Close stops the watcher and releases its resources.
func (w *Watcher) Close() error {
	err := w.fs.Close()
	<-w.done
	return err
}

func (w *Watcher) run() {
	defer close(w.done)
	defer close(w.changes)
	for {
		select {
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			key, ok := keyFromPath(event.Name)
			if !ok {
				continue
			}
			change := Change{Key: key, Path: event.Name, At: w.now().UTC()}
			select {
			case w.changes <- change:
			default:
				// A slow consumer loses intermediate notifications; the next
				// change will trigger the same re-read.
			}
		case _, ok := <-w.fs.Errors:
			if !ok {
				return
			}
		}
	}
}

func keyFromPath(path string) (string, bool) {
	base := filepath.Base(path)
	if !strings.HasSuffix(base, ".json") {
		return "", false
	}
	key := strings.TrimSuffix(base, ".json")
	if key == "" {
		return "", false
	}
	return key, true
}
