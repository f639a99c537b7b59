// Package watcher handles file system watching for the daemon.
package watcher

import (
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/fremvaerk/horalis/internal/config"
)

// EventType represents the type of file system event.
type EventType int

// Event types for file system changes.
const (
	EventSettingsChanged EventType = iota
	EventSettingsRemoved
)

func (t EventType) String() string {
	switch t {
	case EventSettingsChanged:
		return "settings_changed"
	case EventSettingsRemoved:
		return "settings_removed"
	}
	return "unknown"
}

// DefaultDebounce is how long a path must stay quiet before its event fires.
const DefaultDebounce = 100 * time.Millisecond

// Event represents a file system change event.
type Event struct {
	Type EventType
	Path string
}

// Watcher watches the Horalis directory for settings changes.
type Watcher struct {
	dir        string
	debounceIn time.Duration
	fsWatcher  *fsnotify.Watcher
	eventsChan chan Event
	done       chan struct{}
	stopOnce   sync.Once
	debounce   map[string]*time.Timer
	debounceMu sync.Mutex
}

// New creates a watcher for dir. An empty dir means the global directory.
func New(dir string) (*Watcher, error) {
	if dir == "" {
		d, err := config.GlobalDir()
		if err != nil {
			return nil, err
		}
		dir = d
	}

	fsWatcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &Watcher{
		dir:        dir,
		debounceIn: DefaultDebounce,
		fsWatcher:  fsWatcher,
		eventsChan: make(chan Event, 16),
		done:       make(chan struct{}),
		debounce:   make(map[string]*time.Timer),
	}, nil
}

// Events returns the channel for receiving events.
func (w *Watcher) Events() <-chan Event {
	return w.eventsChan
}

// Start starts the watcher. The directory is created if missing.
func (w *Watcher) Start() error {
	if err := os.MkdirAll(w.dir, 0755); err != nil {
		return err
	}
	// Watch the directory rather than the file: atomic saves replace the inode.
	if err := w.fsWatcher.Add(w.dir); err != nil {
		return err
	}

	go w.processEvents()

	log.Printf("[watcher] Watching %s", w.dir)
	return nil
}

// Stop stops the watcher. Safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.done)
		_ = w.fsWatcher.Close()

		w.debounceMu.Lock()
		for path, timer := range w.debounce {
			timer.Stop()
			delete(w.debounce, path)
		}
		w.debounceMu.Unlock()
	})
}

// processEvents processes file system events.
func (w *Watcher) processEvents() {
	for {
		select {
		case <-w.done:
			return
		case event, ok := <-w.fsWatcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)
		case err, ok := <-w.fsWatcher.Errors:
			if !ok {
				return
			}
			log.Printf("[watcher] Error: %v", err)
		}
	}
}

// handleEvent processes a single file system event.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if filepath.Base(event.Name) != config.SettingsFileName {
		return
	}
	// Rename shows up on the target of an atomic save; Remove on deletes.
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return
	}

	w.debounceEvent(event.Name, func() {
		w.processFileChange(event.Name)
	})
}

// debounceEvent debounces events for the same path.
func (w *Watcher) debounceEvent(path string, fn func()) {
	w.debounceMu.Lock()
	defer w.debounceMu.Unlock()

	if timer, ok := w.debounce[path]; ok {
		timer.Stop()
	}

	w.debounce[path] = time.AfterFunc(w.debounceIn, func() {
		w.debounceMu.Lock()
		delete(w.debounce, path)
		w.debounceMu.Unlock()
		fn()
	})
}

// processFileChange handles a debounced file change. The file is stat'ed
// again since the last raw op doesn't tell whether it still exists.
func (w *Watcher) processFileChange(path string) {
	ev := Event{Type: EventSettingsChanged, Path: path}
	if !config.FileExists(path) {
		ev.Type = EventSettingsRemoved
	}
	log.Printf("[watcher] %s: %s", ev.Type, path)

	select {
	case w.eventsChan <- ev:
	case <-w.done:
	}
}
