package dictionary

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/afero"

	"github.com/satishbabariya/dictquery/internal/debug"
)

// DefaultDebounce is the quiet period after the last write before a reload.
const DefaultDebounce = 500 * time.Millisecond

// Watcher reloads a registry whenever its dictionary file is written.
// A reload that fails to parse keeps the previous tables.
type Watcher struct {
	file     string
	registry *Registry
	fs       afero.Fs
	debounce time.Duration
	watcher  *fsnotify.Watcher
	done     chan struct{}
	reloaded chan error
}

// NewWatcher creates a watcher for file feeding registry.
func NewWatcher(file string, registry *Registry) (*Watcher, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	absPath, err := filepath.Abs(file)
	if err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Watch the directory: editors often replace the file instead of writing it.
	if err := watcher.Add(filepath.Dir(absPath)); err != nil {
		watcher.Close()
		return nil, fmt.Errorf("failed to watch directory: %w", err)
	}

	return &Watcher{
		file:     absPath,
		registry: registry,
		fs:       afero.NewOsFs(),
		debounce: DefaultDebounce,
		watcher:  watcher,
		done:     make(chan struct{}),
		reloaded: make(chan error, 1),
	}, nil
}

// Reloaded delivers the outcome of each reload. Outcomes are dropped when
// nobody reads them.
func (w *Watcher) Reloaded() <-chan error {
	return w.reloaded
}

// Start loads the file once and then reloads it on change.
func (w *Watcher) Start() error {
	if err := w.registry.LoadFile(w.fs, w.file); err != nil {
		return fmt.Errorf("initial load failed: %w", err)
	}

	go w.loop()
	return nil
}

func (w *Watcher) loop() {
	debounceTimer := time.NewTimer(w.debounce)
	debounceTimer.Stop()
	var debounceCh <-chan time.Time

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			eventPath, err := filepath.Abs(event.Name)
			if err == nil && eventPath == w.file {
				debounceTimer.Reset(w.debounce)
				debounceCh = debounceTimer.C
			}

		case <-debounceCh:
			debounceCh = nil
			err := w.registry.LoadFile(w.fs, w.file)
			if err != nil {
				debug.Warn("dictionary reload failed", "file", w.file, "error", err)
			} else {
				debug.Info("dictionary reloaded", "file", w.file, "tables", len(w.registry.Tables()))
			}
			select {
			case w.reloaded <- err:
			default:
			}

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			debug.Warn("dictionary watch error", "file", w.file, "error", err)

		case <-w.done:
			debounceTimer.Stop()
			return
		}
	}
}

// Stop stops watching the file.
func (w *Watcher) Stop() error {
	close(w.done)
	return w.watcher.Close()
}
