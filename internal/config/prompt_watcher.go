package config

import (
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"talentnav/internal/errors"
)

// PromptWatcher watches prompt template files for changes and reloads
// their content into the prompt store.
type PromptWatcher struct {
	mu sync.Mutex

	files         []string
	fsWatcher     *fsnotify.Watcher
	debounceDelay time.Duration
	debounceTimer *time.Timer

	pending map[string]struct{}

	stopChan chan struct{}
	logger   *errors.Logger
	running  bool

	// OnReload, when set, is invoked after each reload attempt with the
	// file path and its outcome. Set before Start.
	OnReload func(path string, err error)
}

// NewPromptWatcher creates a watcher over the given prompt template files.
func NewPromptWatcher(files []string, debounceDelay time.Duration, logger *errors.Logger) *PromptWatcher {
	if debounceDelay == 0 {
		debounceDelay = time.Second
	}

	return &PromptWatcher{
		files:         files,
		debounceDelay: debounceDelay,
		pending:       make(map[string]struct{}),
		stopChan:      make(chan struct{}),
		logger:        logger,
	}
}

// Start begins watching prompt template files for changes
func (pw *PromptWatcher) Start() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if pw.running {
		return fmt.Errorf("prompt watcher is already running")
	}
	if len(pw.files) == 0 {
		return nil // Nothing to watch
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	pw.fsWatcher = watcher

	for _, file := range pw.files {
		if err := pw.fsWatcher.Add(file); err != nil {
			if pw.logger != nil {
				pw.logger.Warn("Failed to watch prompt template file", "file", file, "error", err)
			}
		}
		// Also watch the directory to catch atomic writes (rename operations)
		if err := pw.fsWatcher.Add(filepath.Dir(file)); err != nil && pw.logger != nil {
			pw.logger.Warn("Failed to watch prompt template directory",
				"directory", filepath.Dir(file), "error", err)
		}
	}

	pw.running = true
	go pw.watchLoop()

	if pw.logger != nil {
		pw.logger.Info("Prompt template file watcher started",
			"files", pw.files,
			"debounce_delay", pw.debounceDelay)
	}
	return nil
}

// Stop stops the prompt template file watcher
func (pw *PromptWatcher) Stop() error {
	pw.mu.Lock()
	defer pw.mu.Unlock()

	if !pw.running {
		return nil
	}

	close(pw.stopChan)

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}

	if pw.fsWatcher != nil {
		if err := pw.fsWatcher.Close(); err != nil {
			if pw.logger != nil {
				pw.logger.LogError(err, "Failed to close prompt file watcher")
			}
			return err
		}
	}

	pw.running = false

	if pw.logger != nil {
		pw.logger.Info("Prompt template file watcher stopped")
	}
	return nil
}

// watchLoop is the main event loop for file watching
func (pw *PromptWatcher) watchLoop() {
	for {
		select {
		case event, ok := <-pw.fsWatcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				pw.handleChange(event.Name)
			}
		case err, ok := <-pw.fsWatcher.Errors:
			if !ok {
				return
			}
			if pw.logger != nil {
				pw.logger.LogError(err, "Prompt file watcher error")
			}
		case <-pw.stopChan:
			return
		}
	}
}

// handleChange records a changed file and resets the debounce timer
func (pw *PromptWatcher) handleChange(name string) {
	absPath, err := filepath.Abs(name)
	if err != nil {
		return
	}

	if !pw.isWatchedFile(absPath) {
		return
	}

	pw.mu.Lock()
	defer pw.mu.Unlock()

	pw.pending[absPath] = struct{}{}

	if pw.debounceTimer != nil {
		pw.debounceTimer.Stop()
	}
	pw.debounceTimer = time.AfterFunc(pw.debounceDelay, pw.reloadPending)
}

// isWatchedFile reports whether the path is one of the watched templates
func (pw *PromptWatcher) isWatchedFile(absPath string) bool {
	for _, file := range pw.files {
		if watched, err := filepath.Abs(file); err == nil && watched == absPath {
			return true
		}
	}
	return false
}

// reloadPending reloads all files recorded since the last debounce window
func (pw *PromptWatcher) reloadPending() {
	pw.mu.Lock()
	changed := make([]string, 0, len(pw.pending))
	for path := range pw.pending {
		changed = append(changed, path)
	}
	pw.pending = make(map[string]struct{})
	pw.mu.Unlock()

	for _, path := range changed {
		err := ReloadPromptFile(path)
		if pw.OnReload != nil {
			pw.OnReload(path, err)
		}
		if err != nil {
			if pw.logger != nil {
				pw.logger.LogError(err, "Failed to reload prompt template file", "file", path)
			}
			continue
		}
		if pw.logger != nil {
			pw.logger.Info("Reloaded prompt template file", "file", path)
		}
	}
}
