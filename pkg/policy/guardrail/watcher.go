package guardrail

import (
	"context"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// WatcherConfig contains configuration for the ruleset file watcher.
type WatcherConfig struct {
	// Dir is the ruleset directory to watch.
	Dir string

	// DebounceInterval is how long to wait after the last file event
	// before reloading, to avoid reload storms from editors.
	DebounceInterval time.Duration
}

// DefaultWatcherConfig returns the default watcher configuration.
func DefaultWatcherConfig(dir string) WatcherConfig {
	return WatcherConfig{
		Dir:              dir,
		DebounceInterval: 100 * time.Millisecond,
	}
}

// Watcher reloads a Registry from a ruleset directory whenever the files
// change.
type Watcher struct {
	config   WatcherConfig
	registry *Registry
	logger   *slog.Logger

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	running bool
	doneCh  chan struct{}
}

// NewWatcher creates a ruleset watcher bound to a registry.
func NewWatcher(config WatcherConfig, registry *Registry, logger *slog.Logger) *Watcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Watcher{
		config:   config,
		registry: registry,
		logger:   logger.With("component", "guardrail.watcher"),
	}
}

// Start loads the directory once, then watches it until the context is
// cancelled.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	if err := w.reload(); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return &RulesetError{Path: w.config.Dir, Message: "start watcher", Cause: err}
	}
	if err := fw.Add(w.config.Dir); err != nil {
		fw.Close()
		return &RulesetError{Path: w.config.Dir, Message: "watch directory", Cause: err}
	}

	w.watcher = fw
	w.running = true
	w.doneCh = make(chan struct{})
	go w.run(ctx)

	w.logger.Info("ruleset watcher started", "dir", w.config.Dir)
	return nil
}

// Stop stops the watcher and waits for the event loop to drain.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.watcher.Close()
	done := w.doneCh
	w.mu.Unlock()
	<-done
}

// run is the debounced event loop.
func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	var timer *time.Timer
	var timerCh <-chan time.Time

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !isRulesetFile(event.Name) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.config.DebounceInterval)
			timerCh = timer.C
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("ruleset watcher error", "error", err)
		case <-timerCh:
			timerCh = nil
			if err := w.reload(); err != nil {
				// Keep serving the last good rulesets.
				w.logger.Error("ruleset reload failed", "error", err)
			}
		}
	}
}

// reload reads the directory and atomically replaces the registry contents.
func (w *Watcher) reload() error {
	rulesets, err := LoadDir(w.config.Dir)
	if err != nil {
		return err
	}
	if err := w.registry.Replace(rulesets); err != nil {
		return err
	}
	w.logger.Info("rulesets reloaded", "dir", w.config.Dir, "count", len(rulesets))
	return nil
}

// isRulesetFile reports whether a path looks like a YAML ruleset.
func isRulesetFile(path string) bool {
	ext := filepath.Ext(path)
	return ext == ".yaml" || ext == ".yml"
}
