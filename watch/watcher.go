// Package watch re-runs augmentation whenever one of its input files
// changes.
package watch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fsnotify/fsnotify"

	"github.com/c360studio/pddls/augment"
)

// DefaultDebounce is used when Config.Debounce is zero.
const DefaultDebounce = 100 * time.Millisecond

// Config configures a Watcher.
type Config struct {
	// Problem and Domains are the documents to augment.
	Problem string
	Domains []string

	// Ontology lists ontology files or doublestar patterns. Patterns are
	// expanded again on every run, so new matching files are picked up.
	Ontology []string

	// Common is an optional common ontology file.
	Common string

	// Debounce is how long to collect changes before re-running.
	Debounce time.Duration

	// Logger defaults to slog.Default().
	Logger *slog.Logger

	// Recorder observes each augmentation.
	Recorder augment.Recorder
}

// Event is the outcome of one run.
type Event struct {
	// Paths are the changed files that triggered the run, sorted. Nil for
	// the initial run.
	Paths []string

	// Result is nil when Error is set.
	Result *augment.Result
	Error  error
}

// Watcher watches the inputs of an augmentation and emits an Event per
// batch of changes.
type Watcher struct {
	config  Config
	watcher *fsnotify.Watcher
	logger  *slog.Logger

	pendingMu sync.Mutex
	pending   map[string]fsnotify.Op

	hashMu sync.Mutex
	hashes map[string]string

	events chan Event
}

// New creates a watcher. Input paths are made absolute.
func New(config Config) (*Watcher, error) {
	if config.Problem == "" {
		return nil, errors.New("watch: problem path is required")
	}
	for _, pattern := range config.Ontology {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, fmt.Errorf("watch: invalid ontology pattern %q", pattern)
		}
	}

	var err error
	if config.Problem, err = filepath.Abs(config.Problem); err != nil {
		return nil, fmt.Errorf("resolve problem path: %w", err)
	}
	if config.Domains, err = absAll(config.Domains); err != nil {
		return nil, fmt.Errorf("resolve domain path: %w", err)
	}
	if config.Ontology, err = absAll(config.Ontology); err != nil {
		return nil, fmt.Errorf("resolve ontology pattern: %w", err)
	}
	if config.Common != "" {
		if config.Common, err = filepath.Abs(config.Common); err != nil {
			return nil, fmt.Errorf("resolve common ontology path: %w", err)
		}
	}
	if config.Debounce <= 0 {
		config.Debounce = DefaultDebounce
	}
	if config.Logger == nil {
		config.Logger = slog.Default()
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create file watcher: %w", err)
	}

	return &Watcher{
		config:  config,
		watcher: fsw,
		logger:  config.Logger,
		pending: make(map[string]fsnotify.Op),
		hashes:  make(map[string]string),
		events:  make(chan Event, 16),
	}, nil
}

// Events returns the channel of run outcomes. It is closed when the
// watcher stops.
func (w *Watcher) Events() <-chan Event {
	return w.events
}

// Start adds the directory watches, emits the initial run and processes
// changes until ctx is done or Stop is called.
func (w *Watcher) Start(ctx context.Context) error {
	for _, dir := range w.watchDirs() {
		if err := w.addWatchesRecursive(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	w.sendEvent(w.run(nil))
	go w.processEvents(ctx)

	w.logger.Info("Watching augmentation inputs",
		"problem", w.config.Problem,
		"domains", len(w.config.Domains),
		"ontology", len(w.config.Ontology),
		"debounce", w.config.Debounce)
	return nil
}

// Stop closes the underlying watcher. Events is closed once processing
// ends.
func (w *Watcher) Stop() error {
	return w.watcher.Close()
}

// Files expands the configured inputs into concrete file paths.
func (w *Watcher) Files() (augment.Files, error) {
	files := augment.Files{
		Problem: w.config.Problem,
		Domains: w.config.Domains,
		Common:  w.config.Common,
	}
	seen := make(map[string]bool)
	for _, pattern := range w.config.Ontology {
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return files, fmt.Errorf("expand ontology pattern %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return files, fmt.Errorf("ontology pattern %q matched no files", pattern)
		}
		sort.Strings(matches)
		for _, m := range matches {
			if !seen[m] {
				seen[m] = true
				files.Ontology = append(files.Ontology, m)
			}
		}
	}
	return files, nil
}

// Relevant reports whether a change to path affects the augmentation.
func (w *Watcher) Relevant(path string) bool {
	if path == w.config.Problem || path == w.config.Common {
		return true
	}
	for _, d := range w.config.Domains {
		if path == d {
			return true
		}
	}
	for _, pattern := range w.config.Ontology {
		if doublestar.PathMatchUnvalidated(pattern, path) {
			return true
		}
	}
	return false
}

// watchDirs lists the directories holding the inputs. Ontology patterns
// contribute their static base directory.
func (w *Watcher) watchDirs() []string {
	seen := make(map[string]bool)
	var dirs []string
	add := func(dir string) {
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	add(filepath.Dir(w.config.Problem))
	for _, d := range w.config.Domains {
		add(filepath.Dir(d))
	}
	if w.config.Common != "" {
		add(filepath.Dir(w.config.Common))
	}
	for _, pattern := range w.config.Ontology {
		base, _ := doublestar.SplitPattern(filepath.ToSlash(pattern))
		add(filepath.FromSlash(base))
	}
	return dirs
}

// addWatchesRecursive adds watches to root and its subdirectories.
func (w *Watcher) addWatchesRecursive(root string) error {
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			return nil
		}
		if path != root && strings.HasPrefix(filepath.Base(path), ".") {
			return filepath.SkipDir
		}
		if err := w.watcher.Add(path); err != nil {
			w.logger.Warn("Failed to watch directory", "path", path, "error", err)
		} else {
			w.logger.Debug("Watching directory", "path", path)
		}
		return nil
	})
}

// processEvents handles fsnotify events with debouncing.
func (w *Watcher) processEvents(ctx context.Context) {
	defer close(w.events)

	ticker := time.NewTicker(w.config.Debounce)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleFSEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", "error", err)

		case <-ticker.C:
			w.flushPending()
		}
	}
}

func (w *Watcher) handleFSEvent(event fsnotify.Event) {
	path := event.Name

	if event.Has(fsnotify.Create) {
		if info, err := os.Stat(path); err == nil && info.IsDir() {
			if !strings.HasPrefix(filepath.Base(path), ".") {
				if err := w.addWatchesRecursive(path); err != nil {
					w.logger.Warn("Failed to watch new directory", "path", path, "error", err)
				}
			}
			return
		}
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return
	}
	if !w.Relevant(path) {
		return
	}

	w.pendingMu.Lock()
	w.pending[path] |= event.Op
	w.pendingMu.Unlock()

	w.logger.Debug("Input change detected", "path", path, "op", event.Op.String())
}

// flushPending re-runs the augmentation when a pending file's content
// actually changed.
func (w *Watcher) flushPending() {
	w.pendingMu.Lock()
	if len(w.pending) == 0 {
		w.pendingMu.Unlock()
		return
	}
	toProcess := w.pending
	w.pending = make(map[string]fsnotify.Op)
	w.pendingMu.Unlock()

	var changed []string
	for path := range toProcess {
		hash, err := hashFile(path)
		if err != nil {
			hash = ""
		}
		w.hashMu.Lock()
		old, had := w.hashes[path]
		if hash == "" {
			delete(w.hashes, path)
		} else {
			w.hashes[path] = hash
		}
		w.hashMu.Unlock()

		if had && old == hash {
			continue
		}
		if !had && hash == "" {
			continue
		}
		changed = append(changed, path)
	}
	if len(changed) == 0 {
		return
	}
	sort.Strings(changed)
	w.sendEvent(w.run(changed))
}

// run augments the current inputs and records their hashes.
func (w *Watcher) run(paths []string) Event {
	event := Event{Paths: paths}

	files, err := w.Files()
	if err != nil {
		event.Error = err
		return event
	}
	w.recordHashes(files)

	event.Result, event.Error = augment.AugmentFiles(files, augment.Options{
		Logger:   w.logger,
		Recorder: w.config.Recorder,
	})
	return event
}

func (w *Watcher) recordHashes(files augment.Files) {
	paths := append([]string{files.Problem}, files.Domains...)
	paths = append(paths, files.Ontology...)
	if files.Common != "" {
		paths = append(paths, files.Common)
	}

	w.hashMu.Lock()
	defer w.hashMu.Unlock()
	for _, p := range paths {
		if hash, err := hashFile(p); err == nil {
			w.hashes[p] = hash
		}
	}
}

func (w *Watcher) sendEvent(event Event) {
	if event.Error != nil {
		w.logger.Warn("Augmentation failed", "paths", event.Paths, "error", event.Error)
	} else {
		w.logger.Info("Augmentation updated",
			"paths", event.Paths,
			"axioms", len(event.Result.Axioms),
			"diagnostics", len(event.Result.Diagnostics))
	}

	select {
	case w.events <- event:
	default:
		w.logger.Warn("Event channel full, dropping event", "paths", event.Paths)
	}
}

func hashFile(path string) (string, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(content)
	return hex.EncodeToString(sum[:]), nil
}

func absAll(paths []string) ([]string, error) {
	if paths == nil {
		return nil, nil
	}
	out := make([]string, len(paths))
	for i, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, err
		}
		out[i] = abs
	}
	return out, nil
}
