// Package watcher indexes documents dropped into the ingestion root.
//
// It watches the root and its subdirectories with fsnotify. A file is
// indexed once no event has touched it for the debounce interval, so a
// large PDF being copied is indexed once, after the last write.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/custodia-labs/lexa-cli/internal/core/domain"
	"github.com/custodia-labs/lexa-cli/internal/core/ports/driving"
	"github.com/custodia-labs/lexa-cli/internal/logger"
)

// DefaultDebounce is the quiet period before a changed file is indexed.
const DefaultDebounce = 500 * time.Millisecond

var log = logger.With("watcher")

// Config controls what is watched and how files are filed.
type Config struct {
	// Root is the directory to watch.
	Root string

	// IngestionRoot is the root the library resolves sources against.
	// When set, Root must lie inside it.
	IngestionRoot string

	// Extension selects the files to index, e.g. ".pdf". Empty means all.
	Extension string

	// Category is assigned to every indexed document.
	Category domain.Category

	// Debounce is the quiet period per file. Zero means DefaultDebounce.
	Debounce time.Duration
}

// Event reports the outcome of indexing one file.
type Event struct {
	Path     string
	Document *domain.Document

	// Replaced is the ID of the document removed in favour of Document,
	// when the same file was indexed earlier in this session.
	Replaced string

	Err error
}

// Watcher indexes files as they appear or change.
type Watcher struct {
	library driving.LibraryService
	cfg     Config
	root    string

	// indexed maps a path to the document created for it.
	indexed map[string]string
}

// New creates a watcher over library.
func New(library driving.LibraryService, cfg Config) *Watcher {
	if cfg.Debounce <= 0 {
		cfg.Debounce = DefaultDebounce
	}
	if cfg.Category == "" {
		cfg.Category = domain.CategoryOther
	}
	if cfg.Extension != "" && !strings.HasPrefix(cfg.Extension, ".") {
		cfg.Extension = "." + cfg.Extension
	}
	root, err := filepath.Abs(cfg.Root)
	if err != nil {
		root = filepath.Clean(cfg.Root)
	}
	return &Watcher{library: library, cfg: cfg, root: root, indexed: make(map[string]string)}
}

// Root returns the absolute directory being watched.
func (w *Watcher) Root() string {
	return w.root
}

// Watch starts watching and returns a channel of indexing outcomes.
// The channel is closed when ctx is cancelled.
func (w *Watcher) Watch(ctx context.Context) (<-chan Event, error) {
	if w.library == nil {
		return nil, errors.New("watcher: library service is required")
	}
	if err := w.checkIngestionRoot(); err != nil {
		return nil, err
	}

	root := w.root
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("watching %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a directory", domain.ErrValidation, root)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	if err := addTree(fsw, root); err != nil {
		fsw.Close()
		return nil, err
	}

	log.Info("watching %s", root)
	events := make(chan Event)
	go w.loop(ctx, fsw, events)
	return events, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- Event) {
	defer close(out)
	defer fsw.Close()

	tick := w.cfg.Debounce / 2
	if tick < 10*time.Millisecond {
		tick = 10 * time.Millisecond
	}
	ticker := time.NewTicker(tick)
	defer ticker.Stop()

	// pending holds the time of the last event per file.
	pending := make(map[string]time.Time)

	for {
		select {
		case <-ctx.Done():
			return

		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if dir, isDir := w.newDirectory(ev); isDir {
				if err := addTree(fsw, dir); err != nil {
					log.Warn("%v", err)
				}
				continue
			}
			if path, ok := w.handleFsEvent(ev); ok {
				pending[path] = time.Now()
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			log.Warn("fsnotify: %v", err)

		case now := <-ticker.C:
			for path, last := range pending {
				if now.Sub(last) < w.cfg.Debounce {
					continue
				}
				delete(pending, path)
				event := w.index(ctx, path)
				select {
				case out <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}
}

// handleFsEvent returns the file to index for ev, if any.
// Removals and renames are ignored: indexed documents outlive their files.
func (w *Watcher) handleFsEvent(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Write) {
		return "", false
	}
	if w.hidden(ev.Name) {
		return "", false
	}
	if w.cfg.Extension != "" && !strings.EqualFold(filepath.Ext(ev.Name), w.cfg.Extension) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.Mode().IsRegular() {
		return "", false
	}
	return ev.Name, true
}

// newDirectory reports whether ev created a directory that should be watched.
func (w *Watcher) newDirectory(ev fsnotify.Event) (string, bool) {
	if !ev.Has(fsnotify.Create) || w.hidden(ev.Name) {
		return "", false
	}
	info, err := os.Stat(ev.Name)
	if err != nil || !info.IsDir() {
		return "", false
	}
	return ev.Name, true
}

// index indexes path and removes the document previously created for it.
func (w *Watcher) index(ctx context.Context, path string) Event {
	doc, err := w.library.Index(ctx, path, w.cfg.Category)
	if err != nil {
		log.Warn("indexing %s: %v", path, err)
		return Event{Path: path, Err: err}
	}

	event := Event{Path: path, Document: doc}
	if previous, ok := w.indexed[path]; ok && previous != doc.ID {
		if err := w.library.Delete(ctx, previous); err != nil && !errors.Is(err, domain.ErrNotFound) {
			log.Warn("removing previous version of %s: %v", path, err)
		} else {
			event.Replaced = previous
		}
	}
	w.indexed[path] = doc.ID
	log.Debug("indexed %s as %s", path, doc.ID)
	return event
}

// checkIngestionRoot rejects a watched directory outside the ingestion
// root, where the library would refuse every file.
func (w *Watcher) checkIngestionRoot() error {
	if w.cfg.IngestionRoot == "" {
		return nil
	}
	base, err := filepath.Abs(w.cfg.IngestionRoot)
	if err != nil {
		return fmt.Errorf("resolving ingestion root: %w", err)
	}
	rel, err := filepath.Rel(base, w.root)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return fmt.Errorf("%w: %s is outside the ingestion root %s", domain.ErrValidation, w.root, base)
	}
	return nil
}

// hidden applies isHidden below the root only, so a root inside a dot
// directory still works.
func (w *Watcher) hidden(path string) bool {
	rel, err := filepath.Rel(w.root, path)
	if err != nil {
		return isHidden(filepath.Base(path))
	}
	return isHidden(rel)
}

// addTree watches dir and every non-hidden directory below it.
func addTree(fsw *fsnotify.Watcher, dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && isHidden(d.Name()) {
			return filepath.SkipDir
		}
		if err := fsw.Add(path); err != nil {
			return fmt.Errorf("watching %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether any element of path starts with a dot.
// "." and ".." are not hidden.
func isHidden(path string) bool {
	for _, part := range strings.Split(filepath.ToSlash(path), "/") {
		if part != "" && part != "." && part != ".." && strings.HasPrefix(part, ".") {
			return true
		}
	}
	return false
}
