package policy

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// Watcher recompiles an Evaluator whenever a .rego file in its bundle
// directory changes. Editors often emit several events per save, so reloads
// are debounced.
type Watcher struct {
	dir       string
	evaluator *Evaluator
	logger    *slog.Logger
	debounce  time.Duration
	onReload  func(error)
}

// NewWatcher creates a watcher for dir. onReload, if non-nil, is called after
// every reload attempt with its outcome.
func NewWatcher(dir string, evaluator *Evaluator, logger *slog.Logger, onReload func(error)) *Watcher {
	return &Watcher{
		dir:       dir,
		evaluator: evaluator,
		logger:    logger,
		debounce:  defaultDebounce,
		onReload:  onReload,
	}
}

// Run blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer fw.Close()

	// fsnotify is not recursive; register every directory of the bundle.
	err = filepath.WalkDir(w.dir, func(p string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return err
		}
		return fw.Add(p)
	})
	if err != nil {
		return fmt.Errorf("watch policy dir %s: %w", w.dir, err)
	}
	w.logger.Info("watching policy bundle", "path", w.dir)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Ext(event.Name) != ".rego" {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				timer.Reset(w.debounce)
			}
		case <-timer.C:
			w.logger.Info("policy bundle changed, reloading", "path", w.dir)
			err := w.evaluator.Load(ctx)
			if err != nil {
				w.logger.Error("failed to reload policies", "error", err)
			}
			if w.onReload != nil {
				w.onReload(err)
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Error("fsnotify error", "error", err)
		}
	}
}
