package pipeline

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"astrie/internal/errors"
	"astrie/internal/logger"
)

// DefaultDebounce collapses the burst of events editors produce on save.
const DefaultDebounce = 200 * time.Millisecond

// Watcher reports changes to one input file.
type Watcher struct {
	path     string
	watcher  *fsnotify.Watcher
	debounce time.Duration
}

// NewWatcher starts watching path. The directory is watched rather than the
// file so that editors replacing the file by rename are still seen.
func NewWatcher(path string, debounce time.Duration) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, errors.Wrapf(err, "resolve %s", path)
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "failed to create fsnotify watcher")
	}

	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()

		return nil, errors.Wrapf(err, "failed to watch %s", path)
	}

	return &Watcher{path: abs, watcher: w, debounce: debounce}, nil
}

// Run calls onChange after each settled change until ctx ends, then closes
// the watcher. onChange runs on the calling goroutine.
func (w *Watcher) Run(ctx context.Context, onChange func()) error {
	defer func() { _ = w.watcher.Close() }()

	var timer *time.Timer

	fire := make(chan struct{}, 1)

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}

			return nil

		case ev, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}

			if filepath.Clean(ev.Name) != w.path || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}

			logger.Logger.Debugw("input changed", logger.FieldFile, ev.Name, "op", ev.Op.String())

			if timer != nil {
				timer.Stop()
			}

			timer = time.AfterFunc(w.debounce, func() {
				select {
				case fire <- struct{}{}:
				default:
				}
			})

		case <-fire:
			onChange()

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}

			logger.Logger.Warnw("watcher error", logger.FieldError, err)
		}
	}
}
