package devserver

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

	"github.com/goliatone/go-sitegen/internal/logging"
	"github.com/goliatone/go-sitegen/pkg/interfaces"
)

const defaultDebounce = 500 * time.Millisecond

// watcher turns bursts of filesystem events into single change callbacks.
type watcher struct {
	fs       *fsnotify.Watcher
	debounce time.Duration
	ignore   func(path string) bool
	logger   interfaces.Logger
	watched  map[string]struct{}
}

func newWatcher(paths []string, debounce time.Duration, ignore func(string) bool, logger interfaces.Logger) (*watcher, error) {
	inner, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("devserver: create watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if ignore == nil {
		ignore = func(string) bool { return false }
	}
	if logger == nil {
		logger = logging.NoOp()
	}
	w := &watcher{
		fs:       inner,
		debounce: debounce,
		ignore:   ignore,
		logger:   logger,
		watched:  map[string]struct{}{},
	}
	for _, root := range paths {
		if err := w.addTree(root); err != nil {
			inner.Close()
			return nil, err
		}
	}
	return w, nil
}

// addTree watches root and every directory below it. Missing roots are
// skipped; a plain file is watched through its parent so editors that
// replace files on save are still observed.
func (w *watcher) addTree(root string) error {
	info, err := os.Stat(root)
	if errors.Is(err, fs.ErrNotExist) {
		w.logger.Debug("devserver.watch_skipped", "path", root, "reason", "missing")
		return nil
	}
	if err != nil {
		return fmt.Errorf("devserver: stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			w.logger.Warn("devserver.watch_walk_failed", "path", p, "error", err)
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && p != root {
				return filepath.SkipDir
			}
			return w.add(p)
		}
		return nil
	})
}

func (w *watcher) add(dir string) error {
	dir = filepath.Clean(dir)
	if _, ok := w.watched[dir]; ok {
		return nil
	}
	if err := w.fs.Add(dir); err != nil {
		return fmt.Errorf("devserver: watch %s: %w", dir, err)
	}
	w.watched[dir] = struct{}{}
	return nil
}

// run blocks until ctx is done, invoking onChange once per quiet period
// following relevant events.
func (w *watcher) run(ctx context.Context, onChange func(path string)) {
	defer w.fs.Close()

	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending string
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if !relevant(event) || w.ignore(event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) && isDir(event.Name) {
				if err := w.addTree(event.Name); err != nil {
					w.logger.Warn("devserver.watch_failed", "path", event.Name, "error", err)
				}
			}
			pending = event.Name
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			onChange(pending)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("devserver.watcher_error", "error", err)
		}
	}
}

func relevant(event fsnotify.Event) bool {
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) ||
		event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename)
}

func isDir(p string) bool {
	info, err := os.Stat(p)
	return err == nil && info.IsDir()
}
