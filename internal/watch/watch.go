// Package watch re-runs a callback whenever one of a fixed set of files
// changes on disk. Parent directories are watched rather than the files
// themselves, so editors that replace files on save are still seen.
package watch

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// DefaultDebounce coalesces the burst of events a single save produces.
const DefaultDebounce = 300 * time.Millisecond

// Watcher triggers onChange after any watched file settles.
type Watcher struct {
	fsw      *fsnotify.Watcher
	targets  map[string]struct{}
	debounce time.Duration
	log      *zap.Logger
	onChange func()
}

// New builds a watcher over the given files. The files need not exist yet;
// their directories must.
func New(paths []string, debounce time.Duration, log *zap.Logger, onChange func()) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}

	w := &Watcher{
		fsw:      fsw,
		targets:  make(map[string]struct{}, len(paths)),
		debounce: debounce,
		log:      log,
		onChange: onChange,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.targets[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for d := range dirs {
		if err := fsw.Add(d); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// Run blocks until ctx is cancelled, invoking the callback from its own
// goroutine after each debounced change. Always returns ctx's error.
func (w *Watcher) Run(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		timer := time.NewTimer(w.debounce)
		if !timer.Stop() {
			<-timer.C
		}
		defer timer.Stop()

		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case ev, ok := <-w.fsw.Events:
				if !ok {
					return nil
				}
				if !w.relevant(ev) {
					continue
				}
				w.log.Debug("input changed",
					zap.String("path", ev.Name),
					zap.String("op", ev.Op.String()))
				timer.Reset(w.debounce)
			case <-timer.C:
				w.onChange()
			}
		}
	})

	g.Go(func() error {
		for {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case err, ok := <-w.fsw.Errors:
				if !ok {
					return nil
				}
				w.log.Warn("watch error", zap.Error(err))
			}
		}
	})

	return g.Wait()
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
		return false
	}
	_, ok := w.targets[filepath.Clean(ev.Name)]
	return ok
}

// Close releases the underlying OS watches.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}
