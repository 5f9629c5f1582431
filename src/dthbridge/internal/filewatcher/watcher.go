package filewatcher

//go:generate mockgen -destination=filewatchermock/watcher_mock.go -package=filewatchermock . Watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Module is the Fx module for this package.
var Module = fx.Provide(New)

// Watcher reports changes to individual files.
type Watcher interface {
	// Watch registers callback to be invoked with path whenever the file at path is created, written or replaced.
	Watch(path string, callback func(path string)) error
}

// Params define values to be used by Watcher.
type Params struct {
	fx.In

	Lifecycle fx.Lifecycle
	Logger    *zap.SugaredLogger
}

type watcher struct {
	logger  *zap.SugaredLogger
	watcher *fsnotify.Watcher

	mu          sync.Mutex
	callbacks   map[string][]func(string)
	watchedDirs map[string]struct{}

	closer chan struct{}
	wg     sync.WaitGroup
}

// New creates a Watcher backed by fsnotify. Parent directories are watched so that files replaced by rename are still seen.
func New(p Params) (Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	w := &watcher{
		logger:      p.Logger.With("component", "filewatcher"),
		watcher:     fsw,
		callbacks:   make(map[string][]func(string)),
		watchedDirs: make(map[string]struct{}),
		closer:      make(chan struct{}),
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			w.wg.Add(1)
			go w.handleChanges()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			close(w.closer)
			w.wg.Wait()
			return w.watcher.Close()
		},
	})
	return w, nil
}

func (w *watcher) Watch(path string, callback func(path string)) error {
	path = filepath.Clean(path)
	dir := filepath.Dir(path)

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.watchedDirs[dir]; !ok {
		if err := w.watcher.Add(dir); err != nil {
			return fmt.Errorf("watching %q: %w", dir, err)
		}
		w.watchedDirs[dir] = struct{}{}
	}
	w.callbacks[path] = append(w.callbacks[path], callback)
	return nil
}

func (w *watcher) handleChanges() {
	defer w.wg.Done()
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
				continue
			}
			w.dispatch(filepath.Clean(event.Name))

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Warnf("Failure in file watcher: %v", err)

		case <-w.closer:
			return
		}
	}
}

func (w *watcher) dispatch(path string) {
	w.mu.Lock()
	callbacks := append([]func(string){}, w.callbacks[path]...)
	w.mu.Unlock()

	for _, cb := range callbacks {
		cb(path)
	}
}
