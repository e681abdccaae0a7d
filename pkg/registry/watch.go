package registry

import (
	"context"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Watch waits for writes to settle before reloading.
const DefaultDebounce = 200 * time.Millisecond

// WatchOption configures Watch.
type WatchOption func(*watchConfig)

type watchConfig struct {
	debounce time.Duration
	onReload func(merged int, err error)
}

// WithDebounce overrides DefaultDebounce.
func WithDebounce(d time.Duration) WatchOption {
	return func(cfg *watchConfig) {
		if d > 0 {
			cfg.debounce = d
		}
	}
}

// WithReloadHook is called after every reload triggered by the watcher.
func WithReloadHook(fn func(merged int, err error)) WatchOption {
	return func(cfg *watchConfig) {
		cfg.onReload = fn
	}
}

type watcher struct {
	fs       *fsnotify.Watcher
	done     chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// release closes the fsnotify watcher once. It does not wait for the loop.
func (w *watcher) release() {
	w.stopOnce.Do(func() {
		close(w.done)
		w.fs.Close()
	})
}

func (w *watcher) stop() {
	w.release()
	w.wg.Wait()
}

// Watch reloads the registry whenever another writer modifies the file. The
// directory is watched rather than the file because rewrites replace the file
// by rename. Watching stops when ctx is cancelled or Close is called.
func (r *Registry) Watch(ctx context.Context, opts ...WatchOption) error {
	cfg := watchConfig{debounce: DefaultDebounce}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	r.watchMu.Lock()
	defer r.watchMu.Unlock()
	if r.closed {
		return ErrClosed
	}
	if r.watch != nil {
		return fmt.Errorf("registry: already watching %s", r.path)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("registry: watch %s: %w", r.path, err)
	}
	if err := fsw.Add(filepath.Dir(r.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("registry: watch %s: %w", r.path, err)
	}

	w := &watcher{fs: fsw, done: make(chan struct{})}
	r.watch = w
	w.wg.Add(1)
	go r.watchLoop(ctx, w, cfg)
	return nil
}

func (r *Registry) watchLoop(ctx context.Context, w *watcher, cfg watchConfig) {
	defer w.wg.Done()

	target := filepath.Clean(r.path)
	timer := time.NewTimer(cfg.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			r.detach(w)
			return
		case <-w.done:
			return
		case event, ok := <-w.fs.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			timer.Reset(cfg.debounce)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			r.logger.Warn("registry watcher error", "path", r.path, "error", err)
		case <-timer.C:
			merged, err := r.Reload()
			if err != nil {
				r.logger.Warn("registry reload failed", "path", r.path, "error", err)
			} else if merged > 0 {
				r.logger.Info("registry merged external entries", "path", r.path, "merged", merged)
			}
			if cfg.onReload != nil {
				cfg.onReload(merged, err)
			}
		}
	}
}

// detach forgets w if it is still the active watcher and releases it so a
// later Watch can start a new one.
func (r *Registry) detach(w *watcher) {
	r.watchMu.Lock()
	if r.watch == w {
		r.watch = nil
	}
	r.watchMu.Unlock()
	w.release()
}

// Close stops an active watcher. The registry stays usable for lookups and
// registration.
func (r *Registry) Close() error {
	r.watchMu.Lock()
	w := r.watch
	r.watch = nil
	r.closed = true
	r.watchMu.Unlock()

	if w != nil {
		w.stop()
	}
	return nil
}
