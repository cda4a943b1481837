package load

import (
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/syssam/arangox/schema"
)

// Watcher keeps a registry in sync with a declaration file.
//
// On every change of the file the declarations are parsed again. Valid
// declarations replace the ones registered from the previous version of the
// file, and graph types removed from the file are removed from the
// registry. An invalid file is logged and leaves the registry untouched.
type Watcher struct {
	path     string
	reg      *schema.Registry
	watcher  *fsnotify.Watcher
	logger   *zap.Logger
	debounce time.Duration

	mu       sync.Mutex
	names    []string
	onReload []func([]*schema.GraphType, error)

	stopCh   chan struct{}
	stopOnce sync.Once
}

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithLogger sets the watcher logger.
func WithLogger(l *zap.Logger) WatcherOption {
	return func(w *Watcher) {
		w.logger = l
	}
}

// WithDebounce sets how long the watcher waits for further changes before
// reloading. The default is 100ms.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		w.debounce = d
	}
}

// Watch registers the declarations of the file at path in reg and returns
// a watcher keeping them current. Call Start to begin watching.
// Reloads replace the graph types registered from the file; on a strict
// registry a reload fails if the file declares a name registered elsewhere.
func Watch(path string, reg *schema.Registry, opts ...WatcherOption) (*Watcher, error) {
	w := &Watcher{
		path:     path,
		reg:      reg,
		logger:   zap.NewNop(),
		debounce: 100 * time.Millisecond,
		stopCh:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if _, err := w.reload(); err != nil {
		return nil, fmt.Errorf("load: initial load: %w", err)
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("load: create file watcher: %w", err)
	}
	// Watch the directory so that atomic saves (rename over the file) are seen.
	if err := fw.Add(filepath.Dir(path)); err != nil {
		fw.Close()
		return nil, fmt.Errorf("load: watch %s: %w", path, err)
	}
	w.watcher = fw
	return w, nil
}

// OnReload adds a function called after every reload attempt with the new
// graph types, or the error that made the reload fail.
func (w *Watcher) OnReload(fn func([]*schema.GraphType, error)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.onReload = append(w.onReload, fn)
}

// Names returns the graph types registered from the file.
func (w *Watcher) Names() []string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]string(nil), w.names...)
}

// Start begins watching for changes.
func (w *Watcher) Start() {
	go w.loop()
	w.logger.Info("schema watcher started", zap.String("path", w.path))
}

// Stop stops watching. It is safe to call more than once.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stopCh)
		w.watcher.Close()
		w.logger.Info("schema watcher stopped", zap.String("path", w.path))
	})
}

func (w *Watcher) loop() {
	var timer *time.Timer
	for {
		select {
		case <-w.stopCh:
			if timer != nil {
				timer.Stop()
			}
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) && !event.Has(fsnotify.Rename) {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(w.debounce, w.handleChange)
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("schema watcher error", zap.Error(err))
		}
	}
}

func (w *Watcher) handleChange() {
	select {
	case <-w.stopCh:
		return
	default:
	}
	w.logger.Info("schema file changed, reloading", zap.String("path", w.path))
	types, err := w.reload()
	if err != nil {
		w.logger.Error("invalid schema file, keeping current graph types",
			zap.String("path", w.path),
			zap.Error(err))
	} else {
		w.logger.Info("schema reloaded",
			zap.String("path", w.path),
			zap.Int("graph_types", len(types)))
	}
	w.mu.Lock()
	handlers := slices.Clone(w.onReload)
	w.mu.Unlock()
	for _, fn := range handlers {
		fn(types, err)
	}
}

// reload parses the file and swaps the registered graph types.
func (w *Watcher) reload() ([]*schema.GraphType, error) {
	types, err := ParseFile(w.path)
	if err != nil {
		return nil, err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.reg.Swap(w.names, types); err != nil {
		return nil, err
	}
	w.names = w.names[:0]
	for _, gt := range types {
		w.names = append(w.names, gt.Name())
	}
	return types, nil
}
