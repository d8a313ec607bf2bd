package workers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/MKhiriev/life-sync/internal/logger"
	"github.com/MKhiriev/life-sync/internal/utils"
	"github.com/fsnotify/fsnotify"
)

const (
	moduleFileExt          = ".json"
	defaultWatcherDebounce = 300 * time.Millisecond
)

// ModuleWatcher mirrors module documents between a directory of
// <module>.json files and a [ModuleStore]. Edits of a file are saved as
// local module edits; documents coming from the sync engine are written back
// with WriteModule. A content hash per module keeps the two directions from
// echoing each other.
type ModuleWatcher struct {
	dir      string
	store    ModuleStore
	debounce time.Duration
	modules  map[string]struct{}

	mu     sync.Mutex
	hashes map[string]string
	timers map[string]*time.Timer

	logger *logger.Logger
}

// ModuleWatcherOption customizes a [ModuleWatcher].
type ModuleWatcherOption func(*ModuleWatcher)

// WithDebounce sets how long a file must stay unchanged before it is read.
func WithDebounce(d time.Duration) ModuleWatcherOption {
	return func(w *ModuleWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithModules restricts the watcher to the named modules. By default every
// <name>.json file is a module.
func WithModules(modules ...string) ModuleWatcherOption {
	return func(w *ModuleWatcher) {
		for _, m := range modules {
			w.modules[m] = struct{}{}
		}
	}
}

// NewModuleWatcher creates the watcher and the directory if needed.
func NewModuleWatcher(dir string, store ModuleStore, log *logger.Logger, opts ...ModuleWatcherOption) (*ModuleWatcher, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("create modules directory %s: %w", dir, err)
	}

	w := &ModuleWatcher{
		dir:      dir,
		store:    store,
		debounce: defaultWatcherDebounce,
		modules:  make(map[string]struct{}),
		hashes:   make(map[string]string),
		timers:   make(map[string]*time.Timer),
		logger:   log,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w, nil
}

// Run reconciles the files present on disk and then processes file events
// until ctx is canceled.
func (w *ModuleWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return fmt.Errorf("failed to watch modules directory %s: %w", w.dir, err)
	}
	defer w.stopTimers()

	w.reconcile(ctx)

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			module, ok := w.moduleOf(event)
			if !ok {
				continue
			}
			w.schedule(ctx, module)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn().Err(err).Str("func", "ModuleWatcher.Run").Msg("file watcher error")
		}
	}
}

// reconcile saves files edited while the client was not running.
func (w *ModuleWatcher) reconcile(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.Warn().Err(err).Str("func", "ModuleWatcher.reconcile").Msg("listing modules directory failed")
		return
	}

	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		module, ok := w.moduleName(entry.Name())
		if !ok {
			continue
		}
		w.load(ctx, module)
	}
}

// moduleOf maps a file event to a module. Removals and renames are ignored:
// a missing file never deletes a module.
func (w *ModuleWatcher) moduleOf(event fsnotify.Event) (string, bool) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return "", false
	}
	if filepath.Dir(event.Name) != filepath.Clean(w.dir) {
		return "", false
	}
	return w.moduleName(filepath.Base(event.Name))
}

func (w *ModuleWatcher) moduleName(base string) (string, bool) {
	if strings.HasPrefix(base, ".") || !strings.HasSuffix(base, moduleFileExt) {
		return "", false
	}
	module := strings.TrimSuffix(base, moduleFileExt)
	if module == "" {
		return "", false
	}
	if len(w.modules) > 0 {
		if _, ok := w.modules[module]; !ok {
			return "", false
		}
	}
	return module, true
}

// schedule (re)starts the debounce timer of module.
func (w *ModuleWatcher) schedule(ctx context.Context, module string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.timers[module]; ok {
		t.Stop()
	}
	w.timers[module] = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		delete(w.timers, module)
		w.mu.Unlock()

		if ctx.Err() == nil {
			w.load(ctx, module)
		}
	})
}

func (w *ModuleWatcher) stopTimers() {
	w.mu.Lock()
	defer w.mu.Unlock()

	for module, t := range w.timers {
		t.Stop()
		delete(w.timers, module)
	}
}

// load reads the file of module and saves it when its content is new.
func (w *ModuleWatcher) load(ctx context.Context, module string) {
	log := w.logger.WithModule(module)

	data, err := os.ReadFile(w.path(module))
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			log.Warn().Err(err).Msg("reading module file failed")
		}
		return
	}
	if !json.Valid(data) {
		log.Warn().Msg("module file is not valid JSON, ignored")
		return
	}
	hash := utils.ContentHash(data)

	w.mu.Lock()
	known, seen := w.hashes[module]
	w.mu.Unlock()
	if seen && known == hash {
		return
	}
	if !seen {
		rec, ok, err := w.store.LoadModule(ctx, module)
		if err != nil {
			log.Warn().Err(err).Msg("loading module record failed")
			return
		}
		if ok && utils.ContentHash(rec.ModuleData) == hash {
			w.remember(module, hash)
			return
		}
	}

	if err := w.store.SaveModule(ctx, module, json.RawMessage(data)); err != nil {
		log.Err(err).Msg("saving module edit failed")
		return
	}
	w.remember(module, hash)
	log.Debug().Str("hash", hash).Msg("module file change saved")
}

// WriteModule writes payload to the file of module. It is meant to be
// registered as the module data callback of the sync engine.
func (w *ModuleWatcher) WriteModule(module string, payload json.RawMessage) {
	if _, ok := w.moduleName(module + moduleFileExt); !ok {
		return
	}
	log := w.logger.WithModule(module)

	// remembered first so the write event is recognized as our own
	w.remember(module, utils.ContentHash(payload))

	tmp, err := os.CreateTemp(w.dir, "."+module+"-*.tmp")
	if err != nil {
		log.Err(err).Msg("creating module file failed")
		return
	}
	_, writeErr := tmp.Write(payload)
	closeErr := tmp.Close()
	if err := errors.Join(writeErr, closeErr); err != nil {
		_ = os.Remove(tmp.Name())
		log.Err(err).Msg("writing module file failed")
		return
	}
	if err := os.Rename(tmp.Name(), w.path(module)); err != nil {
		_ = os.Remove(tmp.Name())
		log.Err(err).Msg("replacing module file failed")
		return
	}
	log.Debug().Msg("module file updated from sync")
}

func (w *ModuleWatcher) remember(module, hash string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.hashes[module] = hash
}

func (w *ModuleWatcher) path(module string) string {
	return filepath.Join(w.dir, module+moduleFileExt)
}
