package server

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/cactus-go/cactus/config"
	"github.com/cactus-go/cactus/site"
)

const rebuildDelay = 300 * time.Millisecond

// builder rebuilds the site after a change.
type builder interface {
	Build(ctx context.Context) (site.Report, error)
}

type watcher struct {
	cfg      *config.Config
	site     builder
	logger   *slog.Logger
	fs       *fsnotify.Watcher
	buildDir string
	delay    time.Duration

	mu    sync.Mutex
	timer *time.Timer
	req   chan struct{}
}

func newWatcher(cfg *config.Config, s builder, logger *slog.Logger) (*watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("fsnotify: %w", err)
	}
	buildDir, err := filepath.Abs(cfg.BuildDir)
	if err != nil {
		_ = fsw.Close()
		return nil, err
	}
	w := &watcher{
		cfg:      cfg,
		site:     s,
		logger:   logger,
		fs:       fsw,
		buildDir: buildDir,
		delay:    rebuildDelay,
		req:      make(chan struct{}, 1),
	}
	for _, dir := range []string{cfg.PagesDir(), cfg.TemplatesDir(), cfg.StaticDir()} {
		if err := w.addDirsRecursive(dir); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// run handles filesystem events until ctx is canceled. Rebuilds run one at a
// time; changes arriving during a rebuild queue exactly one more.
func (w *watcher) run(ctx context.Context) {
	defer w.fs.Close()
	go w.rebuildLoop(ctx)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.fs.Events:
			if !ok {
				return
			}
			w.handle(ev)
		case err, ok := <-w.fs.Errors:
			if !ok {
				return
			}
			w.logger.Warn("watcher error", "error", err)
		}
	}
}

func (w *watcher) handle(ev fsnotify.Event) {
	if w.shouldIgnore(ev.Name) {
		return
	}
	if ev.Has(fsnotify.Create) {
		if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
			_ = w.addDirsRecursive(ev.Name)
		}
	}
	w.logger.Debug("file change detected", "path", ev.Name, "op", ev.Op.String())
	w.trigger()
}

func (w *watcher) trigger() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.delay, func() {
		select {
		case w.req <- struct{}{}:
		default:
		}
	})
}

func (w *watcher) rebuildLoop(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case <-w.req:
			w.logger.Info("change detected, rebuilding site")
			if _, err := w.site.Build(ctx); err != nil {
				w.logger.Warn("rebuild failed", "error", err)
			}
		}
	}
}

func (w *watcher) addDirsRecursive(root string) error {
	if _, err := os.Stat(root); os.IsNotExist(err) {
		return nil
	}
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && w.shouldIgnore(path) {
			return filepath.SkipDir
		}
		if err := w.fs.Add(path); err != nil {
			w.logger.Warn("watch add failed", "dir", path, "error", err)
		}
		return nil
	})
}

// shouldIgnore filters hidden and editor temp files, ignored names and
// anything inside the build directory.
func (w *watcher) shouldIgnore(path string) bool {
	if abs, err := filepath.Abs(path); err == nil {
		if abs == w.buildDir || strings.HasPrefix(abs, w.buildDir+string(filepath.Separator)) {
			return true
		}
	}
	base := filepath.Base(path)
	if w.cfg.IsIgnored(base) {
		return true
	}
	return strings.HasSuffix(base, "~") ||
		strings.HasSuffix(base, ".swp") ||
		strings.HasSuffix(base, ".swx") ||
		(strings.HasPrefix(base, "#") && strings.HasSuffix(base, "#"))
}
