package rconfig

import (
	"sync/atomic"

	"github.com/fsnotify/fsnotify"

	"github.com/ehrlich-b/reversi/internal/logger"
)

// Watcher holds the live config behind an atomic pointer: readers call
// Current() without locking, and a background fsnotify watcher swaps
// the pointer on file changes. The play command calls Current() once,
// after discovery completes, to pick up log-level and session-timeout
// edits for the session about to start; neither discovery nor the
// session driver reads it while running.
type Watcher struct {
	path    string
	current atomic.Pointer[Config]
	watcher *fsnotify.Watcher
}

// NewWatcher loads path once synchronously, then starts watching it
// for changes in the background. If fsnotify can't start (e.g. no
// inotify support), the watcher still works — it just never reloads.
func NewWatcher(path string) (*Watcher, error) {
	cfg, err := Load(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{path: path}
	w.current.Store(&cfg)

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		logger.Warn("config watcher unavailable, live reload disabled", "err", err)
		return w, nil
	}
	w.watcher = fw

	if err := fw.Add(path); err != nil {
		// The file may not exist yet; that's fine, just no reload.
		logger.Debug("config watch add failed", "path", path, "err", err)
	}

	go w.loop()
	return w, nil
}

func (w *Watcher) loop() {
	for {
		select {
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			cfg, err := Load(w.path)
			if err != nil {
				logger.Warn("config reload failed, keeping previous config", "err", err)
				continue
			}
			w.current.Store(&cfg)
			logger.Info("config reloaded", "path", w.path)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("config watcher error", "err", err)
		}
	}
}

// Current returns the most recently loaded config. Safe for
// concurrent use.
func (w *Watcher) Current() Config {
	return *w.current.Load()
}

// Close stops the background watcher.
func (w *Watcher) Close() error {
	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}
