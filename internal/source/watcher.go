package source

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/sietev/posverdad/internal/store"
)

// Watch reloads the collection whenever the file provider's document
// changes, until ctx is cancelled. Events are debounced: editors often
// emit several writes per save, and only the settled document should be
// loaded. Reloads rejected by the store's load gate are retried on the
// next event.
func Watch(ctx context.Context, st *store.Store, f *File, logger *slog.Logger, onReload func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	// Watch the directory, not the file: many editors replace the file
	// on save, which would silently drop a direct watch.
	dir := filepath.Dir(f.path)
	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("path", f.path))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(200 * time.Millisecond)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(200 * time.Millisecond)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			if err := Load(ctx, st, f, logger); err != nil {
				logger.Warn("watcher: reload failed", slog.String("error", err.Error()))
				continue
			}
			if onReload != nil {
				onReload()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(f.path) {
				continue
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 {
				logger.Debug("watcher: document changed", slog.String("op", ev.Op.String()))
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
