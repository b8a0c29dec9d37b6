// Package watch surfaces external rewrites of the file-backend data
// directory, the multi-process analogue of the browser storage event.
// It only makes concurrent writers observable; it does not serialize them —
// last-write-wins between processes remains an accepted limitation.
package watch

import (
	"context"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/auralis/elysia/internal/kvstore"
)

// KeyCallback is invoked with the storage key of a rewritten document after
// the change has settled.
type KeyCallback func(key string)

// Watch starts an fsnotify watcher on the file backend's data directory and
// processes document change events until ctx is cancelled. Changes are
// debounced per key so a burst of writes yields one callback.
//
// The watcher cannot distinguish this process's own writes from a foreign
// process's; consumers receive store.changed for both and are expected to
// treat it as a cheap "re-read the key" hint.
func Watch(ctx context.Context, dir string, logger *slog.Logger, cb KeyCallback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := w.Add(dir); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("dir", dir))

	const settle = 200 * time.Millisecond
	pending := make(map[string]struct{})
	var flushTimer *time.Timer
	var flushCh <-chan time.Time

	scheduleFlush := func() {
		if flushTimer == nil {
			flushTimer = time.NewTimer(settle)
			flushCh = flushTimer.C
		} else {
			flushTimer.Reset(settle)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if flushTimer != nil {
				flushTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-flushCh:
			for key := range pending {
				logger.Debug("watcher: store changed", slog.String("key", key))
				if cb != nil {
					cb(key)
				}
				delete(pending, key)
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename|fsnotify.Remove) == 0 {
				continue
			}
			// Atomic writes land as a rename from a temp file; the temp
			// file's own events are noise.
			if kvstore.IsTempFile(ev.Name) {
				continue
			}
			key, ok := kvstore.DecodeKey(ev.Name)
			if !ok {
				continue
			}
			pending[key] = struct{}{}
			scheduleFlush()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}
