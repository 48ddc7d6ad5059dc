package defaults

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/vineai/website/internal/cms"
)

const watchDebounce = 250 * time.Millisecond

// Watch reloads the defaults in dir whenever a file changes and passes every successful reload to
// onChange. Invalid edits are logged and ignored. Watch blocks until ctx is cancelled.
func Watch(ctx context.Context, dir string, logger *zap.Logger, onChange func(*cms.Defaults)) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("defaults: watcher: %w", err)
	}
	defer watcher.Close()

	for _, p := range []string{dir, filepath.Join(dir, postsDir)} {
		if err := watcher.Add(p); err != nil {
			return fmt.Errorf("defaults: watch %s: %w", p, err)
		}
	}

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			timer.Reset(watchDebounce)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("content watcher error", zap.Error(err))
		case <-timer.C:
			d, err := LoadDir(dir)
			if err != nil {
				logger.Warn("content reload failed", zap.String("dir", dir), zap.Error(err))
				continue
			}
			logger.Info("content reloaded", zap.String("dir", dir), zap.Int("posts", len(d.Posts)))
			onChange(d)
		}
	}
}
