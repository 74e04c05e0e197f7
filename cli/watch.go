package cli

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Editors often write files in multiple steps.
const debounceDelay = 100 * time.Millisecond

// watchFiles calls onChange after files change, until ctx is done.
func watchFiles(ctx context.Context, files []string, logger *slog.Logger, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	for _, file := range files {
		if err := watcher.Add(file); err != nil {
			logger.Warn("failed to watch file", slog.String("file", file), slog.Any("error", err))
		}
	}

	var debounce <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Remove and Rename are common in atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file changed", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			debounce = time.After(debounceDelay)

		case <-debounce:
			debounce = nil
			// Atomic saves replace the file and drop its watch.
			for _, file := range files {
				_ = watcher.Add(file)
			}
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", slog.Any("error", err))
		}
	}
}
