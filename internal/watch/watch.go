// Package watch re-runs a callback whenever the fragments in a directory
// change.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/ariel-frischer/newsbuilder/internal/fragment"
	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long Fragments waits for a burst of events to
// settle before calling back.
const DefaultDebounce = 100 * time.Millisecond

// Fragments calls fn once, then again after every settled burst of
// changes to fragment files in dir, until ctx is cancelled. An error from
// fn stops the watch and is returned.
func Fragments(ctx context.Context, dir string, debounce time.Duration, fn func() error) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}
	if err := fn(); err != nil {
		return err
	}

	// A nil channel blocks until the first relevant event arms the timer.
	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			if isFragmentEvent(event) {
				settle = time.After(debounce)
			}
		case <-settle:
			settle = nil
			if err := fn(); err != nil {
				return err
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return fmt.Errorf("watcher closed")
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}

func isFragmentEvent(event fsnotify.Event) bool {
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) {
		return false
	}
	_, ok := fragment.KindForSuffix(filepath.Ext(event.Name))
	return ok
}
