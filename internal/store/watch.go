package store

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is the quiet period the watcher waits for before reloading.
const DefaultDebounce = 250 * time.Millisecond

// Watch reloads the store whenever another process rewrites its files. The
// returned channel receives one value per reload that actually changed the
// in-memory state and is closed when ctx is done or the watcher fails.
// Writes made through this Store reload to identical state and are not reported.
func (s *Store) Watch(ctx context.Context, debounce time.Duration) (<-chan Event, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("store: create watcher: %w", err)
	}
	if err := watcher.Add(s.dir); err != nil {
		_ = watcher.Close()
		return nil, fmt.Errorf("store: watch %s: %w", s.dir, err)
	}

	events := make(chan Event, 8)
	var (
		mu    sync.Mutex
		timer *time.Timer
		wg    sync.WaitGroup
	)

	reload := func() {
		defer wg.Done()
		changed, err := s.Reload()
		if err != nil {
			slog.Warn("store reload failed", "dir", s.dir, "error", err)
			return
		}
		if !changed {
			return
		}
		select {
		case events <- Event{Kind: EventReloaded}:
		case <-ctx.Done():
		}
	}

	go func() {
		defer close(events)
		defer func() {
			mu.Lock()
			if timer != nil && timer.Stop() {
				wg.Done()
			}
			mu.Unlock()
			wg.Wait()
		}()
		defer func() { _ = watcher.Close() }()

		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-watcher.Events:
				if !ok {
					return
				}
				if !relevant(ev) {
					continue
				}
				mu.Lock()
				if timer != nil && timer.Stop() {
					wg.Done()
				}
				wg.Add(1)
				timer = time.AfterFunc(debounce, reload)
				mu.Unlock()
			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				slog.Warn("store watcher error", "dir", s.dir, "error", err)
			}
		}
	}()

	return events, nil
}

func relevant(ev fsnotify.Event) bool {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
		return false
	}
	switch strings.TrimSpace(filepath.Base(ev.Name)) {
	case keyQueues, keyMessageFiles, keyView:
		return true
	default:
		return false
	}
}
