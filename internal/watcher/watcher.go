// Package watcher observes a render drop folder for newly generated
// video files and keeps a list of recent arrivals for the UI to offer
// as import candidates.
package watcher

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/shotplan/shotplan/internal/logging"
	"github.com/shotplan/shotplan/internal/media"
)

// Arrival is one video file seen landing in the watch folder.
type Arrival struct {
	Path   string    `json:"path"`
	SeenAt time.Time `json:"seenAt"`
}

// maxArrivals bounds the retained arrival list; older entries are
// dropped first.
const maxArrivals = 200

// Watcher tails a single directory with fsnotify. Renders are written
// by external tools, so both create and rename events are considered;
// rename events also fire for the old path of a file moved away, so a
// path is only recorded when it still exists on disk.
type Watcher struct {
	logger *slog.Logger

	mu       sync.Mutex
	arrivals map[string]time.Time
}

func New(logger *slog.Logger) *Watcher {
	w := &Watcher{arrivals: make(map[string]time.Time)}
	if logger != nil {
		w.logger = logging.WithComponent(logger, "watcher")
	}
	return w
}

// Watch blocks until ctx is done, recording video files that appear
// under dir.
func (w *Watcher) Watch(ctx context.Context, dir string) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer fsw.Close()

	if err := fsw.Add(dir); err != nil {
		return err
	}
	if w.logger != nil {
		w.logger.Info("watching for incoming videos", "dir", logging.SanitizePath(dir))
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
				continue
			}
			if !media.IsVideo(event.Name) {
				continue
			}
			if _, err := os.Stat(event.Name); err != nil {
				continue
			}
			w.record(event.Name)
			if w.logger != nil {
				w.logger.Info("incoming video", "file", filepath.Base(event.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			if w.logger != nil {
				w.logger.Warn("watch error", "error", err)
			}
		}
	}
}

func (w *Watcher) record(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.arrivals[path] = time.Now()
	if len(w.arrivals) > maxArrivals {
		oldest, oldestAt := "", time.Time{}
		for p, at := range w.arrivals {
			if oldest == "" || at.Before(oldestAt) {
				oldest, oldestAt = p, at
			}
		}
		delete(w.arrivals, oldest)
	}
}

// Incoming returns recorded arrivals, newest first.
func (w *Watcher) Incoming() []Arrival {
	w.mu.Lock()
	defer w.mu.Unlock()
	out := make([]Arrival, 0, len(w.arrivals))
	for p, at := range w.arrivals {
		out = append(out, Arrival{Path: p, SeenAt: at})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].SeenAt.After(out[j].SeenAt) })
	return out
}

// Clear forgets all recorded arrivals, typically after an import.
func (w *Watcher) Clear() {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.arrivals = make(map[string]time.Time)
}
