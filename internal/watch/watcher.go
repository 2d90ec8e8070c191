package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of writes, e.g. an editor saving in several steps
const DefaultDebounce = 300 * time.Millisecond

// ChangeFunc is called with the changed files once a burst of events settles
type ChangeFunc func(ctx context.Context, changed []string) error

// Watcher calls a ChangeFunc when any of a set of files changes
type Watcher struct {
	files    []string
	debounce time.Duration
	onChange ChangeFunc
	// OnError receives watcher and callback errors; they never stop the watcher
	OnError func(error)

	ready chan struct{}
}

// New creates a watcher over files; debounce <= 0 uses DefaultDebounce
func New(files []string, debounce time.Duration, onChange ChangeFunc) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		files:    files,
		debounce: debounce,
		onChange: onChange,
		OnError:  func(error) {},
		ready:    make(chan struct{}),
	}
}

// Ready is closed once the watches are in place
func (w *Watcher) Ready() <-chan struct{} {
	return w.ready
}

// Run watches until ctx is cancelled. Callbacks run on the watching goroutine,
// so regenerations never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fsw.Close()

	// Watch parent directories; editors often replace files instead of writing them
	targets := make(map[string]bool, len(w.files))
	dirs := make(map[string]bool)
	for _, file := range w.files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", file, err)
		}
		targets[abs] = true
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	close(w.ready)

	var (
		timer   *time.Timer
		timerC  <-chan time.Time
		pending = make(map[string]bool)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			abs, err := filepath.Abs(event.Name)
			if err != nil || !targets[abs] {
				continue
			}

			pending[abs] = true
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.debounce)
			}
			timerC = timer.C

		case <-timerC:
			timerC = nil

			changed := make([]string, 0, len(pending))
			for file := range pending {
				changed = append(changed, file)
			}
			sort.Strings(changed)
			pending = make(map[string]bool)

			if err := w.onChange(ctx, changed); err != nil {
				w.OnError(err)
			}

		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			w.OnError(fmt.Errorf("file watcher error: %w", err))
		}
	}
}
