// Package watcher reloads settings when their files change.
//
// Editors usually save by writing a temporary file and renaming it over
// the original, which replaces the inode a file watch would follow. The
// watcher therefore watches the parent directory of every settings file
// and filters events down to the files of interest. Bursts of events are
// debounced into a single handler call.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the watcher waits for a burst of events to
// settle before calling the handler.
const DefaultDebounce = 100 * time.Millisecond

// ErrWatcherClosed is returned when using a closed watcher.
var ErrWatcherClosed = errors.New("watcher is closed")

// Op is a bit set of file operations.
type Op uint32

const (
	// OpCreate indicates a file was created.
	OpCreate Op = 1 << iota
	// OpWrite indicates a file was modified.
	OpWrite
	// OpRemove indicates a file was deleted.
	OpRemove
	// OpRename indicates a file was renamed away.
	OpRename
)

// String returns the operation names joined by '|'.
func (op Op) String() string {
	if op == 0 {
		return "none"
	}
	var s string
	for _, n := range []struct {
		op   Op
		name string
	}{{OpCreate, "create"}, {OpWrite, "write"}, {OpRemove, "remove"}, {OpRename, "rename"}} {
		if op&n.op != 0 {
			if s != "" {
				s += "|"
			}
			s += n.name
		}
	}
	return s
}

// Event represents a change to a watched file.
type Event struct {
	Path string
	Op   Op
	Time time.Time
}

// Handler receives the debounced events for one burst, sorted by path.
type Handler func(ctx context.Context, events []Event)

// Watcher watches settings files through their directories.
type Watcher struct {
	mu      sync.RWMutex
	fsw     *fsnotify.Watcher
	files   map[string]bool
	dirs    map[string]bool
	handler Handler

	debounce time.Duration
	logger   *zap.Logger

	done      chan struct{}
	closeOnce sync.Once
}

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets the debounce duration. Zero calls the handler for
// every event.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) {
		if d >= 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(w *Watcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// New creates a watcher for files. Events start flowing once Run is
// called.
func New(files []string, handler Handler, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		files:    make(map[string]bool),
		dirs:     make(map[string]bool),
		handler:  handler,
		debounce: DefaultDebounce,
		logger:   zap.NewNop(),
		done:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	if err := w.SetFiles(files); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// SetFiles replaces the set of watched files. Directories that no longer
// hold a watched file are dropped. A directory that does not exist is
// skipped and logged.
func (w *Watcher) SetFiles(files []string) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	select {
	case <-w.done:
		return ErrWatcherClosed
	default:
	}

	nextFiles := make(map[string]bool, len(files))
	nextDirs := make(map[string]bool)
	for _, f := range files {
		if f == "" {
			continue
		}
		abs, err := filepath.Abs(f)
		if err != nil {
			return err
		}
		nextFiles[abs] = true
		nextDirs[filepath.Dir(abs)] = true
	}

	for dir := range w.dirs {
		if !nextDirs[dir] {
			if err := w.fsw.Remove(dir); err != nil {
				w.logger.Debug("unwatching settings directory", zap.String("dir", dir), zap.Error(err))
			}
			delete(w.dirs, dir)
		}
	}
	for dir := range nextDirs {
		if w.dirs[dir] {
			continue
		}
		if _, err := os.Stat(dir); err != nil {
			w.logger.Debug("settings directory not watchable", zap.String("dir", dir), zap.Error(err))
			continue
		}
		if err := w.fsw.Add(dir); err != nil {
			return err
		}
		w.dirs[dir] = true
	}
	w.files = nextFiles
	return nil
}

// Files returns the watched files.
func (w *Watcher) Files() []string {
	w.mu.RLock()
	defer w.mu.RUnlock()
	out := make([]string, 0, len(w.files))
	for f := range w.files {
		out = append(out, f)
	}
	sort.Strings(out)
	return out
}

// Run dispatches events until ctx is cancelled or Close is called. The
// handler runs on the Run goroutine, so bursts never overlap.
func (w *Watcher) Run(ctx context.Context) error {
	var (
		timer   *time.Timer
		fire    <-chan time.Time
		pending = make(map[string]Event)
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	flush := func() {
		if len(pending) == 0 {
			return
		}
		events := make([]Event, 0, len(pending))
		for _, ev := range pending {
			events = append(events, ev)
		}
		sort.Slice(events, func(i, j int) bool { return events[i].Path < events[j].Path })
		clear(pending)
		w.handler(ctx, events)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-w.done:
			return nil

		case fsEvent, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			ev, ok := w.translate(fsEvent)
			if !ok {
				continue
			}
			w.logger.Debug("settings file changed", zap.String("path", ev.Path), zap.Stringer("op", ev.Op))
			if prev, seen := pending[ev.Path]; seen {
				ev.Op |= prev.Op
			}
			pending[ev.Path] = ev
			if w.debounce == 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("settings watcher error", zap.Error(err))

		case <-fire:
			fire = nil
			flush()
		}
	}
}

// translate filters an fsnotify event to the watched files.
func (w *Watcher) translate(fsEvent fsnotify.Event) (Event, bool) {
	op := convertOp(fsEvent.Op)
	if op == 0 {
		return Event{}, false
	}
	abs, err := filepath.Abs(fsEvent.Name)
	if err != nil {
		return Event{}, false
	}
	w.mu.RLock()
	watched := w.files[abs]
	w.mu.RUnlock()
	if !watched {
		return Event{}, false
	}
	return Event{Path: abs, Op: op, Time: time.Now()}, true
}

// convertOp drops chmod-only events.
func convertOp(fsOp fsnotify.Op) Op {
	var op Op
	if fsOp.Has(fsnotify.Create) {
		op |= OpCreate
	}
	if fsOp.Has(fsnotify.Write) {
		op |= OpWrite
	}
	if fsOp.Has(fsnotify.Remove) {
		op |= OpRemove
	}
	if fsOp.Has(fsnotify.Rename) {
		op |= OpRename
	}
	return op
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() {
		w.mu.Lock()
		close(w.done)
		w.mu.Unlock()
		err = w.fsw.Close()
	})
	return err
}
