// Package watcher notifies when an analyzed input file changes on disk so
// it can be re-submitted.
package watcher

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/vanderheijden86/ccview/pkg/debug"
)

// DefaultPollInterval is the polling interval when fsnotify is unavailable.
const DefaultPollInterval = 2 * time.Second

var (
	ErrFileRemoved    = errors.New("watched file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounceDuration sets the debounce duration.
func WithDebounceDuration(d time.Duration) Option {
	return func(w *Watcher) {
		w.debounceDuration = d
	}
}

// WithPollInterval sets the polling interval for fallback mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		w.pollInterval = d
	}
}

// WithOnChange sets a callback invoked after each debounced change.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) {
		w.onChange = fn
	}
}

// WithOnError sets a callback invoked on watch errors.
func WithOnError(fn func(error)) Option {
	return func(w *Watcher) {
		w.onError = fn
	}
}

// WithForcePoll disables fsnotify and uses stat polling.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) {
		w.forcePoll = force
	}
}

// Watcher monitors one file. It watches the parent directory with fsnotify
// so atomic saves (write to temp, rename) are seen, and falls back to
// polling when fsnotify cannot be set up or CCV_FORCE_POLL is set.
type Watcher struct {
	path             string
	debounceDuration time.Duration
	pollInterval     time.Duration
	onChange         func()
	onError          func(error)
	forcePoll        bool

	fsWatcher *fsnotify.Watcher
	debouncer *Debouncer
	fsType    FilesystemType
	polling   bool
	last      fileState

	cancel   context.CancelFunc
	started  bool
	mu       sync.RWMutex
	changeCh chan struct{}
	done     chan struct{}
}

// New creates a watcher for path. Call Start to begin watching.
func New(path string, opts ...Option) (*Watcher, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		path:             absPath,
		debounceDuration: DefaultDebounceDuration,
		pollInterval:     DefaultPollInterval,
		onChange:         func() {},
		onError:          func(error) {},
		changeCh:         make(chan struct{}, 1),
		done:             make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounceDuration)
	return w, nil
}

// Start begins watching.
func (w *Watcher) Start() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	// A missing file is fine: it may be created later.
	st, err := statFile(w.path)
	if errors.Is(err, os.ErrPermission) {
		return ErrPermission
	}
	w.last = st

	ctx, cancel := context.WithCancel(context.Background())
	w.cancel = cancel
	select {
	case <-w.done:
		w.done = make(chan struct{})
	default:
	}
	w.fsType = detectFilesystemTypeFunc(filepath.Dir(w.path))
	w.polling = w.forcePoll || envBool("CCV_FORCE_POLL") || w.fsType.Remote()
	debug.Log("watcher: %s on %s filesystem, polling=%v", w.path, w.fsType, w.polling)

	if !w.polling {
		fsw, err := fsnotify.NewWatcher()
		if err == nil {
			err = fsw.Add(filepath.Dir(w.path))
			if err != nil {
				fsw.Close()
			}
		}
		if err != nil {
			debug.Log("watcher: fsnotify unavailable for %s, polling: %v", w.path, err)
			w.polling = true
		} else {
			w.fsWatcher = fsw
			go w.watchEvents(ctx, fsw.Events, fsw.Errors)
		}
	}
	if w.polling {
		go w.watchPolling(ctx)
	}

	w.started = true
	return nil
}

// Stop ends watching and closes Done. The Changed channel stays open; a
// receiver should select on Done as well.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsWatcher != nil {
		w.fsWatcher.Close()
		w.fsWatcher = nil
	}
	w.debouncer.Cancel()
	w.started = false
	close(w.done)
}

// Done is closed by Stop. A restarted watcher returns a new channel.
func (w *Watcher) Done() <-chan struct{} {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.done
}

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// FilesystemType returns the classification detected by the last Start.
func (w *Watcher) FilesystemType() FilesystemType {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.fsType
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

// Changed receives after each debounced change. Bursts collapse into one
// pending signal.
func (w *Watcher) Changed() <-chan struct{} {
	return w.changeCh
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}

func (w *Watcher) watchEvents(ctx context.Context, events <-chan fsnotify.Event, errs <-chan error) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-events:
			if !ok {
				return
			}
			if filepath.Base(event.Name) != target {
				continue
			}
			switch {
			case event.Op&fsnotify.Remove != 0:
				w.onError(ErrFileRemoved)
			case event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0:
				w.debouncer.Trigger(w.notifyChange)
			}

		case err, ok := <-errs:
			if !ok {
				return
			}
			w.onError(err)
		}
	}
}

func (w *Watcher) watchPolling(ctx context.Context) {
	ticker := time.NewTicker(w.pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.poll()
		}
	}
}

// fileState is what polling compares between ticks.
type fileState struct {
	exists bool
	mtime  time.Time
	size   int64
}

func statFile(path string) (fileState, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileState{}, err
	}
	return fileState{exists: true, mtime: info.ModTime(), size: info.Size()}, nil
}

func (s fileState) differs(prev fileState) bool {
	return s.exists != prev.exists || s.size != prev.size || s.mtime.After(prev.mtime)
}

// poll compares the file with the previous tick. Removal is reported once;
// a file that reappears counts as a change.
func (w *Watcher) poll() {
	cur, err := statFile(w.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		if errors.Is(err, os.ErrPermission) {
			err = ErrPermission
		}
		w.onError(err)
		return
	}

	w.mu.Lock()
	prev := w.last
	w.last = cur
	w.mu.Unlock()

	switch {
	case prev.exists && !cur.exists:
		w.onError(ErrFileRemoved)
	case cur.exists && cur.differs(prev):
		w.debouncer.Trigger(w.notifyChange)
	}
}

func (w *Watcher) notifyChange() {
	w.mu.RLock()
	started := w.started
	w.mu.RUnlock()
	if !started {
		return
	}

	w.onChange()
	select {
	case w.changeCh <- struct{}{}:
	default:
	}
}
