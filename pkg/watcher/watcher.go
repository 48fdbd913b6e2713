// Package watcher reports changes to a dataset file.
//
// It watches the file's directory with fsnotify, so editors that save by
// writing a temp file and renaming it are still seen, and falls back to
// polling the file's size and mtime when fsnotify is unavailable or when
// WELLPICK_FORCE_POLL is set (useful on network mounts).
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

	"github.com/vanderheijden86/wellpick/pkg/debug"
)

// ForcePollEnvVar forces polling mode when set to a truthy value.
const ForcePollEnvVar = "WELLPICK_FORCE_POLL"

// DefaultPollInterval is the stat interval in polling mode.
const DefaultPollInterval = time.Second

var (
	ErrFileRemoved    = errors.New("dataset file was removed")
	ErrPermission     = errors.New("permission denied")
	ErrAlreadyStarted = errors.New("watcher already started")
)

// Option configures a Watcher.
type Option func(*Watcher)

// WithDebounce sets how long the file must be quiet before a change is
// reported.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithPollInterval sets the stat interval for polling mode.
func WithPollInterval(d time.Duration) Option {
	return func(w *Watcher) {
		if d > 0 {
			w.pollInterval = d
		}
	}
}

// WithForcePoll skips fsnotify entirely.
func WithForcePoll(force bool) Option {
	return func(w *Watcher) { w.forcePoll = force }
}

// WithOnChange registers a callback run after each debounced change, in
// addition to the Changed channel.
func WithOnChange(fn func()) Option {
	return func(w *Watcher) { w.onChange = fn }
}

// Watcher monitors a single dataset file.
type Watcher struct {
	path         string
	debounce     time.Duration
	pollInterval time.Duration
	forcePoll    bool
	onChange     func()

	mu        sync.RWMutex
	started   bool
	polling   bool
	cancel    context.CancelFunc
	fsw       *fsnotify.Watcher
	debouncer *Debouncer
	stamp     fileStamp

	changed chan struct{}
	errs    chan error
}

type fileStamp struct {
	mtime time.Time
	size  int64
}

func (s fileStamp) exists() bool { return !s.mtime.IsZero() }

// New creates a watcher for path. Nothing is watched until Start.
func New(path string, opts ...Option) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		path:         abs,
		debounce:     DefaultDebounceDuration,
		pollInterval: DefaultPollInterval,
		onChange:     func() {},
		changed:      make(chan struct{}, 1),
		errs:         make(chan error, 1),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.debouncer = NewDebouncer(w.debounce)
	return w, nil
}

// Start begins watching. The watcher stops when ctx is cancelled or Stop is
// called.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}

	stamp, err := statFile(w.path)
	if err != nil && !errors.Is(err, os.ErrNotExist) {
		if errors.Is(err, os.ErrPermission) {
			return ErrPermission
		}
		return err
	}
	w.stamp = stamp

	ctx, w.cancel = context.WithCancel(ctx)
	w.polling = w.forcePoll || envBool(ForcePollEnvVar)
	debug.LogIf(w.polling, "watcher: polling forced for %s", w.path)
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
			w.fsw = fsw
			go w.runEvents(ctx, fsw)
		}
	}
	if w.polling {
		go w.runPolling(ctx)
	}

	w.started = true
	debug.Log("watcher: watching %s (polling=%v)", w.path, w.polling)
	return nil
}

// Stop ends watching. The Changed and Errors channels stay open so a
// pending receive never sees a spurious close.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()

	if !w.started {
		return
	}
	w.cancel()
	if w.fsw != nil {
		w.fsw.Close()
		w.fsw = nil
	}
	w.debouncer.Cancel()
	w.started = false
}

// Changed receives once per debounced burst of changes.
func (w *Watcher) Changed() <-chan struct{} { return w.changed }

// Errors receives watch errors such as ErrFileRemoved. Errors are dropped
// while a previous one is still unread.
func (w *Watcher) Errors() <-chan error { return w.errs }

// Path returns the absolute watched path.
func (w *Watcher) Path() string { return w.path }

// IsPolling reports whether the watcher fell back to polling.
func (w *Watcher) IsPolling() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.polling
}

// IsStarted reports whether the watcher is running.
func (w *Watcher) IsStarted() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.started
}

func (w *Watcher) runEvents(ctx context.Context, fsw *fsnotify.Watcher) {
	target := filepath.Base(w.path)
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if filepath.Base(ev.Name) != target {
				continue
			}
			switch {
			case ev.Has(fsnotify.Remove):
				w.report(ErrFileRemoved)
			case ev.Has(fsnotify.Write), ev.Has(fsnotify.Create), ev.Has(fsnotify.Rename):
				w.debouncer.Trigger(w.notify)
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.report(err)
		}
	}
}

func (w *Watcher) runPolling(ctx context.Context) {
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

func (w *Watcher) poll() {
	stamp, err := statFile(w.path)

	w.mu.Lock()
	prev := w.stamp
	if err == nil || errors.Is(err, os.ErrNotExist) {
		w.stamp = stamp
	}
	w.mu.Unlock()

	switch {
	case errors.Is(err, os.ErrNotExist):
		if prev.exists() {
			w.report(ErrFileRemoved)
		}
	case errors.Is(err, os.ErrPermission):
		w.report(ErrPermission)
	case err != nil:
		w.report(err)
	case stamp != prev:
		w.debouncer.Trigger(w.notify)
	}
}

func (w *Watcher) notify() {
	if !w.IsStarted() {
		return
	}
	debug.Log("watcher: %s changed", w.path)
	w.onChange()
	select {
	case w.changed <- struct{}{}:
	default:
	}
}

func (w *Watcher) report(err error) {
	debug.Log("watcher: %s: %v", w.path, err)
	select {
	case w.errs <- err:
	default:
	}
}

func statFile(path string) (fileStamp, error) {
	info, err := os.Stat(path)
	if err != nil {
		return fileStamp{}, err
	}
	return fileStamp{mtime: info.ModTime(), size: info.Size()}, nil
}

func envBool(name string) bool {
	switch strings.ToLower(strings.TrimSpace(os.Getenv(name))) {
	case "1", "true", "yes", "y", "on":
		return true
	default:
		return false
	}
}
