package config

import (
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// reloadDebounce collapses the burst of events editors produce on save.
const reloadDebounce = 100 * time.Millisecond

// Watcher reloads a settings file whenever it changes on disk and publishes
// the normalized result on Settings. Malformed documents are reported on
// Errors and the previous settings stay in effect.
type Watcher struct {
	watcher  *fsnotify.Watcher
	path     string
	preset   DifficultyPreset
	Settings chan Settings
	Errors   chan error
	closeCh  chan struct{}
	once     sync.Once
}

// NewWatcher watches the directory containing path, since editors often
// replace a file through rename rather than writing it in place.
func NewWatcher(path string, preset DifficultyPreset) (*Watcher, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, err
	}

	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, err
	}

	watcher := &Watcher{
		watcher:  w,
		path:     abs,
		preset:   preset,
		Settings: make(chan Settings, 1),
		Errors:   make(chan error, 1),
		closeCh:  make(chan struct{}),
	}
	go watcher.run()
	return watcher, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.once.Do(func() {
		close(w.closeCh)
		err = w.watcher.Close()
	})
	return err
}

func (w *Watcher) run() {
	var (
		timer   *time.Timer
		pending <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != w.path {
				continue
			}
			// Reload once the burst settles so a truncate-then-write save is
			// read in its final form.
			if timer == nil {
				timer = time.NewTimer(reloadDebounce)
			} else {
				timer.Reset(reloadDebounce)
			}
			pending = timer.C
		case <-pending:
			pending = nil
			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.publishErr(err)
		case <-w.closeCh:
			return
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		w.publishErr(err)
		return
	}
	if w.preset != "" {
		ApplyPreset(&cfg, w.preset)
	}

	// Keep only the newest settings if the consumer is behind.
	select {
	case <-w.Settings:
	default:
	}
	select {
	case w.Settings <- cfg:
	case <-w.closeCh:
	}
}

func (w *Watcher) publishErr(err error) {
	select {
	case w.Errors <- err:
	default:
	}
}
