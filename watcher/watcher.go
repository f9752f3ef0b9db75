// Package watcher watches a drop folder for export files using
// github.com/fsnotify/fsnotify. Exporters usually write a file in several
// chunks, so events are debounced per file and the callback fires once the
// file has been quiet for the debounce interval.
package watcher

import (
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const DefaultDebounce = 200 * time.Millisecond

type Watcher struct {
	Debounce time.Duration
	// Filter selects the file names passed to the callback. nil accepts all.
	Filter func(name string) bool

	fw      *fsnotify.Watcher
	done    chan struct{}
	stopped bool
	mu      sync.Mutex

	timers  map[string]*time.Timer
	tmu     sync.Mutex
	cbMu    sync.Mutex
	pending sync.WaitGroup
}

func NewWatcher() (*Watcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		Debounce: DefaultDebounce,
		fw:       fw,
		done:     make(chan struct{}),
		timers:   map[string]*time.Timer{},
	}, nil
}

// Watch starts monitoring dir (not recursive). onChange is called with the
// path of each created or rewritten file, one call at a time.
func (w *Watcher) Watch(dir string, onChange func(path string)) error {
	absPath, err := filepath.Abs(dir)
	if err != nil {
		return err
	}
	if err := w.fw.Add(absPath); err != nil {
		return err
	}

	go func() {
		for {
			select {
			case event, ok := <-w.fw.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
					continue
				}
				if w.Filter != nil && !w.Filter(filepath.Base(event.Name)) {
					continue
				}
				w.schedule(event.Name, onChange)

			case _, ok := <-w.fw.Errors:
				if !ok {
					return
				}

			case <-w.done:
				return
			}
		}
	}()
	return nil
}

func (w *Watcher) schedule(path string, onChange func(path string)) {
	w.tmu.Lock()
	defer w.tmu.Unlock()
	select {
	case <-w.done:
		return
	default:
	}
	if t, ok := w.timers[path]; ok && t.Stop() {
		t.Reset(w.Debounce)
		return
	}
	w.pending.Add(1)
	var t *time.Timer
	t = time.AfterFunc(w.Debounce, func() {
		defer w.pending.Done()
		w.tmu.Lock()
		if w.timers[path] == t {
			delete(w.timers, path)
		}
		w.tmu.Unlock()

		select {
		case <-w.done:
			return
		default:
		}
		if info, err := os.Stat(path); err != nil || info.IsDir() {
			return
		}
		w.cbMu.Lock()
		defer w.cbMu.Unlock()
		onChange(path)
	})
	w.timers[path] = t
}

// Stop ends monitoring and waits for running callbacks.
// Safe to call multiple times.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if w.stopped {
		w.mu.Unlock()
		return nil
	}
	w.stopped = true
	close(w.done)
	err := w.fw.Close()
	w.mu.Unlock()

	w.tmu.Lock()
	for path, t := range w.timers {
		if t.Stop() {
			w.pending.Done()
		}
		delete(w.timers, path)
	}
	w.tmu.Unlock()
	w.pending.Wait()
	return err
}
