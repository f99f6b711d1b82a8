package ingest

import (
	"log"
	"os"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watcher watches the import directory and calls onChange after
// writes settle for the debounce period. It coalesces bursts of
// file events into a single callback.
type Watcher struct {
	onChange func()
	fsw      *fsnotify.Watcher
	debounce time.Duration

	mu      sync.Mutex
	lastHit time.Time
	dirty   bool

	stop     chan struct{}
	done     chan struct{}
	stopOnce sync.Once
	now      func() time.Time
}

// NewWatcher creates a watcher over dir. The directory must
// exist; files created inside it later are picked up by the
// directory watch.
func NewWatcher(
	dir string, debounce time.Duration, onChange func(),
) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, err
	}

	return &Watcher{
		onChange: onChange,
		fsw:      fsw,
		debounce: debounce,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
		now:      time.Now,
	}, nil
}

// Start begins processing events in a goroutine.
func (w *Watcher) Start() {
	go w.loop()
}

// Stop stops the watcher and waits for the loop to exit.
func (w *Watcher) Stop() {
	w.stopOnce.Do(func() {
		close(w.stop)
		<-w.done
		w.fsw.Close()
	})
}

func (w *Watcher) loop() {
	defer close(w.done)
	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	for {
		select {
		case <-w.stop:
			return

		case event, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			log.Printf("watcher error: %v", err)

		case <-ticker.C:
			w.flush()
		}
	}
}

// handleEvent marks the directory dirty on writes and creates.
// New subdirectories are added to the watch so nested exports
// are seen too.
func (w *Watcher) handleEvent(event fsnotify.Event) {
	if event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return
	}
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			_ = w.fsw.Add(event.Name)
		}
	}

	w.mu.Lock()
	w.dirty = true
	w.lastHit = w.now()
	w.mu.Unlock()
}

// flush fires onChange once events have settled.
func (w *Watcher) flush() {
	w.mu.Lock()
	ready := w.dirty && w.now().Sub(w.lastHit) >= w.debounce
	if ready {
		w.dirty = false
	}
	w.mu.Unlock()

	if ready {
		log.Printf("watcher: import directory changed, reloading")
		w.onChange()
	}
}
