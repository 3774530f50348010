package task

import (
	"os"
	"strings"
	"sync"
	"time"
)

// FileWatcher polls file modification times and calls onChange for each
// file that changed, appeared, or disappeared since the previous scan.
type FileWatcher struct {
	Paths    []string
	Interval time.Duration
	onChange func(string) // called with the path that changed

	stopCh   chan struct{}
	stopOnce sync.Once

	mu        sync.Mutex
	lastMTime map[string]time.Time // zero time: file absent
}

// NewFileWatcher creates a watcher for given paths and interval.
func NewFileWatcher(paths []string, interval time.Duration, onChange func(string)) *FileWatcher {
	if interval <= 0 {
		interval = 2 * time.Second
	}
	return &FileWatcher{
		Paths:     paths,
		Interval:  interval,
		onChange:  onChange,
		stopCh:    make(chan struct{}),
		lastMTime: make(map[string]time.Time),
	}
}

// WatchLoader invalidates l whenever the default file or a file behind one
// of keys ("task" or "task/variant") changes.
func WatchLoader(l *Loader, interval time.Duration, onChange func(string), keys ...string) *FileWatcher {
	var paths []string
	seen := map[string]bool{}
	add := func(ps []string) {
		for _, p := range ps {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	add(l.WatchedFiles("", ""))
	for _, k := range keys {
		t, v, _ := strings.Cut(k, "/")
		add(l.WatchedFiles(t, v))
	}
	return NewFileWatcher(paths, interval, func(p string) {
		l.Invalidate()
		if onChange != nil {
			onChange(p)
		}
	})
}

// Start primes the mtimes, then polls in a goroutine until Stop.
func (w *FileWatcher) Start() {
	w.Scan(true)
	ticker := time.NewTicker(w.Interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				w.Scan(false)
			case <-w.stopCh:
				return
			}
		}
	}()
}

// Stop terminates the watcher. Safe to call more than once.
func (w *FileWatcher) Stop() {
	w.stopOnce.Do(func() { close(w.stopCh) })
}

// Scan checks every path once. With prime set it only records mtimes.
func (w *FileWatcher) Scan(prime bool) {
	w.mu.Lock()
	var changed []string
	for _, p := range w.Paths {
		var mt time.Time
		if fi, err := os.Stat(p); err == nil {
			mt = fi.ModTime()
		}
		last, ok := w.lastMTime[p]
		w.lastMTime[p] = mt
		if !ok || prime {
			continue
		}
		if !mt.Equal(last) {
			changed = append(changed, p)
		}
	}
	w.mu.Unlock()

	// callbacks run outside the lock so they may call Scan
	if w.onChange != nil {
		for _, p := range changed {
			w.onChange(p)
		}
	}
}
