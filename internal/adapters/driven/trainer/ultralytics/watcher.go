package ultralytics

import (
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/fsnotify/fsnotify"

	"github.com/visionforge/yolotrain-cli/internal/core/ports/driven"
	"github.com/visionforge/yolotrain-cli/internal/logger"
)

// resultsWatcher watches a run's project directory and fires epoch
// callbacks when the trainer appends rows to a results file. The
// trainer creates nested experiment directories, so newly created
// subdirectories are added to the watch set as they appear.
type resultsWatcher struct {
	watcher   *fsnotify.Watcher
	callbacks []driven.EpochCallback

	// emitted tracks how many rows per results file have already been
	// forwarded, so a rewrite-and-append only emits the new rows.
	emitted map[string]int

	done chan struct{}
	wg   sync.WaitGroup
}

// newResultsWatcher creates a watcher rooted at the project directory.
func newResultsWatcher(root string, callbacks []driven.EpochCallback) (*resultsWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &resultsWatcher{
		watcher:   fsw,
		callbacks: callbacks,
		emitted:   make(map[string]int),
		done:      make(chan struct{}),
	}

	// Watch the root and any pre-existing subdirectories.
	walkErr := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil //nolint:nilerr // skip unreadable entries
		}
		if d.IsDir() {
			if addErr := fsw.Add(path); addErr != nil {
				logger.Debug("Watch %s: %v", path, addErr)
			}
		}
		return nil
	})
	if walkErr != nil {
		fsw.Close()
		return nil, walkErr
	}

	return w, nil
}

// Start begins dispatching filesystem events.
func (w *resultsWatcher) Start() {
	w.wg.Add(1)
	go w.loop()
}

// Stop ends event dispatch and waits for the loop to exit.
func (w *resultsWatcher) Stop() {
	close(w.done)
	w.watcher.Close()
	w.wg.Wait()
}

// loop dispatches watcher events until Stop is called.
func (w *resultsWatcher) loop() {
	defer w.wg.Done()

	for {
		select {
		case <-w.done:
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Debug("Results watcher error: %v", err)
		}
	}
}

// handleEvent tracks new directories and forwards new results rows.
func (w *resultsWatcher) handleEvent(event fsnotify.Event) {
	if event.Op&fsnotify.Create != 0 {
		if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
			if err := w.watcher.Add(event.Name); err != nil {
				logger.Debug("Watch %s: %v", event.Name, err)
			}
			return
		}
	}

	if filepath.Base(event.Name) != resultsFileName {
		return
	}
	if event.Op&(fsnotify.Create|fsnotify.Write) == 0 {
		return
	}

	rows, err := parseResults(event.Name)
	if err != nil {
		logger.Debug("Parse %s: %v", event.Name, err)
		return
	}

	for i := w.emitted[event.Name]; i < len(rows); i++ {
		for _, cb := range w.callbacks {
			cb(rows[i])
		}
	}
	w.emitted[event.Name] = len(rows)
}
