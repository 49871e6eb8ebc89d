package dictionary

import (
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
)

// watchDebounce coalesces the write bursts editors produce on save.
const watchDebounce = 200 * time.Millisecond

// Watch reloads the dictionary whenever its backing file changes on disk.
// It watches the parent directory since editors commonly replace the file
// by rename. Returns a stop function that releases the watcher.
func (d *Dictionary) Watch() (func(), error) {
	if d.path == "" {
		return nil, errors.New("dictionary has no backing file to watch")
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, errors.Wrap(err, "creating dictionary watcher")
	}

	dir := filepath.Dir(d.path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, errors.Wrapf(err, "watching %s", dir)
	}

	done := make(chan struct{})
	go d.watchLoop(watcher, done)

	log.Debugf("Watching dictionary file %s", d.path)
	return func() {
		close(done)
		watcher.Close()
	}, nil
}

func (d *Dictionary) watchLoop(watcher *fsnotify.Watcher, done chan struct{}) {
	target := filepath.Clean(d.path)
	var timer *time.Timer
	reload := func() {
		if err := d.Reload(); err != nil {
			log.Errorf("Reloading dictionary after file change: %v", err)
		} else {
			log.Debugf("Dictionary reloaded, %d entries", d.Len())
		}
	}

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(watchDebounce, reload)
		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			log.Warnf("Dictionary watcher error: %v", err)
		case <-done:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}
