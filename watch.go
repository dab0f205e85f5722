package main

import (
	"fmt"
	"log"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

const reloadDebounce = 100 * time.Millisecond

// ConfigWatcher reloads the tuning file when it changes on disk and hands
// every valid version to apply. Invalid edits are logged and skipped.
type ConfigWatcher struct {
	watcher *fsnotify.Watcher
	path    string
	apply   func(Config)
	closeCh chan struct{}
	done    chan struct{}
	once    sync.Once
}

// WatchConfig starts watching path. The parent directory is watched so
// editors that replace the file are picked up.
func WatchConfig(path string, apply func(Config)) (*ConfigWatcher, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("watch config: %w", err)
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}
	if err := w.Add(filepath.Dir(abs)); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch config: %w", err)
	}

	cw := &ConfigWatcher{
		watcher: w,
		path:    abs,
		apply:   apply,
		closeCh: make(chan struct{}),
		done:    make(chan struct{}),
	}
	go cw.run()
	return cw, nil
}

// Close stops the watcher and waits for its goroutine
func (cw *ConfigWatcher) Close() error {
	var err error
	cw.once.Do(func() {
		close(cw.closeCh)
		err = cw.watcher.Close()
		<-cw.done
	})
	return err
}

// run reloads once the file has been quiet for reloadDebounce, so a save
// that arrives as several writes is read only when complete
func (cw *ConfigWatcher) run() {
	defer close(cw.done)
	timer := time.NewTimer(reloadDebounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case event, ok := <-cw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
				continue
			}
			if filepath.Clean(event.Name) != cw.path {
				continue
			}
			timer.Reset(reloadDebounce)
		case <-timer.C:
			cw.reload()
		case err, ok := <-cw.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("config watch: %v", err)
		case <-cw.closeCh:
			return
		}
	}
}

func (cw *ConfigWatcher) reload() {
	cfg, err := LoadConfig(cw.path)
	if err != nil {
		log.Printf("config reload: %v", err)
		return
	}
	log.Printf("config reloaded from %s, applies at next reset", cw.path)
	cw.apply(cfg)
}
