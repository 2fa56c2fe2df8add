package config

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Watch reloads the options file every time it is written and passes valid
// results to fn. Invalid files are logged and skipped. Blocks until ctx is
// done.
func Watch(ctx context.Context, path string, fn func(*Options)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, "Failed to create watcher")
	}
	defer watcher.Close()

	// editors often replace the file, so watch the directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return errors.Wrapf(err, "Failed to watch %q", path)
	}
	name := filepath.Clean(path)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != name || ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			o, err := Load(path)
			if err != nil {
				log.WithFields(log.Fields{"module": "config", "path": path}).Warnf("reload skipped: %v", err)
				continue
			}
			log.WithFields(log.Fields{"module": "config", "path": path}).Info("options reloaded")
			fn(o)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.WithField("module", "config").Errorf("watcher: %v", err)
		}
	}
}
