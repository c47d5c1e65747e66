package decisions

import (
	"context"
	"path/filepath"

	"github.com/fsnotify/fsnotify"
)

// Watch keeps the index in sync with the decisions directory: decision
// files added while the service runs become resolvable without a restart,
// and removed files stop resolving. Watching stops when ctx is canceled.
func (ix *Index) Watch(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	if err := watcher.Add(ix.root); err != nil {
		_ = watcher.Close()
		return err
	}

	go ix.run(ctx, watcher)
	return nil
}

func (ix *Index) run(ctx context.Context, watcher *fsnotify.Watcher) {
	defer func() {
		_ = watcher.Close()
	}()

	for {
		select {
		case <-ctx.Done():
			return

		case event, ok := <-watcher.Events:
			if !ok {
				return
			}
			if filepath.Ext(event.Name) != ".json" {
				continue
			}
			ix.handleEvent(event)

		case err, ok := <-watcher.Errors:
			if !ok {
				return
			}
			ix.logger.Warn("decision watcher error", "error", err)
		}
	}
}

func (ix *Index) handleEvent(event fsnotify.Event) {
	id := decisionID(event.Name)

	switch {
	case event.Has(fsnotify.Create) || event.Has(fsnotify.Write):
		ix.mu.Lock()
		ix.paths[id] = event.Name
		ix.mu.Unlock()
		ix.logger.Debug("decision indexed", "id", id, "path", event.Name)

	case event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename):
		ix.mu.Lock()
		delete(ix.paths, id)
		ix.mu.Unlock()
		ix.logger.Debug("decision removed from index", "id", id)
	}
}
