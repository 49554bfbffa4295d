package source

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// Watch calls onChange whenever files under the data root change. Bursts of
// events are coalesced: onChange runs once the tree has been quiet for
// debounce. Patch directories created while watching are picked up. Watch
// blocks until ctx is cancelled.
func (d *Dir) Watch(ctx context.Context, debounce time.Duration, onChange func()) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer w.Close()

	if err := w.Add(d.Root); err != nil {
		return fmt.Errorf("watch %s: %w", d.Root, err)
	}
	entries, err := os.ReadDir(d.Root)
	if err != nil {
		return fmt.Errorf("list %s: %w", d.Root, err)
	}
	for _, e := range entries {
		if e.IsDir() {
			if err := w.Add(filepath.Join(d.Root, e.Name())); err != nil {
				d.Logger.Warn().Err(err).Str("dir", e.Name()).Msg("watch patch directory")
			}
		}
	}

	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	pending := false

	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				if fi, err := os.Stat(ev.Name); err == nil && fi.IsDir() {
					if err := w.Add(ev.Name); err != nil {
						d.Logger.Warn().Err(err).Str("dir", ev.Name).Msg("watch new directory")
					}
				}
			}
			if ev.Has(fsnotify.Chmod) && !ev.Has(fsnotify.Write) {
				continue
			}
			d.Logger.Debug().Str("file", ev.Name).Str("op", ev.Op.String()).Msg("data changed")
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(debounce)
			pending = true

		case <-timer.C:
			pending = false
			onChange()

		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			d.Logger.Warn().Err(err).Msg("watcher error")
		}
	}
}
