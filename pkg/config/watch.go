package config

import (
	"context"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	gkerrors "github.com/odvcencio/gridkit/pkg/errors"
	"github.com/odvcencio/gridkit/pkg/ui/theme"
)

// themeDebounce coalesces the burst of events editors produce on save.
const themeDebounce = 50 * time.Millisecond

// WatchTheme reloads the theme file at path whenever it changes and calls
// onChange with the result. Parse failures go to onError and keep the
// previous theme in place. The parent directory is watched so atomic
// rename-on-save is seen. It blocks until ctx is done.
func WatchTheme(ctx context.Context, path string, onChange func(*theme.Theme), onError func(error)) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "create theme watcher")
	}
	defer watcher.Close()

	abs, err := filepath.Abs(path)
	if err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "resolve theme path").WithContext("path", path)
	}
	if err := watcher.Add(filepath.Dir(abs)); err != nil {
		return gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "watch theme directory").WithContext("path", path)
	}

	var timer *time.Timer
	var fire <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil

		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != abs {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(themeDebounce)
			} else {
				timer.Reset(themeDebounce)
			}
			fire = timer.C

		case <-fire:
			fire = nil
			th, err := theme.Load(abs)
			if err != nil {
				if onError != nil {
					onError(err)
				}
				continue
			}
			onChange(th)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			if onError != nil {
				onError(gkerrors.Wrap(err, gkerrors.ErrCodeConfigLoad, "theme watcher"))
			}
		}
	}
}
