// Package watch re-runs an install whenever the menu sources change.
package watch

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/arthur-debert/wsltoolbar/pkg/errors"
	"github.com/arthur-debert/wsltoolbar/pkg/logging"
)

// DefaultDebounce batches the burst of events a package manager produces
const DefaultDebounce = 2 * time.Second

// Trigger is called once per settled batch of changes. Its error is logged
// and watching continues.
type Trigger func(ctx context.Context) error

// Watcher watches menu, application and directory-entry directories
type Watcher struct {
	Dirs     []string
	Debounce time.Duration
	OnChange Trigger
}

// relevant reports whether a changed file can affect the generated shortcuts
func relevant(name string) bool {
	switch filepath.Ext(name) {
	case ".desktop", ".directory", ".menu":
		return true
	}
	return filepath.Base(name) == "index.theme"
}

// Run blocks until ctx is done. Directories that do not exist are skipped;
// at least one must be watchable.
func (w *Watcher) Run(ctx context.Context) error {
	logger := logging.GetLogger("watch")

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot start file watcher")
	}
	defer func() {
		if err := fw.Close(); err != nil {
			logger.Warn().Err(err).Msg("Error closing watcher")
		}
	}()

	watched := 0
	for _, dir := range w.Dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			logger.Debug().Str("dir", dir).Msg("Not watching missing directory")
			continue
		}
		if err := fw.Add(dir); err != nil {
			logger.Warn().Err(err).Str("dir", dir).Msg("Cannot watch directory")
			continue
		}
		watched++
	}
	if watched == 0 {
		return errors.New(errors.ErrNotFound, "none of the menu directories can be watched").
			WithDetail("dirs", w.Dirs)
	}
	logger.Info().Int("dirs", watched).Msg("Watching for menu changes")

	debounce := w.Debounce
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	timer := time.NewTimer(debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Debug().Msg("Watch stopped")
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if event.Op == fsnotify.Chmod || !relevant(event.Name) {
				continue
			}
			logger.Trace().Str("path", event.Name).Str("op", event.Op.String()).Msg("Change detected")
			timer.Reset(debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			logger.Warn().Err(err).Msg("Watcher error")

		case <-timer.C:
			logger.Info().Msg("Menu changed, reinstalling")
			if err := w.OnChange(ctx); err != nil {
				logger.Error().Err(err).Msg("Reinstall failed")
			}
		}
	}
}

// Dirs returns the directories whose contents feed the menu: the menu file's
// own directory plus every application and directory-entry dir
func Dirs(menuFile string, groups ...[]string) []string {
	seen := make(map[string]bool)
	var out []string
	add := func(d string) {
		d = strings.TrimRight(d, "/")
		if d != "" && !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	add(filepath.Dir(menuFile))
	for _, g := range groups {
		for _, d := range g {
			add(d)
		}
	}
	return out
}
