package watch

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/LegacyCodeHQ/projectimport/connection"
	"github.com/LegacyCodeHQ/projectimport/settings"
)

const debounceInterval = 300 * time.Millisecond

var skippedDirs = map[string]bool{
	".git":         true,
	"node_modules": true,
	"build":        true,
	"out":          true,
	".gradle":      true,
	".idea":        true,
	".vscode":      true,
}

// buildFileNames are watched regardless of their extension.
var buildFileNames = map[string]bool{
	"gradle.properties": true,
	settings.FileName:   true,
}

var buildFileSuffixes = []string{".gradle", ".gradle.kts"}

var snapshotExtensions = map[string]bool{
	".yaml": true,
	".yml":  true,
	".json": true,
}

// watchAndReimport calls reimport after build files under root stop changing
// for debounceInterval. It returns when ctx is done.
func watchAndReimport(ctx context.Context, root string, logger *slog.Logger, reimport func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := addWatchDirs(watcher, root); err != nil {
		return err
	}

	var debounceTimer *time.Timer
	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}

			if event.Has(fsnotify.Create) {
				addIfDirectory(watcher, event.Name)
			}
			if !isRelevantChange(event) {
				continue
			}
			logger.Debug("build file changed", "path", event.Name, "op", event.Op.String())

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceInterval, reimport)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", "error", err)
		}
	}
}

func isRelevantChange(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	return isBuildFile(event.Name)
}

func isBuildFile(path string) bool {
	name := filepath.Base(path)
	if buildFileNames[name] {
		return true
	}
	for _, suffix := range buildFileSuffixes {
		if strings.HasSuffix(name, suffix) {
			return true
		}
	}
	return filepath.Base(filepath.Dir(path)) == connection.SnapshotDir && snapshotExtensions[filepath.Ext(name)]
}

func addWatchDirs(watcher *fsnotify.Watcher, root string) error {
	return addWatchDirsWithAdder(root, watcher.Add)
}

// addWatchDirsWithAdder registers root and every directory below it that is
// not skipped. Directories that vanish during the walk are ignored.
func addWatchDirsWithAdder(root string, add func(string) error) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skippedDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := add(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return err
		}
		return nil
	})
}

func addIfDirectory(watcher *fsnotify.Watcher, path string) {
	info, err := os.Stat(path)
	if err != nil {
		return
	}
	if info.IsDir() {
		_ = addWatchDirs(watcher, path)
	}
}
