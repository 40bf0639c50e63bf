package main

import (
	"context"
	"io"
	"io/fs"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

const watchDebounce = 500 * time.Millisecond

// watchAndRegenerate watches the input paths and reruns the generator on
// changes to source files, debounced so editor save bursts trigger a single
// regeneration. It returns when ctx is cancelled.
func watchAndRegenerate(ctx context.Context, opts options, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	roots := opts.paths
	if opts.descriptors != "" {
		roots = append(roots, filepath.Dir(opts.descriptors))
	}
	outputDir, _ := filepath.Abs(opts.outputPath)
	for _, root := range roots {
		if err := addDirsRecursive(watcher, strings.TrimSuffix(root, "/..."), outputDir); err != nil {
			return err
		}
	}

	var timer *time.Timer
	regen := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(watchDebounce, func() {
			select {
			case regen <- struct{}{}:
			default:
			}
		})
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !relevantChange(event, outputDir) {
				continue
			}
			log.Debug("source change", slog.String("file", event.Name), slog.String("op", event.Op.String()))
			if event.Op.Has(fsnotify.Create) {
				// New directories need an explicit watch.
				_ = addDirsRecursive(watcher, event.Name, outputDir)
			}
			schedule()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Warn("watch error", slog.String("error", err.Error()))
		case <-regen:
			log.Info("regenerating docs")
			if err := newGenerator(opts, log).run(ctx, io.Discard); err != nil {
				log.Error("regeneration failed", slog.String("error", err.Error()))
			}
		}
	}
}

func relevantChange(event fsnotify.Event, outputDir string) bool {
	abs, err := filepath.Abs(event.Name)
	if err == nil && strings.HasPrefix(abs, outputDir+string(filepath.Separator)) {
		return false
	}
	switch filepath.Ext(event.Name) {
	case ".go", ".json", ".yaml", ".yml":
	default:
		if event.Op.Has(fsnotify.Create) {
			return true
		}
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) ||
		event.Op.Has(fsnotify.Rename) || event.Op.Has(fsnotify.Remove)
}

func addDirsRecursive(watcher *fsnotify.Watcher, root, outputDir string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil || !d.IsDir() {
			return nil
		}
		name := d.Name()
		if strings.HasPrefix(name, ".") && path != root {
			return fs.SkipDir
		}
		abs, err := filepath.Abs(path)
		if err == nil && abs == outputDir {
			return fs.SkipDir
		}
		return watcher.Add(path)
	})
}
