package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
)

// debounce is the quiet period after the last change before a rerun.
const debounce = 100 * time.Millisecond

func newWatchCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch FILES...",
		Short: "Normalize schema documents again whenever they change",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, files []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, cmd.OutOrStdout(), files)
		},
	}
}

// watch normalizes files once, then again after each change, until ctx is
// done. Failed runs are logged and do not stop the watch.
func (a *app) watch(ctx context.Context, stdout io.Writer, files []string) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("watch: %w", err)
	}
	defer w.Close()

	// Directories are watched since editors often replace files on save.
	watched := make([]string, 0, len(files))
	var dirs []string
	for _, f := range files {
		abs, err := filepath.Abs(f)
		if err != nil {
			return fmt.Errorf("watch: %w", err)
		}
		watched = append(watched, abs)
		if dir := filepath.Dir(abs); !slices.Contains(dirs, dir) {
			dirs = append(dirs, dir)
		}
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
		a.logger.Debug("watching directory", "dir", dir)
	}

	run := func() {
		if err := a.normalize(ctx, stdout, files); err != nil {
			a.logger.Error("normalize failed", "error", err)
		}
	}
	run()

	timer := time.NewTimer(debounce)
	timer.Stop()
	defer timer.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if abs, err := filepath.Abs(ev.Name); err != nil || !slices.Contains(watched, abs) {
				continue
			}
			a.logger.Info("schema file changed", "file", ev.Name)
			timer.Reset(debounce)
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			a.logger.Warn("watch error", "error", err)
		case <-timer.C:
			run()
		}
	}
}
