package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/gofrs/flock"
	"github.com/kpango/glg"
	"github.com/spf13/cobra"

	"github.com/binzume/spineconv/source"
	"github.com/binzume/spineconv/watcher"
)

const lockFileName = ".spineconv.lock"

var ErrWatchLocked = errors.New("another spineconv watcher is using this output directory")

func (a *app) newWatchCommand() *cobra.Command {
	var debounce time.Duration
	var existing bool
	cmd := &cobra.Command{
		Use:   "watch dir",
		Short: "Convert export files as they are dropped into dir",
		Long: "Watch dir for *.json files and convert each one when it has been written.\n" +
			"Files are dispatched by name like the default command. Outputs written to\n" +
			"the watched directory are picked up again, so a bundled export dropped there\n" +
			"ends up as .atlas and .skel files.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("debounce") {
				a.conf.Watch.Debounce = debounce
			}
			if cmd.Flags().Changed("existing") {
				a.conf.Watch.Existing = existing
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0])
		},
	}
	cmd.Flags().DurationVar(&debounce, "debounce", watcher.DefaultDebounce, "quiet period before a file is converted")
	cmd.Flags().BoolVar(&existing, "existing", false, "convert files already in dir on start")
	return cmd
}

func (a *app) watch(ctx context.Context, dir string) error {
	conf := *a.conf
	// a file dropped again replaces its previous outputs
	conf.Overwrite = true
	outDir := conf.OutputDir
	if outDir == "" {
		outDir = dir
	}
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}

	lock := flock.New(filepath.Join(outDir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return ErrWatchLocked
	}
	defer lock.Unlock()

	r := newRunner(&conf, modeAuto)
	handle := func(path string) {
		in := &source.Input{Name: filepath.Base(path), Path: path, OutDir: filepath.Dir(path)}
		if _, err := r.processInput(in); err != nil {
			logFailure(in.Name, err)
		}
	}

	if conf.Watch.Existing {
		src, err := source.Open(dir)
		if err != nil {
			return err
		}
		for _, in := range src.Inputs() {
			if filepath.Dir(in.Path) == filepath.Clean(dir) {
				handle(in.Path)
			}
		}
		src.Close()
	}

	w, err := watcher.NewWatcher()
	if err != nil {
		return err
	}
	if conf.Watch.Debounce > 0 {
		w.Debounce = conf.Watch.Debounce
	}
	w.Filter = source.IsExportFile
	if err := w.Watch(dir, handle); err != nil {
		w.Stop()
		return err
	}
	glg.Infof("watching %s (output: %s)", dir, outDir)

	<-ctx.Done()
	glg.Info("stopping watcher")
	return w.Stop()
}
