package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/gyaneshwarpardhi/circuitlab/internal/config"
	"github.com/gyaneshwarpardhi/circuitlab/internal/engine"
	"github.com/gyaneshwarpardhi/circuitlab/internal/logging"
	"github.com/gyaneshwarpardhi/circuitlab/internal/report"
	"github.com/gyaneshwarpardhi/circuitlab/internal/validate"
)

func newWatchCmd(opts *globalOpts) *cobra.Command {
	var variant string
	cmd := &cobra.Command{
		Use:   "watch [FILE]",
		Short: "Re-validate whenever a snapshot or the circuit library changes",
		Long: `With FILE, re-validate that snapshot on every save. Without it, re-check
the circuit library given by --config whenever it changes. Runs until
interrupted.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rd, err := renderer(opts)
			if err != nil {
				return err
			}
			ctx, cancel := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer cancel()

			if len(args) == 1 {
				v, err := validate.ParseVariant(variant)
				if err != nil {
					return err
				}
				return watchSnapshot(ctx, cmd.OutOrStdout(), rd, args[0], v)
			}
			return watchLibrary(ctx, cmd.OutOrStdout(), rd, opts.configPath)
		},
	}
	cmd.Flags().StringVar(&variant, "variant", string(validate.VariantLED), "Rule set for FILE: led or vehicle")
	return cmd
}

func watchSnapshot(ctx context.Context, w io.Writer, rd report.Renderer, path string, v validate.Variant) error {
	logger := logging.FromContext(ctx)
	eng := engine.New(ctx, config.DefaultEngineConf(), logger)
	defer eng.Shutdown()

	pass := func() {
		o, err := validateFile(ctx, eng, path, v)
		if err != nil {
			logger.Warn("validation failed", "path", path, "error", err)
			return
		}
		if err := rd.Outcome(w, o); err != nil {
			logger.Warn("render failed", "error", err)
		}
	}
	changes, stop, err := watchFile(ctx, path)
	if err != nil {
		return err
	}
	defer stop()
	logger.Info("watching snapshot", "path", path, "variant", v)

	pass()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-changes:
			pass()
		}
	}
}

func watchLibrary(ctx context.Context, w io.Writer, rd report.Renderer, path string) error {
	logger := logging.FromContext(ctx)
	loader, err := config.NewLoader(path, logger)
	if err != nil {
		return err
	}

	pass := func(cfg *config.LibraryConfig) {
		err := checkLibrary(ctx, w, rd, cfg.Engine, cfg.Circuits, false)
		if err != nil {
			logger.Warn("library check reported problems", "error", err)
		}
	}
	reloaded := make(chan struct{}, 1)
	loader.OnChange(func(*config.LibraryConfig) {
		select {
		case reloaded <- struct{}{}:
		default:
		}
	})
	stop, err := loader.Watch()
	if err != nil {
		return err
	}
	defer stop()
	logger.Info("watching library", "path", path)

	pass(loader.Config())
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-reloaded:
			pass(loader.Config())
		}
	}
}

// watchFile signals on changes whenever path is written or re-created. Bursts
// of events collapse into one pending signal.
func watchFile(ctx context.Context, path string) (<-chan struct{}, func(), error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, nil, fmt.Errorf("snapshot watcher: %w", err)
	}
	dir := filepath.Dir(path)
	if err := w.Add(dir); err != nil {
		w.Close()
		return nil, nil, fmt.Errorf("snapshot watcher add %s: %w", dir, err)
	}
	target := filepath.Clean(path)
	logger := logging.FromContext(ctx)

	changes := make(chan struct{}, 1)
	done := make(chan struct{})
	go func() {
		defer w.Close()
		for {
			select {
			case ev, ok := <-w.Events:
				if !ok {
					return
				}
				if filepath.Clean(ev.Name) != target {
					continue
				}
				if ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) {
					select {
					case changes <- struct{}{}:
					default:
					}
				}
			case err, ok := <-w.Errors:
				if !ok {
					return
				}
				logger.Warn("snapshot watcher error", "error", err)
			case <-done:
				return
			case <-ctx.Done():
				return
			}
		}
	}()
	return changes, func() { close(done) }, nil
}
