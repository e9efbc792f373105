package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/hairizuan-noorazman/runnerconf/logger"
	"github.com/hairizuan-noorazman/runnerconf/runner"
	"github.com/spf13/cobra"
)

// watchDebounce absorbs the burst of events editors emit for a single save.
const watchDebounce = 200 * time.Millisecond

func newExportCmd() *cobra.Command {
	var outPath, format string
	var watch bool

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the rendered configuration for the runner to read",
		Example: `  runnerconf export --out runner.config.json
  runnerconf export --config runnerconf.yaml --watch`,
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := runner.ParseFormat(format)
			if err != nil {
				return err
			}
			log := newLogger()

			if err := exportOnce(outPath, f, log); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", outPath)

			if !watch {
				return nil
			}

			source := configFileUsed()
			if source == "" {
				return fmt.Errorf("--watch requires a config file")
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			fmt.Fprintf(cmd.OutOrStdout(), "watching %s for changes (press Ctrl+C to stop)\n", source)
			return watchConfig(ctx, source, func() {
				if err := exportOnce(outPath, f, log); err != nil {
					log.Error(ctx, "export failed", logger.Fields{"error": err.Error()})
					return
				}
				fmt.Fprintf(cmd.OutOrStdout(), "config changed, wrote %s\n", outPath)
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "runner.config.json", "output file")
	cmd.Flags().StringVarP(&format, "format", "f", "json", "output format: json or yaml")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-export whenever the config file changes")
	return cmd
}

func exportOnce(outPath string, format runner.Format, log logger.Logger) error {
	cfg, err := loadRunnerConfig(log)
	if err != nil {
		return err
	}
	data, err := runner.Render(cfg, format)
	if err != nil {
		return err
	}
	if format == runner.FormatJSON {
		if err := runner.ValidateDocument(data); err != nil {
			return err
		}
	}

	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(outPath, data, 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}
	return nil
}

// watchConfig calls onChange after each debounced write to file until ctx is done.
// The parent directory is watched so editors that replace the file on save are seen.
func watchConfig(ctx context.Context, file string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer watcher.Close()

	target, err := filepath.Abs(file)
	if err != nil {
		return err
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", file, err)
	}

	var debounce *time.Timer
	defer func() {
		if debounce != nil {
			debounce.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			name, err := filepath.Abs(event.Name)
			if err != nil || name != target {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			if debounce != nil {
				debounce.Stop()
			}
			debounce = time.AfterFunc(watchDebounce, onChange)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("file watcher: %w", err)
		}
	}
}
