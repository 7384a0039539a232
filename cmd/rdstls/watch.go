package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// newWatchCmd creates the "watch" subcommand for re-synthesizing on changes.
func newWatchCmd() *cobra.Command {
	var (
		debounce     time.Duration
		outputFormat string
		outputFile   string
	)

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-synthesize when the settings or environment file changes",
		Long: `Watch monitors the settings file and the environment file and writes a
fresh template after every change.

Rapid changes are debounced. Invalid settings are reported and the
previous template is left in place.

Examples:
    rdstls watch -o template.json
    rdstls watch --config settings.yaml --debounce 1s`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(cmd.OutOrStdout(), watchOptions{
				debounce:     debounce,
				outputFormat: outputFormat,
				outputFile:   outputFile,
			})
		},
	}

	cmd.Flags().DurationVar(&debounce, "debounce", 500*time.Millisecond, "Debounce duration for rapid changes")
	cmd.Flags().StringVarP(&outputFormat, "format", "f", "json", "Output format: json or yaml")
	cmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output file (default: stdout)")

	return cmd
}

type watchOptions struct {
	debounce     time.Duration
	outputFormat string
	outputFile   string
}

// runWatch watches the input files until interrupted.
func runWatch(w io.Writer, opts watchOptions) error {
	logger := newLogger()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	// Editors replace files on save, so the containing directories are
	// watched and events are filtered by name.
	targets, dirs, err := watchTargets(globals.configPath, globals.envFile)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}
	for target := range targets {
		logger.Info().Str("file", target).Msg("watching")
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(sigChan)

	rebuild(w, opts, logger)

	var debounceTimer *time.Timer
	rebuildChan := make(chan struct{}, 1)

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !isWatchedEvent(event, targets) {
				continue
			}
			logger.Debug().Str("file", event.Name).Str("op", event.Op.String()).Msg("change")

			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(opts.debounce, func() {
				select {
				case rebuildChan <- struct{}{}:
				default:
				}
			})

		case <-rebuildChan:
			logger.Info().Msg("change detected, synthesizing")
			rebuild(w, opts, logger)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Error().Err(err).Msg("watch error")

		case <-sigChan:
			logger.Info().Msg("stopping watch")
			return nil
		}
	}
}

// watchTargets resolves the watched files to absolute paths and returns the
// set of files and their distinct directories.
func watchTargets(paths ...string) (map[string]bool, []string, error) {
	targets := make(map[string]bool)
	var dirs []string
	seen := make(map[string]bool)

	for _, p := range paths {
		if p == "" {
			continue
		}
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, nil, err
		}
		targets[abs] = true

		dir := filepath.Dir(abs)
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}

	if len(targets) == 0 {
		return nil, nil, fmt.Errorf("nothing to watch")
	}
	return targets, dirs, nil
}

// isWatchedEvent reports whether event writes, creates or renames a target.
func isWatchedEvent(event fsnotify.Event, targets map[string]bool) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return targets[abs]
}

// rebuild synthesizes and writes the template, logging instead of failing so
// the watch keeps running.
func rebuild(w io.Writer, opts watchOptions, logger zerolog.Logger) {
	asm, err := synthesize(logger)
	if err != nil {
		logger.Error().Err(err).Msg("synthesis failed")
		return
	}
	data, err := encodeTemplate(asm.Template, opts.outputFormat)
	if err != nil {
		logger.Error().Err(err).Msg("encoding failed")
		return
	}

	if opts.outputFile == "" {
		fmt.Fprintln(w, string(data))
		return
	}
	if err := os.WriteFile(opts.outputFile, data, 0644); err != nil {
		logger.Error().Err(err).Msg("write failed")
		return
	}
	logger.Info().Str("file", opts.outputFile).Int("resources", len(asm.Resources)).Msg("template written")
}
