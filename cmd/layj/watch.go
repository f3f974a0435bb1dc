package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/watch"
)

func newWatchCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "watch [dir]",
		Aliases: []string{"w"},
		Short:   "Regenerate declarations whenever a manifest changes",
		Long: "Generate everything once, then watch the directory tree (default: the working\n" +
			"directory) and regenerate a manifest whenever it is written.\n\n" +
			"Type r + Enter to regenerate everything with type changes accepted, q + Enter to quit.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			root := "."
			if len(args) == 1 {
				root = args[0]
			}
			return runWatch(cmd, opts, root)
		},
	}
}

func runWatch(cmd *cobra.Command, opts *rootOptions, root string) error {
	cfg := config.Load()
	cleanup, err := opts.setupLogging(cfg)
	if err != nil {
		return fmt.Errorf("setting up logging: %w", err)
	}
	defer cleanup()

	base, err := opts.baseLayer(cmd)
	if err != nil {
		return err
	}
	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	regenerateAll := func(ctx context.Context, force bool) error {
		layer := base
		if force {
			layer = config.Merge(base, map[string]any{config.KeyThrowOnTypeChange: false})
		}
		paths, err := resolvePaths([]string{root})
		if err != nil {
			return err
		}
		start := time.Now()
		summary := gen.GenerateAll(ctx, paths, layer)
		printSummary(out, summary, time.Since(start))
		return summary.Err()
	}

	// Failures of the first run are reported; watching starts regardless.
	_ = regenerateAll(cmd.Context(), false)

	// Interactive commands only make sense on a terminal.
	var input io.Reader
	if fd := os.Stdin.Fd(); isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd) {
		input = os.Stdin
	}

	w := watch.New(root, watch.Options{
		RegenerateFile: func(ctx context.Context, path string) error {
			results, err := gen.GenerateFile(ctx, path, base)
			fmt.Fprintf(out, "%s: regenerated %d types\n", path, len(results))
			return err
		},
		RegenerateAll: regenerateAll,
		Input:         input,
	})
	return w.Run(cmd.Context())
}
