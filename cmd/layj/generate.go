package main

import (
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/generate"
)

func newGenerateCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "generate [paths...]",
		Aliases: []string{"g"},
		Short:   "Generate declarations for every manifest (default command)",
		Long: "Generate declarations for the given manifest files, or for every *.layj.yaml,\n" +
			"*.layj.yml and *.layj.json file found below the given directories\n" +
			"(default: the working directory).",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}
}

func runGenerate(cmd *cobra.Command, opts *rootOptions, args []string) error {
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
	paths, err := resolvePaths(args)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	start := time.Now()
	summary := gen.GenerateAll(cmd.Context(), paths, base)
	printSummary(cmd.OutOrStdout(), summary, time.Since(start))

	if err := summary.Err(); err != nil {
		fmt.Fprintln(cmd.ErrOrStderr(), err)
		return errReported
	}
	return nil
}

// printSummary writes the one-line outcome of a run.
func printSummary(w io.Writer, s *generate.Summary, elapsed time.Duration) {
	p := message.NewPrinter(language.English)
	if s.Files == 0 {
		p.Fprintln(w, "no manifests found")
		return
	}
	p.Fprintf(w, "generated %d types from %d manifests in %v", len(s.Results), s.Files, elapsed.Round(time.Millisecond))
	if failed := s.Failed(); failed > 0 {
		p.Fprintf(w, ", %d failed", failed)
	}
	p.Fprintln(w)
}
