package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/generate"
	"github.com/usestring/layj/internal/logging"
	"github.com/usestring/layj/internal/manifest"
	"github.com/usestring/layj/internal/query"
)

// errReported marks failures that were already printed as part of a summary.
var errReported = errors.New("generation failed")

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	outDir       string
	snapshotsDir string
	confPath     string
	force        bool
	useXOR       bool
	jsDoc        bool
	jsonSchema   bool
	noSnapshots  bool
	logLevel     string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "layj",
		Short: "Generate type declarations from example values",
		Long: "layj infers TypeScript (or JSDoc) declarations from example values listed in\n" +
			"*.layj.yaml manifests, and guards them with snapshots so that a change in the\n" +
			"shape of the data fails the build until it is accepted with --f.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Args:          cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runGenerate(cmd, opts, args)
		},
	}

	flags := cmd.PersistentFlags()
	flags.StringVar(&opts.outDir, "outDir", "", "directory for generated declarations (default \"types\")")
	flags.StringVar(&opts.snapshotsDir, "snapshotsDir", "", "directory for snapshots (default \"snapshots\")")
	flags.StringVar(&opts.confPath, "conf", "", "config file (default: layj.config.yaml in the working directory, if any)")
	flags.BoolVar(&opts.force, "f", false, "accept type changes: overwrite snapshots instead of failing")
	flags.BoolVar(&opts.useXOR, "useXOR", false, "render unions as mutually exclusive XOR<a,b>")
	flags.BoolVar(&opts.jsDoc, "jsDoc", false, "write JSDoc @typedef files instead of TypeScript")
	flags.BoolVar(&opts.jsonSchema, "jsonSchema", false, "also write a JSON Schema document per type")
	flags.BoolVar(&opts.noSnapshots, "noSnapshots", false, "neither check nor write snapshots")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error (default: LOG_LEVEL or info)")

	cmd.AddCommand(
		newGenerateCmd(opts),
		newWatchCmd(opts),
		newMCPCmd(opts),
	)

	cmd.InitDefaultHelpCmd()
	for _, c := range cmd.Commands() {
		if c.Name() == "help" {
			c.Aliases = append(c.Aliases, "h")
		}
	}

	return cmd
}

// flagLayer returns the params set explicitly on the command line.
func (o *rootOptions) flagLayer(cmd *cobra.Command) map[string]any {
	layer := map[string]any{}
	flags := cmd.Flags()

	if flags.Changed("outDir") {
		layer[config.KeyOutDir] = o.outDir
	}
	if flags.Changed("snapshotsDir") {
		layer[config.KeySnapshotsDir] = o.snapshotsDir
	}
	if flags.Changed("useXOR") {
		layer[config.KeyUseXOR] = o.useXOR
	}
	if flags.Changed("jsDoc") {
		layer[config.KeyJSDoc] = o.jsDoc
	}
	if flags.Changed("jsonSchema") {
		layer[config.KeyJSONSchema] = o.jsonSchema
	}
	if o.noSnapshots {
		layer[config.KeySnapshot] = false
	}
	if o.force {
		layer[config.KeyThrowOnTypeChange] = false
	}
	return layer
}

// baseLayer merges the config file with the flag layer. Manifest params are
// applied on top of it per type.
func (o *rootOptions) baseLayer(cmd *cobra.Command) (map[string]any, error) {
	path := o.confPath
	if path == "" {
		wd, err := os.Getwd()
		if err != nil {
			return nil, err
		}
		found, ok, err := config.FindProjectFile(wd)
		if err != nil {
			return nil, err
		}
		if ok {
			path = found
		}
	}

	fileLayer := map[string]any{}
	if path != "" {
		layer, err := config.LoadFile(path)
		if err != nil {
			return nil, err
		}
		fileLayer = layer
	}

	base := config.Merge(fileLayer, o.flagLayer(cmd))
	// Surface bad config before any example runs.
	if _, err := config.Resolve(base); err != nil {
		if path != "" {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		return nil, err
	}
	return base, nil
}

// setupLogging installs the process logger. The returned cleanup closes the
// log file, if any.
func (o *rootOptions) setupLogging(cfg *config.Config) (func() error, error) {
	logCfg := logging.FromConfig(cfg)
	if o.logLevel != "" {
		logCfg.Level = o.logLevel
	}
	return logging.Setup(logCfg)
}

// newGenerator builds a generator from the process configuration.
func newGenerator(cfg *config.Config) (*generate.Generator, error) {
	engine, err := query.NewEngine(cfg.QueryCacheSize)
	if err != nil {
		return nil, err
	}
	return generate.New(generate.Options{
		Workers:        cfg.Workers,
		Extractor:      engine,
		CommandTimeout: cfg.CommandTimeout,
		Logger:         slog.Default(),
	}), nil
}

// resolvePaths expands arguments into manifest files. Directories are
// searched recursively; no arguments means the working directory.
func resolvePaths(args []string) ([]string, error) {
	if len(args) == 0 {
		args = []string{"."}
	}

	var paths []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, err
		}
		if !info.IsDir() {
			paths = append(paths, filepath.Clean(arg))
			continue
		}
		found, err := manifest.Discover(arg)
		if err != nil {
			return nil, err
		}
		paths = append(paths, found...)
	}
	return paths, nil
}
