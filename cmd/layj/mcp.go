package main

import (
	"context"
	"errors"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/pkg/mcpsrv"
)

func newMCPCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve type inference over MCP on stdio",
		Long: "Run an MCP server on stdin/stdout exposing the layj_infer_type and\n" +
			"layj_check_snapshot tools, and the project's snapshots as layj://snapshot/{name}\n" +
			"resources. Logs go to stderr or LOG_FILE.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			base, err := opts.baseLayer(cmd)
			if err != nil {
				return err
			}
			params, err := config.Resolve(base)
			if err != nil {
				return err
			}

			serverOpts := []mcpsrv.Option{mcpsrv.WithParams(params)}
			if opts.logLevel != "" {
				serverOpts = append(serverOpts, mcpsrv.WithLogLevel(opts.logLevel))
			}

			server, err := mcpsrv.NewServer(serverOpts...)
			if err != nil {
				return err
			}
			defer server.Close()

			slog.Info("starting layj MCP server on stdio")
			if err := server.Run(cmd.Context()); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			slog.Info("server stopped")
			return nil
		},
	}
}
