// Package mcpsrv provides an extensible MCP server for layj.
//
// The server exposes type inference from example values as MCP tools, and
// the accepted snapshots of a project as resources. Callers can add their own
// tools, prompts, and resources with functional options.
//
// # Basic Usage
//
//	server, err := mcpsrv.NewServer(mcpsrv.WithSnapshotsDir("snapshots"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer server.Close()
//	server.Run(ctx)
//
// # Extension
//
// Add custom tools using MCP SDK types directly:
//
//	type MyInput struct {
//	    Name string `json:"name"`
//	}
//
//	type MyOutput struct {
//	    Declaration string `json:"declaration"`
//	}
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithTool(&mcp.Tool{Name: "my_tool", Description: "My tool"}, myHandler),
//	)
//
// # Configuration
//
// Process settings come from the environment (LAYJ_*, LOG_*) and can be
// overridden:
//
//	server, err := mcpsrv.NewServer(
//	    mcpsrv.WithLogLevel("debug"),
//	    mcpsrv.WithLogFile("/var/log/layj-mcp.log"),
//	)
//
// The layj mcp command passes the params resolved from the project config
// with WithParams, so tool calls start from the project's render switches and
// literals and the project's snapshots are served.
package mcpsrv
