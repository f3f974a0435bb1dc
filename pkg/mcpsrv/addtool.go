package mcpsrv

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/layj/internal/mcp/tools"
)

// AddTool registers a custom tool on the server returned by
// Server.MCPServer. Unlike [sdkmcp.AddTool] it first checks that results of
// Out can pass the output schema the SDK infers, and panics naming the
// offending field when they cannot (nil slices without omitzero, or
// opaque JSON such as value.Value).
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	tools.AddTool(srv, t, h)
}
