package tools

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all tools with the MCP server.
func Register(srv *sdkmcp.Server, d *Deps) {
	// Tool 1: layj_infer_type
	AddTool(srv, &sdkmcp.Tool{
		Name:        "layj_infer_type",
		Description: "Infer a type from example values. Examples are folded left to right: records merge field by field (a field missing from some examples becomes optional), incompatible shapes become unions. Returns a TypeScript declaration (or JSDoc @typedef with js_doc), the bare type expression, the snapshot text to store, and the number of top-level union members. Set literals to keep exact values (e.g. {\"kind\": true}) instead of widening them to string/number.",
	}, ToolInferType(d))

	// Tool 2: layj_check_snapshot
	AddTool(srv, &sdkmcp.Tool{
		Name:        "layj_check_snapshot",
		Description: "Check whether the type inferred from examples still matches an accepted snapshot (the content of a .snapshot file). Returns matches, the fresh snapshot text, and both types as expressions for comparison. Set strict=true to fail with TYPE_CHANGED on a mismatch.",
	}, ToolCheckSnapshot(d))
}
