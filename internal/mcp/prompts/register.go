package prompts

import (
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// Register registers all prompts with the MCP server.
func Register(srv *sdkmcp.Server, cfg *Config) {
	// Prompt 1: Type a payload from examples
	srv.AddPrompt(&sdkmcp.Prompt{
		Name:        "type_from_examples",
		Description: "RECOMMENDED: Derive a TypeScript type from example payloads and guard it with a snapshot. Explains how examples are merged and when to pin literals.",
		Arguments: []*sdkmcp.PromptArgument{
			{
				Name:        "name",
				Description: "Name of the type to generate (e.g. User)",
				Required:    false,
			},
			{
				Name:        "discriminator",
				Description: "Field whose exact values distinguish variants (e.g. 'type'); it will be pinned as a literal",
				Required:    false,
			},
		},
	}, HandleTypeFromExamples(cfg))
}
