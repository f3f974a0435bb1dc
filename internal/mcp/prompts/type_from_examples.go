package prompts

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

// HandleTypeFromExamples implements the example-to-type workflow.
func HandleTypeFromExamples(cfg *Config) func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
	return func(ctx context.Context, req *sdkmcp.GetPromptRequest) (*sdkmcp.GetPromptResult, error) {
		name := "MyType"
		discriminator := ""
		if args := req.Params.Arguments; args != nil {
			if v := strings.TrimSpace(args["name"]); v != "" {
				name = v
			}
			discriminator = strings.TrimSpace(args["discriminator"])
		}

		var sb strings.Builder

		sb.WriteString(fmt.Sprintf("# Derive the type `%s` from examples\n\n", name))
		sb.WriteString("Collect a few representative payloads, then let layj fold them into one type.\n\n")

		sb.WriteString("## How examples merge\n\n")
		sb.WriteString("- Examples are folded left to right; order the most typical payload first\n")
		sb.WriteString("- Objects sharing at least one key merge field by field; a key missing from some examples becomes `(T|undefined)`\n")
		sb.WriteString("- Objects with no key in common stay separate union members\n")
		sb.WriteString("- Array elements are merged into one element type; an empty array gives `undefined[]`\n")
		sb.WriteString("- Values are widened to `string`, `number`, ... unless pinned with `literals`\n\n")

		sb.WriteString("## Workflow Steps\n\n")
		sb.WriteString("1. **Infer** - call `layj_infer_type` with every example\n")
		sb.WriteString("   - Use `query` on an example to type a nested part (jq syntax, e.g. `.data.items[0]`)\n")
		sb.WriteString("   - Set `use_xor: true` when exactly one union member may match\n")
		sb.WriteString("2. **Review** - check `members` and the declaration; many members usually mean the examples need a discriminator\n")
		sb.WriteString("3. **Guard** - keep the returned `snapshot` and later call `layj_check_snapshot` with new examples\n")
		if cfg.SnapshotsEnabled {
			sb.WriteString("   - Accepted snapshots of this project are readable as `layj://snapshot/{name}` resources\n")
		}
		sb.WriteString("\n")

		sb.WriteString("## Suggested Call\n\n")
		sb.WriteString("```\n")
		literals := ""
		if discriminator != "" {
			literals = fmt.Sprintf(", literals={%q: true}", discriminator)
		}
		sb.WriteString(fmt.Sprintf("layj_infer_type(name=%q, examples=[{label: \"typical\", value: ...}, ...]%s)\n", name, literals))
		sb.WriteString("```\n")

		return &sdkmcp.GetPromptResult{
			Description: fmt.Sprintf("Derive the type %s from example payloads", name),
			Messages: []*sdkmcp.PromptMessage{
				{
					Role:    "user",
					Content: &sdkmcp.TextContent{Text: sb.String()},
				},
			},
		}, nil
	}
}
