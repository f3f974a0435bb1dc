// Package prompts contains MCP prompt implementations for layj.
package prompts

// Config holds configuration needed by prompts.
type Config struct {
	// SnapshotsEnabled advertises the layj://snapshot resources.
	SnapshotsEnabled bool
}
