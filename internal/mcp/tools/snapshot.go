package tools

import (
	"context"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/snapshot"
)

// CheckSnapshotInput is the input for layj_check_snapshot.
type CheckSnapshotInput struct {
	Name     string         `json:"name" jsonschema:"Type name the snapshot belongs to"`
	Snapshot string         `json:"snapshot" jsonschema:"Accepted snapshot, the content of a .snapshot file"`
	Examples []ExampleInput `json:"examples" jsonschema:"Example values to infer the fresh type from"`
	Literals any            `json:"literals,omitempty" jsonschema:"true to pin every value, or a nested mapping of field names to true/mapping (default: project literals)"`
	Strict   bool           `json:"strict,omitempty" jsonschema:"Fail with TYPE_CHANGED instead of reporting matches=false"`
}

// CheckSnapshotOutput is the output of layj_check_snapshot.
type CheckSnapshotOutput struct {
	Matches bool `json:"matches"`
	// Fresh is the snapshot of the type inferred from the examples.
	Fresh      string `json:"fresh"`
	Accepted   string `json:"accepted_expression"`
	Expression string `json:"fresh_expression"`
}

// ToolCheckSnapshot compares the type inferred from examples against an
// accepted snapshot.
func ToolCheckSnapshot(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSnapshotInput) (*sdkmcp.CallToolResult, CheckSnapshotOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input CheckSnapshotInput) (*sdkmcp.CallToolResult, CheckSnapshotOutput, error) {
		if err := validateName(input.Name); err != nil {
			return nil, CheckSnapshotOutput{}, err
		}
		if strings.TrimSpace(input.Snapshot) == "" {
			return nil, CheckSnapshotOutput{}, ErrInvalidInput("snapshot is required")
		}

		accepted, err := snapshot.Unmarshal([]byte(input.Snapshot))
		if err != nil {
			return nil, CheckSnapshotOutput{}, ErrInvalidInput(err.Error())
		}

		fresh, err := d.fold(ctx, input.Examples, input.Literals)
		if err != nil {
			return nil, CheckSnapshotOutput{}, err
		}

		freshSnap, err := snapshot.Marshal(fresh)
		if err != nil {
			return nil, CheckSnapshotOutput{}, WrapEngineError(err)
		}

		checkErr := snapshot.Check(input.Name, accepted, fresh)
		if checkErr != nil && input.Strict {
			return nil, CheckSnapshotOutput{}, WrapEngineError(checkErr)
		}

		return nil, CheckSnapshotOutput{
			Matches:    checkErr == nil,
			Fresh:      string(freshSnap),
			Accepted:   render.Expr(accepted, d.renderOptions(false, false)),
			Expression: render.Expr(fresh, d.renderOptions(false, false)),
		}, nil
	}
}
