package mcpsrv

import (
	"context"
	"path/filepath"
	"sort"
	"testing"

	mcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/pkg/value"
)

type extractInput struct {
	Expr  string `json:"expr"`
	Value any    `json:"value"`
}

type extractOutput struct {
	Kind string `json:"kind"`
}

func listTools(t *testing.T, s *Server) []string {
	t.Helper()
	ctx := context.Background()

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := s.MCPServer().Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = session.Close() })

	res, err := session.ListTools(ctx, nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
	}
	sort.Strings(names)
	return names
}

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogFile(filepath.Join(t.TempDir(), "layj.log"))}, opts...)
	s, err := NewServer(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestNewServer_BuiltinTools(t *testing.T) {
	s := newTestServer(t, WithSnapshotsDir(t.TempDir()))
	assert.Equal(t, []string{"layj_check_snapshot", "layj_infer_type"}, listTools(t, s))
	assert.NotNil(t, s.Deps().Snapshots)
	assert.NotNil(t, s.Deps().Query)
}

func TestNewServer_Params(t *testing.T) {
	dir := t.TempDir()
	params, err := config.Resolve(map[string]any{config.KeySnapshotsDir: dir, config.KeyUseXOR: true})
	require.NoError(t, err)

	s := newTestServer(t, WithParams(params))
	require.NotNil(t, s.Deps().Snapshots)
	assert.Equal(t, dir, s.Deps().Snapshots.Dir())
	assert.True(t, s.Deps().Params.UseXOR)

	params.Snapshot = false
	s = newTestServer(t, WithParams(params))
	assert.Nil(t, s.Deps().Snapshots)
}

func TestNewServer_CustomDepsTool(t *testing.T) {
	s := newTestServer(t,
		WithoutBuiltinTools(),
		WithoutBuiltinPrompts(),
		WithDepsTool(&mcp.Tool{Name: "extract_kind", Description: "Kind of a jq result"},
			func(d *Deps) func(context.Context, *mcp.CallToolRequest, extractInput) (*mcp.CallToolResult, extractOutput, error) {
				return func(ctx context.Context, _ *mcp.CallToolRequest, in extractInput) (*mcp.CallToolResult, extractOutput, error) {
					v, err := value.FromAny(in.Value)
					if err != nil {
						return nil, extractOutput{}, err
					}
					got, err := d.Query.Extract(ctx, in.Expr, v)
					if err != nil {
						return nil, extractOutput{}, err
					}
					return nil, extractOutput{Kind: string(got.Kind())}, nil
				}
			}),
	)

	assert.Equal(t, []string{"extract_kind"}, listTools(t, s))
	assert.Nil(t, s.Deps().Snapshots)
}

func TestWithTool_PanicsOnNilSliceOutput(t *testing.T) {
	type badOutput struct {
		Items []string `json:"items"`
	}
	assert.Panics(t, func() {
		_, _ = NewServer(
			WithLogFile(filepath.Join(t.TempDir(), "layj.log")),
			WithTool(&mcp.Tool{Name: "bad"}, func(context.Context, *mcp.CallToolRequest, extractInput) (*mcp.CallToolResult, badOutput, error) {
				return nil, badOutput{}, nil
			}),
		)
	})
}
