package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/layj/internal/mcp/tools"
	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/snapshot"
)

const (
	uriScheme = "layj://"
	mimeJSON  = "application/json"
)

// Resource URI scheme: layj://
// Supported URIs:
//   layj://snapshot/{name}

// registerResources registers resource templates and handlers.
func (s *Server) registerResources() {
	if s.deps.Snapshots == nil {
		return
	}

	s.mcpServer.AddResourceTemplate(&sdkmcp.ResourceTemplate{
		URITemplate: "layj://snapshot/{name}",
		Name:        "Type Snapshot",
		Description: "Accepted snapshot of a generated type, with its rendered expression. Pass the snapshot text to layj_check_snapshot to test new examples against it.",
		MIMEType:    mimeJSON,
		Annotations: &sdkmcp.Annotations{
			Audience: []sdkmcp.Role{"assistant"},
			Priority: 0.6,
		},
	}, s.handleResourceSnapshot)
}

// snapshotResource is the content of a snapshot resource.
type snapshotResource struct {
	Name       string `json:"name"`
	Path       string `json:"path"`
	Expression string `json:"expression"`
	Snapshot   string `json:"snapshot"`
}

func (s *Server) handleResourceSnapshot(ctx context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
	name, err := parseSnapshotURI(req.Params.URI)
	if err != nil {
		return nil, err
	}

	var opts render.Options
	if s.deps.Params != nil {
		opts = s.deps.Params.RenderOptions()
	}

	accepted, ok, err := s.deps.Snapshots.Load(name)
	if err != nil {
		return nil, tools.WrapEngineError(err)
	}
	if !ok {
		return nil, sdkmcp.ResourceNotFoundError(req.Params.URI)
	}

	data, err := snapshot.Marshal(accepted)
	if err != nil {
		return nil, tools.WrapEngineError(err)
	}

	return toResourceResult(req.Params.URI, snapshotResource{
		Name:       name,
		Path:       s.deps.Snapshots.Path(name),
		Expression: render.Expr(accepted, opts),
		Snapshot:   string(data),
	})
}

// parseSnapshotURI extracts the type name from a layj://snapshot/{name} URI.
func parseSnapshotURI(uri string) (string, error) {
	if !strings.HasPrefix(uri, uriScheme) {
		return "", tools.ErrInvalidInput("invalid URI scheme: expected " + uriScheme)
	}

	parts := strings.Split(strings.TrimPrefix(uri, uriScheme), "/")
	if len(parts) != 2 || parts[0] != "snapshot" {
		return "", tools.ErrInvalidInput(fmt.Sprintf("unknown resource: %s", uri))
	}
	if !render.IsIdentifier(parts[1]) {
		return "", tools.ErrInvalidInput(fmt.Sprintf("invalid type name: %q", parts[1]))
	}
	return parts[1], nil
}

// toResourceResult serializes content to a ReadResourceResult.
func toResourceResult(uri string, content any) (*sdkmcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(content, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("serializing resource: %w", err)
	}

	return &sdkmcp.ReadResourceResult{
		Contents: []*sdkmcp.ResourceContents{
			{
				URI:      uri,
				MIMEType: mimeJSON,
				Text:     string(data),
			},
		},
	}, nil
}
