package tools

import (
	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/query"
	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/snapshot"
)

// Deps contains all dependencies needed by tool handlers.
type Deps struct {
	Config *config.Config
	Query  *query.Engine
	// Snapshots backs the snapshot resources; nil disables them.
	Snapshots *snapshot.Store
	// Params holds the project parameters tool calls start from. Call
	// switches can only turn options on; nil means the built-in defaults.
	Params *config.Params
}

// renderOptions layers the per-call switches over the project params.
func (d *Deps) renderOptions(useXOR, jsDoc bool) render.Options {
	var opts render.Options
	if d.Params != nil {
		opts = d.Params.RenderOptions()
	}
	if useXOR {
		opts.UseXOR = true
	}
	if jsDoc {
		opts.Dialect = render.JSDoc
	}
	return opts
}

func (d *Deps) jsonSchema(requested bool) bool {
	return requested || (d.Params != nil && d.Params.JSONSchema)
}

// literals falls back to the project literals when a call names none.
func (d *Deps) literals(requested any) any {
	if requested == nil && d.Params != nil {
		return d.Params.Literals
	}
	return requested
}
