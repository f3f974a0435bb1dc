package mcpsrv

import (
	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/query"
	"github.com/usestring/layj/pkg/snapshot"
)

// Deps contains all dependencies available to custom tools.
// This gives custom tools access to the same infrastructure as builtin tools.
type Deps struct {
	Config *config.Config
	// Query runs jq expressions with a shared compiled-program cache.
	Query *query.Engine
	// Snapshots is nil unless a snapshot directory was configured.
	Snapshots *snapshot.Store
	// Params is nil unless WithParams was given.
	Params *config.Params
}
