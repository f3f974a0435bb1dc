// Package generate runs the example-to-declaration pipeline for named types:
// produce examples, infer and fold their schemas, check the snapshot, then
// write the declaration and the new snapshot.
package generate

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/go-cmp/cmp"
	"golang.org/x/sync/errgroup"

	"github.com/usestring/layj/internal/config"
	"github.com/usestring/layj/internal/manifest"
	"github.com/usestring/layj/pkg/example"
	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/schema"
	"github.com/usestring/layj/pkg/snapshot"
	"github.com/usestring/layj/pkg/value"
)

// Options configure a Generator.
type Options struct {
	// Workers bounds concurrently running producers per type, and
	// concurrently processed manifest files.
	Workers int
	// Extractor runs jq queries of manifest examples.
	Extractor example.Extractor
	// CommandTimeout applies to manifest commands without their own timeout.
	CommandTimeout time.Duration
	Logger         *slog.Logger
}

// Generator turns example sets into declaration files.
type Generator struct {
	workers        int
	extractor      example.Extractor
	commandTimeout time.Duration
	logger         *slog.Logger
}

// New creates a Generator.
func New(opts Options) *Generator {
	if opts.Workers <= 0 {
		opts.Workers = config.DefaultWorkersValue
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Generator{
		workers:        opts.Workers,
		extractor:      opts.Extractor,
		commandTimeout: opts.CommandTimeout,
		logger:         opts.Logger,
	}
}

// Result describes one generated type.
type Result struct {
	Name     string
	Schema   schema.Schema
	Params   config.Params
	Files    []string
	Examples int
	Duration time.Duration
}

// Collect runs every producer of set and returns their values in declared
// order. Producers run concurrently; the first failure cancels the rest.
func (g *Generator) Collect(ctx context.Context, set example.Set) ([]value.Value, error) {
	values := make([]value.Value, len(set.Examples))

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(g.workers)

	for i, ex := range set.Examples {
		eg.Go(func() error {
			v, err := ex.Producer.Produce(ctx)
			if err != nil {
				return &ExampleError{Type: set.Name, Label: ex.Label, Err: err}
			}
			values[i] = v
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return values, nil
}

// Infer collects the examples of set and folds their schemas left to right.
func (g *Generator) Infer(ctx context.Context, set example.Set, literals schema.LiteralSpec) (schema.Schema, error) {
	values, err := g.Collect(ctx, set)
	if err != nil {
		return nil, err
	}

	schemas := make([]schema.Schema, len(values))
	for i, v := range values {
		schemas[i] = schema.FromValue(v, literals)
	}
	return schema.Fold(schemas...), nil
}

// Generate runs the pipeline for one type. base holds the parameter layers
// below the set's own params (config file and flags, already merged).
//
// With a strict snapshot check, a mismatch returns a *snapshot.TypeChangedError
// and leaves both the declaration and the snapshot untouched.
func (g *Generator) Generate(ctx context.Context, set example.Set, base map[string]any) (*Result, error) {
	start := time.Now()

	params, err := config.Resolve(base, set.Params)
	if err != nil {
		return nil, &TypeError{Type: set.Name, Err: err}
	}
	literals, err := params.LiteralSpec()
	if err != nil {
		return nil, &TypeError{Type: set.Name, Err: err}
	}

	fresh, err := g.Infer(ctx, set, literals)
	if err != nil {
		return nil, err
	}

	var store *snapshot.Store
	if params.Snapshot {
		store = snapshot.NewStore(params.SnapshotsDir)
		if err := store.Verify(set.Name, fresh); err != nil {
			changed := errors.Is(err, snapshot.ErrTypeChanged)
			switch {
			case changed && params.ThrowOnTypeChange:
				g.logger.Debug("snapshot mismatch",
					slog.String("type", set.Name),
					slog.String("snapshot", store.Path(set.Name)),
					slog.String("diff", g.snapshotDiff(store, set.Name, fresh)),
				)
				return nil, err
			case changed:
				g.logger.Warn("type changed, updating snapshot",
					slog.String("type", set.Name),
					slog.String("snapshot", store.Path(set.Name)),
					slog.String("diff", g.snapshotDiff(store, set.Name, fresh)),
				)
			case params.ThrowOnTypeChange:
				return nil, &TypeError{Type: set.Name, Err: err}
			default:
				g.logger.Warn("replacing unreadable snapshot",
					slog.String("type", set.Name),
					slog.String("error", err.Error()),
				)
			}
		}
	}

	res := &Result{
		Name:     set.Name,
		Schema:   fresh,
		Params:   params,
		Examples: len(set.Examples),
	}

	opts := params.RenderOptions()
	declPath := filepath.Join(params.OutDir, render.FileName(set.Name, opts.Dialect))
	decl := []byte(render.Declaration(set.Name, fresh, opts))

	var schemaPath string
	var schemaDoc []byte
	if params.JSONSchema {
		schemaDoc, err = render.MarshalJSONSchema(set.Name, fresh, opts)
		if err != nil {
			return nil, &TypeError{Type: set.Name, Err: err}
		}
		schemaPath = filepath.Join(params.OutDir, render.JSONSchemaFileName(set.Name))
	}

	// The snapshot is saved before the declarations. If a later write
	// fails, the next run matches the snapshot and rewrites them.
	if store != nil {
		if err := store.Save(set.Name, fresh); err != nil {
			return nil, &TypeError{Type: set.Name, Err: err}
		}
	}

	if err := writeFile(declPath, decl); err != nil {
		return nil, &TypeError{Type: set.Name, Err: err}
	}
	res.Files = append(res.Files, declPath)

	if schemaDoc != nil {
		if err := writeFile(schemaPath, schemaDoc); err != nil {
			return nil, &TypeError{Type: set.Name, Err: err}
		}
		res.Files = append(res.Files, schemaPath)
	}

	if store != nil {
		res.Files = append(res.Files, store.Path(set.Name))
	}

	res.Duration = time.Since(start)
	g.logger.Info("generated type",
		slog.String("type", set.Name),
		slog.Int("examples", res.Examples),
		slog.String("file", declPath),
		slog.Int64("duration_ms", res.Duration.Milliseconds()),
	)
	return res, nil
}

// GenerateFile loads a manifest and generates each of its types in declared
// order. A failing type does not stop the others; all failures are joined.
func (g *Generator) GenerateFile(ctx context.Context, path string, base map[string]any) ([]*Result, error) {
	m, err := manifest.Load(path)
	if err != nil {
		return nil, err
	}
	sets, err := m.Sets(manifest.Options{Extractor: g.extractor, CommandTimeout: g.commandTimeout})
	if err != nil {
		return nil, err
	}

	var (
		results []*Result
		errs    []error
	)
	for _, set := range sets {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		res, err := g.Generate(ctx, set, base)
		if err != nil {
			g.logger.Error("type failed",
				slog.String("file", path),
				slog.String("type", set.Name),
				slog.String("error", err.Error()),
			)
			errs = append(errs, fmt.Errorf("%s: %w", path, err))
			continue
		}
		results = append(results, res)
	}
	return results, errors.Join(errs...)
}

// Summary aggregates a multi-file run.
type Summary struct {
	Files   int
	Results []*Result
	Errors  []error
}

// Err joins every failure of the run, or returns nil.
func (s *Summary) Err() error {
	return errors.Join(s.Errors...)
}

// Failed counts failed types and unreadable files.
func (s *Summary) Failed() int {
	n := 0
	for _, err := range s.Errors {
		if joined, ok := err.(interface{ Unwrap() []error }); ok {
			n += len(joined.Unwrap())
			continue
		}
		n++
	}
	return n
}

// GenerateAll processes manifest files concurrently. Results keep the order
// of paths, and of types within each file.
func (g *Generator) GenerateAll(ctx context.Context, paths []string, base map[string]any) *Summary {
	type fileOutcome struct {
		results []*Result
		err     error
	}
	outcomes := make([]fileOutcome, len(paths))

	var eg errgroup.Group
	eg.SetLimit(g.workers)

	var mu sync.Mutex
	done := 0
	for i, path := range paths {
		eg.Go(func() error {
			results, err := g.GenerateFile(ctx, path, base)
			outcomes[i] = fileOutcome{results: results, err: err}

			mu.Lock()
			done++
			g.logger.Debug("manifest processed",
				slog.String("file", path),
				slog.Int("done", done),
				slog.Int("total", len(paths)),
			)
			mu.Unlock()
			return nil
		})
	}
	_ = eg.Wait()

	summary := &Summary{Files: len(paths)}
	for _, o := range outcomes {
		summary.Results = append(summary.Results, o.results...)
		if o.err != nil {
			summary.Errors = append(summary.Errors, o.err)
		}
	}
	return summary
}

// snapshotDiff describes how fresh differs from the stored snapshot, as a
// line diff of the two snapshot texts.
func (g *Generator) snapshotDiff(store *snapshot.Store, name string, fresh schema.Schema) string {
	accepted, ok, err := store.Load(name)
	if err != nil || !ok {
		return ""
	}
	before, err := snapshot.Marshal(accepted)
	if err != nil {
		return ""
	}
	after, err := snapshot.Marshal(fresh)
	if err != nil {
		return ""
	}
	return cmp.Diff(string(before), string(after))
}

func writeFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", dir, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}
