package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/schema"
)

// Parameter keys as they appear in config files, flags and manifests.
const (
	KeyUseXOR            = "useXOR"
	KeyJSDoc             = "jsDoc"
	KeyJSONSchema        = "jsonSchema"
	KeySnapshot          = "snapshot"
	KeyThrowOnTypeChange = "throwOnTypeChange"
	KeyOutDir            = "outDir"
	KeySnapshotsDir      = "snapshotsDir"
	KeyLiterals          = "literals"
)

// ProjectFileNames are looked up, in order, in the working directory.
var ProjectFileNames = []string{"layj.config.yaml", "layj.config.yml", "layj.config.json"}

// Params controls how one named type is generated.
type Params struct {
	UseXOR            bool   `mapstructure:"useXOR"`
	JSDoc             bool   `mapstructure:"jsDoc"`
	JSONSchema        bool   `mapstructure:"jsonSchema"`
	Snapshot          bool   `mapstructure:"snapshot"`
	ThrowOnTypeChange bool   `mapstructure:"throwOnTypeChange"`
	OutDir            string `mapstructure:"outDir"`
	SnapshotsDir      string `mapstructure:"snapshotsDir"`
	// Literals is a boolean or a nested mapping of booleans; see schema.ParseLiterals.
	Literals any `mapstructure:"literals"`
}

// Defaults returns the lowest-precedence parameter layer.
func Defaults() map[string]any {
	return map[string]any{
		KeyUseXOR:            false,
		KeyJSDoc:             false,
		KeyJSONSchema:        false,
		KeySnapshot:          true,
		KeyThrowOnTypeChange: true,
		KeyOutDir:            "types",
		KeySnapshotsDir:      "snapshots",
		KeyLiterals:          map[string]any{},
	}
}

// Merge combines layers in increasing precedence. A later layer replaces a
// key wholesale; nested mappings such as literals are not deep-merged.
func Merge(layers ...map[string]any) map[string]any {
	out := make(map[string]any)
	for _, layer := range layers {
		for k, v := range layer {
			out[k] = v
		}
	}
	return out
}

// Decode converts a merged layer into Params. Unknown keys and mistyped
// values are errors.
func Decode(m map[string]any) (Params, error) {
	var p Params
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &p,
	})
	if err != nil {
		return Params{}, err
	}
	if err := dec.Decode(m); err != nil {
		return Params{}, fmt.Errorf("invalid params: %w", err)
	}
	if _, err := p.LiteralSpec(); err != nil {
		return Params{}, fmt.Errorf("invalid params: %w", err)
	}
	return p, nil
}

// Resolve merges defaults with the given layers and decodes the result.
func Resolve(layers ...map[string]any) (Params, error) {
	return Decode(Merge(append([]map[string]any{Defaults()}, layers...)...))
}

// LoadFile reads a YAML or JSON parameter file. An empty file is an empty layer.
func LoadFile(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var layer map[string]any
	if err := yaml.Unmarshal(data, &layer); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	if layer == nil {
		layer = map[string]any{}
	}
	return layer, nil
}

// FindProjectFile returns the first project config file present in dir.
func FindProjectFile(dir string) (string, bool, error) {
	for _, name := range ProjectFileNames {
		path := filepath.Join(dir, name)
		info, err := os.Stat(path)
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return "", false, err
		}
		if !info.IsDir() {
			return path, true, nil
		}
	}
	return "", false, nil
}

// LiteralSpec parses the literals parameter.
func (p Params) LiteralSpec() (schema.LiteralSpec, error) {
	return schema.ParseLiterals(p.Literals)
}

// RenderOptions returns the renderer options selected by p.
func (p Params) RenderOptions() render.Options {
	opts := render.Options{UseXOR: p.UseXOR}
	if p.JSDoc {
		opts.Dialect = render.JSDoc
	}
	return opts
}

// Strict reports whether a snapshot mismatch must abort generation.
func (p Params) Strict() bool {
	return p.Snapshot && p.ThrowOnTypeChange
}
