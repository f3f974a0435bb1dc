// Package manifest loads *.layj.yaml, *.layj.yml and *.layj.json files that
// declare named types and the examples they are inferred from.
package manifest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/usestring/layj/pkg/example"
	"github.com/usestring/layj/pkg/value"
)

// Suffixes are the file name endings recognized as manifests.
var Suffixes = []string{".layj.yaml", ".layj.yml", ".layj.json"}

// Document is the top level of a manifest file.
type Document struct {
	Types []TypeSpec `json:"types" yaml:"types" jsonschema:"required,minItems=1"`
}

// TypeSpec declares one named type.
type TypeSpec struct {
	Name     string         `json:"name" yaml:"name" jsonschema:"required,pattern=^[A-Za-z_$][A-Za-z0-9_$]*$"`
	Params   map[string]any `json:"params,omitempty" yaml:"params,omitempty"`
	Examples []ExampleSpec  `json:"examples" yaml:"examples" jsonschema:"required,minItems=1"`
}

// ExampleSpec declares one example. Exactly one of Value, File and Command
// is set; Query optionally narrows the result.
type ExampleSpec struct {
	Label   string            `json:"label,omitempty" yaml:"label,omitempty"`
	Value   yaml.Node         `json:"value,omitempty" yaml:"value,omitempty" jsonschema:"oneof_required=value"`
	File    string            `json:"file,omitempty" yaml:"file,omitempty" jsonschema:"oneof_required=file,minLength=1"`
	Command string            `json:"command,omitempty" yaml:"command,omitempty" jsonschema:"oneof_required=command,minLength=1"`
	Env     map[string]string `json:"env,omitempty" yaml:"env,omitempty"`
	Timeout string            `json:"timeout,omitempty" yaml:"timeout,omitempty"`
	Query   string            `json:"query,omitempty" yaml:"query,omitempty"`
}

// Manifest is a loaded, validated manifest file.
type Manifest struct {
	Path  string
	Dir   string
	Types []TypeSpec
}

// IsManifest reports whether path names a manifest file.
func IsManifest(path string) bool {
	base := filepath.Base(path)
	for _, suffix := range Suffixes {
		if strings.HasSuffix(base, suffix) && len(base) > len(suffix) {
			return true
		}
	}
	return false
}

// Load reads and validates the manifest at path.
func Load(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return Parse(data, path)
}

// Parse validates and decodes manifest data. path is used for error messages
// and to resolve relative file and command paths.
func Parse(data []byte, path string) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if root.Kind == 0 {
		return nil, fmt.Errorf("manifest %s is empty", path)
	}

	generic, err := value.FromYAMLNode(&root)
	if err != nil {
		return nil, fmt.Errorf("parsing manifest %s: %w", path, err)
	}
	if err := validateDocument(generic); err != nil {
		return nil, fmt.Errorf("invalid manifest %s: %w", path, err)
	}

	var doc Document
	if err := root.Decode(&doc); err != nil {
		return nil, fmt.Errorf("decoding manifest %s: %w", path, err)
	}

	seen := make(map[string]bool, len(doc.Types))
	for _, ts := range doc.Types {
		if seen[ts.Name] {
			return nil, fmt.Errorf("invalid manifest %s: type %s declared twice", path, ts.Name)
		}
		seen[ts.Name] = true
	}

	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	return &Manifest{Path: path, Dir: filepath.Dir(abs), Types: doc.Types}, nil
}

// Options configure how example specs become producers.
type Options struct {
	// Extractor runs query expressions. Required when any example has a query.
	Extractor example.Extractor
	// CommandTimeout applies to commands without their own timeout.
	CommandTimeout time.Duration
}

// Sets converts the manifest into example sets, one per declared type, in
// declaration order.
func (m *Manifest) Sets(opts Options) ([]example.Set, error) {
	sets := make([]example.Set, 0, len(m.Types))
	for _, ts := range m.Types {
		set := example.Set{Name: ts.Name, Params: ts.Params}
		for i, es := range ts.Examples {
			ex, err := m.example(es, i, opts)
			if err != nil {
				return nil, fmt.Errorf("%s: type %s: %w", m.Path, ts.Name, err)
			}
			set.Examples = append(set.Examples, ex)
		}
		sets = append(sets, set)
	}
	return sets, nil
}

func (m *Manifest) example(es ExampleSpec, index int, opts Options) (example.Example, error) {
	label := es.Label
	if label == "" {
		label = fmt.Sprintf("#%d", index+1)
	}

	var producer example.Producer
	switch {
	case es.Command != "":
		timeout := opts.CommandTimeout
		if es.Timeout != "" {
			d, err := time.ParseDuration(es.Timeout)
			if err != nil {
				return example.Example{}, fmt.Errorf("example %s: invalid timeout: %w", label, err)
			}
			timeout = d
		}
		producer = example.Command{
			Run:     es.Command,
			Dir:     m.Dir,
			Env:     envList(es.Env),
			Timeout: timeout,
		}
	case es.File != "":
		producer = example.File{Path: m.resolve(es.File)}
	default:
		v, err := value.FromYAMLNode(&es.Value)
		if err != nil {
			return example.Example{}, fmt.Errorf("example %s: %w", label, err)
		}
		producer = example.Static{Value: v}
	}

	if es.Query != "" {
		if opts.Extractor == nil {
			return example.Example{}, errors.New("query examples need an extractor")
		}
		producer = example.Query{Expr: es.Query, Source: producer, Extractor: opts.Extractor}
	}

	return example.Example{Label: label, Producer: producer}, nil
}

func (m *Manifest) resolve(p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(m.Dir, p)
}

func envList(env map[string]string) []string {
	if len(env) == 0 {
		return nil
	}
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	sort.Strings(out)
	return out
}
