package tools

import (
	"encoding/json"
	"fmt"
	"reflect"
	"strings"

	"github.com/google/jsonschema-go/jsonschema"
	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/layj/pkg/value"
)

// AddTool registers a tool after checking its output type with
// CheckOutputSchema, so a broken output type fails at startup instead of on
// the first call.
func AddTool[In, Out any](srv *sdkmcp.Server, t *sdkmcp.Tool, h sdkmcp.ToolHandlerFor[In, Out]) {
	CheckOutputSchema[Out](t.Name)
	sdkmcp.AddTool(srv, t, h)
}

// CheckOutputSchema panics when the output type T of a tool would produce
// results the SDK rejects. See OutputSchemaError.
func CheckOutputSchema[T any](toolName string) {
	if err := OutputSchemaError[T](); err != nil {
		panic(fmt.Sprintf("AddTool %q: %v", toolName, err))
	}
}

// OutputSchemaError reports why results of type T would fail the output
// schema the SDK infers for T. Two mistakes are caught:
//
//   - fields holding opaque JSON (json.RawMessage, value.Value). They encode
//     as arbitrary JSON while the inferred schema describes the Go
//     representation. Convert with value.ToAny and store an any instead.
//   - zero values that violate the schema, typically a nil slice encoded as
//     null where the schema wants an array. Tag such fields omitzero.
//
// The untyped any output is always accepted. Schema inference failures are
// left for sdkmcp.AddTool to report.
func OutputSchemaError[T any]() error {
	rt := reflect.TypeFor[T]()
	if rt == reflect.TypeFor[any]() {
		return nil
	}
	for rt.Kind() == reflect.Pointer {
		rt = rt.Elem()
	}

	if paths := opaqueJSONPaths(rt, nil, map[reflect.Type]bool{}); len(paths) > 0 {
		return fmt.Errorf("output type %s holds opaque JSON at %s; use any and value.ToAny",
			rt, strings.Join(paths, ", "))
	}

	inferred, err := jsonschema.ForType(rt, &jsonschema.ForOptions{})
	if err != nil {
		return nil
	}
	resolved, err := inferred.Resolve(&jsonschema.ResolveOptions{})
	if err != nil {
		return nil
	}

	data, err := json.Marshal(reflect.Zero(rt).Interface())
	if err != nil {
		return nil
	}
	var zero map[string]any
	if err := json.Unmarshal(data, &zero); err != nil {
		return nil
	}
	if err := resolved.Validate(&zero); err != nil {
		return fmt.Errorf("zero value of output type %s fails its schema: %v (json %s); tag nil-able slices omitzero",
			rt, err, data)
	}
	return nil
}

var opaqueJSONTypes = map[reflect.Type]bool{
	reflect.TypeFor[json.RawMessage](): true,
	reflect.TypeFor[value.Value]():     true,
}

// opaqueJSONPaths lists the JSON paths of t that hold opaque JSON types.
func opaqueJSONPaths(t reflect.Type, path []string, visiting map[reflect.Type]bool) []string {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if opaqueJSONTypes[t] {
		if len(path) == 0 {
			return []string{"."}
		}
		return []string{strings.Join(path, ".")}
	}
	if visiting[t] {
		return nil
	}
	visiting[t] = true
	defer delete(visiting, t)

	var found []string
	switch t.Kind() {
	case reflect.Struct:
		for i := range t.NumField() {
			f := t.Field(i)
			if !f.IsExported() {
				continue
			}
			name := jsonName(f)
			if name == "" {
				continue
			}
			found = append(found, opaqueJSONPaths(f.Type, append(path[:len(path):len(path)], name), visiting)...)
		}
	case reflect.Slice, reflect.Array:
		found = opaqueJSONPaths(t.Elem(), append(path[:len(path):len(path)], "[]"), visiting)
	case reflect.Map:
		found = opaqueJSONPaths(t.Elem(), append(path[:len(path):len(path)], "{}"), visiting)
	}
	return found
}

// jsonName returns the encoded name of f, or "" when encoding/json skips it.
func jsonName(f reflect.StructField) string {
	tag := f.Tag.Get("json")
	if tag == "-" {
		return ""
	}
	if name, _, _ := strings.Cut(tag, ","); name != "" {
		return name
	}
	return f.Name
}
