package render

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/invopop/jsonschema"

	"github.com/usestring/layj/pkg/schema"
	"github.com/usestring/layj/pkg/value"
)

// JSONSchema converts s into a JSON Schema (Draft 2020-12) document titled name.
//
// Record keys whose type admits undefined are left out of required, and the
// undefined alternative is dropped from their property schema. Unions become
// anyOf, or oneOf when opts.UseXOR is set; undefined and symbol members are
// left out of both.
func JSONSchema(name string, s schema.Schema, opts Options) *jsonschema.Schema {
	doc := toJSONSchema(s, opts)
	doc.Version = jsonschema.Version
	doc.Title = name
	return doc
}

// MarshalJSONSchema renders the JSON Schema document for name as indented JSON.
func MarshalJSONSchema(name string, s schema.Schema, opts Options) ([]byte, error) {
	data, err := json.MarshalIndent(JSONSchema(name, s, opts), "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling json schema for %s: %w", name, err)
	}
	return append(data, '\n'), nil
}

// JSONSchemaFileName returns the JSON Schema file name for a type.
func JSONSchemaFileName(name string) string {
	return name + ".schema.json"
}

func toJSONSchema(s schema.Schema, opts Options) *jsonschema.Schema {
	switch t := s.(type) {
	case schema.Primitive:
		switch t.Kind {
		case value.KindString, value.KindNumber, value.KindBoolean, value.KindNull:
			return &jsonschema.Schema{Type: string(t.Kind)}
		case value.KindBigInt:
			return &jsonschema.Schema{Type: "integer"}
		}
		// undefined and symbol have no JSON representation
		return &jsonschema.Schema{}

	case schema.Literal:
		return &jsonschema.Schema{Const: literalConst(t.Token)}

	case schema.Sequence:
		return &jsonschema.Schema{
			Type:  "array",
			Items: toJSONSchema(t.Elem, opts),
		}

	case schema.Record:
		out := &jsonschema.Schema{
			Type:       "object",
			Properties: jsonschema.NewProperties(),
		}
		if t.Len() == 0 {
			return out
		}
		for pair := t.Fields.Oldest(); pair != nil; pair = pair.Next() {
			if !schema.IsOptional(pair.Value) {
				out.Required = append(out.Required, pair.Key)
				out.Properties.Set(pair.Key, toJSONSchema(pair.Value, opts))
				continue
			}
			prop := &jsonschema.Schema{}
			if rest, ok := withoutUndefined(pair.Value); ok {
				prop = toJSONSchema(rest, opts)
			}
			out.Properties.Set(pair.Key, prop)
		}
		return out

	case schema.Union:
		// Members without a JSON form would be the schema true, which
		// matches everything and breaks oneOf.
		members := make([]*jsonschema.Schema, 0, len(t.Members))
		for _, m := range t.Members {
			if !hasJSONForm(m) {
				continue
			}
			members = append(members, toJSONSchema(m, opts))
		}
		switch len(members) {
		case 0:
			return &jsonschema.Schema{}
		case 1:
			return members[0]
		}
		if opts.UseXOR {
			return &jsonschema.Schema{OneOf: members}
		}
		return &jsonschema.Schema{AnyOf: members}
	}

	return &jsonschema.Schema{}
}

// hasJSONForm reports whether values of s can appear in a JSON document.
func hasJSONForm(s schema.Schema) bool {
	p, ok := s.(schema.Primitive)
	return !ok || (p.Kind != value.KindUndefined && p.Kind != value.KindSymbol)
}

// literalConst turns a literal token back into JSON. Tokens are already JSON
// text except bigints, which carry an n suffix.
func literalConst(token string) json.RawMessage {
	if digits, ok := strings.CutSuffix(token, "n"); ok && json.Valid([]byte(digits)) {
		return json.RawMessage(digits)
	}
	if json.Valid([]byte(token)) {
		return json.RawMessage(token)
	}
	return json.RawMessage(value.Quote(token))
}

// withoutUndefined drops undefined alternatives. It reports false when
// nothing else remains.
func withoutUndefined(s schema.Schema) (schema.Schema, bool) {
	u, ok := s.(schema.Union)
	if !ok {
		return nil, false
	}

	kept := make([]schema.Schema, 0, len(u.Members))
	for _, m := range u.Members {
		if !schema.IsOptional(m) {
			kept = append(kept, m)
		}
	}
	if len(kept) == 0 {
		return nil, false
	}
	return schema.NewUnion(kept...), true
}
