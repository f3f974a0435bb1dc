package schema

import (
	"fmt"
	"math"
	"sort"

	"github.com/usestring/layj/pkg/value"
)

// LiteralSpec marks which parts of a value keep their exact observed value
// instead of being widened to their kind. It mirrors the shape of the value:
// Pin pins the whole value at this path, Fields descends into object keys.
type LiteralSpec struct {
	Pin    bool
	Fields map[string]LiteralSpec
}

// Field returns the spec for an object key. Unknown keys are not pinned.
func (l LiteralSpec) Field(key string) LiteralSpec {
	return l.Fields[key]
}

// ParseLiterals builds a LiteralSpec from configuration data: a boolean, or a
// map whose values are booleans or further maps. nil yields an empty spec.
func ParseLiterals(raw any) (LiteralSpec, error) {
	return parseLiterals(raw, "literals")
}

func parseLiterals(raw any, path string) (LiteralSpec, error) {
	switch t := raw.(type) {
	case nil:
		return LiteralSpec{}, nil
	case bool:
		return LiteralSpec{Pin: t}, nil
	case LiteralSpec:
		return t, nil
	case map[string]any:
		spec := LiteralSpec{Fields: make(map[string]LiteralSpec, len(t))}
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			child, err := parseLiterals(t[k], path+"."+k)
			if err != nil {
				return LiteralSpec{}, err
			}
			spec.Fields[k] = child
		}
		return spec, nil
	case map[any]any:
		converted := make(map[string]any, len(t))
		for k, v := range t {
			converted[fmt.Sprint(k)] = v
		}
		return parseLiterals(converted, path)
	}
	return LiteralSpec{}, fmt.Errorf("%s: expected boolean or mapping, got %T", path, raw)
}

// FromValue infers the schema of a single value.
//
// Array elements are inferred independently and folded into one element type;
// literal pins never reach into arrays. An empty array has element type
// undefined.
func FromValue(v value.Value, literals LiteralSpec) Schema {
	if literals.Pin {
		return pinned(v)
	}

	switch v.Kind() {
	case value.KindArray:
		items := v.Items()
		if len(items) == 0 {
			return Sequence{Elem: Undefined()}
		}
		elems := make([]Schema, 0, len(items))
		for _, item := range items {
			elems = append(elems, FromValue(item, LiteralSpec{}))
		}
		return Sequence{Elem: Fold(elems...)}

	case value.KindObject:
		rec := NewRecord()
		for _, key := range v.Keys() {
			field, _ := v.Get(key)
			rec.Set(key, FromValue(field, literals.Field(key)))
		}
		return rec
	}

	return Primitive{Kind: v.Kind()}
}

// pinned returns the literal type of v. Null, undefined and symbols have no
// narrower literal than their kind, nor do numbers JSON cannot represent.
func pinned(v value.Value) Schema {
	switch v.Kind() {
	case value.KindNull, value.KindUndefined, value.KindSymbol:
		return Primitive{Kind: v.Kind()}
	case value.KindNumber:
		if math.IsNaN(v.Num()) || math.IsInf(v.Num(), 0) {
			return Primitive{Kind: value.KindNumber}
		}
	}
	return Literal{Token: v.LiteralToken()}
}
