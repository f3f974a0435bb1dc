// Package schema infers structural type descriptions from example values and
// merges them into a single minimal description.
//
// A Schema is one of five variants: Primitive, Literal, Sequence, Record or
// Union. The variant set is closed; every function in this package switches
// over it exhaustively.
package schema

import (
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/usestring/layj/pkg/value"
)

// Schema is an inferred structural type.
type Schema interface {
	isSchema()
}

// Primitive is the widened type of a primitive value, such as string or null.
type Primitive struct {
	Kind value.Kind
}

// Literal is a pinned exact value, stored as its source-like token.
type Literal struct {
	Token string
}

// Sequence is a homogeneous array whose elements all have type Elem.
type Sequence struct {
	Elem Schema
}

// Record maps field names to their types. Fields keep first-seen order.
type Record struct {
	Fields *orderedmap.OrderedMap[string, Schema]
}

// Union is one of several structurally distinct alternatives. Members are
// never unions themselves and appear in first-occurrence order.
type Union struct {
	Members []Schema
}

func (Primitive) isSchema() {}
func (Literal) isSchema()   {}
func (Sequence) isSchema()  {}
func (Record) isSchema()    {}
func (Union) isSchema()     {}

// Variant names reported by VariantOf.
const (
	VariantPrimitive = "primitive"
	VariantLiteral   = "literal"
	VariantSequence  = "sequence"
	VariantRecord    = "record"
	VariantUnion     = "union"
)

// VariantOf returns the variant name of s, or "" for nil.
func VariantOf(s Schema) string {
	switch s.(type) {
	case Primitive:
		return VariantPrimitive
	case Literal:
		return VariantLiteral
	case Sequence:
		return VariantSequence
	case Record:
		return VariantRecord
	case Union:
		return VariantUnion
	}
	return ""
}

// Undefined returns the primitive type of an absent value.
func Undefined() Schema {
	return Primitive{Kind: value.KindUndefined}
}

// NewRecord returns an empty record.
func NewRecord() Record {
	return Record{Fields: orderedmap.New[string, Schema]()}
}

// Set adds or replaces a field. Replacing keeps the field's position.
func (r Record) Set(key string, s Schema) {
	r.Fields.Set(key, s)
}

// Get returns the type of a field.
func (r Record) Get(key string) (Schema, bool) {
	if r.Fields == nil {
		return nil, false
	}
	return r.Fields.Get(key)
}

// Keys returns the field names in order.
func (r Record) Keys() []string {
	if r.Fields == nil {
		return nil
	}
	keys := make([]string, 0, r.Fields.Len())
	for pair := r.Fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Len returns the number of fields.
func (r Record) Len() int {
	if r.Fields == nil {
		return 0
	}
	return r.Fields.Len()
}

// NewUnion builds a union from members, flattening nested unions and dropping
// members structurally equal to an earlier one. A single remaining member is
// returned unwrapped.
func NewUnion(members ...Schema) Schema {
	flat := make([]Schema, 0, len(members))
	for _, m := range members {
		if u, ok := m.(Union); ok {
			flat = append(flat, u.Members...)
			continue
		}
		flat = append(flat, m)
	}

	out := make([]Schema, 0, len(flat))
	for _, m := range flat {
		if indexOfEqual(out, m) == -1 {
			out = append(out, m)
		}
	}

	if len(out) == 1 {
		return out[0]
	}
	return Union{Members: out}
}

// IsOptional reports whether s admits an absent value, either as the
// undefined primitive or as a union with an undefined member.
func IsOptional(s Schema) bool {
	switch t := s.(type) {
	case Primitive:
		return t.Kind == value.KindUndefined
	case Union:
		for _, m := range t.Members {
			if IsOptional(m) {
				return true
			}
		}
	}
	return false
}

func indexOfEqual(list []Schema, s Schema) int {
	for i, e := range list {
		if Equal(e, s) {
			return i
		}
	}
	return -1
}
