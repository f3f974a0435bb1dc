// Package value models the runtime example values that schemas are inferred from.
//
// A Value is one of the primitive kinds (string, number, bigint, boolean,
// undefined, symbol, null), an ordered array of values, or an object whose
// keys keep their insertion order. The zero Value is undefined.
package value

import (
	"math/big"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// Kind identifies the shape of a Value.
type Kind string

// Value kinds. The first seven are the primitive kinds.
const (
	KindString    Kind = "string"
	KindNumber    Kind = "number"
	KindBigInt    Kind = "bigint"
	KindBoolean   Kind = "boolean"
	KindUndefined Kind = "undefined"
	KindSymbol    Kind = "symbol"
	KindNull      Kind = "null"
	KindArray     Kind = "array"
	KindObject    Kind = "object"
)

var primitiveKinds = []Kind{
	KindString,
	KindNumber,
	KindBigInt,
	KindBoolean,
	KindUndefined,
	KindSymbol,
	KindNull,
}

// PrimitiveKinds returns the primitive kind names in canonical order.
func PrimitiveKinds() []Kind {
	out := make([]Kind, len(primitiveKinds))
	copy(out, primitiveKinds)
	return out
}

// IsPrimitive reports whether k is one of the primitive kinds.
func (k Kind) IsPrimitive() bool {
	for _, p := range primitiveKinds {
		if k == p {
			return true
		}
	}
	return false
}

// symbol is an opaque marker compared by identity.
type symbol struct {
	desc string
}

// Value is a single example value.
type Value struct {
	kind   Kind
	str    string
	num    float64
	big    *big.Int
	b      bool
	sym    *symbol
	items  []Value
	fields *orderedmap.OrderedMap[string, Value]
}

// String returns a string value.
func String(s string) Value { return Value{kind: KindString, str: s} }

// Number returns a number value.
func Number(f float64) Value { return Value{kind: KindNumber, num: f} }

// BigInt returns an arbitrary-precision integer value. A nil n is treated as zero.
func BigInt(n *big.Int) Value {
	if n == nil {
		n = new(big.Int)
	}
	return Value{kind: KindBigInt, big: new(big.Int).Set(n)}
}

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{kind: KindBoolean, b: b} }

// Undefined returns the absent value.
func Undefined() Value { return Value{kind: KindUndefined} }

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Symbol returns a new opaque marker. Every call yields a distinct symbol,
// even for the same description.
func Symbol(desc string) Value {
	return Value{kind: KindSymbol, sym: &symbol{desc: desc}}
}

// Array returns an array holding items in order.
func Array(items ...Value) Value {
	out := make([]Value, len(items))
	copy(out, items)
	return Value{kind: KindArray, items: out}
}

// NewObject returns an empty object. Keys added with Set keep insertion order.
func NewObject() Value {
	return Value{kind: KindObject, fields: orderedmap.New[string, Value]()}
}

// Kind returns the kind of v.
func (v Value) Kind() Kind {
	if v.kind == "" {
		return KindUndefined
	}
	return v.kind
}

// Str returns the string content of a string value or the description of a symbol.
func (v Value) Str() string {
	if v.sym != nil {
		return v.sym.desc
	}
	return v.str
}

// Num returns the numeric content of a number value.
func (v Value) Num() float64 { return v.num }

// Big returns a copy of the integer held by a bigint value, or nil.
func (v Value) Big() *big.Int {
	if v.big == nil {
		return nil
	}
	return new(big.Int).Set(v.big)
}

// Bool returns the content of a boolean value.
func (v Value) Bool() bool { return v.b }

// Items returns the elements of an array value.
func (v Value) Items() []Value { return v.items }

// Len returns the number of elements of an array or keys of an object.
func (v Value) Len() int {
	switch v.Kind() {
	case KindArray:
		return len(v.items)
	case KindObject:
		return v.fields.Len()
	}
	return 0
}

// Keys returns the keys of an object value in insertion order.
func (v Value) Keys() []string {
	if v.Kind() != KindObject {
		return nil
	}
	keys := make([]string, 0, v.fields.Len())
	for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
		keys = append(keys, pair.Key)
	}
	return keys
}

// Get returns the value stored under key in an object.
func (v Value) Get(key string) (Value, bool) {
	if v.Kind() != KindObject {
		return Value{}, false
	}
	return v.fields.Get(key)
}

// Set stores val under key. Setting an existing key keeps its position.
// Set is a no-op on values that are not objects.
func (v Value) Set(key string, val Value) {
	if v.Kind() != KindObject {
		return
	}
	v.fields.Set(key, val)
}

// ToAny converts v into plain Go data: map[string]any, []any, float64,
// *big.Int, string, bool or nil. Undefined and symbols become nil.
func (v Value) ToAny() any {
	switch v.Kind() {
	case KindString:
		return v.str
	case KindNumber:
		return v.num
	case KindBigInt:
		return v.Big()
	case KindBoolean:
		return v.b
	case KindArray:
		out := make([]any, len(v.items))
		for i, item := range v.items {
			out[i] = item.ToAny()
		}
		return out
	case KindObject:
		out := make(map[string]any, v.fields.Len())
		for pair := v.fields.Oldest(); pair != nil; pair = pair.Next() {
			out[pair.Key] = pair.Value.ToAny()
		}
		return out
	}
	return nil
}
