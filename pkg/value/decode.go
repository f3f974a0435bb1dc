package value

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/big"
	"sort"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"
	"gopkg.in/yaml.v3"
)

// Local YAML tags for kinds that JSON cannot express.
const (
	TagUndefined = "!undefined"
	TagSymbol    = "!symbol"
	TagBigInt    = "!bigint"
)

// Parse decodes JSON or YAML text into a Value, preserving object key order.
// Empty input yields undefined.
func Parse(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Undefined(), nil
	}

	// Indented JSON may contain tabs, which YAML rejects, so documents that
	// look like JSON containers are tried as JSON first.
	if trimmed[0] == '{' || trimmed[0] == '[' {
		if v, err := fromJSON(trimmed); err == nil {
			return v, nil
		}
	}

	var doc yaml.Node
	if err := yaml.Unmarshal(trimmed, &doc); err != nil {
		return Value{}, fmt.Errorf("parsing value: %w", err)
	}
	return FromYAMLNode(&doc)
}

// FromYAMLNode converts a yaml.v3 node tree into a Value.
func FromYAMLNode(n *yaml.Node) (Value, error) {
	if n == nil {
		return Undefined(), nil
	}

	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return Undefined(), nil
		}
		return FromYAMLNode(n.Content[0])

	case yaml.AliasNode:
		return FromYAMLNode(n.Alias)

	case yaml.SequenceNode:
		items := make([]Value, 0, len(n.Content))
		for _, child := range n.Content {
			item, err := FromYAMLNode(child)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, items: items}, nil

	case yaml.MappingNode:
		obj := NewObject()
		for i := 0; i+1 < len(n.Content); i += 2 {
			key, val := n.Content[i], n.Content[i+1]
			if key.Kind != yaml.ScalarNode {
				return Value{}, fmt.Errorf("line %d: object keys must be scalars", key.Line)
			}
			item, err := FromYAMLNode(val)
			if err != nil {
				return Value{}, err
			}
			obj.Set(key.Value, item)
		}
		return obj, nil

	case yaml.ScalarNode:
		return fromScalar(n)
	}

	return Value{}, fmt.Errorf("line %d: unsupported YAML node kind %d", n.Line, n.Kind)
}

func fromScalar(n *yaml.Node) (Value, error) {
	switch tag := n.ShortTag(); tag {
	case "!!str", "!!timestamp", "!!binary":
		return String(n.Value), nil
	case "!!int", "!!float", "!!bool", "!!null":
		var decoded any
		if err := n.Decode(&decoded); err != nil {
			return Value{}, fmt.Errorf("line %d: %w", n.Line, err)
		}
		return FromAny(decoded)
	case TagUndefined:
		return Undefined(), nil
	case TagSymbol:
		return Symbol(n.Value), nil
	case TagBigInt:
		digits := strings.TrimSuffix(strings.TrimSpace(n.Value), "n")
		i, ok := new(big.Int).SetString(digits, 0)
		if !ok {
			return Value{}, fmt.Errorf("line %d: invalid bigint %q", n.Line, n.Value)
		}
		return BigInt(i), nil
	default:
		return Value{}, fmt.Errorf("line %d: unsupported tag %s", n.Line, tag)
	}
}

// FromAny converts plain Go data into a Value. Maps with string keys are
// visited in sorted key order; any type without a direct mapping goes through
// its JSON encoding, which keeps struct field order.
func FromAny(x any) (Value, error) {
	switch t := x.(type) {
	case nil:
		return Null(), nil
	case Value:
		return t, nil
	case *Value:
		if t == nil {
			return Undefined(), nil
		}
		return *t, nil
	case string:
		return String(t), nil
	case bool:
		return Bool(t), nil
	case int:
		return Number(float64(t)), nil
	case int8:
		return Number(float64(t)), nil
	case int16:
		return Number(float64(t)), nil
	case int32:
		return Number(float64(t)), nil
	case int64:
		return Number(float64(t)), nil
	case uint:
		return Number(float64(t)), nil
	case uint8:
		return Number(float64(t)), nil
	case uint16:
		return Number(float64(t)), nil
	case uint32:
		return Number(float64(t)), nil
	case uint64:
		return Number(float64(t)), nil
	case float32:
		return Number(float64(t)), nil
	case float64:
		return Number(t), nil
	case *big.Int:
		return BigInt(t), nil
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return Value{}, fmt.Errorf("invalid number %q: %w", t, err)
		}
		return Number(f), nil
	case json.RawMessage:
		return fromJSON(t)
	case []Value:
		return Array(t...), nil
	case []any:
		items := make([]Value, 0, len(t))
		for _, e := range t {
			item, err := FromAny(e)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, items: items}, nil
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		obj := NewObject()
		for _, k := range keys {
			item, err := FromAny(t[k])
			if err != nil {
				return Value{}, err
			}
			obj.Set(k, item)
		}
		return obj, nil
	case *orderedmap.OrderedMap[string, any]:
		obj := NewObject()
		for pair := t.Oldest(); pair != nil; pair = pair.Next() {
			item, err := FromAny(pair.Value)
			if err != nil {
				return Value{}, err
			}
			obj.Set(pair.Key, item)
		}
		return obj, nil
	}

	data, err := json.Marshal(x)
	if err != nil {
		return Value{}, fmt.Errorf("encoding %T: %w", x, err)
	}
	return fromJSON(data)
}

func fromJSON(data []byte) (Value, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Value{}, fmt.Errorf("empty JSON value")
	}

	switch trimmed[0] {
	case '{':
		fields := orderedmap.New[string, json.RawMessage]()
		if err := fields.UnmarshalJSON(trimmed); err != nil {
			return Value{}, fmt.Errorf("parsing JSON object: %w", err)
		}
		obj := NewObject()
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			item, err := fromJSON(pair.Value)
			if err != nil {
				return Value{}, err
			}
			obj.Set(pair.Key, item)
		}
		return obj, nil

	case '[':
		var raw []json.RawMessage
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return Value{}, fmt.Errorf("parsing JSON array: %w", err)
		}
		items := make([]Value, 0, len(raw))
		for _, r := range raw {
			item, err := fromJSON(r)
			if err != nil {
				return Value{}, err
			}
			items = append(items, item)
		}
		return Value{kind: KindArray, items: items}, nil
	}

	var scalar any
	if err := json.Unmarshal(trimmed, &scalar); err != nil {
		return Value{}, fmt.Errorf("parsing JSON value: %w", err)
	}
	return FromAny(scalar)
}
