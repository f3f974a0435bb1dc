// Package snapshot persists accepted schemas and detects type drift between runs.
//
// The wire format is indented JSON. Primitives and literals are strings,
// sequences are one-element arrays, records are objects in field order, and
// unions are wrapped in an object with the single key "_$OR" so they cannot
// be mistaken for a sequence.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/usestring/layj/pkg/schema"
	"github.com/usestring/layj/pkg/value"
)

// UnionTag is the key that marks a serialized union.
const UnionTag = "_$OR"

const indent = "    "

// Marshal serializes s into the snapshot wire format.
func Marshal(s schema.Schema) ([]byte, error) {
	var buf bytes.Buffer
	if err := encode(&buf, s, 0); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal parses the snapshot wire format back into a schema.
func Unmarshal(data []byte) (schema.Schema, error) {
	s, err := decode(data, "$")
	if err != nil {
		return nil, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s, nil
}

func encode(buf *bytes.Buffer, s schema.Schema, depth int) error {
	switch t := s.(type) {
	case schema.Primitive:
		buf.WriteString(value.Quote(string(t.Kind)))

	case schema.Literal:
		buf.WriteString(value.Quote(t.Token))

	case schema.Sequence:
		buf.WriteString("[\n")
		writeIndent(buf, depth+1)
		if err := encode(buf, t.Elem, depth+1); err != nil {
			return err
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte(']')

	case schema.Record:
		if t.Len() == 0 {
			buf.WriteString("{}")
			return nil
		}
		buf.WriteString("{\n")
		i := 0
		for pair := t.Fields.Oldest(); pair != nil; pair = pair.Next() {
			if i > 0 {
				buf.WriteString(",\n")
			}
			i++
			writeIndent(buf, depth+1)
			buf.WriteString(value.Quote(pair.Key))
			buf.WriteString(": ")
			if err := encode(buf, pair.Value, depth+1); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth)
		buf.WriteByte('}')

	case schema.Union:
		buf.WriteString("{\n")
		writeIndent(buf, depth+1)
		buf.WriteString(value.Quote(UnionTag))
		buf.WriteString(": [\n")
		for i, m := range t.Members {
			if i > 0 {
				buf.WriteString(",\n")
			}
			writeIndent(buf, depth+2)
			if err := encode(buf, m, depth+2); err != nil {
				return err
			}
		}
		buf.WriteByte('\n')
		writeIndent(buf, depth+1)
		buf.WriteString("]\n")
		writeIndent(buf, depth)
		buf.WriteByte('}')

	default:
		return fmt.Errorf("cannot encode schema of type %T", s)
	}
	return nil
}

func writeIndent(buf *bytes.Buffer, depth int) {
	buf.WriteString(strings.Repeat(indent, depth))
}

func decode(data []byte, path string) (schema.Schema, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%s: empty value", path)
	}

	switch trimmed[0] {
	case '"':
		var token string
		if err := json.Unmarshal(trimmed, &token); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if kind := value.Kind(token); kind.IsPrimitive() {
			return schema.Primitive{Kind: kind}, nil
		}
		return schema.Literal{Token: token}, nil

	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(trimmed, &items); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if len(items) != 1 {
			return nil, fmt.Errorf("%s: sequence must hold exactly one element type, got %d", path, len(items))
		}
		elem, err := decode(items[0], path+"[]")
		if err != nil {
			return nil, err
		}
		return schema.Sequence{Elem: elem}, nil

	case '{':
		fields := orderedmap.New[string, json.RawMessage]()
		if err := fields.UnmarshalJSON(trimmed); err != nil {
			return nil, fmt.Errorf("%s: %w", path, err)
		}
		if fields.Len() == 1 {
			if raw, ok := fields.Get(UnionTag); ok {
				return decodeUnion(raw, path)
			}
		}
		rec := schema.NewRecord()
		for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
			field, err := decode(pair.Value, path+"."+pair.Key)
			if err != nil {
				return nil, err
			}
			rec.Set(pair.Key, field)
		}
		return rec, nil
	}

	return nil, fmt.Errorf("%s: unexpected token %q", path, trimmed[:1])
}

func decodeUnion(raw json.RawMessage, path string) (schema.Schema, error) {
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return nil, fmt.Errorf("%s: union members: %w", path, err)
	}
	if len(items) == 0 {
		return nil, fmt.Errorf("%s: union has no members", path)
	}

	members := make([]schema.Schema, 0, len(items))
	for i, item := range items {
		m, err := decode(item, fmt.Sprintf("%s|%d", path, i))
		if err != nil {
			return nil, err
		}
		members = append(members, m)
	}
	if len(members) == 1 {
		return members[0], nil
	}
	return schema.Union{Members: members}, nil
}
