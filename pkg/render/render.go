// Package render turns schemas into declaration text.
//
// Two dialects share one expression syntax: TypeScript emits a named type
// alias, JSDoc wraps the same expression in a @typedef comment. Rendering is
// a pure function of the schema and options.
package render

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/usestring/layj/pkg/schema"
	"github.com/usestring/layj/pkg/value"
)

// Dialect selects the declaration syntax.
type Dialect int

const (
	TypeScript Dialect = iota
	JSDoc
)

// Extension returns the file extension used for declarations in d.
func (d Dialect) Extension() string {
	if d == JSDoc {
		return ".js"
	}
	return ".ts"
}

func (d Dialect) String() string {
	if d == JSDoc {
		return "jsdoc"
	}
	return "typescript"
}

// Options control rendering.
type Options struct {
	Dialect Dialect
	// UseXOR renders unions as nested XOR<a,b> so exactly one alternative
	// may match, and prepends the XOR helper definitions.
	UseXOR bool
}

var identifier = regexp.MustCompile(`^[A-Za-z_$][A-Za-z0-9_$]*$`)

// IsIdentifier reports whether name can be used unquoted, both as a
// property key and as a declared type name.
func IsIdentifier(name string) bool {
	return identifier.MatchString(name)
}

// Expr renders s as a type expression. Unions are parenthesized.
func Expr(s schema.Schema, opts Options) string {
	var b strings.Builder
	writeExpr(&b, s, opts, true)
	return b.String()
}

// Declaration renders a complete declaration file for the named type.
func Declaration(name string, s schema.Schema, opts Options) string {
	var b strings.Builder
	if opts.UseXOR {
		b.WriteString(xorHelper(opts.Dialect))
	}

	switch opts.Dialect {
	case JSDoc:
		// The typedef braces already delimit a top-level union.
		b.WriteString("/**\n*@typedef {")
		writeExpr(&b, s, opts, false)
		b.WriteString("}")
		b.WriteString(name)
		b.WriteString("\n**/")
	default:
		b.WriteString("export type ")
		b.WriteString(name)
		b.WriteString(" = ")
		writeExpr(&b, s, opts, true)
		b.WriteString(";")
	}
	return b.String()
}

// FileName returns the declaration file name for a type.
func FileName(name string, d Dialect) string {
	return name + d.Extension()
}

func writeExpr(b *strings.Builder, s schema.Schema, opts Options, parens bool) {
	switch t := s.(type) {
	case schema.Primitive:
		b.WriteString(string(t.Kind))

	case schema.Literal:
		b.WriteString(t.Token)

	case schema.Sequence:
		writeExpr(b, t.Elem, opts, true)
		b.WriteString("[]")

	case schema.Record:
		b.WriteByte('{')
		if t.Len() == 0 {
			b.WriteByte('}')
			return
		}
		i := 0
		for pair := t.Fields.Oldest(); pair != nil; pair = pair.Next() {
			if i > 0 {
				b.WriteByte(',')
			}
			i++
			b.WriteString(propertyName(pair.Key))
			b.WriteByte(':')
			writeExpr(b, pair.Value, opts, true)
		}
		b.WriteByte('}')

	case schema.Union:
		if parens {
			b.WriteByte('(')
		}
		if opts.UseXOR {
			writeXOR(b, t.Members, opts)
		} else {
			for i, m := range t.Members {
				if i > 0 {
					b.WriteByte('|')
				}
				writeExpr(b, m, opts, true)
			}
		}
		if parens {
			b.WriteByte(')')
		}

	default:
		panic(fmt.Sprintf("render: unknown schema type %T", s))
	}
}

// writeXOR folds members from the right: XOR<a,XOR<b,c>>.
func writeXOR(b *strings.Builder, members []schema.Schema, opts Options) {
	if len(members) == 1 {
		writeExpr(b, members[0], opts, true)
		return
	}
	b.WriteString("XOR<")
	writeExpr(b, members[0], opts, true)
	b.WriteByte(',')
	writeXOR(b, members[1:], opts)
	b.WriteByte('>')
}

func propertyName(key string) string {
	if IsIdentifier(key) {
		return key
	}
	return value.Quote(key)
}
