// Package query provides jq-based extraction of example values.
package query

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/itchyny/gojq"

	"github.com/usestring/layj/internal/cache"
	"github.com/usestring/layj/pkg/value"
)

// Engine compiles and runs jq expressions. Compiled programs are cached by
// expression text. An Engine is safe for concurrent use.
type Engine struct {
	programs *cache.LRU[string, *gojq.Code]
}

// NewEngine creates a query engine caching up to cacheSize compiled programs.
func NewEngine(cacheSize int) (*Engine, error) {
	programs, err := cache.NewLRU[string, *gojq.Code](cacheSize)
	if err != nil {
		return nil, fmt.Errorf("creating query cache: %w", err)
	}
	return &Engine{programs: programs}, nil
}

// Compile parses and compiles expression, reusing a cached program when possible.
func (e *Engine) Compile(expression string) (*gojq.Code, error) {
	return e.programs.GetOrCreate(expression, func() (*gojq.Code, error) {
		query, err := gojq.Parse(expression)
		if err != nil {
			var parseErr *gojq.ParseError
			if errors.As(err, &parseErr) {
				return nil, fmt.Errorf("invalid jq expression at position %d: %w", parseErr.Offset, err)
			}
			return nil, fmt.Errorf("invalid jq expression: %w", err)
		}

		code, err := gojq.Compile(query)
		if err != nil {
			return nil, fmt.Errorf("failed to compile jq expression: %w", err)
		}
		return code, nil
	})
}

// ValidateExpression checks if a jq expression is valid without executing it.
func (e *Engine) ValidateExpression(expression string) error {
	_, err := e.Compile(expression)
	return err
}

// Run applies expression to input and returns every emitted value in order.
// Object keys of emitted values come back sorted.
func (e *Engine) Run(ctx context.Context, expression string, input value.Value) ([]value.Value, error) {
	code, err := e.Compile(expression)
	if err != nil {
		return nil, err
	}

	var out []value.Value
	iter := code.RunWithContext(ctx, input.ToAny())
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}

		if err, isErr := v.(error); isErr {
			var haltErr *gojq.HaltError
			if errors.As(err, &haltErr) && haltErr.Value() == nil {
				break
			}
			return nil, errors.New(formatJQError(expression, err))
		}

		converted, err := value.FromAny(v)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", expression, err)
		}
		out = append(out, converted)
	}

	return out, nil
}

// Extract runs expression and collapses its output into one value: a single
// result is returned as is, several become an array, none is undefined.
func (e *Engine) Extract(ctx context.Context, expression string, input value.Value) (value.Value, error) {
	results, err := e.Run(ctx, expression, input)
	if err != nil {
		return value.Value{}, err
	}

	switch len(results) {
	case 0:
		return value.Undefined(), nil
	case 1:
		return results[0], nil
	}
	return value.Array(results...), nil
}

// formatJQError creates a helpful error message for jq execution errors.
// Runtime errors from gojq are mostly untyped, so hints are picked by
// message text; they only decorate the message.
func formatJQError(label string, err error) string {
	var haltErr *gojq.HaltError
	if errors.As(err, &haltErr) {
		return fmt.Sprintf("%s: query halted with: %v", label, haltErr.Value())
	}

	errStr := err.Error()

	var hint string
	switch {
	case strings.Contains(errStr, "cannot iterate over: null"):
		hint = " (the path may not exist in this example)"
	case strings.Contains(errStr, "cannot index") && strings.Contains(errStr, "with"):
		hint = " (field not found or wrong type)"
	case strings.Contains(errStr, "object") && strings.Contains(errStr, "cannot be iterated"):
		hint = " (expected array but got object, try removing '[]')"
	case strings.Contains(errStr, "array") && strings.Contains(errStr, "cannot be indexed"):
		hint = " (expected object but got array, try adding '[]')"
	}

	return fmt.Sprintf("%s: %s%s", label, errStr, hint)
}
