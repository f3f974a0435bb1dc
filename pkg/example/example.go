// Package example describes where the example values of a named type come from.
//
// A Producer yields one value when asked. Producers are independent of each
// other so a caller may run them concurrently, but the order of a type's
// examples is significant and must be kept when their schemas are folded.
package example

import (
	"context"
	"fmt"

	"github.com/usestring/layj/pkg/value"
)

// Producer yields one example value.
type Producer interface {
	Produce(ctx context.Context) (value.Value, error)
}

// Example is a labeled producer. The label identifies the example in errors
// and logs.
type Example struct {
	Label    string
	Producer Producer
}

// Set is the declared list of examples for one named type, with optional
// parameter overrides that take precedence over every other layer.
type Set struct {
	Name     string
	Examples []Example
	Params   map[string]any
}

// AddFunc appends an example to the set being defined.
type AddFunc func(label string, p Producer)

// Define builds a Set by letting build register examples in order.
//
//	set := example.Define("User", func(add example.AddFunc) {
//		add("name only", example.Of(map[string]any{"name": "Jhon Doe"}))
//		add("fixture", example.File{Path: "fixtures/user.json"})
//	}, nil)
func Define(name string, build func(add AddFunc), params map[string]any) Set {
	set := Set{Name: name, Params: params}
	build(func(label string, p Producer) {
		if label == "" {
			label = fmt.Sprintf("#%d", len(set.Examples)+1)
		}
		set.Examples = append(set.Examples, Example{Label: label, Producer: p})
	})
	return set
}

// Func adapts a Go function to a Producer. The result is converted with
// value.FromAny.
type Func func(ctx context.Context) (any, error)

// Produce implements Producer.
func (f Func) Produce(ctx context.Context) (value.Value, error) {
	x, err := f(ctx)
	if err != nil {
		return value.Value{}, err
	}
	return value.FromAny(x)
}

// Static always yields the same value.
type Static struct {
	Value value.Value
}

// Produce implements Producer.
func (s Static) Produce(context.Context) (value.Value, error) {
	return s.Value, nil
}

// Of returns a producer for a plain Go value.
func Of(x any) Producer {
	return Func(func(context.Context) (any, error) { return x, nil })
}
