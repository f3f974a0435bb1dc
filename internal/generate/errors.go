package generate

import "fmt"

// ExampleError reports a failed example producer. It is terminal for the type.
type ExampleError struct {
	Type  string
	Label string
	Err   error
}

func (e *ExampleError) Error() string {
	return fmt.Sprintf("type %s: example %s: %v", e.Type, e.Label, e.Err)
}

func (e *ExampleError) Unwrap() error {
	return e.Err
}

// TypeError attributes a parameter or I/O failure to a type.
type TypeError struct {
	Type string
	Err  error
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("type %s: %v", e.Type, e.Err)
}

func (e *TypeError) Unwrap() error {
	return e.Err
}
