package tools

import (
	"context"
	"fmt"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/usestring/layj/pkg/render"
	"github.com/usestring/layj/pkg/schema"
	"github.com/usestring/layj/pkg/snapshot"
	"github.com/usestring/layj/pkg/value"
)

// ExampleInput is one example value passed to a tool.
type ExampleInput struct {
	Label string `json:"label,omitempty" jsonschema:"Label shown in errors (default: #N)"`
	Value any    `json:"value" jsonschema:"Example value, any JSON"`
	Query string `json:"query,omitempty" jsonschema:"Optional jq expression applied to value before inference (e.g. .data.items[0])"`
}

// InferTypeInput is the input for layj_infer_type.
type InferTypeInput struct {
	Name       string         `json:"name" jsonschema:"Type name, a valid identifier (e.g. User)"`
	Examples   []ExampleInput `json:"examples" jsonschema:"Example values, folded left to right into one type"`
	UseXOR     bool           `json:"use_xor,omitempty" jsonschema:"Render unions as mutually exclusive XOR<a,b> (on if the project enables useXOR)"`
	JSDoc      bool           `json:"js_doc,omitempty" jsonschema:"Render a JSDoc @typedef instead of a TypeScript type alias (on if the project enables jsDoc)"`
	JSONSchema bool           `json:"json_schema,omitempty" jsonschema:"Also return a JSON Schema document (on if the project enables jsonSchema)"`
	Literals   any            `json:"literals,omitempty" jsonschema:"true to pin every value, or a nested mapping of field names to true/mapping (default: project literals)"`
}

// InferTypeOutput is the output of layj_infer_type.
type InferTypeOutput struct {
	Declaration string `json:"declaration"`
	Expression  string `json:"expression"`
	Snapshot    string `json:"snapshot"`
	// Members counts top-level union alternatives; a non-union type has one.
	Members    int    `json:"members"`
	JSONSchema string `json:"json_schema,omitempty"`
}

// ToolInferType folds examples into a type and renders its declaration.
func ToolInferType(d *Deps) func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferTypeInput) (*sdkmcp.CallToolResult, InferTypeOutput, error) {
	return func(ctx context.Context, req *sdkmcp.CallToolRequest, input InferTypeInput) (*sdkmcp.CallToolResult, InferTypeOutput, error) {
		if err := validateName(input.Name); err != nil {
			return nil, InferTypeOutput{}, err
		}

		folded, err := d.fold(ctx, input.Examples, input.Literals)
		if err != nil {
			return nil, InferTypeOutput{}, err
		}

		opts := d.renderOptions(input.UseXOR, input.JSDoc)

		snap, err := snapshot.Marshal(folded)
		if err != nil {
			return nil, InferTypeOutput{}, WrapEngineError(err)
		}

		output := InferTypeOutput{
			Declaration: render.Declaration(input.Name, folded, opts),
			Expression:  render.Expr(folded, opts),
			Snapshot:    string(snap),
			Members:     memberCount(folded),
		}

		if d.jsonSchema(input.JSONSchema) {
			data, err := render.MarshalJSONSchema(input.Name, folded, opts)
			if err != nil {
				return nil, InferTypeOutput{}, WrapEngineError(err)
			}
			output.JSONSchema = string(data)
		}

		return nil, output, nil
	}
}

// fold converts, optionally queries, infers and folds the examples in order.
func (d *Deps) fold(ctx context.Context, examples []ExampleInput, literals any) (schema.Schema, error) {
	if len(examples) == 0 {
		return nil, ErrInvalidInput("at least one example is required")
	}

	spec, err := schema.ParseLiterals(d.literals(literals))
	if err != nil {
		return nil, ErrInvalidInput(err.Error())
	}

	schemas := make([]schema.Schema, 0, len(examples))
	for i, ex := range examples {
		label := ex.Label
		if label == "" {
			label = fmt.Sprintf("#%d", i+1)
		}

		v, err := value.FromAny(ex.Value)
		if err != nil {
			return nil, ErrInvalidInput(fmt.Sprintf("example %s: %v", label, err))
		}

		if ex.Query != "" {
			if d.Query == nil {
				return nil, ErrInvalidInput("queries are not available")
			}
			v, err = d.Query.Extract(ctx, ex.Query, v)
			if err != nil {
				return nil, &CodedError{
					Code:    ErrCodeQueryFailed,
					Message: fmt.Sprintf("example %s", label),
					Cause:   err,
				}
			}
		}

		schemas = append(schemas, schema.FromValue(v, spec))
	}
	return schema.Fold(schemas...), nil
}

func validateName(name string) error {
	if name == "" {
		return ErrInvalidInput("name is required")
	}
	if !render.IsIdentifier(name) {
		return ErrInvalidInput(fmt.Sprintf("name %q is not a valid identifier", name))
	}
	return nil
}

func memberCount(s schema.Schema) int {
	if u, ok := s.(schema.Union); ok {
		return len(u.Members)
	}
	return 1
}
