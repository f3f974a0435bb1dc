package tools

import (
	"encoding/json"
	"testing"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"

	"github.com/usestring/layj/pkg/value"
)

func TestCheckOutputSchema(t *testing.T) {
	type inner struct {
		Schema json.RawMessage `json:"schema,omitempty"`
	}

	tests := []struct {
		name   string
		check  func()
		panics bool
	}{
		{
			name: "nil slice without omitzero",
			check: func() {
				CheckOutputSchema[struct {
					Items []string `json:"items"`
				}]("nil_slice")
			},
			panics: true,
		},
		{
			name: "slice with omitzero",
			check: func() {
				CheckOutputSchema[struct {
					Items []string `json:"items,omitzero"`
				}]("omitzero")
			},
		},
		{
			name: "slice with omitempty",
			check: func() {
				CheckOutputSchema[struct {
					Items []string `json:"items,omitempty"`
				}]("omitempty")
			},
		},
		{
			name: "pointer to slice",
			check: func() {
				// A nil pointer serializes as null, which the schema allows.
				CheckOutputSchema[struct {
					Items *[]string `json:"items"`
				}]("pointer")
			},
		},
		{
			name:  "untyped any",
			check: func() { CheckOutputSchema[any]("any") },
		},
		{
			name: "any slice",
			check: func() {
				CheckOutputSchema[struct {
					Items []any `json:"items,omitzero"`
				}]("any_slice")
			},
		},
		{
			name: "raw message field",
			check: func() {
				CheckOutputSchema[struct {
					Data json.RawMessage `json:"data,omitempty"`
				}]("raw")
			},
			panics: true,
		},
		{
			name: "raw message slice",
			check: func() {
				CheckOutputSchema[struct {
					Items []json.RawMessage `json:"items,omitzero"`
				}]("raw_slice")
			},
			panics: true,
		},
		{
			name: "nested raw message",
			check: func() {
				CheckOutputSchema[struct {
					Nested inner `json:"nested"`
				}]("raw_nested")
			},
			panics: true,
		},
		{
			name: "value field",
			check: func() {
				CheckOutputSchema[struct {
					Sample value.Value `json:"sample"`
				}]("value")
			},
			panics: true,
		},
		{
			name: "builtin outputs",
			check: func() {
				CheckOutputSchema[InferTypeOutput]("layj_infer_type")
				CheckOutputSchema[CheckSnapshotOutput]("layj_check_snapshot")
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.panics {
				assert.Panics(t, tt.check)
			} else {
				assert.NotPanics(t, tt.check)
			}
		})
	}
}

func TestOutputSchemaError_Paths(t *testing.T) {
	type example struct {
		Label string                   `json:"label"`
		Value *value.Value             `json:"value,omitempty"`
		Extra json.RawMessage          `json:"-"`
		ByKey map[string][]value.Value `json:"by_key,omitzero"`
	}

	err := OutputSchemaError[struct {
		Examples []example `json:"examples,omitzero"`
	}]()
	if assert.Error(t, err) {
		assert.Contains(t, err.Error(), "examples.[].value, examples.[].by_key.{}.[]")
	}
}

func TestRegister(t *testing.T) {
	srv := sdkmcp.NewServer(&sdkmcp.Implementation{Name: "test", Version: "0.0.0"}, nil)
	assert.NotPanics(t, func() {
		Register(srv, &Deps{})
	})
}
