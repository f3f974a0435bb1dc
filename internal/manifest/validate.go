package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	invopop "github.com/invopop/jsonschema"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"

	"github.com/usestring/layj/pkg/value"
)

const schemaURL = "https://layj.dev/manifest.schema.json"

var nodeType = reflect.TypeOf(yaml.Node{})

// JSONSchema returns the JSON Schema manifests are validated against,
// reflected from Document.
func JSONSchema() *invopop.Schema {
	r := &invopop.Reflector{
		ExpandedStruct:             true,
		DoNotReference:             true,
		RequiredFromJSONSchemaTags: true,
		Mapper: func(t reflect.Type) *invopop.Schema {
			// example values are free-form
			if t == nodeType {
				return &invopop.Schema{}
			}
			return nil
		},
	}
	s := r.Reflect(&Document{})
	s.ID = schemaURL
	s.Title = "layj manifest"
	return s
}

var compiled = sync.OnceValues(compileSchema)

func compileSchema() (*jsonschema.Schema, error) {
	// Round trip through JSON to get the plain value tree the compiler expects
	schemaJSON, err := json.Marshal(JSONSchema())
	if err != nil {
		return nil, fmt.Errorf("marshaling manifest schema: %w", err)
	}
	doc, err := jsonschema.UnmarshalJSON(strings.NewReader(string(schemaJSON)))
	if err != nil {
		return nil, fmt.Errorf("unmarshaling manifest schema: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(schemaURL, doc); err != nil {
		return nil, fmt.Errorf("adding manifest schema resource: %w", err)
	}
	s, err := compiler.Compile(schemaURL)
	if err != nil {
		return nil, fmt.Errorf("compiling manifest schema: %w", err)
	}
	return s, nil
}

func validateDocument(doc value.Value) error {
	s, err := compiled()
	if err != nil {
		return err
	}

	err = s.Validate(plain(doc))
	if err == nil {
		return nil
	}

	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		return errors.New(strings.Join(extractDetailedErrors(validationErr), "; "))
	}
	return err
}

// plain converts v into the value tree the validator understands.
func plain(v value.Value) any {
	switch v.Kind() {
	case value.KindObject:
		out := make(map[string]any, v.Len())
		for _, k := range v.Keys() {
			field, _ := v.Get(k)
			out[k] = plain(field)
		}
		return out
	case value.KindArray:
		items := v.Items()
		out := make([]any, len(items))
		for i, item := range items {
			out[i] = plain(item)
		}
		return out
	case value.KindString:
		return v.Str()
	case value.KindNumber:
		return json.Number(value.FormatNumber(v.Num()))
	case value.KindBigInt:
		return json.Number(v.Big().String())
	case value.KindBoolean:
		return v.Bool()
	}
	return nil
}

// printer is a default English printer for localized error messages.
var printer = message.NewPrinter(language.English)

// extractDetailedErrors flattens a validation error into sorted, deduplicated
// "path: message" lines.
func extractDetailedErrors(err *jsonschema.ValidationError) []string {
	errorsByPath := make(map[string][]string)
	collectErrors(err, errorsByPath)

	var result []string
	for path, msgs := range errorsByPath {
		seen := make(map[string]bool)
		for _, msg := range msgs {
			if seen[msg] {
				continue
			}
			seen[msg] = true
			if path != "" {
				result = append(result, fmt.Sprintf("%s: %s", path, msg))
			} else {
				result = append(result, msg)
			}
		}
	}
	sort.Strings(result)
	return result
}

// collectErrors recursively collects leaf errors (those without causes).
func collectErrors(err *jsonschema.ValidationError, errorsByPath map[string][]string) {
	instancePath := ""
	if len(err.InstanceLocation) > 0 {
		instancePath = "/" + strings.Join(err.InstanceLocation, "/")
	}

	if err.ErrorKind != nil && len(err.Causes) == 0 {
		errMsg := err.ErrorKind.LocalizedString(printer)
		if !strings.HasPrefix(errMsg, "$ref ") && !strings.HasPrefix(errMsg, "doesn't validate with") {
			errorsByPath[instancePath] = append(errorsByPath[instancePath], errMsg)
		}
	}

	for _, cause := range err.Causes {
		collectErrors(cause, errorsByPath)
	}
}
