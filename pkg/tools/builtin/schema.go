package builtin

import (
	"encoding/json"
	"fmt"
	"reflect"

	"github.com/germanamz/pairloop/pkg/tools/calculator"
	"github.com/invopop/jsonschema"
)

var numberType = reflect.TypeOf(calculator.Number{})

// Schema returns the JSON Schema of kind's argument struct.
func Schema(kind Kind) (json.RawMessage, error) {
	switch kind {
	case Calculator:
		return generateSchema[CalculatorCall]()
	case SendEmail:
		return generateSchema[SendEmailCall]()
	}
	return nil, fmt.Errorf("builtin: unknown tool %q", kind)
}

func generateSchema[T any]() (json.RawMessage, error) {
	reflector := jsonschema.Reflector{
		Anonymous:      true,
		DoNotReference: true,
		ExpandedStruct: true,
		Mapper: func(t reflect.Type) *jsonschema.Schema {
			if t == numberType {
				return &jsonschema.Schema{Type: "number"}
			}
			return nil
		},
	}

	var v T
	schema := reflector.Reflect(v)
	schema.Version = ""

	data, err := json.Marshal(schema)
	if err != nil {
		return nil, fmt.Errorf("builtin: schema: %w", err)
	}

	return data, nil
}
