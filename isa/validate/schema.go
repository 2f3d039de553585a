package validate

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/openisa/isakit/errors"
)

//go:embed schemas/investigation_schema.json
var investigationSchema []byte

// SchemaValidator is the external conformance predicate: it answers whether
// a decoded document conforms to the investigation schema and, if not, with
// which violations.
type SchemaValidator interface {
	Validate(document interface{}) []string
}

type jsonSchemaValidator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the investigation schema. An empty path
// selects the embedded schema; a non-empty path loads a replacement from
// disk.
func NewSchemaValidator(path string) (SchemaValidator, error) {
	data := investigationSchema
	name := "investigation_schema.json"
	if path != "" {
		loaded, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.Wrapf(err, "failed to read schema %s", path)
		}
		data = loaded
		name = path
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, bytes.NewReader(data)); err != nil {
		return nil, errors.Wrap(err, "failed to add schema resource")
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, errors.Wrap(err, "failed to compile investigation schema")
	}
	return &jsonSchemaValidator{schema: schema}, nil
}

// Validate returns one message per schema violation, or nil when the
// document conforms.
func (v *jsonSchemaValidator) Validate(document interface{}) []string {
	err := v.schema.Validate(document)
	if err == nil {
		return nil
	}
	var validationErr *jsonschema.ValidationError
	if errors.As(err, &validationErr) {
		output := validationErr.BasicOutput()
		var violations []string
		for _, unit := range output.Errors {
			if unit.Error == "" || unit.InstanceLocation == "" && unit.KeywordLocation == "" {
				continue
			}
			violations = append(violations, fmt.Sprintf("%s: %s", unit.InstanceLocation, unit.Error))
		}
		if len(violations) > 0 {
			return violations
		}
	}
	return []string{err.Error()}
}
