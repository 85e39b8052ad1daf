// Package validation checks JSON documents against the schemas embedded in
// the binary.
package validation

import (
	"bytes"
	"embed"
	"fmt"
	"strings"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

//go:embed schemas/*.schema.json
var schemaFS embed.FS

// BackupSchema is the schema for character backup documents
const BackupSchema = "schemas/backup.schema.json"

// SchemaValidator validates JSON data against one compiled schema
type SchemaValidator interface {
	ValidateBytes(data []byte) error
}

type validator struct {
	schema *jsonschema.Schema
}

// NewSchemaValidator compiles the embedded schema at path
func NewSchemaValidator(path string) (SchemaValidator, error) {
	raw, err := schemaFS.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read schema %s: %w", path, err)
	}
	return compile(path, raw)
}

func compile(name string, raw []byte) (*validator, error) {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse schema JSON: %w", err)
	}

	compiler := jsonschema.NewCompiler()
	if err := compiler.AddResource(name, doc); err != nil {
		return nil, fmt.Errorf("failed to add schema resource: %w", err)
	}
	schema, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("failed to compile schema: %w", err)
	}
	return &validator{schema: schema}, nil
}

// ValidateBytes validates JSON data bytes against the schema
func (v *validator) ValidateBytes(data []byte) error {
	doc, err := jsonschema.UnmarshalJSON(bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("failed to parse JSON data: %w", err)
	}
	if err := v.schema.Validate(doc); err != nil {
		return formatValidationError(err)
	}
	return nil
}

var backupValidator = sync.OnceValues(func() (SchemaValidator, error) {
	return NewSchemaValidator(BackupSchema)
})

// ValidateBackup checks a character backup document
func ValidateBackup(data []byte) error {
	v, err := backupValidator()
	if err != nil {
		return err
	}
	return v.ValidateBytes(data)
}

// formatValidationError flattens a validation error tree into one line per failure
func formatValidationError(err error) error {
	validationErr, ok := err.(*jsonschema.ValidationError)
	if !ok {
		return fmt.Errorf("validation error: %w", err)
	}
	var errs []string
	collectErrors(validationErr, &errs)
	return fmt.Errorf("schema validation failed: %s", strings.Join(errs, "; "))
}

func collectErrors(err *jsonschema.ValidationError, errs *[]string) {
	// Only leaves carry the failing keyword
	if len(err.Causes) == 0 {
		*errs = append(*errs, formatError(err))
	}
	for _, cause := range err.Causes {
		collectErrors(cause, errs)
	}
}

func formatError(err *jsonschema.ValidationError) string {
	location := "(root)"
	if len(err.InstanceLocation) > 0 {
		location = "/" + strings.Join(err.InstanceLocation, "/")
	}

	keywords := ""
	if err.ErrorKind != nil {
		keywords = strings.Join(err.ErrorKind.KeywordPath(), ".")
	}
	if keywords == "" {
		return fmt.Sprintf("at %s: validation failed", location)
	}
	return fmt.Sprintf("at %s: %s validation failed", location, keywords)
}
