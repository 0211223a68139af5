package schema

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Validator checks decoded JSON documents against a compiled schema.
type Validator struct {
	compiled *jsonschema.Schema
}

// NewValidator compiles s into a Validator.
func NewValidator(name string, s *Schema) (*Validator, error) {
	raw, err := json.Marshal(s.Document())
	if err != nil {
		return nil, fmt.Errorf("marshaling schema %s: %w", name, err)
	}

	compiler := jsonschema.NewCompiler()
	compiler.Draft = jsonschema.Draft2020
	if err := compiler.AddResource(name, bytes.NewReader(raw)); err != nil {
		return nil, fmt.Errorf("loading schema %s: %w", name, err)
	}
	compiled, err := compiler.Compile(name)
	if err != nil {
		return nil, fmt.Errorf("compiling schema %s: %w", name, err)
	}
	return &Validator{compiled: compiled}, nil
}

// ValidateJSON validates a raw JSON document.
func (v *Validator) ValidateJSON(raw []byte) error {
	var doc interface{}
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("decoding JSON for validation: %w", err)
	}
	if err := v.compiled.Validate(doc); err != nil {
		return fmt.Errorf("output does not match schema: %w", err)
	}
	return nil
}

var (
	hazardRecordValidatorOnce sync.Once
	hazardRecordValidator     *Validator
	hazardRecordValidatorErr  error
)

// ValidateHazardRecord validates raw against the HazardRecord contract.
// Missing fields and nulls are accepted; wrong types and a non-object root
// are not.
func ValidateHazardRecord(raw []byte) error {
	hazardRecordValidatorOnce.Do(func() {
		hazardRecordValidator, hazardRecordValidatorErr = NewValidator("hazard_record.json", HazardRecord())
	})
	if hazardRecordValidatorErr != nil {
		return hazardRecordValidatorErr
	}
	return hazardRecordValidator.ValidateJSON(raw)
}
