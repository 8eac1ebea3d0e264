// Package schema validates the repaired model output against a document
// type's fixed field list and applies the defaulting pass: missing fields
// become explicit nulls, unknown fields are dropped.
package schema

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

// Definition is the compiled output schema for one document type.
type Definition struct {
	DocumentType string
	Fields       []string
	compiled     *jsonschema.Schema
}

// Compile builds the envelope schema for a document type. Structural checks
// are strict: the envelope must be an object, data (when present) must be an
// object, and present data fields must be string, number or null. Numbers are
// tolerated because models occasionally emit amounts unquoted; the
// normalization pass stringifies them.
func Compile(documentType string, fields []string) (*Definition, error) {
	props := map[string]any{}
	for _, f := range fields {
		props[f] = map[string]any{"type": []string{"string", "number", "null"}}
	}
	doc := map[string]any{
		"type": "object",
		"properties": map[string]any{
			"documentType": map[string]any{"type": "string"},
			"data": map[string]any{
				"type":       "object",
				"properties": props,
			},
		},
	}

	b, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("marshal schema: %w", err)
	}
	compiler := jsonschema.NewCompiler()
	resource := documentType + ".schema.json"
	if err := compiler.AddResource(resource, bytes.NewReader(b)); err != nil {
		return nil, fmt.Errorf("add schema: %w", err)
	}
	compiled, err := compiler.Compile(resource)
	if err != nil {
		return nil, fmt.Errorf("compile schema: %w", err)
	}

	return &Definition{DocumentType: documentType, Fields: fields, compiled: compiled}, nil
}

// MustCompile is Compile for the static registry.
func MustCompile(documentType string, fields []string) *Definition {
	d, err := Compile(documentType, fields)
	if err != nil {
		panic(fmt.Sprintf("schema: compile %s: %v", documentType, err))
	}
	return d
}

// Apply validates the repaired envelope and returns the defaulted data map.
// Every declared field is present in the result; fields the model omitted are
// nil, fields the schema does not declare are dropped.
func (d *Definition) Apply(raw map[string]any) (map[string]any, error) {
	if err := d.compiled.Validate(raw); err != nil {
		return nil, fmt.Errorf("output does not match %s schema: %w", d.DocumentType, err)
	}

	inner, _ := raw["data"].(map[string]any)
	data := make(map[string]any, len(d.Fields))
	for _, f := range d.Fields {
		v, ok := inner[f]
		if !ok {
			data[f] = nil
			continue
		}
		data[f] = v
	}
	return data, nil
}
