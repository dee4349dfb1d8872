package goGuard

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"
)

// FieldKind selects the well-formedness rule applied to a parameter.
type FieldKind int

const (
	// FieldString accepts any non-empty string when the field is required.
	FieldString FieldKind = iota
	// FieldSessionID requires a well-formed session identifier (UUID).
	FieldSessionID
)

// FieldRule declares the expected shape of a single request parameter.
type FieldRule struct {
	Name     string
	Required bool
	Kind     FieldKind
}

// Schema is a declarative description of a request's path parameters,
// checked by the validation guard before the terminal operation runs.
// Schemas are data: they carry no behavior beyond the declared rules.
type Schema struct {
	Params []FieldRule
}

// DeleteSessionSchema validates the ":id" path parameter shared by both
// delete routes.
var DeleteSessionSchema = Schema{
	Params: []FieldRule{
		{Name: "id", Required: true, Kind: FieldSessionID},
	},
}

// Validate checks params against the schema. On success it returns the
// subset of params covered by the schema; on failure it returns a
// [ValidationError] carrying field-level details. No store lookup happens
// here or before this point for the checked fields.
func (s Schema) Validate(params map[string]string) (map[string]string, error) {
	fields := map[string]string{}
	parsed := make(map[string]string, len(s.Params))

	for _, rule := range s.Params {
		value, ok := params[rule.Name]
		if !ok || value == "" {
			if rule.Required {
				fields[rule.Name] = "required"
			}
			continue
		}

		switch rule.Kind {
		case FieldSessionID:
			if _, err := uuid.Parse(value); err != nil {
				fields[rule.Name] = "malformed session id"
				continue
			}
		case FieldString:
			// Presence is the whole rule.
		}

		parsed[rule.Name] = value
	}

	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}
	return parsed, nil
}

// ValidationError reports which fields failed validation and why. It unwraps
// to [ErrValidationFailed] for errors.Is classification.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s: %s", name, e.Fields[name]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e *ValidationError) Unwrap() error { return ErrValidationFailed }
