package models

import "strings"

// FieldError reports the first required field that was missing from a payload.
type FieldError struct {
	Field string
}

func (e *FieldError) Error() string {
	return e.Field + " is required"
}

// field pairs a JSON field name with whether a value was supplied for it.
type field struct {
	name    string
	present bool
}

func str(name, v string) field { return field{name, strings.TrimSpace(v) != ""} }

func num(name string, v Quantity) field { return field{name, v != 0} }

// requireFields returns a *FieldError for the first absent field, in declaration order.
func requireFields(fields ...field) error {
	for _, f := range fields {
		if !f.present {
			return &FieldError{Field: f.name}
		}
	}
	return nil
}
