// Package forms provides declarative form definitions with per-field
// validator chains. Validation that needs the database (username/email
// uniqueness) goes through an injected lookup so this package never imports
// the storage layer.
package forms

import (
	"context"
)

// Validator checks a single submitted value and returns a human-readable
// error when it fails.
type Validator func(ctx context.Context, value string) error

// Field is one named form field with an ordered validator chain.
type Field struct {
	Name       string
	Label      string
	Validators []Validator
}

// Schema is a named set of fields validated together on submission.
type Schema struct {
	Name   string
	Fields []Field
}

// Result carries the submitted values and any validation messages keyed by
// field name. Values are kept so invalid forms re-render pre-filled.
type Result struct {
	Values map[string]string
	Errors map[string]string
}

// Valid reports whether every field passed.
func (r *Result) Valid() bool {
	return len(r.Errors) == 0
}

// Error returns the message for a field, or "" when it passed.
func (r *Result) Error(field string) string {
	return r.Errors[field]
}

// Value returns the submitted value for a field.
func (r *Result) Value(field string) string {
	return r.Values[field]
}

// Validate runs each field's validators in order against the submitted
// values, stopping at the field's first failure. get is typically
// fiber.Ctx.FormValue.
func (s Schema) Validate(ctx context.Context, get func(name string) string) *Result {
	res := &Result{
		Values: make(map[string]string, len(s.Fields)),
		Errors: make(map[string]string),
	}
	for _, f := range s.Fields {
		value := get(f.Name)
		res.Values[f.Name] = value
		for _, v := range f.Validators {
			if err := v(ctx, value); err != nil {
				res.Errors[f.Name] = err.Error()
				break
			}
		}
	}
	return res
}
