// Package validate collects per-field validation failures for request bodies.
package validate

import (
	"sort"
	"strings"
)

// Errors maps a request field name to a human readable message.
type Errors map[string]string

// Add records msg for field unless the field already has a message.
func (e Errors) Add(field, msg string) {
	if _, exists := e[field]; !exists {
		e[field] = msg
	}
}

// Set records msg for field, replacing any earlier message.
func (e Errors) Set(field, msg string) {
	e[field] = msg
}

// Err returns e as an error, or nil when no field failed.
func (e Errors) Err() error {
	if len(e) == 0 {
		return nil
	}
	return e
}

func (e Errors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+e[f])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Required adds a "Missing required field" message when value is blank.
func (e Errors) Required(field, value string) {
	if strings.TrimSpace(value) == "" {
		e.Add(field, MissingField(field))
	}
}

// MissingField formats the standard message for an absent field.
func MissingField(field string) string {
	return "Missing required field: " + field
}
