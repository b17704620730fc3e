package ai

import (
	"errors"
	"strings"
)

// ErrMalformedResponse is returned when the model reply is not a JSON object
// after fence stripping, or uses a wrapper shape we do not recognize.
var ErrMalformedResponse = errors.New("malformed model response")

// FieldError describes one field that failed schema validation.
type FieldError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

// SchemaValidationError is returned when a well-formed reply does not match
// the expected result contract.
type SchemaValidationError struct {
	Contract string       `json:"contract"`
	Fields   []FieldError `json:"fields"`
}

func (e *SchemaValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Reason)
	}
	return "model response does not match " + e.Contract + ": " + strings.Join(parts, "; ")
}
