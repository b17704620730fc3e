package ai

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/invopop/jsonschema"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	// Report fields by their JSON names, matching what the model produced.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// SchemaFor returns the JSON schema of a result contract. It is embedded in
// prompts and supplies the required fields checked by Decode.
func SchemaFor(v any) *jsonschema.Schema {
	r := &jsonschema.Reflector{
		DoNotReference: true,
		ExpandedStruct: true,
	}
	return r.Reflect(v)
}

// SchemaJSON renders the schema of v as indented JSON.
func SchemaJSON(v any) (string, error) {
	b, err := json.MarshalIndent(SchemaFor(v), "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshal schema: %w", err)
	}
	return string(b), nil
}

// Decode validates a normalized mapping against the contract out points to
// and fills it. Any mismatch is reported as *SchemaValidationError.
func Decode(flat map[string]any, out any) error {
	contract := contractName(out)
	var fields []FieldError

	missingRequired(SchemaFor(out), flat, "", &fields)
	if len(fields) > 0 {
		return &SchemaValidationError{Contract: contract, Fields: fields}
	}

	raw, err := Marshal(flat)
	if err != nil {
		return fmt.Errorf("re-encode normalized response: %w", err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		var typeErr *json.UnmarshalTypeError
		if errors.As(err, &typeErr) {
			return &SchemaValidationError{Contract: contract, Fields: []FieldError{{
				Field:  typeErr.Field,
				Reason: fmt.Sprintf("expected %s, got %s", typeErr.Type, typeErr.Value),
			}}}
		}
		return &SchemaValidationError{Contract: contract, Fields: []FieldError{{Field: "", Reason: err.Error()}}}
	}

	if err := validate.Struct(out); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return fmt.Errorf("validate %s: %w", contract, err)
		}
		for _, fe := range verrs {
			fields = append(fields, FieldError{Field: fieldPath(fe), Reason: reason(fe)})
		}
		return &SchemaValidationError{Contract: contract, Fields: fields}
	}
	return nil
}

// missingRequired walks v alongside its schema, descending into object
// properties and array items, and records every absent or null required key.
func missingRequired(s *jsonschema.Schema, v any, path string, fields *[]FieldError) {
	if s == nil {
		return
	}
	switch val := v.(type) {
	case map[string]any:
		for _, name := range s.Required {
			if x, ok := val[name]; !ok || x == nil {
				*fields = append(*fields, FieldError{Field: joinPath(path, name), Reason: "is required"})
			}
		}
		if s.Properties == nil {
			return
		}
		for pair := s.Properties.Oldest(); pair != nil; pair = pair.Next() {
			if x, ok := val[pair.Key]; ok && x != nil {
				missingRequired(pair.Value, x, joinPath(path, pair.Key), fields)
			}
		}
	case []any:
		for i, x := range val {
			missingRequired(s.Items, x, fmt.Sprintf("%s[%d]", path, i), fields)
		}
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}

func contractName(v any) string {
	t := reflect.TypeOf(v)
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return "<nil>"
	}
	return t.Name()
}

// fieldPath drops the root struct name from the validator namespace.
func fieldPath(fe validator.FieldError) string {
	ns := fe.Namespace()
	if i := strings.IndexByte(ns, '.'); i >= 0 {
		return ns[i+1:]
	}
	return ns
}

func reason(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must have at least " + fe.Param() + " item(s)"
	case "gte":
		return "must be >= " + fe.Param()
	case "oneof":
		return "must be one of [" + fe.Param() + "]"
	default:
		return "failed " + fe.Tag() + " check"
	}
}
