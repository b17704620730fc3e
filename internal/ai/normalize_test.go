package ai

import (
	"encoding/json"
	"errors"
	"reflect"
	"testing"
)

func TestNormalizeUnwrapsSchemaWrappedResponse(t *testing.T) {
	got, err := Normalize(`{"properties":{"a":{"value":1}}}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"a": json.Number("1")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizePassesFlatObjectThrough(t *testing.T) {
	got, err := Normalize(`{"a":1}`)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{"a": json.Number("1")}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeMixedWrappedEntries(t *testing.T) {
	raw := `{
		"type": "object",
		"properties": {
			"weather_summary": {"value": "Sunny", "description": "summary"},
			"carry_umbrella": {"value": false},
			"other_carry_items": ["sunscreen"],
			"location_info": {"name": "Pier"}
		}
	}`
	got, err := Normalize(raw)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := map[string]any{
		"weather_summary":   "Sunny",
		"carry_umbrella":    false,
		"other_carry_items": []any{"sunscreen"},
		"location_info":     map[string]any{"name": "Pier"},
	}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestNormalizeStripsCodeFences(t *testing.T) {
	cases := []string{
		"```json\n{\"a\":1}\n```",
		"```\n{\"a\":1}\n```",
		"  ```JSON {\"a\":1}```  ",
		"{\"a\":1}\n```",
	}
	want := map[string]any{"a": json.Number("1")}
	for _, raw := range cases {
		got, err := Normalize(raw)
		if err != nil {
			t.Fatalf("%q: unexpected error: %v", raw, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Fatalf("%q: expected %v, got %v", raw, want, got)
		}
	}
}

func TestNormalizeMalformed(t *testing.T) {
	cases := []string{
		"not json",
		"",
		"```json\n```",
		`[1, 2, 3]`,
		`"just a string"`,
		`{"a":1} {"b":2}`,
		`{"properties": "nope"}`,
		`{"a":`,
	}
	for _, raw := range cases {
		if _, err := Normalize(raw); !errors.Is(err, ErrMalformedResponse) {
			t.Fatalf("%q: expected ErrMalformedResponse, got %v", raw, err)
		}
	}
}

func TestNormalizeIdempotentOnFlatJSON(t *testing.T) {
	inputs := []string{
		`{"a":1}`,
		`{"price":12.50,"big":12345678901234567890,"tags":["x","y"],"nested":{"value":3},"none":null}`,
		`{"properties":{"a":{"value":{"deep":[1,2]}},"b":"plain"}}`,
	}
	for _, in := range inputs {
		first, err := Normalize(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		encoded, err := Marshal(first)
		if err != nil {
			t.Fatalf("%s: marshal: %v", in, err)
		}
		second, err := Normalize(string(encoded))
		if err != nil {
			t.Fatalf("%s: second pass: %v", in, err)
		}
		if !reflect.DeepEqual(first, second) {
			t.Fatalf("%s: not idempotent: %v vs %v", in, first, second)
		}
	}
}
