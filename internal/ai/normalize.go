package ai

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

const fence = "```"

// Normalize turns raw model output into a flat field mapping.
//
// The reply may be wrapped in a fenced code block and may use the
// schema-wrapped shape {"properties": {"field": {"value": X}}}, which is
// unwrapped to {"field": X}. Numbers are kept as json.Number so the
// mapping round-trips without loss. Field-level checks are done by Decode.
func Normalize(raw string) (map[string]any, error) {
	text := stripFence(raw)

	dec := json.NewDecoder(strings.NewReader(text))
	dec.UseNumber()

	var parsed any
	if err := dec.Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, fmt.Errorf("%w: unexpected data after JSON value", ErrMalformedResponse)
	}

	obj, ok := parsed.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: top-level value is %T, want object", ErrMalformedResponse, parsed)
	}

	wrapped, ok := obj["properties"]
	if !ok {
		return obj, nil
	}

	props, ok := wrapped.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("%w: \"properties\" is %T, want object", ErrMalformedResponse, wrapped)
	}

	flat := make(map[string]any, len(props))
	for name, v := range props {
		if inner, ok := v.(map[string]any); ok {
			if value, ok := inner["value"]; ok {
				flat[name] = value
				continue
			}
		}
		flat[name] = v
	}
	return flat, nil
}

// stripFence removes an optional leading ``` (with an optional language tag
// such as "json") and an optional trailing ```.
func stripFence(raw string) string {
	text := strings.TrimSpace(raw)

	if strings.HasPrefix(text, fence) {
		text = text[len(fence):]
		// Drop the info string up to the first newline or JSON start.
		if i := strings.IndexAny(text, "\n{["); i >= 0 {
			text = text[i:]
		} else {
			text = ""
		}
	}
	text = strings.TrimSpace(text)
	text = strings.TrimSuffix(text, fence)
	return strings.TrimSpace(text)
}

// Marshal renders a normalized mapping back to compact JSON.
func Marshal(flat map[string]any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(flat); err != nil {
		return nil, err
	}
	return bytes.TrimSpace(buf.Bytes()), nil
}
