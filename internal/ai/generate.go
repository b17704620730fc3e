package ai

import (
	"context"
	"errors"
	"fmt"
	"log"
)

// Client is a generative model that answers a prompt with raw text.
type Client interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

const formatRules = `
Please respond with a valid JSON object that matches this exact schema:
%s

IMPORTANT:
- Your response must be valid JSON only, with no additional text or formatting.
- Do not include schema definitions or metadata.
- Return only the actual field values, not wrapped in "value" properties.
`

const strictRules = `
Your previous answer could not be parsed as JSON. Reply with exactly one JSON
object and nothing else: no code fences, no prose, no comments.
`

// Generate asks client for a result matching the contract out points to.
//
// A reply that is not JSON is retried once with a stricter prompt. A reply
// that is JSON but violates the contract returns *SchemaValidationError
// without retrying.
func Generate(ctx context.Context, client Client, prompt string, out any) error {
	schema, err := SchemaJSON(out)
	if err != nil {
		return err
	}
	base := prompt + "\n" + fmt.Sprintf(formatRules, schema)
	contract := contractName(out)

	var flat map[string]any
	for attempt := 0; attempt < 2; attempt++ {
		p := base
		if attempt > 0 {
			p += strictRules
		}

		raw, err := client.Generate(ctx, p)
		if err != nil {
			return fmt.Errorf("generate %s: %w", contract, err)
		}

		flat, err = Normalize(raw)
		if err == nil {
			break
		}
		if !errors.Is(err, ErrMalformedResponse) || attempt > 0 {
			log.Printf("ERROR: %s: unparseable model response: %v", contract, err)
			return err
		}
		log.Printf("INFO: %s: malformed model response, retrying with stricter prompt: %v", contract, err)
	}

	if err := Decode(flat, out); err != nil {
		log.Printf("ERROR: %s: %v", contract, err)
		return err
	}
	return nil
}
