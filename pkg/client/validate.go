package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/qri-io/jsonschema"
)

// Outbound payload schemas for create operations. Validating before the
// request keeps malformed payloads off the wire entirely.

const eventSchemaJSON = `{
	"type": "object",
	"required": ["title", "startsAt"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"startsAt": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"category": {"type": "string"}
	}
}`

const jobSchemaJSON = `{
	"type": "object",
	"required": ["title"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"description": {"type": "string"},
		"jobType": {"type": "string"},
		"experienceLevel": {"type": "string"},
		"remote": {"type": "boolean"}
	}
}`

const webhookSchemaJSON = `{
	"type": "object",
	"required": ["url", "events"],
	"properties": {
		"url": {"type": "string", "minLength": 1},
		"events": {"type": "array", "items": {"type": "string"}, "minItems": 1},
		"secret": {"type": "string"}
	}
}`

var payloadSchemas = mustCompileSchemas(map[string]string{
	"event":   eventSchemaJSON,
	"job":     jobSchemaJSON,
	"webhook": webhookSchemaJSON,
})

func mustCompileSchemas(raw map[string]string) map[string]*jsonschema.Schema {
	out := make(map[string]*jsonschema.Schema, len(raw))
	for name, src := range raw {
		rs := &jsonschema.Schema{}
		if err := json.Unmarshal([]byte(src), rs); err != nil {
			panic(fmt.Sprintf("compile %s schema: %v", name, err))
		}
		out[name] = rs
	}
	return out
}

// validatePayload checks payload against a named schema. Failures are
// validation errors raised before any network call.
func validatePayload(ctx context.Context, name string, payload any) error {
	rs, ok := payloadSchemas[name]
	if !ok {
		return fmt.Errorf("unknown payload schema %q", name)
	}

	b, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s payload: %w", name, err)
	}

	keyErrs, err := rs.ValidateBytes(ctx, b)
	if err != nil {
		return fmt.Errorf("validate %s payload: %w", name, err)
	}
	if len(keyErrs) > 0 {
		return fmt.Errorf("invalid %s payload: %s", name, keyErrs[0].Message)
	}
	return nil
}
