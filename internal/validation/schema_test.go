package validation

import (
	"errors"
	"strings"
	"testing"
)

var tagSchema = map[string]any{
	"type": "object",
	"properties": map[string]any{
		"title": map[string]any{"type": "string"},
		"tags": map[string]any{
			"type":  "array",
			"items": map[string]any{"type": "string"},
		},
	},
	"additionalProperties": false,
}

func TestSchemaValidateReportsIssues(t *testing.T) {
	schema := MustCompile(tagSchema)

	payload, err := Normalize(map[string]any{"title": 12, "tags": []string{"a"}})
	if err != nil {
		t.Fatalf("normalize: %v", err)
	}
	err = schema.Validate(payload)
	if !errors.Is(err, ErrSchemaValidation) {
		t.Fatalf("expected ErrSchemaValidation, got %v", err)
	}
	found := false
	for _, issue := range Issues(err) {
		if issue.Location == "/title" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected /title issue, got %#v", Issues(err))
	}
	if !strings.Contains(err.Error(), "#/title") {
		t.Fatalf("expected location in message, got %q", err.Error())
	}
}

func TestSchemaValidateAcceptsPayload(t *testing.T) {
	schema := MustCompile(tagSchema)
	payload, _ := Normalize(map[string]any{"title": "Lab", "tags": []string{"robotics"}})
	if err := schema.Validate(payload); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCompileRejectsEmptySchema(t *testing.T) {
	if _, err := Compile(nil); !errors.Is(err, ErrSchemaInvalid) {
		t.Fatalf("expected ErrSchemaInvalid, got %v", err)
	}
}

func TestNilSchemaAcceptsEverything(t *testing.T) {
	var schema *Schema
	if err := schema.Validate(map[string]any{"any": true}); err != nil {
		t.Fatalf("expected nil schema to accept payload, got %v", err)
	}
}
