package validation

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestValidateSpec_Valid(t *testing.T) {
	raw := []byte(`{
  "title": "Contact",
  "elements": [
    {"type": "input", "id": "email", "label": "Email"},
    {"type": "button", "id": "send", "label": "Send"}
  ]
}`)
	result := ValidateSpec(raw)
	if !result.Valid {
		t.Fatalf("expected spec to be valid: %#v", result.Issues)
	}
	if len(result.Issues) != 0 {
		t.Fatalf("expected no issues, got %#v", result.Issues)
	}
}

func TestValidateSpec_FieldPath(t *testing.T) {
	raw := []byte(`{
  "title": "Contact",
  "elements": [
    {"type": "input", "id": "email"},
    {"type": "slider", "id": "volume"}
  ]
}`)
	result := ValidateSpec(raw)
	if result.Valid {
		t.Fatalf("expected spec to be invalid")
	}
	if len(result.Issues) != 1 {
		t.Fatalf("expected one issue, got %#v", result.Issues)
	}
	issue := result.Issues[0]
	if issue.Field != "elements.1.type" {
		t.Fatalf("expected field elements.1.type, got %q", issue.Field)
	}
	if issue.Path != "#/elements/1/type" {
		t.Fatalf("expected pointer #/elements/1/type, got %q", issue.Path)
	}
}

func TestValidateSpec_MissingRequired(t *testing.T) {
	result := ValidateSpec([]byte(`{"elements": []}`))
	if result.Valid {
		t.Fatalf("expected spec to be invalid")
	}
	fields := make([]string, 0, len(result.Issues))
	for _, issue := range result.Issues {
		fields = append(fields, issue.Field)
	}
	if diff := cmp.Diff([]string{"title"}, fields); diff != "" {
		t.Fatalf("fields mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSpec_DuplicateIDs(t *testing.T) {
	raw := []byte(`{
  "title": "Quiz",
  "elements": [
    {"type": "question", "id": "q1", "label": "First", "options": ["A", "B"]},
    {"type": "question", "id": "q1", "label": "Second", "options": ["C", "D"]}
  ]
}`)
	result := ValidateSpec(raw)
	if result.Valid {
		t.Fatalf("expected duplicate ids to be invalid")
	}
	want := []Issue{{
		Path:    "#/elements/1/id",
		Field:   "elements.1.id",
		Message: `id "q1" is already used by element 0`,
	}}
	if diff := cmp.Diff(want, result.Issues); diff != "" {
		t.Fatalf("issues mismatch (-want +got):\n%s", diff)
	}
}

func TestValidateSpec_NotAnObject(t *testing.T) {
	result := ValidateSpec([]byte(`["not", "a", "spec"]`))
	if result.Valid {
		t.Fatalf("expected malformed payload to be invalid")
	}
	if len(result.Issues) != 1 || result.Issues[0].Path != "" {
		t.Fatalf("expected one location-less issue, got %#v", result.Issues)
	}
	if !strings.Contains(result.Issues[0].Message, "JSON object") {
		t.Fatalf("unexpected message %q", result.Issues[0].Message)
	}
}

func TestPointerFromField_Escapes(t *testing.T) {
	if got := pointerFromField("styling.a/b"); got != "#/styling/a~1b" {
		t.Fatalf("unexpected pointer %q", got)
	}
}
