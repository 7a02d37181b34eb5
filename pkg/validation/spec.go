// Package validation reports everything wrong with a widget payload in one
// pass so authoring tools can show the issues next to the offending element.
package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const rootContext = "(root)"

// Issue represents a validation error with optional location metadata.
type Issue struct {
	Path    string `json:"path,omitempty"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
}

// Result captures validation outcomes for editor previews.
type Result struct {
	Valid  bool    `json:"valid"`
	Issues []Issue `json:"issues,omitempty"`
}

// ValidateSpec checks raw against the bundled widget schema and the id
// invariants the response store relies on. A payload that is not a JSON
// object yields a single issue without a path.
func ValidateSpec(raw []byte) Result {
	result := Result{Valid: true}

	spec, err := widget.Decode(raw)
	if err != nil {
		return invalid(Issue{Message: trimPrefix(err.Error())})
	}

	schemaResult, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(widget.SchemaJSON()),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return invalid(Issue{Message: trimPrefix(err.Error())})
	}
	for _, desc := range schemaResult.Errors() {
		result.Issues = append(result.Issues, issueFromSchema(desc))
	}

	result.Issues = append(result.Issues, duplicateIssues(spec)...)
	result.Valid = len(result.Issues) == 0
	return result
}

func invalid(issue Issue) Result {
	return Result{Valid: false, Issues: []Issue{issue}}
}

func issueFromSchema(desc gojsonschema.ResultError) Issue {
	field := desc.Field()
	if desc.Type() == "required" {
		if property, ok := desc.Details()["property"].(string); ok && property != "" {
			field = joinField(field, property)
		}
	}
	if field == rootContext {
		field = ""
	}
	return Issue{
		Path:    pointerFromField(field),
		Field:   field,
		Message: strings.TrimSpace(desc.Description()),
	}
}

func duplicateIssues(spec widget.Spec) []Issue {
	first := make(map[string]int, len(spec.Elements))
	var issues []Issue
	for idx, element := range spec.Elements {
		if element.ID == "" {
			continue
		}
		prev, seen := first[element.ID]
		if !seen {
			first[element.ID] = idx
			continue
		}
		field := fmt.Sprintf("elements.%d.id", idx)
		issues = append(issues, Issue{
			Path:    pointerFromField(field),
			Field:   field,
			Message: fmt.Sprintf("id %q is already used by element %d", element.ID, prev),
		})
	}
	return issues
}

func joinField(parent, child string) string {
	if parent == "" || parent == rootContext {
		return child
	}
	return parent + "." + child
}

func pointerFromField(field string) string {
	if field == "" {
		return ""
	}
	parts := strings.Split(field, ".")
	for i, part := range parts {
		part = strings.ReplaceAll(part, "~", "~0")
		parts[i] = strings.ReplaceAll(part, "/", "~1")
	}
	return "#/" + strings.Join(parts, "/")
}

func trimPrefix(msg string) string {
	msg = strings.TrimSpace(msg)
	msg = strings.TrimPrefix(msg, "widget: ")
	return strings.TrimSpace(msg)
}
