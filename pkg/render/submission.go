package render

import (
	"fmt"
	"sort"
	"strings"
)

// Submission tells HTML renderers where interactive controls send their
// events. The form posts to ChangeURL with one field per capture control,
// named after its element id; submit buttons post the same fields to
// SubmitURL with the button id appended as a path segment.
type Submission struct {
	ChangeURL string
	SubmitURL string
	Hidden    map[string]string
}

// Enabled reports whether any endpoint is configured.
func (s Submission) Enabled() bool {
	return strings.TrimSpace(s.ChangeURL) != "" || strings.TrimSpace(s.SubmitURL) != ""
}

// ButtonURL returns the submit endpoint for a button id.
func (s Submission) ButtonURL(id string) string {
	base := strings.TrimRight(strings.TrimSpace(s.SubmitURL), "/")
	if base == "" {
		return ""
	}
	return base + "/" + id
}

// HiddenField represents a hidden input emitted with every control form, such
// as a session id or CSRF token.
type HiddenField struct {
	Name  string
	Value string
}

// Hidden returns a HiddenField for an arbitrary name/value pair.
func Hidden(name string, value any) HiddenField {
	return HiddenField{
		Name:  strings.TrimSpace(name),
		Value: fmt.Sprint(value),
	}
}

// WithHidden returns a copy of s with the provided fields applied. Empty names
// are ignored; later fields win on name collisions.
func (s Submission) WithHidden(fields ...HiddenField) Submission {
	out := make(map[string]string, len(s.Hidden)+len(fields))
	for key, value := range s.Hidden {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			out[trimmed] = value
		}
	}
	for _, field := range fields {
		name := strings.TrimSpace(field.Name)
		if name == "" {
			continue
		}
		out[name] = field.Value
	}
	s.Hidden = out
	return s
}

// SortedHiddenFields returns the hidden fields sorted by name for
// deterministic markup.
func (s Submission) SortedHiddenFields() []HiddenField {
	if len(s.Hidden) == 0 {
		return nil
	}
	names := make([]string, 0, len(s.Hidden))
	for name := range s.Hidden {
		if strings.TrimSpace(name) == "" {
			continue
		}
		names = append(names, name)
	}
	sort.Strings(names)

	result := make([]HiddenField, 0, len(names))
	for _, name := range names {
		result = append(result, HiddenField{Name: name, Value: s.Hidden[name]})
	}
	return result
}
