package widget

import (
	"strings"
	"unicode"
)

// ElementType is the closed set of element kinds the interpreter knows how to
// render. Values outside the set are kept as-is and rendered as placeholders.
type ElementType string

const (
	ElementText     ElementType = "text"
	ElementInput    ElementType = "input"
	ElementTextarea ElementType = "textarea"
	ElementSelect   ElementType = "select"
	ElementButton   ElementType = "button"
	ElementQuestion ElementType = "question"
)

// KnownTypes lists the supported element types in declaration order.
func KnownTypes() []ElementType {
	return []ElementType{
		ElementText,
		ElementInput,
		ElementTextarea,
		ElementSelect,
		ElementButton,
		ElementQuestion,
	}
}

// Known reports whether the type is one of the supported element kinds.
func (t ElementType) Known() bool {
	switch t {
	case ElementText, ElementInput, ElementTextarea, ElementSelect, ElementButton, ElementQuestion:
		return true
	default:
		return false
	}
}

// Interactive reports whether elements of this type capture or submit values.
func (t ElementType) Interactive() bool {
	return t.Known() && t != ElementText
}

// Style is a free-form bag of style properties. Keys and values are passed
// through verbatim and never validated.
type Style map[string]any

// Clone returns a shallow copy of the style bag. Values are primitives in
// practice; nested maps are copied one level deep.
func (s Style) Clone() Style {
	out := make(Style, len(s))
	for key, value := range s {
		if nested, ok := value.(map[string]any); ok {
			copied := make(map[string]any, len(nested))
			for k, v := range nested {
				copied[k] = v
			}
			out[key] = copied
			continue
		}
		out[key] = value
	}
	return out
}

// String returns the value stored under key when it is a string.
func (s Style) String(key string) (string, bool) {
	if s == nil {
		return "", false
	}
	value, ok := s[key].(string)
	return value, ok
}

// Element is one renderable unit of a widget.
type Element struct {
	ID           string      `json:"id"`
	Type         ElementType `json:"type"`
	Label        string      `json:"label"`
	Placeholder  string      `json:"placeholder"`
	Options      []string    `json:"options"`
	Style        Style       `json:"style"`
	Validation   string      `json:"validation,omitempty"`
	DefaultValue string      `json:"defaultValue,omitempty"`
}

// Required reports whether the validation hint names the "required" rule.
// Hints are free text such as "required" or "required, email".
func (e Element) Required() bool {
	for _, rule := range strings.FieldsFunc(strings.ToLower(e.Validation), isRuleSeparator) {
		if rule == "required" {
			return true
		}
	}
	return false
}

func isRuleSeparator(r rune) bool {
	return r == ',' || r == '|' || r == ';' || unicode.IsSpace(r)
}

// Clone returns a deep copy of the element.
func (e Element) Clone() Element {
	out := e
	out.Options = append([]string{}, e.Options...)
	out.Style = e.Style.Clone()
	return out
}

// Styling holds widget-level presentation hints. Empty fields mean "use the
// renderer default".
type Styling struct {
	Theme          string `json:"theme,omitempty"`
	PrimaryColor   string `json:"primaryColor,omitempty"`
	SecondaryColor string `json:"secondaryColor,omitempty"`
	FontFamily     string `json:"fontFamily,omitempty"`
}

// Condition is a single if/then rule carried in Logic.
type Condition struct {
	If   string `json:"if,omitempty"`
	Then string `json:"then,omitempty"`
}

// Logic carries behaviour descriptions emitted by the generation service.
// They are informational and passed through to export artifacts untouched.
type Logic struct {
	OnSubmit     string      `json:"onSubmit,omitempty"`
	OnChange     string      `json:"onChange,omitempty"`
	Calculations []string    `json:"calculations,omitempty"`
	Conditions   []Condition `json:"conditions,omitempty"`
}

// Spec is the declarative widget specification. Elements keep insertion order,
// which is also display order.
type Spec struct {
	WidgetType  string    `json:"widgetType,omitempty"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Styling     Styling   `json:"styling"`
	Elements    []Element `json:"elements"`
	Logic       *Logic    `json:"logic,omitempty"`
}

// IDs returns the non-empty element ids in element order. Duplicates are kept.
func (s Spec) IDs() []string {
	ids := make([]string, 0, len(s.Elements))
	for _, element := range s.Elements {
		if element.ID == "" {
			continue
		}
		ids = append(ids, element.ID)
	}
	return ids
}

// Element looks up an element by id, returning the first match.
func (s Spec) Element(id string) (Element, bool) {
	for _, element := range s.Elements {
		if element.ID == id {
			return element, true
		}
	}
	return Element{}, false
}

// Clone returns a deep copy so callers can hand the spec to other goroutines
// without sharing element slices or style maps.
func (s Spec) Clone() Spec {
	out := s
	out.Elements = make([]Element, len(s.Elements))
	for i, element := range s.Elements {
		out.Elements[i] = element.Clone()
	}
	if s.Logic != nil {
		logic := *s.Logic
		logic.Calculations = append([]string(nil), s.Logic.Calculations...)
		logic.Conditions = append([]Condition(nil), s.Logic.Conditions...)
		out.Logic = &logic
	}
	return out
}
