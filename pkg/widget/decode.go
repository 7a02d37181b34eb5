package widget

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/bytedance/sonic"
)

// ErrMalformedSpec is returned when the payload is not a JSON object.
var ErrMalformedSpec = errors.New("widget: specification must be a JSON object")

// Decode parses an untrusted JSON payload into a Spec. Only a payload that is
// not a JSON object fails; every element-level problem is recovered by
// applying defaults.
func Decode(raw []byte) (Spec, error) {
	var root any
	if err := sonic.Unmarshal(raw, &root); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return Spec{}, ErrMalformedSpec
	}
	return FromMap(doc), nil
}

// UnmarshalJSON applies the tolerant decoding rules of Decode so specs nested
// in service payloads get the same defaults. A JSON null leaves s untouched.
func (s *Spec) UnmarshalJSON(data []byte) error {
	if strings.TrimSpace(string(data)) == "null" {
		return nil
	}
	spec, err := Decode(data)
	if err != nil {
		return err
	}
	*s = spec
	return nil
}

// FromMap builds a Spec from an already decoded document.
func FromMap(doc map[string]any) Spec {
	spec := Spec{
		WidgetType:  stringField(doc, "widgetType"),
		Title:       stringField(doc, "title"),
		Description: stringField(doc, "description"),
		Styling:     decodeStyling(doc["styling"]),
		Elements:    []Element{},
		Logic:       decodeLogic(doc["logic"]),
	}

	items, _ := doc["elements"].([]any)
	for _, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			// Keep a slot so sibling order stays intact; the interpreter renders
			// it as an unsupported element.
			spec.Elements = append(spec.Elements, DecodeElement(nil))
			continue
		}
		spec.Elements = append(spec.Elements, DecodeElement(fields))
	}
	return spec
}

// DecodeElement converts one raw element into a typed Element. It never fails.
func DecodeElement(fields map[string]any) Element {
	element := Element{
		ID:           stringField(fields, "id"),
		Type:         ElementType(strings.TrimSpace(stringField(fields, "type"))),
		Label:        stringField(fields, "label"),
		Placeholder:  stringField(fields, "placeholder"),
		Options:      stringSlice(fields["options"]),
		Style:        Style{},
		Validation:   stringField(fields, "validation"),
		DefaultValue: stringField(fields, "defaultValue"),
	}
	if style, ok := fields["style"].(map[string]any); ok {
		for key, value := range style {
			element.Style[key] = value
		}
	}
	return element
}

func decodeStyling(value any) Styling {
	fields, ok := value.(map[string]any)
	if !ok {
		return Styling{}
	}
	return Styling{
		Theme:          stringField(fields, "theme"),
		PrimaryColor:   stringField(fields, "primaryColor"),
		SecondaryColor: stringField(fields, "secondaryColor"),
		FontFamily:     stringField(fields, "fontFamily"),
	}
}

func decodeLogic(value any) *Logic {
	fields, ok := value.(map[string]any)
	if !ok {
		return nil
	}
	logic := &Logic{
		OnSubmit:     stringField(fields, "onSubmit"),
		OnChange:     stringField(fields, "onChange"),
		Calculations: stringSlice(fields["calculations"]),
	}
	if len(logic.Calculations) == 0 {
		logic.Calculations = nil
	}
	conditions, _ := fields["conditions"].([]any)
	for _, item := range conditions {
		rule, ok := item.(map[string]any)
		if !ok {
			continue
		}
		logic.Conditions = append(logic.Conditions, Condition{
			If:   stringField(rule, "if"),
			Then: stringField(rule, "then"),
		})
	}
	return logic
}

func stringField(fields map[string]any, key string) string {
	if fields == nil {
		return ""
	}
	value, ok := scalarString(fields[key])
	if !ok {
		return ""
	}
	return value
}

func stringSlice(value any) []string {
	items, ok := value.([]any)
	if !ok {
		return []string{}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if text, ok := scalarString(item); ok {
			out = append(out, text)
		}
	}
	return out
}

func scalarString(value any) (string, bool) {
	switch typed := value.(type) {
	case string:
		return typed, true
	case float64:
		return strconv.FormatFloat(typed, 'f', -1, 64), true
	case int:
		return strconv.Itoa(typed), true
	case int64:
		return strconv.FormatInt(typed, 10), true
	case bool:
		return strconv.FormatBool(typed), true
	default:
		return "", false
	}
}
