package widget

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// LoadFile reads a specification from disk. Files ending in .yaml or .yml are
// parsed as YAML; everything else is treated as JSON.
func LoadFile(path string) (Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return Spec{}, fmt.Errorf("widget: read %s: %w", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(raw)
	default:
		spec, err := Decode(raw)
		if err != nil {
			return Spec{}, fmt.Errorf("widget: decode %s: %w", path, err)
		}
		return spec, nil
	}
}

// DecodeYAML parses a YAML document with the same tolerance rules as Decode.
func DecodeYAML(raw []byte) (Spec, error) {
	var root any
	if err := yaml.Unmarshal(raw, &root); err != nil {
		return Spec{}, fmt.Errorf("%w: %v", ErrMalformedSpec, err)
	}
	doc, ok := root.(map[string]any)
	if !ok {
		return Spec{}, ErrMalformedSpec
	}
	return FromMap(normalizeYAML(doc).(map[string]any)), nil
}

// normalizeYAML converts the generic containers produced by yaml.v3 into the
// shapes FromMap expects ([]any and map[string]any all the way down).
func normalizeYAML(value any) any {
	switch typed := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[key] = normalizeYAML(item)
		}
		return out
	case map[any]any:
		out := make(map[string]any, len(typed))
		for key, item := range typed {
			out[fmt.Sprint(key)] = normalizeYAML(item)
		}
		return out
	case []any:
		out := make([]any, len(typed))
		for i, item := range typed {
			out[i] = normalizeYAML(item)
		}
		return out
	default:
		return typed
	}
}
