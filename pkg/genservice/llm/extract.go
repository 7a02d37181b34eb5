package llm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// ErrNoJSON is returned when model output contains no decodable JSON object.
var ErrNoJSON = errors.New("llm: no JSON object in model output")

// ExtractSpec decodes a widget from model output. The whole reply is tried
// first; otherwise the first balanced {...} block is decoded, so prose or
// code fences around the JSON are tolerated.
func ExtractSpec(content string) (widget.Spec, error) {
	content = strings.TrimSpace(content)
	if spec, err := widget.Decode([]byte(content)); err == nil {
		return spec, nil
	}

	block, ok := outermostObject(content)
	if !ok {
		return widget.Spec{}, ErrNoJSON
	}
	spec, err := widget.Decode([]byte(block))
	if err != nil {
		return widget.Spec{}, fmt.Errorf("%w: %w", ErrNoJSON, err)
	}
	return spec, nil
}

// outermostObject returns the first '{' and its matching '}'. Braces inside
// string literals are ignored.
func outermostObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}
