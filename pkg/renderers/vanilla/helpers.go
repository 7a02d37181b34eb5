package vanilla

import (
	"html"
	"sort"
	"strings"
	"sync"

	"github.com/microcosm-cc/bluemonday"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render/template/gotemplate"
)

var (
	textPolicyOnce sync.Once
	textPolicy     *bluemonday.Policy
)

// kindStyles are the base declarations each control starts from. Element
// styles from the specification are applied on top, key by key.
var kindStyles = map[interpreter.Kind]map[string]any{
	interpreter.KindText: {
		"fontSize":     "16px",
		"fontWeight":   "normal",
		"color":        "#333",
		"marginBottom": "10px",
		"textAlign":    "left",
	},
	interpreter.KindInput: {
		"width":           "100%",
		"padding":         "8px 12px",
		"border":          "1px solid #ddd",
		"borderRadius":    "6px",
		"fontSize":        "14px",
		"backgroundColor": "white",
		"color":           "#333",
	},
	interpreter.KindTextarea: {
		"width":        "100%",
		"minHeight":    "100px",
		"padding":      "8px 12px",
		"border":       "1px solid #ddd",
		"borderRadius": "6px",
		"fontSize":     "14px",
		"resize":       "vertical",
		"fontFamily":   "inherit",
	},
	interpreter.KindSelect: {
		"width":           "100%",
		"padding":         "8px 12px",
		"border":          "1px solid #ddd",
		"borderRadius":    "6px",
		"fontSize":        "14px",
		"backgroundColor": "white",
	},
	interpreter.KindButton: {
		"backgroundColor": "#3b82f6",
		"color":           "white",
		"padding":         "10px 20px",
		"border":          "none",
		"borderRadius":    "6px",
		"cursor":          "pointer",
		"fontSize":        "16px",
		"fontWeight":      "500",
	},
}

func nodeStyle(node interpreter.Node) string {
	base := kindStyles[node.Kind]
	merged := make(map[string]any, len(base)+len(node.Style))
	for key, value := range base {
		merged[key] = value
	}
	for key, value := range node.Style {
		merged[key] = value
	}
	return gotemplate.InlineStyle(merged)
}

func containerStyle(container interpreter.Container, cssVars map[string]string) string {
	declarations := gotemplate.InlineStyle(map[string]any{
		"padding":         "24px",
		"borderRadius":    "12px",
		"backgroundColor": container.Background,
		"fontFamily":      container.FontFamily,
		"maxWidth":        "500px",
		"margin":          "0 auto",
		"border":          "1px solid #e5e7eb",
	})
	if vars := cssVarsStyle(cssVars); vars != "" {
		declarations = vars + "; " + declarations
	}
	return declarations
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		if strings.HasPrefix(key, "--") {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, key := range keys {
		parts = append(parts, key+": "+vars[key])
	}
	return strings.Join(parts, "; ")
}

// sanitizeText strips markup from display text. The result is unescaped again
// because the template engine escapes on output.
func sanitizeText(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return raw
	}
	return html.UnescapeString(textSanitizer().Sanitize(raw))
}

func textSanitizer() *bluemonday.Policy {
	textPolicyOnce.Do(func() {
		textPolicy = bluemonday.StrictPolicy()
	})
	return textPolicy
}
