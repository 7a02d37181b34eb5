package components

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
)

const templatePrefix = "templates/components/"

// NewDefaultRegistry constructs a registry with one template-backed component
// per interpreter node kind.
func NewDefaultRegistry() *Registry {
	registry := New()
	for _, kind := range []interpreter.Kind{
		interpreter.KindText,
		interpreter.KindInput,
		interpreter.KindTextarea,
		interpreter.KindSelect,
		interpreter.KindRadio,
		interpreter.KindButton,
		interpreter.KindPlaceholder,
	} {
		registry.MustRegister(kind, Descriptor{
			Renderer: templateComponentRenderer(PartialKey(string(kind)), templatePrefix+string(kind)+".tmpl"),
		})
	}
	return registry
}

// PartialKey returns the go-theme partial key that overrides a component's
// template.
func PartialKey(name string) string {
	return "widget." + strings.ToLower(strings.TrimSpace(name))
}

func templateComponentRenderer(partialKey, templateName string) Renderer {
	return func(buf *bytes.Buffer, node interpreter.Node, data ComponentData) error {
		if data.Template == nil {
			return fmt.Errorf("components: template renderer not configured for %q", templateName)
		}

		resolvedTemplate := templateName
		if data.ThemePartials != nil {
			if candidate := strings.TrimSpace(data.ThemePartials[partialKey]); candidate != "" {
				resolvedTemplate = candidate
			}
		}

		payload := map[string]any{
			"node":        node,
			"control_id":  ControlID(node.ID),
			"style":       data.Style,
			"interactive": data.Submission.Enabled(),
			"button_url":  data.Submission.ButtonURL(node.ID),
		}
		rendered, err := data.Template.RenderTemplate(resolvedTemplate, payload)
		if err != nil {
			return fmt.Errorf("components: render template %q: %w", templateName, err)
		}
		buf.WriteString(rendered)
		return nil
	}
}

// ControlID returns the DOM id used for an element's control.
func ControlID(id string) string {
	trimmed := strings.TrimSpace(id)
	if trimmed == "" {
		return ""
	}
	return "wg-" + trimmed
}
