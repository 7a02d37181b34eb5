// Package export produces the artifacts a generated widget ships with: a
// standalone React component mirroring the element list and an HTML snippet
// that loads the hosted widget.
package export

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"unicode"

	rendertemplate "github.com/goliatone/go-widgetgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-widgetgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// DefaultCDNBase is where hosted widget bundles are served from.
const DefaultCDNBase = "https://cdn.storyweave.ai/widgets"

const (
	reactTemplate = "templates/react.tmpl"
	embedTemplate = "templates/embed.tmpl"

	defaultBackground  = "#ffffff"
	defaultFontFamily  = "Arial, sans-serif"
	defaultFontSize    = "16px"
	defaultFontWeight  = "normal"
	defaultButtonColor = "#3b82f6"
	defaultButtonText  = "white"
	defaultSelectLabel = "Select an option"
)

// ErrMissingID is returned by EmbedSnippet when no widget id is given.
var ErrMissingID = errors.New("export: widget id is required")

// TemplatesFS exposes the embedded artifact templates.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}

type Option func(*Exporter)

// WithTemplateRenderer swaps the template engine.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(e *Exporter) {
		if renderer != nil {
			e.templates = renderer
		}
	}
}

// WithCDNBase overrides the base URL embed snippets load bundles from.
func WithCDNBase(base string) Option {
	return func(e *Exporter) {
		if base = strings.TrimRight(strings.TrimSpace(base), "/"); base != "" {
			e.cdnBase = base
		}
	}
}

// Exporter renders export artifacts from widget specifications.
type Exporter struct {
	templates rendertemplate.TemplateRenderer
	cdnBase   string
}

// New constructs an Exporter backed by the embedded templates.
func New(options ...Option) (*Exporter, error) {
	e := &Exporter{cdnBase: DefaultCDNBase}
	for _, opt := range options {
		if opt != nil {
			opt(e)
		}
	}
	if e.templates == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(TemplatesFS()),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("export: init template renderer: %w", err)
		}
		e.templates = engine
	}
	return e, nil
}

var (
	defaultOnce     sync.Once
	defaultExporter *Exporter
	defaultErr      error
)

func shared() (*Exporter, error) {
	defaultOnce.Do(func() {
		defaultExporter, defaultErr = New()
	})
	return defaultExporter, defaultErr
}

// ReactSource renders spec as a React function component using the shared
// exporter.
func ReactSource(spec widget.Spec) (string, error) {
	e, err := shared()
	if err != nil {
		return "", err
	}
	return e.ReactSource(spec)
}

// EmbedSnippet renders the embed snippet for a widget id using the shared
// exporter.
func EmbedSnippet(spec widget.Spec, id string) (string, error) {
	e, err := shared()
	if err != nil {
		return "", err
	}
	return e.EmbedSnippet(spec, id)
}

// ReactSource renders a React function component named after the widget
// title. Elements keep their order; unknown types and elements without an id
// are left out.
func (e *Exporter) ReactSource(spec widget.Spec) (string, error) {
	data := map[string]any{
		"component":   ComponentName(spec.Title),
		"title":       jsxText(spec.Title),
		"background":  jsString(firstNonEmpty(spec.Styling.PrimaryColor, defaultBackground)),
		"font_family": jsString(firstNonEmpty(spec.Styling.FontFamily, defaultFontFamily)),
		"elements":    reactElements(spec.Elements),
	}
	out, err := e.templates.RenderTemplate(reactTemplate, data)
	if err != nil {
		return "", fmt.Errorf("export: render react source: %w", err)
	}
	return out, nil
}

// EmbedSnippet renders the HTML snippet that mounts the hosted widget.
func (e *Exporter) EmbedSnippet(spec widget.Spec, id string) (string, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return "", ErrMissingID
	}
	data := map[string]any{
		"id":    id,
		"title": strings.Join(strings.Fields(firstNonEmpty(spec.Title, "Widget")), " "),
		"cdn":   e.cdnBase,
	}
	out, err := e.templates.RenderTemplate(embedTemplate, data)
	if err != nil {
		return "", fmt.Errorf("export: render embed snippet: %w", err)
	}
	return out, nil
}

// ComponentName derives the React component identifier from a title:
// characters that cannot appear in an identifier are dropped and "Widget" is
// appended.
func ComponentName(title string) string {
	var b strings.Builder
	for _, r := range title {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Custom"
	}
	if first := []rune(name)[0]; unicode.IsDigit(first) {
		name = "W" + name
	}
	return name + "Widget"
}

type reactOption struct {
	Value string `json:"value"`
	Text  string `json:"text"`
}

type reactElement struct {
	Kind        string        `json:"kind"`
	ID          string        `json:"id"`
	Label       string        `json:"label"`
	Placeholder string        `json:"placeholder"`
	Options     []reactOption `json:"options"`
	FontSize    string        `json:"font_size"`
	FontWeight  string        `json:"font_weight"`
	Background  string        `json:"background"`
	Color       string        `json:"color"`
}

func reactElements(elements []widget.Element) []reactElement {
	out := make([]reactElement, 0, len(elements))
	for _, el := range elements {
		if !el.Type.Known() {
			continue
		}
		if el.Type.Interactive() && el.ID == "" {
			continue
		}
		item := reactElement{
			Kind:        string(el.Type),
			ID:          jsString(el.ID),
			Label:       jsxText(el.Label),
			Placeholder: jsxAttr(firstNonEmpty(el.Placeholder, el.DefaultValue)),
		}
		switch el.Type {
		case widget.ElementText:
			item.FontSize = jsString(styleValue(el.Style, "fontSize", defaultFontSize))
			item.FontWeight = jsString(styleValue(el.Style, "fontWeight", defaultFontWeight))
		case widget.ElementButton:
			item.Background = jsString(styleValue(el.Style, "backgroundColor", defaultButtonColor))
			item.Color = jsString(styleValue(el.Style, "color", defaultButtonText))
		case widget.ElementSelect:
			item.Placeholder = jsxText(firstNonEmpty(el.Placeholder, defaultSelectLabel))
		}
		for _, option := range el.Options {
			item.Options = append(item.Options, reactOption{Value: jsxAttr(option), Text: jsxText(option)})
		}
		out = append(out, item)
	}
	return out
}

func styleValue(style widget.Style, key, fallback string) string {
	if value, ok := style[key]; ok {
		switch v := value.(type) {
		case string:
			if strings.TrimSpace(v) != "" {
				return v
			}
		case float64, int, int64:
			return fmt.Sprintf("%v", v)
		}
	}
	return fallback
}

var (
	jsStringEscaper = strings.NewReplacer(`\`, `\\`, `'`, `\'`, "\n", `\n`, "\r", `\r`, "<", `\u003c`)
	jsxTextEscaper  = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", "{", "&#123;", "}", "&#125;")
	jsxAttrEscaper  = strings.NewReplacer("&", "&amp;", `"`, "&quot;", "<", "&lt;", ">", "&gt;")
)

// jsString escapes s for a single-quoted JavaScript string literal.
func jsString(s string) string { return jsStringEscaper.Replace(s) }

// jsxText escapes s for use as JSX child text.
func jsxText(s string) string { return jsxTextEscaper.Replace(s) }

// jsxAttr escapes s for a double-quoted JSX attribute.
func jsxAttr(s string) string { return jsxAttrEscaper.Replace(s) }

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
