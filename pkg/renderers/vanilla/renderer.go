package vanilla

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	rendertemplate "github.com/goliatone/go-widgetgen/pkg/render/template"
	gotemplate "github.com/goliatone/go-widgetgen/pkg/render/template/gotemplate"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla/components"
)

// Name is the identifier the renderer registers under.
const Name = "vanilla"

// StylesheetAssetKey is the go-theme asset key resolved into a <link> tag.
const StylesheetAssetKey = "widget.stylesheet"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
	registry         *components.Registry
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// WithComponentRegistry replaces the per-kind component registry.
func WithComponentRegistry(registry *components.Registry) Option {
	return func(cfg *config) {
		if registry != nil {
			cfg.registry = registry
		}
	}
}

// Renderer produces an HTML fragment for an interpreted widget.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
	registry  *components.Registry
}

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}
	if cfg.registry == nil {
		cfg.registry = components.NewDefaultRegistry()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer, registry: cfg.registry}, nil
}

func (r *Renderer) Name() string {
	return Name
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render draws every node through its component and wraps them in the widget
// container. When options.Submission is set the controls are wrapped in a form
// that posts to the session endpoints.
func (r *Renderer) Render(ctx context.Context, tree interpreter.Tree, options render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("vanilla renderer: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.templates == nil {
		return nil, fmt.Errorf("vanilla renderer: template renderer is nil")
	}

	data := components.ComponentData{
		Template:   r.templates,
		Submission: options.Submission,
	}
	var cssVars map[string]string
	var themeName, themeVariant, stylesheet string
	if options.Theme != nil {
		data.ThemePartials = options.Theme.Partials
		cssVars = options.Theme.CSSVars
		themeName = options.Theme.Theme
		themeVariant = options.Theme.Variant
		if options.Theme.AssetURL != nil {
			stylesheet = options.Theme.AssetURL(StylesheetAssetKey)
		}
	}

	controls := make([]string, 0, len(tree.Nodes))
	for _, node := range tree.Nodes {
		markup, err := r.renderNode(sanitizeNode(node), data)
		if err != nil {
			return nil, err
		}
		controls = append(controls, markup)
	}

	stylesheets := r.registry.Stylesheets(tree.Nodes)
	if stylesheet != "" {
		stylesheets = append([]string{stylesheet}, stylesheets...)
	}

	var result string
	if tree.Result != nil {
		payload, err := sonic.ConfigStd.MarshalIndent(tree.Result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: encode result: %w", err)
		}
		result = string(payload)
	}

	out, err := r.templates.RenderTemplate("templates/widget.tmpl", map[string]any{
		"title":           sanitizeText(tree.Title),
		"description":     sanitizeText(tree.Description),
		"container_style": containerStyle(tree.Container, cssVars),
		"theme_name":      themeName,
		"theme_variant":   themeVariant,
		"stylesheets":     stylesheets,
		"notices":         render.MergeNotices(options.Notices),
		"interactive":     options.Submission.Enabled(),
		"change_url":      options.Submission.ChangeURL,
		"hidden":          options.Submission.SortedHiddenFields(),
		"controls":        controls,
		"result":          result,
	})
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(out), nil
}

func (r *Renderer) renderNode(node interpreter.Node, data components.ComponentData) (string, error) {
	descriptor, ok := r.registry.Lookup(node.Kind)
	if !ok {
		return "", fmt.Errorf("vanilla renderer: component %q not registered", node.Kind)
	}

	data.Style = nodeStyle(node)
	var buf bytes.Buffer
	if err := descriptor.Renderer(&buf, node, data); err != nil {
		return "", fmt.Errorf("vanilla renderer: render %q for %q: %w", node.Kind, node.ID, err)
	}
	return buf.String(), nil
}

func sanitizeNode(node interpreter.Node) interpreter.Node {
	node.Label = sanitizeText(node.Label)
	node.Placeholder = sanitizeText(node.Placeholder)
	return node
}
