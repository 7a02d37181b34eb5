// Package widgetgen renders declarative widget specifications produced by an
// LLM generation service into interactive HTML, terminal prompts or JSON, and
// keeps edit sessions whose answers survive specification replacement.
package widgetgen

import (
	"context"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/orchestrator"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-widgetgen/pkg/session"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// Spec aliases widget.Spec for callers that only import the root package.
type Spec = widget.Spec

// RenderOptions describes per-request data renderers can use, such as the
// response store, theme and submission endpoints.
type RenderOptions = render.RenderOptions

// Request aliases orchestrator.Request.
type Request = orchestrator.Request

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// Render interprets spec and renders it with the named renderer. An empty
// name selects the vanilla HTML renderer.
func Render(ctx context.Context, spec Spec, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Spec:     &spec,
		Renderer: rendererName,
	})
}

// RenderHTML renders spec with the vanilla HTML renderer.
func RenderHTML(ctx context.Context, spec Spec, options ...orchestrator.Option) ([]byte, error) {
	return Render(ctx, spec, vanilla.Name, options...)
}

// NewController starts an edit session bound to svc.
func NewController(svc genservice.Service, options ...session.Option) *session.Controller {
	return session.NewController(svc, options...)
}

// RenderFile loads a JSON or YAML specification from disk and renders it.
func RenderFile(ctx context.Context, path, rendererName string, options ...orchestrator.Option) ([]byte, error) {
	gen := orchestrator.New(options...)
	return gen.Generate(ctx, orchestrator.Request{
		Path:     path,
		Renderer: rendererName,
	})
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices can be resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector)
}

// WithThemeFallbacks forwards fallback partials used when deriving renderer
// configuration from a theme selection.
func WithThemeFallbacks(fallbacks map[string]string) orchestrator.Option {
	return orchestrator.WithThemeFallbacks(fallbacks)
}
