package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const defaultRendererName = vanilla.Name

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects a renderer registry.
func WithRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.registry = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithService enables Request.Prompt by generating the specification through
// svc.
func WithService(svc genservice.Service) Option {
	return func(o *Orchestrator) {
		o.service = svc
	}
}

// WithSpecTransformer registers a Transformer that runs after the
// specification is resolved and before it is interpreted.
func WithSpecTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		o.transformer = t
	}
}

// WithThemeSelector resolves Request.ThemeName and ThemeVariant into renderer
// theme configuration.
func WithThemeSelector(selector theme.ThemeSelector) Option {
	return func(o *Orchestrator) {
		o.themeSelector = selector
	}
}

// WithThemeFallbacks overrides the partial fallbacks merged under every theme
// selection.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(o *Orchestrator) {
		o.themeFallbacks = fallbacks
	}
}

// WithLint toggles JSON Schema linting of raw payloads. Lint issues surface as
// notices and never block rendering.
func WithLint(enabled bool) Option {
	return func(o *Orchestrator) {
		o.lint = enabled
	}
}

// WithInterpreterOptions forwards options to every Interpret call.
func WithInterpreterOptions(opts ...interpreter.Option) Option {
	return func(o *Orchestrator) {
		o.interpretOpts = append(o.interpretOpts, opts...)
	}
}

// WithLogger sets the logger.
func WithLogger(log logger.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

// Orchestrator coordinates the pipeline from a widget specification (a value,
// a payload, a file or a prompt) to rendered output. It applies sensible
// defaults (vanilla and JSON renderers, embedded templates) while remaining
// open to dependency injection.
type Orchestrator struct {
	registry        *render.Registry
	defaultRenderer string
	service         genservice.Service
	transformer     Transformer
	themeSelector   theme.ThemeSelector
	themeFallbacks  map[string]string
	lint            bool
	interpretOpts   []interpreter.Option
	log             logger.Logger
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		lint:            true,
		log:             logger.NewNoOpLogger(),
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Request describes where the specification comes from and how to render it.
// Exactly one of Spec, Payload, Path or Prompt is used, checked in that order.
type Request struct {
	Spec    *widget.Spec
	Payload []byte
	// Path names a JSON or YAML file.
	Path string
	// Prompt asks the configured generation service for a new widget.
	Prompt string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	ThemeName    string
	ThemeVariant string

	// Responses prefill answers. Each one is dispatched as a change event, so
	// unknown ids and values outside a control's options are rejected.
	Responses map[string]string

	// RenderOptions is passed through. When Store is nil a fresh store is
	// created for the request.
	RenderOptions render.RenderOptions
}

// Generate resolves, transforms, interprets and renders a widget.
func (o *Orchestrator) Generate(ctx context.Context, req Request) ([]byte, error) {
	tree, opts, err := o.Prepare(ctx, req)
	if err != nil {
		return nil, err
	}
	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}
	output, err := renderer.Render(ctx, tree, opts)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}
	return output, nil
}

// Prepare runs every stage except the final render and returns the tree with
// the options the renderer would receive.
func (o *Orchestrator) Prepare(ctx context.Context, req Request) (interpreter.Tree, render.RenderOptions, error) {
	if ctx == nil {
		return interpreter.Tree{}, render.RenderOptions{}, errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, err
	}
	if err := o.initialiseErr; err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, err
	}

	spec, notices, err := o.resolveSpec(ctx, req)
	if err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, err
	}
	if o.transformer != nil {
		if err := o.transformer.Transform(ctx, &spec); err != nil {
			return interpreter.Tree{}, render.RenderOptions{}, fmt.Errorf("orchestrator: transform spec: %w", err)
		}
	}
	if err := spec.Validate(); err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, fmt.Errorf("orchestrator: %w", err)
	}

	opts := req.RenderOptions
	if opts.Store == nil {
		opts.Store = responses.NewStore()
	}
	if err := o.prefill(spec, opts.Store, req.Responses); err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, err
	}

	tree, err := interpreter.Interpret(spec, opts.Store, o.interpretOpts...)
	if err != nil {
		return interpreter.Tree{}, render.RenderOptions{}, fmt.Errorf("orchestrator: interpret spec: %w", err)
	}

	if o.themeSelector != nil && opts.Theme == nil {
		sel, err := o.themeSelector.Select(req.ThemeName, req.ThemeVariant)
		if err != nil {
			return interpreter.Tree{}, render.RenderOptions{}, fmt.Errorf("orchestrator: select theme: %w", err)
		}
		opts.Theme = render.ThemeConfig(sel, o.themeFallbacks)
	}
	opts.Notices = render.MergeNotices(opts.Notices, notices...)
	return tree, opts, nil
}

func (o *Orchestrator) resolveSpec(ctx context.Context, req Request) (widget.Spec, []string, error) {
	switch {
	case req.Spec != nil:
		return req.Spec.Clone(), nil, nil
	case len(req.Payload) > 0:
		return o.decodePayload(req.Payload)
	case strings.TrimSpace(req.Path) != "":
		return o.loadFile(req.Path)
	case strings.TrimSpace(req.Prompt) != "":
		if o.service == nil {
			return widget.Spec{}, nil, errors.New("orchestrator: prompt requires a generation service")
		}
		resp, err := o.service.Generate(ctx, genservice.GenerateRequest{Prompt: req.Prompt})
		if err != nil {
			return widget.Spec{}, nil, fmt.Errorf("orchestrator: generate spec: %w", err)
		}
		return resp.Widget, nil, nil
	default:
		return widget.Spec{}, nil, errors.New("orchestrator: spec, payload, path or prompt is required")
	}
}

func (o *Orchestrator) decodePayload(raw []byte) (widget.Spec, []string, error) {
	spec, err := widget.Decode(raw)
	if err != nil {
		return widget.Spec{}, nil, fmt.Errorf("orchestrator: decode spec: %w", err)
	}
	if !o.lint {
		return spec, nil, nil
	}
	issues, err := widget.Lint(raw)
	if err != nil {
		o.log.WithError(err).Warn("lint skipped", nil)
		return spec, nil, nil
	}
	if len(issues) > 0 {
		o.log.Debug("spec lint issues", map[string]any{"issues": issues})
	}
	return spec, issues, nil
}

func (o *Orchestrator) loadFile(path string) (widget.Spec, []string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		spec, err := widget.LoadFile(path)
		if err != nil {
			return widget.Spec{}, nil, fmt.Errorf("orchestrator: load spec: %w", err)
		}
		return spec, nil, nil
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return widget.Spec{}, nil, fmt.Errorf("orchestrator: load spec: %w", err)
	}
	return o.decodePayload(raw)
}

func (o *Orchestrator) prefill(spec widget.Spec, store *responses.Store, values map[string]string) error {
	if len(values) == 0 {
		return nil
	}
	tree, err := interpreter.Interpret(spec, store)
	if err != nil {
		return fmt.Errorf("orchestrator: interpret spec: %w", err)
	}
	ids := make([]string, 0, len(values))
	for id := range values {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	// Dispatch into a scratch store so a rejected entry leaves store untouched.
	scratch := responses.NewStore()
	for _, id := range ids {
		if _, err := tree.Dispatch(scratch, interpreter.Change(id, values[id])); err != nil {
			return fmt.Errorf("orchestrator: prefill: %w", err)
		}
	}
	snapshot := scratch.Snapshot()
	for _, id := range snapshot.Keys() {
		value, _ := snapshot.Get(id)
		store.Set(id, value)
	}
	return nil
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.registry == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.registry.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.registry.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.registry.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.registry == nil {
		o.registry = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.registry.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
	if o.themeFallbacks == nil {
		o.themeFallbacks = defaultThemeFallbacks()
	}
}

// defaultThemeFallbacks maps every component partial key onto the embedded
// vanilla template so themes only override what they change.
func defaultThemeFallbacks() map[string]string {
	kinds := []interpreter.Kind{
		interpreter.KindText,
		interpreter.KindInput,
		interpreter.KindTextarea,
		interpreter.KindSelect,
		interpreter.KindRadio,
		interpreter.KindButton,
		interpreter.KindPlaceholder,
	}
	out := make(map[string]string, len(kinds))
	for _, kind := range kinds {
		out[components.PartialKey(string(kind))] = "templates/components/" + string(kind) + ".tmpl"
	}
	return out
}
