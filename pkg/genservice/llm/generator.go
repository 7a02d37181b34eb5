package llm

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/google/uuid"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/export"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const (
	defaultMaxTokens           = 2000
	defaultGenerateTemperature = 0.7
	defaultEditTemperature     = 0.5
)

var (
	// ErrGeneration wraps model or decoding failures when fallback is off.
	ErrGeneration = errors.New("llm: widget generation failed")
	// ErrEdit wraps model or decoding failures of an edit.
	ErrEdit = errors.New("llm: widget edit failed")
)

// Option configures a Generator.
type Option func(*Generator)

// WithLogger sets the logger used to report model failures.
func WithLogger(l logger.Logger) Option {
	return func(g *Generator) {
		if l != nil {
			g.log = l
		}
	}
}

// WithExporter replaces the artifact exporter.
func WithExporter(e *export.Exporter) Option {
	return func(g *Generator) {
		if e != nil {
			g.exporter = e
		}
	}
}

// WithFallback toggles serving FallbackWidget when generation fails. It is on
// by default.
func WithFallback(enabled bool) Option {
	return func(g *Generator) {
		g.fallback = enabled
	}
}

// WithExamples overrides the advertised example prompts.
func WithExamples(examples []string) Option {
	return func(g *Generator) {
		if len(examples) > 0 {
			g.examples = append([]string(nil), examples...)
		}
	}
}

// WithMaxTokens caps the completion length.
func WithMaxTokens(n int) Option {
	return func(g *Generator) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithClock overrides the response timestamp source.
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// WithIDGenerator overrides how new widget ids are minted.
func WithIDGenerator(next func() string) Option {
	return func(g *Generator) {
		if next != nil {
			g.newID = next
		}
	}
}

// Generator implements genservice.Service by prompting a chat model.
type Generator struct {
	completer Completer
	exporter  *export.Exporter
	log       logger.Logger
	fallback  bool
	examples  []string
	maxTokens int
	now       func() time.Time
	newID     func() string
}

var _ genservice.Service = (*Generator)(nil)

// NewGenerator wires a completer into a generation service.
func NewGenerator(completer Completer, opts ...Option) (*Generator, error) {
	if completer == nil {
		return nil, errors.New("llm: completer is nil")
	}
	g := &Generator{
		completer: completer,
		log:       logger.NewNoOpLogger(),
		fallback:  true,
		examples:  append([]string(nil), genservice.DefaultExamples...),
		maxTokens: defaultMaxTokens,
		now:       time.Now,
		newID:     uuid.NewString,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(g)
		}
	}
	if g.exporter == nil {
		exporter, err := export.New()
		if err != nil {
			return nil, err
		}
		g.exporter = exporter
	}
	return g, nil
}

// Generate asks the model for a new widget. When the model fails or replies
// with something that is not a widget, FallbackWidget is served instead unless
// fallback is disabled.
func (g *Generator) Generate(ctx context.Context, req genservice.GenerateRequest) (genservice.Response, error) {
	if err := req.Validate(); err != nil {
		return genservice.Response{}, err
	}

	spec, err := g.complete(ctx, CompletionRequest{
		System:      generateSystemPrompt,
		Prompt:      GeneratePrompt(req.Prompt),
		Temperature: defaultGenerateTemperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		if !g.fallback || ctx.Err() != nil {
			return genservice.Response{}, fmt.Errorf("%w: %w", ErrGeneration, err)
		}
		g.log.WithError(err).Warn("widget generation failed, serving fallback", map[string]any{
			"user_id": req.UserID,
		})
		spec = FallbackWidget()
	}

	return g.respond(spec, g.newID())
}

// Edit asks the model to apply an instruction to the current widget. A reply
// that carries no widget JSON is an error; the caller keeps its widget.
func (g *Generator) Edit(ctx context.Context, req genservice.EditRequest) (genservice.Response, error) {
	if err := req.Validate(); err != nil {
		return genservice.Response{}, err
	}

	current, err := sonic.ConfigStd.MarshalIndent(req.CurrentWidget, "", "  ")
	if err != nil {
		return genservice.Response{}, fmt.Errorf("llm: encode current widget: %w", err)
	}

	spec, err := g.complete(ctx, CompletionRequest{
		System:      editSystemPrompt,
		Prompt:      EditPrompt(string(current), req.EditPrompt),
		Temperature: defaultEditTemperature,
		MaxTokens:   g.maxTokens,
	})
	if err != nil {
		g.log.WithError(err).Warn("widget edit failed", map[string]any{
			"widget_id": req.WidgetID,
		})
		return genservice.Response{}, fmt.Errorf("%w: %w", ErrEdit, err)
	}

	id := strings.TrimSpace(req.WidgetID)
	if id == "" {
		id = g.newID()
	}
	return g.respond(spec, id)
}

// Examples returns the advertised example prompts.
func (g *Generator) Examples(context.Context) ([]string, error) {
	return append([]string(nil), g.examples...), nil
}

func (g *Generator) complete(ctx context.Context, req CompletionRequest) (widget.Spec, error) {
	started := g.now()
	content, err := g.completer.Complete(ctx, req)
	if err != nil {
		return widget.Spec{}, err
	}
	spec, err := ExtractSpec(content)
	if err != nil {
		return widget.Spec{}, err
	}
	g.log.Debug("model reply decoded", map[string]any{
		"elements":    len(spec.Elements),
		"duration_ms": g.now().Sub(started).Milliseconds(),
	})
	return spec, nil
}

func (g *Generator) respond(spec widget.Spec, id string) (genservice.Response, error) {
	react, err := g.exporter.ReactSource(spec)
	if err != nil {
		return genservice.Response{}, err
	}
	embed, err := g.exporter.EmbedSnippet(spec, id)
	if err != nil {
		return genservice.Response{}, err
	}
	return genservice.Response{
		WidgetID:  id,
		Widget:    spec,
		ReactCode: react,
		EmbedCode: embed,
		Timestamp: genservice.Timestamp(g.now()),
	}, nil
}
