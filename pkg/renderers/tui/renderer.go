package tui

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/renderer"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	"github.com/goliatone/go-widgetgen/pkg/responses"
)

// Name is the identifier the renderer registers under.
const Name = "tui"

// Renderer walks an interpreted widget in the terminal. Each answer is routed
// through the tree's bindings into the response store, so a terminal session
// follows the same rules as the browser.
type Renderer struct {
	driver       PromptDriver
	outputFormat OutputFormat
	theme        Theme
	stopOnSubmit bool
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		driver:       NewSurveyDriver(DefaultStdio()),
		outputFormat: OutputFormatJSON,
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return Name
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for every node in order and returns the collected responses.
// When a button is confirmed its submission snapshot is the output; otherwise
// the store contents are. opts.Store receives the answers when provided.
func (r *Renderer) Render(ctx context.Context, tree interpreter.Tree, opts render.RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if r.driver == nil {
		return nil, errors.New("tui: prompt driver is nil")
	}

	store := opts.Store
	if store == nil {
		store = responses.NewStore()
	}

	for _, notice := range render.MergeNotices(opts.Notices) {
		if err := r.driver.Info(ctx, r.theme.ErrorPrefix+notice); err != nil {
			return nil, err
		}
	}
	if title := strings.TrimSpace(tree.Title); title != "" {
		if err := r.info(ctx, title); err != nil {
			return nil, err
		}
	}
	if desc := strings.TrimSpace(tree.Description); desc != "" {
		if err := r.info(ctx, desc); err != nil {
			return nil, err
		}
	}

	var result *responses.Snapshot
	for _, node := range tree.Nodes {
		submitted, err := r.promptNode(ctx, tree, store, node)
		if err != nil {
			return nil, err
		}
		if submitted != nil {
			result = submitted
			if r.stopOnSubmit {
				break
			}
		}
	}

	if result == nil {
		snapshot := store.Snapshot()
		result = &snapshot
	}
	return r.serialize(tree, *result)
}

func (r *Renderer) promptNode(ctx context.Context, tree interpreter.Tree, store *responses.Store, node interpreter.Node) (*responses.Snapshot, error) {
	switch node.Kind {
	case interpreter.KindText:
		return nil, r.info(ctx, node.Label)
	case interpreter.KindPlaceholder:
		return nil, r.info(ctx, placeholderMessage(node))
	case interpreter.KindInput:
		value, err := r.driver.Input(ctx, InputConfig{
			Message:     promptMessage(node),
			Default:     node.Value,
			Placeholder: node.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		return tree.Dispatch(store, interpreter.Change(node.ID, value))
	case interpreter.KindTextarea:
		value, err := r.driver.TextArea(ctx, TextAreaConfig{
			Message: promptMessage(node),
			Default: node.Value,
			Help:    node.Placeholder,
		})
		if err != nil {
			return nil, err
		}
		return tree.Dispatch(store, interpreter.Change(node.ID, value))
	case interpreter.KindSelect, interpreter.KindRadio:
		return r.promptChoice(ctx, tree, store, node)
	case interpreter.KindButton:
		ok, err := r.driver.Confirm(ctx, ConfirmConfig{
			Message: buttonMessage(node),
			Default: true,
		})
		if err != nil || !ok {
			return nil, err
		}
		return tree.Dispatch(store, interpreter.Activate(node.ID))
	default:
		return nil, r.info(ctx, placeholderMessage(node))
	}
}

func (r *Renderer) promptChoice(ctx context.Context, tree interpreter.Tree, store *responses.Store, node interpreter.Node) (*responses.Snapshot, error) {
	options := make([]string, 0, len(node.Choices))
	defaultIdx := -1
	for i, choice := range node.Choices {
		options = append(options, choice.Value)
		if choice.Selected && defaultIdx < 0 {
			defaultIdx = i
		}
	}
	if len(options) == 0 {
		return nil, r.info(ctx, fmt.Sprintf("%s (no options)", node.Label))
	}

	help := ""
	if node.Kind == interpreter.KindSelect {
		help = node.Placeholder
	}
	idx, err := r.driver.Select(ctx, SelectConfig{
		Message:      promptMessage(node),
		Options:      options,
		DefaultIndex: defaultIdx,
		Help:         help,
	})
	if err != nil {
		return nil, err
	}
	if idx < 0 || idx >= len(options) {
		return nil, fmt.Errorf("%w: %q index %d", ErrInvalidSelection, node.ID, idx)
	}
	return tree.Dispatch(store, interpreter.Change(node.ID, options[idx]))
}

func (r *Renderer) info(ctx context.Context, msg string) error {
	if strings.TrimSpace(msg) == "" {
		return nil
	}
	return r.driver.Info(ctx, r.theme.InfoPrefix+msg)
}

func (r *Renderer) serialize(tree interpreter.Tree, snapshot responses.Snapshot) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		out, err := prettyTable(tree, snapshot)
		if err != nil {
			return nil, err
		}
		return []byte(out), nil
	}
	return sonic.ConfigStd.MarshalIndent(snapshot, "", "  ")
}

// prettyTable lists answers in widget order. Ids present in the snapshot but
// absent from the tree follow in key order.
func prettyTable(tree interpreter.Tree, snapshot responses.Snapshot) (string, error) {
	var buf strings.Builder
	table := tablewriter.NewTable(&buf, tablewriter.WithRenderer(renderer.NewMarkdown()))
	table.Header("Element", "Label", "Response")

	seen := make(map[string]struct{}, snapshot.Len())
	for _, node := range tree.Nodes {
		if !node.Interactive() || node.Kind == interpreter.KindButton {
			continue
		}
		value, ok := snapshot.Get(node.ID)
		if !ok {
			continue
		}
		seen[node.ID] = struct{}{}
		if err := table.Append(node.ID, node.Label, value); err != nil {
			return "", fmt.Errorf("tui: append row %q: %w", node.ID, err)
		}
	}
	for _, key := range snapshot.Keys() {
		if _, ok := seen[key]; ok {
			continue
		}
		value, _ := snapshot.Get(key)
		if err := table.Append(key, "", value); err != nil {
			return "", fmt.Errorf("tui: append row %q: %w", key, err)
		}
	}
	if err := table.Render(); err != nil {
		return "", fmt.Errorf("tui: render table: %w", err)
	}
	return buf.String(), nil
}

func placeholderMessage(node interpreter.Node) string {
	if node.Reason == interpreter.ReasonMissingID {
		return fmt.Sprintf("Element without id: %s", node.UnknownType)
	}
	return fmt.Sprintf("Unknown element type: %s", node.UnknownType)
}

// promptMessage flags required answers. The flag is advisory: an empty answer
// is still stored.
func promptMessage(node interpreter.Node) string {
	if node.Required {
		return node.Label + " (required)"
	}
	return node.Label
}

func buttonMessage(node interpreter.Node) string {
	label := strings.TrimSpace(node.Label)
	if label == "" {
		label = node.ID
	}
	return label + "?"
}
