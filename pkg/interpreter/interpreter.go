package interpreter

import (
	"fmt"

	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const (
	DefaultBackground        = "#ffffff"
	DefaultFontFamily        = "Inter, system-ui, sans-serif"
	DefaultSelectPlaceholder = "Select an option"
)

// Option customises a single Interpret call.
type Option func(*options)

type options struct {
	result    *responses.Snapshot
	container Container
}

// WithResult attaches the active result snapshot to the tree.
func WithResult(snapshot *responses.Snapshot) Option {
	return func(o *options) {
		if snapshot == nil {
			o.result = nil
			return
		}
		copied := responses.NewSnapshot(snapshot.Values())
		o.result = &copied
	}
}

// WithContainerDefaults overrides the styling used when the spec omits it.
func WithContainerDefaults(container Container) Option {
	return func(o *options) {
		if container.Background != "" {
			o.container.Background = container.Background
		}
		if container.FontFamily != "" {
			o.container.FontFamily = container.FontFamily
		}
	}
}

// Interpret maps a specification and the current answers onto a Tree. The
// store is only read. Specifications with duplicate element ids are rejected
// because their answers cannot be bound unambiguously.
func Interpret(spec widget.Spec, store *responses.Store, opts ...Option) (Tree, error) {
	if err := spec.Validate(); err != nil {
		return Tree{}, fmt.Errorf("interpreter: %w", err)
	}

	cfg := options{container: Container{Background: DefaultBackground, FontFamily: DefaultFontFamily}}
	for _, opt := range opts {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	container := cfg.container
	if spec.Styling.PrimaryColor != "" {
		container.Background = spec.Styling.PrimaryColor
	}
	if spec.Styling.FontFamily != "" {
		container.FontFamily = spec.Styling.FontFamily
	}

	tree := Tree{
		Title:       spec.Title,
		Description: spec.Description,
		Container:   container,
		Nodes:       make([]Node, 0, len(spec.Elements)),
		Result:      cfg.result,
	}
	for _, element := range spec.Elements {
		tree.Nodes = append(tree.Nodes, interpretElement(element, store))
	}
	return tree, nil
}

func interpretElement(element widget.Element, store *responses.Store) Node {
	if element.Type.Interactive() && element.ID == "" {
		return placeholder(element, ReasonMissingID)
	}

	node := Node{
		ID:    element.ID,
		Label: element.Label,
		Style: element.Style.Clone(),
	}

	switch element.Type {
	case widget.ElementText:
		node.Kind = KindText
	case widget.ElementInput, widget.ElementTextarea:
		node.Kind = KindInput
		if element.Type == widget.ElementTextarea {
			node.Kind = KindTextarea
		}
		node.Placeholder = textPlaceholder(element)
		node.Value, node.Answered = store.Get(element.ID)
		node.Binding = Binding{ElementID: element.ID, Action: ActionCapture}
	case widget.ElementSelect:
		node.Kind = KindSelect
		node.Placeholder = element.Placeholder
		if node.Placeholder == "" {
			node.Placeholder = DefaultSelectPlaceholder
		}
		node.Value, node.Answered = store.Get(element.ID)
		node.Choices = choices(element.Options, node.Value, node.Answered)
		node.Binding = Binding{ElementID: element.ID, Action: ActionCapture}
	case widget.ElementQuestion:
		node.Kind = KindRadio
		node.Value, node.Answered = store.Get(element.ID)
		node.Choices = choices(element.Options, node.Value, node.Answered)
		node.Binding = Binding{ElementID: element.ID, Action: ActionCapture}
	case widget.ElementButton:
		node.Kind = KindButton
		node.Binding = Binding{ElementID: element.ID, Action: ActionSubmit}
	default:
		return placeholder(element, ReasonUnsupportedType)
	}
	if node.Binding.Action == ActionCapture {
		node.Required = element.Required()
	}
	return node
}

func placeholder(element widget.Element, reason string) Node {
	return Node{
		Kind:        KindPlaceholder,
		ID:          element.ID,
		Label:       element.Label,
		UnknownType: string(element.Type),
		Reason:      reason,
	}
}

func textPlaceholder(element widget.Element) string {
	if element.Placeholder != "" {
		return element.Placeholder
	}
	return element.DefaultValue
}

func choices(options []string, value string, answered bool) []Choice {
	out := make([]Choice, 0, len(options))
	selected := false
	for _, option := range options {
		// Only the first matching option is marked so radio groups with
		// repeated labels still show a single selection.
		isSelected := answered && !selected && option == value
		if isSelected {
			selected = true
		}
		out = append(out, Choice{Value: option, Selected: isSelected})
	}
	return out
}
