package interpreter

import (
	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// Kind identifies the control a Node renders as.
type Kind string

const (
	KindText        Kind = "text"
	KindInput       Kind = "input"
	KindTextarea    Kind = "textarea"
	KindSelect      Kind = "select"
	KindRadio       Kind = "radio"
	KindButton      Kind = "button"
	KindPlaceholder Kind = "placeholder"
)

// Action describes what a bound control does when the user interacts with it.
type Action string

const (
	ActionNone    Action = ""
	ActionCapture Action = "capture"
	ActionSubmit  Action = "submit"
)

// Binding ties a control to the element id it reads and writes.
type Binding struct {
	ElementID string `json:"elementId,omitempty"`
	Action    Action `json:"action,omitempty"`
}

// Choice is one selectable option of a select or radio control.
type Choice struct {
	Value    string `json:"value"`
	Selected bool   `json:"selected"`
}

// Placeholder reasons.
const (
	ReasonUnsupportedType = "unsupported type"
	ReasonMissingID       = "missing id"
)

// Node is one rendered control. Nodes appear in specification order.
type Node struct {
	Kind        Kind         `json:"kind"`
	ID          string       `json:"id,omitempty"`
	Label       string       `json:"label,omitempty"`
	Placeholder string       `json:"placeholder,omitempty"`
	Value       string       `json:"value,omitempty"`
	Answered    bool         `json:"answered,omitempty"`
	Required    bool         `json:"required,omitempty"`
	Choices     []Choice     `json:"choices,omitempty"`
	Style       widget.Style `json:"style,omitempty"`
	Binding     Binding      `json:"binding"`

	// UnknownType and Reason are set on placeholder nodes.
	UnknownType string `json:"unknownType,omitempty"`
	Reason      string `json:"reason,omitempty"`
}

// Interactive reports whether the node is bound to the store.
func (n Node) Interactive() bool {
	return n.Binding.Action != ActionNone
}

// SelectedChoice returns the currently selected option, if any.
func (n Node) SelectedChoice() (string, bool) {
	for _, choice := range n.Choices {
		if choice.Selected {
			return choice.Value, true
		}
	}
	return "", false
}

// Container holds the resolved widget-level styling.
type Container struct {
	Background string `json:"background"`
	FontFamily string `json:"fontFamily"`
}

// Tree is the interpreted widget.
type Tree struct {
	Title       string              `json:"title"`
	Description string              `json:"description,omitempty"`
	Container   Container           `json:"container"`
	Nodes       []Node              `json:"nodes"`
	Result      *responses.Snapshot `json:"result,omitempty"`
}

// Node returns the first node bound to id.
func (t Tree) Node(id string) (Node, bool) {
	for _, node := range t.Nodes {
		if node.ID == id && node.Interactive() {
			return node, true
		}
	}
	return Node{}, false
}

// Buttons returns the submit controls in display order.
func (t Tree) Buttons() []Node {
	var out []Node
	for _, node := range t.Nodes {
		if node.Binding.Action == ActionSubmit {
			out = append(out, node)
		}
	}
	return out
}
