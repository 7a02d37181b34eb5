package interpreter

import (
	"errors"
	"fmt"

	"github.com/goliatone/go-widgetgen/pkg/responses"
)

var (
	// ErrNoBinding is returned for events addressed at an id that has no
	// control accepting that kind of event.
	ErrNoBinding = errors.New("interpreter: no control bound for event")
	// ErrUnknownOption is returned when a select or radio change carries a
	// value that is not one of the control's options.
	ErrUnknownOption = errors.New("interpreter: value is not one of the options")
	// ErrNilStore is returned when an event is dispatched without a store.
	ErrNilStore = errors.New("interpreter: response store is required")
)

// EventType enumerates the user interactions a Tree understands.
type EventType string

const (
	// EventChange carries a new value for a capture control.
	EventChange EventType = "change"
	// EventActivate presses a submit control.
	EventActivate EventType = "activate"
)

// Event is one user interaction addressed at an element id.
type Event struct {
	Type      EventType `json:"type"`
	ElementID string    `json:"elementId"`
	Value     string    `json:"value,omitempty"`
}

// Change builds an EventChange.
func Change(id, value string) Event {
	return Event{Type: EventChange, ElementID: id, Value: value}
}

// Activate builds an EventActivate.
func Activate(id string) Event {
	return Event{Type: EventActivate, ElementID: id}
}

// Dispatch applies ev through the control bound to its element id. Change
// events write the store; select and radio controls only accept one of their
// options and a new choice overwrites the previous one. Activate events on a
// button return a snapshot of the whole store and leave it untouched.
func (t Tree) Dispatch(store *responses.Store, ev Event) (*responses.Snapshot, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	node, ok := t.Node(ev.ElementID)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrNoBinding, ev.ElementID)
	}

	switch ev.Type {
	case EventChange:
		if node.Binding.Action != ActionCapture {
			return nil, fmt.Errorf("%w: %q does not capture values", ErrNoBinding, ev.ElementID)
		}
		// The empty value is the select control's "unselected" entry.
		clearsSelect := node.Kind == KindSelect && ev.Value == ""
		if (node.Kind == KindSelect || node.Kind == KindRadio) && !clearsSelect {
			if !hasChoice(node.Choices, ev.Value) {
				return nil, fmt.Errorf("%w: %q for %q", ErrUnknownOption, ev.Value, ev.ElementID)
			}
		}
		store.Set(node.Binding.ElementID, ev.Value)
		return nil, nil
	case EventActivate:
		if node.Binding.Action != ActionSubmit {
			return nil, fmt.Errorf("%w: %q is not a submit control", ErrNoBinding, ev.ElementID)
		}
		snapshot := store.Snapshot()
		return &snapshot, nil
	default:
		return nil, fmt.Errorf("interpreter: unknown event type %q", ev.Type)
	}
}

func hasChoice(choices []Choice, value string) bool {
	for _, choice := range choices {
		if choice.Value == value {
			return true
		}
	}
	return false
}
