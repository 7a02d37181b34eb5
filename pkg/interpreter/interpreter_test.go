package interpreter

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

var snapshotComparer = cmp.Comparer(func(a, b responses.Snapshot) bool { return a.Equal(b) })

func sampleSpec() widget.Spec {
	return widget.Spec{
		Title:       "Feedback",
		Description: "Tell us",
		Elements: []widget.Element{
			{ID: "intro", Type: widget.ElementText, Label: "Hello", Style: widget.Style{"fontSize": "24px"}},
			{ID: "name", Type: widget.ElementInput, Label: "Name", Placeholder: "Your name"},
			{ID: "notes", Type: widget.ElementTextarea, Label: "Notes", DefaultValue: "Anything else?"},
			{ID: "plan", Type: widget.ElementSelect, Label: "Plan", Options: []string{"Free", "Pro"}},
			{ID: "q1", Type: widget.ElementQuestion, Label: "Happy?", Options: []string{"Yes", "No"}},
			{ID: "mystery", Type: widget.ElementType("timer"), Label: "Countdown"},
			{ID: "send", Type: widget.ElementButton, Label: "Send"},
		},
	}
}

func TestInterpret_IsIdempotent(t *testing.T) {
	spec := sampleSpec()
	store := responses.NewStore()
	store.Set("name", "Ada")
	store.Set("q1", "No")
	result := store.Snapshot()

	first, err := Interpret(spec, store, WithResult(&result))
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	second, err := Interpret(spec, store, WithResult(&result))
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if diff := cmp.Diff(first, second, snapshotComparer); diff != "" {
		t.Fatalf("interpret not idempotent (-first +second):\n%s", diff)
	}
	if store.Len() != 2 {
		t.Fatalf("interpret mutated the store: %v", store.Keys())
	}
}

func TestInterpret_PreservesElementOrder(t *testing.T) {
	tree, err := Interpret(sampleSpec(), responses.NewStore())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}

	var got []string
	for _, node := range tree.Nodes {
		got = append(got, node.ID)
	}
	want := []string{"intro", "name", "notes", "plan", "q1", "mystery", "send"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("order mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpret_DispatchesByType(t *testing.T) {
	store := responses.NewStore()
	store.Set("plan", "Pro")

	tree, err := Interpret(sampleSpec(), store)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}

	want := []Node{
		{Kind: KindText, ID: "intro", Label: "Hello", Style: widget.Style{"fontSize": "24px"}},
		{Kind: KindInput, ID: "name", Label: "Name", Placeholder: "Your name", Style: widget.Style{}, Binding: Binding{ElementID: "name", Action: ActionCapture}},
		{Kind: KindTextarea, ID: "notes", Label: "Notes", Placeholder: "Anything else?", Style: widget.Style{}, Binding: Binding{ElementID: "notes", Action: ActionCapture}},
		{Kind: KindSelect, ID: "plan", Label: "Plan", Placeholder: DefaultSelectPlaceholder, Value: "Pro", Answered: true, Style: widget.Style{},
			Choices: []Choice{{Value: "Free"}, {Value: "Pro", Selected: true}}, Binding: Binding{ElementID: "plan", Action: ActionCapture}},
		{Kind: KindRadio, ID: "q1", Label: "Happy?", Style: widget.Style{},
			Choices: []Choice{{Value: "Yes"}, {Value: "No"}}, Binding: Binding{ElementID: "q1", Action: ActionCapture}},
		{Kind: KindPlaceholder, ID: "mystery", Label: "Countdown", UnknownType: "timer", Reason: "unsupported type"},
		{Kind: KindButton, ID: "send", Label: "Send", Style: widget.Style{}, Binding: Binding{ElementID: "send", Action: ActionSubmit}},
	}
	if diff := cmp.Diff(want, tree.Nodes); diff != "" {
		t.Fatalf("nodes mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpret_UnknownTypesNeverAbort(t *testing.T) {
	for _, tag := range []string{"timer", "todo_item", "", "INPUT"} {
		spec := widget.Spec{Elements: []widget.Element{
			{ID: "a", Type: widget.ElementText, Label: "before"},
			{ID: "b", Type: widget.ElementType(tag)},
			{ID: "c", Type: widget.ElementInput},
		}}
		tree, err := Interpret(spec, nil)
		if err != nil {
			t.Fatalf("tag %q: interpret: %v", tag, err)
		}
		if len(tree.Nodes) != 3 {
			t.Fatalf("tag %q: expected 3 nodes, got %d", tag, len(tree.Nodes))
		}
		if tree.Nodes[1].Kind != KindPlaceholder || tree.Nodes[1].UnknownType != tag {
			t.Fatalf("tag %q: expected placeholder, got %+v", tag, tree.Nodes[1])
		}
		if tree.Nodes[2].Kind != KindInput {
			t.Fatalf("tag %q: sibling not rendered: %+v", tag, tree.Nodes[2])
		}
	}
}

func TestInterpret_InteractiveElementWithoutIDBecomesPlaceholder(t *testing.T) {
	tree, err := Interpret(widget.Spec{Elements: []widget.Element{{Type: widget.ElementInput, Label: "Orphan"}}}, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if tree.Nodes[0].Kind != KindPlaceholder || tree.Nodes[0].Reason != "missing id" {
		t.Fatalf("expected placeholder for id-less input, got %+v", tree.Nodes[0])
	}
}

func TestInterpret_RejectsDuplicateIDs(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "a", Type: widget.ElementInput},
		{ID: "a", Type: widget.ElementQuestion},
	}}
	if _, err := Interpret(spec, nil); !errors.Is(err, widget.ErrDuplicateID) {
		t.Fatalf("expected duplicate id error, got %v", err)
	}
}

func TestInterpret_ContainerDefaults(t *testing.T) {
	tree, err := Interpret(widget.Spec{}, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if diff := cmp.Diff(Container{Background: DefaultBackground, FontFamily: DefaultFontFamily}, tree.Container); diff != "" {
		t.Fatalf("container defaults mismatch (-want +got):\n%s", diff)
	}

	tree, err = Interpret(widget.Spec{Styling: widget.Styling{PrimaryColor: "#111827"}}, nil,
		WithContainerDefaults(Container{FontFamily: "Arial, sans-serif"}))
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	if diff := cmp.Diff(Container{Background: "#111827", FontFamily: "Arial, sans-serif"}, tree.Container); diff != "" {
		t.Fatalf("container override mismatch (-want +got):\n%s", diff)
	}
}

func TestInterpret_TreeDoesNotAliasSpecStyle(t *testing.T) {
	spec := sampleSpec()
	tree, err := Interpret(spec, nil)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	tree.Nodes[0].Style["fontSize"] = "99px"
	if spec.Elements[0].Style["fontSize"] != "24px" {
		t.Fatalf("tree style aliases spec style")
	}
}

func TestInterpret_MarksRequiredCaptureControls(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "email", Type: widget.ElementInput, Validation: "required, email"},
		{ID: "notes", Type: widget.ElementTextarea},
		{ID: "send", Type: widget.ElementButton, Validation: "required"},
	}}

	tree, err := Interpret(spec, responses.NewStore())
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	got := []bool{tree.Nodes[0].Required, tree.Nodes[1].Required, tree.Nodes[2].Required}
	if diff := cmp.Diff([]bool{true, false, false}, got); diff != "" {
		t.Fatalf("required flags mismatch (-want +got):\n%s", diff)
	}
}
