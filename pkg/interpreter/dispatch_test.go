package interpreter

import (
	"errors"
	"testing"

	"github.com/goliatone/go-widgetgen/pkg/responses"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

func mustInterpret(t *testing.T, spec widget.Spec, store *responses.Store) Tree {
	t.Helper()
	tree, err := Interpret(spec, store)
	if err != nil {
		t.Fatalf("interpret: %v", err)
	}
	return tree
}

func TestDispatch_QuestionSelectionOverwrites(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "q1", Type: widget.ElementQuestion, Options: []string{"Yes", "No"}},
	}}
	store := responses.NewStore()

	tree := mustInterpret(t, spec, store)
	if _, err := tree.Dispatch(store, Change("q1", "No")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got, _ := store.Get("q1"); got != "No" {
		t.Fatalf("expected No, got %q", got)
	}

	tree = mustInterpret(t, spec, store)
	if choice, _ := tree.Nodes[0].SelectedChoice(); choice != "No" {
		t.Fatalf("rerender should select No, got %q", choice)
	}
	if _, err := tree.Dispatch(store, Change("q1", "Yes")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	if got, _ := store.Get("q1"); got != "Yes" {
		t.Fatalf("expected Yes after overwrite, got %q", got)
	}
	if store.Len() != 1 {
		t.Fatalf("selection should overwrite, not accumulate: %v", store.Keys())
	}
}

func TestDispatch_ChoiceControlsRejectUnknownOptions(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "q1", Type: widget.ElementQuestion, Options: []string{"Yes", "No"}},
		{ID: "plan", Type: widget.ElementSelect, Options: []string{"Free"}},
	}}
	store := responses.NewStore()
	tree := mustInterpret(t, spec, store)

	if _, err := tree.Dispatch(store, Change("q1", "Maybe")); !errors.Is(err, ErrUnknownOption) {
		t.Fatalf("expected ErrUnknownOption, got %v", err)
	}
	if _, err := tree.Dispatch(store, Change("plan", "")); err != nil {
		t.Fatalf("select should accept the unselected value: %v", err)
	}
	if got, ok := store.Get("plan"); !ok || got != "" {
		t.Fatalf("expected cleared select, got %q (%v)", got, ok)
	}
	if store.Has("q1") {
		t.Fatalf("rejected change must not write the store")
	}
}

func TestDispatch_ButtonSnapshotsWholeStore(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "name", Type: widget.ElementInput},
		{ID: "send", Type: widget.ElementButton},
		{ID: "again", Type: widget.ElementButton},
	}}
	store := responses.NewStore()
	tree := mustInterpret(t, spec, store)

	if _, err := tree.Dispatch(store, Change("name", "Ada")); err != nil {
		t.Fatalf("dispatch: %v", err)
	}
	store.Set("orphan", "kept")

	snapshot, err := tree.Dispatch(store, Activate("send"))
	if err != nil {
		t.Fatalf("activate: %v", err)
	}
	if snapshot == nil || !snapshot.Equal(store.Snapshot()) {
		t.Fatalf("snapshot should equal store at click time")
	}

	store.Set("name", "Grace")
	if got, _ := snapshot.Get("name"); got != "Ada" {
		t.Fatalf("snapshot changed after later set: %q", got)
	}

	second, err := tree.Dispatch(store, Activate("again"))
	if err != nil {
		t.Fatalf("activate second button: %v", err)
	}
	if got, _ := second.Get("name"); got != "Grace" {
		t.Fatalf("second button should snapshot the full current store, got %q", got)
	}
	if len(tree.Buttons()) != 2 {
		t.Fatalf("expected two submit controls")
	}
}

func TestDispatch_RejectsMismatchedEvents(t *testing.T) {
	spec := widget.Spec{Elements: []widget.Element{
		{ID: "intro", Type: widget.ElementText},
		{ID: "name", Type: widget.ElementInput},
		{ID: "send", Type: widget.ElementButton},
	}}
	store := responses.NewStore()
	tree := mustInterpret(t, spec, store)

	cases := []Event{
		Change("intro", "x"),
		Change("send", "x"),
		Activate("name"),
		Change("missing", "x"),
	}
	for _, ev := range cases {
		if _, err := tree.Dispatch(store, ev); !errors.Is(err, ErrNoBinding) {
			t.Fatalf("event %+v: expected ErrNoBinding, got %v", ev, err)
		}
	}
	if _, err := tree.Dispatch(nil, Change("name", "x")); !errors.Is(err, ErrNilStore) {
		t.Fatalf("expected ErrNilStore, got %v", err)
	}
	if store.Len() != 0 {
		t.Fatalf("rejected events wrote the store: %v", store.Keys())
	}
}
