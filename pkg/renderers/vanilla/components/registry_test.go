package components

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
)

func noop(*bytes.Buffer, interpreter.Node, ComponentData) error { return nil }

func TestRegistry_LookupFallsBackToPlaceholder(t *testing.T) {
	registry := NewDefaultRegistry()

	descriptor, ok := registry.Lookup(interpreter.Kind("carousel"))
	if !ok {
		t.Fatalf("expected placeholder fallback")
	}
	if descriptor.Kind != interpreter.KindPlaceholder {
		t.Fatalf("expected placeholder descriptor, got %q", descriptor.Kind)
	}

	if _, ok := New().Lookup(interpreter.KindInput); ok {
		t.Fatalf("empty registry should not resolve components")
	}
}

func TestRegistry_RegisterRejectsIncompleteDescriptors(t *testing.T) {
	registry := New()
	if err := registry.Register("", Descriptor{Renderer: noop}); err == nil {
		t.Fatalf("expected error for empty kind")
	}
	if err := registry.Register(interpreter.KindInput, Descriptor{}); err == nil {
		t.Fatalf("expected error for nil renderer")
	}
}

func TestRegistry_StylesheetsDeduplicateInNodeOrder(t *testing.T) {
	registry := New()
	registry.MustRegister(interpreter.KindSelect, Descriptor{Renderer: noop, Stylesheets: []string{"/select.css", "/base.css"}})
	registry.MustRegister(interpreter.KindInput, Descriptor{Renderer: noop, Stylesheets: []string{"/base.css", "", "/input.css"}})

	got := registry.Stylesheets([]interpreter.Node{
		{Kind: interpreter.KindInput},
		{Kind: interpreter.KindText},
		{Kind: interpreter.KindSelect},
		{Kind: interpreter.KindInput},
	})
	want := []string{"/base.css", "/input.css", "/select.css"}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("stylesheets mismatch (-want +got):\n%s", diff)
	}
}

func TestPartialKeyAndControlID(t *testing.T) {
	if got := PartialKey(" Input "); got != "widget.input" {
		t.Fatalf("unexpected partial key %q", got)
	}
	if got := ControlID("email"); got != "wg-email" {
		t.Fatalf("unexpected control id %q", got)
	}
	if got := ControlID("  "); got != "" {
		t.Fatalf("blank ids should have no control id, got %q", got)
	}
}
