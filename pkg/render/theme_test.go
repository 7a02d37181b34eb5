package render

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const oceanManifest = `
name: ocean
version: 1.0.0
tokens:
  primary: "#0ea5e9"
  surface: "#ffffff"
templates:
  widget.input: themes/ocean/input.tmpl
assets:
  prefix: /assets/ocean
  files:
    widget.stylesheet: widget.css
variants:
  dark:
    tokens:
      surface: "#0f172a"
    assets:
      files:
        widget.stylesheet: widget.dark.css
`

func TestThemeConfig_MergesVariantOverBase(t *testing.T) {
	manifest, err := ParseThemeManifest([]byte(oceanManifest))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	selector, err := NewStaticSelector("", "dark", manifest)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	sel, err := selector.Select("", "")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	cfg := ThemeConfig(sel, map[string]string{"widget.input": "fallback.tmpl", "widget.button": "button.tmpl"})
	if cfg == nil {
		t.Fatalf("expected renderer config")
	}
	if cfg.Theme != "ocean" || cfg.Variant != "dark" {
		t.Fatalf("unexpected selection %s/%s", cfg.Theme, cfg.Variant)
	}

	wantVars := map[string]string{"--primary": "#0ea5e9", "--surface": "#0f172a"}
	if diff := cmp.Diff(wantVars, cfg.CSSVars); diff != "" {
		t.Fatalf("css vars mismatch (-want +got):\n%s", diff)
	}
	wantPartials := map[string]string{"widget.input": "themes/ocean/input.tmpl", "widget.button": "button.tmpl"}
	if diff := cmp.Diff(wantPartials, cfg.Partials); diff != "" {
		t.Fatalf("partials mismatch (-want +got):\n%s", diff)
	}
	if got := cfg.AssetURL("widget.stylesheet"); got != "/assets/ocean/widget.dark.css" {
		t.Fatalf("unexpected stylesheet url %q", got)
	}
	if got := cfg.AssetURL("missing"); got != "" {
		t.Fatalf("missing asset should resolve empty, got %q", got)
	}
}

func TestStaticSelector_UnknownThemeAndVariant(t *testing.T) {
	manifest, err := ParseThemeManifest([]byte(oceanManifest))
	if err != nil {
		t.Fatalf("parse manifest: %v", err)
	}
	selector, err := NewStaticSelector("ocean", "", manifest)
	if err != nil {
		t.Fatalf("new selector: %v", err)
	}

	if _, err := selector.Select("forest", ""); !errors.Is(err, ErrThemeNotFound) {
		t.Fatalf("expected ErrThemeNotFound, got %v", err)
	}
	sel, err := selector.Select("ocean", "sepia")
	if err != nil {
		t.Fatalf("select: %v", err)
	}
	if sel.Variant != "" {
		t.Fatalf("unknown variant should fall back to base, got %q", sel.Variant)
	}
	if got := ThemeConfig(sel, nil).CSSVars["--surface"]; got != "#ffffff" {
		t.Fatalf("base token expected, got %q", got)
	}
	if diff := cmp.Diff([]string{"ocean"}, selector.Names()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestThemeConfig_NilSelection(t *testing.T) {
	if ThemeConfig(nil, nil) != nil {
		t.Fatalf("nil selection should produce nil config")
	}
}
