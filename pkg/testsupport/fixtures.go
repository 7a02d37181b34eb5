// Package testsupport holds the shared widget fixtures and golden-file helpers
// used across package tests.
package testsupport

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// FeedbackSpecPath returns the absolute path of the shared feedback form
// fixture. It mixes every element type, styled elements, a required input and
// one unsupported "timer" element.
func FeedbackSpecPath() string {
	_, file, _, _ := runtime.Caller(0)
	return filepath.Join(filepath.Dir(file), "testdata", "feedback.json")
}

// FeedbackSpec loads the shared feedback form fixture.
func FeedbackSpec(t *testing.T) widget.Spec {
	t.Helper()
	return MustLoadSpec(t, FeedbackSpecPath())
}

// MustLoadSpec decodes a JSON or YAML widget fixture.
func MustLoadSpec(t *testing.T, path string) widget.Spec {
	t.Helper()
	spec, err := widget.LoadFile(path)
	if err != nil {
		t.Fatalf("load spec fixture: %v", err)
	}
	return spec
}

// MustReadGoldenString returns the contents of the golden file at path.
func MustReadGoldenString(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	return string(data)
}

// CaptureTemplateOutput runs a render function that also writes to an
// io.Writer and returns both the returned string and what was written.
func CaptureTemplateOutput(t *testing.T, render func(io.Writer) (string, error)) (string, string) {
	t.Helper()

	var buf bytes.Buffer
	out, err := render(&buf)
	if err != nil {
		t.Fatalf("render template: %v", err)
	}
	return out, buf.String()
}
