package orchestrator

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/bytedance/sonic"
	jsonpatch "github.com/evanphx/json-patch/v5"

	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// Transformer mutates a widget specification before it is interpreted.
// Implementations can relabel elements, restyle the container, or perform
// arbitrary rewrites.
type Transformer interface {
	Transform(ctx context.Context, spec *widget.Spec) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, spec *widget.Spec) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, spec *widget.Spec) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, spec)
}

// PresetTransformer applies declarative RFC 7386 merge patches loaded from a
// JSON document. The widget patch applies to the whole specification; element
// patches apply to the element with the matching id:
//
//	{
//	  "widget": {"styling": {"primaryColor": "#0f172a"}},
//	  "elements": {
//	    "submit": {"label": "Send", "style": {"backgroundColor": "#16a34a"}}
//	  }
//	}
//
// A null value in a patch removes the key.
type PresetTransformer struct {
	widget   []byte
	elements map[string][]byte
}

type presetDocument struct {
	Widget   map[string]any            `json:"widget"`
	Elements map[string]map[string]any `json:"elements"`
}

// NewPresetTransformer constructs a transformer from raw JSON bytes.
func NewPresetTransformer(data []byte) (*PresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("preset transformer: document is empty")
	}
	var document presetDocument
	if err := sonic.ConfigStd.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("preset transformer: parse document: %w", err)
	}

	t := &PresetTransformer{elements: make(map[string][]byte, len(document.Elements))}
	if len(document.Widget) > 0 {
		patch, err := sonic.ConfigStd.Marshal(document.Widget)
		if err != nil {
			return nil, fmt.Errorf("preset transformer: encode widget patch: %w", err)
		}
		t.widget = patch
	}
	for id, fields := range document.Elements {
		patch, err := sonic.ConfigStd.Marshal(fields)
		if err != nil {
			return nil, fmt.Errorf("preset transformer: encode patch for %q: %w", id, err)
		}
		t.elements[id] = patch
	}
	return t, nil
}

// NewPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewPresetTransformerFromFS(fsys fs.FS, path string) (*PresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("preset transformer: read %s: %w", path, err)
	}
	return NewPresetTransformer(data)
}

// Transform applies the widget patch and then every element patch. A patch
// for an id the specification does not contain is an error.
func (t *PresetTransformer) Transform(ctx context.Context, spec *widget.Spec) error {
	if spec == nil {
		return errors.New("preset transformer: spec is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if len(t.widget) > 0 {
		current, err := sonic.ConfigStd.Marshal(spec)
		if err != nil {
			return fmt.Errorf("preset transformer: encode spec: %w", err)
		}
		merged, err := jsonpatch.MergePatch(current, t.widget)
		if err != nil {
			return fmt.Errorf("preset transformer: apply widget patch: %w", err)
		}
		next, err := widget.Decode(merged)
		if err != nil {
			return fmt.Errorf("preset transformer: decode patched spec: %w", err)
		}
		*spec = next
	}

	for id, patch := range t.elements {
		if err := ctx.Err(); err != nil {
			return err
		}
		idx := elementIndex(spec.Elements, id)
		if idx < 0 {
			return fmt.Errorf("preset transformer: element %q not found", id)
		}
		element, err := patchElement(spec.Elements[idx], patch)
		if err != nil {
			return fmt.Errorf("preset transformer: element %q: %w", id, err)
		}
		spec.Elements[idx] = element
	}
	return nil
}

func patchElement(element widget.Element, patch []byte) (widget.Element, error) {
	current, err := sonic.ConfigStd.Marshal(element)
	if err != nil {
		return widget.Element{}, err
	}
	merged, err := jsonpatch.MergePatch(current, patch)
	if err != nil {
		return widget.Element{}, err
	}
	var fields map[string]any
	if err := sonic.ConfigStd.Unmarshal(merged, &fields); err != nil {
		return widget.Element{}, err
	}
	return widget.DecodeElement(fields), nil
}

func elementIndex(elements []widget.Element, id string) int {
	for idx, element := range elements {
		if element.ID == id {
			return idx
		}
	}
	return -1
}
