package render

import (
	"context"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
)

// Renderer converts an interpreted widget Tree into a byte representation
// (HTML, terminal session output, JSON).
type Renderer interface {
	Name() string
	ContentType() string
	Render(ctx context.Context, tree interpreter.Tree, options RenderOptions) ([]byte, error)
}
