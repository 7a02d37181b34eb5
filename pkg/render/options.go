package render

import (
	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-widgetgen/pkg/responses"
)

// RenderOptions describe per-request data renderers can use without changing
// the interpreted tree.
type RenderOptions struct {
	// Store is the live response store. Interactive renderers (tui) write user
	// input through Tree.Dispatch; static renderers ignore it because the tree
	// already carries the current values.
	Store *responses.Store
	// Theme carries the resolved go-theme selection. Renderers map tokens onto
	// CSS custom properties and resolve partial overrides through it.
	Theme *theme.RendererConfig
	// Submission describes where HTML controls post their events. A zero value
	// renders a static preview without a form wrapper.
	Submission Submission
	// Notices are user-visible, non-fatal messages (failed edits, lint
	// warnings) rendered above the widget.
	Notices []string
}
