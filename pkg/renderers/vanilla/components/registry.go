package components

import (
	"bytes"
	"fmt"
	"slices"
	"sync"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
	"github.com/goliatone/go-widgetgen/pkg/render"
	rendertemplate "github.com/goliatone/go-widgetgen/pkg/render/template"
)

// Renderer writes the markup of one interpreted node into buf.
type Renderer func(buf *bytes.Buffer, node interpreter.Node, data ComponentData) error

// ComponentData carries helpers and per-render configuration.
type ComponentData struct {
	Template rendertemplate.TemplateRenderer
	// ThemePartials maps partial keys ("widget.input") onto template paths
	// supplied by the active go-theme selection.
	ThemePartials map[string]string
	Submission    render.Submission
	// Style is the node's resolved inline CSS (kind defaults merged with the
	// element style).
	Style string
}

// Descriptor bundles a node kind's renderer with the stylesheets it needs.
type Descriptor struct {
	Kind        interpreter.Kind
	Renderer    Renderer
	Stylesheets []string
}

// Registry maps node kinds onto descriptors. Registering a kind again replaces
// its markup, which is how callers restyle a single control.
type Registry struct {
	mu    sync.RWMutex
	kinds map[interpreter.Kind]Descriptor
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{kinds: make(map[interpreter.Kind]Descriptor)}
}

// Register stores descriptor under kind.
func (r *Registry) Register(kind interpreter.Kind, descriptor Descriptor) error {
	if kind == "" {
		return fmt.Errorf("components: node kind is required")
	}
	if descriptor.Renderer == nil {
		return fmt.Errorf("components: renderer for %q is nil", kind)
	}
	descriptor.Kind = kind
	descriptor.Stylesheets = slices.Clone(descriptor.Stylesheets)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.kinds[kind] = descriptor
	return nil
}

// MustRegister mirrors Register but panics on error.
func (r *Registry) MustRegister(kind interpreter.Kind, descriptor Descriptor) {
	if err := r.Register(kind, descriptor); err != nil {
		panic(err)
	}
}

// Lookup returns the descriptor for kind, falling back to the placeholder
// component for kinds nobody registered.
func (r *Registry) Lookup(kind interpreter.Kind) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if descriptor, ok := r.kinds[kind]; ok {
		return descriptor, true
	}
	descriptor, ok := r.kinds[interpreter.KindPlaceholder]
	return descriptor, ok
}

// Stylesheets returns the stylesheets the given nodes need, de-duplicated in
// first-seen order.
func (r *Registry) Stylesheets(nodes []interpreter.Node) []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	seen := make(map[string]struct{})
	var out []string
	for _, node := range nodes {
		for _, href := range r.kinds[node.Kind].Stylesheets {
			if _, dup := seen[href]; dup || href == "" {
				continue
			}
			seen[href] = struct{}{}
			out = append(out, href)
		}
	}
	return out
}
