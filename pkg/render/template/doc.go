// Package template defines the renderer-agnostic template contract shared by
// the HTML renderer and the export artifact builders.
package template
