package template

import (
	"io"
)

// TemplateRenderer is the seam the HTML renderer and the export package use to
// execute templates. The default implementation lives in the gotemplate
// subpackage; callers can inject their own engine.
//
// Every render method returns the output and also copies it to each writer in
// out.
type TemplateRenderer interface {
	RenderTemplate(name string, data any, out ...io.Writer) (string, error)
	RenderString(templateContent string, data any, out ...io.Writer) (string, error)
	RegisterFilter(name string, fn func(input any, param any) (any, error)) error
	GlobalContext(data any) error
}
