package widgetgen

import (
	"io/fs"

	"github.com/goliatone/go-widgetgen/pkg/export"
	"github.com/goliatone/go-widgetgen/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in vanilla renderer templates so callers
// can reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// ExportTemplates exposes the React component and embed snippet templates.
func ExportTemplates() fs.FS {
	return export.TemplatesFS()
}
