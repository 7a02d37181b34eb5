package widget

import (
	_ "embed"
	"fmt"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/widget.schema.json
var specSchema string

// SchemaJSON returns the JSON Schema used by Lint.
func SchemaJSON() string {
	return specSchema
}

// Lint checks a raw payload against the bundled JSON Schema and returns one
// message per violation. Lint results are advisory: Decode still accepts the
// payload and the interpreter still renders it.
func Lint(raw []byte) ([]string, error) {
	result, err := gojsonschema.Validate(
		gojsonschema.NewStringLoader(specSchema),
		gojsonschema.NewBytesLoader(raw),
	)
	if err != nil {
		return nil, fmt.Errorf("widget: lint: %w", err)
	}
	if result.Valid() {
		return nil, nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return issues, nil
}
