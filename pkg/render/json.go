package render

import (
	"context"
	"errors"

	"github.com/bytedance/sonic"

	"github.com/goliatone/go-widgetgen/pkg/interpreter"
)

// JSONRendererName is the name the JSON renderer registers under.
const JSONRendererName = "json"

// JSONRenderer emits the interpreted tree as JSON so browser clients can draw
// the controls themselves.
type JSONRenderer struct{}

func (JSONRenderer) Name() string { return JSONRendererName }

func (JSONRenderer) ContentType() string { return "application/json" }

func (JSONRenderer) Render(ctx context.Context, tree interpreter.Tree, options RenderOptions) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("render: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	payload := struct {
		interpreter.Tree
		Notices []string `json:"notices,omitempty"`
	}{
		Tree:    tree,
		Notices: MergeNotices(options.Notices),
	}
	return sonic.ConfigStd.Marshal(payload)
}
