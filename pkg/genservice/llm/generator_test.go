package llm

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgetgen/internal/logger"
	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

type scriptedCompleter struct {
	replies  []string
	err      error
	requests []CompletionRequest
}

func (s *scriptedCompleter) Complete(_ context.Context, req CompletionRequest) (string, error) {
	s.requests = append(s.requests, req)
	if s.err != nil {
		return "", s.err
	}
	if len(s.replies) == 0 {
		return "", ErrEmptyCompletion
	}
	reply := s.replies[0]
	s.replies = s.replies[1:]
	return reply, nil
}

func newTestGenerator(t *testing.T, completer Completer, opts ...Option) *Generator {
	t.Helper()
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	base := []Option{
		WithLogger(logger.NewTestLogger(t)),
		WithClock(func() time.Time { return fixed }),
		WithIDGenerator(func() string { return "w-1" }),
	}
	g, err := NewGenerator(completer, append(base, opts...)...)
	require.NoError(t, err)
	return g
}

func TestGenerator_Generate(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{
		"```json\n" + `{"title":"Party Quiz","elements":[{"type":"question","id":"q1","label":"Best pet?","options":["Cat","Dog"]},{"type":"button","id":"go","label":"Go"}]}` + "\n```",
	}}
	g := newTestGenerator(t, completer)

	resp, err := g.Generate(context.Background(), genservice.GenerateRequest{Prompt: "Make me a quiz"})
	require.NoError(t, err)

	assert.Equal(t, "w-1", resp.WidgetID)
	assert.Equal(t, "Party Quiz", resp.Widget.Title)
	assert.Equal(t, []string{"q1", "go"}, resp.Widget.IDs())
	assert.Equal(t, "2024-05-01T12:00:00Z", resp.Timestamp)
	assert.Contains(t, resp.ReactCode, "const PartyQuizWidget")
	assert.Contains(t, resp.EmbedCode, "storyweave-widget-w-1")

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, generateSystemPrompt, req.System)
	assert.Contains(t, req.Prompt, "User request: Make me a quiz")
	assert.InDelta(t, 0.7, req.Temperature, 0.0001)
	assert.Equal(t, 2000, req.MaxTokens)
}

func TestGenerator_GenerateFallsBack(t *testing.T) {
	g := newTestGenerator(t, &scriptedCompleter{replies: []string{"no widgets today"}})

	resp, err := g.Generate(context.Background(), genservice.GenerateRequest{Prompt: "anything"})
	require.NoError(t, err)
	assert.Equal(t, "Generated Widget", resp.Widget.Title)
	assert.Equal(t, []string{"title", "input1", "submit"}, resp.Widget.IDs())
	assert.Equal(t, "#3b82f6", resp.Widget.Styling.PrimaryColor)
}

func TestGenerator_GenerateWithoutFallback(t *testing.T) {
	boom := errors.New("rate limited")
	g := newTestGenerator(t, &scriptedCompleter{err: boom}, WithFallback(false))

	_, err := g.Generate(context.Background(), genservice.GenerateRequest{Prompt: "anything"})
	assert.ErrorIs(t, err, ErrGeneration)
	assert.ErrorIs(t, err, boom)
}

func TestGenerator_GenerateRejectsBlankPrompt(t *testing.T) {
	completer := &scriptedCompleter{}
	g := newTestGenerator(t, completer)

	_, err := g.Generate(context.Background(), genservice.GenerateRequest{Prompt: "   "})
	assert.ErrorIs(t, err, genservice.ErrEmptyPrompt)
	assert.Empty(t, completer.requests)
}

func TestGenerator_Edit(t *testing.T) {
	completer := &scriptedCompleter{replies: []string{`{"title":"Blue Quiz","styling":{"primaryColor":"#0000ff"},"elements":[{"type":"input","id":"a"}]}`}}
	g := newTestGenerator(t, completer)

	current := widget.Spec{Title: "Quiz", Elements: []widget.Element{{ID: "a", Type: widget.ElementInput}}}
	resp, err := g.Edit(context.Background(), genservice.EditRequest{
		WidgetID:      "existing",
		EditPrompt:    "make it blue",
		CurrentWidget: current,
	})
	require.NoError(t, err)
	assert.Equal(t, "existing", resp.WidgetID)
	assert.Equal(t, "Blue Quiz", resp.Widget.Title)
	assert.Equal(t, "#0000ff", resp.Widget.Styling.PrimaryColor)
	assert.Contains(t, resp.EmbedCode, "storyweave-widget-existing")

	require.Len(t, completer.requests, 1)
	req := completer.requests[0]
	assert.Equal(t, editSystemPrompt, req.System)
	assert.InDelta(t, 0.5, req.Temperature, 0.0001)
	assert.Contains(t, req.Prompt, `"title": "Quiz"`)
	assert.Contains(t, req.Prompt, "User's edit request: make it blue")
}

func TestGenerator_EditFailures(t *testing.T) {
	current := widget.Spec{Title: "Quiz"}

	g := newTestGenerator(t, &scriptedCompleter{replies: []string{"Sorry, I changed nothing."}})
	_, err := g.Edit(context.Background(), genservice.EditRequest{WidgetID: "w", EditPrompt: "x", CurrentWidget: current})
	assert.ErrorIs(t, err, ErrEdit)
	assert.ErrorIs(t, err, ErrNoJSON)

	g = newTestGenerator(t, &scriptedCompleter{err: errors.New("timeout")})
	_, err = g.Edit(context.Background(), genservice.EditRequest{WidgetID: "w", EditPrompt: "x", CurrentWidget: current})
	assert.ErrorIs(t, err, ErrEdit)

	_, err = g.Edit(context.Background(), genservice.EditRequest{WidgetID: "w", EditPrompt: " "})
	assert.ErrorIs(t, err, genservice.ErrEmptyPrompt)
}

func TestGenerator_Examples(t *testing.T) {
	g := newTestGenerator(t, &scriptedCompleter{})
	examples, err := g.Examples(context.Background())
	require.NoError(t, err)
	assert.Equal(t, genservice.DefaultExamples, examples)

	examples[0] = "mutated"
	again, _ := g.Examples(context.Background())
	assert.Equal(t, genservice.DefaultExamples[0], again[0])

	custom := newTestGenerator(t, &scriptedCompleter{}, WithExamples([]string{"One"}))
	examples, _ = custom.Examples(context.Background())
	assert.Equal(t, []string{"One"}, examples)
}

func TestNewGenerator_RequiresCompleter(t *testing.T) {
	_, err := NewGenerator(nil)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "completer"))
}
