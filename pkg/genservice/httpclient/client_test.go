package httpclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-widgetgen/pkg/genservice"
	"github.com/goliatone/go-widgetgen/pkg/widget"
)

const widgetReply = `{
  "widget_id": "w-1",
  "widget_data": {"title": "Quiz", "elements": [{"type": "question", "id": "q1", "options": ["A", "B", 3]}, {"type": "timer"}]},
  "react_code": "react",
  "embed_code": "embed",
  "timestamp": "2024-05-01T12:00:00"
}`

func TestClient_Generate(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/base/api/generate-widget", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = io.WriteString(w, widgetReply)
	}))
	defer server.Close()

	client, err := New(server.URL + "/base")
	require.NoError(t, err)

	resp, err := client.Generate(context.Background(), genservice.GenerateRequest{Prompt: "A quiz", UserID: "u1"})
	require.NoError(t, err)

	assert.Equal(t, map[string]any{"prompt": "A quiz", "user_id": "u1"}, got)
	assert.Equal(t, "w-1", resp.WidgetID)
	assert.Equal(t, "Quiz", resp.Widget.Title)
	require.Len(t, resp.Widget.Elements, 2)
	assert.Equal(t, []string{"A", "B", "3"}, resp.Widget.Elements[0].Options)
	assert.Equal(t, widget.ElementType("timer"), resp.Widget.Elements[1].Type)
	assert.Equal(t, "react", resp.ReactCode)
}

func TestClient_EditSendsCurrentWidget(t *testing.T) {
	var got map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, EditPath, r.URL.Path)
		raw, _ := io.ReadAll(r.Body)
		require.NoError(t, json.Unmarshal(raw, &got))
		_, _ = io.WriteString(w, widgetReply)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.Edit(context.Background(), genservice.EditRequest{
		WidgetID:      "w-1",
		EditPrompt:    "add a question",
		CurrentWidget: widget.Spec{Title: "Quiz", Elements: []widget.Element{{ID: "a", Type: widget.ElementInput}}},
	})
	require.NoError(t, err)

	assert.Equal(t, "w-1", got["widget_id"])
	assert.Equal(t, "add a question", got["edit_prompt"])
	current, ok := got["current_widget"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Quiz", current["title"])
}

func TestClient_Examples(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, ExamplesPath, r.URL.Path)
		_, _ = io.WriteString(w, `{"examples":["A","B"]}`)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	examples, err := genservice.Examples(context.Background(), client)
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, examples)
}

func TestClient_ExamplesFallBackWhenBackendDown(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	examples, err := genservice.Examples(context.Background(), client)
	assert.True(t, IsStatus(err, http.StatusServiceUnavailable))
	assert.Equal(t, genservice.FallbackExamples, examples)
}

func TestClient_StatusErrors(t *testing.T) {
	cases := []struct {
		name   string
		body   string
		detail string
	}{
		{name: "fastapi detail", body: `{"detail":"Failed to generate widget: boom"}`, detail: "Failed to generate widget: boom"},
		{name: "error field", body: `{"error":"bad request"}`, detail: "bad request"},
		{name: "plain text", body: "upstream exploded", detail: "upstream exploded"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = io.WriteString(w, tc.body)
			}))
			defer server.Close()

			client, err := New(server.URL)
			require.NoError(t, err)

			_, err = client.Generate(context.Background(), genservice.GenerateRequest{Prompt: "x"})
			var serr *StatusError
			require.True(t, errors.As(err, &serr))
			assert.Equal(t, http.StatusInternalServerError, serr.StatusCode)
			assert.Equal(t, tc.detail, serr.Detail)
		})
	}
}

func TestClient_ValidatesBeforeSending(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	client, err := New(server.URL)
	require.NoError(t, err)

	_, err = client.Generate(context.Background(), genservice.GenerateRequest{Prompt: " "})
	assert.ErrorIs(t, err, genservice.ErrEmptyPrompt)
	_, err = client.Edit(context.Background(), genservice.EditRequest{EditPrompt: ""})
	assert.ErrorIs(t, err, genservice.ErrEmptyPrompt)
	assert.False(t, called)
}

func TestNew_RejectsRelativeURL(t *testing.T) {
	_, err := New("localhost:8000")
	assert.Error(t, err)
	_, err = New("/api")
	assert.Error(t, err)
}
