// Package genservice defines the boundary with the widget generation service:
// the request and response shapes exchanged with it, the Service contract
// implemented by the HTTP client and the local LLM backend, and the examples
// list with its offline fallback.
package genservice

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/goliatone/go-widgetgen/pkg/widget"
)

// ErrEmptyPrompt is returned before any request is sent when the prompt or
// edit instruction is blank.
var ErrEmptyPrompt = errors.New("genservice: prompt is empty")

// GenerateRequest asks the service for a brand-new widget.
type GenerateRequest struct {
	Prompt string `json:"prompt"`
	UserID string `json:"user_id,omitempty"`
}

// Validate rejects blank prompts.
func (r GenerateRequest) Validate() error {
	if strings.TrimSpace(r.Prompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// EditRequest carries a free-text instruction together with the widget it
// applies to. CurrentWidget is sent unmodified.
type EditRequest struct {
	WidgetID      string      `json:"widget_id"`
	EditPrompt    string      `json:"edit_prompt"`
	CurrentWidget widget.Spec `json:"current_widget"`
}

// Validate rejects blank instructions.
func (r EditRequest) Validate() error {
	if strings.TrimSpace(r.EditPrompt) == "" {
		return ErrEmptyPrompt
	}
	return nil
}

// Response is returned by both Generate and Edit. ReactCode and EmbedCode are
// opaque export artifacts passed through for display.
type Response struct {
	WidgetID  string      `json:"widget_id"`
	Widget    widget.Spec `json:"widget_data"`
	ReactCode string      `json:"react_code"`
	EmbedCode string      `json:"embed_code"`
	Timestamp string      `json:"timestamp"`
}

// ExportResponse bundles the artifacts of a widget for download.
type ExportResponse struct {
	ReactCode   string      `json:"react_code"`
	EmbedCode   string      `json:"embed_code"`
	Widget      widget.Spec `json:"widget_data"`
	DownloadURL string      `json:"download_url"`
}

// Export builds the export payload for a response.
func Export(resp Response) ExportResponse {
	return ExportResponse{
		ReactCode:   resp.ReactCode,
		EmbedCode:   resp.EmbedCode,
		Widget:      resp.Widget,
		DownloadURL: "/api/download/" + resp.WidgetID,
	}
}

// ExamplesResponse is the wire shape of the examples endpoint.
type ExamplesResponse struct {
	Examples []string `json:"examples"`
}

// Service is the generation service contract.
type Service interface {
	Generate(ctx context.Context, req GenerateRequest) (Response, error)
	Edit(ctx context.Context, req EditRequest) (Response, error)
	Examples(ctx context.Context) ([]string, error)
}

// DefaultExamples are the prompts the backend advertises.
var DefaultExamples = []string{
	"Make me a quiz for my friends",
	"A BMI calculator",
	"A feedback form with branching logic",
	"A countdown timer",
	"A todo list with categories",
	"A contact form",
	"A simple calculator",
	"A survey with multiple choice questions",
}

// FallbackExamples are substituted when the examples request fails.
var FallbackExamples = DefaultExamples[:5:5]

// Examples fetches example prompts, falling back to FallbackExamples when the
// service is unavailable or returns nothing. The returned error reports the
// failure; the slice is always usable.
func Examples(ctx context.Context, svc Service) ([]string, error) {
	if svc == nil {
		return cloneStrings(FallbackExamples), errors.New("genservice: service is nil")
	}
	examples, err := svc.Examples(ctx)
	if err != nil {
		return cloneStrings(FallbackExamples), err
	}
	if len(examples) == 0 {
		return cloneStrings(FallbackExamples), nil
	}
	return examples, nil
}

// Timestamp formats t the way responses carry it.
func Timestamp(t time.Time) string {
	return t.Format(time.RFC3339Nano)
}

func cloneStrings(src []string) []string {
	return append([]string(nil), src...)
}
