// Package llm implements genservice.Service on top of a chat model. The model
// is asked for widget JSON using fixed meta prompts; the reply is decoded
// tolerantly and packaged with export artifacts.
package llm

import (
	"context"
	"errors"
)

// ErrEmptyCompletion is returned by completers when the model replies with no
// text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// CompletionRequest is a single-turn chat request.
type CompletionRequest struct {
	System      string
	Prompt      string
	Temperature float32
	MaxTokens   int
}

// Completer sends one request to a chat model and returns its text reply.
type Completer interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// CompleterFunc adapts a function to Completer.
type CompleterFunc func(ctx context.Context, req CompletionRequest) (string, error)

// Complete calls f.
func (f CompleterFunc) Complete(ctx context.Context, req CompletionRequest) (string, error) {
	return f(ctx, req)
}
