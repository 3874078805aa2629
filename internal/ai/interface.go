package ai

import (
	"context"
	"errors"
)

// ErrEmptyResponse is returned when the model answers without any usable text.
var ErrEmptyResponse = errors.New("ai: empty response")

// TextGenerator sends a single prompt to a text-generation model and returns its raw output.
// Implementations do not retry; every failure is reported to the caller.
type TextGenerator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}
