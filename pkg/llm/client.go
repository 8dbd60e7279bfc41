package llm

import (
	"context"
	"errors"
)

var ErrGenerationFailed = errors.New("generation failed")

type Prompt struct {
	Text        string
	MaxTokens   int64
	Temperature float64
}

// Generator sends a single prompt to a hosted model and returns the raw text.
type Generator interface {
	Generate(ctx context.Context, p Prompt) (string, error)
	Name() string
}
