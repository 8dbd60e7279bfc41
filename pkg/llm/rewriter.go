package llm

import (
	"context"
	"fmt"
)

// Rewriter turns a feed item's title and body into fresh copy. Every call
// reaches the provider; nothing is cached.
type Rewriter struct {
	gen Generator
}

func NewRewriter(gen Generator) *Rewriter {
	return &Rewriter{gen: gen}
}

func (r *Rewriter) RewriteTitle(ctx context.Context, title string) (string, error) {
	out, err := r.gen.Generate(ctx, TitlePrompt(title))
	if err != nil {
		return "", fmt.Errorf("%w: title: %w", ErrGenerationFailed, err)
	}
	return out, nil
}

func (r *Rewriter) RewriteBody(ctx context.Context, content string) (string, error) {
	out, err := r.gen.Generate(ctx, BodyPrompt(content))
	if err != nil {
		return "", fmt.Errorf("%w: body: %w", ErrGenerationFailed, err)
	}
	return out, nil
}

func TitlePrompt(title string) Prompt {
	return Prompt{
		Text:        fmt.Sprintf(titlePromptTemplate, title),
		MaxTokens:   titleMaxTokens,
		Temperature: temperature,
	}
}

func BodyPrompt(content string) Prompt {
	return Prompt{
		Text:        fmt.Sprintf(bodyPromptTemplate, truncate(content, maxBodyChars)),
		MaxTokens:   bodyMaxTokens,
		Temperature: temperature,
	}
}

// truncate cuts s to at most max characters, counted in runes so multi-byte
// text is never split mid-character.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}
