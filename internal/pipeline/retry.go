package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"autopost/pkg/medium"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// RetryPolicy bounds retries of generation and publish calls. Attempts of 1
// or less disables retrying.
type RetryPolicy struct {
	Attempts int
	Backoff  time.Duration
}

func retry[T any](ctx context.Context, p RetryPolicy, sleep SleepFunc, op string, fn func() (T, error)) (T, error) {
	attempts := p.Attempts
	if attempts < 1 {
		attempts = 1
	}

	var (
		out T
		err error
	)
	for i := 1; ; i++ {
		out, err = fn()
		if err == nil || i >= attempts || ctx.Err() != nil || !retryable(err) {
			return out, err
		}

		wait := p.Backoff * time.Duration(i)
		slog.Warn("retrying after transient failure", "op", op, "attempt", i, "wait", wait, "error", err)
		if serr := sleep(ctx, wait); serr != nil {
			return out, err
		}
	}
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}

	var pubErr *medium.PublishError
	if errors.As(err, &pubErr) {
		return transientStatus(pubErr.StatusCode)
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return transientStatus(openaiErr.StatusCode)
	}
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return transientStatus(anthropicErr.StatusCode)
	}
	return true
}

func transientStatus(code int) bool {
	return code == http.StatusTooManyRequests || code >= 500
}
