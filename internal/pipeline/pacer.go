package pipeline

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

const (
	DefaultPaceEvery = 10
	DefaultPaceDelay = 40 * time.Second
)

// Pacer decides whether the run must wait before starting the next item. It is
// consulted before the first item and again whenever the run's count of
// successful publishes has advanced. Pause reports whether it actually waited.
type Pacer interface {
	Pause(ctx context.Context, published int) (bool, error)
}

type SleepFunc func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// BatchPacer waits a fixed Delay after every Every successful publishes.
type BatchPacer struct {
	Every int
	Delay time.Duration
	Sleep SleepFunc
}

func NewBatchPacer(every int, delay time.Duration) *BatchPacer {
	if every <= 0 {
		every = DefaultPaceEvery
	}
	return &BatchPacer{Every: every, Delay: delay, Sleep: sleepContext}
}

func (p *BatchPacer) Pause(ctx context.Context, published int) (bool, error) {
	if published == 0 || published%p.Every != 0 || p.Delay <= 0 {
		return false, nil
	}
	if err := p.Sleep(ctx, p.Delay); err != nil {
		return false, err
	}
	return true, nil
}

// LimiterPacer spaces publishes evenly so that at most n start in any window.
// Each call reserves the slot for the item about to start; an item that fails
// leaves its slot to the next one.
type LimiterPacer struct {
	limiter *rate.Limiter
	Sleep   SleepFunc
}

func NewLimiterPacer(n int, window time.Duration) *LimiterPacer {
	if n <= 0 {
		n = DefaultPaceEvery
	}
	return &LimiterPacer{
		limiter: rate.NewLimiter(rate.Every(window/time.Duration(n)), 1),
		Sleep:   sleepContext,
	}
}

func (p *LimiterPacer) Pause(ctx context.Context, published int) (bool, error) {
	r := p.limiter.Reserve()
	delay := r.Delay()
	if delay <= 0 {
		return false, nil
	}
	if err := p.Sleep(ctx, delay); err != nil {
		r.Cancel()
		return false, err
	}
	return true, nil
}
