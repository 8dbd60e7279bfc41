package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"autopost/internal/metrics"
	"autopost/internal/model"
)

var (
	ErrNoToken       = errors.New("no access token, complete /login first")
	ErrRunInProgress = errors.New("a pipeline run is already in progress")
)

type FeedReader interface {
	Fetch(ctx context.Context, url model.FeedSource) ([]model.FeedItem, error)
}

type Rewriter interface {
	RewriteTitle(ctx context.Context, title string) (string, error)
	RewriteBody(ctx context.Context, content string) (string, error)
}

type Publisher interface {
	PublishDraft(ctx context.Context, token string, article model.RewrittenArticle) (string, error)
}

type Options struct {
	Feeds []model.FeedSource
	Tags  []string
	Pacer Pacer
	Retry RetryPolicy
	// Sleep is used for retry backoff.
	Sleep SleepFunc
}

// Orchestrator drives one feed-to-draft pass at a time.
type Orchestrator struct {
	reader    FeedReader
	rewriter  Rewriter
	publisher Publisher
	opts      Options

	running atomic.Bool

	mu   sync.Mutex
	last *model.RunReport

	now func() time.Time
}

func New(reader FeedReader, rewriter Rewriter, publisher Publisher, opts Options) *Orchestrator {
	if opts.Pacer == nil {
		opts.Pacer = NewBatchPacer(DefaultPaceEvery, DefaultPaceDelay)
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepContext
	}
	return &Orchestrator{
		reader:    reader,
		rewriter:  rewriter,
		publisher: publisher,
		opts:      opts,
		now:       time.Now,
	}
}

func (o *Orchestrator) Running() bool {
	return o.running.Load()
}

func (o *Orchestrator) LastReport() (model.RunReport, bool) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.last == nil {
		return model.RunReport{}, false
	}
	return *o.last, true
}

// Run processes every configured feed in order, publishing each rewritten item
// as a draft under token. Per-feed and per-item failures are recorded in the
// report and do not stop the run. Only one Run may be active at a time.
func (o *Orchestrator) Run(ctx context.Context, token string) (*model.RunReport, error) {
	if !o.running.CompareAndSwap(false, true) {
		return nil, ErrRunInProgress
	}
	defer o.running.Store(false)

	report := &model.RunReport{
		State:     model.StateRunning,
		StartedAt: o.now(),
	}

	if token == "" {
		return o.finish(report, ErrNoToken)
	}

	slog.Info("pipeline run started", "feeds", len(o.opts.Feeds))

	// -1 so the pacer also sees the run's first item.
	pacedAt := -1
	for _, feed := range o.opts.Feeds {
		items, err := o.reader.Fetch(ctx, feed)
		if err != nil {
			slog.Error("error fetching feed", "feed", feed, "error", err)
			metrics.FeedsFailed.WithLabelValues(string(feed)).Inc()
			report.Feeds = append(report.Feeds, model.FeedOutcome{Feed: feed, Error: err.Error()})
			continue
		}
		report.Feeds = append(report.Feeds, model.FeedOutcome{Feed: feed, Items: len(items)})

		for _, item := range items {
			if err := ctx.Err(); err != nil {
				return o.finish(report, err)
			}

			if report.Published > pacedAt {
				pacedAt = report.Published
				paused, err := o.opts.Pacer.Pause(ctx, report.Published)
				if err != nil {
					return o.finish(report, err)
				}
				if paused {
					report.Pauses++
					metrics.PacingPauses.Inc()
				}
			}

			outcome := o.processItem(ctx, token, item)
			report.Items = append(report.Items, outcome)

			if outcome.OK() {
				report.Published++
				metrics.ItemsPublished.WithLabelValues(string(feed)).Inc()
			} else {
				report.Failed++
				metrics.ItemsFailed.WithLabelValues(outcome.Stage).Inc()
			}
		}
	}

	return o.finish(report, nil)
}

func (o *Orchestrator) processItem(ctx context.Context, token string, item model.FeedItem) model.ItemOutcome {
	outcome := model.ItemOutcome{Feed: item.Feed, Title: item.Title}

	fail := func(stage string, err error) model.ItemOutcome {
		slog.Error("error processing article", "feed", item.Feed, "title", item.Title, "stage", stage, "error", err)
		outcome.Stage = stage
		outcome.Error = err.Error()
		return outcome
	}

	title, err := retry(ctx, o.opts.Retry, o.opts.Sleep, model.StageRewriteTitle, func() (string, error) {
		return o.rewriter.RewriteTitle(ctx, item.Title)
	})
	if err != nil {
		return fail(model.StageRewriteTitle, err)
	}

	body, err := retry(ctx, o.opts.Retry, o.opts.Sleep, model.StageRewriteBody, func() (string, error) {
		return o.rewriter.RewriteBody(ctx, item.Content)
	})
	if err != nil {
		return fail(model.StageRewriteBody, err)
	}

	article := model.NewRewrittenArticle(item, title, body, o.opts.Tags)

	postID, err := retry(ctx, o.opts.Retry, o.opts.Sleep, model.StagePublish, func() (string, error) {
		return o.publisher.PublishDraft(ctx, token, article)
	})
	if err != nil {
		return fail(model.StagePublish, err)
	}

	slog.Info("article published as draft", "feed", item.Feed, "title", title, "post_id", postID)

	outcome.Stage = model.StagePublish
	outcome.PostID = postID
	return outcome
}

func (o *Orchestrator) finish(report *model.RunReport, err error) (*model.RunReport, error) {
	report.FinishedAt = o.now()
	if err != nil {
		report.State = model.StateFailed
		report.Error = err.Error()
	} else {
		report.State = model.StateCompleted
	}

	metrics.RunsTotal.WithLabelValues(string(report.State)).Inc()
	metrics.RunDuration.Observe(report.FinishedAt.Sub(report.StartedAt).Seconds())

	slog.Info("pipeline run finished",
		"state", report.State,
		"published", report.Published,
		"failed", report.Failed,
		"pauses", report.Pauses,
	)

	snapshot := *report
	o.mu.Lock()
	o.last = &snapshot
	o.mu.Unlock()

	if err != nil {
		return report, fmt.Errorf("pipeline run failed: %w", err)
	}
	return report, nil
}
