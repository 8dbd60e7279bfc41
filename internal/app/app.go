package app

import (
	"log/slog"

	"autopost/internal/config"
	"autopost/internal/pipeline"
	"autopost/pkg/feed"
	"autopost/pkg/llm"
	"autopost/pkg/medium"
)

func NewGenerator(cfg *config.Config) llm.Generator {
	if cfg.LLMProvider == config.ProviderAnthropic {
		return llm.NewAnthropicClient(cfg.AnthropicAPIKey, cfg.AnthropicModel, cfg.LLMTimeout)
	}
	return llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIModel, cfg.LLMTimeout)
}

func NewPacer(cfg *config.Config) pipeline.Pacer {
	if cfg.Pacing == config.PacingLimiter {
		return pipeline.NewLimiterPacer(cfg.PaceEvery, cfg.PaceDelay)
	}
	return pipeline.NewBatchPacer(cfg.PaceEvery, cfg.PaceDelay)
}

func NewOrchestrator(cfg *config.Config) *pipeline.Orchestrator {
	gen := NewGenerator(cfg)
	slog.Info("text generator configured", "generator", gen.Name())

	return pipeline.New(
		feed.NewReader(cfg.FeedTimeout),
		llm.NewRewriter(gen),
		medium.NewPublisher(cfg.MediumAPIURL, cfg.MediumUserID, cfg.PublishTimeout),
		pipeline.Options{
			Feeds: cfg.Feeds,
			Tags:  cfg.MediumTags,
			Pacer: NewPacer(cfg),
			Retry: pipeline.RetryPolicy{Attempts: cfg.RetryCount, Backoff: cfg.RetryDelay},
		},
	)
}
