package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"autopost/internal/model"
	"autopost/internal/pipeline"

	"github.com/gin-gonic/gin"
)

const feedsSentMessage = "Feeds sent to Medium"

type PipelineRunner interface {
	Run(ctx context.Context, token string) (*model.RunReport, error)
	LastReport() (model.RunReport, bool)
	Running() bool
}

type PipelineHandler struct {
	runner PipelineRunner
	tokens TokenService
}

func NewPipelineHandler(runner PipelineRunner, tokens TokenService) *PipelineHandler {
	return &PipelineHandler{runner: runner, tokens: tokens}
}

func (h *PipelineHandler) UpdateFeeds(c *gin.Context) {
	if h.runner.Running() {
		c.String(http.StatusConflict, pipeline.ErrRunInProgress.Error())
		return
	}

	var token string
	if sessionID := existingSessionID(c); sessionID != "" {
		t, _, err := h.tokens.CurrentToken(c.Request.Context(), sessionID)
		if err != nil {
			slog.Error("error reading session", "error", err)
			c.String(http.StatusOK, err.Error())
			return
		}
		token = t
	}

	// A dropped client connection must not abort a run that is publishing.
	ctx := context.WithoutCancel(c.Request.Context())

	report, err := h.runner.Run(ctx, token)
	if errors.Is(err, pipeline.ErrRunInProgress) {
		c.String(http.StatusConflict, err.Error())
		return
	}
	if err != nil {
		slog.Error("pipeline run failed", "error", err)
		c.String(http.StatusOK, err.Error())
		return
	}

	slog.Info("feeds sent", "published", report.Published, "failed", report.Failed)
	c.String(http.StatusOK, feedsSentMessage)
}

func (h *PipelineHandler) LastRun(c *gin.Context) {
	report, ok := h.runner.LastReport()
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "No run yet"})
		return
	}
	c.JSON(http.StatusOK, report)
}

func (h *PipelineHandler) GetHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"running": h.runner.Running(),
	})
}

func Liveness(c *gin.Context) {
	c.String(http.StatusOK, "OK")
}
