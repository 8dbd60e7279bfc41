package handler

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"autopost/pkg/medium"

	"github.com/gin-gonic/gin"
)

type TokenService interface {
	BeginLogin(ctx context.Context, sessionID string) (string, string, error)
	CompleteLogin(ctx context.Context, sessionID, code, state string) (string, error)
	CurrentToken(ctx context.Context, sessionID string) (string, bool, error)
}

type AuthHandler struct {
	tokens TokenService
}

func NewAuthHandler(tokens TokenService) *AuthHandler {
	return &AuthHandler{tokens: tokens}
}

func (h *AuthHandler) Login(c *gin.Context) {
	id, err := sessionID(c)
	if err != nil {
		slog.Error("error saving session", "error", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	authURL, _, err := h.tokens.BeginLogin(c.Request.Context(), id)
	if err != nil {
		slog.Error("error starting login", "error", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	c.Redirect(http.StatusFound, authURL)
}

func (h *AuthHandler) Callback(c *gin.Context) {
	if upstreamErr := c.Query("error"); upstreamErr != "" {
		slog.Error("authorization denied", "error", upstreamErr)
		c.String(http.StatusOK, upstreamErr)
		return
	}

	sessionID := existingSessionID(c)
	if sessionID == "" {
		slog.Error("oauth callback without session")
		c.String(http.StatusOK, "Invalid state")
		return
	}

	token, err := h.tokens.CompleteLogin(c.Request.Context(), sessionID, c.Query("code"), c.Query("state"))
	if errors.Is(err, medium.ErrStateMismatch) {
		slog.Error("invalid oauth state")
		c.String(http.StatusOK, "Invalid state")
		return
	}
	if err != nil {
		slog.Error("error exchanging authorization code", "error", err)
		c.String(http.StatusBadGateway, err.Error())
		return
	}

	c.String(http.StatusOK, fmt.Sprintf("Session access token is: %s", token))
}

func (h *AuthHandler) AccessToken(c *gin.Context) {
	sessionID := existingSessionID(c)
	if sessionID == "" {
		c.String(http.StatusOK, "")
		return
	}

	token, _, err := h.tokens.CurrentToken(c.Request.Context(), sessionID)
	if err != nil {
		slog.Error("error reading session", "error", err)
		c.String(http.StatusInternalServerError, "")
		return
	}

	c.String(http.StatusOK, token)
}
