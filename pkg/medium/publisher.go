package medium

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"autopost/internal/model"
)

var ErrPublish = errors.New("publish failed")

// PublishError carries the platform's response when a post is rejected.
type PublishError struct {
	StatusCode int
	Body       string
}

func (e *PublishError) Error() string {
	return fmt.Sprintf("medium returned %d: %s", e.StatusCode, e.Body)
}

func (e *PublishError) Is(target error) bool {
	return target == ErrPublish
}

type Publisher struct {
	baseURL    string
	userID     string
	httpClient *http.Client
}

func NewPublisher(baseURL, userID string, timeout time.Duration) *Publisher {
	if baseURL == "" {
		baseURL = DefaultAPIURL
	}
	return &Publisher{
		baseURL:    baseURL,
		userID:     userID,
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (p *Publisher) PublishDraft(ctx context.Context, token string, article model.RewrittenArticle) (string, error) {
	payload, err := json.Marshal(postRequest{
		Title:         article.Title,
		ContentFormat: article.ContentFormat,
		Content:       article.Content,
		Tags:          article.Tags,
		PublishStatus: article.PublishStatus,
	})
	if err != nil {
		return "", fmt.Errorf("encode post: %w", err)
	}

	endpoint := fmt.Sprintf("%s/users/%s/posts", p.baseURL, url.PathEscape(p.userID))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(payload))
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrPublish, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("%w: read response: %v", ErrPublish, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", &PublishError{StatusCode: resp.StatusCode, Body: string(body)}
	}

	var created postResponse
	if err := json.Unmarshal(body, &created); err != nil {
		return "", fmt.Errorf("%w: decode response: %v", ErrPublish, err)
	}

	return created.Data.ID, nil
}

type postRequest struct {
	Title         string   `json:"title"`
	ContentFormat string   `json:"contentFormat"`
	Content       string   `json:"content"`
	Tags          []string `json:"tags"`
	PublishStatus string   `json:"publishStatus"`
}

type postResponse struct {
	Data struct {
		ID  string `json:"id"`
		URL string `json:"url"`
	} `json:"data"`
}
