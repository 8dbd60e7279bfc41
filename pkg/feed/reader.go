package feed

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"autopost/internal/model"

	"github.com/mmcdole/gofeed"
)

const userAgent = "autopost/1.0 (+feed reader)"

var (
	ErrFeedUnreachable = errors.New("feed unreachable")
	ErrFeedParse       = errors.New("feed parse error")
)

type Reader struct {
	httpClient *http.Client
	parser     *gofeed.Parser
}

func NewReader(timeout time.Duration) *Reader {
	return &Reader{
		httpClient: &http.Client{Timeout: timeout},
		parser:     gofeed.NewParser(),
	}
}

// Fetch downloads and parses one RSS or Atom feed. Items keep document order.
func (r *Reader) Fetch(ctx context.Context, url model.FeedSource) ([]model.FeedItem, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, string(url), nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFeedUnreachable, url, err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := r.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFeedUnreachable, url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		io.Copy(io.Discard, resp.Body)
		return nil, fmt.Errorf("%w: %s: status %d", ErrFeedUnreachable, url, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: read body: %v", ErrFeedUnreachable, url, err)
	}

	parsed, err := r.parser.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrFeedParse, url, err)
	}

	items := make([]model.FeedItem, 0, len(parsed.Items))
	for _, entry := range parsed.Items {
		if entry == nil {
			continue
		}
		items = append(items, model.FeedItem{
			Title:   strings.TrimSpace(entry.Title),
			Content: pickContent(entry),
			Link:    entry.Link,
			Feed:    url,
		})
	}

	return items, nil
}

func pickContent(entry *gofeed.Item) string {
	if entry.Content != "" {
		return entry.Content
	}
	return entry.Description
}
