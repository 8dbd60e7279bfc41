package feed

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"autopost/internal/model"

	"github.com/go-playground/assert/v2"
)

const rssPayload = `<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:content="http://purl.org/rss/1.0/modules/content/">
  <channel>
    <title>Chain Weekly</title>
    <link>https://example.com</link>
    <description>News</description>
    <item>
      <title>Third post</title>
      <link>https://example.com/3</link>
      <description>short three</description>
      <content:encoded><![CDATA[<p>full three</p>]]></content:encoded>
    </item>
    <item>
      <title>Second post</title>
      <link>https://example.com/2</link>
      <description>short two</description>
    </item>
    <item>
      <title>First post</title>
      <link>https://example.com/1</link>
      <description>short one</description>
    </item>
  </channel>
</rss>`

const atomPayload = `<?xml version="1.0" encoding="utf-8"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <title>Atom Blog</title>
  <entry>
    <title>Atom entry</title>
    <link href="https://example.com/atom/1"/>
    <id>urn:1</id>
    <updated>2026-01-01T00:00:00Z</updated>
    <content type="html">&lt;p&gt;atom body&lt;/p&gt;</content>
  </entry>
</feed>`

func newFeedServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(status)
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func TestFetch_PreservesFeedOrder(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, rssPayload)
	reader := NewReader(5 * time.Second)

	items, err := reader.Fetch(context.Background(), model.FeedSource(srv.URL))

	assert.Equal(t, nil, err)
	assert.Equal(t, 3, len(items))
	assert.Equal(t, "Third post", items[0].Title)
	assert.Equal(t, "Second post", items[1].Title)
	assert.Equal(t, "First post", items[2].Title)
	assert.Equal(t, model.FeedSource(srv.URL), items[1].Feed)
}

func TestFetch_PrefersEncodedContent(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, rssPayload)
	reader := NewReader(5 * time.Second)

	items, err := reader.Fetch(context.Background(), model.FeedSource(srv.URL))

	assert.Equal(t, nil, err)
	assert.Equal(t, "<p>full three</p>", items[0].Content)
	assert.Equal(t, "short two", items[1].Content)
}

func TestFetch_Atom(t *testing.T) {
	srv := newFeedServer(t, http.StatusOK, atomPayload)
	reader := NewReader(5 * time.Second)

	items, err := reader.Fetch(context.Background(), model.FeedSource(srv.URL))

	assert.Equal(t, nil, err)
	assert.Equal(t, 1, len(items))
	assert.Equal(t, "Atom entry", items[0].Title)
	assert.Equal(t, "<p>atom body</p>", items[0].Content)
}

func TestFetch_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   error
	}{
		{name: "server error", status: http.StatusInternalServerError, body: "boom", want: ErrFeedUnreachable},
		{name: "not found", status: http.StatusNotFound, body: "", want: ErrFeedUnreachable},
		{name: "malformed body", status: http.StatusOK, body: "this is not a feed", want: ErrFeedParse},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := newFeedServer(t, tt.status, tt.body)
			reader := NewReader(5 * time.Second)

			items, err := reader.Fetch(context.Background(), model.FeedSource(srv.URL))

			assert.Equal(t, 0, len(items))
			assert.Equal(t, true, errors.Is(err, tt.want))
		})
	}
}

func TestFetch_Unreachable(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	reader := NewReader(time.Second)
	_, err := reader.Fetch(context.Background(), model.FeedSource(url))

	assert.Equal(t, true, errors.Is(err, ErrFeedUnreachable))
}

func TestFetch_StalledBodyIsUnreachable(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`<?xml version="1.0"?><rss version="2.0"><channel><title>Slow</title>`))
		w.(http.Flusher).Flush()

		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer srv.Close()

	reader := NewReader(200 * time.Millisecond)
	_, err := reader.Fetch(context.Background(), model.FeedSource(srv.URL))

	assert.Equal(t, true, errors.Is(err, ErrFeedUnreachable))
	assert.Equal(t, false, errors.Is(err, ErrFeedParse))
}
