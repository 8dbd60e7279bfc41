package model

const (
	ContentFormatHTML  = "html"
	PublishStatusDraft = "draft"
)

type FeedSource string

type FeedItem struct {
	Title   string
	Content string
	Link    string
	Feed    FeedSource
}

type RewrittenArticle struct {
	Title         string
	Content       string
	ContentFormat string
	Tags          []string
	PublishStatus string
	Source        FeedItem
}

// NewRewrittenArticle builds the draft for one feed item once both the title
// and body generations have returned.
func NewRewrittenArticle(source FeedItem, title, content string, tags []string) RewrittenArticle {
	return RewrittenArticle{
		Title:         title,
		Content:       content,
		ContentFormat: ContentFormatHTML,
		Tags:          append([]string(nil), tags...),
		PublishStatus: PublishStatusDraft,
		Source:        source,
	}
}
