package llm

const (
	titlePromptTemplate = "Generate a title for this article: %s"
	bodyPromptTemplate  = "Create a full 8 paragraphs SEO friendly content about this using html syntax for <p> and </p> new lines without text formatted, use html bold syntax for repeated words: %s"

	titleMaxTokens = 25
	bodyMaxTokens  = 2048
	temperature    = 0.8

	// Upstream prompt size limit for the source article body.
	maxBodyChars = 700
)
