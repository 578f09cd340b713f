package ingestion

import (
	"fmt"
	"log"
	"net/url"
	"strings"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

// ExtractedContent holds the article-level result of cleaning an HTML
// document.
type ExtractedContent struct {
	MainHTML       string
	MainText       string
	ExtractedTitle string
}

// ContentProcessor cleans imported HTML and pulls out the main article
// body, dropping navigation, boilerplate and unsafe markup.
type ContentProcessor struct {
	htmlPolicy      *bluemonday.Policy
	stripTagsPolicy *bluemonday.Policy
}

func NewContentProcessor() *ContentProcessor {
	return &ContentProcessor{
		htmlPolicy:      bluemonday.UGCPolicy(),
		stripTagsPolicy: bluemonday.StripTagsPolicy(),
	}
}

// Process cleans rawHTML and extracts the main article content. baseURL
// lets readability resolve relative links; a file:// placeholder is fine.
// When extraction fails the cleaned document is returned whole rather
// than losing the import.
func (cp *ContentProcessor) Process(rawHTML string, baseURL *url.URL) (*ExtractedContent, error) {
	if rawHTML == "" {
		return nil, fmt.Errorf("raw HTML content is empty")
	}

	cleanedHTML := cp.htmlPolicy.Sanitize(rawHTML)

	article, err := readability.FromReader(strings.NewReader(cleanedHTML), baseURL)

	result := &ExtractedContent{}
	if err == nil && article.Content != "" {
		result.MainHTML = article.Content
		result.MainText = article.TextContent
		result.ExtractedTitle = article.Title
	} else {
		if err != nil {
			log.Printf("WARN (ContentProcessor): readability extraction failed: %v, using cleaned HTML", err)
		}
		result.MainHTML = cleanedHTML
		result.MainText = cp.stripTagsPolicy.Sanitize(cleanedHTML)
	}

	if result.MainHTML == "" {
		return nil, fmt.Errorf("document contained no usable content after cleaning")
	}
	return result, nil
}
