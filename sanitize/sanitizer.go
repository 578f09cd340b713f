// Package sanitize cleans authored course content before it is embedded in
// an exported package. HTML-looking strings pass through a bluemonday
// allow-list policy; plain text is entity-escaped after stripping script
// fragments. Sanitization is total: it never returns an error, and any leaf
// it cannot process degrades to a marker value instead of aborting.
package sanitize

import (
	"fmt"
	"html"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/jmcelroy/docent/models"
)

var (
	scriptBlockPattern = regexp.MustCompile(`(?is)<script[^>]*>.*?</script>`)
	eventAttrPattern   = regexp.MustCompile(`(?i)on\w+\s*=`)
	scriptSchemePattern = regexp.MustCompile(`(?i)(javascript|vbscript|data):`)

	// htmlIndicators is the tag-opener list used to decide whether a string
	// should be treated as markup or as plain text.
	htmlIndicators = []string{
		"<p>", "<br", "<div", "<span", "<strong", "<em",
		"<h1", "<h2", "<h3", "<ul", "<ol", "<li",
	}
)

// Sanitizer applies the content policy. Safe for concurrent use; bluemonday
// policies are immutable once built.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// New builds a sanitizer with the export content policy: basic formatting,
// headings, lists, tables, images and links, with a tight per-tag attribute
// allow-list and http/https/mailto URLs only.
func New() *Sanitizer {
	p := bluemonday.NewPolicy()
	p.AllowElements(
		"p", "br", "strong", "b", "em", "i", "u",
		"h1", "h2", "h3", "h4", "h5", "h6",
		"ul", "ol", "li", "blockquote", "code", "pre",
		"span", "div", "table", "thead", "tbody", "tr", "th", "td",
		"img", "a", "hr",
	)
	p.AllowAttrs("src", "alt", "title", "width", "height").OnElements("img")
	p.AllowAttrs("href", "title").OnElements("a")
	p.AllowAttrs("class", "style").OnElements("span", "div")
	p.AllowAttrs("colspan", "rowspan").OnElements("th", "td")
	p.AllowAttrs("border", "cellpadding", "cellspacing").OnElements("table")
	p.AllowStandardURLs()
	return &Sanitizer{policy: p}
}

// LooksLikeHTML reports whether the string appears to contain markup worth
// running through the HTML policy rather than escaping outright.
func LooksLikeHTML(text string) bool {
	if text == "" {
		return false
	}
	lower := strings.ToLower(strings.TrimSpace(text))
	for _, indicator := range htmlIndicators {
		if strings.Contains(lower, indicator) {
			return true
		}
	}
	return false
}

// Text sanitizes a plain string for display: script blocks and inline event
// handler fragments are removed, then the remainder is entity-escaped.
func (s *Sanitizer) Text(text string) string {
	if text == "" {
		return ""
	}
	text = scriptBlockPattern.ReplaceAllString(text, "")
	text = eventAttrPattern.ReplaceAllString(text, "")
	return html.EscapeString(text)
}

// HTML sanitizes markup through the allow-list policy, then strips any
// surviving script-scheme fragments from the output.
func (s *Sanitizer) HTML(content string) string {
	if content == "" {
		return ""
	}
	out := s.policy.Sanitize(content)
	return scriptSchemePattern.ReplaceAllString(out, "")
}

// String routes a string through the HTML policy or the plain-text escape
// depending on what it looks like.
func (s *Sanitizer) String(text string) string {
	if LooksLikeHTML(text) {
		return s.HTML(text)
	}
	return s.Text(text)
}

// Value recursively sanitizes a decoded JSON value. Booleans and numbers
// pass through bit for bit, strings are routed by content, and containers
// are walked. A "questions" key holding an array takes the quiz branch so
// correctness flags survive as native booleans. Unknown leaf types degrade
// to a {"value": ...} marker rather than failing.
func (s *Sanitizer) Value(v any) any {
	switch val := v.(type) {
	case nil:
		return nil
	case bool:
		return val
	case float64:
		return val
	case string:
		return s.String(val)
	case []any:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = s.Value(item)
		}
		return out
	case map[string]any:
		out := make(map[string]any, len(val))
		for k, item := range val {
			if k == "questions" {
				if qs, ok := item.([]any); ok {
					out[k] = s.Questions(qs)
					continue
				}
			}
			out[k] = s.Value(item)
		}
		return out
	default:
		return map[string]any{"value": fmt.Sprint(val)}
	}
}

// Questions sanitizes a quiz question list. Question and option text fields
// run through the string policy while isCorrect is coerced to a native
// boolean whatever representation the author used.
func (s *Sanitizer) Questions(questions []any) []any {
	out := make([]any, len(questions))
	for i, raw := range questions {
		q, ok := raw.(map[string]any)
		if !ok {
			out[i] = s.Value(raw)
			continue
		}
		sq := make(map[string]any, len(q))
		for k, v := range q {
			if k == "options" {
				if opts, ok := v.([]any); ok {
					sq[k] = s.options(opts)
					continue
				}
			}
			sq[k] = s.Value(v)
		}
		out[i] = sq
	}
	return out
}

func (s *Sanitizer) options(options []any) []any {
	out := make([]any, len(options))
	for i, raw := range options {
		opt, ok := raw.(map[string]any)
		if !ok {
			out[i] = s.Value(raw)
			continue
		}
		so := make(map[string]any, len(opt))
		for k, v := range opt {
			if k == "isCorrect" {
				so[k] = models.CoerceBool(v)
				continue
			}
			so[k] = s.Value(v)
		}
		out[i] = so
	}
	return out
}
