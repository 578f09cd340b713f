package scorm

import "strings"

// The three emission contexts in a package (XML manifest, HTML player,
// generated JavaScript) each get their own escaping discipline. They are
// deliberately separate functions even where the rules coincide, since each
// is applied at a different kind of sink.

var xmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

var htmlReplacer = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	`"`, "&quot;",
	"'", "&#x27;",
)

var jsReplacer = strings.NewReplacer(
	`\`, `\\`,
	`"`, `\"`,
	"'", `\'`,
	"\n", `\n`,
	"\r", `\r`,
)

// EscapeXML escapes text for interpolation into manifest XML.
func EscapeXML(text string) string {
	if text == "" {
		return ""
	}
	return xmlReplacer.Replace(text)
}

// EscapeHTML escapes text for interpolation into player HTML.
func EscapeHTML(text string) string {
	if text == "" {
		return ""
	}
	return htmlReplacer.Replace(text)
}

// EscapeJSString escapes text for insertion inside a JavaScript string
// literal. Backslash runs first so later replacements are not re-escaped.
func EscapeJSString(text string) string {
	if text == "" {
		return ""
	}
	return jsReplacer.Replace(text)
}
