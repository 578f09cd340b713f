package models

// ImportFormat identifies the source format of a document submitted to
// the content importer.
type ImportFormat string

const (
	ImportFormatHTML     ImportFormat = "html"
	ImportFormatMarkdown ImportFormat = "markdown"
	ImportFormatTXT      ImportFormat = "txt"
	ImportFormatDOCX     ImportFormat = "docx"
	ImportFormatRTF      ImportFormat = "rtf"
)

// IsValidImportFormat reports whether f names a supported import format.
func IsValidImportFormat(f ImportFormat) bool {
	switch f {
	case ImportFormatHTML, ImportFormatMarkdown, ImportFormatTXT, ImportFormatDOCX, ImportFormatRTF:
		return true
	}
	return false
}

// ImportResult is the response body of a content import call. The
// produced templates are ready to splice into a course document.
type ImportResult struct {
	Templates      []Template   `json:"templates"`
	ExtractedTitle string       `json:"extractedTitle,omitempty"`
	SourceFormat   ImportFormat `json:"sourceFormat"`
	Warnings       []string     `json:"warnings,omitempty"`
}
