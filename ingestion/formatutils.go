package ingestion

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/gabriel-vasile/mimetype"

	"github.com/jmcelroy/docent/models"
)

// extensionFormats maps well-known file extensions to import formats.
// Extensions win over content sniffing because markdown and plain text
// are indistinguishable at the byte level.
var extensionFormats = map[string]models.ImportFormat{
	".html":     models.ImportFormatHTML,
	".htm":      models.ImportFormatHTML,
	".md":       models.ImportFormatMarkdown,
	".markdown": models.ImportFormatMarkdown,
	".txt":      models.ImportFormatTXT,
	".text":     models.ImportFormatTXT,
	".docx":     models.ImportFormatDOCX,
	".rtf":      models.ImportFormatRTF,
}

// DetectFormat resolves the import format of an uploaded document from
// its filename extension, falling back to MIME sniffing of the content.
func DetectFormat(fileName string, content []byte) (models.ImportFormat, error) {
	if ext := strings.ToLower(filepath.Ext(fileName)); ext != "" {
		if format, ok := extensionFormats[ext]; ok {
			return format, nil
		}
	}

	mtype := mimetype.Detect(content)
	switch {
	case mtype.Is("text/html"):
		return models.ImportFormatHTML, nil
	case mtype.Is("application/vnd.openxmlformats-officedocument.wordprocessingml.document"):
		return models.ImportFormatDOCX, nil
	case mtype.Is("application/rtf"), mtype.Is("text/rtf"):
		return models.ImportFormatRTF, nil
	case mtype.Is("text/plain"):
		return models.ImportFormatTXT, nil
	}

	return "", fmt.Errorf("unsupported document type %q (file %q)", mtype.String(), fileName)
}
