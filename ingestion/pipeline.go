// Package ingestion imports external documents into course templates.
// The pipeline converts the source format to HTML, extracts the main
// article content, sanitizes it, and emits ready-to-splice templates.
package ingestion

import (
	"context"
	"fmt"
	"log"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/jmcelroy/docent/conversion"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/sanitize"
)

// maxImportedTitleLength matches the ceiling applied to authored template
// titles, so imported templates survive course validation unchanged.
const maxImportedTitleLength = 100

// ImportInput is one document submitted to the importer.
type ImportInput struct {
	Bytes    []byte
	Format   models.ImportFormat
	FileName string
}

// Importer orchestrates conversion, extraction and sanitization of
// imported documents.
type Importer struct {
	converter *conversion.Converter
	processor *ContentProcessor
	sanitizer *sanitize.Sanitizer
}

func NewImporter(converter *conversion.Converter, processor *ContentProcessor, sanitizer *sanitize.Sanitizer) *Importer {
	return &Importer{converter: converter, processor: processor, sanitizer: sanitizer}
}

// Import runs the full pipeline on one document and returns the templates
// it produced. The result always contains at least one content template
// on success.
func (im *Importer) Import(ctx context.Context, input ImportInput) (*models.ImportResult, error) {
	if len(input.Bytes) == 0 {
		return nil, fmt.Errorf("import content is empty")
	}
	if !models.IsValidImportFormat(input.Format) {
		return nil, fmt.Errorf("unsupported import format: %s", input.Format)
	}

	htmlBytes, err := im.converter.ToHTML(ctx, input.Bytes, input.Format)
	if err != nil {
		return nil, fmt.Errorf("conversion to HTML failed: %w", err)
	}

	var baseURL *url.URL
	if input.FileName != "" {
		baseURL, _ = url.Parse("file://" + filepath.ToSlash(input.FileName))
	}

	result := &models.ImportResult{SourceFormat: input.Format}

	extracted, err := im.processor.Process(string(htmlBytes), baseURL)
	if err != nil {
		return nil, fmt.Errorf("content extraction failed: %w", err)
	}
	if extracted.ExtractedTitle == "" {
		result.Warnings = append(result.Warnings, "no title could be extracted from the document")
	}

	title := templateTitle(extracted.ExtractedTitle, input.FileName)
	content := im.sanitizer.HTML(extracted.MainHTML)
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("document contained no usable content after sanitization")
	}

	result.ExtractedTitle = extracted.ExtractedTitle
	result.Templates = []models.Template{{
		ID:    "imported_1",
		Type:  models.TemplateTypeContentText,
		Order: 0,
		Title: title,
		Data:  models.TemplateData{Content: content},
	}}

	log.Printf("INFO (Importer): imported %s document %q into %d template(s)",
		input.Format, input.FileName, len(result.Templates))
	return result, nil
}

// templateTitle picks a title for the imported template, preferring the
// extracted article title over the source filename.
func templateTitle(extracted, fileName string) string {
	title := strings.TrimSpace(extracted)
	if title == "" && fileName != "" {
		base := filepath.Base(fileName)
		title = strings.TrimSuffix(base, filepath.Ext(base))
	}
	if title == "" {
		title = "Imported Content"
	}
	if len(title) > maxImportedTitleLength {
		title = title[:maxImportedTitleLength]
	}
	return title
}
