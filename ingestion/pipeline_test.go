package ingestion_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jmcelroy/docent/conversion"
	"github.com/jmcelroy/docent/ingestion"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/sanitize"
)

func newImporter() *ingestion.Importer {
	return ingestion.NewImporter(conversion.NewConverter(), ingestion.NewContentProcessor(), sanitize.New())
}

func TestImportHTMLProducesContentTemplate(t *testing.T) {
	doc := `<html><head><title>Photosynthesis</title></head><body>
		<h1>Photosynthesis</h1>
		<p>Plants convert light into chemical energy. This paragraph exists to
		give the extractor a real body of text to work with, long enough that
		it is not discarded as boilerplate.</p>
		<p>Chlorophyll absorbs red and blue light while reflecting green.</p>
		<script>alert('xss')</script>
	</body></html>`

	result, err := newImporter().Import(context.Background(), ingestion.ImportInput{
		Bytes:    []byte(doc),
		Format:   models.ImportFormatHTML,
		FileName: "photosynthesis.html",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}

	if len(result.Templates) != 1 {
		t.Fatalf("Import() produced %d templates, want 1", len(result.Templates))
	}
	tpl := result.Templates[0]
	if tpl.Type != models.TemplateTypeContentText {
		t.Errorf("template type = %s, want %s", tpl.Type, models.TemplateTypeContentText)
	}
	if tpl.Order != 0 {
		t.Errorf("template order = %d, want 0", tpl.Order)
	}
	if tpl.Title == "" {
		t.Error("template title should not be empty")
	}
	if strings.TrimSpace(tpl.Data.Content) == "" {
		t.Error("template content should not be empty")
	}
	if strings.Contains(strings.ToLower(tpl.Data.Content), "<script") {
		t.Errorf("script markup survived import: %q", tpl.Data.Content)
	}
	if !strings.Contains(tpl.Data.Content, "Chlorophyll") {
		t.Errorf("article text missing from imported content: %q", tpl.Data.Content)
	}
	if result.SourceFormat != models.ImportFormatHTML {
		t.Errorf("source format = %s, want html", result.SourceFormat)
	}
}

func TestImportPlainTextWrapsContent(t *testing.T) {
	result, err := newImporter().Import(context.Background(), ingestion.ImportInput{
		Bytes:    []byte("line one\nline two with <angle brackets>"),
		Format:   models.ImportFormatTXT,
		FileName: "notes.txt",
	})
	if err != nil {
		t.Fatalf("Import() error = %v", err)
	}
	if len(result.Templates) != 1 {
		t.Fatalf("Import() produced %d templates, want 1", len(result.Templates))
	}
	content := result.Templates[0].Data.Content
	if !strings.Contains(content, "line one") {
		t.Errorf("plain text missing from content: %q", content)
	}
	if strings.Contains(content, "<angle brackets>") {
		t.Errorf("unescaped angle brackets survived: %q", content)
	}
	if result.Templates[0].Title != "notes" {
		t.Errorf("title = %q, want filename-derived %q", result.Templates[0].Title, "notes")
	}
}

func TestImportRejectsEmptyAndUnknownInput(t *testing.T) {
	im := newImporter()

	if _, err := im.Import(context.Background(), ingestion.ImportInput{
		Format: models.ImportFormatHTML,
	}); err == nil {
		t.Error("expected error for empty content")
	}

	if _, err := im.Import(context.Background(), ingestion.ImportInput{
		Bytes:  []byte("content"),
		Format: models.ImportFormat("pdf"),
	}); err == nil {
		t.Error("expected error for unsupported format")
	}
}
