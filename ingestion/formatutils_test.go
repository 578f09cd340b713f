package ingestion_test

import (
	"testing"

	"github.com/jmcelroy/docent/ingestion"
	"github.com/jmcelroy/docent/models"
)

func TestDetectFormatByExtension(t *testing.T) {
	tests := []struct {
		fileName string
		want     models.ImportFormat
	}{
		{"article.html", models.ImportFormatHTML},
		{"article.HTM", models.ImportFormatHTML},
		{"notes.md", models.ImportFormatMarkdown},
		{"notes.markdown", models.ImportFormatMarkdown},
		{"readme.txt", models.ImportFormatTXT},
		{"readme.text", models.ImportFormatTXT},
		{"report.docx", models.ImportFormatDOCX},
		{"letter.rtf", models.ImportFormatRTF},
	}
	for _, tc := range tests {
		got, err := ingestion.DetectFormat(tc.fileName, []byte("irrelevant"))
		if err != nil {
			t.Errorf("DetectFormat(%q) error = %v", tc.fileName, err)
			continue
		}
		if got != tc.want {
			t.Errorf("DetectFormat(%q) = %s, want %s", tc.fileName, got, tc.want)
		}
	}
}

func TestDetectFormatBySniffing(t *testing.T) {
	html := []byte("<!DOCTYPE html><html><body><p>hi</p></body></html>")
	got, err := ingestion.DetectFormat("upload", html)
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if got != models.ImportFormatHTML {
		t.Errorf("DetectFormat(html bytes) = %s, want %s", got, models.ImportFormatHTML)
	}

	plain := []byte("just some plain text without any markup at all")
	got, err = ingestion.DetectFormat("upload", plain)
	if err != nil {
		t.Fatalf("DetectFormat() error = %v", err)
	}
	if got != models.ImportFormatTXT {
		t.Errorf("DetectFormat(plain bytes) = %s, want %s", got, models.ImportFormatTXT)
	}
}

func TestDetectFormatRejectsUnsupportedContent(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n', 0, 0, 0, 0}
	if _, err := ingestion.DetectFormat("image.png", pngHeader); err == nil {
		t.Fatal("expected error for image content")
	}
}
