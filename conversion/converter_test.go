package conversion_test

import (
	"context"
	"strings"
	"testing"

	"github.com/jmcelroy/docent/conversion"
	"github.com/jmcelroy/docent/models"
)

func TestToHTMLPassesHTMLThrough(t *testing.T) {
	c := conversion.NewConverter()
	in := []byte("<p>already html</p>")

	out, err := c.ToHTML(context.Background(), in, models.ImportFormatHTML)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	if string(out) != string(in) {
		t.Errorf("HTML input should pass through unchanged, got %q", out)
	}
}

func TestToHTMLWrapsAndEscapesPlainText(t *testing.T) {
	c := conversion.NewConverter()

	out, err := c.ToHTML(context.Background(), []byte("a < b && c > d"), models.ImportFormatTXT)
	if err != nil {
		t.Fatalf("ToHTML() error = %v", err)
	}
	s := string(out)
	if !strings.HasPrefix(s, "<pre>") || !strings.HasSuffix(s, "</pre>") {
		t.Errorf("plain text should be wrapped in <pre>, got %q", s)
	}
	if strings.Contains(s, "a < b") {
		t.Errorf("angle brackets should be escaped, got %q", s)
	}
	if !strings.Contains(s, "a &lt; b") {
		t.Errorf("expected escaped content, got %q", s)
	}
}

func TestToHTMLRejectsUnknownFormat(t *testing.T) {
	c := conversion.NewConverter()
	if _, err := c.ToHTML(context.Background(), []byte("x"), models.ImportFormat("pdf")); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
