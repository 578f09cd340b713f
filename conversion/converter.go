// Package conversion turns imported documents into HTML via pandoc.
// Formats that are already HTML, or close enough to wrap directly, skip
// the external process entirely.
package conversion

import (
	"bytes"
	"context"
	"fmt"
	"html"
	"io"
	"log"
	"os/exec"
	"time"

	"github.com/jmcelroy/docent/models"
)

const pandocTimeout = 30 * time.Second

// Converter converts import documents to HTML. A missing pandoc binary is
// tolerated at construction so HTML and plain-text imports keep working;
// pandoc-dependent formats then fail per call.
type Converter struct {
	pandocPath string
	timeout    time.Duration
}

// NewConverter creates a Converter, locating pandoc if present.
func NewConverter() *Converter {
	path, err := exec.LookPath("pandoc")
	if err != nil {
		log.Printf("WARN (Converter): pandoc not found in PATH; markdown, docx and rtf imports will be rejected")
	} else {
		log.Printf("INFO (Converter): using pandoc at %s", path)
	}
	return &Converter{pandocPath: path, timeout: pandocTimeout}
}

// ToHTML converts content in the given format to HTML. HTML input passes
// through untouched; plain text is escaped and wrapped so whitespace
// survives; everything else goes through pandoc.
func (c *Converter) ToHTML(ctx context.Context, content []byte, format models.ImportFormat) ([]byte, error) {
	switch format {
	case models.ImportFormatHTML:
		return content, nil
	case models.ImportFormatTXT:
		return []byte("<pre>" + html.EscapeString(string(content)) + "</pre>"), nil
	case models.ImportFormatMarkdown:
		return c.runPandoc(ctx, "markdown", content)
	case models.ImportFormatDOCX:
		return c.runPandoc(ctx, "docx", content)
	case models.ImportFormatRTF:
		return c.runPandoc(ctx, "rtf", content)
	default:
		return nil, fmt.Errorf("unsupported import format: %s", format)
	}
}

// runPandoc shells out to pandoc, feeding content on stdin and reading
// HTML from stdout.
func (c *Converter) runPandoc(ctx context.Context, fromFormat string, input []byte) ([]byte, error) {
	if c.pandocPath == "" {
		return nil, fmt.Errorf("pandoc is required to convert %s but was not found", fromFormat)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, c.pandocPath, "-f", fromFormat, "-t", "html")

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	stdin, err := cmd.StdinPipe()
	if err != nil {
		return nil, fmt.Errorf("failed to create pandoc stdin pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return nil, fmt.Errorf("failed to start pandoc: %w", err)
	}

	go func() {
		defer stdin.Close()
		if _, err := io.Copy(stdin, bytes.NewReader(input)); err != nil {
			log.Printf("ERROR (Converter): failed writing to pandoc stdin: %v", err)
		}
	}()

	if err := cmd.Wait(); err != nil {
		if ctx.Err() == context.DeadlineExceeded {
			return nil, fmt.Errorf("pandoc timed out after %v converting %s: %w", c.timeout, fromFormat, ctx.Err())
		}
		return nil, fmt.Errorf("pandoc failed converting %s: %w (stderr: %s)", fromFormat, err, stderr.String())
	}

	if msg := stderr.String(); msg != "" {
		log.Printf("WARN (Converter): pandoc stderr during %s conversion: %s", fromFormat, msg)
	}
	return stdout.Bytes(), nil
}
