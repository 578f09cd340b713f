// Package ebook renders a course as an EPUB handout, one chapter per
// slide. The handout is a review artifact, so quiz answers are printed
// rather than interactive.
package ebook

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"log"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"

	epub "github.com/go-shiori/go-epub"

	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/sanitize"
)

var imgSrcRegex = regexp.MustCompile(`<img([^>]*)\ssrc=["']([^"']+)["']([^>]*)>`)

// CourseGenerator builds EPUB handouts from validated courses.
type CourseGenerator struct {
	sanitizer *sanitize.Sanitizer
}

func NewCourseGenerator(sanitizer *sanitize.Sanitizer) *CourseGenerator {
	log.Println("INFO (CourseEbook): using go-epub for EPUB generation")
	return &CourseGenerator{sanitizer: sanitizer}
}

// Generate renders the course as EPUB bytes. Remote images referenced in
// slide content are downloaded and embedded; grayscale conversion is
// applied unless colorImages is set.
func (g *CourseGenerator) Generate(ctx context.Context, course *models.Course, colorImages bool) ([]byte, error) {
	if course == nil {
		return nil, fmt.Errorf("course cannot be nil")
	}

	start := time.Now()

	title := strings.TrimSpace(course.Title)
	if title == "" {
		title = course.CourseID
	}

	e, err := epub.NewEpub(title)
	if err != nil {
		return nil, fmt.Errorf("failed to create epub: %w", err)
	}
	e.SetAuthor(course.Author)
	if course.Language != "" {
		e.SetLang(course.Language)
	} else {
		e.SetLang("en")
	}
	if course.Description != "" {
		e.SetDescription(course.Description)
	}

	for _, t := range course.OrderedTemplates() {
		body := g.chapterHTML(&t)
		body = embedImages(e, body, colorImages)
		if _, err := e.AddSection(body, g.sanitizer.Text(t.Title), "", ""); err != nil {
			return nil, fmt.Errorf("failed to add chapter %q: %w", t.Title, err)
		}
	}

	var buf bytes.Buffer
	if _, err := e.WriteTo(&buf); err != nil {
		return nil, fmt.Errorf("failed to write epub: %w", err)
	}

	log.Printf("INFO (CourseEbook): generated EPUB for course %s (%d chapters, %d bytes, took %s)",
		course.CourseID, len(course.Templates), buf.Len(), time.Since(start))
	return buf.Bytes(), nil
}

// chapterHTML renders one slide as chapter markup.
func (g *CourseGenerator) chapterHTML(t *models.Template) string {
	var b strings.Builder
	fmt.Fprintf(&b, "<h1>%s</h1>\n", g.sanitizer.Text(t.Title))

	if subtitle := strings.TrimSpace(t.Data.Subtitle); subtitle != "" {
		fmt.Fprintf(&b, "<h2>%s</h2>\n", g.sanitizer.Text(subtitle))
	}

	switch t.Type {
	case models.TemplateTypeMCQ:
		g.writeQuiz(&b, t)
	case models.TemplateTypeContentVideo:
		if videoURL := strings.TrimSpace(t.Data.VideoURL); videoURL != "" {
			fmt.Fprintf(&b, "<p>Video: <a href=\"%s\">%s</a></p>\n",
				g.sanitizer.Text(videoURL), g.sanitizer.Text(videoURL))
		}
		b.WriteString(g.sanitizer.String(t.Data.Content))
	default:
		b.WriteString(g.sanitizer.String(t.Data.Content))
	}
	return b.String()
}

// writeQuiz prints questions with their answers marked, handout style.
func (g *CourseGenerator) writeQuiz(b *strings.Builder, t *models.Template) {
	if content := strings.TrimSpace(t.Data.Content); content != "" {
		b.WriteString(g.sanitizer.String(content))
		b.WriteString("\n")
	}
	b.WriteString("<ol>\n")
	for _, q := range t.Data.Questions {
		fmt.Fprintf(b, "<li><p>%s</p>\n<ul>\n", g.sanitizer.Text(q.Question))
		for _, opt := range q.Options {
			if bool(opt.IsCorrect) {
				fmt.Fprintf(b, "<li><strong>%s</strong> (correct)</li>\n", g.sanitizer.Text(opt.Text))
			} else {
				fmt.Fprintf(b, "<li>%s</li>\n", g.sanitizer.Text(opt.Text))
			}
		}
		b.WriteString("</ul></li>\n")
	}
	b.WriteString("</ol>\n")
}

// embedImages finds <img> tags with external URLs, downloads and embeds
// them in the EPUB, optionally converting to grayscale.
func embedImages(e *epub.Epub, html string, colorImages bool) string {
	imageCount := 0

	result := imgSrcRegex.ReplaceAllStringFunc(html, func(match string) string {
		submatches := imgSrcRegex.FindStringSubmatch(match)
		if len(submatches) < 4 {
			return match
		}

		srcURL := submatches[2]

		if strings.HasPrefix(srcURL, "data:") {
			return match
		}
		if !strings.HasPrefix(srcURL, "http://") && !strings.HasPrefix(srcURL, "https://") {
			return match
		}

		imageCount++
		internalName := fmt.Sprintf("image-%03d", imageCount)

		var embeddedPath string
		var err error

		if colorImages {
			embeddedPath, err = e.AddImage(srcURL, internalName)
		} else {
			embeddedPath, err = addGrayscaleImage(e, srcURL, internalName)
		}

		if err != nil {
			log.Printf("WARN (CourseEbook): failed to embed image %s: %v", srcURL, err)
			return match
		}

		return fmt.Sprintf(`<img%s src="%s"%s>`, submatches[1], embeddedPath, submatches[3])
	})

	if imageCount > 0 {
		log.Printf("INFO (CourseEbook): embedded %d images (color: %t)", imageCount, colorImages)
	}

	return result
}

// addGrayscaleImage downloads an image, converts it to grayscale, and adds
// it to the EPUB.
func addGrayscaleImage(e *epub.Epub, srcURL string, internalName string) (string, error) {
	resp, err := http.Get(srcURL)
	if err != nil {
		return "", fmt.Errorf("failed to download image: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("image download returned status %d", resp.StatusCode)
	}

	src, format, err := image.Decode(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to decode image: %w", err)
	}

	bounds := src.Bounds()
	gray := image.NewGray(bounds)
	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			gray.Set(x, y, color.GrayModel.Convert(src.At(x, y)))
		}
	}

	tmpFile, err := os.CreateTemp("", "docent-img-*."+format)
	if err != nil {
		return "", fmt.Errorf("failed to create temp file for image: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	switch format {
	case "jpeg":
		err = jpeg.Encode(tmpFile, gray, &jpeg.Options{Quality: 85})
	default:
		err = png.Encode(tmpFile, gray)
	}
	tmpFile.Close()
	if err != nil {
		return "", fmt.Errorf("failed to encode grayscale image: %w", err)
	}

	return e.AddImage(tmpFile.Name(), internalName)
}
