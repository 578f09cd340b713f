package scorm_test

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"

	"github.com/jmcelroy/docent/mediamap"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/sanitize"
	"github.com/jmcelroy/docent/scorm"
)

func newService() *scorm.Service {
	return scorm.NewService(sanitize.New(), mediamap.New())
}

func sampleCourse() *models.Course {
	return &models.Course{
		CourseID: "bird-basics",
		Title:    "Bird Basics",
		Author:   "J. Audubon",
		Language: "en",
		Version:  "1.0.0",
		Templates: []models.Template{
			{
				ID: "t-welcome", Type: models.TemplateTypeWelcome, Order: 0, Title: "Welcome",
				Data: models.TemplateData{Content: "<p>Welcome to the course</p>"},
			},
			{
				ID: "t-body", Type: models.TemplateTypeContentText, Order: 1, Title: "Feathers",
				Data: models.TemplateData{Content: "<p>Feathers keep birds <strong>warm</strong></p>"},
			},
			{
				ID: "t-quiz", Type: models.TemplateTypeMCQ, Order: 2, Title: "Quiz",
				Data: models.TemplateData{
					Questions: []models.Question{{
						ID: "q1", Question: "Which animal is a bird?",
						Options: []models.QuestionOption{
							{ID: "a", Text: "Sparrow", IsCorrect: true},
							{ID: "b", Text: "Bat", IsCorrect: false},
						},
					}},
				},
			},
		},
		Assets: []models.Asset{
			{ID: "a1", Path: "uploads/bird.png", Type: models.AssetTypeImage, Name: "Bird photo"},
		},
		Navigation: models.NavigationSettings{AllowSkip: true, ShowProgress: true},
		Settings:   models.CourseSettings{Theme: "default"},
	}
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("open archive: %v", err)
	}
	entries := map[string]string{}
	for _, f := range zr.File {
		rc, err := f.Open()
		if err != nil {
			t.Fatalf("open entry %s: %v", f.Name, err)
		}
		content, err := io.ReadAll(rc)
		rc.Close()
		if err != nil {
			t.Fatalf("read entry %s: %v", f.Name, err)
		}
		entries[f.Name] = string(content)
	}
	return entries
}

func TestGenerateProducesCompletePackage(t *testing.T) {
	data, err := newService().Generate(sampleCourse())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	entries := readArchive(t, data)
	for _, name := range []string{
		"imsmanifest.xml", "index.html", "course_data.js", "scorm_wrapper.js", "styles.css",
		"assets/bird.png",
	} {
		if _, ok := entries[name]; !ok {
			t.Errorf("archive missing %s, got entries %v", name, keys(entries))
		}
	}

	manifest := entries["imsmanifest.xml"]
	dec := xml.NewDecoder(strings.NewReader(manifest))
	for {
		if _, err := dec.Token(); err != nil {
			if err == io.EOF {
				break
			}
			t.Fatalf("manifest is not well-formed XML: %v", err)
		}
	}
	if !strings.Contains(manifest, `adlcp:scormtype="sco"`) {
		t.Errorf("manifest missing SCO resource declaration")
	}
	if !strings.Contains(manifest, "<schemaversion>1.2</schemaversion>") {
		t.Errorf("manifest missing SCORM 1.2 schema version")
	}
	if strings.Count(manifest, "identifierref=\"resource_1\"") != len(sampleCourse().Templates) {
		t.Errorf("every item should reference the single SCO resource")
	}

	if len(entries["scorm_wrapper.js"]) < 100 || len(entries["course_data.js"]) < 100 {
		t.Errorf("script artifacts suspiciously small")
	}
	if !strings.Contains(entries["course_data.js"], "var courseData = ") {
		t.Errorf("course_data.js missing global assignment")
	}
	if !strings.Contains(entries["course_data.js"], `"isCorrect": true`) {
		t.Errorf("correctness flag not emitted as native boolean:\n%s", entries["course_data.js"])
	}
	if !strings.Contains(entries["index.html"], "Bird Basics") {
		t.Errorf("player HTML missing course title")
	}
}

func keys(m map[string]string) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	return out
}

func TestGenerateEscapesMetadata(t *testing.T) {
	course := sampleCourse()
	course.Title = `Tom & "Jerry" <Show>`
	course.Author = "O'Brien <script>alert(1)</script>"

	data, err := newService().Generate(course)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entries := readArchive(t, data)

	manifest := entries["imsmanifest.xml"]
	if strings.Contains(manifest, "<Show>") || strings.Contains(manifest, "<script>") {
		t.Errorf("manifest contains unescaped markup")
	}
	if !strings.Contains(manifest, "Tom &amp; &quot;Jerry&quot; &lt;Show&gt;") {
		t.Errorf("manifest title not XML-escaped:\n%s", manifest)
	}
	if strings.Contains(entries["index.html"], `<Show>`) {
		t.Errorf("player HTML contains unescaped title markup")
	}
}

func TestGenerateOrdersSlidesByDeclaredOrder(t *testing.T) {
	course := sampleCourse()
	// Reverse array position; declared order should still win.
	course.Templates[0], course.Templates[2] = course.Templates[2], course.Templates[0]

	data, err := newService().Generate(course)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	entries := readArchive(t, data)

	cd := entries["course_data.js"]
	first := strings.Index(cd, `"id": "t-welcome"`)
	last := strings.Index(cd, `"id": "t-quiz"`)
	if first == -1 || last == -1 || first > last {
		t.Errorf("templates not emitted in declared order (welcome at %d, quiz at %d)", first, last)
	}

	manifest := entries["imsmanifest.xml"]
	if strings.Index(manifest, "<title>Welcome</title>") > strings.Index(manifest, "<title>Quiz</title>") {
		t.Errorf("manifest items not sorted by declared order")
	}
}

func TestGenerateRejectsNonContiguousOrders(t *testing.T) {
	t.Run("gap", func(t *testing.T) {
		course := sampleCourse()
		course.Templates[2].Order = 5

		_, err := newService().Generate(course)
		if err == nil {
			t.Fatal("Generate() error = nil, want ordering failure")
		}
		if !strings.Contains(err.Error(), "contiguous sequence 0..2") {
			t.Errorf("error = %v, want message naming the expected range 0..2", err)
		}
	})

	t.Run("duplicate", func(t *testing.T) {
		course := sampleCourse()
		course.Templates[2].Order = 1

		_, err := newService().Generate(course)
		if err == nil {
			t.Fatal("Generate() error = nil, want ordering failure")
		}
		if !strings.Contains(err.Error(), "duplicate order 1") ||
			!strings.Contains(err.Error(), "0..2") {
			t.Errorf("error = %v, want duplicate message naming the range 0..2", err)
		}
	})
}

func TestPlayerDispatchHasUnknownTypeFallback(t *testing.T) {
	data, err := newService().Generate(sampleCourse())
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	player := readArchive(t, data)["index.html"]

	for _, typ := range []string{"'welcome'", "'content-text'", "'content-video'", "'summary'", "'mcq'"} {
		if !strings.Contains(player, typ) {
			t.Errorf("player dispatch has no explicit branch for %s", typ)
		}
	}
	if !strings.Contains(player, "Unknown slide type") {
		t.Error("player has no visible placeholder for unrecognized slide types")
	}
}

func TestGenerateGates(t *testing.T) {
	t.Run("too many templates", func(t *testing.T) {
		course := sampleCourse()
		course.Templates = nil
		for i := 0; i < scorm.MaxTemplates+1; i++ {
			course.Templates = append(course.Templates, models.Template{
				ID: fmt.Sprintf("t%d", i), Type: models.TemplateTypeContentText,
				Order: i, Title: fmt.Sprintf("Page %d", i),
				Data: models.TemplateData{Content: "body"},
			})
		}
		_, err := newService().Generate(course)
		var tooMany *scorm.TooManyTemplatesError
		if !errors.As(err, &tooMany) {
			t.Fatalf("error = %v, want TooManyTemplatesError", err)
		}
	})

	t.Run("too many assets", func(t *testing.T) {
		course := sampleCourse()
		for i := 0; i < scorm.MaxAssets+1; i++ {
			course.Assets = append(course.Assets, models.Asset{
				ID: fmt.Sprintf("a%d", i), Path: fmt.Sprintf("f%d.png", i),
				Type: models.AssetTypeImage, Name: fmt.Sprintf("file %d", i),
			})
		}
		_, err := newService().Generate(course)
		var tooMany *scorm.TooManyAssetsError
		if !errors.As(err, &tooMany) {
			t.Fatalf("error = %v, want TooManyAssetsError", err)
		}
	})

	t.Run("estimated size over ceiling", func(t *testing.T) {
		course := sampleCourse()
		big := strings.Repeat("x", 6*1024*1024)
		for i := 0; i < 9; i++ {
			course.Templates = append(course.Templates, models.Template{
				ID: fmt.Sprintf("big%d", i), Type: models.TemplateTypeContentText,
				Order: 3 + i, Title: fmt.Sprintf("Big %d", i),
				Data: models.TemplateData{Content: big},
			})
		}
		_, err := newService().Generate(course)
		var tooLarge *scorm.PackageTooLargeError
		if !errors.As(err, &tooLarge) {
			t.Fatalf("error = %v, want PackageTooLargeError", err)
		}
		if !tooLarge.Estimated {
			t.Errorf("size failure should come from the pre-flight estimate")
		}
	})
}

func TestEstimatePackageSizeMonotonic(t *testing.T) {
	course := sampleCourse()
	base := scorm.EstimatePackageSize(course).TotalBytes

	course.Templates = append(course.Templates, models.Template{
		ID: "extra", Type: models.TemplateTypeContentText, Order: 3, Title: "Extra",
		Data: models.TemplateData{Content: strings.Repeat("y", 5000)},
	})
	withTemplate := scorm.EstimatePackageSize(course).TotalBytes
	if withTemplate <= base {
		t.Errorf("estimate did not grow with content: %d -> %d", base, withTemplate)
	}

	course.Assets = append(course.Assets, models.Asset{
		ID: "a2", Path: "x.png", Type: models.AssetTypeImage, Name: "x",
	})
	withAsset := scorm.EstimatePackageSize(course).TotalBytes
	if withAsset <= withTemplate {
		t.Errorf("estimate did not grow with asset: %d -> %d", withTemplate, withAsset)
	}
}

func TestValidateForExportWarnings(t *testing.T) {
	course := sampleCourse()
	course.Templates = course.Templates[1:]
	for i := range course.Templates {
		course.Templates[i].Order = i
	}

	report := scorm.ValidateForExport(course)
	if !report.Valid {
		t.Fatalf("report invalid: %v", report.Errors)
	}
	found := false
	for _, w := range report.Warnings {
		if strings.Contains(w, "welcome template") {
			found = true
		}
	}
	if !found {
		t.Errorf("expected welcome template warning, got %v", report.Warnings)
	}
}

func TestEscapeDisciplines(t *testing.T) {
	tests := []struct {
		fn   func(string) string
		in   string
		want string
	}{
		{scorm.EscapeXML, `a<b>&"c"'d'`, "a&lt;b&gt;&amp;&quot;c&quot;&#x27;d&#x27;"},
		{scorm.EscapeHTML, `<img src="x">`, "&lt;img src=&quot;x&quot;&gt;"},
		{scorm.EscapeJSString, "line1\nline2\\ \"q\" 'a'", `line1\nline2\\ \"q\" \'a\'`},
		{scorm.EscapeXML, "", ""},
	}
	for _, tc := range tests {
		if got := tc.fn(tc.in); got != tc.want {
			t.Errorf("escape(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
