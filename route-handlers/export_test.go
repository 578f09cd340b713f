package routehandlers_test

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"

	"github.com/jmcelroy/docent/ebook"
	"github.com/jmcelroy/docent/features"
	"github.com/jmcelroy/docent/mediamap"
	"github.com/jmcelroy/docent/models"
	rh "github.com/jmcelroy/docent/route-handlers"
	"github.com/jmcelroy/docent/sanitize"
	"github.com/jmcelroy/docent/scorm"
	"github.com/jmcelroy/docent/webutil"
)

func newExportRouter(flags *features.Flags) http.Handler {
	sanitizer := sanitize.New()
	handler := rh.NewExportHandler(
		scorm.NewService(sanitizer, mediamap.New()),
		ebook.NewCourseGenerator(sanitizer),
		flags,
	)

	r := chi.NewRouter()
	r.Post("/export", webutil.MakeHandler(handler.HandleExportSCORM))
	r.Post("/export/epub", webutil.MakeHandler(handler.HandleExportEPUB))
	r.Post("/export/validate", webutil.MakeHandler(handler.HandleValidateCourse))
	r.Get("/export/formats", webutil.MakeHandler(handler.HandleGetFormats))
	r.Get("/export/status/{id}", webutil.MakeHandler(handler.HandleGetStatus))
	return r
}

func defaultFlags() *features.Flags {
	return &features.Flags{ExportTraceHeaders: true, EPUBExport: true}
}

func validCourseDocument() string {
	return `{
		"courseId": "course-101",
		"title": "Intro to Birds",
		"author": "Jane Smith",
		"description": "A short course about birds.",
		"templates": [
			{"id": "t-welcome", "type": "welcome", "order": 0, "title": "Welcome",
				"data": {"content": "<p>Welcome to the course.</p>"}},
			{"id": "t-quiz", "type": "mcq", "order": 1, "title": "Quiz",
				"data": {"content": "Check your knowledge.", "questions": [
					{"id": "q1", "question": "Can penguins fly?", "options": [
						{"id": "o1", "text": "Yes", "isCorrect": false},
						{"id": "o2", "text": "No", "isCorrect": true}
					]}
				]}}
		]
	}`
}

func postExport(t *testing.T, router http.Handler, path, courseDoc string) *httptest.ResponseRecorder {
	t.Helper()
	body, err := json.Marshal(models.CourseExportRequest{Course: courseDoc})
	if err != nil {
		t.Fatal(err)
	}
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestExportSCORMReturnsPackage(t *testing.T) {
	router := newExportRouter(defaultFlags())
	rec := postExport(t, router, "/export", validCourseDocument())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/zip" {
		t.Errorf("Content-Type = %q, want application/zip", ct)
	}
	if cd := rec.Header().Get("Content-Disposition"); !strings.Contains(cd, "course-101_scorm_package.zip") {
		t.Errorf("Content-Disposition = %q", cd)
	}
	if rec.Header().Get("X-Course-Hash") == "" {
		t.Error("X-Course-Hash header missing with trace headers enabled")
	}

	zr, err := zip.NewReader(bytes.NewReader(rec.Body.Bytes()), int64(rec.Body.Len()))
	if err != nil {
		t.Fatalf("response is not a readable ZIP: %v", err)
	}
	names := make(map[string]bool)
	for _, f := range zr.File {
		names[f.Name] = true
	}
	for _, want := range []string{"imsmanifest.xml", "index.html", "course_data.js", "scorm_wrapper.js", "styles.css"} {
		if !names[want] {
			t.Errorf("package missing %s", want)
		}
	}
}

func TestExportSCORMHashStableAcrossKeyOrder(t *testing.T) {
	router := newExportRouter(defaultFlags())

	first := postExport(t, router, "/export", validCourseDocument())
	reordered := strings.Replace(validCourseDocument(),
		`"courseId": "course-101",
		"title": "Intro to Birds",`,
		`"title": "Intro to Birds",
		"courseId": "course-101",`, 1)
	second := postExport(t, router, "/export", reordered)

	a, b := first.Header().Get("X-Course-Hash"), second.Header().Get("X-Course-Hash")
	if a == "" || a != b {
		t.Errorf("course hash should ignore key order: %q vs %q", a, b)
	}
}

func TestExportSCORMRejectsMalformedCourse(t *testing.T) {
	router := newExportRouter(defaultFlags())

	rec := postExport(t, router, "/export", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Errorf("malformed course: status = %d, want 400", rec.Code)
	}

	req := httptest.NewRequest(http.MethodPost, "/export", strings.NewReader(`{"course": ""}`))
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("empty course: status = %d, want 400", rec.Code)
	}
}

func TestExportSCORMReportsStructuralViolations(t *testing.T) {
	router := newExportRouter(defaultFlags())
	invalid := strings.Replace(validCourseDocument(), `"courseId": "course-101"`, `"courseId": "bad id!"`, 1)

	rec := postExport(t, router, "/export", invalid)
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status = %d, want 422, body = %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Error   string              `json:"error"`
		Details []models.FieldError `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("error body not JSON: %v", err)
	}
	if len(body.Details) == 0 {
		t.Fatal("expected field-level details in error body")
	}
	found := false
	for _, fe := range body.Details {
		if fe.Path == "courseId" {
			found = true
		}
	}
	if !found {
		t.Errorf("details should name courseId, got %+v", body.Details)
	}
}

func TestExportSCORMRejectsOversizedCourse(t *testing.T) {
	router := newExportRouter(defaultFlags())

	// Nine templates of ~6MB of content push the estimate past the 50MB cap.
	big := strings.Repeat("x", 6*1024*1024)
	var templates []string
	for i := 0; i < 9; i++ {
		templates = append(templates, fmt.Sprintf(
			`{"id": "t%d", "type": "content-text", "order": %d, "title": "Slide %d", "data": {"content": "%s"}}`,
			i, i, i, big))
	}
	doc := fmt.Sprintf(`{"courseId": "big", "title": "Big", "author": "A", "templates": [%s]}`,
		strings.Join(templates, ","))

	rec := postExport(t, router, "/export", doc)
	if rec.Code != http.StatusRequestEntityTooLarge {
		t.Errorf("status = %d, want 413, body = %s", rec.Code, rec.Body.String())
	}
}

func TestValidateCourseDryRun(t *testing.T) {
	router := newExportRouter(defaultFlags())

	rec := postExport(t, router, "/export/validate", validCourseDocument())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}

	var report models.ValidationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("report not JSON: %v", err)
	}
	if !report.Valid {
		t.Errorf("report.Valid = false, errors = %+v", report.Errors)
	}
	if report.TemplateCount != 2 {
		t.Errorf("TemplateCount = %d, want 2", report.TemplateCount)
	}
	if report.EstimatedSize <= 0 {
		t.Errorf("EstimatedSize = %d, want > 0", report.EstimatedSize)
	}
	if report.CourseHash == "" {
		t.Error("CourseHash should be set")
	}
}

func TestValidateCourseReportsViolationsWithoutFailing(t *testing.T) {
	router := newExportRouter(defaultFlags())
	invalid := strings.Replace(validCourseDocument(), `"order": 1`, `"order": 5`, 1)

	rec := postExport(t, router, "/export/validate", invalid)
	if rec.Code != http.StatusOK {
		t.Fatalf("dry run should respond 200, got %d, body = %s", rec.Code, rec.Body.String())
	}

	var report models.ValidationReport
	if err := json.Unmarshal(rec.Body.Bytes(), &report); err != nil {
		t.Fatalf("report not JSON: %v", err)
	}
	if report.Valid {
		t.Error("report.Valid = true for a course with an order gap")
	}
	if len(report.Errors) == 0 {
		t.Error("expected validation errors in the report")
	}
}

func TestExportEPUBReturnsArchive(t *testing.T) {
	router := newExportRouter(defaultFlags())

	rec := postExport(t, router, "/export/epub", validCourseDocument())
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, body = %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "application/epub+zip" {
		t.Errorf("Content-Type = %q", ct)
	}
	if !bytes.HasPrefix(rec.Body.Bytes(), []byte("PK")) {
		t.Error("EPUB response should be a ZIP container")
	}
}

func TestExportEPUBDisabledByFlag(t *testing.T) {
	router := newExportRouter(&features.Flags{EPUBExport: false})

	rec := postExport(t, router, "/export/epub", validCourseDocument())
	if rec.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 when EPUB export is disabled", rec.Code)
	}
}

func TestGetFormats(t *testing.T) {
	router := newExportRouter(defaultFlags())

	req := httptest.NewRequest(http.MethodGet, "/export/formats", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var formats []models.ExportFormat
	if err := json.Unmarshal(rec.Body.Bytes(), &formats); err != nil {
		t.Fatalf("formats not JSON: %v", err)
	}
	if len(formats) != 2 {
		t.Fatalf("got %d formats, want 2", len(formats))
	}
	if formats[0].ID != "scorm_1.2" {
		t.Errorf("first format = %q, want scorm_1.2", formats[0].ID)
	}
}

func TestGetStatus(t *testing.T) {
	router := newExportRouter(defaultFlags())

	req := httptest.NewRequest(http.MethodGet, "/export/status/2c3a4f60-8a3e-4ac0-9d18-2f9c9d4a8c11", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var status models.ExportStatus
	if err := json.Unmarshal(rec.Body.Bytes(), &status); err != nil {
		t.Fatal(err)
	}
	if status.Status != "completed" {
		t.Errorf("Status = %q, want completed", status.Status)
	}

	req = httptest.NewRequest(http.MethodGet, "/export/status/not-a-uuid", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad ID: status = %d, want 400", rec.Code)
	}
}
