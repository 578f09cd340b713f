// Package scorm assembles SCORM 1.2 packages from validated courses. Each
// export stages its artifacts in a private temporary directory, self-checks
// the result, and zips it into memory; nothing is shared between requests.
package scorm

import (
	"archive/zip"
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"github.com/jmcelroy/docent/mediamap"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/sanitize"
)

// requiredFiles is the fixed top-level layout every package must contain.
var requiredFiles = []string{
	"imsmanifest.xml",
	"index.html",
	"course_data.js",
	"scorm_wrapper.js",
	"styles.css",
}

// Service generates export packages. Safe for concurrent use.
type Service struct {
	sanitizer        *sanitize.Sanitizer
	mapper           *mediamap.Mapper
	enhancedManifest bool
}

func NewService(sanitizer *sanitize.Sanitizer, mapper *mediamap.Mapper) *Service {
	return &Service{sanitizer: sanitizer, mapper: mapper}
}

// SetEnhancedManifest switches exports to the media-dependency manifest
// layout. Call before serving requests; the flag is not synchronized.
func (s *Service) SetEnhancedManifest(enabled bool) {
	s.enhancedManifest = enabled
}

// Generate builds the complete package for an already-validated course and
// returns the ZIP bytes. The pipeline re-checks the invariants it depends
// on, gates on count and size limits before doing any work, and re-measures
// the finished archive against the same ceiling.
func (s *Service) Generate(course *models.Course) ([]byte, error) {
	log.Printf("INFO (SCORMExport): generating package for course %s", course.CourseID)

	report := ValidateForExport(course)
	if !report.Valid {
		return nil, fmt.Errorf("course validation failed: %s", strings.Join(report.Errors, "; "))
	}
	if err := checkLimits(course); err != nil {
		return nil, err
	}

	staging, err := os.MkdirTemp("", "scorm-package-*")
	if err != nil {
		return nil, &AssemblyError{Artifact: "staging directory", Err: err}
	}
	defer os.RemoveAll(staging)

	packageID := fmt.Sprintf("course_%s_%s", course.CourseID, time.Now().Format("20060102_150405"))

	if err := writeArtifact(staging, "imsmanifest.xml", s.buildManifestArtifact(course, packageID)); err != nil {
		return nil, &AssemblyError{Artifact: "manifest", Err: err}
	}
	if err := writeArtifact(staging, "course_data.js", s.buildCourseDataJS(course)); err != nil {
		return nil, &AssemblyError{Artifact: "course data", Err: err}
	}
	if err := writeArtifact(staging, "index.html", buildPlayerHTML(course)); err != nil {
		return nil, &AssemblyError{Artifact: "content HTML", Err: err}
	}
	if err := writeArtifact(staging, "scorm_wrapper.js", wrapperJS); err != nil {
		return nil, &AssemblyError{Artifact: "SCORM wrapper", Err: err}
	}
	if err := writeArtifact(staging, "styles.css", stylesCSS); err != nil {
		return nil, &AssemblyError{Artifact: "styles", Err: err}
	}

	if len(course.Assets) > 0 {
		if err := writeAssetPlaceholders(staging, course.Assets); err != nil {
			return nil, &AssemblyError{Artifact: "assets", Err: err}
		}
	}

	// Media mapping is advisory; log its findings but never block.
	if s.mapper != nil {
		mapping := s.mapper.Map(course)
		if mapping.Success {
			for _, lf := range mapping.Optimization.LargeFiles {
				log.Printf("WARN (SCORMExport): large media file %s (%d bytes)", lf.Path, lf.Size)
			}
		} else {
			log.Printf("WARN (SCORMExport): media mapping degraded: %s", mapping.Error)
		}
	}

	if err := checkPackageStructure(staging); err != nil {
		return nil, err
	}

	archive, err := zipDirectory(staging)
	if err != nil {
		return nil, &AssemblyError{Artifact: "ZIP package", Err: err}
	}

	if int64(len(archive)) > MaxPackageBytes {
		return nil, &PackageTooLargeError{SizeBytes: int64(len(archive)), LimitBytes: MaxPackageBytes}
	}

	log.Printf("INFO (SCORMExport): package for %s complete (%d bytes)", course.CourseID, len(archive))
	return archive, nil
}

// buildManifestArtifact picks the manifest layout. The enhanced layout
// needs the media mapping; when mapping degrades, the flat manifest is
// the fallback so the export still succeeds.
func (s *Service) buildManifestArtifact(course *models.Course, packageID string) string {
	if s.enhancedManifest && s.mapper != nil {
		mapping := s.mapper.Map(course)
		if mapping.Success {
			return BuildEnhancedManifest(course, mapping, packageID)
		}
		log.Printf("WARN (SCORMExport): media mapping degraded, falling back to flat manifest: %s", mapping.Error)
	}
	return buildManifest(course, packageID)
}

// buildCourseDataJS renders course_data.js: the sanitized course document
// assigned to a global, followed by a load-time self check. Templates are
// emitted in display order so slide index and declared order agree.
func (s *Service) buildCourseDataJS(course *models.Course) string {
	ordered := course.OrderedTemplates()
	templatesData := make([]any, 0, len(ordered))
	for _, t := range ordered {
		templatesData = append(templatesData, map[string]any{
			"id":    t.ID,
			"type":  string(t.Type),
			"order": t.Order,
			"title": s.sanitizer.Text(t.Title),
			"data":  s.sanitizer.Value(templateDataMap(t.Data)),
		})
	}

	courseData := map[string]any{
		"courseId":    course.CourseID,
		"title":       s.sanitizer.Text(course.Title),
		"author":      s.sanitizer.Text(course.Author),
		"version":     course.Version,
		"language":    course.Language,
		"templates":   templatesData,
		"totalSlides": len(templatesData),
		"createdAt":   course.CreatedAt.Format(time.RFC3339),
	}

	encoded, err := json.MarshalIndent(courseData, "", "  ")
	if err != nil {
		// The map above is built from plain JSON types; this cannot fail
		// short of a programming error.
		encoded = []byte("{}")
	}

	var b strings.Builder
	b.WriteString("// Course data generated for SCORM package: ")
	b.WriteString(EscapeJSString(course.Title))
	b.WriteString("\n// Generated: ")
	b.WriteString(time.Now().Format(time.RFC3339))
	b.WriteString("\n\nvar courseData = ")
	b.Write(encoded)
	b.WriteString(";\n\nif (typeof courseData !== 'object' || !courseData.templates) {\n")
	b.WriteString("    console.error('ERROR: courseData not properly loaded');\n")
	b.WriteString("    throw new Error('Course data initialization failed');\n}\n")
	return b.String()
}

// templateDataMap converts typed template data into the generic form the
// sanitizer walks. FlexBool marshals to a plain boolean, so correctness
// flags arrive native.
func templateDataMap(d models.TemplateData) map[string]any {
	raw, err := json.Marshal(d)
	if err != nil {
		return map[string]any{}
	}
	var m map[string]any
	if err := json.Unmarshal(raw, &m); err != nil {
		return map[string]any{}
	}
	return m
}

// writeAssetPlaceholders creates the assets/ directory with a named
// placeholder per asset. Real file bytes are out of scope for the exporter;
// assets ship as references.
func writeAssetPlaceholders(staging string, assets []models.Asset) error {
	assetsDir := filepath.Join(staging, "assets")
	if err := os.MkdirAll(assetsDir, 0o755); err != nil {
		return err
	}
	for _, a := range assets {
		filename := path.Base(a.Path)
		if filename == "" || filename == "." || filename == "/" {
			log.Printf("WARN (SCORMExport): could not derive filename from asset path %q", a.Path)
			continue
		}
		content := fmt.Sprintf("Placeholder for %s (%s)", a.Name, a.Type)
		if err := os.WriteFile(filepath.Join(assetsDir, filename), []byte(content), 0o644); err != nil {
			return err
		}
	}
	return nil
}

func writeArtifact(staging, name, content string) error {
	return os.WriteFile(filepath.Join(staging, name), []byte(content), 0o644)
}

// checkPackageStructure verifies the staged package before zipping: the
// required files exist, the manifest is XML with a manifest element and a
// resource reference, and the scripts are not stubs.
func checkPackageStructure(staging string) error {
	for _, name := range requiredFiles {
		if _, err := os.Stat(filepath.Join(staging, name)); err != nil {
			return &PackageStructureError{Reason: "missing required file: " + name}
		}
	}

	manifest, err := os.ReadFile(filepath.Join(staging, "imsmanifest.xml"))
	if err != nil {
		return &PackageStructureError{Reason: "manifest unreadable: " + err.Error()}
	}
	content := string(manifest)
	if !strings.HasPrefix(strings.TrimSpace(content), "<?xml") {
		return &PackageStructureError{Reason: "invalid XML declaration in manifest"}
	}
	if !strings.Contains(content, "<manifest") {
		return &PackageStructureError{Reason: "missing manifest element"}
	}
	if !strings.Contains(content, "index.html") {
		return &PackageStructureError{Reason: "missing resource references in manifest"}
	}

	for _, name := range []string{"course_data.js", "scorm_wrapper.js"} {
		script, err := os.ReadFile(filepath.Join(staging, name))
		if err != nil {
			return &PackageStructureError{Reason: name + " unreadable: " + err.Error()}
		}
		if len(strings.TrimSpace(string(script))) < 100 {
			return &PackageStructureError{Reason: name + " appears incomplete"}
		}
	}
	return nil
}

// zipDirectory walks the staging directory and writes a deflated archive
// into memory with forward-slash entry names.
func zipDirectory(root string) ([]byte, error) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		w, err := zw.Create(filepath.ToSlash(rel))
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		_, err = io.Copy(w, f)
		return err
	})
	if err != nil {
		zw.Close()
		return nil, err
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
