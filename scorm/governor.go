package scorm

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jmcelroy/docent/models"
)

const (
	// MaxTemplates and MaxAssets are hard pre-flight gates.
	MaxTemplates = 100
	MaxAssets    = 200

	// MaxPackageBytes caps both the pre-flight estimate and the measured
	// size of the finished archive.
	MaxPackageBytes = 50 * 1024 * 1024

	// baseStructureBytes approximates the manifest, player, wrapper and
	// stylesheet overhead present in every package.
	baseStructureBytes = 15000

	// videoReferenceBytes is charged per video template instead of its
	// content length, since only the reference ships in the package.
	videoReferenceBytes = 500

	// assetPlaceholderBytes is the per-asset estimate while assets ship as
	// placeholders rather than real files.
	assetPlaceholderBytes = 50000
)

// SizeEstimate breaks down the heuristic pre-flight size calculation.
type SizeEstimate struct {
	BaseStructureBytes int64 `json:"baseStructureBytes"`
	ContentBytes       int64 `json:"contentBytes"`
	AssetBytes         int64 `json:"assetsBytes"`
	TotalBytes         int64 `json:"totalEstimatedBytes"`
	TemplateCount      int   `json:"templateCount"`
	AssetCount         int   `json:"assetCount"`
}

// EstimatePackageSize computes the heuristic size of the package a course
// would produce. Deterministic for a given course; monotonic in content.
func EstimatePackageSize(course *models.Course) SizeEstimate {
	est := SizeEstimate{
		BaseStructureBytes: baseStructureBytes,
		TemplateCount:      len(course.Templates),
		AssetCount:         len(course.Assets),
	}

	for _, t := range course.Templates {
		switch t.Type {
		case models.TemplateTypeContentVideo:
			est.ContentBytes += videoReferenceBytes
		case models.TemplateTypeMCQ:
			est.ContentBytes += int64(templateDataLength(t.Data)) * 2
		default:
			est.ContentBytes += int64(templateDataLength(t.Data))
		}
	}

	est.AssetBytes = int64(len(course.Assets)) * assetPlaceholderBytes
	est.TotalBytes = est.BaseStructureBytes + est.ContentBytes + est.AssetBytes
	return est
}

// templateDataLength measures template data by its serialized form, which
// tracks what actually lands in course_data.js.
func templateDataLength(d models.TemplateData) int {
	raw, err := json.Marshal(d)
	if err != nil {
		return 0
	}
	return len(raw)
}

// ExportReport carries the export-specific pre-flight findings. Errors are
// terminal; warnings are advisory and travel with a successful export.
type ExportReport struct {
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}

// ValidateForExport re-checks the invariants the assembler depends on,
// independently of the request validator, and collects advisory warnings.
// The ordering re-check is intentionally redundant with upstream validation
// so the exporter stays safe when called from another path.
func ValidateForExport(course *models.Course) ExportReport {
	report := ExportReport{Valid: true}

	if strings.TrimSpace(course.CourseID) == "" {
		report.Errors = append(report.Errors, "Course ID is required")
	}
	if strings.TrimSpace(course.Title) == "" {
		report.Errors = append(report.Errors, "Course title is required")
	}

	if len(course.Templates) == 0 {
		report.Errors = append(report.Errors, "Course must have at least one template")
	} else if err := models.CheckOrderContiguity(course.Templates); err != nil {
		report.Errors = append(report.Errors, err.Error())
	}

	hasWelcome := false
	for _, t := range course.Templates {
		if t.Type == models.TemplateTypeWelcome {
			hasWelcome = true
			break
		}
	}
	if !hasWelcome && len(course.Templates) > 0 {
		report.Warnings = append(report.Warnings,
			"Course should have a welcome template for a better learner experience")
	}

	var sparse []string
	for i, t := range course.Templates {
		if t.Type != models.TemplateTypeMCQ && strings.TrimSpace(t.Data.Content) == "" &&
			strings.TrimSpace(t.Data.VideoURL) == "" {
			sparse = append(sparse, fmt.Sprintf("Template %d (%s)", i+1, t.Title))
		}
	}
	if len(sparse) > 0 {
		report.Warnings = append(report.Warnings, "Templates with minimal content: "+strings.Join(sparse, ", "))
	}

	if len(course.Title) > 0 && len(course.Title) < 3 {
		report.Warnings = append(report.Warnings, "Course title is very short")
	}

	report.Valid = len(report.Errors) == 0
	return report
}

// checkLimits applies the hard count and estimated-size gates. Returns the
// first violated gate as its dedicated error type.
func checkLimits(course *models.Course) error {
	if n := len(course.Templates); n > MaxTemplates {
		return &TooManyTemplatesError{Count: n, Limit: MaxTemplates}
	}
	if n := len(course.Assets); n > MaxAssets {
		return &TooManyAssetsError{Count: n, Limit: MaxAssets}
	}
	if est := EstimatePackageSize(course); est.TotalBytes > MaxPackageBytes {
		return &PackageTooLargeError{SizeBytes: est.TotalBytes, LimitBytes: MaxPackageBytes, Estimated: true}
	}
	return nil
}
