// Package mediamap discovers media references inside rendered course
// content and builds the page-to-media dependency map that feeds the
// enhanced manifest. Mapping is advisory: any internal failure degrades to
// an error-flagged empty report and never aborts packaging.
package mediamap

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log"
	"mime"
	"path"
	"regexp"
	"sort"
	"strings"

	"github.com/jmcelroy/docent/models"
)

// largeFileThreshold flags resources worth compressing before delivery.
const largeFileThreshold = 5 * 1024 * 1024

var (
	imgPattern   = regexp.MustCompile(`(?i)<img[^>]+src=["']([^"']+)["']`)
	videoPattern = regexp.MustCompile(`(?i)<video[^>]+src=["']([^"']+)["']`)
	audioPattern = regexp.MustCompile(`(?i)<audio[^>]+src=["']([^"']+)["']`)
	refPattern   = regexp.MustCompile(`(?i)(?:url|href|src)=["']([^"']*media[^"']*)["']`)

	mediaExtensions = map[string]bool{
		".jpg": true, ".jpeg": true, ".png": true, ".gif": true,
		".webp": true, ".svg": true,
		".mp4": true, ".webm": true, ".ogg": true, ".mov": true, ".avi": true,
		".mp3": true, ".wav": true, ".aac": true, ".m4a": true,
	}
)

// ResourceMetadata is the descriptive block attached to a mapped resource.
type ResourceMetadata struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	Language    string `json:"language"`
}

// Resource describes one discovered media file.
type Resource struct {
	Identifier   string           `json:"identifier"`
	ResourceType string           `json:"resourceType"`
	Href         string           `json:"href"`
	OriginalPath string           `json:"originalPath"`
	MimeType     string           `json:"mimeType"`
	Extension    string           `json:"fileExtension"`
	FileSize     int64            `json:"fileSize"`
	ContentHash  string           `json:"contentHash"`
	Metadata     ResourceMetadata `json:"metadata"`

	OptimizationApplied bool     `json:"optimizationApplied"`
	OptimizationNotes   []string `json:"optimizationNotes,omitempty"`
	SizeReduction       int64    `json:"sizeReduction,omitempty"`
}

// LargeFile flags a resource above the compression threshold.
type LargeFile struct {
	Path           string `json:"path"`
	Size           int64  `json:"size"`
	Recommendation string `json:"recommendation"`
}

// DuplicateFile records two references resolving to the same content.
type DuplicateFile struct {
	Original  string `json:"original"`
	Duplicate string `json:"duplicate"`
	Size      int64  `json:"size"`
}

// OptimizationReport summarizes the size findings of a mapping pass.
type OptimizationReport struct {
	TotalFiles          int             `json:"totalFiles"`
	LargeFiles          []LargeFile     `json:"largeFiles,omitempty"`
	DuplicateFiles      []DuplicateFile `json:"duplicateFiles,omitempty"`
	OptimizationSavings int64           `json:"optimizationSavings"`
}

// Report is the full result of a mapping pass over one course.
type Report struct {
	Success      bool                `json:"success"`
	Error        string              `json:"error,omitempty"`
	Resources    []Resource          `json:"resources"`
	TotalSize    int64               `json:"totalSize"`
	Dependencies map[string][]string `json:"dependencies"`
	Optimization OptimizationReport  `json:"optimizationReport"`
}

// Mapper scans courses for media references.
type Mapper struct{}

func New() *Mapper {
	return &Mapper{}
}

// Map scans every template's serialized data for media references, drops
// external and data: URLs, classifies the rest by extension MIME type, and
// assembles the dependency and optimization reports. Sizes come from the
// course's declared assets when a reference matches one by filename.
func (m *Mapper) Map(course *models.Course) (report Report) {
	report = Report{
		Success:      true,
		Resources:    []Resource{},
		Dependencies: map[string][]string{},
	}

	defer func() {
		if r := recover(); r != nil {
			log.Printf("ERROR (MediaMapper): mapping failed: %v", r)
			report = Report{
				Success:      false,
				Error:        fmt.Sprint(r),
				Resources:    []Resource{},
				Dependencies: map[string][]string{},
			}
		}
	}()

	sizeByName := assetSizesByName(course.Assets)
	discovered := map[string]bool{}

	for i, t := range course.Templates {
		pageID := fmt.Sprintf("page_%d", i+1)
		content := templateContentString(t)

		var deps []string
		for _, pattern := range []*regexp.Regexp{imgPattern, videoPattern, audioPattern, refPattern} {
			for _, match := range pattern.FindAllStringSubmatch(content, -1) {
				mp := NormalizePath(match[1])
				if mp == "" {
					continue
				}
				discovered[mp] = true
				deps = append(deps, mp)
			}
		}
		if mp := NormalizePath(t.Data.VideoURL); mp != "" {
			discovered[mp] = true
			deps = append(deps, mp)
		}
		if len(deps) > 0 {
			report.Dependencies[pageID] = deps
		}
	}

	paths := make([]string, 0, len(discovered))
	for p := range discovered {
		paths = append(paths, p)
	}
	sort.Strings(paths)

	seenHashes := map[string]string{}
	for i, mp := range paths {
		res := analyzePath(mp, fmt.Sprintf("media_%03d", i+1), sizeByName)
		report.Resources = append(report.Resources, res)
		report.TotalSize += res.FileSize

		if res.FileSize > largeFileThreshold {
			report.Optimization.LargeFiles = append(report.Optimization.LargeFiles, LargeFile{
				Path:           mp,
				Size:           res.FileSize,
				Recommendation: "Consider compression or format optimization",
			})
		}

		if original, seen := seenHashes[res.ContentHash]; seen {
			report.Optimization.DuplicateFiles = append(report.Optimization.DuplicateFiles, DuplicateFile{
				Original:  original,
				Duplicate: mp,
				Size:      res.FileSize,
			})
		} else {
			seenHashes[res.ContentHash] = mp
		}
	}

	report.Optimization.TotalFiles = len(report.Resources)
	for _, d := range report.Optimization.DuplicateFiles {
		report.Optimization.OptimizationSavings += d.Size
	}
	for _, lf := range report.Optimization.LargeFiles {
		report.Optimization.OptimizationSavings += lf.Size * 3 / 10
	}

	log.Printf("INFO (MediaMapper): mapped %d resources across %d pages",
		len(report.Resources), len(report.Dependencies))
	return report
}

// NormalizePath cleans a raw reference and returns "" when it is external,
// inlined, or does not look like a media file.
func NormalizePath(raw string) string {
	if raw == "" {
		return ""
	}
	p := raw
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if strings.HasPrefix(p, "http://") || strings.HasPrefix(p, "https://") ||
		strings.HasPrefix(p, "//") || strings.HasPrefix(p, "data:") {
		return ""
	}
	p = strings.ReplaceAll(p, `\`, "/")
	if !mediaExtensions[strings.ToLower(path.Ext(p))] {
		return ""
	}
	return p
}

func analyzePath(mediaPath, id string, sizeByName map[string]int64) Resource {
	ext := strings.ToLower(path.Ext(mediaPath))
	mimeType := mime.TypeByExtension(ext)

	resourceType := "webcontent"
	switch {
	case strings.HasPrefix(mimeType, "image/"):
		resourceType = "image"
	case strings.HasPrefix(mimeType, "video/"):
		resourceType = "video"
	case strings.HasPrefix(mimeType, "audio/"):
		resourceType = "audio"
	}
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}

	name := path.Base(mediaPath)
	stem := strings.TrimSuffix(name, ext)

	// Hash the filename, not the full path, so the same file referenced
	// from two locations shows up in duplicate detection.
	sum := sha256.Sum256([]byte(name))

	return Resource{
		Identifier:   id,
		ResourceType: resourceType,
		Href:         fmt.Sprintf("media/%ss/%s", resourceType, name),
		OriginalPath: mediaPath,
		MimeType:     mimeType,
		Extension:    ext,
		FileSize:     sizeByName[name],
		ContentHash:  hex.EncodeToString(sum[:8]),
		Metadata: ResourceMetadata{
			Title:       stem,
			Description: "Media resource: " + name,
			Language:    "en",
		},
	}
}

func assetSizesByName(assets []models.Asset) map[string]int64 {
	sizes := make(map[string]int64, len(assets))
	for _, a := range assets {
		name := path.Base(a.Path)
		if name != "" && name != "." {
			sizes[name] = a.Size
		}
	}
	return sizes
}

// templateContentString concatenates the template's text fields for
// scanning. The raw strings are used rather than a JSON serialization so
// attribute quotes are not escaped out from under the patterns.
func templateContentString(t models.Template) string {
	var b strings.Builder
	b.WriteString(t.Data.Content)
	b.WriteByte('\n')
	b.WriteString(t.Data.Subtitle)
	for _, q := range t.Data.Questions {
		b.WriteByte('\n')
		b.WriteString(q.Question)
		for _, opt := range q.Options {
			b.WriteByte('\n')
			b.WriteString(opt.Text)
		}
	}
	return b.String()
}

// Optimize runs the simulated optimization pass: large images, videos and
// audio files get a projected size reduction and the notes describing what
// a real pipeline would do. Resources that need no work pass unchanged.
func (m *Mapper) Optimize(resources []Resource) []Resource {
	out := make([]Resource, len(resources))
	for i, res := range resources {
		opt := res
		var reduction int64
		switch res.ResourceType {
		case "image":
			if res.FileSize > 1024*1024 {
				reduction = res.FileSize * 4 / 10
				opt.OptimizationNotes = []string{
					"Image compressed with quality optimization",
					"Progressive encoding applied",
					"Metadata stripped",
				}
			}
		case "video":
			if res.FileSize > 10*1024*1024 {
				reduction = res.FileSize * 3 / 10
				opt.OptimizationNotes = []string{
					"Video re-encoded with optimized bitrate",
					"Web-optimized H.264 settings",
				}
			}
		case "audio":
			if res.FileSize > 5*1024*1024 {
				reduction = res.FileSize / 4
				opt.OptimizationNotes = []string{
					"Audio compressed with optimized bitrate",
					"Silence trimming applied",
				}
			}
		}
		if reduction > 0 {
			opt.FileSize = res.FileSize - reduction
			opt.SizeReduction = reduction
			opt.OptimizationApplied = true
		}
		out[i] = opt
	}
	return out
}

// DependencyReport is the outcome of a media reference audit.
type DependencyReport struct {
	Valid           bool            `json:"valid"`
	Status          string          `json:"status"`
	TotalResources  int             `json:"totalResources"`
	LargeFiles      []LargeFile     `json:"largeFiles,omitempty"`
	DuplicateFiles  []DuplicateFile `json:"duplicateFiles,omitempty"`
	Recommendations []string        `json:"recommendations,omitempty"`
}

// ValidateDependencies audits a course's media references and produces
// actionable recommendations.
func (m *Mapper) ValidateDependencies(course *models.Course) DependencyReport {
	mapping := m.Map(course)
	if !mapping.Success {
		return DependencyReport{Valid: false, Status: "ERROR - Validation failed"}
	}

	report := DependencyReport{
		Valid:          true,
		TotalResources: len(mapping.Resources),
		LargeFiles:     mapping.Optimization.LargeFiles,
		DuplicateFiles: mapping.Optimization.DuplicateFiles,
	}

	if len(report.LargeFiles) > 0 {
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Consider optimizing %d large media files", len(report.LargeFiles)))
	}
	if len(report.DuplicateFiles) > 0 {
		var total int64
		for _, d := range report.DuplicateFiles {
			total += d.Size
		}
		report.Recommendations = append(report.Recommendations,
			fmt.Sprintf("Remove %d duplicate files to save %.1fMB",
				len(report.DuplicateFiles), float64(total)/(1024*1024)))
	}

	switch {
	case len(report.LargeFiles) > 0 || len(report.DuplicateFiles) > 0:
		report.Status = "WARNING - Optimization recommended"
	default:
		report.Status = "PASSED - All media references valid"
	}
	return report
}
