package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// TemplateType defines the set of allowed template (slide) types.
type TemplateType string

const (
	TemplateTypeWelcome      TemplateType = "welcome"
	TemplateTypeContentText  TemplateType = "content-text"
	TemplateTypeContentVideo TemplateType = "content-video"
	TemplateTypeMCQ          TemplateType = "mcq"
	TemplateTypeSummary      TemplateType = "summary"
)

// IsValidTemplateType checks if the provided type string is a known TemplateType.
func IsValidTemplateType(typeStr string) (TemplateType, bool) {
	tt := TemplateType(typeStr)
	switch tt {
	case TemplateTypeWelcome, TemplateTypeContentText, TemplateTypeContentVideo,
		TemplateTypeMCQ, TemplateTypeSummary:
		return tt, true
	default:
		return "", false
	}
}

// TemplateTypeNames returns the valid type values for error messages.
func TemplateTypeNames() []string {
	return []string{
		string(TemplateTypeWelcome),
		string(TemplateTypeContentText),
		string(TemplateTypeContentVideo),
		string(TemplateTypeMCQ),
		string(TemplateTypeSummary),
	}
}

// AssetType defines the set of allowed asset types.
type AssetType string

const (
	AssetTypeImage    AssetType = "image"
	AssetTypeVideo    AssetType = "video"
	AssetTypeAudio    AssetType = "audio"
	AssetTypeDocument AssetType = "document"
	AssetTypeOther    AssetType = "other"
)

// IsValidAssetType checks if the provided type string is a known AssetType.
func IsValidAssetType(typeStr string) (AssetType, bool) {
	at := AssetType(typeStr)
	switch at {
	case AssetTypeImage, AssetTypeVideo, AssetTypeAudio, AssetTypeDocument, AssetTypeOther:
		return at, true
	default:
		return "", false
	}
}

// FlexBool is a boolean that tolerates the historical representations seen in
// authored course JSON: native booleans, the strings "true"/"1"/"yes" (any
// case), and numbers. Quiz correctness flags must decode to a real boolean no
// matter which shape the authoring client produced.
type FlexBool bool

func (b *FlexBool) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	*b = FlexBool(CoerceBool(raw))
	return nil
}

func (b FlexBool) MarshalJSON() ([]byte, error) {
	return json.Marshal(bool(b))
}

// CoerceBool converts a decoded JSON value to a boolean using the same rules
// as FlexBool: booleans pass through, strings match "true"/"1"/"yes"
// case-insensitively, numbers are true when non-zero.
func CoerceBool(v any) bool {
	switch val := v.(type) {
	case bool:
		return val
	case string:
		switch strings.ToLower(strings.TrimSpace(val)) {
		case "true", "1", "yes":
			return true
		}
		return false
	case float64:
		return val != 0
	case json.Number:
		f, err := val.Float64()
		return err == nil && f != 0
	default:
		return v != nil
	}
}

// QuestionOption is a single selectable answer within an MCQ question.
type QuestionOption struct {
	ID        string   `json:"id"`
	Text      string   `json:"text"`
	IsCorrect FlexBool `json:"isCorrect"`
}

// Question is one multiple-choice question with 2-6 options, exactly one of
// which must be marked correct.
type Question struct {
	ID       string           `json:"id"`
	Question string           `json:"question"`
	Options  []QuestionOption `json:"options"`
}

// TemplateData carries the type-specific payload of a template. Required
// sub-fields depend on the owning template's type: content templates need
// Content, mcq templates need Questions.
type TemplateData struct {
	Content   string     `json:"content"`
	Subtitle  string     `json:"subtitle,omitempty"`
	VideoURL  string     `json:"videoUrl,omitempty"`
	Questions []Question `json:"questions,omitempty"`
}

// Template is a single learning unit (slide) within a course.
type Template struct {
	ID    string       `json:"id"`
	Type  TemplateType `json:"type"`
	Order int          `json:"order"`
	Title string       `json:"title"`
	Data  TemplateData `json:"data"`
}

// Asset is a media file referenced by the course. Export treats each as a
// named placeholder; no content bytes are embedded in the document.
type Asset struct {
	ID       string    `json:"id"`
	Path     string    `json:"path"`
	Type     AssetType `json:"type"`
	Name     string    `json:"name"`
	Size     int64     `json:"size,omitempty"`
	MimeType string    `json:"mimeType,omitempty"`
}

// NavigationSettings controls player navigation behavior.
type NavigationSettings struct {
	AllowSkip         bool `json:"allowSkip"`
	ShowProgress      bool `json:"showProgress"`
	LinearProgression bool `json:"linearProgression"`
}

// CourseSettings holds presentation settings.
type CourseSettings struct {
	Theme    string `json:"theme"`
	Autoplay bool   `json:"autoplay"`
	Duration int    `json:"duration,omitempty"`
}

// Course is the root authored document. It is constructed transiently per
// export request and is immutable once validation succeeds; the sanitizer
// produces a new copy rather than mutating in place.
type Course struct {
	CourseID    string             `json:"courseId"`
	Title       string             `json:"title"`
	Author      string             `json:"author"`
	Language    string             `json:"language"`
	Description string             `json:"description,omitempty"`
	Version     string             `json:"version"`
	CreatedAt   time.Time          `json:"createdAt"`
	UpdatedAt   time.Time          `json:"updatedAt"`
	Templates   []Template         `json:"templates"`
	Assets      []Asset            `json:"assets"`
	Navigation  NavigationSettings `json:"navigation"`
	Settings    CourseSettings     `json:"settings"`
}

// OrderedTemplates returns the course templates sorted by their declared
// display order, independent of array position.
func (c *Course) OrderedTemplates() []Template {
	ordered := make([]Template, len(c.Templates))
	copy(ordered, c.Templates)
	for i := 1; i < len(ordered); i++ {
		for j := i; j > 0 && ordered[j-1].Order > ordered[j].Order; j-- {
			ordered[j-1], ordered[j] = ordered[j], ordered[j-1]
		}
	}
	return ordered
}

// CheckOrderContiguity verifies that template order values form a zero-based,
// contiguous, duplicate-free sequence {0..N-1}. It is evaluated by the
// validator and again independently in the export path.
func CheckOrderContiguity(templates []Template) error {
	if len(templates) == 0 {
		return nil
	}
	seen := make(map[int]bool, len(templates))
	for _, t := range templates {
		if seen[t.Order] {
			return fmt.Errorf("template orders must be unique within the contiguous range 0..%d (duplicate order %d)",
				len(templates)-1, t.Order)
		}
		seen[t.Order] = true
	}
	for i := 0; i < len(templates); i++ {
		if !seen[i] {
			return fmt.Errorf("template orders must form a zero-based contiguous sequence 0..%d", len(templates)-1)
		}
	}
	return nil
}
