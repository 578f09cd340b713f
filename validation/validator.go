package validation

import (
	"encoding/json"
	"fmt"
	"log"
	"regexp"
	"strings"
	"time"

	"github.com/jmcelroy/docent/models"
)

const (
	maxCourseIDLength    = 50
	maxTitleLength       = 200
	maxAuthorLength      = 100
	maxDescriptionLength = 500
	maxTemplateTitle     = 100
	minQuestionOptions   = 2
	maxQuestionOptions   = 6
	maxTemplateCount     = 100
)

var (
	courseIDPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]+$`)
	versionPattern  = regexp.MustCompile(`^\d+\.\d+\.\d+$`)

	validLanguages = map[string]bool{
		"en": true, "es": true, "fr": true, "de": true, "it": true, "pt": true,
		"nl": true, "pl": true, "ru": true, "ja": true, "ko": true, "zh": true,
	}

	validThemes = map[string]bool{
		"default": true, "dark": true, "light": true, "corporate": true,
	}
)

// Validate runs the full validation pipeline on a raw course document:
// parse, legacy MCQ shape recovery, structural validation, then business
// rules. On success the returned course is fully typed and every later
// stage may rely on its shape. Validation never mutates its input string
// and is idempotent over the document it accepts.
func Validate(raw string) (*models.Course, error) {
	var doc map[string]any
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, &MalformedInputError{Err: err}
	}

	if notes := NormalizeMCQShapes(doc); len(notes) > 0 {
		for _, n := range notes {
			log.Printf("WARN (Validator): %s", n)
		}
	}

	course, structErrs := decodeCourse(doc)
	if len(structErrs) > 0 {
		log.Printf("WARN (Validator): structural validation failed with %d errors", len(structErrs))
		return nil, &StructuralErrors{Errors: structErrs}
	}

	if bizErrs := checkBusinessRules(course); len(bizErrs) > 0 {
		log.Printf("WARN (Validator): business validation failed with %d errors", len(bizErrs))
		return nil, &BusinessRuleErrors{Errors: bizErrs}
	}

	log.Printf("INFO (Validator): course %s validated (%d templates, %d assets)",
		course.CourseID, len(course.Templates), len(course.Assets))
	return course, nil
}

// errList collects field errors during a decoding pass.
type errList struct {
	errs []models.FieldError
}

func (l *errList) add(path, message string) {
	l.errs = append(l.errs, models.FieldError{Path: path, Message: message})
}

// decodeCourse builds a typed course from the decoded document, collecting
// every structural violation instead of stopping at the first. A non-empty
// error list means the returned course must not be used.
func decodeCourse(doc map[string]any) (*models.Course, []models.FieldError) {
	el := &errList{}
	c := &models.Course{}

	c.CourseID = requireString(el, doc, "courseId")
	if c.CourseID != "" {
		if len(c.CourseID) > maxCourseIDLength {
			el.add("courseId", fmt.Sprintf("Course ID cannot exceed %d characters", maxCourseIDLength))
		}
		if !courseIDPattern.MatchString(c.CourseID) {
			el.add("courseId", "Course ID can only contain letters, numbers, hyphens, and underscores")
		}
	}

	c.Title = requireString(el, doc, "title")
	if len(c.Title) > maxTitleLength {
		el.add("title", fmt.Sprintf("Course title cannot exceed %d characters", maxTitleLength))
	}

	c.Author = requireString(el, doc, "author")
	if len(c.Author) > maxAuthorLength {
		el.add("author", fmt.Sprintf("Course author cannot exceed %d characters", maxAuthorLength))
	}

	c.Description = optionalString(el, doc, "description")
	if len(c.Description) > maxDescriptionLength {
		el.add("description", fmt.Sprintf("Course description cannot exceed %d characters", maxDescriptionLength))
	}

	c.Version = optionalString(el, doc, "version")
	if c.Version == "" {
		c.Version = "1.0.0"
	} else if !versionPattern.MatchString(c.Version) {
		el.add("version", "Course version must be semantic (major.minor.patch)")
	}

	c.Language = optionalString(el, doc, "language")
	if c.Language == "" {
		c.Language = "en"
	} else if !validLanguages[c.Language] {
		el.add("language", fmt.Sprintf("Unsupported language code %q", c.Language))
	}

	c.CreatedAt = optionalTime(el, doc, "createdAt")
	c.UpdatedAt = optionalTime(el, doc, "updatedAt")

	c.Templates = decodeTemplates(el, doc)
	c.Assets = decodeAssets(el, doc)
	c.Navigation = decodeNavigation(el, doc)
	c.Settings = decodeSettings(el, doc)

	return c, el.errs
}

func decodeTemplates(el *errList, doc map[string]any) []models.Template {
	raw, present := doc["templates"]
	if !present {
		el.add("templates", "Course templates are required")
		return nil
	}
	list, ok := raw.([]any)
	if !ok {
		el.add("templates", "Templates must be an array")
		return nil
	}

	templates := make([]models.Template, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("templates[%d]", i)
		tm, ok := item.(map[string]any)
		if !ok {
			el.add(path, "Template must be an object")
			continue
		}

		var t models.Template
		t.ID = requireStringAt(el, tm, "id", path+".id", "Template ID is required")
		t.Title = requireStringAt(el, tm, "title", path+".title", "Template title is required")
		if len(t.Title) > maxTemplateTitle {
			el.add(path+".title", fmt.Sprintf("Template title cannot exceed %d characters", maxTemplateTitle))
		}

		typeStr, _ := tm["type"].(string)
		tt, valid := models.IsValidTemplateType(typeStr)
		if !valid {
			el.add(path+".type", "Invalid template type. Must be one of: "+strings.Join(models.TemplateTypeNames(), ", "))
		}
		t.Type = tt

		order, ok := intValue(tm["order"])
		switch {
		case !ok:
			el.add(path+".order", "Template order must be an integer")
		case order < 0:
			el.add(path+".order", "Template order must be zero or greater")
		default:
			t.Order = order
		}

		dataRaw, present := tm["data"]
		if !present {
			el.add(path+".data", "Template data is required")
		} else if dm, ok := dataRaw.(map[string]any); ok {
			t.Data = decodeTemplateData(el, dm, path+".data")
		} else {
			el.add(path+".data", "Template data must be an object")
		}

		templates = append(templates, t)
	}
	return templates
}

func decodeTemplateData(el *errList, dm map[string]any, path string) models.TemplateData {
	var d models.TemplateData
	d.Content = optionalStringAt(el, dm, "content", path+".content")
	d.Subtitle = optionalStringAt(el, dm, "subtitle", path+".subtitle")
	d.VideoURL = optionalStringAt(el, dm, "videoUrl", path+".videoUrl")

	qsRaw, present := dm["questions"]
	if !present {
		return d
	}
	qs, ok := qsRaw.([]any)
	if !ok {
		el.add(path+".questions", "Questions must be an array")
		return d
	}

	for qi, qRaw := range qs {
		qPath := fmt.Sprintf("%s.questions[%d]", path, qi)
		qm, ok := qRaw.(map[string]any)
		if !ok {
			el.add(qPath, "Question must be an object")
			continue
		}

		var q models.Question
		q.ID, _ = qm["id"].(string)
		q.Question = requireStringAt(el, qm, "question", qPath+".question", "Question text is required")

		optsRaw, _ := qm["options"].([]any)
		if n := len(optsRaw); n < minQuestionOptions || n > maxQuestionOptions {
			el.add(qPath+".options", fmt.Sprintf("Question must have between %d and %d options", minQuestionOptions, maxQuestionOptions))
		}
		for oi, oRaw := range optsRaw {
			oPath := fmt.Sprintf("%s.options[%d]", qPath, oi)
			om, ok := oRaw.(map[string]any)
			if !ok {
				el.add(oPath, "Option must be an object")
				continue
			}
			var opt models.QuestionOption
			opt.ID = requireStringAt(el, om, "id", oPath+".id", "Option ID is required")
			opt.Text = requireStringAt(el, om, "text", oPath+".text", "Option text is required")
			opt.IsCorrect = models.FlexBool(models.CoerceBool(om["isCorrect"]))
			q.Options = append(q.Options, opt)
		}
		d.Questions = append(d.Questions, q)
	}
	return d
}

func decodeAssets(el *errList, doc map[string]any) []models.Asset {
	raw, present := doc["assets"]
	if !present {
		return []models.Asset{}
	}
	list, ok := raw.([]any)
	if !ok {
		el.add("assets", "Assets must be an array")
		return []models.Asset{}
	}

	assets := make([]models.Asset, 0, len(list))
	for i, item := range list {
		path := fmt.Sprintf("assets[%d]", i)
		am, ok := item.(map[string]any)
		if !ok {
			el.add(path, "Asset must be an object")
			continue
		}

		var a models.Asset
		a.ID = requireStringAt(el, am, "id", path+".id", "Asset ID is required")
		a.Path = requireStringAt(el, am, "path", path+".path", "Asset path is required")
		a.Name = requireStringAt(el, am, "name", path+".name", "Asset name is required")

		typeStr, _ := am["type"].(string)
		at, valid := models.IsValidAssetType(typeStr)
		if !valid {
			el.add(path+".type", "Invalid asset type. Must be one of: image, video, audio, document, other")
		}
		a.Type = at

		if size, ok := intValue(am["size"]); ok {
			a.Size = int64(size)
		}
		a.MimeType, _ = am["mimeType"].(string)
		assets = append(assets, a)
	}
	return assets
}

func decodeNavigation(el *errList, doc map[string]any) models.NavigationSettings {
	nav := models.NavigationSettings{AllowSkip: true, ShowProgress: true, LinearProgression: false}
	raw, present := doc["navigation"]
	if !present {
		return nav
	}
	nm, ok := raw.(map[string]any)
	if !ok {
		el.add("navigation", "Navigation settings must be an object")
		return nav
	}
	nav.AllowSkip = boolField(el, nm, "allowSkip", "navigation.allowSkip", nav.AllowSkip)
	nav.ShowProgress = boolField(el, nm, "showProgress", "navigation.showProgress", nav.ShowProgress)
	nav.LinearProgression = boolField(el, nm, "linearProgression", "navigation.linearProgression", nav.LinearProgression)
	return nav
}

func decodeSettings(el *errList, doc map[string]any) models.CourseSettings {
	s := models.CourseSettings{Theme: "default"}
	raw, present := doc["settings"]
	if !present {
		return s
	}
	sm, ok := raw.(map[string]any)
	if !ok {
		el.add("settings", "Course settings must be an object")
		return s
	}
	if theme, ok := sm["theme"].(string); ok && theme != "" {
		if !validThemes[theme] {
			el.add("settings.theme", fmt.Sprintf("Unsupported theme %q", theme))
		} else {
			s.Theme = theme
		}
	}
	s.Autoplay = boolField(el, sm, "autoplay", "settings.autoplay", false)
	if d, ok := intValue(sm["duration"]); ok {
		s.Duration = d
	}
	return s
}

// checkBusinessRules applies the rules that assume a structurally sound
// course: blank-after-trim checks, the tighter published length ceilings,
// template count and ordering, and the per-type content requirements.
func checkBusinessRules(c *models.Course) []models.FieldError {
	el := &errList{}

	if strings.TrimSpace(c.CourseID) == "" {
		el.add("courseId", "Course ID is required")
	}
	if strings.TrimSpace(c.Title) == "" {
		el.add("title", "Course title is required")
	} else if len(c.Title) > 100 {
		el.add("title", "Course title cannot exceed 100 characters")
	}
	if strings.TrimSpace(c.Author) == "" {
		el.add("author", "Course author is required")
	}
	if len(c.Description) > 1000 {
		el.add("description", "Course description cannot exceed 1000 characters")
	}

	checkTemplateRules(el, c.Templates)
	return el.errs
}

func checkTemplateRules(el *errList, templates []models.Template) {
	if len(templates) == 0 {
		el.add("templates", "Course must have at least one template")
		return
	}
	if len(templates) > maxTemplateCount {
		el.add("templates", fmt.Sprintf("Course cannot have more than %d templates", maxTemplateCount))
	}

	if err := models.CheckOrderContiguity(templates); err != nil {
		el.add("templates.order", err.Error())
	}

	for i, t := range templates {
		prefix := fmt.Sprintf("templates[%d]", i)
		switch t.Type {
		case models.TemplateTypeMCQ:
			checkMCQRules(el, t, prefix)
		case models.TemplateTypeWelcome:
			if strings.TrimSpace(t.Data.Content) == "" {
				el.add(prefix+".data.content", "Welcome content is required")
			}
		case models.TemplateTypeContentText:
			if strings.TrimSpace(t.Data.Content) == "" {
				el.add(prefix+".data.content", "Content is required")
			}
		case models.TemplateTypeContentVideo:
			if strings.TrimSpace(t.Data.Content) == "" && strings.TrimSpace(t.Data.VideoURL) == "" {
				el.add(prefix+".data", "Video templates require content or a video URL")
			}
		case models.TemplateTypeSummary:
			if strings.TrimSpace(t.Data.Content) == "" {
				el.add(prefix+".data.content", "Summary content is required")
			}
		}
	}
}

func checkMCQRules(el *errList, t models.Template, prefix string) {
	if len(t.Data.Questions) == 0 {
		el.add(prefix+".data.questions", "MCQ template must have at least one question")
		return
	}
	for qi, q := range t.Data.Questions {
		qPath := fmt.Sprintf("%s.data.questions[%d]", prefix, qi)
		if strings.TrimSpace(q.Question) == "" {
			el.add(qPath+".question", "Question text is required")
		}
		correct := 0
		for _, opt := range q.Options {
			if bool(opt.IsCorrect) {
				correct++
			}
		}
		if correct != 1 {
			el.add(qPath+".options", "Each question must have exactly one correct answer")
		}
	}
}

func requireString(el *errList, m map[string]any, key string) string {
	return requireStringAt(el, m, key, key, "Course "+key+" is required")
}

func requireStringAt(el *errList, m map[string]any, key, path, missingMsg string) string {
	raw, present := m[key]
	if !present {
		el.add(path, missingMsg)
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		el.add(path, "Value must be a string")
		return ""
	}
	if s == "" {
		el.add(path, missingMsg)
	}
	return s
}

func optionalString(el *errList, m map[string]any, key string) string {
	return optionalStringAt(el, m, key, key)
}

func optionalStringAt(el *errList, m map[string]any, key, path string) string {
	raw, present := m[key]
	if !present || raw == nil {
		return ""
	}
	s, ok := raw.(string)
	if !ok {
		el.add(path, "Value must be a string")
		return ""
	}
	return s
}

func optionalTime(el *errList, m map[string]any, key string) time.Time {
	raw, present := m[key]
	if !present || raw == nil {
		return time.Now().UTC()
	}
	s, ok := raw.(string)
	if !ok {
		el.add(key, "Timestamp must be an RFC 3339 string")
		return time.Now().UTC()
	}
	ts, err := time.Parse(time.RFC3339, s)
	if err != nil {
		el.add(key, "Timestamp must be an RFC 3339 string")
		return time.Now().UTC()
	}
	return ts
}

func boolField(el *errList, m map[string]any, key, path string, def bool) bool {
	raw, present := m[key]
	if !present {
		return def
	}
	b, ok := raw.(bool)
	if !ok {
		el.add(path, "Value must be a boolean")
		return def
	}
	return b
}

// intValue accepts a JSON number only when it carries no fractional part.
func intValue(raw any) (int, bool) {
	f, ok := raw.(float64)
	if !ok {
		return 0, false
	}
	n := int(f)
	if float64(n) != f {
		return 0, false
	}
	return n, true
}
