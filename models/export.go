package models

// CourseExportRequest is the body of an export call. The authored course
// travels as a JSON string inside the envelope so the pipeline sees the
// exact bytes the client produced.
type CourseExportRequest struct {
	Course string `json:"course"`
}

// FieldError locates a single validation violation within the document.
type FieldError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// ValidationReport is the response body of a dry-run validation call.
type ValidationReport struct {
	Valid         bool         `json:"valid"`
	Errors        []FieldError `json:"errors,omitempty"`
	Warnings      []string     `json:"warnings,omitempty"`
	TemplateCount int          `json:"templateCount"`
	AssetCount    int          `json:"assetCount"`
	EstimatedSize int64        `json:"estimatedSizeBytes"`
	CourseHash    string       `json:"courseHash,omitempty"`
}

// ExportFormat describes one supported output format.
type ExportFormat struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Version     string `json:"version"`
	Description string `json:"description"`
	Extension   string `json:"extension"`
}

// ExportStatus reports the state of an export by identifier. Exports run
// synchronously, so a well-formed identifier always reads as completed.
type ExportStatus struct {
	ExportID string `json:"exportId"`
	Status   string `json:"status"`
	Message  string `json:"message,omitempty"`
}
