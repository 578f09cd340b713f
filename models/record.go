package models

import "time"

// CourseRecord is a persisted course row. The authored document itself is
// stored as a JSON blob; the flattened columns exist for listing and search.
type CourseRecord struct {
	ID          string    `json:"id"`
	CourseID    string    `json:"courseId"`
	Title       string    `json:"title"`
	Author      string    `json:"author"`
	Language    string    `json:"language"`
	Version     string    `json:"version"`
	Document    string    `json:"document"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// TemplateRecord is a persisted template row scoped to a course record.
type TemplateRecord struct {
	ID         string    `json:"id"`
	CourseID   string    `json:"courseId"`
	TemplateID string    `json:"templateId"`
	Type       string    `json:"type"`
	Order      int       `json:"order"`
	Title      string    `json:"title"`
	Data       string    `json:"data"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MediaRecord describes an uploaded media file kept by the content store.
type MediaRecord struct {
	ID         string    `json:"id"`
	FileName   string    `json:"fileName"`
	StoredPath string    `json:"storedPath"`
	MimeType   string    `json:"mimeType"`
	Size       int64     `json:"size"`
	SHA256     string    `json:"sha256"`
	UploadedAt time.Time `json:"uploadedAt"`
}
