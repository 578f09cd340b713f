package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcelroy/docent/models"
)

// MediaRepository handles database operations for uploaded media records.
type MediaRepository struct {
	db *sql.DB
}

// NewMediaRepository creates a new MediaRepository.
func NewMediaRepository(db *sql.DB) *MediaRepository {
	return &MediaRepository{db: db}
}

// CreateMedia inserts a record for a stored upload.
func (r *MediaRepository) CreateMedia(ctx context.Context, media *models.MediaRecord) error {
	if media.ID == "" || media.FileName == "" || media.StoredPath == "" || media.SHA256 == "" {
		return fmt.Errorf("missing required fields for creating media record")
	}
	if _, err := uuid.Parse(media.ID); err != nil {
		return fmt.Errorf("invalid media ID format: %w", err)
	}

	if media.UploadedAt.IsZero() {
		media.UploadedAt = time.Now().UTC()
	}

	query := `
		INSERT INTO media_files (id, file_name, stored_path, mime_type, size_bytes, sha256, uploaded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	_, err := r.db.ExecContext(ctx, query,
		media.ID, media.FileName, media.StoredPath, media.MimeType, media.Size, media.SHA256, media.UploadedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert media record: %w", err)
	}
	return nil
}

// GetMediaBySHA256 retrieves a media record by content hash.
// Returns nil, nil when no record exists; new content is not an error.
func (r *MediaRepository) GetMediaBySHA256(ctx context.Context, hash string) (*models.MediaRecord, error) {
	if len(hash) != 64 {
		return nil, fmt.Errorf("invalid content hash format (expected 64 hex characters)")
	}

	query := `
		SELECT id, file_name, stored_path, mime_type, size_bytes, sha256, uploaded_at
		FROM media_files
		WHERE sha256 = $1
		LIMIT 1
	`
	var media models.MediaRecord
	row := r.db.QueryRowContext(ctx, query, hash)
	err := row.Scan(
		&media.ID, &media.FileName, &media.StoredPath, &media.MimeType,
		&media.Size, &media.SHA256, &media.UploadedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get media by content hash: %w", err)
	}
	return &media, nil
}

// ListMedia retrieves all media records, newest first.
func (r *MediaRepository) ListMedia(ctx context.Context) ([]models.MediaRecord, error) {
	query := `
		SELECT id, file_name, stored_path, mime_type, size_bytes, sha256, uploaded_at
		FROM media_files
		ORDER BY uploaded_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query media records: %w", err)
	}
	defer rows.Close()

	var records []models.MediaRecord
	for rows.Next() {
		var media models.MediaRecord
		if err := rows.Scan(
			&media.ID, &media.FileName, &media.StoredPath, &media.MimeType,
			&media.Size, &media.SHA256, &media.UploadedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan media row: %w", err)
		}
		records = append(records, media)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating media rows: %w", err)
	}

	if records == nil {
		records = []models.MediaRecord{}
	}
	return records, nil
}
