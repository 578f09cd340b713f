package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcelroy/docent/models"
)

// TemplateRepository handles database operations for template records
// scoped to a stored course.
type TemplateRepository struct {
	db *sql.DB
}

// NewTemplateRepository creates a new TemplateRepository.
func NewTemplateRepository(db *sql.DB) *TemplateRepository {
	return &TemplateRepository{db: db}
}

// ReplaceTemplates swaps the full template set of a course in one
// transaction. Template records are always written as a complete ordered
// set so the stored rows mirror the authored document.
func (r *TemplateRepository) ReplaceTemplates(ctx context.Context, courseRowID string, templates []models.TemplateRecord) error {
	if _, err := uuid.Parse(courseRowID); err != nil {
		return fmt.Errorf("invalid course row ID format: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `DELETE FROM course_templates WHERE course_id = $1`, courseRowID); err != nil {
		return fmt.Errorf("failed to clear existing templates: %w", err)
	}

	query := `
		INSERT INTO course_templates (
			id, course_id, template_id, type, display_order, title, data,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	now := time.Now().UTC()
	for _, t := range templates {
		if t.ID == "" {
			t.ID = uuid.NewString()
		}
		if _, err := tx.ExecContext(ctx, query,
			t.ID, courseRowID, t.TemplateID, t.Type, t.Order, t.Title, t.Data, now, now,
		); err != nil {
			return fmt.Errorf("failed to insert template %s: %w", t.TemplateID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit template replacement: %w", err)
	}
	return nil
}

// ListTemplatesByCourseID retrieves a course's template records in display
// order.
func (r *TemplateRepository) ListTemplatesByCourseID(ctx context.Context, courseRowID string) ([]models.TemplateRecord, error) {
	if _, err := uuid.Parse(courseRowID); err != nil {
		return nil, fmt.Errorf("invalid course row ID format: %w", err)
	}

	query := `
		SELECT id, course_id, template_id, type, display_order, title, data,
		       created_at, updated_at
		FROM course_templates
		WHERE course_id = $1
		ORDER BY display_order ASC
	`
	rows, err := r.db.QueryContext(ctx, query, courseRowID)
	if err != nil {
		return nil, fmt.Errorf("failed to query templates: %w", err)
	}
	defer rows.Close()

	var templates []models.TemplateRecord
	for rows.Next() {
		var t models.TemplateRecord
		if err := rows.Scan(
			&t.ID, &t.CourseID, &t.TemplateID, &t.Type, &t.Order, &t.Title, &t.Data,
			&t.CreatedAt, &t.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, t)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating template rows: %w", err)
	}

	if templates == nil {
		templates = []models.TemplateRecord{}
	}
	return templates, nil
}

// GetTemplateByID retrieves a single template record.
func (r *TemplateRepository) GetTemplateByID(ctx context.Context, id string) (*models.TemplateRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid template row ID format: %w", err)
	}

	query := `
		SELECT id, course_id, template_id, type, display_order, title, data,
		       created_at, updated_at
		FROM course_templates
		WHERE id = $1
	`
	var t models.TemplateRecord
	row := r.db.QueryRowContext(ctx, query, id)
	err := row.Scan(
		&t.ID, &t.CourseID, &t.TemplateID, &t.Type, &t.Order, &t.Title, &t.Data,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get template by ID: %w", err)
	}
	return &t, nil
}
