package datastore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jmcelroy/docent/models"
)

// CourseRepository handles database operations for course records.
type CourseRepository struct {
	db *sql.DB
}

// NewCourseRepository creates a new CourseRepository.
func NewCourseRepository(db *sql.DB) *CourseRepository {
	return &CourseRepository{db: db}
}

// CreateCourse inserts a new course record. The caller provides the
// generated row ID; the authored document travels as a JSON blob.
func (r *CourseRepository) CreateCourse(ctx context.Context, course *models.CourseRecord) error {
	if course.ID == "" || course.CourseID == "" || course.Title == "" || course.Author == "" {
		return fmt.Errorf("missing required fields for creating course")
	}
	if _, err := uuid.Parse(course.ID); err != nil {
		return fmt.Errorf("invalid course row ID format: %w", err)
	}

	if course.CreatedAt.IsZero() {
		course.CreatedAt = time.Now().UTC()
	}
	course.UpdatedAt = course.CreatedAt

	query := `
		INSERT INTO courses (
			id, course_id, title, author, language, version, document,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	_, err := r.db.ExecContext(ctx, query,
		course.ID, course.CourseID, course.Title, course.Author, course.Language,
		course.Version, course.Document, course.CreatedAt, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert course: %w", err)
	}
	return nil
}

// GetCourseByID retrieves a course record by its row ID.
func (r *CourseRepository) GetCourseByID(ctx context.Context, id string) (*models.CourseRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, fmt.Errorf("invalid course row ID format: %w", err)
	}

	query := `
		SELECT id, course_id, title, author, language, version, document,
		       created_at, updated_at
		FROM courses
		WHERE id = $1
	`
	var course models.CourseRecord
	row := r.db.QueryRowContext(ctx, query, id)
	err := row.Scan(
		&course.ID, &course.CourseID, &course.Title, &course.Author, &course.Language,
		&course.Version, &course.Document, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get course by ID: %w", err)
	}
	return &course, nil
}

// GetCourseByCourseID retrieves a course record by its authored course
// identifier. Returns nil, nil when no record exists, since a fresh
// identifier is not an application error.
func (r *CourseRepository) GetCourseByCourseID(ctx context.Context, courseID string) (*models.CourseRecord, error) {
	if courseID == "" {
		return nil, fmt.Errorf("course identifier cannot be empty")
	}

	query := `
		SELECT id, course_id, title, author, language, version, document,
		       created_at, updated_at
		FROM courses
		WHERE course_id = $1
		LIMIT 1
	`
	var course models.CourseRecord
	row := r.db.QueryRowContext(ctx, query, courseID)
	err := row.Scan(
		&course.ID, &course.CourseID, &course.Title, &course.Author, &course.Language,
		&course.Version, &course.Document, &course.CreatedAt, &course.UpdatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get course by course identifier: %w", err)
	}
	return &course, nil
}

// ListCourses retrieves all course records, newest first.
func (r *CourseRepository) ListCourses(ctx context.Context) ([]models.CourseRecord, error) {
	query := `
		SELECT id, course_id, title, author, language, version, document,
		       created_at, updated_at
		FROM courses
		ORDER BY updated_at DESC
	`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query courses: %w", err)
	}
	defer rows.Close()

	var courses []models.CourseRecord
	for rows.Next() {
		var course models.CourseRecord
		if err := rows.Scan(
			&course.ID, &course.CourseID, &course.Title, &course.Author, &course.Language,
			&course.Version, &course.Document, &course.CreatedAt, &course.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan course row: %w", err)
		}
		courses = append(courses, course)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating course rows: %w", err)
	}

	if courses == nil {
		courses = []models.CourseRecord{}
	}
	return courses, nil
}

// UpdateCourse replaces the stored document and flattened columns for an
// existing course record.
func (r *CourseRepository) UpdateCourse(ctx context.Context, course *models.CourseRecord) error {
	if _, err := uuid.Parse(course.ID); err != nil {
		return fmt.Errorf("invalid course row ID format: %w", err)
	}

	course.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE courses
		SET title = $2, author = $3, language = $4, version = $5,
		    document = $6, updated_at = $7
		WHERE id = $1
	`
	result, err := r.db.ExecContext(ctx, query,
		course.ID, course.Title, course.Author, course.Language,
		course.Version, course.Document, course.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check update result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteCourse removes a course record and, via FK cascade, its templates.
func (r *CourseRepository) DeleteCourse(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return fmt.Errorf("invalid course row ID format: %w", err)
	}

	result, err := r.db.ExecContext(ctx, `DELETE FROM courses WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete course: %w", err)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check delete result: %w", err)
	}
	if affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}
