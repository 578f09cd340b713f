package routehandlers

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcelroy/docent/datastore"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/validation"
	"github.com/jmcelroy/docent/webutil"
)

// maxCourseBodyBytes bounds a stored course document. Export limits cap
// package size separately; this only protects the decode path.
const maxCourseBodyBytes = 10 * 1024 * 1024

// Holds dependencies for course route handlers.
type CourseHandler struct {
	Courses   *datastore.CourseRepository
	Templates *datastore.TemplateRepository
}

// Creates a new CourseHandler.
func NewCourseHandler(courses *datastore.CourseRepository, templates *datastore.TemplateRepository) *CourseHandler {
	return &CourseHandler{Courses: courses, Templates: templates}
}

func (h *CourseHandler) HandleGetCourses(w http.ResponseWriter, r *http.Request) error {
	courses, err := h.Courses.ListCourses(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve courses: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, courses)
	return nil
}

func (h *CourseHandler) HandleGetCourse(w http.ResponseWriter, r *http.Request) error {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	course, err := h.Courses.GetCourseByID(r.Context(), courseID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to retrieve course %s: %w", courseID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, course)
	return nil
}

func (h *CourseHandler) HandleGetCourseTemplates(w http.ResponseWriter, r *http.Request) error {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	templates, err := h.Templates.ListTemplatesByCourseID(r.Context(), courseID)
	if err != nil {
		return fmt.Errorf("failed to retrieve templates for course %s: %w", courseID, err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, templates)
	return nil
}

// HandleCreateCourse validates the submitted document and stores it along
// with its template rows. The body is the raw course document, not an
// envelope, so the stored blob is exactly what the client authored.
func (h *CourseHandler) HandleCreateCourse(w http.ResponseWriter, r *http.Request) error {
	raw, course, err := h.readAndValidate(r)
	if err != nil {
		return err
	}

	existing, err := h.Courses.GetCourseByCourseID(r.Context(), course.CourseID)
	if err != nil {
		return fmt.Errorf("failed to check for existing course %s: %w", course.CourseID, err)
	}
	if existing != nil {
		return webutil.ErrConflict(fmt.Sprintf("A course with identifier %q already exists", course.CourseID))
	}

	record := courseRecordFrom(raw, course)
	record.ID = uuid.NewString()
	record.CreatedAt = time.Now().UTC()

	if err := h.Courses.CreateCourse(r.Context(), record); err != nil {
		return fmt.Errorf("failed to create course %q: %w", course.CourseID, err)
	}
	if err := h.Templates.ReplaceTemplates(r.Context(), record.ID, templateRecordsFrom(course)); err != nil {
		return fmt.Errorf("failed to store templates for course %q: %w", course.CourseID, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, record)
	return nil
}

// HandleUpdateCourse replaces a stored course with a newly validated
// document. The course identifier inside the document must match the
// stored one; identity is not mutable through update.
func (h *CourseHandler) HandleUpdateCourse(w http.ResponseWriter, r *http.Request) error {
	rowID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(rowID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	raw, course, err := h.readAndValidate(r)
	if err != nil {
		return err
	}

	existing, err := h.Courses.GetCourseByID(r.Context(), rowID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to retrieve course %s: %w", rowID, err)
	}
	if existing.CourseID != course.CourseID {
		return webutil.ErrBadRequest(fmt.Sprintf(
			"Course identifier cannot change on update (stored %q, submitted %q)", existing.CourseID, course.CourseID))
	}

	record := courseRecordFrom(raw, course)
	record.ID = rowID

	if err := h.Courses.UpdateCourse(r.Context(), record); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to update course %s: %w", rowID, err)
	}
	if err := h.Templates.ReplaceTemplates(r.Context(), rowID, templateRecordsFrom(course)); err != nil {
		return fmt.Errorf("failed to replace templates for course %s: %w", rowID, err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, record)
	return nil
}

func (h *CourseHandler) HandleDeleteCourse(w http.ResponseWriter, r *http.Request) error {
	courseID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(courseID); err != nil {
		return webutil.ErrBadRequest("Invalid course ID format")
	}

	if err := h.Courses.DeleteCourse(r.Context(), courseID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return webutil.ErrNotFound("Course not found")
		}
		return fmt.Errorf("failed to delete course %s: %w", courseID, err)
	}

	w.WriteHeader(http.StatusNoContent)
	return nil
}

// readAndValidate consumes the request body as a raw course document and
// runs the validation pipeline on it.
func (h *CourseHandler) readAndValidate(r *http.Request) (string, *models.Course, error) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCourseBodyBytes+1))
	if err != nil {
		return "", nil, webutil.ErrBadRequest("Failed to read request body: " + err.Error())
	}
	defer r.Body.Close()

	if len(body) > maxCourseBodyBytes {
		return "", nil, webutil.ErrPayloadTooLarge("Course document exceeds the 10MB limit")
	}

	course, err := validation.Validate(string(body))
	if err != nil {
		var malformed *validation.MalformedInputError
		var structural *validation.StructuralErrors
		var business *validation.BusinessRuleErrors
		switch {
		case errors.As(err, &malformed):
			return "", nil, webutil.ErrBadRequest(malformed.Error())
		case errors.As(err, &structural):
			return "", nil, webutil.ErrUnprocessableEntity("Course failed structural validation").WithDetails(structural.Errors)
		case errors.As(err, &business):
			return "", nil, webutil.ErrUnprocessableEntity("Course failed business rule validation").WithDetails(business.Errors)
		default:
			return "", nil, fmt.Errorf("course validation failed unexpectedly: %w", err)
		}
	}
	return string(body), course, nil
}

func courseRecordFrom(raw string, course *models.Course) *models.CourseRecord {
	return &models.CourseRecord{
		CourseID: course.CourseID,
		Title:    course.Title,
		Author:   course.Author,
		Language: course.Language,
		Version:  course.Version,
		Document: raw,
	}
}

func templateRecordsFrom(course *models.Course) []models.TemplateRecord {
	records := make([]models.TemplateRecord, 0, len(course.Templates))
	for _, t := range course.OrderedTemplates() {
		data, err := json.Marshal(t.Data)
		if err != nil {
			data = []byte("{}")
		}
		records = append(records, models.TemplateRecord{
			TemplateID: t.ID,
			Type:       string(t.Type),
			Order:      t.Order,
			Title:      t.Title,
			Data:       string(data),
		})
	}
	return records
}
