package routehandlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/jmcelroy/docent/ebook"
	"github.com/jmcelroy/docent/features"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/scorm"
	"github.com/jmcelroy/docent/validation"
	"github.com/jmcelroy/docent/webutil"
)

// Holds dependencies for export route handlers.
type ExportHandler struct {
	SCORM *scorm.Service
	EPUB  *ebook.CourseGenerator
	Flags *features.Flags
}

// Creates a new ExportHandler.
func NewExportHandler(scormService *scorm.Service, epubGenerator *ebook.CourseGenerator, flags *features.Flags) *ExportHandler {
	return &ExportHandler{SCORM: scormService, EPUB: epubGenerator, Flags: flags}
}

// HandleExportSCORM validates the submitted course document and streams
// back the generated SCORM package.
func (h *ExportHandler) HandleExportSCORM(w http.ResponseWriter, r *http.Request) error {
	raw, course, err := h.decodeAndValidate(r)
	if err != nil {
		return err
	}

	archive, err := h.SCORM.Generate(course)
	if err != nil {
		return mapGenerateError(err)
	}

	if h.Flags.ExportTraceHeaders {
		h.setTraceHeaders(w, raw, course)
	}

	fileName := course.CourseID + "_scorm_package.zip"
	w.Header().Set(webutil.HeaderContentType, "application/zip")
	w.Header().Set("Content-Disposition", `attachment; filename=`+fileName)
	w.Header().Set("Content-Length", strconv.Itoa(len(archive)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(archive)
	return nil
}

// HandleExportEPUB validates the course and streams back an EPUB handout.
// The colorImages query parameter keeps embedded images in color.
func (h *ExportHandler) HandleExportEPUB(w http.ResponseWriter, r *http.Request) error {
	if !h.Flags.EPUBExport {
		return webutil.ErrNotFound("EPUB export is not enabled")
	}

	_, course, err := h.decodeAndValidate(r)
	if err != nil {
		return err
	}

	colorImages := r.URL.Query().Get("colorImages") == "true"

	data, err := h.EPUB.Generate(r.Context(), course, colorImages)
	if err != nil {
		return fmt.Errorf("failed to generate EPUB for course %s: %w", course.CourseID, err)
	}

	w.Header().Set(webutil.HeaderContentType, "application/epub+zip")
	w.Header().Set("Content-Disposition", `attachment; filename=`+course.CourseID+".epub")
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
	return nil
}

// HandleValidateCourse runs the full validation pipeline without building
// a package and reports every violation found.
func (h *ExportHandler) HandleValidateCourse(w http.ResponseWriter, r *http.Request) error {
	req, err := decodeExportRequest(r)
	if err != nil {
		return err
	}

	report := models.ValidationReport{}

	course, err := validation.Validate(req.Course)
	if err != nil {
		var malformed *validation.MalformedInputError
		var structural *validation.StructuralErrors
		var business *validation.BusinessRuleErrors
		switch {
		case errors.As(err, &malformed):
			return webutil.ErrBadRequest(malformed.Error())
		case errors.As(err, &structural):
			report.Errors = structural.Errors
		case errors.As(err, &business):
			report.Errors = business.Errors
		default:
			return fmt.Errorf("course validation failed unexpectedly: %w", err)
		}
		webutil.RespondWithJSON(w, http.StatusOK, report)
		return nil
	}

	exportReport := scorm.ValidateForExport(course)
	estimate := scorm.EstimatePackageSize(course)

	report.Valid = exportReport.Valid
	for _, msg := range exportReport.Errors {
		report.Errors = append(report.Errors, models.FieldError{Path: "course", Message: msg})
	}
	report.Warnings = exportReport.Warnings
	report.TemplateCount = len(course.Templates)
	report.AssetCount = len(course.Assets)
	report.EstimatedSize = estimate.TotalBytes

	if hash, err := webutil.CanonicalJSONMD5(req.Course); err == nil {
		report.CourseHash = hash
	}

	webutil.RespondWithJSON(w, http.StatusOK, report)
	return nil
}

// HandleGetFormats lists the supported export formats.
func (h *ExportHandler) HandleGetFormats(w http.ResponseWriter, r *http.Request) error {
	formats := []models.ExportFormat{
		{
			ID:          "scorm_1.2",
			Name:        "SCORM",
			Version:     "1.2",
			Description: "Single-SCO SCORM 1.2 package for LMS import",
			Extension:   ".zip",
		},
	}
	if h.Flags.EPUBExport {
		formats = append(formats, models.ExportFormat{
			ID:          "epub",
			Name:        "EPUB",
			Version:     "3.0",
			Description: "EPUB handout with one chapter per slide",
			Extension:   ".epub",
		})
	}
	webutil.RespondWithJSON(w, http.StatusOK, formats)
	return nil
}

// HandleGetStatus reports the state of an export. Exports run
// synchronously inside the request, so any well-formed identifier reads
// as completed.
func (h *ExportHandler) HandleGetStatus(w http.ResponseWriter, r *http.Request) error {
	exportID := chi.URLParam(r, "id")
	if _, err := uuid.Parse(exportID); err != nil {
		return webutil.ErrBadRequest("Invalid export ID format")
	}

	webutil.RespondWithJSON(w, http.StatusOK, models.ExportStatus{
		ExportID: exportID,
		Status:   "completed",
		Message:  "Exports complete synchronously; the package was returned with the export response.",
	})
	return nil
}

// decodeAndValidate parses the request envelope and runs course
// validation, translating each failure class to its HTTP shape.
func (h *ExportHandler) decodeAndValidate(r *http.Request) (string, *models.Course, error) {
	req, err := decodeExportRequest(r)
	if err != nil {
		return "", nil, err
	}

	course, err := validation.Validate(req.Course)
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
	return req.Course, course, nil
}

func decodeExportRequest(r *http.Request) (*models.CourseExportRequest, error) {
	var req models.CourseExportRequest
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(&req); err != nil {
		return nil, webutil.ErrBadRequest("Invalid request payload: " + err.Error())
	}
	defer r.Body.Close()

	if req.Course == "" {
		return nil, webutil.ErrBadRequest("Missing course document")
	}
	return &req, nil
}

// setTraceHeaders attaches the course hash and advisory warnings so
// clients can correlate a download with the document that produced it.
func (h *ExportHandler) setTraceHeaders(w http.ResponseWriter, rawCourse string, course *models.Course) {
	if hash, err := webutil.CanonicalJSONMD5(rawCourse); err == nil {
		w.Header().Set("X-Course-Hash", hash)
	}
	report := scorm.ValidateForExport(course)
	if len(report.Warnings) > 0 {
		if encoded, err := json.Marshal(report.Warnings); err == nil {
			w.Header().Set("X-Export-Warnings", string(encoded))
		}
	}
}

// mapGenerateError translates package generation failures to their HTTP
// shapes. Limit violations are client problems; assembly and structure
// failures are ours.
func mapGenerateError(err error) error {
	var tooManyTemplates *scorm.TooManyTemplatesError
	var tooManyAssets *scorm.TooManyAssetsError
	var tooLarge *scorm.PackageTooLargeError
	switch {
	case errors.As(err, &tooManyTemplates):
		return webutil.ErrUnprocessableEntity(tooManyTemplates.Error())
	case errors.As(err, &tooManyAssets):
		return webutil.ErrUnprocessableEntity(tooManyAssets.Error())
	case errors.As(err, &tooLarge):
		return webutil.ErrPayloadTooLarge(tooLarge.Error())
	default:
		return fmt.Errorf("package generation failed: %w", err)
	}
}
