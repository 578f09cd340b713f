package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	rh "github.com/jmcelroy/docent/route-handlers"
	"github.com/jmcelroy/docent/webutil"
)

const (
	apiBasePath     = "/api/v1"
	coursesBasePath = "/courses"
	exportBasePath  = "/export"
	mediaBasePath   = "/media"
	importBasePath  = "/import"
)

const (
	templatesSubPath = "/templates"
	validateSubPath  = "/validate"
	formatsSubPath   = "/formats"
	statusSubPath    = "/status"
	uploadSubPath    = "/upload"
	scormSubPath     = "/scorm"
	epubSubPath      = "/epub"
	contentSubPath   = "/content"
)

const (
	paramID = "id" // General parameter name for resource IDs
)

func SetupRoutes(
	courseHandler *rh.CourseHandler,
	exportHandler *rh.ExportHandler,
	mediaHandler *rh.MediaHandler,
	importHandler *rh.ImportHandler,
) http.Handler {
	r := chi.NewRouter()

	// Middleware stack
	r.Use(RequestID)
	r.Use(RealIP)
	r.Use(Logger)
	r.Use(Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Route(apiBasePath, func(r chi.Router) {
		configureCourseRoutes(r, courseHandler)
		configureExportRoutes(r, exportHandler)
		configureMediaRoutes(r, mediaHandler)
		configureImportRoutes(r, importHandler)
	})

	// Health check endpoint
	r.Get("/healthz", handleHealthCheck)

	return r
}

// Helper for constructing paths with a parameter
func pathWithParam(basePath string, paramName string) string {
	if basePath == "" {
		return "/{" + paramName + "}"
	}
	return basePath + "/{" + paramName + "}"
}

// --- Course Routes ---
func configureCourseRoutes(r chi.Router, handler *rh.CourseHandler) {
	specificCoursePath := pathWithParam("", paramID)

	r.Route(coursesBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleGetCourses))
		r.Post("/", webutil.MakeHandler(handler.HandleCreateCourse))
		r.Route(specificCoursePath, func(r chi.Router) {
			r.Get("/", webutil.MakeHandler(handler.HandleGetCourse))
			r.Put("/", webutil.MakeHandler(handler.HandleUpdateCourse))
			r.Delete("/", webutil.MakeHandler(handler.HandleDeleteCourse))
			r.Get(templatesSubPath, webutil.MakeHandler(handler.HandleGetCourseTemplates))
		})
	})
}

// --- Export Routes ---
func configureExportRoutes(r chi.Router, handler *rh.ExportHandler) {
	r.Route(exportBasePath, func(r chi.Router) {
		r.Post("/", webutil.MakeHandler(handler.HandleExportSCORM))
		r.Post(scormSubPath, webutil.MakeHandler(handler.HandleExportSCORM))
		r.Post(epubSubPath, webutil.MakeHandler(handler.HandleExportEPUB))
		r.Post(validateSubPath, webutil.MakeHandler(handler.HandleValidateCourse))
		r.Get(formatsSubPath, webutil.MakeHandler(handler.HandleGetFormats))
		r.Get(pathWithParam(statusSubPath, paramID), webutil.MakeHandler(handler.HandleGetStatus))
	})
}

// --- Media Routes ---
func configureMediaRoutes(r chi.Router, handler *rh.MediaHandler) {
	r.Route(mediaBasePath, func(r chi.Router) {
		r.Get("/", webutil.MakeHandler(handler.HandleListMedia))
		r.Post(uploadSubPath, webutil.MakeHandler(handler.HandleUploadMedia))
	})
}

// --- Import Routes ---
func configureImportRoutes(r chi.Router, handler *rh.ImportHandler) {
	r.Route(importBasePath, func(r chi.Router) {
		r.Post(contentSubPath, webutil.MakeHandler(handler.HandleImportContent))
	})
}

// --- Utility Functions ---

// handleHealthCheck responds to a health check request.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.Header().Set(webutil.HeaderContentType, webutil.ContentTypeTextPlainUTF8)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("OK"))
}
