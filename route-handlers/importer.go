package routehandlers

import (
	"fmt"
	"io"
	"net/http"

	"github.com/jmcelroy/docent/ingestion"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/webutil"
)

// maxImportBytes caps a document submitted to the importer.
const maxImportBytes = 10 * 1024 * 1024

// Holds dependencies for content import route handlers.
type ImportHandler struct {
	Importer *ingestion.Importer
}

// Creates a new ImportHandler.
func NewImportHandler(importer *ingestion.Importer) *ImportHandler {
	return &ImportHandler{Importer: importer}
}

// HandleImportContent converts an uploaded document into course
// templates. The document arrives as a multipart file; the format is
// resolved from the filename and content unless a 'format' field
// overrides it.
func (h *ImportHandler) HandleImportContent(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxImportBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		return webutil.ErrBadRequest("Missing or unreadable 'file' form field: " + err.Error())
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return webutil.ErrBadRequest("Failed to read uploaded document: " + err.Error())
	}
	if len(content) == 0 {
		return webutil.ErrBadRequest("Uploaded document is empty")
	}

	format := models.ImportFormat(r.FormValue("format"))
	if format == "" {
		detected, err := ingestion.DetectFormat(header.Filename, content)
		if err != nil {
			return webutil.ErrUnprocessableEntity(err.Error())
		}
		format = detected
	} else if !models.IsValidImportFormat(format) {
		return webutil.ErrBadRequest(fmt.Sprintf("Unsupported import format %q", format))
	}

	result, err := h.Importer.Import(r.Context(), ingestion.ImportInput{
		Bytes:    content,
		Format:   format,
		FileName: header.Filename,
	})
	if err != nil {
		return webutil.ErrUnprocessableEntityWrap("Document import failed: "+err.Error(), err)
	}

	webutil.RespondWithJSON(w, http.StatusOK, result)
	return nil
}
