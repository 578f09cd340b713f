package routehandlers

import (
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"

	"github.com/jmcelroy/docent/datastore"
	"github.com/jmcelroy/docent/models"
	"github.com/jmcelroy/docent/storage"
	"github.com/jmcelroy/docent/webutil"
)

// maxUploadBytes caps a single media upload.
const maxUploadBytes = 25 * 1024 * 1024

// Holds dependencies for media route handlers.
type MediaHandler struct {
	Repo   *datastore.MediaRepository
	Storer storage.MediaStorer
}

// Creates a new MediaHandler.
func NewMediaHandler(repo *datastore.MediaRepository, storer storage.MediaStorer) *MediaHandler {
	return &MediaHandler{Repo: repo, Storer: storer}
}

func (h *MediaHandler) HandleListMedia(w http.ResponseWriter, r *http.Request) error {
	records, err := h.Repo.ListMedia(r.Context())
	if err != nil {
		return fmt.Errorf("failed to retrieve media records: %w", err)
	}
	webutil.RespondWithJSON(w, http.StatusOK, records)
	return nil
}

// HandleUploadMedia accepts one multipart file, sniffs and checks its
// type, deduplicates by content hash, and stores it. Re-uploading known
// content returns the existing record rather than a new copy.
func (h *MediaHandler) HandleUploadMedia(w http.ResponseWriter, r *http.Request) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)

	file, header, err := r.FormFile("file")
	if err != nil {
		return webutil.ErrBadRequest("Missing or unreadable 'file' form field: " + err.Error())
	}
	defer file.Close()

	content, err := io.ReadAll(file)
	if err != nil {
		return webutil.ErrBadRequest("Failed to read uploaded file: " + err.Error())
	}
	if len(content) == 0 {
		return webutil.ErrBadRequest("Uploaded file is empty")
	}

	mtype := mimetype.Detect(content)
	if !isAllowedMediaType(mtype.String()) {
		return webutil.ErrUnprocessableEntity(fmt.Sprintf(
			"Unsupported media type %q; images, video and audio only", mtype.String()))
	}

	hash, err := webutil.GenerateHash(string(content))
	if err != nil {
		return fmt.Errorf("failed to hash uploaded content: %w", err)
	}

	existing, err := h.Repo.GetMediaBySHA256(r.Context(), hash)
	if err != nil {
		return fmt.Errorf("failed to check for duplicate upload: %w", err)
	}
	if existing != nil {
		webutil.RespondWithJSON(w, http.StatusOK, existing)
		return nil
	}

	storedPath, err := h.Storer.Store(hash, header.Filename, content)
	if err != nil {
		return fmt.Errorf("failed to store upload %q: %w", header.Filename, err)
	}

	record := &models.MediaRecord{
		ID:         uuid.NewString(),
		FileName:   header.Filename,
		StoredPath: storedPath,
		MimeType:   mtype.String(),
		Size:       int64(len(content)),
		SHA256:     hash,
		UploadedAt: time.Now().UTC(),
	}
	if err := h.Repo.CreateMedia(r.Context(), record); err != nil {
		return fmt.Errorf("failed to record upload %q: %w", header.Filename, err)
	}

	webutil.RespondWithJSON(w, http.StatusCreated, record)
	return nil
}

// isAllowedMediaType restricts uploads to slide-embeddable media.
func isAllowedMediaType(mime string) bool {
	return strings.HasPrefix(mime, "image/") ||
		strings.HasPrefix(mime, "video/") ||
		strings.HasPrefix(mime, "audio/")
}
