// Package scheduler runs the periodic media sweep. Uploads that were
// stored on disk but whose database record never landed (or was deleted)
// are orphans; the sweep reclaims them.
package scheduler

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"path/filepath"

	"github.com/jmcelroy/docent/datastore"
	"github.com/jmcelroy/docent/storage"
)

// Scheduler reconciles the media storage tree against the media table.
type Scheduler struct {
	mediaRepo *datastore.MediaRepository
	storer    *storage.LocalMediaStorer
}

// New creates a Scheduler.
func New(mediaRepo *datastore.MediaRepository, storer *storage.LocalMediaStorer) *Scheduler {
	return &Scheduler{mediaRepo: mediaRepo, storer: storer}
}

// HandleTick is an HTTP handler that triggers a sweep cycle. Used by an
// external cron or manual curl requests.
func (s *Scheduler) HandleTick(w http.ResponseWriter, r *http.Request) {
	log.Println("INFO (Scheduler): sweep triggered via HTTP")

	removed, err := s.Tick(r.Context())
	if err != nil {
		log.Printf("ERROR (Scheduler): sweep failed: %v", err)
		http.Error(w, "media sweep failed", http.StatusInternalServerError)
		return
	}

	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, "OK: removed %d orphaned files", removed)
}

// Tick runs a single sweep cycle and returns the number of orphaned files
// removed. A file is an orphan when no media record points at its path.
func (s *Scheduler) Tick(ctx context.Context) (int, error) {
	records, err := s.mediaRepo.ListMedia(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list media records: %w", err)
	}

	referenced := make(map[string]bool, len(records))
	for _, rec := range records {
		referenced[filepath.Clean(rec.StoredPath)] = true
	}

	stored, err := s.storer.ListStored()
	if err != nil {
		return 0, fmt.Errorf("failed to list stored media: %w", err)
	}

	removed := 0
	for _, rel := range stored {
		if referenced[filepath.Clean(rel)] {
			continue
		}
		if err := s.storer.Remove(rel); err != nil {
			log.Printf("ERROR (Scheduler): failed to remove orphan %q: %v", rel, err)
			continue
		}
		log.Printf("INFO (Scheduler): removed orphaned media file %q", rel)
		removed++
	}

	return removed, nil
}
