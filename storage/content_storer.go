// Package storage persists uploaded media on disk. Files are addressed
// by content hash so duplicate uploads land on the same path.
package storage

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// defaultMediaDir is the base directory for stored media when none is
// configured.
const defaultMediaDir = "_media"

// MediaStorer is the interface for persisting uploaded media content.
type MediaStorer interface {
	// Store saves content under a hash-derived location and returns the
	// relative path where it was stored.
	Store(contentHash, fileName string, content []byte) (relativePath string, err error)

	// Remove deletes a previously stored file by its relative path.
	Remove(relativePath string) error
}

// LocalMediaStorer implements MediaStorer on the local file system.
type LocalMediaStorer struct {
	basePath string
}

// NewLocalMediaStorer creates a LocalMediaStorer rooted at basePath,
// defaulting to defaultMediaDir when empty.
func NewLocalMediaStorer(basePath string) *LocalMediaStorer {
	if basePath == "" {
		basePath = defaultMediaDir
	}
	return &LocalMediaStorer{basePath: basePath}
}

// Store writes content to <basePath>/<hash[0:2]>/<hash[0:16]>_<fileName>
// and returns the path relative to basePath. Sharding on the hash prefix
// keeps directory fan-out bounded.
func (s *LocalMediaStorer) Store(contentHash, fileName string, content []byte) (string, error) {
	if len(contentHash) < 16 {
		return "", fmt.Errorf("content hash too short for storage addressing")
	}
	if fileName == "" {
		return "", fmt.Errorf("file name cannot be empty")
	}

	safeName := sanitizeFileName(fileName)
	relativeDir := contentHash[:2]
	relativePath := filepath.Join(relativeDir, contentHash[:16]+"_"+safeName)

	fullDir := filepath.Join(s.basePath, relativeDir)
	fullPath := filepath.Join(s.basePath, relativePath)

	if err := os.MkdirAll(fullDir, os.ModePerm); err != nil {
		log.Printf("ERROR (MediaStorer): failed to create storage directory %q: %v", fullDir, err)
		return "", fmt.Errorf("failed to create storage directory: %w", err)
	}

	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		log.Printf("ERROR (MediaStorer): failed to write media to %q: %v", fullPath, err)
		return "", fmt.Errorf("failed to save media content: %w", err)
	}

	log.Printf("INFO (MediaStorer): stored media at %s (%d bytes)", fullPath, len(content))
	return relativePath, nil
}

// Remove deletes a stored file. Missing files are not an error; the sweep
// job may race a manual cleanup.
func (s *LocalMediaStorer) Remove(relativePath string) error {
	cleaned := filepath.Clean(relativePath)
	if cleaned == "." || strings.HasPrefix(cleaned, "..") || filepath.IsAbs(cleaned) {
		return fmt.Errorf("invalid relative media path: %q", relativePath)
	}

	err := os.Remove(filepath.Join(s.basePath, cleaned))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove media file: %w", err)
	}
	return nil
}

// ListStored walks the storage tree and returns all relative file paths.
// Used by the orphan sweep.
func (s *LocalMediaStorer) ListStored() ([]string, error) {
	var paths []string
	err := filepath.Walk(s.basePath, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			if os.IsNotExist(err) {
				return nil
			}
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(s.basePath, path)
		if err != nil {
			return err
		}
		paths = append(paths, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk media storage: %w", err)
	}
	return paths, nil
}

// sanitizeFileName strips path separators and control characters so an
// uploaded name cannot escape the storage tree.
func sanitizeFileName(name string) string {
	name = filepath.Base(name)
	var b strings.Builder
	for _, r := range name {
		switch {
		case r < 0x20, r == '/', r == '\\', r == ':':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "upload"
	}
	return b.String()
}
