package storage_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jmcelroy/docent/storage"
)

const testHash = "aabbccddeeff00112233445566778899aabbccddeeff00112233445566778899"

func TestStoreAndRemove(t *testing.T) {
	dir := t.TempDir()
	storer := storage.NewLocalMediaStorer(dir)

	rel, err := storer.Store(testHash, "bird.png", []byte("not really a png"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if !strings.HasPrefix(rel, "aa"+string(filepath.Separator)) {
		t.Errorf("stored path %q should be sharded under the hash prefix", rel)
	}

	content, err := os.ReadFile(filepath.Join(dir, rel))
	if err != nil {
		t.Fatalf("stored file unreadable: %v", err)
	}
	if string(content) != "not really a png" {
		t.Errorf("stored content = %q", content)
	}

	if err := storer.Remove(rel); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, rel)); !os.IsNotExist(err) {
		t.Error("file should be gone after Remove")
	}

	// Removing again must not error; sweeps can race manual cleanup.
	if err := storer.Remove(rel); err != nil {
		t.Errorf("Remove() of missing file error = %v", err)
	}
}

func TestStoreSameContentLandsOnSamePath(t *testing.T) {
	storer := storage.NewLocalMediaStorer(t.TempDir())

	first, err := storer.Store(testHash, "a.png", []byte("x"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	second, err := storer.Store(testHash, "a.png", []byte("x"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}
	if first != second {
		t.Errorf("same hash and name produced different paths: %q vs %q", first, second)
	}
}

func TestStoreSanitizesHostileFileNames(t *testing.T) {
	dir := t.TempDir()
	storer := storage.NewLocalMediaStorer(dir)

	rel, err := storer.Store(testHash, "../../../etc/passwd", []byte("data"))
	if err != nil {
		t.Fatalf("Store() error = %v", err)
	}

	full := filepath.Join(dir, rel)
	resolved, err := filepath.Abs(full)
	if err != nil {
		t.Fatal(err)
	}
	base, err := filepath.Abs(dir)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(resolved, base+string(filepath.Separator)) {
		t.Errorf("stored file %q escaped the storage root %q", resolved, base)
	}
}

func TestRemoveRejectsEscapingPaths(t *testing.T) {
	storer := storage.NewLocalMediaStorer(t.TempDir())

	for _, p := range []string{"../outside.txt", "/etc/passwd", "."} {
		if err := storer.Remove(p); err == nil {
			t.Errorf("Remove(%q) should have been rejected", p)
		}
	}
}

func TestListStored(t *testing.T) {
	storer := storage.NewLocalMediaStorer(t.TempDir())

	if _, err := storer.Store(testHash, "one.png", []byte("1")); err != nil {
		t.Fatal(err)
	}
	otherHash := "ffee" + testHash[4:]
	if _, err := storer.Store(otherHash, "two.png", []byte("2")); err != nil {
		t.Fatal(err)
	}

	paths, err := storer.ListStored()
	if err != nil {
		t.Fatalf("ListStored() error = %v", err)
	}
	if len(paths) != 2 {
		t.Errorf("ListStored() returned %d paths, want 2", len(paths))
	}
}
