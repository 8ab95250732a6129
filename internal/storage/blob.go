package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

var unsafeNameChars = regexp.MustCompile(`[^\w.\-]+`)

// BlobStore keeps uploaded file bytes on the local filesystem. Locators are
// paths relative to the storage root, so records stay valid when the root
// moves.
type BlobStore struct {
	root string
}

func NewBlobStore(root string) (*BlobStore, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create storage dir: %w", err)
	}
	return &BlobStore{root: root}, nil
}

// Write stores the bytes under a collision-free name derived from the
// original filename and returns the locator.
func (b *BlobStore) Write(name string, data []byte) (string, error) {
	safe := unsafeNameChars.ReplaceAllString(strings.ReplaceAll(name, " ", "_"), "")
	if safe == "" {
		safe = "upload.bin"
	}
	locator := uuid.NewString() + "_" + safe
	if err := os.WriteFile(filepath.Join(b.root, locator), data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write blob: %w", err)
	}
	return locator, nil
}

func (b *BlobStore) Read(locator string) ([]byte, error) {
	data, err := os.ReadFile(filepath.Join(b.root, filepath.Base(locator)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}
	return data, nil
}

func (b *BlobStore) Delete(locator string) error {
	if err := os.Remove(filepath.Join(b.root, filepath.Base(locator))); err != nil {
		if os.IsNotExist(err) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete blob: %w", err)
	}
	return nil
}
