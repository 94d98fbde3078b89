// Package file provides a filesystem-backed byte store.
package file

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure ByteStore implements the interface.
var _ driven.ByteStore = (*ByteStore)(nil)

// ByteStore stores raw document bytes on the local filesystem, one
// file per (bucket, path) pair under a root directory.
type ByteStore struct {
	root string
}

// NewByteStore creates a filesystem byte store rooted at dataDir.
// If dataDir is empty, defaults to ~/.paperchat/blobs.
func NewByteStore(dataDir string) (*ByteStore, error) {
	if dataDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, ".paperchat", "blobs")
	}

	if err := os.MkdirAll(dataDir, 0700); err != nil {
		return nil, fmt.Errorf("creating blob directory: %w", err)
	}

	return &ByteStore{root: dataDir}, nil
}

// Put stores bytes under the given bucket and path.
func (s *ByteStore) Put(_ context.Context, bucket, path string, data []byte) error {
	target, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(target), 0700); err != nil {
		return fmt.Errorf("creating bucket directory: %w", err)
	}

	// Write to a temp file first so a crash never leaves a torn blob.
	tmp, err := os.CreateTemp(filepath.Dir(target), ".put-*")
	if err != nil {
		return fmt.Errorf("creating temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing blob: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing blob: %w", err)
	}

	if err := os.Rename(tmpName, target); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("committing blob: %w", err)
	}
	return nil
}

// Get retrieves bytes by bucket and path.
func (s *ByteStore) Get(_ context.Context, bucket, path string) ([]byte, error) {
	target, err := s.resolve(bucket, path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(target)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("reading blob: %w", err)
	}
	return data, nil
}

// Delete removes the stored bytes. Deleting a missing blob is not an
// error.
func (s *ByteStore) Delete(_ context.Context, bucket, path string) error {
	target, err := s.resolve(bucket, path)
	if err != nil {
		return err
	}

	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("deleting blob: %w", err)
	}
	return nil
}

// resolve maps (bucket, path) onto a filesystem path, refusing keys
// that would escape the root.
func (s *ByteStore) resolve(bucket, path string) (string, error) {
	if bucket == "" || path == "" {
		return "", fmt.Errorf("%w: bucket and path are required", domain.ErrInvalidInput)
	}

	target := filepath.Join(s.root, bucket, filepath.FromSlash(path))
	rel, err := filepath.Rel(s.root, target)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("%w: key escapes store root", domain.ErrInvalidInput)
	}
	return target, nil
}
