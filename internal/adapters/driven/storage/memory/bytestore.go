package memory

import (
	"context"
	"sync"

	"github.com/quillhq/paperchat/internal/core/domain"
	"github.com/quillhq/paperchat/internal/core/ports/driven"
)

// Ensure ByteStore implements the interface.
var _ driven.ByteStore = (*ByteStore)(nil)

// ByteStore is an in-memory implementation of driven.ByteStore.
type ByteStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

// NewByteStore creates a new in-memory byte store.
func NewByteStore() *ByteStore {
	return &ByteStore{
		objects: make(map[string][]byte),
	}
}

func objectKey(bucket, path string) string {
	return bucket + "/" + path
}

// Put stores bytes under the given bucket and path.
func (s *ByteStore) Put(_ context.Context, bucket, path string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := make([]byte, len(data))
	copy(stored, data)
	s.objects[objectKey(bucket, path)] = stored
	return nil
}

// Get retrieves bytes by bucket and path.
func (s *ByteStore) Get(_ context.Context, bucket, path string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[objectKey(bucket, path)]
	if !ok {
		return nil, domain.ErrNotFound
	}
	result := make([]byte, len(data))
	copy(result, data)
	return result, nil
}

// Delete removes the stored bytes.
func (s *ByteStore) Delete(_ context.Context, bucket, path string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, objectKey(bucket, path))
	return nil
}
