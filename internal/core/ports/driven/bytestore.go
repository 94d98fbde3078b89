package driven

import "context"

// ByteStore is an opaque store for raw document bytes, keyed by bucket
// and path. The ingestion pipeline never inspects the format; text
// extraction happens elsewhere.
type ByteStore interface {
	// Put stores bytes under the given bucket and path.
	Put(ctx context.Context, bucket, path string, data []byte) error

	// Get retrieves bytes by bucket and path.
	Get(ctx context.Context, bucket, path string) ([]byte, error)

	// Delete removes the stored bytes.
	Delete(ctx context.Context, bucket, path string) error
}
