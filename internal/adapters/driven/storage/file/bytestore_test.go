package file

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/paperchat/internal/core/domain"
)

func newTestStore(t *testing.T) *ByteStore {
	t.Helper()
	store, err := NewByteStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestByteStore_PutGetRoundTrip(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	data := []byte("raw pdf bytes")
	require.NoError(t, store.Put(ctx, "papers", "paper-1/original", data))

	got, err := store.Get(ctx, "papers", "paper-1/original")
	require.NoError(t, err)
	assert.Equal(t, data, got)
}

func TestByteStore_PutOverwrites(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "papers", "p", []byte("v1")))
	require.NoError(t, store.Put(ctx, "papers", "p", []byte("v2")))

	got, err := store.Get(ctx, "papers", "p")
	require.NoError(t, err)
	assert.Equal(t, []byte("v2"), got)
}

func TestByteStore_GetMissing(t *testing.T) {
	store := newTestStore(t)

	_, err := store.Get(context.Background(), "papers", "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestByteStore_Delete(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Put(ctx, "papers", "p", []byte("x")))
	require.NoError(t, store.Delete(ctx, "papers", "p"))

	_, err := store.Get(ctx, "papers", "p")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestByteStore_DeleteMissingIsNoop(t *testing.T) {
	store := newTestStore(t)
	assert.NoError(t, store.Delete(context.Background(), "papers", "missing"))
}

func TestByteStore_RejectsEmptyKey(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	assert.ErrorIs(t, store.Put(ctx, "", "p", nil), domain.ErrInvalidInput)
	assert.ErrorIs(t, store.Put(ctx, "b", "", nil), domain.ErrInvalidInput)
}

func TestByteStore_RejectsPathEscape(t *testing.T) {
	store := newTestStore(t)

	err := store.Put(context.Background(), "papers", "../../etc/passwd", []byte("x"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
