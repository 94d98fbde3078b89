package memory

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quillhq/paperchat/internal/core/domain"
)

func TestStatusStore_Init(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	err := store.Init(ctx, "paper-1")
	require.NoError(t, err)

	status, err := store.Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, status.State)
	assert.Nil(t, status.StartedAt)
	assert.Nil(t, status.CompletedAt)

	// Second Init for the same paper is rejected.
	err = store.Init(ctx, "paper-1")
	assert.ErrorIs(t, err, domain.ErrAlreadyExists)
}

func TestStatusStore_Get_NotFound(t *testing.T) {
	store := NewStatusStore()
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestStatusStore_HappyPath(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	require.NoError(t, store.Init(ctx, "paper-1"))
	require.NoError(t, store.Begin(ctx, "paper-1"))

	status, err := store.Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateProcessing, status.State)
	assert.NotNil(t, status.StartedAt)

	require.NoError(t, store.Complete(ctx, "paper-1", 7))

	status, err = store.Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateCompleted, status.State)
	assert.Equal(t, 7, status.ChunksCreated)
	assert.NotNil(t, status.CompletedAt)
}

func TestStatusStore_Fail_RecordsMessageAndCompletionTime(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	require.NoError(t, store.Init(ctx, "paper-1"))
	require.NoError(t, store.Begin(ctx, "paper-1"))
	require.NoError(t, store.Fail(ctx, "paper-1", "embedding failed: rate limited"))

	status, err := store.Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StateFailed, status.State)
	assert.Equal(t, "embedding failed: rate limited", status.Error)
	assert.NotNil(t, status.CompletedAt)
}

func TestStatusStore_Begin_RejectsConcurrentIngestion(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	require.NoError(t, store.Init(ctx, "paper-1"))
	require.NoError(t, store.Begin(ctx, "paper-1"))

	err := store.Begin(ctx, "paper-1")
	assert.ErrorIs(t, err, domain.ErrIngestionInProgress)
}

func TestStatusStore_CompletedNeverResurrectsImplicitly(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	require.NoError(t, store.Init(ctx, "paper-1"))
	require.NoError(t, store.Begin(ctx, "paper-1"))
	require.NoError(t, store.Complete(ctx, "paper-1", 3))

	// completed -> processing requires an explicit reset first.
	err := store.Begin(ctx, "paper-1")
	assert.ErrorIs(t, err, domain.ErrInvalidTransition)

	require.NoError(t, store.Reset(ctx, "paper-1"))

	status, err := store.Get(ctx, "paper-1")
	require.NoError(t, err)
	assert.Equal(t, domain.StatePending, status.State)
	assert.Zero(t, status.ChunksCreated)
	assert.Nil(t, status.StartedAt)

	require.NoError(t, store.Begin(ctx, "paper-1"))
}

func TestStatusStore_Reset_RequiresTerminalState(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()

	require.NoError(t, store.Init(ctx, "paper-1"))
	assert.ErrorIs(t, store.Reset(ctx, "paper-1"), domain.ErrInvalidTransition)

	require.NoError(t, store.Begin(ctx, "paper-1"))
	assert.ErrorIs(t, store.Reset(ctx, "paper-1"), domain.ErrInvalidTransition)
}

func TestStatusStore_ConcurrentBegin_ExactlyOneWins(t *testing.T) {
	store := NewStatusStore()
	ctx := context.Background()
	require.NoError(t, store.Init(ctx, "paper-1"))

	const attempts = 8
	errs := make([]error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			errs[n] = store.Begin(ctx, "paper-1")
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			assert.ErrorIs(t, err, domain.ErrIngestionInProgress)
		}
	}
	assert.Equal(t, 1, winners)
}
