package store

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/dkeye/Parley/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// setupTestDB creates an in-memory SQLite database for testing.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = Close(db) })
	return db
}

// fixedClock returns a clock that only moves when advanced.
func fixedClock(start time.Time) (func() time.Time, func(time.Duration)) {
	var mu sync.Mutex
	now := start
	return func() time.Time {
			mu.Lock()
			defer mu.Unlock()
			return now
		}, func(d time.Duration) {
			mu.Lock()
			defer mu.Unlock()
			now = now.Add(d)
		}
}

func TestMessageRepository_Append(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(setupTestDB(t))

	msg, err := repo.Append(ctx, "hi", "alice", domain.GlobalRoom)
	require.NoError(t, err)
	assert.NotEmpty(t, msg.ID)
	assert.Equal(t, "hi", msg.Text)
	assert.Equal(t, "alice", msg.Sender)
	assert.Equal(t, domain.GlobalRoom, msg.Room)
	assert.False(t, msg.CreatedAt.IsZero())

	other, err := repo.Append(ctx, "hi", "alice", domain.GlobalRoom)
	require.NoError(t, err)
	assert.NotEqual(t, msg.ID, other.ID, "ids are fresh")

	t.Run("validation", func(t *testing.T) {
		_, err := repo.Append(ctx, "", "alice", domain.GlobalRoom)
		assert.ErrorIs(t, err, domain.ErrEmptyText)
		_, err = repo.Append(ctx, "   ", "alice", domain.GlobalRoom)
		assert.ErrorIs(t, err, domain.ErrValidation)
		_, err = repo.Append(ctx, "hi", "", domain.GlobalRoom)
		assert.ErrorIs(t, err, domain.ErrEmptySender)
		_, err = repo.Append(ctx, "hi", "alice", "")
		assert.ErrorIs(t, err, domain.ErrEmptyRoom)

		msgs, err := repo.ListByRoom(ctx, domain.GlobalRoom)
		require.NoError(t, err)
		assert.Len(t, msgs, 2, "rejected appends persist nothing")
	})
}

func TestMessageRepository_ListByRoom(t *testing.T) {
	ctx := context.Background()
	clock, advance := fixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMessageRepository(setupTestDB(t)).WithClock(clock)

	t.Run("unknown room is empty", func(t *testing.T) {
		msgs, err := repo.ListByRoom(ctx, "nobody_here")
		require.NoError(t, err)
		assert.Empty(t, msgs)
	})

	first, err := repo.Append(ctx, "first", "alice", domain.GlobalRoom)
	require.NoError(t, err)
	// Same timestamp: insertion order breaks the tie.
	second, err := repo.Append(ctx, "second", "bob", domain.GlobalRoom)
	require.NoError(t, err)
	advance(time.Millisecond)
	_, err = repo.Append(ctx, "elsewhere", "bob", "u1_u2")
	require.NoError(t, err)
	advance(time.Second)
	third, err := repo.Append(ctx, "third", "alice", domain.GlobalRoom)
	require.NoError(t, err)

	msgs, err := repo.ListByRoom(ctx, domain.GlobalRoom)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []domain.MessageID{first.ID, second.ID, third.ID},
		[]domain.MessageID{msgs[0].ID, msgs[1].ID, msgs[2].ID})
	assert.True(t, msgs[2].CreatedAt.Equal(third.CreatedAt))

	peer, err := repo.ListByRoom(ctx, "u1_u2")
	require.NoError(t, err)
	require.Len(t, peer, 1)
	assert.Equal(t, "elsewhere", peer[0].Text)
}

func TestMessageRepository_Update(t *testing.T) {
	ctx := context.Background()
	clock, advance := fixedClock(time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC))
	repo := NewMessageRepository(setupTestDB(t)).WithClock(clock)

	msg, err := repo.Append(ctx, "hi", "alice", domain.GlobalRoom)
	require.NoError(t, err)
	advance(time.Minute)

	updated, err := repo.Update(ctx, msg.ID, "hi edited")
	require.NoError(t, err)
	assert.Equal(t, msg.ID, updated.ID)
	assert.Equal(t, "hi edited", updated.Text)
	assert.Equal(t, msg.Room, updated.Room)
	assert.Equal(t, msg.Sender, updated.Sender)
	assert.True(t, msg.CreatedAt.Equal(updated.CreatedAt), "createdAt unchanged")
	assert.True(t, updated.UpdatedAt.After(msg.CreatedAt))

	t.Run("not found", func(t *testing.T) {
		_, err := repo.Update(ctx, "missing", "x")
		assert.ErrorIs(t, err, domain.ErrNotFound)

		msgs, err := repo.ListByRoom(ctx, domain.GlobalRoom)
		require.NoError(t, err)
		require.Len(t, msgs, 1)
		assert.Equal(t, "hi edited", msgs[0].Text)
	})

	t.Run("empty text", func(t *testing.T) {
		_, err := repo.Update(ctx, msg.ID, "")
		assert.ErrorIs(t, err, domain.ErrValidation)
	})
}

func TestMessageRepository_Remove(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(setupTestDB(t))

	keep, err := repo.Append(ctx, "keep", "alice", domain.GlobalRoom)
	require.NoError(t, err)
	drop, err := repo.Append(ctx, "drop", "bob", "u1_u2")
	require.NoError(t, err)

	removed, err := repo.Remove(ctx, drop.ID)
	require.NoError(t, err)
	assert.Equal(t, drop.ID, removed.ID)
	assert.Equal(t, domain.RoomKey("u1_u2"), removed.Room, "room is recoverable from the removed message")

	_, err = repo.Get(ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Update(ctx, drop.ID, "resurrect")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = repo.Remove(ctx, drop.ID)
	assert.ErrorIs(t, err, domain.ErrNotFound)

	msgs, err := repo.ListByRoom(ctx, "u1_u2")
	require.NoError(t, err)
	assert.Empty(t, msgs)

	got, err := repo.Get(ctx, keep.ID)
	require.NoError(t, err)
	assert.Equal(t, "keep", got.Text)
}

func TestMessageRepository_ConcurrentAppend(t *testing.T) {
	ctx := context.Background()
	repo := NewMessageRepository(setupTestDB(t))

	const n = 32
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		i := i
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := repo.Append(ctx, fmt.Sprintf("m%d", i), "alice", domain.GlobalRoom)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	msgs, err := repo.ListByRoom(ctx, domain.GlobalRoom)
	require.NoError(t, err)
	assert.Len(t, msgs, n)
}

func TestMessageRepository_ClosedDatabase(t *testing.T) {
	ctx := context.Background()
	db, err := Open(":memory:")
	require.NoError(t, err)
	repo := NewMessageRepository(db)
	require.NoError(t, Close(db))

	_, err = repo.Append(ctx, "hi", "alice", domain.GlobalRoom)
	assert.ErrorIs(t, err, domain.ErrPersistence)
	_, err = repo.ListByRoom(ctx, domain.GlobalRoom)
	assert.ErrorIs(t, err, domain.ErrPersistence)
}
