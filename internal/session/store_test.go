package session

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/steveyegge/deepthink/internal/thinking"
)

// storeUnderTest runs the shared contract tests against any backend.
func storeUnderTest(t *testing.T, name string, open func(t *testing.T) Store) {
	t.Run(name+"/round trip", func(t *testing.T) {
		store := open(t)
		defer store.Close()
		ctx := context.Background()

		rec := &Record{
			ID:     "sess-1",
			Task:   "Build a REST API",
			Config: thinking.DefaultConfig(),
			State: thinking.State{
				Depth:      2,
				Confidence: 0.6,
				Iterations: []string{"first answer", "second answer"},
				LastResult: "second answer",
			},
		}
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, rec.Task, got.Task)
		assert.Equal(t, rec.Config, got.Config)
		assert.Equal(t, rec.State, got.State)
		assert.False(t, got.UpdatedAt.IsZero(), "Put should stamp UpdatedAt")
		assert.False(t, got.CreatedAt.IsZero(), "Put should stamp CreatedAt")
	})

	t.Run(name+"/get unknown", func(t *testing.T) {
		store := open(t)
		defer store.Close()

		_, err := store.Get(context.Background(), "nope")
		assert.ErrorIs(t, err, ErrNotFound)
	})

	t.Run(name+"/put replaces", func(t *testing.T) {
		store := open(t)
		defer store.Close()
		ctx := context.Background()

		rec := &Record{ID: "sess-1", Task: "task", Config: thinking.DefaultConfig(), State: thinking.NewState()}
		require.NoError(t, store.Put(ctx, rec))

		rec.State = thinking.State{Depth: 1, Confidence: 0.5, Iterations: []string{"a"}, LastResult: "a"}
		require.NoError(t, store.Put(ctx, rec))

		got, err := store.Get(ctx, "sess-1")
		require.NoError(t, err)
		assert.Equal(t, 1, got.State.Depth)
		assert.Equal(t, []string{"a"}, got.State.Iterations)
	})

	t.Run(name+"/delete", func(t *testing.T) {
		store := open(t)
		defer store.Close()
		ctx := context.Background()

		rec := &Record{ID: "sess-1", Task: "task", Config: thinking.DefaultConfig(), State: thinking.NewState()}
		require.NoError(t, store.Put(ctx, rec))
		require.NoError(t, store.Delete(ctx, "sess-1"))

		_, err := store.Get(ctx, "sess-1")
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, store.Delete(ctx, "sess-1"), ErrNotFound)
	})

	t.Run(name+"/list newest first", func(t *testing.T) {
		store := open(t)
		defer store.Close()
		ctx := context.Background()

		for _, id := range []string{"old", "mid", "new"} {
			rec := &Record{ID: id, Task: "task " + id, Config: thinking.DefaultConfig(), State: thinking.NewState()}
			require.NoError(t, store.Put(ctx, rec))
		}
		// Touch "old" so it becomes the most recent.
		old, err := store.Get(ctx, "old")
		require.NoError(t, err)
		require.NoError(t, store.Put(ctx, old))

		list, err := store.List(ctx)
		require.NoError(t, err)
		require.Len(t, list, 3)
		assert.Equal(t, "old", list[0].ID)
	})
}

func TestMemoryStore(t *testing.T) {
	storeUnderTest(t, "memory", func(t *testing.T) Store {
		return NewMemoryStore()
	})
}

func TestSQLiteStore(t *testing.T) {
	storeUnderTest(t, "sqlite", func(t *testing.T) Store {
		store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "deepthink.db"))
		require.NoError(t, err)
		return store
	})
}

func TestSQLiteStore_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "deepthink.db")
	ctx := context.Background()

	store, err := NewSQLiteStore(path)
	require.NoError(t, err)
	rec := &Record{
		ID:     "persisted",
		Task:   "task",
		Config: thinking.DefaultConfig(),
		State:  thinking.State{Depth: 3, Confidence: 0.9, Iterations: []string{"a", "b", "c"}, LastResult: "c", Complete: true},
	}
	require.NoError(t, store.Put(ctx, rec))
	require.NoError(t, store.Close())

	// State must survive a process restart.
	store, err = NewSQLiteStore(path)
	require.NoError(t, err)
	defer store.Close()

	got, err := store.Get(ctx, "persisted")
	require.NoError(t, err)
	assert.True(t, got.State.Complete)
	assert.Equal(t, 3, got.State.Depth)
}

func TestMemoryStore_GetReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	rec := &Record{ID: "s", Task: "task", State: thinking.State{Depth: 1}}
	require.NoError(t, store.Put(ctx, rec))

	got, err := store.Get(ctx, "s")
	require.NoError(t, err)
	got.State.Depth = 99

	again, err := store.Get(ctx, "s")
	require.NoError(t, err)
	assert.Equal(t, 1, again.State.Depth, "mutating a returned record must not affect the store")
}
