package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/require"
)

// Repository tests run against in-memory sqlite, which accepts the same
// $N placeholders and RETURNING clause as PostgreSQL.
func setupTestRepo(t *testing.T) *MessageRepository {
	t.Helper()

	db, err := sql.Open("sqlite3", ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	_, err = db.Exec(`
        CREATE TABLE messages (
            id INTEGER PRIMARY KEY AUTOINCREMENT,
            "user" TEXT NOT NULL,
            content TEXT NOT NULL,
            "time" DATETIME NOT NULL,
            is_visible BOOLEAN NOT NULL DEFAULT TRUE
        )`)
	require.NoError(t, err)

	return NewMessageRepository(db)
}

func TestInsertAssignsIncreasingIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	var last int64
	for i := 0; i < 5; i++ {
		id, err := repo.Insert(ctx, "alice", "hello", true)
		require.NoError(t, err)
		require.Greater(t, id, last, "ids must be strictly increasing")
		last = id
	}
}

func TestListVisibleFiltersHiddenMessages(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	shownID, err := repo.Insert(ctx, "alice", "shown", true)
	require.NoError(t, err)
	hiddenID, err := repo.Insert(ctx, "bob", "hidden", false)
	require.NoError(t, err)

	visible, err := repo.ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, visible, 1)
	require.Equal(t, shownID, visible[0].ID)
	require.True(t, visible[0].IsVisible)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)

	ids := []int64{all[0].ID, all[1].ID}
	require.Contains(t, ids, shownID)
	require.Contains(t, ids, hiddenID)
}

func TestListOrdersMostRecentFirst(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	clock := base
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	first, err := repo.Insert(ctx, "alice", "first", true)
	require.NoError(t, err)
	second, err := repo.Insert(ctx, "bob", "second", true)
	require.NoError(t, err)

	messages, err := repo.ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, second, messages[0].ID)
	require.Equal(t, first, messages[1].ID)
	require.True(t, messages[0].Time.After(messages[1].Time))
}

func TestListOrderTiesBrokenByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	// Coarse clock: both inserts land on the same wall-clock tick.
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time { return at }

	first, err := repo.Insert(ctx, "alice", "first", true)
	require.NoError(t, err)
	second, err := repo.Insert(ctx, "bob", "second", true)
	require.NoError(t, err)

	messages, err := repo.ListVisible(ctx)
	require.NoError(t, err)
	require.Len(t, messages, 2)
	require.Equal(t, second, messages[0].ID)
	require.Equal(t, first, messages[1].ID)
}

func TestSetVisibility(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	id, err := repo.Insert(ctx, "alice", "hello", true)
	require.NoError(t, err)

	require.NoError(t, repo.SetVisibility(ctx, id, false))

	visible, err := repo.ListVisible(ctx)
	require.NoError(t, err)
	require.Empty(t, visible)

	all, err := repo.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.False(t, all[0].IsVisible)
}

func TestSetVisibilityUnknownID(t *testing.T) {
	repo := setupTestRepo(t)

	err := repo.SetVisibility(context.Background(), 9999, false)
	require.ErrorIs(t, err, sql.ErrNoRows)
}
