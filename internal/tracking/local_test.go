package tracking

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	if !IsCgoEnabled {
		t.Skip("sqlite requires cgo")
	}

	store, err := Open(context.Background(), filepath.Join(t.TempDir(), "nested", "history.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store
}

// fixedClock returns a clock that advances one second per call
func fixedClock(start time.Time) func() time.Time {
	current := start
	return func() time.Time {
		current = current.Add(time.Second)
		return current
	}
}

func TestOpenCreatesDatabase(t *testing.T) {
	t.Parallel()

	if !IsCgoEnabled {
		t.Skip("sqlite requires cgo")
	}
	dbPath := filepath.Join(t.TempDir(), "a", "b", "history.db")
	store, err := Open(context.Background(), dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	_, err = os.Stat(dbPath)
	assert.NoError(t, err)
}

func TestUpsertKeepsOneRowPerAnimeSeason(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)
	store.now = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	outcome, err := store.Upsert(ctx, "Naruto", "Episode 1", "Saison 1 - VOSTFR", "https://anime-sama.fr/catalogue/naruto/saison1/vostfr")
	require.NoError(t, err)
	assert.Equal(t, Inserted, outcome)

	outcome, err = store.Upsert(ctx, "Naruto", "Episode 2", "Saison 1 - VOSTFR", "https://anime-sama.fr/catalogue/naruto/saison1/vostfr/")
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "Episode 2", entries[0].Episode)
	assert.Equal(t, "https://anime-sama.fr/catalogue/naruto/saison1/vostfr/", entries[0].URL)
	assert.Equal(t, time.Date(2026, 3, 1, 10, 0, 2, 0, time.UTC), entries[0].Timestamp.UTC())
}

func TestUpsertDistinguishesSeasons(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Upsert(ctx, "Naruto", "Episode 3", "Saison 1 - VOSTFR", "u1")
	require.NoError(t, err)
	_, err = store.Upsert(ctx, "Naruto", "Episode 1", "Saison 1 - VF", "u2")
	require.NoError(t, err)

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestListMostRecentFirst(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)
	store.now = fixedClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))

	for _, name := range []string{"One Piece", "Frieren", "Dandadan"} {
		_, err := store.Upsert(ctx, name, "Episode 1", "Saison 1", "")
		require.NoError(t, err)
	}
	// Watching One Piece again moves it to the top
	_, err := store.Upsert(ctx, "One Piece", "Episode 2", "Saison 1", "")
	require.NoError(t, err)

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 3)
	assert.Equal(t, "One Piece", entries[0].AnimeName)
	assert.Equal(t, "Dandadan", entries[1].AnimeName)
	assert.Equal(t, "Frieren", entries[2].AnimeName)
}

func TestGetAndDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Upsert(ctx, "Frieren", "Episode 4", "Saison 1 - VOSTFR", "u")
	require.NoError(t, err)
	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	got, err := store.Get(ctx, entries[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Frieren", got.AnimeName)

	require.NoError(t, store.Delete(ctx, got.ID))
	_, err = store.Get(ctx, got.ID)
	assert.True(t, errors.Is(err, ErrNotFound))
}

func TestDeleteMissingIDIsNoop(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	_, err := store.Upsert(ctx, "Frieren", "Episode 4", "Saison 1", "u")
	require.NoError(t, err)

	require.NoError(t, store.Delete(ctx, 9999))

	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func createLegacyDB(t *testing.T, path string, withTimestamp bool) {
	t.Helper()

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	defer func() { _ = db.Close() }()

	schema := `CREATE TABLE history (id INTEGER PRIMARY KEY AUTOINCREMENT, anime_name TEXT, episode TEXT, saison TEXT, url TEXT)`
	if withTimestamp {
		schema = `CREATE TABLE history (id INTEGER PRIMARY KEY AUTOINCREMENT, anime_name TEXT, episode TEXT, saison TEXT, url TEXT, timestamp DATETIME DEFAULT CURRENT_TIMESTAMP)`
	}
	_, err = db.Exec(schema)
	require.NoError(t, err)
	_, err = db.Exec(`INSERT INTO history (anime_name, episode, saison, url) VALUES ('Naruto', 'Episode 7', 'Saison 1', 'u1'), ('Bleach', 'Episode 2', 'Saison 1 - VF', 'u2')`)
	require.NoError(t, err)
}

func TestOpenMigratesTableWithoutTimestamp(t *testing.T) {
	t.Parallel()

	if !IsCgoEnabled {
		t.Skip("sqlite requires cgo")
	}
	ctx := context.Background()
	dbPath := filepath.Join(t.TempDir(), "history.db")
	createLegacyDB(t, dbPath, false)

	store, err := Open(ctx, dbPath)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()

	entries, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, e := range entries {
		assert.False(t, e.Timestamp.IsZero(), "%s should be back-filled", e.AnimeName)
	}

	outcome, err := store.Upsert(ctx, "Naruto", "Episode 8", "Saison 1", "u1")
	require.NoError(t, err)
	assert.Equal(t, Updated, outcome)

	// Reopening must not re-run the column migration
	require.NoError(t, store.Close())
	store, err = Open(ctx, dbPath)
	require.NoError(t, err)
	n, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestImportLegacy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	store := openTestStore(t)

	legacy := filepath.Join(t.TempDir(), "old.db")
	createLegacyDB(t, legacy, true)

	n, err := store.ImportLegacy(ctx, legacy)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	// Second run is a no-op because the store is no longer empty
	n, err = store.ImportLegacy(ctx, legacy)
	require.NoError(t, err)
	assert.Zero(t, n)

	count, err := store.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestImportLegacyMissingFile(t *testing.T) {
	t.Parallel()

	store := openTestStore(t)
	n, err := store.ImportLegacy(context.Background(), filepath.Join(t.TempDir(), "absent.db"))
	require.NoError(t, err)
	assert.Zero(t, n)
}
