package interpretation

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/at-ishikawa/sonnik/internal/config"
	"github.com/at-ishikawa/sonnik/internal/database"
)

func TestDBRepository_SQLite(t *testing.T) {
	db, err := database.Open(config.DatabaseConfig{
		Driver: database.DriverSQLite,
		Path:   filepath.Join(t.TempDir(), "sonnik.db"),
	})
	require.NoError(t, err)
	defer db.Close()

	ctx := context.Background()
	require.NoError(t, database.Migrate(ctx, db))

	repo := NewDBRepository(db)
	clock := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	repo.now = func() time.Time {
		clock = clock.Add(time.Second)
		return clock
	}

	_, ok, err := repo.Get(ctx, "вода")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Put(ctx, 1, "вода", "X"))
	got, ok, err := repo.Get(ctx, "вода")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "X", got)

	require.NoError(t, repo.Put(ctx, 2, "вода", "Y"))
	got, ok, err = repo.Get(ctx, "вода")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "Y", got)

	history, err := repo.History(ctx, "вода")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "Y", history[0].Interpretation)
	assert.Equal(t, "X", history[1].Interpretation)

	require.NoError(t, repo.Put(ctx, 2, "змея", "Z"))
	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.Records)
	assert.Equal(t, 2, stats.Requesters)
	assert.Equal(t, []TermCount{{Term: "вода", Count: 2}}, stats.TopTerms)
}
