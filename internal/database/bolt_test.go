package database

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amaumene/gostremiojackett/internal/models"
)

func newTestStore(t *testing.T, maxAge time.Duration) *BoltStore {
	t.Helper()
	store, err := NewBolt(filepath.Join(t.TempDir(), "nested", "data.db"), maxAge)
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStoreAndGetTitleMeta(t *testing.T) {
	store := newTestStore(t, time.Hour)

	meta, err := store.GetTitleMeta(models.MediaTypeMovie, "tt0133093")
	require.NoError(t, err)
	assert.Nil(t, meta)

	require.NoError(t, store.StoreTitleMeta(models.MediaTypeMovie, "tt0133093", models.TitleMeta{Name: "The Matrix", Year: 1999}))

	meta, err = store.GetTitleMeta(models.MediaTypeMovie, "tt0133093")
	require.NoError(t, err)
	require.NotNil(t, meta)
	assert.Equal(t, "The Matrix", meta.Name)
	assert.Equal(t, 1999, meta.Year)

	other, err := store.GetTitleMeta(models.MediaTypeSeries, "tt0133093")
	require.NoError(t, err)
	assert.Nil(t, other, "keys are scoped by media type")
}

func TestExpiredTitleMeta(t *testing.T) {
	store := newTestStore(t, time.Hour)
	now := time.Now()
	store.now = func() time.Time { return now }

	require.NoError(t, store.StoreTitleMeta(models.MediaTypeSeries, "tt0903747", models.TitleMeta{Name: "Breaking Bad", Year: 2008}))

	now = now.Add(2 * time.Hour)
	meta, err := store.GetTitleMeta(models.MediaTypeSeries, "tt0903747")
	require.NoError(t, err)
	assert.Nil(t, meta)
}
