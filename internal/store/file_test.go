package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"go-jobwatch-automation/internal/logger"
	"go-jobwatch-automation/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job_listings.json")
	return NewFileStore(path, logger.Discard()), path
}

func TestFileStore_LoadMissingFileIsEmpty(t *testing.T) {
	fs, _ := newTestStore(t)

	listings, err := fs.Load(context.Background())

	require.NoError(t, err)
	assert.NotNil(t, listings)
	assert.Empty(t, listings)
}

func TestFileStore_MergeIntoEmpty(t *testing.T) {
	fs, path := newTestStore(t)
	ctx := context.Background()

	fresh, err := fs.Merge(ctx, []models.Listing{{Title: "A", ID: "1"}})

	require.NoError(t, err)
	assert.Equal(t, []models.Listing{{Title: "A", ID: "1"}}, fresh)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "[\n    {\n        \"title\": \"A\",\n        \"id\": \"1\"\n    }\n]", string(data))
}

func TestFileStore_MergeOnlyNewEntries(t *testing.T) {
	fs, path := newTestStore(t)
	ctx := context.Background()
	require.NoError(t, os.WriteFile(path, []byte(`[{"title":"A","id":"1"}]`), 0644))

	fresh, err := fs.Merge(ctx, []models.Listing{{Title: "A", ID: "1"}, {Title: "B", ID: "2"}})

	require.NoError(t, err)
	assert.Equal(t, []models.Listing{{Title: "B", ID: "2"}}, fresh)

	all, err := fs.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, []models.Listing{{Title: "A", ID: "1"}, {Title: "B", ID: "2"}}, all)
}

func TestFileStore_MergeIsIdempotent(t *testing.T) {
	fs, path := newTestStore(t)
	ctx := context.Background()
	pass := []models.Listing{{Title: "A", ID: "1"}, {Title: "B", ID: "2"}}

	_, err := fs.Merge(ctx, pass)
	require.NoError(t, err)
	before, err := os.ReadFile(path)
	require.NoError(t, err)

	fresh, err := fs.Merge(ctx, pass)

	require.NoError(t, err)
	assert.Empty(t, fresh)
	after, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestFileStore_MergeSupersetProperty(t *testing.T) {
	prior := []models.Listing{{Title: "A", ID: "1"}, {Title: "B", ID: "2"}, {Title: "C", ID: "3"}}
	passes := [][]models.Listing{
		nil,
		{{Title: "A", ID: "1"}},
		{{Title: "D", ID: "4"}, {Title: "B2", ID: "2"}, {Title: "E", ID: "5"}},
		{{Title: "F", ID: "6"}, {Title: "F", ID: "6"}},
	}

	for i, pass := range passes {
		fs, _ := newTestStore(t)
		ctx := context.Background()
		_, err := fs.Merge(ctx, prior)
		require.NoError(t, err)

		_, err = fs.Merge(ctx, pass)
		require.NoError(t, err, "pass %d", i)
		after, err := fs.Load(ctx)
		require.NoError(t, err)

		// every prior listing survives untouched, in order
		require.GreaterOrEqual(t, len(after), len(prior))
		assert.Equal(t, prior, after[:len(prior)], "pass %d", i)

		// every new id from the pass is present
		priorIDs := map[string]bool{}
		for _, l := range prior {
			priorIDs[l.ID] = true
		}
		for _, l := range pass {
			if priorIDs[l.ID] {
				continue
			}
			assert.Contains(t, after, l, "pass %d", i)
		}
	}
}

func TestFileStore_InPassDuplicatesAreKept(t *testing.T) {
	fs, _ := newTestStore(t)

	fresh, err := fs.Merge(context.Background(), []models.Listing{{Title: "F", ID: "6"}, {Title: "F", ID: "6"}})

	require.NoError(t, err)
	assert.Len(t, fresh, 2)
}

func TestFileStore_CorruptFile(t *testing.T) {
	fs, path := newTestStore(t)
	require.NoError(t, os.WriteFile(path, []byte(`{not json`), 0644))

	_, err := fs.Load(context.Background())
	assert.ErrorContains(t, err, "parse")

	_, err = fs.Merge(context.Background(), []models.Listing{{Title: "A", ID: "1"}})
	assert.Error(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, `{not json`, string(data), "a failed merge must not touch the file")
}

func TestFileStore_NoTempFilesLeft(t *testing.T) {
	fs, path := newTestStore(t)
	_, err := fs.Merge(context.Background(), []models.Listing{{Title: "A", ID: "1"}})
	require.NoError(t, err)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "job_listings.json", entries[0].Name())
}

func TestNewEntries(t *testing.T) {
	existing := []models.Listing{{Title: "A", ID: "1"}}
	pass := []models.Listing{{Title: "A renamed", ID: "1"}, {Title: "B", ID: "2"}, {Title: "b", ID: "B"}}

	assert.Equal(t, []models.Listing{{Title: "B", ID: "2"}, {Title: "b", ID: "B"}}, NewEntries(existing, pass))
	assert.Empty(t, NewEntries(pass, pass))
}
