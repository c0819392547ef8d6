package chromemdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-rag/internal/models"
)

func newMemStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir(), "test_collection", true, "")
	require.NoError(t, err)
	return store
}

func paymentChunk(url string) models.Chunk {
	return models.Chunk{
		Content: "Payment Options for Data Analyst",
		Meta: models.PaymentMeta{
			CommonMeta: models.CommonMeta{CohortName: "Data Analyst", SourceURL: url},
			EMIOptions: []string{"Plan A", "Plan B"},
		},
	}
}

func batchChunk(url string) models.Chunk {
	return models.Chunk{
		Content: "Batch Information for Data Analyst",
		Meta: models.BatchMeta{
			CommonMeta: models.CommonMeta{CohortName: "Data Analyst", SourceURL: url},
			Cost:       "49,999",
		},
	}
}

func TestAdd_ArityMismatch(t *testing.T) {
	store := newMemStore(t)

	err := store.Add(context.Background(), []models.Chunk{batchChunk("https://x/y")}, nil)
	assert.ErrorIs(t, err, models.ErrArityMismatch)
}

func TestAdd_EmptyIsNoop(t *testing.T) {
	store := newMemStore(t)
	require.NoError(t, store.Add(context.Background(), nil, nil))

	info, err := store.Info(context.Background())
	require.NoError(t, err)
	assert.Zero(t, info.Chunks)
}

func TestAddSearchInfo(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	chunks := []models.Chunk{batchChunk("https://x/y"), paymentChunk("https://x/y")}
	vectors := [][]float32{{1, 0, 0}, {0, 1, 0}}
	require.NoError(t, store.Add(ctx, chunks, vectors))

	info, err := store.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, "test_collection", info.Collection)
	assert.Equal(t, 2, info.Chunks)

	results, err := store.Search(ctx, []float32{1, 0, 0}, 2, nil)
	require.NoError(t, err)
	require.Len(t, results, 2)

	// nearest first, smaller distance is closer
	assert.Equal(t, "Batch Information for Data Analyst", results[0].Content)
	assert.Less(t, results[0].Distance, results[1].Distance)
	assert.Equal(t, "batch", results[0].Metadata[models.MetaKeyType])
	assert.Equal(t, "49,999", results[0].Metadata[models.MetaKeyCost])
}

func TestSearch_ClampsKToCollectionSize(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	require.NoError(t, store.Add(ctx,
		[]models.Chunk{batchChunk("https://x/y")},
		[][]float32{{1, 0, 0}},
	))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 20, nil)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestSearch_EmptyCollection(t *testing.T) {
	store := newMemStore(t)

	results, err := store.Search(context.Background(), []float32{1, 0, 0}, 5, nil)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestSearch_MetadataFilter(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	require.NoError(t, store.Add(ctx,
		[]models.Chunk{batchChunk("https://x/y"), paymentChunk("https://x/y")},
		[][]float32{{1, 0, 0}, {0, 1, 0}},
	))

	results, err := store.Search(ctx, []float32{1, 0, 0}, 1, map[string]string{
		models.MetaKeyType: "payment",
	})
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "payment", results[0].Metadata[models.MetaKeyType])
}

func TestSearch_ListMetadataIsFlattened(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	require.NoError(t, store.Add(ctx,
		[]models.Chunk{paymentChunk("https://x/y")},
		[][]float32{{0, 1, 0}},
	))

	results, err := store.Search(ctx, []float32{0, 1, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Plan A, Plan B", results[0].Metadata[models.MetaKeyEMIOptions])
}

func TestExportImport_RoundTrip(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	key := "0123456789abcdef0123456789abcdef"

	store, err := NewStore(dir, "test_collection", true, key)
	require.NoError(t, err)
	require.NoError(t, store.Add(ctx,
		[]models.Chunk{batchChunk("https://x/y")},
		[][]float32{{1, 0, 0}},
	))
	require.NoError(t, store.Export(ctx))

	// a fresh in-memory store starts empty and restores from the snapshot
	restored, err := NewStore(dir, "test_collection", true, key)
	require.NoError(t, err)
	require.NoError(t, restored.Import(ctx))

	info, err := restored.Info(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, info.Chunks)

	results, err := restored.Search(ctx, []float32{1, 0, 0}, 1, nil)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Equal(t, "Batch Information for Data Analyst", results[0].Content)
	assert.Equal(t, "49,999", results[0].Metadata[models.MetaKeyCost])
}

func TestExport_RequiresEncryptionKey(t *testing.T) {
	store := newMemStore(t)
	assert.Error(t, store.Export(context.Background()))
}

func TestImport_MissingSnapshot(t *testing.T) {
	store, err := NewStore(t.TempDir(), "test_collection", true, "0123456789abcdef0123456789abcdef")
	require.NoError(t, err)
	assert.Error(t, store.Import(context.Background()))
}

func TestReset_EmptiesCollection(t *testing.T) {
	ctx := context.Background()
	store := newMemStore(t)

	require.NoError(t, store.Add(ctx,
		[]models.Chunk{batchChunk("https://x/y")},
		[][]float32{{1, 0, 0}},
	))
	require.NoError(t, store.Reset(ctx))

	info, err := store.Info(ctx)
	require.NoError(t, err)
	assert.Zero(t, info.Chunks)
}
