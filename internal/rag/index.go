package rag

import (
	"context"

	"course-rag/internal/models"
)

// VectorIndex is the narrow contract the retrieval pipeline needs from
// a vector store. chromemdb.Store and db.Store both satisfy it.
type VectorIndex interface {
	// Add stores chunks with their embeddings. Implementations reject
	// mismatched slice lengths with models.ErrArityMismatch.
	Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error

	// Search returns up to k nearest neighbours, closest first.
	// filter is an equality match on flat metadata fields.
	Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]models.RetrievalResult, error)

	// Info reports collection name and chunk count for health checks.
	Info(ctx context.Context) (models.IndexInfo, error)

	// Reset clears the index ahead of a rebuild.
	Reset(ctx context.Context) error
}
