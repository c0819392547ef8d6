// Package chromemdb backs the vector index with an embedded chromem-go
// collection. chromem ranks by cosine similarity; results are reported
// as distance = 1 - similarity so callers always see smaller-is-closer.
package chromemdb

import (
	"context"
	"fmt"
	"runtime"

	"github.com/philippgille/chromem-go"
	"github.com/rs/zerolog/log"

	"course-rag/internal/models"
)

const compress = false

// Store wraps a chromem collection behind the vector-index contract.
type Store struct {
	db             *chromem.DB
	collection     *chromem.Collection
	dbPath         string
	collectionName string
	encryptionKey  string
	filePath       string
	inMemory       bool
}

// NewStore opens (or creates) the database and its collection.
func NewStore(dbPath, collectionName string, inMemory bool, encryptionKey string) (*Store, error) {
	var db *chromem.DB
	var err error
	if inMemory {
		db = chromem.NewDB()
	} else {
		db, err = chromem.NewPersistentDB(dbPath, compress)
		if err != nil {
			return nil, fmt.Errorf("failed to create database: %v", err)
		}
	}

	collection, err := db.GetOrCreateCollection(collectionName, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create/get collection: %v", err)
	}

	return &Store{
		db:             db,
		collection:     collection,
		dbPath:         dbPath,
		collectionName: collectionName,
		encryptionKey:  encryptionKey,
		filePath:       dbPath + "/" + collectionName + ".chromem",
		inMemory:       inMemory,
	}, nil
}

// Add stores chunks with their precomputed embeddings. Identifiers are
// position-based, which keeps them stable within one build.
func (s *Store) Add(ctx context.Context, chunks []models.Chunk, vectors [][]float32) error {
	if len(chunks) != len(vectors) {
		return fmt.Errorf("%w: %d chunks, %d vectors",
			models.ErrArityMismatch, len(chunks), len(vectors))
	}
	if len(chunks) == 0 {
		return nil
	}

	docs := make([]chromem.Document, len(chunks))
	for i, chunk := range chunks {
		docs[i] = chromem.Document{
			ID:        fmt.Sprintf("chunk_%d", i),
			Content:   chunk.Content,
			Metadata:  chunk.Meta.Flatten(),
			Embedding: vectors[i],
		}
	}

	if err := s.collection.AddDocuments(ctx, docs, runtime.NumCPU()); err != nil {
		return fmt.Errorf("failed to add documents: %v", err)
	}
	return nil
}

// Search returns up to k nearest neighbours. k is clamped to the
// collection size; chromem rejects larger values. filter is an
// equality match on metadata fields applied before ranking.
func (s *Store) Search(ctx context.Context, vector []float32, k int, filter map[string]string) ([]models.RetrievalResult, error) {
	count := s.collection.Count()
	if count == 0 {
		return nil, nil
	}
	if k > count {
		k = count
	}

	results, err := s.collection.QueryWithOptions(ctx, chromem.QueryOptions{
		QueryEmbedding: vector,
		NResults:       k,
		Where:          filter,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query by similarity: %v", err)
	}

	out := make([]models.RetrievalResult, len(results))
	for i, r := range results {
		out[i] = models.RetrievalResult{
			Content:  r.Content,
			Metadata: r.Metadata,
			Distance: 1 - r.Similarity,
		}
	}
	return out, nil
}

// Info reports the collection name and stored-chunk count.
func (s *Store) Info(ctx context.Context) (models.IndexInfo, error) {
	return models.IndexInfo{
		Collection: s.collectionName,
		Chunks:     s.collection.Count(),
	}, nil
}

// Reset drops and recreates the collection. Rebuilds supersede chunks
// rather than mutating them.
func (s *Store) Reset(ctx context.Context) error {
	if err := s.db.DeleteCollection(s.collectionName); err != nil {
		return fmt.Errorf("failed to drop collection: %v", err)
	}
	collection, err := s.db.GetOrCreateCollection(s.collectionName, nil, nil)
	if err != nil {
		return fmt.Errorf("failed to recreate collection: %v", err)
	}
	s.collection = collection
	return nil
}

// Export writes an encrypted snapshot of the collection. Only useful
// for in-memory databases; persistent ones are already on disk.
func (s *Store) Export(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}

	log.Debug().
		Str("collection", s.collectionName).
		Str("file_path", s.filePath).
		Msg("Exporting collection")

	if err := s.db.ExportToFile(s.filePath, compress, s.encryptionKey, s.collectionName); err != nil {
		return fmt.Errorf("failed to export database: %v", err)
	}
	return nil
}

// Import restores a previously exported snapshot and rebinds the
// collection to the restored data. A missing snapshot file is an
// error; callers treat the first run without one as non-fatal.
func (s *Store) Import(ctx context.Context) error {
	if s.encryptionKey == "" {
		return fmt.Errorf("encryption key is required")
	}
	if err := s.db.ImportFromFile(s.filePath, s.encryptionKey); err != nil {
		return fmt.Errorf("failed to import database: %v", err)
	}

	collection := s.db.GetCollection(s.collectionName, nil)
	if collection == nil {
		return fmt.Errorf("snapshot does not contain collection %s", s.collectionName)
	}
	s.collection = collection
	return nil
}
