package models

import "errors"

var (
	// ErrArityMismatch means the chunk and vector slices passed to the
	// index differ in length.
	ErrArityMismatch = errors.New("chunk and vector counts do not match")

	// ErrEmbedding wraps failures of the embedding capability.
	ErrEmbedding = errors.New("embedding failed")

	// ErrIndex wraps failures of the vector store.
	ErrIndex = errors.New("vector index failed")

	// ErrConfiguration means a required external capability is not
	// configured, e.g. a missing generation API key.
	ErrConfiguration = errors.New("missing configuration")
)
