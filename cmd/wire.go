package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"course-rag/internal/chromemdb"
	"course-rag/internal/config"
	"course-rag/internal/db"
	"course-rag/internal/llmservice"
	"course-rag/internal/rag"
)

// openStore builds the configured vector-index backend. In-memory
// chromem stores restore the encrypted snapshot a previous build
// exported, when one exists.
func openStore(cfg *config.Config) (rag.VectorIndex, error) {
	switch cfg.Store.Backend {
	case "postgres":
		sqldb, err := db.ConnectDB(&cfg.Store)
		if err != nil {
			return nil, err
		}
		bunDB := db.NewDB(sqldb, cfg.Store.Debug)
		return db.NewStore(bunDB, cfg.Store.Collection), nil
	default:
		store, err := chromemdb.NewStore(cfg.Store.Path, cfg.Store.Collection,
			cfg.Store.InMemory, cfg.Store.EncryptionKey)
		if err != nil {
			return nil, err
		}
		if cfg.Store.InMemory && cfg.Store.EncryptionKey != "" {
			if err := store.Import(context.Background()); err != nil {
				log.Warn().Err(err).Msg("No snapshot restored, starting with an empty collection")
			}
		}
		return store, nil
	}
}

// newGenerator builds the answer-generation capability, or returns nil
// when no inference model is configured; the composer then answers by
// deterministic extraction only.
func newGenerator(cfg *config.Config) (llmservice.Generator, error) {
	if cfg.InferenceLLM.Model == "" {
		log.Warn().Msg("No inference model configured, answering by extraction only")
		return nil, nil
	}
	return llmservice.NewClient(&cfg.InferenceLLM)
}
