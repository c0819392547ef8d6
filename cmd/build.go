package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"course-rag/internal/chromemdb"
	"course-rag/internal/chunker"
	"course-rag/internal/embedding"
	"course-rag/internal/source"
)

var buildDataDir string

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the knowledge base from scraped course records",
	RunE:  runBuild,
}

func init() {
	buildCmd.Flags().StringVar(&buildDataDir, "data", "./data/courses", "Directory with course record JSON files")
	rootCmd.AddCommand(buildCmd)
}

func runBuild(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	records, err := source.LoadCourses(buildDataDir)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		return fmt.Errorf("no course records found in %s", buildDataDir)
	}

	chunks := chunker.ChunkAll(records)
	log.Info().Int("courses", len(records)).Int("chunks", len(chunks)).Msg("Chunked course records")

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	contents := make([]string, len(chunks))
	for i, chunk := range chunks {
		contents[i] = chunk.Content
	}
	vectors, err := embedder.EmbedDocuments(ctx, contents)
	if err != nil {
		return fmt.Errorf("failed to generate embeddings: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %v", err)
	}

	// A rebuild supersedes earlier chunks instead of mutating them.
	if err := store.Reset(ctx); err != nil {
		return fmt.Errorf("failed to reset vector store: %v", err)
	}
	if err := store.Add(ctx, chunks, vectors); err != nil {
		return fmt.Errorf("failed to store chunks: %v", err)
	}

	info, err := store.Info(ctx)
	if err != nil {
		return err
	}
	log.Info().Str("collection", info.Collection).Int("chunks", info.Chunks).Msg("Knowledge base built")

	// In-memory collections are lost on exit; with an encryption key
	// configured the build survives as a snapshot that serve and query
	// restore at startup.
	if snap, ok := store.(*chromemdb.Store); ok && cfg.Store.InMemory && cfg.Store.EncryptionKey != "" {
		if err := snap.Export(ctx); err != nil {
			return fmt.Errorf("failed to export snapshot: %v", err)
		}
		log.Info().Msg("Exported encrypted snapshot")
	}
	return nil
}
