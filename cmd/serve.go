package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"course-rag/internal/embedding"
	"course-rag/internal/memory"
	"course-rag/internal/rag"
	"course-rag/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the FAQ chatbot API over HTTP",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	store, err := openStore(cfg)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %v", err)
	}

	embedder, err := embedding.NewEmbedder(&cfg.EmbedLLM)
	if err != nil {
		return fmt.Errorf("failed to initialize embedder: %v", err)
	}

	generator, err := newGenerator(cfg)
	if err != nil {
		return err
	}

	conversations := memory.New(cfg.RAG.MaxMessages)
	ragService := rag.NewRAG(store, embedder, generator, conversations, &cfg.RAG)
	srv := server.NewServer(ragService, store, &cfg.Server)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil && err != http.ErrServerClosed {
			return err
		}
	case <-ctx.Done():
		log.Info().Msg("Shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Stop(shutdownCtx)
	}
	return nil
}
