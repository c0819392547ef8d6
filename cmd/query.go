package main

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"course-rag/internal/embedding"
	"course-rag/internal/helper"
	"course-rag/internal/memory"
	"course-rag/internal/rag"
)

var queryCmd = &cobra.Command{
	Use:   "query [question]",
	Short: "Answer a single question from the knowledge base",
	Args:  cobra.ExactArgs(1),
	RunE:  runQuery,
}

func init() {
	rootCmd.AddCommand(queryCmd)
}

func runQuery(cmd *cobra.Command, args []string) error {
	ctx := context.Background()
	question := args[0]

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

	sessionID, err := helper.GenerateUUID()
	if err != nil {
		sessionID = "default"
	}

	conversations := memory.New(cfg.RAG.MaxMessages)
	ragService := rag.NewRAG(store, embedder, generator, conversations, &cfg.RAG)

	response, err := ragService.AnswerQuery(ctx, question, sessionID)
	if err != nil {
		return err
	}

	log.Info().Msg("Query: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", question)

	log.Info().Msg("Source: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.SourceURL)

	log.Info().Msg("Assistant: ~~~~~~~~~~~~~~~~~~~~~~~~~>>>>>")
	fmt.Printf("%s\n\n", response.Answer)

	return nil
}
