// Package rag wires the retrieval pipeline: embed the question,
// over-fetch and rerank chunks, resolve which course the session is
// talking about, and compose the answer.
package rag

import (
	"context"

	"github.com/rs/zerolog/log"

	"course-rag/internal/config"
	"course-rag/internal/embedding"
	"course-rag/internal/llmservice"
	"course-rag/internal/memory"
	"course-rag/internal/models"
)

// RAG is the query-answering facade handed to the HTTP and CLI layers.
type RAG struct {
	retriever *Retriever
	composer  *Composer
	memory    *memory.Conversations
	nResults  int
}

func NewRAG(index VectorIndex, embedder embedding.Embedder, generator llmservice.Generator, conversations *memory.Conversations, ragConfig *config.RAGConfig) *RAG {
	return &RAG{
		retriever: NewRetriever(index, embedder, ragConfig),
		composer:  NewComposer(generator, ragConfig),
		memory:    conversations,
		nResults:  ragConfig.RetrieveResults,
	}
}

// AnswerQuery answers one question within a session. Only embedding
// and index failures return an error; generation failures are handled
// inside the composer and still produce an answer.
func (r *RAG) AnswerQuery(ctx context.Context, question, sessionID string) (models.Answer, error) {
	if sessionID == "" {
		sessionID = "default"
	}

	r.memory.Add(sessionID, "user", question, nil)
	historyText := r.memory.ContextText(sessionID)

	courseFilter := ResolveCourseFilter(historyText)
	if courseFilter != "" {
		log.Debug().Str("course", courseFilter).Msg("Resolved course filter from history")
	}

	contexts, err := r.retriever.Retrieve(ctx, question, r.nResults, courseFilter)
	if err != nil {
		return models.Answer{}, err
	}

	answer := r.composer.Compose(ctx, question, contexts, historyText)

	r.memory.Add(sessionID, "assistant", answer.Answer, map[string]string{
		models.MetaKeySourceURL: answer.SourceURL,
	})

	return answer, nil
}

// ClearSession drops the session's conversation history.
func (r *RAG) ClearSession(sessionID string) {
	r.memory.Clear(sessionID)
}
