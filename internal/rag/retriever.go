package rag

import (
	"context"
	"fmt"
	"strings"

	"course-rag/internal/config"
	"course-rag/internal/embedding"
	"course-rag/internal/models"
)

// Retriever embeds a query, over-fetches nearest neighbours, then
// applies deterministic metadata-driven reordering. Reordering never
// re-scores and never injects chunks; the over-fetch exists so that
// boosted chunk types are actually present in the candidate set.
type Retriever struct {
	index           VectorIndex
	embedder        embedding.Embedder
	overfetchFactor int
	overfetchMin    int
}

func NewRetriever(index VectorIndex, embedder embedding.Embedder, ragConfig *config.RAGConfig) *Retriever {
	return &Retriever{
		index:           index,
		embedder:        embedder,
		overfetchFactor: ragConfig.OverfetchFactor,
		overfetchMin:    ragConfig.OverfetchMin,
	}
}

// Retrieve returns the n most relevant chunks for the query.
// courseFilter, when non-empty, is a course-name substring; chunks
// whose cohort matches it are moved ahead of the rest.
func (r *Retriever) Retrieve(ctx context.Context, query string, n int, courseFilter string) ([]models.RetrievalResult, error) {
	vector, err := r.embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrEmbedding, err)
	}

	fetch := n * r.overfetchFactor
	if fetch < r.overfetchMin {
		fetch = r.overfetchMin
	}

	contexts, err := r.index.Search(ctx, vector, fetch, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", models.ErrIndex, err)
	}

	if courseFilter != "" {
		filter := strings.ToLower(courseFilter)
		contexts = partition(contexts, func(c models.RetrievalResult) bool {
			return strings.Contains(strings.ToLower(c.Metadata[models.MetaKeyCohortName]), filter)
		})
	}

	queryLower := strings.ToLower(query)

	// Embeddings alone rank short structured facts (a price, a date)
	// poorly, so intent keywords pull the fact-bearing chunk type to
	// the front. Partitions are stable.
	if containsAny(queryLower, models.BatchIntentKeywords) {
		contexts = partition(contexts, chunkTypeIs(models.ChunkBatch))
	}

	// Applied after the batch boost, so a payment intent wins ties:
	// payment chunks first, then batch for course context, then rest.
	if containsAny(queryLower, models.PaymentIntentKeywords) {
		contexts = partition(contexts, chunkTypeIs(models.ChunkBatch))
		contexts = partition(contexts, chunkTypeIs(models.ChunkPayment))
	}

	if len(contexts) > n {
		contexts = contexts[:n]
	}
	return contexts, nil
}

// partition stably moves matching entries ahead of the rest.
func partition(contexts []models.RetrievalResult, match func(models.RetrievalResult) bool) []models.RetrievalResult {
	matched := make([]models.RetrievalResult, 0, len(contexts))
	var rest []models.RetrievalResult
	for _, c := range contexts {
		if match(c) {
			matched = append(matched, c)
		} else {
			rest = append(rest, c)
		}
	}
	return append(matched, rest...)
}

func chunkTypeIs(t models.ChunkType) func(models.RetrievalResult) bool {
	return func(c models.RetrievalResult) bool {
		return c.Metadata[models.MetaKeyType] == string(t)
	}
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
