package rag

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-rag/internal/config"
	"course-rag/internal/memory"
	"course-rag/internal/models"
)

func testRAGConfig() *config.RAGConfig {
	return &config.RAGConfig{
		RetrieveResults: 15,
		OverfetchFactor: 2,
		OverfetchMin:    20,
		PromptContexts:  5,
		MaxMessages:     20,
	}
}

func TestAnswerQuery_RecordsBothTurns(t *testing.T) {
	index := &fakeIndex{results: []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"),
	}}
	conversations := memory.New(20)
	r := NewRAG(index, &fakeEmbedder{vec: []float32{0.1}}, nil, conversations, testRAGConfig())

	answer, err := r.AnswerQuery(context.Background(), "What is the cost?", "s1")
	require.NoError(t, err)
	assert.Contains(t, answer.Answer, "49,999")
	assert.Equal(t, "https://x/y", answer.SourceURL)

	history := conversations.History("s1", 0)
	require.Len(t, history, 2)
	assert.Equal(t, "user", history[0].Role)
	assert.Equal(t, "What is the cost?", history[0].Content)
	assert.Equal(t, "assistant", history[1].Role)
	assert.Equal(t, "https://x/y", history[1].Metadata[models.MetaKeySourceURL])
}

// Follow-up questions about "it" resolve against the course named
// earlier in the session, and that course's chunks rank first.
func TestAnswerQuery_FollowUpResolvesCourseFromHistory(t *testing.T) {
	index := &fakeIndex{results: []models.RetrievalResult{
		batchContext("Product Management", "59,999", "Feb 1", "https://x/pm"),
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/da"),
	}}
	conversations := memory.New(20)
	r := NewRAG(index, &fakeEmbedder{vec: []float32{0.1}}, nil, conversations, testRAGConfig())

	_, err := r.AnswerQuery(context.Background(), "Tell me about the data analyst course", "s1")
	require.NoError(t, err)

	answer, err := r.AnswerQuery(context.Background(), "what is its cost", "s1")
	require.NoError(t, err)

	assert.Equal(t, "https://x/da", answer.SourceURL)
	assert.Contains(t, answer.Answer, "49,999")
}

func TestAnswerQuery_EmptySessionDefaults(t *testing.T) {
	index := &fakeIndex{}
	conversations := memory.New(20)
	r := NewRAG(index, &fakeEmbedder{vec: []float32{0.1}}, nil, conversations, testRAGConfig())

	answer, err := r.AnswerQuery(context.Background(), "hello there", "")
	require.NoError(t, err)
	assert.Equal(t, models.NoRelevantInfoAnswer, answer.Answer)
	assert.Equal(t, 2, conversations.Len("default"))
}

func TestAnswerQuery_PropagatesRetrievalErrors(t *testing.T) {
	conversations := memory.New(20)
	r := NewRAG(&fakeIndex{}, &fakeEmbedder{err: errors.New("boom")}, nil, conversations, testRAGConfig())

	_, err := r.AnswerQuery(context.Background(), "anything", "s1")
	assert.ErrorIs(t, err, models.ErrEmbedding)

	// no assistant turn is recorded for a failed query
	history := conversations.History("s1", 0)
	require.Len(t, history, 1)
	assert.Equal(t, "user", history[0].Role)
}

func TestClearSession(t *testing.T) {
	index := &fakeIndex{}
	conversations := memory.New(20)
	r := NewRAG(index, &fakeEmbedder{vec: []float32{0.1}}, nil, conversations, testRAGConfig())

	_, err := r.AnswerQuery(context.Background(), "hello", "s1")
	require.NoError(t, err)
	require.NotZero(t, conversations.Len("s1"))

	r.ClearSession("s1")
	assert.Zero(t, conversations.Len("s1"))
}
