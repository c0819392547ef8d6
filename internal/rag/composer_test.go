package rag

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"course-rag/internal/config"
	"course-rag/internal/llmservice"
	"course-rag/internal/models"
)

type fakeGenerator struct {
	result     llmservice.Result
	lastPrompt string
}

func (f *fakeGenerator) Generate(ctx context.Context, prompt string) llmservice.Result {
	f.lastPrompt = prompt
	return f.result
}

func newTestComposer(gen llmservice.Generator) *Composer {
	return NewComposer(gen, &config.RAGConfig{PromptContexts: 5})
}

func batchContext(cohort, cost, date, url string) models.RetrievalResult {
	return models.RetrievalResult{
		Content: "Batch Information for " + cohort,
		Metadata: map[string]string{
			models.MetaKeyType:           string(models.ChunkBatch),
			models.MetaKeyCohortName:     cohort,
			models.MetaKeySourceURL:      url,
			models.MetaKeyCost:           cost,
			models.MetaKeyBatchStartDate: date,
		},
	}
}

func TestCompose_EmptyContexts(t *testing.T) {
	c := newTestComposer(nil)

	answer := c.Compose(context.Background(), "what is the cost", nil, "")
	assert.Equal(t, models.NoRelevantInfoAnswer, answer.Answer)
	assert.Empty(t, answer.SourceURL)
	assert.Zero(t, answer.ContextsUsed)
}

func TestCompose_SourceIsAlwaysFirstChunk(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{Status: llmservice.StatusOK, Content: "Generated answer"}}
	c := newTestComposer(gen)

	contexts := []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/first"),
		batchContext("Product Management", "59,999", "Feb 1", "https://x/second"),
	}

	answer := c.Compose(context.Background(), "what is the cost", contexts, "")
	assert.Equal(t, "https://x/first", answer.SourceURL)
	assert.Contains(t, answer.Answer, "Source: https://x/first")
	assert.Equal(t, 2, answer.ContextsUsed)
}

func TestCompose_DoesNotDuplicateSource(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{
		Status:  llmservice.StatusOK,
		Content: "The cost is ₹49,999\n\nSource: https://x/y",
	}}
	c := newTestComposer(gen)

	answer := c.Compose(context.Background(), "cost?", []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"),
	}, "")

	assert.Equal(t, 1, strings.Count(answer.Answer, "https://x/y"))
}

func TestCompose_RateLimitFallsBackToExtraction(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{
		Status: llmservice.StatusRateLimited,
		Err:    errors.New("429 quota exceeded"),
	}}
	c := newTestComposer(gen)

	answer := c.Compose(context.Background(), "What is the cost?", []models.RetrievalResult{
		batchContext("Data Analyst", "32,999", "", "https://x/y"),
	}, "")

	assert.Contains(t, answer.Answer, "32,999")
	assert.NotContains(t, answer.Answer, "429")
}

func TestCompose_OtherGenerationErrorBecomesApology(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{
		Status: llmservice.StatusFailed,
		Err:    errors.New("model exploded"),
	}}
	c := newTestComposer(gen)

	answer := c.Compose(context.Background(), "what is the cost", []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"),
	}, "")

	assert.Contains(t, answer.Answer, "model exploded")
	assert.Contains(t, answer.Answer, "error")
}

func TestCompose_NoGeneratorExtractsCost(t *testing.T) {
	c := newTestComposer(nil)

	answer := c.Compose(context.Background(), "What is the cost?", []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"),
	}, "")

	assert.Contains(t, answer.Answer, "49,999")
	assert.True(t, strings.HasSuffix(answer.Answer, "Source: https://x/y"), answer.Answer)
}

func TestCompose_ExtractionDateNotAvailable(t *testing.T) {
	c := newTestComposer(nil)

	answer := c.Compose(context.Background(), "when does it start", []models.RetrievalResult{
		batchContext("Data Analyst", "", "", "https://x/y"),
	}, "")

	assert.Contains(t, answer.Answer, models.DateNotAvailableAnswer)
}

func TestCompose_ExtractionEMIFromContent(t *testing.T) {
	c := newTestComposer(nil)

	contexts := []models.RetrievalResult{
		{
			Content: "Payment Options for Data Analyst:\nEMI Options:\n- ₹8,333/month for 6 months\n- ₹4,166/month for 12 months",
			Metadata: map[string]string{
				models.MetaKeyType:       string(models.ChunkPayment),
				models.MetaKeySourceURL:  "https://x/y",
				models.MetaKeyEMIOptions: "₹8,333/month for 6 months, ₹4,166/month for 12 months",
			},
		},
	}

	answer := c.Compose(context.Background(), "what EMI plans do you have", contexts, "")
	assert.Contains(t, answer.Answer, "EMI Options available:")
	assert.Contains(t, answer.Answer, "₹8,333/month for 6 months")
	assert.Contains(t, answer.Answer, "₹4,166/month for 12 months")
}

func TestCompose_ExtractionEMIFromMetadata(t *testing.T) {
	c := newTestComposer(nil)

	contexts := []models.RetrievalResult{
		{
			Content: "some unrelated payment text",
			Metadata: map[string]string{
				models.MetaKeyType:       string(models.ChunkPayment),
				models.MetaKeySourceURL:  "https://x/y",
				models.MetaKeyEMIOptions: "Plan A, Plan B",
			},
		},
	}

	answer := c.Compose(context.Background(), "emi?", contexts, "")
	assert.Contains(t, answer.Answer, "- Plan A")
	assert.Contains(t, answer.Answer, "- Plan B")
}

func TestCompose_ExtractionFallsBackToFirstChunkContent(t *testing.T) {
	c := newTestComposer(nil)

	contexts := []models.RetrievalResult{
		{
			Content: "Curriculum for Data Analyst: SQL Basics",
			Metadata: map[string]string{
				models.MetaKeyType:      string(models.ChunkCurriculum),
				models.MetaKeySourceURL: "https://x/y",
			},
		},
	}

	answer := c.Compose(context.Background(), "tell me about the syllabus", contexts, "")
	assert.Contains(t, answer.Answer, "SQL Basics")
	assert.Contains(t, answer.Answer, "Source: https://x/y")
}

func TestCompose_PromptCapsContexts(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{Status: llmservice.StatusOK, Content: "ok"}}
	c := newTestComposer(gen)

	var contexts []models.RetrievalResult
	for i := 0; i < 7; i++ {
		contexts = append(contexts, batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"))
	}

	answer := c.Compose(context.Background(), "cost?", contexts, "")
	require.NotEmpty(t, answer.Answer)
	assert.Contains(t, gen.lastPrompt, "Context 5:")
	assert.NotContains(t, gen.lastPrompt, "Context 6:")
	// all ranked chunks still count as used, only the prompt is capped
	assert.Equal(t, 7, answer.ContextsUsed)
}

func TestCompose_PromptIncludesHistory(t *testing.T) {
	gen := &fakeGenerator{result: llmservice.Result{Status: llmservice.StatusOK, Content: "ok"}}
	c := newTestComposer(gen)

	history := "User: tell me about the data analyst course\nAssistant: It is a 16 week course"
	c.Compose(context.Background(), "what is its cost", []models.RetrievalResult{
		batchContext("Data Analyst", "49,999", "Jan 3", "https://x/y"),
	}, history)

	assert.Contains(t, gen.lastPrompt, "Previous Conversation:")
	assert.Contains(t, gen.lastPrompt, "tell me about the data analyst course")
}
