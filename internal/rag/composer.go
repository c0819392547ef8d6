package rag

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"

	"course-rag/internal/config"
	"course-rag/internal/llmservice"
	"course-rag/internal/models"
)

// Composer turns ranked chunks plus conversation history into the
// final answer. Generation failures never escape this boundary: a
// rate-limited call falls back to deterministic extraction, any other
// failure becomes an apologetic answer string.
type Composer struct {
	generator      llmservice.Generator // nil means extraction-only
	promptContexts int
}

func NewComposer(generator llmservice.Generator, ragConfig *config.RAGConfig) *Composer {
	return &Composer{
		generator:      generator,
		promptContexts: ragConfig.PromptContexts,
	}
}

// Compose builds the answer for the query. The cited source is always
// the first ranked chunk's source URL, the retrieval engine's top
// choice after reordering.
func (c *Composer) Compose(ctx context.Context, query string, contexts []models.RetrievalResult, historyText string) models.Answer {
	if len(contexts) == 0 {
		return models.Answer{Answer: models.NoRelevantInfoAnswer}
	}

	sourceURL := contexts[0].Metadata[models.MetaKeySourceURL]
	answer := models.Answer{
		SourceURL:    sourceURL,
		ContextsUsed: len(contexts),
	}

	if c.generator == nil {
		answer.Answer = extractAnswer(query, contexts, sourceURL)
		return answer
	}

	prompt := c.buildPrompt(query, contexts, historyText, sourceURL)
	result := c.generator.Generate(ctx, prompt)

	switch result.Status {
	case llmservice.StatusOK:
		answer.Answer = withSource(result.Content, sourceURL)
	case llmservice.StatusRateLimited:
		log.Info().Msg("Falling back to extraction after rate limit")
		answer.Answer = extractAnswer(query, contexts, sourceURL)
	default:
		answer.Answer = fmt.Sprintf(models.GenerationErrorAnswer, result.Err)
	}
	return answer
}

// buildPrompt caps the context window to the top promptContexts chunks
// even when more were ranked.
func (c *Composer) buildPrompt(query string, contexts []models.RetrievalResult, historyText, sourceURL string) string {
	top := contexts
	if len(top) > c.promptContexts {
		top = top[:c.promptContexts]
	}

	parts := make([]string, len(top))
	for i, ctx := range top {
		parts[i] = fmt.Sprintf("Context %d:\n%s", i+1, ctx.Content)
	}
	contextText := strings.Join(parts, "\n\n")

	historySection := ""
	if historyText != "" {
		historySection = fmt.Sprintf(models.HistorySectionTemplate, historyText)
	}

	return fmt.Sprintf(models.AnswerPromptTemplate, contextText, historySection, query, sourceURL)
}

// extractAnswer pulls facts straight from chunk metadata, keyed on the
// query's intent keywords. Used when no generator is configured and as
// the rate-limit fallback.
func extractAnswer(query string, contexts []models.RetrievalResult, sourceURL string) string {
	queryLower := strings.ToLower(query)
	var parts []string

	if containsAny(queryLower, []string{"emi", "installment", "payment"}) {
		if emi := extractEMI(contexts); len(emi) > 0 {
			parts = append(parts, "EMI Options available:")
			parts = append(parts, emi...)
		}
	}

	if strings.Contains(queryLower, "price") || strings.Contains(queryLower, "cost") {
		for _, ctx := range contexts {
			if cost := ctx.Metadata[models.MetaKeyCost]; cost != "" {
				parts = append(parts, fmt.Sprintf("The cost is ₹%s", cost))
				break
			}
		}
	}

	if strings.Contains(queryLower, "date") || strings.Contains(queryLower, "start") {
		found := false
		for _, ctx := range contexts {
			date := ctx.Metadata[models.MetaKeyBatchStartDate]
			if date != "" && date != "null" {
				parts = append(parts, fmt.Sprintf("The batch starts on %s", date))
				found = true
				break
			}
		}
		if !found {
			parts = append(parts, models.DateNotAvailableAnswer)
		}
	}

	if len(parts) == 0 {
		parts = append(parts, contexts[0].Content)
	}

	return withSource(strings.Join(parts, ". "), sourceURL)
}

// extractEMI prefers the payment chunk's content lines, falling back
// to the comma-joined emi_options metadata the store flattened.
func extractEMI(contexts []models.RetrievalResult) []string {
	for _, ctx := range contexts {
		if ctx.Metadata[models.MetaKeyType] != string(models.ChunkPayment) {
			continue
		}

		if strings.Contains(ctx.Content, "EMI Options") {
			var lines []string
			for _, line := range strings.Split(ctx.Content, "\n") {
				line = strings.TrimSpace(line)
				if strings.HasPrefix(line, "-") && (strings.Contains(line, "₹") || strings.Contains(line, "EMI")) {
					lines = append(lines, line)
				}
			}
			if len(lines) > 0 {
				return lines
			}
		}

		if opts := ctx.Metadata[models.MetaKeyEMIOptions]; opts != "" {
			var lines []string
			for _, emi := range strings.Split(opts, ",") {
				if emi = strings.TrimSpace(emi); emi != "" {
					lines = append(lines, "- "+emi)
				}
			}
			if len(lines) > 0 {
				return lines
			}
		}
	}
	return nil
}

// withSource appends the citation line unless the answer already
// mentions the source.
func withSource(answer, sourceURL string) string {
	if sourceURL == "" || strings.Contains(answer, sourceURL) {
		return answer
	}
	return answer + fmt.Sprintf("\n\nSource: %s", sourceURL)
}
