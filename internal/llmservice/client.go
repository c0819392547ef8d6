// Package llmservice is the answer-generation capability. Failures are
// classified into a typed result so callers branch on a condition
// instead of sniffing error strings.
package llmservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
	"github.com/tmc/langchaingo/schema"

	"course-rag/internal/config"
	"course-rag/internal/models"
)

type GenerateStatus int

const (
	StatusOK GenerateStatus = iota
	// StatusRateLimited marks quota / 429 shaped failures. The answer
	// composer recovers from these with deterministic extraction.
	StatusRateLimited
	StatusFailed
)

// Result is the outcome of one generation call.
type Result struct {
	Status  GenerateStatus
	Content string
	Err     error
}

// Generator produces text for a prompt.
type Generator interface {
	Generate(ctx context.Context, prompt string) Result
}

// Client calls an OpenAI-compatible chat endpoint.
type Client struct {
	llm   *openai.LLM
	model string
}

// NewClient fails with ErrConfiguration when the API key is absent;
// the generation path must never start half-configured.
func NewClient(llmConfig *config.LLMConfig) (*Client, error) {
	if llmConfig.Key == "" {
		return nil, fmt.Errorf("%w: inference API key (set %s)",
			models.ErrConfiguration, llmConfig.KeyEnv)
	}

	llm, err := openai.New(
		openai.WithBaseURL(llmConfig.BaseURL),
		openai.WithToken(strings.TrimPrefix(llmConfig.Key, "Bearer ")),
		openai.WithModel(llmConfig.Model),
	)
	if err != nil {
		return nil, err
	}
	return &Client{llm: llm, model: llmConfig.Model}, nil
}

func (c *Client) Generate(ctx context.Context, prompt string) Result {
	messages := []llms.MessageContent{
		{
			Role:  schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{llms.TextContent{Text: prompt}},
		},
	}

	res, err := c.llm.GenerateContent(ctx, messages)
	if err != nil {
		return classify(err)
	}
	if len(res.Choices) == 0 {
		return Result{Status: StatusFailed, Err: fmt.Errorf("no choices returned")}
	}
	return Result{Status: StatusOK, Content: strings.TrimSpace(res.Choices[0].Content)}
}

// classify maps provider errors onto the typed statuses. Rate-limit
// shapes vary by provider, so this is the one place that inspects
// error text.
func classify(err error) Result {
	msg := strings.ToLower(err.Error())
	if strings.Contains(msg, "quota") || strings.Contains(msg, "429") || strings.Contains(msg, "rate limit") {
		log.Warn().Err(err).Msg("Generation rate limited")
		return Result{Status: StatusRateLimited, Err: err}
	}
	return Result{Status: StatusFailed, Err: err}
}
