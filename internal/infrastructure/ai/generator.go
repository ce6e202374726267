package ai

import (
	"context"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/rahul-raghavan/pep-ops-log/internal/shared/config"
	"github.com/rahul-raghavan/pep-ops-log/internal/shared/logger"
)

const anthropicVersion = "2023-06-01"

// GenerationResult is the text produced by the model plus usage counters
// recorded alongside stored summaries.
type GenerationResult struct {
	Text         string
	Model        string
	PromptTokens int
	OutputTokens int
}

// ClaudeGenerator produces text through the Anthropic messages API.
type ClaudeGenerator struct {
	client    *resty.Client
	model     string
	maxTokens int
	logger    logger.Interface
}

type messagesRequest struct {
	Model     string           `json:"model"`
	MaxTokens int              `json:"max_tokens"`
	System    string           `json:"system,omitempty"`
	Messages  []messageContent `json:"messages"`
}

type messageContent struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type messagesResponse struct {
	Content []struct {
		Type string `json:"type"`
		Text string `json:"text"`
	} `json:"content"`
	Model string `json:"model"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

type messagesErrorResponse struct {
	Error struct {
		Type    string `json:"type"`
		Message string `json:"message"`
	} `json:"error"`
}

// NewClaudeGenerator creates a new ClaudeGenerator
func NewClaudeGenerator(cfg *config.GenerationConfig, logger logger.Interface) *ClaudeGenerator {
	client := resty.New().
		SetBaseURL(cfg.BaseURL).
		SetTimeout(time.Duration(cfg.TimeoutSecs) * time.Second).
		SetHeader("x-api-key", cfg.APIKey).
		SetHeader("anthropic-version", anthropicVersion).
		SetHeader("Content-Type", "application/json")

	return &ClaudeGenerator{
		client:    client,
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		logger:    logger,
	}
}

// Generate sends the prompt pair to the model and returns the produced text
func (g *ClaudeGenerator) Generate(ctx context.Context, system, prompt string) (*GenerationResult, error) {
	req := messagesRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		System:    system,
		Messages: []messageContent{
			{Role: "user", Content: prompt},
		},
	}

	var result messagesResponse
	var apiErr messagesErrorResponse

	resp, err := g.client.R().
		SetContext(ctx).
		SetBody(req).
		SetResult(&result).
		SetError(&apiErr).
		Post("/v1/messages")
	if err != nil {
		g.logger.Error("generation request failed", "error", err)
		return nil, fmt.Errorf("failed to call generation API: %w", err)
	}

	if resp.IsError() {
		g.logger.Error("generation API returned error",
			"status", resp.StatusCode(),
			"type", apiErr.Error.Type,
			"message", apiErr.Error.Message,
		)
		return nil, fmt.Errorf("generation API error: status %d: %s", resp.StatusCode(), apiErr.Error.Message)
	}

	text := ""
	for _, block := range result.Content {
		if block.Type == "text" {
			text += block.Text
		}
	}
	if text == "" {
		return nil, fmt.Errorf("generation API returned empty content")
	}

	return &GenerationResult{
		Text:         text,
		Model:        result.Model,
		PromptTokens: result.Usage.InputTokens,
		OutputTokens: result.Usage.OutputTokens,
	}, nil
}
