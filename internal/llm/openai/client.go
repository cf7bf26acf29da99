// Package openai adapts the OpenAI chat completions API to llm.Provider.
package openai

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	sdk "github.com/openai/openai-go"
	"github.com/openai/openai-go/option"

	"github.com/AbiralTr/Arc-Web/internal/llm"
	"github.com/AbiralTr/Arc-Web/internal/models"
)

const providerName = "openai"

type Client struct {
	client sdk.Client
	config *Config
}

func NewClient(config *Config) (*Client, error) {
	return newClient(config), nil
}

func newClient(config *Config, opts ...option.RequestOption) *Client {
	base := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithMaxRetries(0),
	}
	if config.BaseURL != "" {
		base = append(base, option.WithBaseURL(config.BaseURL))
	}
	return &Client{
		client: sdk.NewClient(append(base, opts...)...),
		config: config,
	}
}

func (c *Client) GenerateContent(ctx context.Context, req *models.GenerationRequest) (*models.GenerationResponse, error) {
	startTime := time.Now()

	messages := make([]sdk.ChatCompletionMessageParamUnion, 0, 2)
	if req.Instructions != "" {
		messages = append(messages, sdk.SystemMessage(req.Instructions))
	}
	messages = append(messages, sdk.UserMessage(req.Prompt))

	completion, err := c.client.Chat.Completions.New(ctx, sdk.ChatCompletionNewParams{
		Model:    sdk.ChatModel(c.config.Model),
		Messages: messages,
	})
	if err != nil {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     classify(err),
			Message:  "Failed to generate quest",
			Err:      err,
		}
	}

	if len(completion.Choices) == 0 {
		return nil, &llm.ProviderError{
			Provider: providerName,
			Code:     llm.ErrCodeInvalidInput,
			Message:  "No response generated",
		}
	}
	text := strings.TrimSpace(completion.Choices[0].Message.Content)

	return &models.GenerationResponse{
		Content:   text,
		RequestID: req.RequestID,
		Metadata: models.GenerationMetadata{
			ProcessingTime: int(time.Since(startTime).Milliseconds()),
			Provider:       providerName,
			Model:          c.config.Model,
		},
	}, nil
}

func (c *Client) GetProviderName() string {
	return providerName
}

func classify(err error) string {
	if errors.Is(err, context.DeadlineExceeded) {
		return llm.ErrCodeTimeout
	}
	var apiErr *sdk.Error
	if errors.As(err, &apiErr) {
		switch apiErr.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return llm.ErrCodeAPIKey
		case http.StatusTooManyRequests:
			return llm.ErrCodeRateLimit
		case http.StatusBadRequest, http.StatusUnprocessableEntity:
			return llm.ErrCodeInvalidInput
		}
	}
	return llm.ErrCodeServiceDown
}
