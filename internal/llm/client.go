package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
	"strings"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"guitarlots/internal/observability"
)

// ErrEmptyResponse is returned when the API answers without any choice.
var ErrEmptyResponse = errors.New("llm: empty response")

// go-openai drops a zero temperature from the request, so "deterministic"
// has to be the smallest value that survives omitempty.
const deterministic = math.SmallestNonzeroFloat32

// ChatCompleter is the part of *openai.Client used here.
type ChatCompleter interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// Client sends JSON-mode chat completions for one model.
type Client struct {
	API    ChatCompleter
	Model  string
	Logger *zap.Logger
}

// New builds a Client on the OpenAI API.
func New(apiKey, model string, log *zap.Logger) *Client {
	return NewWithAPI(openai.NewClient(apiKey), model, log)
}

// NewWithAPI builds a Client on api. An empty model means gpt-4o-mini.
func NewWithAPI(api ChatCompleter, model string, log *zap.Logger) *Client {
	if log == nil {
		log = zap.NewNop()
	}
	if model == "" {
		model = openai.GPT4oMini
	}
	return &Client{API: api, Model: model, Logger: log}
}

// CallJSON sends a system and a user prompt and decodes the JSON answer into
// out. op names the call in logs and metrics.
func (c *Client) CallJSON(ctx context.Context, op, system, prompt string, temperature float32, out any) error {
	messages := []openai.ChatCompletionMessage{
		{Role: openai.ChatMessageRoleSystem, Content: system},
		{Role: openai.ChatMessageRoleUser, Content: prompt},
	}

	chars := len(system) + len(prompt)
	c.Logger.Debug("llm request",
		zap.String("operation", op),
		zap.Int("chars", chars),
		zap.Int("tokens_estimate", chars/4))

	resp, err := c.API.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model:       c.Model,
		Messages:    messages,
		Temperature: temperature,
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		observability.LLMRequests.WithLabelValues(op, "error").Inc()
		return fmt.Errorf("%s: %w", op, err)
	}
	observability.LLMTokens.WithLabelValues(op).Add(float64(resp.Usage.TotalTokens))

	if len(resp.Choices) == 0 {
		observability.LLMRequests.WithLabelValues(op, "empty").Inc()
		return fmt.Errorf("%s: %w", op, ErrEmptyResponse)
	}

	content := stripFences(resp.Choices[0].Message.Content)
	if err := json.Unmarshal([]byte(content), out); err != nil {
		observability.LLMRequests.WithLabelValues(op, "invalid").Inc()
		return fmt.Errorf("%s: invalid JSON %q: %w", op, content, err)
	}

	observability.LLMRequests.WithLabelValues(op, "ok").Inc()
	c.Logger.Debug("llm response",
		zap.String("operation", op),
		zap.Int("total_tokens", resp.Usage.TotalTokens))
	return nil
}

// stripFences removes a markdown code fence around a JSON answer.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimPrefix(s, "json")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
