package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/tmc/langchaingo/llms"
)

// Options control sampling for a single generation.
type Options struct {
	Temperature float64
	MaxTokens   int
}

// Client wraps a langchaingo model with the two call shapes the agents need:
// plain text and JSON-structured output.
type Client struct {
	Model llms.Model
}

func NewClient(model llms.Model) *Client {
	return &Client{Model: model}
}

// Generate sends a system + user prompt pair and returns the model's text.
// An empty completion is an error.
func (c *Client) Generate(ctx context.Context, system, prompt string, opts Options) (string, error) {
	var messages []llms.MessageContent
	if system != "" {
		messages = append(messages, llms.MessageContent{
			Role:  llms.ChatMessageTypeSystem,
			Parts: []llms.ContentPart{llms.TextPart(system)},
		})
	}
	messages = append(messages, llms.MessageContent{
		Role:  llms.ChatMessageTypeHuman,
		Parts: []llms.ContentPart{llms.TextPart(prompt)},
	})

	var callOpts []llms.CallOption
	if opts.Temperature > 0 {
		callOpts = append(callOpts, llms.WithTemperature(opts.Temperature))
	}
	if opts.MaxTokens > 0 {
		callOpts = append(callOpts, llms.WithMaxTokens(opts.MaxTokens))
	}

	resp, err := c.Model.GenerateContent(ctx, messages, callOpts...)
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || resp.Choices[0].Content == "" {
		return "", fmt.Errorf("empty response from model")
	}
	return resp.Choices[0].Content, nil
}

// GenerateStructured asks for JSON output and always returns valid JSON:
// either the model's (fence-stripped) object, or a {"response": text}
// wrapper when the model answered in prose.
func (c *Client) GenerateStructured(ctx context.Context, system, prompt string, opts Options) (json.RawMessage, error) {
	text, err := c.Generate(ctx, system, prompt+"\n\nPlease respond in JSON format.", opts)
	if err != nil {
		return nil, err
	}
	return CleanJSON(text), nil
}

// CleanJSON strips markdown code fences from a model response and, when the
// remainder still is not valid JSON, wraps the raw text so callers always
// get a parseable payload.
func CleanJSON(text string) json.RawMessage {
	cleaned := strings.TrimSpace(text)
	if strings.HasPrefix(cleaned, "```json") {
		cleaned = strings.TrimPrefix(cleaned, "```json")
	} else if strings.HasPrefix(cleaned, "```") {
		cleaned = strings.TrimPrefix(cleaned, "```")
	}
	cleaned = strings.TrimSuffix(strings.TrimSpace(cleaned), "```")
	cleaned = strings.TrimSpace(cleaned)

	if json.Valid([]byte(cleaned)) {
		return json.RawMessage(cleaned)
	}

	fallback, err := json.Marshal(map[string]string{"response": text})
	if err != nil {
		return json.RawMessage(`{"response": ""}`)
	}
	return fallback
}
