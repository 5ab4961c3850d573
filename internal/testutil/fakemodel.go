package testutil

import (
	"context"
	"fmt"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

// FakeModel is an llms.Model that replays canned responses, recording every
// request so tests can assert on prompt contents and call order.
type FakeModel struct {
	mu        sync.Mutex
	Responses []string
	Err       error
	// ErrAfter fails the call with Err only once Calls reaches this index
	// (when Err is set and ErrAfter > 0, earlier calls succeed).
	ErrAfter int
	Calls    [][]llms.MessageContent
}

func (f *FakeModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	idx := len(f.Calls)
	f.Calls = append(f.Calls, messages)

	if f.Err != nil && idx >= f.ErrAfter {
		return nil, f.Err
	}
	if idx >= len(f.Responses) {
		return nil, fmt.Errorf("fake model: no response configured for call %d", idx)
	}
	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: f.Responses[idx]}},
	}, nil
}

// Call implements the deprecated single-prompt entry point.
func (f *FakeModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	resp, err := f.GenerateContent(ctx, []llms.MessageContent{
		{Role: llms.ChatMessageTypeHuman, Parts: []llms.ContentPart{llms.TextPart(prompt)}},
	}, options...)
	if err != nil {
		return "", err
	}
	return resp.Choices[0].Content, nil
}

// CallCount reports how many generations were attempted.
func (f *FakeModel) CallCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.Calls)
}

// PromptText flattens the human-role text parts of the i-th call.
func (f *FakeModel) PromptText(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.Calls) {
		return ""
	}
	var out string
	for _, msg := range f.Calls[i] {
		if msg.Role != llms.ChatMessageTypeHuman {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				out += text.Text
			}
		}
	}
	return out
}

// SystemText flattens the system-role text parts of the i-th call.
func (f *FakeModel) SystemText(i int) string {
	f.mu.Lock()
	defer f.mu.Unlock()
	if i >= len(f.Calls) {
		return ""
	}
	var out string
	for _, msg := range f.Calls[i] {
		if msg.Role != llms.ChatMessageTypeSystem {
			continue
		}
		for _, part := range msg.Parts {
			if text, ok := part.(llms.TextContent); ok {
				out += text.Text
			}
		}
	}
	return out
}
