package llm

import (
	"context"
	"errors"
	"testing"

	"github.com/rahul/sutra/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerate(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{"hello there"}}
	c := NewClient(fake)

	out, err := c.Generate(context.Background(), "system prompt", "user prompt", Options{Temperature: 0.3})
	require.NoError(t, err)
	assert.Equal(t, "hello there", out)

	assert.Equal(t, "system prompt", fake.SystemText(0))
	assert.Equal(t, "user prompt", fake.PromptText(0))
}

func TestGenerate_EmptyResponse(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{""}}
	c := NewClient(fake)

	_, err := c.Generate(context.Background(), "", "prompt", Options{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty response")
}

func TestGenerateStructured_AppendsFormatInstruction(t *testing.T) {
	fake := &testutil.FakeModel{Responses: []string{`{"ok": true}`}}
	c := NewClient(fake)

	raw, err := c.GenerateStructured(context.Background(), "", "analyze this", Options{})
	require.NoError(t, err)
	assert.JSONEq(t, `{"ok": true}`, string(raw))
	assert.Contains(t, fake.PromptText(0), "respond in JSON format")
}

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare object", `{"a": 1}`, `{"a": 1}`},
		{"json fence", "```json\n{\"a\": 1}\n```", `{"a": 1}`},
		{"plain fence", "```\n{\"a\": 1}\n```", `{"a": 1}`},
		{"whitespace", "  {\"a\": 1}  ", `{"a": 1}`},
		{"prose fallback", "Sure, here is the plan.", `{"response": "Sure, here is the plan."}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanJSON(tt.in)
			assert.JSONEq(t, tt.want, string(got))
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		err  error
		want Kind
	}{
		{errors.New("API returned 401 Unauthorized"), KindAuth},
		{errors.New("status 429 Too Many Requests"), KindRateLimit},
		{errors.New("context_length_exceeded"), KindContextLength},
		{errors.New("model_not_found: gpt-9"), KindModelNotFound},
		{errors.New("context deadline exceeded"), KindNetwork},
		{errors.New("dial tcp: connection refused"), KindNetwork},
		{errors.New("something odd"), KindUnknown},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, Classify(tt.err), "error %q", tt.err)
	}
}
