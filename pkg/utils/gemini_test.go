package utils

import (
	"context"
	"testing"

	"github.com/google/generative-ai-go/genai"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGeminiChatClient_RequestsJSON(t *testing.T) {
	c, err := NewGeminiChatClient(context.Background(), "test-key", "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })

	m := c.generativeModel(CompletionRequest{System: "Reply with JSON.", Temperature: 0.4, MaxTokens: 2048})

	assert.Equal(t, "gemini-1.5-flash", c.ModelName())
	assert.Equal(t, "application/json", m.ResponseMIMEType)
	require.NotNil(t, m.SystemInstruction)
	assert.Equal(t, genai.Text("Reply with JSON."), m.SystemInstruction.Parts[0])
	require.NotNil(t, m.Temperature)
	assert.InDelta(t, 0.4, *m.Temperature, 1e-6)
	require.NotNil(t, m.MaxOutputTokens)
	assert.Equal(t, int32(2048), *m.MaxOutputTokens)
}
