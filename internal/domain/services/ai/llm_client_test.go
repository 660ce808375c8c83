package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompleteOpenAI(t *testing.T) {
	var gotBody map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{
				{"message": map[string]any{"content": "generated explanation"}},
			},
		})
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{
		Provider:     "openai",
		OpenAIAPIKey: "test-key",
		OpenAIAPIURL: server.URL,
	}, testLogger())

	out, err := client.Complete(context.Background(), "system prompt", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "generated explanation", out)

	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.EqualValues(t, 120, gotBody["max_tokens"])
	messages := gotBody["messages"].([]any)
	require.Len(t, messages, 2)
	assert.Equal(t, "system", messages[0].(map[string]any)["role"])
	assert.Equal(t, "user prompt", messages[1].(map[string]any)["content"])
}

func TestCompleteClaude(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, "2023-06-01", r.Header.Get("anthropic-version"))

		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]any{
				{"type": "text", "text": "claude "},
				{"type": "text", "text": "explanation"},
			},
		})
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{
		Provider:     "claude",
		ClaudeAPIKey: "test-key",
		ClaudeAPIURL: server.URL,
	}, testLogger())

	out, err := client.Complete(context.Background(), "", "user prompt")
	require.NoError(t, err)
	assert.Equal(t, "claude explanation", out)
}

func TestCompleteAPIErrorSurfaces(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"rate limit"}`, http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{
		Provider:     "openai",
		OpenAIAPIURL: server.URL,
	}, testLogger())

	_, err := client.Complete(context.Background(), "", "prompt")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "429")
}

func TestCompleteEmptyChoicesIsError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"choices": []any{}})
	}))
	defer server.Close()

	client := NewLLMClient(LLMConfig{
		Provider:     "openai",
		OpenAIAPIURL: server.URL,
	}, testLogger())

	_, err := client.Complete(context.Background(), "", "prompt")
	assert.Error(t, err)
}

func TestCompleteUnsupportedProvider(t *testing.T) {
	client := NewLLMClient(LLMConfig{Provider: "other"}, testLogger())
	_, err := client.Complete(context.Background(), "", "prompt")
	assert.Error(t, err)
}
