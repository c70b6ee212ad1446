package llm

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpenAIClient_ChatCompletion_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var body openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "gpt-4", body.Model)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"{\"answer\":\"4\"}"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "test-key")
	resp, err := client.ChatCompletion(context.Background(), "gpt-4", []models.Message{{Role: models.RoleUser, Content: "What is 2+2?"}}, nil)
	require.NoError(t, err)
	assert.Equal(t, `{"answer":"4"}`, resp.Content)
	assert.Equal(t, "4", resp.StructuredData["answer"])
}

func TestOpenAIClient_ChatCompletion_AuthError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"error":{"message":"invalid api key"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "bad-key")
	_, err := client.ChatCompletion(context.Background(), "gpt-4", []models.Message{{Role: models.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)

	reason, ok := AsFailureReason(err)
	require.True(t, ok)
	assert.Equal(t, models.FailureAuthenticationError, reason.Category)
	assert.False(t, reason.Recoverable)
}

func TestOpenAIClient_ChatCompletion_RateLimited(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		_, _ = w.Write([]byte(`{"error":{"message":"rate limited"}}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "key")
	_, err := client.ChatCompletion(context.Background(), "gpt-4", []models.Message{{Role: models.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)

	reason, ok := AsFailureReason(err)
	require.True(t, ok)
	assert.Equal(t, models.FailureRateLimitExceeded, reason.Category)
	assert.True(t, reason.Recoverable)
}

func TestOpenAIClient_ChatCompletion_RequestOptionsForwarded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body openAIRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		require.NotNil(t, body.Temperature)
		assert.InDelta(t, 0.5, *body.Temperature, 0.0001)
		require.NotNil(t, body.MaxTokens)
		assert.Equal(t, 256, *body.MaxTokens)

		_, _ = w.Write([]byte(`{"choices":[{"message":{"role":"assistant","content":"plain text answer"}}]}`))
	}))
	defer server.Close()

	client := NewOpenAIClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "key")
	resp, err := client.ChatCompletion(context.Background(), "gpt-4", []models.Message{{Role: models.RoleUser, Content: "hi"}}, map[string]interface{}{
		"temperature": 0.5,
		"max_tokens":  256,
	})
	require.NoError(t, err)
	assert.Equal(t, "plain text answer", resp.Content)
	assert.Nil(t, resp.StructuredData)
}
