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

func TestAnthropicClient_ChatCompletion_SplitsSystemMessage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "secret", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))

		var body anthropicRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "be terse", body.System)
		require.Len(t, body.Messages, 1)
		assert.Equal(t, "user", body.Messages[0].Role)

		_, _ = w.Write([]byte(`{"content":[{"type":"text","text":"4"}]}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "secret")
	messages := []models.Message{
		{Role: models.RoleSystem, Content: "be terse"},
		{Role: models.RoleUser, Content: "2+2?"},
	}
	resp, err := client.ChatCompletion(context.Background(), "claude-3-opus", messages, nil)
	require.NoError(t, err)
	assert.Equal(t, "4", resp.Content)
}

func TestAnthropicClient_ChatCompletion_CreditLimitError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		_, _ = w.Write([]byte(`{"error":{"message":"insufficient credit"}}`))
	}))
	defer server.Close()

	client := NewAnthropicClient(&config.LLMProviderConfig{BaseURL: server.URL, Timeout: 5 * time.Second}, "secret")
	_, err := client.ChatCompletion(context.Background(), "claude-3-opus", []models.Message{{Role: models.RoleUser, Content: "hi"}}, nil)
	require.Error(t, err)

	reason, ok := AsFailureReason(err)
	require.True(t, ok)
	assert.Equal(t, models.FailureCreditLimitExceeded, reason.Category)
}
