package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/models"
)

// LiteLLMClient talks to a self-hosted LiteLLM proxy, which re-exposes
// whatever backend model it's configured for behind an OpenAI-compatible
// surface. pkg/config's loader fills BaseURL and the name of the API key's
// environment variable; factory.go reads the key and passes it in, so this
// client reads no configuration itself.
type LiteLLMClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewLiteLLMClient(cfg *config.LLMProviderConfig, apiKey string) *LiteLLMClient {
	return &LiteLLMClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *LiteLLMClient) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	return chatCompletionOpenAICompatible(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, nil, model, messages, options)
}
