package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/models"
)

// OpenRouterClient talks to OpenRouter, an OpenAI-compatible aggregator
// that additionally requires HTTP-Referer/X-Title attribution headers
// (set via cfg.ExtraHeaders, carried through by the builtin provider
// config in pkg/config/builtin.go).
type OpenRouterClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	extraHdrs  map[string]string
}

func NewOpenRouterClient(cfg *config.LLMProviderConfig, apiKey string) *OpenRouterClient {
	return &OpenRouterClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		extraHdrs:  cfg.ExtraHeaders,
	}
}

func (c *OpenRouterClient) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	return chatCompletionOpenAICompatible(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, c.extraHdrs, model, messages, options)
}
