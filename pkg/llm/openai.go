package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/models"
)

// openAIRequest is the OpenAI Chat Completions request body. OpenRouter
// and LiteLLM both speak this same shape, so this type and the code that
// sends it are shared by openai.go, openrouter.go and litellm.go.
type openAIRequest struct {
	Model          string                 `json:"model"`
	Messages       []openAIMessage        `json:"messages"`
	Temperature    *float64               `json:"temperature,omitempty"`
	MaxTokens      *int                   `json:"max_tokens,omitempty"`
	TopP           *float64               `json:"top_p,omitempty"`
	ResponseFormat map[string]interface{} `json:"response_format,omitempty"`
	Logprobs       *bool                  `json:"logprobs,omitempty"`
}

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIResponse struct {
	Choices []openAIChoice `json:"choices"`
	Error   *openAIError   `json:"error,omitempty"`
}

type openAIChoice struct {
	Message      openAIMessage `json:"message"`
	Logprobs     interface{}   `json:"logprobs,omitempty"`
	FinishReason string        `json:"finish_reason"`
}

type openAIError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
	Code    string `json:"code"`
}

// OpenAIClient talks to the OpenAI Chat Completions API (and, by sharing
// this same request/response shape, OpenRouter and LiteLLM).
type OpenAIClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	extraHdrs  map[string]string
}

// NewOpenAIClient builds a Client for cfg. apiKey is resolved by the
// caller from cfg.APIKeyEnv (factory.go's job); the provider clients
// themselves never read the environment.
func NewOpenAIClient(cfg *config.LLMProviderConfig, apiKey string) *OpenAIClient {
	return &OpenAIClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     apiKey,
		extraHdrs:  cfg.ExtraHeaders,
	}
}

func (c *OpenAIClient) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	return chatCompletionOpenAICompatible(ctx, c.httpClient, c.baseURL+"/chat/completions", c.apiKey, c.extraHdrs, model, messages, options)
}

// chatCompletionOpenAICompatible is the shared send/decode path for every
// provider that speaks the OpenAI Chat Completions wire format.
func chatCompletionOpenAICompatible(ctx context.Context, httpClient *http.Client, url, apiKey string, extraHdrs map[string]string, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	req := openAIRequest{Model: model, Messages: toOpenAIMessages(messages)}

	if v, ok := optFloat(options, "temperature"); ok {
		req.Temperature = &v
	}
	if v, ok := optInt(options, "max_tokens"); ok {
		req.MaxTokens = &v
	}
	if v, ok := optFloat(options, "top_p"); ok {
		req.TopP = &v
	}
	if v, ok := optBool(options, "logprobs"); ok {
		req.Logprobs = &v
	}
	if v, ok := options["response_format"]; ok {
		if m, ok := v.(map[string]interface{}); ok {
			req.ResponseFormat = m
		}
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal chat completion request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build chat completion request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		httpReq.Header.Set("Authorization", "Bearer "+apiKey)
	}
	for k, v := range extraHdrs {
		httpReq.Header.Set(k, v)
	}

	resp, err := httpClient.Do(httpReq)
	if err != nil {
		if urlErr, ok := err.(interface{ Timeout() bool }); ok && urlErr.Timeout() {
			return nil, newProviderError(0, err.Error(), true)
		}
		return nil, newProviderError(0, err.Error(), false)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read chat completion response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newProviderError(resp.StatusCode, string(respBody), false)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode chat completion response: %w", err)
	}
	if parsed.Error != nil {
		return nil, newProviderError(resp.StatusCode, parsed.Error.Message, false)
	}
	if len(parsed.Choices) == 0 {
		return nil, newProviderError(resp.StatusCode, "provider returned no choices", false)
	}

	content := parsed.Choices[0].Message.Content
	out := &models.ParsedResponse{Content: content}
	if structured := tryParseNativeJSON(content); structured != nil {
		out.StructuredData = structured
	}
	return out, nil
}

func toOpenAIMessages(messages []models.Message) []openAIMessage {
	out := make([]openAIMessage, len(messages))
	for i, m := range messages {
		out[i] = openAIMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}

// tryParseNativeJSON returns the decoded object if content is itself a
// valid JSON object, or nil otherwise. The Reasoning Strategy layer never
// sees this distinction; it only ever reads ParsedResponse.StructuredData.
func tryParseNativeJSON(content string) map[string]interface{} {
	trimmed := strings.TrimSpace(content)
	if trimmed == "" || trimmed[0] != '{' {
		return nil
	}
	var m map[string]interface{}
	if err := json.Unmarshal([]byte(trimmed), &m); err != nil {
		return nil
	}
	return m
}
