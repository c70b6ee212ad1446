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

const anthropicVersion = "2023-06-01"

type anthropicRequest struct {
	Model       string             `json:"model"`
	Messages    []anthropicMessage `json:"messages"`
	System      string             `json:"system,omitempty"`
	MaxTokens   int                `json:"max_tokens"`
	Temperature *float64           `json:"temperature,omitempty"`
	TopP        *float64           `json:"top_p,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []anthropicContentBlock `json:"content"`
	Error   *anthropicError         `json:"error,omitempty"`
}

type anthropicContentBlock struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type anthropicError struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

const defaultAnthropicMaxTokens = 1024

// AnthropicClient talks to the Anthropic Messages API, which has no
// "system" role inside its messages array: system content is a top-level
// string field. This client is the only place that mapping detail lives;
// everything above pkg/llm deals strictly in models.Message.
type AnthropicClient struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
}

func NewAnthropicClient(cfg *config.LLMProviderConfig, apiKey string) *AnthropicClient {
	return &AnthropicClient{
		httpClient: &http.Client{Timeout: cfg.Timeout},
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     apiKey,
	}
}

func (c *AnthropicClient) ChatCompletion(ctx context.Context, model string, messages []models.Message, options map[string]interface{}) (*models.ParsedResponse, error) {
	system, rest := splitSystemMessage(messages)

	req := anthropicRequest{
		Model:     model,
		Messages:  toAnthropicMessages(rest),
		System:    system,
		MaxTokens: defaultAnthropicMaxTokens,
	}
	if v, ok := optInt(options, "max_tokens"); ok {
		req.MaxTokens = v
	}
	if v, ok := optFloat(options, "temperature"); ok {
		req.Temperature = &v
	}
	if v, ok := optFloat(options, "top_p"); ok {
		req.TopP = &v
	}

	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal anthropic request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/messages", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("build anthropic request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("x-api-key", c.apiKey)
	httpReq.Header.Set("anthropic-version", anthropicVersion)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		if urlErr, ok := err.(interface{ Timeout() bool }); ok && urlErr.Timeout() {
			return nil, newProviderError(0, err.Error(), true)
		}
		return nil, newProviderError(0, err.Error(), false)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read anthropic response: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, newProviderError(resp.StatusCode, string(respBody), false)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return nil, fmt.Errorf("decode anthropic response: %w", err)
	}
	if parsed.Error != nil {
		return nil, newProviderError(resp.StatusCode, parsed.Error.Message, false)
	}

	var text strings.Builder
	for _, block := range parsed.Content {
		if block.Type == "text" {
			text.WriteString(block.Text)
		}
	}
	if text.Len() == 0 {
		return nil, newProviderError(resp.StatusCode, "provider returned no text content", false)
	}

	out := &models.ParsedResponse{Content: text.String()}
	if structured := tryParseNativeJSON(out.Content); structured != nil {
		out.StructuredData = structured
	}
	return out, nil
}

// splitSystemMessage pulls RoleSystem messages out of the sequence and
// joins them into Anthropic's top-level system string, since Anthropic
// has no system role inside the messages array itself.
func splitSystemMessage(messages []models.Message) (string, []models.Message) {
	var system strings.Builder
	rest := make([]models.Message, 0, len(messages))
	for _, m := range messages {
		if m.Role == models.RoleSystem {
			if system.Len() > 0 {
				system.WriteString("\n")
			}
			system.WriteString(m.Content)
			continue
		}
		rest = append(rest, m)
	}
	return system.String(), rest
}

func toAnthropicMessages(messages []models.Message) []anthropicMessage {
	out := make([]anthropicMessage, len(messages))
	for i, m := range messages {
		out[i] = anthropicMessage{Role: string(m.Role), Content: m.Content}
	}
	return out
}
