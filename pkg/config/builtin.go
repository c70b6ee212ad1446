package config

import "sync"

// BuiltinConfig holds built-in default LLM provider configurations. These
// are registered under well-known names and can be overridden by
// user-defined providers of the same name in ralbench.yaml.
type BuiltinConfig struct {
	LLMProviders map[string]LLMProviderConfig
}

var (
	builtinConfig     *BuiltinConfig
	builtinConfigOnce sync.Once
)

// GetBuiltinConfig returns the singleton built-in configuration.
func GetBuiltinConfig() *BuiltinConfig {
	builtinConfigOnce.Do(func() {
		builtinConfig = &BuiltinConfig{
			LLMProviders: initBuiltinLLMProviders(),
		}
	})
	return builtinConfig
}

func initBuiltinLLMProviders() map[string]LLMProviderConfig {
	return map[string]LLMProviderConfig{
		"openai-default": {
			Type:      LLMProviderTypeOpenAI,
			APIKeyEnv: "OPENAI_API_KEY",
			BaseURL:   "https://api.openai.com/v1",
		},
		"anthropic-default": {
			Type:      LLMProviderTypeAnthropic,
			APIKeyEnv: "ANTHROPIC_API_KEY",
			BaseURL:   "https://api.anthropic.com/v1",
		},
		"openrouter-default": {
			Type:      LLMProviderTypeOpenRouter,
			APIKeyEnv: "OPENROUTER_API_KEY",
			BaseURL:   "https://openrouter.ai/api/v1",
			ExtraHeaders: map[string]string{
				"HTTP-Referer": "https://github.com/ralbench/ralbench",
				"X-Title":      "ralbench",
			},
		},
		"litellm-default": {
			Type: LLMProviderTypeLiteLLM,
			// BaseURL and APIKeyEnv are resolved from LITELLM_CONFIG at load time.
		},
	}
}
