package config

// LLMProviderType identifies which external LLM service a provider
// configuration talks to.
type LLMProviderType string

const (
	// LLMProviderTypeOpenAI is the OpenAI Chat Completions API.
	LLMProviderTypeOpenAI LLMProviderType = "openai"
	// LLMProviderTypeAnthropic is the Anthropic Messages API.
	LLMProviderTypeAnthropic LLMProviderType = "anthropic"
	// LLMProviderTypeOpenRouter is the OpenRouter aggregator (OpenAI-compatible).
	LLMProviderTypeOpenRouter LLMProviderType = "openrouter"
	// LLMProviderTypeLiteLLM is a self-hosted LiteLLM proxy (OpenAI-compatible).
	LLMProviderTypeLiteLLM LLMProviderType = "litellm"
)

// IsValid reports whether t is one of the supported provider types.
func (t LLMProviderType) IsValid() bool {
	switch t {
	case LLMProviderTypeOpenAI, LLMProviderTypeAnthropic, LLMProviderTypeOpenRouter, LLMProviderTypeLiteLLM:
		return true
	default:
		return false
	}
}

// ParsingStrategyType identifies which structured-output decorator wraps
// the base provider client.
type ParsingStrategyType string

const (
	// ParsingStrategyAuto defers resolution to the factory's (provider, model) table.
	ParsingStrategyAuto ParsingStrategyType = "auto"
	// ParsingStrategyNative relies on server-side JSON-schema constrained decoding.
	ParsingStrategyNative ParsingStrategyType = "native"
	// ParsingStrategyPostProcess extracts structured data from free-form text after the call.
	ParsingStrategyPostProcess ParsingStrategyType = "post_process"
	// ParsingStrategyConstrained enforces the schema via a provider-specific generation hook.
	ParsingStrategyConstrained ParsingStrategyType = "constrained"
)

// IsValid reports whether t is one of the supported parsing strategies.
func (t ParsingStrategyType) IsValid() bool {
	switch t {
	case ParsingStrategyAuto, ParsingStrategyNative, ParsingStrategyPostProcess, ParsingStrategyConstrained:
		return true
	default:
		return false
	}
}
