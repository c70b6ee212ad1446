package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Defaults: &Defaults{
			DefaultLLMProvider: "openai-default",
			ParsingStrategy:    ParsingStrategyAuto,
			StatusPort:         8099,
		},
		LLMProviderRegistry: NewLLMProviderRegistry(map[string]*LLMProviderConfig{
			"openai-default": {Type: LLMProviderTypeOpenAI, BaseURL: "https://api.openai.com/v1"},
		}),
	}
}

func TestValidator_ValidateAll_Success(t *testing.T) {
	require.NoError(t, NewValidator(validConfig()).ValidateAll())
}

func TestValidator_NoProviders(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{})

	err := NewValidator(cfg).ValidateAll()
	assert.ErrorIs(t, err, ErrValidationFailed)
}

func TestValidator_InvalidProviderType(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"bogus": {Type: LLMProviderType("nope"), BaseURL: "http://x"},
	})

	err := NewValidator(cfg).ValidateAll()
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "llm_provider", ve.Component)
}

func TestValidator_MissingBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"openai-default": {Type: LLMProviderTypeOpenAI},
	})

	err := NewValidator(cfg).ValidateAll()
	assert.ErrorIs(t, err, ErrMissingRequiredField)
}

func TestValidator_LiteLLMExemptFromBaseURLRequirement(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults.DefaultLLMProvider = "litellm-default"
	cfg.LLMProviderRegistry = NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"litellm-default": {Type: LLMProviderTypeLiteLLM},
	})

	require.NoError(t, NewValidator(cfg).ValidateAll())
}

func TestValidator_UnknownDefaultProvider(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults.DefaultLLMProvider = "does-not-exist"

	err := NewValidator(cfg).ValidateAll()
	assert.ErrorIs(t, err, ErrLLMProviderNotFound)
}

func TestValidator_InvalidParsingStrategy(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults.ParsingStrategy = ParsingStrategyType("bogus")

	err := NewValidator(cfg).ValidateAll()
	assert.ErrorIs(t, err, ErrInvalidValue)
}

func TestValidator_StatusPortOutOfRange(t *testing.T) {
	cfg := validConfig()
	cfg.Defaults.StatusPort = 70000

	err := NewValidator(cfg).ValidateAll()
	assert.ErrorIs(t, err, ErrInvalidValue)
}
