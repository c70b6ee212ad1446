package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLLMProviderRegistry_Get(t *testing.T) {
	providers := map[string]*LLMProviderConfig{
		"openai-default": {Type: LLMProviderTypeOpenAI, BaseURL: "https://api.openai.com/v1"},
	}
	registry := NewLLMProviderRegistry(providers)

	p, err := registry.Get("openai-default")
	require.NoError(t, err)
	assert.Equal(t, LLMProviderTypeOpenAI, p.Type)

	_, err = registry.Get("missing")
	assert.ErrorIs(t, err, ErrLLMProviderNotFound)
}

func TestLLMProviderRegistry_Has(t *testing.T) {
	registry := NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"anthropic-default": {Type: LLMProviderTypeAnthropic},
	})

	assert.True(t, registry.Has("anthropic-default"))
	assert.False(t, registry.Has("missing"))
}

func TestLLMProviderRegistry_GetAllIsDefensiveCopy(t *testing.T) {
	registry := NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"openai-default": {Type: LLMProviderTypeOpenAI},
	})

	all := registry.GetAll()
	delete(all, "openai-default")

	assert.True(t, registry.Has("openai-default"), "mutating GetAll result must not affect the registry")
}

func TestLLMProviderRegistry_Len(t *testing.T) {
	registry := NewLLMProviderRegistry(map[string]*LLMProviderConfig{
		"a": {Type: LLMProviderTypeOpenAI},
		"b": {Type: LLMProviderTypeAnthropic},
	})
	assert.Equal(t, 2, registry.Len())
}

func TestLLMProviderType_IsValid(t *testing.T) {
	assert.True(t, LLMProviderTypeOpenAI.IsValid())
	assert.True(t, LLMProviderTypeAnthropic.IsValid())
	assert.True(t, LLMProviderTypeOpenRouter.IsValid())
	assert.True(t, LLMProviderTypeLiteLLM.IsValid())
	assert.False(t, LLMProviderType("bogus").IsValid())
}

func TestParsingStrategyType_IsValid(t *testing.T) {
	assert.True(t, ParsingStrategyAuto.IsValid())
	assert.True(t, ParsingStrategyNative.IsValid())
	assert.True(t, ParsingStrategyPostProcess.IsValid())
	assert.True(t, ParsingStrategyConstrained.IsValid())
	assert.False(t, ParsingStrategyType("bogus").IsValid())
}
