package config

// mergeLLMProviders merges built-in and user-defined LLM provider
// configurations. User-defined providers override built-in providers with
// the same name; both sides are defensively copied so the result owns its
// own storage.
func mergeLLMProviders(builtinProviders map[string]LLMProviderConfig, userProviders map[string]LLMProviderConfig) map[string]*LLMProviderConfig {
	result := make(map[string]*LLMProviderConfig, len(builtinProviders)+len(userProviders))

	for name, provider := range builtinProviders {
		providerCopy := provider
		result[name] = &providerCopy
	}

	for name, provider := range userProviders {
		providerCopy := provider
		result[name] = &providerCopy
	}

	return result
}
