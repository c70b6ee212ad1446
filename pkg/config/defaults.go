package config

// Defaults contains system-wide default configuration. Initialize fills
// in and validates DefaultLLMProvider and ParsingStrategy, but llm.Factory
// does not read either: an AgentConfig without a provider or parsing
// strategy is resolved by the Factory's own model-name rules.
type Defaults struct {
	// DefaultLLMProvider names a registry entry (checked by the
	// Validator). Provider auto-detection does not consult it; model
	// names it does not recognise always go to the openrouter type.
	DefaultLLMProvider string `yaml:"default_llm_provider,omitempty"`

	// ParsingStrategy is the configured parsing strategy ("auto" when
	// unset), checked by the Validator. The Factory does not consult it.
	ParsingStrategy ParsingStrategyType `yaml:"parsing_strategy,omitempty"`

	// StatusPort is the local status server's listen port; 0 or unset
	// means 8099. `evaluate run --no-status-server` turns the server off.
	StatusPort int `yaml:"status_port,omitempty"`
}
