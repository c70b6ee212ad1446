package config

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// RalbenchYAMLConfig represents the complete ralbench.yaml file structure.
type RalbenchYAMLConfig struct {
	Defaults     *Defaults                    `yaml:"defaults"`
	LLMProviders map[string]LLMProviderConfig `yaml:"llm_providers"`
}

// Initialize loads, validates, and returns ready-to-use configuration. This
// is the primary entry point for configuration loading.
//
// Steps performed:
//  1. Load ralbench.yaml from configDir (if present)
//  2. Expand environment variables in its contents
//  3. Merge built-in + user-defined LLM providers
//  4. Apply environment variable overrides (DEFAULT_LLM_PROVIDER, PARSING_STRATEGY, LITELLM_CONFIG)
//  5. Apply default values for anything still unset
//  6. Validate all configuration
//  7. Return Config ready for use
func Initialize(ctx context.Context, configDir string) (*Config, error) {
	log := slog.With("config_dir", configDir)
	log.Info("Initializing configuration")

	cfg, err := load(ctx, configDir)
	if err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	stats := cfg.Stats()
	log.Info("Configuration initialized successfully", "llm_providers", stats.LLMProviders)

	return cfg, nil
}

func load(_ context.Context, configDir string) (*Config, error) {
	loader := &configLoader{configDir: configDir}

	yamlConfig, err := loader.loadRalbenchYAML()
	if err != nil {
		return nil, NewLoadError("ralbench.yaml", err)
	}

	builtin := GetBuiltinConfig()
	providers := mergeLLMProviders(builtin.LLMProviders, yamlConfig.LLMProviders)

	applyProviderEnvDefaults(providers)
	if err := applyLiteLLMConfig(providers); err != nil {
		return nil, NewLoadError("LITELLM_CONFIG", err)
	}

	defaults := yamlConfig.Defaults
	if defaults == nil {
		defaults = &Defaults{}
	}
	if v := os.Getenv("DEFAULT_LLM_PROVIDER"); v != "" {
		defaults.DefaultLLMProvider = v
	} else if defaults.DefaultLLMProvider == "" {
		defaults.DefaultLLMProvider = "openrouter-default"
	}
	if v := os.Getenv("PARSING_STRATEGY"); v != "" {
		defaults.ParsingStrategy = ParsingStrategyType(v)
	} else if defaults.ParsingStrategy == "" {
		defaults.ParsingStrategy = ParsingStrategyAuto
	}
	if defaults.StatusPort == 0 {
		defaults.StatusPort = 8099
	}

	return &Config{
		configDir:           configDir,
		Defaults:            defaults,
		LLMProviderRegistry: NewLLMProviderRegistry(providers),
	}, nil
}

// applyProviderEnvDefaults fills in per-provider timeouts from
// <PROVIDER>_TIMEOUT environment variables when the YAML/built-in config
// left Timeout unset.
func applyProviderEnvDefaults(providers map[string]*LLMProviderConfig) {
	envPrefix := map[LLMProviderType]string{
		LLMProviderTypeOpenAI:     "OPENAI",
		LLMProviderTypeAnthropic:  "ANTHROPIC",
		LLMProviderTypeOpenRouter: "OPENROUTER",
	}

	for _, p := range providers {
		if p.Timeout != 0 {
			continue
		}
		prefix, ok := envPrefix[p.Type]
		if !ok {
			p.Timeout = 60 * time.Second
			continue
		}
		if v := os.Getenv(prefix + "_TIMEOUT"); v != "" {
			if d, err := time.ParseDuration(v); err == nil {
				p.Timeout = d
				continue
			}
		}
		p.Timeout = 60 * time.Second
	}

	if v := os.Getenv("OPENROUTER_BASE_URL"); v != "" {
		if p, ok := providers["openrouter-default"]; ok {
			p.BaseURL = v
		}
	}
}

// liteLLMEnvConfig is the shape of the LITELLM_CONFIG environment variable.
type liteLLMEnvConfig struct {
	BaseURL   string `json:"base_url"`
	APIKeyEnv string `json:"api_key_env"`
	Timeout   string `json:"timeout"`
}

// applyLiteLLMConfig resolves the litellm-default provider's base URL and
// API key environment variable from the LITELLM_CONFIG JSON env var, since
// a self-hosted proxy has no fixed default endpoint the way the hosted
// providers do.
func applyLiteLLMConfig(providers map[string]*LLMProviderConfig) error {
	raw := os.Getenv("LITELLM_CONFIG")
	if raw == "" {
		return nil
	}

	var cfg liteLLMEnvConfig
	if err := json.Unmarshal([]byte(raw), &cfg); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	p, ok := providers["litellm-default"]
	if !ok {
		p = &LLMProviderConfig{Type: LLMProviderTypeLiteLLM}
		providers["litellm-default"] = p
	}
	if cfg.BaseURL != "" {
		p.BaseURL = cfg.BaseURL
	}
	if cfg.APIKeyEnv != "" {
		p.APIKeyEnv = cfg.APIKeyEnv
	}
	if cfg.Timeout != "" {
		if d, err := time.ParseDuration(cfg.Timeout); err == nil {
			p.Timeout = d
		}
	}
	return nil
}

func validate(cfg *Config) error {
	v := NewValidator(cfg)
	return v.ValidateAll()
}

type configLoader struct {
	configDir string
}

func (l *configLoader) loadYAML(filename string, target any) error {
	path := filepath.Join(l.configDir, filename)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// ralbench.yaml is entirely optional — built-ins + env vars suffice.
			return nil
		}
		return err
	}

	data = ExpandEnv(data)

	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return nil
}

func (l *configLoader) loadRalbenchYAML() (*RalbenchYAMLConfig, error) {
	cfg := &RalbenchYAMLConfig{
		LLMProviders: make(map[string]LLMProviderConfig),
	}

	if err := l.loadYAML("ralbench.yaml", cfg); err != nil {
		return nil, err
	}
	if cfg.LLMProviders == nil {
		cfg.LLMProviders = make(map[string]LLMProviderConfig)
	}

	return cfg, nil
}
