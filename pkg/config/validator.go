package config

import (
	"errors"
	"fmt"
)

// Validator runs fail-fast validation across a loaded Config.
type Validator struct {
	cfg *Config
}

// NewValidator creates a validator for the given configuration.
func NewValidator(cfg *Config) *Validator {
	return &Validator{cfg: cfg}
}

// ValidateAll runs every validation check in order, stopping at the first
// failure. Order matters: providers are validated before defaults since
// defaults.DefaultLLMProvider must reference a provider that already
// passed validation.
func (v *Validator) ValidateAll() error {
	if err := v.validateLLMProviders(); err != nil {
		return err
	}
	if err := v.validateDefaults(); err != nil {
		return err
	}
	return nil
}

func (v *Validator) validateLLMProviders() error {
	providers := v.cfg.LLMProviderRegistry.GetAll()
	if len(providers) == 0 {
		return fmt.Errorf("%w: no LLM providers configured", ErrValidationFailed)
	}

	for name, p := range providers {
		if !p.Type.IsValid() {
			return NewValidationError("llm_provider", name, "type", fmt.Errorf("%w: %q", ErrInvalidValue, p.Type))
		}
		if p.Type != LLMProviderTypeLiteLLM && p.BaseURL == "" {
			return NewValidationError("llm_provider", name, "base_url", ErrMissingRequiredField)
		}
		if p.Timeout < 0 {
			return NewValidationError("llm_provider", name, "timeout", fmt.Errorf("%w: must not be negative", ErrInvalidValue))
		}
	}

	return nil
}

func (v *Validator) validateDefaults() error {
	d := v.cfg.Defaults
	if d == nil {
		return errors.New("defaults must not be nil")
	}

	if d.DefaultLLMProvider != "" && !v.cfg.LLMProviderRegistry.Has(d.DefaultLLMProvider) {
		return NewValidationError("defaults", "default_llm_provider", "", fmt.Errorf("%w: %q", ErrLLMProviderNotFound, d.DefaultLLMProvider))
	}

	if d.ParsingStrategy != "" && !d.ParsingStrategy.IsValid() {
		return NewValidationError("defaults", "parsing_strategy", "", fmt.Errorf("%w: %q", ErrInvalidValue, d.ParsingStrategy))
	}

	if d.StatusPort < 0 || d.StatusPort > 65535 {
		return NewValidationError("defaults", "status_port", "", fmt.Errorf("%w: %d out of range", ErrInvalidValue, d.StatusPort))
	}

	return nil
}
