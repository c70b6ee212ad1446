package llm

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/ralbench/ralbench/pkg/config"
	"github.com/ralbench/ralbench/pkg/llm/parsing"
	"github.com/ralbench/ralbench/pkg/models"
)

// Factory resolves an AgentConfig's (provider, parsingStrategy, model)
// triple into a parsing.Decorator ready to take chatCompletion calls. It
// is built the way kadirpekel-hector's LLMRegistry.CreateLLMFromConfig and
// the teacher's controller.Factory.CreateController both are: a small
// switch over an enum, backed by a read-mostly registry.
type Factory struct {
	providers *config.LLMProviderRegistry
	cache     sync.Map // cacheKey -> parsing.Decorator
}

// NewFactory builds a Factory over providers. providers is typically
// cfg.LLMProviderRegistry from the loaded Config.
func NewFactory(providers *config.LLMProviderRegistry) *Factory {
	return &Factory{providers: providers}
}

type cacheKey struct {
	provider        string
	parsingStrategy string
	model           string
}

// Create resolves agentCfg into a ready-to-use parsing.Decorator, caching
// the result per (provider, parsingStrategy, modelName) since clients are
// cheap to reuse and construction only needs to read env/config once.
func (f *Factory) Create(agentCfg *models.AgentConfig) (parsing.Decorator, error) {
	providerName, providerCfg, err := f.resolveProvider(agentCfg)
	if err != nil {
		return nil, err
	}

	resolvedParsing, err := resolveParsingStrategy(providerCfg.Type, agentCfg.ModelName, agentCfg.ParsingStrategy)
	if err != nil {
		return nil, err
	}

	key := cacheKey{provider: providerName, parsingStrategy: string(resolvedParsing), model: agentCfg.ModelName}
	if cached, ok := f.cache.Load(key); ok {
		return cached.(parsing.Decorator), nil
	}

	base, err := newBaseClient(providerCfg)
	if err != nil {
		return nil, err
	}

	decorator, err := parsing.Wrap(base, resolvedParsing, providerName)
	if err != nil {
		return nil, err
	}

	actual, _ := f.cache.LoadOrStore(key, decorator)
	return actual.(parsing.Decorator), nil
}

// resolveProvider implements step 1-2 of spec.md's factory algorithm: if
// agentCfg.Provider names a registered provider, use it; otherwise
// auto-detect a provider type from the model name's prefix and pick the
// registered provider of that type.
func (f *Factory) resolveProvider(agentCfg *models.AgentConfig) (string, *config.LLMProviderConfig, error) {
	if agentCfg.Provider != "" {
		cfg, err := f.providers.Get(agentCfg.Provider)
		if err != nil {
			return "", nil, fmt.Errorf("resolve llm provider %q: %w", agentCfg.Provider, err)
		}
		return agentCfg.Provider, cfg, nil
	}

	providerType := detectProviderType(agentCfg.ModelName)
	name, cfg, err := f.findProviderByType(providerType)
	if err != nil {
		return "", nil, err
	}
	return name, cfg, nil
}

// detectProviderType maps a model name prefix to a provider type, per
// spec.md §4.5 step 1: "gpt-"/"o1-" -> openai, "claude-" -> anthropic,
// otherwise -> openrouter. The fallback is fixed here: config's
// Defaults.DefaultLLMProvider is not consulted.
func detectProviderType(modelName string) config.LLMProviderType {
	switch {
	case strings.HasPrefix(modelName, "gpt-"), strings.HasPrefix(modelName, "o1-"):
		return config.LLMProviderTypeOpenAI
	case strings.HasPrefix(modelName, "claude-"):
		return config.LLMProviderTypeAnthropic
	default:
		return config.LLMProviderTypeOpenRouter
	}
}

// findProviderByType returns the registered provider of the given type,
// preferring the builtin "<type>-default" name and otherwise the
// lexicographically first match, so resolution is deterministic even
// when more than one provider of the same type is configured.
func (f *Factory) findProviderByType(providerType config.LLMProviderType) (string, *config.LLMProviderConfig, error) {
	conventional := string(providerType) + "-default"
	if cfg, err := f.providers.Get(conventional); err == nil {
		return conventional, cfg, nil
	}

	all := f.providers.GetAll()
	var candidates []string
	for name, cfg := range all {
		if cfg.Type == providerType {
			candidates = append(candidates, name)
		}
	}
	if len(candidates) == 0 {
		return "", nil, models.NewValidationError("provider", fmt.Sprintf("no registered provider of type %q", providerType))
	}
	sort.Strings(candidates)
	return candidates[0], all[candidates[0]], nil
}

// newBaseClient constructs the raw provider Client, resolving the API key
// from the environment variable the provider config names.
func newBaseClient(providerCfg *config.LLMProviderConfig) (Client, error) {
	apiKey := ""
	if providerCfg.APIKeyEnv != "" {
		apiKey = os.Getenv(providerCfg.APIKeyEnv)
	}

	switch providerCfg.Type {
	case config.LLMProviderTypeOpenAI:
		return NewOpenAIClient(providerCfg, apiKey), nil
	case config.LLMProviderTypeAnthropic:
		return NewAnthropicClient(providerCfg, apiKey), nil
	case config.LLMProviderTypeOpenRouter:
		return NewOpenRouterClient(providerCfg, apiKey), nil
	case config.LLMProviderTypeLiteLLM:
		return NewLiteLLMClient(providerCfg, apiKey), nil
	default:
		return nil, models.NewValidationError("provider.type", fmt.Sprintf("unsupported provider type %q", providerCfg.Type))
	}
}

// resolveParsingStrategy implements step 3-4 of spec.md's factory
// algorithm: an explicit, non-"auto" request wins; otherwise select by
// (providerType, modelName) family, falling back to post_process.
func resolveParsingStrategy(providerType config.LLMProviderType, modelName, requested string) (config.ParsingStrategyType, error) {
	if requested != "" && requested != string(config.ParsingStrategyAuto) {
		strategy := config.ParsingStrategyType(requested)
		if !strategy.IsValid() {
			return "", models.NewValidationError("parsingStrategy", fmt.Sprintf("unsupported parsing strategy %q", requested))
		}
		return strategy, nil
	}

	switch {
	case providerType == config.LLMProviderTypeOpenAI && strings.HasPrefix(modelName, "gpt-"):
		return config.ParsingStrategyNative, nil
	case providerType == config.LLMProviderTypeAnthropic && strings.HasPrefix(modelName, "claude-"):
		return config.ParsingStrategyPostProcess, nil
	case providerType == config.LLMProviderTypeOpenRouter:
		return config.ParsingStrategyConstrained, nil
	default:
		return config.ParsingStrategyPostProcess, nil
	}
}
