package llm

import (
	"fmt"

	"github.com/redis/go-redis/v9"
)

// builds the embedder and generator from environment variables; a non-nil
// redis client enables the embedding cache
func NewClients(rdb *redis.Client) (*Clients, error) {
	config, err := loadConfig()
	if err != nil {
		return nil, fmt.Errorf("failed to load LLM config: %w", err)
	}

	return NewClientsWithConfig(config, rdb)
}

// builds the embedder and generator from an explicit configuration
func NewClientsWithConfig(config *Config, rdb *redis.Client) (*Clients, error) {
	if config == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	var generator TextGenerator

	switch config.GeneratorProvider {
	case ProviderOpenAI:
		generator = NewOpenAIGenerator(OpenAIChatConfig{
			APIKey:    config.GeneratorAPIKey,
			Model:     config.GeneratorModel,
			MaxTokens: config.GeneratorMaxTokens,
		})
	case ProviderAnthropic:
		generator = NewAnthropicGenerator(AnthropicConfig{
			APIKey:    config.GeneratorAPIKey,
			Model:     config.GeneratorModel,
			MaxTokens: config.GeneratorMaxTokens,
		})
	default:
		return nil, fmt.Errorf("unsupported generator provider: %s", config.GeneratorProvider)
	}

	var embedder Embedder

	switch config.EmbedderProvider {
	case ProviderOpenAI:
		embedder = NewOpenAIEmbedder(OpenAIConfig{
			APIKey:    config.EmbedderAPIKey,
			Model:     config.EmbedderModel,
			BatchSize: config.EmbedderBatchSize,
		})
	default:
		return nil, fmt.Errorf("unsupported embedder provider: %s", config.EmbedderProvider)
	}

	if rdb != nil {
		embedder = NewCachedEmbedder(embedder, rdb, CacheConfig{Namespace: config.EmbedderModel})
	}

	return &Clients{
		Embedder:  embedder,
		Generator: generator,
	}, nil
}
