package llm

import (
	"fmt"
	"os"
	"strconv"
)

// loadConfig loads LLM configuration from environment variables
func loadConfig() (*Config, error) {
	generatorProvider := Provider(os.Getenv("GENERATOR_PROVIDER"))
	if generatorProvider == "" {
		generatorProvider = ProviderOpenAI
	}

	generatorAPIKey := apiKeyForProvider(generatorProvider)
	if generatorAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", apiKeyEnv(generatorProvider))
	}

	generatorModel := os.Getenv("GENERATOR_MODEL")
	if generatorModel == "" {
		generatorModel = defaultGeneratorModel(generatorProvider)
	}

	generatorMaxTokens := defaultMaxTokens
	if maxTokensStr := os.Getenv("GENERATOR_MAX_TOKENS"); maxTokensStr != "" {
		if val, err := strconv.Atoi(maxTokensStr); err == nil && val > 0 {
			generatorMaxTokens = val
		}
	}

	embedderProvider := Provider(os.Getenv("EMBEDDER_PROVIDER"))
	if embedderProvider == "" {
		embedderProvider = ProviderOpenAI
	}

	embedderAPIKey := apiKeyForProvider(embedderProvider)
	if embedderAPIKey == "" {
		return nil, fmt.Errorf("%s environment variable is required", apiKeyEnv(embedderProvider))
	}

	embedderModel := os.Getenv("EMBEDDER_MODEL")
	if embedderModel == "" {
		embedderModel = defaultOpenAIModel
	}

	embedderBatchSize := defaultEmbeddingBatch
	if batchStr := os.Getenv("EMBEDDER_BATCH_SIZE"); batchStr != "" {
		if val, err := strconv.Atoi(batchStr); err == nil && val > 0 {
			embedderBatchSize = val
		}
	}

	return &Config{
		GeneratorProvider:  generatorProvider,
		GeneratorAPIKey:    generatorAPIKey,
		GeneratorModel:     generatorModel,
		GeneratorMaxTokens: generatorMaxTokens,
		EmbedderProvider:   embedderProvider,
		EmbedderAPIKey:     embedderAPIKey,
		EmbedderModel:      embedderModel,
		EmbedderBatchSize:  embedderBatchSize,
	}, nil
}
