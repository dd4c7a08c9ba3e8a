package llm

import "os"

// returns the env var holding the API key for the given provider
func apiKeyEnv(provider Provider) string {
	switch provider {
	case ProviderAnthropic:
		return "ANTHROPIC_API_KEY"
	default:
		return "OPENAI_API_KEY"
	}
}

func apiKeyForProvider(provider Provider) string {
	return os.Getenv(apiKeyEnv(provider))
}

func defaultGeneratorModel(provider Provider) string {
	switch provider {
	case ProviderAnthropic:
		return defaultAnthropicModel
	default:
		return defaultOpenAIChatModel
	}
}
