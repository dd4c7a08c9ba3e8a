package llm

import "context"

// represents different LLM providers
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// generates embeddings from text
type Embedder interface {
	GenerateEmbedding(ctx context.Context, text string) ([]float32, error)
	GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error)
}

// produces chat completions
type TextGenerator interface {
	GenerateText(ctx context.Context, req TextGenerationRequest) (*TextGenerationResponse, error)
	Model() string
}

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// Temperature is always sent as given, so the zero value means deterministic
// sampling rather than "provider default".
type TextGenerationRequest struct {
	SystemPrompt string
	Messages     []Message
	MaxTokens    int
	Temperature  float32
}

type TextGenerationResponse struct {
	Text  string
	Usage Usage
}

type Usage struct {
	InputTokens  int
	OutputTokens int
}

// holds configuration for LLM initialization
type Config struct {
	GeneratorProvider  Provider
	GeneratorAPIKey    string
	GeneratorModel     string // e.g., "gpt-4o" or "claude-sonnet-4-20250514"
	GeneratorMaxTokens int

	EmbedderProvider  Provider
	EmbedderAPIKey    string
	EmbedderModel     string // e.g., "text-embedding-3-small"
	EmbedderBatchSize int
}

// bundles the clients built from a Config
type Clients struct {
	Embedder  Embedder
	Generator TextGenerator
}
