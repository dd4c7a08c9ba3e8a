package retriever

import (
	"os"
	"strconv"
)

// loadRetrieverConfig loads configuration from environment variables
func loadRetrieverConfig() *RetrieverConfig {
	// optional: top K for retrieval
	topK := DefaultTopK
	if topKStr := os.Getenv("RETRIEVAL_TOP_K"); topKStr != "" {
		if val, err := strconv.Atoi(topKStr); err == nil && val > 0 {
			topK = val
		}
	}

	return &RetrieverConfig{
		TopK: topK,
	}
}
