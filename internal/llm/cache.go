package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"codeberg.org/handbookqa/server/internal/logger"
	"github.com/redis/go-redis/v9"
)

const (
	defaultCacheTTL    = 7 * 24 * time.Hour
	defaultCachePrefix = "emb:"
)

type CacheConfig struct {
	TTL       time.Duration
	KeyPrefix string
	Namespace string // usually the embedding model, so models never share entries
}

// CachedEmbedder serves repeated texts from redis. Cache faults are logged and
// fall through to the wrapped embedder; they never fail a call.
type CachedEmbedder struct {
	embedder Embedder
	rdb      *redis.Client
	config   CacheConfig
}

func NewCachedEmbedder(embedder Embedder, rdb *redis.Client, config CacheConfig) *CachedEmbedder {
	if config.TTL <= 0 {
		config.TTL = defaultCacheTTL
	}

	if config.KeyPrefix == "" {
		config.KeyPrefix = defaultCachePrefix
	}

	return &CachedEmbedder{
		embedder: embedder,
		rdb:      rdb,
		config:   config,
	}
}

func (c *CachedEmbedder) cacheKey(text string) string {
	hash := sha256.Sum256([]byte(text))
	return c.config.KeyPrefix + c.config.Namespace + ":" + hex.EncodeToString(hash[:])
}

func (c *CachedEmbedder) GenerateEmbedding(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := c.GenerateEmbeddings(ctx, []string{text})
	if err != nil {
		return nil, err
	}

	return embeddings[0], nil
}

func (c *CachedEmbedder) GenerateEmbeddings(ctx context.Context, texts []string) ([][]float32, error) {
	if c.rdb == nil || len(texts) == 0 {
		return c.embedder.GenerateEmbeddings(ctx, texts)
	}

	keys := make([]string, len(texts))
	for i, text := range texts {
		keys[i] = c.cacheKey(text)
	}

	embeddings := make([][]float32, len(texts))
	var missIndices []int
	var missTexts []string

	cached, err := c.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		logger.WarnErr(err, "embedding cache read failed, falling back to provider")
		cached = make([]any, len(texts))
	}

	for i := range texts {
		if raw, ok := cached[i].(string); ok {
			var embedding []float32
			if err := json.Unmarshal([]byte(raw), &embedding); err == nil {
				embeddings[i] = embedding
				continue
			}
		}

		missIndices = append(missIndices, i)
		missTexts = append(missTexts, texts[i])
	}

	if len(missTexts) == 0 {
		logger.Debug("all embeddings served from cache", "total", len(texts))
		return embeddings, nil
	}

	fresh, err := c.embedder.GenerateEmbeddings(ctx, missTexts)
	if err != nil {
		return nil, err
	}

	pipe := c.rdb.Pipeline()

	for i, idx := range missIndices {
		embeddings[idx] = fresh[i]

		data, err := json.Marshal(fresh[i])
		if err != nil {
			continue
		}

		pipe.Set(ctx, keys[idx], data, c.config.TTL)
	}

	if _, err := pipe.Exec(ctx); err != nil {
		logger.WarnErr(err, "failed to cache embeddings", "count", len(missTexts))
	}

	logger.Debug("embedding cache lookup",
		"total", len(texts),
		"misses", len(missTexts),
	)

	return embeddings, nil
}
