package embedding

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"
)

// CachedProvider decorates an EmbeddingProvider with a Redis cache so
// repeated queries do not re-hit the upstream API. Cache failures fall
// through to the inner provider.
type CachedProvider struct {
	inner EmbeddingProvider
	rdb   *redis.Client
	ttl   time.Duration
}

func NewCachedProvider(inner EmbeddingProvider, rdb *redis.Client) EmbeddingProvider {
	return &CachedProvider{
		inner: inner,
		rdb:   rdb,
		ttl:   24 * time.Hour,
	}
}

func (p *CachedProvider) cacheKey(text string, taskType string) string {
	sum := sha256.Sum256([]byte(taskType + "\x00" + text))
	return "embedding:" + hex.EncodeToString(sum[:])
}

func (p *CachedProvider) Generate(text string, taskType string) (*EmbeddingResponse, error) {
	ctx := context.Background()
	key := p.cacheKey(text, taskType)

	if raw, err := p.rdb.Get(ctx, key).Bytes(); err == nil {
		var values []float32
		if err := json.Unmarshal(raw, &values); err == nil {
			return &EmbeddingResponse{
				Embedding: EmbeddingResponseEmbedding{Values: values},
			}, nil
		}
	}

	resp, err := p.inner.Generate(text, taskType)
	if err != nil {
		return nil, err
	}

	if raw, err := json.Marshal(resp.Embedding.Values); err == nil {
		// Best effort, a failed SET must not fail the embedding
		p.rdb.Set(ctx, key, raw, p.ttl)
	}

	return resp, nil
}
