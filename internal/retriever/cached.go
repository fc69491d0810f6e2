package retriever

import (
	"context"
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/printworks/answer-engine/internal/cache"
	"github.com/printworks/answer-engine/internal/observability"
)

// CachedRetriever wraps a Retriever with a read-through result cache.
// Cache failures are never surfaced; the inner retriever is the source of
// truth.
type CachedRetriever struct {
	inner  Retriever
	cache  cache.Client
	ttl    time.Duration
	logger *observability.Logger
}

// NewCachedRetriever creates the caching decorator.
func NewCachedRetriever(inner Retriever, c cache.Client, ttl time.Duration, logger *observability.Logger) *CachedRetriever {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &CachedRetriever{
		inner:  inner,
		cache:  c,
		ttl:    ttl,
		logger: logger,
	}
}

// Search returns cached candidates when available, otherwise delegates and
// stores the result.
func (r *CachedRetriever) Search(ctx context.Context, query, language string, topK int) ([]Candidate, error) {
	key := cache.CacheKey("retriever", language, strconv.Itoa(topK), query)

	if data, err := r.cache.Get(ctx, key); err == nil {
		var cached []Candidate
		if err := json.Unmarshal(data, &cached); err == nil {
			r.logger.Debug().Str("query", query).Msg("Retriever cache hit")
			return cached, nil
		}
	} else if !errors.Is(err, cache.ErrCacheMiss) {
		r.logger.Warn().Err(err).Msg("Retriever cache read failed")
	}

	candidates, err := r.inner.Search(ctx, query, language, topK)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(candidates); err == nil {
		if err := r.cache.Set(ctx, key, data, r.ttl); err != nil {
			r.logger.Warn().Err(err).Msg("Retriever cache write failed")
		}
	}

	return candidates, nil
}
