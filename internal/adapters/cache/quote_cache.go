package cache

import (
	"context"
	"fmt"
	"time"

	"fxscan/internal/adapters"
	"fxscan/internal/domain"

	"github.com/dgraph-io/ristretto"
)

// CachedQuoteSource decorates a QuoteSource with a per-pair TTL cache.
// Only successful quotes are cached; failures always go back upstream.
// Useful when the refresh interval is shorter than the upstream's free-tier
// call quota allows.
type CachedQuoteSource struct {
	source adapters.QuoteSource
	cache  *ristretto.Cache
	ttl    time.Duration
}

func NewCachedQuoteSource(source adapters.QuoteSource, maxItems int64, ttl time.Duration) (*CachedQuoteSource, error) {
	if maxItems <= 0 {
		maxItems = 1024
	}
	c, err := ristretto.NewCache(&ristretto.Config{
		NumCounters: 10 * maxItems,
		MaxCost:     maxItems,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create quote cache failed: %w", err)
	}
	return &CachedQuoteSource{source: source, cache: c, ttl: ttl}, nil
}

func (c *CachedQuoteSource) FetchQuote(ctx context.Context, pair domain.Pair) (domain.Quote, error) {
	if v, ok := c.cache.Get(toKey(pair)); ok {
		if quote, isQuote := v.(domain.Quote); isQuote {
			return quote, nil
		}
	}

	quote, err := c.source.FetchQuote(ctx, pair)
	if err != nil {
		return quote, err
	}
	c.cache.SetWithTTL(toKey(pair), quote, 1, c.ttl)
	return quote, nil
}

func (c *CachedQuoteSource) Close() { c.cache.Close() }

func toKey(p domain.Pair) string { return p.Base + ":" + p.Quote }
