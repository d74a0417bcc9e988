package market

import (
	"context"
	"errors"
	"sync"
	"time"

	"portfolioapi/internal/model"
)

// cacheEntry stores one cached gateway answer with expiry. err holds a
// cached ErrNoData answer; unknown tickers are an answer too and must not
// punch through to the upstream on every lookup.
type cacheEntry struct {
	expiresAt time.Time
	quote     *model.Quote
	candles   []model.Candle
	err       error
}

// CachedGateway caches gateway answers per ticker for a TTL so repeated
// lookups do not hammer the upstream. Safe for concurrent use.
type CachedGateway struct {
	gw       Gateway
	ttl      time.Duration
	maxItems int

	mu    sync.RWMutex
	items map[string]cacheEntry
}

// NewCachedGateway wraps gw with a TTL cache. A non-positive ttl disables
// caching and calls pass straight through.
func NewCachedGateway(gw Gateway, ttl time.Duration, maxItems int) *CachedGateway {
	return &CachedGateway{
		gw:       gw,
		ttl:      ttl,
		maxItems: maxItems,
		items:    make(map[string]cacheEntry),
	}
}

var _ Gateway = (*CachedGateway)(nil)

func (c *CachedGateway) Quote(ctx context.Context, ticker string) (*model.Quote, error) {
	if c.ttl <= 0 {
		return c.gw.Quote(ctx, ticker)
	}
	key := "q|" + ticker

	if e, ok := c.lookup(key); ok {
		if e.err != nil {
			return nil, e.err
		}
		return e.quote, nil
	}

	quote, err := c.gw.Quote(ctx, ticker)
	if err != nil {
		if errors.Is(err, ErrNoData) {
			c.store(key, cacheEntry{err: err})
		}
		return nil, err
	}
	c.store(key, cacheEntry{quote: quote})
	return quote, nil
}

func (c *CachedGateway) History(ctx context.Context, ticker, rng string) ([]model.Candle, error) {
	if c.ttl <= 0 {
		return c.gw.History(ctx, ticker, rng)
	}
	key := "h|" + ticker + "|" + rng

	if e, ok := c.lookup(key); ok {
		return e.candles, nil
	}

	candles, err := c.gw.History(ctx, ticker, rng)
	if err != nil {
		return nil, err
	}
	c.store(key, cacheEntry{candles: candles})
	return candles, nil
}

func (c *CachedGateway) lookup(key string) (cacheEntry, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.items[key]
	if !ok || time.Now().After(e.expiresAt) {
		return cacheEntry{}, false
	}
	return e, true
}

func (c *CachedGateway) store(key string, e cacheEntry) {
	e.expiresAt = time.Now().Add(c.ttl)

	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = e

	// Best-effort size cap: drop expired entries first, then arbitrary ones.
	if c.maxItems > 0 && len(c.items) > c.maxItems {
		now := time.Now()
		for k, v := range c.items {
			if now.After(v.expiresAt) {
				delete(c.items, k)
			}
			if len(c.items) <= c.maxItems {
				return
			}
		}
		for k := range c.items {
			if len(c.items) <= c.maxItems {
				return
			}
			if k != key {
				delete(c.items, k)
			}
		}
	}
}
