package lookups

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

const (
	priceKeyPrefix = "cartcheck:price:"
	// noPrice marks a cached miss so absent prices are not reloaded every pass.
	noPrice = "-"
)

// PriceCache is a read-through redis cache in front of a PriceLookup. Cache
// failures fall back to the source and never fail a validation pass.
type PriceCache struct {
	rdb     goredis.UniversalClient
	source  cartvalidation.PriceLookup
	ttl     time.Duration
	log     *logger.Logger
	metrics *observability.Metrics
}

func NewPriceCache(rdb goredis.UniversalClient, source cartvalidation.PriceLookup, ttl time.Duration, log *logger.Logger, metrics *observability.Metrics) *PriceCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &PriceCache{rdb: rdb, source: source, ttl: ttl, log: log.With("service", "PriceCache"), metrics: metrics}
}

func priceKey(storeCode, skuCode string) string {
	return priceKeyPrefix + storeCode + ":" + skuCode
}

func (c *PriceCache) PromotedPrice(ctx context.Context, store *commerce.Store, shopper *commerce.Shopper, sku *commerce.ProductSku) (*commerce.Price, error) {
	key := priceKey(store.Code, sku.Code)
	raw, err := c.rdb.Get(ctx, key).Result()
	switch {
	case err == nil:
		if p, ok := decodePrice(raw); ok {
			c.metrics.ObservePriceCache("hit")
			return p, nil
		}
		c.log.Warn("discarding unreadable cached price", "key", key)
	case errors.Is(err, goredis.Nil):
		c.metrics.ObservePriceCache("miss")
	default:
		c.metrics.ObservePriceCache("error")
		c.log.Warn("price cache read failed", "key", key, "error", err)
	}

	p, err := c.source.PromotedPrice(ctx, store, shopper, sku)
	if err != nil {
		return nil, err
	}
	if err := c.rdb.Set(ctx, key, encodePrice(p), c.ttl).Err(); err != nil {
		c.log.Warn("price cache write failed", "key", key, "error", err)
	}
	return p, nil
}

// Invalidate drops cached prices for one SKU in one store.
func (c *PriceCache) Invalidate(ctx context.Context, storeCode, skuCode string) error {
	return c.rdb.Del(ctx, priceKey(storeCode, skuCode)).Err()
}

func encodePrice(p *commerce.Price) string {
	if p == nil {
		return noPrice
	}
	b, err := json.Marshal(p)
	if err != nil {
		return noPrice
	}
	return string(b)
}

func decodePrice(raw string) (*commerce.Price, bool) {
	if raw == noPrice {
		return nil, true
	}
	var p commerce.Price
	if err := json.Unmarshal([]byte(raw), &p); err != nil {
		return nil, false
	}
	return &p, true
}
