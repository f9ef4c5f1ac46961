package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cartcheck/internal/platform/logger"
)

const DefaultPriceChannel = "cartcheck:price-changes"

// PriceChange announces that a store price was written and cached copies are stale.
type PriceChange struct {
	StoreCode string `json:"store_code"`
	SkuCode   string `json:"sku_code"`
}

type PriceBus interface {
	Publish(ctx context.Context, msg PriceChange) error
	StartForwarder(ctx context.Context, onMsg func(m PriceChange)) error
}

type priceBus struct {
	log     *logger.Logger
	rdb     goredis.UniversalClient
	channel string
}

func NewPriceBus(log *logger.Logger, rdb goredis.UniversalClient, channel string) (PriceBus, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	if rdb == nil {
		return nil, fmt.Errorf("redis client required")
	}
	ch := strings.TrimSpace(channel)
	if ch == "" {
		ch = DefaultPriceChannel
	}
	return &priceBus{log: log.With("service", "RedisPriceBus"), rdb: rdb, channel: ch}, nil
}

func (b *priceBus) Publish(ctx context.Context, msg PriceChange) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return err
	}
	return b.rdb.Publish(ctx, b.channel, raw).Err()
}

// StartForwarder subscribes and calls onMsg for every change until ctx ends.
// It returns once the subscription is confirmed.
func (b *priceBus) StartForwarder(ctx context.Context, onMsg func(m PriceChange)) error {
	if onMsg == nil {
		return fmt.Errorf("onMsg callback required")
	}

	sub := b.rdb.Subscribe(ctx, b.channel)
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("redis subscribe: %w", err)
	}

	go func() {
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				_ = sub.Close()
				return
			case m, ok := <-ch:
				if !ok || m == nil {
					_ = sub.Close()
					return
				}
				var msg PriceChange
				if err := json.Unmarshal([]byte(m.Payload), &msg); err != nil {
					b.log.Warn("bad price change payload", "error", err)
					continue
				}
				onMsg(msg)
			}
		}
	}()

	return nil
}
