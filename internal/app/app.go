package app

import (
	"context"
	"fmt"
	"os"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/cartvalidation/rules"
	"github.com/yungbote/cartcheck/internal/checkout"
	"github.com/yungbote/cartcheck/internal/clients/redis"
	"github.com/yungbote/cartcheck/internal/data/db"
	"github.com/yungbote/cartcheck/internal/data/lookups"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/services"
	"github.com/yungbote/cartcheck/internal/validation"
)

type App struct {
	Log        *logger.Logger
	Cfg        Config
	DB         *db.Service
	Redis      goredis.UniversalClient
	Repos      Repos
	PriceCache *lookups.PriceCache
	PriceBus   redis.PriceBus
	Builders   *cartvalidation.Builders
	Registry   *validation.Registry
	Rules      *rules.Catalog
	Checkout   *checkout.Orchestrator
	Validation services.CartValidationService
	Sweep      services.CartSweepService
	Metrics    *observability.Metrics

	redisErr     error
	otelShutdown func(context.Context) error
	cancel       context.CancelFunc
}

// New builds the application from the environment.
func New(ctx context.Context) (*App, error) {
	logMode := os.Getenv("LOG_MODE")
	if logMode == "" {
		logMode = "development"
	}
	log, err := logger.New(logMode)
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	log.Info("Loading environment variables...")
	cfg := LoadConfig(log)

	a, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return a, nil
}

// NewWithConfig wires every component from cfg. Redis is optional: without
// an address prices are read straight from the database, and a failed
// connection is kept for the system checks instead of failing startup.
func NewWithConfig(ctx context.Context, log *logger.Logger, cfg Config) (*App, error) {
	order, ok := cartvalidation.ChildOrderByName(cfg.ChildOrder)
	if !ok {
		return nil, fmt.Errorf("unknown CHILD_ORDER %q", cfg.ChildOrder)
	}

	dbs, err := db.Open(log, cfg.DB)
	if err != nil {
		return nil, fmt.Errorf("init db: %w", err)
	}
	if err := db.AutoMigrateAll(dbs.DB()); err != nil {
		_ = dbs.Close()
		return nil, fmt.Errorf("db automigrate: %w", err)
	}

	a := &App{
		Log:     log,
		Cfg:     cfg,
		DB:      dbs,
		Repos:   wireRepos(dbs.DB(), log),
		Metrics: observability.Init(log, cfg.MetricsEnabled, cfg.MetricsScrape),
	}
	a.otelShutdown = observability.InitOTel(ctx, log, cfg.Otel)

	adapter := lookups.NewAdapter(a.Repos.lookups())
	var prices cartvalidation.PriceLookup = adapter
	if cfg.Redis.Addr != "" {
		rdb, err := redis.NewClient(log, cfg.Redis)
		if err != nil {
			log.Warn("redis unavailable, price cache disabled", "error", err)
			a.redisErr = err
		} else {
			a.Redis = rdb
			a.PriceCache = lookups.NewPriceCache(rdb, adapter, cfg.PriceCacheTTL, log, a.Metrics)
			prices = a.PriceCache
			if a.PriceBus, err = redis.NewPriceBus(log, rdb, cfg.PriceChannel); err != nil {
				a.Close()
				return nil, fmt.Errorf("init price bus: %w", err)
			}
		}
	}

	a.Builders = cartvalidation.NewBuilders(cartvalidation.Deps{
		Stores:     adapter,
		Shoppers:   adapter,
		Skus:       adapter,
		Prices:     prices,
		Catalog:    adapter,
		Inventory:  adapter,
		ChildOrder: order,
	})

	if err := a.wireRules(ctx); err != nil {
		a.Close()
		return nil, err
	}

	a.Checkout = checkout.NewOrchestrator(a.Registry, a.Builders, log, a.Metrics)
	a.Validation = services.NewCartValidationService(log, a.Registry, a.Builders, a.Checkout, a.Metrics)
	a.Sweep = services.NewCartSweepService(services.CartSweepDeps{
		Log:        log,
		Carts:      a.Repos.Cart,
		Validation: a.Validation,
		Metrics:    a.Metrics,
	})
	return a, nil
}

func (a *App) wireRules(ctx context.Context) error {
	a.Log.Info("Wiring rules...", "profile", a.Cfg.RuleProfilePath)
	profile, err := LoadRuleProfile(a.Cfg.RuleProfilePath)
	if err != nil {
		return err
	}
	stores, err := a.Repos.Store.List(dbctx.From(ctx))
	if err != nil {
		return fmt.Errorf("list stores: %w", err)
	}
	codes := make([]string, 0, len(stores))
	for _, s := range stores {
		codes = append(codes, s.Code)
	}

	a.Registry = validation.NewRegistry()
	a.Rules = rules.NewCatalog(a.Registry, a.Builders)
	if err := profile.Apply(a.Registry, a.Rules, codes); err != nil {
		return fmt.Errorf("apply rule profile: %w", err)
	}
	a.Registry.Seal()
	return nil
}

// Start runs the background pieces: metrics endpoint, pool collectors and
// the price change forwarder.
func (a *App) Start(ctx context.Context) error {
	if a == nil || a.cancel != nil {
		return nil
	}
	ctx, cancel := context.WithCancel(ctx)
	a.cancel = cancel

	if a.Metrics != nil {
		a.Metrics.StartServer(ctx, a.Log, a.Cfg.MetricsAddr)
		a.Metrics.StartDBCollector(ctx, a.Log, a.DB.DB())
		if a.Redis != nil {
			a.Metrics.StartRedisCollector(ctx, a.Log, a.Redis)
		}
	}
	if a.PriceBus != nil && a.PriceCache != nil {
		err := a.PriceBus.StartForwarder(ctx, func(m redis.PriceChange) {
			if err := a.PriceCache.Invalidate(ctx, m.StoreCode, m.SkuCode); err != nil {
				a.Log.Warn("price cache invalidation failed", "store", m.StoreCode, "sku", m.SkuCode, "error", err)
			}
		})
		if err != nil {
			return fmt.Errorf("start price forwarder: %w", err)
		}
	}
	return nil
}

// LoadCart fetches a stored cart with its item tree.
func (a *App) LoadCart(ctx context.Context, guid string) (*commerce.Cart, error) {
	cart, err := a.Repos.Cart.GetByGUID(dbctx.From(ctx), guid)
	if err != nil {
		return nil, faults.MapError("load cart", err)
	}
	if cart == nil {
		return nil, faults.New(faults.CodeNotFound, "load cart", "cart "+guid, nil)
	}
	return cart, nil
}

// SystemContext pings the database and cache for the system checks.
func (a *App) SystemContext(ctx context.Context) *cartvalidation.SystemContext {
	sys := &cartvalidation.SystemContext{CacheConfigured: a.Cfg.Redis.Addr != ""}

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := a.DB.Ping(pingCtx); err != nil {
		sys.DatabaseErr = err
	} else if stores, err := a.Repos.Store.List(dbctx.From(ctx)); err != nil {
		sys.DatabaseErr = err
	} else {
		sys.Stores = stores
	}

	switch {
	case a.redisErr != nil:
		sys.CacheErr = a.redisErr
	case a.Redis != nil:
		sys.CacheErr = a.Redis.Ping(pingCtx).Err()
	}
	return sys
}

// SetPrice writes a store price and drops cached copies everywhere.
func (a *App) SetPrice(ctx context.Context, p *commerce.Price) error {
	if err := a.Repos.Price.Upsert(dbctx.From(ctx), []*commerce.Price{p}); err != nil {
		return faults.MapError("set price", err)
	}
	if a.PriceBus != nil {
		if err := a.PriceBus.Publish(ctx, redis.PriceChange{StoreCode: p.StoreCode, SkuCode: p.SkuCode}); err != nil {
			a.Log.Warn("price change publish failed", "store", p.StoreCode, "sku", p.SkuCode, "error", err)
		}
	}
	if a.PriceCache != nil {
		return a.PriceCache.Invalidate(ctx, p.StoreCode, p.SkuCode)
	}
	return nil
}

func (a *App) Close() {
	if a == nil {
		return
	}
	if a.cancel != nil {
		a.cancel()
		a.cancel = nil
	}
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil {
		_ = a.DB.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}
