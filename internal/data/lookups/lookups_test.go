package lookups

import (
	"context"
	"os"
	"testing"
	"time"

	goredis "github.com/redis/go-redis/v9"

	repos "github.com/yungbote/cartcheck/internal/data/repos/commerce"
	"github.com/yungbote/cartcheck/internal/data/repos/testutil"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/observability"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
)

func seed(t *testing.T) (context.Context, *Adapter) {
	t.Helper()
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	log := testutil.Logger(t)

	store := testutil.SeedStore(t, t.Context(), tx, "LK", "LK-WH")
	sku := testutil.SeedSku(t, t.Context(), tx, store, "LK-SKU", 1250, 4)
	if err := tx.Model(&commerce.InventoryRecord{}).Where("sku_code = ?", sku.Code).Update("allocated", 1).Error; err != nil {
		t.Fatalf("allocate inventory: %v", err)
	}

	return dbctx.WithTx(t.Context(), tx), NewAdapter(Repos{
		Stores:    repos.NewStoreRepo(db, log),
		Shoppers:  repos.NewShopperRepo(db, log),
		Products:  repos.NewProductRepo(db, log),
		Catalog:   repos.NewCatalogRepo(db, log),
		Prices:    repos.NewPriceRepo(db, log),
		Inventory: repos.NewInventoryRepo(db, log),
	})
}

func TestAdapterReadsThroughRepos(t *testing.T) {
	ctx, a := seed(t)

	store, err := a.StoreByCode(ctx, "LK")
	if err != nil || store == nil {
		t.Fatalf("StoreByCode: got %+v err=%v", store, err)
	}
	sku, err := a.SkuByCode(ctx, "LK-SKU")
	if err != nil || sku == nil || sku.Product == nil {
		t.Fatalf("SkuByCode: got %+v err=%v", sku, err)
	}
	price, err := a.PromotedPrice(ctx, store, nil, sku)
	if err != nil || price == nil || price.Lowest() != 1250 {
		t.Fatalf("PromotedPrice: got %+v err=%v", price, err)
	}
	ok, err := a.InCatalog(ctx, store.CatalogCode, sku.ProductCode)
	if err != nil || !ok {
		t.Fatalf("InCatalog: want true got %v err=%v", ok, err)
	}
	rec, err := a.Inventory(ctx, store.DefaultWarehouse(), sku.Code)
	if err != nil || rec.Available() != 3 {
		t.Fatalf("Inventory: want available=3 got %+v err=%v", rec, err)
	}

	missing, err := a.SkuByCode(ctx, "absent")
	if err != nil || missing != nil {
		t.Fatalf("SkuByCode(absent): want nil,nil got %+v,%v", missing, err)
	}
	shopper, err := a.ShopperByGUID(ctx, "absent")
	if err != nil || shopper != nil {
		t.Fatalf("ShopperByGUID(absent): want nil,nil got %+v,%v", shopper, err)
	}
}

type countingPrices struct {
	calls int
	price *commerce.Price
}

func (c *countingPrices) PromotedPrice(context.Context, *commerce.Store, *commerce.Shopper, *commerce.ProductSku) (*commerce.Price, error) {
	c.calls++
	return c.price, nil
}

func TestPriceCacheFallsBackWhenRedisIsDown(t *testing.T) {
	rdb := goredis.NewClient(&goredis.Options{Addr: "127.0.0.1:1", DialTimeout: 50 * time.Millisecond, MaxRetries: -1})
	t.Cleanup(func() { _ = rdb.Close() })

	src := &countingPrices{price: &commerce.Price{StoreCode: "S", SkuCode: "K", ListAmount: 5}}
	m := observability.New(0)
	cache := NewPriceCache(rdb, src, time.Minute, testutil.Logger(t), m)

	store := &commerce.Store{Code: "S"}
	sku := &commerce.ProductSku{Code: "K"}
	for i := 0; i < 2; i++ {
		p, err := cache.PromotedPrice(t.Context(), store, nil, sku)
		if err != nil {
			t.Fatalf("PromotedPrice: %v", err)
		}
		if p == nil || p.ListAmount != 5 {
			t.Fatalf("PromotedPrice: got %+v", p)
		}
	}
	if src.calls != 2 {
		t.Fatalf("source calls: want=2 got=%d", src.calls)
	}
	if got := m.PriceCacheCount("error"); got != 2 {
		t.Fatalf("error count: want=2 got=%v", got)
	}
}

func TestPriceCacheWithRedis(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		t.Skip("TEST_REDIS_ADDR not set")
	}
	rdb := goredis.NewClient(&goredis.Options{Addr: addr})
	t.Cleanup(func() { _ = rdb.Close() })

	src := &countingPrices{}
	m := observability.New(0)
	cache := NewPriceCache(rdb, src, time.Minute, testutil.Logger(t), m)
	store := &commerce.Store{Code: "cache-test"}
	sku := &commerce.ProductSku{Code: "no-price"}
	if err := cache.Invalidate(t.Context(), store.Code, sku.Code); err != nil {
		t.Fatalf("Invalidate: %v", err)
	}

	for i := 0; i < 2; i++ {
		p, err := cache.PromotedPrice(t.Context(), store, nil, sku)
		if err != nil || p != nil {
			t.Fatalf("PromotedPrice: want nil,nil got %+v,%v", p, err)
		}
	}
	if src.calls != 1 {
		t.Fatalf("source calls: want=1 got=%d", src.calls)
	}
	if m.PriceCacheCount("miss") != 1 || m.PriceCacheCount("hit") != 1 {
		t.Fatalf("cache counts: miss=%v hit=%v", m.PriceCacheCount("miss"), m.PriceCacheCount("hit"))
	}
}

func TestPriceEncoding(t *testing.T) {
	if got := encodePrice(nil); got != noPrice {
		t.Fatalf("encodePrice(nil): want=%q got=%q", noPrice, got)
	}
	sale := int64(80)
	raw := encodePrice(&commerce.Price{StoreCode: "S", SkuCode: "K", Currency: "USD", ListAmount: 100, SaleAmount: &sale})
	p, ok := decodePrice(raw)
	if !ok || p == nil || p.Lowest() != 80 {
		t.Fatalf("decodePrice: got %+v ok=%v", p, ok)
	}
	if _, ok := decodePrice("{not json"); ok {
		t.Fatalf("decodePrice: want failure on garbage")
	}
}
