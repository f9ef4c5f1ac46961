package testutil

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/yungbote/cartcheck/internal/domain/commerce"
)

func SeedStore(tb testing.TB, ctx context.Context, tx *gorm.DB, code, warehouse string) *types.Store {
	tb.Helper()
	s := &types.Store{
		ID:          uuid.New(),
		Code:        code,
		Name:        code,
		CatalogCode: code + "-CAT",
		Currency:    "USD",
		Enabled:     true,
	}
	if warehouse != "" {
		s.WarehouseCodes = datatypes.JSONSlice[string]{warehouse}
	}
	if err := tx.WithContext(ctx).Create(s).Error; err != nil {
		tb.Fatalf("seed store: %v", err)
	}
	return s
}

// SeedSku creates a product with one SKU, lists it in the store's catalog and
// gives it a price and onHand units in the store's default warehouse.
func SeedSku(tb testing.TB, ctx context.Context, tx *gorm.DB, store *types.Store, code string, listAmount int64, onHand int) *types.ProductSku {
	tb.Helper()
	db := tx.WithContext(ctx)
	p := &types.Product{ID: uuid.New(), Code: "P-" + code, Name: code}
	if err := db.Create(p).Error; err != nil {
		tb.Fatalf("seed product: %v", err)
	}
	sku := &types.ProductSku{ID: uuid.New(), Code: code, GUID: uuid.NewString(), ProductCode: p.Code}
	if err := db.Omit("Product").Create(sku).Error; err != nil {
		tb.Fatalf("seed sku: %v", err)
	}
	sku.Product = p
	if err := db.Create(&types.CatalogEntry{ID: uuid.New(), CatalogCode: store.CatalogCode, ProductCode: p.Code}).Error; err != nil {
		tb.Fatalf("seed catalog entry: %v", err)
	}
	if err := db.Create(&types.Price{ID: uuid.New(), StoreCode: store.Code, SkuCode: code, Currency: store.Currency, ListAmount: listAmount}).Error; err != nil {
		tb.Fatalf("seed price: %v", err)
	}
	if wh := store.DefaultWarehouse(); wh != "" {
		if err := db.Create(&types.InventoryRecord{ID: uuid.New(), WarehouseCode: wh, SkuCode: code, OnHand: onHand}).Error; err != nil {
			tb.Fatalf("seed inventory: %v", err)
		}
	}
	return sku
}
