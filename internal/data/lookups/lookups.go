// Package lookups adapts the commerce repositories to the collaborator
// interfaces validation builders depend on.
package lookups

import (
	"context"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	repos "github.com/yungbote/cartcheck/internal/data/repos/commerce"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/faults"
)

type Repos struct {
	Stores    repos.StoreRepo
	Shoppers  repos.ShopperRepo
	Products  repos.ProductRepo
	Catalog   repos.CatalogRepo
	Prices    repos.PriceRepo
	Inventory repos.InventoryRepo
}

// Adapter serves every lookup straight from the repositories. Repository
// errors come back classified as faults.
type Adapter struct {
	repos Repos
}

var (
	_ cartvalidation.StoreLookup     = (*Adapter)(nil)
	_ cartvalidation.ShopperLookup   = (*Adapter)(nil)
	_ cartvalidation.SkuLookup       = (*Adapter)(nil)
	_ cartvalidation.PriceLookup     = (*Adapter)(nil)
	_ cartvalidation.CatalogLookup   = (*Adapter)(nil)
	_ cartvalidation.InventoryLookup = (*Adapter)(nil)
)

func NewAdapter(r Repos) *Adapter {
	return &Adapter{repos: r}
}

func (a *Adapter) StoreByCode(ctx context.Context, code string) (*commerce.Store, error) {
	s, err := a.repos.Stores.GetByCode(dbctx.From(ctx), code)
	return s, faults.MapError("store lookup", err)
}

func (a *Adapter) ShopperByGUID(ctx context.Context, guid string) (*commerce.Shopper, error) {
	s, err := a.repos.Shoppers.GetByGUID(dbctx.From(ctx), guid)
	return s, faults.MapError("shopper lookup", err)
}

func (a *Adapter) SkuByCode(ctx context.Context, code string) (*commerce.ProductSku, error) {
	s, err := a.repos.Products.GetSkuByCode(dbctx.From(ctx), code)
	return s, faults.MapError("sku lookup", err)
}

// PromotedPrice returns the store price for sku. Shopper specific promotions
// are not modelled, so the shopper does not change the result.
func (a *Adapter) PromotedPrice(ctx context.Context, store *commerce.Store, _ *commerce.Shopper, sku *commerce.ProductSku) (*commerce.Price, error) {
	p, err := a.repos.Prices.Get(dbctx.From(ctx), store.Code, sku.Code)
	return p, faults.MapError("price lookup", err)
}

func (a *Adapter) InCatalog(ctx context.Context, catalogCode, productCode string) (bool, error) {
	ok, err := a.repos.Catalog.Contains(dbctx.From(ctx), catalogCode, productCode)
	return ok, faults.MapError("catalog lookup", err)
}

func (a *Adapter) Inventory(ctx context.Context, warehouseCode, skuCode string) (*commerce.InventoryRecord, error) {
	rec, err := a.repos.Inventory.Get(dbctx.From(ctx), warehouseCode, skuCode)
	return rec, faults.MapError("inventory lookup", err)
}
