package cartvalidation

import (
	"context"
	"time"

	"github.com/yungbote/cartcheck/internal/domain/commerce"
)

// Lookups return (nil, nil) when the entity does not exist. Errors are
// infrastructure faults and abort the pass.

type StoreLookup interface {
	StoreByCode(ctx context.Context, code string) (*commerce.Store, error)
}

type ShopperLookup interface {
	ShopperByGUID(ctx context.Context, guid string) (*commerce.Shopper, error)
}

// SkuLookup returns the SKU with its Product loaded.
type SkuLookup interface {
	SkuByCode(ctx context.Context, code string) (*commerce.ProductSku, error)
}

type PriceLookup interface {
	PromotedPrice(ctx context.Context, store *commerce.Store, shopper *commerce.Shopper, sku *commerce.ProductSku) (*commerce.Price, error)
}

type CatalogLookup interface {
	InCatalog(ctx context.Context, catalogCode, productCode string) (bool, error)
}

type InventoryLookup interface {
	Inventory(ctx context.Context, warehouseCode, skuCode string) (*commerce.InventoryRecord, error)
}

// ParentResolver finds the parent of a cart item.
type ParentResolver interface {
	ParentOf(cart *commerce.Cart, item *commerce.CartItem) *commerce.CartItem
}

type ParentResolverFunc func(cart *commerce.Cart, item *commerce.CartItem) *commerce.CartItem

func (f ParentResolverFunc) ParentOf(cart *commerce.Cart, item *commerce.CartItem) *commerce.CartItem {
	return f(cart, item)
}

// CartParents resolves parents through the cart's own item tree.
var CartParents ParentResolver = ParentResolverFunc(func(cart *commerce.Cart, item *commerce.CartItem) *commerce.CartItem {
	return cart.ParentOf(item)
})

type Clock func() time.Time
