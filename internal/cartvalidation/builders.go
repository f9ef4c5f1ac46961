package cartvalidation

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/faults"
)

var (
	// ErrUnknownStore is returned when a cart references a store that does not exist.
	ErrUnknownStore = errors.New("unknown store")
	errNoSku        = errors.New("item context has no resolved sku")
)

// CartContextBuilder resolves the store and shopper of a cart.
type CartContextBuilder struct {
	Stores   StoreLookup
	Shoppers ShopperLookup
}

func (b *CartContextBuilder) Build(ctx context.Context, cart *commerce.Cart) (*CartContext, error) {
	if cart == nil {
		return nil, faults.New(faults.CodeInvalidState, "build cart context", "cart is nil", nil)
	}
	store, err := b.Stores.StoreByCode(ctx, cart.StoreCode)
	if err != nil {
		return nil, fmt.Errorf("build cart context %s: %w", cart.GUID, err)
	}
	if store == nil {
		return nil, faults.New(faults.CodeNotFound, "build cart context", "store "+cart.StoreCode, ErrUnknownStore)
	}
	var shopper *commerce.Shopper
	if cart.ShopperGUID != "" && b.Shoppers != nil {
		shopper, err = b.Shoppers.ShopperByGUID(ctx, cart.ShopperGUID)
		if err != nil {
			return nil, fmt.Errorf("build cart context %s: %w", cart.GUID, err)
		}
	}
	return b.BuildFor(cart, shopper, store), nil
}

// BuildFor assembles a cart context from already resolved parts.
func (b *CartContextBuilder) BuildFor(cart *commerce.Cart, shopper *commerce.Shopper, store *commerce.Store) *CartContext {
	return &CartContext{
		Cart:    cart,
		Store:   store,
		Shopper: shopper,
		Items:   cart.RootItems(),
	}
}

// ItemInput is what an item context is built from.
type ItemInput struct {
	Cart      *commerce.Cart
	Item      *commerce.CartItem
	Parent    *commerce.CartItem
	Shopper   *commerce.Shopper
	Store     *commerce.Store
	Operation Operation

	// ParentContext is set during traversal; its SKU is reused for ParentSku.
	ParentContext *ItemContext
}

// ItemContextBuilder resolves the SKU of an item and of its parent.
type ItemContextBuilder struct {
	Skus  SkuLookup
	Clock Clock
}

func (b *ItemContextBuilder) Build(ctx context.Context, in ItemInput) (*ItemContext, error) {
	if in.Item == nil {
		return nil, faults.New(faults.CodeInvalidState, "build item context", "item is nil", nil)
	}
	sku, err := b.Skus.SkuByCode(ctx, in.Item.SkuCode)
	if err != nil {
		return nil, fmt.Errorf("build item context %s: %w", in.Item.GUID, err)
	}
	var parentSku *commerce.ProductSku
	switch {
	case in.ParentContext != nil:
		parentSku = in.ParentContext.Sku
	case in.Parent != nil:
		parentSku, err = b.Skus.SkuByCode(ctx, in.Parent.SkuCode)
		if err != nil {
			return nil, fmt.Errorf("build item context %s: parent: %w", in.Item.GUID, err)
		}
	}
	op := in.Operation
	if op == "" {
		op = OperationNoop
	}
	return &ItemContext{
		Cart:       in.Cart,
		Item:       in.Item,
		ParentItem: in.Parent,
		Sku:        sku,
		ParentSku:  parentSku,
		Selected:   in.Item.Selected(),
		Quantity:   in.Item.Quantity,
		Operation:  op,
		Shopper:    in.Shopper,
		Store:      in.Store,
		Now:        b.now(),
		parent:     in.ParentContext,
	}, nil
}

func (b *ItemContextBuilder) now() time.Time {
	if b.Clock != nil {
		return b.Clock()
	}
	return time.Now()
}

// SkuContextBuilder resolves price, catalog membership and inventory for the
// SKU of an item context.
type SkuContextBuilder struct {
	Prices    PriceLookup
	Catalog   CatalogLookup
	Inventory InventoryLookup
}

func (b *SkuContextBuilder) Build(ctx context.Context, item *ItemContext) (*SkuContext, error) {
	if item == nil || item.Sku == nil {
		return nil, faults.New(faults.CodeInvalidState, "build sku context", "", errNoSku)
	}
	sku := item.Sku
	out := &SkuContext{
		Item:      item,
		Sku:       sku,
		ParentSku: item.ParentSku,
		Quantity:  item.Quantity,
		Selected:  item.Selected,
		Operation: item.Operation,
		Store:     item.Store,
		Shopper:   item.Shopper,
		Now:       item.Now,
	}
	if p := item.ParentSku; p != nil && p.Product != nil {
		out.ParentIsCalculatedBundle = p.Product.BundleType == commerce.BundleCalculated
		out.ParentIsAssignedBundle = p.Product.BundleType == commerce.BundleAssigned
	}
	if item.Store == nil {
		return out, nil
	}

	price, err := b.Prices.PromotedPrice(ctx, item.Store, item.Shopper, sku)
	if err != nil {
		return nil, fmt.Errorf("build sku context %s: price: %w", sku.Code, err)
	}
	out.Price = price

	out.InCatalog, err = b.Catalog.InCatalog(ctx, item.Store.CatalogCode, sku.ProductCode)
	if err != nil {
		return nil, fmt.Errorf("build sku context %s: catalog: %w", sku.Code, err)
	}

	out.Warehouse = item.Store.DefaultWarehouse()
	if out.Warehouse != "" && tracked(sku) {
		out.Inventory, err = b.Inventory.Inventory(ctx, out.Warehouse, sku.Code)
		if err != nil {
			return nil, fmt.Errorf("build sku context %s: inventory: %w", sku.Code, err)
		}
	}
	return out, nil
}

func tracked(sku *commerce.ProductSku) bool {
	return sku.Product == nil || sku.Product.InventoryPolicy != commerce.InventoryAlwaysInStock
}
