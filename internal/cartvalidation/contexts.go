// Package cartvalidation bridges live cart objects into validation contexts
// at three levels (cart, item, SKU) and wires delegating rules between them.
package cartvalidation

import (
	"time"

	"github.com/yungbote/cartcheck/internal/domain/commerce"
)

// Operation is the cart mutation a pass validates.
type Operation string

const (
	OperationAdd    Operation = "ADD"
	OperationUpdate Operation = "UPDATE"
	OperationNoop   Operation = "NOOP"
)

// CartContext is the cart-level view. Rules must treat it as read-only.
type CartContext struct {
	Cart    *commerce.Cart
	Store   *commerce.Store
	Shopper *commerce.Shopper
	// Items is the snapshot of root items taken when the context was built.
	Items []*commerce.CartItem
}

func (c *CartContext) StoreCode() string {
	if c == nil || c.Store == nil {
		return ""
	}
	return c.Store.Code
}

// ItemContext is the line-item view of one node of the item tree.
type ItemContext struct {
	Cart       *commerce.Cart
	Item       *commerce.CartItem
	ParentItem *commerce.CartItem
	// Sku is nil when the item references an unknown SKU code.
	Sku       *commerce.ProductSku
	ParentSku *commerce.ProductSku
	Selected  bool
	Quantity  int
	Operation Operation
	Shopper   *commerce.Shopper
	Store     *commerce.Store
	Now       time.Time

	parent *ItemContext
}

func (c *ItemContext) Product() *commerce.Product {
	if c == nil || c.Sku == nil {
		return nil
	}
	return c.Sku.Product
}

// SkuCode is the resolved SKU code, falling back to the code the item asked for.
func (c *ItemContext) SkuCode() string {
	switch {
	case c == nil:
		return ""
	case c.Sku != nil:
		return c.Sku.Code
	case c.Item != nil:
		return c.Item.SkuCode
	default:
		return ""
	}
}

func (c *ItemContext) StoreCode() string {
	if c == nil || c.Store == nil {
		return ""
	}
	return c.Store.Code
}

// Parent is the context of the enclosing item when this one was reached
// through a tree traversal.
func (c *ItemContext) Parent() *ItemContext {
	if c == nil {
		return nil
	}
	return c.parent
}

// SkuContext is the product-SKU view with pricing, catalog and inventory resolved.
type SkuContext struct {
	Item      *ItemContext
	Sku       *commerce.ProductSku
	ParentSku *commerce.ProductSku
	Quantity  int
	Selected  bool
	Operation Operation
	Store     *commerce.Store
	Shopper   *commerce.Shopper
	Now       time.Time

	// Price is nil when the store has no price for the SKU.
	Price     *commerce.Price
	InCatalog bool
	Warehouse string
	// Inventory is nil when the SKU is not tracked or has no record in Warehouse.
	Inventory *commerce.InventoryRecord

	ParentIsCalculatedBundle bool
	ParentIsAssignedBundle   bool
}

func (c *SkuContext) Product() *commerce.Product {
	if c == nil || c.Sku == nil {
		return nil
	}
	return c.Sku.Product
}

func (c *SkuContext) StoreCode() string {
	if c == nil || c.Store == nil {
		return ""
	}
	return c.Store.Code
}

// SystemContext carries deployment health for store independent checks.
type SystemContext struct {
	Stores          []*commerce.Store
	DatabaseErr     error
	CacheConfigured bool
	CacheErr        error
}
