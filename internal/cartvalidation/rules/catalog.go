package rules

import (
	"fmt"
	"sort"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/validation"
)

const (
	DelegateSkuCheckout  = "delegate.sku.checkout"
	DelegateSkuAddToCart = "delegate.sku.add-to-cart"
	DelegateItemContents = "delegate.items.contents"
)

// Catalog maps rule names to rule instances, one table per context level.
type Catalog struct {
	cart   map[string]validation.Rule[*cartvalidation.CartContext]
	item   map[string]validation.Rule[*cartvalidation.ItemContext]
	sku    map[string]validation.Rule[*cartvalidation.SkuContext]
	system map[string]validation.Rule[*cartvalidation.SystemContext]
}

func named[C any](m map[string]validation.Rule[C], name string, r validation.Rule[C]) {
	m[name] = validation.WithName(name, r)
}

// NewCatalog builds the built-in rules. Delegates resolve their inner rules
// from reg when they run.
func NewCatalog(reg *validation.Registry, b *cartvalidation.Builders) *Catalog {
	c := &Catalog{
		cart:   map[string]validation.Rule[*cartvalidation.CartContext]{},
		item:   map[string]validation.Rule[*cartvalidation.ItemContext]{},
		sku:    map[string]validation.Rule[*cartvalidation.SkuContext]{},
		system: map[string]validation.Rule[*cartvalidation.SystemContext]{},
	}

	named(c.cart, IDNeedBillingAddress, validation.CheckFunc[*cartvalidation.CartContext](NeedBillingAddress))
	named(c.cart, IDNeedShippingAddress, validation.CheckFunc[*cartvalidation.CartContext](NeedShippingAddress))
	named(c.cart, IDNeedEmail, validation.CheckFunc[*cartvalidation.CartContext](NeedEmail))
	named(c.cart, IDCartEmpty, validation.CheckFunc[*cartvalidation.CartContext](CartEmpty))
	named(c.cart, IDCartTypeUnsupported, validation.CheckFunc[*cartvalidation.CartContext](CartTypeNotSupported))
	named(c.cart, DelegateItemContents, cartvalidation.ItemTreeDelegate(reg, b, cartvalidation.ItemContents, cartvalidation.OperationNoop))

	named(c.item, IDItemNotFound, validation.CheckFunc[*cartvalidation.ItemContext](ItemNotFound))
	named(c.item, IDNotSoldSeparately, validation.CheckFunc[*cartvalidation.ItemContext](NotSoldSeparately))
	named(c.item, IDBundleMinConstituents, validation.CheckFunc[*cartvalidation.ItemContext](BundleMinConstituents))
	named(c.item, IDBundleMaxConstituents, validation.CheckFunc[*cartvalidation.ItemContext](BundleMaxConstituents))
	named(c.item, IDFieldInvalidMinimum, validation.CheckFunc[*cartvalidation.ItemContext](QuantityMinimum))
	named(c.item, IDCartItemNotRemovable, validation.CheckFunc[*cartvalidation.ItemContext](NotRemovable))
	named(c.item, DelegateSkuCheckout, cartvalidation.SkuDelegate(reg, b, cartvalidation.SkuAtCheckout))
	named(c.item, DelegateSkuAddToCart, cartvalidation.SkuDelegate(reg, b, cartvalidation.SkuAddToCart))

	named(c.sku, IDNotInStoreCatalog, validation.CheckFunc[*cartvalidation.SkuContext](NotInStoreCatalog))
	named(c.sku, IDNotAvailable, validation.CheckFunc[*cartvalidation.SkuContext](NotAvailable))
	named(c.sku, IDMissingPrice, validation.CheckFunc[*cartvalidation.SkuContext](MissingPrice))
	named(c.sku, IDInsufficientInventory, validation.CheckFunc[*cartvalidation.SkuContext](InsufficientInventory))

	named(c.system, IDDatabaseUnavailable, validation.CheckFunc[*cartvalidation.SystemContext](DatabaseUnavailable))
	named(c.system, IDCacheUnavailable, validation.CheckFunc[*cartvalidation.SystemContext](CacheUnavailable))
	named(c.system, IDStoreNoWarehouse, validation.CheckFunc[*cartvalidation.SystemContext](StoreNoWarehouse))
	return c
}

// Register resolves names against the level of point and registers them in order.
func (c *Catalog) Register(reg *validation.Registry, point string, sel validation.Selector, names []string) error {
	level, ok := cartvalidation.LevelOf(point)
	if !ok {
		return fmt.Errorf("unknown extension point %q", point)
	}
	switch level {
	case cartvalidation.LevelCart:
		return register(reg, cartvalidation.CartPoints[point], sel, c.cart, names)
	case cartvalidation.LevelItem:
		return register(reg, cartvalidation.ItemPoints[point], sel, c.item, names)
	case cartvalidation.LevelSku:
		return register(reg, cartvalidation.SkuPoints[point], sel, c.sku, names)
	default:
		return register(reg, cartvalidation.SystemPoints[point], sel, c.system, names)
	}
}

func register[C any](reg *validation.Registry, point validation.ExtensionPoint[C], sel validation.Selector, table map[string]validation.Rule[C], names []string) error {
	rules := make([]validation.Rule[C], 0, len(names))
	for _, name := range names {
		r, ok := table[name]
		if !ok {
			return fmt.Errorf("extension point %q: no rule named %q at this level", point.Name(), name)
		}
		rules = append(rules, r)
	}
	return validation.Register(reg, point, sel, rules...)
}

// Names lists the rule names available for point.
func (c *Catalog) Names(point string) []string {
	level, _ := cartvalidation.LevelOf(point)
	var out []string
	switch level {
	case cartvalidation.LevelCart:
		out = keys(c.cart)
	case cartvalidation.LevelItem:
		out = keys(c.item)
	case cartvalidation.LevelSku:
		out = keys(c.sku)
	case cartvalidation.LevelSystem:
		out = keys(c.system)
	}
	return out
}

func keys[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
