// Package cvtest provides in-memory collaborators for validation tests.
package cvtest

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
)

// Memory implements every cartvalidation lookup over maps. Setting Err makes
// every lookup fail with it.
type Memory struct {
	mu        sync.Mutex
	Stores    map[string]*commerce.Store
	Shoppers  map[string]*commerce.Shopper
	Skus      map[string]*commerce.ProductSku
	Prices    map[string]*commerce.Price
	Catalog   map[string]bool
	Stock     map[string]*commerce.InventoryRecord
	Err       error
	Calls     map[string]int
}

func NewMemory() *Memory {
	return &Memory{
		Stores:    map[string]*commerce.Store{},
		Shoppers:  map[string]*commerce.Shopper{},
		Skus:      map[string]*commerce.ProductSku{},
		Prices:    map[string]*commerce.Price{},
		Catalog:   map[string]bool{},
		Stock:     map[string]*commerce.InventoryRecord{},
		Calls:     map[string]int{},
	}
}

func (m *Memory) hit(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Calls[name]++
	return m.Err
}

func (m *Memory) StoreByCode(_ context.Context, code string) (*commerce.Store, error) {
	if err := m.hit("store"); err != nil {
		return nil, err
	}
	return m.Stores[code], nil
}

func (m *Memory) ShopperByGUID(_ context.Context, guid string) (*commerce.Shopper, error) {
	if err := m.hit("shopper"); err != nil {
		return nil, err
	}
	return m.Shoppers[guid], nil
}

func (m *Memory) SkuByCode(_ context.Context, code string) (*commerce.ProductSku, error) {
	if err := m.hit("sku"); err != nil {
		return nil, err
	}
	return m.Skus[code], nil
}

func (m *Memory) PromotedPrice(_ context.Context, store *commerce.Store, _ *commerce.Shopper, sku *commerce.ProductSku) (*commerce.Price, error) {
	if err := m.hit("price"); err != nil {
		return nil, err
	}
	return m.Prices[store.Code+"/"+sku.Code], nil
}

func (m *Memory) InCatalog(_ context.Context, catalogCode, productCode string) (bool, error) {
	if err := m.hit("catalog"); err != nil {
		return false, err
	}
	return m.Catalog[catalogCode+"/"+productCode], nil
}

func (m *Memory) Inventory(_ context.Context, warehouseCode, skuCode string) (*commerce.InventoryRecord, error) {
	if err := m.hit("inventory"); err != nil {
		return nil, err
	}
	return m.Stock[warehouseCode+"/"+skuCode], nil
}

// AddStore registers a store with one warehouse and catalog "<code>-catalog".
func (m *Memory) AddStore(code, warehouse string) *commerce.Store {
	s := &commerce.Store{ID: uuid.New(), Code: code, Name: code, CatalogCode: code + "-catalog", Currency: "USD", Enabled: true}
	if warehouse != "" {
		s.WarehouseCodes = []string{warehouse}
	}
	m.Stores[code] = s
	return s
}

// AddSku registers a SKU with its own product, listed in the store catalog
// with a price and stock of onHand.
func (m *Memory) AddSku(store *commerce.Store, code string, onHand int) *commerce.ProductSku {
	p := &commerce.Product{ID: uuid.New(), Code: "P-" + code, Name: code, InventoryPolicy: commerce.InventoryTracked}
	sku := &commerce.ProductSku{ID: uuid.New(), Code: code, GUID: uuid.NewString(), ProductCode: p.Code, Product: p, Shippable: true}
	m.Skus[code] = sku
	if store == nil {
		return sku
	}
	m.Catalog[store.CatalogCode+"/"+p.Code] = true
	m.Prices[store.Code+"/"+code] = &commerce.Price{ID: uuid.New(), StoreCode: store.Code, SkuCode: code, Currency: store.Currency, ListAmount: 1000}
	if wh := store.DefaultWarehouse(); wh != "" {
		m.Stock[wh+"/"+code] = &commerce.InventoryRecord{ID: uuid.New(), WarehouseCode: wh, SkuCode: code, OnHand: onHand}
	}
	return sku
}

// Builders wires m into every builder with a fixed clock.
func (m *Memory) Builders(now time.Time) *cartvalidation.Builders {
	return cartvalidation.NewBuilders(cartvalidation.Deps{
		Stores:    m,
		Shoppers:  m,
		Skus:      m,
		Prices:    m,
		Catalog:   m,
		Inventory: m,
		Clock:     func() time.Time { return now },
	})
}

// Item builds a cart item with a fresh GUID.
func Item(cart *commerce.Cart, skuCode string, qty int, children ...*commerce.CartItem) *commerce.CartItem {
	it := &commerce.CartItem{ID: uuid.New(), GUID: uuid.NewString(), SkuCode: skuCode, Quantity: qty}
	if cart != nil {
		it.CartGUID = cart.GUID
	}
	for i, c := range children {
		c.ParentGUID = it.GUID
		c.Ordering = i
		it.Children = append(it.Children, c)
	}
	return it
}

// Cart builds a cart holding roots and all of their descendants.
func Cart(store *commerce.Store, shopper *commerce.Shopper, roots ...*commerce.CartItem) *commerce.Cart {
	c := &commerce.Cart{ID: uuid.New(), GUID: uuid.NewString(), StoreCode: store.Code}
	if shopper != nil {
		c.ShopperGUID = shopper.GUID
	}
	var add func(items []*commerce.CartItem)
	add = func(items []*commerce.CartItem) {
		for _, it := range items {
			it.CartGUID = c.GUID
			c.Items = append(c.Items, it)
			add(it.Children)
		}
	}
	add(roots)
	return c
}
