package commerce

import (
	"testing"

	"github.com/yungbote/cartcheck/internal/data/repos/testutil"
	types "github.com/yungbote/cartcheck/internal/domain/commerce"
)

func TestStoreAndShopperRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(t, tx)
	log := testutil.Logger(t)

	stores := NewStoreRepo(db, log)
	if _, err := stores.Create(dbc, []*types.Store{
		{Code: "S2", CatalogCode: "CAT", Enabled: true},
		{Code: "S1", CatalogCode: "CAT", Enabled: true, WarehouseCodes: []string{"WH1", "WH2"}},
	}); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := stores.GetByCode(dbc, "S1")
	if err != nil {
		t.Fatalf("GetByCode: %v", err)
	}
	if got == nil || got.DefaultWarehouse() != "WH1" || len(got.WarehouseCodes) != 2 {
		t.Fatalf("GetByCode: unexpected store %+v", got)
	}
	missing, err := stores.GetByCode(dbc, "nope")
	if err != nil || missing != nil {
		t.Fatalf("GetByCode(nope): want nil,nil got %+v,%v", missing, err)
	}
	all, err := stores.List(dbc)
	if err != nil || len(all) != 2 || all[0].Code != "S1" {
		t.Fatalf("List: unexpected %+v err=%v", all, err)
	}

	shoppers := NewShopperRepo(db, log)
	created, err := shoppers.Create(dbc, []*types.Shopper{{StoreCode: "S1", Email: "s@example.com"}})
	if err != nil {
		t.Fatalf("Create shopper: %v", err)
	}
	sh, err := shoppers.GetByGUID(dbc, created[0].GUID)
	if err != nil || sh == nil || sh.Email != "s@example.com" {
		t.Fatalf("GetByGUID: unexpected %+v err=%v", sh, err)
	}
}

func TestCatalogPriceInventoryRepos(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(t, tx)
	log := testutil.Logger(t)

	products := NewProductRepo(db, log)
	if err := products.CreateProducts(dbc, []*types.Product{{Code: "P1", BundleType: types.BundleCalculated, MinConstituentSelections: 2}}); err != nil {
		t.Fatalf("CreateProducts: %v", err)
	}
	if err := products.CreateSkus(dbc, []*types.ProductSku{{Code: "SKU1", ProductCode: "P1", Shippable: true}}); err != nil {
		t.Fatalf("CreateSkus: %v", err)
	}
	sku, err := products.GetSkuByCode(dbc, "SKU1")
	if err != nil {
		t.Fatalf("GetSkuByCode: %v", err)
	}
	if sku == nil || sku.Product == nil || sku.Product.MinConstituentSelections != 2 {
		t.Fatalf("GetSkuByCode: product not preloaded: %+v", sku)
	}

	catalog := NewCatalogRepo(db, log)
	if err := catalog.Add(dbc, "CAT", "P1"); err != nil {
		t.Fatalf("Add: %v", err)
	}
	if err := catalog.Add(dbc, "CAT", "P1"); err != nil {
		t.Fatalf("Add twice: %v", err)
	}
	if ok, err := catalog.Contains(dbc, "CAT", "P1"); err != nil || !ok {
		t.Fatalf("Contains: want true got %v err=%v", ok, err)
	}
	if ok, err := catalog.Contains(dbc, "OTHER", "P1"); err != nil || ok {
		t.Fatalf("Contains other catalog: want false got %v err=%v", ok, err)
	}

	prices := NewPriceRepo(db, log)
	if err := prices.Upsert(dbc, []*types.Price{{StoreCode: "S1", SkuCode: "SKU1", Currency: "USD", ListAmount: 1000}}); err != nil {
		t.Fatalf("Upsert price: %v", err)
	}
	sale := int64(800)
	if err := prices.Upsert(dbc, []*types.Price{{StoreCode: "S1", SkuCode: "SKU1", Currency: "USD", ListAmount: 1000, SaleAmount: &sale}}); err != nil {
		t.Fatalf("Upsert price again: %v", err)
	}
	p, err := prices.Get(dbc, "S1", "SKU1")
	if err != nil || p == nil || p.Lowest() != 800 {
		t.Fatalf("Get price: want lowest 800, got %+v err=%v", p, err)
	}

	inv := NewInventoryRepo(db, log)
	if err := inv.Upsert(dbc, []*types.InventoryRecord{{WarehouseCode: "WH1", SkuCode: "SKU1", OnHand: 10, Allocated: 3}}); err != nil {
		t.Fatalf("Upsert inventory: %v", err)
	}
	rec, err := inv.Get(dbc, "WH1", "SKU1")
	if err != nil || rec == nil || rec.Available() != 7 {
		t.Fatalf("Get inventory: want 7 available, got %+v err=%v", rec, err)
	}
}

func TestCartRepoRoundTripsItemTree(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)
	dbc := testutil.DBC(t, tx)
	repo := NewCartRepo(db, testutil.Logger(t))

	c1 := &types.CartItem{SkuCode: "C1", Quantity: 1, Ordering: 0, BundleConstituent: true}
	c2 := &types.CartItem{SkuCode: "C2", Quantity: 0, Ordering: 1, BundleConstituent: true}
	bundle := &types.CartItem{GUID: "bundle-guid", SkuCode: "B", Quantity: 1, Ordering: 0, Children: []*types.CartItem{c1, c2}}
	other := &types.CartItem{SkuCode: "D", Quantity: 2, Ordering: 1, Fields: map[string]any{"engraving": "hi"}}
	cart := &types.Cart{StoreCode: "S1", ShopperGUID: "shopper-1", Items: []*types.CartItem{bundle, other}}

	if err := repo.Create(dbc, cart); err != nil {
		t.Fatalf("Create: %v", err)
	}
	got, err := repo.GetByGUID(dbc, cart.GUID)
	if err != nil {
		t.Fatalf("GetByGUID: %v", err)
	}
	if got == nil || len(got.Items) != 4 {
		t.Fatalf("GetByGUID: want 4 items, got %+v", got)
	}
	roots := got.RootItems()
	if len(roots) != 2 || roots[0].GUID != "bundle-guid" {
		t.Fatalf("RootItems: unexpected %+v", roots)
	}
	if len(roots[0].Children) != 2 || roots[0].Children[0].SkuCode != "C1" {
		t.Fatalf("bundle children not linked: %+v", roots[0].Children)
	}
	if roots[1].Fields["engraving"] != "hi" {
		t.Fatalf("fields not stored: %+v", roots[1].Fields)
	}

	guids, err := repo.ListGUIDs(dbc, "S1", 10, 0)
	if err != nil || len(guids) != 1 || guids[0] != cart.GUID {
		t.Fatalf("ListGUIDs: unexpected %v err=%v", guids, err)
	}
	none, err := repo.ListGUIDs(dbc, "S9", 10, 0)
	if err != nil || len(none) != 0 {
		t.Fatalf("ListGUIDs other store: unexpected %v err=%v", none, err)
	}
}
