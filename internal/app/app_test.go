package app

import (
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/cartvalidation/cvtest"
	"github.com/yungbote/cartcheck/internal/cartvalidation/rules"
	"github.com/yungbote/cartcheck/internal/data/db"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/faults"
	"github.com/yungbote/cartcheck/internal/platform/logger"
	"github.com/yungbote/cartcheck/internal/validation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger.New: %v", err)
	}
	return log
}

func TestParseRuleProfileRejectsUnknownKeys(t *testing.T) {
	_, err := ParseRuleProfile([]byte("default:\n  cart.checkout: [need.email]\n"))
	if err == nil {
		t.Fatalf("ParseRuleProfile: want error for misspelled key")
	}
}

func TestDefaultProfileResolves(t *testing.T) {
	p, err := LoadRuleProfile("")
	if err != nil {
		t.Fatalf("LoadRuleProfile: %v", err)
	}
	reg := validation.NewRegistry()
	cat := rules.NewCatalog(reg, cvtest.NewMemory().Builders(time.Now()))
	if err := p.Apply(reg, cat, []string{"S1"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if got := len(validation.Lookup(reg, cartvalidation.SkuAtCheckout, validation.ByStoreCode("S1"))); got != 4 {
		t.Fatalf("sku.checkout rules for S1: want=4 got=%d", got)
	}
}

func TestRuleProfileStoreBlockOverridesDefaults(t *testing.T) {
	p, err := ParseRuleProfile([]byte(`
defaults:
  cart.checkout: [need.billing.address, need.email]
  cart.contents: [cart.empty]
stores:
  S2:
    cart.checkout: [need.email]
any:
  system.information: [system.store.no.warehouse]
`))
	if err != nil {
		t.Fatalf("ParseRuleProfile: %v", err)
	}
	reg := validation.NewRegistry()
	cat := rules.NewCatalog(reg, cvtest.NewMemory().Builders(time.Now()))
	if err := p.Apply(reg, cat, []string{"S1"}); err != nil {
		t.Fatalf("Apply: %v", err)
	}

	type row struct {
		Point, Selector string
		Rules           []string
	}
	var got []row
	for _, e := range reg.Entries() {
		got = append(got, row{e.Point, e.Selector.String(), e.Rules})
	}
	want := []row{
		{"cart.checkout", "store:S1", []string{"need.billing.address", "need.email"}},
		{"cart.checkout", "store:S2", []string{"need.email"}},
		{"cart.contents", "store:S1", []string{"cart.empty"}},
		{"cart.contents", "store:S2", []string{"cart.empty"}},
		{"system.information", "any", []string{"system.store.no.warehouse"}},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("registry entries mismatch (-want +got):\n%s", diff)
	}
}

func TestRuleProfileRejectsWrongLevel(t *testing.T) {
	p, err := ParseRuleProfile([]byte("defaults:\n  cart.checkout: [item.missing.price]\n"))
	if err != nil {
		t.Fatalf("ParseRuleProfile: %v", err)
	}
	reg := validation.NewRegistry()
	cat := rules.NewCatalog(reg, cvtest.NewMemory().Builders(time.Now()))
	if err := p.Apply(reg, cat, []string{"S1"}); err == nil || !strings.Contains(err.Error(), "item.missing.price") {
		t.Fatalf("Apply: want error naming the rule got %v", err)
	}
}

func sqliteConfig(t *testing.T) Config {
	t.Setenv("LOG_MODE", "test")
	cfg := LoadConfig(nil)
	cfg.DB = db.Config{Driver: "sqlite", SQLitePath: "file:" + strings.ReplaceAll(t.Name(), "/", "_") + "?mode=memory&cache=shared"}
	cfg.Redis.Addr = ""
	cfg.MetricsEnabled = false
	cfg.Otel.Enabled = false
	return cfg
}

func TestAppValidatesStoredCart(t *testing.T) {
	ctx := t.Context()
	log := testLogger(t)
	cfg := sqliteConfig(t)

	// The first app migrates the schema and holds the shared in-memory
	// database open while seeding.
	seeder, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer seeder.Close()

	dbc := dbctx.From(ctx)
	r := seeder.Repos
	if _, err := r.Store.Create(dbc, []*commerce.Store{{Code: "S1", CatalogCode: "CAT", Enabled: true, WarehouseCodes: []string{"WH1"}}}); err != nil {
		t.Fatalf("seed store: %v", err)
	}
	if err := r.Product.CreateProducts(dbc, []*commerce.Product{{Code: "P1"}}); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	if err := r.Product.CreateSkus(dbc, []*commerce.ProductSku{{Code: "K1", ProductCode: "P1"}}); err != nil {
		t.Fatalf("seed sku: %v", err)
	}
	if err := r.Catalog.Add(dbc, "CAT", "P1"); err != nil {
		t.Fatalf("seed catalog: %v", err)
	}
	if err := seeder.SetPrice(ctx, &commerce.Price{StoreCode: "S1", SkuCode: "K1", Currency: "USD", ListAmount: 900}); err != nil {
		t.Fatalf("SetPrice: %v", err)
	}
	if err := r.Inventory.Upsert(dbc, []*commerce.InventoryRecord{{WarehouseCode: "WH1", SkuCode: "K1", OnHand: 5}}); err != nil {
		t.Fatalf("seed inventory: %v", err)
	}
	cart := &commerce.Cart{StoreCode: "S1", Items: []*commerce.CartItem{{SkuCode: "K1", Quantity: 2}}}
	if err := r.Cart.Create(dbc, cart); err != nil {
		t.Fatalf("seed cart: %v", err)
	}

	// Rules are bound to the stores present at startup.
	a, err := NewWithConfig(ctx, log, cfg)
	if err != nil {
		t.Fatalf("NewWithConfig: %v", err)
	}
	defer a.Close()
	if !a.Registry.Sealed() {
		t.Fatalf("registry should be sealed after startup")
	}

	loaded, err := a.LoadCart(ctx, cart.GUID)
	if err != nil {
		t.Fatalf("LoadCart: %v", err)
	}
	ds, err := a.Validation.ValidateCheckout(ctx, loaded)
	if err != nil {
		t.Fatalf("ValidateCheckout: %v", err)
	}
	want := []string{"need.billing.address", "need.shipping.address", "need.email"}
	if diff := cmp.Diff(want, diag.IDs(ds)); diff != "" {
		t.Fatalf("diagnostic ids mismatch (-want +got):\n%s", diff)
	}

	if _, err := a.LoadCart(ctx, "missing"); !faults.IsCode(err, faults.CodeNotFound) {
		t.Fatalf("LoadCart(missing): want not_found got %v", err)
	}

	sys := a.SystemContext(ctx)
	if sys.DatabaseErr != nil || len(sys.Stores) != 1 || sys.CacheConfigured {
		t.Fatalf("SystemContext: unexpected %+v", sys)
	}
	sysDiags, err := a.Validation.SystemInformation(ctx, sys)
	if err != nil || len(sysDiags) != 0 {
		t.Fatalf("SystemInformation: want none got %v err=%v", sysDiags, err)
	}
}

func TestNewWithConfigRejectsUnknownChildOrder(t *testing.T) {
	cfg := sqliteConfig(t)
	cfg.ChildOrder = "random"
	if _, err := NewWithConfig(t.Context(), testLogger(t), cfg); err == nil {
		t.Fatalf("NewWithConfig: want error for unknown child order")
	}
}
