package cartvalidation_test

import (
	"context"
	"testing"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/cartvalidation/cvtest"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/faults"
)

func TestCartContextBuild(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	shopper := &commerce.Shopper{GUID: "shopper-1", StoreCode: "S1", Email: "a@b.c"}
	mem.Shoppers[shopper.GUID] = shopper
	mem.AddSku(store, "A", 1)
	b := mem.Builders(testNow)

	first := cvtest.Item(nil, "A", 1)
	first.Ordering = 2
	second := cvtest.Item(nil, "A", 1)
	second.Ordering = 1
	cart := cvtest.Cart(store, shopper, first, second)

	cc, err := b.Cart.Build(context.Background(), cart)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if cc.Store != store || cc.Shopper != shopper {
		t.Fatalf("store/shopper not resolved: %+v", cc)
	}
	if len(cc.Items) != 2 || cc.Items[0] != second {
		t.Fatalf("root items should follow Ordering")
	}
	if cc.StoreCode() != "S1" {
		t.Fatalf("StoreCode: got %q", cc.StoreCode())
	}
}

func TestCartContextBuildUnknownStore(t *testing.T) {
	mem := cvtest.NewMemory()
	b := mem.Builders(testNow)
	_, err := b.Cart.Build(context.Background(), &commerce.Cart{GUID: "c", StoreCode: "nope"})
	if !faults.IsCode(err, faults.CodeNotFound) {
		t.Fatalf("want not_found fault, got %v", err)
	}
}

func TestItemContextBuild(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	mem.AddSku(store, "A", 1)
	b := mem.Builders(testNow)

	tests := []struct {
		name         string
		item         *commerce.CartItem
		op           cartvalidation.Operation
		wantSku      bool
		wantSelected bool
		wantOp       cartvalidation.Operation
	}{
		{"known sku", &commerce.CartItem{GUID: "1", SkuCode: "A", Quantity: 2}, cartvalidation.OperationAdd, true, true, cartvalidation.OperationAdd},
		{"unknown sku", &commerce.CartItem{GUID: "2", SkuCode: "X", Quantity: 1}, cartvalidation.OperationUpdate, false, true, cartvalidation.OperationUpdate},
		{"unselected defaults to noop", &commerce.CartItem{GUID: "3", SkuCode: "A"}, "", true, false, cartvalidation.OperationNoop},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ic, err := b.Item.Build(context.Background(), cartvalidation.ItemInput{Item: tt.item, Store: store, Operation: tt.op})
			if err != nil {
				t.Fatalf("Build: %v", err)
			}
			if (ic.Sku != nil) != tt.wantSku {
				t.Fatalf("sku resolved=%v want %v", ic.Sku != nil, tt.wantSku)
			}
			if ic.Selected != tt.wantSelected || ic.Operation != tt.wantOp {
				t.Fatalf("selected=%v op=%s, want %v %s", ic.Selected, ic.Operation, tt.wantSelected, tt.wantOp)
			}
			if ic.SkuCode() != tt.item.SkuCode {
				t.Fatalf("SkuCode: got %q", ic.SkuCode())
			}
			if !ic.Now.Equal(testNow) {
				t.Fatalf("clock not used: %v", ic.Now)
			}
		})
	}
}

func TestSkuContextBuild(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	bundle := mem.AddSku(store, "B", 0)
	bundle.Product.BundleType = commerce.BundleCalculated
	mem.AddSku(store, "C", 7)
	always := mem.AddSku(store, "D", 0)
	always.Product.InventoryPolicy = commerce.InventoryAlwaysInStock
	b := mem.Builders(testNow)

	parent := &commerce.CartItem{GUID: "p", SkuCode: "B", Quantity: 1}
	ic, err := b.Item.Build(context.Background(), cartvalidation.ItemInput{
		Item:   &commerce.CartItem{GUID: "c", SkuCode: "C", Quantity: 3, ParentGUID: "p"},
		Parent: parent,
		Store:  store,
	})
	if err != nil {
		t.Fatalf("Item.Build: %v", err)
	}
	sc, err := b.Sku.Build(context.Background(), ic)
	if err != nil {
		t.Fatalf("Sku.Build: %v", err)
	}
	if sc.Price == nil || !sc.InCatalog || sc.Warehouse != "WH1" {
		t.Fatalf("unexpected sku context: %+v", sc)
	}
	if sc.Inventory == nil || sc.Inventory.Available() != 7 {
		t.Fatalf("inventory not resolved: %+v", sc.Inventory)
	}
	if !sc.ParentIsCalculatedBundle || sc.ParentIsAssignedBundle {
		t.Fatalf("bundle flags: calculated=%v assigned=%v", sc.ParentIsCalculatedBundle, sc.ParentIsAssignedBundle)
	}
	if sc.Quantity != 3 {
		t.Fatalf("quantity: got %d", sc.Quantity)
	}

	before := mem.Calls["inventory"]
	ic, err = b.Item.Build(context.Background(), cartvalidation.ItemInput{Item: &commerce.CartItem{GUID: "d", SkuCode: "D", Quantity: 1}, Store: store})
	if err != nil {
		t.Fatalf("Item.Build: %v", err)
	}
	sc, err = b.Sku.Build(context.Background(), ic)
	if err != nil {
		t.Fatalf("Sku.Build: %v", err)
	}
	if sc.Inventory != nil || mem.Calls["inventory"] != before {
		t.Fatalf("always-in-stock sku should skip the inventory lookup")
	}
}

func TestSkuContextBuildWithoutSku(t *testing.T) {
	mem := cvtest.NewMemory()
	b := mem.Builders(testNow)
	_, err := b.Sku.Build(context.Background(), &cartvalidation.ItemContext{})
	if !faults.IsCode(err, faults.CodeInvalidState) {
		t.Fatalf("want invalid_state, got %v", err)
	}
}
