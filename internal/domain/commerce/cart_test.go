package commerce

import (
	"testing"
	"time"
)

func linkedCart() *Cart {
	c := &Cart{GUID: "cart-1", Items: []*CartItem{
		{GUID: "b", SkuCode: "SKU-B", Quantity: 1, Ordering: 2},
		{GUID: "a", SkuCode: "SKU-A", Quantity: 1, Ordering: 1},
		{GUID: "a.1", ParentGUID: "a", SkuCode: "SKU-A1", Quantity: 1, BundleConstituent: true},
		{GUID: "a.1.1", ParentGUID: "a.1", SkuCode: "SKU-A11", Quantity: 0, BundleConstituent: true},
	}}
	c.Link()
	return c
}

func TestCartTree(t *testing.T) {
	c := linkedCart()
	roots := c.RootItems()
	if len(roots) != 2 || roots[0].GUID != "a" || roots[1].GUID != "b" {
		t.Fatalf("RootItems: want [a b] got %v", guids(roots))
	}
	all := guids(c.AllItems())
	want := []string{"a", "a.1", "a.1.1", "b"}
	if len(all) != len(want) {
		t.Fatalf("AllItems: want %v got %v", want, all)
	}
	for i := range want {
		if all[i] != want[i] {
			t.Fatalf("AllItems: want %v got %v", want, all)
		}
	}
	child := c.ItemByGUID("a.1.1")
	if child == nil {
		t.Fatalf("ItemByGUID: not found")
	}
	if p := c.ParentOf(child); p == nil || p.GUID != "a.1" {
		t.Fatalf("ParentOf: want a.1 got %v", p)
	}
	if p := c.ParentOf(roots[0]); p != nil {
		t.Fatalf("root should have no parent, got %s", p.GUID)
	}
	if child.Selected() {
		t.Fatalf("zero quantity constituent should not be selected")
	}
}

func TestProductAvailability(t *testing.T) {
	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	start := now.Add(-time.Hour)
	end := now
	p := &Product{StartDate: &start, EndDate: &end}
	if p.AvailableAt(now) {
		t.Fatalf("end date is exclusive")
	}
	if !p.AvailableAt(now.Add(-time.Minute)) {
		t.Fatalf("should be available inside the window")
	}
}

func TestPriceAndInventory(t *testing.T) {
	sale := int64(800)
	if got := (&Price{ListAmount: 1000, SaleAmount: &sale}).Lowest(); got != 800 {
		t.Fatalf("Lowest: want=800 got=%d", got)
	}
	if got := (&InventoryRecord{OnHand: 5, Allocated: 4, Reserved: 3}).Available(); got != 0 {
		t.Fatalf("Available should clamp at zero, got %d", got)
	}
	s := &Store{WarehouseCodes: []string{"WH1", "WH2"}}
	if s.DefaultWarehouse() != "WH1" {
		t.Fatalf("DefaultWarehouse: got %q", s.DefaultWarehouse())
	}
	if !s.SupportsCartType("default") {
		t.Fatalf("no configured cart types means any type is supported")
	}
}

func guids(items []*CartItem) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.GUID)
	}
	return out
}
