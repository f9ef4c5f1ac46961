package cvtest

import (
	"context"
	"testing"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
)

var _ cartvalidation.InventoryLookup = (*Memory)(nil)

func TestMemoryInventoryReadsStock(t *testing.T) {
	m := NewMemory()
	store := m.AddStore("S1", "WH1")
	m.AddSku(store, "K1", 4)

	rec, err := m.Inventory(context.Background(), "WH1", "K1")
	if err != nil {
		t.Fatalf("Inventory: %v", err)
	}
	if rec == nil || rec.OnHand != 4 {
		t.Fatalf("Inventory: want on-hand=4 got=%+v", rec)
	}
	m.Stock["WH1/K1"].OnHand = 1
	if rec, _ := m.Inventory(context.Background(), "WH1", "K1"); rec.OnHand != 1 {
		t.Fatalf("Inventory after stock change: want=1 got=%d", rec.OnHand)
	}
	if got := m.Calls["inventory"]; got != 2 {
		t.Fatalf("inventory calls: want=2 got=%d", got)
	}
}
