package cartvalidation_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/cartvalidation/cvtest"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/faults"
)

var testNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func rootContext(t *testing.T, b *cartvalidation.Builders, mem *cvtest.Memory, cart *commerce.Cart) *cartvalidation.ItemContext {
	t.Helper()
	cc, err := b.Cart.Build(context.Background(), cart)
	if err != nil {
		t.Fatalf("Cart.Build: %v", err)
	}
	if len(cc.Items) == 0 {
		t.Fatalf("cart has no root items")
	}
	ic, err := b.RootContext(context.Background(), cc, cc.Items[0], cartvalidation.OperationNoop)
	if err != nil {
		t.Fatalf("RootContext: %v", err)
	}
	return ic
}

func collect(t *testing.T, b *cartvalidation.Builders, root *cartvalidation.ItemContext) ([]*cartvalidation.ItemContext, error) {
	t.Helper()
	var out []*cartvalidation.ItemContext
	for ic, err := range b.AllContexts(context.Background(), root) {
		if err != nil {
			return out, err
		}
		out = append(out, ic)
	}
	return out, nil
}

func TestAllContextsCoversTreeWithParentReferences(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	for _, code := range []string{"B", "C1", "C2"} {
		mem.AddSku(store, code, 10)
	}
	b := mem.Builders(testNow)

	c1 := cvtest.Item(nil, "C1", 1)
	c2 := cvtest.Item(nil, "C2", 1)
	bundle := cvtest.Item(nil, "B", 1, c1, c2)
	cart := cvtest.Cart(store, nil, bundle)

	got, err := collect(t, b, rootContext(t, b, mem, cart))
	if err != nil {
		t.Fatalf("AllContexts: %v", err)
	}
	var codes []string
	for _, ic := range got {
		codes = append(codes, ic.SkuCode())
	}
	if diff := cmp.Diff([]string{"B", "C1", "C2"}, codes); diff != "" {
		t.Fatalf("traversal order (-want +got):\n%s", diff)
	}
	if got[0].ParentSku != nil || got[0].Parent() != nil {
		t.Fatalf("root should have no parent, got sku=%v", got[0].ParentSku)
	}
	for _, ic := range got[1:] {
		if ic.ParentSku == nil || ic.ParentSku.Code != "B" {
			t.Fatalf("child %s: want parent sku B, got %v", ic.SkuCode(), ic.ParentSku)
		}
		if ic.ParentItem != bundle {
			t.Fatalf("child %s: parent item mismatch", ic.SkuCode())
		}
		if ic.Parent() != got[0] {
			t.Fatalf("child %s: parent context mismatch", ic.SkuCode())
		}
	}
}

func TestAllContextsIsRestartableAndLazy(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	mem.AddSku(store, "B", 1)
	mem.AddSku(store, "C1", 1)
	b := mem.Builders(testNow)
	cart := cvtest.Cart(store, nil, cvtest.Item(nil, "B", 1, cvtest.Item(nil, "C1", 1)))
	root := rootContext(t, b, mem, cart)

	seq := b.AllContexts(context.Background(), root)
	before := mem.Calls["sku"]
	for range seq {
		break
	}
	if mem.Calls["sku"] != before {
		t.Fatalf("stopping at the root should not build children, sku lookups went %d -> %d", before, mem.Calls["sku"])
	}
	for i := 0; i < 2; i++ {
		n := 0
		for _, err := range seq {
			if err != nil {
				t.Fatalf("pass %d: %v", i, err)
			}
			n++
		}
		if n != 2 {
			t.Fatalf("pass %d: want 2 contexts, got %d", i, n)
		}
	}
}

func TestAllContextsReportsCycles(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	mem.AddSku(store, "A", 1)
	mem.AddSku(store, "B", 1)
	b := mem.Builders(testNow)

	child := cvtest.Item(nil, "B", 1)
	root := cvtest.Item(nil, "A", 1, child)
	cart := cvtest.Cart(store, nil, root)
	child.Children = []*commerce.CartItem{root}

	got, err := collect(t, b, rootContext(t, b, mem, cart))
	if !errors.Is(err, cartvalidation.ErrCyclicItemTree) {
		t.Fatalf("want ErrCyclicItemTree, got %v", err)
	}
	if !faults.IsCode(err, faults.CodeInvalidState) {
		t.Fatalf("want invalid_state fault, got %v", faults.CodeOf(err))
	}
	if len(got) != 2 {
		t.Fatalf("want 2 contexts before the cycle, got %d", len(got))
	}
}

func TestChildOrder(t *testing.T) {
	a := &commerce.CartItem{GUID: "a", Ordering: 2}
	b := &commerce.CartItem{GUID: "b", Ordering: 1}
	c := &commerce.CartItem{GUID: "c", Ordering: 1}
	in := []*commerce.CartItem{a, b, c}

	guids := func(items []*commerce.CartItem) []string {
		var out []string
		for _, it := range items {
			out = append(out, it.GUID)
		}
		return out
	}
	if diff := cmp.Diff([]string{"b", "c", "a"}, guids(cartvalidation.ByOrdering(in))); diff != "" {
		t.Fatalf("ByOrdering (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"a", "b", "c"}, guids(cartvalidation.AsStored(in))); diff != "" {
		t.Fatalf("AsStored (-want +got):\n%s", diff)
	}
	if in[0] != a {
		t.Fatalf("ordering must not mutate its input")
	}
	if _, ok := cartvalidation.ChildOrderByName("random"); ok {
		t.Fatalf("unknown order name accepted")
	}
}

func TestAllContextsStopsOnLookupFault(t *testing.T) {
	mem := cvtest.NewMemory()
	store := mem.AddStore("S1", "WH1")
	mem.AddSku(store, "B", 1)
	mem.AddSku(store, "C1", 1)
	b := mem.Builders(testNow)
	cart := cvtest.Cart(store, nil, cvtest.Item(nil, "B", 1, cvtest.Item(nil, "C1", 1)))
	root := rootContext(t, b, mem, cart)

	boom := errors.New("db down")
	mem.Err = boom
	got, err := collect(t, b, root)
	if !errors.Is(err, boom) {
		t.Fatalf("want lookup error, got %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("want only the root before the fault, got %d", len(got))
	}
}
