package diag

import (
	"encoding/json"
	"testing"
)

func TestParamsKeepInsertionOrder(t *testing.T) {
	p := Params{}.With("item-code", "SKU1").With("quantity-requested", "10").With("item-code", "SKU2")
	if len(p) != 2 {
		t.Fatalf("len: want=2 got=%d", len(p))
	}
	if p[0].Key != "item-code" || p[0].Value != "SKU2" {
		t.Fatalf("replacing a key should keep its position, got %v", p)
	}
	if v, ok := p.Get("quantity-requested"); !ok || v != "10" {
		t.Fatalf("Get: got %q %v", v, ok)
	}
	if _, ok := p.Get("missing"); ok {
		t.Fatalf("Get(missing) should report false")
	}
}

func TestParamsJSONOrder(t *testing.T) {
	d := Error("item.insufficient.inventory", "not enough",
		P("item-code", "SKU1"),
		P("quantity-requested", "10"),
		P("inventory-available", "5"),
	)
	raw, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	want := `{"kind":"ERROR","id":"item.insufficient.inventory","debug_message":"not enough","data":{"item-code":"SKU1","quantity-requested":"10","inventory-available":"5"}}`
	if string(raw) != want {
		t.Fatalf("json:\nwant=%s\n got=%s", want, raw)
	}

	var back Diagnostic
	if err := json.Unmarshal(raw, &back); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if !back.Equal(d) {
		t.Fatalf("decoded diagnostic differs: %v vs %v", back, d)
	}
}

func TestDiagnosticEqual(t *testing.T) {
	a := NeedInfo("need.billing.address", "billing address must be set").WithResolution("cart-order", "c1")
	b := NeedInfo("need.billing.address", "billing address must be set").WithResolution("cart-order", "c1")
	if !a.Equal(b) {
		t.Fatalf("identical diagnostics should be equal")
	}
	if a.Equal(b.WithResolution("cart-order", "c2")) {
		t.Fatalf("different resolution should not be equal")
	}
	if a.Equal(NeedInfo("need.billing.address", "billing address must be set")) {
		t.Fatalf("missing resolution should not be equal")
	}
	c := Error("x", "m", P("k", "v"))
	if c.Equal(Error("x", "m", P("k", "w"))) {
		t.Fatalf("different data should not be equal")
	}
}

func TestHasErrors(t *testing.T) {
	if HasErrors([]Diagnostic{NeedInfo("need.email", "")}) {
		t.Fatalf("need-info only should not count as error")
	}
	if !HasErrors([]Diagnostic{NeedInfo("need.email", ""), Error("cart.empty", "")}) {
		t.Fatalf("expected HasErrors")
	}
	if got := Error("cart.empty", "no items").String(); got != "ERROR cart.empty: no items" {
		t.Fatalf("String: got %q", got)
	}
}
