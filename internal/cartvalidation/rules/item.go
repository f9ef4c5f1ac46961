package rules

import (
	"fmt"
	"strconv"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	IDItemNotFound          = "item.not.found"
	IDNotSoldSeparately     = "item.not.sold.separately"
	IDBundleMinConstituents = "bundle.does.not.contain.min.constituents"
	IDBundleMaxConstituents = "bundle.exceeds.max.constituents"
	IDFieldInvalidMinimum   = "field.invalid.minimum.value"
	IDCartItemNotRemovable  = "cart.item.not.removable"
)

func ItemNotFound(c *cartvalidation.ItemContext) []diag.Diagnostic {
	if c.Sku != nil {
		return nil
	}
	code := c.SkuCode()
	return []diag.Diagnostic{diag.Error(IDItemNotFound,
		fmt.Sprintf("Item '%s' was not found.", code),
		diag.P("item-code", code))}
}

// NotSoldSeparately rejects a product that may only be bought inside a bundle
// when it sits at the top of the tree.
func NotSoldSeparately(c *cartvalidation.ItemContext) []diag.Diagnostic {
	p := c.Product()
	if p == nil || !p.NotSoldSeparately || c.ParentItem != nil {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDNotSoldSeparately,
		fmt.Sprintf("Item '%s' is not sold separately.", c.SkuCode()),
		diag.P("item-code", c.SkuCode()))}
}

func selectedChildren(c *cartvalidation.ItemContext) int {
	n := 0
	for _, kid := range c.Item.Children {
		if kid.Selected() {
			n++
		}
	}
	return n
}

func BundleMinConstituents(c *cartvalidation.ItemContext) []diag.Diagnostic {
	p := c.Product()
	if !p.IsBundle() || p.MinConstituentSelections <= 0 {
		return nil
	}
	n := selectedChildren(c)
	if n >= p.MinConstituentSelections {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDBundleMinConstituents,
		fmt.Sprintf("Bundle '%s' requires at least %d selected constituents but has %d.", c.SkuCode(), p.MinConstituentSelections, n),
		diag.P("item-code", c.SkuCode()),
		diag.P("min-quantity", strconv.Itoa(p.MinConstituentSelections)),
		diag.P("current-quantity", strconv.Itoa(n)))}
}

func BundleMaxConstituents(c *cartvalidation.ItemContext) []diag.Diagnostic {
	p := c.Product()
	if !p.IsBundle() || p.MaxConstituentSelections <= 0 {
		return nil
	}
	n := selectedChildren(c)
	if n <= p.MaxConstituentSelections {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDBundleMaxConstituents,
		fmt.Sprintf("Bundle '%s' allows at most %d selected constituents but has %d.", c.SkuCode(), p.MaxConstituentSelections, n),
		diag.P("item-code", c.SkuCode()),
		diag.P("max-quantity", strconv.Itoa(p.MaxConstituentSelections)),
		diag.P("current-quantity", strconv.Itoa(n)))}
}

// QuantityMinimum requires a positive quantity for items that are being
// added or updated. Bundle constituents may stay at zero to mark an option
// the shopper did not pick; dependent items such as warranties may not.
func QuantityMinimum(c *cartvalidation.ItemContext) []diag.Diagnostic {
	if c.Item.BundleConstituent || c.Quantity >= 1 {
		return nil
	}
	if c.Operation != cartvalidation.OperationAdd && c.Operation != cartvalidation.OperationUpdate {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDFieldInvalidMinimum,
		fmt.Sprintf("'quantity' has value '%d' but must be at least 1.", c.Quantity),
		diag.P("field-name", "quantity"),
		diag.P("min-value", "1"),
		diag.P("invalid-value", strconv.Itoa(c.Quantity)))}
}

// NotRemovable keeps bundle constituents from being removed on their own.
func NotRemovable(c *cartvalidation.ItemContext) []diag.Diagnostic {
	if c.ParentItem == nil || !c.Item.BundleConstituent {
		return nil
	}
	d := diag.Error(IDCartItemNotRemovable,
		fmt.Sprintf("Item '%s' is part of a bundle and cannot be removed on its own.", c.SkuCode()),
		diag.P("item-code", c.SkuCode()))
	return []diag.Diagnostic{d.WithResolution("line-item", c.ParentItem.GUID)}
}
