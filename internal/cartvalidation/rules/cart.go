// Package rules holds the built-in validation rules and the catalog startup
// wiring resolves rule names against.
package rules

import (
	"fmt"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	IDNeedBillingAddress  = "need.billing.address"
	IDNeedShippingAddress = "need.shipping.address"
	IDNeedEmail           = "need.email"
	IDCartEmpty           = "cart.empty"
	IDCartTypeUnsupported = "cart.type.not.supported"
)

// defaultCartType names carts created without an explicit type.
const defaultCartType = "default"

// NeedBillingAddress asks for a billing address before checkout.
func NeedBillingAddress(c *cartvalidation.CartContext) []diag.Diagnostic {
	if c.Cart.BillingAddressGUID != "" {
		return nil
	}
	d := diag.NeedInfo(IDNeedBillingAddress, "A billing address must be provided.")
	return []diag.Diagnostic{d.WithResolution("billing-address", c.Cart.GUID)}
}

// NeedShippingAddress asks for a shipping address once the cart holds items.
func NeedShippingAddress(c *cartvalidation.CartContext) []diag.Diagnostic {
	if c.Cart.ShippingAddressGUID != "" || len(c.Items) == 0 {
		return nil
	}
	d := diag.NeedInfo(IDNeedShippingAddress, "A shipping address must be provided.")
	return []diag.Diagnostic{d.WithResolution("shipping-address", c.Cart.GUID)}
}

func NeedEmail(c *cartvalidation.CartContext) []diag.Diagnostic {
	if c.Shopper != nil && c.Shopper.Email != "" {
		return nil
	}
	return []diag.Diagnostic{diag.NeedInfo(IDNeedEmail, "Customer e-mail address must be specified.")}
}

func CartEmpty(c *cartvalidation.CartContext) []diag.Diagnostic {
	if len(c.Items) > 0 {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDCartEmpty, "Shopping cart is empty.")}
}

// CartTypeNotSupported rejects carts whose type the store does not list.
// A store without configured types accepts every type.
func CartTypeNotSupported(c *cartvalidation.CartContext) []diag.Diagnostic {
	if c.Store == nil {
		return nil
	}
	cartType := c.Cart.CartType
	if cartType == "" {
		cartType = defaultCartType
	}
	if c.Store.SupportsCartType(cartType) {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDCartTypeUnsupported,
		fmt.Sprintf("Cart type '%s' is not supported by store '%s'.", cartType, c.Store.Code),
		diag.P("cart-type", cartType),
		diag.P("store-code", c.Store.Code))}
}
