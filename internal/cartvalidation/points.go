package cartvalidation

import (
	"github.com/yungbote/cartcheck/internal/validation"
)

var (
	CartAtCheckout = validation.NewExtensionPoint[*CartContext]("cart.checkout")
	CartContents   = validation.NewExtensionPoint[*CartContext]("cart.contents")

	ItemAtCheckout     = validation.NewExtensionPoint[*ItemContext]("item.checkout")
	ItemContents       = validation.NewExtensionPoint[*ItemContext]("item.contents")
	ItemAddToCart      = validation.NewExtensionPoint[*ItemContext]("item.add-to-cart")
	ItemUpdateQuantity = validation.NewExtensionPoint[*ItemContext]("item.update-quantity")
	ItemRemoveFromCart = validation.NewExtensionPoint[*ItemContext]("item.remove-from-cart")

	SkuAtCheckout = validation.NewExtensionPoint[*SkuContext]("sku.checkout")
	SkuAddToCart  = validation.NewExtensionPoint[*SkuContext]("sku.add-to-cart")

	SystemInformation = validation.NewExtensionPoint[*SystemContext]("system.information")
)

// Level is the context type an extension point validates.
type Level string

const (
	LevelCart   Level = "cart"
	LevelItem   Level = "item"
	LevelSku    Level = "sku"
	LevelSystem Level = "system"
)

var (
	CartPoints = map[string]validation.ExtensionPoint[*CartContext]{
		CartAtCheckout.Name(): CartAtCheckout,
		CartContents.Name():   CartContents,
	}
	ItemPoints = map[string]validation.ExtensionPoint[*ItemContext]{
		ItemAtCheckout.Name():     ItemAtCheckout,
		ItemContents.Name():       ItemContents,
		ItemAddToCart.Name():      ItemAddToCart,
		ItemUpdateQuantity.Name(): ItemUpdateQuantity,
		ItemRemoveFromCart.Name(): ItemRemoveFromCart,
	}
	SkuPoints = map[string]validation.ExtensionPoint[*SkuContext]{
		SkuAtCheckout.Name(): SkuAtCheckout,
		SkuAddToCart.Name():  SkuAddToCart,
	}
	SystemPoints = map[string]validation.ExtensionPoint[*SystemContext]{
		SystemInformation.Name(): SystemInformation,
	}
)

// LevelOf reports the level of a named extension point.
func LevelOf(point string) (Level, bool) {
	if _, ok := CartPoints[point]; ok {
		return LevelCart, true
	}
	if _, ok := ItemPoints[point]; ok {
		return LevelItem, true
	}
	if _, ok := SkuPoints[point]; ok {
		return LevelSku, true
	}
	if _, ok := SystemPoints[point]; ok {
		return LevelSystem, true
	}
	return "", false
}
