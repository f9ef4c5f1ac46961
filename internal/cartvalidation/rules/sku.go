package rules

import (
	"fmt"
	"strconv"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	IDNotInStoreCatalog     = "item.not.in.store.catalog"
	IDNotAvailable          = "item.not.available"
	IDMissingPrice          = "item.missing.price"
	IDInsufficientInventory = "item.insufficient.inventory"
)

// NotInStoreCatalog checks top-level SKUs against the store catalog;
// constituents are sold through their bundle.
func NotInStoreCatalog(c *cartvalidation.SkuContext) []diag.Diagnostic {
	if c.InCatalog || c.ParentSku != nil {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDNotInStoreCatalog,
		fmt.Sprintf("Item '%s' is not part of the current store's catalog.", c.Sku.Code),
		diag.P("item-code", c.Sku.Code))}
}

func NotAvailable(c *cartvalidation.SkuContext) []diag.Diagnostic {
	if c.Product().AvailableAt(c.Now) {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDNotAvailable,
		fmt.Sprintf("Item '%s' is not available for purchase.", c.Sku.Code),
		diag.P("item-code", c.Sku.Code))}
}

// MissingPrice requires a price unless the SKU is priced through an assigned bundle.
func MissingPrice(c *cartvalidation.SkuContext) []diag.Diagnostic {
	if c.Price != nil || c.ParentIsAssignedBundle {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDMissingPrice,
		fmt.Sprintf("Item '%s' does not have a price.", c.Sku.Code),
		diag.P("item-code", c.Sku.Code))}
}

func InsufficientInventory(c *cartvalidation.SkuContext) []diag.Diagnostic {
	if !c.Selected {
		return nil
	}
	if p := c.Product(); p != nil && p.InventoryPolicy == commerce.InventoryAlwaysInStock {
		return nil
	}
	available := 0
	if c.Inventory != nil {
		available = c.Inventory.Available()
	}
	if available >= c.Quantity {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDInsufficientInventory,
		fmt.Sprintf("Item '%s' only has %d available but %d were requested.", c.Sku.Code, available, c.Quantity),
		diag.P("item-code", c.Sku.Code),
		diag.P("quantity-requested", strconv.Itoa(c.Quantity)),
		diag.P("inventory-available", strconv.Itoa(available)))}
}
