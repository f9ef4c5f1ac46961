package rules

import (
	"fmt"

	"github.com/yungbote/cartcheck/internal/cartvalidation"
	"github.com/yungbote/cartcheck/internal/validation/diag"
)

const (
	IDDatabaseUnavailable = "system.database.unavailable"
	IDCacheUnavailable    = "system.cache.unavailable"
	IDStoreNoWarehouse    = "system.store.no.warehouse"
)

func DatabaseUnavailable(c *cartvalidation.SystemContext) []diag.Diagnostic {
	if c.DatabaseErr == nil {
		return nil
	}
	return []diag.Diagnostic{diag.Error(IDDatabaseUnavailable, "Database is unreachable.",
		diag.P("error", c.DatabaseErr.Error()))}
}

// CacheUnavailable reports a configured but unreachable cache. Validation
// still works without it, so the result is informational.
func CacheUnavailable(c *cartvalidation.SystemContext) []diag.Diagnostic {
	if !c.CacheConfigured || c.CacheErr == nil {
		return nil
	}
	return []diag.Diagnostic{diag.NeedInfo(IDCacheUnavailable, "Price cache is unreachable.",
		diag.P("error", c.CacheErr.Error()))}
}

func StoreNoWarehouse(c *cartvalidation.SystemContext) []diag.Diagnostic {
	var out []diag.Diagnostic
	for _, s := range c.Stores {
		if !s.Enabled || s.DefaultWarehouse() != "" {
			continue
		}
		out = append(out, diag.Error(IDStoreNoWarehouse,
			fmt.Sprintf("Store '%s' has no warehouse; tracked items cannot be sold.", s.Code),
			diag.P("store-code", s.Code)))
	}
	return out
}
