package db

import (
	"gorm.io/gorm"

	"github.com/yungbote/cartcheck/internal/domain/commerce"
)

func AutoMigrateAll(db *gorm.DB) error {
	return db.AutoMigrate(
		// Stores + shoppers
		&commerce.Store{},
		&commerce.Shopper{},

		// Catalog, pricing, inventory
		&commerce.Product{},
		&commerce.ProductSku{},
		&commerce.CatalogEntry{},
		&commerce.Price{},
		&commerce.InventoryRecord{},

		// Carts
		&commerce.Cart{},
		&commerce.CartItem{},
	)
}
