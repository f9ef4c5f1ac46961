package app

import (
	"gorm.io/gorm"

	"github.com/yungbote/cartcheck/internal/data/lookups"
	repos "github.com/yungbote/cartcheck/internal/data/repos/commerce"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type Repos struct {
	Store     repos.StoreRepo
	Shopper   repos.ShopperRepo
	Product   repos.ProductRepo
	Catalog   repos.CatalogRepo
	Price     repos.PriceRepo
	Inventory repos.InventoryRepo
	Cart      repos.CartRepo
}

func wireRepos(db *gorm.DB, log *logger.Logger) Repos {
	log.Info("Wiring repos...")
	return Repos{
		Store:     repos.NewStoreRepo(db, log),
		Shopper:   repos.NewShopperRepo(db, log),
		Product:   repos.NewProductRepo(db, log),
		Catalog:   repos.NewCatalogRepo(db, log),
		Price:     repos.NewPriceRepo(db, log),
		Inventory: repos.NewInventoryRepo(db, log),
		Cart:      repos.NewCartRepo(db, log),
	}
}

func (r Repos) lookups() lookups.Repos {
	return lookups.Repos{
		Stores:    r.Store,
		Shoppers:  r.Shopper,
		Products:  r.Product,
		Catalog:   r.Catalog,
		Prices:    r.Price,
		Inventory: r.Inventory,
	}
}
