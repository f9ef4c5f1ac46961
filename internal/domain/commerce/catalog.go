package commerce

import (
	"time"

	"github.com/google/uuid"
)

type BundleType string

const (
	BundleNone       BundleType = ""
	BundleAssigned   BundleType = "assigned"
	BundleCalculated BundleType = "calculated"
)

type InventoryPolicy string

const (
	InventoryTracked       InventoryPolicy = "tracked"
	InventoryAlwaysInStock InventoryPolicy = "always"
)

type Product struct {
	ID                       uuid.UUID       `gorm:"type:uuid;primaryKey" json:"id"`
	Code                     string          `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name                     string          `gorm:"column:name" json:"name"`
	BundleType               BundleType      `gorm:"column:bundle_type" json:"bundle_type"`
	MinConstituentSelections int             `gorm:"not null;default:0;column:min_constituent_selections" json:"min_constituent_selections"`
	MaxConstituentSelections int             `gorm:"not null;default:0;column:max_constituent_selections" json:"max_constituent_selections"`
	NotSoldSeparately        bool            `gorm:"not null;default:false;column:not_sold_separately" json:"not_sold_separately"`
	InventoryPolicy          InventoryPolicy `gorm:"column:inventory_policy" json:"inventory_policy"`
	StartDate                *time.Time      `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate                  *time.Time      `gorm:"column:end_date" json:"end_date,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Product) TableName() string { return "product" }

func (p *Product) IsBundle() bool {
	return p != nil && p.BundleType != BundleNone
}

// AvailableAt reports whether now falls inside the product's sale window.
func (p *Product) AvailableAt(now time.Time) bool {
	if p == nil {
		return false
	}
	if p.StartDate != nil && now.Before(*p.StartDate) {
		return false
	}
	if p.EndDate != nil && !now.Before(*p.EndDate) {
		return false
	}
	return true
}

type ProductSku struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	Code        string    `gorm:"uniqueIndex;not null;column:code" json:"code"`
	GUID        string    `gorm:"uniqueIndex;not null;column:guid" json:"guid"`
	ProductCode string    `gorm:"index;not null;column:product_code" json:"product_code"`
	Product     *Product  `gorm:"foreignKey:ProductCode;references:Code" json:"product,omitempty"`
	Shippable   bool      `gorm:"not null;default:true;column:shippable" json:"shippable"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (ProductSku) TableName() string { return "product_sku" }

// CatalogEntry records that a product is sold through a catalog.
type CatalogEntry struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	CatalogCode string    `gorm:"not null;uniqueIndex:idx_catalog_product;column:catalog_code" json:"catalog_code"`
	ProductCode string    `gorm:"not null;uniqueIndex:idx_catalog_product;column:product_code" json:"product_code"`
}

func (CatalogEntry) TableName() string { return "catalog_entry" }

// Price is the store's current promoted price for a SKU, in minor units.
type Price struct {
	ID         uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	StoreCode  string    `gorm:"not null;uniqueIndex:idx_price_store_sku;column:store_code" json:"store_code"`
	SkuCode    string    `gorm:"not null;uniqueIndex:idx_price_store_sku;column:sku_code" json:"sku_code"`
	Currency   string    `gorm:"not null;column:currency" json:"currency"`
	ListAmount int64     `gorm:"not null;column:list_amount" json:"list_amount"`
	SaleAmount *int64    `gorm:"column:sale_amount" json:"sale_amount,omitempty"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Price) TableName() string { return "price" }

// Lowest is the amount a shopper pays: the sale amount when set and lower.
func (p *Price) Lowest() int64 {
	if p == nil {
		return 0
	}
	if p.SaleAmount != nil && *p.SaleAmount < p.ListAmount {
		return *p.SaleAmount
	}
	return p.ListAmount
}

type InventoryRecord struct {
	ID            uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	WarehouseCode string    `gorm:"not null;uniqueIndex:idx_inventory_wh_sku;column:warehouse_code" json:"warehouse_code"`
	SkuCode       string    `gorm:"not null;uniqueIndex:idx_inventory_wh_sku;column:sku_code" json:"sku_code"`
	OnHand        int       `gorm:"not null;default:0;column:on_hand" json:"on_hand"`
	Allocated     int       `gorm:"not null;default:0;column:allocated" json:"allocated"`
	Reserved      int       `gorm:"not null;default:0;column:reserved" json:"reserved"`

	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (InventoryRecord) TableName() string { return "inventory_record" }

func (r *InventoryRecord) Available() int {
	if r == nil {
		return 0
	}
	n := r.OnHand - r.Allocated - r.Reserved
	if n < 0 {
		return 0
	}
	return n
}
