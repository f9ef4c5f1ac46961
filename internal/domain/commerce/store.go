package commerce

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Store struct {
	ID                 uuid.UUID                   `gorm:"type:uuid;primaryKey" json:"id"`
	Code               string                      `gorm:"uniqueIndex;not null;column:code" json:"code"`
	Name               string                      `gorm:"column:name" json:"name"`
	CatalogCode        string                      `gorm:"not null;column:catalog_code" json:"catalog_code"`
	Currency           string                      `gorm:"column:currency" json:"currency"`
	WarehouseCodes     datatypes.JSONSlice[string] `gorm:"column:warehouse_codes" json:"warehouse_codes"`
	SupportedCartTypes datatypes.JSONSlice[string] `gorm:"column:supported_cart_types" json:"supported_cart_types"`
	Enabled            bool                        `gorm:"not null;default:true;column:enabled" json:"enabled"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Store) TableName() string { return "store" }

// DefaultWarehouse is the first configured warehouse, or "" when none is set.
func (s *Store) DefaultWarehouse() string {
	if s == nil || len(s.WarehouseCodes) == 0 {
		return ""
	}
	return s.WarehouseCodes[0]
}

func (s *Store) SupportsCartType(cartType string) bool {
	if s == nil {
		return false
	}
	if len(s.SupportedCartTypes) == 0 {
		return true
	}
	for _, t := range s.SupportedCartTypes {
		if t == cartType {
			return true
		}
	}
	return false
}

type Shopper struct {
	ID        uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	GUID      string    `gorm:"uniqueIndex;not null;column:guid" json:"guid"`
	StoreCode string    `gorm:"index;column:store_code" json:"store_code"`
	Email     string    `gorm:"column:email" json:"email"`
	FirstName string    `gorm:"column:first_name" json:"first_name"`
	LastName  string    `gorm:"column:last_name" json:"last_name"`
	Anonymous bool      `gorm:"not null;default:false;column:anonymous" json:"anonymous"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Shopper) TableName() string { return "shopper" }
