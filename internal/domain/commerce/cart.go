package commerce

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Cart struct {
	ID                  uuid.UUID   `gorm:"type:uuid;primaryKey" json:"id"`
	GUID                string      `gorm:"uniqueIndex;not null;column:guid" json:"guid"`
	StoreCode           string      `gorm:"index;not null;column:store_code" json:"store_code"`
	ShopperGUID         string      `gorm:"index;not null;column:shopper_guid" json:"shopper_guid"`
	CartType            string      `gorm:"column:cart_type" json:"cart_type"`
	BillingAddressGUID  string      `gorm:"column:billing_address_guid" json:"billing_address_guid"`
	ShippingAddressGUID string      `gorm:"column:shipping_address_guid" json:"shipping_address_guid"`
	Items               []*CartItem `gorm:"foreignKey:CartGUID;references:GUID" json:"items,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Cart) TableName() string { return "cart" }

// CartItem is one node of a cart's item tree. Bundle constituents and
// dependent items point at their parent through ParentGUID.
type CartItem struct {
	ID                uuid.UUID         `gorm:"type:uuid;primaryKey" json:"id"`
	GUID              string            `gorm:"uniqueIndex;not null;column:guid" json:"guid"`
	CartGUID          string            `gorm:"index;not null;column:cart_guid" json:"cart_guid"`
	ParentGUID        string            `gorm:"index;column:parent_guid" json:"parent_guid,omitempty"`
	SkuCode           string            `gorm:"not null;column:sku_code" json:"sku_code"`
	Quantity          int               `gorm:"not null;column:quantity" json:"quantity"`
	Ordering          int               `gorm:"not null;default:0;column:ordering" json:"ordering"`
	BundleConstituent bool              `gorm:"not null;default:false;column:bundle_constituent" json:"bundle_constituent"`
	Fields            datatypes.JSONMap `gorm:"column:fields" json:"fields,omitempty"`

	Children []*CartItem `gorm:"-" json:"children,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (CartItem) TableName() string { return "cart_item" }

// Selected reports whether the shopper picked this item; a zero quantity
// constituent stays in the tree as an unselected option.
func (i *CartItem) Selected() bool {
	return i != nil && i.Quantity > 0
}

// Link rebuilds Children from ParentGUID after the flat item list was loaded.
// Children keep the order of Items.
func (c *Cart) Link() {
	if c == nil {
		return
	}
	byGUID := make(map[string]*CartItem, len(c.Items))
	for _, it := range c.Items {
		it.Children = nil
		if it.GUID != "" {
			byGUID[it.GUID] = it
		}
	}
	for _, it := range c.Items {
		if it.ParentGUID == "" {
			continue
		}
		if parent, ok := byGUID[it.ParentGUID]; ok {
			parent.Children = append(parent.Children, it)
		}
	}
}

// RootItems returns the items without a parent, ordered by Ordering.
func (c *Cart) RootItems() []*CartItem {
	if c == nil {
		return nil
	}
	known := make(map[string]bool, len(c.Items))
	for _, it := range c.Items {
		known[it.GUID] = true
	}
	var roots []*CartItem
	for _, it := range c.Items {
		if it.ParentGUID == "" || !known[it.ParentGUID] {
			roots = append(roots, it)
		}
	}
	sort.SliceStable(roots, func(i, j int) bool { return roots[i].Ordering < roots[j].Ordering })
	return roots
}

// AllItems returns every item of the tree, parents before their children.
// An item reachable twice is listed once.
func (c *Cart) AllItems() []*CartItem {
	var out []*CartItem
	seen := map[*CartItem]bool{}
	var walk func(items []*CartItem)
	walk = func(items []*CartItem) {
		for _, it := range items {
			if seen[it] {
				continue
			}
			seen[it] = true
			out = append(out, it)
			walk(it.Children)
		}
	}
	walk(c.RootItems())
	return out
}

func (c *Cart) ItemByGUID(guid string) *CartItem {
	if c == nil || guid == "" {
		return nil
	}
	for _, it := range c.AllItems() {
		if it.GUID == guid {
			return it
		}
	}
	return nil
}

// ParentOf finds the item whose children contain child.
func (c *Cart) ParentOf(child *CartItem) *CartItem {
	if c == nil || child == nil {
		return nil
	}
	for _, it := range c.AllItems() {
		for _, kid := range it.Children {
			if kid == child || (child.GUID != "" && kid.GUID == child.GUID) {
				return it
			}
		}
	}
	return nil
}
