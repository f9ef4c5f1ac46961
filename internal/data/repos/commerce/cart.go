package commerce

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type CartRepo interface {
	// Create stores the cart with every item of its tree.
	Create(dbc dbctx.Context, cart *types.Cart) error
	// GetByGUID loads the cart with its items linked into a tree, or nil.
	GetByGUID(dbc dbctx.Context, guid string) (*types.Cart, error)
	// ListGUIDs pages through cart GUIDs, optionally restricted to one store.
	ListGUIDs(dbc dbctx.Context, storeCode string, limit, offset int) ([]string, error)
}

type cartRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCartRepo(db *gorm.DB, baseLog *logger.Logger) CartRepo {
	return &cartRepo{db: db, log: baseLog.With("repo", "CartRepo")}
}

func (r *cartRepo) Create(dbc dbctx.Context, cart *types.Cart) error {
	if cart.ID == uuid.Nil {
		cart.ID = uuid.New()
	}
	if cart.GUID == "" {
		cart.GUID = uuid.NewString()
	}
	items := cart.AllItems()
	for _, it := range items {
		if it.ID == uuid.Nil {
			it.ID = uuid.New()
		}
		if it.GUID == "" {
			it.GUID = uuid.NewString()
		}
		it.CartGUID = cart.GUID
		for _, kid := range it.Children {
			kid.ParentGUID = it.GUID
		}
	}
	return dbc.DB(r.db).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(cart).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		return tx.Create(&items).Error
	})
}

func (r *cartRepo) GetByGUID(dbc dbctx.Context, guid string) (*types.Cart, error) {
	var rows []*types.Cart
	if err := dbc.DB(r.db).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("ordering asc").Order("created_at asc")
		}).
		Where("guid = ?", guid).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	rows[0].Link()
	return rows[0], nil
}

func (r *cartRepo) ListGUIDs(dbc dbctx.Context, storeCode string, limit, offset int) ([]string, error) {
	q := dbc.DB(r.db).Model(&types.Cart{}).Order("created_at asc").Order("guid asc")
	if storeCode != "" {
		q = q.Where("store_code = ?", storeCode)
	}
	if limit > 0 {
		q = q.Limit(limit)
	}
	if offset > 0 {
		q = q.Offset(offset)
	}
	var guids []string
	if err := q.Pluck("guid", &guids).Error; err != nil {
		return nil, err
	}
	return guids, nil
}
