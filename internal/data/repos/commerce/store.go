package commerce

import (
	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type StoreRepo interface {
	Create(dbc dbctx.Context, stores []*types.Store) ([]*types.Store, error)
	GetByCode(dbc dbctx.Context, code string) (*types.Store, error)
	List(dbc dbctx.Context) ([]*types.Store, error)
}

type storeRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewStoreRepo(db *gorm.DB, baseLog *logger.Logger) StoreRepo {
	return &storeRepo{db: db, log: baseLog.With("repo", "StoreRepo")}
}

func (r *storeRepo) Create(dbc dbctx.Context, stores []*types.Store) ([]*types.Store, error) {
	if len(stores) == 0 {
		return []*types.Store{}, nil
	}
	for _, s := range stores {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
	}
	if err := dbc.DB(r.db).Create(&stores).Error; err != nil {
		return nil, err
	}
	return stores, nil
}

// GetByCode returns nil when no store has code.
func (r *storeRepo) GetByCode(dbc dbctx.Context, code string) (*types.Store, error) {
	var rows []*types.Store
	if err := dbc.DB(r.db).Where("code = ?", code).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

func (r *storeRepo) List(dbc dbctx.Context) ([]*types.Store, error) {
	var rows []*types.Store
	if err := dbc.DB(r.db).Order("code asc").Find(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

type ShopperRepo interface {
	Create(dbc dbctx.Context, shoppers []*types.Shopper) ([]*types.Shopper, error)
	GetByGUID(dbc dbctx.Context, guid string) (*types.Shopper, error)
}

type shopperRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewShopperRepo(db *gorm.DB, baseLog *logger.Logger) ShopperRepo {
	return &shopperRepo{db: db, log: baseLog.With("repo", "ShopperRepo")}
}

func (r *shopperRepo) Create(dbc dbctx.Context, shoppers []*types.Shopper) ([]*types.Shopper, error) {
	if len(shoppers) == 0 {
		return []*types.Shopper{}, nil
	}
	for _, s := range shoppers {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.GUID == "" {
			s.GUID = uuid.NewString()
		}
	}
	if err := dbc.DB(r.db).Create(&shoppers).Error; err != nil {
		return nil, err
	}
	return shoppers, nil
}

func (r *shopperRepo) GetByGUID(dbc dbctx.Context, guid string) (*types.Shopper, error) {
	var rows []*types.Shopper
	if err := dbc.DB(r.db).Where("guid = ?", guid).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
