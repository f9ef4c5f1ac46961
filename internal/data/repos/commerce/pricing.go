package commerce

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type PriceRepo interface {
	Upsert(dbc dbctx.Context, prices []*types.Price) error
	Get(dbc dbctx.Context, storeCode, skuCode string) (*types.Price, error)
}

type priceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewPriceRepo(db *gorm.DB, baseLog *logger.Logger) PriceRepo {
	return &priceRepo{db: db, log: baseLog.With("repo", "PriceRepo")}
}

func (r *priceRepo) Upsert(dbc dbctx.Context, prices []*types.Price) error {
	if len(prices) == 0 {
		return nil
	}
	for _, p := range prices {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "store_code"}, {Name: "sku_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"currency", "list_amount", "sale_amount", "updated_at"}),
		}).
		Create(&prices).Error
}

func (r *priceRepo) Get(dbc dbctx.Context, storeCode, skuCode string) (*types.Price, error) {
	var rows []*types.Price
	if err := dbc.DB(r.db).
		Where("store_code = ? AND sku_code = ?", storeCode, skuCode).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

type InventoryRepo interface {
	Upsert(dbc dbctx.Context, records []*types.InventoryRecord) error
	Get(dbc dbctx.Context, warehouseCode, skuCode string) (*types.InventoryRecord, error)
}

type inventoryRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewInventoryRepo(db *gorm.DB, baseLog *logger.Logger) InventoryRepo {
	return &inventoryRepo{db: db, log: baseLog.With("repo", "InventoryRepo")}
}

func (r *inventoryRepo) Upsert(dbc dbctx.Context, records []*types.InventoryRecord) error {
	if len(records) == 0 {
		return nil
	}
	for _, rec := range records {
		if rec.ID == uuid.Nil {
			rec.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "warehouse_code"}, {Name: "sku_code"}},
			DoUpdates: clause.AssignmentColumns([]string{"on_hand", "allocated", "reserved", "updated_at"}),
		}).
		Create(&records).Error
}

func (r *inventoryRepo) Get(dbc dbctx.Context, warehouseCode, skuCode string) (*types.InventoryRecord, error) {
	var rows []*types.InventoryRecord
	if err := dbc.DB(r.db).
		Where("warehouse_code = ? AND sku_code = ?", warehouseCode, skuCode).
		Limit(1).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}
