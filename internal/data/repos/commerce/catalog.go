package commerce

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/yungbote/cartcheck/internal/domain/commerce"
	"github.com/yungbote/cartcheck/internal/platform/dbctx"
	"github.com/yungbote/cartcheck/internal/platform/logger"
)

type ProductRepo interface {
	CreateProducts(dbc dbctx.Context, products []*types.Product) error
	CreateSkus(dbc dbctx.Context, skus []*types.ProductSku) error
	// GetSkuByCode loads the SKU with its product, or nil when unknown.
	GetSkuByCode(dbc dbctx.Context, code string) (*types.ProductSku, error)
}

type productRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewProductRepo(db *gorm.DB, baseLog *logger.Logger) ProductRepo {
	return &productRepo{db: db, log: baseLog.With("repo", "ProductRepo")}
}

func (r *productRepo) CreateProducts(dbc dbctx.Context, products []*types.Product) error {
	if len(products) == 0 {
		return nil
	}
	for _, p := range products {
		if p.ID == uuid.Nil {
			p.ID = uuid.New()
		}
	}
	return dbc.DB(r.db).Create(&products).Error
}

func (r *productRepo) CreateSkus(dbc dbctx.Context, skus []*types.ProductSku) error {
	if len(skus) == 0 {
		return nil
	}
	for _, s := range skus {
		if s.ID == uuid.Nil {
			s.ID = uuid.New()
		}
		if s.GUID == "" {
			s.GUID = uuid.NewString()
		}
	}
	return dbc.DB(r.db).Omit(clause.Associations).Create(&skus).Error
}

func (r *productRepo) GetSkuByCode(dbc dbctx.Context, code string) (*types.ProductSku, error) {
	var rows []*types.ProductSku
	if err := dbc.DB(r.db).Preload("Product").Where("code = ?", code).Limit(1).Find(&rows).Error; err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[0], nil
}

type CatalogRepo interface {
	Add(dbc dbctx.Context, catalogCode string, productCodes ...string) error
	Contains(dbc dbctx.Context, catalogCode, productCode string) (bool, error)
}

type catalogRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCatalogRepo(db *gorm.DB, baseLog *logger.Logger) CatalogRepo {
	return &catalogRepo{db: db, log: baseLog.With("repo", "CatalogRepo")}
}

// Add lists products in a catalog; already listed products are left alone.
func (r *catalogRepo) Add(dbc dbctx.Context, catalogCode string, productCodes ...string) error {
	if len(productCodes) == 0 {
		return nil
	}
	rows := make([]*types.CatalogEntry, 0, len(productCodes))
	for _, code := range productCodes {
		rows = append(rows, &types.CatalogEntry{ID: uuid.New(), CatalogCode: catalogCode, ProductCode: code})
	}
	return dbc.DB(r.db).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "catalog_code"}, {Name: "product_code"}},
			DoNothing: true,
		}).
		Create(&rows).Error
}

func (r *catalogRepo) Contains(dbc dbctx.Context, catalogCode, productCode string) (bool, error) {
	var count int64
	if err := dbc.DB(r.db).
		Model(&types.CatalogEntry{}).
		Where("catalog_code = ? AND product_code = ?", catalogCode, productCode).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
