package repository

import (
	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/pkg/logger"
	"gorm.io/gorm"
)

type ProductFilter struct {
	ProductType *model.ProductType
	Limit       int
	Offset      int
}

type ProductRepository interface {
	Create(product *model.Product) error
	BulkCreate(products []model.Product) error
	FindAll(filter ProductFilter) ([]model.Product, error)
	FindByID(id uint) (*model.Product, error)
}

type productRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(product *model.Product) error {
	logger.Debug("Creating product in database", map[string]interface{}{
		"name":         product.Name,
		"product_type": product.ProductType,
	})

	if err := r.db.Create(product).Error; err != nil {
		logger.Error("Failed to create product in database", err, map[string]interface{}{
			"name":         product.Name,
			"product_type": product.ProductType,
		})
		return err
	}

	logger.Debug("Product created in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// BulkCreate inserts products in batches inside one transaction
func (r *productRepository) BulkCreate(products []model.Product) error {
	if len(products) == 0 {
		return nil
	}

	logger.Debug("Bulk creating products in database", map[string]interface{}{
		"count": len(products),
	})

	err := r.db.Transaction(func(tx *gorm.DB) error {
		return tx.CreateInBatches(&products, 100).Error
	})
	if err != nil {
		logger.Error("Failed to bulk create products in database", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Debug("Products bulk created in database", map[string]interface{}{
		"count": len(products),
	})
	return nil
}

func (r *productRepository) FindAll(filter ProductFilter) ([]model.Product, error) {
	logger.Debug("Finding products in database", map[string]interface{}{
		"product_type": filter.ProductType,
		"limit":        filter.Limit,
		"offset":       filter.Offset,
	})

	query := r.db.Model(&model.Product{})
	if filter.ProductType != nil {
		query = query.Where("product_type = ?", *filter.ProductType)
	}
	if filter.Limit > 0 {
		query = query.Limit(filter.Limit)
	}
	if filter.Offset > 0 {
		query = query.Offset(filter.Offset)
	}

	var products []model.Product
	if err := query.Order("id ASC").Find(&products).Error; err != nil {
		logger.Error("Failed to find products in database", err)
		return nil, err
	}

	logger.Debug("Products found in database", map[string]interface{}{
		"count": len(products),
	})
	return products, nil
}

func (r *productRepository) FindByID(id uint) (*model.Product, error) {
	logger.Debug("Finding product by ID in database", map[string]interface{}{
		"product_id": id,
	})

	var product model.Product
	if err := r.db.First(&product, id).Error; err != nil {
		logger.Error("Failed to find product by ID in database", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}

	logger.Debug("Product found by ID in database", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return &product, nil
}
