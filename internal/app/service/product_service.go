package service

import (
	"errors"

	"github.com/ikkim/tene-backend/internal/app/model"
	"github.com/ikkim/tene-backend/internal/app/repository"
	"github.com/ikkim/tene-backend/pkg/logger"
	"gorm.io/gorm"
)

var (
	ErrProductNotFound = errors.New("product not found")
)

const (
	defaultProductLimit = 50
	maxProductLimit     = 200
)

type ProductListOptions struct {
	ProductType *model.ProductType
	Limit       int
	Offset      int
}

type ProductService interface {
	ListProducts(opts ProductListOptions) ([]model.Product, error)
	GetProductByID(id uint) (*model.Product, error)
	CreateProduct(product *model.Product) error
	ImportProducts(products []model.Product) error
}

type productService struct {
	productRepo repository.ProductRepository
}

func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

func (s *productService) ListProducts(opts ProductListOptions) ([]model.Product, error) {
	limit := opts.Limit
	if limit <= 0 {
		limit = defaultProductLimit
	}
	if limit > maxProductLimit {
		limit = maxProductLimit
	}
	offset := opts.Offset
	if offset < 0 {
		offset = 0
	}

	products, err := s.productRepo.FindAll(repository.ProductFilter{
		ProductType: opts.ProductType,
		Limit:       limit,
		Offset:      offset,
	})
	if err != nil {
		logger.Error("Failed to list products", err)
		return nil, err
	}

	logger.Debug("Products listed", map[string]interface{}{
		"count":  len(products),
		"limit":  limit,
		"offset": offset,
	})
	return products, nil
}

func (s *productService) GetProductByID(id uint) (*model.Product, error) {
	product, err := s.productRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Product not found", map[string]interface{}{
				"product_id": id,
			})
			return nil, ErrProductNotFound
		}
		logger.Error("Failed to fetch product", err, map[string]interface{}{
			"product_id": id,
		})
		return nil, err
	}
	return product, nil
}

func (s *productService) CreateProduct(product *model.Product) error {
	if err := s.productRepo.Create(product); err != nil {
		logger.Error("Failed to create product", err, map[string]interface{}{
			"name": product.Name,
		})
		return err
	}

	logger.Info("Product created", map[string]interface{}{
		"product_id": product.ID,
		"name":       product.Name,
	})
	return nil
}

// ImportProducts stores a catalog batch in one transaction
func (s *productService) ImportProducts(products []model.Product) error {
	if err := s.productRepo.BulkCreate(products); err != nil {
		logger.Error("Failed to import products", err, map[string]interface{}{
			"count": len(products),
		})
		return err
	}

	logger.Info("Products imported", map[string]interface{}{
		"count": len(products),
	})
	return nil
}
