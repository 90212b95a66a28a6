package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
	"github.com/dentsupply/shop/internal/transport"
)

type CatalogService struct {
	Repo *repo.GormRepo
}

func (s *CatalogService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	p, err := s.Repo.GetProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return p, err
}

func (s *CatalogService) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	p, err := s.Repo.GetProductBySlug(ctx, slug)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %q", ErrNotFound, slug)
	}
	return p, err
}

func (s *CatalogService) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	return s.Repo.GetProducts(ctx, offset, limit)
}

// CreateProduct inserts a catalog entry. A product without variants gets one
// implicit variant row carrying its stock, so the inventory ledger tracks
// every purchasable unit the same way.
func (s *CatalogService) CreateProduct(ctx context.Context, req transport.CreateProductRequest) (*models.Product, error) {
	if req.Name == "" || req.Slug == "" {
		return nil, fmt.Errorf("%w: name and slug required", ErrValidation)
	}
	if req.SellingPrice.IsNegative() || req.BasePrice.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}

	product := models.Product{
		BrandID:      req.BrandID,
		CategoryID:   req.CategoryID,
		Name:         req.Name,
		Slug:         req.Slug,
		Description:  req.Description,
		BasePrice:    req.BasePrice,
		SellingPrice: req.SellingPrice,
		IsActive:     true,
		HasVariants:  req.HasVariants,
	}
	if err := s.Repo.CreateProduct(ctx, &product); err != nil {
		return nil, err
	}

	if !product.HasVariants {
		implicit := models.ProductVariant{
			ProductID: product.ID,
			SKU:       fmt.Sprintf("PROD-%d", product.ID),
			Name:      product.Name,
			Price:     product.SellingPrice,
		}
		if err := s.Repo.CreateVariant(ctx, &implicit); err != nil {
			return nil, err
		}
		product.Variants = []models.ProductVariant{implicit}
	}

	return &product, nil
}

func (s *CatalogService) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	if req.SellingPrice != nil && req.SellingPrice.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	p, err := s.Repo.PatchProduct(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return p, err
}

func (s *CatalogService) DeleteProduct(ctx context.Context, id uint) error {
	err := s.Repo.DeleteProduct(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: product %d", ErrNotFound, id)
	}
	return err
}

func (s *CatalogService) CreateVariant(ctx context.Context, productID uint, req transport.CreateVariantRequest) (*models.ProductVariant, error) {
	if req.SKU == "" {
		return nil, fmt.Errorf("%w: sku required", ErrValidation)
	}
	if req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	if _, err := s.Repo.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}

	v := models.ProductVariant{
		ProductID:     productID,
		SKU:           req.SKU,
		Name:          req.Name,
		Price:         req.Price,
		StockQuantity: req.StockQuantity,
		LotNumber:     req.LotNumber,
	}
	if err := s.Repo.CreateVariant(ctx, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func (s *CatalogService) PatchVariant(ctx context.Context, req transport.PatchVariantRequest, id uint) (*models.ProductVariant, error) {
	if req.Price != nil && req.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must be >= 0", ErrValidation)
	}
	if req.StockQuantity != nil && *req.StockQuantity < 0 {
		return nil, fmt.Errorf("%w: stock must be >= 0", ErrValidation)
	}
	v, err := s.Repo.PatchVariant(ctx, req, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: variant %d", ErrNotFound, id)
	}
	return v, err
}

func (s *CatalogService) DeleteVariant(ctx context.Context, id uint) error {
	err := s.Repo.DeleteVariant(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: variant %d", ErrNotFound, id)
	}
	return err
}

func (s *CatalogService) GetBrands(ctx context.Context) ([]models.Brand, error) {
	return s.Repo.GetBrands(ctx)
}

func (s *CatalogService) GetCategories(ctx context.Context) ([]models.Category, error) {
	return s.Repo.GetCategories(ctx)
}
