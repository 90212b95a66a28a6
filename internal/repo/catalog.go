package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/transport"
)

func (r *GormRepo) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Variants").Preload("Images").
		First(&product, id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProductBySlug(ctx context.Context, slug string) (*models.Product, error) {
	var product models.Product
	if err := r.DB.WithContext(ctx).
		Preload("Variants").Preload("Images").
		Where("slug = ?", slug).First(&product).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *GormRepo) GetProducts(ctx context.Context, offset, limit int) (int64, []models.Product, error) {
	q := r.DB.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var items []models.Product
	if err := q.Preload("Variants").Preload("Images").
		Order("id ASC").Offset(offset).Limit(limit).Find(&items).Error; err != nil {
		return 0, nil, err
	}
	return total, items, nil
}

func (r *GormRepo) CreateProduct(ctx context.Context, prod *models.Product) error {
	return r.DB.WithContext(ctx).Create(prod).Error
}

func (r *GormRepo) PatchProduct(ctx context.Context, req transport.PatchProductRequest, id uint) (*models.Product, error) {
	var prod models.Product
	if err := r.DB.WithContext(ctx).First(&prod, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		prod.Name = *req.Name
	}
	if req.Slug != nil {
		prod.Slug = *req.Slug
	}
	if req.Description != nil {
		prod.Description = *req.Description
	}
	if req.BasePrice != nil {
		prod.BasePrice = *req.BasePrice
	}
	if req.SellingPrice != nil {
		prod.SellingPrice = *req.SellingPrice
	}
	if req.IsActive != nil {
		prod.IsActive = *req.IsActive
	}
	if req.HasVariants != nil {
		prod.HasVariants = *req.HasVariants
	}

	if err := r.DB.WithContext(ctx).Save(&prod).Error; err != nil {
		return nil, err
	}
	return &prod, nil
}

func (r *GormRepo) DeleteProduct(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.Product{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetVariant(ctx context.Context, id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) CreateVariant(ctx context.Context, v *models.ProductVariant) error {
	return r.DB.WithContext(ctx).Create(v).Error
}

func (r *GormRepo) PatchVariant(ctx context.Context, req transport.PatchVariantRequest, id uint) (*models.ProductVariant, error) {
	var v models.ProductVariant
	if err := r.DB.WithContext(ctx).First(&v, id).Error; err != nil {
		return nil, err
	}

	if req.Name != nil {
		v.Name = *req.Name
	}
	if req.SKU != nil {
		v.SKU = *req.SKU
	}
	if req.Price != nil {
		v.Price = *req.Price
	}
	if req.StockQuantity != nil {
		v.StockQuantity = *req.StockQuantity
	}
	if req.LotNumber != nil {
		v.LotNumber = *req.LotNumber
	}

	if err := r.DB.WithContext(ctx).Save(&v).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

func (r *GormRepo) DeleteVariant(ctx context.Context, id uint) error {
	res := r.DB.WithContext(ctx).Delete(&models.ProductVariant{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) GetBrands(ctx context.Context) ([]models.Brand, error) {
	var brands []models.Brand
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("name ASC").Find(&brands).Error
	return brands, err
}

func (r *GormRepo) GetCategories(ctx context.Context) ([]models.Category, error) {
	var cats []models.Category
	err := r.DB.WithContext(ctx).Where("is_active = ?", true).Order("display_order ASC").Find(&cats).Error
	return cats, err
}
