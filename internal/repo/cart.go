package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
)

func variantScope(q *gorm.DB, variantID *uint) *gorm.DB {
	if variantID == nil {
		return q.Where("variant_id IS NULL")
	}
	return q.Where("variant_id = ?", *variantID)
}

func (r *GormRepo) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	var items []models.CartItem
	if err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id ASC").Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// AddToCart merges into an existing (user, product, variant) line or inserts
// a new one, never a duplicate row.
func (r *GormRepo) AddToCart(ctx context.Context, item *models.CartItem) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		q := variantScope(
			tx.Model(&models.CartItem{}).Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID),
			item.VariantID,
		)
		res := q.Update("quantity", gorm.Expr("quantity + ?", item.Quantity))
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			return variantScope(
				tx.Where("user_id = ? AND product_id = ?", item.UserID, item.ProductID),
				item.VariantID,
			).First(item).Error
		}
		return tx.Create(item).Error
	})
}

// UpdateCartItem overwrites the quantity, or deletes the line when qty <= 0.
// The deleted case is reported, not treated as an error.
func (r *GormRepo) UpdateCartItem(ctx context.Context, userID, itemID uint, qty int) (removed bool, item *models.CartItem, err error) {
	var out models.CartItem
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("id = ? AND user_id = ?", itemID, userID).First(&out).Error; err != nil {
			return err
		}
		if qty <= 0 {
			removed = true
			return tx.Delete(&out).Error
		}
		if err := tx.Model(&out).Update("quantity", qty).Error; err != nil {
			return err
		}
		out.Quantity = uint(qty)
		return nil
	})
	if err != nil {
		return false, nil, err
	}
	if removed {
		return true, nil, nil
	}
	return false, &out, nil
}

func (r *GormRepo) RemoveCartItem(ctx context.Context, userID, itemID uint) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", itemID, userID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) ClearCart(ctx context.Context, userID uint) error {
	return r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&models.CartItem{}).Error
}
