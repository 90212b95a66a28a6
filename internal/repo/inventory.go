package repo

import (
	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
)

// ReserveStock atomically decrements a variant's stock within tx. The
// conditional WHERE serializes concurrent reserves on the row: the sum of
// committed decrements can never drive stock_quantity below zero. A zero
// RowsAffected means the guard failed; the caller distinguishes a missing
// variant from insufficient stock.
func ReserveStock(tx *gorm.DB, variantID uint, qty uint) error {
	res := tx.Model(&models.ProductVariant{}).
		Where("id = ? AND stock_quantity >= ?", variantID, qty).
		Update("stock_quantity", gorm.Expr("stock_quantity - ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		var v models.ProductVariant
		if err := tx.Select("id").First(&v, variantID).Error; err != nil {
			return err
		}
		return ErrInsufficientStock
	}
	return nil
}

// ReleaseStock increments a variant's stock within tx. Used on cancellation;
// it has no upper bound and only fails on a database error.
func ReleaseStock(tx *gorm.DB, variantID uint, qty uint) error {
	return tx.Model(&models.ProductVariant{}).
		Where("id = ?", variantID).
		Update("stock_quantity", gorm.Expr("stock_quantity + ?", qty)).Error
}
