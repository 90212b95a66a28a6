package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
)

func (r *GormRepo) GetSetting(ctx context.Context, key string) (*models.SiteSetting, error) {
	var s models.SiteSetting
	if err := r.DB.WithContext(ctx).Where("key = ?", key).First(&s).Error; err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *GormRepo) ListSettings(ctx context.Context) ([]models.SiteSetting, error) {
	var out []models.SiteSetting
	err := r.DB.WithContext(ctx).Order("key ASC").Find(&out).Error
	return out, err
}

// UpsertSetting writes a key/value pair inside one transaction.
func (r *GormRepo) UpsertSetting(ctx context.Context, key, value, description string) (*models.SiteSetting, error) {
	var s models.SiteSetting
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("key = ?", key).First(&s).Error
		switch {
		case err == nil:
			s.Value = value
			if description != "" {
				s.Description = description
			}
			return tx.Save(&s).Error
		case errors.Is(err, gorm.ErrRecordNotFound):
			s = models.SiteSetting{Key: key, Value: value, Description: description}
			return tx.Create(&s).Error
		default:
			return err
		}
	})
	if err != nil {
		return nil, err
	}
	return &s, nil
}
