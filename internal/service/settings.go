package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
)

type SettingsService struct {
	Repo *repo.GormRepo
}

func (s *SettingsService) Get(ctx context.Context, key string) (*models.SiteSetting, error) {
	setting, err := s.Repo.GetSetting(ctx, key)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: setting %q", ErrNotFound, key)
	}
	return setting, err
}

func (s *SettingsService) List(ctx context.Context) ([]models.SiteSetting, error) {
	return s.Repo.ListSettings(ctx)
}

func (s *SettingsService) Upsert(ctx context.Context, key, value, description string) (*models.SiteSetting, error) {
	if key == "" {
		return nil, fmt.Errorf("%w: key required", ErrValidation)
	}
	if !json.Valid([]byte(value)) {
		return nil, fmt.Errorf("%w: value must be valid JSON", ErrValidation)
	}
	return s.Repo.UpsertSetting(ctx, key, value, description)
}
