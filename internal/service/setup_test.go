package service

import (
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dentsupply/shop/internal/config"
	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
)

func newTestRepo(t *testing.T) *repo.GormRepo {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	return &repo.GormRepo{DB: db}
}

func testPolicy() config.PricingPolicy {
	return config.PricingPolicy{
		FreeShippingThreshold: decimal.NewFromInt(5000),
		FlatShippingFee:       decimal.NewFromInt(150),
		TaxRate:               decimal.RequireFromString("0.18"),
	}
}

func ptr[T any](v T) *T { return &v }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// seedImplantProduct creates a multi-variant product with two SKUs.
func seedImplantProduct(t *testing.T, r *repo.GormRepo, stock1, stock2 int) (models.Product, models.ProductVariant, models.ProductVariant) {
	t.Helper()

	p := models.Product{
		Name:         "TSIII SA Fixture",
		Slug:         "tsiii-sa-fixture",
		BasePrice:    dec("6500"),
		SellingPrice: dec("5800"),
		IsActive:     true,
		HasVariants:  true,
	}
	require.NoError(t, r.DB.Create(&p).Error)

	v1 := models.ProductVariant{ProductID: p.ID, SKU: "TSIII-40-085", Name: "D4.0 x L8.5", Price: dec("5800"), StockQuantity: stock1}
	v2 := models.ProductVariant{ProductID: p.ID, SKU: "TSIII-45-100", Name: "D4.5 x L10.0", Price: dec("6100"), StockQuantity: stock2}
	require.NoError(t, r.DB.Create(&v1).Error)
	require.NoError(t, r.DB.Create(&v2).Error)

	return p, v1, v2
}

// seedGlovesProduct creates a single-SKU product backed by its implicit
// variant row.
func seedGlovesProduct(t *testing.T, r *repo.GormRepo, stock int) (models.Product, models.ProductVariant) {
	t.Helper()

	p := models.Product{
		Name:         "Nitrile Gloves (Box of 100)",
		Slug:         "nitrile-gloves-100",
		BasePrice:    dec("450"),
		SellingPrice: dec("399"),
		IsActive:     true,
	}
	require.NoError(t, r.DB.Create(&p).Error)

	v := models.ProductVariant{ProductID: p.ID, SKU: "PROD-GLOVES-100", Name: p.Name, Price: dec("399"), StockQuantity: stock}
	require.NoError(t, r.DB.Create(&v).Error)

	return p, v
}

func mustProduct(t *testing.T, r *repo.GormRepo, id uint) models.Product {
	t.Helper()

	var p models.Product
	require.NoError(t, r.DB.First(&p, id).Error)
	return p
}

func variantStock(t *testing.T, r *repo.GormRepo, variantID uint) int {
	t.Helper()

	var v models.ProductVariant
	require.NoError(t, r.DB.First(&v, variantID).Error)
	return v.StockQuantity
}
