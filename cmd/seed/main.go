package main

import (
	"context"
	"log"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/config"
	"github.com/dentsupply/shop/internal/hash"
	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/pkg/db"
)

func main() {
	cfg := config.Load()
	config.MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(ctx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}

	if err := gormDB.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	if err := seed(gormDB); err != nil {
		log.Fatalf("seed error: %v", err)
	}
	log.Println("seed complete")
}

func seed(gormDB *gorm.DB) error {
	return gormDB.Transaction(func(tx *gorm.DB) error {
		implants := models.Category{Name: "Dental Implants", Slug: "dental-implants", DisplayOrder: 1}
		consumables := models.Category{Name: "Consumables", Slug: "consumables", DisplayOrder: 2}
		if err := tx.Create(&implants).Error; err != nil {
			return err
		}
		if err := tx.Create(&consumables).Error; err != nil {
			return err
		}

		osstem := models.Brand{Name: "Osstem", Slug: "osstem", IsActive: true}
		if err := tx.Create(&osstem).Error; err != nil {
			return err
		}

		implant := models.Product{
			BrandID:      &osstem.ID,
			CategoryID:   &implants.ID,
			Name:         "TSIII SA Fixture",
			Slug:         "tsiii-sa-fixture",
			Description:  "Sandblasted, acid-etched implant fixture.",
			BasePrice:    decimal.NewFromInt(6500),
			SellingPrice: decimal.NewFromInt(5800),
			IsActive:     true,
			HasVariants:  true,
		}
		if err := tx.Create(&implant).Error; err != nil {
			return err
		}

		variants := []models.ProductVariant{
			{ProductID: implant.ID, SKU: "TSIII-40-085", Name: "D4.0 x L8.5", Price: decimal.NewFromInt(5800), StockQuantity: 40, LotNumber: "LOT-2408"},
			{ProductID: implant.ID, SKU: "TSIII-45-100", Name: "D4.5 x L10.0", Price: decimal.NewFromInt(6100), StockQuantity: 25, LotNumber: "LOT-2408"},
		}
		if err := tx.Create(&variants).Error; err != nil {
			return err
		}

		gloves := models.Product{
			CategoryID:   &consumables.ID,
			Name:         "Nitrile Gloves (Box of 100)",
			Slug:         "nitrile-gloves-100",
			BasePrice:    decimal.NewFromInt(450),
			SellingPrice: decimal.NewFromInt(399),
			IsActive:     true,
			HasVariants:  false,
		}
		if err := tx.Create(&gloves).Error; err != nil {
			return err
		}
		// Single-SKU products still get one variant row so stock is tracked
		// through the same ledger.
		implicit := models.ProductVariant{
			ProductID:     gloves.ID,
			SKU:           "PROD-GLOVES-100",
			Name:          gloves.Name,
			Price:         gloves.SellingPrice,
			StockQuantity: 500,
		}
		if err := tx.Create(&implicit).Error; err != nil {
			return err
		}

		settings := []models.SiteSetting{
			{Key: "free_shipping_threshold", Value: `5000`, Description: "Subtotal above which shipping is free"},
			{Key: "flat_shipping_fee", Value: `150`, Description: "Shipping fee below the free threshold"},
			{Key: "tax_rate", Value: `0.18`, Description: "GST rate applied to the subtotal"},
		}
		if err := tx.Create(&settings).Error; err != nil {
			return err
		}

		pwHash, err := hash.HashPassword("admin")
		if err != nil {
			return err
		}
		admin := models.User{Username: "admin", PasswordHash: pwHash, Role: "admin"}
		return tx.Create(&admin).Error
	})
}
