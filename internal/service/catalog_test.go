package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/transport"
)

func TestCreateProductWithoutVariantsGetsImplicitVariant(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:         "Prophy Paste",
		Slug:         "prophy-paste",
		BasePrice:    dec("220"),
		SellingPrice: dec("199"),
	})
	require.NoError(t, err)

	require.Len(t, p.Variants, 1)
	implicit := p.Variants[0]
	require.Equal(t, fmt.Sprintf("PROD-%d", p.ID), implicit.SKU)
	require.True(t, implicit.Price.Equal(dec("199")))
	require.Zero(t, implicit.StockQuantity)
}

func TestCreateProductWithVariants(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	p, err := svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name:         "Composite Kit",
		Slug:         "composite-kit",
		BasePrice:    dec("3000"),
		SellingPrice: dec("2700"),
		HasVariants:  true,
	})
	require.NoError(t, err)
	require.Empty(t, p.Variants, "variant products carry no implicit variant")

	v, err := svc.CreateVariant(ctx, p.ID, transport.CreateVariantRequest{
		SKU: "COMP-A2", Name: "Shade A2", Price: dec("2700"), StockQuantity: 12,
	})
	require.NoError(t, err)
	require.Equal(t, 12, v.StockQuantity)

	got, err := svc.GetProduct(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Variants, 1)
}

func TestCreateProductValidation(t *testing.T) {
	svc := &CatalogService{Repo: newTestRepo(t)}
	ctx := context.Background()

	_, err := svc.CreateProduct(ctx, transport.CreateProductRequest{Slug: "no-name"})
	require.ErrorIs(t, err, ErrValidation)

	_, err = svc.CreateProduct(ctx, transport.CreateProductRequest{
		Name: "Negative", Slug: "negative", SellingPrice: dec("-1"),
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestPatchProduct(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)

	patched, err := svc.PatchProduct(ctx, transport.PatchProductRequest{
		SellingPrice: ptr(dec("379")),
		IsActive:     ptr(false),
	}, gloves.ID)
	require.NoError(t, err)
	require.True(t, patched.SellingPrice.Equal(dec("379")))
	require.False(t, patched.IsActive)

	_, err = svc.PatchProduct(ctx, transport.PatchProductRequest{}, 9999)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestPatchVariantStock(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	_, v1, _ := seedImplantProduct(t, r, 10, 10)

	patched, err := svc.PatchVariant(ctx, transport.PatchVariantRequest{StockQuantity: ptr(25)}, v1.ID)
	require.NoError(t, err)
	require.Equal(t, 25, patched.StockQuantity)

	_, err = svc.PatchVariant(ctx, transport.PatchVariantRequest{StockQuantity: ptr(-1)}, v1.ID)
	require.ErrorIs(t, err, ErrValidation)
}

func TestInactiveProductsHiddenFromListing(t *testing.T) {
	r := newTestRepo(t)
	svc := &CatalogService{Repo: r}
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)
	require.NoError(t, r.DB.Model(&models.Product{}).
		Where("id = ?", gloves.ID).Update("is_active", false).Error)

	total, list, err := svc.GetProducts(ctx, 0, 20)
	require.NoError(t, err)
	require.Zero(t, total)
	require.Empty(t, list)

	// Direct lookups still resolve for order history and admin use.
	_, err = svc.GetProduct(ctx, gloves.ID)
	require.NoError(t, err)
}
