package service

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
)

type CartService struct {
	Repo *repo.GormRepo
}

func (s *CartService) GetCart(ctx context.Context, userID uint) ([]models.CartItem, error) {
	return s.Repo.GetCart(ctx, userID)
}

func (s *CartService) AddItem(ctx context.Context, userID, productID uint, variantID *uint, qty uint) (*models.CartItem, error) {
	if productID == 0 {
		return nil, fmt.Errorf("%w: product_id required", ErrValidation)
	}
	if qty == 0 {
		return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
	}

	product, err := s.Repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, productID)
		}
		return nil, err
	}
	if product.HasVariants && variantID == nil {
		return nil, fmt.Errorf("%w: product %q", ErrVariantRequired, product.Name)
	}
	if variantID != nil {
		if _, err := s.Repo.GetVariant(ctx, *variantID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: variant %d", ErrNotFound, *variantID)
			}
			return nil, err
		}
	}

	item := models.CartItem{
		UserID:    userID,
		ProductID: productID,
		VariantID: variantID,
		Quantity:  qty,
	}
	if err := s.Repo.AddToCart(ctx, &item); err != nil {
		return nil, err
	}
	return &item, nil
}

// UpdateItem overwrites a line's quantity; qty <= 0 removes the line and
// reports removal instead of erroring.
func (s *CartService) UpdateItem(ctx context.Context, userID, itemID uint, qty int) (removed bool, item *models.CartItem, err error) {
	removed, item, err = s.Repo.UpdateCartItem(ctx, userID, itemID, qty)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return false, nil, fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return removed, item, err
}

func (s *CartService) RemoveItem(ctx context.Context, userID, itemID uint) error {
	err := s.Repo.RemoveCartItem(ctx, userID, itemID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return fmt.Errorf("%w: cart item %d", ErrNotFound, itemID)
	}
	return err
}

func (s *CartService) Clear(ctx context.Context, userID uint) error {
	return s.Repo.ClearCart(ctx, userID)
}
