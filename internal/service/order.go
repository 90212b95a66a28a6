package service

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/config"
	"github.com/dentsupply/shop/internal/events"
	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
	"github.com/dentsupply/shop/internal/transport"
	"github.com/dentsupply/shop/pkg/logging"
)

const orderNumberPrefix = "DS-"

// cancellableStatuses lists the states an order may be cancelled from.
var cancellableStatuses = []models.OrderStatus{
	models.OrderStatusPending,
	models.OrderStatusConfirmed,
	models.OrderStatusProcessing,
}

type OrderService struct {
	Repo    *repo.GormRepo
	Pricing config.PricingPolicy
	Events  *events.Producer
}

// checkoutLine is a resolved line-source entry, whichever shape it came in as.
type checkoutLine struct {
	ProductID uint
	VariantID *uint
	Quantity  uint
}

func newOrderNumber() string {
	u := uuid.New()
	return orderNumberPrefix + strings.ToUpper(hex.EncodeToString(u[:])[:8])
}

// Checkout converts a line source into an immutable order in one database
// transaction: price resolution, stock reservation, order + item snapshot
// insert and cart clearing commit or roll back together.
//
// The line source is the authenticated user's cart or an explicit guest item
// list, never both: an authenticated request carrying items, or a guest
// request without them, is rejected.
func (s *OrderService) Checkout(ctx context.Context, userID *uint, req transport.CreateOrderRequest) (*models.Order, error) {
	fromCart := userID != nil
	if fromCart && req.Items != nil {
		return nil, fmt.Errorf("%w: supply either the cart or an explicit item list, not both", ErrValidation)
	}
	if !fromCart && len(req.Items) == 0 {
		return nil, fmt.Errorf("%w: no items provided for guest order", ErrValidation)
	}
	for _, it := range req.Items {
		if it.ProductID == 0 {
			return nil, fmt.Errorf("%w: product_id required", ErrValidation)
		}
		if it.Quantity == 0 {
			return nil, fmt.Errorf("%w: quantity must be > 0", ErrValidation)
		}
	}

	order, err := s.checkout(ctx, userID, req, newOrderNumber())
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		// Order number collision. Retry once with a fresh number; the caller
		// never sees the conflict.
		order, err = s.checkout(ctx, userID, req, newOrderNumber())
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewOrderEvent(events.TypeOrderCreated, order.ID, order.OrderNumber, order.TotalAmount.StringFixed(2)))
	return order, nil
}

func (s *OrderService) checkout(ctx context.Context, userID *uint, req transport.CreateOrderRequest, orderNumber string) (*models.Order, error) {
	var order *models.Order

	err := s.Repo.Tx(ctx, func(tx *gorm.DB) error {
		fromCart := userID != nil

		lines, err := resolveLines(tx, userID, req.Items)
		if err != nil {
			return err
		}

		items := make([]models.OrderItem, 0, len(lines))
		priceLines := make([]PriceLine, 0, len(lines))

		for _, ln := range lines {
			item, err := snapshotLine(tx, ln)
			if err != nil {
				return err
			}
			items = append(items, *item)
			priceLines = append(priceLines, PriceLine{UnitPrice: item.UnitPrice, Quantity: item.Quantity})
		}

		amounts := ComputeAmounts(priceLines, s.Pricing)

		order = &models.Order{
			OrderNumber:   orderNumber,
			UserID:        userID,
			AddressID:     req.AddressID,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: req.PaymentMethod,
			GuestName:     req.GuestName,
			GuestEmail:    req.GuestEmail,
			GuestPhone:    req.GuestPhone,
			Subtotal:      amounts.Subtotal,
			ShippingFee:   amounts.ShippingFee,
			TaxAmount:     amounts.TaxAmount,
			TotalAmount:   amounts.Total,
			Notes:         req.Notes,
			Items:         items,
		}
		if err := tx.Create(order).Error; err != nil {
			return err
		}

		if fromCart {
			return tx.Where("user_id = ?", *userID).Delete(&models.CartItem{}).Error
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// resolveLines flattens the tagged line source into one shape.
func resolveLines(tx *gorm.DB, userID *uint, guestItems []transport.CreateOrderItem) ([]checkoutLine, error) {
	if userID != nil {
		var cart []models.CartItem
		if err := tx.Where("user_id = ?", *userID).Order("id ASC").Find(&cart).Error; err != nil {
			return nil, err
		}
		if len(cart) == 0 {
			return nil, fmt.Errorf("%w: cart is empty", ErrValidation)
		}
		lines := make([]checkoutLine, 0, len(cart))
		for _, it := range cart {
			lines = append(lines, checkoutLine{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
		}
		return lines, nil
	}

	lines := make([]checkoutLine, 0, len(guestItems))
	for _, it := range guestItems {
		lines = append(lines, checkoutLine{ProductID: it.ProductID, VariantID: it.VariantID, Quantity: it.Quantity})
	}
	return lines, nil
}

// snapshotLine resolves the current price and SKU for a line, reserves its
// stock and freezes the result into an order item. A product without
// variants is backed by its single implicit variant row, so its stock is
// tracked the same way.
func snapshotLine(tx *gorm.DB, ln checkoutLine) (*models.OrderItem, error) {
	var product models.Product
	if err := tx.First(&product, ln.ProductID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: product %d", ErrNotFound, ln.ProductID)
		}
		return nil, err
	}

	var variant models.ProductVariant
	switch {
	case ln.VariantID != nil:
		if err := tx.First(&variant, *ln.VariantID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: variant %d", ErrNotFound, *ln.VariantID)
			}
			return nil, err
		}
		if variant.ProductID != product.ID {
			return nil, fmt.Errorf("%w: variant %d does not belong to product %d", ErrValidation, variant.ID, product.ID)
		}
	case product.HasVariants:
		return nil, fmt.Errorf("%w: product %q", ErrVariantRequired, product.Name)
	default:
		// Implicit variant of a single-SKU product.
		if err := tx.Where("product_id = ?", product.ID).First(&variant).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, fmt.Errorf("%w: product %d has no stock record", ErrNotFound, product.ID)
			}
			return nil, err
		}
	}

	if err := repo.ReserveStock(tx, variant.ID, ln.Quantity); err != nil {
		if errors.Is(err, repo.ErrInsufficientStock) {
			return nil, &InsufficientStockError{
				SKU:       variant.SKU,
				Requested: int(ln.Quantity),
				Available: variant.StockQuantity,
			}
		}
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: variant %d", ErrNotFound, variant.ID)
		}
		return nil, err
	}

	variantID := variant.ID
	return &models.OrderItem{
		ProductID:   product.ID,
		VariantID:   &variantID,
		ProductName: product.Name,
		SKU:         variant.SKU,
		Quantity:    ln.Quantity,
		UnitPrice:   variant.Price,
		TotalPrice:  variant.Price.Mul(decimal.NewFromInt(int64(ln.Quantity))),
	}, nil
}

// Cancel releases every reserved unit and flips the order to cancelled, all
// in one transaction. Orders that already shipped (or worse) stay put.
func (s *OrderService) Cancel(ctx context.Context, userID *uint, orderID uint) (*models.Order, error) {
	var order models.Order

	err := s.Repo.Tx(ctx, func(tx *gorm.DB) error {
		q := tx.Preload("Items").Where("id = ?", orderID)
		if userID != nil {
			q = q.Where("user_id = ?", *userID)
		} else {
			q = q.Where("user_id IS NULL")
		}
		if err := q.First(&order).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: order %d", ErrNotFound, orderID)
			}
			return err
		}

		// The guarded UPDATE, not the read above, decides whether this
		// cancellation wins: a concurrent cancel or status change makes the
		// guard miss and nothing gets released.
		res := tx.Model(&models.Order{}).
			Where("id = ? AND status IN ?", order.ID, cancellableStatuses).
			Update("status", models.OrderStatusCancelled)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var current models.Order
			if err := tx.Select("status").First(&current, order.ID).Error; err != nil {
				return err
			}
			return &InvalidTransitionError{Current: current.Status, Attempted: models.OrderStatusCancelled}
		}

		for _, item := range order.Items {
			if item.VariantID == nil {
				continue
			}
			if err := repo.ReleaseStock(tx, *item.VariantID, item.Quantity); err != nil {
				return err
			}
		}

		order.Status = models.OrderStatusCancelled
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.NewOrderEvent(events.TypeOrderCancelled, order.ID, order.OrderNumber, ""))
	return &order, nil
}

// AdvanceStatus is the administrative status override. It only checks that
// the target is a known status; staff may move orders forward or backward.
func (s *OrderService) AdvanceStatus(ctx context.Context, orderID uint, status models.OrderStatus) (*models.Order, error) {
	if !status.Known() {
		return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, status)
	}

	if err := s.Repo.UpdateOrderStatus(ctx, orderID, status); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	return s.Repo.GetOrderAny(ctx, orderID)
}

func (s *OrderService) GetOrder(ctx context.Context, userID *uint, orderID uint) (*models.Order, error) {
	order, err := s.Repo.GetOrder(ctx, userID, orderID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
	}
	return order, err
}

func (s *OrderService) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListOrders(ctx, userID, offset, limit)
}

func (s *OrderService) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	return s.Repo.ListAllOrders(ctx, offset, limit)
}

func (s *OrderService) publish(ctx context.Context, ev events.OrderEvent) {
	if err := s.Events.Publish(ctx, ev.OrderNumber, ev); err != nil {
		logging.FromContext(ctx).Error("order event publish failed", "type", ev.Type, "order_id", ev.OrderID, "error", err)
	}
}
