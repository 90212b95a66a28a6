package repo

import (
	"context"

	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/models"
)

// GetOrder loads an order with its items, scoped to the owning user.
// userID == nil scopes to guest orders, so an authenticated caller can never
// read another user's order; the miss surfaces as a plain record-not-found.
func (r *GormRepo) GetOrder(ctx context.Context, userID *uint, orderID uint) (*models.Order, error) {
	q := r.DB.WithContext(ctx).Preload("Items").Where("id = ?", orderID)
	if userID != nil {
		q = q.Where("user_id = ?", *userID)
	} else {
		q = q.Where("user_id IS NULL")
	}

	var order models.Order
	if err := q.First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrderAny is the administrative lookup with no ownership scope.
func (r *GormRepo) GetOrderAny(ctx context.Context, orderID uint) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).Preload("Items").First(&order, orderID).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) GetOrderByGatewayOrderID(ctx context.Context, gatewayOrderID string) (*models.Order, error) {
	var order models.Order
	if err := r.DB.WithContext(ctx).
		Where("gateway_order_id = ?", gatewayOrderID).First(&order).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

func (r *GormRepo) ListOrders(ctx context.Context, userID uint, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{}).Where("user_id = ?", userID)

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) ListAllOrders(ctx context.Context, offset, limit int) (int64, []models.Order, error) {
	q := r.DB.WithContext(ctx).Model(&models.Order{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return 0, nil, err
	}

	var orders []models.Order
	if err := q.Preload("Items").Order("created_at DESC").
		Offset(offset).Limit(limit).Find(&orders).Error; err != nil {
		return 0, nil, err
	}
	return total, orders, nil
}

func (r *GormRepo) UpdateOrderStatus(ctx context.Context, orderID uint, status models.OrderStatus) error {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).Update("status", status)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *GormRepo) SetGatewayOrderID(ctx context.Context, orderID uint, gatewayOrderID string) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ?", orderID).Update("gateway_order_id", gatewayOrderID).Error
}

// MarkPaid is the single idempotent payment transition. Whichever of the
// verify call and the webhook lands first flips the order to paid/confirmed;
// the other misses the guard and changes nothing. The guard makes `applied`
// exact: at most one caller per order ever sees true.
func (r *GormRepo) MarkPaid(ctx context.Context, orderID uint, gatewayPaymentID string) (applied bool, err error) {
	res := r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, models.PaymentStatusPaid).
		Updates(map[string]any{
			"payment_status":     models.PaymentStatusPaid,
			"status":             models.OrderStatusConfirmed,
			"gateway_payment_id": gatewayPaymentID,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkPaymentFailed records a failed payment unless the order already
// settled; a late failure event for a paid order is stale and ignored.
func (r *GormRepo) MarkPaymentFailed(ctx context.Context, orderID uint) error {
	return r.DB.WithContext(ctx).Model(&models.Order{}).
		Where("id = ? AND payment_status <> ?", orderID, models.PaymentStatusPaid).
		Update("payment_status", models.PaymentStatusFailed).Error
}
