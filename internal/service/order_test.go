package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/transport"
)

func newOrderService(t *testing.T) (*OrderService, *CartService) {
	t.Helper()

	r := newTestRepo(t)
	return &OrderService{Repo: r, Pricing: testPolicy()}, &CartService{Repo: r}
}

func TestCheckoutFromCart(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 2)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{PaymentMethod: "razorpay"})
	require.NoError(t, err)

	require.True(t, strings.HasPrefix(order.OrderNumber, "DS-"))
	require.Len(t, order.OrderNumber, 11)
	require.Equal(t, strings.ToUpper(order.OrderNumber), order.OrderNumber)
	require.Equal(t, models.OrderStatusPending, order.Status)
	require.Equal(t, models.PaymentStatusPending, order.PaymentStatus)

	// 2 x 5800 = 11600, free shipping, 18% tax.
	require.True(t, order.Subtotal.Equal(dec("11600")), "subtotal %s", order.Subtotal)
	require.True(t, order.ShippingFee.IsZero(), "shipping %s", order.ShippingFee)
	require.True(t, order.TaxAmount.Equal(dec("2088")), "tax %s", order.TaxAmount)
	require.True(t, order.TotalAmount.Equal(dec("13688.00")), "total %s", order.TotalAmount)

	require.Len(t, order.Items, 1)
	item := order.Items[0]
	require.Equal(t, implant.Name, item.ProductName)
	require.Equal(t, v1.SKU, item.SKU)
	require.Equal(t, uint(2), item.Quantity)
	require.True(t, item.UnitPrice.Equal(dec("5800")))
	require.True(t, item.TotalPrice.Equal(dec("11600")))

	require.Equal(t, 8, variantStock(t, r, v1.ID))

	items, err := cart.GetCart(ctx, *userID)
	require.NoError(t, err)
	require.Empty(t, items, "cart must be cleared with the order")
}

func TestCheckoutSnapshotSurvivesCatalogEdits(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{})
	require.NoError(t, err)

	require.NoError(t, r.DB.Model(&models.ProductVariant{}).
		Where("id = ?", v1.ID).Update("price", dec("9999")).Error)

	got, err := orders.GetOrder(ctx, userID, order.ID)
	require.NoError(t, err)
	require.True(t, got.Items[0].UnitPrice.Equal(dec("5800")), "unit price %s", got.Items[0].UnitPrice)
	require.True(t, got.TotalAmount.Equal(order.TotalAmount))
}

func TestCheckoutInsufficientStockRollsBack(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, v2 := seedImplantProduct(t, r, 10, 1)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 2)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, *userID, implant.ID, &v2.ID, 5)
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, userID, transport.CreateOrderRequest{})

	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)
	require.Equal(t, v2.SKU, insufficient.SKU)
	require.Equal(t, 5, insufficient.Requested)
	require.Equal(t, 1, insufficient.Available)

	// The first line's reservation rolled back with the transaction.
	require.Equal(t, 10, variantStock(t, r, v1.ID))
	require.Equal(t, 1, variantStock(t, r, v2.ID))

	var orderCount int64
	require.NoError(t, r.DB.Model(&models.Order{}).Count(&orderCount).Error)
	require.Zero(t, orderCount)

	items, err := cart.GetCart(ctx, *userID)
	require.NoError(t, err)
	require.Len(t, items, 2, "cart must survive a failed checkout")
}

func TestCheckoutLastUnit(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()

	implant, v1, _ := seedImplantProduct(t, r, 1, 10)

	first := ptr(uint(1))
	second := ptr(uint(2))
	_, err := cart.AddItem(ctx, *first, implant.ID, &v1.ID, 1)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, *second, implant.ID, &v1.ID, 1)
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, first, transport.CreateOrderRequest{})
	require.NoError(t, err)

	_, err = orders.Checkout(ctx, second, transport.CreateOrderRequest{})
	var insufficient *InsufficientStockError
	require.ErrorAs(t, err, &insufficient)

	require.Equal(t, 0, variantStock(t, r, v1.ID))
}

func TestCheckoutLastUnitConcurrentCallers(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()

	// A single connection serializes the two transactions, standing in for
	// the row guard's serialization under real concurrent load.
	sqlDB, err := r.DB.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	implant, v1, _ := seedImplantProduct(t, r, 1, 10)
	for _, uid := range []uint{1, 2} {
		_, err := cart.AddItem(ctx, uid, implant.ID, &v1.ID, 1)
		require.NoError(t, err)
	}

	results := make(chan error, 2)
	for _, uid := range []uint{1, 2} {
		uid := uid
		go func() {
			_, err := orders.Checkout(ctx, &uid, transport.CreateOrderRequest{})
			results <- err
		}()
	}

	var failures []error
	for i := 0; i < 2; i++ {
		if err := <-results; err != nil {
			failures = append(failures, err)
		}
	}

	require.Len(t, failures, 1, "exactly one caller wins the last unit")
	var insufficient *InsufficientStockError
	require.ErrorAs(t, failures[0], &insufficient)
	require.Equal(t, 0, variantStock(t, r, v1.ID))
}

func TestCheckoutVariantRequired(t *testing.T) {
	orders, _ := newOrderService(t)
	r := orders.Repo

	implant, _, _ := seedImplantProduct(t, r, 10, 10)

	_, err := orders.Checkout(context.Background(), nil, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: implant.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrVariantRequired)
}

func TestCheckoutVariantProductMismatch(t *testing.T) {
	orders, _ := newOrderService(t)
	r := orders.Repo

	_, v1, _ := seedImplantProduct(t, r, 10, 10)
	gloves, _ := seedGlovesProduct(t, r, 100)

	_, err := orders.Checkout(context.Background(), nil, transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: gloves.ID, VariantID: &v1.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)
}

func TestGuestCheckoutImplicitVariant(t *testing.T) {
	orders, _ := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()

	gloves, implicit := seedGlovesProduct(t, r, 100)

	order, err := orders.Checkout(ctx, nil, transport.CreateOrderRequest{
		Items:      []transport.CreateOrderItem{{ProductID: gloves.ID, Quantity: 1}},
		GuestName:  "Dr. Mehta",
		GuestEmail: "clinic@example.com",
	})
	require.NoError(t, err)

	require.Nil(t, order.UserID)
	require.Equal(t, "Dr. Mehta", order.GuestName)
	require.Len(t, order.Items, 1)
	require.Equal(t, implicit.SKU, order.Items[0].SKU)

	// 399 + 150 shipping + 71.82 tax.
	require.True(t, order.TotalAmount.Equal(dec("620.82")), "total %s", order.TotalAmount)
	require.Equal(t, 99, variantStock(t, r, implicit.ID))
}

func TestCheckoutLineSourceExclusivity(t *testing.T) {
	orders, _ := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()

	gloves, _ := seedGlovesProduct(t, r, 100)

	// An authenticated caller may not pass explicit items.
	_, err := orders.Checkout(ctx, ptr(uint(1)), transport.CreateOrderRequest{
		Items: []transport.CreateOrderItem{{ProductID: gloves.ID, Quantity: 1}},
	})
	require.ErrorIs(t, err, ErrValidation)

	// A guest must pass them.
	_, err = orders.Checkout(ctx, nil, transport.CreateOrderRequest{})
	require.ErrorIs(t, err, ErrValidation)

	// An authenticated caller with an empty cart has nothing to order.
	_, err = orders.Checkout(ctx, ptr(uint(1)), transport.CreateOrderRequest{})
	require.ErrorIs(t, err, ErrValidation)
}

func TestCancelRestoresStock(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, v2 := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 3)
	require.NoError(t, err)
	_, err = cart.AddItem(ctx, *userID, implant.ID, &v2.ID, 2)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{})
	require.NoError(t, err)
	require.Equal(t, 7, variantStock(t, r, v1.ID))
	require.Equal(t, 8, variantStock(t, r, v2.ID))

	cancelled, err := orders.Cancel(ctx, userID, order.ID)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusCancelled, cancelled.Status)

	require.Equal(t, 10, variantStock(t, r, v1.ID))
	require.Equal(t, 10, variantStock(t, r, v2.ID))
}

func TestCancelTwiceReleasesOnce(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 4)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{})
	require.NoError(t, err)
	require.Equal(t, 6, variantStock(t, r, v1.ID))

	_, err = orders.Cancel(ctx, userID, order.ID)
	require.NoError(t, err)
	require.Equal(t, 10, variantStock(t, r, v1.ID))

	// The repeat misses the status guard before any release runs.
	_, err = orders.Cancel(ctx, userID, order.ID)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	require.Equal(t, models.OrderStatusCancelled, transition.Current)
	require.Equal(t, 10, variantStock(t, r, v1.ID), "stock restored exactly once")
}

func TestCancelShippedOrderRefused(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{})
	require.NoError(t, err)

	_, err = orders.AdvanceStatus(ctx, order.ID, models.OrderStatusShipped)
	require.NoError(t, err)

	_, err = orders.Cancel(ctx, userID, order.ID)
	var transition *InvalidTransitionError
	require.ErrorAs(t, err, &transition)
	require.Equal(t, models.OrderStatusShipped, transition.Current)

	// Stock stays reserved.
	require.Equal(t, 9, variantStock(t, r, v1.ID))
}

func TestCancelScopedToOwner(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	owner := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *owner, implant.ID, &v1.ID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, owner, transport.CreateOrderRequest{})
	require.NoError(t, err)

	_, err = orders.Cancel(ctx, ptr(uint(2)), order.ID)
	require.ErrorIs(t, err, ErrNotFound)
	_, err = orders.GetOrder(ctx, ptr(uint(2)), order.ID)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestAdvanceStatus(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()
	userID := ptr(uint(1))

	implant, v1, _ := seedImplantProduct(t, r, 10, 10)
	_, err := cart.AddItem(ctx, *userID, implant.ID, &v1.ID, 1)
	require.NoError(t, err)

	order, err := orders.Checkout(ctx, userID, transport.CreateOrderRequest{})
	require.NoError(t, err)

	updated, err := orders.AdvanceStatus(ctx, order.ID, models.OrderStatusProcessing)
	require.NoError(t, err)
	require.Equal(t, models.OrderStatusProcessing, updated.Status)

	_, err = orders.AdvanceStatus(ctx, order.ID, models.OrderStatus("misplaced"))
	require.ErrorIs(t, err, ErrValidation)

	_, err = orders.AdvanceStatus(ctx, 9999, models.OrderStatusShipped)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestListOrdersScopedToUser(t *testing.T) {
	orders, cart := newOrderService(t)
	r := orders.Repo
	ctx := context.Background()

	implant, v1, _ := seedImplantProduct(t, r, 100, 100)
	for _, uid := range []uint{1, 1, 2} {
		_, err := cart.AddItem(ctx, uid, implant.ID, &v1.ID, 1)
		require.NoError(t, err)
		_, err = orders.Checkout(ctx, &uid, transport.CreateOrderRequest{})
		require.NoError(t, err)
	}

	total, list, err := orders.ListOrders(ctx, 1, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	require.Len(t, list, 2)

	total, list, err = orders.ListAllOrders(ctx, 0, 20)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, list, 3)
}
