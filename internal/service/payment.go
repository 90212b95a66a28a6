package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/dentsupply/shop/internal/events"
	"github.com/dentsupply/shop/internal/gateway"
	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
	"github.com/dentsupply/shop/internal/transport"
	"github.com/dentsupply/shop/pkg/logging"
)

const (
	webhookEventCaptured = "payment.captured"
	webhookEventFailed   = "payment.failed"

	currency = "INR"
)

type PaymentService struct {
	Repo     *repo.GormRepo
	Verifier gateway.Verifier
	KeyID    string
	Events   *events.Producer
}

// CreateIntent registers the order with the payment gateway and hands the
// client what it needs to open the payment flow. The amount is the frozen
// order total in minor currency units.
func (s *PaymentService) CreateIntent(ctx context.Context, userID *uint, orderID uint) (*transport.CreatePaymentIntentResponse, error) {
	order, err := s.Repo.GetOrder(ctx, userID, orderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, orderID)
		}
		return nil, err
	}
	if order.PaymentStatus == models.PaymentStatusPaid {
		return nil, fmt.Errorf("%w: order already paid", ErrValidation)
	}

	gatewayOrderID := gateway.NewGatewayOrderID()
	if err := s.Repo.SetGatewayOrderID(ctx, order.ID, gatewayOrderID); err != nil {
		return nil, err
	}

	return &transport.CreatePaymentIntentResponse{
		GatewayOrderID: gatewayOrderID,
		GatewayKey:     s.KeyID,
		Amount:         order.TotalAmount.Mul(decimal.NewFromInt(100)).IntPart(),
		Currency:       currency,
		OrderID:        order.ID,
	}, nil
}

// Verify handles the interactive client callback after gateway confirmation.
// It converges with the webhook on the same paid state: a second arrival
// sees the order already paid and succeeds without side effects.
func (s *PaymentService) Verify(ctx context.Context, userID *uint, req transport.VerifyPaymentRequest) (*transport.VerifyPaymentResponse, error) {
	order, err := s.Repo.GetOrder(ctx, userID, req.OrderID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: order %d", ErrNotFound, req.OrderID)
		}
		return nil, err
	}

	if order.GatewayOrderID != req.GatewayOrderID {
		return nil, ErrPaymentMismatch
	}

	if err := s.Verifier.Verify(req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrVerificationFailed, err)
	}

	if err := s.markPaid(ctx, order, req.GatewayPaymentID); err != nil {
		return nil, err
	}

	return &transport.VerifyPaymentResponse{
		Status:      "success",
		OrderID:     order.ID,
		OrderNumber: order.OrderNumber,
	}, nil
}

// HandleWebhook processes asynchronous gateway events. Unknown events and
// events for unknown gateway orders are acknowledged and dropped, so the
// gateway does not keep retrying them.
func (s *PaymentService) HandleWebhook(ctx context.Context, event transport.WebhookEvent) error {
	l := logging.FromContext(ctx)
	entity := event.Payload.Payment.Entity

	switch event.Event {
	case webhookEventCaptured:
		if entity.OrderID == "" {
			return nil
		}
		order, err := s.Repo.GetOrderByGatewayOrderID(ctx, entity.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("webhook for unknown gateway order", "gateway_order_id", entity.OrderID)
				return nil
			}
			return err
		}
		return s.markPaid(ctx, order, entity.ID)

	case webhookEventFailed:
		if entity.OrderID == "" {
			return nil
		}
		order, err := s.Repo.GetOrderByGatewayOrderID(ctx, entity.OrderID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				l.Warn("webhook for unknown gateway order", "gateway_order_id", entity.OrderID)
				return nil
			}
			return err
		}
		// A failure event after settlement is stale; MarkPaymentFailed
		// refuses to downgrade a paid order.
		return s.Repo.MarkPaymentFailed(ctx, order.ID)

	default:
		l.Info("ignoring webhook event", "event", event.Event)
		return nil
	}
}

func (s *PaymentService) markPaid(ctx context.Context, order *models.Order, gatewayPaymentID string) error {
	applied, err := s.Repo.MarkPaid(ctx, order.ID, gatewayPaymentID)
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	ev := events.NewOrderEvent(events.TypePaymentCaptured, order.ID, order.OrderNumber, order.TotalAmount.StringFixed(2))
	if err := s.Events.Publish(ctx, ev.OrderNumber, ev); err != nil {
		logging.FromContext(ctx).Error("payment event publish failed", "order_id", order.ID, "error", err)
	}
	return nil
}
