package httpserver

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentsupply/shop/internal/service"
	"github.com/dentsupply/shop/internal/transport"
	"github.com/dentsupply/shop/pkg/logging"
)

type PaymentHTTP struct {
	Svc *service.PaymentService
}

func (h *PaymentHTTP) CreateIntent(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.create_intent")

	var req transport.CreatePaymentIntentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("create_intent_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.CreateIntent(ctx, optionalUserID(c), req.OrderID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("create_intent_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrValidation):
			l.Warn("create_intent_error", "status", 400, "error", err)
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		default:
			l.Error("create_intent_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("payment_intent_created", "order_id", resp.OrderID)
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHTTP) Verify(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.verify")

	var req transport.VerifyPaymentRequest
	if err := c.Bind(&req); err != nil {
		l.Warn("verify_payment_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	resp, err := h.Svc.Verify(ctx, optionalUserID(c), req)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrNotFound):
			l.Warn("verify_payment_error", "status", 404, "error", err)
			return echo.NewHTTPError(http.StatusNotFound, "order not found")
		case errors.Is(err, service.ErrPaymentMismatch):
			l.Warn("verify_payment_error", "status", 400, "reason", "order id mismatch")
			return echo.NewHTTPError(http.StatusBadRequest, "order id mismatch")
		case errors.Is(err, service.ErrVerificationFailed):
			// Signature material stays out of the response and the log.
			l.Warn("verify_payment_error", "status", 400, "reason", "verification failed")
			return echo.NewHTTPError(http.StatusBadRequest, "payment verification failed")
		default:
			l.Error("verify_payment_error", "status", 500, "error", err)
			return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
		}
	}

	l.Info("payment_verified", "order_id", resp.OrderID)
	return c.JSON(http.StatusOK, resp)
}

func (h *PaymentHTTP) Webhook(c echo.Context) error {
	ctx := c.Request().Context()
	l := logging.FromContext(ctx).With("handler", "payment.webhook")

	var event transport.WebhookEvent
	if err := c.Bind(&event); err != nil {
		l.Warn("webhook_error", "status", 400, "error", err)
		return echo.NewHTTPError(http.StatusBadRequest, "invalid body")
	}

	if err := h.Svc.HandleWebhook(ctx, event); err != nil {
		l.Error("webhook_error", "status", 500, "error", err)
		return echo.NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	return c.JSON(http.StatusOK, map[string]string{"status": "received"})
}
