package transport

import (
	"github.com/shopspring/decimal"

	"github.com/dentsupply/shop/internal/models"
)

type AddCartItemRequest struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id"`
	Quantity  uint  `json:"quantity"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type UpdateCartItemResponse struct {
	Removed bool             `json:"removed"`
	Item    *models.CartItem `json:"item,omitempty"`
}

// CreateOrderItem is one explicit guest checkout line.
type CreateOrderItem struct {
	ProductID uint  `json:"product_id"`
	VariantID *uint `json:"variant_id"`
	Quantity  uint  `json:"quantity"`
}

// CreateOrderRequest creates an order either from the caller's cart (Items
// omitted) or from an explicit guest line list (Items present).
type CreateOrderRequest struct {
	AddressID     *uint             `json:"address_id"`
	PaymentMethod string            `json:"payment_method"`
	Notes         string            `json:"notes"`
	Items         []CreateOrderItem `json:"items,omitempty"`
	GuestName     string            `json:"guest_name,omitempty"`
	GuestEmail    string            `json:"guest_email,omitempty"`
	GuestPhone    string            `json:"guest_phone,omitempty"`
}

type UpdateOrderStatusRequest struct {
	Status models.OrderStatus `json:"status"`
}

type CreatePaymentIntentRequest struct {
	OrderID uint `json:"order_id"`
}

type CreatePaymentIntentResponse struct {
	GatewayOrderID string `json:"gateway_order_id"`
	GatewayKey     string `json:"gateway_key"`
	Amount         int64  `json:"amount"` // minor currency units
	Currency       string `json:"currency"`
	OrderID        uint   `json:"order_id"`
}

type VerifyPaymentRequest struct {
	OrderID          uint   `json:"order_id"`
	GatewayOrderID   string `json:"gateway_order_id"`
	GatewayPaymentID string `json:"gateway_payment_id"`
	GatewaySignature string `json:"gateway_signature"`
}

type VerifyPaymentResponse struct {
	Status      string `json:"status"`
	OrderID     uint   `json:"order_id"`
	OrderNumber string `json:"order_number"`
}

// WebhookEvent mirrors the gateway's webhook envelope.
type WebhookEvent struct {
	Event   string         `json:"event"`
	Payload WebhookPayload `json:"payload"`
}

type WebhookPayload struct {
	Payment WebhookPaymentWrapper `json:"payment"`
}

type WebhookPaymentWrapper struct {
	Entity WebhookPaymentEntity `json:"entity"`
}

type WebhookPaymentEntity struct {
	ID      string `json:"id"`
	OrderID string `json:"order_id"`
}

type CreateProductRequest struct {
	BrandID      *uint           `json:"brand_id"`
	CategoryID   *uint           `json:"category_id"`
	Name         string          `json:"name"`
	Slug         string          `json:"slug"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `json:"base_price"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	HasVariants  bool            `json:"has_variants"`
}

type PatchProductRequest struct {
	Name         *string          `json:"name"`
	Slug         *string          `json:"slug"`
	Description  *string          `json:"description"`
	BasePrice    *decimal.Decimal `json:"base_price"`
	SellingPrice *decimal.Decimal `json:"selling_price"`
	IsActive     *bool            `json:"is_active"`
	HasVariants  *bool            `json:"has_variants"`
}

type CreateVariantRequest struct {
	SKU           string          `json:"sku"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	StockQuantity int             `json:"stock_quantity"`
	LotNumber     string          `json:"lot_number"`
}

type PatchVariantRequest struct {
	SKU           *string          `json:"sku"`
	Name          *string          `json:"name"`
	Price         *decimal.Decimal `json:"price"`
	StockQuantity *int             `json:"stock_quantity"`
	LotNumber     *string          `json:"lot_number"`
}

type UpsertSettingRequest struct {
	Value       string `json:"value"`
	Description string `json:"description"`
}
