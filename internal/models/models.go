package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusConfirmed  OrderStatus = "confirmed"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
	OrderStatusReturned   OrderStatus = "returned"
)

func (s OrderStatus) Known() bool {
	switch s {
	case OrderStatusPending, OrderStatusConfirmed, OrderStatusProcessing,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

type PaymentStatus string

const (
	PaymentStatusPending  PaymentStatus = "pending"
	PaymentStatusPaid     PaymentStatus = "paid"
	PaymentStatusFailed   PaymentStatus = "failed"
	PaymentStatusRefunded PaymentStatus = "refunded"
)

type User struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Username     string `gorm:"unique;not null"          json:"username"`
	PasswordHash string `gorm:"not null"                 json:"-"`
	Role         string `gorm:"not null"                 json:"role"`
}

type Brand struct {
	ID       uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name     string `gorm:"index;not null"           json:"name"`
	Slug     string `gorm:"unique;not null"          json:"slug"`
	LogoURL  string `json:"logo_url"`
	IsActive bool   `gorm:"default:true"             json:"is_active"`
}

type Category struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"index;not null"           json:"name"`
	Slug         string `gorm:"unique;not null"          json:"slug"`
	ParentID     *uint  `json:"parent_id"`
	DisplayOrder int    `gorm:"default:0"                json:"display_order"`
	IsActive     bool   `gorm:"default:true"             json:"is_active"`
}

type Product struct {
	ID           uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	BrandID      *uint           `gorm:"index"                       json:"brand_id"`
	CategoryID   *uint           `gorm:"index"                       json:"category_id"`
	Name         string          `gorm:"index;not null"              json:"name"`
	Slug         string          `gorm:"unique;not null"             json:"slug"`
	Description  string          `json:"description"`
	BasePrice    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"base_price"`
	SellingPrice decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"selling_price"`
	IsActive     bool            `gorm:"default:true"                json:"is_active"`
	HasVariants  bool            `gorm:"default:false"               json:"has_variants"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`

	Variants []ProductVariant `gorm:"constraint:OnDelete:CASCADE" json:"variants,omitempty"`
	Images   []ProductImage   `gorm:"constraint:OnDelete:CASCADE" json:"images,omitempty"`
}

type ProductVariant struct {
	ID            uint            `gorm:"primaryKey;autoIncrement"    json:"id"`
	ProductID     uint            `gorm:"index;not null"              json:"product_id"`
	SKU           string          `gorm:"column:sku;unique;not null"  json:"sku"`
	Name          string          `gorm:"not null"                    json:"name"`
	Price         decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"price"`
	StockQuantity int             `gorm:"default:0;check:stock_quantity>=0" json:"stock_quantity"`
	LotNumber     string          `json:"lot_number"`
	ExpiryDate    *time.Time      `json:"expiry_date"`
}

type ProductImage struct {
	ID           uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	ProductID    uint   `gorm:"index;not null"           json:"product_id"`
	ImageURL     string `gorm:"not null"                 json:"image_url"`
	ImageType    string `gorm:"default:main"             json:"image_type"`
	DisplayOrder int    `gorm:"default:0"                json:"display_order"`
}

type CartItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement"                      json:"id"`
	UserID    uint  `gorm:"uniqueIndex:idx_user_product_variant;not null" json:"user_id"`
	ProductID uint  `gorm:"uniqueIndex:idx_user_product_variant;not null" json:"product_id"`
	VariantID *uint `gorm:"uniqueIndex:idx_user_product_variant"          json:"variant_id"`
	Quantity  uint  `gorm:"default:1;check:quantity>0"                    json:"quantity"`
}

func (CartItem) TableName() string { return "cart_items" }

type Order struct {
	ID          uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderNumber string `gorm:"unique;not null"          json:"order_number"`
	UserID      *uint  `gorm:"index"                    json:"user_id"`
	AddressID   *uint  `json:"address_id"`

	Status        OrderStatus   `gorm:"not null;default:pending" json:"status"`
	PaymentStatus PaymentStatus `gorm:"not null;default:pending" json:"payment_status"`
	PaymentMethod string        `json:"payment_method"`

	GatewayOrderID   string `gorm:"index" json:"gateway_order_id,omitempty"`
	GatewayPaymentID string `json:"gateway_payment_id,omitempty"`

	GuestName  string `json:"guest_name,omitempty"`
	GuestEmail string `json:"guest_email,omitempty"`
	GuestPhone string `json:"guest_phone,omitempty"`

	// Frozen at creation, never recomputed from the live catalog.
	Subtotal    decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"subtotal"`
	ShippingFee decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"shipping_fee"`
	TaxAmount   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"tax_amount"`
	TotalAmount decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_amount"`

	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Items []OrderItem `gorm:"constraint:OnDelete:CASCADE" json:"items,omitempty"`
}

type OrderItem struct {
	ID        uint  `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint  `gorm:"index;not null"           json:"order_id"`
	ProductID uint  `gorm:"not null"                 json:"product_id"`
	VariantID *uint `json:"variant_id"`

	// Snapshot of the line at order time; later catalog edits never touch it.
	ProductName string          `gorm:"not null"                    json:"product_name"`
	SKU         string          `gorm:"column:sku;not null"         json:"sku"`
	Quantity    uint            `gorm:"not null"                    json:"quantity"`
	UnitPrice   decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"unit_price"`
	TotalPrice  decimal.Decimal `gorm:"type:decimal(12,2);not null" json:"total_price"`
}

type SiteSetting struct {
	Key         string    `gorm:"primaryKey"          json:"key"`
	Value       string    `gorm:"type:jsonb;not null" json:"value"`
	Description string    `json:"description,omitempty"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (SiteSetting) TableName() string { return "site_settings" }

// All lists every model registered for migration.
func All() []any {
	return []any{
		&User{}, &Brand{}, &Category{}, &Product{}, &ProductVariant{},
		&ProductImage{}, &CartItem{}, &Order{}, &OrderItem{}, &SiteSetting{},
	}
}
