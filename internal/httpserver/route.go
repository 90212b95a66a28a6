package httpserver

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/dentsupply/shop/internal/middleware/auth"
)

type Deps struct {
	CartHandler     *CartHTTP
	OrderHandler    *OrderHTTP
	PaymentHandler  *PaymentHTTP
	CatalogHandler  *CatalogHTTP
	SettingsHandler *SettingsHTTP
	JWTSecret       []byte
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(http.StatusOK) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(http.StatusOK) })

	authMW := auth.New(d.JWTSecret)

	e.GET("/products", d.CatalogHandler.GetProducts)
	e.GET("/products/:id", d.CatalogHandler.GetProduct)
	e.GET("/brands", d.CatalogHandler.GetBrands)
	e.GET("/categories", d.CatalogHandler.GetCategories)

	cart := e.Group("/cart", authMW.RequireAuth)
	cart.GET("", d.CartHandler.GetCart)
	cart.POST("", d.CartHandler.AddItem)
	cart.PATCH("/items/:id", d.CartHandler.UpdateItem)
	cart.DELETE("/items/:id", d.CartHandler.RemoveItem)
	cart.DELETE("", d.CartHandler.Clear)

	// Checkout and payment serve guests too; identity is attached when present.
	orders := e.Group("/orders", authMW.OptionalAuth)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("/:id", d.OrderHandler.GetOrder)
	orders.POST("/:id/cancel", d.OrderHandler.CancelOrder)
	e.GET("/orders", d.OrderHandler.ListOrders, authMW.RequireAuth)

	payments := e.Group("/payments", authMW.OptionalAuth)
	payments.POST("/create-order", d.PaymentHandler.CreateIntent)
	payments.POST("/verify", d.PaymentHandler.Verify)
	e.POST("/payments/webhook", d.PaymentHandler.Webhook)

	admin := e.Group("/admin", authMW.RequireStaff)
	admin.GET("/orders", d.OrderHandler.ListAllOrders)
	admin.PATCH("/orders/:id/status", d.OrderHandler.UpdateStatus)
	admin.POST("/products", d.CatalogHandler.CreateProduct)
	admin.PATCH("/products/:id", d.CatalogHandler.PatchProduct)
	admin.DELETE("/products/:id", d.CatalogHandler.DeleteProduct)
	admin.POST("/products/:id/variants", d.CatalogHandler.CreateVariant)
	admin.PATCH("/variants/:id", d.CatalogHandler.PatchVariant)
	admin.DELETE("/variants/:id", d.CatalogHandler.DeleteVariant)
	admin.GET("/settings", d.SettingsHandler.List)
	admin.GET("/settings/:key", d.SettingsHandler.Get)
	// Settings writes change pricing policy; staff can read them, only
	// admins change them.
	admin.PUT("/settings/:key", d.SettingsHandler.Upsert, authMW.RequireAdmin)
}
