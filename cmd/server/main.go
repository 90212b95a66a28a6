package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/dentsupply/shop/internal/config"
	"github.com/dentsupply/shop/internal/events"
	"github.com/dentsupply/shop/internal/gateway"
	"github.com/dentsupply/shop/internal/httpserver"
	"github.com/dentsupply/shop/internal/models"
	"github.com/dentsupply/shop/internal/repo"
	"github.com/dentsupply/shop/internal/service"
	"github.com/dentsupply/shop/pkg/db"
	"github.com/dentsupply/shop/pkg/logging"
	loggingmw "github.com/dentsupply/shop/pkg/middleware/logging"
)

func main() {
	cfg := config.Load().MustServer()
	logger := logging.New(cfg.LogLevel)
	slog.SetDefault(logger)

	e := echo.New()
	e.HideBanner = true

	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.Use(loggingmw.RequestLogger(logger))

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	gormDB, err := db.Open(initCtx, cfg.DatabaseURL)
	cancel()
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	if err := gormDB.AutoMigrate(models.All()...); err != nil {
		log.Fatalf("db migrate error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.OrderTopic)
	defer producer.Close()

	r := &repo.GormRepo{DB: gormDB}

	cartService := &service.CartService{Repo: r}
	orderService := &service.OrderService{Repo: r, Pricing: cfg.Pricing, Events: producer}
	paymentService := &service.PaymentService{
		Repo:     r,
		Verifier: &gateway.HMACVerifier{Secret: cfg.GatewayKeySecret, Logger: logger},
		KeyID:    cfg.GatewayKeyID,
		Events:   producer,
	}
	catalogService := &service.CatalogService{Repo: r}
	settingsService := &service.SettingsService{Repo: r}

	httpserver.Register(e, &httpserver.Deps{
		CartHandler:     &httpserver.CartHTTP{Svc: cartService},
		OrderHandler:    &httpserver.OrderHTTP{Svc: orderService},
		PaymentHandler:  &httpserver.PaymentHTTP{Svc: paymentService},
		CatalogHandler:  &httpserver.CatalogHTTP{Svc: catalogService},
		SettingsHandler: &httpserver.SettingsHTTP{Svc: settingsService},
		JWTSecret:       cfg.JWTSecret,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		log.Printf("starting server on %s...", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("echo start: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt)
	<-stop
	log.Println("shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		log.Printf("echo shutdown: %v", err)
	}

	if sqlDB, err := gormDB.DB(); err == nil {
		sqlDB.Close()
	}

	log.Println("server stopped")
}
