package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
	_ "github.com/go-sql-driver/mysql"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/himalayanBull/RameshOrchards/internal/api"
	"github.com/himalayanBull/RameshOrchards/internal/cart"
	"github.com/himalayanBull/RameshOrchards/internal/config"
	"github.com/himalayanBull/RameshOrchards/internal/consumer"
	"github.com/himalayanBull/RameshOrchards/internal/payment"
	"github.com/himalayanBull/RameshOrchards/internal/repository"
	"github.com/himalayanBull/RameshOrchards/internal/service"
	"github.com/himalayanBull/RameshOrchards/migrations"
)

func connectDB(dsn string) (*sql.DB, error) {
	var db *sql.DB
	var err error
	for i := 0; i < 10; i++ {
		db, err = sql.Open("mysql", dsn)
		if err == nil {
			err = db.Ping()
			if err == nil {
				log.Printf("Connected to DB")
				return db, nil
			}
		}
		log.Printf("Retry %d: Failed to connect to DB: %v", i+1, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to DB after retries: %v", err)
}

func main() {
	cfg := config.Load()

	db, err := connectDB(cfg.DBDSN)
	if err != nil {
		panic(err)
	}

	if err := migrations.AutoMigrateOrders(3, db); err != nil {
		log.Fatalf("Failed to migrate orders table: %v", err)
	}
	if err := migrations.AutoMigrateOrderItems(3, db); err != nil {
		log.Fatalf("Failed to migrate order_items table: %v", err)
	}
	if err := migrations.AutoMigrateProducts(3, db); err != nil {
		log.Fatalf("Failed to migrate products table: %v", err)
	}
	if err := migrations.SeedProducts(db); err != nil {
		log.Fatalf("Failed to seed products: %v", err)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr: cfg.RedisAddr,
	})

	kafkaWriter := config.NewKafkaWriter(cfg.KafkaBrokers, cfg.OrderTopic)
	publisher := service.NewKafkaPublisher(kafkaWriter)

	orderRepo := repository.NewOrderRepository(db)
	productRepo := repository.NewProductRepository(db)

	paymentClient := payment.NewClient(cfg.PaymentBaseURL, cfg.PaymentSecretKey)
	guard := service.NewRedisIdempotencyGuard(rdb)

	productSvc := service.NewProductService(productRepo, rdb)
	checkoutSvc := service.NewCheckoutService(orderRepo, paymentClient, publisher, guard, cfg.PublicBaseURL)
	webhookSvc := service.NewWebhookService(orderRepo, publisher, cfg.PaymentWebhookSecret)
	trackingSvc := service.NewTrackingService(orderRepo)
	fulfillmentSvc := service.NewFulfillmentService(orderRepo, publisher)

	carts := cart.NewRegistry()
	storefront := api.NewStorefrontHandler(carts, productSvc, checkoutSvc, webhookSvc, trackingSvc)
	admin := api.NewAdminHandler(fulfillmentSvc, productSvc)

	kafkaReader := config.NewKafkaReader(cfg.KafkaBrokers, cfg.OrderTopic, "storefront-stock-group")
	stockConsumer := consumer.NewConsumer(kafkaReader, productSvc)
	go stockConsumer.Run(context.Background())

	e := echo.New()

	limiterConfig := middleware.RateLimiterConfig{
		Skipper: middleware.DefaultSkipper,
		Store: middleware.NewRateLimiterMemoryStoreWithConfig(
			middleware.RateLimiterMemoryStoreConfig{
				Rate:      rate.Limit(5),
				Burst:     10,
				ExpiresIn: 3 * time.Minute,
			}),
		IdentifierExtractor: func(context echo.Context) (string, error) {
			return context.Request().RemoteAddr, nil
		},
		ErrorHandler: func(context echo.Context, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
		DenyHandler: func(context echo.Context, identifier string, err error) error {
			return context.JSON(429, map[string]string{"error": "rate limit exceeded"})
		},
	}

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.RateLimiterWithConfig(limiterConfig))

	e.GET("/products", storefront.ListProducts)
	e.GET("/products/:id", storefront.GetProduct)

	e.GET("/cart", storefront.GetCart)
	e.DELETE("/cart", storefront.ClearCart)
	e.POST("/cart/items", storefront.AddCartItem)
	e.PUT("/cart/items", storefront.UpdateCartItem)
	e.DELETE("/cart/items/:productID/:packageSize", storefront.RemoveCartItem)

	e.POST("/checkout", storefront.Checkout)
	e.GET("/checkout/success", storefront.CheckoutSuccess)
	e.GET("/checkout/cancel", storefront.CheckoutCancel)

	e.POST("/webhooks/payment", storefront.PaymentWebhook)

	e.GET("/orders/track", storefront.TrackOrder)

	adminGroup := e.Group("/admin")
	adminGroup.Use(echojwt.JWT([]byte(cfg.JWTSecret)))
	adminGroup.PUT("/orders/:invoice/status", admin.AdvanceOrderStatus)
	adminGroup.POST("/products/:id/restock", admin.RestockProduct)

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]interface{}{
			"status":  "ok",
			"service": "rameshorchards-storefront",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	e.Logger.Fatal(e.Start(cfg.ListenAddr))
}
