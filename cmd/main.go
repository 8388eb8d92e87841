package main

import (
	"time"

	"inventory-service/internal/handler"
	"inventory-service/internal/middleware"
	"inventory-service/internal/mpesa"
	"inventory-service/internal/service"
	"inventory-service/internal/storage"
	"inventory-service/pkg/config"
	"inventory-service/pkg/database"
	"inventory-service/pkg/jwtutil"
	"inventory-service/pkg/logger"
	"inventory-service/prometheus"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"go.uber.org/zap"
)

func main() {
	// Load configuration from .env file and environment variables
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger with config
	logger.InitLogger(cfg)
	log := logger.GetLogger()
	log.Info("Starting inventory service...", zap.String("environment", cfg.Server.Env))

	// Initialize JWT utilities
	jwtutil.Initialize(&cfg.JWT)
	log.Info("JWT utilities initialized")

	// Initialize Prometheus metrics
	prometheus.InitMetrics(cfg)
	log.Info("Prometheus metrics initialized")

	// Initialize database and run migrations
	if err := database.InitDB(cfg); err != nil {
		log.Fatal("Failed to initialize database", zap.Error(err))
	}
	log.Info("Database connection established and migrations completed",
		zap.String("db_host", cfg.DB.Host),
		zap.String("db_name", cfg.DB.DBName))

	// Wire core services: inventory ledger and payment tracker
	db := database.GetDB()
	inventorySvc := service.NewInventoryService(storage.NewInventoryStore(db), log)
	gateway := mpesa.NewClient(&cfg.Mpesa)
	paymentSvc := service.NewPaymentService(storage.NewPaymentStore(db), gateway, &cfg.Mpesa, log)
	handler.Init(inventorySvc, paymentSvc)
	log.Info("Core services initialized", zap.String("mpesa_env", cfg.Mpesa.Env))

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(echomiddleware.Recover())
	e.Use(echomiddleware.CORS())
	e.Use(middleware.RequestIDMiddleware)
	e.Use(prometheus.Middleware())

	// Request logging middleware
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			start := time.Now()

			// Process request
			err := next(c)

			// Log request details
			log := logger.FromContext(c)
			log.Info("HTTP Request",
				zap.String("method", c.Request().Method),
				zap.String("path", c.Request().URL.Path),
				zap.Int("status", c.Response().Status),
				zap.Float64("duration_s", time.Since(start).Seconds()),
				zap.String("ip", c.RealIP()),
			)

			return err
		}
	})

	// Routes
	// Public routes that don't require authentication
	e.GET("/", handler.Hello)
	e.GET("/health", handler.Hello)

	// Prometheus metrics endpoint
	e.GET("/metrics", echo.WrapHandler(prometheus.Handler()))

	// Authentication
	e.POST("/auth/register", handler.Register)
	e.POST("/auth/login", handler.Login)

	// API routes that require authentication
	api := e.Group("/api")
	api.Use(middleware.AuthMiddleware)

	api.GET("/dashboard", handler.Dashboard)

	// Items
	api.POST("/items", handler.CreateItem)
	api.GET("/items", handler.ListItems)
	api.GET("/items/:id", handler.GetItem)
	api.PUT("/items/:id", handler.UpdateItem)
	api.DELETE("/items/:id", handler.DeleteItem)

	// Suppliers
	api.POST("/suppliers", handler.CreateSupplier)
	api.GET("/suppliers", handler.ListSuppliers)
	api.GET("/suppliers/:id", handler.GetSupplier)
	api.PUT("/suppliers/:id", handler.UpdateSupplier)
	api.DELETE("/suppliers/:id", handler.DeleteSupplier)

	// Clients
	api.POST("/clients", handler.CreateClient)
	api.GET("/clients", handler.ListClients)
	api.GET("/clients/:id", handler.GetClient)
	api.PUT("/clients/:id", handler.UpdateClient)
	api.DELETE("/clients/:id", handler.DeleteClient)

	// Supplier orders
	api.POST("/orders", handler.CreateOrder)
	api.GET("/orders", handler.ListOrders)
	api.GET("/orders/:id", handler.GetOrder)
	api.PUT("/orders/:id", handler.UpdateOrder)
	api.DELETE("/orders/:id", handler.DeleteOrder)
	api.POST("/orders/:id/pay-mpesa", handler.PayOrderMpesa)

	// Stock issues
	api.POST("/issues", handler.CreateIssue)
	api.GET("/issues", handler.ListIssues)

	// Payments
	api.POST("/payments", handler.CreatePayment)
	api.GET("/payments", handler.ListPayments)

	// Start server
	port := cfg.Server.Port
	log.Info("Starting server", zap.String("port", port))
	if err := e.Start(":" + port); err != nil {
		log.Fatal("Failed to start server", zap.Error(err))
	}
}
