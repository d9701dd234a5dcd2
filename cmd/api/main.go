package main

import (
	"log"

	_ "timebill/api/swagger" // swagger docs
	"timebill/internal/config"
	"timebill/internal/database"
	"timebill/internal/handler"
	"timebill/internal/middleware"
	"timebill/internal/render"
	"timebill/internal/repository"
	"timebill/internal/service"
	"timebill/internal/websocket"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"
)

// @title           Billable Hours Invoicing API
// @version         1.0
// @description     Backend for tracking billable hours per client company, importing timesheets and generating VAT invoices as PDF or Word documents.
// @host            localhost:8080
// @BasePath        /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Configuration error: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Logger init failed: %v", err)
	}
	defer logger.Sync()

	db, err := database.NewConnection(cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}
	logger.Info("connected to PostgreSQL")

	// Set up WebSocket Hub
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Set up dependencies (Repository -> Service -> Handler)
	txManager := repository.NewTransactionManager(db)
	companyRepo := repository.NewCompanyRepository(db)
	itemRepo := repository.NewBillableItemRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)

	companyService := service.NewCompanyService(companyRepo, cfg.DefaultCurrency)
	itemService := service.NewBillableItemService(itemRepo, companyRepo)
	importService := service.NewImportService(itemRepo, companyRepo, txManager, wsHub, logger)
	invoiceService := service.NewInvoiceService(
		invoiceRepo, itemRepo, companyRepo, txManager, wsHub, logger,
		cfg.Seller, service.InvoiceDefaults{
			VATRate:             cfg.DefaultVATRate,
			PaymentTermsDays:    cfg.PaymentTermsDays,
			PolishVATRate:       cfg.PolishVATRate,
			PolishPaymentMethod: cfg.PolishPaymentMethod,
		},
	)
	statisticsService := service.NewStatisticsService(db)

	renderer := render.NewRenderer()

	// Initialize Handlers
	authHandler := handler.NewAuthHandler(cfg, middleware.GetJWTSecret())
	companyHandler := handler.NewCompanyHandler(companyService)
	itemHandler := handler.NewBillableItemHandler(itemService)
	importHandler := handler.NewImportHandler(importService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService, renderer)
	statisticsHandler := handler.NewStatisticsHandler(statisticsService)

	// Set up Gin Router
	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = cfg.AllowedCORSOrigins
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	// Register API Routes
	authHandler.RegisterRoutes(router.Group(""))

	protected := router.Group("")
	protected.Use(middleware.RequireAuth())
	companyHandler.RegisterRoutes(protected)
	itemHandler.RegisterRoutes(protected)
	importHandler.RegisterRoutes(protected)
	invoiceHandler.RegisterRoutes(protected)
	statisticsHandler.RegisterRoutes(protected)

	logger.Info("server listening", zap.String("port", cfg.Port))
	if err := router.Run(":" + cfg.Port); err != nil {
		logger.Fatal("server failed", zap.Error(err))
	}
}
