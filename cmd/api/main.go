package main

import (
	"log"
	"os"

	"github.com/lucasferreira/retailpos-api/internal/application/service"
	"github.com/lucasferreira/retailpos-api/internal/config"
	"github.com/lucasferreira/retailpos-api/internal/infrastructure/database"
	"github.com/lucasferreira/retailpos-api/internal/infrastructure/repository"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/handler"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/routes"
	"github.com/lucasferreira/retailpos-api/pkg/utils"
)

func main() {
	// Load configuration
	cfg := config.Load()

	// Connect to database
	db, err := database.NewPostgresDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	// Run auto-migrations
	if err := database.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	// Seed default data
	if err := database.SeedDefaultData(db); err != nil {
		log.Printf("Warning: Failed to seed default data: %v", err)
	}

	// Initialize JWT manager
	jwtManager := utils.NewJWTManager(
		cfg.JWT.Secret,
		cfg.JWT.ExpiryHours,
		cfg.JWT.RefreshExpiryHours,
	)

	// Initialize repositories
	txManager := repository.NewTxManager(db)
	userRepo := repository.NewUserRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	productRepo := repository.NewProductRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	saleItemRepo := repository.NewSaleItemRepository(db)
	salePaymentRepo := repository.NewSalePaymentRepository(db)
	methodRepo := repository.NewPaymentMethodRepository(db)
	ledgerRepo := repository.NewLedgerRepository(db)
	returnRepo := repository.NewReturnRepository(db)
	returnItemRepo := repository.NewReturnItemRepository(db)

	// Initialize services
	totals := service.NewTotalsEngine(saleRepo, saleItemRepo, salePaymentRepo)
	authService := service.NewAuthService(userRepo, jwtManager)
	cartService := service.NewCartService(txManager, saleRepo, saleItemRepo, productRepo, customerRepo, totals)
	paymentService := service.NewPaymentService(txManager, saleRepo, salePaymentRepo, methodRepo, ledgerRepo, totals)
	checkoutService := service.NewCheckoutService(txManager, saleRepo, saleItemRepo, salePaymentRepo, productRepo, methodRepo, ledgerRepo, totals)
	ledgerService := service.NewLedgerService(txManager, ledgerRepo, customerRepo)
	returnService := service.NewReturnService(txManager, returnRepo, returnItemRepo, saleRepo, saleItemRepo, productRepo, ledgerRepo, userRepo)
	saleService := service.NewSaleService(saleRepo)
	productService := service.NewProductService(productRepo)
	customerService := service.NewCustomerService(customerRepo)
	methodService := service.NewPaymentMethodService(methodRepo)

	// Initialize handlers
	handlers := &routes.Handlers{
		Auth:          handler.NewAuthHandler(authService),
		POS:           handler.NewPOSHandler(cartService, paymentService, checkoutService, ledgerService),
		Sale:          handler.NewSaleHandler(saleService),
		Return:        handler.NewReturnHandler(returnService),
		Ledger:        handler.NewLedgerHandler(ledgerService),
		Product:       handler.NewProductHandler(productService),
		Customer:      handler.NewCustomerHandler(customerService, ledgerService),
		PaymentMethod: handler.NewPaymentMethodHandler(methodService),
	}

	// Setup routes
	router := routes.Setup(cfg, jwtManager, handlers)

	port := cfg.App.Port
	if port == "" {
		port = "8080"
	}

	log.Printf("Starting %s server on port %s...", cfg.App.Name, port)
	log.Printf("Environment: %s", cfg.App.Env)

	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Failed to start server: %v", err)
		os.Exit(1)
	}
}
