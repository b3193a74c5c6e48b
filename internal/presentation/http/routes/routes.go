package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lucasferreira/retailpos-api/internal/config"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/handler"
	"github.com/lucasferreira/retailpos-api/internal/presentation/http/middleware"
	"github.com/lucasferreira/retailpos-api/pkg/utils"
)

// Handlers groups the HTTP handlers wired into the router
type Handlers struct {
	Auth          *handler.AuthHandler
	POS           *handler.POSHandler
	Sale          *handler.SaleHandler
	Return        *handler.ReturnHandler
	Ledger        *handler.LedgerHandler
	Product       *handler.ProductHandler
	Customer      *handler.CustomerHandler
	PaymentMethod *handler.PaymentMethodHandler
}

// Setup configures the Gin router with all routes and middleware
func Setup(cfg *config.Config, jwtManager *utils.JWTManager, h *Handlers) *gin.Engine {
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware())
	router.Use(middleware.CORSMiddleware(&cfg.CORS))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "service": cfg.App.Name})
	})

	v1 := router.Group("/api/v1")

	// Public routes
	auth := v1.Group("/auth")
	{
		auth.POST("/login", h.Auth.Login)
		auth.POST("/refresh", h.Auth.Refresh)
	}

	// Authenticated routes
	rateLimiter := middleware.NewUserRateLimiter(middleware.DefaultRateLimiterConfig())
	protected := v1.Group("")
	protected.Use(middleware.AuthMiddleware(jwtManager))
	protected.Use(rateLimiter.Middleware())
	{
		protected.GET("/auth/profile", h.Auth.Profile)
		protected.POST("/auth/register", middleware.RequireRole(entity.RoleAdmin), h.Auth.Register)

		// Till: the draft sale addressed by X-Session-Key
		pos := protected.Group("/pos")
		{
			pos.GET("/cart", h.POS.GetCart)
			pos.POST("/cart/items", h.POS.AddItem)
			pos.PATCH("/cart/items/:itemId", h.POS.UpdateItem)
			pos.DELETE("/cart/items/:itemId", h.POS.RemoveItem)
			pos.PUT("/cart/customer", h.POS.SetCustomer)
			pos.PUT("/cart/notes", h.POS.SetNotes)
			pos.POST("/cart/payments", h.POS.AddPayment)
			pos.DELETE("/cart/payments/:paymentId", h.POS.RemovePayment)
			pos.POST("/cart/credit", h.POS.ApplyCredit)
			pos.POST("/cart/finalize", h.POS.Finalize)
			pos.POST("/cart/cancel", h.POS.Cancel)
		}

		sales := protected.Group("/sales")
		{
			sales.GET("", h.Sale.List)
			sales.GET("/:id", h.Sale.Get)
		}

		returns := protected.Group("/returns")
		{
			returns.POST("", h.Return.Create)
			returns.GET("", h.Return.List)
			returns.GET("/:id", h.Return.Get)
			returns.POST("/:id/approve", h.Return.Approve)
			returns.POST("/:id/reject", h.Return.Reject)
			returns.POST("/:id/complete", h.Return.Complete)
		}

		ledger := protected.Group("/ledger")
		{
			ledger.GET("", h.Ledger.List)
			ledger.GET("/:id", h.Ledger.Get)
			ledger.GET("/balance/:customerId", h.Ledger.Balance)
			ledger.PUT("/:id/reassign", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Ledger.Reassign)
			ledger.POST("/:id/cancel", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Ledger.Cancel)
		}

		products := protected.Group("/products")
		{
			products.GET("", h.Product.List)
			products.GET("/:id", h.Product.Get)
			products.POST("", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Product.Create)
			products.POST("/:id/restock", middleware.RequireRole(entity.RoleAdmin, entity.RoleManager), h.Product.Restock)
		}

		customers := protected.Group("/customers")
		{
			customers.GET("", h.Customer.List)
			customers.GET("/:id", h.Customer.Get)
			customers.POST("", h.Customer.Create)
		}

		methods := protected.Group("/payment-methods")
		{
			methods.GET("", h.PaymentMethod.List)
			methods.GET("/:id", h.PaymentMethod.Get)
			methods.POST("", middleware.RequireRole(entity.RoleAdmin), h.PaymentMethod.Create)
		}
	}

	return router
}
