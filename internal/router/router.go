// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/marketplace-backend/internal/config"
	"github.com/javajoker/marketplace-backend/internal/handlers"
	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/middleware"
	"github.com/javajoker/marketplace-backend/internal/services"
	"github.com/javajoker/marketplace-backend/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config, payments *ledger.TokenLedger, items *ledger.ItemLedger, controller *market.Controller) *gin.Engine {
	// Initialize services
	storageService, _ := services.NewStorageService(cfg)

	authService := services.NewAuthService(db, cfg)
	marketService := services.NewMarketService(db, cfg, controller, authService)
	ledgerService := services.NewLedgerService(payments, items)
	collectionService := services.NewCollectionService(db, items, storageService, authService)
	adminService := services.NewAdminService(db, cfg, payments)
	userService := services.NewUserService(db, payments, controller)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	marketHandler := handlers.NewMarketHandler(marketService, authService)
	walletHandler := handlers.NewWalletHandler(ledgerService, authService)
	collectionHandler := handlers.NewCollectionHandler(collectionService, authService)
	adminHandler := handlers.NewAdminHandler(adminService, ledgerService, authService)
	userHandler := handlers.NewUserHandler(userService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.Frontend.BaseURL))
	r.Use(middleware.I18nMiddleware())
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/register", authHandler.Register)
			auth.POST("/login", authHandler.Login)
			auth.POST("/logout", middleware.AuthRequired(), authHandler.Logout)
			auth.POST("/refresh", authHandler.RefreshToken)
			auth.GET("/me", middleware.AuthRequired(), authHandler.GetProfile)
		}

		// User routes
		users := v1.Group("/users")
		{
			users.GET("/:id", userHandler.GetPublicProfile)

			protected := users.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.PUT("/profile", userHandler.UpdateProfile)
				protected.DELETE("/account", userHandler.DeleteAccount)
			}
		}

		// Listing routes
		listings := v1.Group("/listings")
		{
			listings.GET("", middleware.OptionalAuth(), marketHandler.ListListings)
			listings.GET("/:id", middleware.OptionalAuth(), marketHandler.GetListing)

			protected := listings.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", marketHandler.CreateListing)
				protected.PUT("/:id/price", marketHandler.UpdatePrice)
				protected.POST("/:id/quantity", marketHandler.AddQuantity)
				protected.DELETE("/:id/quantity", marketHandler.RemoveQuantity)
				protected.POST("/:id/buy", middleware.TradeRateLimit(), marketHandler.Buy)
			}
		}

		// Trade routes
		trades := v1.Group("/trades")
		trades.Use(middleware.AuthRequired())
		{
			trades.GET("", marketHandler.ListTrades)
			trades.GET("/:id", marketHandler.GetTrade)
		}

		// Market metadata (public)
		v1.GET("/market/config", marketHandler.GetMarketConfig)

		// Wallet routes
		wallet := v1.Group("/wallet")
		wallet.Use(middleware.AuthRequired())
		{
			wallet.GET("", walletHandler.GetWallet)
			wallet.POST("/approve", walletHandler.Approve)
			wallet.POST("/operator", walletHandler.SetOperatorApproval)
			wallet.GET("/items/:collection_id/:kind", walletHandler.GetItemBalance)
		}

		// Collection routes
		collections := v1.Group("/collections")
		{
			collections.GET("", middleware.OptionalAuth(), collectionHandler.ListCollections)
			collections.GET("/:id", middleware.OptionalAuth(), collectionHandler.GetCollection)

			protected := collections.Group("")
			protected.Use(middleware.AuthRequired())
			{
				protected.POST("", collectionHandler.CreateCollection)
				protected.POST("/:id/mint", collectionHandler.MintKind)
				protected.POST("/:id/media", middleware.UploadRateLimit(), collectionHandler.UploadMedia)
			}
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			admin.GET("/stats", adminHandler.GetDashboardStats)
			admin.GET("/trades", adminHandler.ListAllTrades)
			admin.GET("/audit-logs", adminHandler.ListAuditLogs)
			admin.POST("/faucet", adminHandler.Faucet)
			admin.POST("/users/:id/suspend", adminHandler.SuspendUser)
			admin.POST("/users/:id/unsuspend", adminHandler.UnsuspendUser)
		}
	}

	// Static file serving (for development)
	if cfg.Environment == "development" {
		r.Static("/uploads", "./uploads")
	}

	return r
}
