// cmd/server/main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/javajoker/marketplace-backend/internal/config"
	"github.com/javajoker/marketplace-backend/internal/database"
	"github.com/javajoker/marketplace-backend/internal/i18n"
	"github.com/javajoker/marketplace-backend/internal/ledger"
	"github.com/javajoker/marketplace-backend/internal/market"
	"github.com/javajoker/marketplace-backend/internal/models"
	"github.com/javajoker/marketplace-backend/internal/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	// Initialize database
	db, err := database.Initialize(cfg.Database)
	if err != nil {
		log.Fatal("Failed to initialize database:", err)
	}
	defer database.Close(db)

	// Run database migrations
	if err := database.RunMigrations(db); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	// Seed initial data
	if err := database.SeedInitialData(db); err != nil {
		log.Fatal("Failed to seed initial data:", err)
	}

	// Initialize i18n
	if err := i18n.Initialize(); err != nil {
		log.Fatal("Failed to initialize i18n:", err)
	}

	// Initialize ledgers and the trading controller
	custody := market.Account(cfg.Market.CustodyAccount)
	payments := ledger.NewTokenLedger(custody)
	items := ledger.NewItemLedger(custody, cfg.Market.RoyaltyCapBps)

	if err := restoreCollections(db, items); err != nil {
		log.Fatal("Failed to restore collections:", err)
	}

	controller, err := market.NewController(market.Config{
		PlatformFeeBps: cfg.Market.FeeBps,
		RoyaltyCapBps:  cfg.Market.RoyaltyCapBps,
		Custody:        custody,
		StakingPool:    market.Account(cfg.Market.StakingPoolAccount),
		Foundation:     market.Account(cfg.Market.FoundationAccount),
	}, payments, items)
	if err != nil {
		log.Fatal("Failed to initialize trading controller:", err)
	}

	// Set Gin mode
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Initialize router
	r := router.Initialize(db, cfg, payments, items, controller)

	// Create HTTP server
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      r,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server:", err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Create a deadline for shutdown
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown server
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// restoreCollections re-registers persisted collections with the in-process
// item ledger so kind ids keep incrementing past the catalog rows already on
// record. Item balances themselves are process-lifetime.
func restoreCollections(db *gorm.DB, items *ledger.ItemLedger) error {
	var collections []models.Collection
	if err := db.Find(&collections).Error; err != nil {
		return err
	}

	for _, collection := range collections {
		var lastKind uint64
		err := db.Model(&models.ItemKind{}).
			Where("collection_id = ?", collection.ID).
			Select("COALESCE(MAX(kind), 0)").
			Scan(&lastKind).Error
		if err != nil {
			return err
		}
		items.RestoreCollection(collection.ID, market.Kind(lastKind))
	}

	if len(collections) > 0 {
		log.Printf("Restored %d collections into the item ledger", len(collections))
	}
	return nil
}
