package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/finledger/holdings-backend/internal/api"
	"github.com/finledger/holdings-backend/internal/config"
	"github.com/finledger/holdings-backend/internal/database"
	"github.com/finledger/holdings-backend/internal/oracle"
	"github.com/finledger/holdings-backend/internal/repository"
	"github.com/finledger/holdings-backend/internal/scheduler"
	"github.com/finledger/holdings-backend/internal/secrets"
	"github.com/finledger/holdings-backend/internal/service"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	// Open database connection
	db, err := database.Open(cfg.Database.Path)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	defer db.Close()

	log.Printf("Connected to database: %s", cfg.Database.Path)

	// Apply pending migrations
	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}

	// Create repositories
	accountRepo := repository.NewAccountRepository(db)
	transactionRepo := repository.NewTransactionRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// Secrets codec is optional; without FERNET_KEY the oracle key setting
	// is unavailable but everything else works.
	var codec *secrets.Codec
	if cfg.Secrets.FernetKey != "" {
		codec, err = secrets.NewCodec(cfg.Secrets.FernetKey)
		if err != nil {
			log.Fatalf("Failed to initialize secrets codec: %v", err)
		}
	} else {
		log.Println("FERNET_KEY not set; oracle API key storage disabled")
	}

	// Create services
	systemService := service.NewSystemService(db)
	settingService := service.NewSettingService(settingRepo, codec)
	accountService := service.NewAccountService(accountRepo, transactionRepo)
	mutatorService := service.NewMutatorService(accountRepo)

	oracleClient := oracle.NewQuoteClient(cfg.Oracle.BaseURL, cfg.Oracle.Timeout, settingService.OracleAPIKey)
	priceService := service.NewPriceService(accountRepo, oracleClient)

	// Nightly price sweep
	if cfg.Scheduler.Enabled {
		sched := scheduler.New(priceService)
		if err := sched.Start(cfg.Scheduler.PriceRefreshCron); err != nil {
			log.Fatalf("Failed to start scheduler: %v", err)
		}
		defer sched.Stop()
		log.Printf("Price refresh scheduled: %s", cfg.Scheduler.PriceRefreshCron)
	}

	// Create router
	router := api.NewRouter(api.Services{
		System:  systemService,
		Account: accountService,
		Mutator: mutatorService,
		Price:   priceService,
		Setting: settingService,
	}, cfg)

	// Create HTTP server
	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Printf("Starting server on %s", cfg.Server.Addr)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	// Wait for interrupt signal for graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exited")
}
