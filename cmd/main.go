package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"runtime/debug"
	"syscall"
	"time"

	"vendorhub/db"
	"vendorhub/internal/backend"
	"vendorhub/internal/config"
	"vendorhub/internal/invoice"
	"vendorhub/internal/location"
	"vendorhub/internal/web"

	"github.com/robfig/cron/v3"
)

// Global loggers for different output streams
var (
	infoLogger  = log.New(os.Stdout, "", log.LstdFlags)
	errorLogger = log.New(os.Stderr, "", log.LstdFlags)
)

func main() {
	infoLogger.Printf("Starting VendorHub service - Process ID: %d", os.Getpid())
	infoLogger.Printf("Runtime: %s/%s, Go version: %s", runtime.GOOS, runtime.GOARCH, runtime.Version())

	cfg, err := config.LoadConfig()
	if err != nil {
		errorLogger.Fatalf("Failed to load configuration: %v", err)
	}

	sqliteDB, err := db.ConnectToSQLite(cfg.SQLitePath)
	if err != nil {
		errorLogger.Fatalf("Failed to connect to SQLite: %v", err)
	}
	defer sqliteDB.Close()

	if err := db.InitializeSchema(sqliteDB); err != nil {
		errorLogger.Fatalf("Failed to initialize database schema: %v", err)
	}

	repoFactory := db.NewRepositoryFactory(sqliteDB, cfg.DatabaseName)
	geocodeRepo := repoFactory.NewGeocodeCacheRepository()
	snapshotRepo := repoFactory.NewInvoiceSnapshotRepository()

	// Create database manager for concurrent access control
	dbManager := db.NewDBManager()
	defer dbManager.Stop()

	cache, err := location.NewGeoCache(cfg.GeoCacheMaxEntries, cfg.GeoCacheTTL)
	if err != nil {
		errorLogger.Fatalf("Failed to create geocode cache: %v", err)
	}
	if cfg.GeoCachePersist {
		cache.WithStore(geocodeRepo, dbManager)
		infoLogger.Println("Geocode cache persisted to SQLite")
	}

	locationService, err := location.NewLocationService(cfg, cache)
	if err != nil {
		errorLogger.Fatalf("Failed to initialize location service: %v", err)
	}

	brand := invoice.Branding{
		Name:         cfg.BrandName,
		Color:        cfg.BrandColor,
		SupportEmail: cfg.SupportEmail,
	}
	view, err := invoice.NewView(brand)
	if err != nil {
		errorLogger.Fatalf("Failed to load invoice templates: %v", err)
	}
	invoiceService := invoice.NewInvoiceService(
		backend.NewClient(cfg.BackendURL, 10*time.Second),
		snapshotRepo,
		dbManager,
		invoice.NewLayoutEngine(brand),
		view,
		invoice.NewChromePrinter(cfg.ChromePDFEnabled),
	)
	if cfg.ChromePDFEnabled {
		infoLogger.Println("Headless Chrome printing enabled")
	}

	sessions := web.NewSessionStore(cfg.SessionSecret, false)
	router := web.NewRouter(cfg, web.Handlers{
		Invoices:  invoice.NewInvoiceHandlers(invoiceService),
		Locations: location.NewLocationHandlers(locationService, sessions),
		Sessions:  sessions,
	})

	scheduler := cron.New()
	if _, err := scheduler.AddFunc("@hourly", func() { cleanupGeocodeCache(geocodeRepo) }); err != nil {
		errorLogger.Fatalf("Failed to schedule cache cleanup: %v", err)
	}
	scheduler.Start()

	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		infoLogger.Printf("Server is starting on port %s...", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errorLogger.Fatalf("Server ListenAndServe error: %v", err)
		}
		infoLogger.Println("Server ListenAndServe has exited normally")
	}()

	waitForShutdown(server, scheduler)
}

func cleanupGeocodeCache(repo db.GeocodeCacheRepository) {
	defer func() {
		if r := recover(); r != nil {
			errorLogger.Printf("Geocode cache cleanup panic recovered: %v", r)
			errorLogger.Printf("Geocode cache cleanup stack trace: %s", debug.Stack())
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	if _, err := repo.CleanupExpired(ctx); err != nil {
		errorLogger.Printf("Failed to clean up geocode cache: %v", err)
	}
}

func waitForShutdown(server *http.Server, scheduler *cron.Cron) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	infoLogger.Println("Server is running and ready to accept connections...")
	sig := <-stop
	infoLogger.Printf("Received shutdown signal: %v", sig)

	// Wait for a running cleanup job to finish
	<-scheduler.Stop().Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	infoLogger.Println("Shutting down the server...")
	if err := server.Shutdown(shutdownCtx); err != nil {
		errorLogger.Printf("Server Shutdown error: %v", err)
	}
	infoLogger.Println("[SUCCESS] Services stopped")
}
