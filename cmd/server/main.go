package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"library-lending/internal/adapters/http/middleware"
	"library-lending/internal/adapters/http/routes"
	"library-lending/internal/adapters/persistence/models"
	"library-lending/internal/adapters/persistence/repositories"
	"library-lending/internal/config"
	"library-lending/internal/core/services"

	"github.com/gofiber/fiber/v2"

	_ "library-lending/docs" // Swagger docs
)

// @title Library Lending API
// @version 1.0
// @description Book catalog, membership and lending API with overdue tracking and fines

// @contact.name API Support

// @BasePath /api/v1

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("❌ Failed to load configuration: %v", err)
	}

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	defer config.CloseDatabase()

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatalf("❌ Failed to auto migrate: %v", err)
	}
	log.Println("✅ Database migration completed")

	// Seed sample data in development
	if cfg.IsDev() {
		if err := config.NewSeeder(db).Run(); err != nil {
			log.Printf("⚠️ Warning: Failed to seed data: %v", err)
		}
	}

	// Lending events (disabled when NATS_URL is empty)
	notifier, err := services.NewNotificationService(cfg.Events.NATSURL, cfg.Events.Subject)
	if err != nil {
		log.Fatalf("❌ Failed to connect to NATS: %v", err)
	}
	defer notifier.Close()
	if !notifier.IsEnabled() {
		log.Println("⚠️ NATS_URL not set, lending events are not published")
	}

	// Initialize services
	store := repositories.NewStore(db)
	lendingCfg := services.LendingConfig{
		LoanPeriodDays:   cfg.Lending.LoanPeriodDays,
		FinePerDay:       cfg.Lending.FinePerDay,
		OverdueSweepCron: cfg.Lending.OverdueSweepCron,
	}

	overdueService := services.NewOverdueService(store, notifier, lendingCfg)
	if err := overdueService.Start(); err != nil {
		log.Fatalf("❌ Failed to start overdue sweep: %v", err)
	}
	defer overdueService.Stop()

	// Create Fiber app
	app := fiber.New(middleware.FiberConfig("Library Lending API v1.0"))

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes
	routes.Setup(app, &routes.Services{
		AppMode: cfg.AppMode,
		Ping:    config.HealthCheck,
		Books:   services.NewBookService(store),
		Members: services.NewMemberService(store, nil),
		Lending: services.NewLendingService(store, overdueService, notifier, lendingCfg),
	})

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Printf("🚀 Server starting on port %s [MODE: %s]", cfg.Port, cfg.AppMode)
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatalf("❌ Failed to start server: %v", err)
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("❌ Error during shutdown: %v", err)
	}
	log.Println("✅ Server stopped gracefully")
}
