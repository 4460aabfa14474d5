package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"

	"github.com/siamware/chatshop-backend/database"
	"github.com/siamware/chatshop-backend/internal/bot"
	"github.com/siamware/chatshop-backend/internal/catalog"
	"github.com/siamware/chatshop-backend/internal/handlers"
	"github.com/siamware/chatshop-backend/internal/jobs"
	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/routes"
	"github.com/siamware/chatshop-backend/internal/services"
	"github.com/siamware/chatshop-backend/internal/storage"
)

func main() {
	// Load .env file for local development
	if os.Getenv("INSTANCE_CONNECTION_NAME") == "" {
		err := godotenv.Load(".env")
		if err != nil {
			err = godotenv.Load("environments/.env.development")
			if err != nil {
				log.Println("⚠️  No .env file found - checking environment variables")
			}
		}
	}

	// Initialize storage
	var store storage.Store

	if os.Getenv("USE_MEMORY_STORE") == "true" {
		log.Println("⚠️  Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		log.Println("📦 Connecting to PostgreSQL database...")
		database.Connect()

		log.Println("🔄 Running database migrations...")
		err := database.DB.AutoMigrate(
			&models.Product{},
			&models.ProductUnit{},
			&models.OptionGroup{},
			&models.Customer{},
			&models.Order{},
			&models.OrderItem{},
			&models.AuthLinkage{},
		)
		if err != nil {
			log.Fatal("Failed to migrate database:", err)
		}
		log.Println("✅ Database migrations completed!")

		store = storage.NewDatabaseStore(database.DB)
		log.Println("✅ Using PostgreSQL database storage")
	}

	// Twilio is optional: without it OTP codes are logged instead of sent,
	// which is how local development runs.
	var sms services.SMSSender
	twilioService, err := services.NewTwilioService()
	if err != nil {
		log.Printf("⚠️  Twilio not configured - OTP codes will be logged: %v", err)
	} else {
		sms = twilioService
		log.Println("✅ Twilio SMS service initialized")
	}

	// Outbound messaging
	messenger, err := services.NewMessengerService()
	if err != nil {
		log.Fatal("Failed to initialize Send API client:", err)
	}
	log.Println("✅ Send API client initialized")

	// Core services
	otpService := services.NewOTPService(store, sms)
	accountService := services.NewAccountService(store)
	orderService := services.NewOrderService(store)

	// Catalog snapshot cache
	cache := catalog.NewCache(store, catalog.DefaultTTL)
	cache.Warm()

	// Session store and dialogue engine
	sessions := bot.NewMemorySessionStore(bot.DefaultSessionTTL)
	engine := bot.NewEngine(sessions, cache, otpService, accountService, orderService, messenger)

	// Abandoned-cart reminders
	reminderJob := jobs.NewReminderJob(sessions, messenger)
	reminderJob.Start()

	log.Println("✅ All services initialized")

	// Create fiber app
	app := fiber.New(fiber.Config{
		AppName: "ChatShop Backend v1.0.0",
		ErrorHandler: func(c *fiber.Ctx, err error) error {
			code := fiber.StatusInternalServerError
			if e, ok := err.(*fiber.Error); ok {
				code = e.Code
			}
			return c.Status(code).JSON(fiber.Map{
				"error": err.Error(),
			})
		},
	})

	// Middleware
	app.Use(logger.New(logger.Config{
		Format: "[${time}] ${status} - ${latency} ${method} ${path}\n",
	}))
	app.Use(recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, PUT, DELETE, PATCH, OPTIONS",
	}))

	// Health check endpoint for monitoring
	app.Get("/health", func(c *fiber.Ctx) error {
		status := "healthy"
		statusCode := 200

		if os.Getenv("USE_MEMORY_STORE") != "true" && database.DB != nil {
			sqlDB, err := database.DB.DB()
			if err != nil || sqlDB.Ping() != nil {
				status = "unhealthy"
				statusCode = 503
			}
		}

		return c.Status(statusCode).JSON(fiber.Map{
			"status": status,
			"services": fiber.Map{
				"database": status == "healthy",
				"sms":      sms != nil,
				"sessions": len(sessions.Active()),
			},
		})
	})

	// Setup routes
	webhookHandler := handlers.NewWebhookHandler(engine)
	routes.SetupRoutes(app, store, cache, webhookHandler)

	// Get port from environment or use default
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	// Handle graceful shutdown
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-c
		log.Println("\n🛑 Gracefully shutting down...")
		reminderJob.Stop()
		sessions.Stop()
		_ = app.ShutdownWithTimeout(10 * time.Second)
	}()

	// Start server
	log.Println("========================================")
	log.Printf("🚀 ChatShop Backend starting on port %s", port)
	log.Printf("📊 Storage: %s", getStorageType())
	log.Printf("🌍 Environment: %s", getEnvironment())
	log.Printf("📱 SMS OTP: %s", getSMSStatus(sms))
	log.Println("========================================")

	log.Fatal(app.Listen(":" + port))
}

func getEnvironment() string {
	if os.Getenv("INSTANCE_CONNECTION_NAME") != "" {
		return "Production (Cloud Run)"
	}
	return "Development (Local)"
}

func getStorageType() string {
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		return "In-Memory (Testing)"
	}
	return "PostgreSQL Database"
}

func getSMSStatus(sms services.SMSSender) string {
	if sms == nil {
		return "Not configured (codes logged)"
	}
	return "Configured"
}
