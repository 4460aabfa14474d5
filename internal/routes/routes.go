package routes

import (
	"log"
	"os"

	"github.com/gofiber/fiber/v2"

	"github.com/siamware/chatshop-backend/internal/catalog"
	"github.com/siamware/chatshop-backend/internal/handlers"
	"github.com/siamware/chatshop-backend/internal/middleware"
	"github.com/siamware/chatshop-backend/internal/storage"
)

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, store storage.Store, cache *catalog.Cache, webhook *handlers.WebhookHandler) {

	// Root endpoint
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"message": "Welcome to ChatShop Backend!",
			"version": "1.0.0",
			"endpoints": fiber.Map{
				"health":    "/health",
				"api":       "/api",
				"webhook":   "/webhook/messenger",
				"test_chat": "/test/chat",
			},
		})
	})

	// ========== WEBHOOK ROUTES ==========
	webhooks := app.Group("/webhook")

	// Subscription verification handshake
	webhooks.Get("/messenger", webhook.HandleVerify)

	// Messenger webhook - ENVIRONMENT-AWARE VALIDATION
	if os.Getenv("ENVIRONMENT") == "development" || os.Getenv("DISABLE_WEBHOOK_VALIDATION") == "true" {
		// Development: Skip validation for ngrok
		webhooks.Post("/messenger", webhook.HandleWebhook)
		if os.Getenv("ENVIRONMENT") == "development" {
			log.Println("⚠️  Messenger webhook validation DISABLED for development")
		}
	} else {
		// Production: Validate webhook signature
		webhooks.Post("/messenger", middleware.ValidatePlatformSignature(), webhook.HandleWebhook)
	}

	// ========== TEST ROUTES (Development Only) ==========
	app.Post("/test/chat", webhook.HandleTestWebhook)

	// ========== ADMIN API ROUTES ==========
	productHandler := handlers.NewProductHandler(store, cache)
	orderHandler := handlers.NewOrderHandler(store)

	api := app.Group("/api", middleware.RequireAdmin())

	products := api.Group("/products")
	products.Post("/", productHandler.CreateProduct)
	products.Get("/", productHandler.GetProducts)
	products.Get("/:id", productHandler.GetProduct)
	products.Put("/:id", productHandler.UpdateProduct)
	products.Delete("/:id", productHandler.DeleteProduct)

	orders := api.Group("/orders")
	orders.Get("/", orderHandler.GetOrders)
	orders.Get("/:ref", orderHandler.GetOrder)
	orders.Patch("/:ref/status", orderHandler.UpdateOrderStatus)
}
