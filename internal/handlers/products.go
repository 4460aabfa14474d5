package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siamware/chatshop-backend/internal/catalog"
	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
)

// ProductHandler handles admin product management requests
type ProductHandler struct {
	store storage.Store
	cache *catalog.Cache
}

// NewProductHandler creates a new product handler
func NewProductHandler(store storage.Store, cache *catalog.Cache) *ProductHandler {
	return &ProductHandler{
		store: store,
		cache: cache,
	}
}

// CreateProduct handles creating a new product
func (h *ProductHandler) CreateProduct(c *fiber.Ctx) error {
	var product models.Product

	if err := c.BodyParser(&product); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// Basic validation
	if product.Name == "" || product.Price <= 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Name and a positive price are required",
		})
	}

	created, err := h.store.CreateProduct(&product)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to create product",
		})
	}

	// The bot serves products from a snapshot; drop it so the new
	// product shows up without waiting out the TTL.
	h.cache.Invalidate()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Product created successfully",
		"product": created,
	})
}

// GetProduct retrieves a single product by ID
func (h *ProductHandler) GetProduct(c *fiber.Ctx) error {
	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Product ID is required",
		})
	}

	product, err := h.store.GetProduct(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	return c.JSON(product)
}

// GetProducts retrieves all products, optionally filtered by category
func (h *ProductHandler) GetProducts(c *fiber.Ctx) error {
	category := c.Query("category")

	var products []*models.Product
	var err error
	if category != "" {
		products, err = h.store.GetProductsByCategory(category)
	} else {
		products, err = h.store.GetAllProducts()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve products",
		})
	}

	return c.JSON(fiber.Map{
		"products": products,
		"count":    len(products),
	})
}

// UpdateProduct handles updating an existing product
func (h *ProductHandler) UpdateProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	existing, err := h.store.GetProduct(id)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	var update models.Product
	if err := c.BodyParser(&update); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	// The product ID is immutable once issued
	update.ProductID = existing.ProductID
	update.ID = existing.ID

	if err := h.store.UpdateProduct(&update); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update product",
		})
	}

	h.cache.Invalidate()

	return c.JSON(fiber.Map{
		"message": "Product updated successfully",
		"product": update,
	})
}

// DeleteProduct retires a product from the catalog
func (h *ProductHandler) DeleteProduct(c *fiber.Ctx) error {
	id := c.Params("id")

	if _, err := h.store.GetProduct(id); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Product not found",
		})
	}

	if err := h.store.DeleteProduct(id); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to delete product",
		})
	}

	h.cache.Invalidate()

	return c.JSON(fiber.Map{
		"message": "Product deleted successfully",
	})
}
