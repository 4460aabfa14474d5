package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
)

// OrderHandler handles admin order management requests
type OrderHandler struct {
	store storage.Store
}

// NewOrderHandler creates a new order handler
func NewOrderHandler(store storage.Store) *OrderHandler {
	return &OrderHandler{store: store}
}

// GetOrders retrieves all orders, optionally filtered by status
func (h *OrderHandler) GetOrders(c *fiber.Ctx) error {
	status := c.Query("status")

	var orders []*models.Order
	var err error
	if status != "" {
		orders, err = h.store.GetOrdersByStatus(status)
	} else {
		orders, err = h.store.GetAllOrders()
	}
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to retrieve orders",
		})
	}

	return c.JSON(fiber.Map{
		"orders": orders,
		"count":  len(orders),
	})
}

// GetOrder retrieves a single order by reference
func (h *OrderHandler) GetOrder(c *fiber.Ctx) error {
	ref := c.Params("ref")
	if ref == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Order reference is required",
		})
	}

	order, err := h.store.GetOrder(ref)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	return c.JSON(order)
}

// UpdateOrderStatus moves an order through its lifecycle
func (h *OrderHandler) UpdateOrderStatus(c *fiber.Ctx) error {
	ref := c.Params("ref")

	var body struct {
		Status string `json:"status"`
	}
	if err := c.BodyParser(&body); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	if !validOrderStatus(body.Status) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid order status",
		})
	}

	if _, err := h.store.GetOrder(ref); err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Order not found",
		})
	}

	if err := h.store.UpdateOrderStatus(ref, body.Status); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to update order status",
		})
	}

	return c.JSON(fiber.Map{
		"message": "Order status updated",
		"ref":     ref,
		"status":  body.Status,
	})
}

func validOrderStatus(status string) bool {
	switch status {
	case models.OrderStatusPending,
		models.OrderStatusPaid,
		models.OrderStatusShipped,
		models.OrderStatusCompleted,
		models.OrderStatusCancelled:
		return true
	}
	return false
}
