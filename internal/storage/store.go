package storage

import (
	"github.com/siamware/chatshop-backend/internal/models"
)

// Store defines the interface for storage operations
type Store interface {
	// Product operations
	CreateProduct(product *models.Product) (*models.Product, error)
	GetProduct(productID string) (*models.Product, error)
	GetAllProducts() ([]*models.Product, error)
	GetProductsByCategory(category string) ([]*models.Product, error)
	UpdateProduct(product *models.Product) error
	DeleteProduct(productID string) error

	// Customer operations
	CreateCustomer(customer *models.Customer) (*models.Customer, error)
	GetCustomerByID(customerID string) (*models.Customer, error)
	GetCustomerByPhone(phone string) (*models.Customer, error)
	UpdateCustomer(customer *models.Customer) error

	// Order operations
	CreateOrder(order *models.Order) (*models.Order, error)
	GetOrder(orderRef string) (*models.Order, error)
	GetAllOrders() ([]*models.Order, error)
	GetOrdersByStatus(status string) ([]*models.Order, error)
	UpdateOrderStatus(orderRef string, status string) error

	// Auth linkage operations
	GetLinkage(psid string) (*models.AuthLinkage, error)
	SaveLinkage(linkage *models.AuthLinkage) error
}
