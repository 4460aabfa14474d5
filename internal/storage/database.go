package storage

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/siamware/chatshop-backend/internal/models"
)

// DatabaseStore is the GORM-backed Store implementation
type DatabaseStore struct {
	db *gorm.DB
}

// NewDatabaseStore creates a store backed by the given database
func NewDatabaseStore(db *gorm.DB) *DatabaseStore {
	return &DatabaseStore{db: db}
}

// Product operations

func (d *DatabaseStore) CreateProduct(product *models.Product) (*models.Product, error) {
	product.Active = true
	if err := d.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (d *DatabaseStore) GetProduct(productID string) (*models.Product, error) {
	var product models.Product
	err := d.db.Preload("Units").Preload("OptionGroups").
		Where("product_id = ?", productID).First(&product).Error
	if err != nil {
		return nil, fmt.Errorf("product not found")
	}
	return &product, nil
}

func (d *DatabaseStore) GetAllProducts() ([]*models.Product, error) {
	var products []*models.Product
	err := d.db.Preload("Units").Preload("OptionGroups").
		Where("active = ?", true).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (d *DatabaseStore) GetProductsByCategory(category string) ([]*models.Product, error) {
	var products []*models.Product
	err := d.db.Preload("Units").Preload("OptionGroups").
		Where("active = ? AND category = ?", true, category).Find(&products).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (d *DatabaseStore) UpdateProduct(product *models.Product) error {
	return d.db.Save(product).Error
}

func (d *DatabaseStore) DeleteProduct(productID string) error {
	// Soft delete: products referenced by past orders must stay resolvable.
	return d.db.Model(&models.Product{}).
		Where("product_id = ?", productID).
		Update("active", false).Error
}

// Customer operations

func (d *DatabaseStore) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	customer.Active = true
	if err := d.db.Create(customer).Error; err != nil {
		return nil, fmt.Errorf("failed to create customer: %w", err)
	}
	return customer, nil
}

func (d *DatabaseStore) GetCustomerByID(customerID string) (*models.Customer, error) {
	var customer models.Customer
	if err := d.db.Where("customer_id = ?", customerID).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("customer not found")
	}
	return &customer, nil
}

func (d *DatabaseStore) GetCustomerByPhone(phone string) (*models.Customer, error) {
	var customer models.Customer
	if err := d.db.Where("phone = ?", phone).First(&customer).Error; err != nil {
		return nil, fmt.Errorf("customer not found")
	}
	return &customer, nil
}

func (d *DatabaseStore) UpdateCustomer(customer *models.Customer) error {
	return d.db.Save(customer).Error
}

// Order operations

func (d *DatabaseStore) CreateOrder(order *models.Order) (*models.Order, error) {
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	if err := d.db.Create(order).Error; err != nil {
		return nil, fmt.Errorf("failed to create order: %w", err)
	}
	return order, nil
}

func (d *DatabaseStore) GetOrder(orderRef string) (*models.Order, error) {
	var order models.Order
	err := d.db.Preload("Items").Where("order_ref = ?", orderRef).First(&order).Error
	if err != nil {
		return nil, fmt.Errorf("order not found")
	}
	return &order, nil
}

func (d *DatabaseStore) GetAllOrders() ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Preload("Items").Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (d *DatabaseStore) GetOrdersByStatus(status string) ([]*models.Order, error) {
	var orders []*models.Order
	err := d.db.Preload("Items").Where("status = ?", status).
		Order("created_at DESC").Find(&orders).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

func (d *DatabaseStore) UpdateOrderStatus(orderRef string, status string) error {
	return d.db.Model(&models.Order{}).
		Where("order_ref = ?", orderRef).
		Update("status", status).Error
}

// Auth linkage operations

func (d *DatabaseStore) GetLinkage(psid string) (*models.AuthLinkage, error) {
	var linkage models.AuthLinkage
	if err := d.db.Where("psid = ?", psid).First(&linkage).Error; err != nil {
		return nil, fmt.Errorf("linkage not found")
	}
	return &linkage, nil
}

func (d *DatabaseStore) SaveLinkage(linkage *models.AuthLinkage) error {
	return d.db.Save(linkage).Error
}
