package storage

import (
	"fmt"
	"sync"
	"time"

	"github.com/siamware/chatshop-backend/internal/models"
)

// MemoryStore holds all data in memory, for tests and local runs
type MemoryStore struct {
	products  map[string]*models.Product
	customers map[string]*models.Customer
	orders    map[string]*models.Order
	linkages  map[string]*models.AuthLinkage

	// Mutexes for thread safety
	productMu  sync.RWMutex
	customerMu sync.RWMutex
	orderMu    sync.RWMutex
	linkageMu  sync.RWMutex

	// Counters for ID generation
	productCounter  int
	customerCounter int
}

// NewMemoryStore creates a new in-memory storage
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:  make(map[string]*models.Product),
		customers: make(map[string]*models.Customer),
		orders:    make(map[string]*models.Order),
		linkages:  make(map[string]*models.AuthLinkage),
	}
}

// Product operations

func (m *MemoryStore) CreateProduct(product *models.Product) (*models.Product, error) {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	if product.ProductID == "" {
		m.productCounter++
		product.ProductID = fmt.Sprintf("PRD%05d", m.productCounter)
	}
	product.Active = true
	product.CreatedAt = time.Now()
	product.UpdatedAt = time.Now()

	m.products[product.ProductID] = product
	return product, nil
}

func (m *MemoryStore) GetProduct(productID string) (*models.Product, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	product, exists := m.products[productID]
	if !exists {
		return nil, fmt.Errorf("product not found")
	}
	return product, nil
}

func (m *MemoryStore) GetAllProducts() ([]*models.Product, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	var products []*models.Product
	for _, product := range m.products {
		if product.Active {
			products = append(products, product)
		}
	}
	return products, nil
}

func (m *MemoryStore) GetProductsByCategory(category string) ([]*models.Product, error) {
	m.productMu.RLock()
	defer m.productMu.RUnlock()

	var products []*models.Product
	for _, product := range m.products {
		if product.Active && product.Category == category {
			products = append(products, product)
		}
	}
	return products, nil
}

func (m *MemoryStore) UpdateProduct(product *models.Product) error {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	if _, exists := m.products[product.ProductID]; !exists {
		return fmt.Errorf("product not found")
	}
	product.UpdatedAt = time.Now()
	m.products[product.ProductID] = product
	return nil
}

func (m *MemoryStore) DeleteProduct(productID string) error {
	m.productMu.Lock()
	defer m.productMu.Unlock()

	product, exists := m.products[productID]
	if !exists {
		return fmt.Errorf("product not found")
	}
	product.Active = false
	return nil
}

// Customer operations

func (m *MemoryStore) CreateCustomer(customer *models.Customer) (*models.Customer, error) {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	for _, existing := range m.customers {
		if existing.Phone == customer.Phone {
			return nil, fmt.Errorf("customer with phone %s already exists", customer.Phone)
		}
	}

	m.customerCounter++
	customer.CustomerID = fmt.Sprintf("CUS%05d", m.customerCounter)
	customer.Active = true
	customer.CreatedAt = time.Now()
	customer.UpdatedAt = time.Now()

	m.customers[customer.CustomerID] = customer
	return customer, nil
}

func (m *MemoryStore) GetCustomerByID(customerID string) (*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	customer, exists := m.customers[customerID]
	if !exists {
		return nil, fmt.Errorf("customer not found")
	}
	return customer, nil
}

func (m *MemoryStore) GetCustomerByPhone(phone string) (*models.Customer, error) {
	m.customerMu.RLock()
	defer m.customerMu.RUnlock()

	for _, customer := range m.customers {
		if customer.Phone == phone {
			return customer, nil
		}
	}
	return nil, fmt.Errorf("customer not found")
}

func (m *MemoryStore) UpdateCustomer(customer *models.Customer) error {
	m.customerMu.Lock()
	defer m.customerMu.Unlock()

	if _, exists := m.customers[customer.CustomerID]; !exists {
		return fmt.Errorf("customer not found")
	}
	customer.UpdatedAt = time.Now()
	m.customers[customer.CustomerID] = customer
	return nil
}

// Order operations

func (m *MemoryStore) CreateOrder(order *models.Order) (*models.Order, error) {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	if order.OrderRef == "" {
		return nil, fmt.Errorf("order ref is required")
	}
	if _, exists := m.orders[order.OrderRef]; exists {
		return nil, fmt.Errorf("order %s already exists", order.OrderRef)
	}
	if order.Status == "" {
		order.Status = models.OrderStatusPending
	}
	order.CreatedAt = time.Now()
	order.UpdatedAt = time.Now()

	m.orders[order.OrderRef] = order
	return order, nil
}

func (m *MemoryStore) GetOrder(orderRef string) (*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	order, exists := m.orders[orderRef]
	if !exists {
		return nil, fmt.Errorf("order not found")
	}
	return order, nil
}

func (m *MemoryStore) GetAllOrders() ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	var orders []*models.Order
	for _, order := range m.orders {
		orders = append(orders, order)
	}
	return orders, nil
}

func (m *MemoryStore) GetOrdersByStatus(status string) ([]*models.Order, error) {
	m.orderMu.RLock()
	defer m.orderMu.RUnlock()

	var orders []*models.Order
	for _, order := range m.orders {
		if order.Status == status {
			orders = append(orders, order)
		}
	}
	return orders, nil
}

func (m *MemoryStore) UpdateOrderStatus(orderRef string, status string) error {
	m.orderMu.Lock()
	defer m.orderMu.Unlock()

	order, exists := m.orders[orderRef]
	if !exists {
		return fmt.Errorf("order not found")
	}
	order.Status = status
	order.UpdatedAt = time.Now()
	return nil
}

// Auth linkage operations

func (m *MemoryStore) GetLinkage(psid string) (*models.AuthLinkage, error) {
	m.linkageMu.RLock()
	defer m.linkageMu.RUnlock()

	linkage, exists := m.linkages[psid]
	if !exists {
		return nil, fmt.Errorf("linkage not found")
	}
	return linkage, nil
}

func (m *MemoryStore) SaveLinkage(linkage *models.AuthLinkage) error {
	m.linkageMu.Lock()
	defer m.linkageMu.Unlock()

	if linkage.PSID == "" {
		return fmt.Errorf("psid is required")
	}
	linkage.UpdatedAt = time.Now()
	m.linkages[linkage.PSID] = linkage
	return nil
}
