package catalog

import (
	"fmt"
	"log"
	"sort"
	"sync"
	"time"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
)

// DefaultTTL bounds how stale the product snapshot may get when no
// admin write invalidates it first.
const DefaultTTL = 24 * time.Hour

// Cache is a process-wide read-through cache of the product catalog.
// A refresh replaces the snapshot wholesale; readers never block a refresh.
type Cache struct {
	store storage.Store
	ttl   time.Duration

	mu        sync.RWMutex
	products  []*models.Product
	byID      map[string]*models.Product
	fetchedAt time.Time
}

// NewCache creates a catalog cache over the given store
func NewCache(store storage.Store, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Cache{store: store, ttl: ttl}
}

// Warm pre-loads the snapshot at startup. Failure is logged, not fatal:
// the first browse request retries the load.
func (c *Cache) Warm() {
	if _, err := c.AllProducts(); err != nil {
		log.Printf("⚠️  Catalog warm-up failed: %v", err)
	}
}

// AllProducts returns the cached product list, refreshing it when stale.
// If the store is unreachable and no snapshot exists yet, the error is
// propagated: an empty catalog must not be confused with an outage.
func (c *Cache) AllProducts() ([]*models.Product, error) {
	c.mu.RLock()
	fresh := c.byID != nil && time.Since(c.fetchedAt) < c.ttl
	products := c.products
	c.mu.RUnlock()

	if fresh {
		return products, nil
	}

	if err := c.refresh(); err != nil {
		c.mu.RLock()
		defer c.mu.RUnlock()
		if c.byID != nil {
			// Serve the stale snapshot rather than failing a user's browse.
			log.Printf("⚠️  Catalog refresh failed, serving stale snapshot: %v", err)
			return c.products, nil
		}
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.products, nil
}

// ProductByID is a point lookup served from the same snapshot.
// A missing product returns (nil, nil): the caller treats it as gone
// from the catalog, not as an outage.
func (c *Cache) ProductByID(id string) (*models.Product, error) {
	if _, err := c.AllProducts(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.byID[id], nil
}

// Categories derives the distinct category set from the snapshot, sorted.
func (c *Cache) Categories() ([]string, error) {
	products, err := c.AllProducts()
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool)
	var categories []string
	for _, product := range products {
		if product.Category != "" && !seen[product.Category] {
			seen[product.Category] = true
			categories = append(categories, product.Category)
		}
	}
	sort.Strings(categories)
	return categories, nil
}

// Invalidate drops the snapshot so the next read refreshes.
// Called by the admin product handlers after a write.
func (c *Cache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.byID = nil
	c.products = nil
	c.fetchedAt = time.Time{}
}

func (c *Cache) refresh() error {
	products, err := c.store.GetAllProducts()
	if err != nil {
		return fmt.Errorf("failed to load catalog: %w", err)
	}

	byID := make(map[string]*models.Product, len(products))
	for _, product := range products {
		byID[product.ProductID] = product
	}

	c.mu.Lock()
	c.products = products
	c.byID = byID
	c.fetchedAt = time.Now()
	c.mu.Unlock()
	return nil
}
