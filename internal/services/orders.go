package services

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"time"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
	"github.com/siamware/chatshop-backend/internal/utils"
)

// OrderPayload is the order-creation request sent to the order API.
type OrderPayload struct {
	CustomerName    string             `json:"customerName"`
	CustomerPhone   string             `json:"customerPhone"`
	CustomerAddress string             `json:"customerAddress"`
	Items           []OrderItemPayload `json:"items"`
	ShippingFee     float64            `json:"shippingFee"`
	Discount        float64            `json:"discount"`
	TotalAmount     float64            `json:"totalAmount"`
	AccountID       string             `json:"accountId,omitempty"`
	PaymentMethod   string             `json:"paymentMethod,omitempty"`
	PaymentSlipRef  string             `json:"paymentSlipRef,omitempty"`
}

// OrderItemPayload is one order line with its unit/option snapshots.
type OrderItemPayload struct {
	ProductID       string            `json:"productId"`
	Name            string            `json:"name"`
	Price           float64           `json:"price"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selectedOptions,omitempty"`
	UnitLabel       string            `json:"unitLabel,omitempty"`
	UnitPrice       float64           `json:"unitPrice,omitempty"`
}

// OrderService submits orders to the order-creation API and records the
// accepted copy locally for the admin surface. When ORDER_API_URL is not
// configured, orders are recorded locally only (development mode).
type OrderService struct {
	store      storage.Store
	apiURL     string
	apiKey     string
	httpClient *http.Client
}

// NewOrderService creates a new order service
func NewOrderService(store storage.Store) *OrderService {
	return &OrderService{
		store:      store,
		apiURL:     os.Getenv("ORDER_API_URL"),
		apiKey:     os.Getenv("ORDER_API_KEY"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// CreateOrder submits the payload and returns the order reference.
// Any transport failure or non-2xx response is returned as an error and
// nothing is recorded locally, so the caller can keep the cart and retry.
func (s *OrderService) CreateOrder(payload *OrderPayload) (string, error) {
	orderRef := utils.GenerateSecureID("ORD-")

	if s.apiURL != "" {
		remoteRef, err := s.submit(payload)
		if err != nil {
			return "", err
		}
		if remoteRef != "" {
			orderRef = remoteRef
		}
	} else {
		log.Printf("⚠️  ORDER_API_URL not set - recording order %s locally only", orderRef)
	}

	if _, err := s.store.CreateOrder(buildOrderRecord(orderRef, payload)); err != nil {
		// The remote order went through; losing the local copy is not a
		// checkout failure. Log and carry on.
		log.Printf("⚠️  Failed to record order %s locally: %v", orderRef, err)
	}

	return orderRef, nil
}

func (s *OrderService) submit(payload *OrderPayload) (string, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("failed to encode order payload: %w", err)
	}

	req, err := http.NewRequest(http.MethodPost, s.apiURL, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build order request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if s.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+s.apiKey)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("order API unreachable: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return "", fmt.Errorf("order API returned %d: %s", resp.StatusCode, string(data))
	}

	var result struct {
		OrderID string `json:"orderId"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		// Accepted but unparseable body; fall back to a local reference.
		log.Printf("⚠️  Order API response not parseable: %v", err)
		return "", nil
	}
	return result.OrderID, nil
}

func buildOrderRecord(orderRef string, payload *OrderPayload) *models.Order {
	order := &models.Order{
		OrderRef:        orderRef,
		AccountID:       payload.AccountID,
		CustomerName:    payload.CustomerName,
		CustomerPhone:   payload.CustomerPhone,
		CustomerAddress: payload.CustomerAddress,
		ShippingFee:     payload.ShippingFee,
		Discount:        payload.Discount,
		TotalAmount:     payload.TotalAmount,
		PaymentMethod:   payload.PaymentMethod,
		PaymentSlipRef:  payload.PaymentSlipRef,
		Status:          models.OrderStatusPending,
	}

	for _, item := range payload.Items {
		options := ""
		if len(item.SelectedOptions) > 0 {
			if data, err := json.Marshal(item.SelectedOptions); err == nil {
				options = string(data)
			}
		}
		order.Items = append(order.Items, models.OrderItem{
			OrderRef:        orderRef,
			ProductID:       item.ProductID,
			Name:            item.Name,
			Price:           item.Price,
			Quantity:        item.Quantity,
			SelectedOptions: options,
			UnitLabel:       item.UnitLabel,
			UnitPrice:       item.UnitPrice,
		})
	}
	return order
}
