package services

import (
	"strings"
	"testing"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
)

func TestCreateOrderGeneratesReferenceAndRecordsLocally(t *testing.T) {
	t.Setenv("ORDER_API_URL", "")
	store := storage.NewMemoryStore()
	svc := NewOrderService(store)

	payload := &OrderPayload{
		CustomerName:    "Somchai J.",
		CustomerPhone:   "+66812345678",
		CustomerAddress: "123 Sukhumvit Rd",
		Items: []OrderItemPayload{
			{ProductID: "PRD00001", Name: "Cold Brew Bottle", Price: 120, Quantity: 2},
		},
		ShippingFee:   40,
		TotalAmount:   280,
		PaymentMethod: models.PaymentMethodCOD,
	}

	ref, err := svc.CreateOrder(payload)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if !strings.HasPrefix(ref, "ORD-") {
		t.Errorf("order ref = %q, want ORD- prefix", ref)
	}

	// References must not collide across orders.
	ref2, err := svc.CreateOrder(payload)
	if err != nil {
		t.Fatalf("CreateOrder: %v", err)
	}
	if ref2 == ref {
		t.Errorf("two orders got the same reference %q", ref)
	}

	order, err := store.GetOrder(ref)
	if err != nil {
		t.Fatalf("order not recorded locally: %v", err)
	}
	if order.Status != models.OrderStatusPending {
		t.Errorf("status = %q, want %q", order.Status, models.OrderStatusPending)
	}
	if len(order.Items) != 1 || order.Items[0].Quantity != 2 {
		t.Errorf("items wrong: %+v", order.Items)
	}
}
