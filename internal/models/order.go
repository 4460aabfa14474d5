package models

import "time"

// Order is the local record of an order accepted by the order API.
// The order API owns the canonical copy; this one feeds the admin surface.
type Order struct {
	ID              uint   `json:"-" gorm:"primarykey"`
	OrderRef        string `json:"order_ref" gorm:"unique;not null"`
	AccountID       string `json:"account_id"`
	CustomerName    string `json:"customer_name"`
	CustomerPhone   string `json:"customer_phone"`
	CustomerAddress string `json:"customer_address"`

	Items []OrderItem `json:"items" gorm:"foreignKey:OrderRef;references:OrderRef"`

	ShippingFee float64 `json:"shipping_fee"`
	Discount    float64 `json:"discount"`
	TotalAmount float64 `json:"total_amount"`

	PaymentMethod  string `json:"payment_method"`
	PaymentSlipRef string `json:"payment_slip_ref,omitempty"`

	Status string `json:"status"` // "pending", "paid", "shipped", "completed", "cancelled"

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is one line of an order, with unit/option snapshots.
type OrderItem struct {
	ID              uint              `json:"-" gorm:"primarykey"`
	OrderRef        string            `json:"-" gorm:"index"`
	ProductID       string            `json:"product_id"`
	Name            string            `json:"name"`
	Price           float64           `json:"price"`
	Quantity        int               `json:"quantity"`
	SelectedOptions string            `json:"selected_options,omitempty"` // JSON map of option name -> value
	UnitLabel       string            `json:"unit_label,omitempty"`
	UnitPrice       float64           `json:"unit_price,omitempty"`
	CreatedAt       time.Time         `json:"-"`
}

// Order status constants
const (
	OrderStatusPending   = "pending"
	OrderStatusPaid      = "paid"
	OrderStatusShipped   = "shipped"
	OrderStatusCompleted = "completed"
	OrderStatusCancelled = "cancelled"

	PaymentMethodCOD      = "cod"
	PaymentMethodTransfer = "transfer"
)
