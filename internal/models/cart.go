package models

// CartLine is one product+unit+options+quantity entry pending checkout.
// Price and ShippingFee are snapshots taken when the line was added, so
// the cart stays consistent even if the catalog changes mid-session.
type CartLine struct {
	ProductID       string            `json:"product_id"`
	Name            string            `json:"name"`
	Price           float64           `json:"price"`
	Quantity        int               `json:"quantity"`
	SelectedOptions map[string]string `json:"selected_options,omitempty"`
	UnitLabel       string            `json:"unit_label,omitempty"`
	UnitPrice       float64           `json:"unit_price,omitempty"`
	ShippingFee     float64           `json:"shipping_fee"`
}

// LineTotal is the line's contribution to the order total, shipping excluded.
func (l CartLine) LineTotal() float64 {
	return l.Price * float64(l.Quantity)
}

// SameVariant reports whether two lines refer to the same purchasable
// variant: same product, same unit and identical option selections.
// Lines that differ in any of the three must not merge quantities.
func (l CartLine) SameVariant(other CartLine) bool {
	if l.ProductID != other.ProductID || l.UnitLabel != other.UnitLabel {
		return false
	}
	if len(l.SelectedOptions) != len(other.SelectedOptions) {
		return false
	}
	for name, value := range l.SelectedOptions {
		if other.SelectedOptions[name] != value {
			return false
		}
	}
	return true
}

// CartSubtotal sums line totals without shipping.
func CartSubtotal(lines []CartLine) float64 {
	var total float64
	for _, line := range lines {
		total += line.LineTotal()
	}
	return total
}
