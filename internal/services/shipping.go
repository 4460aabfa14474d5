package services

import "github.com/siamware/chatshop-backend/internal/models"

// ComputeShippingFee returns the delivery fee for the cart contents.
// Each line carries the shipping-fee snapshot of its product or chosen
// unit; lines without shipping metadata contribute zero. Pure function:
// called on every cart mutation and summary render.
func ComputeShippingFee(cart []models.CartLine) float64 {
	var fee float64
	for _, line := range cart {
		if line.ShippingFee <= 0 {
			continue
		}
		fee += line.ShippingFee * float64(line.Quantity)
	}
	return fee
}

// OrderTotal is the amount charged at checkout: line totals plus
// shipping, minus any discount.
func OrderTotal(cart []models.CartLine, discount float64) float64 {
	total := models.CartSubtotal(cart) + ComputeShippingFee(cart) - discount
	if total < 0 {
		return 0
	}
	return total
}
