package models

import (
	"fmt"

	"gorm.io/gorm"
)

// DefaultCustomerName is used when an account is auto-created during
// phone verification before the user has told us their name.
const DefaultCustomerName = "New Customer"

// Customer is a storefront account, keyed by verified phone number.
type Customer struct {
	gorm.Model
	CustomerID string `json:"customer_id" gorm:"unique;not null"`
	Name       string `json:"name"`
	Phone      string `json:"phone" gorm:"unique;not null"`
	Address    string `json:"address"`
	Active     bool   `json:"active" gorm:"default:true"`
}

// BeforeCreate generates CustomerID
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.CustomerID == "" {
		var count int64
		tx.Model(&Customer{}).Count(&count)
		c.CustomerID = fmt.Sprintf("CUS%05d", count+1)
	}
	return nil
}
