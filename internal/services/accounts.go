package services

import (
	"fmt"

	"github.com/siamware/chatshop-backend/internal/models"
	"github.com/siamware/chatshop-backend/internal/storage"
)

// AccountService resolves customer accounts by phone number
type AccountService struct {
	store storage.Store
}

// NewAccountService creates a new account service
func NewAccountService(store storage.Store) *AccountService {
	return &AccountService{store: store}
}

// FindOrCreateByPhone returns the customer account for a verified phone
// number, creating one with a default display name when none exists.
func (a *AccountService) FindOrCreateByPhone(phone string) (*models.Customer, error) {
	customer, err := a.store.GetCustomerByPhone(phone)
	if err == nil {
		return customer, nil
	}

	customer, err = a.store.CreateCustomer(&models.Customer{
		Name:  models.DefaultCustomerName,
		Phone: phone,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create customer account: %w", err)
	}
	return customer, nil
}
