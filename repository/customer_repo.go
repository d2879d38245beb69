package repository

import (
	"context"

	"milkledger/models"
)

type CustomerRepository interface {
	// CreateCustomer returns ErrDuplicate when the user already has a
	// customer with that name.
	CreateCustomer(ctx context.Context, c *models.Customer) error
	ListCustomers(ctx context.Context, userID string) ([]*models.Customer, error)
	GetCustomerByName(ctx context.Context, userID, name string) (*models.Customer, error)
	// DeleteCustomer returns the removed customer or ErrNotFound.
	DeleteCustomer(ctx context.Context, userID, id string) (*models.Customer, error)
	CountCustomers(ctx context.Context) (int, error)
}
