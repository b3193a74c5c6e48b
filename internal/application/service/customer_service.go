package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
)

// CreateCustomerInput holds the fields required to register a customer.
type CreateCustomerInput struct {
	FullName string
	Phone    string
	Email    *string
}

// CustomerService manages customer records. The generic walk-in customer is
// seeded at startup and never created through this service.
type CustomerService struct {
	customerRepo repository.CustomerRepository
}

// NewCustomerService creates a new customer service
func NewCustomerService(customerRepo repository.CustomerRepository) *CustomerService {
	return &CustomerService{customerRepo: customerRepo}
}

// Create registers a new customer. Phone numbers are unique across customers.
func (s *CustomerService) Create(ctx context.Context, input CreateCustomerInput) (*entity.Customer, error) {
	if input.FullName == "" || input.Phone == "" {
		return nil, apperror.NewBadRequestError("Customer name and phone are required")
	}
	if input.Phone == entity.GenericCustomerPhone {
		return nil, apperror.NewConflictError("Phone number is reserved")
	}

	existing, err := s.customerRepo.GetByPhone(ctx, input.Phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A customer with this phone already exists")
	}

	customer := &entity.Customer{
		FullName: input.FullName,
		Phone:    input.Phone,
		Email:    input.Email,
	}
	if err := s.customerRepo.Create(ctx, customer); err != nil {
		return nil, err
	}
	return customer, nil
}

// GetByID returns a single customer.
func (s *CustomerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error) {
	customer, err := s.customerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if customer == nil {
		return nil, apperror.NewNotFoundError("Customer")
	}
	return customer, nil
}

// List returns customers matching the filters.
func (s *CustomerService) List(ctx context.Context, params *repository.CustomerFilterParams) ([]entity.Customer, int64, error) {
	return s.customerRepo.List(ctx, params)
}
