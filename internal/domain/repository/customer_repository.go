package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// CustomerFilterParams represents filter parameters for customer queries
type CustomerFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// CustomerRepository defines customer data access operations
type CustomerRepository interface {
	Create(ctx context.Context, customer *entity.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Customer, error)
	GetByPhone(ctx context.Context, phone string) (*entity.Customer, error)
	List(ctx context.Context, params *CustomerFilterParams) ([]entity.Customer, int64, error)
}

// UserRepository defines user data access operations
type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
}
