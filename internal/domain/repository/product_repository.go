package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// ProductFilterParams represents filter parameters for product queries
type ProductFilterParams struct {
	Pagination *pagination.PaginationParams
	Search     string
}

// ProductRepository defines the product stock store. Quantity moves only
// through the atomic decrement/increment operations.
type ProductRepository interface {
	Create(ctx context.Context, product *entity.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error)
	GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error)
	List(ctx context.Context, params *ProductFilterParams) ([]entity.Product, int64, error)

	// AtomicDecrementQuantity decrements stock only if the product still has
	// at least amount units, in a single UPDATE. Returns false when stock is
	// insufficient.
	AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error)

	// IncrementQuantity adds amount units back to stock.
	IncrementQuantity(ctx context.Context, id uuid.UUID, amount int) error
}
