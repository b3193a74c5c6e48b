package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// ReturnFilterParams represents filter parameters for return queries
type ReturnFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.ReturnStatus
	CustomerID *uuid.UUID
	SaleID     *uuid.UUID
}

// ReturnRepository defines return workflow data access operations
type ReturnRepository interface {
	Create(ctx context.Context, ret *entity.Return) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Return, error)
	// GetWithItems loads the return with its items (and their products).
	GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Return, error)
	Update(ctx context.Context, ret *entity.Return) error
	List(ctx context.Context, params *ReturnFilterParams) ([]entity.Return, int64, error)
	// SumReturnedQuantities totals, per sale item, the quantities across
	// return items whose parent return is in one of the given states.
	SumReturnedQuantities(ctx context.Context, saleItemIDs []uuid.UUID, statuses []enum.ReturnStatus) (map[uuid.UUID]int, error)
}

// ReturnItemRepository defines return item data access operations
type ReturnItemRepository interface {
	Create(ctx context.Context, item *entity.ReturnItem) error
	ListByReturn(ctx context.Context, returnID uuid.UUID) ([]entity.ReturnItem, error)
}
