package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// LedgerFilterParams represents filter parameters for ledger queries
type LedgerFilterParams struct {
	Pagination *pagination.PaginationParams
	Type       *enum.LedgerType
	Status     *enum.LedgerStatus
	CustomerID *uuid.UUID
}

// LedgerRepository defines customer credit journal data access operations
type LedgerRepository interface {
	Create(ctx context.Context, entry *entity.LedgerEntry) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error)
	Update(ctx context.Context, entry *entity.LedgerEntry) error
	List(ctx context.Context, params *LedgerFilterParams) ([]entity.LedgerEntry, int64, error)
	// ListOpenCredits returns the customer's open credit entries oldest
	// first, the order FIFO settlement consumes them in.
	ListOpenCredits(ctx context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error)
	// SumOpen totals the open entries of one type for a customer.
	SumOpen(ctx context.Context, customerID uuid.UUID, entryType enum.LedgerType) (money.Cents, error)
}
