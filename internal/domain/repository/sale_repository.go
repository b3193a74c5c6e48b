package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

// SaleFilterParams represents filter parameters for sale queries
type SaleFilterParams struct {
	Pagination *pagination.PaginationParams
	Status     *enum.SaleStatus
	CustomerID *uuid.UUID
	StartDate  *time.Time
	EndDate    *time.Time
}

// SaleRepository defines sale data access operations
type SaleRepository interface {
	Create(ctx context.Context, sale *entity.Sale) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetWithDetails loads the sale with its items (and their products),
	// payments (and their methods) and customer.
	GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error)
	// GetDraft returns the single draft sale for a (user, session key) pair,
	// or nil when none exists.
	GetDraft(ctx context.Context, userID uuid.UUID, sessionKey string) (*entity.Sale, error)
	Update(ctx context.Context, sale *entity.Sale) error
	// UpdateTotals persists only the monetary columns recomputed by the
	// totals engine.
	UpdateTotals(ctx context.Context, sale *entity.Sale) error
	UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error
	List(ctx context.Context, userID uuid.UUID, params *SaleFilterParams) ([]entity.Sale, int64, error)
}

// SaleItemRepository defines sale line data access operations
type SaleItemRepository interface {
	Create(ctx context.Context, item *entity.SaleItem) error
	GetByID(ctx context.Context, saleID, itemID uuid.UUID) (*entity.SaleItem, error)
	GetBySaleAndProduct(ctx context.Context, saleID, productID uuid.UUID) (*entity.SaleItem, error)
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error)
	Update(ctx context.Context, item *entity.SaleItem) error
	Delete(ctx context.Context, id uuid.UUID) error
}

// SalePaymentRepository defines sale payment data access operations
type SalePaymentRepository interface {
	Create(ctx context.Context, payment *entity.SalePayment) error
	GetByID(ctx context.Context, saleID, paymentID uuid.UUID) (*entity.SalePayment, error)
	// ListBySale returns payments oldest first with their methods preloaded.
	ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.SalePayment, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// PaymentMethodRepository defines payment method data access operations
type PaymentMethodRepository interface {
	Create(ctx context.Context, method *entity.PaymentMethod) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error)
	GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error)
	// ListActive returns active methods; internal methods are excluded
	// unless includeInternal is set.
	ListActive(ctx context.Context, includeInternal bool) ([]entity.PaymentMethod, error)
}
