package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	domainRepo "github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

type ledgerRepository struct {
	db *gorm.DB
}

// NewLedgerRepository creates a new ledger repository
func NewLedgerRepository(db *gorm.DB) domainRepo.LedgerRepository {
	return &ledgerRepository{db: db}
}

func (r *ledgerRepository) Create(ctx context.Context, entry *entity.LedgerEntry) error {
	return dbFromContext(ctx, r.db).Create(entry).Error
}

func (r *ledgerRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	var entry entity.LedgerEntry
	err := dbFromContext(ctx, r.db).Preload("Customer").First(&entry, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &entry, err
}

func (r *ledgerRepository) Update(ctx context.Context, entry *entity.LedgerEntry) error {
	return dbFromContext(ctx, r.db).Save(entry).Error
}

func (r *ledgerRepository) List(ctx context.Context, params *domainRepo.LedgerFilterParams) ([]entity.LedgerEntry, int64, error) {
	var entries []entity.LedgerEntry
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.LedgerEntry{})

	if params.Type != nil {
		query = query.Where("type = ?", *params.Type)
	}
	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&entries).Error

	return entries, total, err
}

// ListOpenCredits returns open credit entries oldest first, which is the
// order FIFO settlement consumes them in.
func (r *ledgerRepository) ListOpenCredits(ctx context.Context, customerID uuid.UUID) ([]entity.LedgerEntry, error) {
	var entries []entity.LedgerEntry
	err := dbFromContext(ctx, r.db).
		Where("customer_id = ? AND type = ? AND status = ?",
			customerID, enum.LedgerTypeCredit, enum.LedgerStatusOpen).
		Order("created_at ASC").
		Find(&entries).Error
	return entries, err
}

func (r *ledgerRepository) SumOpen(ctx context.Context, customerID uuid.UUID, entryType enum.LedgerType) (money.Cents, error) {
	var total int64
	err := dbFromContext(ctx, r.db).Model(&entity.LedgerEntry{}).
		Where("customer_id = ? AND type = ? AND status = ?",
			customerID, entryType, enum.LedgerStatusOpen).
		Select("COALESCE(SUM(amount), 0)").
		Scan(&total).Error
	return money.Cents(total), err
}
