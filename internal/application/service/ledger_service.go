package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// LedgerService exposes the customer credit journal: balances, listings and
// administrative corrections.
type LedgerService struct {
	txManager    repository.TxManager
	ledgerRepo   repository.LedgerRepository
	customerRepo repository.CustomerRepository
}

// NewLedgerService creates a new ledger service
func NewLedgerService(
	txManager repository.TxManager,
	ledgerRepo repository.LedgerRepository,
	customerRepo repository.CustomerRepository,
) *LedgerService {
	return &LedgerService{
		txManager:    txManager,
		ledgerRepo:   ledgerRepo,
		customerRepo: customerRepo,
	}
}

// AvailableCredit returns open credits minus open debits for a customer,
// floored at zero.
func (s *LedgerService) AvailableCredit(ctx context.Context, customerID uuid.UUID) (money.Cents, error) {
	credits, err := s.ledgerRepo.SumOpen(ctx, customerID, enum.LedgerTypeCredit)
	if err != nil {
		return 0, err
	}
	debits, err := s.ledgerRepo.SumOpen(ctx, customerID, enum.LedgerTypeDebit)
	if err != nil {
		return 0, err
	}
	return money.Max(0, credits-debits), nil
}

// List returns ledger entries matching the filters.
func (s *LedgerService) List(ctx context.Context, params *repository.LedgerFilterParams) ([]entity.LedgerEntry, int64, error) {
	return s.ledgerRepo.List(ctx, params)
}

// GetByID returns a single ledger entry.
func (s *LedgerService) GetByID(ctx context.Context, id uuid.UUID) (*entity.LedgerEntry, error) {
	entry, err := s.ledgerRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, apperror.NewNotFoundError("Ledger entry")
	}
	return entry, nil
}

// Reassign moves an entry to another customer. This is an administrative
// correction for entries booked against the wrong account; amounts and status
// never change.
func (s *LedgerService) Reassign(ctx context.Context, entryID uuid.UUID, newCustomerID uuid.UUID) (*entity.LedgerEntry, error) {
	var entry *entity.LedgerEntry
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.ledgerRepo.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return apperror.NewNotFoundError("Ledger entry")
		}
		customer, err := s.customerRepo.GetByID(ctx, newCustomerID)
		if err != nil {
			return err
		}
		if customer == nil {
			return apperror.NewNotFoundError("Customer")
		}
		entry.CustomerID = customer.ID
		return s.ledgerRepo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}

// Cancel voids an open entry. Settled entries are immutable history and stay
// untouched.
func (s *LedgerService) Cancel(ctx context.Context, entryID uuid.UUID) (*entity.LedgerEntry, error) {
	var entry *entity.LedgerEntry
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		var err error
		entry, err = s.ledgerRepo.GetByID(ctx, entryID)
		if err != nil {
			return err
		}
		if entry == nil {
			return apperror.NewNotFoundError("Ledger entry")
		}
		if entry.Status != enum.LedgerStatusOpen {
			return apperror.NewInvalidStateError("Only open ledger entries can be cancelled")
		}
		entry.Status = enum.LedgerStatusCancelled
		return s.ledgerRepo.Update(ctx, entry)
	})
	if err != nil {
		return nil, err
	}
	return entry, nil
}
