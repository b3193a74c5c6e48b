package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// ReturnItemInput is one requested line of a return. UnitPrice overrides the
// refund price per unit; nil means refund at the original sale price.
type ReturnItemInput struct {
	SaleItemID uuid.UUID
	Quantity   int
	UnitPrice  *money.Cents
}

// ReturnService drives the refund workflow from request to completion.
// Pending returns reserve nothing; stock and ledger only move on completion.
type ReturnService struct {
	txManager      repository.TxManager
	returnRepo     repository.ReturnRepository
	returnItemRepo repository.ReturnItemRepository
	saleRepo       repository.SaleRepository
	saleItemRepo   repository.SaleItemRepository
	productRepo    repository.ProductRepository
	ledgerRepo     repository.LedgerRepository
	userRepo       repository.UserRepository
}

// NewReturnService creates a new return service
func NewReturnService(
	txManager repository.TxManager,
	returnRepo repository.ReturnRepository,
	returnItemRepo repository.ReturnItemRepository,
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	ledgerRepo repository.LedgerRepository,
	userRepo repository.UserRepository,
) *ReturnService {
	return &ReturnService{
		txManager:      txManager,
		returnRepo:     returnRepo,
		returnItemRepo: returnItemRepo,
		saleRepo:       saleRepo,
		saleItemRepo:   saleItemRepo,
		productRepo:    productRepo,
		ledgerRepo:     ledgerRepo,
		userRepo:       userRepo,
	}
}

// Create registers a pending return against a finalized sale. Each requested
// quantity is validated against what the line sold minus what approved or
// completed returns already claimed.
func (s *ReturnService) Create(ctx context.Context, userID uuid.UUID, saleID uuid.UUID, items []ReturnItemInput, reason string, refundMethod enum.RefundMethod, notes string) (*entity.Return, error) {
	if len(items) == 0 {
		return nil, apperror.NewBadRequestError("A return needs at least one item")
	}
	if reason == "" {
		return nil, apperror.NewBadRequestError("A return needs a reason")
	}

	var created *entity.Return
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if !sale.Status.IsReturnable() {
			return apperror.NewInvalidStateError("Only finalized sales can be returned")
		}

		saleItems := make(map[uuid.UUID]*entity.SaleItem, len(sale.Items))
		saleItemIDs := make([]uuid.UUID, 0, len(sale.Items))
		for i := range sale.Items {
			saleItems[sale.Items[i].ID] = &sale.Items[i]
			saleItemIDs = append(saleItemIDs, sale.Items[i].ID)
		}

		returned, err := s.returnRepo.SumReturnedQuantities(ctx, saleItemIDs,
			[]enum.ReturnStatus{enum.ReturnStatusApproved, enum.ReturnStatusCompleted})
		if err != nil {
			return err
		}

		ret := &entity.Return{
			OriginalSaleID: sale.ID,
			CustomerID:     sale.CustomerID,
			UserID:         userID,
			Status:         enum.ReturnStatusPending,
			Reason:         reason,
			RefundMethod:   refundMethod,
			Notes:          notes,
		}

		var total money.Cents
		prepared := make([]entity.ReturnItem, 0, len(items))
		for _, input := range items {
			if input.Quantity <= 0 {
				return apperror.ErrInvalidQuantity
			}
			saleItem, ok := saleItems[input.SaleItemID]
			if !ok {
				return apperror.NewNotFoundError("Sale item")
			}

			already := returned[saleItem.ID]
			available := saleItem.Quantity - already
			if input.Quantity > available {
				return apperror.NewReturnQuantityExceededError(
					saleItem.Product.Name, input.Quantity, available, saleItem.Quantity, already)
			}

			unitPrice := saleItem.UnitPrice
			if input.UnitPrice != nil {
				if *input.UnitPrice < 0 {
					return apperror.NewBadRequestError("Refund unit price cannot be negative")
				}
				if *input.UnitPrice > saleItem.UnitPrice {
					return apperror.NewBadRequestError(fmt.Sprintf(
						"Refund unit price for %s cannot exceed the sale price", saleItem.Product.Name))
				}
				unitPrice = *input.UnitPrice
			}

			item := entity.ReturnItem{
				SaleItemID: saleItem.ID,
				ProductID:  saleItem.ProductID,
				Quantity:   input.Quantity,
				UnitPrice:  unitPrice,
			}
			total += item.LineTotal()
			prepared = append(prepared, item)
		}

		ret.TotalAmount = total
		if err := s.returnRepo.Create(ctx, ret); err != nil {
			return err
		}
		for i := range prepared {
			prepared[i].ReturnID = ret.ID
			if err := s.returnItemRepo.Create(ctx, &prepared[i]); err != nil {
				return err
			}
		}
		created = ret
		return nil
	})
	if err != nil {
		return nil, err
	}
	return s.returnRepo.GetWithItems(ctx, created.ID)
}

// Approve moves a pending return to approved. Staff only.
func (s *ReturnService) Approve(ctx context.Context, returnID uuid.UUID, userID uuid.UUID) (*entity.Return, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ret, err := s.requireTransition(ctx, returnID, userID, enum.ReturnStatusApproved)
		if err != nil {
			return err
		}
		now := time.Now()
		ret.Status = enum.ReturnStatusApproved
		ret.ApprovedByID = &userID
		ret.ApprovedAt = &now
		return s.returnRepo.Update(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return s.returnRepo.GetWithItems(ctx, returnID)
}

// Reject moves a pending return to rejected, optionally recording why. Staff
// only; rejected is terminal.
func (s *ReturnService) Reject(ctx context.Context, returnID uuid.UUID, userID uuid.UUID, reason string) (*entity.Return, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ret, err := s.requireTransition(ctx, returnID, userID, enum.ReturnStatusRejected)
		if err != nil {
			return err
		}
		ret.Status = enum.ReturnStatusRejected
		ret.ApprovedByID = &userID
		if reason != "" {
			ret.Notes = reason
		}
		return s.returnRepo.Update(ctx, ret)
	})
	if err != nil {
		return nil, err
	}
	return s.returnRepo.GetWithItems(ctx, returnID)
}

// Complete executes an approved return: stock comes back, exactly one credit
// ledger entry is written, and the original sale's status is recomputed from
// its completed returns.
func (s *ReturnService) Complete(ctx context.Context, returnID uuid.UUID, userID uuid.UUID) (*entity.Return, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		ret, err := s.requireTransition(ctx, returnID, userID, enum.ReturnStatusCompleted)
		if err != nil {
			return err
		}

		items, err := s.returnItemRepo.ListByReturn(ctx, ret.ID)
		if err != nil {
			return err
		}
		for _, item := range items {
			if err := s.productRepo.IncrementQuantity(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
		}

		status := enum.LedgerStatusSettled
		var settledAt *time.Time
		now := time.Now()
		if ret.RefundMethod == enum.RefundMethodCredit {
			// Store credit stays open until spent; immediate refunds are
			// settled audit records.
			status = enum.LedgerStatusOpen
		} else {
			settledAt = &now
		}
		entry := &entity.LedgerEntry{
			CustomerID:  ret.CustomerID,
			SaleID:      &ret.OriginalSaleID,
			Type:        enum.LedgerTypeCredit,
			Status:      status,
			Amount:      ret.TotalAmount,
			Description: fmt.Sprintf("Refund for return %s", ret.ID),
			SettledAt:   settledAt,
		}
		if err := s.ledgerRepo.Create(ctx, entry); err != nil {
			return err
		}

		ret.Status = enum.ReturnStatusCompleted
		ret.CompletedAt = &now
		ret.LedgerEntryID = &entry.ID
		if err := s.returnRepo.Update(ctx, ret); err != nil {
			return err
		}

		return s.refreshSaleStatus(ctx, ret.OriginalSaleID)
	})
	if err != nil {
		return nil, err
	}
	return s.returnRepo.GetWithItems(ctx, returnID)
}

// GetByID returns a return with its items.
func (s *ReturnService) GetByID(ctx context.Context, returnID uuid.UUID) (*entity.Return, error) {
	ret, err := s.returnRepo.GetWithItems(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return")
	}
	return ret, nil
}

// List returns returns matching the filters.
func (s *ReturnService) List(ctx context.Context, params *repository.ReturnFilterParams) ([]entity.Return, int64, error) {
	return s.returnRepo.List(ctx, params)
}

// requireTransition loads the return, checks the state machine allows the
// move, and enforces the staff-only rule on transitions out of Pending.
func (s *ReturnService) requireTransition(ctx context.Context, returnID uuid.UUID, userID uuid.UUID, next enum.ReturnStatus) (*entity.Return, error) {
	ret, err := s.returnRepo.GetByID(ctx, returnID)
	if err != nil {
		return nil, err
	}
	if ret == nil {
		return nil, apperror.NewNotFoundError("Return")
	}
	if !ret.Status.CanTransitionTo(next) {
		return nil, apperror.NewInvalidStateError(fmt.Sprintf(
			"Cannot move return from %s to %s", ret.Status, next))
	}
	if ret.Status == enum.ReturnStatusPending {
		user, err := s.userRepo.GetByID(ctx, userID)
		if err != nil {
			return nil, err
		}
		if user == nil || !user.IsStaff() {
			return nil, apperror.NewUnauthorizedTransitionError()
		}
	}
	return ret, nil
}

// refreshSaleStatus recomputes the parent sale's status from completed
// returns only: nothing returned keeps it finalized, everything returned
// makes it fully returned, anything between is partial.
func (s *ReturnService) refreshSaleStatus(ctx context.Context, saleID uuid.UUID) error {
	sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
	if err != nil {
		return err
	}
	if sale == nil {
		return apperror.NewNotFoundError("Sale")
	}

	saleItemIDs := make([]uuid.UUID, 0, len(sale.Items))
	sold := 0
	for _, item := range sale.Items {
		saleItemIDs = append(saleItemIDs, item.ID)
		sold += item.Quantity
	}

	returned, err := s.returnRepo.SumReturnedQuantities(ctx, saleItemIDs,
		[]enum.ReturnStatus{enum.ReturnStatusCompleted})
	if err != nil {
		return err
	}
	totalReturned := 0
	for _, qty := range returned {
		totalReturned += qty
	}

	status := enum.SaleStatusFinalized
	switch {
	case totalReturned == 0:
		status = enum.SaleStatusFinalized
	case totalReturned >= sold:
		status = enum.SaleStatusFullyReturned
	default:
		status = enum.SaleStatusPartiallyReturned
	}
	return s.saleRepo.UpdateStatus(ctx, saleID, status)
}
