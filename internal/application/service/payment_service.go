package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// PaymentService attaches and detaches payments on draft sales. Attaching a
// payment never settles anything; the customer's ledger only moves at
// finalization.
type PaymentService struct {
	txManager       repository.TxManager
	saleRepo        repository.SaleRepository
	salePaymentRepo repository.SalePaymentRepository
	methodRepo      repository.PaymentMethodRepository
	ledgerRepo      repository.LedgerRepository
	totals          *TotalsEngine
}

// NewPaymentService creates a new payment service
func NewPaymentService(
	txManager repository.TxManager,
	saleRepo repository.SaleRepository,
	salePaymentRepo repository.SalePaymentRepository,
	methodRepo repository.PaymentMethodRepository,
	ledgerRepo repository.LedgerRepository,
	totals *TotalsEngine,
) *PaymentService {
	return &PaymentService{
		txManager:       txManager,
		saleRepo:        saleRepo,
		salePaymentRepo: salePaymentRepo,
		methodRepo:      methodRepo,
		ledgerRepo:      ledgerRepo,
		totals:          totals,
	}
}

// AddPayment attaches a payment with the given method. Cash interprets amount
// as tendered: only what the sale still owes is applied and the rest becomes
// change. Any other method applies the amount verbatim, so overpayment by card
// or transfer surfaces at finalization rather than here.
func (s *PaymentService) AddPayment(ctx context.Context, saleID uuid.UUID, methodID uuid.UUID, amount money.Cents) (*entity.Sale, error) {
	if amount <= 0 {
		return nil, apperror.NewBadRequestError("Payment amount must be greater than zero")
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}

		method, err := s.methodRepo.GetByID(ctx, methodID)
		if err != nil {
			return err
		}
		if method == nil || !method.IsActive {
			return apperror.ErrPaymentMethodNotFound
		}
		if method.IsInternal {
			return apperror.NewBadRequestError(fmt.Sprintf("%s cannot be used directly; apply customer credit instead", method.Name))
		}

		payment := &entity.SalePayment{
			SaleID:          sale.ID,
			PaymentMethodID: method.ID,
		}

		if method.IsCashLike() {
			remaining := sale.Remaining()
			applied := money.Min(amount, remaining)
			tendered := amount
			payment.AmountApplied = applied
			payment.CashTendered = &tendered
			payment.ChangeGiven = tendered - applied
		} else {
			payment.AmountApplied = amount
		}

		if err := s.salePaymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// RemovePayment detaches a payment from the draft and recalculates.
func (s *PaymentService) RemovePayment(ctx context.Context, saleID uuid.UUID, paymentID uuid.UUID) (*entity.Sale, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}
		payment, err := s.salePaymentRepo.GetByID(ctx, sale.ID, paymentID)
		if err != nil {
			return err
		}
		if payment == nil {
			return apperror.NewNotFoundError("Payment")
		}
		if err := s.salePaymentRepo.Delete(ctx, payment.ID); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// ApplyCredit attaches an internal Credit payment funded by the customer's
// open credit balance. Zero amount means "as much as possible". The ledger is
// untouched here; settlement happens when the sale finalizes.
func (s *PaymentService) ApplyCredit(ctx context.Context, saleID uuid.UUID, amount money.Cents) (*entity.Sale, error) {
	if amount < 0 {
		return nil, apperror.NewBadRequestError("Credit amount cannot be negative")
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}

		method, err := s.methodRepo.GetByName(ctx, entity.CreditMethodName)
		if err != nil {
			return err
		}
		if method == nil {
			return apperror.ErrPaymentMethodNotFound
		}

		available, err := s.availableCredit(ctx, sale.CustomerID)
		if err != nil {
			return err
		}

		// Credit already sitting on this draft still counts as available.
		payments, err := s.salePaymentRepo.ListBySale(ctx, sale.ID)
		if err != nil {
			return err
		}
		for _, p := range payments {
			if p.PaymentMethodID == method.ID {
				if err := s.salePaymentRepo.Delete(ctx, p.ID); err != nil {
					return err
				}
			}
		}
		if err := s.totals.Recalc(ctx, sale); err != nil {
			return err
		}

		applied := money.Min(available, sale.Remaining())
		if amount > 0 {
			if amount > available {
				return apperror.ErrInsufficientCredit
			}
			applied = money.Min(amount, sale.Remaining())
		}
		if applied <= 0 {
			if amount > 0 || available <= 0 {
				return apperror.ErrInsufficientCredit
			}
			return nil
		}

		payment := &entity.SalePayment{
			SaleID:          sale.ID,
			PaymentMethodID: method.ID,
			AmountApplied:   applied,
		}
		if err := s.salePaymentRepo.Create(ctx, payment); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// RemoveCreditPayments drops every internal Credit payment from a draft. Used
// when a draft is handed to a different customer.
func (s *PaymentService) RemoveCreditPayments(ctx context.Context, sale *entity.Sale) error {
	method, err := s.methodRepo.GetByName(ctx, entity.CreditMethodName)
	if err != nil {
		return err
	}
	if method == nil {
		return nil
	}
	payments, err := s.salePaymentRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	for _, p := range payments {
		if p.PaymentMethodID == method.ID {
			if err := s.salePaymentRepo.Delete(ctx, p.ID); err != nil {
				return err
			}
		}
	}
	return nil
}

// availableCredit is open credits minus open debits, floored at zero.
func (s *PaymentService) availableCredit(ctx context.Context, customerID uuid.UUID) (money.Cents, error) {
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

func (s *PaymentService) requireDraft(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetByID(ctx, saleID)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	if sale.Status != enum.SaleStatusDraft {
		return nil, apperror.NewInvalidStateError("Sale is no longer a draft")
	}
	return sale, nil
}
