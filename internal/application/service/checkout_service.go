package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// PaymentTolerance is the largest absolute gap between total and total paid
// that still finalizes without an explicit resolution.
const PaymentTolerance = money.Cents(1)

// Finalization resolutions for amounts outside the tolerance.
const (
	ResolutionApplyDiscount  = "apply_discount"
	ResolutionGenerateDebit  = "generate_debit"
	ResolutionGenerateCredit = "generate_credit"
)

// FinalizeResult is the outcome of a finalize attempt. Status "success" means
// the sale is finalized; "diff" means the caller must pick a resolution and
// retry.
type FinalizeResult struct {
	Status     string       `json:"status"`
	Type       string       `json:"type,omitempty"`
	Difference money.Cents  `json:"-"`
	Sale       *entity.Sale `json:"sale,omitempty"`
}

// MarshalJSON converts the difference to decimal for API responses
func (r FinalizeResult) MarshalJSON() ([]byte, error) {
	type Alias FinalizeResult
	out := &struct {
		Alias
		Difference *float64 `json:"difference,omitempty"`
	}{Alias: Alias(r)}
	if r.Status == "diff" {
		v := r.Difference.Float()
		out.Difference = &v
	}
	return json.Marshal(out)
}

// CheckoutService finalizes draft sales. Finalization runs in one transaction:
// stock decrement, credit settlement, ledger writes and the status flip either
// all land or none do.
type CheckoutService struct {
	txManager       repository.TxManager
	saleRepo        repository.SaleRepository
	saleItemRepo    repository.SaleItemRepository
	salePaymentRepo repository.SalePaymentRepository
	productRepo     repository.ProductRepository
	methodRepo      repository.PaymentMethodRepository
	ledgerRepo      repository.LedgerRepository
	totals          *TotalsEngine
}

// NewCheckoutService creates a new checkout service
func NewCheckoutService(
	txManager repository.TxManager,
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	salePaymentRepo repository.SalePaymentRepository,
	productRepo repository.ProductRepository,
	methodRepo repository.PaymentMethodRepository,
	ledgerRepo repository.LedgerRepository,
	totals *TotalsEngine,
) *CheckoutService {
	return &CheckoutService{
		txManager:       txManager,
		saleRepo:        saleRepo,
		saleItemRepo:    saleItemRepo,
		salePaymentRepo: salePaymentRepo,
		productRepo:     productRepo,
		methodRepo:      methodRepo,
		ledgerRepo:      ledgerRepo,
		totals:          totals,
	}
}

// Finalize attempts to close a draft sale. When total and total paid disagree
// by more than the tolerance and no resolution is given, it reports the
// difference instead of finalizing. Resolutions:
//
//   - apply_discount: absorb an underpayment into the discount so the total
//     matches what was paid.
//   - generate_debit: finalize underpaid and record the shortfall as an open
//     debit on the customer's ledger.
//   - generate_credit: finalize overpaid and record the excess beyond cash
//     change as open credit for the customer.
func (s *CheckoutService) Finalize(ctx context.Context, saleID uuid.UUID, resolution string) (*FinalizeResult, error) {
	var result *FinalizeResult

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.saleRepo.GetByID(ctx, saleID)
		if err != nil {
			return err
		}
		if sale == nil {
			return apperror.NewNotFoundError("Sale")
		}
		if sale.Status != enum.SaleStatusDraft {
			return apperror.NewInvalidStateError("Sale is already finalized or cancelled")
		}

		if err := s.totals.Recalc(ctx, sale); err != nil {
			return err
		}
		if len(sale.Items) == 0 {
			return apperror.NewBadRequestError("Cannot finalize a sale with no items")
		}

		if err := s.validateStock(ctx, sale.Items); err != nil {
			return err
		}

		difference := sale.Total - sale.TotalPaid

		if difference > PaymentTolerance {
			switch resolution {
			case ResolutionApplyDiscount:
				// The discount absorbs the shortfall directly. The fee is
				// left as computed, so the total lands exactly on what was
				// paid instead of drifting through another fee pass.
				sale.DiscountTotal += difference
				sale.Total -= difference
				if err := s.saleRepo.UpdateTotals(ctx, sale); err != nil {
					return err
				}
			case ResolutionGenerateDebit:
				if err := s.recordDebit(ctx, sale, difference); err != nil {
					return err
				}
			default:
				result = &FinalizeResult{Status: "diff", Type: "underpaid", Difference: difference}
				return nil
			}
		} else if -difference > PaymentTolerance {
			// Cash change already covers part of the overpayment; only the
			// excess beyond change can become credit.
			excess := -difference - sale.ChangeTotal()
			if excess > PaymentTolerance {
				switch resolution {
				case ResolutionGenerateCredit:
					if err := s.recordCredit(ctx, sale, excess); err != nil {
						return err
					}
				default:
					result = &FinalizeResult{Status: "diff", Type: "overpaid", Difference: excess}
					return nil
				}
			}
		}

		if err := s.commitStock(ctx, sale.Items); err != nil {
			return err
		}
		if err := s.settleCreditPayments(ctx, sale); err != nil {
			return err
		}

		now := time.Now()
		sale.Status = enum.SaleStatusFinalized
		sale.FinalizedAt = &now
		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}

		result = &FinalizeResult{Status: "success"}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if result.Status == "success" {
		sale, err := s.saleRepo.GetWithDetails(ctx, saleID)
		if err != nil {
			return nil, err
		}
		result.Sale = sale
	}
	return result, nil
}

// validateStock checks every line against current stock and reports all
// offenders at once so the cashier fixes the cart in one pass.
func (s *CheckoutService) validateStock(ctx context.Context, items []entity.SaleItem) error {
	var failed []string
	for _, item := range items {
		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil || item.Quantity > product.Quantity {
			name := "unknown product"
			if product != nil {
				name = product.Name
			}
			failed = append(failed, name)
		}
	}
	if len(failed) > 0 {
		return apperror.NewStockValidationError(failed)
	}
	return nil
}

// commitStock decrements stock with a guarded update per line. A concurrent
// sale that drained stock between validation and commit makes the guard fail,
// which rolls the whole finalization back.
func (s *CheckoutService) commitStock(ctx context.Context, items []entity.SaleItem) error {
	for _, item := range items {
		ok, err := s.productRepo.AtomicDecrementQuantity(ctx, item.ProductID, item.Quantity)
		if err != nil {
			return err
		}
		if !ok {
			product, err := s.productRepo.GetByID(ctx, item.ProductID)
			if err != nil {
				return err
			}
			name := "unknown product"
			if product != nil {
				name = product.Name
			}
			return apperror.NewStockValidationError([]string{name})
		}
	}
	return nil
}

// settleCreditPayments consumes the customer's open credit entries oldest
// first to cover the sale's internal Credit payments. A partially consumed
// entry is split: the open entry shrinks by the consumed amount and a settled
// entry of that amount is written, keeping the journal's total constant.
func (s *CheckoutService) settleCreditPayments(ctx context.Context, sale *entity.Sale) error {
	method, err := s.methodRepo.GetByName(ctx, entity.CreditMethodName)
	if err != nil {
		return err
	}
	if method == nil {
		return nil
	}

	var toSettle money.Cents
	for _, p := range sale.Payments {
		if p.PaymentMethodID == method.ID {
			toSettle += p.AmountApplied
		}
	}
	if toSettle <= 0 {
		return nil
	}

	entries, err := s.ledgerRepo.ListOpenCredits(ctx, sale.CustomerID)
	if err != nil {
		return err
	}

	now := time.Now()
	remaining := toSettle
	for i := range entries {
		if remaining <= 0 {
			break
		}
		entry := &entries[i]
		if entry.Amount <= remaining {
			entry.Status = enum.LedgerStatusSettled
			entry.SettledAt = &now
			if err := s.ledgerRepo.Update(ctx, entry); err != nil {
				return err
			}
			remaining -= entry.Amount
			continue
		}

		consumed := remaining
		entry.Amount -= consumed
		if err := s.ledgerRepo.Update(ctx, entry); err != nil {
			return err
		}
		split := &entity.LedgerEntry{
			CustomerID:  sale.CustomerID,
			SaleID:      &sale.ID,
			Type:        enum.LedgerTypeCredit,
			Status:      enum.LedgerStatusSettled,
			Amount:      consumed,
			Description: fmt.Sprintf("Credit used on sale %s", sale.ID),
			SettledAt:   &now,
		}
		if err := s.ledgerRepo.Create(ctx, split); err != nil {
			return err
		}
		remaining = 0
	}

	if remaining > 0 {
		return apperror.ErrInsufficientCredit
	}
	return nil
}

func (s *CheckoutService) recordDebit(ctx context.Context, sale *entity.Sale, amount money.Cents) error {
	entry := &entity.LedgerEntry{
		CustomerID:  sale.CustomerID,
		SaleID:      &sale.ID,
		Type:        enum.LedgerTypeDebit,
		Status:      enum.LedgerStatusOpen,
		Amount:      amount,
		Description: fmt.Sprintf("Underpayment on sale %s", sale.ID),
	}
	return s.ledgerRepo.Create(ctx, entry)
}

func (s *CheckoutService) recordCredit(ctx context.Context, sale *entity.Sale, amount money.Cents) error {
	entry := &entity.LedgerEntry{
		CustomerID:  sale.CustomerID,
		SaleID:      &sale.ID,
		Type:        enum.LedgerTypeCredit,
		Status:      enum.LedgerStatusOpen,
		Amount:      amount,
		Description: fmt.Sprintf("Overpayment on sale %s", sale.ID),
	}
	return s.ledgerRepo.Create(ctx, entry)
}
