package service

import (
	"context"

	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// TotalsEngine is the single source of truth for a sale's monetary fields.
// Every cart or payment mutation runs Recalc as part of its transaction, so
// callers never issue a separate recalculate step.
type TotalsEngine struct {
	saleRepo        repository.SaleRepository
	saleItemRepo    repository.SaleItemRepository
	salePaymentRepo repository.SalePaymentRepository
}

// NewTotalsEngine creates a new totals engine
func NewTotalsEngine(
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	salePaymentRepo repository.SalePaymentRepository,
) *TotalsEngine {
	return &TotalsEngine{
		saleRepo:        saleRepo,
		saleItemRepo:    saleItemRepo,
		salePaymentRepo: salePaymentRepo,
	}
}

// Recalc recomputes subtotal, fee total, total and total paid from the sale's
// current items and payments, and persists the result. DiscountTotal is left
// alone; only finalization may grow it. The function is idempotent.
//
// Fee rule: among attached payments whose method charges the customer a fee,
// only the highest percentage applies, once, over the discounted subtotal.
// Combining two fee-bearing methods never stacks their surcharges.
func (e *TotalsEngine) Recalc(ctx context.Context, sale *entity.Sale) error {
	items, err := e.saleItemRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}
	payments, err := e.salePaymentRepo.ListBySale(ctx, sale.ID)
	if err != nil {
		return err
	}

	var subtotal money.Cents
	for _, item := range items {
		subtotal += item.LineTotal
	}

	baseValue := money.Max(0, subtotal-sale.DiscountTotal)

	var maxFee money.BasisPoints
	var totalPaid money.Cents
	for _, payment := range payments {
		totalPaid += payment.AmountApplied
		if payment.PaymentMethod.ChargesCustomerFee() && payment.PaymentMethod.FeeBasisPoints > maxFee {
			maxFee = payment.PaymentMethod.FeeBasisPoints
		}
	}

	feeTotal := money.ApplyFee(baseValue, maxFee)

	sale.Subtotal = subtotal
	sale.FeeTotal = feeTotal
	sale.Total = money.Max(0, subtotal-sale.DiscountTotal+feeTotal)
	sale.TotalPaid = totalPaid
	sale.Items = items
	sale.Payments = payments

	return e.saleRepo.UpdateTotals(ctx, sale)
}
