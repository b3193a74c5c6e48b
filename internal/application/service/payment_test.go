package service

import (
	"context"
	"errors"
	"testing"

	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

func TestAddCashPaymentCapsAppliedAndRecordsChange(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Notebook", 5, money.FromFloat(32.50))
	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cash := env.method(t, "Cash")
	updated, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(50.00))
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}

	if len(updated.Payments) != 1 {
		t.Fatalf("payments = %d, want 1", len(updated.Payments))
	}
	p := updated.Payments[0]
	if p.CashTendered == nil || *p.CashTendered != money.FromFloat(50.00) {
		t.Errorf("tendered = %v, want 50.00", p.CashTendered)
	}
	if got, want := p.AmountApplied, money.FromFloat(32.50); got != want {
		t.Errorf("applied = %s, want %s", got, want)
	}
	if got, want := p.ChangeGiven, money.FromFloat(17.50); got != want {
		t.Errorf("change = %s, want %s", got, want)
	}
	if got, want := updated.TotalPaid, money.FromFloat(32.50); got != want {
		t.Errorf("total paid = %s, want %s", got, want)
	}
}

func TestAddNonCashPaymentAppliesVerbatim(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Monitor", 5, money.FromFloat(100.00))
	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	card := env.method(t, "Credit Card")
	updated, err := env.payment.AddPayment(ctx, sale.ID, card.ID, money.FromFloat(150.00))
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}

	p := updated.Payments[0]
	if got, want := p.AmountApplied, money.FromFloat(150.00); got != want {
		t.Errorf("applied = %s, want %s", got, want)
	}
	if p.ChangeGiven != 0 {
		t.Errorf("change = %s, want 0 for card payments", p.ChangeGiven)
	}
}

func TestAddPaymentRejectsNonPositiveAmount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	cash := env.method(t, "Cash")

	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, 0); err == nil {
		t.Error("expected error for zero amount")
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(-5.00)); err == nil {
		t.Error("expected error for negative amount")
	}
}

func TestRemovePaymentRecalculatesTotals(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Mouse", 5, money.FromFloat(40.00))
	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}

	cash := env.method(t, "Cash")
	paid, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(40.00))
	if err != nil {
		t.Fatalf("add payment: %v", err)
	}

	updated, err := env.payment.RemovePayment(ctx, sale.ID, paid.Payments[0].ID)
	if err != nil {
		t.Fatalf("remove payment: %v", err)
	}
	if updated.TotalPaid != 0 {
		t.Errorf("total paid = %s, want 0", updated.TotalPaid)
	}
	if len(updated.Payments) != 0 {
		t.Errorf("payments = %d, want 0", len(updated.Payments))
	}
}

func TestApplyCreditZeroAppliesMaximum(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Keyboard", 5, money.FromFloat(80.00))
	customer := env.createCustomer(t, "Carla")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := env.ledgerRepo.Create(ctx, &entity.LedgerEntry{
		CustomerID: customer.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(30.00),
	}); err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}

	updated, err := env.payment.ApplyCredit(ctx, sale.ID, 0)
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}

	// 30.00 available is less than the 80.00 remaining, so all of it applies.
	if got, want := updated.TotalPaid, money.FromFloat(30.00); got != want {
		t.Errorf("total paid = %s, want %s", got, want)
	}
}

func TestApplyCreditCappedByRemainingBalance(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "USB Hub", 5, money.FromFloat(20.00))
	customer := env.createCustomer(t, "Diego")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := env.ledgerRepo.Create(ctx, &entity.LedgerEntry{
		CustomerID: customer.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(100.00),
	}); err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}

	updated, err := env.payment.ApplyCredit(ctx, sale.ID, 0)
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if got, want := updated.TotalPaid, money.FromFloat(20.00); got != want {
		t.Errorf("total paid = %s, want the 20.00 sale total, got %s", want, got)
	}
}

func TestApplyCreditRejectsMoreThanAvailable(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Dock", 5, money.FromFloat(200.00))
	customer := env.createCustomer(t, "Elena")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := env.ledgerRepo.Create(ctx, &entity.LedgerEntry{
		CustomerID: customer.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(10.00),
	}); err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}

	_, err := env.payment.ApplyCredit(ctx, sale.ID, money.FromFloat(50.00))
	if !errors.Is(err, apperror.ErrInsufficientCredit) {
		t.Errorf("error = %v, want ErrInsufficientCredit", err)
	}
}

func TestAddPaymentRejectsInternalCreditMethod(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	credit := env.method(t, "Credit")

	_, err := env.payment.AddPayment(ctx, sale.ID, credit.ID, money.FromFloat(10.00))
	if err == nil {
		t.Fatal("expected internal method rejection")
	}
	if apperror.GetAppError(err).Code != 400 {
		t.Errorf("status = %d, want 400", apperror.GetAppError(err).Code)
	}
}
