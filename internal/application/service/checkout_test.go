package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"github.com/lucasferreira/retailpos-api/pkg/pagination"
)

func TestFinalizeExactPaymentCommitsStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Speaker", 10, money.FromFloat(50.00))
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 2); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(100.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}
	if result.Sale.Status != enum.SaleStatusFinalized {
		t.Errorf("sale status = %v, want finalized", result.Sale.Status)
	}
	if result.Sale.FinalizedAt == nil {
		t.Error("FinalizedAt not set")
	}

	restocked, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if restocked.Quantity != 8 {
		t.Errorf("stock = %d, want 8 after selling 2 of 10", restocked.Quantity)
	}
}

func TestFinalizeEmptyCartRejected(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	_, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err == nil {
		t.Fatal("expected error for empty cart")
	}
	if !strings.Contains(err.Error(), "no items") {
		t.Errorf("error = %q, want empty cart message", err)
	}
}

func TestFinalizeUnderpaidReportsDifference(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Router", 10, money.FromFloat(100.00))
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(90.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "diff" || result.Type != "underpaid" {
		t.Fatalf("result = %+v, want underpaid diff", result)
	}
	if got, want := result.Difference, money.FromFloat(10.00); got != want {
		t.Errorf("difference = %s, want %s", got, want)
	}

	// The sale stays a draft until a resolution is chosen.
	reloaded, err := env.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.Status != enum.SaleStatusDraft {
		t.Errorf("sale status = %v, want draft", reloaded.Status)
	}
}

func TestFinalizeUnderpaidApplyDiscount(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Switch", 10, money.FromFloat(100.00))
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(90.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, ResolutionApplyDiscount)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}
	if got, want := result.Sale.DiscountTotal, money.FromFloat(10.00); got != want {
		t.Errorf("discount = %s, want %s", got, want)
	}
	if got, want := result.Sale.Total, money.FromFloat(90.00); got != want {
		t.Errorf("total = %s, want %s", got, want)
	}
}

func TestFinalizeUnderpaidGenerateDebit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Printer", 10, money.FromFloat(100.00))
	customer := env.createCustomer(t, "Fabio")
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(70.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, ResolutionGenerateDebit)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}

	debit, err := env.ledgerRepo.SumOpen(ctx, customer.ID, enum.LedgerTypeDebit)
	if err != nil {
		t.Fatalf("sum open debit: %v", err)
	}
	if got, want := debit, money.FromFloat(30.00); got != want {
		t.Errorf("open debit = %s, want %s", got, want)
	}
}

func TestFinalizeOverpaidByCardGeneratesCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Tablet", 10, money.FromFloat(100.00))
	customer := env.createCustomer(t, "Gisele")
	card := env.method(t, "Credit Card")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	// Card payments apply verbatim, so 120 paid against a 100 total leaves
	// a 20.00 excess with no cash change to soak it up.
	if _, err := env.payment.AddPayment(ctx, sale.ID, card.ID, money.FromFloat(120.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	diff, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize without resolution: %v", err)
	}
	if diff.Status != "diff" || diff.Type != "overpaid" {
		t.Fatalf("result = %+v, want overpaid diff", diff)
	}
	if got, want := diff.Difference, money.FromFloat(20.00); got != want {
		t.Errorf("difference = %s, want %s", got, want)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, ResolutionGenerateCredit)
	if err != nil {
		t.Fatalf("finalize with credit resolution: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}

	credit, err := env.ledgerRepo.SumOpen(ctx, customer.ID, enum.LedgerTypeCredit)
	if err != nil {
		t.Fatalf("sum open credit: %v", err)
	}
	if got, want := credit, money.FromFloat(20.00); got != want {
		t.Errorf("open credit = %s, want %s", got, want)
	}
}

func TestFinalizeOverpaidCashWithinChangeSucceeds(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Scanner", 10, money.FromFloat(85.00))
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	// Tendering 100 in cash applies 85 and records 15 change, so totals
	// already balance and no resolution is needed.
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(100.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}
}

func TestFinalizeInsufficientStockRollsBack(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Projector", 3, money.FromFloat(50.00))
	cash := env.method(t, "Cash")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 3); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(150.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	// Stock drains out from under the cart before finalization.
	if err := env.db.Model(&entity.Product{}).Where("id = ?", product.ID).Update("quantity", 1).Error; err != nil {
		t.Fatalf("drain stock: %v", err)
	}

	_, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err == nil {
		t.Fatal("expected stock validation error")
	}
	if !strings.Contains(err.Error(), product.Name) {
		t.Errorf("error = %q, want offending product named", err)
	}

	reloaded, err := env.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.Status != enum.SaleStatusDraft {
		t.Errorf("sale status = %v, want draft preserved on rollback", reloaded.Status)
	}
	current, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if current.Quantity != 1 {
		t.Errorf("stock = %d, want 1 untouched", current.Quantity)
	}
}

func TestFinalizeSettlesCreditFIFOWithSplit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Camera", 10, money.FromFloat(70.00))
	customer := env.createCustomer(t, "Helena")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	// Two open credits, 50 then 40. Settling 70 consumes the first entirely
	// and splits the second into 20 open plus 20 settled, keeping the
	// journal total at 90.
	first := &entity.LedgerEntry{
		CustomerID: customer.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(50.00),
	}
	if err := env.ledgerRepo.Create(ctx, first); err != nil {
		t.Fatalf("create first credit: %v", err)
	}
	second := &entity.LedgerEntry{
		CustomerID: customer.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(40.00),
	}
	if err := env.ledgerRepo.Create(ctx, second); err != nil {
		t.Fatalf("create second credit: %v", err)
	}

	if _, err := env.payment.ApplyCredit(ctx, sale.ID, 0); err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	result, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}

	open, err := env.ledgerRepo.SumOpen(ctx, customer.ID, enum.LedgerTypeCredit)
	if err != nil {
		t.Fatalf("sum open: %v", err)
	}
	if got, want := open, money.FromFloat(20.00); got != want {
		t.Errorf("open credit = %s, want %s remaining", got, want)
	}

	oldest, err := env.ledgerRepo.GetByID(ctx, first.ID)
	if err != nil {
		t.Fatalf("reload first entry: %v", err)
	}
	if oldest.Status != enum.LedgerStatusSettled || oldest.SettledAt == nil {
		t.Errorf("oldest entry = %+v, want fully settled", oldest)
	}

	partial, err := env.ledgerRepo.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload second entry: %v", err)
	}
	if got, want := partial.Amount, money.FromFloat(20.00); got != want {
		t.Errorf("partial entry amount = %s, want %s", got, want)
	}
	if partial.Status != enum.LedgerStatusOpen {
		t.Errorf("partial entry status = %v, want open", partial.Status)
	}

	// Journal total is conserved across the split.
	status := enum.LedgerStatusSettled
	typeCredit := enum.LedgerTypeCredit
	settled, _, err := env.ledgerRepo.List(ctx, &repository.LedgerFilterParams{
		Pagination: &pagination.PaginationParams{Page: 1, PerPage: 50},
		CustomerID: &customer.ID,
		Type:       &typeCredit,
		Status:     &status,
	})
	if err != nil {
		t.Fatalf("list settled: %v", err)
	}
	var settledTotal money.Cents
	for _, e := range settled {
		settledTotal += e.Amount
	}
	if got, want := settledTotal, money.FromFloat(70.00); got != want {
		t.Errorf("settled total = %s, want %s", got, want)
	}
}

func TestFinalizeApplyDiscountWithFeeMatchesPaid(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Soundbar", 10, money.FromFloat(100.00))
	debit := env.method(t, "Debit Card")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	// The 2% debit fee raises the total to 102.00, leaving a 12.00 shortfall.
	if _, err := env.payment.AddPayment(ctx, sale.ID, debit.ID, money.FromFloat(90.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}

	result, err := env.checkout.Finalize(ctx, sale.ID, ResolutionApplyDiscount)
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("status = %q, want success", result.Status)
	}

	// Absorbing the shortfall as discount must not shrink the fee, or the
	// finalized total drifts away from what was actually paid.
	if got, want := result.Sale.Total, result.Sale.TotalPaid; got != want {
		t.Errorf("total = %s, total paid = %s, want exact match", got, want)
	}
	if got, want := result.Sale.Total, money.FromFloat(90.00); got != want {
		t.Errorf("total = %s, want %s", got, want)
	}
	if got, want := result.Sale.DiscountTotal, money.FromFloat(12.00); got != want {
		t.Errorf("discount = %s, want %s", got, want)
	}
	if got, want := result.Sale.FeeTotal, money.FromFloat(2.00); got != want {
		t.Errorf("fee = %s, want %s unchanged", got, want)
	}
}

func TestAtomicDecrementGuardsLastUnit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Last Unit", 1, money.FromFloat(10.00))

	ok, err := env.productRepo.AtomicDecrementQuantity(ctx, product.ID, 1)
	if err != nil {
		t.Fatalf("first decrement: %v", err)
	}
	if !ok {
		t.Fatal("first decrement refused with stock available")
	}

	ok, err = env.productRepo.AtomicDecrementQuantity(ctx, product.ID, 1)
	if err != nil {
		t.Fatalf("second decrement: %v", err)
	}
	if ok {
		t.Error("second decrement succeeded against empty stock")
	}

	current, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if current.Quantity != 0 {
		t.Errorf("stock = %d, want 0 and never negative", current.Quantity)
	}
}

func TestFinalizeContendingCartsNeverOversell(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	product := env.createProduct(t, "Limited", 1, money.FromFloat(60.00))
	cash := env.method(t, "Cash")

	// Two tills each hold the last unit in their draft.
	_, first := env.newDraft(t)
	_, second := env.newDraft(t)
	for _, sale := range []*entity.Sale{first, second} {
		if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
			t.Fatalf("add item: %v", err)
		}
		if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(60.00)); err != nil {
			t.Fatalf("add payment: %v", err)
		}
	}

	result, err := env.checkout.Finalize(ctx, first.ID, "")
	if err != nil {
		t.Fatalf("first finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("first finalize status = %q, want success", result.Status)
	}

	_, err = env.checkout.Finalize(ctx, second.ID, "")
	if err == nil {
		t.Fatal("second finalize sold a unit that no longer exists")
	}
	if !strings.Contains(err.Error(), product.Name) {
		t.Errorf("error = %q, want offending product named", err)
	}

	loser, err := env.saleRepo.GetByID(ctx, second.ID)
	if err != nil {
		t.Fatalf("reload losing sale: %v", err)
	}
	if loser.Status != enum.SaleStatusDraft {
		t.Errorf("losing sale status = %v, want draft", loser.Status)
	}
	current, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if current.Quantity != 0 {
		t.Errorf("stock = %d, want 0 and never negative", current.Quantity)
	}
}
