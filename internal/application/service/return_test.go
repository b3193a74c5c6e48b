package service

import (
	"context"
	"strings"
	"testing"

	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// finalizedSale sells the given quantity of a fresh product to a named
// customer and finalizes with exact cash.
func finalizedSale(t *testing.T, env *testEnv, quantity int, price money.Cents) (*entity.User, *entity.Customer, *entity.Sale, *entity.Product) {
	t.Helper()
	ctx := context.Background()

	user, sale := env.newDraft(t)
	product := env.createProduct(t, "Returnable", quantity+10, price)
	customer := env.createCustomer(t, "Returning Customer")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, quantity); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, customer.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	cash := env.method(t, "Cash")
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, price.MulQty(quantity)); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	result, err := env.checkout.Finalize(ctx, sale.ID, "")
	if err != nil {
		t.Fatalf("finalize: %v", err)
	}
	if result.Status != "success" {
		t.Fatalf("finalize status = %q, want success", result.Status)
	}
	return user, customer, result.Sale, product
}

func TestCreateReturnRejectsQuantityBeyondSold(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, sale, _ := finalizedSale(t, env, 2, money.FromFloat(50.00))

	_, err := env.returns.Create(ctx, user.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 3},
	}, "damaged", enum.RefundMethodCredit, "")
	if err == nil {
		t.Fatal("expected quantity bound error")
	}
	if !strings.Contains(err.Error(), "Returnable") {
		t.Errorf("error = %q, want offending product named", err)
	}
}

func TestCreateReturnRequiresReason(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, sale, _ := finalizedSale(t, env, 1, money.FromFloat(30.00))

	_, err := env.returns.Create(ctx, user.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "", enum.RefundMethodCredit, "")
	if err == nil {
		t.Error("expected error for missing reason")
	}
}

func TestCreateReturnRejectsPriceAboveOriginal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user, _, sale, _ := finalizedSale(t, env, 1, money.FromFloat(30.00))

	tooHigh := money.FromFloat(35.00)
	_, err := env.returns.Create(ctx, user.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1, UnitPrice: &tooHigh},
	}, "changed mind", enum.RefundMethodCredit, "")
	if err == nil {
		t.Error("expected error for refund price above the original")
	}
}

func TestApproveRequiresStaff(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cashier, _, sale, _ := finalizedSale(t, env, 1, money.FromFloat(40.00))

	ret, err := env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "defective", enum.RefundMethodCredit, "")
	if err != nil {
		t.Fatalf("create return: %v", err)
	}

	_, err = env.returns.Approve(ctx, ret.ID, cashier.ID)
	if err == nil {
		t.Fatal("expected cashier approval to be rejected")
	}
	if apperror.GetAppError(err).Code != 403 {
		t.Errorf("status = %d, want 403", apperror.GetAppError(err).Code)
	}

	manager := env.createUser(t, entity.RoleManager)
	approved, err := env.returns.Approve(ctx, ret.ID, manager.ID)
	if err != nil {
		t.Fatalf("manager approve: %v", err)
	}
	if approved.Status != enum.ReturnStatusApproved {
		t.Errorf("status = %v, want approved", approved.Status)
	}
	if approved.ApprovedByID == nil || *approved.ApprovedByID != manager.ID {
		t.Errorf("approved by = %v, want %s", approved.ApprovedByID, manager.ID)
	}
}

func TestRejectedReturnIsTerminal(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cashier, _, sale, _ := finalizedSale(t, env, 1, money.FromFloat(40.00))
	manager := env.createUser(t, entity.RoleManager)

	ret, err := env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "defective", enum.RefundMethodCash, "")
	if err != nil {
		t.Fatalf("create return: %v", err)
	}

	rejected, err := env.returns.Reject(ctx, ret.ID, manager.ID, "outside return window")
	if err != nil {
		t.Fatalf("reject: %v", err)
	}
	if rejected.Status != enum.ReturnStatusRejected {
		t.Errorf("status = %v, want rejected", rejected.Status)
	}

	if _, err := env.returns.Approve(ctx, ret.ID, manager.ID); err == nil {
		t.Error("expected approve of a rejected return to fail")
	}
	if _, err := env.returns.Complete(ctx, ret.ID, manager.ID); err == nil {
		t.Error("expected complete of a rejected return to fail")
	}
}

func TestCompleteReturnCreditRefundOpensLedgerEntry(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cashier, customer, sale, product := finalizedSale(t, env, 2, money.FromFloat(50.00))
	manager := env.createUser(t, entity.RoleManager)

	stockAfterSale, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}

	ret, err := env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "defective", enum.RefundMethodCredit, "")
	if err != nil {
		t.Fatalf("create return: %v", err)
	}
	if _, err := env.returns.Approve(ctx, ret.ID, manager.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	completed, err := env.returns.Complete(ctx, ret.ID, manager.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	if completed.Status != enum.ReturnStatusCompleted {
		t.Errorf("status = %v, want completed", completed.Status)
	}
	if completed.LedgerEntryID == nil {
		t.Fatal("completed return carries no ledger entry")
	}
	entry, err := env.ledgerRepo.GetByID(ctx, *completed.LedgerEntryID)
	if err != nil {
		t.Fatalf("get ledger entry: %v", err)
	}
	if entry.Type != enum.LedgerTypeCredit || entry.Status != enum.LedgerStatusOpen {
		t.Errorf("entry = %+v, want open credit", entry)
	}
	if got, want := entry.Amount, money.FromFloat(50.00); got != want {
		t.Errorf("entry amount = %s, want %s", got, want)
	}
	if entry.CustomerID != customer.ID {
		t.Errorf("entry customer = %s, want %s", entry.CustomerID, customer.ID)
	}

	restocked, err := env.productRepo.GetByID(ctx, product.ID)
	if err != nil {
		t.Fatalf("get product: %v", err)
	}
	if restocked.Quantity != stockAfterSale.Quantity+1 {
		t.Errorf("stock = %d, want %d", restocked.Quantity, stockAfterSale.Quantity+1)
	}

	reloaded, err := env.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.Status != enum.SaleStatusPartiallyReturned {
		t.Errorf("sale status = %v, want partially returned", reloaded.Status)
	}
}

func TestCompleteReturnCashRefundSettlesImmediately(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cashier, _, sale, _ := finalizedSale(t, env, 1, money.FromFloat(80.00))
	manager := env.createUser(t, entity.RoleManager)

	ret, err := env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "defective", enum.RefundMethodCash, "")
	if err != nil {
		t.Fatalf("create return: %v", err)
	}
	if _, err := env.returns.Approve(ctx, ret.ID, manager.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}
	completed, err := env.returns.Complete(ctx, ret.ID, manager.ID)
	if err != nil {
		t.Fatalf("complete: %v", err)
	}

	entry, err := env.ledgerRepo.GetByID(ctx, *completed.LedgerEntryID)
	if err != nil {
		t.Fatalf("get ledger entry: %v", err)
	}
	if entry.Status != enum.LedgerStatusSettled || entry.SettledAt == nil {
		t.Errorf("entry = %+v, want settled with timestamp", entry)
	}

	// Returning everything marks the sale fully returned.
	reloaded, err := env.saleRepo.GetByID(ctx, sale.ID)
	if err != nil {
		t.Fatalf("reload sale: %v", err)
	}
	if reloaded.Status != enum.SaleStatusFullyReturned {
		t.Errorf("sale status = %v, want fully returned", reloaded.Status)
	}
}

func TestApprovedReturnsReserveTheBound(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	cashier, _, sale, _ := finalizedSale(t, env, 2, money.FromFloat(25.00))
	manager := env.createUser(t, entity.RoleManager)

	first, err := env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 2},
	}, "defective", enum.RefundMethodCredit, "")
	if err != nil {
		t.Fatalf("first return: %v", err)
	}
	if _, err := env.returns.Approve(ctx, first.ID, manager.ID); err != nil {
		t.Fatalf("approve: %v", err)
	}

	// The approved return already claims both units.
	_, err = env.returns.Create(ctx, cashier.ID, sale.ID, []ReturnItemInput{
		{SaleItemID: sale.Items[0].ID, Quantity: 1},
	}, "defective", enum.RefundMethodCredit, "")
	if err == nil {
		t.Error("expected second return to exceed the remaining quantity")
	}
}
