package service

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

func TestGetOrCreateDraftReturnsSameDraftPerSession(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, entity.RoleCashier)

	first, err := env.cart.GetOrCreateDraft(ctx, user.ID, "till-1")
	if err != nil {
		t.Fatalf("first draft: %v", err)
	}
	second, err := env.cart.GetOrCreateDraft(ctx, user.ID, "till-1")
	if err != nil {
		t.Fatalf("second draft: %v", err)
	}
	if first.ID != second.ID {
		t.Errorf("same session produced two drafts: %s and %s", first.ID, second.ID)
	}

	other, err := env.cart.GetOrCreateDraft(ctx, user.ID, "till-2")
	if err != nil {
		t.Fatalf("other session draft: %v", err)
	}
	if other.ID == first.ID {
		t.Error("different session keys share one draft")
	}
}

func TestGetOrCreateDraftDefaultsToGenericCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)

	customer, err := env.customerRepo.GetByID(ctx, sale.CustomerID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if customer == nil || !customer.IsGeneric {
		t.Errorf("draft customer = %+v, want the generic walk-in customer", customer)
	}
}

func TestAddItemMergesLines(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Cable", 10, money.FromFloat(15.00))

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 2); err != nil {
		t.Fatalf("first add: %v", err)
	}
	updated, err := env.cart.AddItem(ctx, sale.ID, product.ID, 3)
	if err != nil {
		t.Fatalf("second add: %v", err)
	}

	if len(updated.Items) != 1 {
		t.Fatalf("items = %d, want 1 merged line", len(updated.Items))
	}
	if got := updated.Items[0].Quantity; got != 5 {
		t.Errorf("merged quantity = %d, want 5", got)
	}
	if got, want := updated.Subtotal, money.FromFloat(75.00); got != want {
		t.Errorf("subtotal = %s, want %s", got, want)
	}
}

func TestAddItemRejectsInsufficientStock(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Webcam", 5, money.FromFloat(90.00))

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 3); err != nil {
		t.Fatalf("first add: %v", err)
	}
	// Merged quantity would be 3+3=6 against 5 in stock.
	_, err := env.cart.AddItem(ctx, sale.ID, product.ID, 3)
	if err == nil {
		t.Fatal("expected insufficient stock error")
	}
	if !strings.Contains(err.Error(), "Insufficient stock") {
		t.Errorf("error = %q, want insufficient stock", err)
	}
}

func TestAddItemRejectsOutOfStockProduct(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Discontinued", 0, money.FromFloat(10.00))

	_, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1)
	if err == nil {
		t.Fatal("expected out of stock error")
	}
	if !strings.Contains(err.Error(), "out of stock") {
		t.Errorf("error = %q, want out of stock", err)
	}
}

func TestUpdateItemZeroRemovesLine(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Stand", 4, money.FromFloat(35.00))

	added, err := env.cart.AddItem(ctx, sale.ID, product.ID, 2)
	if err != nil {
		t.Fatalf("add item: %v", err)
	}

	updated, err := env.cart.UpdateItem(ctx, sale.ID, added.Items[0].ID, 0)
	if err != nil {
		t.Fatalf("update to zero: %v", err)
	}
	if len(updated.Items) != 0 {
		t.Errorf("items = %d, want 0 after removing the line", len(updated.Items))
	}
	if updated.Subtotal != 0 {
		t.Errorf("subtotal = %s, want 0", updated.Subtotal)
	}
}

func TestCartMutationRejectedOnFinalizedSale(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Charger", 10, money.FromFloat(20.00))

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	cash := env.method(t, "Cash")
	if _, err := env.payment.AddPayment(ctx, sale.ID, cash.ID, money.FromFloat(20.00)); err != nil {
		t.Fatalf("add payment: %v", err)
	}
	if _, err := env.checkout.Finalize(ctx, sale.ID, ""); err != nil {
		t.Fatalf("finalize: %v", err)
	}

	_, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1)
	if err == nil {
		t.Fatal("expected invalid state error")
	}
	appErr := apperror.GetAppError(err)
	if appErr.Code != 409 {
		t.Errorf("status = %d, want 409", appErr.Code)
	}
}

func TestSetCustomerDropsAppliedCredit(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Headset", 5, money.FromFloat(60.00))
	alice := env.createCustomer(t, "Alice")
	bob := env.createCustomer(t, "Bob")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, alice.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}

	// Alice has open credit which she applies to the cart.
	entry := &entity.LedgerEntry{
		CustomerID: alice.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(25.00),
	}
	if err := env.ledgerRepo.Create(ctx, entry); err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}
	withCredit, err := env.payment.ApplyCredit(ctx, sale.ID, 0)
	if err != nil {
		t.Fatalf("apply credit: %v", err)
	}
	if got, want := withCredit.TotalPaid, money.FromFloat(25.00); got != want {
		t.Fatalf("total paid = %s, want %s", got, want)
	}

	// Handing the cart to Bob must not spend Alice's balance.
	updated, err := env.cart.SetCustomer(ctx, sale.ID, bob.ID, env.payment.RemoveCreditPayments)
	if err != nil {
		t.Fatalf("reassign customer: %v", err)
	}
	if updated.CustomerID != bob.ID {
		t.Errorf("customer = %s, want %s", updated.CustomerID, bob.ID)
	}
	if updated.TotalPaid != 0 {
		t.Errorf("total paid = %s, want 0 after credit removal", updated.TotalPaid)
	}
	if len(updated.Payments) != 0 {
		t.Errorf("payments = %d, want 0", len(updated.Payments))
	}
}

func TestOpenDraftRowIsUnique(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	user := env.createUser(t, entity.RoleCashier)
	sale, err := env.cart.GetOrCreateDraft(ctx, user.ID, "till-9")
	if err != nil {
		t.Fatalf("create draft: %v", err)
	}

	// A second open draft for the same user and session key must be
	// rejected by the database, not just by the read-then-create path.
	dup := &entity.Sale{
		UserID:     user.ID,
		SessionKey: "till-9",
		CustomerID: sale.CustomerID,
		Status:     enum.SaleStatusDraft,
	}
	if err := env.db.Create(dup).Error; err == nil {
		t.Fatal("second open draft row inserted; drafts can fork")
	}

	// Finalized rows do not occupy the slot, so a fresh draft can open.
	if err := env.db.Model(&entity.Sale{}).Where("id = ?", sale.ID).
		Update("status", enum.SaleStatusCancelled).Error; err != nil {
		t.Fatalf("cancel draft: %v", err)
	}
	replacement, err := env.cart.GetOrCreateDraft(ctx, user.ID, "till-9")
	if err != nil {
		t.Fatalf("draft after cancel: %v", err)
	}
	if replacement.ID == sale.ID {
		t.Error("cancelled sale returned as the open draft")
	}
}

func TestSetCustomerUnsetRestoresGenericCustomer(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	_, sale := env.newDraft(t)
	product := env.createProduct(t, "Adapter", 5, money.FromFloat(45.00))
	alice := env.createCustomer(t, "Alice")

	if _, err := env.cart.AddItem(ctx, sale.ID, product.ID, 1); err != nil {
		t.Fatalf("add item: %v", err)
	}
	if _, err := env.cart.SetCustomer(ctx, sale.ID, alice.ID, env.payment.RemoveCreditPayments); err != nil {
		t.Fatalf("set customer: %v", err)
	}
	if err := env.ledgerRepo.Create(ctx, &entity.LedgerEntry{
		CustomerID: alice.ID,
		Type:       enum.LedgerTypeCredit,
		Status:     enum.LedgerStatusOpen,
		Amount:     money.FromFloat(15.00),
	}); err != nil {
		t.Fatalf("create ledger entry: %v", err)
	}
	if _, err := env.payment.ApplyCredit(ctx, sale.ID, 0); err != nil {
		t.Fatalf("apply credit: %v", err)
	}

	// The zero UUID detaches the named customer and falls back to the
	// walk-in customer, dropping Alice's applied credit on the way.
	updated, err := env.cart.SetCustomer(ctx, sale.ID, uuid.Nil, env.payment.RemoveCreditPayments)
	if err != nil {
		t.Fatalf("unset customer: %v", err)
	}
	restored, err := env.customerRepo.GetByID(ctx, updated.CustomerID)
	if err != nil {
		t.Fatalf("get customer: %v", err)
	}
	if restored == nil || !restored.IsGeneric {
		t.Errorf("customer = %+v, want the generic walk-in customer", restored)
	}
	if updated.TotalPaid != 0 {
		t.Errorf("total paid = %s, want 0 after credit removal", updated.TotalPaid)
	}
}
