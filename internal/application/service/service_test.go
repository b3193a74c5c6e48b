package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/internal/infrastructure/database"
	infraRepo "github.com/lucasferreira/retailpos-api/internal/infrastructure/repository"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// testEnv wires the full service stack onto an in-memory SQLite database so
// the transactional flows run against real SQL.
type testEnv struct {
	db *gorm.DB

	saleRepo        repository.SaleRepository
	saleItemRepo    repository.SaleItemRepository
	salePaymentRepo repository.SalePaymentRepository
	productRepo     repository.ProductRepository
	customerRepo    repository.CustomerRepository
	userRepo        repository.UserRepository
	methodRepo      repository.PaymentMethodRepository
	ledgerRepo      repository.LedgerRepository
	returnRepo      repository.ReturnRepository
	returnItemRepo  repository.ReturnItemRepository

	totals   *TotalsEngine
	cart     *CartService
	payment  *PaymentService
	checkout *CheckoutService
	ledger   *LedgerService
	returns  *ReturnService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	if err := database.AutoMigrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	if err := database.SeedDefaultData(db); err != nil {
		t.Fatalf("seed: %v", err)
	}

	env := &testEnv{
		db:              db,
		saleRepo:        infraRepo.NewSaleRepository(db),
		saleItemRepo:    infraRepo.NewSaleItemRepository(db),
		salePaymentRepo: infraRepo.NewSalePaymentRepository(db),
		productRepo:     infraRepo.NewProductRepository(db),
		customerRepo:    infraRepo.NewCustomerRepository(db),
		userRepo:        infraRepo.NewUserRepository(db),
		methodRepo:      infraRepo.NewPaymentMethodRepository(db),
		ledgerRepo:      infraRepo.NewLedgerRepository(db),
		returnRepo:      infraRepo.NewReturnRepository(db),
		returnItemRepo:  infraRepo.NewReturnItemRepository(db),
	}

	txManager := infraRepo.NewTxManager(db)
	env.totals = NewTotalsEngine(env.saleRepo, env.saleItemRepo, env.salePaymentRepo)
	env.cart = NewCartService(txManager, env.saleRepo, env.saleItemRepo, env.productRepo, env.customerRepo, env.totals)
	env.payment = NewPaymentService(txManager, env.saleRepo, env.salePaymentRepo, env.methodRepo, env.ledgerRepo, env.totals)
	env.checkout = NewCheckoutService(txManager, env.saleRepo, env.saleItemRepo, env.salePaymentRepo, env.productRepo, env.methodRepo, env.ledgerRepo, env.totals)
	env.ledger = NewLedgerService(txManager, env.ledgerRepo, env.customerRepo)
	env.returns = NewReturnService(txManager, env.returnRepo, env.returnItemRepo, env.saleRepo, env.saleItemRepo, env.productRepo, env.ledgerRepo, env.userRepo)

	return env
}

var userSeq int

func (e *testEnv) createUser(t *testing.T, role string) *entity.User {
	t.Helper()
	userSeq++
	user := &entity.User{
		FirstName: "Test",
		LastName:  role,
		Email:     fmt.Sprintf("%s%d@example.com", role, userSeq),
		Password:  "not-a-real-hash",
		Role:      role,
	}
	if err := e.userRepo.Create(context.Background(), user); err != nil {
		t.Fatalf("create user: %v", err)
	}
	return user
}

var productSeq int

func (e *testEnv) createProduct(t *testing.T, name string, quantity int, price money.Cents) *entity.Product {
	t.Helper()
	productSeq++
	product := &entity.Product{
		Name:         name,
		Code:         fmt.Sprintf("SKU-%d", productSeq),
		Quantity:     quantity,
		CostPrice:    price / 2,
		SellingPrice: price,
	}
	if err := e.productRepo.Create(context.Background(), product); err != nil {
		t.Fatalf("create product: %v", err)
	}
	return product
}

var customerSeq int

func (e *testEnv) createCustomer(t *testing.T, name string) *entity.Customer {
	t.Helper()
	customerSeq++
	customer := &entity.Customer{
		FullName: name,
		Phone:    fmt.Sprintf("119%08d", customerSeq),
	}
	if err := e.customerRepo.Create(context.Background(), customer); err != nil {
		t.Fatalf("create customer: %v", err)
	}
	return customer
}

func (e *testEnv) method(t *testing.T, name string) *entity.PaymentMethod {
	t.Helper()
	method, err := e.methodRepo.GetByName(context.Background(), name)
	if err != nil {
		t.Fatalf("get payment method %s: %v", name, err)
	}
	if method == nil {
		t.Fatalf("payment method %s not seeded", name)
	}
	return method
}

// newDraft opens a fresh draft cart for a new cashier.
func (e *testEnv) newDraft(t *testing.T) (*entity.User, *entity.Sale) {
	t.Helper()
	user := e.createUser(t, entity.RoleCashier)
	sale, err := e.cart.GetOrCreateDraft(context.Background(), user.ID, "till-1")
	if err != nil {
		t.Fatalf("get or create draft: %v", err)
	}
	return user, sale
}
