package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
)

// CartService manages draft sales: one open draft per user and session key,
// with line items kept in sync against live stock levels.
type CartService struct {
	txManager    repository.TxManager
	saleRepo     repository.SaleRepository
	saleItemRepo repository.SaleItemRepository
	productRepo  repository.ProductRepository
	customerRepo repository.CustomerRepository
	totals       *TotalsEngine
}

// NewCartService creates a new cart service
func NewCartService(
	txManager repository.TxManager,
	saleRepo repository.SaleRepository,
	saleItemRepo repository.SaleItemRepository,
	productRepo repository.ProductRepository,
	customerRepo repository.CustomerRepository,
	totals *TotalsEngine,
) *CartService {
	return &CartService{
		txManager:    txManager,
		saleRepo:     saleRepo,
		saleItemRepo: saleItemRepo,
		productRepo:  productRepo,
		customerRepo: customerRepo,
		totals:       totals,
	}
}

// GetOrCreateDraft returns the user's open draft for the session key, creating
// one bound to the generic walk-in customer when none exists.
func (s *CartService) GetOrCreateDraft(ctx context.Context, userID uuid.UUID, sessionKey string) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetDraft(ctx, userID, sessionKey)
	if err != nil {
		return nil, err
	}
	if sale != nil {
		return s.saleRepo.GetWithDetails(ctx, sale.ID)
	}

	generic, err := s.customerRepo.GetByPhone(ctx, entity.GenericCustomerPhone)
	if err != nil {
		return nil, err
	}
	if generic == nil {
		return nil, apperror.ErrGenericCustomerMissing
	}

	sale = &entity.Sale{
		UserID:     userID,
		SessionKey: sessionKey,
		CustomerID: generic.ID,
		Status:     enum.SaleStatusDraft,
	}
	if err := s.saleRepo.Create(ctx, sale); err != nil {
		// A concurrent request may have won the insert; the unique draft
		// index rejects ours, so serve the winner's row.
		existing, lookupErr := s.saleRepo.GetDraft(ctx, userID, sessionKey)
		if lookupErr == nil && existing != nil {
			return s.saleRepo.GetWithDetails(ctx, existing.ID)
		}
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, sale.ID)
}

// AddItem adds a product to the draft, merging into an existing line for the
// same product. The merged quantity is validated against current stock.
func (s *CartService) AddItem(ctx context.Context, saleID uuid.UUID, productID uuid.UUID, quantity int) (*entity.Sale, error) {
	if quantity <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}

		product, err := s.productRepo.GetByID(ctx, productID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if product.Quantity <= 0 {
			return apperror.NewOutOfStockError(product.Name)
		}

		existing, err := s.saleItemRepo.GetBySaleAndProduct(ctx, sale.ID, product.ID)
		if err != nil {
			return err
		}

		requested := quantity
		if existing != nil {
			requested += existing.Quantity
		}
		if requested > product.Quantity {
			return apperror.NewInsufficientStockError(product.Name, requested, product.Quantity)
		}

		if existing != nil {
			existing.Quantity = requested
			existing.RecomputeLineTotal()
			if err := s.saleItemRepo.Update(ctx, existing); err != nil {
				return err
			}
		} else {
			item := &entity.SaleItem{
				SaleID:    sale.ID,
				ProductID: product.ID,
				Quantity:  quantity,
				UnitPrice: product.SellingPrice,
				UnitCost:  product.CostPrice,
			}
			item.RecomputeLineTotal()
			if err := s.saleItemRepo.Create(ctx, item); err != nil {
				return err
			}
		}

		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// UpdateItem sets a line's quantity. Zero removes the line.
func (s *CartService) UpdateItem(ctx context.Context, saleID uuid.UUID, itemID uuid.UUID, quantity int) (*entity.Sale, error) {
	if quantity < 0 {
		return nil, apperror.ErrInvalidQuantity
	}

	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}

		item, err := s.saleItemRepo.GetByID(ctx, sale.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Sale item")
		}

		if quantity == 0 {
			if err := s.saleItemRepo.Delete(ctx, item.ID); err != nil {
				return err
			}
			return s.totals.Recalc(ctx, sale)
		}

		product, err := s.productRepo.GetByID(ctx, item.ProductID)
		if err != nil {
			return err
		}
		if product == nil {
			return apperror.NewNotFoundError("Product")
		}
		if quantity > product.Quantity {
			return apperror.NewInsufficientStockError(product.Name, quantity, product.Quantity)
		}

		item.Quantity = quantity
		item.RecomputeLineTotal()
		if err := s.saleItemRepo.Update(ctx, item); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// RemoveItem deletes a line from the draft.
func (s *CartService) RemoveItem(ctx context.Context, saleID uuid.UUID, itemID uuid.UUID) (*entity.Sale, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}
		item, err := s.saleItemRepo.GetByID(ctx, sale.ID, itemID)
		if err != nil {
			return err
		}
		if item == nil {
			return apperror.NewNotFoundError("Sale item")
		}
		if err := s.saleItemRepo.Delete(ctx, item.ID); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// SetCustomer reassigns the draft to another customer; the zero UUID resets
// it to the generic walk-in customer. Any credit already applied from the
// previous customer is removed and totals recalculated, so a draft never
// spends one customer's balance on another's sale.
func (s *CartService) SetCustomer(ctx context.Context, saleID uuid.UUID, customerID uuid.UUID, removeCredit func(ctx context.Context, sale *entity.Sale) error) (*entity.Sale, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}
		var customer *entity.Customer
		if customerID == uuid.Nil {
			customer, err = s.customerRepo.GetByPhone(ctx, entity.GenericCustomerPhone)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.ErrGenericCustomerMissing
			}
		} else {
			customer, err = s.customerRepo.GetByID(ctx, customerID)
			if err != nil {
				return err
			}
			if customer == nil {
				return apperror.NewNotFoundError("Customer")
			}
		}
		if sale.CustomerID == customer.ID {
			return nil
		}

		if removeCredit != nil {
			if err := removeCredit(ctx, sale); err != nil {
				return err
			}
		}

		sale.CustomerID = customer.ID
		if err := s.saleRepo.Update(ctx, sale); err != nil {
			return err
		}
		return s.totals.Recalc(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// SetNotes updates free-form notes on the draft.
func (s *CartService) SetNotes(ctx context.Context, saleID uuid.UUID, notes string) (*entity.Sale, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}
		sale.Notes = notes
		return s.saleRepo.Update(ctx, sale)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

// Cancel abandons a draft sale. Stock was never decremented for drafts, so no
// compensation is needed.
func (s *CartService) Cancel(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
	err := s.txManager.Do(ctx, func(ctx context.Context) error {
		sale, err := s.requireDraft(ctx, saleID)
		if err != nil {
			return err
		}
		return s.saleRepo.UpdateStatus(ctx, sale.ID, enum.SaleStatusCancelled)
	})
	if err != nil {
		return nil, err
	}
	return s.saleRepo.GetWithDetails(ctx, saleID)
}

func (s *CartService) requireDraft(ctx context.Context, saleID uuid.UUID) (*entity.Sale, error) {
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
