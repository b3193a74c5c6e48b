package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	domainRepo "github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type saleRepository struct {
	db *gorm.DB
}

// NewSaleRepository creates a new sale repository
func NewSaleRepository(db *gorm.DB) domainRepo.SaleRepository {
	return &saleRepository{db: db}
}

func (r *saleRepository) Create(ctx context.Context, sale *entity.Sale) error {
	return dbFromContext(ctx, r.db).Create(sale).Error
}

func (r *saleRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFromContext(ctx, r.db).First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetWithDetails(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFromContext(ctx, r.db).
		Preload("Customer").
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("sale_items.created_at ASC") }).
		Preload("Items.Product").
		Preload("Payments", func(db *gorm.DB) *gorm.DB { return db.Order("sale_payments.created_at ASC") }).
		Preload("Payments.PaymentMethod").
		First(&sale, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) GetDraft(ctx context.Context, userID uuid.UUID, sessionKey string) (*entity.Sale, error) {
	var sale entity.Sale
	err := dbFromContext(ctx, r.db).
		Where("user_id = ? AND session_key = ? AND status = ?", userID, sessionKey, enum.SaleStatusDraft).
		Order("created_at ASC").
		First(&sale).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &sale, err
}

func (r *saleRepository) Update(ctx context.Context, sale *entity.Sale) error {
	return dbFromContext(ctx, r.db).Save(sale).Error
}

func (r *saleRepository) UpdateTotals(ctx context.Context, sale *entity.Sale) error {
	return dbFromContext(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ?", sale.ID).
		Updates(map[string]interface{}{
			"subtotal":       sale.Subtotal,
			"discount_total": sale.DiscountTotal,
			"fee_total":      sale.FeeTotal,
			"total":          sale.Total,
			"total_paid":     sale.TotalPaid,
		}).Error
}

func (r *saleRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status enum.SaleStatus) error {
	return dbFromContext(ctx, r.db).Model(&entity.Sale{}).
		Where("id = ?", id).
		Update("status", status).Error
}

func (r *saleRepository) List(ctx context.Context, userID uuid.UUID, params *domainRepo.SaleFilterParams) ([]entity.Sale, int64, error) {
	var sales []entity.Sale
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Sale{})
	if userID != uuid.Nil {
		query = query.Where("user_id = ?", userID)
	}

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.StartDate != nil {
		query = query.Where("created_at >= ?", *params.StartDate)
	}
	if params.EndDate != nil {
		query = query.Where("created_at <= ?", *params.EndDate)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&sales).Error

	return sales, total, err
}

type saleItemRepository struct {
	db *gorm.DB
}

// NewSaleItemRepository creates a new sale item repository
func NewSaleItemRepository(db *gorm.DB) domainRepo.SaleItemRepository {
	return &saleItemRepository{db: db}
}

func (r *saleItemRepository) Create(ctx context.Context, item *entity.SaleItem) error {
	return dbFromContext(ctx, r.db).Create(item).Error
}

func (r *saleItemRepository) GetByID(ctx context.Context, saleID, itemID uuid.UUID) (*entity.SaleItem, error) {
	var item entity.SaleItem
	err := dbFromContext(ctx, r.db).
		Preload("Product").
		First(&item, "id = ? AND sale_id = ?", itemID, saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *saleItemRepository) GetBySaleAndProduct(ctx context.Context, saleID, productID uuid.UUID) (*entity.SaleItem, error) {
	var item entity.SaleItem
	err := dbFromContext(ctx, r.db).
		First(&item, "sale_id = ? AND product_id = ?", saleID, productID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &item, err
}

func (r *saleItemRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.SaleItem, error) {
	var items []entity.SaleItem
	err := dbFromContext(ctx, r.db).
		Preload("Product").
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}

func (r *saleItemRepository) Update(ctx context.Context, item *entity.SaleItem) error {
	return dbFromContext(ctx, r.db).Save(item).Error
}

func (r *saleItemRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&entity.SaleItem{}, "id = ?", id).Error
}

type salePaymentRepository struct {
	db *gorm.DB
}

// NewSalePaymentRepository creates a new sale payment repository
func NewSalePaymentRepository(db *gorm.DB) domainRepo.SalePaymentRepository {
	return &salePaymentRepository{db: db}
}

func (r *salePaymentRepository) Create(ctx context.Context, payment *entity.SalePayment) error {
	return dbFromContext(ctx, r.db).Create(payment).Error
}

func (r *salePaymentRepository) GetByID(ctx context.Context, saleID, paymentID uuid.UUID) (*entity.SalePayment, error) {
	var payment entity.SalePayment
	err := dbFromContext(ctx, r.db).
		Preload("PaymentMethod").
		First(&payment, "id = ? AND sale_id = ?", paymentID, saleID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &payment, err
}

func (r *salePaymentRepository) ListBySale(ctx context.Context, saleID uuid.UUID) ([]entity.SalePayment, error) {
	var payments []entity.SalePayment
	err := dbFromContext(ctx, r.db).
		Preload("PaymentMethod").
		Where("sale_id = ?", saleID).
		Order("created_at ASC").
		Find(&payments).Error
	return payments, err
}

func (r *salePaymentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return dbFromContext(ctx, r.db).Delete(&entity.SalePayment{}, "id = ?", id).Error
}

type paymentMethodRepository struct {
	db *gorm.DB
}

// NewPaymentMethodRepository creates a new payment method repository
func NewPaymentMethodRepository(db *gorm.DB) domainRepo.PaymentMethodRepository {
	return &paymentMethodRepository{db: db}
}

func (r *paymentMethodRepository) Create(ctx context.Context, method *entity.PaymentMethod) error {
	return dbFromContext(ctx, r.db).Create(method).Error
}

func (r *paymentMethodRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := dbFromContext(ctx, r.db).First(&method, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &method, err
}

func (r *paymentMethodRepository) GetByName(ctx context.Context, name string) (*entity.PaymentMethod, error) {
	var method entity.PaymentMethod
	err := dbFromContext(ctx, r.db).First(&method, "name = ?", name).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &method, err
}

func (r *paymentMethodRepository) ListActive(ctx context.Context, includeInternal bool) ([]entity.PaymentMethod, error) {
	var methods []entity.PaymentMethod
	query := dbFromContext(ctx, r.db).Where("is_active = ?", true)
	if !includeInternal {
		query = query.Where("is_internal = ?", false)
	}
	err := query.Order("name ASC").Find(&methods).Error
	return methods, err
}
