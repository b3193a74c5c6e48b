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

type returnRepository struct {
	db *gorm.DB
}

// NewReturnRepository creates a new return repository
func NewReturnRepository(db *gorm.DB) domainRepo.ReturnRepository {
	return &returnRepository{db: db}
}

func (r *returnRepository) Create(ctx context.Context, ret *entity.Return) error {
	return dbFromContext(ctx, r.db).Create(ret).Error
}

func (r *returnRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Return, error) {
	var ret entity.Return
	err := dbFromContext(ctx, r.db).First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *returnRepository) GetWithItems(ctx context.Context, id uuid.UUID) (*entity.Return, error) {
	var ret entity.Return
	err := dbFromContext(ctx, r.db).
		Preload("Customer").
		Preload("Items").
		Preload("Items.Product").
		First(&ret, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &ret, err
}

func (r *returnRepository) Update(ctx context.Context, ret *entity.Return) error {
	return dbFromContext(ctx, r.db).Save(ret).Error
}

func (r *returnRepository) List(ctx context.Context, params *domainRepo.ReturnFilterParams) ([]entity.Return, int64, error) {
	var returns []entity.Return
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Return{})

	if params.Status != nil {
		query = query.Where("status = ?", *params.Status)
	}
	if params.CustomerID != nil {
		query = query.Where("customer_id = ?", *params.CustomerID)
	}
	if params.SaleID != nil {
		query = query.Where("original_sale_id = ?", *params.SaleID)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Preload("Customer").
		Order("created_at DESC").
		Find(&returns).Error

	return returns, total, err
}

// SumReturnedQuantities totals returned quantities per sale item across
// returns in the given states, in a single grouped query.
func (r *returnRepository) SumReturnedQuantities(ctx context.Context, saleItemIDs []uuid.UUID, statuses []enum.ReturnStatus) (map[uuid.UUID]int, error) {
	result := make(map[uuid.UUID]int, len(saleItemIDs))
	if len(saleItemIDs) == 0 || len(statuses) == 0 {
		return result, nil
	}

	type row struct {
		SaleItemID uuid.UUID
		Total      int
	}
	var rows []row

	err := dbFromContext(ctx, r.db).Model(&entity.ReturnItem{}).
		Select("return_items.sale_item_id AS sale_item_id, COALESCE(SUM(return_items.quantity), 0) AS total").
		Joins("JOIN returns ON returns.id = return_items.return_id").
		Where("return_items.sale_item_id IN ?", saleItemIDs).
		Where("returns.status IN ?", statuses).
		Group("return_items.sale_item_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	for _, row := range rows {
		result[row.SaleItemID] = row.Total
	}
	return result, nil
}

type returnItemRepository struct {
	db *gorm.DB
}

// NewReturnItemRepository creates a new return item repository
func NewReturnItemRepository(db *gorm.DB) domainRepo.ReturnItemRepository {
	return &returnItemRepository{db: db}
}

func (r *returnItemRepository) Create(ctx context.Context, item *entity.ReturnItem) error {
	return dbFromContext(ctx, r.db).Create(item).Error
}

func (r *returnItemRepository) ListByReturn(ctx context.Context, returnID uuid.UUID) ([]entity.ReturnItem, error) {
	var items []entity.ReturnItem
	err := dbFromContext(ctx, r.db).
		Preload("Product").
		Where("return_id = ?", returnID).
		Order("created_at ASC").
		Find(&items).Error
	return items, err
}
