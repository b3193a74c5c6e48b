package repository

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	domainRepo "github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"gorm.io/gorm"
)

type productRepository struct {
	db *gorm.DB
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *gorm.DB) domainRepo.ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) Create(ctx context.Context, product *entity.Product) error {
	return dbFromContext(ctx, r.db).Create(product).Error
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	var product entity.Product
	err := dbFromContext(ctx, r.db).First(&product, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	return &product, err
}

// GetByIDs retrieves multiple products by their IDs in a single query
func (r *productRepository) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Product, error) {
	if len(ids) == 0 {
		return []entity.Product{}, nil
	}
	var products []entity.Product
	err := dbFromContext(ctx, r.db).Where("id IN ?", ids).Find(&products).Error
	return products, err
}

func (r *productRepository) List(ctx context.Context, params *domainRepo.ProductFilterParams) ([]entity.Product, int64, error) {
	var products []entity.Product
	var total int64

	query := dbFromContext(ctx, r.db).Model(&entity.Product{})

	if params.Search != "" {
		query = query.Where("name LIKE ? OR code LIKE ?",
			"%"+params.Search+"%", "%"+params.Search+"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	params.Pagination.Validate()
	err := query.Offset(params.Pagination.Offset()).Limit(params.Pagination.PerPage).
		Order("name ASC").
		Find(&products).Error

	return products, total, err
}

// AtomicDecrementQuantity decrements stock only if sufficient quantity exists.
// Uses: UPDATE products SET quantity = quantity - amount WHERE id = ? AND quantity >= amount
func (r *productRepository) AtomicDecrementQuantity(ctx context.Context, id uuid.UUID, amount int) (bool, error) {
	result := dbFromContext(ctx, r.db).Model(&entity.Product{}).
		Where("id = ? AND quantity >= ?", id, amount).
		Update("quantity", gorm.Expr("quantity - ?", amount))

	if result.Error != nil {
		return false, result.Error
	}

	// No rows affected means insufficient stock
	return result.RowsAffected > 0, nil
}

func (r *productRepository) IncrementQuantity(ctx context.Context, id uuid.UUID, amount int) error {
	return dbFromContext(ctx, r.db).Model(&entity.Product{}).
		Where("id = ?", id).
		Update("quantity", gorm.Expr("quantity + ?", amount)).Error
}
