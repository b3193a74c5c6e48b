package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// CreateProductInput holds the fields required to register a product.
type CreateProductInput struct {
	Name         string
	Code         string
	Quantity     int
	CostPrice    money.Cents
	SellingPrice money.Cents
}

// ProductService manages the product catalog and stock adjustments outside
// the sale flow.
type ProductService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new product service
func NewProductService(productRepo repository.ProductRepository) *ProductService {
	return &ProductService{productRepo: productRepo}
}

// Create registers a new product.
func (s *ProductService) Create(ctx context.Context, input CreateProductInput) (*entity.Product, error) {
	if input.Name == "" || input.Code == "" {
		return nil, apperror.NewBadRequestError("Product name and code are required")
	}
	if input.Quantity < 0 {
		return nil, apperror.NewBadRequestError("Product quantity cannot be negative")
	}
	if input.SellingPrice < 0 || input.CostPrice < 0 {
		return nil, apperror.NewBadRequestError("Product prices cannot be negative")
	}

	product := &entity.Product{
		Name:         input.Name,
		Code:         input.Code,
		Quantity:     input.Quantity,
		CostPrice:    input.CostPrice,
		SellingPrice: input.SellingPrice,
	}
	if err := s.productRepo.Create(ctx, product); err != nil {
		return nil, err
	}
	return product, nil
}

// GetByID returns a single product.
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	return product, nil
}

// List returns products matching the filters.
func (s *ProductService) List(ctx context.Context, params *repository.ProductFilterParams) ([]entity.Product, int64, error) {
	return s.productRepo.List(ctx, params)
}

// Restock adds units to a product's stock.
func (s *ProductService) Restock(ctx context.Context, id uuid.UUID, amount int) (*entity.Product, error) {
	if amount <= 0 {
		return nil, apperror.ErrInvalidQuantity
	}
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, apperror.NewNotFoundError("Product")
	}
	if err := s.productRepo.IncrementQuantity(ctx, id, amount); err != nil {
		return nil, err
	}
	return s.productRepo.GetByID(ctx, id)
}
