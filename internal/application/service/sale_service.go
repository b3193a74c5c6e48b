package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
)

// SaleService serves the sales history.
type SaleService struct {
	saleRepo repository.SaleRepository
}

// NewSaleService creates a new sale service
func NewSaleService(saleRepo repository.SaleRepository) *SaleService {
	return &SaleService{saleRepo: saleRepo}
}

// GetByID returns a sale with items and payments loaded.
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*entity.Sale, error) {
	sale, err := s.saleRepo.GetWithDetails(ctx, id)
	if err != nil {
		return nil, err
	}
	if sale == nil {
		return nil, apperror.NewNotFoundError("Sale")
	}
	return sale, nil
}

// List returns the user's sales matching the filters.
func (s *SaleService) List(ctx context.Context, userID uuid.UUID, params *repository.SaleFilterParams) ([]entity.Sale, int64, error) {
	return s.saleRepo.List(ctx, userID, params)
}
