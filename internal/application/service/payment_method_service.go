package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/entity"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/internal/domain/repository"
	"github.com/lucasferreira/retailpos-api/pkg/apperror"
	"github.com/lucasferreira/retailpos-api/pkg/money"
)

// CreatePaymentMethodInput holds the fields for a new payment method. The fee
// is given in percent and stored as basis points.
type CreatePaymentMethodInput struct {
	Name          string
	Description   *string
	FeePercentage float64
	FeePayer      enum.FeePayer
	IsCash        bool
}

// PaymentMethodService manages the configured payment methods. Internal
// methods (the store-credit method) are seeded and never created here.
type PaymentMethodService struct {
	methodRepo repository.PaymentMethodRepository
}

// NewPaymentMethodService creates a new payment method service
func NewPaymentMethodService(methodRepo repository.PaymentMethodRepository) *PaymentMethodService {
	return &PaymentMethodService{methodRepo: methodRepo}
}

// Create registers a new payment method.
func (s *PaymentMethodService) Create(ctx context.Context, input CreatePaymentMethodInput) (*entity.PaymentMethod, error) {
	if input.Name == "" {
		return nil, apperror.NewBadRequestError("Payment method name is required")
	}
	if input.FeePercentage < 0 || input.FeePercentage > 100 {
		return nil, apperror.NewBadRequestError("Fee percentage must be between 0 and 100")
	}
	existing, err := s.methodRepo.GetByName(ctx, input.Name)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, apperror.NewConflictError("A payment method with this name already exists")
	}

	method := &entity.PaymentMethod{
		Name:           input.Name,
		Description:    input.Description,
		FeeBasisPoints: money.FromPercent(input.FeePercentage),
		FeePayer:       input.FeePayer,
		IsActive:       true,
		IsCash:         input.IsCash,
	}
	if err := s.methodRepo.Create(ctx, method); err != nil {
		return nil, err
	}
	return method, nil
}

// GetByID returns a single payment method.
func (s *PaymentMethodService) GetByID(ctx context.Context, id uuid.UUID) (*entity.PaymentMethod, error) {
	method, err := s.methodRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if method == nil {
		return nil, apperror.ErrPaymentMethodNotFound
	}
	return method, nil
}

// ListActive returns the methods a cashier can pick at the till. Internal
// methods are excluded.
func (s *PaymentMethodService) ListActive(ctx context.Context) ([]entity.PaymentMethod, error) {
	return s.methodRepo.ListActive(ctx, false)
}
