package apperror

import (
	"fmt"
	"net/http"
	"strings"
)

// Domain errors raised by the POS core. They always carry a human-readable
// message and roll back the enclosing transaction.
var (
	ErrInvalidQuantity       = &AppError{Code: http.StatusBadRequest, Message: "Quantity must be greater than zero"}
	ErrPaymentMethodNotFound = &AppError{Code: http.StatusNotFound, Message: "Payment method not found"}
	ErrInsufficientCredit    = &AppError{Code: http.StatusBadRequest, Message: "Customer does not have enough available credit"}

	// ErrGenericCustomerMissing means the walk-in customer seed is absent,
	// which only happens when migrations ran without seeding.
	ErrGenericCustomerMissing = &AppError{Code: http.StatusInternalServerError, Message: "Generic customer is not configured"}
)

// NewOutOfStockError reports a product with no stock at all.
func NewOutOfStockError(product string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("%s is out of stock", product),
	}
}

// NewInsufficientStockError reports a requested quantity above what is available.
func NewInsufficientStockError(product string, requested, available int) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", product, requested, available),
	}
}

// NewStockValidationError lists every product that failed stock validation
// during finalization.
func NewStockValidationError(products []string) *AppError {
	return &AppError{
		Code:    http.StatusBadRequest,
		Message: "Insufficient stock for: " + strings.Join(products, ", "),
	}
}

// NewInvalidStateError reports an operation attempted against an entity in
// the wrong lifecycle state.
func NewInvalidStateError(message string) *AppError {
	return &AppError{
		Code:    http.StatusConflict,
		Message: message,
	}
}

// NewReturnQuantityExceededError reports a return request above the remaining
// returnable quantity of a sale item.
func NewReturnQuantityExceededError(product string, requested, available, sold, returned int) *AppError {
	return &AppError{
		Code: http.StatusBadRequest,
		Message: fmt.Sprintf(
			"%s: trying to return %d units but only %d are available (sold: %d, already returned: %d)",
			product, requested, available, sold, returned,
		),
	}
}

// NewUnauthorizedTransitionError reports a return transition attempted by a
// user without elevated privilege.
func NewUnauthorizedTransitionError() *AppError {
	return &AppError{
		Code:    http.StatusForbidden,
		Message: "Only managers can approve or reject returns",
	}
}
