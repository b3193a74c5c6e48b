package entity

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

// PaymentMethod represents a way of paying for a sale
type PaymentMethod struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	Name           string            `gorm:"size:100;unique;not null" json:"name"`
	Description    *string           `gorm:"type:text" json:"description,omitempty"`
	FeeBasisPoints money.BasisPoints `gorm:"default:0" json:"-"`
	FeePayer       enum.FeePayer     `gorm:"default:0" json:"fee_payer"`
	IsActive       bool              `gorm:"default:true" json:"is_active"`
	// Internal methods (e.g. Credit) are reserved for system flows and never
	// surface in customer-facing method lists.
	IsInternal bool           `gorm:"default:false" json:"is_internal"`
	IsCash     bool           `gorm:"default:false" json:"is_cash"`
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
	DeletedAt  gorm.DeletedAt `gorm:"index" json:"-"`
}

// CreditMethodName is the reserved name of the internal store-credit method.
const CreditMethodName = "Credit"

// IsCashLike reports whether payments with this method take tendered cash and
// give change. The flag wins; the name match covers rows predating it.
func (m *PaymentMethod) IsCashLike() bool {
	if m.IsCash {
		return true
	}
	name := strings.ToLower(m.Name)
	return name == "cash" || name == "dinheiro"
}

// ChargesCustomerFee reports whether this method adds a surcharge paid by the
// customer on top of the sale total.
func (m *PaymentMethod) ChargesCustomerFee() bool {
	return m.FeePayer == enum.FeePayerCustomer && m.FeeBasisPoints > 0
}

// MarshalJSON converts basis points to a decimal percentage for API responses
func (m PaymentMethod) MarshalJSON() ([]byte, error) {
	type Alias PaymentMethod
	return json.Marshal(&struct {
		Alias
		FeePercentage float64 `json:"fee_percentage"`
	}{
		Alias:         Alias(m),
		FeePercentage: m.FeeBasisPoints.Percent(),
	})
}

// BeforeCreate generates a UUID before creating a new payment method
func (m *PaymentMethod) BeforeCreate(tx *gorm.DB) error {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the PaymentMethod model
func (PaymentMethod) TableName() string {
	return "payment_methods"
}
