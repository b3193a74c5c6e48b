package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

// Sale represents a point-of-sale transaction. It starts as a draft cart
// owned by one (user, session key) pair and becomes read-mostly once
// finalized.
type Sale struct {
	ID            uuid.UUID       `gorm:"type:uuid;primary_key" json:"id"`
	UserID        uuid.UUID       `gorm:"type:uuid;not null;index:idx_sales_draft" json:"user_id"`
	CustomerID    uuid.UUID       `gorm:"type:uuid;not null;index" json:"customer_id"`
	SessionKey    string          `gorm:"size:40;index:idx_sales_draft" json:"session_key"`
	Status        enum.SaleStatus `gorm:"default:0;index:idx_sales_draft" json:"status"`
	Subtotal      money.Cents     `gorm:"default:0" json:"-"`
	DiscountTotal money.Cents     `gorm:"default:0" json:"-"`
	FeeTotal      money.Cents     `gorm:"default:0" json:"-"`
	Total         money.Cents     `gorm:"default:0" json:"-"`
	TotalPaid     money.Cents     `gorm:"default:0" json:"-"`
	Notes         string          `gorm:"type:text" json:"notes"`
	CreatedAt     time.Time       `json:"created_at"`
	UpdatedAt     time.Time       `json:"updated_at"`
	FinalizedAt   *time.Time      `json:"finalized_at,omitempty"`

	// Relationships
	User     User          `gorm:"foreignKey:UserID" json:"-"`
	Customer Customer      `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Items    []SaleItem    `gorm:"foreignKey:SaleID" json:"items,omitempty"`
	Payments []SalePayment `gorm:"foreignKey:SaleID" json:"payments,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (s Sale) MarshalJSON() ([]byte, error) {
	type Alias Sale
	return json.Marshal(&struct {
		Alias
		Subtotal      float64 `json:"subtotal"`
		DiscountTotal float64 `json:"discount_total"`
		FeeTotal      float64 `json:"fee_total"`
		Total         float64 `json:"total"`
		TotalPaid     float64 `json:"total_paid"`
		Remaining     float64 `json:"remaining"`
	}{
		Alias:         Alias(s),
		Subtotal:      s.Subtotal.Float(),
		DiscountTotal: s.DiscountTotal.Float(),
		FeeTotal:      s.FeeTotal.Float(),
		Total:         s.Total.Float(),
		TotalPaid:     s.TotalPaid.Float(),
		Remaining:     s.Remaining().Float(),
	})
}

// Remaining returns the amount still owed on the sale.
func (s *Sale) Remaining() money.Cents {
	return money.Max(0, s.Total-s.TotalPaid)
}

// Overpaid returns the amount paid above the total.
func (s *Sale) Overpaid() money.Cents {
	return money.Max(0, s.TotalPaid-s.Total)
}

// ChangeTotal sums the change given across all payments.
func (s *Sale) ChangeTotal() money.Cents {
	var total money.Cents
	for _, p := range s.Payments {
		total += p.ChangeGiven
	}
	return total
}

// ItemsCount sums the quantities across all lines.
func (s *Sale) ItemsCount() int {
	var n int
	for _, item := range s.Items {
		n += item.Quantity
	}
	return n
}

// BeforeCreate generates a UUID before creating a new sale
func (s *Sale) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Sale model
func (Sale) TableName() string {
	return "sales"
}

// SaleItem is one line of a sale. Unit price and cost are snapshots taken
// when the line is added and never change afterwards.
type SaleItem struct {
	ID        uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	SaleID    uuid.UUID   `gorm:"type:uuid;not null;index" json:"sale_id"`
	ProductID uuid.UUID   `gorm:"type:uuid;not null;index" json:"product_id"`
	Quantity  int         `gorm:"not null" json:"quantity"`
	UnitPrice money.Cents `gorm:"not null" json:"-"`
	UnitCost  money.Cents `gorm:"default:0" json:"-"`
	LineTotal money.Cents `gorm:"default:0" json:"-"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`

	// Relationships
	Sale    Sale    `gorm:"foreignKey:SaleID" json:"-"`
	Product Product `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (i SaleItem) MarshalJSON() ([]byte, error) {
	type Alias SaleItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		UnitCost  float64 `json:"unit_cost"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		UnitPrice: i.UnitPrice.Float(),
		UnitCost:  i.UnitCost.Float(),
		LineTotal: i.LineTotal.Float(),
	})
}

// Profit returns quantity * (unitPrice - unitCost).
func (i *SaleItem) Profit() money.Cents {
	return (i.UnitPrice - i.UnitCost).MulQty(i.Quantity)
}

// RecomputeLineTotal derives the line total from quantity and unit price.
func (i *SaleItem) RecomputeLineTotal() {
	i.LineTotal = i.UnitPrice.MulQty(i.Quantity)
}

// BeforeCreate generates a UUID before creating a new sale item
func (i *SaleItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SaleItem model
func (SaleItem) TableName() string {
	return "sale_items"
}

// SalePayment is one payment captured against a sale. Cash payments carry
// tendered and change amounts; other methods apply their amount verbatim.
type SalePayment struct {
	ID              uuid.UUID    `gorm:"type:uuid;primary_key" json:"id"`
	SaleID          uuid.UUID    `gorm:"type:uuid;not null;index" json:"sale_id"`
	PaymentMethodID uuid.UUID    `gorm:"type:uuid;not null;index" json:"payment_method_id"`
	AmountApplied   money.Cents  `gorm:"not null" json:"-"`
	CashTendered    *money.Cents `json:"-"`
	ChangeGiven     money.Cents  `gorm:"default:0" json:"-"`
	CreatedAt       time.Time    `json:"created_at"`
	UpdatedAt       time.Time    `json:"updated_at"`

	// Relationships
	Sale          Sale          `gorm:"foreignKey:SaleID" json:"-"`
	PaymentMethod PaymentMethod `gorm:"foreignKey:PaymentMethodID" json:"payment_method,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (p SalePayment) MarshalJSON() ([]byte, error) {
	type Alias SalePayment
	out := &struct {
		Alias
		AmountApplied float64  `json:"amount_applied"`
		CashTendered  *float64 `json:"cash_tendered,omitempty"`
		ChangeGiven   float64  `json:"change_given"`
	}{
		Alias:         Alias(p),
		AmountApplied: p.AmountApplied.Float(),
		ChangeGiven:   p.ChangeGiven.Float(),
	}
	if p.CashTendered != nil {
		v := p.CashTendered.Float()
		out.CashTendered = &v
	}
	return json.Marshal(out)
}

// BeforeCreate generates a UUID before creating a new sale payment
func (p *SalePayment) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the SalePayment model
func (SalePayment) TableName() string {
	return "sale_payments"
}
