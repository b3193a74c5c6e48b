package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

// Return represents a refund request against a finalized sale
type Return struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	OriginalSaleID uuid.UUID         `gorm:"type:uuid;not null;index" json:"original_sale_id"`
	CustomerID     uuid.UUID         `gorm:"type:uuid;not null;index" json:"customer_id"`
	UserID         uuid.UUID         `gorm:"type:uuid;not null" json:"user_id"`
	ApprovedByID   *uuid.UUID        `gorm:"type:uuid" json:"approved_by_id,omitempty"`
	LedgerEntryID  *uuid.UUID        `gorm:"type:uuid" json:"ledger_entry_id,omitempty"`
	Status         enum.ReturnStatus `gorm:"default:0;index" json:"status"`
	Reason         string            `gorm:"type:text;not null" json:"reason"`
	RefundMethod   enum.RefundMethod `gorm:"not null" json:"refund_method"`
	TotalAmount    money.Cents       `gorm:"default:0" json:"-"`
	Notes          string            `gorm:"type:text" json:"notes"`
	CreatedAt      time.Time         `json:"created_at"`
	UpdatedAt      time.Time         `json:"updated_at"`
	ApprovedAt     *time.Time        `json:"approved_at,omitempty"`
	CompletedAt    *time.Time        `json:"completed_at,omitempty"`

	// Relationships
	OriginalSale Sale         `gorm:"foreignKey:OriginalSaleID" json:"-"`
	Customer     Customer     `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	User         User         `gorm:"foreignKey:UserID" json:"-"`
	ApprovedBy   *User        `gorm:"foreignKey:ApprovedByID" json:"-"`
	LedgerEntry  *LedgerEntry `gorm:"foreignKey:LedgerEntryID" json:"-"`
	Items        []ReturnItem `gorm:"foreignKey:ReturnID" json:"items,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (r Return) MarshalJSON() ([]byte, error) {
	type Alias Return
	return json.Marshal(&struct {
		Alias
		TotalAmount float64 `json:"total_amount"`
	}{
		Alias:       Alias(r),
		TotalAmount: r.TotalAmount.Float(),
	})
}

// BeforeCreate generates a UUID before creating a new return
func (r *Return) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Return model
func (Return) TableName() string {
	return "returns"
}

// ReturnItem references the original sale line being returned. The unit
// price may be overridden downwards at creation time but never above the
// original line price.
type ReturnItem struct {
	ID         uuid.UUID   `gorm:"type:uuid;primary_key" json:"id"`
	ReturnID   uuid.UUID   `gorm:"type:uuid;not null;index" json:"return_id"`
	SaleItemID uuid.UUID   `gorm:"type:uuid;not null;index" json:"sale_item_id"`
	ProductID  uuid.UUID   `gorm:"type:uuid;not null" json:"product_id"`
	Quantity   int         `gorm:"not null" json:"quantity"`
	UnitPrice  money.Cents `gorm:"not null" json:"-"`
	CreatedAt  time.Time   `json:"created_at"`
	UpdatedAt  time.Time   `json:"updated_at"`

	// Relationships
	Return   Return   `gorm:"foreignKey:ReturnID" json:"-"`
	SaleItem SaleItem `gorm:"foreignKey:SaleItemID" json:"-"`
	Product  Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
}

// MarshalJSON converts cents to decimal for API responses
func (i ReturnItem) MarshalJSON() ([]byte, error) {
	type Alias ReturnItem
	return json.Marshal(&struct {
		Alias
		UnitPrice float64 `json:"unit_price"`
		LineTotal float64 `json:"line_total"`
	}{
		Alias:     Alias(i),
		UnitPrice: i.UnitPrice.Float(),
		LineTotal: i.LineTotal().Float(),
	})
}

// LineTotal returns quantity * unit price.
func (i *ReturnItem) LineTotal() money.Cents {
	return i.UnitPrice.MulQty(i.Quantity)
}

// BeforeCreate generates a UUID before creating a new return item
func (i *ReturnItem) BeforeCreate(tx *gorm.DB) error {
	if i.ID == uuid.Nil {
		i.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the ReturnItem model
func (ReturnItem) TableName() string {
	return "return_items"
}
