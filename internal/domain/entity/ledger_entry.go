package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/internal/domain/enum"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

// LedgerEntry is one line of the per-customer credit journal. The journal is
// append-mostly: an entry's amount is only ever reduced during a partial FIFO
// settlement, and that reduction is always paired with a new settled entry of
// the same value.
type LedgerEntry struct {
	ID          uuid.UUID         `gorm:"type:uuid;primary_key" json:"id"`
	CustomerID  uuid.UUID         `gorm:"type:uuid;not null;index:idx_ledger_customer_status" json:"customer_id"`
	SaleID      *uuid.UUID        `gorm:"type:uuid;index" json:"sale_id,omitempty"`
	Type        enum.LedgerType   `gorm:"not null;index" json:"type"`
	Status      enum.LedgerStatus `gorm:"default:0;index:idx_ledger_customer_status" json:"status"`
	Amount      money.Cents       `gorm:"not null" json:"-"`
	Description string            `gorm:"type:text" json:"description"`
	CreatedAt   time.Time         `json:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at"`
	SettledAt   *time.Time        `json:"settled_at,omitempty"`

	// Relationships
	Customer Customer `gorm:"foreignKey:CustomerID" json:"customer,omitempty"`
	Sale     *Sale    `gorm:"foreignKey:SaleID" json:"-"`
}

// MarshalJSON converts cents to decimal for API responses
func (e LedgerEntry) MarshalJSON() ([]byte, error) {
	type Alias LedgerEntry
	return json.Marshal(&struct {
		Alias
		Amount float64 `json:"amount"`
	}{
		Alias:  Alias(e),
		Amount: e.Amount.Float(),
	})
}

// BeforeCreate generates a UUID before creating a new ledger entry
func (e *LedgerEntry) BeforeCreate(tx *gorm.DB) error {
	if e.ID == uuid.Nil {
		e.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the LedgerEntry model
func (LedgerEntry) TableName() string {
	return "ledger_entries"
}
