package entity

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Customer represents a store customer
type Customer struct {
	ID        uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	FullName  string         `gorm:"size:255;not null" json:"full_name"`
	Phone     string         `gorm:"size:20;unique;not null" json:"phone"`
	Email     *string        `gorm:"size:255" json:"email,omitempty"`
	IsGeneric bool           `gorm:"default:false" json:"is_generic"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Sales         []Sale        `gorm:"foreignKey:CustomerID" json:"-"`
	LedgerEntries []LedgerEntry `gorm:"foreignKey:CustomerID" json:"-"`
}

// GenericCustomerPhone is the well-known phone of the walk-in customer every
// draft sale falls back to when no customer is set.
const GenericCustomerPhone = "00000000000"

// BeforeCreate generates a UUID before creating a new customer
func (c *Customer) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Customer model
func (Customer) TableName() string {
	return "customers"
}
