package entity

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/lucasferreira/retailpos-api/pkg/money"
	"gorm.io/gorm"
)

// Product carries the stock counter and the price/cost snapshot source for
// sale lines. Catalog management lives elsewhere; the POS only reads prices
// and moves quantity.
type Product struct {
	ID           uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name         string         `gorm:"size:500;not null" json:"name"`
	Code         string         `gorm:"size:100;unique;not null" json:"code"`
	Quantity     int            `gorm:"default:0" json:"quantity"`
	CostPrice    money.Cents    `gorm:"default:0" json:"-"`
	SellingPrice money.Cents    `gorm:"default:0" json:"-"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

// MarshalJSON converts cents to decimal for API responses
func (p Product) MarshalJSON() ([]byte, error) {
	type Alias Product
	return json.Marshal(&struct {
		Alias
		CostPrice    float64 `json:"cost_price"`
		SellingPrice float64 `json:"selling_price"`
	}{
		Alias:        Alias(p),
		CostPrice:    p.CostPrice.Float(),
		SellingPrice: p.SellingPrice.Float(),
	})
}

// BeforeCreate generates a UUID before creating a new product
func (p *Product) BeforeCreate(tx *gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// TableName returns the table name for the Product model
func (Product) TableName() string {
	return "products"
}
