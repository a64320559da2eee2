package models

import (
	"time"

	"github.com/google/uuid"
)

// Item is a stocked inventory article.
type Item struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	CreatedBy    uuid.UUID  `json:"created_by" db:"created_by"`
	Name         string     `json:"name" db:"name"`
	Category     *string    `json:"category,omitempty" db:"category"`
	Quantity     int        `json:"quantity" db:"quantity"`
	UnitPrice    float64    `json:"unit_price" db:"unit_price"`
	MinimumStock int        `json:"minimum_stock" db:"minimum_stock"`
	Supplier     *string    `json:"supplier,omitempty" db:"supplier"`
	PurchaseDate *time.Time `json:"purchase_date,omitempty" db:"purchase_date"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at" db:"updated_at"`
}

func (i *Item) IsLowStock() bool {
	return i.Quantity <= i.MinimumStock
}

// StockValue is unit price times quantity on hand.
func (i *Item) StockValue() float64 {
	return i.UnitPrice * float64(i.Quantity)
}
