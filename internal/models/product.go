package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Product represents a product in the catalog.
type Product struct {
	ID           uint            `json:"id" gorm:"primaryKey;autoIncrement"`
	Name         string          `json:"name" gorm:"type:varchar(100);not null"`
	Price        decimal.Decimal `json:"price" gorm:"type:decimal(10,2);not null"`
	// No gorm default: GORM would insert a false value as the default.
	Availability bool            `json:"availability" gorm:"not null"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

// TableName returns the table name for Product.
func (Product) TableName() string {
	return "products"
}
