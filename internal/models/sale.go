package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Sale is one sold line: a quantity of a single product to a single client.
// UnitPrice is the product price at the moment of the sale.
type Sale struct {
	ID        int       `json:"id" db:"id"`
	ClientID  int       `json:"client_id" db:"client_id"`
	ProductID int       `json:"product_id" db:"product_id"`
	Quantity  int       `json:"quantity" db:"quantity"`
	UnitPrice float64   `json:"unit_price" db:"unit_price"`
	Total     float64   `json:"total" db:"total"`
	SoldAt    time.Time `json:"sold_at" db:"sold_at"`
}

// SaleDetail is a Sale with its client and product names resolved.
type SaleDetail struct {
	Sale
	ClientName  string `json:"client_name" db:"client_name"`
	ProductName string `json:"product_name" db:"product_name"`
}

// LineTotal returns unitPrice * quantity rounded to cents.
func LineTotal(unitPrice float64, quantity int) float64 {
	return decimal.NewFromFloat(unitPrice).
		Mul(decimal.NewFromInt(int64(quantity))).
		Round(2).
		InexactFloat64()
}
