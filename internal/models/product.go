package models

import "time"

// DefaultMinimum is the stock threshold applied when a product is created without one.
const DefaultMinimum = 5

// Product represents a product entity in the inventory system.
type Product struct {
	ID          int        `json:"id" db:"id"`
	Name        string     `json:"name" db:"name"`
	Brand       string     `json:"brand" db:"brand"`
	Description string     `json:"description" db:"description"`
	Price       float64    `json:"price" db:"price"`
	Quantity    int        `json:"quantity" db:"quantity"`
	Minimum     int        `json:"minimum" db:"minimum"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty" db:"expires_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}
