// Package events publishes sale events to RabbitMQ and consumes them into an
// append-only audit log.
package events

import (
	"context"
	"fmt"
	"time"
)

// SaleRecorded is published after a sale has been committed.
type SaleRecorded struct {
	SaleID         int       `json:"sale_id"`
	ClientID       int       `json:"client_id"`
	ClientName     string    `json:"client_name,omitempty"`
	ProductID      int       `json:"product_id"`
	ProductName    string    `json:"product_name"`
	Quantity       int       `json:"quantity"`
	UnitPrice      float64   `json:"unit_price"`
	Total          float64   `json:"total"`
	RemainingStock int       `json:"remaining_stock"`
	SoldAt         time.Time `json:"sold_at"`
}

type Publisher interface {
	PublishSaleRecorded(ctx context.Context, event SaleRecorded) error
}

// NopPublisher drops every event. Used when no broker is configured.
type NopPublisher struct{}

func (NopPublisher) PublishSaleRecorded(context.Context, SaleRecorded) error { return nil }

// AuditLine renders one event as a single log line.
func AuditLine(ev SaleRecorded) string {
	return fmt.Sprintf("[%s] Sale recorded | sale_id=%d | client_id=%d | product_id=%d | product=%q | quantity=%d | unit_price=%.2f | total=%.2f | remaining=%d\n",
		ev.SoldAt.UTC().Format(time.RFC3339), ev.SaleID, ev.ClientID, ev.ProductID, ev.ProductName,
		ev.Quantity, ev.UnitPrice, ev.Total, ev.RemainingStock)
}
