package stock

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

// Notifier is told whenever a product ends up below the normal level.
type Notifier interface {
	StockAlert(ctx context.Context, p models.Product, level Level)
}

type Monitor struct {
	products repo.ProductRepository
	notifier Notifier
	now      func() time.Time
}

// NewMonitor builds a Monitor. notifier may be nil.
func NewMonitor(products repo.ProductRepository, notifier Notifier) *Monitor {
	return &Monitor{
		products: products,
		notifier: notifier,
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// Check loads every product and partitions it. A store failure is returned,
// never reported as an empty result.
func (m *Monitor) Check(ctx context.Context) (Alerts, error) {
	products, err := m.products.GetAll(ctx)
	if err != nil {
		return Alerts{}, fmt.Errorf("stock check failed: %w", err)
	}
	return Partition(products), nil
}

// SetQuantity stores a new quantity, clamped to zero, and refreshes updated_at.
func (m *Monitor) SetQuantity(ctx context.Context, productID, quantity int) (models.Product, error) {
	quantity = max(quantity, 0)

	p, err := m.products.SetQuantity(ctx, productID, quantity, m.now())
	if err != nil {
		log.Printf("could not update quantity of product %d: %v", productID, err)
		return models.Product{}, err
	}

	m.Notify(ctx, p)
	return p, nil
}

// Notify raises an alert for p when it is not at the normal level.
func (m *Monitor) Notify(ctx context.Context, p models.Product) {
	if m.notifier == nil {
		return
	}
	if level := Classify(p); level != Normal {
		m.notifier.StockAlert(ctx, p, level)
	}
}

// NotifyChange alerts only when after sits in a different level than before
// and that level is not normal. Repeated sales inside the low band stay quiet.
func (m *Monitor) NotifyChange(ctx context.Context, before, after models.Product) {
	if Classify(before) == Classify(after) {
		return
	}
	m.Notify(ctx, after)
}
