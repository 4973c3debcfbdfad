package repo

import (
	"context"
	"slices"
	"sync"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

type InMemorySaleRepository struct {
	mu       sync.RWMutex
	sales    []models.Sale
	products *InMemoryProductRepository
	clients  *InMemoryClientRepository
}

func NewInMemorySaleRepository(products *InMemoryProductRepository, clients *InMemoryClientRepository) *InMemorySaleRepository {
	return &InMemorySaleRepository{
		sales:    []models.Sale{},
		products: products,
		clients:  clients,
	}
}

func (r *InMemorySaleRepository) Record(ctx context.Context, s models.Sale) (models.Sale, models.Product, error) {
	if s.Quantity <= 0 {
		return models.Sale{}, models.Product{}, ErrInvalidQuantityChange
	}
	if _, err := r.clients.GetByID(ctx, s.ClientID); err != nil {
		return models.Sale{}, models.Product{}, err
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = now()
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	product, err := r.products.decrement(s.ProductID, s.Quantity, s.SoldAt)
	if err != nil {
		return models.Sale{}, models.Product{}, err
	}

	s.ID = len(r.sales) + 1
	s.UnitPrice = product.Price
	s.Total = models.LineTotal(product.Price, s.Quantity)
	r.sales = append(r.sales, s)
	return s, product, nil
}

func (r *InMemorySaleRepository) List(ctx context.Context, sf SaleFilter) ([]models.SaleDetail, int, error) {
	r.mu.RLock()
	sales := slices.Clone(r.sales)
	r.mu.RUnlock()

	matched := []models.SaleDetail{}
	for i := len(sales) - 1; i >= 0; i-- {
		s := sales[i]
		if !matchesSaleFilter(s, sf) {
			continue
		}
		detail := models.SaleDetail{Sale: s}
		if c, err := r.clients.GetByID(ctx, s.ClientID); err == nil {
			detail.ClientName = c.Name
		}
		if p, err := r.products.GetByID(ctx, s.ProductID); err == nil {
			detail.ProductName = p.Name
		}
		matched = append(matched, detail)
	}

	slices.SortStableFunc(matched, func(a, b models.SaleDetail) int {
		return b.SoldAt.Compare(a.SoldAt)
	})

	start, end := page(len(matched), sf.Offset, sf.Limit)
	return matched[start:end], len(matched), nil
}

func matchesSaleFilter(s models.Sale, sf SaleFilter) bool {
	if sf.Since != nil && s.SoldAt.Before(*sf.Since) {
		return false
	}
	if sf.Until != nil && s.SoldAt.After(*sf.Until) {
		return false
	}
	if sf.ProductID != nil && s.ProductID != *sf.ProductID {
		return false
	}
	if sf.ClientID != nil && s.ClientID != *sf.ClientID {
		return false
	}
	return true
}

func (r *InMemorySaleRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sales = []models.Sale{}
}
