package repo

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

// InMemoryProductRepository is an in-memory implementation of ProductRepository.
type InMemoryProductRepository struct {
	mu       sync.RWMutex
	products []models.Product
	nextID   int
}

// NewInMemoryProductRepository creates a new instance of InMemoryProductRepository.
func NewInMemoryProductRepository() *InMemoryProductRepository {
	return &InMemoryProductRepository{
		products: []models.Product{},
		nextID:   1,
	}
}

func (r *InMemoryProductRepository) Filter(_ context.Context, pf ProductFilter) ([]models.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	filtered := []models.Product{}
	for _, p := range r.products {
		if pf.Matches(p) {
			filtered = append(filtered, p)
		}
	}

	start, end := page(len(filtered), pf.Offset, pf.Limit)
	return filtered[start:end], len(filtered), nil
}

// Create adds a new product to the repository.
func (r *InMemoryProductRepository) Create(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.Quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	product.ID = r.nextID
	r.nextID++
	r.products = append(r.products, product)
	return product, nil
}

// GetAll retrieves all products ordered by ID.
func (r *InMemoryProductRepository) GetAll(_ context.Context) ([]models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return slices.Clone(r.products), nil
}

// GetAllByName retrieves all products ordered by name.
func (r *InMemoryProductRepository) GetAllByName(ctx context.Context) ([]models.Product, error) {
	products, _ := r.GetAll(ctx)
	slices.SortStableFunc(products, func(a, b models.Product) int {
		return strings.Compare(a.Name, b.Name)
	})
	return products, nil
}

// GetByID retrieves a product by its ID.
func (r *InMemoryProductRepository) GetByID(_ context.Context, id int) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) GetByName(_ context.Context, name string) (models.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.Name == name {
			return p, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// Update replaces the stored product with the same ID.
func (r *InMemoryProductRepository) Update(_ context.Context, product models.Product) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if product.Quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	for i, p := range r.products {
		if p.ID == product.ID {
			product.CreatedAt = p.CreatedAt
			r.products[i] = product
			return product, nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) SetQuantity(_ context.Context, id, quantity int, at time.Time) (models.Product, error) {
	if quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID == id {
			r.products[i].Quantity = quantity
			r.products[i].UpdatedAt = at
			return r.products[i], nil
		}
	}
	return models.Product{}, ErrProductNotFound
}

// decrement takes quantity units out of stock atomically with the check.
func (r *InMemoryProductRepository) decrement(id, quantity int, at time.Time) (models.Product, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for i, p := range r.products {
		if p.ID != id {
			continue
		}
		if p.Quantity < quantity {
			return p, insufficientStock(p, quantity)
		}
		r.products[i].Quantity -= quantity
		r.products[i].UpdatedAt = at
		return r.products[i], nil
	}
	return models.Product{}, ErrProductNotFound
}

func (r *InMemoryProductRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.products = []models.Product{}
	r.nextID = 1
}
