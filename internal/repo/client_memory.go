package repo

import (
	"context"
	"slices"
	"strings"
	"sync"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

type InMemoryClientRepository struct {
	mu      sync.RWMutex
	clients []models.Client
}

func NewInMemoryClientRepository() *InMemoryClientRepository {
	return &InMemoryClientRepository{clients: []models.Client{}}
}

func (r *InMemoryClientRepository) Create(_ context.Context, c models.Client) (models.Client, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, existing := range r.clients {
		if strings.EqualFold(existing.Email, c.Email) {
			return models.Client{}, ErrDuplicatedValueUnique
		}
	}
	c.ID = len(r.clients) + 1
	r.clients = append(r.clients, c)
	return c, nil
}

func (r *InMemoryClientRepository) GetAll(_ context.Context) ([]models.Client, error) {
	r.mu.RLock()
	clients := slices.Clone(r.clients)
	r.mu.RUnlock()

	slices.SortStableFunc(clients, func(a, b models.Client) int {
		return strings.Compare(a.Name, b.Name)
	})
	return clients, nil
}

func (r *InMemoryClientRepository) GetByID(_ context.Context, id int) (models.Client, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.clients {
		if c.ID == id {
			return c, nil
		}
	}
	return models.Client{}, ErrClientNotFound
}

func (r *InMemoryClientRepository) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.clients = []models.Client{}
}
