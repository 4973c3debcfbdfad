package repo

import (
	"context"

	"github.com/shopspring/decimal"
)

type InMemoryMetricsRepository struct {
	productRepo ProductRepository
	clientRepo  ClientRepository
	saleRepo    SaleRepository
}

func NewInMemoryMetricsRepository() *InMemoryMetricsRepository {
	return &InMemoryMetricsRepository{}
}

func (i *InMemoryMetricsRepository) SetRepositories(
	productRepo ProductRepository,
	clientRepo ClientRepository,
	saleRepo SaleRepository,
) {
	i.productRepo = productRepo
	i.clientRepo = clientRepo
	i.saleRepo = saleRepo
}

// GetDashboardMetrics implements MetricsRepository.
func (i *InMemoryMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	m := Metrics{}

	products, err := i.productRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalProducts = len(products)
	for _, p := range products {
		switch {
		case p.Quantity <= 0:
			m.CriticalCount++
		case p.Quantity <= p.Minimum:
			m.LowStockCount++
		}
	}

	clients, err := i.clientRepo.GetAll(ctx)
	if err != nil {
		return m, err
	}
	m.TotalClients = len(clients)

	sales, total, err := i.saleRepo.List(ctx, SaleFilter{})
	if err != nil {
		return m, err
	}
	m.TotalSales = total

	revenue := decimal.Zero
	units := map[string]int{}
	for _, s := range sales {
		revenue = revenue.Add(decimal.NewFromFloat(s.Total))
		m.UnitsSold += s.Quantity
		units[s.ProductName] += s.Quantity
	}
	m.Revenue = revenue.Round(2).InexactFloat64()

	for name, count := range units {
		if count > m.TopProduct.UnitsSold || (count == m.TopProduct.UnitsSold && name < m.TopProduct.Name) {
			m.TopProduct = TopProduct{Name: name, UnitsSold: count}
		}
	}

	return m, nil
}
