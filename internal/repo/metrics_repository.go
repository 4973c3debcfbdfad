package repo

import "context"

type TopProduct struct {
	Name      string `json:"name" db:"name"`
	UnitsSold int    `json:"units_sold" db:"units_sold"`
}

type Metrics struct {
	TotalProducts int        `json:"total_products"`
	TotalClients  int        `json:"total_clients"`
	TotalSales    int        `json:"total_sales"`
	UnitsSold     int        `json:"units_sold"`
	Revenue       float64    `json:"revenue"`
	LowStockCount int        `json:"low_stock_count"`
	CriticalCount int        `json:"critical_count"`
	TopProduct    TopProduct `json:"top_product"`
}

type MetricsRepository interface {
	GetDashboardMetrics(ctx context.Context) (Metrics, error)
}
