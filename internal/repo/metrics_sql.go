package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

type SQLMetricsRepository struct {
	db *sqlx.DB
}

func NewSQLMetricsRepository(db *sqlx.DB) *SQLMetricsRepository {
	return &SQLMetricsRepository{db: db}
}

func (r *SQLMetricsRepository) GetDashboardMetrics(ctx context.Context) (Metrics, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var m Metrics

	counts := []struct {
		dest  *int
		query string
	}{
		{&m.TotalProducts, `SELECT COUNT(*) FROM products`},
		{&m.TotalClients, `SELECT COUNT(*) FROM clients`},
		{&m.TotalSales, `SELECT COUNT(*) FROM sales`},
		{&m.UnitsSold, `SELECT COALESCE(SUM(quantity), 0) FROM sales`},
		{&m.LowStockCount, `SELECT COUNT(*) FROM products WHERE quantity > 0 AND quantity <= minimum`},
		{&m.CriticalCount, `SELECT COUNT(*) FROM products WHERE quantity <= 0`},
	}
	for _, c := range counts {
		if err := r.db.GetContext(ctx, c.dest, c.query); err != nil {
			return Metrics{}, fmt.Errorf("failed to compute metrics: %w", err)
		}
	}

	if err := r.db.GetContext(ctx, &m.Revenue, `SELECT COALESCE(SUM(total), 0) FROM sales`); err != nil {
		return Metrics{}, fmt.Errorf("failed to compute revenue: %w", err)
	}

	err := r.db.GetContext(ctx, &m.TopProduct, `
		SELECT p.name AS name, SUM(s.quantity) AS units_sold
		FROM sales s
		JOIN products p ON p.id = s.product_id
		GROUP BY p.name
		ORDER BY units_sold DESC, p.name
		LIMIT 1
	`)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return Metrics{}, fmt.Errorf("failed to compute top product: %w", err)
	}

	return m, nil
}
