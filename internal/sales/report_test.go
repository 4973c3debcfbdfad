package sales_test

import (
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/sales"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

func TestBuildChart(t *testing.T) {
	until := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)
	products := []models.Product{
		{ID: 1, Name: "Caneta", Quantity: 50, Minimum: 10},
		{ID: 2, Name: "Borracha", Quantity: 0, Minimum: 10},
	}
	sale := func(day int, qty int, total float64) models.SaleDetail {
		return models.SaleDetail{Sale: models.Sale{
			Quantity: qty,
			Total:    total,
			SoldAt:   time.Date(2025, 4, day, 9, 0, 0, 0, time.UTC),
		}}
	}
	list := []models.SaleDetail{
		sale(10, 2, 0.1),
		sale(10, 1, 0.2),
		sale(8, 3, 10.5),
		sale(1, 9, 999), // outside the window
	}

	chart := sales.BuildChart(products, list, 3, until)

	if len(chart.Stock) != 2 || chart.Stock[1].Status != stock.Critical {
		t.Errorf("unexpected stock points: %+v", chart.Stock)
	}
	if len(chart.Revenue) != 3 {
		t.Fatalf("expected 3 days, got %d", len(chart.Revenue))
	}

	wantDates := []string{"2025-04-08", "2025-04-09", "2025-04-10"}
	wantTotals := []float64{10.5, 0, 0.3}
	for i, p := range chart.Revenue {
		if p.Date != wantDates[i] {
			t.Errorf("day %d: expected %s, got %s", i, wantDates[i], p.Date)
		}
		if p.Total != wantTotals[i] {
			t.Errorf("day %s: expected total %v, got %v", p.Date, wantTotals[i], p.Total)
		}
	}
	if chart.Revenue[2].Sales != 2 || chart.Revenue[2].Units != 3 {
		t.Errorf("unexpected last day counters: %+v", chart.Revenue[2])
	}
	if chart.Total != 10.8 {
		t.Errorf("expected total revenue 10.8, got %v", chart.Total)
	}
}

func TestChartWindow(t *testing.T) {
	until := time.Date(2025, 4, 10, 15, 0, 0, 0, time.UTC)
	first, last := sales.ChartWindow(7, until)

	if !first.Equal(time.Date(2025, 4, 4, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("unexpected window start %v", first)
	}
	if last.Day() != 10 || last.Hour() != 23 {
		t.Errorf("unexpected window end %v", last)
	}
}
