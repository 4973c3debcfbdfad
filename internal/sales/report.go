package sales

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

type StockPoint struct {
	ProductID int         `json:"product_id"`
	Name      string      `json:"name"`
	Quantity  int         `json:"quantity"`
	Minimum   int         `json:"minimum"`
	Status    stock.Level `json:"status"`
}

type RevenuePoint struct {
	Date  string  `json:"date"`
	Sales int     `json:"sales"`
	Units int     `json:"units"`
	Total float64 `json:"total"`
}

type Chart struct {
	Stock   []StockPoint   `json:"stock"`
	Revenue []RevenuePoint `json:"revenue"`
	Total   float64        `json:"total_revenue"`
}

const dayLayout = "2006-01-02"

// BuildChart returns stock per product and revenue for each of the last days
// ending on until (inclusive, UTC). Days without sales are present with zeros.
func BuildChart(products []models.Product, sales []models.SaleDetail, days int, until time.Time) Chart {
	if days <= 0 {
		days = 7
	}
	first, _ := ChartWindow(days, until)

	chart := Chart{
		Stock:   make([]StockPoint, 0, len(products)),
		Revenue: make([]RevenuePoint, days),
	}
	for _, p := range products {
		chart.Stock = append(chart.Stock, StockPoint{
			ProductID: p.ID,
			Name:      p.Name,
			Quantity:  p.Quantity,
			Minimum:   p.Minimum,
			Status:    stock.Classify(p),
		})
	}

	index := make(map[string]int, days)
	totals := make([]decimal.Decimal, days)
	for i := range days {
		day := first.AddDate(0, 0, i).Format(dayLayout)
		chart.Revenue[i] = RevenuePoint{Date: day}
		index[day] = i
		totals[i] = decimal.Zero
	}

	grand := decimal.Zero
	for _, s := range sales {
		i, ok := index[s.SoldAt.UTC().Format(dayLayout)]
		if !ok {
			continue
		}
		amount := decimal.NewFromFloat(s.Total)
		totals[i] = totals[i].Add(amount)
		grand = grand.Add(amount)
		chart.Revenue[i].Sales++
		chart.Revenue[i].Units += s.Quantity
	}
	for i := range totals {
		chart.Revenue[i].Total = totals[i].Round(2).InexactFloat64()
	}
	chart.Total = grand.Round(2).InexactFloat64()

	return chart
}

// ChartWindow is the inclusive time range BuildChart looks at.
func ChartWindow(days int, until time.Time) (time.Time, time.Time) {
	if days <= 0 {
		days = 7
	}
	until = until.UTC()
	first := time.Date(until.Year(), until.Month(), until.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, -(days - 1))
	last := time.Date(until.Year(), until.Month(), until.Day(), 23, 59, 59, int(time.Second-time.Nanosecond), time.UTC)
	return first, last
}
