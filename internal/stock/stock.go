// Package stock classifies products by remaining quantity and keeps stock
// levels consistent when they are set by hand.
package stock

import "github.com/rogerio-castellano/stock-sales-tracker/internal/models"

type Level string

const (
	Critical Level = "critical"
	Low      Level = "low"
	Normal   Level = "normal"
)

// Classify places a product in exactly one level:
// critical when quantity <= 0, low when quantity <= minimum, normal otherwise.
func Classify(p models.Product) Level {
	switch {
	case p.Quantity <= 0:
		return Critical
	case p.Quantity <= p.Minimum:
		return Low
	default:
		return Normal
	}
}

// Alerts is the result of a stock check.
type Alerts struct {
	Critical []models.Product `json:"critical"`
	Low      []models.Product `json:"low"`
	Total    int              `json:"total_alerts"`
}

// Partition splits products into critical and low lists, keeping their order.
func Partition(products []models.Product) Alerts {
	alerts := Alerts{
		Critical: []models.Product{},
		Low:      []models.Product{},
	}
	for _, p := range products {
		switch Classify(p) {
		case Critical:
			alerts.Critical = append(alerts.Critical, p)
		case Low:
			alerts.Low = append(alerts.Low, p)
		}
	}
	alerts.Total = len(alerts.Critical) + len(alerts.Low)
	return alerts
}
