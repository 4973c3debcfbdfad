package repo

import (
	"context"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

// SaleRepository records sales and lists them with client and product names joined in.
type SaleRepository interface {
	// Record checks stock, decrements it and appends the sale in one unit of work.
	// It returns the stored sale and the product as it stands afterwards.
	Record(ctx context.Context, sale models.Sale) (models.Sale, models.Product, error)
	List(ctx context.Context, sf SaleFilter) ([]models.SaleDetail, int, error)
}

type SaleFilter struct {
	Since     *time.Time
	Until     *time.Time
	ProductID *int
	ClientID  *int
	Offset    *int
	Limit     *int
}
