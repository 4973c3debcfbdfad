package sales

import (
	"context"
	"errors"
	"log"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/events"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

var ErrInvalidQuantity = errors.New("quantity must be greater than zero")

type Request struct {
	ClientID  int
	ProductID int
	Quantity  int
}

// Result is the committed sale and the product after its stock was decremented.
type Result struct {
	Sale    models.Sale
	Product models.Product
}

type Recorder struct {
	sales     repo.SaleRepository
	publisher events.Publisher
	monitor   *stock.Monitor
}

// NewRecorder builds a Recorder. publisher and monitor may be nil.
func NewRecorder(sales repo.SaleRepository, publisher events.Publisher, monitor *stock.Monitor) *Recorder {
	if publisher == nil {
		publisher = events.NopPublisher{}
	}
	return &Recorder{sales: sales, publisher: publisher, monitor: monitor}
}

// Record validates the request and stores the sale. Stock is decremented and
// the sale appended atomically; when the requested quantity exceeds stock the
// error wraps repo.ErrInsufficientStock and nothing is changed.
func (r *Recorder) Record(ctx context.Context, req Request) (Result, error) {
	if req.Quantity <= 0 {
		return Result{}, ErrInvalidQuantity
	}

	sale, product, err := r.sales.Record(ctx, models.Sale{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		return Result{}, err
	}

	event := events.SaleRecorded{
		SaleID:         sale.ID,
		ClientID:       sale.ClientID,
		ProductID:      sale.ProductID,
		ProductName:    product.Name,
		Quantity:       sale.Quantity,
		UnitPrice:      sale.UnitPrice,
		Total:          sale.Total,
		RemainingStock: product.Quantity,
		SoldAt:         sale.SoldAt,
	}
	if err := r.publisher.PublishSaleRecorded(ctx, event); err != nil {
		log.Printf("sale %d recorded but event not published: %v", sale.ID, err)
	}

	if r.monitor != nil {
		before := product
		before.Quantity += sale.Quantity
		r.monitor.NotifyChange(ctx, before, product)
	}

	return Result{Sale: sale, Product: product}, nil
}
