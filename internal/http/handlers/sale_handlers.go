package handlers

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/sales"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

const maxChartDays = 90

// CreateSaleHandler godoc
// @Summary Record a sale
// @Description Checks stock, decrements it and appends the sale in one transaction.
// @Tags sales
// @Accept json
// @Produce json
// @Param sale body SaleRequest true "Sale to record"
// @Success 201 {object} SaleResponse
// @Failure 400 {object} ErrorResponse "Invalid quantity or insufficient stock"
// @Failure 404 {object} ErrorResponse "Client or product not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/sales [post]
func (s *Server) CreateSaleHandler(w http.ResponseWriter, r *http.Request) {
	var req SaleRequest
	if err := readJSON(w, r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid input")
		return
	}

	res, err := s.Recorder.Record(r.Context(), sales.Request{
		ClientID:  req.ClientID,
		ProductID: req.ProductID,
		Quantity:  req.Quantity,
	})
	if err != nil {
		switch {
		case errors.Is(err, sales.ErrInvalidQuantity), errors.Is(err, repo.ErrInsufficientStock):
			errorJSON(w, http.StatusBadRequest, err.Error())
		case errors.Is(err, repo.ErrClientNotFound), errors.Is(err, repo.ErrProductNotFound):
			errorJSON(w, http.StatusNotFound, err.Error())
		default:
			log.Printf("could not record sale %+v: %v", req, err)
			errorJSON(w, http.StatusInternalServerError, "could not record sale")
		}
		return
	}

	respond(w, http.StatusCreated, SaleResponse{
		Sale:           res.Sale,
		RemainingStock: res.Product.Quantity,
		Status:         stock.Classify(res.Product),
	})
}

// saleFilter reads since, until, product_id, client_id, offset and limit.
func saleFilter(r *http.Request) (repo.SaleFilter, error) {
	q := r.URL.Query()
	var (
		sf  repo.SaleFilter
		err error
	)
	if sf.Since, err = parseTimeParam(q.Get("since")); err != nil {
		return sf, errors.New("invalid since date format")
	}
	if sf.Until, err = parseTimeParam(q.Get("until")); err != nil {
		return sf, errors.New("invalid until date format")
	}
	if sf.ProductID, err = parseIntPtr(q.Get("product_id")); err != nil {
		return sf, errors.New("invalid product_id")
	}
	if sf.ClientID, err = parseIntPtr(q.Get("client_id")); err != nil {
		return sf, errors.New("invalid client_id")
	}
	if sf.Offset, sf.Limit, err = pagination(r); err != nil {
		return sf, err
	}
	return sf, nil
}

// GetSalesHandler godoc
// @Summary List sales, newest first, with client and product names
// @Tags sales
// @Produce json
// @Param since query string false "From timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Until timestamp (RFC3339 or YYYY-MM-DD)"
// @Param product_id query int false "Product ID"
// @Param client_id query int false "Client ID"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} SalesSearchResult
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/sales [get]
func (s *Server) GetSalesHandler(w http.ResponseWriter, r *http.Request) {
	sf, err := saleFilter(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	list, total, err := s.Sales.List(r.Context(), sf)
	if err != nil {
		log.Printf("could not retrieve sales: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not retrieve sales")
		return
	}
	respond(w, http.StatusOK, SalesSearchResult{Data: list, Meta: Meta{TotalCount: total}})
}

// ExportSalesHandler godoc
// @Summary Export sales
// @Tags sales
// @Produce text/csv,application/json
// @Param format query string true "Export format (csv or json)"
// @Param since query string false "From timestamp (RFC3339 or YYYY-MM-DD)"
// @Param until query string false "Until timestamp (RFC3339 or YYYY-MM-DD)"
// @Success 200 {file} file
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/sales/export [get]
func (s *Server) ExportSalesHandler(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format != "csv" && format != "json" {
		errorJSON(w, http.StatusBadRequest, "format must be 'csv' or 'json'")
		return
	}

	sf, err := saleFilter(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}
	sf.Offset, sf.Limit = nil, nil

	list, _, err := s.Sales.List(r.Context(), sf)
	if err != nil {
		log.Printf("could not export sales: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not retrieve sales")
		return
	}

	switch format {
	case "json":
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Content-Disposition", `attachment; filename="sales.json"`)
		if err := json.NewEncoder(w).Encode(list); err != nil {
			log.Printf("sales export failed: %v", err)
		}

	case "csv":
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", `attachment; filename="sales.csv"`)
		if err := writeSalesCSV(w, list); err != nil {
			log.Printf("sales export failed: %v", err)
		}
	}
}

func writeSalesCSV(w io.Writer, list []models.SaleDetail) error {
	csvWriter := csv.NewWriter(w)
	_ = csvWriter.Write([]string{"id", "sold_at", "client_id", "client", "product_id", "product", "quantity", "unit_price", "total"})
	for _, sale := range list {
		_ = csvWriter.Write([]string{
			strconv.Itoa(sale.ID),
			sale.SoldAt.UTC().Format(time.RFC3339),
			strconv.Itoa(sale.ClientID),
			sale.ClientName,
			strconv.Itoa(sale.ProductID),
			sale.ProductName,
			strconv.Itoa(sale.Quantity),
			strconv.FormatFloat(sale.UnitPrice, 'f', 2, 64),
			strconv.FormatFloat(sale.Total, 'f', 2, 64),
		})
	}
	csvWriter.Flush()
	return csvWriter.Error()
}

// ChartsHandler godoc
// @Summary Stock per product and revenue per day
// @Tags sales
// @Produce json
// @Param days query int false "Number of days, ending today (default 7, max 90)"
// @Success 200 {object} sales.Chart
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/charts [get]
func (s *Server) ChartsHandler(w http.ResponseWriter, r *http.Request) {
	days := 7
	if v := r.URL.Query().Get("days"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 || n > maxChartDays {
			errorJSON(w, http.StatusBadRequest, "days must be between 1 and 90")
			return
		}
		days = n
	}

	products, err := s.Products.GetAllByName(r.Context())
	if err != nil {
		log.Printf("charts: could not fetch products: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not build chart")
		return
	}

	now := s.now()
	first, last := sales.ChartWindow(days, now)
	list, _, err := s.Sales.List(r.Context(), repo.SaleFilter{Since: &first, Until: &last})
	if err != nil {
		log.Printf("charts: could not fetch sales: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not build chart")
		return
	}

	respond(w, http.StatusOK, sales.BuildChart(products, list, days, now))
}
