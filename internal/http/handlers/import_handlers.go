package handlers

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

const maxImportSize = 10 << 20

type csvRow struct {
	Name        string
	Brand       string
	Description string
	Price       float64
	Quantity    int
	Minimum     int
}

// parseCSV reads a product sheet. name, price and quantity columns are
// required; brand, description and minimum are optional.
func parseCSV(r io.Reader) ([]csvRow, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	headers, err := reader.Read()
	if err != nil {
		return nil, errors.New("invalid CSV header")
	}

	index := map[string]int{}
	for i, h := range headers {
		index[strings.ToLower(strings.TrimSpace(h))] = i
	}
	for _, col := range []string{"name", "price", "quantity"} {
		if _, ok := index[col]; !ok {
			return nil, fmt.Errorf("missing %q column", col)
		}
	}

	field := func(record []string, col string) string {
		i, ok := index[col]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var rows []csvRow
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("CSV read error: %v", err)
		}

		row := csvRow{
			Name:        field(record, "name"),
			Brand:       field(record, "brand"),
			Description: field(record, "description"),
			Price:       parseFloat(field(record, "price")),
			Quantity:    parseInt(field(record, "quantity")),
			Minimum:     models.DefaultMinimum,
		}
		if m := field(record, "minimum"); m != "" {
			row.Minimum = parseInt(m)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func validateRow(r csvRow) error {
	if r.Name == "" {
		return errors.New("missing name")
	}
	if r.Price < 0 {
		return errors.New("invalid price")
	}
	if r.Quantity < 0 {
		return errors.New("invalid quantity")
	}
	if r.Minimum < 0 {
		return errors.New("invalid minimum")
	}
	return nil
}

// unparseable numbers become -1 so validateRow rejects them
func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return -1
	}
	return v
}

func parseInt(s string) int {
	v, err := strconv.Atoi(s)
	if err != nil {
		return -1
	}
	return v
}

// ImportProductsHandler godoc
// @Summary Import products via CSV
// @Description Columns: name, brand, description, price, quantity, minimum.
// @Tags import
// @Accept multipart/form-data
// @Produce json
// @Security BearerAuth
// @Param file formData file true "CSV file"
// @Param mode query string false "Import mode (skip|update)"
// @Success 200 {object} ImportProductsResult
// @Failure 400 {object} ErrorResponse "Invalid file"
// @Router /api/products/import [post]
func (s *Server) ImportProductsHandler(w http.ResponseWriter, r *http.Request) {
	mode := strings.ToLower(r.URL.Query().Get("mode"))
	if mode != "update" {
		mode = "skip"
	}

	r.Body = http.MaxBytesReader(w, r.Body, maxImportSize)
	file, _, err := r.FormFile("file")
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "missing file")
		return
	}
	defer file.Close()

	records, err := parseCSV(file)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	ctx := r.Context()
	imported := 0
	errs := []ValidationError{}
	rowError := func(rowNum int, format string, args ...any) {
		errs = append(errs, ValidationError{
			Field:       fmt.Sprintf("row %d", rowNum),
			Description: fmt.Sprintf(format, args...),
		})
	}

	for i, rec := range records {
		rowNum := i + 2 // header is row 1
		now := s.now()

		if err := validateRow(rec); err != nil {
			rowError(rowNum, "%v", err)
			continue
		}

		existing, err := s.Products.GetByName(ctx, rec.Name)
		switch {
		case err == nil:
			if mode == "skip" {
				rowError(rowNum, "product '%s' already exists", rec.Name)
				continue
			}
			existing.Brand = rec.Brand
			existing.Description = rec.Description
			existing.Price = rec.Price
			existing.Quantity = rec.Quantity
			existing.Minimum = rec.Minimum
			existing.UpdatedAt = now
			updated, err := s.Products.Update(ctx, existing)
			if err != nil {
				rowError(rowNum, "failed to update '%s'", rec.Name)
				continue
			}
			s.Monitor.Notify(ctx, updated)
		case errors.Is(err, repo.ErrProductNotFound):
			created, err := s.Products.Create(ctx, models.Product{
				Name:        rec.Name,
				Brand:       rec.Brand,
				Description: rec.Description,
				Price:       rec.Price,
				Quantity:    rec.Quantity,
				Minimum:     rec.Minimum,
				CreatedAt:   now,
				UpdatedAt:   now,
			})
			if err != nil {
				rowError(rowNum, "%v", err)
				continue
			}
			s.Monitor.Notify(ctx, created)
		default:
			rowError(rowNum, "lookup failed: %v", err)
			continue
		}
		imported++
	}

	respond(w, http.StatusOK, ImportProductsResult{
		ImportedProductsCount: imported,
		Errors:                errs,
	})
}
