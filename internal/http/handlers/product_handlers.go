package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

// CreateProductHandler godoc
// @Summary Create a new product
// @Description Adds a product to the inventory. minimum defaults to 5.
// @Tags products
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param product body ProductRequest true "Product to add"
// @Success 201 {object} ProductResponse
// @Failure 400 {object} ValidationErrors
// @Failure 403 {string} string "Forbidden"
// @Router /api/products [post]
func (s *Server) CreateProductHandler(w http.ResponseWriter, r *http.Request) {
	var req ProductRequest
	if err := readJSON(w, r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid input")
		return
	}

	if errs := validateProduct(req); len(errs) > 0 {
		respond(w, http.StatusBadRequest, ValidationErrors{Errors: errs})
		return
	}

	now := s.now()
	product := models.Product{
		Name:        strings.TrimSpace(req.Name),
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Quantity:    req.Quantity,
		Minimum:     models.DefaultMinimum,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if req.Minimum != nil {
		product.Minimum = *req.Minimum
	}
	if req.ExpiresAt != "" {
		expires, _ := time.Parse(time.DateOnly, req.ExpiresAt)
		product.ExpiresAt = &expires
	}

	created, err := s.Products.Create(r.Context(), product)
	if err != nil {
		log.Printf("could not create product %q: %v", product.Name, err)
		errorJSON(w, http.StatusInternalServerError, "could not create product")
		return
	}

	s.Monitor.Notify(r.Context(), created)
	respond(w, http.StatusCreated, toProductResponse(created))
}

// GetProductsHandler godoc
// @Summary List all products with their stock status
// @Tags products
// @Produce json
// @Success 200 {array} ProductResponse
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/products [get]
func (s *Server) GetProductsHandler(w http.ResponseWriter, r *http.Request) {
	products, err := s.Products.GetAll(r.Context())
	if err != nil {
		log.Printf("could not fetch products: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch products")
		return
	}
	respond(w, http.StatusOK, toProductResponses(products))
}

// GetProductByIDHandler godoc
// @Summary Get product by ID
// @Tags products
// @Produce json
// @Param id path int true "Product ID"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/products/{id} [get]
func (s *Server) GetProductByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	product, err := s.Products.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			errorJSON(w, http.StatusNotFound, "product not found")
			return
		}
		log.Printf("could not fetch product %d: %v", id, err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch product")
		return
	}
	respond(w, http.StatusOK, toProductResponse(product))
}

// UpdateQuantityHandler godoc
// @Summary Set the stock quantity of a product
// @Description Negative quantities are stored as zero.
// @Tags inventory
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Product ID"
// @Param quantity body QuantityUpdateRequest true "New quantity"
// @Success 200 {object} ProductResponse
// @Failure 400 {object} ErrorResponse "Invalid input"
// @Failure 404 {object} ErrorResponse "Not found"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/products/{id}/quantity [put]
func (s *Server) UpdateQuantityHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid product ID")
		return
	}

	var req QuantityUpdateRequest
	if err := readJSON(w, r, &req); err != nil || req.Quantity == nil {
		errorJSON(w, http.StatusBadRequest, "quantity is required")
		return
	}

	product, err := s.Monitor.SetQuantity(r.Context(), id, *req.Quantity)
	if err != nil {
		if errors.Is(err, repo.ErrProductNotFound) {
			errorJSON(w, http.StatusNotFound, "product not found")
			return
		}
		errorJSON(w, http.StatusInternalServerError, "could not update product")
		return
	}

	respond(w, http.StatusOK, toProductResponse(product))
}

// FilterProductsHandler godoc
// @Summary Filter and paginate products
// @Tags products
// @Produce json
// @Param name query string false "Filter by name"
// @Param minPrice query number false "Minimum price"
// @Param maxPrice query number false "Maximum price"
// @Param minQty query int false "Minimum quantity"
// @Param maxQty query int false "Maximum quantity"
// @Param offset query int false "Offset for pagination"
// @Param limit query int false "Limit for pagination"
// @Success 200 {object} ProductsSearchResult
// @Failure 400 {object} ErrorResponse "Invalid query"
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/products/search [get]
func (s *Server) FilterProductsHandler(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	filter := repo.ProductFilter{Name: q.Get("name")}
	var err error
	if filter.MinPrice, err = parseFloatPtr(q.Get("minPrice")); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid minPrice")
		return
	}
	if filter.MaxPrice, err = parseFloatPtr(q.Get("maxPrice")); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid maxPrice")
		return
	}
	if filter.MinQty, err = parseIntPtr(q.Get("minQty")); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid minQty")
		return
	}
	if filter.MaxQty, err = parseIntPtr(q.Get("maxQty")); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid maxQty")
		return
	}
	if filter.Offset, filter.Limit, err = pagination(r); err != nil {
		errorJSON(w, http.StatusBadRequest, err.Error())
		return
	}

	products, total, err := s.Products.Filter(r.Context(), filter)
	if err != nil {
		log.Printf("could not filter products: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not filter products")
		return
	}

	respond(w, http.StatusOK, ProductsSearchResult{
		Data: toProductResponses(products),
		Meta: Meta{TotalCount: total},
	})
}

// StockAlertsHandler godoc
// @Summary Critical and low stock products
// @Description critical: quantity <= 0; low: 0 < quantity <= minimum.
// @Tags inventory
// @Produce json
// @Success 200 {object} stock.Alerts
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/stock/alerts [get]
func (s *Server) StockAlertsHandler(w http.ResponseWriter, r *http.Request) {
	alerts, err := s.Monitor.Check(r.Context())
	if err != nil {
		log.Printf("stock alerts: %v", err)
		errorJSON(w, http.StatusInternalServerError, "internal error")
		return
	}
	respond(w, http.StatusOK, alerts)
}
