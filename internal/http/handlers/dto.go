package handlers

import (
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

type ErrorResponse struct {
	Error string `json:"error"`
}

type MessageResponse struct {
	Message  string `json:"message"`
	Redirect string `json:"redirect,omitempty"`
}

type ProductRequest struct {
	Name        string  `json:"name"`
	Brand       string  `json:"brand"`
	Description string  `json:"description"`
	Price       float64 `json:"price"`
	Quantity    int     `json:"quantity"`
	Minimum     *int    `json:"minimum,omitempty"`
	ExpiresAt   string  `json:"expires_at,omitempty"` // YYYY-MM-DD
}

type ProductResponse struct {
	models.Product
	Status stock.Level `json:"status"`
}

func toProductResponse(p models.Product) ProductResponse {
	return ProductResponse{Product: p, Status: stock.Classify(p)}
}

func toProductResponses(products []models.Product) []ProductResponse {
	out := make([]ProductResponse, len(products))
	for i, p := range products {
		out[i] = toProductResponse(p)
	}
	return out
}

type Meta struct {
	TotalCount int `json:"total_count"`
}

type ProductsSearchResult struct {
	Data []ProductResponse `json:"data"`
	Meta Meta              `json:"meta"`
}

type QuantityUpdateRequest struct {
	Quantity *int `json:"quantity"`
}

type ClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

type SaleRequest struct {
	ClientID  int `json:"client_id"`
	ProductID int `json:"product_id"`
	Quantity  int `json:"quantity"`
}

type SaleResponse struct {
	Sale           models.Sale `json:"sale"`
	RemainingStock int         `json:"remaining_stock"`
	Status         stock.Level `json:"status"`
}

type SalesSearchResult struct {
	Data []models.SaleDetail `json:"data"`
	Meta Meta                `json:"meta"`
}

type CredentialsRequest struct {
	Username        string `json:"username"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password"`
}

type LoginResult struct {
	Message   string    `json:"message"`
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	Role      string    `json:"role"`
	Redirect  string    `json:"redirect"`
}

type HealthResponse struct {
	Status   string `json:"status"`
	Database string `json:"database"`
}

type HomeResponse struct {
	Authenticated bool   `json:"authenticated"`
	Username      string `json:"username,omitempty"`
	Role          string `json:"role,omitempty"`
}

type DashboardResponse struct {
	Username string            `json:"username"`
	Alerts   stock.Alerts      `json:"alerts"`
	Products []ProductResponse `json:"products"`
}

type AdminResponse struct {
	Users    []models.User     `json:"users"`
	Products []ProductResponse `json:"products"`
	Alerts   stock.Alerts      `json:"alerts"`
}

type ImportProductsResult struct {
	ImportedProductsCount int               `json:"imported"`
	Errors                []ValidationError `json:"errors"`
}
