package handlers_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/handlers"
	mw "github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/router"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

func TestCreateProductHandler_Valid(t *testing.T) {
	env := newTestEnv(t)

	resp := env.createProduct(t, handlers.ProductRequest{Name: "Laptop", Brand: "Acme", Price: 1500.0, Quantity: 1, ExpiresAt: "2030-12-31"})

	if resp.Name != "Laptop" || resp.Brand != "Acme" {
		t.Errorf("unexpected product: %+v", resp.Product)
	}
	if resp.Minimum != models.DefaultMinimum {
		t.Errorf("expected default minimum %d, got %d", models.DefaultMinimum, resp.Minimum)
	}
	if resp.Status != stock.Low {
		t.Errorf("expected status low, got %q", resp.Status)
	}
	if resp.ExpiresAt == nil || resp.ExpiresAt.Format(time.DateOnly) != "2030-12-31" {
		t.Errorf("expected expiry 2030-12-31, got %v", resp.ExpiresAt)
	}

	explicit := env.createProduct(t, handlers.ProductRequest{Name: "Cable", Price: 0, Quantity: 3, Minimum: intPtr(0)})
	if explicit.Minimum != 0 || explicit.Status != stock.Normal {
		t.Errorf("expected minimum 0 and normal status, got %d / %q", explicit.Minimum, explicit.Status)
	}
}

func TestCreateProductHandler_Invalid(t *testing.T) {
	env := newTestEnv(t)

	tests := []struct {
		name           string
		payload        handlers.ProductRequest
		expectedErrors []string
	}{
		{
			name:           "Empty name and negative price",
			payload:        handlers.ProductRequest{Name: "", Price: -1},
			expectedErrors: []string{"name", "price"},
		},
		{
			name:           "Blank name only",
			payload:        handlers.ProductRequest{Name: "   ", Price: 100.0},
			expectedErrors: []string{"name"},
		},
		{
			name:           "Negative quantity",
			payload:        handlers.ProductRequest{Name: "Keyboard", Price: 50.0, Quantity: -1},
			expectedErrors: []string{"quantity"},
		},
		{
			name:           "Negative minimum",
			payload:        handlers.ProductRequest{Name: "Keyboard", Price: 50.0, Minimum: intPtr(-2)},
			expectedErrors: []string{"minimum"},
		},
		{
			name:           "Bad expiry date",
			payload:        handlers.ProductRequest{Name: "Milk", Price: 5.0, ExpiresAt: "31/12/2030"},
			expectedErrors: []string{"expires_at"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodPost, "/api/products", env.adminToken, tt.payload)
			if w.Code != http.StatusBadRequest {
				t.Fatalf("expected status 400, got %d", w.Code)
			}

			var resp handlers.ValidationErrors
			decode(t, w, &resp)

			for _, field := range tt.expectedErrors {
				found := false
				for _, err := range resp.Errors {
					if strings.EqualFold(err.Field, field) {
						found = true
						break
					}
				}
				if !found {
					t.Errorf("expected error for field %q, but not found", field)
				}
			}
		})
	}
}

func TestCreateProductHandler_MalformedJSON(t *testing.T) {
	env := newTestEnv(t)

	badJSON := `{name: "Invalid" price: 100 "}` // missing comma
	req := httptest.NewRequest(http.MethodPost, "/api/products", bytes.NewBufferString(badJSON))
	req.Header.Set("Authorization", "Bearer "+env.adminToken)
	w := httptest.NewRecorder()

	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected status 400 Bad Request, got %d", w.Code)
	}
}

func TestGetProductByIDHandler(t *testing.T) {
	env := newTestEnv(t)
	created := env.createProduct(t, handlers.ProductRequest{Name: "Monitor", Price: 900, Quantity: 8})

	tests := []struct {
		name string
		path string
		want int
	}{
		{"existing", fmt.Sprintf("/api/products/%d", created.ID), http.StatusOK},
		{"missing", "/api/products/9999", http.StatusNotFound},
		{"invalid id", "/api/products/abc", http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if w := env.do(http.MethodGet, tt.path, env.adminToken, nil); w.Code != tt.want {
				t.Errorf("expected %d, got %d", tt.want, w.Code)
			}
		})
	}
}

func TestGetProductsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "B", Price: 1, Quantity: 10})
	env.createProduct(t, handlers.ProductRequest{Name: "A", Price: 1, Quantity: 0})

	w := env.do(http.MethodGet, "/api/products", env.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200 OK, got %d", w.Code)
	}
	var resp []handlers.ProductResponse
	decode(t, w, &resp)

	if len(resp) != 2 {
		t.Fatalf("expected 2 products, got %d", len(resp))
	}
	if resp[0].Status != stock.Normal || resp[1].Status != stock.Critical {
		t.Errorf("unexpected statuses: %q, %q", resp[0].Status, resp[1].Status)
	}
}

func TestFilterProductsHandler(t *testing.T) {
	env := newTestEnv(t)
	for i, name := range []string{"Blue Pen", "Red Pen", "Notebook", "Pencil"} {
		env.createProduct(t, handlers.ProductRequest{Name: name, Price: float64(i + 1), Quantity: (i + 1) * 10})
	}

	tests := []struct {
		name      string
		query     string
		wantCode  int
		wantCount int
		wantTotal int
	}{
		{"by name", "?name=pen", http.StatusOK, 3, 3},
		{"by price range", "?minPrice=2&maxPrice=3", http.StatusOK, 2, 2},
		{"by quantity", "?minQty=30", http.StatusOK, 2, 2},
		{"paginated", "?name=pen&limit=2&offset=1", http.StatusOK, 2, 3},
		{"zero limit", "?limit=0", http.StatusBadRequest, 0, 0},
		{"negative offset", "?offset=-1", http.StatusBadRequest, 0, 0},
		{"bad price", "?minPrice=cheap", http.StatusBadRequest, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(http.MethodGet, "/api/products/search"+tt.query, env.adminToken, nil)
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d", tt.wantCode, w.Code)
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp handlers.ProductsSearchResult
			decode(t, w, &resp)
			if len(resp.Data) != tt.wantCount || resp.Meta.TotalCount != tt.wantTotal {
				t.Errorf("expected %d/%d, got %d/%d", tt.wantCount, tt.wantTotal, len(resp.Data), resp.Meta.TotalCount)
			}
		})
	}
}

func TestUpdateQuantityHandler(t *testing.T) {
	env := newTestEnv(t)
	created := env.createProduct(t, handlers.ProductRequest{Name: "Mouse", Price: 20, Quantity: 10, Minimum: intPtr(5)})
	path := fmt.Sprintf("/api/products/%d/quantity", created.ID)

	tests := []struct {
		name       string
		quantity   *int
		wantCode   int
		wantQty    int
		wantStatus stock.Level
	}{
		{"raise", intPtr(25), http.StatusOK, 25, stock.Normal},
		{"to minimum", intPtr(5), http.StatusOK, 5, stock.Low},
		{"negative is clamped", intPtr(-5), http.StatusOK, 0, stock.Critical},
		{"missing quantity", nil, http.StatusBadRequest, 0, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			before := time.Now().UTC().Add(-time.Second)
			w := env.do(http.MethodPut, path, env.adminToken, handlers.QuantityUpdateRequest{Quantity: tt.quantity})
			if w.Code != tt.wantCode {
				t.Fatalf("expected %d, got %d: %s", tt.wantCode, w.Code, w.Body.String())
			}
			if tt.wantCode != http.StatusOK {
				return
			}
			var resp handlers.ProductResponse
			decode(t, w, &resp)
			if resp.Quantity != tt.wantQty || resp.Status != tt.wantStatus {
				t.Errorf("expected %d/%s, got %d/%s", tt.wantQty, tt.wantStatus, resp.Quantity, resp.Status)
			}
			if resp.UpdatedAt.Before(before) {
				t.Errorf("expected updated_at to be refreshed, got %v", resp.UpdatedAt)
			}
		})
	}

	t.Run("unknown product", func(t *testing.T) {
		w := env.do(http.MethodPut, "/api/products/9999/quantity", env.adminToken, handlers.QuantityUpdateRequest{Quantity: intPtr(1)})
		if w.Code != http.StatusNotFound {
			t.Errorf("expected 404, got %d", w.Code)
		}
	})
}

func TestStockAlertsHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Normal", Price: 1, Quantity: 10, Minimum: intPtr(5)})
	env.createProduct(t, handlers.ProductRequest{Name: "Low", Price: 1, Quantity: 5, Minimum: intPtr(5)})
	env.createProduct(t, handlers.ProductRequest{Name: "Out", Price: 1, Quantity: 0, Minimum: intPtr(5)})

	fetch := func() stock.Alerts {
		w := env.do(http.MethodGet, "/api/stock/alerts", env.adminToken, nil)
		if w.Code != http.StatusOK {
			t.Fatalf("expected 200 OK, got %d", w.Code)
		}
		var alerts stock.Alerts
		decode(t, w, &alerts)
		return alerts
	}

	first := fetch()
	if first.Total != 2 || len(first.Critical) != 1 || len(first.Low) != 1 {
		t.Fatalf("unexpected alerts: %+v", first)
	}
	if first.Critical[0].Name != "Out" || first.Low[0].Name != "Low" {
		t.Errorf("wrong products classified: %+v", first)
	}

	if second := fetch(); !reflect.DeepEqual(first, second) {
		t.Errorf("repeated checks differ:\n%+v\n%+v", first, second)
	}
}

type failingProducts struct{ repo.ProductRepository }

func (failingProducts) GetAll(context.Context) ([]models.Product, error) {
	return nil, errors.New("database is gone")
}

func TestStockAlertsHandler_StoreFailure(t *testing.T) {
	env := newTestEnv(t)
	env.server.Monitor = stock.NewMonitor(failingProducts{env.products}, nil)
	r := router.NewRouter(env.server, &mw.Authenticator{Sessions: env.sessions, Tokens: env.server.Tokens}, router.Options{})

	req := httptest.NewRequest(http.MethodGet, "/api/stock/alerts", nil)
	req.Header.Set("Authorization", "Bearer "+env.adminToken)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusInternalServerError {
		t.Errorf("expected 500 when the store fails, got %d", w.Code)
	}
}
