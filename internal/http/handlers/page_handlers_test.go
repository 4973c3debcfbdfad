package handlers_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/handlers"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

type pinger struct{ err error }

func (p pinger) PingContext(context.Context) error { return p.err }

func TestHealthHandler(t *testing.T) {
	env := newTestEnv(t)

	env.server.DB = pinger{}
	w := env.do(http.MethodGet, "/health", "", nil)
	var resp handlers.HealthResponse
	decode(t, w, &resp)
	if w.Code != http.StatusOK || resp.Status != "ok" || resp.Database != "up" {
		t.Errorf("unexpected health: %d %+v", w.Code, resp)
	}

	env.server.DB = pinger{err: errors.New("down")}
	w = env.do(http.MethodGet, "/health", "", nil)
	decode(t, w, &resp)
	if w.Code != http.StatusServiceUnavailable || resp.Database != "down" {
		t.Errorf("unexpected health: %d %+v", w.Code, resp)
	}
}

func TestHomeHandler(t *testing.T) {
	env := newTestEnv(t)

	var resp handlers.HomeResponse
	decode(t, env.do(http.MethodGet, "/", "", nil), &resp)
	if resp.Authenticated {
		t.Error("anonymous visitor must not be authenticated")
	}

	decode(t, env.do(http.MethodGet, "/", env.adminToken, nil), &resp)
	if !resp.Authenticated || resp.Username != adminUser {
		t.Errorf("expected authenticated admin, got %+v", resp)
	}
}

func TestDashboardHandler(t *testing.T) {
	env := newTestEnv(t)
	env.createProduct(t, handlers.ProductRequest{Name: "Zebra tape", Price: 1, Quantity: 0})
	env.createProduct(t, handlers.ProductRequest{Name: "Apple juice", Price: 1, Quantity: 50})
	token := env.userToken(t, "caixa")

	w := env.do(http.MethodGet, "/dashboard", token, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handlers.DashboardResponse
	decode(t, w, &resp)

	if resp.Username != "caixa" {
		t.Errorf("expected username caixa, got %q", resp.Username)
	}
	if len(resp.Products) != 2 || resp.Products[0].Name != "Apple juice" {
		t.Errorf("expected products ordered by name, got %+v", resp.Products)
	}
	if resp.Alerts.Total != 1 || len(resp.Alerts.Critical) != 1 {
		t.Errorf("expected one critical alert, got %+v", resp.Alerts)
	}
}

func TestAdminHandler(t *testing.T) {
	env := newTestEnv(t)
	env.userToken(t, "joao")

	w := env.do(http.MethodGet, "/admin", env.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var resp handlers.AdminResponse
	decode(t, w, &resp)
	if len(resp.Users) != 2 {
		t.Errorf("expected 2 users, got %d", len(resp.Users))
	}
	if resp.Alerts.Critical == nil || resp.Alerts.Low == nil {
		t.Error("alert lists must be present even when empty")
	}
}

func TestGetDashboardMetricsHandler(t *testing.T) {
	env := newTestEnv(t)
	recordSales(t, env)
	env.createProduct(t, handlers.ProductRequest{Name: "Empty", Price: 1, Quantity: 0})

	w := env.do(http.MethodGet, "/api/metrics/dashboard", env.adminToken, nil)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var m repo.Metrics
	decode(t, w, &m)

	if m.TotalProducts != 2 || m.TotalClients != 2 || m.TotalSales != 3 || m.UnitsSold != 6 {
		t.Errorf("unexpected counts: %+v", m)
	}
	if m.Revenue != 60 || m.CriticalCount != 1 {
		t.Errorf("unexpected revenue/critical: %+v", m)
	}
	if m.TopProduct.Name != "Lamp" || m.TopProduct.UnitsSold != 6 {
		t.Errorf("unexpected top product: %+v", m.TopProduct)
	}
}
