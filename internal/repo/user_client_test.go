package repo_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

func TestUserRepository(t *testing.T) {
	repos := map[string]repo.UserRepository{
		"memory": repo.NewInMemoryUserRepository(),
		"sql":    repo.NewSQLUserRepository(newTestDB(t)),
	}

	for name, r := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			u := models.User{Username: "maria", PasswordHash: "hash", Role: models.RoleUser, CreatedAt: time.Now().UTC()}

			created, err := r.CreateUser(ctx, u)
			if err != nil {
				t.Fatalf("create failed: %v", err)
			}
			if created.ID == 0 {
				t.Error("expected ID to be assigned")
			}

			if _, err := r.CreateUser(ctx, u); !errors.Is(err, repo.ErrDuplicatedValueUnique) {
				t.Errorf("expected ErrDuplicatedValueUnique, got %v", err)
			}

			got, err := r.GetByUsername(ctx, "maria")
			if err != nil {
				t.Fatalf("get failed: %v", err)
			}
			if got.PasswordHash != "hash" || got.Role != models.RoleUser {
				t.Errorf("unexpected user: %+v", got)
			}

			if _, err := r.GetByUsername(ctx, "nobody"); !errors.Is(err, repo.ErrUserNotFound) {
				t.Errorf("expected ErrUserNotFound, got %v", err)
			}

			all, err := r.GetAll(ctx)
			if err != nil || len(all) != 1 {
				t.Errorf("expected one user, got %d (%v)", len(all), err)
			}
		})
	}
}

func TestClientRepository(t *testing.T) {
	repos := map[string]repo.ClientRepository{
		"memory": repo.NewInMemoryClientRepository(),
		"sql":    repo.NewSQLClientRepository(newTestDB(t)),
	}

	for name, r := range repos {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			zoe := mustCreateClient(t, r, newClient("Zoe", "zoe@example.com"))
			mustCreateClient(t, r, newClient("Alice", "alice@example.com"))

			if _, err := r.Create(ctx, newClient("Other Zoe", "zoe@example.com")); !errors.Is(err, repo.ErrDuplicatedValueUnique) {
				t.Errorf("expected ErrDuplicatedValueUnique, got %v", err)
			}

			got, err := r.GetByID(ctx, zoe.ID)
			if err != nil || got.Email != "zoe@example.com" {
				t.Errorf("unexpected client %+v (%v)", got, err)
			}
			if _, err := r.GetByID(ctx, 999); !errors.Is(err, repo.ErrClientNotFound) {
				t.Errorf("expected ErrClientNotFound, got %v", err)
			}

			all, err := r.GetAll(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(all) != 2 || all[0].Name != "Alice" {
				t.Errorf("expected clients ordered by name, got %+v", all)
			}
		})
	}
}

func TestMetricsRepository(t *testing.T) {
	memProducts := repo.NewInMemoryProductRepository()
	memClients := repo.NewInMemoryClientRepository()
	memSales := repo.NewInMemorySaleRepository(memProducts, memClients)
	memMetrics := repo.NewInMemoryMetricsRepository()
	memMetrics.SetRepositories(memProducts, memClients, memSales)

	database := newTestDB(t)

	fixtures := map[string]struct {
		fx      saleFixture
		metrics repo.MetricsRepository
	}{
		"memory": {saleFixture{memProducts, memClients, memSales}, memMetrics},
		"sql": {
			saleFixture{
				repo.NewSQLProductRepository(database),
				repo.NewSQLClientRepository(database),
				repo.NewSQLSaleRepository(database),
			},
			repo.NewSQLMetricsRepository(database),
		},
	}

	for name, f := range fixtures {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			keyboard := mustCreateProduct(t, f.fx.products, newProduct("Keyboard", 40, 10, 5))
			mustCreateProduct(t, f.fx.products, newProduct("Mouse", 20, 3, 5))
			mustCreateProduct(t, f.fx.products, newProduct("Monitor", 150, 0, 2))
			c := mustCreateClient(t, f.fx.clients, newClient("Gil", "gil@example.com"))

			for range 2 {
				if _, _, err := f.fx.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: keyboard.ID, Quantity: 2}); err != nil {
					t.Fatalf("record failed: %v", err)
				}
			}

			m, err := f.metrics.GetDashboardMetrics(ctx)
			if err != nil {
				t.Fatalf("metrics failed: %v", err)
			}
			if m.TotalProducts != 3 || m.TotalClients != 1 || m.TotalSales != 2 || m.UnitsSold != 4 {
				t.Errorf("unexpected counters: %+v", m)
			}
			if m.Revenue != 160 {
				t.Errorf("expected revenue 160, got %v", m.Revenue)
			}
			// Keyboard 6/5 is normal, Mouse 3/5 low, Monitor 0 critical.
			if m.LowStockCount != 1 || m.CriticalCount != 1 {
				t.Errorf("expected 1 low and 1 critical, got %d and %d", m.LowStockCount, m.CriticalCount)
			}
			if m.TopProduct.Name != "Keyboard" || m.TopProduct.UnitsSold != 4 {
				t.Errorf("unexpected top product: %+v", m.TopProduct)
			}
		})
	}
}
