package repo_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

type saleFixture struct {
	products repo.ProductRepository
	clients  repo.ClientRepository
	sales    repo.SaleRepository
}

func saleFixtures(t *testing.T) map[string]saleFixture {
	memProducts := repo.NewInMemoryProductRepository()
	memClients := repo.NewInMemoryClientRepository()
	database := newTestDB(t)

	return map[string]saleFixture{
		"memory": {
			products: memProducts,
			clients:  memClients,
			sales:    repo.NewInMemorySaleRepository(memProducts, memClients),
		},
		"sql": {
			products: repo.NewSQLProductRepository(database),
			clients:  repo.NewSQLClientRepository(database),
			sales:    repo.NewSQLSaleRepository(database),
		},
	}
}

func TestSaleRepository_RecordDecrementsStock(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := mustCreateProduct(t, f.products, newProduct("Fone", 49.90, 10, 5))
			c := mustCreateClient(t, f.clients, newClient("Ana", "ana@example.com"))

			sale, after, err := f.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: p.ID, Quantity: 3})
			if err != nil {
				t.Fatalf("record failed: %v", err)
			}
			if after.Quantity != 7 {
				t.Errorf("expected remaining stock 7, got %d", after.Quantity)
			}
			if sale.ID == 0 {
				t.Error("expected sale ID to be assigned")
			}
			if sale.UnitPrice != 49.90 || sale.Total != 149.70 {
				t.Errorf("expected unit 49.90 and total 149.70, got %v and %v", sale.UnitPrice, sale.Total)
			}

			stored, err := f.products.GetByID(ctx, p.ID)
			if err != nil {
				t.Fatalf("get product failed: %v", err)
			}
			if stored.Quantity != 7 {
				t.Errorf("expected persisted stock 7, got %d", stored.Quantity)
			}

			list, total, err := f.sales.List(ctx, repo.SaleFilter{})
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if total != 1 || len(list) != 1 {
				t.Fatalf("expected exactly one sale, got total=%d len=%d", total, len(list))
			}
			if list[0].ClientName != "Ana" || list[0].ProductName != "Fone" {
				t.Errorf("expected joined names Ana/Fone, got %q/%q", list[0].ClientName, list[0].ProductName)
			}
		})
	}
}

func TestSaleRepository_RejectsInsufficientStock(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := mustCreateProduct(t, f.products, newProduct("Webcam", 199, 10, 5))
			c := mustCreateClient(t, f.clients, newClient("Bruno", "bruno@example.com"))

			_, _, err := f.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: p.ID, Quantity: 12})
			if !errors.Is(err, repo.ErrInsufficientStock) {
				t.Fatalf("expected ErrInsufficientStock, got %v", err)
			}

			stored, _ := f.products.GetByID(ctx, p.ID)
			if stored.Quantity != 10 {
				t.Errorf("expected stock to remain 10, got %d", stored.Quantity)
			}
			_, total, _ := f.sales.List(ctx, repo.SaleFilter{})
			if total != 0 {
				t.Errorf("expected no sales, got %d", total)
			}
		})
	}
}

func TestSaleRepository_UnknownReferences(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := mustCreateProduct(t, f.products, newProduct("SSD", 300, 5, 2))
			c := mustCreateClient(t, f.clients, newClient("Carla", "carla@example.com"))

			if _, _, err := f.sales.Record(ctx, models.Sale{ClientID: 999, ProductID: p.ID, Quantity: 1}); !errors.Is(err, repo.ErrClientNotFound) {
				t.Errorf("expected ErrClientNotFound, got %v", err)
			}
			if _, _, err := f.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: 999, Quantity: 1}); !errors.Is(err, repo.ErrProductNotFound) {
				t.Errorf("expected ErrProductNotFound, got %v", err)
			}
		})
	}
}

func TestSaleRepository_ExactStockSellsOut(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := mustCreateProduct(t, f.products, newProduct("Pendrive", 30, 4, 5))
			c := mustCreateClient(t, f.clients, newClient("Davi", "davi@example.com"))

			_, after, err := f.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: p.ID, Quantity: 4})
			if err != nil {
				t.Fatalf("record failed: %v", err)
			}
			if after.Quantity != 0 {
				t.Errorf("expected stock 0, got %d", after.Quantity)
			}
		})
	}
}

func TestSaleRepository_ConcurrentSalesNeverOversell(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p := mustCreateProduct(t, f.products, newProduct("Carregador", 60, 5, 1))
			c := mustCreateClient(t, f.clients, newClient("Eva", "eva@example.com"))

			var wg sync.WaitGroup
			var mu sync.Mutex
			succeeded := 0
			for range 10 {
				wg.Add(1)
				go func() {
					defer wg.Done()
					if _, _, err := f.sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: p.ID, Quantity: 1}); err == nil {
						mu.Lock()
						succeeded++
						mu.Unlock()
					}
				}()
			}
			wg.Wait()

			if succeeded != 5 {
				t.Errorf("expected 5 successful sales, got %d", succeeded)
			}
			stored, _ := f.products.GetByID(ctx, p.ID)
			if stored.Quantity != 0 {
				t.Errorf("expected stock 0, got %d", stored.Quantity)
			}
		})
	}
}

func TestSaleRepository_ListFilters(t *testing.T) {
	for name, f := range saleFixtures(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			p1 := mustCreateProduct(t, f.products, newProduct("Caneta", 2, 100, 10))
			p2 := mustCreateProduct(t, f.products, newProduct("Caderno", 15, 100, 10))
			c := mustCreateClient(t, f.clients, newClient("Fábio", "fabio@example.com"))

			base := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
			for i, pid := range []int{p1.ID, p2.ID, p1.ID} {
				sale := models.Sale{ClientID: c.ID, ProductID: pid, Quantity: 1, SoldAt: base.Add(time.Duration(i) * 24 * time.Hour)}
				if _, _, err := f.sales.Record(ctx, sale); err != nil {
					t.Fatalf("record failed: %v", err)
				}
			}

			since := base.Add(12 * time.Hour)
			tests := []struct {
				name      string
				filter    repo.SaleFilter
				wantLen   int
				wantTotal int
			}{
				{"all", repo.SaleFilter{}, 3, 3},
				{"by product", repo.SaleFilter{ProductID: intPtr(p1.ID)}, 2, 2},
				{"since", repo.SaleFilter{Since: &since}, 2, 2},
				{"paged", repo.SaleFilter{Limit: intPtr(2), Offset: intPtr(1)}, 2, 3},
				{"offset beyond", repo.SaleFilter{Offset: intPtr(5)}, 0, 3},
			}
			for _, tt := range tests {
				t.Run(tt.name, func(t *testing.T) {
					list, total, err := f.sales.List(ctx, tt.filter)
					if err != nil {
						t.Fatalf("list failed: %v", err)
					}
					if len(list) != tt.wantLen || total != tt.wantTotal {
						t.Errorf("expected len=%d total=%d, got len=%d total=%d", tt.wantLen, tt.wantTotal, len(list), total)
					}
				})
			}

			list, _, _ := f.sales.List(ctx, repo.SaleFilter{})
			if !list[0].SoldAt.After(list[1].SoldAt) {
				t.Errorf("expected newest sale first, got %v then %v", list[0].SoldAt, list[1].SoldAt)
			}
		})
	}
}

func TestSQLSaleRepository_RecordRollsBackOnInsertFailure(t *testing.T) {
	ctx := context.Background()
	database := newTestDB(t)
	products := repo.NewSQLProductRepository(database)
	clients := repo.NewSQLClientRepository(database)
	sales := repo.NewSQLSaleRepository(database)

	p := mustCreateProduct(t, products, newProduct("Teclado", 120, 10, 2))
	c := mustCreateClient(t, clients, newClient("Rita", "rita@example.com"))

	if _, err := database.Exec(`CREATE TRIGGER reject_sales BEFORE INSERT ON sales BEGIN SELECT RAISE(ABORT, 'sales are frozen'); END`); err != nil {
		t.Fatalf("could not install trigger: %v", err)
	}

	_, _, err := sales.Record(ctx, models.Sale{ClientID: c.ID, ProductID: p.ID, Quantity: 4})
	if err == nil {
		t.Fatal("expected record to fail when the sale cannot be inserted")
	}
	if errors.Is(err, repo.ErrInsufficientStock) {
		t.Errorf("insert failure must not be reported as insufficient stock: %v", err)
	}

	stored, err := products.GetByID(ctx, p.ID)
	if err != nil {
		t.Fatalf("get product failed: %v", err)
	}
	if stored.Quantity != 10 {
		t.Errorf("expected stock to stay at 10 after rollback, got %d", stored.Quantity)
	}

	_, total, err := sales.List(ctx, repo.SaleFilter{})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 0 {
		t.Errorf("expected no sales stored, got %d", total)
	}
}
