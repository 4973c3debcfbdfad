package repo_test

import (
	"context"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/db"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	database, err := db.Connect("sqlite://:memory:")
	if err != nil {
		t.Fatalf("could not open sqlite: %v", err)
	}
	if err := db.Migrate(database); err != nil {
		t.Fatalf("could not migrate: %v", err)
	}
	t.Cleanup(func() { database.Close() })
	return database
}

func newProduct(name string, price float64, quantity, minimum int) models.Product {
	ts := time.Now().UTC()
	return models.Product{
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		Minimum:   minimum,
		CreatedAt: ts,
		UpdatedAt: ts,
	}
}

func newClient(name, email string) models.Client {
	return models.Client{Name: name, Email: email, Phone: "555-0100", CreatedAt: time.Now().UTC()}
}

func mustCreateProduct(t *testing.T, r repo.ProductRepository, p models.Product) models.Product {
	t.Helper()
	created, err := r.Create(context.Background(), p)
	if err != nil {
		t.Fatalf("create product %q failed: %v", p.Name, err)
	}
	return created
}

func mustCreateClient(t *testing.T, r repo.ClientRepository, c models.Client) models.Client {
	t.Helper()
	created, err := r.Create(context.Background(), c)
	if err != nil {
		t.Fatalf("create client %q failed: %v", c.Name, err)
	}
	return created
}

func intPtr(v int) *int { return &v }

func floatPtr(v float64) *float64 { return &v }
