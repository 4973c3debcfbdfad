package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

const productColumns = `id, name, brand, description, price, quantity, minimum, expires_at, created_at, updated_at`

// SQLProductRepository stores products in PostgreSQL or SQLite through sqlx.
type SQLProductRepository struct {
	db *sqlx.DB
}

func NewSQLProductRepository(db *sqlx.DB) *SQLProductRepository {
	return &SQLProductRepository{db: db}
}

func (r *SQLProductRepository) Create(ctx context.Context, p models.Product) (models.Product, error) {
	query := r.db.Rebind(`INSERT INTO products (name, brand, description, price, quantity, minimum, expires_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowxContext(ctx, query,
		p.Name, p.Brand, p.Description, p.Price, p.Quantity, p.Minimum, p.ExpiresAt, p.CreatedAt, p.UpdatedAt,
	).Scan(&p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to insert product: %w", err)
	}
	return p, nil
}

func (r *SQLProductRepository) GetAll(ctx context.Context) ([]models.Product, error) {
	return r.selectAll(ctx, `SELECT `+productColumns+` FROM products ORDER BY id`)
}

func (r *SQLProductRepository) GetAllByName(ctx context.Context) ([]models.Product, error) {
	return r.selectAll(ctx, `SELECT `+productColumns+` FROM products ORDER BY name, id`)
}

func (r *SQLProductRepository) selectAll(ctx context.Context, query string) ([]models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, query); err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

func (r *SQLProductRepository) GetByID(ctx context.Context, id int) (models.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE id = ?`, id)
}

func (r *SQLProductRepository) GetByName(ctx context.Context, name string) (models.Product, error) {
	return r.getOne(ctx, `SELECT `+productColumns+` FROM products WHERE name = ? ORDER BY id LIMIT 1`, name)
}

func (r *SQLProductRepository) getOne(ctx context.Context, query string, arg any) (models.Product, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var p models.Product
	err := r.db.GetContext(ctx, &p, r.db.Rebind(query), arg)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to fetch product: %w", err)
	}
	return p, nil
}

func (r *SQLProductRepository) Update(ctx context.Context, p models.Product) (models.Product, error) {
	if p.Quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	query := r.db.Rebind(`UPDATE products
		SET name = ?, brand = ?, description = ?, price = ?, quantity = ?, minimum = ?, expires_at = ?, updated_at = ?
		WHERE id = ?`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query,
		p.Name, p.Brand, p.Description, p.Price, p.Quantity, p.Minimum, p.ExpiresAt, p.UpdatedAt, p.ID)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to update product: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, p.ID)
}

func (r *SQLProductRepository) SetQuantity(ctx context.Context, id, quantity int, at time.Time) (models.Product, error) {
	if quantity < 0 {
		return models.Product{}, ErrInvalidQuantityChange
	}
	query := r.db.Rebind(`UPDATE products SET quantity = ?, updated_at = ? WHERE id = ?`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx, query, quantity, at, id)
	if err != nil {
		return models.Product{}, fmt.Errorf("failed to set product quantity: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return models.Product{}, ErrProductNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *SQLProductRepository) Filter(ctx context.Context, pf ProductFilter) ([]models.Product, int, error) {
	conditions, args := filterConditions(pf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM products WHERE 1=1` + conditions)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE 1=1` + conditions + ` ORDER BY id`
	paging, pagingArgs := limitOffset(r.db.DriverName(), pf.Limit, pf.Offset)
	query += paging
	args = append(args, pagingArgs...)

	products := []models.Product{}
	if err := r.db.SelectContext(ctx, &products, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to filter products: %w", err)
	}
	return products, total, nil
}

func filterConditions(pf ProductFilter) (string, []any) {
	query := ""
	args := []any{}

	if pf.Name != "" {
		query += " AND LOWER(name) LIKE ?"
		args = append(args, "%"+strings.ToLower(pf.Name)+"%")
	}
	if pf.MinPrice != nil {
		query += " AND price >= ?"
		args = append(args, *pf.MinPrice)
	}
	if pf.MaxPrice != nil {
		query += " AND price <= ?"
		args = append(args, *pf.MaxPrice)
	}
	if pf.MinQty != nil {
		query += " AND quantity >= ?"
		args = append(args, *pf.MinQty)
	}
	if pf.MaxQty != nil {
		query += " AND quantity <= ?"
		args = append(args, *pf.MaxQty)
	}

	return query, args
}

func insufficientStock(p models.Product, requested int) error {
	return fmt.Errorf("%w for %q: %d available, %d requested", ErrInsufficientStock, p.Name, p.Quantity, requested)
}
