package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

const saleDetailSelect = `SELECT s.id, s.client_id, s.product_id, s.quantity, s.unit_price, s.total, s.sold_at,
		c.name AS client_name, p.name AS product_name
	FROM sales s
	JOIN clients c ON c.id = s.client_id
	JOIN products p ON p.id = s.product_id`

type SQLSaleRepository struct {
	db *sqlx.DB
}

func NewSQLSaleRepository(db *sqlx.DB) *SQLSaleRepository {
	return &SQLSaleRepository{db: db}
}

// Record runs the whole sale inside one transaction. The stock decrement is
// guarded by "quantity >= ?" so two concurrent sales cannot both pass the check.
func (r *SQLSaleRepository) Record(ctx context.Context, s models.Sale) (models.Sale, models.Product, error) {
	if s.Quantity <= 0 {
		return models.Sale{}, models.Product{}, ErrInvalidQuantityChange
	}
	if s.SoldAt.IsZero() {
		s.SoldAt = now()
	}

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to begin sale: %w", err)
	}
	defer tx.Rollback()

	var clients int
	if err := tx.GetContext(ctx, &clients, tx.Rebind(`SELECT COUNT(*) FROM clients WHERE id = ?`), s.ClientID); err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	if clients == 0 {
		return models.Sale{}, models.Product{}, ErrClientNotFound
	}

	var p models.Product
	err = tx.GetContext(ctx, &p, tx.Rebind(`SELECT `+productColumns+` FROM products WHERE id = ?`), s.ProductID)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Sale{}, models.Product{}, ErrProductNotFound
	}
	if err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to fetch product: %w", err)
	}
	if p.Quantity < s.Quantity {
		return models.Sale{}, models.Product{}, insufficientStock(p, s.Quantity)
	}

	res, err := tx.ExecContext(ctx,
		tx.Rebind(`UPDATE products SET quantity = quantity - ?, updated_at = ? WHERE id = ? AND quantity >= ?`),
		s.Quantity, s.SoldAt, p.ID, s.Quantity)
	if err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to decrement stock: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to decrement stock: %w", err)
	}
	if n == 0 {
		return models.Sale{}, models.Product{}, insufficientStock(p, s.Quantity)
	}
	p.Quantity -= s.Quantity
	p.UpdatedAt = s.SoldAt

	s.UnitPrice = p.Price
	s.Total = models.LineTotal(p.Price, s.Quantity)
	err = tx.QueryRowxContext(ctx,
		tx.Rebind(`INSERT INTO sales (client_id, product_id, quantity, unit_price, total, sold_at) VALUES (?, ?, ?, ?, ?, ?) RETURNING id`),
		s.ClientID, s.ProductID, s.Quantity, s.UnitPrice, s.Total, s.SoldAt,
	).Scan(&s.ID)
	if err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to insert sale: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return models.Sale{}, models.Product{}, fmt.Errorf("failed to commit sale: %w", err)
	}
	return s, p, nil
}

func (r *SQLSaleRepository) List(ctx context.Context, sf SaleFilter) ([]models.SaleDetail, int, error) {
	where, args := saleConditions(sf)

	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var total int
	countQuery := r.db.Rebind(`SELECT COUNT(*) FROM sales s WHERE 1=1` + where)
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count sales: %w", err)
	}

	if sf.Offset != nil && *sf.Offset >= total {
		return []models.SaleDetail{}, total, nil
	}

	query := saleDetailSelect + ` WHERE 1=1` + where + ` ORDER BY s.sold_at DESC, s.id DESC`
	paging, pagingArgs := limitOffset(r.db.DriverName(), sf.Limit, sf.Offset)
	query += paging
	args = append(args, pagingArgs...)

	sales := []models.SaleDetail{}
	if err := r.db.SelectContext(ctx, &sales, r.db.Rebind(query), args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list sales: %w", err)
	}
	return sales, total, nil
}

func saleConditions(sf SaleFilter) (string, []any) {
	where := ""
	args := []any{}

	if sf.Since != nil {
		where += " AND s.sold_at >= ?"
		args = append(args, sf.Since.UTC())
	}
	if sf.Until != nil {
		where += " AND s.sold_at <= ?"
		args = append(args, sf.Until.UTC())
	}
	if sf.ProductID != nil {
		where += " AND s.product_id = ?"
		args = append(args, *sf.ProductID)
	}
	if sf.ClientID != nil {
		where += " AND s.client_id = ?"
		args = append(args, *sf.ClientID)
	}
	return where, args
}
