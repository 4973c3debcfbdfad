package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

type SQLClientRepository struct {
	db *sqlx.DB
}

func NewSQLClientRepository(db *sqlx.DB) *SQLClientRepository {
	return &SQLClientRepository{db: db}
}

func (r *SQLClientRepository) Create(ctx context.Context, c models.Client) (models.Client, error) {
	query := r.db.Rebind(`INSERT INTO clients (name, email, phone, created_at) VALUES (?, ?, ?, ?) RETURNING id`)
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	err := r.db.QueryRowxContext(ctx, query, c.Name, c.Email, c.Phone, c.CreatedAt).Scan(&c.ID)
	if isUniqueViolation(err) {
		return models.Client{}, ErrDuplicatedValueUnique
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to insert client: %w", err)
	}
	return c, nil
}

func (r *SQLClientRepository) GetAll(ctx context.Context) ([]models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	clients := []models.Client{}
	err := r.db.SelectContext(ctx, &clients, `SELECT id, name, email, phone, created_at FROM clients ORDER BY name, id`)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

func (r *SQLClientRepository) GetByID(ctx context.Context, id int) (models.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, queryTimeout)
	defer cancel()

	var c models.Client
	err := r.db.GetContext(ctx, &c, r.db.Rebind(`SELECT id, name, email, phone, created_at FROM clients WHERE id = ?`), id)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Client{}, ErrClientNotFound
	}
	if err != nil {
		return models.Client{}, fmt.Errorf("failed to fetch client: %w", err)
	}
	return c, nil
}
