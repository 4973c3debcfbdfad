package repo

import (
	"context"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
)

type ClientRepository interface {
	Create(ctx context.Context, client models.Client) (models.Client, error)
	GetAll(ctx context.Context) ([]models.Client, error)
	GetByID(ctx context.Context, id int) (models.Client, error)
}
