package handlers

import (
	"context"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/auth"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/sales"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/session"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/stock"
)

// Pinger reports database liveness for /health.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Server carries everything the route handlers depend on.
type Server struct {
	Products repo.ProductRepository
	Clients  repo.ClientRepository
	Sales    repo.SaleRepository
	Users    repo.UserRepository
	Metrics  repo.MetricsRepository

	Monitor  *stock.Monitor
	Recorder *sales.Recorder

	Sessions   session.Store
	Tokens     *auth.JWTManager
	SessionTTL time.Duration
	// SecureCookies marks the session cookie Secure; set in production.
	SecureCookies bool

	DB  Pinger
	Now func() time.Time
}

func (s *Server) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}
