package handlers

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/http/middleware"
)

// HealthHandler godoc
// @Summary Liveness and database check
// @Tags system
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /health [get]
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	res := HealthResponse{Status: "ok", Database: "up"}
	if s.DB != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.DB.PingContext(ctx); err != nil {
			log.Printf("health check: database down: %v", err)
			respond(w, http.StatusServiceUnavailable, HealthResponse{Status: "degraded", Database: "down"})
			return
		}
	}
	respond(w, http.StatusOK, res)
}

// HomeHandler godoc
// @Summary Landing view model
// @Tags pages
// @Produce json
// @Success 200 {object} HomeResponse
// @Router / [get]
func (s *Server) HomeHandler(w http.ResponseWriter, r *http.Request) {
	id, ok := middleware.IdentityFrom(r.Context())
	respond(w, http.StatusOK, HomeResponse{Authenticated: ok, Username: id.Username, Role: id.Role})
}

// DashboardHandler godoc
// @Summary Stock alerts and products ordered by name
// @Tags pages
// @Produce json
// @Success 200 {object} DashboardResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 500 {object} ErrorResponse
// @Router /dashboard [get]
func (s *Server) DashboardHandler(w http.ResponseWriter, r *http.Request) {
	id, _ := middleware.IdentityFrom(r.Context())

	alerts, err := s.Monitor.Check(r.Context())
	if err != nil {
		log.Printf("dashboard: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not check stock")
		return
	}
	products, err := s.Products.GetAllByName(r.Context())
	if err != nil {
		log.Printf("dashboard: could not fetch products: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch products")
		return
	}

	respond(w, http.StatusOK, DashboardResponse{
		Username: id.Username,
		Alerts:   alerts,
		Products: toProductResponses(products),
	})
}

// AdminHandler godoc
// @Summary Users, products and stock alerts for administrators
// @Tags pages
// @Produce json
// @Security BearerAuth
// @Success 200 {object} AdminResponse
// @Failure 401 {string} string "Unauthorized"
// @Failure 403 {string} string "Forbidden"
// @Failure 500 {object} ErrorResponse
// @Router /admin [get]
func (s *Server) AdminHandler(w http.ResponseWriter, r *http.Request) {
	users, err := s.Users.GetAll(r.Context())
	if err != nil {
		log.Printf("admin: could not fetch users: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch users")
		return
	}
	products, err := s.Products.GetAll(r.Context())
	if err != nil {
		log.Printf("admin: could not fetch products: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch products")
		return
	}
	alerts, err := s.Monitor.Check(r.Context())
	if err != nil {
		log.Printf("admin: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not check stock")
		return
	}

	respond(w, http.StatusOK, AdminResponse{
		Users:    users,
		Products: toProductResponses(products),
		Alerts:   alerts,
	})
}
