package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"github.com/rogerio-castellano/stock-sales-tracker/internal/models"
	"github.com/rogerio-castellano/stock-sales-tracker/internal/repo"
)

// CreateClientHandler godoc
// @Summary Register a client
// @Tags clients
// @Accept json
// @Produce json
// @Param client body ClientRequest true "Client to add"
// @Success 201 {object} models.Client
// @Failure 400 {object} ValidationErrors
// @Failure 409 {object} ErrorResponse "E-mail already registered"
// @Router /api/clients [post]
func (s *Server) CreateClientHandler(w http.ResponseWriter, r *http.Request) {
	var req ClientRequest
	if err := readJSON(w, r, &req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid input")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))

	if errs := validateClient(req); len(errs) > 0 {
		respond(w, http.StatusBadRequest, ValidationErrors{Errors: errs})
		return
	}

	created, err := s.Clients.Create(r.Context(), models.Client{
		Name:      req.Name,
		Email:     req.Email,
		Phone:     strings.TrimSpace(req.Phone),
		CreatedAt: s.now(),
	})
	if err != nil {
		if errors.Is(err, repo.ErrDuplicatedValueUnique) {
			errorJSON(w, http.StatusConflict, "e-mail already registered")
			return
		}
		log.Printf("could not create client: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not create client")
		return
	}
	respond(w, http.StatusCreated, created)
}

// GetClientsHandler godoc
// @Summary List clients ordered by name
// @Tags clients
// @Produce json
// @Success 200 {array} models.Client
// @Failure 500 {object} ErrorResponse
// @Router /api/clients [get]
func (s *Server) GetClientsHandler(w http.ResponseWriter, r *http.Request) {
	clients, err := s.Clients.GetAll(r.Context())
	if err != nil {
		log.Printf("could not fetch clients: %v", err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch clients")
		return
	}
	respond(w, http.StatusOK, clients)
}

// GetClientByIDHandler godoc
// @Summary Get client by ID
// @Tags clients
// @Produce json
// @Param id path int true "Client ID"
// @Success 200 {object} models.Client
// @Failure 400 {object} ErrorResponse "Invalid ID"
// @Failure 404 {object} ErrorResponse "Not found"
// @Router /api/clients/{id} [get]
func (s *Server) GetClientByIDHandler(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid client ID")
		return
	}
	client, err := s.Clients.GetByID(r.Context(), id)
	if err != nil {
		if errors.Is(err, repo.ErrClientNotFound) {
			errorJSON(w, http.StatusNotFound, "client not found")
			return
		}
		log.Printf("could not fetch client %d: %v", id, err)
		errorJSON(w, http.StatusInternalServerError, "could not fetch client")
		return
	}
	respond(w, http.StatusOK, client)
}
