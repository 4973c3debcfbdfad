package handlers

import (
	"log"
	"net/http"
)

// GetDashboardMetricsHandler godoc
// @Summary Dashboard metrics for admin view
// @Tags metrics
// @Produce json
// @Security BearerAuth
// @Success 200 {object} repo.Metrics
// @Failure 500 {object} ErrorResponse "Internal error"
// @Router /api/metrics/dashboard [get]
func (s *Server) GetDashboardMetricsHandler(w http.ResponseWriter, r *http.Request) {
	m, err := s.Metrics.GetDashboardMetrics(r.Context())
	if err != nil {
		log.Printf("failed to fetch metrics: %v", err)
		errorJSON(w, http.StatusInternalServerError, "failed to fetch metrics")
		return
	}
	respond(w, http.StatusOK, m)
}
