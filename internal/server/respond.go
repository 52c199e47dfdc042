package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/yourusername/keiba-optimizer/internal/models"
)

// errorResponse is the uniform error payload. Kind distinguishes which
// collaborator failed so clients can tell a dead data feed from a dead
// solver behind the same 502.
type errorResponse struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

const (
	kindValidation = "validation"
	kindNotFound   = "not_found"
	kindDataSource = "data_source"
	kindOptimizer  = "optimizer"
	kindInternal   = "internal"
)

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.WithError(err).Error("Failed to encode response")
	}
}

// writeError maps an error onto the shared taxonomy and emits the payload.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, models.ErrInvalidBudget):
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error(), Kind: kindValidation})
	case errors.Is(err, models.ErrRaceNotFound):
		s.writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error(), Kind: kindNotFound})
	case errors.Is(err, models.ErrDataUnavailable):
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: kindDataSource})
	case errors.Is(err, models.ErrOptimizerUnavailable), errors.Is(err, models.ErrInvalidOptimizerResponse):
		s.writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error(), Kind: kindOptimizer})
	default:
		s.logger.WithError(err).Error("Unclassified handler error")
		s.writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error", Kind: kindInternal})
	}
}
