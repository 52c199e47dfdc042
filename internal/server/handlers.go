package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/yourusername/keiba-optimizer/internal/estimator"
	"github.com/yourusername/keiba-optimizer/internal/metrics"
	"github.com/yourusername/keiba-optimizer/internal/models"
	"github.com/yourusername/keiba-optimizer/internal/simulation"
)

// racesResponse wraps a race list.
type racesResponse struct {
	Races []models.Race `json:"races"`
}

// horsesResponse is a race card with estimated probabilities and EV.
type horsesResponse struct {
	RaceID string         `json:"race_id"`
	Horses []models.Horse `json:"horses"`
}

// simulationsResponse is the retrospective strategy catalog for a race.
type simulationsResponse struct {
	Summary    models.SimulationSummary  `json:"summary"`
	Strategies []models.SimulationResult `json:"strategies"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func (s *Server) handleUpcomingRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.source.ListUpcomingRaces(r.Context(), s.cfg.DataSource.UpcomingDays)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, racesResponse{Races: races})
}

func (s *Server) handlePastRaces(w http.ResponseWriter, r *http.Request) {
	races, err := s.source.ListPastRaces(r.Context(), s.cfg.DataSource.PastDays)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, racesResponse{Races: races})
}

func (s *Server) handleHorses(w http.ResponseWriter, r *http.Request) {
	raceID := r.PathValue("race_id")

	horses, err := s.source.FetchEntrants(r.Context(), raceID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	s.writeJSON(w, http.StatusOK, horsesResponse{
		RaceID: raceID,
		Horses: estimator.Estimate(horses),
	})
}

func (s *Server) handleResults(w http.ResponseWriter, r *http.Request) {
	raceID := r.PathValue("race_id")

	result, err := s.source.FetchResult(r.Context(), raceID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result.Horses = estimator.EstimateResults(result.Horses)

	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) handleSimulations(w http.ResponseWriter, r *http.Request) {
	raceID := r.PathValue("race_id")
	start := time.Now()

	result, err := s.source.FetchResult(r.Context(), raceID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	result.Horses = estimator.EstimateResults(result.Horses)

	strategies := simulation.GeneratePost(result)
	summary := simulation.Summarize(raceID, strategies)

	metrics.RecordSimulationRun("retrospective", time.Since(start).Seconds())
	for _, strat := range strategies {
		if strat.HitStrategy() {
			metrics.RecordStrategyHit(strat.Name)
		}
	}
	for range summary.HighPayouts {
		metrics.RecordHighPayout()
	}

	s.writeJSON(w, http.StatusOK, simulationsResponse{
		Summary:    summary,
		Strategies: strategies,
	})
}

func (s *Server) handleOptimize(w http.ResponseWriter, r *http.Request) {
	var req models.OptimizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request body", Kind: kindValidation})
		return
	}

	if req.RaceID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "race_id is required", Kind: kindValidation})
		return
	}

	// Budget is rejected locally before any outbound call.
	if err := s.validator.ValidateStruct(&req); err != nil {
		s.writeError(w, fmt.Errorf("%w: budget must be a positive multiple of 100", models.ErrInvalidBudget))
		return
	}

	// The race must exist before the solver is consulted, so an unknown race
	// surfaces as 404 rather than an optimizer failure.
	if _, err := s.source.FetchEntrants(r.Context(), req.RaceID); err != nil {
		s.writeError(w, err)
		return
	}

	resp, err := s.optimizer.Optimize(r.Context(), req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, resp)
}
