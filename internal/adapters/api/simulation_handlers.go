package api

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
)

type startSimulationRequest struct {
	ScenarioID string `json:"scenarioId" validate:"required"`
}

func (s *Server) handleSimStart(w http.ResponseWriter, r *http.Request) {
	var req startSimulationRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if strings.TrimSpace(req.ScenarioID) == "" {
		s.respondError(w, http.StatusBadRequest, "scenarioId is required")
		return
	}
	state, err := s.deps.Controller.Start(r.Context(), req.ScenarioID)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, simStateDTO(state))
}

func (s *Server) handleSimPause(w http.ResponseWriter, r *http.Request) {
	s.simTransition(w, r, s.deps.Controller.Pause)
}

func (s *Server) handleSimResume(w http.ResponseWriter, r *http.Request) {
	s.simTransition(w, r, s.deps.Controller.Resume)
}

func (s *Server) handleSimStop(w http.ResponseWriter, r *http.Request) {
	s.simTransition(w, r, s.deps.Controller.Stop)
}

func (s *Server) simTransition(w http.ResponseWriter, r *http.Request,
	fn func(ctx context.Context) (*scenario.SimulationState, error)) {
	state, err := fn(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, simStateDTO(state))
}

type seekRequest struct {
	Time string `json:"time" validate:"required"`
}

func (s *Server) handleSimSeek(w http.ResponseWriter, r *http.Request) {
	var req seekRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	target, err := time.Parse(time.RFC3339, req.Time)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, "time must be RFC3339")
		return
	}
	state, err := s.deps.Controller.Seek(r.Context(), target)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, simStateDTO(state))
}

type speedRequest struct {
	Ratio float64 `json:"ratio" validate:"gt=0"`
}

func (s *Server) handleSimSpeed(w http.ResponseWriter, r *http.Request) {
	var req speedRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if req.Ratio <= 0 {
		s.respondError(w, http.StatusBadRequest, "ratio must be positive")
		return
	}
	state, err := s.deps.Controller.SetSpeed(r.Context(), req.Ratio)
	if err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, simStateDTO(state))
}

func (s *Server) handleSimulationStatus(w http.ResponseWriter, r *http.Request) {
	state := s.deps.Controller.Current()
	if state == nil {
		s.respondError(w, http.StatusNotFound, "no simulation loaded")
		return
	}
	s.respond(w, http.StatusOK, simStateDTO(state))
}
