package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
)

const defaultScenarioDays = 7

type generateScenarioRequest struct {
	Name        string `json:"name" validate:"required"`
	Theater     string `json:"theater"`
	Adversary   string `json:"adversary"`
	Description string `json:"description"`
	StartDate   string `json:"startDate"`
	EndDate     string `json:"endDate"`
}

// handleGenerateScenario creates the scenario row and launches generation
// in the background. Responds 202 immediately; progress streams over the
// scenario room.
func (s *Server) handleGenerateScenario(w http.ResponseWriter, r *http.Request) {
	var req generateScenarioRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := s.validate.Struct(req); err != nil {
		s.respondError(w, http.StatusBadRequest, "name is required")
		return
	}

	now := time.Now().UTC()
	start := now.Truncate(24 * time.Hour)
	if req.StartDate != "" {
		t, err := time.Parse(time.RFC3339, req.StartDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "startDate must be RFC3339")
			return
		}
		start = t.UTC()
	}
	end := start.Add(defaultScenarioDays * 24 * time.Hour)
	if req.EndDate != "" {
		t, err := time.Parse(time.RFC3339, req.EndDate)
		if err != nil {
			s.respondError(w, http.StatusBadRequest, "endDate must be RFC3339")
			return
		}
		end = t.UTC()
	}
	if !end.After(start) {
		s.respondError(w, http.StatusBadRequest, "endDate must be after startDate")
		return
	}

	scn := &scenario.Scenario{
		ID:               uuid.NewString(),
		Name:             req.Name,
		Theater:          req.Theater,
		Adversary:        req.Adversary,
		Description:      req.Description,
		StartDate:        start,
		EndDate:          end,
		GenerationStatus: scenario.GenerationRunning,
		CreatedAt:        now,
	}
	if err := s.deps.Scenarios.Add(r.Context(), scn); err != nil {
		s.fail(w, err)
		return
	}

	go func(id string) {
		if err := s.deps.Generator.Generate(context.Background(), id, ""); err != nil {
			s.log.Error("scenario generation failed",
				zap.String("scenario_id", id), zap.Error(err))
		}
	}(scn.ID)

	s.respond(w, http.StatusAccepted, map[string]interface{}{
		"id":               scn.ID,
		"name":             scn.Name,
		"generationStatus": string(scn.GenerationStatus),
	})
}

func (s *Server) handleListScenarios(w http.ResponseWriter, r *http.Request) {
	scenarios, err := s.deps.Scenarios.FindAll(r.Context())
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(scenarios))
	for _, scn := range scenarios {
		out = append(out, scenarioDTO(scn))
	}
	s.respond(w, http.StatusOK, out)
}

// handleGetScenario returns the full aggregate: scenario, clock state,
// strategy cascade, planning documents, order trees, missions, space
// picture, bases and injects.
func (s *Server) handleGetScenario(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	id := chi.URLParam(r, "scenarioID")

	scn, err := s.deps.Scenarios.FindByID(ctx, id)
	if err != nil {
		s.fail(w, err)
		return
	}

	out := scenarioDTO(scn)

	if st, err := s.deps.Sims.FindByScenario(ctx, id); err == nil && st != nil {
		out["simulation"] = simStateDTO(st)
	}

	if docs, err := s.deps.Docs.FindStrategyDocuments(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(docs))
		for _, d := range docs {
			dtos = append(dtos, strategyDocDTO(d))
		}
		out["strategyDocuments"] = dtos
	}
	if docs, err := s.deps.Docs.FindPlanningDocuments(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(docs))
		for _, d := range docs {
			dtos = append(dtos, planningDocDTO(d))
		}
		out["planningDocuments"] = dtos
	}
	if trees, err := s.deps.Orders.FindByScenario(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(trees))
		for _, t := range trees {
			dtos = append(dtos, orderTreeDTO(t))
		}
		out["orders"] = dtos
	}
	if missions, err := s.deps.Missions.FindByScenario(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(missions))
		for _, m := range missions {
			dtos = append(dtos, missionDTO(m))
		}
		out["missions"] = dtos
	}
	if assets, err := s.deps.Spaces.FindAssets(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(assets))
		for _, a := range assets {
			dtos = append(dtos, assetDTO(a))
		}
		out["spaceAssets"] = dtos
	}
	if bases, err := s.deps.Bases.FindBases(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(bases))
		for _, b := range bases {
			dtos = append(dtos, baseDTO(b))
		}
		out["bases"] = dtos
	}
	if injects, err := s.deps.Events.FindInjects(ctx, id); err == nil {
		dtos := make([]map[string]interface{}, 0, len(injects))
		for _, i := range injects {
			dtos = append(dtos, injectDTO(i))
		}
		out["injects"] = dtos
	}

	s.respond(w, http.StatusOK, out)
}

// handleDeleteScenario removes the scenario even while generation or
// simulation is active. A running simulation for this scenario stops
// first; generation loops notice the missing row and exit quietly.
func (s *Server) handleDeleteScenario(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")

	if cur := s.deps.Controller.Current(); cur != nil && cur.ScenarioID == id {
		if _, err := s.deps.Controller.Stop(r.Context()); err != nil {
			s.log.Warn("failed to stop simulation before delete",
				zap.String("scenario_id", id), zap.Error(err))
		}
	}

	if err := s.deps.Scenarios.Delete(r.Context(), id); err != nil {
		s.fail(w, err)
		return
	}
	s.respond(w, http.StatusOK, map[string]interface{}{"id": id, "deleted": true})
}

func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			limit = n
		}
	}
	events, err := s.deps.Events.FindEvents(r.Context(), id, limit)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(events))
	for _, e := range events {
		out = append(out, simEventDTO(e))
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) handleListDecisions(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")
	events, err := s.deps.Events.FindEvents(r.Context(), id, 500)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]interface{}, 0)
	for _, e := range events {
		if e.EventType == scenario.EventDecisionRequired {
			out = append(out, simEventDTO(e))
		}
	}
	s.respond(w, http.StatusOK, out)
}

func (s *Server) handleListInjects(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")
	injects, err := s.deps.Events.FindInjects(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(injects))
	for _, i := range injects {
		out = append(out, injectDTO(i))
	}
	s.respond(w, http.StatusOK, out)
}

type ingestRequest struct {
	Text       string `json:"text" validate:"required"`
	SourceHint string `json:"sourceHint"`
}

// handleIngest runs the three-stage pipeline synchronously and returns
// the classification result. Stage progress streams over the room.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")

	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.fail(w, err)
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		s.respondError(w, http.StatusBadRequest, "text is required")
		return
	}

	result, err := s.deps.Ingester.Ingest(r.Context(), id, req.Text, req.SourceHint)
	if err != nil {
		if shared.IsNotFound(err) {
			s.fail(w, err)
			return
		}
		s.log.Error("ingest failed", zap.String("scenario_id", id), zap.Error(err))
		s.respondError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.respond(w, http.StatusOK, result)
}

func (s *Server) handleListIngestRecords(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "scenarioID")
	records, err := s.deps.IngestLogs.FindByScenario(r.Context(), id)
	if err != nil {
		s.fail(w, err)
		return
	}
	out := make([]map[string]interface{}, 0, len(records))
	for _, rec := range records {
		out = append(out, ingestRecordDTO(rec))
	}
	s.respond(w, http.StatusOK, out)
}
