package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// ScenarioStore is the scenario persistence the API needs.
type ScenarioStore interface {
	Add(ctx context.Context, s *scenario.Scenario) error
	FindByID(ctx context.Context, id string) (*scenario.Scenario, error)
	FindAll(ctx context.Context) ([]*scenario.Scenario, error)
	Delete(ctx context.Context, id string) error
}

// SimStateStore reads the persisted simulation clock.
type SimStateStore interface {
	FindByScenario(ctx context.Context, scenarioID string) (*scenario.SimulationState, error)
}

// DocumentStore reads the strategy cascade and planning documents.
type DocumentStore interface {
	FindStrategyDocuments(ctx context.Context, scenarioID string) ([]*strategy.StrategyDocument, error)
	FindPlanningDocuments(ctx context.Context, scenarioID string) ([]*strategy.PlanningDocument, error)
}

// OrderStore reads tasking-order trees.
type OrderStore interface {
	FindByScenario(ctx context.Context, scenarioID string) ([]*strategy.OrderTree, error)
}

// MissionStore reads missions.
type MissionStore interface {
	FindByScenario(ctx context.Context, scenarioID string) ([]*mission.Mission, error)
}

// SpaceStore reads the space picture.
type SpaceStore interface {
	FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error)
	FindCoverageWindows(ctx context.Context, scenarioID string) ([]*space.CoverageWindow, error)
}

// BaseStore reads theater bases.
type BaseStore interface {
	FindBases(ctx context.Context, scenarioID string) ([]*scenario.TheaterBase, error)
}

// EventStore reads injects and the simulation event log.
type EventStore interface {
	FindEvents(ctx context.Context, scenarioID string, limit int) ([]*scenario.SimEvent, error)
	FindInjects(ctx context.Context, scenarioID string) ([]*scenario.Inject, error)
}

// IngestLogStore reads the ingest audit trail.
type IngestLogStore interface {
	FindByScenario(ctx context.Context, scenarioID string) ([]*ingest.Record, error)
}

// Generator runs scenario generation.
type Generator interface {
	Generate(ctx context.Context, scenarioID, fromStep string) error
}

// Ingester runs the document ingest pipeline.
type Ingester interface {
	Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error)
}

// SimulationController is the engine lifecycle surface.
type SimulationController interface {
	Start(ctx context.Context, scenarioID string) (*scenario.SimulationState, error)
	Pause(ctx context.Context) (*scenario.SimulationState, error)
	Resume(ctx context.Context) (*scenario.SimulationState, error)
	Stop(ctx context.Context) (*scenario.SimulationState, error)
	Seek(ctx context.Context, target time.Time) (*scenario.SimulationState, error)
	SetSpeed(ctx context.Context, ratio float64) (*scenario.SimulationState, error)
	Current() *scenario.SimulationState
}

// Deps bundles everything the HTTP surface serves.
type Deps struct {
	DB         *gorm.DB
	Scenarios  ScenarioStore
	Sims       SimStateStore
	Docs       DocumentStore
	Orders     OrderStore
	Missions   MissionStore
	Spaces     SpaceStore
	Bases      BaseStore
	Events     EventStore
	IngestLogs IngestLogStore
	Generator  Generator
	Ingester   Ingester
	Controller SimulationController

	Websocket http.Handler
	Metrics   http.Handler

	AllowedOrigins []string
	Log            *zap.Logger
}

// Server is the chi HTTP surface over the application layer.
type Server struct {
	deps     Deps
	validate *validator.Validate
	log      *zap.Logger
	router   chi.Router
}

// NewServer builds the router.
func NewServer(deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = zap.NewNop()
	}
	s := &Server{
		deps:     deps,
		validate: validator.New(),
		log:      log,
	}
	s.routes()
	return s
}

// Handler returns the root http handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	origins := s.deps.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   origins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", s.handleHealth)
	if s.deps.Metrics != nil {
		r.Handle("/metrics", s.deps.Metrics)
	}
	if s.deps.Websocket != nil {
		r.Handle("/ws", s.deps.Websocket)
	}

	r.Route("/api", func(r chi.Router) {
		r.Route("/scenarios", func(r chi.Router) {
			r.Get("/", s.handleListScenarios)
			r.Post("/generate", s.handleGenerateScenario)
			r.Route("/{scenarioID}", func(r chi.Router) {
				r.Get("/", s.handleGetScenario)
				r.Delete("/", s.handleDeleteScenario)
				r.Get("/events", s.handleListEvents)
				r.Get("/decisions", s.handleListDecisions)
				r.Get("/injects", s.handleListInjects)
				r.Post("/ingest", s.handleIngest)
				r.Get("/ingest", s.handleListIngestRecords)
			})
		})
		r.Route("/simulation", func(r chi.Router) {
			r.Get("/", s.handleSimulationStatus)
			r.Post("/start", s.handleSimStart)
			r.Post("/pause", s.handleSimPause)
			r.Post("/resume", s.handleSimResume)
			r.Post("/stop", s.handleSimStop)
			r.Post("/seek", s.handleSimSeek)
			r.Post("/speed", s.handleSimSpeed)
		})
	})

	s.router = r
}

// envelope is the contractual response shape.
type envelope struct {
	Success   bool        `json:"success"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
	Timestamp string      `json:"timestamp"`
}

func (s *Server) respond(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   status < 400,
		Data:      data,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(envelope{
		Success:   false,
		Error:     message,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// fail maps domain errors onto HTTP status codes.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case shared.IsNotFound(err):
		s.respondError(w, http.StatusNotFound, err.Error())
	case isValidation(err):
		s.respondError(w, http.StatusBadRequest, err.Error())
	case isConflict(err):
		s.respondError(w, http.StatusConflict, err.Error())
	default:
		s.log.Error("request failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func isValidation(err error) bool {
	var ve *shared.ValidationError
	return errors.As(err, &ve)
}

func isConflict(err error) bool {
	var se *shared.SimulationError
	return errors.As(err, &se)
}

// handleHealth pings the database.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	sqlDB, err := s.deps.DB.DB()
	if err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "database unavailable")
		return
	}
	if err := sqlDB.PingContext(r.Context()); err != nil {
		s.respondError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	s.respond(w, http.StatusOK, map[string]string{"status": "ok"})
}

func decodeJSON(r *http.Request, dst interface{}) error {
	defer func() { _ = r.Body.Close() }()
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return shared.NewValidationError("body", "invalid JSON payload")
	}
	return nil
}
