package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/adapters/api"
	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
	"github.com/andrescamacho/wargame-go/test/helpers"
)

type fakeScenarios struct {
	mu      sync.Mutex
	byID    map[string]*scenario.Scenario
	deleted []string
}

func newFakeScenarios() *fakeScenarios {
	return &fakeScenarios{byID: map[string]*scenario.Scenario{}}
}

func (f *fakeScenarios) Add(ctx context.Context, s *scenario.Scenario) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.byID[s.ID] = s
	return nil
}

func (f *fakeScenarios) FindByID(ctx context.Context, id string) (*scenario.Scenario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s, ok := f.byID[id]; ok {
		return s, nil
	}
	return nil, shared.NewNotFoundError("scenario", id)
}

func (f *fakeScenarios) FindAll(ctx context.Context) ([]*scenario.Scenario, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]*scenario.Scenario, 0, len(f.byID))
	for _, s := range f.byID {
		out = append(out, s)
	}
	return out, nil
}

func (f *fakeScenarios) Delete(ctx context.Context, id string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if _, ok := f.byID[id]; !ok {
		return shared.NewNotFoundError("scenario", id)
	}
	delete(f.byID, id)
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeSims struct {
	state *scenario.SimulationState
}

func (f *fakeSims) FindByScenario(ctx context.Context, scenarioID string) (*scenario.SimulationState, error) {
	return f.state, nil
}

type fakeDocs struct{}

func (fakeDocs) FindStrategyDocuments(ctx context.Context, scenarioID string) ([]*strategy.StrategyDocument, error) {
	return nil, nil
}

func (fakeDocs) FindPlanningDocuments(ctx context.Context, scenarioID string) ([]*strategy.PlanningDocument, error) {
	return nil, nil
}

type fakeOrders struct{}

func (fakeOrders) FindByScenario(ctx context.Context, scenarioID string) ([]*strategy.OrderTree, error) {
	return nil, nil
}

type fakeMissions struct {
	missions []*mission.Mission
}

func (f *fakeMissions) FindByScenario(ctx context.Context, scenarioID string) ([]*mission.Mission, error) {
	return f.missions, nil
}

type fakeSpaces struct {
	assets []*space.SpaceAsset
}

func (f *fakeSpaces) FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error) {
	return f.assets, nil
}

func (f *fakeSpaces) FindCoverageWindows(ctx context.Context, scenarioID string) ([]*space.CoverageWindow, error) {
	return nil, nil
}

type fakeBases struct{}

func (fakeBases) FindBases(ctx context.Context, scenarioID string) ([]*scenario.TheaterBase, error) {
	return nil, nil
}

type fakeEvents struct {
	events  []*scenario.SimEvent
	injects []*scenario.Inject
}

func (f *fakeEvents) FindEvents(ctx context.Context, scenarioID string, limit int) ([]*scenario.SimEvent, error) {
	if limit < len(f.events) {
		return f.events[:limit], nil
	}
	return f.events, nil
}

func (f *fakeEvents) FindInjects(ctx context.Context, scenarioID string) ([]*scenario.Inject, error) {
	return f.injects, nil
}

type fakeIngestLogs struct {
	records []*ingest.Record
}

func (f *fakeIngestLogs) FindByScenario(ctx context.Context, scenarioID string) ([]*ingest.Record, error) {
	return f.records, nil
}

type fakeGenerator struct {
	mu    sync.Mutex
	calls []string
}

func (f *fakeGenerator) Generate(ctx context.Context, scenarioID, fromStep string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, scenarioID)
	return nil
}

type fakeIngester struct {
	result *ingest.Result
	err    error
	gotRaw string
}

func (f *fakeIngester) Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error) {
	f.gotRaw = rawText
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

type fakeAPIController struct {
	state    *scenario.SimulationState
	startErr error
	opErr    error
	stopped  int
}

func (f *fakeAPIController) Start(ctx context.Context, scenarioID string) (*scenario.SimulationState, error) {
	if f.startErr != nil {
		return nil, f.startErr
	}
	return f.state, nil
}

func (f *fakeAPIController) Pause(ctx context.Context) (*scenario.SimulationState, error) {
	return f.transition()
}

func (f *fakeAPIController) Resume(ctx context.Context) (*scenario.SimulationState, error) {
	return f.transition()
}

func (f *fakeAPIController) Stop(ctx context.Context) (*scenario.SimulationState, error) {
	f.stopped++
	return f.transition()
}

func (f *fakeAPIController) Seek(ctx context.Context, target time.Time) (*scenario.SimulationState, error) {
	return f.transition()
}

func (f *fakeAPIController) SetSpeed(ctx context.Context, ratio float64) (*scenario.SimulationState, error) {
	return f.transition()
}

func (f *fakeAPIController) Current() *scenario.SimulationState {
	return f.state
}

func (f *fakeAPIController) transition() (*scenario.SimulationState, error) {
	if f.opErr != nil {
		return nil, f.opErr
	}
	return f.state, nil
}

type apiFixture struct {
	scenarios  *fakeScenarios
	sims       *fakeSims
	missions   *fakeMissions
	spaces     *fakeSpaces
	events     *fakeEvents
	ingestLogs *fakeIngestLogs
	generator  *fakeGenerator
	ingester   *fakeIngester
	controller *fakeAPIController
	handler    http.Handler
}

func newAPIFixture(t *testing.T) *apiFixture {
	t.Helper()
	f := &apiFixture{
		scenarios:  newFakeScenarios(),
		sims:       &fakeSims{},
		missions:   &fakeMissions{},
		spaces:     &fakeSpaces{},
		events:     &fakeEvents{},
		ingestLogs: &fakeIngestLogs{},
		generator:  &fakeGenerator{},
		ingester:   &fakeIngester{},
		controller: &fakeAPIController{},
	}
	server := api.NewServer(api.Deps{
		DB:         helpers.NewTestDB(t),
		Scenarios:  f.scenarios,
		Sims:       f.sims,
		Docs:       fakeDocs{},
		Orders:     fakeOrders{},
		Missions:   f.missions,
		Spaces:     f.spaces,
		Bases:      fakeBases{},
		Events:     f.events,
		IngestLogs: f.ingestLogs,
		Generator:  f.generator,
		Ingester:   f.ingester,
		Controller: f.controller,
	})
	f.handler = server.Handler()
	return f
}

type apiEnvelope struct {
	Success   bool            `json:"success"`
	Data      json.RawMessage `json:"data"`
	Error     string          `json:"error"`
	Timestamp string          `json:"timestamp"`
}

func (f *apiFixture) do(t *testing.T, method, path string, body interface{}) (int, apiEnvelope) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var env apiEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.NotEmpty(t, env.Timestamp)
	return rec.Code, env
}

func seedScenario(f *apiFixture, id string) *scenario.Scenario {
	scn := &scenario.Scenario{
		ID:               id,
		Name:             "Pacific Resolve",
		Theater:          "INDOPACOM",
		Adversary:        "Red Force",
		StartDate:        time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:          time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		GenerationStatus: scenario.GenerationComplete,
		CreatedAt:        time.Date(2026, 2, 28, 12, 0, 0, 0, time.UTC),
	}
	f.scenarios.byID[id] = scn
	return scn
}

func TestHealthz(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodGet, "/healthz", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)

	var data map[string]string
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ok", data["status"])
}

func TestGenerateScenario_Accepted(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/scenarios/generate", map[string]string{
		"name":      "Pacific Resolve",
		"theater":   "INDOPACOM",
		"startDate": "2026-03-01T00:00:00Z",
		"endDate":   "2026-03-08T00:00:00Z",
	})

	assert.Equal(t, http.StatusAccepted, code)
	require.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.NotEmpty(t, data["id"])
	assert.Equal(t, "Pacific Resolve", data["name"])
	assert.Equal(t, "GENERATING", data["generationStatus"])

	f.scenarios.mu.Lock()
	stored, ok := f.scenarios.byID[data["id"].(string)]
	f.scenarios.mu.Unlock()
	require.True(t, ok)
	assert.Equal(t, "INDOPACOM", stored.Theater)
	assert.Equal(t, 7*24*time.Hour, stored.EndDate.Sub(stored.StartDate))
}

func TestGenerateScenario_Validation(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/scenarios/generate",
		map[string]string{"name": "   "})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.False(t, env.Success)
	assert.Equal(t, "name is required", env.Error)

	code, env = f.do(t, http.MethodPost, "/api/scenarios/generate",
		map[string]string{"name": "X", "startDate": "tomorrow"})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "RFC3339")

	code, env = f.do(t, http.MethodPost, "/api/scenarios/generate", map[string]string{
		"name":      "X",
		"startDate": "2026-03-08T00:00:00Z",
		"endDate":   "2026-03-01T00:00:00Z",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "after")
}

func TestGenerateScenario_RejectsUnknownFields(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/scenarios/generate",
		map[string]string{"name": "X", "bogus": "field"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "invalid JSON payload")
}

func TestGetScenario(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.sims.state = &scenario.SimulationState{
		ScenarioID:       "scn-1",
		Status:           scenario.SimRunning,
		SimTime:          time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC),
		RealStartTime:    time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompressionRatio: 720,
		CurrentATODay:    2,
	}
	f.missions.missions = []*mission.Mission{
		{ID: "m-1", Callsign: "VIPER 11", Domain: mission.DomainAir, Status: mission.StatusPlanned},
	}

	code, env := f.do(t, http.MethodGet, "/api/scenarios/scn-1", nil)

	assert.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "Pacific Resolve", data["name"])
	assert.Equal(t, "2026-03-01T00:00:00Z", data["startDate"])

	sim := data["simulation"].(map[string]interface{})
	assert.Equal(t, "RUNNING", sim["status"])
	assert.Equal(t, float64(2), sim["atoDay"])

	missions := data["missions"].([]interface{})
	require.Len(t, missions, 1)
	assert.Equal(t, "VIPER 11", missions[0].(map[string]interface{})["callsign"])
}

func TestGetScenario_NotFound(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/scenarios/nope", nil)

	assert.Equal(t, http.StatusNotFound, code)
	assert.False(t, env.Success)
	assert.Contains(t, env.Error, "not found")
}

func TestDeleteScenario_StopsRunningSimulation(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.controller.state = &scenario.SimulationState{ScenarioID: "scn-1", Status: scenario.SimRunning}

	code, env := f.do(t, http.MethodDelete, "/api/scenarios/scn-1", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.True(t, env.Success)
	assert.Equal(t, 1, f.controller.stopped)
	assert.Equal(t, []string{"scn-1"}, f.scenarios.deleted)
}

func TestDeleteScenario_LeavesOtherSimulationAlone(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.controller.state = &scenario.SimulationState{ScenarioID: "scn-2", Status: scenario.SimRunning}

	code, _ := f.do(t, http.MethodDelete, "/api/scenarios/scn-1", nil)

	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, 0, f.controller.stopped)
}

func TestSimulationStart(t *testing.T) {
	f := newAPIFixture(t)
	f.controller.state = &scenario.SimulationState{
		ScenarioID:       "scn-1",
		Status:           scenario.SimRunning,
		SimTime:          time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CompressionRatio: 720,
		CurrentATODay:    1,
	}

	code, env := f.do(t, http.MethodPost, "/api/simulation/start",
		map[string]string{"scenarioId": "scn-1"})

	assert.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "scn-1", data["scenarioId"])
	assert.Equal(t, "RUNNING", data["status"])
	assert.Equal(t, float64(720), data["compressionRatio"])
}

func TestSimulationStart_Validation(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/simulation/start",
		map[string]string{"scenarioId": "  "})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "scenarioId is required", env.Error)
}

func TestSimulationStart_AlreadyRunningConflict(t *testing.T) {
	f := newAPIFixture(t)
	f.controller.startErr = shared.NewSimulationAlreadyRunningError("scn-1")

	code, env := f.do(t, http.MethodPost, "/api/simulation/start",
		map[string]string{"scenarioId": "scn-2"})

	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Error, "already running")
}

func TestSimulationPause_ConflictWhenNotRunning(t *testing.T) {
	f := newAPIFixture(t)
	f.controller.opErr = shared.NewSimulationError("simulation is not running")

	code, env := f.do(t, http.MethodPost, "/api/simulation/pause", struct{}{})

	assert.Equal(t, http.StatusConflict, code)
	assert.Contains(t, env.Error, "not running")
}

func TestSimulationSeek_RejectsBadTime(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/simulation/seek",
		map[string]string{"time": "next tuesday"})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "RFC3339")
}

func TestSimulationSpeed_RejectsNonPositiveRatio(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/simulation/speed",
		map[string]float64{"ratio": 0})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, env.Error, "positive")
}

func TestSimulationStatus_NotFoundWhenIdle(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodGet, "/api/simulation", nil)

	assert.Equal(t, http.StatusNotFound, code)
	assert.Equal(t, "no simulation loaded", env.Error)
}

func TestListDecisions_FiltersEventType(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.events.events = []*scenario.SimEvent{
		{ID: "e-1", EventType: scenario.EventBDARecorded, Title: "VIPER 11 strike assessed"},
		{ID: "e-2", EventType: scenario.EventDecisionRequired, Title: "SATCOM gap"},
		{ID: "e-3", EventType: scenario.EventInjectFired, Title: "GPS jamming"},
	}

	code, env := f.do(t, http.MethodGet, "/api/scenarios/scn-1/decisions", nil)

	assert.Equal(t, http.StatusOK, code)
	var data []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "e-2", data[0]["id"])
	assert.Equal(t, "SATCOM gap", data[0]["title"])
}

func TestListEvents_HonorsLimit(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.events.events = []*scenario.SimEvent{
		{ID: "e-1", EventType: scenario.EventBDARecorded},
		{ID: "e-2", EventType: scenario.EventBDARecorded},
		{ID: "e-3", EventType: scenario.EventBDARecorded},
	}

	code, env := f.do(t, http.MethodGet, "/api/scenarios/scn-1/events?limit=2", nil)

	assert.Equal(t, http.StatusOK, code)
	var data []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Len(t, data, 2)
}

func TestIngest(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.ingester.result = &ingest.Result{
		IngestID:       "ing-1",
		HierarchyLevel: "TASKING_ORDER",
		DocumentType:   "ATO",
		Confidence:     0.92,
		Title:          "ATO Day 2",
		Counts:         map[string]int{"missions": 4},
		ReviewFlags:    []string{"waypoint 3: type coerced"},
	}

	code, env := f.do(t, http.MethodPost, "/api/scenarios/scn-1/ingest",
		map[string]string{"text": "OPORD 26-004 ..."})

	assert.Equal(t, http.StatusOK, code)
	require.True(t, env.Success)
	assert.Equal(t, "OPORD 26-004 ...", f.ingester.gotRaw)

	var data map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	assert.Equal(t, "ATO", data["documentType"])
	assert.Equal(t, 0.92, data["confidence"])
}

func TestIngest_RequiresText(t *testing.T) {
	f := newAPIFixture(t)

	code, env := f.do(t, http.MethodPost, "/api/scenarios/scn-1/ingest",
		map[string]string{"text": "   "})

	assert.Equal(t, http.StatusBadRequest, code)
	assert.Equal(t, "text is required", env.Error)
}

func TestIngest_PipelineFailureMapsToBadGateway(t *testing.T) {
	f := newAPIFixture(t)
	f.ingester.err = errors.New("model returned malformed JSON")

	code, env := f.do(t, http.MethodPost, "/api/scenarios/scn-1/ingest",
		map[string]string{"text": "OPORD"})

	assert.Equal(t, http.StatusBadGateway, code)
	assert.Contains(t, env.Error, "malformed")
}

func TestIngest_UnknownScenarioStaysNotFound(t *testing.T) {
	f := newAPIFixture(t)
	f.ingester.err = shared.NewNotFoundError("scenario", "nope")

	code, _ := f.do(t, http.MethodPost, "/api/scenarios/nope/ingest",
		map[string]string{"text": "OPORD"})

	assert.Equal(t, http.StatusNotFound, code)
}

func TestListIngestRecords(t *testing.T) {
	f := newAPIFixture(t)
	seedScenario(f, "scn-1")
	f.ingestLogs.records = []*ingest.Record{
		{ID: "rec-1", DocumentType: "OPORD", Status: "SUCCESS", Confidence: 0.9},
	}

	code, env := f.do(t, http.MethodGet, "/api/scenarios/scn-1/ingest", nil)

	assert.Equal(t, http.StatusOK, code)
	var data []map[string]interface{}
	require.NoError(t, json.Unmarshal(env.Data, &data))
	require.Len(t, data, 1)
	assert.Equal(t, "OPORD", data[0]["documentType"])
	assert.Equal(t, "SUCCESS", data[0]["status"])
}

func TestEnvelopeErrorOmitsData(t *testing.T) {
	f := newAPIFixture(t)

	req := httptest.NewRequest(http.MethodGet, "/api/scenarios/missing", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	body := rec.Body.String()
	assert.False(t, strings.Contains(body, "\"data\""))
	assert.True(t, strings.Contains(body, "\"error\""))
}
