package ingest

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

type cannedChat struct {
	responses []func() (*llm.ChatResult, error)
	calls     int
}

func (c *cannedChat) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResult, error) {
	idx := c.calls
	c.calls++
	if idx >= len(c.responses) {
		idx = len(c.responses) - 1
	}
	return c.responses[idx]()
}

func (c *cannedChat) ModelFor(tier llm.Tier) string { return "test-model" }

func reply(content string) func() (*llm.ChatResult, error) {
	return func() (*llm.ChatResult, error) {
		return &llm.ChatResult{Content: content}, nil
	}
}

func chatDown() (*llm.ChatResult, error) {
	return nil, errors.New("upstream unavailable")
}

type stubScenarios struct{ scn *scenario.Scenario }

func (s *stubScenarios) FindByID(_ context.Context, id string) (*scenario.Scenario, error) {
	return s.scn, nil
}

type stubDocs struct {
	strategyDocs []*strategy.StrategyDocument
	planningDocs []*strategy.PlanningDocument
}

func (s *stubDocs) AddStrategyDocument(_ context.Context, doc *strategy.StrategyDocument) error {
	s.strategyDocs = append(s.strategyDocs, doc)
	return nil
}

func (s *stubDocs) FindDeepestStrategyDocument(_ context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error) {
	return nil, nil
}

func (s *stubDocs) AddPlanningDocument(_ context.Context, doc *strategy.PlanningDocument) error {
	s.planningDocs = append(s.planningDocs, doc)
	return nil
}

func (s *stubDocs) FindLatestPlanningDocument(_ context.Context, scenarioID string, docType strategy.PlanningDocType) (*strategy.PlanningDocument, error) {
	return nil, nil
}

func (s *stubDocs) FindPlanningDocuments(_ context.Context, scenarioID string) ([]*strategy.PlanningDocument, error) {
	return nil, nil
}

type stubOrders struct{ trees []*strategy.OrderTree }

func (s *stubOrders) AddTree(_ context.Context, tree *strategy.OrderTree) error {
	s.trees = append(s.trees, tree)
	return nil
}

type stubInjects struct{ injects []*scenario.Inject }

func (s *stubInjects) AddInject(_ context.Context, inject *scenario.Inject) error {
	s.injects = append(s.injects, inject)
	return nil
}

type stubRecords struct{ rows []*Record }

func (s *stubRecords) Add(_ context.Context, record *Record) error {
	s.rows = append(s.rows, record)
	return nil
}

type stubPublisher struct{ events []string }

func (s *stubPublisher) Publish(scenarioID, event string, payload interface{}) {
	s.events = append(s.events, event)
}

type pipelineFixture struct {
	pipeline *Pipeline
	scn      *scenario.Scenario
	docs     *stubDocs
	orders   *stubOrders
	injects  *stubInjects
	records  *stubRecords
	pub      *stubPublisher
}

func newPipelineFixture(responses ...func() (*llm.ChatResult, error)) *pipelineFixture {
	f := &pipelineFixture{
		scn: &scenario.Scenario{
			ID:        "scn-1",
			Name:      "Pacific Resolve",
			Theater:   "INDOPACOM",
			Adversary: "Red",
			StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
			EndDate:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
		},
		docs:    &stubDocs{},
		orders:  &stubOrders{},
		injects: &stubInjects{},
		records: &stubRecords{},
		pub:     &stubPublisher{},
	}
	client := &cannedChat{responses: responses}
	clock := shared.NewManualClock(time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC))
	retrier := llm.NewRetrier(client, nil, nil, clock, nil)
	f.pipeline = NewPipeline(client, retrier, &stubScenarios{scn: f.scn}, f.docs, f.orders, f.injects, f.records, f.pub, clock, nil)
	return f
}

const strategyClassification = `{"hierarchyLevel":"STRATEGY","documentType":"NDS","sourceFormat":"TEXT","confidence":0.91,"title":"National Defense Strategy","issuingAuthority":"Secretary of Defense","effectiveDateStr":null}`

const strategyNormalized = `{"docType":"NDS","title":"National Defense Strategy","issuingAuthority":"Secretary of Defense","authorityLevel":"NATIONAL","summary":"Deter aggression in the priority theater.","priorities":[{"rank":1,"objective":"Deter aggression","description":"Posture forward forces"}]}`

func TestInputHashIsDeterministic(t *testing.T) {
	text := "OPORD 26-03: defend the first island chain."

	assert.Equal(t, InputHash(text), InputHash(text))
	assert.Len(t, InputHash(text), 64)
	assert.NotEqual(t, InputHash(text), InputHash(text+" "))
}

func TestIngestSameTextTwiceWritesTwoAuditRows(t *testing.T) {
	f := newPipelineFixture(
		reply(strategyClassification), reply(strategyNormalized),
		reply(strategyClassification), reply(strategyNormalized),
	)
	text := "NDS excerpt: deter, defend, prevail."

	first, err := f.pipeline.Ingest(context.Background(), "scn-1", text, "")
	require.NoError(t, err)
	second, err := f.pipeline.Ingest(context.Background(), "scn-1", text, "")
	require.NoError(t, err)

	// Repeat uploads are not deduplicated; each run lands its own
	// document and audit row.
	assert.NotEqual(t, first.IngestID, second.IngestID)
	assert.Len(t, f.docs.strategyDocs, 2)
	require.Len(t, f.records.rows, 2)
	assert.Equal(t, InputHash(text), f.records.rows[0].InputHash)
	assert.Equal(t, f.records.rows[0].InputHash, f.records.rows[1].InputHash)
	assert.NotEqual(t, f.records.rows[0].ID, f.records.rows[1].ID)
	assert.Equal(t, "complete", f.records.rows[0].Status)
	assert.Equal(t, "complete", f.records.rows[1].Status)
}

func TestIngestStrategyLandsDocumentAndResult(t *testing.T) {
	f := newPipelineFixture(reply(strategyClassification), reply(strategyNormalized))

	result, err := f.pipeline.Ingest(context.Background(), "scn-1", "NDS text", "")

	require.NoError(t, err)
	assert.Equal(t, LevelStrategy, result.HierarchyLevel)
	assert.Equal(t, "NDS", result.DocumentType)
	assert.InDelta(t, 0.91, result.Confidence, 1e-9)
	assert.Equal(t, 1, result.Counts["strategyDocuments"])
	assert.Equal(t, 1, result.Counts["strategyPriorities"])
	require.Len(t, f.docs.strategyDocs, 1)
	assert.Equal(t, strategy.DocNDS, f.docs.strategyDocs[0].DocType)
	assert.Contains(t, f.pub.events, "ingest:started")
	assert.Contains(t, f.pub.events, "ingest:classified")
	assert.Contains(t, f.pub.events, "ingest:normalized")
	assert.Contains(t, f.pub.events, "ingest:complete")
}

func TestIngestClassificationFailureWritesErrorRecord(t *testing.T) {
	f := newPipelineFixture(chatDown)

	_, err := f.pipeline.Ingest(context.Background(), "scn-1", "garbled transmission", "")

	require.Error(t, err)
	assert.Empty(t, f.docs.strategyDocs)
	require.Len(t, f.records.rows, 1)
	assert.Equal(t, "error", f.records.rows[0].Status)
	assert.NotEmpty(t, f.records.rows[0].Error)
	assert.Equal(t, InputHash("garbled transmission"), f.records.rows[0].InputHash)
	assert.Contains(t, f.pub.events, "ingest:error")
	assert.NotContains(t, f.pub.events, "ingest:complete")
}

func decodeOrder(t *testing.T, raw string) *normalizedOrder {
	t.Helper()
	var doc normalizedOrder
	require.NoError(t, json.Unmarshal([]byte(raw), &doc))
	return &doc
}

func testScn() *scenario.Scenario {
	return &scenario.Scenario{
		ID:        "scn-1",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestBuildOrderTreeCoercesUnknownEnumsToDefaults(t *testing.T) {
	doc := decodeOrder(t, `{
		"orderType": "TASKORD",
		"atoDayNumber": 0,
		"packages": [{
			"packageId": "PKG01A",
			"priorityRank": 1,
			"missionType": "STRIKE",
			"effectDesired": "Neutralize the SAM belt",
			"missions": [{
				"missionId": "OCA1001",
				"callsign": "VIPER 11",
				"domain": "CYBERSPACE",
				"platformType": "F-35A",
				"platformCount": 0,
				"missionType": "OCA-STRIKE",
				"waypoints": [{"sequence": 1, "waypointType": "WAYPOINT", "lat": 25.0, "lon": 121.5}],
				"timeWindows": [{"windowType": "STRIKE WINDOW", "startTime": "2026-03-01T06:00:00Z", "endTime": "2026-03-01T06:15:00Z"}],
				"targets": [],
				"supportRequirements": [{"supportType": "UNKNOWN", "description": "TBD"}],
				"spaceNeeds": [{"capabilityType": "QUANTUM", "priority": 1, "startTime": "2026-03-01T05:00:00Z", "endTime": "2026-03-01T07:00:00Z", "missionCriticality": "SEVERE"}]
			}]
		}]
	}`)

	tree, counts, flags := BuildOrderTree(testScn(), doc, nil, "ingest")

	assert.Equal(t, strategy.OrderATO, tree.Order.OrderType)
	assert.Equal(t, 1, tree.Order.ATODayNumber)
	assert.True(t, testScn().StartDate.Equal(tree.Order.EffectiveStart))

	m := tree.Packages[0].Missions[0].Mission
	assert.Equal(t, mission.DomainAir, m.Domain)
	assert.Equal(t, 1, m.PlatformCount)
	assert.Equal(t, mission.WaypointCP, m.Waypoints[0].WaypointType)
	assert.Equal(t, mission.WindowTOT, m.TimeWindows[0].WindowType)
	assert.Equal(t, mission.SupportISR, m.SupportReqs[0].SupportType)

	need := tree.Packages[0].Missions[0].SpaceNeeds[0]
	assert.Equal(t, space.CapabilityGPS, need.CapabilityType)
	assert.Equal(t, space.CriticalityRoutine, need.MissionCriticality)

	assert.Equal(t, 1, counts["orders"])
	assert.Equal(t, 1, counts["missions"])
	assert.Equal(t, 1, counts["spaceNeeds"])

	// One review flag per coerced field.
	require.Len(t, flags, 7)
	joined := ""
	for _, fl := range flags {
		joined += fl + "\n"
	}
	assert.Contains(t, joined, `unknown order type "TASKORD"`)
	assert.Contains(t, joined, `unknown domain "CYBERSPACE"`)
	assert.Contains(t, joined, `waypoint type "WAYPOINT"`)
	assert.Contains(t, joined, `window type "STRIKE WINDOW"`)
	assert.Contains(t, joined, `support type "UNKNOWN"`)
	assert.Contains(t, joined, `capability "QUANTUM"`)
	assert.Contains(t, joined, `criticality "SEVERE"`)
}

func TestBuildOrderTreeResequencesBrokenWaypoints(t *testing.T) {
	doc := decodeOrder(t, `{
		"orderType": "ATO",
		"atoDayNumber": 2,
		"packages": [{
			"packageId": "PKG02A",
			"priorityRank": 1,
			"missionType": "STRIKE",
			"effectDesired": "Destroy the coastal battery",
			"missions": [{
				"missionId": "OCA2001",
				"callsign": "HAMMER 21",
				"domain": "AIR",
				"platformType": "F-15E",
				"platformCount": 2,
				"missionType": "OCA-STRIKE",
				"waypoints": [
					{"sequence": 1, "waypointType": "DEP", "lat": 26.3, "lon": 127.8},
					{"sequence": 1, "waypointType": "TGT", "lat": 25.0, "lon": 121.5},
					{"sequence": 5, "waypointType": "REC", "lat": 26.3, "lon": 127.8}
				],
				"timeWindows": [],
				"targets": [],
				"supportRequirements": [],
				"spaceNeeds": []
			}]
		}]
	}`)

	tree, _, flags := BuildOrderTree(testScn(), doc, nil, "ingest")

	m := tree.Packages[0].Missions[0].Mission
	require.Len(t, m.Waypoints, 3)
	for i, wp := range m.Waypoints {
		assert.Equal(t, i+1, wp.Sequence)
	}
	assert.Equal(t, mission.WaypointDEP, m.Waypoints[0].WaypointType)
	assert.Equal(t, mission.WaypointTGT, m.Waypoints[1].WaypointType)
	assert.Equal(t, mission.WaypointREC, m.Waypoints[2].WaypointType)
	require.Len(t, flags, 1)
	assert.Contains(t, flags[0], "resequenced")
}

func TestBuildOrderTreeKeepsKnownEnumsWithoutFlags(t *testing.T) {
	doc := decodeOrder(t, `{
		"orderType": "ATO",
		"atoDayNumber": 3,
		"packages": [{
			"packageId": "PKG03A",
			"priorityRank": 1,
			"missionType": "C2ISR",
			"effectDesired": "Persistent surveillance",
			"missions": [{
				"missionId": "ISR3001",
				"callsign": "DARKSTAR 41",
				"domain": "AIR",
				"platformType": "RQ-4",
				"platformCount": 1,
				"missionType": "ISR",
				"waypoints": [
					{"sequence": 1, "waypointType": "DEP", "lat": 13.5, "lon": 144.9},
					{"sequence": 2, "waypointType": "ORBIT", "lat": 22.0, "lon": 124.0}
				],
				"timeWindows": [{"windowType": "ONSTA", "startTime": "2026-03-03T06:00:00Z", "endTime": "2026-03-03T14:00:00Z"}],
				"targets": [],
				"supportRequirements": [{"supportType": "TANKER", "description": "AAR track SILVER"}],
				"spaceNeeds": [{"capabilityType": "ISR_SPACE", "priority": 2, "startTime": "2026-03-03T06:00:00Z", "endTime": "2026-03-03T14:00:00Z", "missionCriticality": "ESSENTIAL"}]
			}]
		}]
	}`)

	tree, counts, flags := BuildOrderTree(testScn(), doc, nil, "ingest")

	assert.Empty(t, flags)
	assert.Equal(t, 3, tree.Order.ATODayNumber)
	assert.True(t, testScn().StartDate.Add(48*time.Hour).Equal(tree.Order.EffectiveStart))
	m := tree.Packages[0].Missions[0].Mission
	assert.Equal(t, mission.SupportTanker, m.SupportReqs[0].SupportType)
	assert.Equal(t, mission.WindowONSTA, m.TimeWindows[0].WindowType)
	need := tree.Packages[0].Missions[0].SpaceNeeds[0]
	assert.Equal(t, space.CapabilityISRSpace, need.CapabilityType)
	assert.Equal(t, space.CriticalityEssential, need.MissionCriticality)
	assert.Equal(t, 2, counts["waypoints"])
}
