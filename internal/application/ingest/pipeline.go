package ingest

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/adapters/metrics"
	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// Hierarchy levels a document can classify into.
const (
	LevelStrategy  = "STRATEGY"
	LevelPlanning  = "PLANNING"
	LevelOrder     = "ORDER"
	LevelEventList = "EVENT_LIST"
)

// Room events emitted at stage boundaries.
const (
	eventStarted    = "ingest:started"
	eventClassified = "ingest:classified"
	eventNormalized = "ingest:normalized"
	eventComplete   = "ingest:complete"
	eventError      = "ingest:error"
)

// maxPromptChars truncates oversized raw text to a prompt-safe prefix.
const maxPromptChars = 24000

// Classification is the output of the classify stage.
type Classification struct {
	HierarchyLevel   string  `json:"hierarchyLevel"`
	DocumentType     string  `json:"documentType"`
	SourceFormat     string  `json:"sourceFormat"`
	Confidence       float64 `json:"confidence"`
	Title            string  `json:"title"`
	IssuingAuthority string  `json:"issuingAuthority"`
	EffectiveDateStr *string `json:"effectiveDateStr"`
}

// Result is the outcome of one ingest run.
type Result struct {
	IngestID       string         `json:"ingestId"`
	HierarchyLevel string         `json:"hierarchyLevel"`
	DocumentType   string         `json:"documentType"`
	Confidence     float64        `json:"confidence"`
	Title          string         `json:"title"`
	CreatedID      string         `json:"createdId"`
	ParentLinkID   *string        `json:"parentLinkId,omitempty"`
	Counts         map[string]int `json:"counts"`
	ReviewFlags    []string       `json:"reviewFlags,omitempty"`
	ParseTimeMs    int64          `json:"parseTimeMs"`
}

// ScenarioStore is the scenario lookup the pipeline needs.
type ScenarioStore interface {
	FindByID(ctx context.Context, id string) (*scenario.Scenario, error)
}

// DocumentStore persists strategy and planning documents.
type DocumentStore interface {
	AddStrategyDocument(ctx context.Context, doc *strategy.StrategyDocument) error
	FindDeepestStrategyDocument(ctx context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error)
	AddPlanningDocument(ctx context.Context, doc *strategy.PlanningDocument) error
	FindLatestPlanningDocument(ctx context.Context, scenarioID string, docType strategy.PlanningDocType) (*strategy.PlanningDocument, error)
	FindPlanningDocuments(ctx context.Context, scenarioID string) ([]*strategy.PlanningDocument, error)
}

// OrderStore persists order trees.
type OrderStore interface {
	AddTree(ctx context.Context, tree *strategy.OrderTree) error
}

// InjectStore persists MSEL injects.
type InjectStore interface {
	AddInject(ctx context.Context, inject *scenario.Inject) error
}

// RecordStore persists ingest audit rows. Writes are best-effort.
type RecordStore interface {
	Add(ctx context.Context, record *Record) error
}

// EventPublisher delivers stage events to the scenario room.
type EventPublisher interface {
	Publish(scenarioID, event string, payload interface{})
}

// Pipeline is the three-stage document ingest: classify with the fast
// model, normalize with the mid-range model under a level-specific strict
// schema, then link and persist. Stages are strictly serial; persist is
// all-or-nothing.
type Pipeline struct {
	client    llm.ChatClient
	retrier   *llm.Retrier
	scenarios ScenarioStore
	docs      DocumentStore
	orders    OrderStore
	injects   InjectStore
	records   RecordStore
	publisher EventPublisher
	clock     shared.Clock
	log       *zap.Logger
}

// NewPipeline wires the ingest pipeline.
func NewPipeline(client llm.ChatClient, retrier *llm.Retrier, scenarios ScenarioStore, docs DocumentStore, orders OrderStore, injects InjectStore, records RecordStore, publisher EventPublisher, clock shared.Clock, log *zap.Logger) *Pipeline {
	if clock == nil {
		clock = shared.NewWallClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Pipeline{
		client:    client,
		retrier:   retrier,
		scenarios: scenarios,
		docs:      docs,
		orders:    orders,
		injects:   injects,
		records:   records,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// InputHash returns the hex SHA-256 of the raw text. Identical inputs
// always hash identically.
func InputHash(rawText string) string {
	sum := sha256.Sum256([]byte(rawText))
	return hex.EncodeToString(sum[:])
}

// Ingest runs the full pipeline for one raw document. Classification or
// normalization failure aborts with an ingest:error broadcast and no
// persisted document; every run leaves exactly one audit record.
func (p *Pipeline) Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*Result, error) {
	scn, err := p.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return nil, err
	}

	ingestID := uuid.NewString()
	inputHash := InputHash(rawText)
	started := p.clock.Now()

	p.publisher.Publish(scenarioID, eventStarted, map[string]interface{}{
		"ingestId":  ingestID,
		"inputHash": inputHash,
	})

	classification, err := p.classify(ctx, scenarioID, rawText, sourceHint)
	if err != nil {
		p.fail(ctx, scn, ingestID, inputHash, nil, started, err)
		return nil, err
	}
	p.publisher.Publish(scenarioID, eventClassified, map[string]interface{}{
		"ingestId":       ingestID,
		"hierarchyLevel": classification.HierarchyLevel,
		"documentType":   classification.DocumentType,
		"confidence":     classification.Confidence,
		"title":          classification.Title,
	})

	normalized, err := p.normalize(ctx, scenarioID, rawText, classification)
	if err != nil {
		p.fail(ctx, scn, ingestID, inputHash, classification, started, err)
		return nil, err
	}
	p.publisher.Publish(scenarioID, eventNormalized, map[string]interface{}{
		"ingestId":       ingestID,
		"hierarchyLevel": classification.HierarchyLevel,
		"outputLength":   len(normalized),
	})

	result, err := p.persist(ctx, scn, classification, normalized)
	if err != nil {
		p.fail(ctx, scn, ingestID, inputHash, classification, started, err)
		return nil, err
	}

	result.IngestID = ingestID
	result.HierarchyLevel = classification.HierarchyLevel
	result.DocumentType = classification.DocumentType
	result.Confidence = classification.Confidence
	if result.Title == "" {
		result.Title = classification.Title
	}
	result.ParseTimeMs = p.clock.Now().Sub(started).Milliseconds()

	countsJSON, _ := json.Marshal(result.Counts)
	p.record(ctx, &Record{
		ID:              ingestID,
		ScenarioID:      scenarioID,
		InputHash:       inputHash,
		HierarchyLevel:  classification.HierarchyLevel,
		DocumentType:    classification.DocumentType,
		SourceFormat:    classification.SourceFormat,
		Confidence:      classification.Confidence,
		Title:           result.Title,
		ParentLinkID:    result.ParentLinkID,
		CreatedCounts:   string(countsJSON),
		ReviewFlagCount: len(result.ReviewFlags),
		ParseTimeMs:     result.ParseTimeMs,
		Status:          "complete",
	})
	metrics.RecordIngestDuration(classification.HierarchyLevel, float64(result.ParseTimeMs)/1000)

	p.publisher.Publish(scenarioID, eventComplete, result)
	return result, nil
}

// classify runs the fast-tier classification call.
func (p *Pipeline) classify(ctx context.Context, scenarioID, rawText, sourceHint string) (*Classification, error) {
	prompt := truncate(rawText, maxPromptChars)
	system := "You classify military planning documents. Decide the hierarchy level " +
		"(STRATEGY for national/theater strategy, PLANNING for JIPTL/SPINS/ACO/MAAP, " +
		"ORDER for daily tasking orders, EVENT_LIST for MSEL exercise injects), the " +
		"specific document type, and basic metadata."
	user := prompt
	if sourceHint != "" {
		user = "Source hint: " + sourceHint + "\n\n" + user
	}

	res, err := p.retrier.Call(ctx, llm.RetryRequest{
		Model: p.client.ModelFor(llm.TierFast),
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: user},
		},
		MaxTokens:       2000,
		Schema:          ClassifySchema(),
		MinOutputLength: 2,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "ingest",
		Artifact:        "classification",
	})
	if err != nil {
		return nil, err
	}
	if res.Status == llm.StatusError {
		return nil, fmt.Errorf("classification failed after retries")
	}

	var classification Classification
	if err := json.Unmarshal([]byte(llm.StripFences(res.Content)), &classification); err != nil {
		return nil, fmt.Errorf("failed to parse classification: %w", err)
	}
	return &classification, nil
}

// normalize runs the mid-tier extraction call under the level's schema.
func (p *Pipeline) normalize(ctx context.Context, scenarioID, rawText string, c *Classification) (string, error) {
	var schema *llm.JSONSchemaFormat
	var instructions string
	switch c.HierarchyLevel {
	case LevelStrategy:
		schema = StrategySchema()
		instructions = "Extract the strategy document's type, metadata, summary and ranked priorities."
	case LevelPlanning:
		schema = PlanningSchema()
		instructions = "Extract the planning document's type, metadata, summary and ranked priority entries."
	case LevelOrder:
		schema = OrderSchema()
		instructions = "Extract the complete tasking order: packages, missions, routes, time windows, targets, support requirements and space capability needs."
	case LevelEventList:
		schema = EventListSchema()
		instructions = "Extract every scheduled inject with its DTG (DDHHMMZ MON YY), type and impact."
	default:
		return "", fmt.Errorf("unknown hierarchy level %q", c.HierarchyLevel)
	}

	res, err := p.retrier.Call(ctx, llm.RetryRequest{
		Model: p.client.ModelFor(llm.TierMidRange),
		Messages: []llm.Message{
			{Role: "system", Content: "You extract structured military planning data. " + instructions + " Every field is required; use null for unknown optionals."},
			{Role: "user", Content: truncate(rawText, maxPromptChars)},
		},
		MaxTokens:       8000,
		Schema:          schema,
		MinOutputLength: 2,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "ingest",
		Artifact:        "normalization:" + c.HierarchyLevel,
	})
	if err != nil {
		return "", err
	}
	if res.Status == llm.StatusError {
		return "", fmt.Errorf("normalization failed after retries")
	}
	return llm.StripFences(res.Content), nil
}

// persist dispatches the link-and-persist stage by hierarchy level.
func (p *Pipeline) persist(ctx context.Context, scn *scenario.Scenario, c *Classification, normalized string) (*Result, error) {
	switch c.HierarchyLevel {
	case LevelStrategy:
		return p.persistStrategy(ctx, scn, c, normalized)
	case LevelPlanning:
		return p.persistPlanning(ctx, scn, c, normalized)
	case LevelOrder:
		return p.persistOrder(ctx, scn, c, normalized)
	case LevelEventList:
		return p.persistEventList(ctx, scn, c, normalized)
	}
	return nil, fmt.Errorf("unknown hierarchy level %q", c.HierarchyLevel)
}

func (p *Pipeline) persistStrategy(ctx context.Context, scn *scenario.Scenario, c *Classification, normalized string) (*Result, error) {
	var doc struct {
		DocType          string `json:"docType"`
		Title            string `json:"title"`
		IssuingAuthority string `json:"issuingAuthority"`
		AuthorityLevel   string `json:"authorityLevel"`
		Summary          string `json:"summary"`
		Priorities       []struct {
			Rank        int    `json:"rank"`
			Objective   string `json:"objective"`
			Description string `json:"description"`
		} `json:"priorities"`
	}
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse strategy document: %w", err)
	}

	docType := strategy.StrategyDocType(doc.DocType)
	tier := strategy.TierFor(docType)
	if tier == 0 {
		return nil, shared.NewValidationError("docType", fmt.Sprintf("unknown strategy document type %q", doc.DocType))
	}

	entity := &strategy.StrategyDocument{
		ID:               uuid.NewString(),
		ScenarioID:       scn.ID,
		DocType:          docType,
		Tier:             tier,
		Title:            doc.Title,
		IssuingAuthority: doc.IssuingAuthority,
		AuthorityLevel:   doc.AuthorityLevel,
		Content:          doc.Summary,
		EffectiveDate:    parseEffectiveDate(c.EffectiveDateStr),
	}

	// Parent is the highest-tier document strictly above this one.
	parent, err := p.docs.FindDeepestStrategyDocument(ctx, scn.ID, tier)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		if err := entity.ValidateParent(parent); err == nil {
			entity.ParentDocID = &parent.ID
		}
	}

	for _, pr := range doc.Priorities {
		entity.Priorities = append(entity.Priorities, &strategy.StrategyPriority{
			ID:          uuid.NewString(),
			DocumentID:  entity.ID,
			Rank:        pr.Rank,
			Objective:   pr.Objective,
			Description: pr.Description,
		})
	}

	if err := p.docs.AddStrategyDocument(ctx, entity); err != nil {
		return nil, err
	}

	return &Result{
		Title:        entity.Title,
		CreatedID:    entity.ID,
		ParentLinkID: entity.ParentDocID,
		Counts: map[string]int{
			"strategyDocuments":  1,
			"strategyPriorities": len(entity.Priorities),
		},
	}, nil
}

func (p *Pipeline) persistPlanning(ctx context.Context, scn *scenario.Scenario, c *Classification, normalized string) (*Result, error) {
	var doc struct {
		DocType          string `json:"docType"`
		Title            string `json:"title"`
		IssuingAuthority string `json:"issuingAuthority"`
		Summary          string `json:"summary"`
		Priorities       []struct {
			Rank        int    `json:"rank"`
			Effect      string `json:"effect"`
			Description string `json:"description"`
		} `json:"priorities"`
	}
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse planning document: %w", err)
	}

	entity := &strategy.PlanningDocument{
		ID:               uuid.NewString(),
		ScenarioID:       scn.ID,
		DocType:          strategy.PlanningDocType(doc.DocType),
		Title:            doc.Title,
		IssuingAuthority: doc.IssuingAuthority,
		Content:          doc.Summary,
		EffectiveDate:    parseEffectiveDate(c.EffectiveDateStr),
	}

	// Link to the deepest strategy document and trace priorities against
	// its objectives by keyword overlap.
	var candidates []*strategy.StrategyPriority
	parent, err := p.docs.FindDeepestStrategyDocument(ctx, scn.ID, strategy.TierFor(strategy.DocOPLAN)+1)
	if err != nil {
		return nil, err
	}
	if parent != nil {
		entity.StrategyDocID = &parent.ID
		candidates = parent.Priorities
	}

	traced := 0
	for _, pr := range doc.Priorities {
		entry := &strategy.PriorityEntry{
			ID:          uuid.NewString(),
			DocumentID:  entity.ID,
			Rank:        pr.Rank,
			Effect:      pr.Effect,
			Description: pr.Description,
		}
		if match := strategy.TraceToStrategy(entry, candidates); match != nil {
			entry.StrategyPriorityID = &match.ID
			traced++
		}
		entity.Priorities = append(entity.Priorities, entry)
	}

	if err := p.docs.AddPlanningDocument(ctx, entity); err != nil {
		return nil, err
	}

	return &Result{
		Title:        entity.Title,
		CreatedID:    entity.ID,
		ParentLinkID: entity.StrategyDocID,
		Counts: map[string]int{
			"planningDocuments": 1,
			"priorityEntries":   len(entity.Priorities),
			"tracedPriorities":  traced,
		},
	}, nil
}

func (p *Pipeline) persistOrder(ctx context.Context, scn *scenario.Scenario, c *Classification, normalized string) (*Result, error) {
	var doc normalizedOrder
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse tasking order: %w", err)
	}

	// Parent is the most recent JIPTL, else any planning document.
	parentDoc, err := p.docs.FindLatestPlanningDocument(ctx, scn.ID, strategy.PlanJIPTL)
	if err != nil {
		return nil, err
	}
	if parentDoc == nil {
		all, err := p.docs.FindPlanningDocuments(ctx, scn.ID)
		if err != nil {
			return nil, err
		}
		if len(all) > 0 {
			parentDoc = all[0]
		}
	}

	var parentID *string
	if parentDoc != nil {
		parentID = &parentDoc.ID
	}

	tree, counts, flags := BuildOrderTree(scn, &doc, parentID, "ingest")
	if err := p.orders.AddTree(ctx, tree); err != nil {
		return nil, err
	}

	return &Result{
		Title:        string(tree.Order.OrderType),
		CreatedID:    tree.Order.ID,
		ParentLinkID: parentID,
		Counts:       counts,
		ReviewFlags:  flags,
	}, nil
}

func (p *Pipeline) persistEventList(ctx context.Context, scn *scenario.Scenario, c *Classification, normalized string) (*Result, error) {
	var doc struct {
		Title   string `json:"title"`
		Injects []struct {
			DTG         string `json:"dtg"`
			InjectType  string `json:"injectType"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Impact      string `json:"impact"`
		} `json:"injects"`
	}
	if err := json.Unmarshal([]byte(normalized), &doc); err != nil {
		return nil, fmt.Errorf("failed to parse event list: %w", err)
	}

	entity := &strategy.PlanningDocument{
		ID:         uuid.NewString(),
		ScenarioID: scn.ID,
		DocType:    strategy.PlanMSEL,
		Title:      doc.Title,
	}
	if err := p.docs.AddPlanningDocument(ctx, entity); err != nil {
		return nil, err
	}

	var flags []string
	created := 0
	for _, in := range doc.Injects {
		day, hour, err := DTGToTrigger(in.DTG, scn.StartDate)
		if err != nil {
			flags = append(flags, fmt.Sprintf("unparseable DTG %q, inject scheduled day 1 hour 0", in.DTG))
			day, hour = 1, 0
		}
		inject := &scenario.Inject{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			TriggerDay:  day,
			TriggerHour: hour,
			InjectType:  scenario.InjectType(in.InjectType),
			Title:       in.Title,
			Description: in.Description,
			Impact:      in.Impact,
		}
		if err := p.injects.AddInject(ctx, inject); err != nil {
			return nil, err
		}
		created++
	}

	return &Result{
		Title:     entity.Title,
		CreatedID: entity.ID,
		Counts: map[string]int{
			"planningDocuments": 1,
			"injects":           created,
		},
		ReviewFlags: flags,
	}, nil
}

// fail records the audit row for an aborted run and broadcasts
// ingest:error. No document state survives.
func (p *Pipeline) fail(ctx context.Context, scn *scenario.Scenario, ingestID, inputHash string, c *Classification, started time.Time, cause error) {
	record := &Record{
		ID:          ingestID,
		ScenarioID:  scn.ID,
		InputHash:   inputHash,
		ParseTimeMs: p.clock.Now().Sub(started).Milliseconds(),
		Status:      "error",
		Error:       cause.Error(),
	}
	if c != nil {
		record.HierarchyLevel = c.HierarchyLevel
		record.DocumentType = c.DocumentType
		record.SourceFormat = c.SourceFormat
		record.Confidence = c.Confidence
		record.Title = c.Title
	}
	p.record(ctx, record)

	p.publisher.Publish(scn.ID, eventError, map[string]interface{}{
		"ingestId": ingestID,
		"error":    cause.Error(),
	})
}

func (p *Pipeline) record(ctx context.Context, record *Record) {
	if err := p.records.Add(ctx, record); err != nil {
		p.log.Warn("ingest log write failed", zap.Error(err))
	}
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func parseEffectiveDate(raw *string) *time.Time {
	if raw == nil || *raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02", "2 January 2006", "January 2, 2006"} {
		if t, err := time.Parse(layout, *raw); err == nil {
			return &t
		}
	}
	if t, err := ParseDTG(*raw); err == nil {
		return &t
	}
	return nil
}

// normalizedOrder is the wire shape of an extracted tasking order.
type normalizedOrder struct {
	OrderType    string `json:"orderType"`
	ATODayNumber int    `json:"atoDayNumber"`
	Packages     []struct {
		PackageID     string `json:"packageId"`
		PriorityRank  int    `json:"priorityRank"`
		MissionType   string `json:"missionType"`
		EffectDesired string `json:"effectDesired"`
		Missions      []struct {
			MissionID     string `json:"missionId"`
			Callsign      string `json:"callsign"`
			Domain        string `json:"domain"`
			PlatformType  string `json:"platformType"`
			PlatformCount int    `json:"platformCount"`
			MissionType   string `json:"missionType"`
			Waypoints     []struct {
				Sequence     int      `json:"sequence"`
				WaypointType string   `json:"waypointType"`
				Lat          float64  `json:"lat"`
				Lon          float64  `json:"lon"`
				AltitudeFt   *float64 `json:"altitudeFt"`
				SpeedKts     *float64 `json:"speedKts"`
			} `json:"waypoints"`
			TimeWindows []struct {
				WindowType string `json:"windowType"`
				StartTime  string `json:"startTime"`
				EndTime    string `json:"endTime"`
			} `json:"timeWindows"`
			Targets []struct {
				TargetName  string  `json:"targetName"`
				TargetType  string  `json:"targetType"`
				Lat         float64 `json:"lat"`
				Lon         float64 `json:"lon"`
				Description string  `json:"description"`
			} `json:"targets"`
			SupportRequirements []struct {
				SupportType string `json:"supportType"`
				Description string `json:"description"`
			} `json:"supportRequirements"`
			SpaceNeeds []struct {
				CapabilityType     string   `json:"capabilityType"`
				Priority           int      `json:"priority"`
				StartTime          string   `json:"startTime"`
				EndTime            string   `json:"endTime"`
				CoverageLat        *float64 `json:"coverageLat"`
				CoverageLon        *float64 `json:"coverageLon"`
				FallbackCapability *string  `json:"fallbackCapability"`
				MissionCriticality string   `json:"missionCriticality"`
			} `json:"spaceNeeds"`
		} `json:"missions"`
	} `json:"packages"`
}

// BuildOrderTree materializes a normalized order into domain entities,
// coercing every enum-typed field. Review flags note each field that
// fell back to its safe default.
func BuildOrderTree(scn *scenario.Scenario, doc *normalizedOrder, planningDocID *string, source string) (*strategy.OrderTree, map[string]int, []string) {
	day := doc.ATODayNumber
	if day < 1 {
		day = 1
	}
	effectiveStart := scn.StartDate.Add(time.Duration(day-1) * 24 * time.Hour)
	effectiveEnd := effectiveStart.Add(24 * time.Hour)

	orderType := strategy.OrderType(doc.OrderType)
	var flags []string
	switch orderType {
	case strategy.OrderATO, strategy.OrderMTO, strategy.OrderSTO, strategy.OrderOPORD,
		strategy.OrderEXORD, strategy.OrderFRAGORD, strategy.OrderACO, strategy.OrderSPINS:
	default:
		flags = append(flags, fmt.Sprintf("unknown order type %q, defaulted to ATO", doc.OrderType))
		orderType = strategy.OrderATO
	}

	tree := &strategy.OrderTree{
		Order: &strategy.TaskingOrder{
			ID:             uuid.NewString(),
			ScenarioID:     scn.ID,
			OrderType:      orderType,
			ATODayNumber:   day,
			EffectiveStart: effectiveStart,
			EffectiveEnd:   effectiveEnd,
			PlanningDocID:  planningDocID,
			Source:         source,
		},
	}

	counts := map[string]int{"orders": 1}
	for _, pkg := range doc.Packages {
		pkgEntity := &strategy.MissionPackage{
			ID:            uuid.NewString(),
			OrderID:       tree.Order.ID,
			PackageID:     pkg.PackageID,
			PriorityRank:  pkg.PriorityRank,
			MissionType:   pkg.MissionType,
			EffectDesired: pkg.EffectDesired,
		}
		pkgTree := &strategy.PackageTree{Package: pkgEntity}
		counts["packages"]++

		for _, m := range pkg.Missions {
			domain := mission.Domain(m.Domain)
			switch domain {
			case mission.DomainAir, mission.DomainMaritime, mission.DomainSpace, mission.DomainLand:
			default:
				flags = append(flags, fmt.Sprintf("unknown domain %q for mission %s, defaulted to AIR", m.Domain, m.MissionID))
				domain = mission.DomainAir
			}
			platformCount := m.PlatformCount
			if platformCount < 1 {
				platformCount = 1
			}
			entity := &mission.Mission{
				ID:            uuid.NewString(),
				PackageID:     pkgEntity.ID,
				MissionID:     m.MissionID,
				Callsign:      m.Callsign,
				Domain:        domain,
				PlatformType:  m.PlatformType,
				PlatformCount: platformCount,
				MissionType:   m.MissionType,
				Status:        mission.StatusPlanned,
				Affiliation:   mission.AffiliationFriendly,
			}
			counts["missions"]++

			for i, wp := range m.Waypoints {
				wpType, exact := NormalizeWaypointType(wp.WaypointType)
				if !exact {
					flags = append(flags, fmt.Sprintf("waypoint type %q coerced to %s", wp.WaypointType, wpType))
				}
				sequence := wp.Sequence
				if sequence < 1 {
					sequence = i + 1
				}
				entity.Waypoints = append(entity.Waypoints, &mission.Waypoint{
					ID:           uuid.NewString(),
					MissionID:    entity.ID,
					Sequence:     sequence,
					WaypointType: wpType,
					Lat:          wp.Lat,
					Lon:          wp.Lon,
					AltitudeFt:   wp.AltitudeFt,
					SpeedKts:     wp.SpeedKts,
				})
				counts["waypoints"]++
			}
			if entity.ValidateWaypointSequence() != nil {
				// Resequence rather than reject: order of appearance wins.
				flags = append(flags, fmt.Sprintf("mission %s waypoints resequenced to 1..N", m.MissionID))
				for i := range entity.Waypoints {
					entity.Waypoints[i].Sequence = i + 1
				}
			}

			for _, tw := range m.TimeWindows {
				winType, exact := NormalizeWindowType(tw.WindowType)
				if !exact {
					flags = append(flags, fmt.Sprintf("window type %q coerced to %s", tw.WindowType, winType))
				}
				start := parseOrderTime(tw.StartTime, effectiveStart)
				end := parseOrderTime(tw.EndTime, start.Add(time.Hour))
				entity.TimeWindows = append(entity.TimeWindows, &mission.TimeWindow{
					ID:         uuid.NewString(),
					MissionID:  entity.ID,
					WindowType: winType,
					StartTime:  start,
					EndTime:    end,
				})
				counts["timeWindows"]++
			}

			for _, tgt := range m.Targets {
				entity.Targets = append(entity.Targets, &mission.Target{
					ID:          uuid.NewString(),
					MissionID:   entity.ID,
					TargetName:  tgt.TargetName,
					TargetType:  tgt.TargetType,
					Lat:         tgt.Lat,
					Lon:         tgt.Lon,
					Description: tgt.Description,
				})
				counts["targets"]++
			}

			for _, sr := range m.SupportRequirements {
				supType, exact := NormalizeSupportType(sr.SupportType)
				if !exact {
					flags = append(flags, fmt.Sprintf("support type %q coerced to %s", sr.SupportType, supType))
				}
				entity.SupportReqs = append(entity.SupportReqs, &mission.SupportRequirement{
					ID:          uuid.NewString(),
					MissionID:   entity.ID,
					SupportType: supType,
					Description: sr.Description,
				})
				counts["supportRequirements"]++
			}

			mt := &strategy.MissionTree{Mission: entity}
			for _, sn := range m.SpaceNeeds {
				capability, exact := NormalizeCapability(sn.CapabilityType)
				if !exact {
					flags = append(flags, fmt.Sprintf("capability %q coerced to %s", sn.CapabilityType, capability))
				}
				criticality, exact := NormalizeCriticality(sn.MissionCriticality)
				if !exact {
					flags = append(flags, fmt.Sprintf("criticality %q coerced to %s", sn.MissionCriticality, criticality))
				}
				var fallback *space.CapabilityType
				if sn.FallbackCapability != nil && *sn.FallbackCapability != "" {
					fb, exact := NormalizeCapability(*sn.FallbackCapability)
					if !exact {
						flags = append(flags, fmt.Sprintf("fallback capability %q coerced to %s", *sn.FallbackCapability, fb))
					}
					fallback = &fb
				}
				start := parseOrderTime(sn.StartTime, effectiveStart)
				end := parseOrderTime(sn.EndTime, start.Add(time.Hour))
				mt.SpaceNeeds = append(mt.SpaceNeeds, &space.SpaceNeed{
					ID:                 uuid.NewString(),
					MissionID:          entity.ID,
					CapabilityType:     capability,
					Priority:           sn.Priority,
					StartTime:          start,
					EndTime:            end,
					CoverageLat:        sn.CoverageLat,
					CoverageLon:        sn.CoverageLon,
					FallbackCapability: fallback,
					MissionCriticality: criticality,
				})
				counts["spaceNeeds"]++
			}

			pkgTree.Missions = append(pkgTree.Missions, mt)
		}
		tree.Packages = append(tree.Packages, pkgTree)
	}

	return tree, counts, flags
}

func parseOrderTime(raw string, fallback time.Time) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02T15:04", "2006-01-02 15:04"} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t
		}
	}
	if t, err := ParseDTG(raw); err == nil {
		return t
	}
	return fallback
}
