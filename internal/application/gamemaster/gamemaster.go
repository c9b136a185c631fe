package gamemaster

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/application/generator"
	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// Room events the game master emits.
const (
	eventATOComplete  = "gamemaster:ato-complete"
	eventBDAComplete  = "gamemaster:bda-complete"
	eventMAAPComplete = "gamemaster:maap-complete"
	eventInject       = "gamemaster:inject"
	eventError        = "gamemaster:error"
	eventOrder        = "order:published"
)

// ScenarioStore is the scenario access the game master needs.
type ScenarioStore interface {
	FindByID(ctx context.Context, id string) (*scenario.Scenario, error)
}

// DocumentStore reads planning context and takes BDA re-targeting writes.
type DocumentStore interface {
	FindDeepestStrategyDocument(ctx context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error)
	FindLatestPlanningDocument(ctx context.Context, scenarioID string, docType strategy.PlanningDocType) (*strategy.PlanningDocument, error)
	AddPlanningDocument(ctx context.Context, doc *strategy.PlanningDocument) error
	DeletePlanningDocuments(ctx context.Context, scenarioID string, docTypes ...strategy.PlanningDocType) error
	AddPriorityEntry(ctx context.Context, entry *strategy.PriorityEntry) error
}

// OrderStore reads and writes tasking orders.
type OrderStore interface {
	FindByDay(ctx context.Context, scenarioID string, atoDay int) ([]*strategy.OrderTree, error)
	HasOrderForDay(ctx context.Context, scenarioID string, atoDay int) (bool, error)
	AddTree(ctx context.Context, tree *strategy.OrderTree) error
}

// MissionStore reads mission state for the context packet.
type MissionStore interface {
	FindByScenario(ctx context.Context, scenarioID string) ([]*mission.Mission, error)
}

// SpaceStore reads the constellation for the context packet.
type SpaceStore interface {
	FindAssets(ctx context.Context, scenarioID string) ([]*space.SpaceAsset, error)
}

// BaseStore reads bases for the fallback order seed.
type BaseStore interface {
	FindBases(ctx context.Context, scenarioID string) ([]*scenario.TheaterBase, error)
}

// InjectStore persists generated injects.
type InjectStore interface {
	AddInject(ctx context.Context, inject *scenario.Inject) error
}

// Ingester routes generated document text back through the pipeline.
type Ingester interface {
	Ingest(ctx context.Context, scenarioID, rawText, sourceHint string) (*ingest.Result, error)
}

// EventPublisher delivers game-master events to the scenario room.
type EventPublisher interface {
	Publish(scenarioID, event string, payload interface{})
}

// GameMaster closes the daily loop: it assesses the previous day, writes
// the next tasking order, and feeds its own documents back through the
// ingest pipeline so generated days and uploaded days land identically.
type GameMaster struct {
	client    llm.ChatClient
	retrier   *llm.Retrier
	ingester  Ingester
	scenarios ScenarioStore
	docs      DocumentStore
	orders    OrderStore
	missions  MissionStore
	assets    SpaceStore
	bases     BaseStore
	injects   InjectStore
	publisher EventPublisher
	clock     shared.Clock
	log       *zap.Logger
}

// NewGameMaster wires the game master.
func NewGameMaster(client llm.ChatClient, retrier *llm.Retrier, ingester Ingester, scenarios ScenarioStore, docs DocumentStore, orders OrderStore, missions MissionStore, assets SpaceStore, bases BaseStore, injects InjectStore, publisher EventPublisher, clock shared.Clock, log *zap.Logger) *GameMaster {
	if clock == nil {
		clock = shared.NewWallClock()
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &GameMaster{
		client:    client,
		retrier:   retrier,
		ingester:  ingester,
		scenarios: scenarios,
		docs:      docs,
		orders:    orders,
		missions:  missions,
		assets:    assets,
		bases:     bases,
		injects:   injects,
		publisher: publisher,
		clock:     clock,
		log:       log,
	}
}

// GenerateATO writes the tasking order for one ATO day. The LLM path
// routes the order text through ingest; when that path fails the day is
// seeded deterministically instead, so a day boundary never passes
// without an order.
func (gm *GameMaster) GenerateATO(ctx context.Context, scenarioID string, atoDay int) error {
	started := gm.clock.Now()

	scn, err := gm.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	exists, err := gm.orders.HasOrderForDay(ctx, scenarioID, atoDay)
	if err != nil {
		return err
	}
	if exists {
		gm.log.Info("order already exists, skipping",
			zap.String("scenario_id", scenarioID),
			zap.Int("ato_day", atoDay))
		return nil
	}

	packet, err := gm.buildContextPacket(ctx, scn, atoDay)
	if err != nil {
		return err
	}

	createdID, source := gm.generateOrderViaLLM(ctx, scn, atoDay, packet)
	if createdID == "" {
		createdID, err = gm.seedFallbackOrder(ctx, scn, atoDay)
		if err != nil {
			gm.publishError(scenarioID, atoDay, "ato", err)
			return err
		}
		source = "fallback"
	}

	gm.publisher.Publish(scenarioID, eventOrder, map[string]interface{}{
		"orderId":   createdID,
		"orderType": string(strategy.OrderATO),
		"day":       atoDay,
		"source":    source,
	})
	gm.publisher.Publish(scenarioID, eventATOComplete, map[string]interface{}{
		"scenarioId": scenarioID,
		"day":        atoDay,
		"createdId":  createdID,
		"durationMs": gm.clock.Now().Sub(started).Milliseconds(),
	})
	return nil
}

// generateOrderViaLLM returns the created order id, or "" when the LLM
// or ingest path failed and the caller should fall back.
func (gm *GameMaster) generateOrderViaLLM(ctx context.Context, scn *scenario.Scenario, atoDay int, packet string) (string, string) {
	prompt := fmt.Sprintf(
		"%s\n\nWrite the complete air tasking order for ATO day %d. Use USMTF-style free text with "+
			"package and mission lines, callsigns, waypoints with coordinates, TOT windows, targets, "+
			"support requirements and space capability needs. Set the ATO day number to %d.",
		packet, atoDay, atoDay)

	res, err := gm.retrier.Call(ctx, llm.RetryRequest{
		Model: gm.client.ModelFor(llm.TierFlagship),
		Messages: []llm.Message{
			{Role: "system", Content: "You are the air operations center writing daily tasking orders for a wargame."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       8000,
		MinOutputLength: 500,
		MaxRetries:      -1,
		ScenarioID:      scn.ID,
		Step:            "gamemaster",
		Artifact:        fmt.Sprintf("ato:day-%d", atoDay),
	})
	if err != nil || res.Status != llm.StatusSuccess {
		gm.log.Warn("ato generation failed, falling back",
			zap.String("scenario_id", scn.ID),
			zap.Int("ato_day", atoDay),
			zap.Error(err))
		return "", ""
	}

	result, err := gm.ingester.Ingest(ctx, scn.ID, res.Content, "game-master ATO")
	if err != nil {
		gm.log.Warn("ato ingest failed, falling back",
			zap.String("scenario_id", scn.ID),
			zap.Error(err))
		return "", ""
	}
	return result.CreatedID, "game-master"
}

func (gm *GameMaster) seedFallbackOrder(ctx context.Context, scn *scenario.Scenario, atoDay int) (string, error) {
	bases, err := gm.bases.FindBases(ctx, scn.ID)
	if err != nil {
		return "", err
	}
	var planningDocID *string
	if jiptl, err := gm.docs.FindLatestPlanningDocument(ctx, scn.ID, strategy.PlanJIPTL); err == nil && jiptl != nil {
		planningDocID = &jiptl.ID
	}
	tree := generator.SeedOrderTree(scn, atoDay, bases, planningDocID, "fallback")
	if err := gm.orders.AddTree(ctx, tree); err != nil {
		return "", err
	}
	return tree.Order.ID, nil
}

// GenerateInject asks for one ad-hoc inject and persists it directly.
func (gm *GameMaster) GenerateInject(ctx context.Context, scenarioID string, atoDay int) error {
	started := gm.clock.Now()

	scn, err := gm.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	packet, err := gm.buildContextPacket(ctx, scn, atoDay)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"%s\n\nWrite one exercise inject for ATO day %d that pressures the current plan. "+
			"Give it a DTG within day %d in DDHHMMZ MON YY form.",
		packet, atoDay, atoDay)

	res, err := gm.retrier.Call(ctx, llm.RetryRequest{
		Model: gm.client.ModelFor(llm.TierMidRange),
		Messages: []llm.Message{
			{Role: "system", Content: "You are the exercise control cell writing injects for a wargame."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       2000,
		Schema:          injectSchema(),
		MinOutputLength: 50,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "gamemaster",
		Artifact:        fmt.Sprintf("inject:day-%d", atoDay),
	})
	if err != nil || res.Status != llm.StatusSuccess {
		gm.publishError(scenarioID, atoDay, "inject", fmt.Errorf("inject generation failed"))
		return fmt.Errorf("inject generation failed after retries")
	}

	var parsed struct {
		DTG         string `json:"dtg"`
		InjectType  string `json:"injectType"`
		Title       string `json:"title"`
		Description string `json:"description"`
		Impact      string `json:"impact"`
	}
	if err := json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed); err != nil {
		gm.publishError(scenarioID, atoDay, "inject", err)
		return fmt.Errorf("failed to parse inject: %w", err)
	}

	day, hour, err := ingest.DTGToTrigger(parsed.DTG, scn.StartDate)
	if err != nil {
		day, hour = atoDay, 12
	}
	inj := &scenario.Inject{
		ID:          uuid.NewString(),
		ScenarioID:  scenarioID,
		TriggerDay:  day,
		TriggerHour: hour,
		InjectType:  scenario.InjectType(parsed.InjectType),
		Title:       parsed.Title,
		Description: parsed.Description,
		Impact:      parsed.Impact,
	}
	if err := gm.injects.AddInject(ctx, inj); err != nil {
		gm.publishError(scenarioID, atoDay, "inject", err)
		return err
	}

	gm.publisher.Publish(scenarioID, eventInject, map[string]interface{}{
		"scenarioId": scenarioID,
		"day":        atoDay,
		"createdId":  inj.ID,
		"durationMs": gm.clock.Now().Sub(started).Milliseconds(),
	})
	return nil
}

// BDAAssessment is one per-target result of the structured extraction.
type BDAAssessment struct {
	TargetName     string  `json:"targetName"`
	DamagePercent  float64 `json:"damagePercent"`
	FunctionalKill bool    `json:"functionalKill"`
	RestrikeNeeded bool    `json:"restrikeNeeded"`
}

// AssessBDA writes the battle damage assessment for a completed day,
// routes the report through ingest, and folds per-target results back
// into the current JIPTL as DEGRADED or RE-STRIKE entries.
func (gm *GameMaster) AssessBDA(ctx context.Context, scenarioID string, atoDay int) error {
	started := gm.clock.Now()

	scn, err := gm.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	packet, err := gm.buildContextPacket(ctx, scn, atoDay)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"%s\n\nWrite the battle damage assessment report for ATO day %d based on the mission results above. "+
			"Cover each struck target with observed damage and a restrike recommendation.",
		packet, atoDay)

	res, err := gm.retrier.Call(ctx, llm.RetryRequest{
		Model: gm.client.ModelFor(llm.TierFlagship),
		Messages: []llm.Message{
			{Role: "system", Content: "You are the targeting cell writing battle damage assessments for a wargame."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       6000,
		MinOutputLength: 300,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "gamemaster",
		Artifact:        fmt.Sprintf("bda:day-%d", atoDay),
	})
	if err != nil || res.Status != llm.StatusSuccess {
		gm.publishError(scenarioID, atoDay, "bda", fmt.Errorf("bda generation failed"))
		return fmt.Errorf("bda generation failed after retries")
	}

	report := res.Content
	ingestResult, err := gm.ingester.Ingest(ctx, scenarioID, report, "game-master BDA")
	if err != nil {
		gm.log.Warn("bda ingest failed", zap.String("scenario_id", scenarioID), zap.Error(err))
	}

	assessments, err := gm.extractAssessments(ctx, scenarioID, atoDay, report)
	if err != nil {
		gm.publishError(scenarioID, atoDay, "bda", err)
		return err
	}
	if err := gm.applyAssessments(ctx, scenarioID, assessments); err != nil {
		gm.publishError(scenarioID, atoDay, "bda", err)
		return err
	}

	payload := map[string]interface{}{
		"scenarioId": scenarioID,
		"day":        atoDay,
		"targets":    len(assessments),
		"durationMs": gm.clock.Now().Sub(started).Milliseconds(),
	}
	if ingestResult != nil {
		payload["createdId"] = ingestResult.CreatedID
	}
	gm.publisher.Publish(scenarioID, eventBDAComplete, payload)
	return nil
}

// extractAssessments runs the structured second pass over the BDA text.
func (gm *GameMaster) extractAssessments(ctx context.Context, scenarioID string, atoDay int, report string) ([]BDAAssessment, error) {
	res, err := gm.retrier.Call(ctx, llm.RetryRequest{
		Model: gm.client.ModelFor(llm.TierMidRange),
		Messages: []llm.Message{
			{Role: "system", Content: "You extract structured per-target battle damage data from BDA reports."},
			{Role: "user", Content: report},
		},
		MaxTokens:       3000,
		Schema:          bdaSchema(),
		MinOutputLength: 2,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "gamemaster",
		Artifact:        fmt.Sprintf("bda-extract:day-%d", atoDay),
	})
	if err != nil {
		return nil, err
	}
	if res.Status != llm.StatusSuccess {
		return nil, fmt.Errorf("bda extraction failed after retries")
	}

	var parsed struct {
		Assessments []BDAAssessment `json:"assessments"`
	}
	if err := json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse bda extraction: %w", err)
	}
	return parsed.Assessments, nil
}

// applyAssessments folds results into the current JIPTL. Damage at or
// above 70 percent with a functional kill downgrades the target; a
// restrike recommendation nominates it again at the top of the list.
func (gm *GameMaster) applyAssessments(ctx context.Context, scenarioID string, assessments []BDAAssessment) error {
	jiptl, err := gm.docs.FindLatestPlanningDocument(ctx, scenarioID, strategy.PlanJIPTL)
	if err != nil {
		return err
	}
	if jiptl == nil {
		gm.log.Warn("no jiptl to fold bda into", zap.String("scenario_id", scenarioID))
		return nil
	}

	nextRank := len(jiptl.Priorities) + 1
	for _, a := range assessments {
		if a.DamagePercent >= 70 && a.FunctionalKill {
			entry := &strategy.PriorityEntry{
				ID:          uuid.NewString(),
				DocumentID:  jiptl.ID,
				Rank:        nextRank,
				Effect:      fmt.Sprintf("DEGRADED: %s", a.TargetName),
				Description: fmt.Sprintf("Assessed %.0f%% damage with functional kill", a.DamagePercent),
			}
			if err := gm.docs.AddPriorityEntry(ctx, entry); err != nil {
				return err
			}
			nextRank++
		}
		if a.RestrikeNeeded {
			entry := &strategy.PriorityEntry{
				ID:          uuid.NewString(),
				DocumentID:  jiptl.ID,
				Rank:        nextRank,
				Effect:      fmt.Sprintf("RE-STRIKE: %s", a.TargetName),
				Description: fmt.Sprintf("Restrike required, assessed damage %.0f%%", a.DamagePercent),
			}
			if err := gm.docs.AddPriorityEntry(ctx, entry); err != nil {
				return err
			}
			nextRank++
		}
	}
	return nil
}

// GenerateMAAP rewrites the master air attack plan from current context.
func (gm *GameMaster) GenerateMAAP(ctx context.Context, scenarioID string, atoDay int) error {
	started := gm.clock.Now()

	scn, err := gm.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		return err
	}
	packet, err := gm.buildContextPacket(ctx, scn, atoDay)
	if err != nil {
		return err
	}

	prompt := fmt.Sprintf(
		"%s\n\nRewrite the master air attack plan for the remainder of the operation starting at ATO day %d. "+
			"Produce a concise summary and ranked priority entries.",
		packet, atoDay)

	res, err := gm.retrier.Call(ctx, llm.RetryRequest{
		Model: gm.client.ModelFor(llm.TierFlagship),
		Messages: []llm.Message{
			{Role: "system", Content: "You are the plans cell writing the master air attack plan for a wargame."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       6000,
		Schema:          ingest.PlanningSchema(),
		MinOutputLength: 300,
		MaxRetries:      -1,
		ScenarioID:      scenarioID,
		Step:            "gamemaster",
		Artifact:        fmt.Sprintf("maap:day-%d", atoDay),
	})
	if err != nil || res.Status != llm.StatusSuccess {
		gm.publishError(scenarioID, atoDay, "maap", fmt.Errorf("maap generation failed"))
		return fmt.Errorf("maap generation failed after retries")
	}

	var parsed struct {
		Title            string `json:"title"`
		IssuingAuthority string `json:"issuingAuthority"`
		Summary          string `json:"summary"`
		Priorities       []struct {
			Rank        int    `json:"rank"`
			Effect      string `json:"effect"`
			Description string `json:"description"`
		} `json:"priorities"`
	}
	if err := json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed); err != nil {
		gm.publishError(scenarioID, atoDay, "maap", err)
		return fmt.Errorf("failed to parse maap: %w", err)
	}

	doc := &strategy.PlanningDocument{
		ID:               uuid.NewString(),
		ScenarioID:       scenarioID,
		DocType:          strategy.PlanMAAP,
		Title:            parsed.Title,
		IssuingAuthority: parsed.IssuingAuthority,
		Content:          parsed.Summary,
	}
	for _, p := range parsed.Priorities {
		doc.Priorities = append(doc.Priorities, &strategy.PriorityEntry{
			ID:          uuid.NewString(),
			DocumentID:  doc.ID,
			Rank:        p.Rank,
			Effect:      p.Effect,
			Description: p.Description,
		})
	}
	if parent, err := gm.docs.FindDeepestStrategyDocument(ctx, scenarioID, strategy.TierFor(strategy.DocOPLAN)+1); err == nil && parent != nil {
		doc.StrategyDocID = &parent.ID
	}
	if err := gm.docs.AddPlanningDocument(ctx, doc); err != nil {
		gm.publishError(scenarioID, atoDay, "maap", err)
		return err
	}

	gm.publisher.Publish(scenarioID, eventMAAPComplete, map[string]interface{}{
		"scenarioId": scenarioID,
		"day":        atoDay,
		"createdId":  doc.ID,
		"durationMs": gm.clock.Now().Sub(started).Milliseconds(),
	})
	return nil
}

// buildContextPacket assembles the situation text every operation hands
// to the model: campaign phase, priorities, both ORBATs, the space
// picture, the MAAP excerpt and yesterday's mission results.
func (gm *GameMaster) buildContextPacket(ctx context.Context, scn *scenario.Scenario, atoDay int) (string, error) {
	var b strings.Builder

	fmt.Fprintf(&b, "SCENARIO: %s | Theater: %s | Adversary: %s | ATO day %d of %d\n",
		scn.Name, scn.Theater, scn.Adversary, atoDay, scn.DurationDays())
	fmt.Fprintf(&b, "CAMPAIGN PHASE: %s\n\n", phaseFor(atoDay))

	if oplan, err := gm.docs.FindDeepestStrategyDocument(ctx, scn.ID, strategy.TierFor(strategy.DocOPLAN)+1); err != nil {
		return "", err
	} else if oplan != nil {
		fmt.Fprintf(&b, "STRATEGIC PRIORITIES (%s):\n", oplan.DocType)
		for _, p := range oplan.Priorities {
			fmt.Fprintf(&b, "  %d. %s\n", p.Rank, p.Objective)
		}
		b.WriteString("\n")
	}

	if jiptl, err := gm.docs.FindLatestPlanningDocument(ctx, scn.ID, strategy.PlanJIPTL); err != nil {
		return "", err
	} else if jiptl != nil {
		b.WriteString("JIPTL:\n")
		for _, p := range jiptl.Priorities {
			fmt.Fprintf(&b, "  %d. %s\n", p.Rank, p.Effect)
		}
		b.WriteString("\n")
	}

	missions, err := gm.missions.FindByScenario(ctx, scn.ID)
	if err != nil {
		return "", err
	}
	var friendly, hostile []string
	for _, m := range missions {
		line := fmt.Sprintf("%s %s x%d (%s, %s)", m.Callsign, m.PlatformType, m.PlatformCount, m.MissionType, m.Status)
		if m.Affiliation == mission.AffiliationHostile {
			hostile = append(hostile, line)
		} else {
			friendly = append(friendly, line)
		}
	}
	fmt.Fprintf(&b, "FRIENDLY ORBAT:\n  %s\n", strings.Join(dedupe(friendly), "\n  "))
	fmt.Fprintf(&b, "HOSTILE ORBAT:\n  %s\n\n", strings.Join(dedupe(hostile), "\n  "))

	assets, err := gm.assets.FindAssets(ctx, scn.ID)
	if err != nil {
		return "", err
	}
	b.WriteString("SPACE ORDER OF BATTLE:\n")
	for _, a := range assets {
		caps := make([]string, 0, len(a.Capabilities))
		for _, c := range a.Capabilities {
			caps = append(caps, string(c))
		}
		fmt.Fprintf(&b, "  %s (%s, %s): %s\n", a.Name, a.Affiliation, a.Status, strings.Join(caps, ", "))
	}
	b.WriteString("\n")

	if maap, err := gm.docs.FindLatestPlanningDocument(ctx, scn.ID, strategy.PlanMAAP); err != nil {
		return "", err
	} else if maap != nil {
		fmt.Fprintf(&b, "MAAP EXCERPT:\n%s\n\n", excerpt(maap.Content, 1500))
	}

	if atoDay > 1 {
		trees, err := gm.orders.FindByDay(ctx, scn.ID, atoDay-1)
		if err != nil {
			return "", err
		}
		fmt.Fprintf(&b, "PREVIOUS DAY (ATO day %d) MISSION RESULTS:\n", atoDay-1)
		for _, tree := range trees {
			for _, pkg := range tree.Packages {
				for _, mt := range pkg.Missions {
					m := mt.Mission
					fmt.Fprintf(&b, "  %s %s (%s): %s\n", m.Callsign, m.MissionID, m.MissionType, m.Status)
				}
			}
		}
	}

	return b.String(), nil
}

// phaseFor maps an ATO day onto the joint phasing model.
func phaseFor(atoDay int) string {
	switch {
	case atoDay <= 1:
		return "Phase I - Deter"
	case atoDay <= 3:
		return "Phase II - Seize the Initiative"
	case atoDay <= 6:
		return "Phase III - Dominate"
	default:
		return "Phase IV - Stabilize"
	}
}

func (gm *GameMaster) publishError(scenarioID string, atoDay int, op string, cause error) {
	gm.publisher.Publish(scenarioID, eventError, map[string]interface{}{
		"scenarioId": scenarioID,
		"day":        atoDay,
		"operation":  op,
		"error":      cause.Error(),
	})
}

func excerpt(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func dedupe(lines []string) []string {
	seen := make(map[string]bool, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if !seen[l] {
			seen[l] = true
			out = append(out, l)
		}
	}
	if len(out) == 0 {
		out = append(out, "none reported")
	}
	return out
}

func injectSchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "exercise_inject",
		Strict: true,
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"dtg":         map[string]interface{}{"type": "string"},
				"injectType":  map[string]interface{}{"type": "string", "enum": []string{"FRICTION", "INTEL", "CRISIS", "SPACE", "INFORMATION", "ACTION", "DECISION_POINT", "CONTINGENCY"}},
				"title":       map[string]interface{}{"type": "string"},
				"description": map[string]interface{}{"type": "string"},
				"impact":      map[string]interface{}{"type": "string"},
			},
			"required":             []string{"dtg", "injectType", "title", "description", "impact"},
			"additionalProperties": false,
		},
	}
}

func bdaSchema() *llm.JSONSchemaFormat {
	return &llm.JSONSchemaFormat{
		Name:   "bda_extraction",
		Strict: true,
		Schema: map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"assessments": map[string]interface{}{
					"type": "array",
					"items": map[string]interface{}{
						"type": "object",
						"properties": map[string]interface{}{
							"targetName":     map[string]interface{}{"type": "string"},
							"damagePercent":  map[string]interface{}{"type": "number"},
							"functionalKill": map[string]interface{}{"type": "boolean"},
							"restrikeNeeded": map[string]interface{}{"type": "boolean"},
						},
						"required":             []string{"targetName", "damagePercent", "functionalKill", "restrikeNeeded"},
						"additionalProperties": false,
					},
				},
			},
			"required":             []string{"assessments"},
			"additionalProperties": false,
		},
	}
}
