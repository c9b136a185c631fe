package generator

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/application/ingest"
	"github.com/andrescamacho/wargame-go/internal/application/llm"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

// Step names, also the resume-from-step keys.
const (
	StepStrategicContext = "Strategic Context"
	StepCampaignPlan     = "Campaign Plan"
	StepTheaterBases     = "Theater Bases"
	StepORBAT            = "Joint Force ORBAT"
	StepConstellation    = "Space Constellation"
	StepPlanningDocs     = "Planning Documents"
	StepMAAP             = "MAAP"
	StepMSEL             = "MSEL Injects"
	StepDone             = "Done"
)

const eventProgress = "scenario:generation-progress"

// SeedSource marks rows the generator wrote, so regeneration can clear
// exactly its own output.
const SeedSource = "generator"

// ScenarioStore is the scenario access the generator needs.
type ScenarioStore interface {
	FindByID(ctx context.Context, id string) (*scenario.Scenario, error)
	UpdateGeneration(ctx context.Context, id string, status scenario.GenerationStatus, step string, progress int, genError string) error
}

// DocumentStore persists generated documents.
type DocumentStore interface {
	AddStrategyDocument(ctx context.Context, doc *strategy.StrategyDocument) error
	DeleteStrategyDocuments(ctx context.Context, scenarioID string, tiers ...int) error
	FindDeepestStrategyDocument(ctx context.Context, scenarioID string, belowTier int) (*strategy.StrategyDocument, error)
	AddPlanningDocument(ctx context.Context, doc *strategy.PlanningDocument) error
	DeletePlanningDocuments(ctx context.Context, scenarioID string, docTypes ...strategy.PlanningDocType) error
}

// BaseStore persists theater bases.
type BaseStore interface {
	AddBase(ctx context.Context, base *scenario.TheaterBase) error
	FindBases(ctx context.Context, scenarioID string) ([]*scenario.TheaterBase, error)
	DeleteByScenario(ctx context.Context, scenarioID string) error
}

// OrderStore persists the seeded day-one order.
type OrderStore interface {
	AddTree(ctx context.Context, tree *strategy.OrderTree) error
	DeleteBySource(ctx context.Context, scenarioID, source string) error
}

// SpaceStore persists the seeded constellation.
type SpaceStore interface {
	AddAsset(ctx context.Context, asset *space.SpaceAsset) error
	DeleteAssetsByScenario(ctx context.Context, scenarioID string) error
}

// InjectStore persists MSEL injects.
type InjectStore interface {
	AddInject(ctx context.Context, inject *scenario.Inject) error
	DeleteInjectsByScenario(ctx context.Context, scenarioID string) error
}

// EventPublisher delivers progress events to the scenario room.
type EventPublisher interface {
	Publish(scenarioID, event string, payload interface{})
}

// Generator runs the fixed step sequence that populates a new scenario.
// Each step deletes its prior output before writing, so any step can be
// re-run, and generation can resume from a named step.
type Generator struct {
	client    llm.ChatClient
	retrier   *llm.Retrier
	scenarios ScenarioStore
	docs      DocumentStore
	bases     BaseStore
	orders    OrderStore
	assets    SpaceStore
	injects   InjectStore
	publisher EventPublisher
	log       *zap.Logger
}

// NewGenerator wires the scenario generator.
func NewGenerator(client llm.ChatClient, retrier *llm.Retrier, scenarios ScenarioStore, docs DocumentStore, bases BaseStore, orders OrderStore, assets SpaceStore, injects InjectStore, publisher EventPublisher, log *zap.Logger) *Generator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Generator{
		client:    client,
		retrier:   retrier,
		scenarios: scenarios,
		docs:      docs,
		bases:     bases,
		orders:    orders,
		assets:    assets,
		injects:   injects,
		publisher: publisher,
		log:       log,
	}
}

type step struct {
	name     string
	progress int
	run      func(ctx context.Context, scn *scenario.Scenario) error
}

func (g *Generator) steps() []step {
	return []step{
		{StepStrategicContext, 10, g.runStrategicContext},
		{StepCampaignPlan, 25, g.runCampaignPlan},
		{StepTheaterBases, 35, g.runTheaterBases},
		{StepORBAT, 50, g.runORBAT},
		{StepConstellation, 60, g.runConstellation},
		{StepPlanningDocs, 75, g.runPlanningDocs},
		{StepMAAP, 85, g.runMAAP},
		{StepMSEL, 95, g.runMSEL},
		{StepDone, 100, nil},
	}
}

// Generate runs the step sequence for a scenario. An empty fromStep runs
// everything; otherwise execution resumes at the named step. Step failure
// sets FAILED with the error and re-raises; a scenario deleted while
// generating makes Generate return quietly.
func (g *Generator) Generate(ctx context.Context, scenarioID, fromStep string) error {
	scn, err := g.scenarios.FindByID(ctx, scenarioID)
	if err != nil {
		if shared.IsNotFound(err) {
			return nil
		}
		return err
	}

	started := fromStep == ""
	for _, st := range g.steps() {
		if !started {
			if st.name != fromStep {
				continue
			}
			started = true
		}

		if st.run != nil {
			g.log.Info("generation step",
				zap.String("scenario_id", scn.ID),
				zap.String("step", st.name))
			if err := st.run(ctx, scn); err != nil {
				if shared.IsNotFound(err) {
					g.log.Info("scenario deleted during generation", zap.String("scenario_id", scn.ID))
					return nil
				}
				if uerr := g.scenarios.UpdateGeneration(ctx, scn.ID, scenario.GenerationFailed, st.name, st.progress, err.Error()); uerr != nil && !shared.IsNotFound(uerr) {
					g.log.Warn("failed to persist generation failure", zap.Error(uerr))
				}
				g.publisher.Publish(scn.ID, eventProgress, map[string]interface{}{
					"scenarioId": scn.ID,
					"step":       st.name,
					"progress":   st.progress,
					"status":     string(scenario.GenerationFailed),
				})
				return fmt.Errorf("generation step %q failed: %w", st.name, err)
			}
		}

		status := scenario.GenerationRunning
		if st.name == StepDone {
			status = scenario.GenerationComplete
		}
		if err := g.scenarios.UpdateGeneration(ctx, scn.ID, status, st.name, st.progress, ""); err != nil {
			if shared.IsNotFound(err) {
				return nil
			}
			return err
		}
		g.publisher.Publish(scn.ID, eventProgress, map[string]interface{}{
			"scenarioId": scn.ID,
			"step":       st.name,
			"progress":   st.progress,
			"status":     string(status),
		})
	}
	return nil
}

// runStrategicContext authors the national-level strategy tiers.
func (g *Generator) runStrategicContext(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.docs.DeleteStrategyDocuments(ctx, scn.ID, 1, 2, 3); err != nil {
		return err
	}
	return g.writeStrategyTiers(ctx, scn, []strategy.StrategyDocType{strategy.DocNDS, strategy.DocNMS, strategy.DocJSCP})
}

// runCampaignPlan authors the theater campaign tiers.
func (g *Generator) runCampaignPlan(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.docs.DeleteStrategyDocuments(ctx, scn.ID, 4, 5); err != nil {
		return err
	}
	return g.writeStrategyTiers(ctx, scn, []strategy.StrategyDocType{strategy.DocCONPLAN, strategy.DocOPLAN})
}

func (g *Generator) writeStrategyTiers(ctx context.Context, scn *scenario.Scenario, docTypes []strategy.StrategyDocType) error {
	for _, docType := range docTypes {
		tier := strategy.TierFor(docType)
		doc := g.authorStrategyDoc(ctx, scn, docType)

		parent, err := g.docs.FindDeepestStrategyDocument(ctx, scn.ID, tier)
		if err != nil {
			return err
		}
		if parent != nil && doc.ValidateParent(parent) == nil {
			doc.ParentDocID = &parent.ID
		}
		if err := g.docs.AddStrategyDocument(ctx, doc); err != nil {
			return err
		}
	}
	return nil
}

// authorStrategyDoc asks the flagship model for one tier, falling back to
// a deterministic placeholder when output stays unusable.
func (g *Generator) authorStrategyDoc(ctx context.Context, scn *scenario.Scenario, docType strategy.StrategyDocType) *strategy.StrategyDocument {
	prompt := fmt.Sprintf(
		"Write the %s for a wargame scenario. Theater: %s. Adversary: %s. Scenario: %s. %s "+
			"Produce a concise summary and 3-5 ranked priorities.",
		docType, scn.Theater, scn.Adversary, scn.Name, scn.Description)

	res, err := g.retrier.Call(ctx, llm.RetryRequest{
		Model: g.client.ModelFor(llm.TierFlagship),
		Messages: []llm.Message{
			{Role: "system", Content: "You author military strategy documents for exercise scenarios."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       4000,
		Schema:          ingest.StrategySchema(),
		MinOutputLength: 200,
		MaxRetries:      -1,
		ScenarioID:      scn.ID,
		Step:            "generation",
		Artifact:        "strategy:" + string(docType),
	})

	doc := &strategy.StrategyDocument{
		ID:         uuid.NewString(),
		ScenarioID: scn.ID,
		DocType:    docType,
		Tier:       strategy.TierFor(docType),
	}

	var parsed struct {
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
	if err == nil && res.Status == llm.StatusSuccess &&
		json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed) == nil && parsed.Summary != "" {
		doc.Title = parsed.Title
		doc.IssuingAuthority = parsed.IssuingAuthority
		doc.AuthorityLevel = parsed.AuthorityLevel
		doc.Content = parsed.Summary
		for _, p := range parsed.Priorities {
			doc.Priorities = append(doc.Priorities, &strategy.StrategyPriority{
				ID:          uuid.NewString(),
				DocumentID:  doc.ID,
				Rank:        p.Rank,
				Objective:   p.Objective,
				Description: p.Description,
			})
		}
		return doc
	}

	g.log.Warn("strategy authoring fell back to placeholder",
		zap.String("scenario_id", scn.ID),
		zap.String("doc_type", string(docType)))
	fillPlaceholderStrategy(doc, scn)
	return doc
}

func fillPlaceholderStrategy(doc *strategy.StrategyDocument, scn *scenario.Scenario) {
	authorities := map[strategy.StrategyDocType][2]string{
		strategy.DocNDS:     {"Secretary of Defense", "NATIONAL"},
		strategy.DocNMS:     {"Chairman of the Joint Chiefs of Staff", "NATIONAL-MILITARY"},
		strategy.DocJSCP:    {"Chairman of the Joint Chiefs of Staff", "STRATEGIC"},
		strategy.DocCONPLAN: {"Combatant Commander", "COMBATANT-COMMAND"},
		strategy.DocOPLAN:   {"Joint Force Commander", "OPERATIONAL"},
	}
	a := authorities[doc.DocType]
	doc.Title = fmt.Sprintf("%s - %s", doc.DocType, scn.Name)
	doc.IssuingAuthority = a[0]
	doc.AuthorityLevel = a[1]
	doc.Content = fmt.Sprintf(
		"Placeholder %s for the %s theater against %s. Deter aggression, defend allied territory, "+
			"and restore the status quo ante through joint all-domain operations.",
		doc.DocType, scn.Theater, scn.Adversary)
	objectives := []string{
		"Deter further adversary aggression in the theater",
		"Defend allied territory and critical infrastructure",
		"Degrade adversary anti-access and area-denial systems",
	}
	for i, obj := range objectives {
		doc.Priorities = append(doc.Priorities, &strategy.StrategyPriority{
			ID:          uuid.NewString(),
			DocumentID:  doc.ID,
			Rank:        i + 1,
			Objective:   obj,
			Description: obj,
		})
	}
}

// runTheaterBases stamps the base catalog for the scenario's theater.
func (g *Generator) runTheaterBases(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.bases.DeleteByScenario(ctx, scn.ID); err != nil {
		return err
	}
	for _, t := range basesForTheater(scn.Theater) {
		base := &scenario.TheaterBase{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			Name:        t.name,
			ICAO:        t.icao,
			Country:     t.country,
			BaseType:    t.baseType,
			Affiliation: t.affiliation,
			Lat:         t.lat,
			Lon:         t.lon,
		}
		if err := g.bases.AddBase(ctx, base); err != nil {
			return err
		}
	}
	return nil
}

// runORBAT seeds the day-one tasking order from the unit catalog so the
// simulation has flyable missions before the game master's first cycle.
func (g *Generator) runORBAT(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.orders.DeleteBySource(ctx, scn.ID, SeedSource); err != nil {
		return err
	}
	bases, err := g.bases.FindBases(ctx, scn.ID)
	if err != nil {
		return err
	}
	return g.orders.AddTree(ctx, SeedOrderTree(scn, 1, bases, nil, SeedSource))
}

// runConstellation stamps the satellite catalog.
func (g *Generator) runConstellation(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.assets.DeleteAssetsByScenario(ctx, scn.ID); err != nil {
		return err
	}
	for _, t := range constellationCatalog {
		asset := &space.SpaceAsset{
			ID:             uuid.NewString(),
			ScenarioID:     scn.ID,
			Name:           t.name,
			Constellation:  t.constellation,
			Affiliation:    t.affiliation,
			Capabilities:   t.capabilities,
			Status:         space.AssetOperational,
			InclinationDeg: t.inclination,
			PeriodMin:      t.periodMin,
			Eccentricity:   t.eccentricity,
			BaseLon:        t.baseLon,
			SwathWidthKm:   t.swathKm,
		}
		if err := g.assets.AddAsset(ctx, asset); err != nil {
			return err
		}
	}
	return nil
}

// runPlanningDocs authors the JIPTL, SPINS and ACO.
func (g *Generator) runPlanningDocs(ctx context.Context, scn *scenario.Scenario) error {
	types := []strategy.PlanningDocType{strategy.PlanJIPTL, strategy.PlanSPINS, strategy.PlanACO}
	if err := g.docs.DeletePlanningDocuments(ctx, scn.ID, types...); err != nil {
		return err
	}
	for _, docType := range types {
		if err := g.writePlanningDoc(ctx, scn, docType); err != nil {
			return err
		}
	}
	return nil
}

// runMAAP authors the master air attack plan.
func (g *Generator) runMAAP(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.docs.DeletePlanningDocuments(ctx, scn.ID, strategy.PlanMAAP); err != nil {
		return err
	}
	return g.writePlanningDoc(ctx, scn, strategy.PlanMAAP)
}

func (g *Generator) writePlanningDoc(ctx context.Context, scn *scenario.Scenario, docType strategy.PlanningDocType) error {
	doc := g.authorPlanningDoc(ctx, scn, docType)

	parent, err := g.docs.FindDeepestStrategyDocument(ctx, scn.ID, strategy.TierFor(strategy.DocOPLAN)+1)
	if err != nil {
		return err
	}
	if parent != nil {
		doc.StrategyDocID = &parent.ID
		for _, entry := range doc.Priorities {
			if match := strategy.TraceToStrategy(entry, parent.Priorities); match != nil {
				entry.StrategyPriorityID = &match.ID
			}
		}
	}
	return g.docs.AddPlanningDocument(ctx, doc)
}

func (g *Generator) authorPlanningDoc(ctx context.Context, scn *scenario.Scenario, docType strategy.PlanningDocType) *strategy.PlanningDocument {
	prompt := fmt.Sprintf(
		"Write the %s for a wargame scenario. Theater: %s. Adversary: %s. Scenario: %s. "+
			"Produce a concise summary and 3-6 ranked priority entries, each with an effect statement.",
		docType, scn.Theater, scn.Adversary, scn.Name)

	res, err := g.retrier.Call(ctx, llm.RetryRequest{
		Model: g.client.ModelFor(llm.TierFlagship),
		Messages: []llm.Message{
			{Role: "system", Content: "You author operational planning documents for exercise scenarios."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       4000,
		Schema:          ingest.PlanningSchema(),
		MinOutputLength: 200,
		MaxRetries:      -1,
		ScenarioID:      scn.ID,
		Step:            "generation",
		Artifact:        "planning:" + string(docType),
	})

	doc := &strategy.PlanningDocument{
		ID:         uuid.NewString(),
		ScenarioID: scn.ID,
		DocType:    docType,
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
	if err == nil && res.Status == llm.StatusSuccess &&
		json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed) == nil && parsed.Summary != "" {
		doc.Title = parsed.Title
		doc.IssuingAuthority = parsed.IssuingAuthority
		doc.Content = parsed.Summary
		for _, p := range parsed.Priorities {
			doc.Priorities = append(doc.Priorities, &strategy.PriorityEntry{
				ID:          uuid.NewString(),
				DocumentID:  doc.ID,
				Rank:        p.Rank,
				Effect:      p.Effect,
				Description: p.Description,
			})
		}
		return doc
	}

	g.log.Warn("planning authoring fell back to placeholder",
		zap.String("scenario_id", scn.ID),
		zap.String("doc_type", string(docType)))
	doc.Title = fmt.Sprintf("%s - %s", docType, scn.Name)
	doc.IssuingAuthority = "Joint Force Air Component Commander"
	doc.Content = fmt.Sprintf("Placeholder %s for the %s theater against %s.", docType, scn.Theater, scn.Adversary)
	effects := []string{
		"Neutralize adversary integrated air defenses",
		"Deny adversary long-range strike capability",
		"Maintain persistent surveillance of the objective area",
	}
	for i, effect := range effects {
		doc.Priorities = append(doc.Priorities, &strategy.PriorityEntry{
			ID:          uuid.NewString(),
			DocumentID:  doc.ID,
			Rank:        i + 1,
			Effect:      effect,
			Description: effect,
		})
	}
	return doc
}

// runMSEL authors the exercise event list and schedules its injects.
func (g *Generator) runMSEL(ctx context.Context, scn *scenario.Scenario) error {
	if err := g.injects.DeleteInjectsByScenario(ctx, scn.ID); err != nil {
		return err
	}
	if err := g.docs.DeletePlanningDocuments(ctx, scn.ID, strategy.PlanMSEL); err != nil {
		return err
	}

	doc := &strategy.PlanningDocument{
		ID:         uuid.NewString(),
		ScenarioID: scn.ID,
		DocType:    strategy.PlanMSEL,
		Title:      fmt.Sprintf("MSEL - %s", scn.Name),
	}
	if err := g.docs.AddPlanningDocument(ctx, doc); err != nil {
		return err
	}

	for _, inj := range g.authorInjects(ctx, scn) {
		if err := g.injects.AddInject(ctx, inj); err != nil {
			return err
		}
	}
	return nil
}

func (g *Generator) authorInjects(ctx context.Context, scn *scenario.Scenario) []*scenario.Inject {
	prompt := fmt.Sprintf(
		"Write a master scenario events list for a %d-day wargame. Theater: %s. Adversary: %s. "+
			"Scenario starts %s. Produce 5-8 injects spread across the exercise with DTGs in DDHHMMZ MON YY form, "+
			"mixing SPACE, FRICTION, INTEL and CRISIS events.",
		scn.DurationDays(), scn.Theater, scn.Adversary, scn.StartDate.UTC().Format("2 January 2006"))

	res, err := g.retrier.Call(ctx, llm.RetryRequest{
		Model: g.client.ModelFor(llm.TierMidRange),
		Messages: []llm.Message{
			{Role: "system", Content: "You author exercise control injects for military wargames."},
			{Role: "user", Content: prompt},
		},
		MaxTokens:       4000,
		Schema:          ingest.EventListSchema(),
		MinOutputLength: 200,
		MaxRetries:      -1,
		ScenarioID:      scn.ID,
		Step:            "generation",
		Artifact:        "msel",
	})

	var parsed struct {
		Injects []struct {
			DTG         string `json:"dtg"`
			InjectType  string `json:"injectType"`
			Title       string `json:"title"`
			Description string `json:"description"`
			Impact      string `json:"impact"`
		} `json:"injects"`
	}
	if err == nil && res.Status == llm.StatusSuccess &&
		json.Unmarshal([]byte(llm.StripFences(res.Content)), &parsed) == nil && len(parsed.Injects) > 0 {
		injects := make([]*scenario.Inject, 0, len(parsed.Injects))
		for _, in := range parsed.Injects {
			day, hour, derr := ingest.DTGToTrigger(in.DTG, scn.StartDate)
			if derr != nil {
				day, hour = 1, 0
			}
			injects = append(injects, &scenario.Inject{
				ID:          uuid.NewString(),
				ScenarioID:  scn.ID,
				TriggerDay:  day,
				TriggerHour: hour,
				InjectType:  scenario.InjectType(in.InjectType),
				Title:       in.Title,
				Description: in.Description,
				Impact:      in.Impact,
			})
		}
		return injects
	}

	g.log.Warn("msel authoring fell back to catalog injects", zap.String("scenario_id", scn.ID))
	return placeholderInjects(scn)
}

func placeholderInjects(scn *scenario.Scenario) []*scenario.Inject {
	seeds := []struct {
		day, hour   int
		injectType  scenario.InjectType
		title       string
		description string
		impact      string
	}{
		{2, 6, scenario.InjectSpace, "GPS jamming over the objective area",
			"Adversary ground jammers active against GPS signals near the forward edge.",
			"Degraded PNT accuracy for strike packages."},
		{2, 14, scenario.InjectFriction, "Weather divert at forward base",
			"Severe crosswinds close the primary runway for six hours.",
			"Tanker and ISR sortie delays."},
		{3, 8, scenario.InjectIntel, "Adversary SAM relocation detected",
			"Overnight imagery shows a long-range SAM battalion displacing north.",
			"Re-validate strike corridors before the next push."},
		{4, 12, scenario.InjectCrisis, "Adversary missile test announcement",
			"Adversary declares a live-fire closure area straddling the strait.",
			"Political pressure to reroute maritime traffic."},
		{5, 3, scenario.InjectSpace, "SATCOM uplink interference",
			"Wideband SATCOM channels show persistent uplink interference.",
			"Fall back to protected SATCOM for priority traffic."},
	}
	injects := make([]*scenario.Inject, 0, len(seeds))
	for _, s := range seeds {
		injects = append(injects, &scenario.Inject{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			TriggerDay:  s.day,
			TriggerHour: s.hour,
			InjectType:  s.injectType,
			Title:       s.title,
			Description: s.description,
			Impact:      s.impact,
		})
	}
	return injects
}
