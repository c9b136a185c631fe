package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/adapters/metrics"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
	"github.com/andrescamacho/wargame-go/internal/domain/strategy"
)

const (
	eventTick             = "simulation:tick"
	eventMissionStatus    = "mission:status"
	eventPositionUpdate   = "position:update"
	eventSpaceCoverage    = "space:coverage"
	eventGapDetected      = "gap:detected"
	eventGapResolved      = "gap:resolved"
	eventDecisionRequired = "decision:required"
	eventInjectFired      = "inject:fired"
)

// Tick runs one engine iteration against the loaded simulation. The loop
// goroutine drives this on the tick interval; tests call it directly.
func (c *Controller) Tick(ctx context.Context) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	c.tick(ctx, gen)
}

// tick advances the sim clock one interval, runs the day-boundary cycle
// when the ATO day rolls over, then the per-tick substeps in order:
// persist and broadcast the clock, advance missions, fire due injects.
// Substep errors are logged and swallowed so one bad row never stalls
// the clock; a vanished scenario aborts the whole simulation.
func (c *Controller) tick(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if c.sim == nil || c.generation != gen || c.sim.Status != scenario.SimRunning || c.isGenerating {
		c.mu.Unlock()
		return
	}
	scn := c.scn
	c.sim.AdvanceSimTime(c.opts.TickInterval)
	ended := false
	if c.sim.SimTime.After(scn.EndDate) {
		c.sim.SimTime = scn.EndDate
		c.sim.Status = scenario.SimPaused
		ended = true
	}
	c.sim.CurrentATODay = scn.ATODayFor(c.sim.SimTime)
	state := *c.sim
	boundary := c.gm != nil && !ended && state.CurrentATODay > c.lastATODayGenerated
	if boundary {
		c.isGenerating = true
	}
	c.mu.Unlock()

	if boundary {
		// The clock is logically paused while the game master works;
		// concurrent ticks short-circuit on isGenerating.
		c.runDayBoundary(ctx, scn, state.CurrentATODay)
		c.mu.Lock()
		c.isGenerating = false
		c.mu.Unlock()
		if !c.alive(gen) {
			return
		}
	}

	if err := c.sims.Save(ctx, &state); err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
			return
		}
		c.log.Warn("failed to persist simulation state", zap.Error(err))
	}

	c.publisher.Publish(scn.ID, eventTick, map[string]interface{}{
		"simTime":  state.SimTime.UTC().Format(time.RFC3339),
		"realTime": c.clock.Now().UTC().Format(time.RFC3339),
		"ratio":    state.CompressionRatio,
		"atoDay":   state.CurrentATODay,
	})
	metrics.RecordTick(scn.ID)

	if ended {
		c.log.Info("simulation reached scenario end, pausing",
			zap.String("scenario_id", scn.ID))
		return
	}
	if !c.alive(gen) {
		return
	}
	c.advanceMissions(ctx, gen, scn, state.SimTime)
	if !c.alive(gen) {
		return
	}
	c.fireInjects(ctx, gen, scn, state.CurrentATODay, state.SimTime)
}

// runDayBoundary closes out the prior ATO day and opens the new one:
// BDA for day n-1 (best effort), then the day-n order, then the space
// allocation pass over the new day's needs.
func (c *Controller) runDayBoundary(ctx context.Context, scn *scenario.Scenario, day int) {
	c.mu.Lock()
	lastBDA := c.lastBDADay
	c.mu.Unlock()

	if prior := day - 1; prior >= 1 && lastBDA < prior {
		if err := c.gm.AssessBDA(ctx, scn.ID, prior); err != nil {
			c.log.Warn("battle damage assessment failed",
				zap.Int("ato_day", prior), zap.Error(err))
		}
		c.mu.Lock()
		c.lastBDADay = prior
		c.mu.Unlock()
	}

	if err := c.gm.GenerateATO(ctx, scn.ID, day); err != nil {
		c.log.Error("tasking order generation failed",
			zap.Int("ato_day", day), zap.Error(err))
	}

	c.allocateDay(ctx, scn, day)

	c.mu.Lock()
	c.lastATODayGenerated = day
	c.mu.Unlock()
}

// allocateDay resolves the new day's space needs against the operational
// constellation. Package effects are traced to OPLAN priorities so the
// allocator can rank competitors by strategy.
func (c *Controller) allocateDay(ctx context.Context, scn *scenario.Scenario, day int) {
	trees, err := c.orders.FindByDay(ctx, scn.ID, day)
	if err != nil {
		c.log.Warn("failed to load orders for allocation", zap.Int("ato_day", day), zap.Error(err))
		return
	}
	if len(trees) == 0 {
		return
	}

	var priorities []*strategy.StrategyPriority
	if oplan, err := c.docs.FindDeepestStrategyDocument(ctx, scn.ID, strategy.TierFor(strategy.DocOPLAN)+1); err == nil && oplan != nil {
		priorities = oplan.Priorities
	}

	var needs []*space.AnnotatedNeed
	for _, tree := range trees {
		for _, pkg := range tree.Packages {
			rank := space.UntracedStrategyRank
			if len(priorities) > 0 {
				probe := &strategy.PriorityEntry{
					Effect:      pkg.Package.EffectDesired,
					Description: pkg.Package.EffectDesired,
				}
				if match := strategy.TraceToStrategy(probe, priorities); match != nil {
					rank = match.Rank
				}
			}
			for _, mt := range pkg.Missions {
				for _, need := range mt.SpaceNeeds {
					needs = append(needs, &space.AnnotatedNeed{
						SpaceNeed:       need,
						PackagePriority: pkg.Package.PriorityRank,
						StrategyRank:    rank,
					})
				}
			}
		}
	}
	if len(needs) == 0 {
		return
	}

	assets, err := c.spaces.FindOperationalAssets(ctx, scn.ID)
	if err != nil {
		c.log.Warn("failed to load assets for allocation", zap.Error(err))
		return
	}
	windows, err := c.spaces.FindCoverageWindows(ctx, scn.ID)
	if err != nil {
		c.log.Warn("failed to load coverage windows for allocation", zap.Error(err))
		return
	}

	report := space.Allocate(needs, assets, windows)

	var fulfilled []string
	for _, alloc := range report.Allocations {
		if alloc.Status == space.AllocationFulfilled {
			fulfilled = append(fulfilled, alloc.NeedID)
		}
	}
	if len(fulfilled) > 0 {
		if err := c.spaces.MarkNeedsFulfilled(ctx, fulfilled); err != nil {
			c.log.Warn("failed to mark allocated needs fulfilled", zap.Error(err))
		}
	}

	c.log.Info("space allocation complete",
		zap.Int("ato_day", day),
		zap.Int("needs", report.Summary.TotalNeeds),
		zap.Int("fulfilled", report.Summary.Fulfilled),
		zap.Int("degraded", report.Summary.Degraded),
		zap.Int("denied", report.Summary.Denied),
		zap.String("risk", string(report.Summary.RiskLevel)))
}

// advanceMissions walks every non-terminal mission through at most one
// state transition. Entering EGRESSING records a BDA fact for the day
// boundary to assess.
func (c *Controller) advanceMissions(ctx context.Context, gen uint64, scn *scenario.Scenario, simTime time.Time) {
	missions, err := c.missions.FindNonTerminal(ctx, scn.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
			return
		}
		c.log.Warn("failed to load missions", zap.Error(err))
		return
	}

	for _, m := range missions {
		if !m.Advance(simTime) {
			continue
		}
		if err := c.missions.UpdateStatus(ctx, m.ID, m.Status); err != nil {
			if shared.IsNotFound(err) {
				c.abort(gen)
				return
			}
			c.log.Warn("failed to persist mission status",
				zap.String("mission_id", m.ID), zap.Error(err))
			continue
		}
		c.publisher.Publish(scn.ID, eventMissionStatus, map[string]interface{}{
			"missionId":   m.ID,
			"missionCode": m.MissionID,
			"callsign":    m.Callsign,
			"status":      string(m.Status),
			"timestamp":   simTime.UTC().Format(time.RFC3339),
		})
		if m.Status == mission.StatusEgressing {
			c.recordBDA(ctx, scn, m, simTime)
		}
	}
}

func (c *Controller) recordBDA(ctx context.Context, scn *scenario.Scenario, m *mission.Mission, simTime time.Time) {
	names := make([]string, 0, len(m.Targets))
	for _, t := range m.Targets {
		names = append(names, t.TargetName)
	}
	payload, _ := json.Marshal(map[string]interface{}{
		"missionCode": m.MissionID,
		"callsign":    m.Callsign,
		"targets":     names,
	})
	ev := &scenario.SimEvent{
		ID:          uuid.NewString(),
		ScenarioID:  scn.ID,
		EventType:   scenario.EventBDARecorded,
		EventTime:   simTime,
		Title:       "BDA recorded for " + m.Callsign,
		Description: fmt.Sprintf("%s off target, %d target(s) struck", m.Callsign, len(names)),
		SubjectID:   m.ID,
		Payload:     string(payload),
	}
	if err := c.events.AddEvent(ctx, ev); err != nil {
		c.log.Warn("failed to record BDA event",
			zap.String("mission_id", m.ID), zap.Error(err))
	}
}

// fireInjects fires every due MSEL inject and applies its world effect.
func (c *Controller) fireInjects(ctx context.Context, gen uint64, scn *scenario.Scenario, atoDay int, simTime time.Time) {
	injects, err := c.events.FindUnfiredInjects(ctx, scn.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
			return
		}
		c.log.Warn("failed to load injects", zap.Error(err))
		return
	}

	for _, inj := range injects {
		if !inj.ShouldFire(atoDay, simTime.UTC().Hour()) {
			continue
		}
		if err := c.events.MarkInjectFired(ctx, inj.ID, simTime); err != nil {
			if shared.IsNotFound(err) {
				c.abort(gen)
				return
			}
			c.log.Warn("failed to mark inject fired",
				zap.String("inject_id", inj.ID), zap.Error(err))
			continue
		}

		c.applyInject(ctx, scn, inj, simTime)

		c.publisher.Publish(scn.ID, eventInjectFired, map[string]interface{}{
			"injectId":    inj.ID,
			"injectType":  string(inj.InjectType),
			"title":       inj.Title,
			"description": inj.Description,
			"impact":      inj.Impact,
			"triggerDay":  inj.TriggerDay,
			"triggerHour": inj.TriggerHour,
			"firedAt":     simTime.UTC().Format(time.RFC3339),
		})
		c.log.Info("inject fired",
			zap.String("inject_id", inj.ID),
			zap.String("type", string(inj.InjectType)),
			zap.String("title", inj.Title))

		if !c.alive(gen) {
			return
		}
	}
}

// applyInject translates an inject type into a world effect. SPACE
// injects degrade a random operational asset, FRICTION injects delay a
// random active mission, everything else lands as an informational event.
func (c *Controller) applyInject(ctx context.Context, scn *scenario.Scenario, inj *scenario.Inject, simTime time.Time) {
	switch inj.InjectType {
	case scenario.InjectSpace:
		c.degradeRandomAsset(ctx, scn, inj, simTime)
	case scenario.InjectFriction:
		c.delayRandomMission(ctx, scn, inj, simTime)
	default:
		c.appendEvent(ctx, &scenario.SimEvent{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			EventType:   scenario.EventInjectFired,
			EventTime:   simTime,
			Title:       inj.Title,
			Description: inj.Description,
			SubjectID:   inj.ID,
		})
	}
}

func (c *Controller) degradeRandomAsset(ctx context.Context, scn *scenario.Scenario, inj *scenario.Inject, simTime time.Time) {
	assets, err := c.spaces.FindOperationalAssets(ctx, scn.ID)
	if err != nil || len(assets) == 0 {
		c.appendEvent(ctx, &scenario.SimEvent{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			EventType:   scenario.EventInjectFired,
			EventTime:   simTime,
			Title:       inj.Title,
			Description: inj.Description,
			SubjectID:   inj.ID,
		})
		return
	}

	asset := assets[c.rand.Intn(len(assets))]
	if err := c.spaces.UpdateAssetStatus(ctx, asset.ID, space.AssetDegraded); err != nil {
		c.log.Warn("failed to degrade asset",
			zap.String("asset_id", asset.ID), zap.Error(err))
		return
	}
	c.appendEvent(ctx, &scenario.SimEvent{
		ID:          uuid.NewString(),
		ScenarioID:  scn.ID,
		EventType:   scenario.EventSatelliteJammed,
		EventTime:   simTime,
		Title:       inj.Title,
		Description: fmt.Sprintf("%s degraded: %s", asset.Name, inj.Description),
		SubjectID:   asset.ID,
	})
	c.log.Info("inject degraded asset",
		zap.String("asset", asset.Name), zap.String("inject_id", inj.ID))
}

func (c *Controller) delayRandomMission(ctx context.Context, scn *scenario.Scenario, inj *scenario.Inject, simTime time.Time) {
	active, err := c.missions.FindActive(ctx, scn.ID)
	if err != nil || len(active) == 0 {
		c.appendEvent(ctx, &scenario.SimEvent{
			ID:          uuid.NewString(),
			ScenarioID:  scn.ID,
			EventType:   scenario.EventInjectFired,
			EventTime:   simTime,
			Title:       inj.Title,
			Description: inj.Description,
			SubjectID:   inj.ID,
		})
		return
	}

	m := active[c.rand.Intn(len(active))]
	if err := m.TransitionTo(mission.StatusDelayed); err != nil {
		return
	}
	if err := c.missions.UpdateStatus(ctx, m.ID, m.Status); err != nil {
		c.log.Warn("failed to delay mission",
			zap.String("mission_id", m.ID), zap.Error(err))
		return
	}
	c.publisher.Publish(scn.ID, eventMissionStatus, map[string]interface{}{
		"missionId":   m.ID,
		"missionCode": m.MissionID,
		"callsign":    m.Callsign,
		"status":      string(m.Status),
		"timestamp":   simTime.UTC().Format(time.RFC3339),
	})
	c.appendEvent(ctx, &scenario.SimEvent{
		ID:          uuid.NewString(),
		ScenarioID:  scn.ID,
		EventType:   scenario.EventMissionDelayed,
		EventTime:   simTime,
		Title:       inj.Title,
		Description: fmt.Sprintf("%s delayed: %s", m.Callsign, inj.Description),
		SubjectID:   m.ID,
	})
	c.log.Info("inject delayed mission",
		zap.String("callsign", m.Callsign), zap.String("inject_id", inj.ID))
}

func (c *Controller) appendEvent(ctx context.Context, ev *scenario.SimEvent) {
	if err := c.events.AddEvent(ctx, ev); err != nil {
		c.log.Warn("failed to append simulation event",
			zap.String("event_type", string(ev.EventType)), zap.Error(err))
	}
}
