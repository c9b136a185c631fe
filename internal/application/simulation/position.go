package simulation

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/shared"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

// PositionTick runs one position-loop iteration against the loaded
// simulation. The loop goroutine drives this on the position interval;
// tests call it directly.
func (c *Controller) PositionTick(ctx context.Context) {
	c.mu.Lock()
	gen := c.generation
	c.mu.Unlock()
	c.positionTick(ctx, gen)
}

// positionTick broadcasts interpolated positions for active missions and
// propagated positions for operational assets. Every CoverageEvery-th
// iteration it also rebuilds the coverage picture.
func (c *Controller) positionTick(ctx context.Context, gen uint64) {
	c.mu.Lock()
	if c.sim == nil || c.generation != gen || c.sim.Status != scenario.SimRunning || c.isGenerating {
		c.mu.Unlock()
		return
	}
	scn := c.scn
	state := *c.sim
	c.posIterations++
	iteration := c.posIterations
	c.mu.Unlock()

	simTime := state.SimTime
	stamp := simTime.UTC().Format(time.RFC3339)

	active, err := c.missions.FindActive(ctx, scn.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
		}
		return
	}
	for _, m := range active {
		pos := c.interp.PositionAt(m, simTime)
		if pos == nil {
			continue
		}
		payload := map[string]interface{}{
			"missionId": m.ID,
			"callsign":  m.Callsign,
			"domain":    string(m.Domain),
			"lat":       pos.Lat,
			"lon":       pos.Lon,
			"heading":   pos.HeadingDeg,
			"speedKts":  pos.SpeedKts,
			"status":    string(m.Status),
			"timestamp": stamp,
		}
		if pos.AltitudeFt != nil {
			payload["altitudeFt"] = *pos.AltitudeFt
		}
		c.publisher.Publish(scn.ID, eventPositionUpdate, payload)
	}

	if !c.alive(gen) {
		return
	}

	assets, err := c.spaces.FindOperationalAssets(ctx, scn.ID)
	if err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
		}
		return
	}
	for _, a := range assets {
		sp := c.propagator.PositionAt(a, simTime)
		if sp == nil {
			continue
		}
		c.publisher.Publish(scn.ID, eventPositionUpdate, map[string]interface{}{
			"missionId":  a.ID,
			"callsign":   a.Name,
			"domain":     "SPACE",
			"lat":        sp.Lat,
			"lon":        sp.Lon,
			"altitudeKm": sp.AltKm,
			"status":     string(a.Status),
			"timestamp":  stamp,
		})
	}

	if !c.alive(gen) {
		return
	}
	if iteration%c.opts.CoverageEvery == 0 {
		c.coverageCycle(ctx, gen, scn, &state, assets)
	}
}

// coverageCycle rebuilds the instantaneous coverage picture for needs
// whose windows bracket the current sim time. Each check-in becomes a
// window lasting one coverage cycle of simulated time, so fulfillment
// ratios accumulate across cycles. Gap transitions are diffed against the
// previous cycle; a serious new gap raises a decision event.
func (c *Controller) coverageCycle(ctx context.Context, gen uint64, scn *scenario.Scenario, state *scenario.SimulationState, assets []*space.SpaceAsset) {
	simTime := state.SimTime

	needs, err := c.spaces.FindNeedsInWindow(ctx, scn.ID, simTime, simTime)
	if err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
		}
		return
	}

	simWindow := time.Duration(float64(c.opts.PositionInterval) *
		float64(c.opts.CoverageEvery) * state.CompressionRatio)

	type covKey struct {
		assetID    string
		capability space.CapabilityType
		lat, lon   float64
	}
	seen := make(map[covKey]bool)
	var windows []*space.CoverageWindow

	for _, asset := range assets {
		sp := c.propagator.PositionAt(asset, simTime)
		if sp == nil {
			continue
		}
		for _, need := range needs {
			if !need.HasCoveragePoint() || !asset.Provides(need.CapabilityType) {
				continue
			}
			check := space.CheckCoverage(sp, *need.CoverageLat, *need.CoverageLon, need.CapabilityType)
			if !check.InCoverage {
				continue
			}
			key := covKey{asset.ID, need.CapabilityType, *need.CoverageLat, *need.CoverageLon}
			if seen[key] {
				continue
			}
			seen[key] = true
			windows = append(windows, &space.CoverageWindow{
				ID:              uuid.NewString(),
				ScenarioID:      scn.ID,
				AssetID:         asset.ID,
				AssetName:       asset.Name,
				Capability:      need.CapabilityType,
				StartTime:       simTime,
				EndTime:         simTime.Add(simWindow),
				MaxElevationDeg: check.ElevationDeg,
				MaxElevationAt:  simTime,
				CenterLat:       *need.CoverageLat,
				CenterLon:       *need.CoverageLon,
				SwathWidthKm:    asset.SwathWidthKm,
			})
		}
	}

	if err := c.spaces.ReplaceCoverageWindows(ctx, scn.ID, windows); err != nil {
		if shared.IsNotFound(err) {
			c.abort(gen)
			return
		}
		c.log.Warn("failed to replace coverage windows", zap.Error(err))
		return
	}

	fulfilled := space.CheckFulfillment(needs, windows, c.opts.FulfillmentThreshold)
	if len(fulfilled) > 0 {
		if err := c.spaces.MarkNeedsFulfilled(ctx, fulfilled); err != nil {
			c.log.Warn("failed to mark needs fulfilled", zap.Error(err))
		}
		done := make(map[string]bool, len(fulfilled))
		for _, id := range fulfilled {
			done[id] = true
		}
		for _, need := range needs {
			if done[need.ID] {
				need.Fulfilled = true
			}
		}
	}

	gaps := space.DetectGaps(needs, windows)
	// DetectGaps sorts most severe first, so the first gap per need wins.
	current := make(map[string]*space.CoverageGap, len(gaps))
	for _, g := range gaps {
		if _, ok := current[g.NeedID]; !ok {
			current[g.NeedID] = g
		}
	}

	c.mu.Lock()
	if c.sim == nil || c.generation != gen {
		c.mu.Unlock()
		return
	}
	prev := c.prevGaps
	c.prevGaps = current
	c.mu.Unlock()

	for needID, g := range current {
		if _, known := prev[needID]; known {
			continue
		}
		c.publisher.Publish(scn.ID, eventGapDetected, gapPayload(g))
		if g.Severity == space.GapCritical || g.Severity == space.GapDegraded {
			c.raiseDecision(ctx, scn, g, simTime)
		}
	}
	for needID, g := range prev {
		if _, still := current[needID]; still {
			continue
		}
		c.publisher.Publish(scn.ID, eventGapResolved, gapPayload(g))
	}

	summaries := make([]map[string]interface{}, 0, len(windows))
	for _, w := range windows {
		summaries = append(summaries, map[string]interface{}{
			"assetId":      w.AssetID,
			"assetName":    w.AssetName,
			"capability":   string(w.Capability),
			"start":        w.StartTime.UTC().Format(time.RFC3339),
			"end":          w.EndTime.UTC().Format(time.RFC3339),
			"maxElevation": w.MaxElevationDeg,
			"centerLat":    w.CenterLat,
			"centerLon":    w.CenterLon,
		})
	}
	c.publisher.Publish(scn.ID, eventSpaceCoverage, map[string]interface{}{
		"timestamp": simTime.UTC().Format(time.RFC3339),
		"windows":   summaries,
		"gaps":      len(current),
	})
}

func gapPayload(g *space.CoverageGap) map[string]interface{} {
	return map[string]interface{}{
		"needId":     g.NeedID,
		"missionId":  g.MissionID,
		"capability": string(g.Capability),
		"severity":   string(g.Severity),
		"gapStart":   g.StartTime.UTC().Format(time.RFC3339),
		"gapEnd":     g.EndTime.UTC().Format(time.RFC3339),
		"total":      g.Total,
	}
}

// decisionOptions are the fixed choices offered when a serious coverage
// gap opens.
var decisionOptions = []map[string]string{
	{"id": "RETASK", "label": "Retask another asset to cover the gap"},
	{"id": "ACCEPT_RISK", "label": "Accept risk and continue as planned"},
	{"id": "SHIFT_WINDOW", "label": "Shift the mission window to the next coverage pass"},
	{"id": "COMMERCIAL_AUG", "label": "Request commercial augmentation"},
}

// raiseDecision records a DECISION_REQUIRED event for a serious gap and
// pushes it to the room with the standard option set.
func (c *Controller) raiseDecision(ctx context.Context, scn *scenario.Scenario, g *space.CoverageGap, simTime time.Time) {
	detail := map[string]interface{}{
		"needId":     g.NeedID,
		"missionId":  g.MissionID,
		"capability": string(g.Capability),
		"severity":   string(g.Severity),
		"gapStart":   g.StartTime.UTC().Format(time.RFC3339),
		"gapEnd":     g.EndTime.UTC().Format(time.RFC3339),
		"options":    decisionOptions,
	}
	payload, _ := json.Marshal(detail)

	ev := &scenario.SimEvent{
		ID:          uuid.NewString(),
		ScenarioID:  scn.ID,
		EventType:   scenario.EventDecisionRequired,
		EventTime:   simTime,
		Title:       fmt.Sprintf("%s coverage gap", g.Capability),
		Description: fmt.Sprintf("%s coverage gap affecting mission %s", g.Severity, g.MissionID),
		SubjectID:   g.MissionID,
		Payload:     string(payload),
	}
	if err := c.events.AddEvent(ctx, ev); err != nil {
		c.log.Warn("failed to record decision event", zap.Error(err))
		return
	}

	detail["decisionId"] = ev.ID
	c.publisher.Publish(scn.ID, eventDecisionRequired, detail)
}
