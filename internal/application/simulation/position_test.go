package simulation_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/application/simulation"
	"github.com/andrescamacho/wargame-go/internal/domain/mission"
	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

func latPtr(f float64) *float64 { return &f }

func geoAsset(id, name string, caps ...space.CapabilityType) *space.SpaceAsset {
	return &space.SpaceAsset{
		ID:           id,
		ScenarioID:   "scn-1",
		Name:         name,
		Capabilities: caps,
		Status:       space.AssetOperational,
		PeriodMin:    1436,
		BaseLon:      121,
	}
}

func TestPositionTick_BroadcastsMissionAndAssetPositions(t *testing.T) {
	f := newEngineFixture(t, simulation.Options{CompressionRatio: 1, CoverageEvery: 100})

	tot := f.scn.StartDate.Add(6 * time.Hour)
	f.missions.active = []*mission.Mission{
		{
			ID:       "m-1",
			Callsign: "VIPER 11",
			Domain:   mission.DomainAir,
			Status:   mission.StatusAirborne,
			Waypoints: []*mission.Waypoint{
				{Sequence: 1, Lat: 24, Lon: 120},
				{Sequence: 2, Lat: 25, Lon: 122},
			},
			TimeWindows: []*mission.TimeWindow{
				{WindowType: mission.WindowTOT, StartTime: tot, EndTime: tot.Add(time.Hour)},
			},
		},
	}
	f.spaces.assets = []*space.SpaceAsset{geoAsset("sat-1", "WGS-9", space.CapabilitySATCOMWideband)}

	_, err := f.controller.Start(context.Background(), "scn-1")
	require.NoError(t, err)

	f.controller.PositionTick(context.Background())

	updates := f.publisher.byName("position:update")
	require.Len(t, updates, 2)

	first := updates[0].payload.(map[string]interface{})
	assert.Equal(t, "m-1", first["missionId"])
	assert.Equal(t, "AIR", first["domain"])

	second := updates[1].payload.(map[string]interface{})
	assert.Equal(t, "sat-1", second["missionId"])
	assert.Equal(t, "SPACE", second["domain"])
	assert.InDelta(t, 121.0, second["lon"].(float64), 0.01)
}

func TestPositionTick_CoverageCycleBuildsWindowsAndFulfills(t *testing.T) {
	f := newEngineFixture(t, simulation.Options{
		CompressionRatio: 720,
		PositionInterval: 2 * time.Hour,
		CoverageEvery:    1,
	})

	f.spaces.assets = []*space.SpaceAsset{geoAsset("sat-1", "WGS-9", space.CapabilitySATCOMWideband)}
	f.spaces.needs = []*space.SpaceNeed{
		{
			ID:             "need-1",
			MissionID:      "m-1",
			CapabilityType: space.CapabilitySATCOMWideband,
			Priority:       1,
			StartTime:      f.scn.StartDate,
			EndTime:        f.scn.StartDate.Add(time.Hour),
			CoverageLat:    latPtr(25.0),
			CoverageLon:    latPtr(121.0),
		},
	}

	_, err := f.controller.Start(context.Background(), "scn-1")
	require.NoError(t, err)

	f.controller.PositionTick(context.Background())

	require.Equal(t, 1, f.spaces.replaceHits)
	require.Len(t, f.spaces.replaced, 1)
	w := f.spaces.replaced[0]
	assert.Equal(t, "sat-1", w.AssetID)
	assert.Equal(t, space.CapabilitySATCOMWideband, w.Capability)
	// One coverage cycle of sim time: 2h real * 1 * 720.
	assert.Equal(t, 60*24*time.Hour, w.EndTime.Sub(w.StartTime))

	// The single instantaneous window spans the whole need, so the need
	// fulfills and no gap is raised.
	assert.Equal(t, []string{"need-1"}, f.spaces.marked)
	assert.Empty(t, f.publisher.byName("gap:detected"))
	require.NotEmpty(t, f.publisher.byName("space:coverage"))
}

func TestPositionTick_GapDetectionRaisesDecision(t *testing.T) {
	f := newEngineFixture(t, simulation.Options{
		CompressionRatio: 720,
		CoverageEvery:    1,
	})

	// OPIR need with no asset that can serve it: total gap, priority 1.
	f.spaces.assets = []*space.SpaceAsset{geoAsset("sat-1", "WGS-9", space.CapabilitySATCOMWideband)}
	f.spaces.needs = []*space.SpaceNeed{
		{
			ID:             "need-1",
			MissionID:      "m-1",
			CapabilityType: space.CapabilityOPIR,
			Priority:       1,
			StartTime:      f.scn.StartDate,
			EndTime:        f.scn.StartDate.Add(4 * time.Hour),
			CoverageLat:    latPtr(25.0),
			CoverageLon:    latPtr(121.0),
		},
	}

	_, err := f.controller.Start(context.Background(), "scn-1")
	require.NoError(t, err)

	f.controller.PositionTick(context.Background())

	detected := f.publisher.byName("gap:detected")
	require.Len(t, detected, 1)
	payload := detected[0].payload.(map[string]interface{})
	assert.Equal(t, "CRITICAL", payload["severity"])
	assert.Equal(t, true, payload["total"])

	decisions := f.publisher.byName("decision:required")
	require.Len(t, decisions, 1)
	decision := decisions[0].payload.(map[string]interface{})
	assert.NotEmpty(t, decision["decisionId"])
	options := decision["options"].([]map[string]string)
	assert.Len(t, options, 4)

	var persisted *scenario.SimEvent
	for _, ev := range f.events.added {
		if ev.EventType == scenario.EventDecisionRequired {
			persisted = ev
		}
	}
	require.NotNil(t, persisted)
	assert.Contains(t, persisted.Payload, "RETASK")

	// Second cycle: the gap is already known, no duplicate events.
	f.controller.PositionTick(context.Background())
	assert.Len(t, f.publisher.byName("gap:detected"), 1)
	assert.Len(t, f.publisher.byName("decision:required"), 1)

	// Need fulfilled out of band: the gap resolves on the next cycle.
	f.spaces.needs[0].Fulfilled = true
	f.controller.PositionTick(context.Background())
	assert.Len(t, f.publisher.byName("gap:resolved"), 1)
}

func TestPositionTick_CoverageOnlyEveryNthIteration(t *testing.T) {
	f := newEngineFixture(t, simulation.Options{
		CompressionRatio: 720,
		CoverageEvery:    3,
	})

	f.spaces.assets = []*space.SpaceAsset{geoAsset("sat-1", "WGS-9", space.CapabilitySATCOMWideband)}

	_, err := f.controller.Start(context.Background(), "scn-1")
	require.NoError(t, err)

	f.controller.PositionTick(context.Background())
	f.controller.PositionTick(context.Background())
	assert.Equal(t, 0, f.spaces.replaceHits)

	f.controller.PositionTick(context.Background())
	assert.Equal(t, 1, f.spaces.replaceHits)
}
