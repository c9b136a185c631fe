package mission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
)

func routedMission(windowStart time.Time) *mission.Mission {
	alt := 25000.0
	return &mission.Mission{
		ID:     "msn-1",
		Domain: mission.DomainAir,
		Status: mission.StatusAirborne,
		Waypoints: []*mission.Waypoint{
			{Sequence: 1, WaypointType: mission.WaypointDEP, Lat: 0, Lon: 0, AltitudeFt: &alt},
			{Sequence: 2, WaypointType: mission.WaypointTGT, Lat: 0, Lon: 5},
			{Sequence: 3, WaypointType: mission.WaypointREC, Lat: 0, Lon: 10},
		},
		TimeWindows: []*mission.TimeWindow{
			{WindowType: mission.WindowTOT, StartTime: windowStart, EndTime: windowStart.Add(time.Hour)},
		},
	}
}

func TestInterpolator_BeforeStartPinsToFirstWaypoint(t *testing.T) {
	ip := mission.NewInterpolator(0.3)
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	m := routedMission(start)

	pos := ip.PositionAt(m, start.Add(-48*time.Hour))

	require.NotNil(t, pos)
	assert.Equal(t, 0.0, pos.Lat)
	assert.Equal(t, 0.0, pos.Lon)
	assert.Equal(t, 0.0, pos.SpeedKts)
	assert.False(t, pos.AtRouteEnd)
	// Heading toward the next waypoint due east.
	assert.InDelta(t, 90.0, pos.HeadingDeg, 0.5)
}

func TestInterpolator_PastRouteEndPinsToLastWaypoint(t *testing.T) {
	ip := mission.NewInterpolator(0.3)
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	m := routedMission(start)

	pos := ip.PositionAt(m, start.Add(72*time.Hour))

	require.NotNil(t, pos)
	assert.True(t, pos.AtRouteEnd)
	assert.Equal(t, 10.0, pos.Lon)
	assert.Equal(t, 0.0, pos.SpeedKts)
}

func TestInterpolator_MidRoutePosition(t *testing.T) {
	ip := mission.NewInterpolator(0.3)
	start := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	m := routedMission(start)

	// The 10 degree equatorial route is ~1113 km; at 450 kts (~833 km/h)
	// total flight is ~80 minutes, so the inferred start is ~24 minutes
	// before the window. Sample shortly after the inferred start.
	pos := ip.PositionAt(m, start.Add(-10*time.Minute))

	require.NotNil(t, pos)
	assert.False(t, pos.AtRouteEnd)
	assert.Greater(t, pos.Lon, 0.0)
	assert.Less(t, pos.Lon, 10.0)
	assert.InDelta(t, 0.0, pos.Lat, 0.01)
	assert.Equal(t, 450.0, pos.SpeedKts)
	require.NotNil(t, pos.AltitudeFt)
	assert.Equal(t, 25000.0, *pos.AltitudeFt)
}

func TestInterpolator_RequiresRouteAndWindow(t *testing.T) {
	ip := mission.NewInterpolator(0)

	single := &mission.Mission{
		Waypoints: []*mission.Waypoint{{Sequence: 1}},
	}
	assert.Nil(t, ip.PositionAt(single, time.Now()))

	windowless := &mission.Mission{
		Waypoints: []*mission.Waypoint{
			{Sequence: 1, Lat: 0, Lon: 0},
			{Sequence: 2, Lat: 0, Lon: 1},
		},
	}
	assert.Nil(t, ip.PositionAt(windowless, time.Now()))
}
