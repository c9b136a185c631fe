package mission_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
)

func missionWithTOT(status mission.Status, tot time.Time) *mission.Mission {
	return &mission.Mission{
		ID:     "msn-1",
		Status: status,
		TimeWindows: []*mission.TimeWindow{
			{WindowType: mission.WindowTOT, StartTime: tot, EndTime: tot.Add(30 * time.Minute)},
		},
	}
}

func TestMission_AdvanceFollowsTable(t *testing.T) {
	tot := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	cases := []struct {
		name     string
		from     mission.Status
		simTime  time.Time
		expected mission.Status
		advanced bool
	}{
		{"briefs at TOT-4h", mission.StatusPlanned, tot.Add(-4 * time.Hour), mission.StatusBriefed, true},
		{"too early to brief", mission.StatusPlanned, tot.Add(-5 * time.Hour), mission.StatusPlanned, false},
		{"launches at TOT-2h", mission.StatusBriefed, tot.Add(-2 * time.Hour), mission.StatusLaunched, true},
		{"airborne at TOT-90m", mission.StatusLaunched, tot.Add(-90 * time.Minute), mission.StatusAirborne, true},
		{"on station at TOT-30m", mission.StatusAirborne, tot.Add(-30 * time.Minute), mission.StatusOnStation, true},
		{"engages at TOT", mission.StatusOnStation, tot, mission.StatusEngaged, true},
		{"egresses at TOT+15m", mission.StatusEngaged, tot.Add(15 * time.Minute), mission.StatusEgressing, true},
		{"RTB at TOT+1h", mission.StatusEgressing, tot.Add(time.Hour), mission.StatusRTB, true},
		{"recovers at TOT+3h", mission.StatusRTB, tot.Add(3 * time.Hour), mission.StatusRecovered, true},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := missionWithTOT(tc.from, tot)
			changed := m.Advance(tc.simTime)
			assert.Equal(t, tc.advanced, changed)
			assert.Equal(t, tc.expected, m.Status)
		})
	}
}

func TestMission_AdvanceNeverSkipsStates(t *testing.T) {
	tot := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	m := missionWithTOT(mission.StatusPlanned, tot)

	// Sim time far past recovery: each call still moves only one state.
	late := tot.Add(6 * time.Hour)

	expected := []mission.Status{
		mission.StatusBriefed, mission.StatusLaunched, mission.StatusAirborne,
		mission.StatusOnStation, mission.StatusEngaged, mission.StatusEgressing,
		mission.StatusRTB, mission.StatusRecovered,
	}
	for _, want := range expected {
		require.True(t, m.Advance(late))
		assert.Equal(t, want, m.Status)
	}

	// Terminal: no further movement.
	assert.False(t, m.Advance(late))
	assert.Equal(t, mission.StatusRecovered, m.Status)
}

func TestMission_NoTOTWindowNeverAdvances(t *testing.T) {
	m := &mission.Mission{
		Status: mission.StatusPlanned,
		TimeWindows: []*mission.TimeWindow{
			{WindowType: mission.WindowONSTA, StartTime: time.Now()},
		},
	}
	assert.False(t, m.Advance(time.Now().Add(24*time.Hour)))
	assert.Equal(t, mission.StatusPlanned, m.Status)
}

func TestMission_TransitionToOffRamps(t *testing.T) {
	tot := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)

	m := missionWithTOT(mission.StatusAirborne, tot)
	require.NoError(t, m.TransitionTo(mission.StatusDelayed))
	assert.Equal(t, mission.StatusDelayed, m.Status)

	// Terminal states reject further off-ramps.
	assert.Error(t, m.TransitionTo(mission.StatusLost))
}

func TestMission_TransitionToRejectsSkips(t *testing.T) {
	tot := time.Date(2026, 3, 2, 12, 0, 0, 0, time.UTC)
	m := missionWithTOT(mission.StatusPlanned, tot)

	err := m.TransitionTo(mission.StatusEngaged)
	assert.Error(t, err)
	assert.Equal(t, mission.StatusPlanned, m.Status)

	require.NoError(t, m.TransitionTo(mission.StatusBriefed))
	assert.Equal(t, mission.StatusBriefed, m.Status)
}

func TestStatus_IsActive(t *testing.T) {
	assert.False(t, mission.StatusPlanned.IsActive())
	assert.False(t, mission.StatusBriefed.IsActive())
	assert.True(t, mission.StatusLaunched.IsActive())
	assert.True(t, mission.StatusRTB.IsActive())
	assert.False(t, mission.StatusRecovered.IsActive())
	assert.False(t, mission.StatusDelayed.IsActive())
	assert.False(t, mission.StatusLost.IsActive())
}

func TestMission_ValidateWaypointSequence(t *testing.T) {
	m := &mission.Mission{
		Waypoints: []*mission.Waypoint{
			{Sequence: 2}, {Sequence: 1}, {Sequence: 3},
		},
	}
	assert.NoError(t, m.ValidateWaypointSequence())

	m.Waypoints[2].Sequence = 2
	assert.Error(t, m.ValidateWaypointSequence())

	m.Waypoints[2].Sequence = 5
	assert.Error(t, m.ValidateWaypointSequence())
}
