package scenario_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
)

func campaign() *scenario.Scenario {
	return &scenario.Scenario{
		ID:        "scn-1",
		StartDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		EndDate:   time.Date(2026, 3, 8, 0, 0, 0, 0, time.UTC),
	}
}

func TestScenario_DurationDays(t *testing.T) {
	s := campaign()
	assert.Equal(t, 7, s.DurationDays())

	s.EndDate = s.StartDate.Add(6 * time.Hour)
	assert.Equal(t, 1, s.DurationDays())
}

func TestScenario_ClampToBounds(t *testing.T) {
	s := campaign()

	assert.Equal(t, s.StartDate, s.ClampToBounds(s.StartDate.Add(-time.Hour)))
	assert.Equal(t, s.EndDate, s.ClampToBounds(s.EndDate.Add(time.Hour)))

	mid := s.StartDate.Add(36 * time.Hour)
	assert.Equal(t, mid, s.ClampToBounds(mid))
}

func TestScenario_ATODayFor(t *testing.T) {
	s := campaign()

	assert.Equal(t, 1, s.ATODayFor(s.StartDate))
	assert.Equal(t, 1, s.ATODayFor(s.StartDate.Add(23*time.Hour)))
	assert.Equal(t, 2, s.ATODayFor(s.StartDate.Add(24*time.Hour)))
	assert.Equal(t, 7, s.ATODayFor(s.StartDate.Add(6*24*time.Hour+12*time.Hour)))
	// Before campaign start clamps to day 1.
	assert.Equal(t, 1, s.ATODayFor(s.StartDate.Add(-48*time.Hour)))
}

func TestSimulationState_AdvanceSimTime(t *testing.T) {
	base := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	state := &scenario.SimulationState{
		SimTime:          base,
		CompressionRatio: 720,
	}

	state.AdvanceSimTime(time.Second)

	// One real second at 720x is 12 sim minutes.
	assert.Equal(t, base.Add(12*time.Minute), state.SimTime)
}

func TestInject_ShouldFire(t *testing.T) {
	inj := &scenario.Inject{TriggerDay: 3, TriggerHour: 14}

	assert.False(t, inj.ShouldFire(2, 23))
	assert.False(t, inj.ShouldFire(3, 13))
	assert.True(t, inj.ShouldFire(3, 14))
	assert.True(t, inj.ShouldFire(3, 20))
	// Past-due injects still fire.
	assert.True(t, inj.ShouldFire(4, 0))

	inj.Fired = true
	assert.False(t, inj.ShouldFire(4, 0))
}
