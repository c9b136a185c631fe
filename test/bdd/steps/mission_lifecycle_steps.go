package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/wargame-go/internal/domain/mission"
)

type missionLifecycleContext struct {
	mission *mission.Mission
	err     error
}

func (mc *missionLifecycleContext) reset() {
	mc.mission = nil
	mc.err = nil
}

func (mc *missionLifecycleContext) newMission(windows []*mission.TimeWindow) {
	mc.mission = &mission.Mission{
		ID:          "m-1",
		MissionID:   "OCA1001",
		Callsign:    "VIPER 11",
		Domain:      mission.DomainAir,
		Status:      mission.StatusPlanned,
		Affiliation: mission.AffiliationFriendly,
		TimeWindows: windows,
	}
}

// Given steps

func (mc *missionLifecycleContext) aPlannedAirMissionWithTimeOnTargetAt(raw string) error {
	tot, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid time on target %q: %w", raw, err)
	}
	mc.newMission([]*mission.TimeWindow{
		{WindowType: mission.WindowTOT, StartTime: tot, EndTime: tot.Add(15 * time.Minute)},
	})
	return nil
}

func (mc *missionLifecycleContext) aPlannedAirMissionWithoutATimeOnTargetWindow() error {
	mc.newMission(nil)
	return nil
}

// When steps

func (mc *missionLifecycleContext) theSimulationClockReaches(raw string) error {
	if mc.mission == nil {
		return fmt.Errorf("no mission available")
	}
	simTime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid simulation time %q: %w", raw, err)
	}
	// The engine advances one state per tick; draining the table here
	// models many ticks passing.
	for mc.mission.Advance(simTime) {
	}
	return nil
}

func (mc *missionLifecycleContext) theMissionIsDelayed() error {
	if mc.mission == nil {
		return fmt.Errorf("no mission available")
	}
	mc.err = mc.mission.TransitionTo(mission.StatusDelayed)
	return nil
}

// Then steps

func (mc *missionLifecycleContext) theMissionStatusShouldBe(expected string) error {
	if mc.mission == nil {
		return fmt.Errorf("no mission available")
	}
	if string(mc.mission.Status) != expected {
		return fmt.Errorf("expected status %s, got %s", expected, mc.mission.Status)
	}
	return nil
}

func (mc *missionLifecycleContext) theMissionShouldBeActive() error {
	if !mc.mission.Status.IsActive() {
		return fmt.Errorf("expected mission to be active, but status is %s", mc.mission.Status)
	}
	return nil
}

func (mc *missionLifecycleContext) theMissionShouldNotBeActive() error {
	if mc.mission.Status.IsActive() {
		return fmt.Errorf("expected mission not to be active, but status is %s", mc.mission.Status)
	}
	return nil
}

func (mc *missionLifecycleContext) theDelayShouldBeRejected() error {
	if mc.err == nil {
		return fmt.Errorf("expected the delay to be rejected, but it succeeded")
	}
	return nil
}

func InitializeMissionLifecycleScenario(ctx *godog.ScenarioContext) {
	mc := &missionLifecycleContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		mc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a planned air mission with time on target at "([^"]*)"$`, mc.aPlannedAirMissionWithTimeOnTargetAt)
	ctx.Step(`^a planned air mission without a time on target window$`, mc.aPlannedAirMissionWithoutATimeOnTargetWindow)

	// When steps
	ctx.Step(`^the simulation clock reaches "([^"]*)"$`, mc.theSimulationClockReaches)
	ctx.Step(`^the mission is delayed$`, mc.theMissionIsDelayed)

	// Then steps
	ctx.Step(`^the mission status should be "([^"]*)"$`, mc.theMissionStatusShouldBe)
	ctx.Step(`^the mission should be active$`, mc.theMissionShouldBeActive)
	ctx.Step(`^the mission should not be active$`, mc.theMissionShouldNotBeActive)
	ctx.Step(`^the delay should be rejected$`, mc.theDelayShouldBeRejected)
}
