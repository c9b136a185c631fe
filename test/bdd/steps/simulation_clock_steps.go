package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/wargame-go/internal/domain/scenario"
)

type simulationClockContext struct {
	campaign *scenario.Scenario
	state    *scenario.SimulationState
	inject   *scenario.Inject
	fired    bool
}

func (sc *simulationClockContext) reset() {
	sc.campaign = nil
	sc.state = nil
	sc.inject = nil
	sc.fired = false
}

// Given steps

func (sc *simulationClockContext) aCampaignRunningFromTo(rawStart, rawEnd string) error {
	start, err := time.Parse(time.RFC3339, rawStart)
	if err != nil {
		return fmt.Errorf("invalid start %q: %w", rawStart, err)
	}
	end, err := time.Parse(time.RFC3339, rawEnd)
	if err != nil {
		return fmt.Errorf("invalid end %q: %w", rawEnd, err)
	}
	sc.campaign = &scenario.Scenario{
		ID:        "scn-1",
		Name:      "Pacific Resolve",
		StartDate: start,
		EndDate:   end,
	}
	return nil
}

func (sc *simulationClockContext) aSimulationClockAtCompressingTimeTo1(raw string, ratio int) error {
	simTime, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid sim time %q: %w", raw, err)
	}
	sc.state = &scenario.SimulationState{
		ID:               "st-1",
		ScenarioID:       "scn-1",
		Status:           scenario.SimRunning,
		SimTime:          simTime,
		RealStartTime:    simTime,
		CompressionRatio: float64(ratio),
		CurrentATODay:    1,
	}
	return nil
}

func (sc *simulationClockContext) anInjectScheduledForDayAtHour(day, hour int) error {
	sc.inject = &scenario.Inject{
		ID:          "inj-1",
		ScenarioID:  "scn-1",
		TriggerDay:  day,
		TriggerHour: hour,
		InjectType:  scenario.InjectSpace,
		Title:       "GPS jamming over the strait",
	}
	return nil
}

func (sc *simulationClockContext) theInjectHasAlreadyFired() error {
	if sc.inject == nil {
		return fmt.Errorf("no inject available")
	}
	sc.inject.Fired = true
	return nil
}

// When steps

func (sc *simulationClockContext) realSecondsElapse(seconds int) error {
	if sc.state == nil {
		return fmt.Errorf("no simulation clock available")
	}
	sc.state.AdvanceSimTime(time.Duration(seconds) * time.Second)
	return nil
}

func (sc *simulationClockContext) theClockShowsDayHour(day, hour int) error {
	if sc.inject == nil {
		return fmt.Errorf("no inject available")
	}
	sc.fired = sc.inject.ShouldFire(day, hour)
	return nil
}

// Then steps

func (sc *simulationClockContext) theSimulationTimeShouldBe(raw string) error {
	want, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid expected time %q: %w", raw, err)
	}
	if !sc.state.SimTime.Equal(want) {
		return fmt.Errorf("expected sim time %s, got %s", want, sc.state.SimTime)
	}
	return nil
}

func (sc *simulationClockContext) theATODayAtShouldBe(raw string, expected int) error {
	if sc.campaign == nil {
		return fmt.Errorf("no campaign available")
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return fmt.Errorf("invalid time %q: %w", raw, err)
	}
	if got := sc.campaign.ATODayFor(t); got != expected {
		return fmt.Errorf("expected ATO day %d, got %d", expected, got)
	}
	return nil
}

func (sc *simulationClockContext) seekingToShouldClampTo(rawTarget, rawWant string) error {
	if sc.campaign == nil {
		return fmt.Errorf("no campaign available")
	}
	target, err := time.Parse(time.RFC3339, rawTarget)
	if err != nil {
		return fmt.Errorf("invalid target %q: %w", rawTarget, err)
	}
	want, err := time.Parse(time.RFC3339, rawWant)
	if err != nil {
		return fmt.Errorf("invalid expected time %q: %w", rawWant, err)
	}
	if got := sc.campaign.ClampToBounds(target); !got.Equal(want) {
		return fmt.Errorf("expected clamp to %s, got %s", want, got)
	}
	return nil
}

func (sc *simulationClockContext) theInjectShouldFire() error {
	if !sc.fired {
		return fmt.Errorf("expected the inject to fire, but it did not")
	}
	return nil
}

func (sc *simulationClockContext) theInjectShouldNotFire() error {
	if sc.fired {
		return fmt.Errorf("expected the inject not to fire, but it did")
	}
	return nil
}

func InitializeSimulationClockScenario(ctx *godog.ScenarioContext) {
	sc := &simulationClockContext{}

	ctx.Before(func(ctx context.Context, scn *godog.Scenario) (context.Context, error) {
		sc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a campaign running from "([^"]*)" to "([^"]*)"$`, sc.aCampaignRunningFromTo)
	ctx.Step(`^a simulation clock at "([^"]*)" compressing time (\d+) to 1$`, sc.aSimulationClockAtCompressingTimeTo1)
	ctx.Step(`^an inject scheduled for day (\d+) at hour (\d+)$`, sc.anInjectScheduledForDayAtHour)
	ctx.Step(`^the inject has already fired$`, sc.theInjectHasAlreadyFired)

	// When steps
	ctx.Step(`^(\d+) real seconds elapse$`, sc.realSecondsElapse)
	ctx.Step(`^the clock shows day (\d+) hour (\d+)$`, sc.theClockShowsDayHour)

	// Then steps
	ctx.Step(`^the simulation time should be "([^"]*)"$`, sc.theSimulationTimeShouldBe)
	ctx.Step(`^the ATO day at "([^"]*)" should be (\d+)$`, sc.theATODayAtShouldBe)
	ctx.Step(`^seeking to "([^"]*)" should clamp to "([^"]*)"$`, sc.seekingToShouldClampTo)
	ctx.Step(`^the inject should fire$`, sc.theInjectShouldFire)
	ctx.Step(`^the inject should not fire$`, sc.theInjectShouldNotFire)
}
