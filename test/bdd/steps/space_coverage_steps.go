package steps

import (
	"context"
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

type spaceCoverageContext struct {
	asset *space.SpaceAsset
	check space.CoverageCheck
}

func (cc *spaceCoverageContext) reset() {
	cc.asset = nil
	cc.check = space.CoverageCheck{}
}

// Given steps

func (cc *spaceCoverageContext) aGeostationarySatelliteParkedAtLongitudeWith(lon float64, capability string) error {
	if !space.IsValidCapability(capability) {
		return fmt.Errorf("unknown capability %q", capability)
	}
	cc.asset = &space.SpaceAsset{
		ID:           "sat-1",
		ScenarioID:   "scn-1",
		Name:         "WGS-9",
		Capabilities: []space.CapabilityType{space.CapabilityType(capability)},
		Status:       space.AssetOperational,
		PeriodMin:    1436,
		BaseLon:      lon,
	}
	return nil
}

// When steps

func (cc *spaceCoverageContext) iCheckCoverageOfTheGroundPointAtFor(lat, lon float64, capability string) error {
	if cc.asset == nil {
		return fmt.Errorf("no satellite available")
	}
	if !space.IsValidCapability(capability) {
		return fmt.Errorf("unknown capability %q", capability)
	}
	pos := space.NewPropagator().PositionAt(cc.asset, time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC))
	if pos == nil {
		return fmt.Errorf("no position for asset %s", cc.asset.ID)
	}
	cc.check = space.CheckCoverage(pos, lat, lon, space.CapabilityType(capability))
	return nil
}

// Then steps

func (cc *spaceCoverageContext) theGroundPointShouldBeCovered() error {
	if !cc.check.InCoverage {
		return fmt.Errorf("expected coverage, but elevation %.2f is below the mask", cc.check.ElevationDeg)
	}
	return nil
}

func (cc *spaceCoverageContext) theGroundPointShouldNotBeCovered() error {
	if cc.check.InCoverage {
		return fmt.Errorf("expected no coverage, but elevation %.2f clears the mask", cc.check.ElevationDeg)
	}
	return nil
}

func (cc *spaceCoverageContext) theElevationShouldBeAtLeastDegrees(min float64) error {
	if cc.check.ElevationDeg < min {
		return fmt.Errorf("expected elevation of at least %.1f, got %.2f", min, cc.check.ElevationDeg)
	}
	return nil
}

func InitializeSpaceCoverageScenario(ctx *godog.ScenarioContext) {
	cc := &spaceCoverageContext{}

	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		cc.reset()
		return ctx, nil
	})

	// Given steps
	ctx.Step(`^a geostationary satellite parked at longitude (-?[0-9.]+) with "([^"]*)"$`, cc.aGeostationarySatelliteParkedAtLongitudeWith)

	// When steps
	ctx.Step(`^I check coverage of the ground point at (-?[0-9.]+), (-?[0-9.]+) for "([^"]*)"$`, cc.iCheckCoverageOfTheGroundPointAtFor)

	// Then steps
	ctx.Step(`^the ground point should be covered$`, cc.theGroundPointShouldBeCovered)
	ctx.Step(`^the ground point should not be covered$`, cc.theGroundPointShouldNotBeCovered)
	ctx.Step(`^the elevation should be at least ([0-9.]+) degrees$`, cc.theElevationShouldBeAtLeastDegrees)
}
