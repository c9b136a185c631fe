package space_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

func capPtr(c space.CapabilityType) *space.CapabilityType { return &c }

func annotated(need *space.SpaceNeed, pkgPriority, strategyRank int) *space.AnnotatedNeed {
	return &space.AnnotatedNeed{SpaceNeed: need, PackagePriority: pkgPriority, StrategyRank: strategyRank}
}

func supplierFixture(base time.Time) ([]*space.SpaceAsset, []*space.CoverageWindow) {
	asset := &space.SpaceAsset{
		ID:           "milstar-1",
		Name:         "AEHF-5",
		Capabilities: []space.CapabilityType{space.CapabilitySATCOMProtected},
		Status:       space.AssetOperational,
	}
	windows := []*space.CoverageWindow{
		{
			AssetID:    "milstar-1",
			Capability: space.CapabilitySATCOMProtected,
			StartTime:  base.Add(-time.Hour),
			EndTime:    base.Add(12 * time.Hour),
		},
	}
	return []*space.SpaceAsset{asset}, windows
}

func TestAllocate_UncontendedFulfilled(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assets, windows := supplierFixture(base)

	need := annotated(&space.SpaceNeed{
		ID:             "need-1",
		MissionID:      "msn-1",
		CapabilityType: space.CapabilitySATCOMProtected,
		Priority:       1,
		StartTime:      base,
		EndTime:        base.Add(2 * time.Hour),
	}, 1, 1)

	report := space.Allocate([]*space.AnnotatedNeed{need}, assets, windows)

	require.Len(t, report.Allocations, 1)
	assert.Equal(t, space.AllocationFulfilled, report.Allocations[0].Status)
	assert.Equal(t, "milstar-1", report.Allocations[0].AssetID)
	assert.Empty(t, report.Contentions)
	assert.Equal(t, space.RiskLow, report.Summary.RiskLevel)
}

func TestAllocate_ContentionWinnerAndFallback(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assets, windows := supplierFixture(base)

	winner := annotated(&space.SpaceNeed{
		ID:                 "need-rank1",
		MissionID:          "msn-1",
		CapabilityType:     space.CapabilitySATCOMProtected,
		Priority:           1,
		StartTime:          base,
		EndTime:            base.Add(3 * time.Hour),
		MissionCriticality: space.CriticalityEssential,
	}, 1, 1)

	loser := annotated(&space.SpaceNeed{
		ID:                 "need-rank3",
		MissionID:          "msn-2",
		CapabilityType:     space.CapabilitySATCOMProtected,
		Priority:           2,
		StartTime:          base.Add(time.Hour),
		EndTime:            base.Add(4 * time.Hour),
		FallbackCapability: capPtr(space.CapabilityGPSMilitary),
		MissionCriticality: space.CriticalityEssential,
	}, 2, 3)

	report := space.Allocate([]*space.AnnotatedNeed{loser, winner}, assets, windows)

	require.Len(t, report.Allocations, 2)
	require.Len(t, report.Contentions, 1)
	assert.Equal(t, "need-rank1", report.Contentions[0].WinnerID)

	byID := map[string]*space.Allocation{}
	for _, a := range report.Allocations {
		byID[a.NeedID] = a
	}
	assert.Equal(t, space.AllocationFulfilled, byID["need-rank1"].Status)
	assert.Equal(t, space.AllocationDegraded, byID["need-rank3"].Status)
	assert.Equal(t, space.CapabilityGPSMilitary, byID["need-rank3"].AllocatedCapability)
	assert.Equal(t, space.RiskModerate, report.Summary.RiskLevel)
}

func TestAllocate_LoserWithoutFallbackDenied(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assets, windows := supplierFixture(base)

	winner := annotated(&space.SpaceNeed{
		ID:             "a",
		CapabilityType: space.CapabilitySATCOMProtected,
		StartTime:      base,
		EndTime:        base.Add(2 * time.Hour),
	}, 1, 1)
	loser := annotated(&space.SpaceNeed{
		ID:             "b",
		CapabilityType: space.CapabilitySATCOMProtected,
		StartTime:      base,
		EndTime:        base.Add(2 * time.Hour),
	}, 2, 2)

	report := space.Allocate([]*space.AnnotatedNeed{winner, loser}, assets, windows)

	byID := map[string]*space.Allocation{}
	for _, a := range report.Allocations {
		byID[a.NeedID] = a
	}
	assert.Equal(t, space.AllocationFulfilled, byID["a"].Status)
	assert.Equal(t, space.AllocationDenied, byID["b"].Status)
	assert.Equal(t, space.RiskHigh, report.Summary.RiskLevel)
}

func TestAllocate_CriticalityBreaksStrategyTie(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assets, windows := supplierFixture(base)

	routine := annotated(&space.SpaceNeed{
		ID:                 "routine",
		CapabilityType:     space.CapabilitySATCOMProtected,
		StartTime:          base,
		EndTime:            base.Add(2 * time.Hour),
		MissionCriticality: space.CriticalityRoutine,
	}, 1, space.UntracedStrategyRank)
	critical := annotated(&space.SpaceNeed{
		ID:                 "critical",
		CapabilityType:     space.CapabilitySATCOMProtected,
		StartTime:          base,
		EndTime:            base.Add(2 * time.Hour),
		MissionCriticality: space.CriticalityCritical,
	}, 5, space.UntracedStrategyRank)

	report := space.Allocate([]*space.AnnotatedNeed{routine, critical}, assets, windows)

	require.Len(t, report.Contentions, 1)
	assert.Equal(t, "critical", report.Contentions[0].WinnerID)
}

func TestAllocate_DeniedCriticalNeedEscalatesRisk(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)

	// No assets at all: the uncontended critical need is denied outright.
	need := annotated(&space.SpaceNeed{
		ID:                 "crit",
		CapabilityType:     space.CapabilityOPIR,
		StartTime:          base,
		EndTime:            base.Add(time.Hour),
		MissionCriticality: space.CriticalityCritical,
	}, 1, 1)

	report := space.Allocate([]*space.AnnotatedNeed{need}, nil, nil)

	require.Len(t, report.Allocations, 1)
	assert.Equal(t, space.AllocationDenied, report.Allocations[0].Status)
	assert.Equal(t, space.RiskCritical, report.Summary.RiskLevel)
}

func TestAllocate_NonOverlappingNeedsDoNotContend(t *testing.T) {
	base := time.Date(2026, 3, 3, 0, 0, 0, 0, time.UTC)
	assets, windows := supplierFixture(base)

	first := annotated(&space.SpaceNeed{
		ID:             "first",
		CapabilityType: space.CapabilitySATCOMProtected,
		StartTime:      base,
		EndTime:        base.Add(time.Hour),
	}, 1, 1)
	second := annotated(&space.SpaceNeed{
		ID:             "second",
		CapabilityType: space.CapabilitySATCOMProtected,
		StartTime:      base.Add(2 * time.Hour),
		EndTime:        base.Add(3 * time.Hour),
	}, 1, 1)

	report := space.Allocate([]*space.AnnotatedNeed{first, second}, assets, windows)

	assert.Empty(t, report.Contentions)
	for _, a := range report.Allocations {
		assert.Equal(t, space.AllocationFulfilled, a.Status)
	}
	assert.Equal(t, 2, report.Summary.Fulfilled)
}
