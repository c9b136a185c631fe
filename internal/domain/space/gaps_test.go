package space_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/wargame-go/internal/domain/space"
)

func ptr(f float64) *float64 { return &f }

func TestDetectGaps_TotalGapWhenNoWindows(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	need := &space.SpaceNeed{
		ID:             "need-1",
		MissionID:      "msn-1",
		CapabilityType: space.CapabilityISRSpace,
		Priority:       1,
		StartTime:      base,
		EndTime:        base.Add(4 * time.Hour),
		CoverageLat:    ptr(25.0),
		CoverageLon:    ptr(121.0),
	}

	gaps := space.DetectGaps([]*space.SpaceNeed{need}, nil)

	require.Len(t, gaps, 1)
	assert.True(t, gaps[0].Total)
	assert.Equal(t, space.GapCritical, gaps[0].Severity)
	assert.Equal(t, need.StartTime, gaps[0].StartTime)
	assert.Equal(t, need.EndTime, gaps[0].EndTime)
}

func TestDetectGaps_HeadAndTailGaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	need := &space.SpaceNeed{
		ID:             "need-1",
		CapabilityType: space.CapabilitySATCOM,
		Priority:       2,
		StartTime:      base,
		EndTime:        base.Add(6 * time.Hour),
		CoverageLat:    ptr(25.0),
		CoverageLon:    ptr(121.0),
	}
	windows := []*space.CoverageWindow{
		{
			Capability: space.CapabilitySATCOM,
			StartTime:  base.Add(time.Hour),
			EndTime:    base.Add(3 * time.Hour),
		},
	}

	gaps := space.DetectGaps([]*space.SpaceNeed{need}, windows)

	require.Len(t, gaps, 2)
	// Head gap before the window, tail gap after it.
	assert.Equal(t, base, gaps[0].StartTime)
	assert.Equal(t, base.Add(time.Hour), gaps[0].EndTime)
	assert.Equal(t, base.Add(3*time.Hour), gaps[1].StartTime)
	assert.Equal(t, base.Add(6*time.Hour), gaps[1].EndTime)
	for _, g := range gaps {
		assert.Equal(t, space.GapDegraded, g.Severity)
		assert.False(t, g.Total)
	}
}

func TestDetectGaps_FullCoverageYieldsNone(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	need := &space.SpaceNeed{
		ID:             "need-1",
		CapabilityType: space.CapabilityGPS,
		Priority:       5,
		StartTime:      base,
		EndTime:        base.Add(2 * time.Hour),
		CoverageLat:    ptr(25.0),
		CoverageLon:    ptr(121.0),
	}
	windows := []*space.CoverageWindow{
		{
			Capability: space.CapabilityGPS,
			StartTime:  base.Add(-time.Hour),
			EndTime:    base.Add(3 * time.Hour),
		},
	}

	gaps := space.DetectGaps([]*space.SpaceNeed{need}, windows)

	assert.Empty(t, gaps)
}

func TestDetectGaps_SkipsFulfilledAndPointlessNeeds(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	needs := []*space.SpaceNeed{
		{
			ID:             "fulfilled",
			CapabilityType: space.CapabilityGPS,
			StartTime:      base,
			EndTime:        base.Add(time.Hour),
			CoverageLat:    ptr(25.0),
			CoverageLon:    ptr(121.0),
			Fulfilled:      true,
		},
		{
			ID:             "no-point",
			CapabilityType: space.CapabilityGPS,
			StartTime:      base,
			EndTime:        base.Add(time.Hour),
		},
	}

	gaps := space.DetectGaps(needs, nil)

	assert.Empty(t, gaps)
}

func TestDetectGaps_SortedBySeverityThenPriority(t *testing.T) {
	base := time.Date(2026, 3, 2, 6, 0, 0, 0, time.UTC)
	mkNeed := func(id string, priority int) *space.SpaceNeed {
		return &space.SpaceNeed{
			ID:             id,
			CapabilityType: space.CapabilityOPIR,
			Priority:       priority,
			StartTime:      base,
			EndTime:        base.Add(time.Hour),
			CoverageLat:    ptr(25.0),
			CoverageLon:    ptr(121.0),
		}
	}
	needs := []*space.SpaceNeed{mkNeed("low", 7), mkNeed("degraded", 3), mkNeed("critical", 1)}

	gaps := space.DetectGaps(needs, nil)

	require.Len(t, gaps, 3)
	assert.Equal(t, "critical", gaps[0].NeedID)
	assert.Equal(t, space.GapCritical, gaps[0].Severity)
	assert.Equal(t, "degraded", gaps[1].NeedID)
	assert.Equal(t, space.GapDegraded, gaps[1].Severity)
	assert.Equal(t, "low", gaps[2].NeedID)
	assert.Equal(t, space.GapLow, gaps[2].Severity)
}
