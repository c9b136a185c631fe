package space

import (
	"sort"
	"time"
)

// GapSeverity grades a coverage gap by the priority of the need it starves.
type GapSeverity string

const (
	GapCritical GapSeverity = "CRITICAL"
	GapDegraded GapSeverity = "DEGRADED"
	GapLow      GapSeverity = "LOW"
)

var gapSeverityOrder = map[GapSeverity]int{
	GapCritical: 0,
	GapDegraded: 1,
	GapLow:      2,
}

// CoverageGap is an interval inside a need's window with no matching
// coverage.
type CoverageGap struct {
	NeedID     string
	MissionID  string
	Capability CapabilityType
	StartTime  time.Time
	EndTime    time.Time
	Severity   GapSeverity
	Priority   int
	Total      bool
}

// severityForPriority maps a need's priority rank to a gap severity.
func severityForPriority(priority int) GapSeverity {
	switch {
	case priority <= 1:
		return GapCritical
	case priority <= 3:
		return GapDegraded
	default:
		return GapLow
	}
}

// DetectGaps finds uncovered intervals for every unfulfilled need that
// carries a coverage point. A need with no matching windows yields a
// single total gap; otherwise the matching windows are swept in start
// order and every uncovered segment, including head and tail, becomes a
// gap. Output is sorted by severity then priority.
func DetectGaps(needs []*SpaceNeed, windows []*CoverageWindow) []*CoverageGap {
	var gaps []*CoverageGap

	for _, need := range needs {
		if need.Fulfilled || !need.HasCoveragePoint() {
			continue
		}

		var matching []*CoverageWindow
		for _, w := range windows {
			if w.Capability == need.CapabilityType && w.Overlaps(need.StartTime, need.EndTime) {
				matching = append(matching, w)
			}
		}

		severity := severityForPriority(need.Priority)

		if len(matching) == 0 {
			gaps = append(gaps, &CoverageGap{
				NeedID:     need.ID,
				MissionID:  need.MissionID,
				Capability: need.CapabilityType,
				StartTime:  need.StartTime,
				EndTime:    need.EndTime,
				Severity:   severity,
				Priority:   need.Priority,
				Total:      true,
			})
			continue
		}

		sort.Slice(matching, func(i, j int) bool {
			return matching[i].StartTime.Before(matching[j].StartTime)
		})

		cursor := need.StartTime
		for _, w := range matching {
			if w.StartTime.After(cursor) {
				gaps = append(gaps, &CoverageGap{
					NeedID:     need.ID,
					MissionID:  need.MissionID,
					Capability: need.CapabilityType,
					StartTime:  cursor,
					EndTime:    w.StartTime,
					Severity:   severity,
					Priority:   need.Priority,
				})
			}
			if w.EndTime.After(cursor) {
				cursor = w.EndTime
			}
		}
		if cursor.Before(need.EndTime) {
			gaps = append(gaps, &CoverageGap{
				NeedID:     need.ID,
				MissionID:  need.MissionID,
				Capability: need.CapabilityType,
				StartTime:  cursor,
				EndTime:    need.EndTime,
				Severity:   severity,
				Priority:   need.Priority,
			})
		}
	}

	sort.SliceStable(gaps, func(i, j int) bool {
		si, sj := gapSeverityOrder[gaps[i].Severity], gapSeverityOrder[gaps[j].Severity]
		if si != sj {
			return si < sj
		}
		return gaps[i].Priority < gaps[j].Priority
	})
	return gaps
}
